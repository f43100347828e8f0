package authapi

import (
	"context"
	"errors"
	"log/slog"

	"snsfeed/cmd/internal/auth/session"
)

// Audit events are structured log lines. Token values are never included.

func (h *Handler) auditLoginFailed(ctx context.Context, loginID, ip string) {
	h.audit(ctx, "auth.login.failed", slog.String("login_id", loginID), slog.String("ip", ip))
}

func (h *Handler) auditLoginSuccess(ctx context.Context, userID int64, ip string, deviceID *string) {
	attrs := []slog.Attr{slog.Int64("user_id", userID), slog.String("ip", ip)}
	if deviceID != nil {
		attrs = append(attrs, slog.String("device_id", *deviceID))
	}
	h.audit(ctx, "auth.login.success", attrs...)
}

func (h *Handler) auditRefreshSuccess(ctx context.Context, ip string) {
	h.audit(ctx, "auth.refresh.success", slog.String("ip", ip))
}

func (h *Handler) auditRefreshRejected(ctx context.Context, err error, ip string) {
	var reason string
	switch {
	case errors.Is(err, session.ErrRefreshTokenExpired):
		reason = "expired"
	case errors.Is(err, session.ErrInvalidRefreshToken):
		reason = "invalid"
	default:
		return
	}
	h.audit(ctx, "auth.refresh.rejected", slog.String("reason", reason), slog.String("ip", ip))
}

func (h *Handler) auditLogout(ctx context.Context, userID int64, ip string) {
	h.audit(ctx, "auth.logout", slog.Int64("user_id", userID), slog.String("ip", ip))
}

func (h *Handler) audit(ctx context.Context, action string, attrs ...slog.Attr) {
	if h == nil || h.log == nil {
		return
	}
	h.log.LogAttrs(ctx, slog.LevelInfo, action, attrs...)
}
