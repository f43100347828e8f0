package authapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"snsfeed/cmd/internal/auth/session"
	"snsfeed/cmd/internal/httpx"
)

// User-facing messages.
const (
	msgBadCredentials      = "아이디 또는 비밀번호가 올바르지 않습니다"
	msgInvalidRefreshToken = "유효하지 않은 리프레시 토큰입니다"
	msgExpiredRefreshToken = "만료된 리프레시 토큰입니다"
	msgRefreshTokenMissing = "리프레시 토큰이 필요합니다"
)

// Handler wires HTTP auth endpoints to the session manager.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	sessions *session.Manager
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, sessions *session.Manager) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if sessions == nil {
		return nil, errors.New("auth: nil session manager")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{log: log, cfg: cfg, sessions: sessions}, nil
}

// Register wires auth routes onto r.
func (h *Handler) Register(r chi.Router) {
	if h == nil || r == nil {
		return
	}
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.With(h.RequireAuth).Post("/logout", h.handleLogout)
	})
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	obj, err := httpx.DecodeObject(w, r, h.cfg.MaxBodyBytes)
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}
	req, err := parseLoginRequest(obj)
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	ctx := r.Context()
	client := session.ClientContext{
		UserAgent: emptyToNil(r.UserAgent()),
		IPAddress: ClientAddress(r),
	}

	res, err := h.sessions.Login(ctx, session.LoginInput{
		LoginID:  req.LoginID,
		Password: req.Password,
		DeviceID: req.DeviceID,
	}, client)
	if err != nil {
		if errors.Is(err, session.ErrAuthenticationFailed) {
			h.auditLoginFailed(ctx, req.LoginID, client.IPAddress)
		}
		h.writeSessionError(w, "auth.login.fail", err)
		return
	}

	h.auditLoginSuccess(ctx, res.User.ID, client.IPAddress, req.DeviceID)
	httpx.WriteJSON(w, http.StatusOK, toLoginResponse(res))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := h.decodeRefreshToken(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	pair, err := h.sessions.Refresh(ctx, token)
	if err != nil {
		h.auditRefreshRejected(ctx, err, ClientAddress(r))
		h.writeSessionError(w, "auth.refresh.fail", err)
		return
	}

	h.auditRefreshSuccess(ctx, ClientAddress(r))
	httpx.WriteJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.decodeRefreshToken(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	msg, err := h.sessions.Logout(ctx, token)
	if err != nil {
		h.writeSessionError(w, "auth.logout.fail", err)
		return
	}

	claims, _ := ClaimsFromContext(ctx)
	h.auditLogout(ctx, claims.UserID, ClientAddress(r))
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// ---- middleware ----

type claimsKey struct{}

// RequireAuth rejects requests without a valid bearer access token with a bare 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.WriteUnauthorized(w)
			return
		}
		claims, err := h.sessions.VerifyAccessToken(token)
		if err != nil {
			httpx.WriteUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// ClaimsFromContext returns the access-token claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (session.AccessClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(session.AccessClaims)
	return c, ok
}

// ---- helpers ----

func (h *Handler) decodeRefreshToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	obj, err := httpx.DecodeObject(w, r, h.cfg.MaxBodyBytes)
	if err == nil {
		err = obj.Only("refreshToken")
	}
	var token string
	if err == nil {
		token, err = obj.String("refreshToken")
	}
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return "", false
	}
	return token, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, event string, err error) {
	switch {
	case errors.Is(err, session.ErrAuthenticationFailed):
		httpx.WriteError(w, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, session.ErrInvalidRefreshToken):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidRefreshToken)
	case errors.Is(err, session.ErrRefreshTokenExpired):
		httpx.WriteError(w, http.StatusUnauthorized, msgExpiredRefreshToken)
	case errors.Is(err, session.ErrRefreshTokenRequired):
		httpx.WriteError(w, http.StatusBadRequest, msgRefreshTokenMissing)
	default:
		h.log.Error(event, "err", err)
		httpx.WriteInternal(w)
	}
}

func parseLoginRequest(obj httpx.Object) (loginRequest, error) {
	if err := obj.Only("loginId", "password", "deviceId"); err != nil {
		return loginRequest{}, err
	}

	var (
		req loginRequest
		err error
	)
	if req.LoginID, err = obj.String("loginId"); err != nil {
		return loginRequest{}, err
	}
	if req.Password, err = obj.String("password"); err != nil {
		return loginRequest{}, err
	}
	deviceID, err := obj.OptionalString("deviceId")
	if err != nil {
		return loginRequest{}, err
	}
	if deviceID != nil {
		req.DeviceID = emptyToNil(*deviceID)
	}
	return req, nil
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
