package session

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OpLogin   = "login"
	OpRefresh = "refresh"
	OpLogout  = "logout"
)

// Metrics counts session operation outcomes.
type Metrics struct {
	ops *prometheus.CounterVec
}

// NewMetrics registers snsfeed_auth_operations_total on reg. A nil reg leaves the counter unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snsfeed",
		Subsystem: "auth",
		Name:      "operations_total",
		Help:      "Session operations by outcome.",
	}, []string{"operation", "result"})

	if reg != nil {
		reg.MustRegister(ops)
	}
	return &Metrics{ops: ops}
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthenticationFailed), errors.Is(err, ErrInvalidRefreshToken):
		return "invalid"
	case errors.Is(err, ErrRefreshTokenExpired):
		return "expired"
	case errors.Is(err, ErrRefreshTokenRequired):
		return "bad_request"
	default:
		return "error"
	}
}
