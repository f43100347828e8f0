package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snsfeed/cmd/identity"
	"snsfeed/cmd/security/password"
	"snsfeed/cmd/security/token"
)

// LogoutMessage is the acknowledgement returned by a successful logout.
const LogoutMessage = "로그아웃되었습니다"

// Manager implements login, refresh-token rotation and logout.
//
// It holds no mutable state of its own; every operation is request scoped and
// concurrency is resolved by the Store (conditional rotation update).
type Manager struct {
	cfg       Config
	users     UserFinder
	passwords PasswordVerifier
	store     Store
	tokens    AccessTokenManager

	now      func() time.Time
	newToken func() string
	metrics  *Metrics
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTokenSource overrides the opaque refresh-token generator.
func WithTokenSource(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newToken = gen
		}
	}
}

// WithMetrics records operation outcomes.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager wires the session manager to its collaborators.
func NewManager(cfg Config, users UserFinder, passwords PasswordVerifier, store Store, tokens AccessTokenManager, opts ...Option) *Manager {
	m := &Manager{
		cfg:       cfg,
		users:     users,
		passwords: passwords,
		store:     store,
		tokens:    tokens,
		now:       func() time.Time { return time.Now().UTC() },
		newToken:  token.GenerateOpaque,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cfg.RefreshTokenTTL <= 0 {
		m.cfg.RefreshTokenTTL = DefaultConfig().RefreshTokenTTL
	}
	return m
}

// LoginInput carries already-validated credentials.
type LoginInput struct {
	LoginID  string
	Password string
	DeviceID *string
}

// ClientContext describes the caller as resolved by the transport layer.
type ClientContext struct {
	UserAgent *string
	IPAddress string
}

// Profile is the public view of a user returned by login.
type Profile struct {
	ID              int64
	LoginID         string
	Name            string
	Nickname        string
	ProfileImageURL string
}

// TokenPair is an access token and its refresh token.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User Profile
	TokenPair
}

// Login verifies credentials and issues a new token pair, inserting one refresh token row.
//
// Unknown users and wrong passwords both fail with ErrAuthenticationFailed; an unknown
// user is rejected before any password comparison.
func (m *Manager) Login(ctx context.Context, in LoginInput, client ClientContext) (res LoginResult, err error) {
	const op = "session.Login"
	defer func() { m.metrics.observe(OpLogin, err) }()

	u, err := m.users.FindByLoginID(ctx, in.LoginID)
	if err != nil {
		if identity.IsNotFound(err) {
			return LoginResult{}, ErrAuthenticationFailed
		}
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := m.passwords.Verify(u.PasswordHash, in.Password)
	if err != nil {
		// An unusable stored hash cannot authenticate anyone.
		if errors.Is(err, password.ErrInvalidHash) {
			return LoginResult{}, ErrAuthenticationFailed
		}
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return LoginResult{}, ErrAuthenticationFailed
	}

	now := m.now()

	access, accessExp, err := m.tokens.Issue(u.ID, u.LoginID, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	refresh := m.newToken()
	refreshExp := now.Add(m.cfg.RefreshTokenTTL)

	if _, err := m.store.Insert(ctx, NewRefreshToken{
		UserID:    u.ID,
		Token:     refresh,
		DeviceID:  in.DeviceID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		ExpiresAt: refreshExp,
		CreatedAt: now,
	}); err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return LoginResult{
		User: Profile{
			ID:              u.ID,
			LoginID:         u.LoginID,
			Name:            u.Name,
			Nickname:        u.Nickname,
			ProfileImageURL: u.ProfileImageOrDefault(),
		},
		TokenPair: TokenPair{
			AccessToken:  access,
			AccessExp:    accessExp,
			RefreshToken: refresh,
			RefreshExp:   refreshExp,
		},
	}, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored row in place.
//
// The previous token value stops matching as soon as the update commits. When two
// callers race on the same token exactly one wins; the other gets ErrInvalidRefreshToken.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (pair TokenPair, err error) {
	const op = "session.Refresh"
	defer func() { m.metrics.observe(OpRefresh, err) }()

	rec, err := m.lookup(ctx, op, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	now := m.now()
	if rec.Expired(now) {
		if err := m.store.Delete(ctx, rec.ID); err != nil {
			return TokenPair{}, fmt.Errorf("%s: %w", op, err)
		}
		return TokenPair{}, ErrRefreshTokenExpired
	}

	access, accessExp, err := m.tokens.Issue(rec.Owner.ID, rec.Owner.LoginID, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	next := m.newToken()
	nextExp := now.Add(m.cfg.RefreshTokenTTL)

	if err := m.store.Rotate(ctx, rec.ID, rec.Token, next, nextExp, now); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: next,
		RefreshExp:   nextExp,
	}, nil
}

// Logout deletes the row holding refreshToken and returns LogoutMessage.
//
// Unknown and expired tokens are reported as errors; an expired row is still deleted.
func (m *Manager) Logout(ctx context.Context, refreshToken string) (msg string, err error) {
	const op = "session.Logout"
	defer func() { m.metrics.observe(OpLogout, err) }()

	if strings.TrimSpace(refreshToken) == "" {
		return "", ErrRefreshTokenRequired
	}

	rec, err := m.lookup(ctx, op, refreshToken)
	if err != nil {
		return "", err
	}

	if err := m.store.Delete(ctx, rec.ID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if rec.Expired(m.now()) {
		return "", ErrRefreshTokenExpired
	}
	return LogoutMessage, nil
}

// VerifyAccessToken checks an access token's signature and expiry.
func (m *Manager) VerifyAccessToken(accessToken string) (AccessClaims, error) {
	return m.tokens.Verify(accessToken, m.now())
}

func (m *Manager) lookup(ctx context.Context, op, refreshToken string) (TokenRecord, error) {
	rec, err := m.store.FindByToken(ctx, refreshToken)
	if errors.Is(err, ErrTokenNotFound) {
		return TokenRecord{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return TokenRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}
