package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"snsfeed/cmd/identity"
	"snsfeed/cmd/internal/auth/session"
	"snsfeed/cmd/security/password"
)

type testServer struct {
	srv    *httptest.Server
	users  *identity.MemoryStore
	tokens *session.MemoryStore
	clock  *clock
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pw := password.DefaultConfig()
	pw.Cost = bcrypt.MinCost
	hash, err := pw.Hash("hunter22!")
	require.NoError(t, err)

	users := identity.NewMemoryStore()
	_, err = users.Create(context.Background(), identity.NewUser{
		LoginID: "alice", Name: "Alice", Nickname: "ali", PasswordHash: hash, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.JWTSecret = []byte("handler-test-secret-handler-test")
	jwtMgr, err := session.NewJWTManager(cfg)
	require.NoError(t, err)

	ts := &testServer{users: users, tokens: session.NewMemoryStore(users), clock: &clock{t: time.Now().UTC()}}
	mgr := session.NewManager(cfg, users, pw, ts.tokens, jwtMgr, session.WithClock(ts.clock.Now))

	h, err := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), Config{MaxBodyBytes: 1 << 12}, mgr)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.Register(r)
	ts.srv = httptest.NewServer(r)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) post(t *testing.T, path, bearer, body string, headers ...string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	res, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func (ts *testServer) login(t *testing.T) (access, refresh string) {
	t.Helper()
	status, body := ts.post(t, "/auth/login", "", `{"loginId":"alice","password":"hunter22!"}`)
	require.Equal(t, http.StatusOK, status, body)
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func TestLogin_Success(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.post(t, "/auth/login", "", `{"loginId":"alice","password":"hunter22!","deviceId":"dev-9"}`,
		"X-Forwarded-For", "203.0.113.7, 10.0.0.1", "User-Agent", "snsfeed-test")
	require.Equal(t, http.StatusOK, status)

	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["loginId"])
	assert.Equal(t, "ali", user["nickname"])
	assert.Equal(t, identity.DefaultProfileImageURL, user["profileImageUrl"])
	assert.NotEmpty(t, body["accessToken"])
	assert.Len(t, body["refreshToken"], 128)

	rec, err := ts.tokens.FindByToken(context.Background(), body["refreshToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", rec.IPAddress)
	require.NotNil(t, rec.UserAgent)
	assert.Equal(t, "snsfeed-test", *rec.UserAgent)
	require.NotNil(t, rec.DeviceID)
	assert.Equal(t, "dev-9", *rec.DeviceID)
}

func TestLogin_Failures(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"unknown user", `{"loginId":"nobody","password":"hunter22!"}`, 401, msgBadCredentials},
		{"wrong password", `{"loginId":"alice","password":"nope"}`, 401, msgBadCredentials},
		{"missing loginId", `{"password":"x"}`, 400, "loginId must be a string"},
		{"numeric password", `{"loginId":"alice","password":123}`, 400, "password must be a string"},
		{"unknown property", `{"loginId":"alice","password":"x","admin":true}`, 400, "property admin should not exist"},
		{"empty body", ``, 400, "loginId must be a string"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ts.post(t, "/auth/login", "", tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body["message"])
			assert.Equal(t, float64(tc.status), body["statusCode"])
			assert.Equal(t, http.StatusText(tc.status), body["error"])
		})
	}
	assert.Zero(t, ts.tokens.Len())
}

func TestRefresh_Rotation(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.login(t)

	status, body := ts.post(t, "/auth/refresh", "", `{"refreshToken":"`+a+`"}`)
	require.Equal(t, http.StatusOK, status)
	b := body["refreshToken"].(string)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, body["accessToken"])

	status, body = ts.post(t, "/auth/refresh", "", `{"refreshToken":"`+a+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, msgInvalidRefreshToken, body["message"])

	status, _ = ts.post(t, "/auth/refresh", "", `{"refreshToken":"`+b+`"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestRefresh_ExpiredAndMalformed(t *testing.T) {
	ts := newTestServer(t)
	_, tok := ts.login(t)

	ts.clock.Advance(7 * 24 * time.Hour)
	status, body := ts.post(t, "/auth/refresh", "", `{"refreshToken":"`+tok+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, msgExpiredRefreshToken, body["message"])
	assert.Zero(t, ts.tokens.Len())

	status, body = ts.post(t, "/auth/refresh", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "refreshToken must be a string", body["message"])

	status, body = ts.post(t, "/auth/refresh", "", `{"refreshToken":""}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, msgInvalidRefreshToken, body["message"])
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	access, refresh := ts.login(t)

	// Bearer guard runs before body validation.
	status, body := ts.post(t, "/auth/logout", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["message"])
	assert.NotContains(t, body, "error")

	status, _ = ts.post(t, "/auth/logout", "garbage", `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = ts.post(t, "/auth/logout", access, `{"refreshToken":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, msgRefreshTokenMissing, body["message"])

	status, body = ts.post(t, "/auth/logout", access, `{"refreshToken":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, session.LogoutMessage, body["message"])

	status, body = ts.post(t, "/auth/logout", access, `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, msgInvalidRefreshToken, body["message"])

	status, _ = ts.post(t, "/auth/refresh", "", `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout_ExpiredAccessToken(t *testing.T) {
	ts := newTestServer(t)
	access, refresh := ts.login(t)

	ts.clock.Advance(31 * time.Minute)
	status, _ := ts.post(t, "/auth/logout", access, `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 1, ts.tokens.Len())
}
