package usersapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/crypto/bcrypt"

	"snsfeed/cmd/identity"
	"snsfeed/cmd/security/password"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	pw := password.DefaultConfig()
	pw.Cost = bcrypt.MinCost

	h, err := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), identity.NewService(identity.NewMemoryStore(), pw), 1<<12)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	r := chi.NewRouter()
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer res.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res.StatusCode, out
}

func registration(f *gofakeit.Faker) map[string]any {
	return map[string]any{
		"loginId":  f.Regex(`[a-z][a-z0-9]{5,10}`),
		"name":     f.Regex(`[A-Z][a-z]{3,10}`),
		"nickname": f.Regex(`[a-z]{4,12}`),
		"password": "pa55word!",
	}
}

func TestRegisterAndGet(t *testing.T) {
	srv := newServer(t)
	in := registration(gofakeit.New(21))

	status, created := do(t, srv, http.MethodPost, "/users/register", in)
	if status != http.StatusCreated {
		t.Fatalf("register status=%d body=%v", status, created)
	}
	if _, ok := created["password"]; ok {
		t.Fatalf("password must not be returned")
	}

	want := map[string]any{
		"loginId":         in["loginId"],
		"name":            in["name"],
		"nickname":        in["nickname"],
		"profileImageUrl": nil,
	}
	if diff := cmp.Diff(want, created, cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "id" || k == "createdAt"
	})); diff != "" {
		t.Fatalf("register response mismatch (-want +got):\n%s", diff)
	}

	id := int64(created["id"].(float64))
	status, got := do(t, srv, http.MethodGet, "/users/"+jsonNumber(id), nil)
	if status != http.StatusOK {
		t.Fatalf("get status=%d body=%v", status, got)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("get response mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_Errors(t *testing.T) {
	srv := newServer(t)
	f := gofakeit.New(33)

	first := registration(f)
	if status, body := do(t, srv, http.MethodPost, "/users/register", first); status != http.StatusCreated {
		t.Fatalf("seed register status=%d body=%v", status, body)
	}

	sameLogin := registration(f)
	sameLogin["loginId"] = first["loginId"]
	sameNick := registration(f)
	sameNick["nickname"] = first["nickname"]
	badName := registration(f)
	badName["name"] = "R2D2"
	extra := registration(f)
	extra["role"] = "admin"
	badURL := registration(f)
	badURL["profileImageUrl"] = "not a url"

	tests := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"duplicate login id", sameLogin, http.StatusConflict, msgLoginIDTaken},
		{"duplicate nickname", sameNick, http.StatusConflict, msgNicknameTaken},
		{"invalid name", badName, http.StatusBadRequest, "이름은 한글, 영문대소문자만 허용됩니다"},
		{"unknown property", extra, http.StatusBadRequest, "property role should not exist"},
		{"invalid url", badURL, http.StatusBadRequest, "올바른 URL 형식이어야 합니다"},
		{"missing fields", map[string]any{}, http.StatusBadRequest, "loginId must be a string"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodPost, "/users/register", tc.body)
			if status != tc.status || body["message"] != tc.msg {
				t.Fatalf("got %d %v, want %d %q", status, body["message"], tc.status, tc.msg)
			}
		})
	}
}

func TestGet_Errors(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/users/abc", http.StatusBadRequest, msgInvalidUserID},
		{"/users/0", http.StatusBadRequest, msgInvalidUserID},
		{"/users/-4", http.StatusBadRequest, msgInvalidUserID},
		{"/users/999", http.StatusNotFound, msgUserNotFound},
	}
	for _, tc := range tests {
		status, body := do(t, srv, http.MethodGet, tc.path, nil)
		if status != tc.status || body["message"] != tc.msg {
			t.Fatalf("%s: got %d %v, want %d %q", tc.path, status, body["message"], tc.status, tc.msg)
		}
	}
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
