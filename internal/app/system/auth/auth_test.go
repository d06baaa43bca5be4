package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-bytes-long!!"

func newTestManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(auth.Config{
		Secret:     []byte(testSecret),
		Issuer:     "gamesphere-test",
		Expiry:     time.Hour,
		CookieName: "token",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

// mapFetcher resolves user ids from a fixed map.
type mapFetcher map[string]*auth.SessionUser

func (f mapFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser {
	return f[id]
}

func TestNewManager_RejectsEmptySecret(t *testing.T) {
	if _, err := auth.NewManager(auth.Config{Expiry: time.Hour}, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t)

	tok, exp, err := m.Issue("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiresAt %v not ~1h from now", exp)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "507f1f77bcf86cd799439011" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
	if claims.Issuer != "gamesphere-test" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestIssue_UniqueIDs(t *testing.T) {
	m := newTestManager(t)
	a, _, _ := m.Issue("u1")
	b, _, _ := m.Issue("u1")
	if a == b {
		t.Error("two tokens for the same user should differ")
	}
}

func TestParse_Rejects(t *testing.T) {
	m := newTestManager(t)

	other, err := auth.NewManager(auth.Config{
		Secret: []byte("a-completely-different-secret-value!!"),
		Issuer: "gamesphere-test",
		Expiry: time.Hour,
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := other.Issue("u1")

	expired := signed(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "gamesphere-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	wrongIssuer := signed(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noExpiry := signed(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
		Issuer:  "gamesphere-test",
	})
	hs512 := signed(t, jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "gamesphere-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	tests := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"foreign key":  foreign,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"no expiry":    noExpiry,
		"wrong alg":    hs512,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Parse(tok); err != auth.ErrInvalidToken {
				t.Errorf("Parse() err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func signed(t *testing.T, method jwt.SigningMethod, c jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestLoadUser(t *testing.T) {
	m := newTestManager(t)
	m.SetUserFetcher(mapFetcher{
		"u1": {ID: "u1", Name: "Ada", Role: "player"},
	})

	good, _, _ := m.Issue("u1")
	ghost, _, _ := m.Issue("deleted-user")

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantUser string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+good) }, "u1"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+good) }, "u1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: good}) }, "u1"},
		{"no token", func(r *http.Request) {}, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, ""},
		{"non-bearer scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+good) }, ""},
		{"user gone", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghost) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u, ok := auth.CurrentUser(r); ok {
					got = u.ID
				}
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.setup(req)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	m := newTestManager(t)
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withTestUser(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "player"))
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)
	h := m.RequireRole("organizer", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role string
		want int
	}{
		{"organizer", http.StatusOK},
		{"admin", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"player", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
			if tt.role != "" {
				req = withTestUser(req, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.want)
			}
		})
	}
}

func TestCookies(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "abc", time.Now().Add(time.Hour))
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].Name != "token" || c[0].Value != "abc" || !c[0].HttpOnly {
		t.Fatalf("SetCookie cookies = %+v", c)
	}

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	c = rec.Result().Cookies()
	if len(c) != 1 || c[0].Value != "" || c[0].MaxAge >= 0 {
		t.Fatalf("ClearCookie cookies = %+v", c)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	u, ok := auth.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	if ok || u != nil {
		t.Errorf("CurrentUser() = %v, %v; want nil, false", u, ok)
	}
}

func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	})
}
