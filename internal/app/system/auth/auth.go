// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned by Parse for any token that fails
// verification: bad signature, wrong algorithm, wrong issuer, expired.
var ErrInvalidToken = errors.New("invalid token")

// SessionUser is the authenticated caller injected into r.Context().
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	SkillLevel string
}

// UserFetcher loads fresh user data for a token subject. It returns nil when
// the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// Claims are the JWT claims issued by Manager. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Config configures a Manager.
type Config struct {
	Secret       []byte
	Issuer       string
	Expiry       time.Duration
	CookieName   string
	CookieDomain string
	Secure       bool // mark the cookie Secure (prod)
}

// Manager issues and verifies tokens and provides the auth middleware.
type Manager struct {
	cfg     Config
	fetcher UserFetcher
	log     *zap.Logger
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config, logger *zap.Logger) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if cfg.Expiry <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive, got %v", cfg.Expiry)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if len(cfg.Secret) < 32 {
		logger.Warn("jwt secret is short; 32+ bytes recommended", zap.Int("length", len(cfg.Secret)))
	}
	return &Manager{cfg: cfg, log: logger}, nil
}

// SetUserFetcher sets how LoadUser resolves a token subject to a user.
func (m *Manager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// Issue signs a new HS256 token for userID.
func (m *Manager) Issue(userID string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(m.cfg.Expiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies token and returns its claims.
func (m *Manager) Parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	}, opts...)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// tokenFromRequest returns the bearer token from the Authorization header,
// or the token cookie when no header is present.
func (m *Manager) tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if c, err := r.Cookie(m.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// LoadUser resolves the request's token to a user and injects it into the
// context. Requests without a valid token, or whose user no longer exists,
// pass through anonymously; RequireSignedIn turns those into 401s.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := m.tokenFromRequest(r)
		if raw == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.Parse(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		u := m.fetcher.FetchUser(r.Context(), claims.Subject)
		if u == nil {
			m.log.Debug("token subject not found", zap.String("user_id", claims.Subject))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn responds 401 unless a user is in the context.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			jsonresp.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole responds 401 when no user is signed in and 403 when the user's
// role is not one of allowed. Role comparison is case-insensitive.
func (m *Manager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				jsonresp.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				jsonresp.Error(w, http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", u.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetCookie stores token in the httpOnly token cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, m.cookie(token, expiresAt, int(time.Until(expiresAt).Seconds())))
}

// ClearCookie expires the token cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.cfg.Secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context the way LoadUser does.
// Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
