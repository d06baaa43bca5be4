// internal/app/features/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"golang.org/x/crypto/bcrypt"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// invalidCredentials is the single message for unknown email and wrong
// password so the response does not reveal which accounts exist.
const invalidCredentials = "Invalid credentials"

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: decode body", err, "Invalid JSON body.")
		return
	}
	in.Email = normalize.Email(in.Email)
	if in.Email == "" || in.Password == "" {
		jsonresp.Error(w, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.LoginLimiter != nil {
		if ok, reason := h.LoginLimiter.Check(r, in.Email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email)
			uierrors.TooManyRequests(w, reason)
			return
		}
	}

	u, err := userstore.New(h.DB).GetByEmail(ctx, in.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
		jsonresp.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup failed", err, "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, in.Email)
		jsonresp.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, in.Email)

	h.sendToken(w, r, http.StatusOK, *u)
}
