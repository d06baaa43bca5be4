// internal/app/features/profile/password.go
package profile

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost     = 10
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt limit, in bytes
)

type passwordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword handles PUT /api/users/me/password. Issued tokens stay
// valid until they expire.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return
	}

	var in passwordInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: decode password body", err, "Invalid JSON body.")
		return
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		uierrors.BadRequest(w, "Please provide current and new password")
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		uierrors.BadRequest(w, "Password must be at least 6 characters")
		return
	}
	if len(in.NewPassword) > maxPasswordLen {
		uierrors.BadRequest(w, "Password must be at most 72 bytes")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	u, err := store.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err, "")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		uierrors.Unauthorized(w, "Current password is incorrect")
		return
	}
	if in.NewPassword == in.CurrentPassword {
		uierrors.BadRequest(w, "New password must differ from the current one")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: hash password", err, "")
		return
	}
	if err := store.UpdatePassword(ctx, uid, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update password", err, "")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, uid)
	jsonresp.OK(w, http.StatusOK, struct{}{})
}
