// internal/app/features/auth/me.go
package auth

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
)

// ServeMe handles GET /api/auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		jsonresp.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		jsonresp.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "me: load user", err, "")
		return
	}
	jsonresp.OK(w, http.StatusOK, u)
}
