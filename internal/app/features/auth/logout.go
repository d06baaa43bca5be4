// internal/app/features/auth/logout.go
package auth

import (
	"net/http"

	sysauth "github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
)

// HandleLogout handles GET|POST /api/auth/logout. Tokens are stateless, so
// logging out only clears the cookie; a bearer token stays valid until it
// expires.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	uid := ""
	if u, ok := sysauth.CurrentUser(r); ok {
		uid = u.ID
	}
	h.AuditLog.Logout(r.Context(), r, uid)

	h.AuthMgr.ClearCookie(w)
	jsonresp.OK(w, http.StatusOK, struct{}{})
}
