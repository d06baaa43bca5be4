// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(am.RequireSignedIn)
	r.Get("/me", h.ServeMe)
	r.Put("/me", h.HandleUpdate)
	r.Put("/me/password", h.HandleChangePassword)
	return r
}
