// internal/app/features/games/routes.go
package games

import (
	"github.com/go-chi/chi/v5"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/domain/models"
)

// Routes mounts the game catalog. Reads are public; joining needs a signed-in
// user; everything that changes a game needs an organizer or admin, and the
// handlers additionally check ownership.
func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireSignedIn)
		pr.Post("/{id}/join", h.HandleJoin)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireRole(models.RoleOrganizer, models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Get("/{id}/requests", h.ServeRequests)
		pr.Post("/{id}/requests/{requestID}/approve", h.HandleApprove)
		pr.Post("/{id}/requests/{requestID}/reject", h.HandleReject)
	})

	return r
}
