// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/domain/models"
)

// Routes mounts the audit trail (typically at "/api/audit"). Admin only.
func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireRole(models.RoleAdmin))
		pr.Get("/", h.ServeList)
	})

	return r
}
