package testutil

import (
	"net/http"

	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/domain/models"
)

// WithUser injects u into the request context the way the auth middleware
// does, bypassing token verification.
func WithUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		SkillLevel: u.SkillLevel,
	})
}
