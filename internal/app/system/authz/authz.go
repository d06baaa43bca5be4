// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. Without a user, or with a malformed id, it returns
// "visitor", "", NilObjectID, false, so ok=true always means a valid id.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// CanCreateGames reports whether the caller may create games.
func CanCreateGames(r *http.Request) bool {
	return HasAnyRole(r, models.RoleOrganizer, models.RoleAdmin)
}

// CanManageGame reports whether the caller may edit, delete, or decide join
// requests for g: its organizer, or any admin.
func CanManageGame(r *http.Request, g models.Game) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleOrganizer && g.OrganizerID == uid
}
