// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles.
const (
	RolePlayer    = "player"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User skill levels. Games additionally allow SkillAllLevels.
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillPro          = "Pro"
	SkillAllLevels    = "All Levels"
)

// User is a registered player, organizer, or admin.
//
// NOTE:
//   - PasswordHash is never serialized to clients (json:"-").
//   - Admin is not selectable at registration; it is assigned by the
//     startup bootstrap.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // player | organizer | admin
	Sports       []string           `bson:"sports" json:"sports"`
	SkillLevel   string             `bson:"skill_level" json:"skillLevel"`
	Location     string             `bson:"location" json:"location"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
