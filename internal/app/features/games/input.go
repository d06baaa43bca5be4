// internal/app/features/games/input.go
package games

import (
	"strings"

	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	"github.com/suraj4124/gamesphere/internal/app/system/htmlsanitize"
	"github.com/suraj4124/gamesphere/internal/app/system/inputval"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// gameInput is the create/update body. organizer and players are not
// read: the organizer is always the caller and the roster only changes
// through joins.
type gameInput struct {
	Sport            *string  `json:"sport"`
	Date             *string  `json:"date"`
	Location         *string  `json:"location"`
	SkillLevel       *string  `json:"skillLevel"`
	MaxPlayers       *int     `json:"maxPlayers"`
	EntryFee         *float64 `json:"entryFee"`
	Description      *string  `json:"description"`
	RequiresApproval *bool    `json:"requiresApproval"`
}

// toUpdate validates the fields present in in and returns them cleaned.
// When requireAll is set (create), the mandatory fields must be present.
func (in gameInput) toUpdate(requireAll bool) (gamestore.Update, *inputval.Result) {
	var upd gamestore.Update
	var v inputval.Result

	str := func(p *string, clean func(string) string) *string {
		if p == nil {
			return nil
		}
		s := clean(*p)
		return &s
	}
	upd.Sport = str(in.Sport, normalize.Sport)
	upd.Location = str(in.Location, htmlsanitize.Text)
	upd.Description = str(in.Description, htmlsanitize.Text)
	upd.SkillLevel = str(in.SkillLevel, normalize.SkillLevel)
	upd.MaxPlayers = in.MaxPlayers
	upd.EntryFee = in.EntryFee
	upd.RequiresApproval = in.RequiresApproval

	if requireAll {
		if upd.Sport == nil {
			v.Add("sport", "Please add a sport")
		}
		if in.Date == nil {
			v.Add("date", "Please add a date")
		}
		if upd.Location == nil {
			v.Add("location", "Please add a location")
		}
		if upd.MaxPlayers == nil {
			v.Add("maxPlayers", "Please add the maximum number of players")
		}
		if upd.Description == nil {
			v.Add("description", "Please add a description")
		}
	}

	if upd.Sport != nil {
		v.OneOf("sport", "Sport", *upd.Sport, models.Sports...)
	}
	if upd.Location != nil {
		v.Require("location", "Location", *upd.Location)
	}
	if upd.Description != nil {
		v.Require("description", "Description", *upd.Description)
	}
	if upd.SkillLevel != nil {
		v.OneOf("skillLevel", "Skill level", *upd.SkillLevel,
			models.SkillBeginner, models.SkillIntermediate, models.SkillPro, models.SkillAllLevels)
	}
	if in.Date != nil {
		t, err := parseTime(strings.TrimSpace(*in.Date))
		if err != nil {
			v.Add("date", "Please add a valid date")
		} else {
			upd.Date = &t
		}
	}
	if upd.MaxPlayers != nil && *upd.MaxPlayers < 1 {
		v.Add("maxPlayers", "Max players must be at least 1")
	}
	if upd.EntryFee != nil && *upd.EntryFee < 0 {
		v.Add("entryFee", "Entry fee cannot be negative")
	}
	return upd, &v
}

// newGame builds a game from a validated create update.
func newGame(upd gamestore.Update, organizerID primitive.ObjectID) models.Game {
	g := models.Game{
		Sport:       *upd.Sport,
		OrganizerID: organizerID,
		Date:        *upd.Date,
		Location:    *upd.Location,
		MaxPlayers:  *upd.MaxPlayers,
		Description: *upd.Description,
	}
	if upd.SkillLevel != nil {
		g.SkillLevel = *upd.SkillLevel
	}
	if upd.EntryFee != nil {
		g.EntryFee = *upd.EntryFee
	}
	if upd.RequiresApproval != nil {
		g.RequiresApproval = *upd.RequiresApproval
	}
	return g
}
