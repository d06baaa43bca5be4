// internal/app/features/auth/register.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/htmlsanitize"
	"github.com/suraj4124/gamesphere/internal/app/system/inputval"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerInput struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Sports     []string `json:"sports"`
	SkillLevel string   `json:"skillLevel"`
	Location   string   `json:"location"`
}

// tokenResponse is the data payload of register and login.
type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// validate normalises in and reports the first problem, if any.
func (in *registerInput) validate() *inputval.Result {
	in.Name = normalize.Name(htmlsanitize.Text(in.Name))
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Role(in.Role)
	if in.Role == "" {
		in.Role = models.RolePlayer
	}
	in.SkillLevel = normalize.SkillLevel(in.SkillLevel)
	if in.SkillLevel == "" {
		in.SkillLevel = models.SkillBeginner
	}
	in.Location = htmlsanitize.Text(in.Location)

	var v inputval.Result
	v.Require("name", "Name", in.Name)
	v.Require("email", "Email", in.Email)
	v.Require("password", "Password", in.Password)
	if in.Email != "" && !inputval.IsValidEmail(in.Email) {
		v.Add("email", "Please add a valid email.")
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		v.Add("password", "Password must be at least 6 characters.")
	}
	if len(in.Password) > maxPasswordLen {
		v.Add("password", "Password must be at most 72 bytes.")
	}
	v.OneOf("role", "Role", in.Role, models.RolePlayer, models.RoleOrganizer)
	v.OneOf("skillLevel", "Skill level", in.SkillLevel, models.SkillBeginner, models.SkillIntermediate, models.SkillPro)
	return &v
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: decode body", err, "Invalid JSON body.")
		return
	}
	if v := in.validate(); v.HasErrors() {
		jsonresp.Error(w, http.StatusBadRequest, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	exists, err := users.EmailExists(ctx, in.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: email lookup failed", err, "")
		return
	}
	if exists {
		jsonresp.Error(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hash password", err, "")
		return
	}

	u, err := users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Sports:       in.Sports,
		SkillLevel:   in.SkillLevel,
		Location:     in.Location,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		jsonresp.Error(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: create user", err, "")
		return
	}

	h.AuditLog.Registered(ctx, r, u.ID, u.Role)
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	h.sendToken(w, r, http.StatusCreated, u)
}

// sendToken issues a token for u, sets the cookie and writes the response.
func (h *Handler) sendToken(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	tok, exp, err := h.AuthMgr.Issue(u.ID.Hex())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token", err, "")
		return
	}
	h.AuthMgr.SetCookie(w, tok, exp)
	jsonresp.OK(w, status, tokenResponse{Token: tok, ExpiresAt: exp, User: u})
}
