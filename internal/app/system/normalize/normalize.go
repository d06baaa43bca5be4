// Package normalize provides canonical forms for user-supplied strings
// before they are validated or stored.
package normalize

import (
	"strings"

	"github.com/suraj4124/gamesphere/internal/domain/models"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// SkillLevel maps a case-insensitive skill level onto its canonical
// spelling ("beginner" -> "Beginner", "all levels" -> "All Levels").
// Unknown values are returned trimmed but otherwise unchanged so the
// caller's validation can reject them.
func SkillLevel(s string) string {
	s = strings.TrimSpace(s)
	for _, lvl := range []string{models.SkillBeginner, models.SkillIntermediate, models.SkillPro, models.SkillAllLevels} {
		if strings.EqualFold(s, lvl) {
			return lvl
		}
	}
	return s
}

// Sport maps a case-insensitive sport name onto its canonical spelling.
// Unknown values are returned trimmed.
func Sport(s string) string {
	s = strings.TrimSpace(s)
	for _, sp := range models.Sports {
		if strings.EqualFold(s, sp) {
			return sp
		}
	}
	return s
}

// Sports trims each entry, drops empties, and removes case-insensitive
// duplicates while keeping the first spelling seen. Never returns nil.
func Sports(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = Name(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
