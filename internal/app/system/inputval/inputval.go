// Package inputval holds request-input validation helpers shared by the
// JSON handlers. Validation errors are collected per field so a handler can
// report the first problem.
package inputval

import "strings"

// FieldError is a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result accumulates FieldErrors.
type Result struct {
	Errors []FieldError
}

// Add records a failure for field.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Require records "<label> is required." when value is blank.
func (r *Result) Require(field, label, value string) {
	if strings.TrimSpace(value) == "" {
		r.Add(field, label+" is required.")
	}
}

// OneOf records a failure when value is not one of allowed.
func (r *Result) OneOf(field, label, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	r.Add(field, label+" must be one of: "+strings.Join(allowed, ", ")+".")
}

// HasErrors reports whether any failure was recorded.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

const localSpecials = "!#$%&'*+/=?^_`{|}~-."

// IsValidEmail performs a strict addr-spec check: exactly one '@', no
// whitespace or display-name syntax, and dot-atoms on both sides without
// leading, trailing, or consecutive dots. Single-label domains (user@localhost)
// are accepted.
func IsValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	if strings.Count(s, "@") != 1 {
		return false
	}
	at := strings.IndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	if !validDotAtom(local) || !validDotAtom(domain) {
		return false
	}
	for _, c := range local {
		if !isAlnum(c) && !strings.ContainsRune(localSpecials, c) {
			return false
		}
	}
	for _, c := range domain {
		if !isAlnum(c) && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func validDotAtom(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
