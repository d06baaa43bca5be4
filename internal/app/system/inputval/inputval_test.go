package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true},   // RFC 5322 allows single-label domains
		{"admin@mailserver", true}, // useful for dev/test environments

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"a@b@example.com", false},

		// Invalid emails - bad format
		{".user@example.com", false},      // leading dot in local
		{"user.@example.com", false},      // trailing dot in local
		{"user..name@example.com", false}, // consecutive dots
		{"user@.example.com", false},      // leading dot in domain
		{"user@example..com", false},      // consecutive dots in domain

		// Invalid emails - display name format (should be rejected)
		{"User Name <user@example.com>", false},

		// Invalid emails - other malformed
		{"user @example.com", false}, // space in local
		{"user@ example.com", false}, // space after @
		{"user@exam ple.com", false}, // space in domain
		{"user@exa_mple.com", false}, // underscore in domain
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestResult_First(t *testing.T) {
	r := &Result{}
	if r.First() != "" || r.HasErrors() {
		t.Fatalf("empty result reported errors: %q", r.First())
	}

	r.Require("name", "Name", "  ")
	r.Require("email", "Email", "x@y.z")
	r.OneOf("role", "Role", "admin", "player", "organizer")

	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(r.Errors), r.Errors)
	}
	if r.First() != "Name is required." {
		t.Errorf("First() = %q", r.First())
	}
	if r.Errors[1].Field != "role" || r.Errors[1].Message != "Role must be one of: player, organizer." {
		t.Errorf("unexpected OneOf error: %+v", r.Errors[1])
	}
}
