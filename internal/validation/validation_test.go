package validation

import (
	"strings"
	"testing"

	"gontrel-admin/internal/models"
)

func TestValidateDecision(t *testing.T) {
	tests := []struct {
		name   string
		status models.Status
		want   bool
	}{
		{name: "approved", status: models.StatusApproved, want: true},
		{name: "rejected", status: models.StatusRejected, want: true},
		{name: "pending is not a decision", status: models.StatusPending, want: false},
		{name: "unknown status", status: models.Status("banana"), want: false},
		{name: "empty", status: models.Status(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidateDecision(tt.status); got != tt.want {
				t.Errorf("ValidateDecision(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	if ok, _ := ValidateComment(strings.Repeat("a", MaxCommentLength)); !ok {
		t.Error("comment at the limit rejected")
	}
	if ok, _ := ValidateComment(strings.Repeat("a", MaxCommentLength+1)); ok {
		t.Error("over-long comment accepted")
	}
	if ok, _ := ValidateComment(""); !ok {
		t.Error("empty comment rejected; comments are optional")
	}
}

func TestNormalizeSearchTerm(t *testing.T) {
	if got := NormalizeSearchTerm("  Burger  "); got != "Burger" {
		t.Errorf("NormalizeSearchTerm = %q, want %q", got, "Burger")
	}
	if got := NormalizeSearchTerm(strings.Repeat("x", 300)); len(got) != MaxSearchTermLength {
		t.Errorf("long term not capped: %d runes", len(got))
	}
	if got := NormalizeSearchTerm("   "); got != "" {
		t.Errorf("whitespace-only term = %q, want empty", got)
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{models.RoleViewer, models.RoleModerator, models.RoleAdmin} {
		if !ValidateRole(role) {
			t.Errorf("ValidateRole(%q) = false", role)
		}
	}
	if ValidateRole("superuser") {
		t.Error("ValidateRole accepted an unknown role")
	}
}
