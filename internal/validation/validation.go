package validation

import (
	"strings"
	"unicode/utf8"

	"gontrel-admin/internal/models"
)

// MaxCommentLength caps rejection reasons; the platform truncates beyond this.
const MaxCommentLength = 500

// MaxSearchTermLength caps the search filter before it hits the platform.
const MaxSearchTermLength = 100

// ValidateDecision checks that a status is a reviewer decision.
func ValidateDecision(s models.Status) (bool, string) {
	if !s.IsValid() {
		return false, "unknown status value"
	}
	if !s.IsDecision() {
		return false, `status must be "approved" or "rejected"`
	}
	return true, ""
}

// ValidateComment checks a rejection reason's length.
func ValidateComment(comment string) (bool, string) {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return false, "comment is too long"
	}
	return true, ""
}

// NormalizeSearchTerm trims and caps the search filter. An empty result
// means "no filter".
func NormalizeSearchTerm(term string) string {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) > MaxSearchTermLength {
		runes := []rune(term)
		term = string(runes[:MaxSearchTermLength])
	}
	return term
}

// ValidateRole checks a staff role value.
func ValidateRole(role string) bool {
	switch role {
	case models.RoleViewer, models.RoleModerator, models.RoleAdmin:
		return true
	}
	return false
}
