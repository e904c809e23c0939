package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// nameRx allows letters, digits, spaces and common punctuation used in
// product names.
var nameRx = regexp.MustCompile(`^[A-Za-z0-9 .,'&:_-]+$`)

// AgentName validates a listing's display name:
// - 1-80 bytes
// - letters/digits/space and limited punctuation
// - no leading/trailing space
func AgentName(v string) error {
	if v == "" {
		return fmt.Errorf("agent name is required")
	}
	if len(v) > 80 {
		return fmt.Errorf("agent name exceeds 80 characters")
	}
	if strings.TrimSpace(v) != v {
		return fmt.Errorf("agent name must not start or end with a space")
	}
	if !nameRx.MatchString(v) {
		return fmt.Errorf("agent name contains invalid characters")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// ID validates a resource identifier (UUID form).
func ID(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := uuid.Parse(v); err != nil {
		return fmt.Errorf("invalid %s", field)
	}
	return nil
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
