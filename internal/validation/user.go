// Package validation holds input validators shared by services and handlers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// emailRegex is intentionally loose; real validation happens when mail is
// actually sent.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"auth":    {},
	"hayai":   {},
	"login":   {},
	"me":      {},
	"metrics": {},
	"posts":   {},
	"root":    {},
	"signup":  {},
	"system":  {},
	"users":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, and underscores")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}
