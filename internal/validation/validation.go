// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxTopics      = 10
	maxTopicLength = 40
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	specialRegex  = regexp.MustCompile(`[@$!%*?&#^()_+\-=\[\]{};:'"\\|,.<>/]`)
)

// ValidateUsername checks if a username meets requirements.
// Usernames are lowercase alphanumeric so they can double as profile slugs.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain lowercase letters and numbers")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if strings.ContainsAny(email, " \t") {
		return fmt.Errorf("email cannot contain spaces")
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	if strings.ContainsAny(password, " \t") {
		return fmt.Errorf("password cannot contain spaces")
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	if !specialRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

// ValidateTopics checks a blog's (or a reader's selected) topic list.
// Topics are trimmed by callers before validation.
func ValidateTopics(topics []string) error {
	if len(topics) > maxTopics {
		return fmt.Errorf("at most %d topics are allowed", maxTopics)
	}
	for _, t := range topics {
		if t == "" {
			return fmt.Errorf("topics cannot be empty")
		}
		if len(t) > maxTopicLength {
			return fmt.Errorf("topic %q exceeds %d characters", t, maxTopicLength)
		}
	}
	return nil
}

// NormalizeTopics trims whitespace and drops duplicates while preserving
// first-seen order.
func NormalizeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
