// Package stringutil provides best-effort format checkers for the string
// formats the contract validator treats as advisory.
package stringutil

import (
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID checks if s is a valid RFC 4122 UUID.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsValidDate checks if s looks like an RFC 3339 full-date (YYYY-MM-DD).
func IsValidDate(s string) bool {
	return dateRegex.MatchString(s)
}

// IsValidDateTime checks if s looks like an RFC 3339 date-time.
func IsValidDateTime(s string) bool {
	return dateTimeRegex.MatchString(s)
}

// IsValidURI checks if s looks like an absolute URI.
func IsValidURI(s string) bool {
	return strings.Contains(s, "://")
}
