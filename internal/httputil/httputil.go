// Package httputil provides HTTP-related validation utilities and constants.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP status code bounds and the wildcard character used in patterns
// like "2XX".
const (
	StatusCodeLength = 3
	MinStatusCode    = 100
	MaxStatusCode    = 599
	WildcardChar     = 'X'
)

// HTTP method constants as they appear as OpenAPI path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
)

// ValidateStatusCode checks if a status code string is valid as an OpenAPI
// responses key. Valid values are:
//   - "default" for the default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) != StatusCodeLength {
		return false
	}

	// Wildcard patterns (e.g., "2XX", "4XX")
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}

	statusCode, err := strconv.Atoi(code)
	return err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode
}

// MatchMediaType checks if a media type pattern matches a concrete media
// type. Supports wildcards like "application/*" and "*/*".
func MatchMediaType(pattern, mediaType string) bool {
	if pattern == "*/*" {
		return true
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(mediaType, prefix)
	}

	return pattern == mediaType
}

// IsJSONMediaType reports whether a media type carries a JSON payload,
// covering "application/json" and "+json" structured suffixes.
func IsJSONMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "application/json") || strings.HasSuffix(mediaType, "+json")
}
