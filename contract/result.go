package contract

import (
	"github.com/oasguard/oasguard/internal/issues"
	"github.com/oasguard/oasguard/internal/severity"
)

// Violation represents a single localized deviation of an observed value
// from the contract. This is an alias to issues.Issue for consistency with
// other oasguard packages.
type Violation = issues.Issue

// Kind classifies a violation.
type Kind = issues.Kind

// Violation kind constants re-exported for convenience.
const (
	KindMissingRequiredField  = issues.KindMissingRequiredField
	KindTypeMismatch          = issues.KindTypeMismatch
	KindEnumViolation         = issues.KindEnumViolation
	KindRangeViolation        = issues.KindRangeViolation
	KindUnknownOperation      = issues.KindUnknownOperation
	KindNoMatchingAlternative = issues.KindNoMatchingAlternative
)

// Severity levels for violations.
type Severity = severity.Severity

// Severity constants re-exported for convenience.
const (
	SeverityError   = severity.SeverityError
	SeverityWarning = severity.SeverityWarning
	SeverityInfo    = severity.SeverityInfo
)

// RequestValidationResult contains the results of validating an HTTP request
// against the contract.
type RequestValidationResult struct {
	// Valid is true if the request conforms to the contract.
	Valid bool

	// Violations contains all contract violations found, in discovery order.
	Violations []Violation

	// Warnings contains advisory findings (if IncludeWarnings is enabled).
	Warnings []Violation

	// MatchedPath is the path template that matched the request
	// (e.g., "/products/{id}"). Empty if no template matched.
	MatchedPath string

	// MatchedMethod is the HTTP method of the request.
	MatchedMethod string

	// PathParams contains the extracted and coerced path parameters.
	PathParams map[string]any

	// QueryParams contains the extracted and coerced query parameters.
	QueryParams map[string]any

	// HeaderParams contains the extracted and coerced header parameters.
	HeaderParams map[string]any
}

// ResponseValidationResult contains the results of validating an HTTP
// response against the contract.
type ResponseValidationResult struct {
	// Valid is true if the response conforms to the contract.
	Valid bool

	// Violations contains all contract violations found, in discovery order.
	Violations []Violation

	// Warnings contains advisory findings (if IncludeWarnings is enabled).
	Warnings []Violation

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// ContentType is the Content-Type of the response.
	ContentType string

	// MatchedPath is the path template that matched the original request.
	MatchedPath string

	// MatchedMethod is the HTTP method of the original request.
	MatchedMethod string
}

// addViolation records a violation and marks the result invalid.
func (r *RequestValidationResult) addViolation(path, message string, kind Kind) {
	r.Valid = false
	r.Violations = append(r.Violations, Violation{
		Path:     path,
		Message:  message,
		Kind:     kind,
		Severity: SeverityError,
	})
}

// addWarning records an advisory finding without affecting validity.
func (r *RequestValidationResult) addWarning(path, message string, kind Kind) {
	r.Warnings = append(r.Warnings, Violation{
		Path:     path,
		Message:  message,
		Kind:     kind,
		Severity: SeverityWarning,
	})
}

// add routes a schema violation by its severity: warnings stay advisory,
// everything else invalidates the result.
func (r *RequestValidationResult) add(v Violation) {
	if v.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, v)
		return
	}
	r.Valid = false
	r.Violations = append(r.Violations, v)
}

// addViolation records a violation and marks the result invalid.
func (r *ResponseValidationResult) addViolation(path, message string, kind Kind) {
	r.Valid = false
	r.Violations = append(r.Violations, Violation{
		Path:     path,
		Message:  message,
		Kind:     kind,
		Severity: SeverityError,
	})
}

// addWarning records an advisory finding without affecting validity.
func (r *ResponseValidationResult) addWarning(path, message string, kind Kind) {
	r.Warnings = append(r.Warnings, Violation{
		Path:     path,
		Message:  message,
		Kind:     kind,
		Severity: SeverityWarning,
	})
}

// add routes a schema violation by its severity.
func (r *ResponseValidationResult) add(v Violation) {
	if v.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, v)
		return
	}
	r.Valid = false
	r.Violations = append(r.Violations, v)
}

// reset clears the result for reuse from pool.
func (r *RequestValidationResult) reset() {
	r.Valid = true
	r.MatchedPath = ""
	r.MatchedMethod = ""
	r.Violations = r.Violations[:0]
	r.Warnings = r.Warnings[:0]
	clear(r.PathParams)
	clear(r.QueryParams)
	clear(r.HeaderParams)
}

// reset clears the result for reuse from pool.
func (r *ResponseValidationResult) reset() {
	r.Valid = true
	r.MatchedPath = ""
	r.MatchedMethod = ""
	r.StatusCode = 0
	r.ContentType = ""
	r.Violations = r.Violations[:0]
	r.Warnings = r.Warnings[:0]
}
