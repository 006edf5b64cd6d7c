// Package issues provides the violation type shared by the contract
// validation packages.
package issues

import (
	"fmt"

	"github.com/oasguard/oasguard/internal/severity"
)

// Kind classifies a violation so callers can handle categories
// programmatically without parsing messages.
type Kind int

const (
	// KindNone is the zero value for issues that carry no classification,
	// such as advisory warnings about unvalidatable content.
	KindNone Kind = iota

	// KindMissingRequiredField indicates a required property, parameter,
	// or header was absent.
	KindMissingRequiredField

	// KindTypeMismatch indicates a value whose runtime type or shape does
	// not match its schema, including unexpected properties and failed
	// format checks.
	KindTypeMismatch

	// KindEnumViolation indicates a value outside its schema's enum set.
	KindEnumViolation

	// KindRangeViolation indicates a numeric or length bound was breached.
	KindRangeViolation

	// KindUnknownOperation indicates the exchange does not correspond to
	// any documented operation, or a response used an undocumented status
	// code.
	KindUnknownOperation

	// KindNoMatchingAlternative indicates a value that satisfied none of a
	// oneOf schema's alternatives.
	KindNoMatchingAlternative
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingRequiredField:
		return "missing-required-field"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindEnumViolation:
		return "enum-violation"
	case KindRangeViolation:
		return "range-violation"
	case KindUnknownOperation:
		return "unknown-operation"
	case KindNoMatchingAlternative:
		return "no-matching-alternative"
	default:
		return "unknown"
	}
}

// Issue represents a single localized deviation of an observed value from
// its contract.
type Issue struct {
	// Path is the JSON-pointer-like location of the offending value
	// (e.g., "response.body.users[2].name" or "query.type")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Kind classifies the issue
	Kind Kind
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Value is the problematic value (optional; omitted for redacted issues)
	Value any
}

// String returns a formatted representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	if i.Path == "" {
		return fmt.Sprintf("%s %s", symbol, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}
