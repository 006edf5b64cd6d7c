// Package severity provides severity level constants for issues reported
// by the contract and spec packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a contract violation or warning.
type Severity int

const (
	// SeverityError indicates a contract violation: the observed exchange
	// does not conform to the specification.
	SeverityError Severity = iota

	// SeverityWarning indicates a best-practice issue or an advisory check
	// (such as a format mismatch) that does not make the exchange invalid.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates an exchange that could not be checked at
	// all, such as a body that is not parseable as its declared media type.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
