package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oasguard/oasguard/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name     string
		issue    Issue
		expected string
	}{
		{
			name: "error severity",
			issue: Issue{
				Path:     "response.body.users",
				Message:  "required property \"users\" is missing",
				Kind:     KindMissingRequiredField,
				Severity: severity.SeverityError,
			},
			expected: "✗ response.body.users: required property \"users\" is missing",
		},
		{
			name: "warning severity",
			issue: Issue{
				Path:     "query.email",
				Message:  "value is not a valid email address",
				Kind:     KindTypeMismatch,
				Severity: severity.SeverityWarning,
			},
			expected: "⚠ query.email: value is not a valid email address",
		},
		{
			name: "info severity without path",
			issue: Issue{
				Message:  "response body is empty but schema is defined",
				Severity: severity.SeverityInfo,
			},
			expected: "ℹ response body is empty but schema is defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.issue.String())
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNone, "none"},
		{KindMissingRequiredField, "missing-required-field"},
		{KindTypeMismatch, "type-mismatch"},
		{KindEnumViolation, "enum-violation"},
		{KindRangeViolation, "range-violation"},
		{KindUnknownOperation, "unknown-operation"},
		{KindNoMatchingAlternative, "no-matching-alternative"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "response.body.users", ChildPath("response.body", "users"))
	assert.Equal(t, ".users", ChildPath("", "users"))
}

func TestIndexPath(t *testing.T) {
	assert.Equal(t, "items[0]", IndexPath("items", 0))
	assert.Equal(t, "[2]", IndexPath("", 2))
	assert.Equal(t, "response.body.users[17]", IndexPath("response.body.users", 17))
}
