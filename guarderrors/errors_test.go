package guarderrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := &ParseError{
		Path:    "api.yaml",
		Message: "invalid document",
		Cause:   cause,
	}

	assert.Contains(t, err.Error(), "parse error in api.yaml")
	assert.Contains(t, err.Error(), "invalid document")
	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrReference))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ReferenceError
		contains string
		matches  []error
		misses   []error
	}{
		{
			name:     "unresolved ref",
			err:      &ReferenceError{Ref: "#/components/schemas/Missing"},
			contains: "reference error: #/components/schemas/Missing",
			matches:  []error{ErrReference},
			misses:   []error{ErrCircularReference, ErrParse},
		},
		{
			name:     "circular ref",
			err:      &ReferenceError{Ref: "#/components/schemas/Node", IsCircular: true},
			contains: "circular reference: #/components/schemas/Node",
			matches:  []error{ErrReference, ErrCircularReference},
			misses:   []error{ErrParse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.contains)
			for _, target := range tt.matches {
				assert.True(t, errors.Is(tt.err, target), "expected match for %v", target)
			}
			for _, target := range tt.misses {
				assert.False(t, errors.Is(tt.err, target), "expected no match for %v", target)
			}
		})
	}
}

func TestReferenceErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("loading spec: %w", &ReferenceError{
		Ref:        "#/components/schemas/Loop",
		IsCircular: true,
	})

	var refErr *ReferenceError
	if assert.True(t, errors.As(wrapped, &refErr)) {
		assert.True(t, refErr.IsCircular)
		assert.Equal(t, "#/components/schemas/Loop", refErr.Ref)
	}
}

func TestDocumentError(t *testing.T) {
	err := &DocumentError{
		Path:    "paths./products/{id}.get",
		Field:   "parameters",
		Message: "path parameter \"id\" is not declared",
	}

	assert.Contains(t, err.Error(), "document error at paths./products/{id}.get.parameters")
	assert.Contains(t, err.Error(), "is not declared")
	assert.True(t, errors.Is(err, ErrDocument))
	assert.False(t, errors.Is(err, ErrParse))
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{
		ResourceType: "ref_depth",
		Limit:        100,
		Actual:       101,
		Message:      "structure too deeply nested",
	}

	assert.Contains(t, err.Error(), "ref_depth")
	assert.Contains(t, err.Error(), "limit: 100")
	assert.Contains(t, err.Error(), "actual: 101")
	assert.True(t, errors.Is(err, ErrResourceLimit))
	assert.Nil(t, errors.Unwrap(err))
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Option:  "maxBodySize",
		Value:   -1,
		Message: "cannot be negative",
	}

	assert.Contains(t, err.Error(), "configuration error for maxBodySize")
	assert.Contains(t, err.Error(), "value: -1")
	assert.True(t, errors.Is(err, ErrConfig))
}
