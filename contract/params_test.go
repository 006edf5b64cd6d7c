package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oasguard/oasguard/spec"
)

func boolPtr(b bool) *bool { return &b }

func TestCoercePathParam(t *testing.T) {
	c := paramCoercer{}

	tests := []struct {
		name   string
		value  string
		schema *spec.Schema
		want   any
	}{
		{"integer", "42", &spec.Schema{Type: "integer"}, int64(42)},
		{"number", "1.5", &spec.Schema{Type: "number"}, 1.5},
		{"boolean", "true", &spec.Schema{Type: "boolean"}, true},
		{"string passes through", "abc", &spec.Schema{Type: "string"}, "abc"},
		{"unparseable integer passes through", "abc", &spec.Schema{Type: "integer"}, "abc"},
		{"nil schema passes through", "42", nil, "42"},
		{
			"comma-separated array",
			"3,4,5",
			&spec.Schema{Type: "array", Items: &spec.Schema{Type: "integer"}},
			[]any{int64(3), int64(4), int64(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CoercePathParam(tt.value, &spec.Parameter{Name: "p", Schema: tt.schema})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceQueryParamFormStyle(t *testing.T) {
	c := paramCoercer{}

	arraySchema := &spec.Schema{Type: "array", Items: &spec.Schema{Type: "integer"}}

	// Default form style with explode=true: repeated keys
	got := c.CoerceQueryParam([]string{"3", "4", "5"}, &spec.Parameter{
		Name: "ids", In: spec.InQuery, Schema: arraySchema,
	})
	assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)

	// explode=false: comma-separated in a single value
	got = c.CoerceQueryParam([]string{"3,4,5"}, &spec.Parameter{
		Name: "ids", In: spec.InQuery, Schema: arraySchema, Explode: boolPtr(false),
	})
	assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)

	// Scalar coercion
	got = c.CoerceQueryParam([]string{"10"}, &spec.Parameter{
		Name: "limit", In: spec.InQuery, Schema: &spec.Schema{Type: "integer"},
	})
	assert.Equal(t, int64(10), got)
}

func TestCoerceQueryParamDelimitedStyles(t *testing.T) {
	c := paramCoercer{}

	arraySchema := &spec.Schema{Type: "array", Items: &spec.Schema{Type: "string"}}

	got := c.CoerceQueryParam([]string{"a b c"}, &spec.Parameter{
		Name: "tags", In: spec.InQuery, Style: "spaceDelimited", Schema: arraySchema,
	})
	assert.Equal(t, []any{"a", "b", "c"}, got)

	got = c.CoerceQueryParam([]string{"a|b|c"}, &spec.Parameter{
		Name: "tags", In: spec.InQuery, Style: "pipeDelimited", Schema: arraySchema,
	})
	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func TestCoerceHeaderParam(t *testing.T) {
	c := paramCoercer{}

	got := c.CoerceHeaderParam("7", &spec.Parameter{
		Name: "X-Retry-Count", In: spec.InHeader, Schema: &spec.Schema{Type: "integer"},
	})
	assert.Equal(t, int64(7), got)

	got = c.CoerceHeaderParam("a,b", &spec.Parameter{
		Name: "X-Tags", In: spec.InHeader,
		Schema: &spec.Schema{Type: "array", Items: &spec.Schema{Type: "string"}},
	})
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestCoerceValueUnparseableFallsThrough(t *testing.T) {
	c := paramCoercer{}

	// Values that fail to parse are left as strings so schema validation
	// reports the type mismatch with the original text.
	assert.Equal(t, "1.5", c.coerceValue("1.5", &spec.Schema{Type: "integer"}))
	assert.Equal(t, "yes", c.coerceValue("yes", &spec.Schema{Type: "boolean"}))
	assert.Equal(t, "abc", c.coerceValue("abc", &spec.Schema{Type: "number"}))
}
