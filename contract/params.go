package contract

import (
	"strconv"
	"strings"

	"github.com/oasguard/oasguard/spec"
)

// paramCoercer converts parameter wire strings into typed values according
// to the parameter's schema and serialization style, so schema validation
// sees the value the producer intended rather than raw text.
//
// Default styles per location:
//
//	| Location | Style  | Explode |
//	|----------|--------|---------|
//	| path     | simple | false   |
//	| query    | form   | true    |
//	| header   | simple | false   |
type paramCoercer struct{}

// CoercePathParam coerces a bound path parameter value. Path parameters use
// the "simple" style: arrays are comma-separated.
func (c paramCoercer) CoercePathParam(value string, param *spec.Parameter) any {
	return c.coerceSimple(value, param.Schema)
}

// CoerceHeaderParam coerces a header parameter value. Headers use the
// "simple" style like path parameters.
func (c paramCoercer) CoerceHeaderParam(value string, param *spec.Parameter) any {
	return c.coerceSimple(value, param.Schema)
}

// CoerceQueryParam coerces query parameter values according to their style.
//
// Styles supported:
//   - form (default): repeated keys when exploded, comma-separated otherwise
//   - spaceDelimited / pipeDelimited: delimiter-separated array values
func (c paramCoercer) CoerceQueryParam(values []string, param *spec.Parameter) any {
	schema := param.Schema

	switch param.Style {
	case "spaceDelimited":
		return c.coerceDelimited(values, " ", schema)
	case "pipeDelimited":
		return c.coerceDelimited(values, "|", schema)
	case "", "form":
		// form style, the default
	default:
		if len(values) == 1 {
			return values[0]
		}
		return values
	}

	// Default explode is true for form-style query params
	explode := true
	if param.Explode != nil {
		explode = *param.Explode
	}

	if schema != nil && schema.Type == "array" {
		if !explode && len(values) == 1 {
			// explode=false: comma-separated in a single value (ids=3,4,5)
			return c.coerceArray(strings.Split(values[0], ","), schema.Items)
		}
		// explode=true: repeated keys (ids=3&ids=4&ids=5)
		return c.coerceArray(values, schema.Items)
	}

	if len(values) == 1 {
		return c.coerceValue(values[0], schema)
	}
	return values
}

// coerceSimple handles the "simple" style shared by path and header
// parameters: arrays are comma-separated, primitives are coerced directly.
func (c paramCoercer) coerceSimple(value string, schema *spec.Schema) any {
	if schema == nil {
		return value
	}
	if schema.Type == "array" {
		return c.coerceArray(strings.Split(value, ","), schema.Items)
	}
	return c.coerceValue(value, schema)
}

// coerceDelimited handles space and pipe delimited query styles.
func (c paramCoercer) coerceDelimited(values []string, delimiter string, schema *spec.Schema) any {
	parts := strings.Split(strings.Join(values, delimiter), delimiter)

	if schema != nil && schema.Type == "array" {
		return c.coerceArray(parts, schema.Items)
	}
	if len(parts) == 1 {
		return c.coerceValue(parts[0], schema)
	}
	return parts
}

// coerceValue converts a wire string to the Go type the schema declares.
// Values that do not parse are passed through unchanged so the schema
// validator reports the type mismatch.
func (c paramCoercer) coerceValue(value string, schema *spec.Schema) any {
	if schema == nil {
		return value
	}

	switch schema.Type {
	case "integer":
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		return value
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		return value
	default:
		return value
	}
}

// coerceArray converts wire strings to a slice of typed values.
func (c paramCoercer) coerceArray(values []string, itemSchema *spec.Schema) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = c.coerceValue(v, itemSchema)
	}
	return result
}
