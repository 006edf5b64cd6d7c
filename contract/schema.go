package contract

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/oasguard/oasguard/internal/issues"
	"github.com/oasguard/oasguard/internal/stringutil"
	"github.com/oasguard/oasguard/spec"
)

// SchemaValidator validates decoded JSON values against OpenAPI schemas.
// It implements the subset of JSON Schema exercised by contract validation:
// object shapes, array element types, primitive constraints, enums, and
// oneOf/anyOf/allOf composition.
//
// Validation is accumulating: every violation in a value is collected, so a
// single malformed field does not hide the others. A SchemaValidator is
// stateless apart from its pattern cache and safe for concurrent use.
type SchemaValidator struct {
	// patternCache caches compiled regex patterns (sync.Map[string, *regexp.Regexp])
	patternCache sync.Map

	// patternCount tracks the approximate number of cached patterns for size capping
	patternCount atomic.Int32

	// redactValues controls whether actual values appear in violation messages.
	// Enabled when validating potentially sensitive data like headers.
	redactValues bool
}

// NewSchemaValidator creates a new SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// NewRedactingSchemaValidator creates a SchemaValidator that omits actual
// values from violation messages. Use this for data that may carry
// credentials, such as HTTP headers.
func NewRedactingSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		redactValues: true,
	}
}

// Validate validates a value against a schema, returning every violation
// found. The path prefix locates the value in its enclosing document; nested
// violations extend it with ".name" and "[index]".
func (v *SchemaValidator) Validate(data any, schema *spec.Schema, path string) []Violation {
	if schema == nil {
		return nil
	}

	// oneOf is first-match-wins: the first alternative in declaration order
	// that accepts the value validates it, and intermediate violations are
	// discarded. If none accept, report a single violation at the prefix
	// instead of every alternative's failures.
	if len(schema.OneOf) > 0 {
		for _, alternative := range schema.OneOf {
			if len(v.Validate(data, alternative, path)) == 0 {
				return nil
			}
		}
		return []Violation{{
			Path:     path,
			Message:  fmt.Sprintf("value does not match any of the %d alternatives", len(schema.OneOf)),
			Kind:     KindNoMatchingAlternative,
			Severity: SeverityError,
		}}
	}

	var violations []Violation

	if data == nil {
		if schema.Nullable {
			return nil
		}
		return []Violation{{
			Path:     path,
			Message:  "value cannot be null",
			Kind:     KindTypeMismatch,
			Severity: SeverityError,
		}}
	}

	typeViolations := v.validateType(data, schema, path)
	violations = append(violations, typeViolations...)

	// Constraints are meaningless on a value of the wrong type
	if len(typeViolations) > 0 {
		return violations
	}

	switch d := data.(type) {
	case string:
		violations = append(violations, v.validateString(d, schema, path)...)
	case float64:
		violations = append(violations, v.validateNumber(d, schema, path)...)
	case int, int32, int64:
		violations = append(violations, v.validateNumber(toFloat64(d), schema, path)...)
	case bool:
		// No additional constraints for boolean
	case []any:
		violations = append(violations, v.validateArray(d, schema, path)...)
	case map[string]any:
		violations = append(violations, v.validateObject(d, schema, path)...)
	}

	if len(schema.Enum) > 0 {
		violations = append(violations, v.validateEnum(data, schema, path)...)
	}

	violations = append(violations, v.validateComposition(data, schema, path)...)

	return violations
}

// validateType checks that the value's runtime type matches the schema type.
func (v *SchemaValidator) validateType(data any, schema *spec.Schema, path string) []Violation {
	if schema.Type == "" {
		// No type specified, any type is valid
		return nil
	}

	dataType := getDataType(data)

	if typeMatches(dataType, schema.Type) {
		// JSON numbers are float64; "integer" additionally requires a zero
		// fractional part.
		if schema.Type == "integer" && dataType == "number" {
			if f, ok := data.(float64); ok && f != float64(int64(f)) {
				msg := "value must be an integer"
				if !v.redactValues {
					msg = fmt.Sprintf("value must be an integer, got %v", f)
				}
				return []Violation{{
					Path:     path,
					Message:  msg,
					Kind:     KindTypeMismatch,
					Severity: SeverityError,
				}}
			}
		}
		return nil
	}

	return []Violation{{
		Path:     path,
		Message:  fmt.Sprintf("expected type %s but got %s", schema.Type, dataType),
		Kind:     KindTypeMismatch,
		Severity: SeverityError,
	}}
}

// validateString validates string-specific constraints.
func (v *SchemaValidator) validateString(s string, schema *spec.Schema, path string) []Violation {
	var violations []Violation

	if schema.MinLength != nil && len(s) < *schema.MinLength {
		violations = append(violations, Violation{
			Path:     path,
			Message:  fmt.Sprintf("string length %d is less than minimum %d", len(s), *schema.MinLength),
			Kind:     KindRangeViolation,
			Severity: SeverityError,
		})
	}

	if schema.MaxLength != nil && len(s) > *schema.MaxLength {
		violations = append(violations, Violation{
			Path:     path,
			Message:  fmt.Sprintf("string length %d exceeds maximum %d", len(s), *schema.MaxLength),
			Kind:     KindRangeViolation,
			Severity: SeverityError,
		})
	}

	if schema.Pattern != "" {
		matched, err := v.matchPattern(schema.Pattern, s)
		if err != nil {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("invalid pattern %q: %v", schema.Pattern, err),
				Kind:     KindTypeMismatch,
				Severity: SeverityError,
			})
		} else if !matched {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("string does not match pattern %q", schema.Pattern),
				Kind:     KindTypeMismatch,
				Severity: SeverityError,
			})
		}
	}

	if schema.Format != "" {
		violations = append(violations, v.validateFormat(s, schema.Format, path)...)
	}

	return violations
}

// validateNumber validates numeric constraints.
func (v *SchemaValidator) validateNumber(n float64, schema *spec.Schema, path string) []Violation {
	var violations []Violation

	if schema.Minimum != nil {
		if schema.ExclusiveMinimum && n <= *schema.Minimum {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value %v must be greater than %v", n, *schema.Minimum),
				Kind:     KindRangeViolation,
				Severity: SeverityError,
			})
		} else if !schema.ExclusiveMinimum && n < *schema.Minimum {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value %v is less than minimum %v", n, *schema.Minimum),
				Kind:     KindRangeViolation,
				Severity: SeverityError,
			})
		}
	}

	if schema.Maximum != nil {
		if schema.ExclusiveMaximum && n >= *schema.Maximum {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value %v must be less than %v", n, *schema.Maximum),
				Kind:     KindRangeViolation,
				Severity: SeverityError,
			})
		} else if !schema.ExclusiveMaximum && n > *schema.Maximum {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value %v exceeds maximum %v", n, *schema.Maximum),
				Kind:     KindRangeViolation,
				Severity: SeverityError,
			})
		}
	}

	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		quotient := n / *schema.MultipleOf
		if quotient != float64(int64(quotient)) {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value %v is not a multiple of %v", n, *schema.MultipleOf),
				Kind:     KindRangeViolation,
				Severity: SeverityError,
			})
		}
	}

	return violations
}

// validateArray validates array-specific constraints and recurses into each
// element with the prefix extended by "[index]".
func (v *SchemaValidator) validateArray(arr []any, schema *spec.Schema, path string) []Violation {
	var violations []Violation

	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		violations = append(violations, Violation{
			Path:     path,
			Message:  fmt.Sprintf("array has %d items, minimum is %d", len(arr), *schema.MinItems),
			Kind:     KindRangeViolation,
			Severity: SeverityError,
		})
	}

	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		violations = append(violations, Violation{
			Path:     path,
			Message:  fmt.Sprintf("array has %d items, maximum is %d", len(arr), *schema.MaxItems),
			Kind:     KindRangeViolation,
			Severity: SeverityError,
		})
	}

	if schema.UniqueItems && hasDuplicates(arr) {
		violations = append(violations, Violation{
			Path:     path,
			Message:  "array items must be unique",
			Kind:     KindTypeMismatch,
			Severity: SeverityError,
		})
	}

	if schema.Items != nil {
		for i, item := range arr {
			violations = append(violations, v.Validate(item, schema.Items, issues.IndexPath(path, i))...)
		}
	}

	return violations
}

// validateObject validates object-specific constraints and recurses into
// declared properties with the prefix extended by ".name".
func (v *SchemaValidator) validateObject(obj map[string]any, schema *spec.Schema, path string) []Violation {
	var violations []Violation

	for _, required := range schema.Required {
		if _, exists := obj[required]; !exists {
			violations = append(violations, Violation{
				Path:     issues.ChildPath(path, required),
				Message:  fmt.Sprintf("required property %q is missing", required),
				Kind:     KindMissingRequiredField,
				Severity: SeverityError,
			})
		}
	}

	for name, value := range obj {
		if propSchema, ok := schema.Properties[name]; ok {
			violations = append(violations, v.Validate(value, propSchema, issues.ChildPath(path, name))...)
		}
	}

	// Undeclared properties are ignored unless additionalProperties is
	// explicitly false.
	if !schema.AdditionalPropertiesAllowed() {
		for name := range obj {
			if _, declared := schema.Properties[name]; !declared {
				violations = append(violations, Violation{
					Path:     issues.ChildPath(path, name),
					Message:  fmt.Sprintf("unexpected property %q", name),
					Kind:     KindTypeMismatch,
					Severity: SeverityError,
				})
			}
		}
	}

	return violations
}

// validateEnum checks enum membership by deep equality.
func (v *SchemaValidator) validateEnum(data any, schema *spec.Schema, path string) []Violation {
	for _, allowed := range schema.Enum {
		if enumEqual(data, allowed) {
			return nil
		}
	}

	msg := "value is not one of the allowed values"
	if !v.redactValues {
		msg = fmt.Sprintf("value %v is not one of the allowed values", data)
	}

	return []Violation{{
		Path:     path,
		Message:  msg,
		Kind:     KindEnumViolation,
		Severity: SeverityError,
	}}
}

// validateComposition validates allOf and anyOf. oneOf is handled up front
// in Validate because its first-match semantics short-circuit everything
// else.
func (v *SchemaValidator) validateComposition(data any, schema *spec.Schema, path string) []Violation {
	var violations []Violation

	// allOf: every schema must accept the value
	for i, subSchema := range schema.AllOf {
		subViolations := v.Validate(data, subSchema, path)
		if len(subViolations) > 0 {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("allOf[%d] validation failed", i),
				Kind:     KindTypeMismatch,
				Severity: SeverityError,
			})
			violations = append(violations, subViolations...)
		}
	}

	// anyOf: at least one schema must accept the value
	if len(schema.AnyOf) > 0 {
		matched := false
		for _, subSchema := range schema.AnyOf {
			if len(v.Validate(data, subSchema, path)) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			violations = append(violations, Violation{
				Path:     path,
				Message:  fmt.Sprintf("value does not match any of the %d anyOf schemas", len(schema.AnyOf)),
				Kind:     KindNoMatchingAlternative,
				Severity: SeverityError,
			})
		}
	}

	return violations
}

// validateFormat checks common string formats. Format validation is
// advisory per OpenAPI semantics, so failures carry warning severity.
func (v *SchemaValidator) validateFormat(s, format, path string) []Violation {
	var valid bool
	var what string

	switch format {
	case "email":
		valid, what = stringutil.IsValidEmail(s), "email address"
	case "uuid":
		valid, what = stringutil.IsValidUUID(s), "UUID"
	case "date":
		valid, what = stringutil.IsValidDate(s), "date (expected YYYY-MM-DD)"
	case "date-time":
		valid, what = stringutil.IsValidDateTime(s), "date-time (expected RFC 3339)"
	case "uri", "uri-reference":
		valid, what = stringutil.IsValidURI(s), "URI"
	default:
		// Unknown formats are ignored per JSON Schema semantics
		return nil
	}

	if valid {
		return nil
	}

	msg := fmt.Sprintf("value is not a valid %s", what)
	if !v.redactValues {
		msg = fmt.Sprintf("%q is not a valid %s", s, what)
	}
	return []Violation{{
		Path:     path,
		Message:  msg,
		Kind:     KindTypeMismatch,
		Severity: SeverityWarning,
	}}
}

// maxPatternCacheSize is the upper bound on cached compiled regex patterns.
// When exceeded, the cache is cleared to prevent unbounded memory growth
// from specs with many unique patterns.
const maxPatternCacheSize = 1000

// matchPattern compiles and matches a regex pattern, caching compilations.
func (v *SchemaValidator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	// The count check and clear are not atomic; under high concurrency
	// multiple goroutines may clear simultaneously. Worst case is extra
	// recompilation.
	if v.patternCount.Add(1) > maxPatternCacheSize {
		v.patternCache.Range(func(key, _ any) bool {
			v.patternCache.Delete(key)
			return true
		})
		v.patternCount.Store(1)
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// getDataType returns the JSON Schema type of a decoded Go value.
func getDataType(data any) string {
	switch data.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, float32:
		return "number"
	case int, int32, int64, uint, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", data)
	}
}

// typeMatches checks if a data type satisfies a schema type.
func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	// "integer" is a subset of "number"
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	// JSON has a single number type; whole-number checks happen separately
	if schemaType == "integer" && dataType == "number" {
		return true
	}
	return false
}

// toFloat64 converts numeric types to float64.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// enumEqual compares a value to an enum member, bridging the numeric
// representations produced by JSON decoding (float64) and YAML spec
// decoding (int).
func enumEqual(data, allowed any) bool {
	if reflect.DeepEqual(data, allowed) {
		return true
	}
	dataNum, dataOK := asFloat64(data)
	allowedNum, allowedOK := asFloat64(allowed)
	return dataOK && allowedOK && dataNum == allowedNum
}

// asFloat64 reports a numeric value as float64.
func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int, int32, int64, float32, float64:
		return toFloat64(n), true
	}
	return 0, false
}

// hasDuplicates checks if an array has duplicate values.
func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
