package contract

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/oasguard/oasguard/internal/httputil"
	"github.com/oasguard/oasguard/spec"
)

// ValidateRequestData validates request parts without requiring an
// *http.Request. This is the middleware-friendly form: the caller supplies
// the method, the request path, decoded query values, headers, and the raw
// body bytes.
//
// Validation is a pure function of its inputs and the specification; it
// performs no I/O and always returns a result.
func (v *Validator) ValidateRequestData(method, path string, query url.Values, headers http.Header, body []byte) *RequestValidationResult {
	result := newRequestResult()
	v.validateRequestInto(result, method, path, query, headers, body, nil)
	return result
}

// validateRequestInto runs request validation against a caller-owned result.
func (v *Validator) validateRequestInto(result *RequestValidationResult, method, path string, query url.Values, headers http.Header, body []byte, skips *skipFlags) {
	operation, template, pathParams := v.resolveOperation(method, path, result.addViolation)
	result.MatchedPath = template
	result.MatchedMethod = method
	if operation == nil {
		return
	}

	v.validatePathParams(pathParams, template, operation, result)

	if skips == nil || !skips.query {
		v.validateQueryParams(query, template, operation, result)
	}
	if skips == nil || !skips.header {
		v.validateHeaderParams(headers, template, operation, result)
	}
	if skips == nil || !skips.body {
		v.validateRequestBody(headers, body, operation, result)
	}
}

// skipFlags disables individual request validation phases.
type skipFlags struct {
	query  bool
	header bool
	body   bool
}

// validatePathParams validates bound path parameters against their schemas.
func (v *Validator) validatePathParams(pathParams map[string]string, template string, operation *spec.Operation, result *RequestValidationResult) {
	coercer := paramCoercer{}

	defined := make(map[string]*spec.Parameter)
	for _, param := range v.doc.ParametersFor(template, operation) {
		if param.In == spec.InPath {
			defined[param.Name] = param
		}
	}

	for name, rawValue := range pathParams {
		param, ok := defined[name]
		if !ok {
			// Load-time checks keep the matcher and declarations in sync,
			// so this indicates a template the document never declared.
			result.addWarning(
				"path."+name,
				fmt.Sprintf("path parameter %q not declared in specification", name),
				KindUnknownOperation,
			)
			result.PathParams[name] = rawValue
			continue
		}

		value := coercer.CoercePathParam(rawValue, param)
		result.PathParams[name] = value

		for _, violation := range v.schemaValidator.Validate(value, param.Schema, "path."+name) {
			result.add(violation)
		}
	}

	for name := range defined {
		if _, bound := pathParams[name]; !bound {
			result.addViolation(
				"path."+name,
				fmt.Sprintf("required path parameter %q is missing", name),
				KindMissingRequiredField,
			)
		}
	}
}

// validateQueryParams validates declared query parameters. Required misses
// are violations; present values are coerced from their wire strings before
// schema validation.
func (v *Validator) validateQueryParams(query url.Values, template string, operation *spec.Operation, result *RequestValidationResult) {
	coercer := paramCoercer{}

	declared := make(map[string]bool)
	for _, param := range v.doc.ParametersFor(template, operation) {
		if param.In != spec.InQuery {
			continue
		}
		declared[param.Name] = true

		values, present := query[param.Name]
		if !present {
			if param.Required {
				result.addViolation(
					"query."+param.Name,
					fmt.Sprintf("required query parameter %q is missing", param.Name),
					KindMissingRequiredField,
				)
			}
			continue
		}

		if len(values) == 1 && values[0] == "" && !param.AllowEmptyValue && v.IncludeWarnings {
			result.addWarning(
				"query."+param.Name,
				fmt.Sprintf("query parameter %q has empty value", param.Name),
				KindTypeMismatch,
			)
		}

		value := coercer.CoerceQueryParam(values, param)
		result.QueryParams[param.Name] = value

		for _, violation := range v.schemaValidator.Validate(value, param.Schema, "query."+param.Name) {
			result.add(violation)
		}
	}

	if v.StrictMode {
		for name := range query {
			if !declared[name] {
				result.addViolation(
					"query."+name,
					fmt.Sprintf("unknown query parameter %q", name),
					KindTypeMismatch,
				)
			}
		}
	}
}

// validateHeaderParams validates declared header parameters. Header values
// are checked with the redacting schema validator so credentials never
// appear in violation messages.
func (v *Validator) validateHeaderParams(headers http.Header, template string, operation *spec.Operation, result *RequestValidationResult) {
	coercer := paramCoercer{}

	for _, param := range v.doc.ParametersFor(template, operation) {
		if param.In != spec.InHeader {
			continue
		}

		canonicalName := http.CanonicalHeaderKey(param.Name)
		value := headers.Get(canonicalName)
		if value == "" {
			if _, present := headers[canonicalName]; !present && param.Required {
				result.addViolation(
					"header."+param.Name,
					fmt.Sprintf("required header parameter %q is missing", param.Name),
					KindMissingRequiredField,
				)
			}
			continue
		}

		coerced := coercer.CoerceHeaderParam(value, param)
		result.HeaderParams[param.Name] = coerced

		for _, violation := range v.sensitiveSchemaValidator.Validate(coerced, param.Schema, "header."+param.Name) {
			result.add(violation)
		}
	}
}

// validateRequestBody validates the JSON request body when the operation
// declares one. A body the operation does not declare is ignored; the
// contract does not constrain bodies it never mentions.
func (v *Validator) validateRequestBody(headers http.Header, body []byte, operation *spec.Operation, result *RequestValidationResult) {
	requestBody := operation.RequestBody
	if requestBody == nil {
		return
	}

	if len(body) == 0 {
		if requestBody.Required {
			result.addViolation(
				"requestBody",
				"request body is required but missing",
				KindMissingRequiredField,
			)
		}
		return
	}

	if int64(len(body)) > v.bodyLimit() {
		result.addViolation(
			"requestBody",
			fmt.Sprintf("request body exceeds maximum size of %d bytes", v.bodyLimit()),
			KindRangeViolation,
		)
		return
	}

	contentType := headers.Get("Content-Type")
	if contentType == "" {
		if v.IncludeWarnings {
			result.addWarning("requestBody", "Content-Type header is missing", KindTypeMismatch)
		}
		return
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		result.addViolation(
			"requestBody",
			fmt.Sprintf("invalid Content-Type header: %s", contentType),
			KindTypeMismatch,
		)
		return
	}

	schema := mediaTypeSchema(requestBody.Content, mediaType)
	if schema == nil {
		if v.StrictMode {
			result.addViolation(
				"requestBody",
				fmt.Sprintf("undeclared Content-Type: %s", mediaType),
				KindTypeMismatch,
			)
		}
		return
	}

	switch {
	case httputil.IsJSONMediaType(mediaType):
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			result.addViolation(
				"requestBody",
				fmt.Sprintf("invalid JSON: %v", err),
				KindTypeMismatch,
			)
			return
		}
		// Body violations are rooted at the value itself, so a missing
		// top-level property reports as ".name".
		for _, violation := range v.schemaValidator.Validate(data, schema, "") {
			result.add(violation)
		}

	case strings.HasPrefix(mediaType, "text/"):
		if schema.Type == "string" {
			for _, violation := range v.schemaValidator.Validate(string(body), schema, "requestBody") {
				result.add(violation)
			}
		}

	default:
		if v.IncludeWarnings {
			result.addWarning(
				"requestBody",
				fmt.Sprintf("cannot validate content type: %s", mediaType),
				KindTypeMismatch,
			)
		}
	}
}

// mediaTypeSchema returns the schema declared for a media type, trying an
// exact match first and then wildcard patterns like "application/*".
func mediaTypeSchema(content map[string]*spec.MediaType, mediaType string) *spec.Schema {
	if content == nil {
		return nil
	}
	if mt, ok := content[mediaType]; ok {
		return mt.Schema
	}
	for pattern, mt := range content {
		if httputil.MatchMediaType(pattern, mediaType) {
			return mt.Schema
		}
	}
	return nil
}
