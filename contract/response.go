package contract

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/oasguard/oasguard/internal/httputil"
	"github.com/oasguard/oasguard/spec"
)

// ValidateResponseData validates response parts without requiring an
// *http.Response. This is the middleware-friendly form: the caller supplies
// the original request (to determine the operation), the status code,
// response headers, and the raw body bytes.
//
// Validation is a pure function of its inputs and the specification; it
// performs no I/O and always returns a result.
func (v *Validator) ValidateResponseData(req *http.Request, statusCode int, headers http.Header, body []byte) *ResponseValidationResult {
	result := newResponseResult()
	v.validateResponseInto(result, req, statusCode, headers, body)
	return result
}

// validateResponseInto runs response validation against a caller-owned result.
func (v *Validator) validateResponseInto(result *ResponseValidationResult, req *http.Request, statusCode int, headers http.Header, body []byte) {
	result.StatusCode = statusCode
	result.ContentType = headers.Get("Content-Type")

	operation, template, _ := v.resolveOperation(req.Method, req.URL.Path, result.addViolation)
	result.MatchedPath = template
	result.MatchedMethod = req.Method
	if operation == nil {
		return
	}

	responseDef := responseDefinition(operation, statusCode)
	if responseDef == nil {
		// Reusing the unknown-operation kind: the exchange reached a
		// response the contract never documents.
		result.addViolation(
			fmt.Sprintf("response.%d", statusCode),
			fmt.Sprintf("undocumented response status code: %d", statusCode),
			KindUnknownOperation,
		)
		return
	}

	v.validateResponseHeaders(headers, responseDef, result)
	v.validateResponseBody(body, result.ContentType, responseDef, result)
}

// responseDefinition finds the response declared for a status code: exact
// match first, then the NXX wildcard, then "default".
func responseDefinition(operation *spec.Operation, statusCode int) *spec.Response {
	responses := operation.Responses
	if responses == nil {
		return nil
	}

	if responses.Codes != nil {
		if resp, ok := responses.Codes[strconv.Itoa(statusCode)]; ok {
			return resp
		}
		if resp, ok := responses.Codes[fmt.Sprintf("%dXX", statusCode/100)]; ok {
			return resp
		}
	}

	return responses.Default
}

// validateResponseHeaders checks declared response headers for presence.
func (v *Validator) validateResponseHeaders(headers http.Header, responseDef *spec.Response, result *ResponseValidationResult) {
	for name, headerDef := range responseDef.Headers {
		if headers.Get(http.CanonicalHeaderKey(name)) == "" && headerDef.Required {
			result.addViolation(
				"response.header."+name,
				fmt.Sprintf("required response header %q is missing", name),
				KindMissingRequiredField,
			)
		}
	}
}

// validateResponseBody validates the response body against the declared
// schema for its media type.
func (v *Validator) validateResponseBody(body []byte, contentType string, responseDef *spec.Response, result *ResponseValidationResult) {
	if responseDef.Content == nil {
		return
	}

	mediaType := contentType
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = parsed
		}
	}

	schema := mediaTypeSchema(responseDef.Content, mediaType)
	if schema == nil {
		return
	}

	if len(body) == 0 {
		if v.IncludeWarnings {
			result.addWarning(
				"response.body",
				"response body is empty but a schema is declared",
				KindTypeMismatch,
			)
		}
		return
	}

	if int64(len(body)) > v.bodyLimit() {
		result.addViolation(
			"response.body",
			fmt.Sprintf("response body exceeds maximum size of %d bytes", v.bodyLimit()),
			KindRangeViolation,
		)
		return
	}

	switch {
	case httputil.IsJSONMediaType(mediaType):
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			result.addViolation(
				"response.body",
				fmt.Sprintf("invalid JSON in response: %v", err),
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
			for _, violation := range v.schemaValidator.Validate(string(body), schema, "response.body") {
				result.add(violation)
			}
		}

	default:
		if v.IncludeWarnings {
			result.addWarning(
				"response.body",
				fmt.Sprintf("cannot validate content type: %s", mediaType),
				KindTypeMismatch,
			)
		}
	}
}
