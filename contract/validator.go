package contract

import (
	"fmt"
	"io"
	"net/http"

	"github.com/oasguard/oasguard/guarderrors"
	"github.com/oasguard/oasguard/spec"
)

// defaultMaxBodySize bounds request/response bodies read during validation.
const defaultMaxBodySize = 10 * 1024 * 1024 // 10 MiB

// Validator validates HTTP requests and responses against a loaded OpenAPI
// specification. It is safe for concurrent use: the specification is
// immutable and all validation state is per-call.
//
// Create a Validator with New:
//
//	doc, _ := spec.Load(spec.WithFilePath("openapi.yaml"))
//	v, err := contract.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := v.ValidateRequest(req)
//	if !result.Valid {
//	    // Handle contract violations
//	}
type Validator struct {
	// doc holds the loaded specification
	doc *spec.Document

	// pathMatcherSet resolves request paths to path templates
	pathMatcherSet *PathMatcherSet

	// schemaValidator handles schema validation of bodies and parameters
	schemaValidator *SchemaValidator

	// sensitiveSchemaValidator redacts values in violation messages; used
	// for headers, which may carry credentials
	sensitiveSchemaValidator *SchemaValidator

	// IncludeWarnings determines whether advisory findings are collected.
	// Default is true.
	IncludeWarnings bool

	// StrictMode enables stricter validation behavior:
	//   - Rejects requests with unknown query parameters
	StrictMode bool

	// maxBodySize bounds bodies read during validation (0 = default 10 MiB)
	maxBodySize int64
}

// New creates a Validator from a loaded specification. Path matchers are
// pre-compiled so per-request matching allocates nothing but the bound
// parameter map.
func New(doc *spec.Document) (*Validator, error) {
	if doc == nil {
		return nil, &guarderrors.ConfigError{Option: "document", Message: "document cannot be nil"}
	}

	templates := make([]string, 0, len(doc.Paths))
	for template := range doc.Paths {
		templates = append(templates, template)
	}
	matcherSet, err := NewPathMatcherSet(templates)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}

	return &Validator{
		doc:                      doc,
		pathMatcherSet:           matcherSet,
		schemaValidator:          NewSchemaValidator(),
		sensitiveSchemaValidator: NewRedactingSchemaValidator(),
		IncludeWarnings:          true,
	}, nil
}

// Document returns the specification this validator checks against.
func (v *Validator) Document() *spec.Document {
	return v.doc
}

// SetMaxBodySize overrides the body size bound in bytes. Zero restores the
// 10 MiB default.
func (v *Validator) SetMaxBodySize(n int64) {
	v.maxBodySize = n
}

// bodyLimit returns the effective body size bound.
func (v *Validator) bodyLimit() int64 {
	if v.maxBodySize > 0 {
		return v.maxBodySize
	}
	return defaultMaxBodySize
}

// resolveOperation matches a request path and method to an operation,
// recording a violation on miss. The returned operation is nil when
// resolution failed; ambiguity and no-match both surface as
// KindUnknownOperation since the exchange does not correspond to exactly
// one documented operation.
func (v *Validator) resolveOperation(method, path string, record func(path, message string, kind Kind)) (*spec.Operation, string, map[string]string) {
	template, pathParams, found, err := v.pathMatcherSet.Match(path)
	if err != nil {
		record("request.path", err.Error(), KindUnknownOperation)
		return nil, "", nil
	}
	if !found {
		record("request.path", fmt.Sprintf("no operation documented for path %q", path), KindUnknownOperation)
		return nil, "", nil
	}

	operation := v.doc.GetOperation(template, method)
	if operation == nil {
		record(
			fmt.Sprintf("%s.%s", template, method),
			fmt.Sprintf("method %s not documented for path %s", method, template),
			KindUnknownOperation,
		)
		return nil, template, nil
	}

	return operation, template, pathParams
}

// ValidateRequest validates an HTTP request against the specification. It
// checks path, query, and header parameters and the request body.
//
// The request body, if present, is consumed. Violations are returned in the
// result; the error return is reserved for internal failures such as body
// read errors.
func (v *Validator) ValidateRequest(req *http.Request) (*RequestValidationResult, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(req.Body, v.bodyLimit()+1))
		if err != nil {
			return nil, fmt.Errorf("contract: failed to read request body: %w", err)
		}
	}
	return v.ValidateRequestData(req.Method, req.URL.Path, req.URL.Query(), req.Header, body), nil
}

// ValidateResponse validates an HTTP response against the specification.
// The original request determines which operation's responses apply.
//
// The response body, if present, is consumed. Violations are returned in
// the result; the error return is reserved for internal failures.
func (v *Validator) ValidateResponse(req *http.Request, resp *http.Response) (*ResponseValidationResult, error) {
	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(resp.Body, v.bodyLimit()+1))
		if err != nil {
			return nil, fmt.Errorf("contract: failed to read response body: %w", err)
		}
	}
	return v.ValidateResponseData(req, resp.StatusCode, resp.Header, body), nil
}
