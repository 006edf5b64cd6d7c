package contract

import (
	"io"
	"net/http"
	"net/url"

	"github.com/oasguard/oasguard/guarderrors"
	"github.com/oasguard/oasguard/spec"
)

// Option is a functional option for one-shot validation.
type Option func(*config) error

// config holds the configuration for one-shot validation operations.
type config struct {
	// Spec source (one of these must be set)
	filePath  string
	specBytes []byte
	doc       *spec.Document

	// Validation behavior
	includeWarnings bool
	strictMode      bool

	// Skip options
	skipBodyValidation   bool
	skipQueryValidation  bool
	skipHeaderValidation bool

	// Resource limits
	maxBodySize int64 // max request/response body size (0 = default 10 MiB)
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		includeWarnings: true,
	}
}

// WithFilePath sets the path to the OpenAPI specification file.
// The file is loaded automatically.
func WithFilePath(path string) Option {
	return func(c *config) error {
		c.filePath = path
		return nil
	}
}

// WithBytes sets the raw OpenAPI specification source.
func WithBytes(data []byte) Option {
	return func(c *config) error {
		if data == nil {
			return &guarderrors.ConfigError{Option: "WithBytes", Message: "bytes cannot be nil"}
		}
		c.specBytes = data
		return nil
	}
}

// WithDocument uses an already loaded specification. This is more efficient
// when validating multiple exchanges; for repeated use, prefer a long-lived
// Validator from New.
func WithDocument(doc *spec.Document) Option {
	return func(c *config) error {
		if doc == nil {
			return &guarderrors.ConfigError{Option: "WithDocument", Message: "document cannot be nil"}
		}
		c.doc = doc
		return nil
	}
}

// WithIncludeWarnings sets whether advisory findings are collected.
// Default is true.
func WithIncludeWarnings(include bool) Option {
	return func(c *config) error {
		c.includeWarnings = include
		return nil
	}
}

// WithStrictMode enables stricter validation: requests with query
// parameters the operation never declares become violations. Default is
// false.
func WithStrictMode(strict bool) Option {
	return func(c *config) error {
		c.strictMode = strict
		return nil
	}
}

// WithSkipBodyValidation skips request body validation. Useful when body
// validation is too expensive or handled elsewhere.
func WithSkipBodyValidation(skip bool) Option {
	return func(c *config) error {
		c.skipBodyValidation = skip
		return nil
	}
}

// WithSkipQueryValidation skips query parameter validation.
func WithSkipQueryValidation(skip bool) Option {
	return func(c *config) error {
		c.skipQueryValidation = skip
		return nil
	}
}

// WithSkipHeaderValidation skips header parameter validation.
func WithSkipHeaderValidation(skip bool) Option {
	return func(c *config) error {
		c.skipHeaderValidation = skip
		return nil
	}
}

// WithMaxBodySize sets the maximum request/response body size in bytes.
// Bodies exceeding this limit produce a violation. Default: 10 MiB.
func WithMaxBodySize(n int64) Option {
	return func(c *config) error {
		if n < 0 {
			return &guarderrors.ConfigError{Option: "WithMaxBodySize", Value: n, Message: "size cannot be negative"}
		}
		c.maxBodySize = n
		return nil
	}
}

// ValidateRequestWithOptions validates an HTTP request in a single call,
// loading the specification if necessary.
//
// This is a convenience for one-off validations. For validating multiple
// exchanges, use New to create a reusable Validator.
//
// Example:
//
//	result, err := contract.ValidateRequestWithOptions(
//	    req,
//	    contract.WithFilePath("openapi.yaml"),
//	    contract.WithStrictMode(true),
//	)
func ValidateRequestWithOptions(req *http.Request, opts ...Option) (*RequestValidationResult, error) {
	v, cfg, err := validatorFromOptions(opts...)
	if err != nil {
		return nil, err
	}

	skips := &skipFlags{
		query:  cfg.skipQueryValidation,
		header: cfg.skipHeaderValidation,
		body:   cfg.skipBodyValidation,
	}

	var body []byte
	if req.Body != nil && !cfg.skipBodyValidation {
		body, err = io.ReadAll(io.LimitReader(req.Body, v.bodyLimit()+1))
		if err != nil {
			return nil, err
		}
	}

	result := newRequestResult()
	v.validateRequestInto(result, req.Method, req.URL.Path, req.URL.Query(), req.Header, body, skips)
	return result, nil
}

// ValidateRequestDataWithOptions validates request parts in a single call.
func ValidateRequestDataWithOptions(method, path string, query url.Values, headers http.Header, body []byte, opts ...Option) (*RequestValidationResult, error) {
	v, cfg, err := validatorFromOptions(opts...)
	if err != nil {
		return nil, err
	}

	skips := &skipFlags{
		query:  cfg.skipQueryValidation,
		header: cfg.skipHeaderValidation,
		body:   cfg.skipBodyValidation,
	}

	result := newRequestResult()
	v.validateRequestInto(result, method, path, query, headers, body, skips)
	return result, nil
}

// ValidateResponseWithOptions validates an HTTP response in a single call,
// loading the specification if necessary.
//
// Example:
//
//	result, err := contract.ValidateResponseWithOptions(
//	    req, resp,
//	    contract.WithFilePath("openapi.yaml"),
//	    contract.WithIncludeWarnings(false),
//	)
func ValidateResponseWithOptions(req *http.Request, resp *http.Response, opts ...Option) (*ResponseValidationResult, error) {
	v, _, err := validatorFromOptions(opts...)
	if err != nil {
		return nil, err
	}
	return v.ValidateResponse(req, resp)
}

// ValidateResponseDataWithOptions validates captured response parts in a
// single call. Useful in middleware where no *http.Response exists.
//
// Example:
//
//	result, err := contract.ValidateResponseDataWithOptions(
//	    req, recorder.Code, recorder.Header(), recorder.Body.Bytes(),
//	    contract.WithFilePath("openapi.yaml"),
//	)
func ValidateResponseDataWithOptions(req *http.Request, statusCode int, headers http.Header, body []byte, opts ...Option) (*ResponseValidationResult, error) {
	v, _, err := validatorFromOptions(opts...)
	if err != nil {
		return nil, err
	}
	return v.ValidateResponseData(req, statusCode, headers, body), nil
}

// validatorFromOptions builds a configured Validator from options.
func validatorFromOptions(opts ...Option) (*Validator, *config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, nil, err
		}
	}

	doc, err := loadDocument(cfg)
	if err != nil {
		return nil, nil, err
	}

	v, err := New(doc)
	if err != nil {
		return nil, nil, err
	}
	v.IncludeWarnings = cfg.includeWarnings
	v.StrictMode = cfg.strictMode
	v.maxBodySize = cfg.maxBodySize
	return v, cfg, nil
}

// loadDocument returns the specification from config.
func loadDocument(cfg *config) (*spec.Document, error) {
	switch {
	case cfg.doc != nil:
		return cfg.doc, nil
	case cfg.filePath != "":
		return spec.Load(spec.WithFilePath(cfg.filePath))
	case cfg.specBytes != nil:
		return spec.Load(spec.WithBytes(cfg.specBytes))
	default:
		return nil, &guarderrors.ConfigError{
			Option:  "specification",
			Message: "no specification provided (use WithFilePath, WithBytes, or WithDocument)",
		}
	}
}
