package spec

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/oasguard/oasguard/guarderrors"
)

// MaxFileSize is the default maximum size (in bytes) allowed for a
// specification source. 10MB is sufficient for most OpenAPI documents.
const MaxFileSize = 10 * 1024 * 1024

// Option is a function that configures a load operation
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	logger      Logger
	maxFileSize int64

	// Source identification
	sourceName *string // Override SourcePath in the result
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &guarderrors.ConfigError{Option: "WithReader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			return &guarderrors.ConfigError{Option: "WithBytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithLogger sets the logger used during loading and reference resolution.
// Defaults to NopLogger.
func WithLogger(logger Logger) Option {
	return func(cfg *loadConfig) error {
		if logger == nil {
			return &guarderrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		cfg.logger = logger
		return nil
	}
}

// WithMaxFileSize overrides the maximum source size in bytes.
func WithMaxFileSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size <= 0 {
			return &guarderrors.ConfigError{Option: "WithMaxFileSize", Value: size, Message: "size must be positive"}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithSourceName overrides the SourcePath recorded on the loaded Document.
// Useful when loading from bytes or a reader.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

// Load reads, parses, resolves, and structurally checks an OpenAPI
// specification, returning an immutable Document.
//
// Example:
//
//	doc, err := spec.Load(spec.WithFilePath("openapi.yaml"))
//
// Malformed sources fail with *guarderrors.ParseError, dangling or circular
// $refs with *guarderrors.ReferenceError, and structurally invalid documents
// with *guarderrors.DocumentError.
func Load(opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("spec: invalid options: %w", err)
	}

	data, sourcePath, err := readSource(cfg)
	if err != nil {
		return nil, err
	}

	doc, err := loadBytes(data, sourcePath, cfg.logger)
	if err != nil {
		return nil, err
	}

	if cfg.sourceName != nil {
		doc.SourcePath = *cfg.sourceName
	}
	return doc, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:      NopLogger{},
		maxFileSize: MaxFileSize,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sources := 0
	for _, set := range []bool{cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, &guarderrors.ConfigError{
			Option:  "input",
			Message: "must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		}
	case sources > 1:
		return nil, &guarderrors.ConfigError{
			Option:  "input",
			Message: "must specify exactly one input source",
		}
	}

	return cfg, nil
}

func readSource(cfg *loadConfig) (data []byte, sourcePath string, err error) {
	switch {
	case cfg.filePath != nil:
		sourcePath = *cfg.filePath
		data, err = os.ReadFile(sourcePath)
		if err != nil {
			return nil, "", &guarderrors.ParseError{
				Path:    sourcePath,
				Message: "failed to read file",
				Cause:   err,
			}
		}
	case cfg.reader != nil:
		sourcePath = "<reader>"
		data, err = io.ReadAll(io.LimitReader(cfg.reader, cfg.maxFileSize+1))
		if err != nil {
			return nil, "", &guarderrors.ParseError{
				Path:    sourcePath,
				Message: "failed to read input",
				Cause:   err,
			}
		}
	default:
		sourcePath = "<bytes>"
		data = cfg.bytes
	}

	if int64(len(data)) > cfg.maxFileSize {
		return nil, "", &guarderrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        cfg.maxFileSize,
			Actual:       int64(len(data)),
			Message:      "specification source exceeds size limit",
		}
	}
	return data, sourcePath, nil
}

// loadBytes runs the full pipeline on raw source bytes: unmarshal to a raw
// tree, resolve every $ref eagerly, decode into the typed model, then check
// the structural invariants.
func loadBytes(data []byte, sourcePath string, logger Logger) (*Document, error) {
	format := detectFormat(data)

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &guarderrors.ParseError{
			Path:    sourcePath,
			Message: fmt.Sprintf("malformed %s", format),
			Cause:   err,
		}
	}
	if raw == nil {
		return nil, &guarderrors.ParseError{
			Path:    sourcePath,
			Message: "document is empty",
		}
	}

	resolver := newRefResolver(raw, logger)
	resolved, err := resolver.resolveDocument()
	if err != nil {
		return nil, err
	}

	// Round-trip the resolved raw tree through YAML to decode it into the
	// typed model without hand-written mapping code.
	resolvedBytes, err := yaml.Marshal(resolved)
	if err != nil {
		return nil, &guarderrors.ParseError{
			Path:    sourcePath,
			Message: "failed to re-encode resolved document",
			Cause:   err,
		}
	}

	var doc Document
	if err := yaml.Unmarshal(resolvedBytes, &doc); err != nil {
		return nil, &guarderrors.ParseError{
			Path:    sourcePath,
			Message: "failed to decode document structure",
			Cause:   err,
		}
	}

	doc.SourcePath = sourcePath
	doc.SourceFormat = format

	if err := checkStructure(&doc); err != nil {
		return nil, err
	}

	logger.Info("specification loaded",
		"source", sourcePath,
		"format", string(format),
		"paths", len(doc.Paths))
	return &doc, nil
}

// detectFormat distinguishes JSON from YAML sources. JSON is a subset of
// YAML so the distinction is informational only.
func detectFormat(data []byte) SourceFormat {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// checkStructure verifies the structural invariants a loaded document must
// hold before validation can rely on it.
func checkStructure(doc *Document) error {
	if doc.OpenAPI == "" {
		return &guarderrors.DocumentError{
			Path:    "/",
			Field:   "openapi",
			Message: "missing required field",
		}
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return &guarderrors.DocumentError{
			Path:    "/",
			Field:   "openapi",
			Message: fmt.Sprintf("unsupported version %q, expected 3.x", doc.OpenAPI),
		}
	}
	if doc.Paths == nil {
		return &guarderrors.DocumentError{
			Path:    "/",
			Field:   "paths",
			Message: "missing required field",
		}
	}

	for template, item := range doc.Paths {
		if item == nil {
			continue
		}
		if !strings.HasPrefix(template, "/") {
			return &guarderrors.DocumentError{
				Path:    template,
				Message: "path template must start with '/'",
			}
		}
		templateParams, err := templateParamNames(template)
		if err != nil {
			return err
		}
		for method, op := range item.Operations() {
			if err := checkOperation(doc, template, method, op, templateParams); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkOperation(doc *Document, template, method string, op *Operation, templateParams map[string]bool) error {
	at := method + " " + template

	if op.Responses == nil || (op.Responses.Default == nil && len(op.Responses.Codes) == 0) {
		return &guarderrors.DocumentError{
			Path:    at,
			Field:   "responses",
			Message: "operation must declare at least one response",
		}
	}

	declared := make(map[string]bool)
	for _, p := range doc.ParametersFor(template, op) {
		switch p.In {
		case InPath, InQuery, InHeader:
		default:
			return &guarderrors.DocumentError{
				Path:    at,
				Field:   "parameters",
				Message: fmt.Sprintf("parameter %q has unsupported location %q", p.Name, p.In),
			}
		}
		if p.In == InPath {
			if !p.Required {
				return &guarderrors.DocumentError{
					Path:    at,
					Field:   "parameters",
					Message: fmt.Sprintf("path parameter %q must be required", p.Name),
				}
			}
			if !templateParams[p.Name] {
				return &guarderrors.DocumentError{
					Path:    at,
					Field:   "parameters",
					Message: fmt.Sprintf("path parameter %q does not appear in the path template", p.Name),
				}
			}
			declared[p.Name] = true
		}
	}

	for name := range templateParams {
		if !declared[name] {
			return &guarderrors.DocumentError{
				Path:    at,
				Field:   "parameters",
				Message: fmt.Sprintf("path template parameter {%s} is not declared as an in:path parameter", name),
			}
		}
	}
	return nil
}

// templateParamNames extracts the {placeholder} names from a path template.
func templateParamNames(template string) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, segment := range strings.Split(template, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			name := segment[1 : len(segment)-1]
			if name == "" {
				return nil, &guarderrors.DocumentError{
					Path:    template,
					Message: "empty path template parameter",
				}
			}
			names[name] = true
		} else if strings.ContainsAny(segment, "{}") {
			return nil, &guarderrors.DocumentError{
				Path:    template,
				Message: fmt.Sprintf("malformed path template segment %q", segment),
			}
		}
	}
	return names, nil
}
