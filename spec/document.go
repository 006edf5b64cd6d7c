package spec

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/oasguard/oasguard/internal/httputil"
)

// Document is the immutable in-memory representation of an OpenAPI 3.0
// specification: paths, operations, parameters, request bodies, responses,
// and the components registry. All $refs are resolved before a Document is
// returned from Load, and the structure must not be mutated afterwards.
type Document struct {
	OpenAPI    string      `yaml:"openapi" json:"openapi"`
	Info       *Info       `yaml:"info" json:"info"`
	Paths      Paths       `yaml:"paths" json:"paths"`
	Components *Components `yaml:"components,omitempty" json:"components,omitempty"`

	// SourcePath is the input source the document was read from.
	SourcePath string `yaml:"-" json:"-"`
	// SourceFormat is the detected format of the source (yaml or json).
	SourceFormat SourceFormat `yaml:"-" json:"-"`
}

// SourceFormat identifies the textual format of the specification source.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// Info provides metadata about the API.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Paths holds the relative paths to the individual endpoints.
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path.
type PathItem struct {
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the operations defined on this path item, keyed by
// lowercase HTTP method. Methods without an operation are absent.
func (pi *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 5)
	for method, op := range map[string]*Operation{
		httputil.MethodGet:    pi.Get,
		httputil.MethodPut:    pi.Put,
		httputil.MethodPost:   pi.Post,
		httputil.MethodDelete: pi.Delete,
		httputil.MethodPatch:  pi.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
type Operation struct {
	OperationID string       `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   *Responses   `yaml:"responses" json:"responses"`
	Deprecated  bool         `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	In          string `yaml:"in" json:"in"` // "path", "query", or "header"
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	Style           string  `yaml:"style,omitempty" json:"style,omitempty"`
	Explode         *bool   `yaml:"explode,omitempty" json:"explode,omitempty"`
	AllowEmptyValue bool    `yaml:"allowEmptyValue,omitempty" json:"allowEmptyValue,omitempty"`
	Schema          *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example         any     `yaml:"example,omitempty" json:"example,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
)

// RequestBody describes a single request body.
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content" json:"content"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// MediaType provides the schema for a media type.
type MediaType struct {
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Responses is a container for the expected responses of an operation.
type Responses struct {
	Default *Response            `yaml:"default,omitempty" json:"default,omitempty"`
	Codes   map[string]*Response `yaml:",inline" json:"-"` // Handled by custom unmarshaler
}

// UnmarshalYAML implements custom unmarshaling for Responses to validate
// status codes during parsing. This prevents invalid fields from being
// captured in the Codes map and provides clearer error messages.
func (r *Responses) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response)

	for key, value := range raw {
		if key == "default" {
			valueBytes, err := yaml.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to marshal default response: %w", err)
			}
			var defaultResp Response
			if err := yaml.Unmarshal(valueBytes, &defaultResp); err != nil {
				return fmt.Errorf("failed to unmarshal default response: %w", err)
			}
			r.Default = &defaultResp
			continue
		}

		if !httputil.ValidateStatusCode(key) {
			return fmt.Errorf("invalid status code '%s' in responses: must be a valid HTTP status code (e.g., \"200\", \"404\"), wildcard pattern (e.g., \"2XX\"), or extension field (e.g., \"x-custom\")", key)
		}
		if strings.HasPrefix(key, "x-") {
			continue
		}
		valueBytes, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal response for status code %s: %w", key, err)
		}
		var resp Response
		if err := yaml.Unmarshal(valueBytes, &resp); err != nil {
			return fmt.Errorf("failed to unmarshal response for status code %s: %w", key, err)
		}
		r.Codes[key] = &resp
	}

	return nil
}

// Response describes a single response from an API Operation.
type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Header describes a declared response header.
type Header struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Components holds the reusable objects of the specification.
type Components struct {
	Schemas       map[string]*Schema      `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Responses     map[string]*Response    `yaml:"responses,omitempty" json:"responses,omitempty"`
	Parameters    map[string]*Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBodies map[string]*RequestBody `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Headers       map[string]*Header      `yaml:"headers,omitempty" json:"headers,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Schemas returns the named schema registry from components, or nil when
// the document declares none.
func (d *Document) Schemas() map[string]*Schema {
	if d.Components == nil {
		return nil
	}
	return d.Components.Schemas
}

// GetOperation returns the operation for the given path template and HTTP
// method (case-insensitive), or nil if not defined.
func (d *Document) GetOperation(pathTemplate, method string) *Operation {
	item := d.Paths[pathTemplate]
	if item == nil {
		return nil
	}
	return item.Operations()[strings.ToLower(method)]
}

// ParametersFor returns all parameters for an operation on the given path,
// merging path-level and operation-level declarations. Operation-level
// parameters override path-level parameters with the same name and location.
func (d *Document) ParametersFor(pathTemplate string, op *Operation) []*Parameter {
	item := d.Paths[pathTemplate]
	if item == nil {
		if op == nil {
			return nil
		}
		return op.Parameters
	}

	paramMap := make(map[string]*Parameter)
	for _, p := range item.Parameters {
		if p != nil {
			paramMap[p.In+":"+p.Name] = p
		}
	}
	if op != nil {
		for _, p := range op.Parameters {
			if p != nil {
				paramMap[p.In+":"+p.Name] = p
			}
		}
	}

	result := make([]*Parameter, 0, len(paramMap))
	for _, p := range paramMap {
		result = append(result, p)
	}
	return result
}
