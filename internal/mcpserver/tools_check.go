package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasguard/oasguard/contract"
)

type checkRequestInput struct {
	Spec       specInput         `json:"spec"                  jsonschema:"The OAS document to check against"`
	Method     string            `json:"method"                jsonschema:"HTTP method of the request (e.g. GET)"`
	Path       string            `json:"path"                  jsonschema:"Request path (e.g. /users/42)"`
	Query      string            `json:"query,omitempty"       jsonschema:"Raw query string without the leading ? (e.g. limit=10&role=admin)"`
	Headers    map[string]string `json:"headers,omitempty"     jsonschema:"Request headers as name/value pairs"`
	Body       string            `json:"body,omitempty"        jsonschema:"Raw request body"`
	Strict     *bool             `json:"strict,omitempty"      jsonschema:"Reject undeclared query parameters"`
	NoWarnings *bool             `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int               `json:"offset,omitempty"      jsonschema:"Skip the first N violations/warnings (for pagination)"`
	Limit      int               `json:"limit,omitempty"       jsonschema:"Maximum number of violations/warnings to return (default 100). Applied independently to each array."`
}

type checkIssue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
}

type checkRequestOutput struct {
	Valid          bool         `json:"valid"`
	MatchedPath    string       `json:"matched_path,omitempty"`
	MatchedMethod  string       `json:"matched_method,omitempty"`
	ViolationCount int          `json:"violation_count"`
	WarningCount   int          `json:"warning_count"`
	Returned       int          `json:"returned"`
	Violations     []checkIssue `json:"violations,omitempty"`
	Warnings       []checkIssue `json:"warnings,omitempty"`
}

type checkResponseInput struct {
	Spec       specInput         `json:"spec"                  jsonschema:"The OAS document to check against"`
	Method     string            `json:"method"                jsonschema:"HTTP method of the original request"`
	Path       string            `json:"path"                  jsonschema:"Path of the original request"`
	Status     int               `json:"status"                jsonschema:"HTTP status code of the response"`
	Headers    map[string]string `json:"headers,omitempty"     jsonschema:"Response headers as name/value pairs"`
	Body       string            `json:"body,omitempty"        jsonschema:"Raw response body"`
	NoWarnings *bool             `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int               `json:"offset,omitempty"      jsonschema:"Skip the first N violations/warnings (for pagination)"`
	Limit      int               `json:"limit,omitempty"       jsonschema:"Maximum number of violations/warnings to return (default 100)"`
}

type checkResponseOutput struct {
	Valid          bool         `json:"valid"`
	StatusCode     int          `json:"status_code"`
	MatchedPath    string       `json:"matched_path,omitempty"`
	ViolationCount int          `json:"violation_count"`
	WarningCount   int          `json:"warning_count"`
	Returned       int          `json:"returned"`
	Violations     []checkIssue `json:"violations,omitempty"`
	Warnings       []checkIssue `json:"warnings,omitempty"`
}

// toIssues converts contract violations to the wire shape.
func toIssues(violations []contract.Violation) []checkIssue {
	out := makeSlice[checkIssue](len(violations))
	for _, v := range violations {
		out = append(out, checkIssue{
			Path:     v.Path,
			Message:  v.Message,
			Kind:     v.Kind.String(),
			Severity: v.Severity.String(),
		})
	}
	return out
}

// toHeader converts the flat header map used on the wire to http.Header.
func toHeader(headers map[string]string) http.Header {
	h := http.Header{}
	for name, value := range headers {
		h.Set(name, value)
	}
	return h
}

func handleCheckRequest(_ context.Context, _ *mcp.CallToolRequest, input checkRequestInput) (*mcp.CallToolResult, checkRequestOutput, error) {
	strict := cfg.CheckStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.CheckNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), checkRequestOutput{}, nil
	}

	query, err := url.ParseQuery(input.Query)
	if err != nil {
		return errResult(fmt.Errorf("invalid query string: %w", err)), checkRequestOutput{}, nil
	}

	result, err := contract.ValidateRequestDataWithOptions(
		input.Method, input.Path, query, toHeader(input.Headers), []byte(input.Body),
		contract.WithDocument(doc),
		contract.WithStrictMode(strict),
		contract.WithIncludeWarnings(!noWarnings),
	)
	if err != nil {
		return errResult(err), checkRequestOutput{}, nil
	}

	output := checkRequestOutput{
		Valid:          result.Valid,
		MatchedPath:    result.MatchedPath,
		MatchedMethod:  result.MatchedMethod,
		ViolationCount: len(result.Violations),
		Violations:     toIssues(result.Violations),
	}
	if !noWarnings {
		output.WarningCount = len(result.Warnings)
		output.Warnings = toIssues(result.Warnings)
	}

	output.Violations = paginate(output.Violations, input.Offset, input.Limit)
	output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	output.Returned = len(output.Violations) + len(output.Warnings)

	return nil, output, nil
}

func handleCheckResponse(_ context.Context, _ *mcp.CallToolRequest, input checkResponseInput) (*mcp.CallToolResult, checkResponseOutput, error) {
	noWarnings := cfg.CheckNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), checkResponseOutput{}, nil
	}

	req := &http.Request{
		Method: input.Method,
		URL:    &url.URL{Path: input.Path},
		Header: http.Header{},
	}

	result, err := contract.ValidateResponseDataWithOptions(
		req, input.Status, toHeader(input.Headers), []byte(input.Body),
		contract.WithDocument(doc),
		contract.WithIncludeWarnings(!noWarnings),
	)
	if err != nil {
		return errResult(err), checkResponseOutput{}, nil
	}

	output := checkResponseOutput{
		Valid:          result.Valid,
		StatusCode:     result.StatusCode,
		MatchedPath:    result.MatchedPath,
		ViolationCount: len(result.Violations),
		Violations:     toIssues(result.Violations),
	}
	if !noWarnings {
		output.WarningCount = len(result.Warnings)
		output.Warnings = toIssues(result.Warnings)
	}

	output.Violations = paginate(output.Violations, input.Offset, input.Limit)
	output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	output.Returned = len(output.Violations) + len(output.Warnings)

	return nil, output, nil
}
