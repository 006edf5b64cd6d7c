package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to load"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N path templates (for pagination)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of path templates to return (default 100)"`
}

type parsePathSummary struct {
	Path       string   `json:"path"`
	Operations []string `json:"operations"`
}

type parseOutput struct {
	Title          string             `json:"title"`
	Version        string             `json:"version"`
	OpenAPI        string             `json:"openapi"`
	Format         string             `json:"format"`
	PathCount      int                `json:"path_count"`
	OperationCount int                `json:"operation_count"`
	SchemaCount    int                `json:"schema_count"`
	Returned       int                `json:"returned"`
	Paths          []parsePathSummary `json:"paths,omitempty"`
	Schemas        []string           `json:"schemas,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	output := parseOutput{
		OpenAPI:   doc.OpenAPI,
		Format:    string(doc.SourceFormat),
		PathCount: len(doc.Paths),
	}
	if doc.Info != nil {
		output.Title = doc.Info.Title
		output.Version = doc.Info.Version
	}

	paths := makeSlice[parsePathSummary](len(doc.Paths))
	for template, item := range doc.Paths {
		if item == nil {
			continue
		}
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		output.OperationCount += len(methods)
		paths = append(paths, parsePathSummary{Path: template, Operations: methods})
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].Path < paths[j].Path })
	output.Paths = paginate(paths, input.Offset, input.Limit)
	output.Returned = len(output.Paths)

	schemas := doc.Schemas()
	output.SchemaCount = len(schemas)
	output.Schemas = makeSlice[string](len(schemas))
	for name := range schemas {
		output.Schemas = append(output.Schemas, name)
	}
	sort.Strings(output.Schemas)

	return nil, output, nil
}
