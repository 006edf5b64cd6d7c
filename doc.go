// Package oasguard provides OpenAPI-driven contract validation for observed
// HTTP requests and responses.
//
// The library treats an OpenAPI 3.0 document as the authoritative contract
// for an API and checks whether real exchanges conform to it: operation
// resolution, parameter constraints, and schema validation of bodies,
// including version-conditional (oneOf) response shapes.
//
// # Overview
//
// Two packages make up the core:
//
//   - spec: load an OpenAPI document (YAML or JSON) into an immutable,
//     fully $ref-resolved in-memory representation
//   - contract: validate HTTP requests and responses against a loaded
//     document, accumulating structured violations
//
// A loaded spec.Document is built once and safe for concurrent use by any
// number of validating goroutines; validation itself is pure and performs
// no I/O.
//
// # Quick Start
//
//	doc, err := spec.Load(spec.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	v, err := contract.New(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := v.ValidateRequest(req)
//	if !result.Valid {
//		for _, viol := range result.Violations {
//			fmt.Println(viol)
//		}
//	}
//
// # Error Handling
//
// Spec loading failures (malformed documents, unresolved or cyclic $refs)
// are fatal and surface as structured errors in the guarderrors package.
// Per-exchange violations are never returned as Go errors: validation
// always completes and returns a result, so a single malformed field does
// not hide other violations in the same value.
//
// # Command-Line Interface
//
//	# Summarize a spec
//	oasguard parse openapi.yaml
//
//	# Validate recorded exchanges against a spec
//	oasguard check --spec openapi.yaml exchanges.json
//
//	# Serve validation tools over MCP stdio
//	oasguard mcp
//
// Install the CLI:
//
//	go install github.com/oasguard/oasguard/cmd/oasguard@latest
package oasguard
