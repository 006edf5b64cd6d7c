// Package contract validates observed HTTP requests and responses against a
// loaded OpenAPI specification.
//
// The package treats the specification as the authoritative contract: each
// exchange is resolved to an operation, its parameters and body are checked
// against the declared constraints, and every deviation is reported as a
// structured Violation. Violations are data, not errors: validation always
// completes and returns a result so a single malformed field does not hide
// the others.
//
// # Basic Usage
//
// Create a Validator from a loaded specification:
//
//	doc, _ := spec.Load(spec.WithFilePath("openapi.yaml"))
//	v, err := contract.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := v.ValidateRequest(req)
//	if !result.Valid {
//	    for _, violation := range result.Violations {
//	        log.Printf("%s: %s", violation.Path, violation.Message)
//	    }
//	}
//
//	// Access validated and coerced parameters
//	userID := result.PathParams["userId"]
//	page := result.QueryParams["page"]
//
// # Middleware Pattern
//
// Use Middleware to validate live traffic around an http.Handler:
//
//	handler = contract.Middleware(v, func(r *http.Request, reqResult *contract.RequestValidationResult, respResult *contract.ResponseValidationResult) {
//	    // report violations
//	})(handler)
//
// For response validation without an *http.Response, use ValidateResponseData
// with captured status, headers, and body.
//
// # One-shot Validation
//
// For one-off checks, the functional options API loads and validates in a
// single call:
//
//	result, err := contract.ValidateRequestWithOptions(
//	    req,
//	    contract.WithFilePath("openapi.yaml"),
//	    contract.WithStrictMode(true),
//	)
//
// # Schema Validation
//
// Bodies and parameter values are checked for type conformance, required
// fields, enum membership, numeric and length bounds, and oneOf composition.
// A oneOf schema validates a value when the first alternative in declaration
// order accepts it; if none do, a single no-matching-alternative violation
// is reported instead of every alternative's failures. Format checks
// (email, uuid, date, date-time, uri) are advisory and surface as warnings.
package contract
