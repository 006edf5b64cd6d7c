// Package spec loads OpenAPI 3.0 documents into an immutable, fully
// $ref-resolved in-memory representation suitable for contract validation.
//
// A Document is built once via Load and never mutated afterwards, so it can
// be shared freely across goroutines:
//
//	doc, err := spec.Load(spec.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for template, item := range doc.Paths {
//	    fmt.Println(template, len(item.Operations()))
//	}
//
// Both YAML and JSON sources are accepted; the YAML parser handles both.
//
// # Reference resolution
//
// Every $ref in the document is resolved eagerly at load time. A $ref whose
// target does not exist fails with *guarderrors.ReferenceError, and a
// schema that refers to itself, directly or transitively, fails with
// *guarderrors.ReferenceError with IsCircular set. Validation code
// therefore never encounters an unresolved reference.
//
// If hot-reloading of specifications is needed, load a fresh Document and
// swap the shared pointer atomically; never mutate a loaded Document in
// place.
package spec
