package contract

import "sync"

// Pool capacities sized for typical violation counts per exchange.
const (
	resultViolationsCap = 8
	resultWarningsCap   = 4
)

var requestResultPool = sync.Pool{
	New: func() any {
		return &RequestValidationResult{
			Violations:   make([]Violation, 0, resultViolationsCap),
			Warnings:     make([]Violation, 0, resultWarningsCap),
			PathParams:   make(map[string]any),
			QueryParams:  make(map[string]any),
			HeaderParams: make(map[string]any),
		}
	},
}

// newRequestResult creates a fresh RequestValidationResult for results
// handed to callers, which own them indefinitely.
func newRequestResult() *RequestValidationResult {
	return &RequestValidationResult{
		Valid:        true,
		PathParams:   make(map[string]any),
		QueryParams:  make(map[string]any),
		HeaderParams: make(map[string]any),
	}
}

// getRequestResult retrieves a RequestValidationResult from the pool and
// resets it. Used on hot paths where the caller returns the result via
// putRequestResult before the next exchange.
func getRequestResult() *RequestValidationResult {
	r := requestResultPool.Get().(*RequestValidationResult)
	r.reset()
	return r
}

// putRequestResult returns a RequestValidationResult to the pool. The
// result must not be retained after this call.
func putRequestResult(r *RequestValidationResult) {
	if r == nil {
		return
	}
	requestResultPool.Put(r)
}

var responseResultPool = sync.Pool{
	New: func() any {
		return &ResponseValidationResult{
			Violations: make([]Violation, 0, resultViolationsCap),
			Warnings:   make([]Violation, 0, resultWarningsCap),
		}
	},
}

// newResponseResult creates a fresh ResponseValidationResult.
func newResponseResult() *ResponseValidationResult {
	return &ResponseValidationResult{Valid: true}
}

// getResponseResult retrieves a ResponseValidationResult from the pool and
// resets it.
func getResponseResult() *ResponseValidationResult {
	r := responseResultPool.Get().(*ResponseValidationResult)
	r.reset()
	return r
}

// putResponseResult returns a ResponseValidationResult to the pool. The
// result must not be retained after this call.
func putResponseResult(r *ResponseValidationResult) {
	if r == nil {
		return
	}
	responseResultPool.Put(r)
}
