package contract

import (
	"bytes"
	"io"
	"net/http"
)

// ReportFunc receives the validation results for one exchange. The results
// are pooled: they are valid only for the duration of the call and must not
// be retained. Either result may be nil when that side was not validated.
type ReportFunc func(req *http.Request, reqResult *RequestValidationResult, respResult *ResponseValidationResult)

// Middleware returns net/http middleware that validates every request and
// response flowing through the wrapped handler and reports the results.
//
// The middleware observes traffic without altering it: requests are passed
// through to the next handler even when invalid, and responses are written
// to the client unchanged. Callers that want to reject invalid traffic can
// do so from the report hook by tracking request identity, or wrap the
// validator directly.
//
//	handler = contract.Middleware(v, func(r *http.Request, reqRes *contract.RequestValidationResult, respRes *contract.ResponseValidationResult) {
//	    for _, violation := range reqRes.Violations {
//	        logger.Warn("contract violation", "path", violation.Path, "message", violation.Message)
//	    }
//	})(handler)
func Middleware(v *Validator, report ReportFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(io.LimitReader(r.Body, v.bodyLimit()+1))
				r.Body.Close()
				// The handler still needs the body
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			reqResult := getRequestResult()
			defer putRequestResult(reqResult)
			v.validateRequestInto(reqResult, r.Method, r.URL.Path, r.URL.Query(), r.Header, body, nil)

			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			respResult := getResponseResult()
			defer putResponseResult(respResult)
			v.validateResponseInto(respResult, r, recorder.status, w.Header(), recorder.body.Bytes())

			if report != nil {
				report(r, reqResult, respResult)
			}
		})
	}
}

// responseRecorder tees the response so it can be validated after the
// handler runs while still reaching the client.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

// WriteHeader implements http.ResponseWriter.
func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

// Write implements http.ResponseWriter.
func (r *responseRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
