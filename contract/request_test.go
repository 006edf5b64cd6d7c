package contract

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func jsonHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func TestValidateRequestMissingRequiredHeader(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("GET", "/users", nil, http.Header{}, nil)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "header.X-Request-ID", result.Violations[0].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[0].Kind)
}

func TestValidateRequestQueryParams(t *testing.T) {
	v := newUsersValidator(t)

	tests := []struct {
		name     string
		query    url.Values
		wantPath string
		wantKind Kind
	}{
		{
			name:     "non-numeric integer param",
			query:    url.Values{"limit": {"abc"}},
			wantPath: "query.limit",
			wantKind: KindTypeMismatch,
		},
		{
			name:     "below minimum",
			query:    url.Values{"limit": {"0"}},
			wantPath: "query.limit",
			wantKind: KindRangeViolation,
		},
		{
			name:     "above maximum",
			query:    url.Values{"limit": {"500"}},
			wantPath: "query.limit",
			wantKind: KindRangeViolation,
		},
		{
			name:     "enum violation",
			query:    url.Values{"role": {"owner"}},
			wantPath: "query.role",
			wantKind: KindEnumViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateRequestData("GET", "/users", tt.query, listUsersHeaders(), nil)

			assert.False(t, result.Valid)
			require.Len(t, result.Violations, 1)
			assert.Equal(t, tt.wantPath, result.Violations[0].Path)
			assert.Equal(t, tt.wantKind, result.Violations[0].Kind)
		})
	}
}

func TestValidateRequestEmptyQueryValueWarning(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("GET", "/users", url.Values{"q": {""}}, listUsersHeaders(), nil)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "query.q", result.Warnings[0].Path)

	// Warnings disabled: the finding disappears
	v.IncludeWarnings = false
	result = v.ValidateRequestData("GET", "/users", url.Values{"q": {""}}, listUsersHeaders(), nil)
	assert.Empty(t, result.Warnings)
}

func TestValidateRequestStrictModeUnknownQuery(t *testing.T) {
	v := newUsersValidator(t)

	query := url.Values{"limit": {"10"}, "debug": {"1"}}

	result := v.ValidateRequestData("GET", "/users", query, listUsersHeaders(), nil)
	assert.True(t, result.Valid)

	v.StrictMode = true
	result = v.ValidateRequestData("GET", "/users", query, listUsersHeaders(), nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "query.debug", result.Violations[0].Path)
	assert.Contains(t, result.Violations[0].Message, "unknown query parameter")
}

func TestValidateRequestPathParamCoercion(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("GET", "/users/42", nil, nil, nil)
	assert.True(t, result.Valid)
	assert.Equal(t, "/users/{id}", result.MatchedPath)
	assert.Equal(t, int64(42), result.PathParams["id"])

	result = v.ValidateRequestData("GET", "/users/abc", nil, nil, nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "path.id", result.Violations[0].Path)
	assert.Equal(t, KindTypeMismatch, result.Violations[0].Kind)
}

func TestValidateRequestBodyRequired(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("POST", "/users", nil, jsonHeaders(), nil)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "requestBody", result.Violations[0].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[0].Kind)
}

func TestValidateRequestBodyInvalidJSON(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("POST", "/users", nil, jsonHeaders(), []byte(`{"id": `))

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "requestBody", result.Violations[0].Path)
	assert.Equal(t, KindTypeMismatch, result.Violations[0].Kind)
}

func TestValidateRequestBodySchema(t *testing.T) {
	v := newUsersValidator(t)

	// Body violations are rooted at the value, not at "requestBody"
	result := v.ValidateRequestData("POST", "/users", nil, jsonHeaders(), []byte(`{"name": "Ada"}`))
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ".id", result.Violations[0].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[0].Kind)

	result = v.ValidateRequestData("POST", "/users", nil, jsonHeaders(),
		[]byte(`{"id": 1, "name": "Ada", "nickname": "ada"}`))
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ".nickname", result.Violations[0].Path)
}

func TestValidateRequestBodyMissingContentType(t *testing.T) {
	v := newUsersValidator(t)

	result := v.ValidateRequestData("POST", "/users", nil, http.Header{},
		[]byte(`{"id": 1, "name": "Ada"}`))

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "Content-Type")
}

func TestValidateRequestBodyUndeclaredContentType(t *testing.T) {
	v := newUsersValidator(t)

	h := http.Header{}
	h.Set("Content-Type", "application/xml")

	result := v.ValidateRequestData("POST", "/users", nil, h, []byte(`<user/>`))
	assert.True(t, result.Valid)

	v.StrictMode = true
	result = v.ValidateRequestData("POST", "/users", nil, h, []byte(`<user/>`))
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "application/xml")
}

func TestValidateRequestBodySizeLimit(t *testing.T) {
	v := newUsersValidator(t)
	v.maxBodySize = 16

	big := []byte(`{"id": 1, "name": "` + strings.Repeat("a", 64) + `"}`)
	result := v.ValidateRequestData("POST", "/users", nil, jsonHeaders(), big)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "requestBody", result.Violations[0].Path)
	assert.Equal(t, KindRangeViolation, result.Violations[0].Kind)
}

func TestValidateRequestAccumulatesViolations(t *testing.T) {
	v := newUsersValidator(t)

	// Missing header, bad query param, and bad enum all at once
	result := v.ValidateRequestData(
		"GET", "/users",
		url.Values{"limit": {"0"}, "role": {"owner"}},
		http.Header{}, nil,
	)

	assert.False(t, result.Valid)
	assert.Len(t, result.Violations, 3)

	paths := make([]string, len(result.Violations))
	for i, violation := range result.Violations {
		paths[i] = violation.Path
	}
	assert.ElementsMatch(t, []string{"header.X-Request-ID", "query.limit", "query.role"}, paths)
}
