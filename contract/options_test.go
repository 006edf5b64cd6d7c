package contract

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasguard/oasguard/guarderrors"
)

func TestValidateRequestDataWithOptionsFromBytes(t *testing.T) {
	result, err := ValidateRequestDataWithOptions(
		"GET", "/users",
		url.Values{"limit": {"10"}},
		listUsersHeaders(), nil,
		WithBytes([]byte(usersAPIYAML)),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "/users", result.MatchedPath)
}

func TestValidateRequestDataWithOptionsFromDocument(t *testing.T) {
	doc := loadUsersAPI(t)

	result, err := ValidateRequestDataWithOptions(
		"GET", "/users", nil, http.Header{}, nil,
		WithDocument(doc),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "header.X-Request-ID", result.Violations[0].Path)
}

func TestValidateWithOptionsRequiresSource(t *testing.T) {
	_, err := ValidateRequestDataWithOptions("GET", "/users", nil, nil, nil)
	assert.ErrorIs(t, err, guarderrors.ErrConfig)
}

func TestValidateWithOptionsRejectsBadValues(t *testing.T) {
	_, err := ValidateRequestDataWithOptions("GET", "/users", nil, nil, nil,
		WithBytes(nil))
	assert.ErrorIs(t, err, guarderrors.ErrConfig)

	_, err = ValidateRequestDataWithOptions("GET", "/users", nil, nil, nil,
		WithDocument(nil))
	assert.ErrorIs(t, err, guarderrors.ErrConfig)

	_, err = ValidateRequestDataWithOptions("GET", "/users", nil, nil, nil,
		WithBytes([]byte(usersAPIYAML)), WithMaxBodySize(-1))
	assert.ErrorIs(t, err, guarderrors.ErrConfig)
}

func TestValidateWithOptionsStrictMode(t *testing.T) {
	doc := loadUsersAPI(t)
	query := url.Values{"debug": {"1"}}

	result, err := ValidateRequestDataWithOptions(
		"GET", "/users", query, listUsersHeaders(), nil,
		WithDocument(doc),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateRequestDataWithOptions(
		"GET", "/users", query, listUsersHeaders(), nil,
		WithDocument(doc), WithStrictMode(true),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "query.debug", result.Violations[0].Path)
}

func TestValidateWithOptionsSkipFlags(t *testing.T) {
	doc := loadUsersAPI(t)

	// Body validation skipped: missing required body goes unreported
	result, err := ValidateRequestDataWithOptions(
		"POST", "/users", nil, jsonHeaders(), nil,
		WithDocument(doc), WithSkipBodyValidation(true),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Header validation skipped: missing required header goes unreported
	result, err = ValidateRequestDataWithOptions(
		"GET", "/users", nil, http.Header{}, nil,
		WithDocument(doc), WithSkipHeaderValidation(true),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Query validation skipped: bad query value goes unreported
	result, err = ValidateRequestDataWithOptions(
		"GET", "/users", url.Values{"limit": {"abc"}}, listUsersHeaders(), nil,
		WithDocument(doc), WithSkipQueryValidation(true),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithOptionsIncludeWarnings(t *testing.T) {
	doc := loadUsersAPI(t)

	result, err := ValidateRequestDataWithOptions(
		"GET", "/users", url.Values{"q": {""}}, listUsersHeaders(), nil,
		WithDocument(doc), WithIncludeWarnings(false),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidateRequestWithOptions(t *testing.T) {
	req, err := http.NewRequest("POST", "http://api.test/users",
		jsonBody(`{"name": "Ada"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	result, err := ValidateRequestWithOptions(req, WithBytes([]byte(usersAPIYAML)))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ".id", result.Violations[0].Path)
}

func TestValidateResponseDataWithOptions(t *testing.T) {
	result, err := ValidateResponseDataWithOptions(
		listUsersRequest(t), 200, listUsersResponseHeaders(),
		[]byte(`{"users": []}`),
		WithBytes([]byte(usersAPIYAML)),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 200, result.StatusCode)
}
