package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathMatcherRejectsMalformedTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"empty", ""},
		{"no leading slash", "users/{id}"},
		{"empty parameter", "/users/{}"},
		{"duplicate parameter", "/users/{id}/posts/{id}"},
		{"unbalanced brace", "/users/{id"},
		{"brace inside literal", "/us{er}s/x{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPathMatcher(tt.template)
			assert.Error(t, err)
		})
	}
}

func TestPathMatcherMatch(t *testing.T) {
	pm, err := NewPathMatcher("/products/{id}/reviews/{reviewId}")
	require.NoError(t, err)
	assert.Equal(t, "/products/{id}/reviews/{reviewId}", pm.Template())

	tests := []struct {
		name       string
		path       string
		matched    bool
		wantParams map[string]string
	}{
		{
			name:       "binds both placeholders",
			path:       "/products/42/reviews/7",
			matched:    true,
			wantParams: map[string]string{"id": "42", "reviewId": "7"},
		},
		{"segment count mismatch", "/products/42", false, nil},
		{"trailing segment", "/products/42/reviews/7/extra", false, nil},
		{"literal mismatch", "/products/42/ratings/7", false, nil},
		{"empty segment does not bind", "/products//reviews/7", false, nil},
		{"literals are case-sensitive", "/Products/42/reviews/7", false, nil},
		{"no leading slash", "products/42/reviews/7", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, params := pm.Match(tt.path)
			assert.Equal(t, tt.matched, matched)
			if tt.matched {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestPathMatcherLiteralOnly(t *testing.T) {
	pm, err := NewPathMatcher("/health")
	require.NoError(t, err)

	matched, params := pm.Match("/health")
	assert.True(t, matched)
	assert.Empty(t, params)

	matched, _ = pm.Match("/healthz")
	assert.False(t, matched)
}

func TestPathMatcherSetPrefersLiteralSegments(t *testing.T) {
	set, err := NewPathMatcherSet([]string{
		"/products/{id}",
		"/products/active",
	})
	require.NoError(t, err)

	template, params, found, err := set.Match("/products/active")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/products/active", template)
	assert.Empty(t, params)

	template, params, found, err = set.Match("/products/42")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/products/{id}", template)
	assert.Equal(t, map[string]string{"id": "42"}, params)
}

func TestPathMatcherSetAmbiguousTie(t *testing.T) {
	set, err := NewPathMatcherSet([]string{
		"/a/{x}/c",
		"/a/b/{y}",
	})
	require.NoError(t, err)

	_, _, _, err = set.Match("/a/b/c")
	var ambiguous *AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "/a/b/c", ambiguous.Path)
	assert.ElementsMatch(t, []string{"/a/{x}/c", "/a/b/{y}"}, ambiguous.Templates)

	// Paths matched by only one of the tied templates resolve normally
	template, _, found, err := set.Match("/a/z/c")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/a/{x}/c", template)
}

func TestPathMatcherSetNoMatch(t *testing.T) {
	set, err := NewPathMatcherSet([]string{"/users", "/users/{id}"})
	require.NoError(t, err)

	_, _, found, err := set.Match("/orders")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPathMatcherSetTemplatesOrdering(t *testing.T) {
	set, err := NewPathMatcherSet([]string{
		"/b/{x}/{y}",
		"/a/{x}",
		"/c/literal",
	})
	require.NoError(t, err)

	// Most specific first, then alphabetical within a tier
	assert.Equal(t, []string{"/c/literal", "/a/{x}", "/b/{x}/{y}"}, set.Templates())
}
