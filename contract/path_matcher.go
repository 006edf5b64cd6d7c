package contract

import (
	"fmt"
	"sort"
	"strings"
)

// AmbiguousMatchError is returned when two distinct path templates match a
// request path and neither is more specific than the other.
type AmbiguousMatchError struct {
	// Path is the request path that matched ambiguously
	Path string
	// Templates are the templates that tied
	Templates []string
}

// Error returns a human-readable error message.
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for path %q: templates %s are equally specific",
		e.Path, strings.Join(e.Templates, " and "))
}

// segment is one element of a parsed path template: either a literal that
// must match exactly, or a named placeholder that binds any non-empty
// request segment.
type segment struct {
	literal     string
	paramName   string
	placeholder bool
}

// PathMatcher matches request paths against a single OpenAPI path template
// segment by segment. Literal segments match exactly (case-sensitive); a
// {placeholder} segment matches any single non-empty segment and binds it.
type PathMatcher struct {
	// template is the original path template (e.g., "/products/{id}")
	template string

	// segments is the parsed template
	segments []segment

	// placeholderCount orders matchers: fewer placeholders means more specific
	placeholderCount int
}

// NewPathMatcher parses an OpenAPI path template into a PathMatcher.
// Returns an error if the template is malformed.
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" || !strings.HasPrefix(template, "/") {
		return nil, fmt.Errorf("path template %q must start with '/'", template)
	}

	rawSegments := strings.Split(template[1:], "/")
	segments := make([]segment, 0, len(rawSegments))
	placeholders := 0
	seen := make(map[string]bool)

	for _, raw := range rawSegments {
		if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
			name := raw[1 : len(raw)-1]
			if name == "" {
				return nil, fmt.Errorf("empty path parameter in template %q", template)
			}
			if seen[name] {
				return nil, fmt.Errorf("duplicate path parameter %q in template %q", name, template)
			}
			seen[name] = true
			segments = append(segments, segment{paramName: name, placeholder: true})
			placeholders++
			continue
		}
		if strings.ContainsAny(raw, "{}") {
			return nil, fmt.Errorf("malformed segment %q in template %q", raw, template)
		}
		segments = append(segments, segment{literal: raw})
	}

	return &PathMatcher{
		template:         template,
		segments:         segments,
		placeholderCount: placeholders,
	}, nil
}

// Match checks if the given path matches this template and extracts bound
// parameters. Returns false and nil if the path does not match.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	if !strings.HasPrefix(path, "/") {
		return false, nil
	}

	pathSegments := strings.Split(path[1:], "/")
	if len(pathSegments) != len(pm.segments) {
		return false, nil
	}

	var params map[string]string
	for i, seg := range pm.segments {
		value := pathSegments[i]
		if seg.placeholder {
			// Placeholders bind non-empty segments only
			if value == "" {
				return false, nil
			}
			if params == nil {
				params = make(map[string]string, pm.placeholderCount)
			}
			params[seg.paramName] = value
			continue
		}
		if seg.literal != value {
			return false, nil
		}
	}

	if params == nil {
		params = map[string]string{}
	}
	return true, params
}

// Template returns the original path template.
func (pm *PathMatcher) Template() string {
	return pm.template
}

// PathMatcherSet matches request paths against a collection of templates,
// preferring literal segments over placeholders.
type PathMatcherSet struct {
	matchers []*PathMatcher
}

// NewPathMatcherSet creates a PathMatcherSet from a list of path templates.
func NewPathMatcherSet(templates []string) (*PathMatcherSet, error) {
	matchers := make([]*PathMatcher, 0, len(templates))

	for _, template := range templates {
		matcher, err := NewPathMatcher(template)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, matcher)
	}

	// Sort by placeholder count (fewest first), then alphabetically for
	// deterministic results.
	sort.Slice(matchers, func(i, j int) bool {
		if matchers[i].placeholderCount != matchers[j].placeholderCount {
			return matchers[i].placeholderCount < matchers[j].placeholderCount
		}
		return matchers[i].template < matchers[j].template
	})

	return &PathMatcherSet{matchers: matchers}, nil
}

// Match finds the best matching path template for the given request path.
//
// Among all templates that match, the one with the fewest placeholder
// segments wins, so "/products/active" beats "/products/{id}". If two
// distinct templates tie on placeholder count, Match returns an
// *AmbiguousMatchError.
func (pms *PathMatcherSet) Match(path string) (template string, params map[string]string, found bool, err error) {
	var (
		best       *PathMatcher
		bestParams map[string]string
		tied       *PathMatcher
	)

	for _, matcher := range pms.matchers {
		matched, matchParams := matcher.Match(path)
		if !matched {
			continue
		}
		if best == nil || matcher.placeholderCount < best.placeholderCount {
			best = matcher
			bestParams = matchParams
			tied = nil
			continue
		}
		if matcher.placeholderCount == best.placeholderCount {
			tied = matcher
		}
	}

	if best == nil {
		return "", nil, false, nil
	}
	if tied != nil {
		return "", nil, false, &AmbiguousMatchError{
			Path:      path,
			Templates: []string{best.template, tied.template},
		}
	}
	return best.template, bestParams, true, nil
}

// Templates returns all path templates in the set, most specific first.
func (pms *PathMatcherSet) Templates() []string {
	templates := make([]string, len(pms.matchers))
	for i, m := range pms.matchers {
		templates[i] = m.template
	}
	return templates
}
