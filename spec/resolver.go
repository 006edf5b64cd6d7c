package spec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oasguard/oasguard/guarderrors"
)

// MaxRefDepth is the maximum depth allowed for nested $ref resolution.
// This prevents stack overflow from deeply nested (but non-circular) chains.
const MaxRefDepth = 100

// refResolver performs eager, local-only $ref resolution over the raw
// document tree. Every $ref node is replaced by a deep copy of its resolved
// target so the typed decode step never sees a reference.
type refResolver struct {
	// root is the raw document all references resolve against
	root map[string]any
	// resolving tracks refs currently on the recursion stack; re-entering
	// one means the reference chain is circular
	resolving map[string]bool
	// resolved caches fully resolved targets by ref string
	resolved map[string]any
	logger   Logger
}

func newRefResolver(root map[string]any, logger Logger) *refResolver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &refResolver{
		root:      root,
		resolving: make(map[string]bool),
		resolved:  make(map[string]any),
		logger:    logger,
	}
}

// resolveDocument returns a copy of the root document with every $ref
// replaced by its resolved target.
func (r *refResolver) resolveDocument() (map[string]any, error) {
	out, err := r.resolveValue(r.root, 0)
	if err != nil {
		return nil, err
	}
	doc, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root resolved to %T, expected mapping", out)
	}
	return doc, nil
}

func (r *refResolver) resolveValue(v any, depth int) (any, error) {
	if depth > MaxRefDepth {
		return nil, &guarderrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        MaxRefDepth,
			Actual:       int64(depth),
			Message:      "reference nesting too deep",
		}
	}

	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok {
			return r.resolveRef(ref, depth)
		}
		out := make(map[string]any, len(t))
		for key, value := range t {
			resolved, err := r.resolveValue(value, depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil

	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			resolved, err := r.resolveValue(value, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return v, nil
	}
}

func (r *refResolver) resolveRef(ref string, depth int) (any, error) {
	if r.resolving[ref] {
		return nil, &guarderrors.ReferenceError{
			Ref:        ref,
			IsCircular: true,
		}
	}
	if cached, ok := r.resolved[ref]; ok {
		return deepCopyValue(cached), nil
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, &guarderrors.ReferenceError{
			Ref:     ref,
			Message: "only document-local references (#/...) are supported",
		}
	}

	target, err := lookupPointer(r.root, ref)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolving reference", "ref", ref, "depth", depth)

	r.resolving[ref] = true
	resolved, err := r.resolveValue(target, depth+1)
	delete(r.resolving, ref)
	if err != nil {
		return nil, err
	}

	r.resolved[ref] = resolved
	return deepCopyValue(resolved), nil
}

// lookupPointer walks a local JSON Pointer reference (#/a/b/0/c) through
// the raw document tree.
func lookupPointer(root map[string]any, ref string) (any, error) {
	pointer := strings.TrimPrefix(ref, "#")
	if pointer == "" || pointer == "/" {
		return root, nil
	}

	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")

	current := any(root)
	for i, part := range parts {
		part = unescapeJSONPointer(part)

		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, &guarderrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("reference not found (missing key %q at #/%s)", part, strings.Join(parts[:i+1], "/")),
				}
			}
			current = next

		case []any:
			// Array indexing per RFC 6901 (JSON Pointer)
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil, &guarderrors.ReferenceError{
					Ref:     ref,
					Message: fmt.Sprintf("invalid array index %q at #/%s", part, strings.Join(parts[:i+1], "/")),
				}
			}
			current = v[index]

		default:
			return nil, &guarderrors.ReferenceError{
				Ref:     ref,
				Message: fmt.Sprintf("cannot traverse into %T at #/%s", v, strings.Join(parts[:i], "/")),
			}
		}
	}

	return current, nil
}

// unescapeJSONPointer unescapes the RFC 6901 token escapes: ~1 becomes /
// and ~0 becomes ~. Order matters.
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// deepCopyValue produces an independent copy of a raw YAML/JSON value tree
// so resolved reference targets can be shared without aliasing.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[key] = deepCopyValue(value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = deepCopyValue(value)
		}
		return out
	default:
		return v
	}
}
