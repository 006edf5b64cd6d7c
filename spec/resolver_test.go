package spec

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasguard/oasguard/guarderrors"
)

func TestResolveCircularReference(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /nodes:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Node"
components:
  schemas:
    Node:
      type: object
      properties:
        child:
          $ref: "#/components/schemas/Node"
`
	_, err := Load(WithBytes([]byte(src)))
	require.Error(t, err)
	assert.ErrorIs(t, err, guarderrors.ErrCircularReference)

	var refErr *guarderrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.True(t, refErr.IsCircular)
	assert.Equal(t, "#/components/schemas/Node", refErr.Ref)
}

func TestResolveMutualCircularReference(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /a:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/A"
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: "#/components/schemas/B"
    B:
      type: object
      properties:
        a:
          $ref: "#/components/schemas/A"
`
	_, err := Load(WithBytes([]byte(src)))
	require.Error(t, err)
	assert.ErrorIs(t, err, guarderrors.ErrCircularReference)
}

func TestResolveDanglingReference(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /pets:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Missing"
`
	_, err := Load(WithBytes([]byte(src)))
	require.Error(t, err)
	assert.ErrorIs(t, err, guarderrors.ErrReference)
	assert.NotErrorIs(t, err, guarderrors.ErrCircularReference)

	var refErr *guarderrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "#/components/schemas/Missing", refErr.Ref)
}

func TestResolveExternalReferenceRejected(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /pets:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "./other.yaml#/components/schemas/Pet"
`
	_, err := Load(WithBytes([]byte(src)))
	require.Error(t, err)
	assert.ErrorIs(t, err, guarderrors.ErrReference)
	assert.Contains(t, err.Error(), "document-local")
}

func TestResolveSharedTargetsDoNotAlias(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /a:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Thing"
  /b:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Thing"
components:
  schemas:
    Thing:
      type: object
      properties:
        name: {type: string}
`
	doc, err := Load(WithBytes([]byte(src)))
	require.NoError(t, err)

	a := doc.GetOperation("/a", "get").Responses.Codes["200"].Content["application/json"].Schema
	b := doc.GetOperation("/b", "get").Responses.Codes["200"].Content["application/json"].Schema
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Properties["name"].Type, b.Properties["name"].Type)
}

func TestResolveDepthLimit(t *testing.T) {
	// Build a non-circular chain deeper than MaxRefDepth.
	var sb strings.Builder
	sb.WriteString(`openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /deep:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/S0"
components:
  schemas:
`)
	for i := 0; i < MaxRefDepth+2; i++ {
		sb.WriteString("    S")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(":\n      type: object\n      properties:\n        next:\n          $ref: \"#/components/schemas/S")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\"\n")
	}
	sb.WriteString("    S")
	sb.WriteString(strconv.Itoa(MaxRefDepth + 2))
	sb.WriteString(":\n      type: string\n")

	_, err := Load(WithBytes([]byte(sb.String())))
	require.Error(t, err)
	assert.ErrorIs(t, err, guarderrors.ErrResourceLimit)
}

func TestLookupPointerEscapes(t *testing.T) {
	root := map[string]any{
		"paths": map[string]any{
			"/pets/{id}": map[string]any{"summary": "by id"},
			"a~b":        map[string]any{"ok": true},
		},
	}

	got, err := lookupPointer(root, "#/paths/~1pets~1{id}/summary")
	require.NoError(t, err)
	assert.Equal(t, "by id", got)

	got, err = lookupPointer(root, "#/paths/a~0b/ok")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestDeepCopyValueIndependence(t *testing.T) {
	src := map[string]any{
		"list": []any{map[string]any{"k": "v"}},
	}
	dup := deepCopyValue(src).(map[string]any)
	dup["list"].([]any)[0].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", src["list"].([]any)[0].(map[string]any)["k"])
}
