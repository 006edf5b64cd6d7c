package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkSpecYAML = `openapi: "3.0.0"
info:
  title: Users API
  version: "1.0.0"
paths:
  /users:
    get:
      operationId: listUsers
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        "200":
          description: user list
          content:
            application/json:
              schema:
                type: object
                required: [users]
                properties:
                  users:
                    type: array
                    items:
                      type: object
                      required: [id, name]
                      properties:
                        id:
                          type: integer
                        name:
                          type: string
        default:
          description: unexpected error
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand_ValidExchanges(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{
			"request": {"method": "GET", "path": "/users", "query": "limit=10"},
			"response": {"status": 200,
				"headers": {"Content-Type": "application/json"},
				"body": "{\"users\": [{\"id\": 1, \"name\": \"Ada\"}]}"}
		}
	]`)

	out, err := runCommand(t, "check", "--spec", specPath, exchangesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK GET /users")
	assert.Contains(t, out, "1 valid, 0 invalid")
}

func TestCheckCommand_ViolationsFailTheRun(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{
			"request": {"method": "GET", "path": "/users", "query": "limit=0"},
			"response": {"status": 200,
				"headers": {"Content-Type": "application/json"},
				"body": "{}"}
		}
	]`)

	out, err := runCommand(t, "check", "--spec", specPath, exchangesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 exchanges violate the contract")
	assert.Contains(t, out, "FAIL GET /users")
	assert.Contains(t, out, "query.limit")
	assert.Contains(t, out, ".users")
}

func TestCheckCommand_RequestOnlyRecord(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{"request": {"method": "GET", "path": "/users"}}
	]`)

	out, err := runCommand(t, "check", "--spec", specPath, exchangesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 valid")
}

func TestCheckCommand_StrictFlag(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{"request": {"method": "GET", "path": "/users", "query": "debug=1"}}
	]`)

	_, err := runCommand(t, "check", "--spec", specPath, exchangesPath)
	require.NoError(t, err)

	out, err := runCommand(t, "check", "--spec", specPath, "--strict", exchangesPath)
	require.Error(t, err)
	assert.Contains(t, out, "query.debug")
}

func TestCheckCommand_JSONOutput(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{"request": {"method": "GET", "path": "/users"}}
	]`)

	out, err := runCommand(t, "check", "--spec", specPath, "--format", "json", exchangesPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"exchanges": 1`)
	assert.Contains(t, out, `"matched_path": "/users"`)
}

func TestCheckCommand_MissingSpec(t *testing.T) {
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{"request": {"method": "GET", "path": "/users"}}
	]`)

	_, err := runCommand(t, "check", exchangesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec file is required")
}

func TestCheckCommand_BadExchangesFile(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)

	_, err := runCommand(t, "check", "--spec", specPath, "/nonexistent.json")
	require.Error(t, err)

	emptyPath := writeTempFile(t, "empty.json", `[]`)
	_, err = runCommand(t, "check", "--spec", specPath, emptyPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records")
}

func TestCheckCommand_ConfigFileMerge(t *testing.T) {
	specPath := writeTempFile(t, "openapi.yaml", checkSpecYAML)
	configPath := writeTempFile(t, "oasguard.yaml", "spec: "+specPath+"\nstrict: true\n")
	exchangesPath := writeTempFile(t, "exchanges.json", `[
		{"request": {"method": "GET", "path": "/users", "query": "debug=1"}}
	]`)

	// Strict comes from the config file
	out, err := runCommand(t, "check", "--config", configPath, exchangesPath)
	require.Error(t, err)
	assert.Contains(t, out, "query.debug")
}
