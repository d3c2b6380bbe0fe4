package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSimulation = `{
  "name": "Update Payment",
  "audioContentItems": [{"actor": "Agent", "fileTranscript": "Hello", "sequenceNumber": 1}],
  "visualContentItems": [
    {"fileId": "s1", "hotspots": [
      {"name": "Submit", "type": "BUTTON", "settings": {"positionX": 0.1}},
      {"text": "Save", "coordinates": {"x": 1, "y": 2, "width": 3, "height": 4}},
      {"name": "Odd", "settings": "not an object"}
    ]}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateSimulation_Valid(t *testing.T) {
	assert.NoError(t, ValidateSimulation([]byte(validSimulation)))
}

func TestValidateSimulation_MissingFileID(t *testing.T) {
	err := ValidateSimulation([]byte(`{"visualContentItems": [{"hotspots": []}]}`))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Errors[0].Message, "fileId")
}

func TestValidateSimulation_WrongTypes(t *testing.T) {
	err := ValidateSimulation([]byte(`{"name": 7, "audioContentItems": [{"actor": "A", "fileTranscript": 3}]}`))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Errors, 2)
}

func TestValidateSimulation_BadCoordinates(t *testing.T) {
	err := ValidateSimulation([]byte(`{"visualContentItems": [{"fileId": "s", "hotspots": [{"text": "x", "coordinates": {"x": 1}}]}]}`))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestValidateSimulation_Malformed(t *testing.T) {
	err := ValidateSimulation([]byte(`{ invalid json }`))

	require.Error(t, err)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateSimulationFile(t *testing.T) {
	assert.NoError(t, ValidateSimulationFile(writeTemp(t, "sim.json", validSimulation)))

	err := ValidateSimulationFile(writeTemp(t, "bad.json", `{"audioContentItems": "nope"}`))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Error(), "bad.json")
}

func TestValidateSimulationFile_NotFound(t *testing.T) {
	err := ValidateSimulationFile(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_WithSchemaFile(t *testing.T) {
	schema := writeTemp(t, "schema.json", `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`)

	assert.NoError(t, ValidateJSON(schema, writeTemp(t, "ok.json", `{"name": "x"}`)))

	err := ValidateJSON(schema, writeTemp(t, "missing.json", `{}`))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	schema := writeTemp(t, "schema.json", `{"type": "object"}`)
	doc := writeTemp(t, "doc.json", `{}`)

	err := ValidateJSON(filepath.Join(t.TempDir(), "none.json"), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schema, filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "(string schema)", loadErr.Path)
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath("validate.go"))
	assert.Empty(t, ResolveSchemaPath("definitely/not/here.schema.json"))
}
