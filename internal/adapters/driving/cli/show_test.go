package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd_PrintsRecord(t *testing.T) {
	setupTestServices(t)
	path := writeLisp(t, "sample.lisp", sampleHeader)
	_, err := execute(t, "import", path)
	require.NoError(t, err)

	out, err := execute(t, "show", path)

	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "org.lisp.lisp-source")
	assert.Contains(t, out, "bytes, imported")
	assert.Contains(t, out, "version:")
}

func TestShowCmd_JSON(t *testing.T) {
	setupTestServices(t)
	path := writeLisp(t, "sample.lisp", sampleHeader)
	_, err := execute(t, "import", path)
	require.NoError(t, err)

	out, err := execute(t, "show", "--json", path)

	require.NoError(t, err)
	var view recordView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, path, view.Path)
	assert.Equal(t, "MIT", view.Attributes["license"])
	assert.NotNil(t, view.ImportedAt)
}

func TestShowCmd_NotImported(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "show", "/nowhere/x.lisp")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been imported")
}
