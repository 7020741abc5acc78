package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadJSONFile(t *testing.T) {
	t.Run("decodes a valid file", func(t *testing.T) {
		got, err := ReadJSONFile[fixture](writeTemp(t, `{"name": "tonic", "value": 42}`))
		require.NoError(t, err)
		assert.Equal(t, fixture{Name: "tonic", Value: 42}, got)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := ReadJSONFile[fixture](writeTemp(t, `{"name": "tonic", "colour": "red"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colour")
	})

	t.Run("rejects trailing documents", func(t *testing.T) {
		_, err := ReadJSONFile[fixture](writeTemp(t, `{"name": "a"} {"name": "b"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trailing")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadJSONFile[fixture](filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read file")
	})
}
