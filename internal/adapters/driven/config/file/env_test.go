package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("INCIDENT_RAG_TEST_KEY=from-file\nINCIDENT_RAG_TEST_SET=from-file\n"), 0600))
	t.Setenv("INCIDENT_RAG_TEST_SET", "from-shell")
	t.Setenv("INCIDENT_RAG_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("INCIDENT_RAG_TEST_KEY"))

	loaded, err := LoadEnv(dir)

	require.NoError(t, err)
	assert.Contains(t, loaded, filepath.Join(dir, ".env"))
	assert.Equal(t, "from-file", os.Getenv("INCIDENT_RAG_TEST_KEY"))
	assert.Equal(t, "from-shell", os.Getenv("INCIDENT_RAG_TEST_SET"))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	loaded, err := LoadEnv(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, loaded)
}
