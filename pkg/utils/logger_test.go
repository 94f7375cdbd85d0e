package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(dir, "user-management", false)
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "user-management.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestInitLogger_StdoutOnly(t *testing.T) {
	logger, err := InitLogger("", "", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
