package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/blankcheck/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_File(t *testing.T) {
	lc := config.DefaultConfig().Log
	lc.File = filepath.Join(t.TempDir(), "logs", "blankcheck.log")

	l, err := newLogger(&cobra.Command{}, lc)
	require.NoError(t, err)
	l.Info("imported course", zap.String("course", "algebra-1"))
	l.Debug("hidden at info level")
	_ = l.Sync()

	raw, err := os.ReadFile(lc.File)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"imported course"`)
	assert.Contains(t, string(raw), `"course":"algebra-1"`)
	assert.NotContains(t, string(raw), "hidden at info level")
}

func TestNewLogger_BadLevel(t *testing.T) {
	lc := config.DefaultConfig().Log
	lc.Level = "loud"
	_, err := newLogger(&cobra.Command{}, lc)
	assert.Error(t, err)
}
