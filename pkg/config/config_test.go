package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, -1.0, cfg.Algebra.Window)
	assert.Equal(t, 1, cfg.Runtime.ChunkSize)
	assert.Zero(t, cfg.Runtime.Workers)
	assert.Empty(t, cfg.Algebra.OpOptions())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rekall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
algebra:
  window: 2.5
  window_audit: 10
runtime:
  workers: 4
  chunk_size: 8
match:
  max_solutions: 3
`), 0o644))
	t.Setenv("REKALL_RUNTIME_WORKERS", "16")
	t.Setenv("REKALL_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "env wins over the default")
	assert.Equal(t, 16, cfg.Runtime.Workers, "env wins over the file")
	assert.Equal(t, 8, cfg.Runtime.ChunkSize)
	assert.Equal(t, 2.5, cfg.Algebra.Window)
	assert.Len(t, cfg.Algebra.OpOptions(), 2)

	assert.Equal(t, 16, cfg.Runtime.Options().Workers)
	assert.Equal(t, 8, RunOptions[int](cfg.Runtime).ChunkSize)
	mo := cfg.Match.MatchOptions(true)
	assert.True(t, mo.Exact)
	assert.Equal(t, 3, mo.MaxSolutions)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	t.Setenv("REKALL_LOG_FORMAT", "xml")
	t.Setenv("REKALL_RUNTIME_CHUNK_SIZE", "-2")
	_, err = Load("")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, `log.format "xml"`)
	assert.ErrorContains(t, err, "runtime.chunk_size -2")
}

func TestLoadWith_BoundOverride(t *testing.T) {
	v := New()
	v.Set("log.level", "warn")
	cfg, err := LoadWith(v, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
