package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Chidera261/koraDB/pkg/storage"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "koraDB v"+Version+"\n", out)
}

func TestLoadConfig_FlagsAndEnv(t *testing.T) {
	t.Setenv("KORADB_CONCURRENCY_LIMIT", "3")
	t.Setenv("KORADB_DEBOUNCE", "250ms")
	t.Setenv("KORADB_CACHE_CAPACITY", "99")

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--cache-capacity", "7", "--sync-writes"}))

	v := viper.New()
	require.NoError(t, loadConfig(v, root))

	cfg := storage.NewDatabase(storageOptions(v, nil)...).Config()
	// an explicit flag wins over the environment
	assert.Equal(t, 7, cfg.CacheCapacity)
	assert.Equal(t, 3, cfg.ConcurrencyLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceWindow)
	assert.True(t, cfg.SyncWrites)
	assert.Equal(t, storage.DefaultDataDir, cfg.DataDir)
	assert.EqualValues(t, storage.DefaultMaxFileSize, cfg.MaxFileSize)
}

func TestSnapshotCommands(t *testing.T) {
	dataDir := t.TempDir()
	db := storage.NewDatabase(storage.WithDataDir(dataDir), storage.WithSyncWrites(true))
	require.NoError(t, db.Init())
	users, err := db.Collection("users")
	require.NoError(t, err)
	_, err = users.Insert(map[string]any{"name": "Alice"})
	require.NoError(t, err)

	snapshot := filepath.Join(t.TempDir(), "backup.kdb")
	out, err := execute(t, "snapshot", "save", snapshot, "--data-dir", dataDir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "saved 1 collections")

	require.NoError(t, os.WriteFile(users.Path(), []byte("[]"), 0o644))

	out, err = execute(t, "snapshot", "load", snapshot, "--data-dir", dataDir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "restored")

	content, err := os.ReadFile(users.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "Alice"`)
}

func TestSnapshotCommands_RequireFile(t *testing.T) {
	_, err := execute(t, "snapshot", "save", "--data-dir", t.TempDir())
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, "warn", true)

	logger.Info("hidden")
	logger.Warn("shown", "collection", "users")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "collection=users")
}
