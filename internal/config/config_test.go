package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bizapp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DerivesPathsFromDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BIZAPP_DATA_DIR", dir)
	t.Setenv("BIZAPP_DB_FILE", "")
	t.Setenv("BIZAPP_BACKUP_DIR", "")
	t.Setenv("BIZAPP_LOG_DIR", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "business.db"), cfg.DBFile)
	assert.Equal(t, filepath.Join(dir, "backup"), cfg.BackupDir)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
}

func TestLoad_ExplicitOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BIZAPP_DATA_DIR", dir)
	t.Setenv("BIZAPP_DB_FILE", filepath.Join(dir, "custom.db"))
	t.Setenv("BIZAPP_BACKUP_DIR", filepath.Join(dir, "bk"))
	t.Setenv("BIZAPP_LOG_DIR", filepath.Join(dir, "lg"))
	t.Setenv("BIZAPP_BUSINESS_NAME", "Warung Budi")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "custom.db"), cfg.DBFile)
	assert.Equal(t, filepath.Join(dir, "bk"), cfg.BackupDir)
	assert.Equal(t, filepath.Join(dir, "lg"), cfg.LogDir)
	assert.Equal(t, "Warung Budi", cfg.BusinessName)
}

func TestEnsureDirs_CreatesAll(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:   filepath.Join(dir, "data"),
		DBFile:    filepath.Join(dir, "data", "db", "business.db"),
		BackupDir: filepath.Join(dir, "data", "backup"),
		LogDir:    filepath.Join(dir, "data", "logs"),
	}

	require.NoError(t, cfg.EnsureDirs())

	for _, d := range []string{cfg.DataDir, filepath.Dir(cfg.DBFile), cfg.BackupDir, cfg.LogDir} {
		st, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}

	//二度目も成功する
	require.NoError(t, cfg.EnsureDirs())
}
