package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "BTC", cfg.DataSource.Coins["bitcoin"])
	assert.Equal(t, []int{7, 30}, cfg.Analytics.Windows)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule.FetchCron)
	assert.Equal(t, 5, cfg.Schedule.MaxFailures)
	assert.Equal(t, "data/crypto.db", cfg.Database.SQLitePath)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_source:
  coins:
    bitcoin: BTC
analytics:
  windows: [3, 14]
server:
  port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("SQLITE_PATH", "/tmp/override.db")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, map[string]string{"bitcoin": "BTC"}, cfg.DataSource.Coins)
	assert.Equal(t, []int{3, 14}, cfg.Analytics.Windows)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
	assert.Equal(t, 9100, cfg.Server.Port, "env override beats file")
}

func TestValidate_BadWindow(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	cfg.Analytics.Windows = []int{7, -1}
	assert.Error(t, cfg.Validate())
}
