package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"holskywallet/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	configFlag, walletFlag, logLevelFlag = "", "", ""
	forceFlag, jsonFlag = false, false
	rootCmd.SetArgs(args)
	return ExecuteContext(context.Background())
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	configFlag = path
	walletFlag = "ws://127.0.0.1:1248"
	logLevelFlag = "debug"
	defer func() { configFlag, walletFlag, logLevelFlag = "", "", "" }()

	require.NoError(t, loadConfig(nil, nil))
	assert.Equal(t, path, cfgPath)
	assert.Equal(t, "ws://127.0.0.1:1248", cfg.WalletURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(config.DefaultChainID), cfg.Network.ChainID)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	configFlag = path
	defer func() { configFlag = "" }()

	assert.Error(t, loadConfig(nil, nil))
}

func TestConfigInitAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.json")

	require.NoError(t, run(t, "--config", path, "config", "init"))
	loaded, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Token, loaded.Token)

	// Refuses to overwrite without --force.
	assert.Error(t, run(t, "--config", path, "config", "init"))

	require.NoError(t, run(t, "--config", path, "config", "init", "--force"))
	backups, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	require.NoError(t, run(t, "--config", path, "config", "restore"))
}

func TestVersionCommand(t *testing.T) {
	assert.NoError(t, run(t, "--config", filepath.Join(t.TempDir(), "x.json"), "version"))
}

func TestConfigRecoversBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	require.NoError(t, run(t, "--config", path, "config", "init"))
	require.NoError(t, run(t, "--config", path, "config", "init", "--force"))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	// Commands that need a valid file still refuse it.
	assert.Error(t, run(t, "--config", path, "config", "show"))

	require.NoError(t, run(t, "--config", path, "config", "restore"))
	_, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))
	require.NoError(t, run(t, "--config", path, "config", "init", "--force"))
	loaded, err := config.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Network.ChainID, loaded.Network.ChainID)
}
