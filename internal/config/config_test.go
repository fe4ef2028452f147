package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "values_local.yaml"), []byte(yaml), 0o644))
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, "telegram:\n  token: \"\"\n")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.TargetNotional)
	assert.Equal(t, 0.6, cfg.MinConfidence)
	assert.Equal(t, 300*time.Second, cfg.Cooldown())
	assert.Equal(t, 60*time.Second, cfg.FaultDelay())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff())
	assert.Equal(t, "https://testnet.binance.vision", cfg.Binance.BaseURL)
}

func TestLoad_EnvBeatsYaml(t *testing.T) {
	writeConfig(t, `
target_notional: 50.0
cooldown_seconds: 120
fault_delay_seconds: 30
max_retries: 5
retry_backoff_seconds: 7
`)
	t.Setenv("TARGET_NOTIONAL", "10.5")
	t.Setenv("COOLDOWN_SECONDS", "45")
	t.Setenv("FAULT_DELAY_SECONDS", "15")
	t.Setenv("MAX_RETRIES", "2")
	t.Setenv("RETRY_BACKOFF_SECONDS", "1")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 10.5, cfg.TargetNotional)
	assert.Equal(t, 45, cfg.CooldownSeconds)
	assert.Equal(t, 15, cfg.FaultDelaySeconds)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.RetryBackoffSeconds)
}

func TestLoad_YamlWithoutEnv(t *testing.T) {
	writeConfig(t, "cooldown_seconds: 120\nmax_retries: 5\n")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 120, cfg.CooldownSeconds)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	writeConfig(t, "target_notional: -1\n")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()

	assert.Error(t, err)
}
