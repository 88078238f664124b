package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAccessToken, EnvHost, EnvAppName, EnvAppVersion, EnvOutputDir, EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Empty(t, cfg.AccessToken)
	assert.Equal(t, speech.DefaultHost, cfg.Host)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppName, "FromProcess")

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "MAPBOX_ACCESS_TOKEN=pk.from-file\nSPEECH_APP_NAME=FromFile\nSPEECH_APP_VERSION=3.0\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "pk.from-file", cfg.AccessToken)
	assert.Equal(t, "FromProcess", cfg.AppName)
	assert.Equal(t, "3.0", cfg.AppVersion)
	assert.Equal(t, "debug", cfg.LogLevel)

	speechCfg := cfg.ToSpeechConfig()
	assert.Equal(t, speech.Config{
		AccessToken: "pk.from-file",
		Host:        speech.DefaultHost,
		AppName:     "FromProcess",
		AppVersion:  "3.0",
	}, speechCfg)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAccessToken, "pk.env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "pk.env", cfg.AccessToken)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(envFile, []byte("BAD-KEY=value\n"), 0o600))

	_, err := Load(envFile)
	assert.Error(t, err)
}
