package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = append([]string{"todoctl"}, args...)
}

func Test_parseJson_Overlay(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "http://todo.example:9000",
		"request_timeout": "2s",
		"token_header":    "X-Todo-Token",
	})
	withArgs(t, "-c", path, "list")

	cfg := &Config{}
	cfg.LoadDefaults()
	tokenFile := cfg.TokenFile

	parseJson(cfg)

	assert.Equal(t, "http://todo.example:9000", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "X-Todo-Token", cfg.TokenHeader)
	assert.Equal(t, tokenFile, cfg.TokenFile, "absent keys keep their value")
}

func Test_parseJson_NoFlag(t *testing.T) {
	withArgs(t, "list")

	cfg := &Config{ServerURL: "keep"}
	parseJson(cfg)
	assert.Equal(t, "keep", cfg.ServerURL)
}

func Test_parseJson_Panics(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-config", filepath.Join(t.TempDir(), "nope.json"))
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		withArgs(t, "-c", path)
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url": "http://from-json:1",
		"token_file": "/json/token",
	})
	withArgs(t, "-c", path, "-a", "http://from-flag:2", "list")

	cfg := LoadConfig()
	assert.Equal(t, "http://from-flag:2", cfg.ServerURL)
	assert.Equal(t, "/json/token", cfg.TokenFile)
}
