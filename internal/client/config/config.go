package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// Config holds runtime settings for the todoctl CLI.
type Config struct {
	ServerURL      string
	TokenFile      string
	TokenHeader    string
	RequestTimeout time.Duration
}

// TokenFileName is the token file name under the user's home directory.
const TokenFileName = ".todoctl-token"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.TokenFile = defaultTokenFile()
	c.TokenHeader = common.TokenHeaderName
	c.RequestTimeout = 10 * time.Second
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return TokenFileName
	}
	return filepath.Join(home, TokenFileName)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
