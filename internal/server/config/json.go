package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
	"github.com/dmitrijs2005/gophtodo/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	DatabaseDriver     string         `json:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	EncryptionKey      string         `json:"encryption_key"`
	SigningKey         string         `json:"signing_key"`
	TokenCipher        string         `json:"token_cipher"`
	TokenHeader        string         `json:"token_header"`
	PasswordMinLength  int            `json:"password_min_length"`
	PasswordMaxLength  int            `json:"password_max_length"`
	HashConcurrency    int            `json:"hash_concurrency"`
	StoreTimeout       timex.Duration `json:"store_timeout"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	LedgerBackend      string         `json:"ledger_backend"`
	RedisURL           string         `json:"redis_url"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	GinMode            string         `json:"gin_mode"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Fields missing from the file keep their current value. A file that
// cannot be read or parsed is a startup error, so it panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.SigningKey, c.SigningKey)
	setString(&config.TokenCipher, c.TokenCipher)
	setString(&config.TokenHeader, c.TokenHeader)
	setString(&config.LedgerBackend, c.LedgerBackend)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.GinMode, c.GinMode)
	setString(&config.LogLevel, c.LogLevel)

	if c.PasswordMinLength != 0 {
		config.PasswordMinLength = c.PasswordMinLength
	}
	if c.PasswordMaxLength != 0 {
		config.PasswordMaxLength = c.PasswordMaxLength
	}
	if c.HashConcurrency != 0 {
		config.HashConcurrency = c.HashConcurrency
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
