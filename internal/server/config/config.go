// Package config handles configuration for the server component:
// defaults, environment (.env), JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// Config holds runtime settings for the gophtodo server.
//
// EncryptionKey and SigningKey are the process-wide token secrets. They are
// read once at start, never changed afterwards, and never logged; rotating
// either one invalidates every token issued before the rotation.
type Config struct {
	EndpointAddrHTTP   string        `env:"HTTP_ADDR"`
	EndpointAddrGRPC   string        `env:"GRPC_ADDR"`
	DatabaseDriver     string        `env:"DB_DRIVER"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	EncryptionKey      string        `env:"ENCRYPTION_KEY"`
	SigningKey         string        `env:"SIGNING_KEY"`
	TokenCipher        string        `env:"TOKEN_CIPHER"`
	TokenHeader        string        `env:"TOKEN_HEADER"`
	PasswordMinLength  int           `env:"PASSWORD_MIN_LENGTH"`
	PasswordMaxLength  int           `env:"PASSWORD_MAX_LENGTH"`
	HashConcurrency    int           `env:"HASH_CONCURRENCY"`
	StoreTimeout       time.Duration `env:"STORE_TIMEOUT"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LedgerBackend      string        `env:"LEDGER_BACKEND"`
	RedisURL           string        `env:"REDIS_URL"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS"`
	GinMode            string        `env:"GIN_MODE"`
	LogLevel           string        `env:"LOG_LEVEL"`
}

// Ledger backends.
const (
	LedgerSQL   = "sql"
	LedgerRedis = "redis"
)

// LoadDefaults populates Config with development defaults. The token keys
// are deliberately left empty: Validate refuses to start without them.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:gophtodo.sqlite?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.EncryptionKey = ""
	c.SigningKey = ""
	c.TokenCipher = "aes-256-gcm"
	c.TokenHeader = common.TokenHeaderName
	c.PasswordMinLength = 7
	c.PasswordMaxLength = 100
	c.HashConcurrency = 4
	c.StoreTimeout = 5 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.LedgerBackend = LedgerSQL
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.CORSAllowedOrigins = []string{"http://localhost:5173"}
	c.GinMode = "debug"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	var errs []error

	if c.EncryptionKey == "" {
		errs = append(errs, errors.New("encryption key is required"))
	}
	if c.SigningKey == "" {
		errs = append(errs, errors.New("signing key is required"))
	}
	if c.EncryptionKey != "" && c.EncryptionKey == c.SigningKey {
		errs = append(errs, errors.New("encryption and signing keys must differ"))
	}
	switch c.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	switch c.TokenCipher {
	case "aes-256-gcm", "chacha20-poly1305":
	default:
		errs = append(errs, fmt.Errorf("unsupported token cipher %q", c.TokenCipher))
	}
	switch c.LedgerBackend {
	case LedgerSQL, LedgerRedis:
	default:
		errs = append(errs, fmt.Errorf("unsupported ledger backend %q", c.LedgerBackend))
	}
	if c.TokenHeader == "" {
		errs = append(errs, errors.New("token header is required"))
	}
	if c.PasswordMinLength < 1 || c.PasswordMaxLength < c.PasswordMinLength {
		errs = append(errs, fmt.Errorf("invalid password bounds [%d, %d]", c.PasswordMinLength, c.PasswordMaxLength))
	}
	if c.HashConcurrency < 1 {
		errs = append(errs, errors.New("hash concurrency must be positive"))
	}

	return errors.Join(errs...)
}

// LogValue keeps the token secrets out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("http_addr", c.EndpointAddrHTTP),
		slog.String("grpc_addr", c.EndpointAddrGRPC),
		slog.String("db_driver", c.DatabaseDriver),
		slog.String("token_cipher", c.TokenCipher),
		slog.String("token_header", c.TokenHeader),
		slog.String("ledger_backend", c.LedgerBackend),
		slog.Int("password_min_length", c.PasswordMinLength),
		slog.Int("password_max_length", c.PasswordMaxLength),
		slog.Duration("store_timeout", c.StoreTimeout),
		slog.String("encryption_key", redact(c.EncryptionKey)),
		slog.String("signing_key", redact(c.SigningKey)),
	)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}
