package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-b string   database driver ("sqlite" or "pgx")
//	-d string   database DSN
//	-k string   token payload encryption key
//	-s string   token signing key
//	-l string   revocation ledger backend ("sql" or "redis")
//	-r string   Redis URL for the redis ledger backend
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c/-config) do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-b", "-d", "-k", "-s", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "token encryption key")
	fs.StringVar(&config.SigningKey, "s", config.SigningKey, "token signing key")
	fs.StringVar(&config.LedgerBackend, "l", config.LedgerBackend, "revocation ledger backend (sql|redis)")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "Redis URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
