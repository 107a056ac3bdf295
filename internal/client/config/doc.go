// Package config loads runtime configuration for the todoctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the todo HTTP API
//	-t string   path of the file that keeps the bearer token
//	-H string   HTTP header carrying the token (must match the server)
//	-w int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "token_file": "/home/me/.todoctl/token",
//	  "token_header": "Auth",
//	  "request_timeout": "10s"
//	}
//
// Note: This package does not read environment variables; use the JSON file
// or flags to configure values.
package config
