// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. GOPHAUTH_SERVER_URL and GOPHAUTH_CLIENT_TIMEOUT environment variables.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the server API
//	-t duration   per-request timeout
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a
// string like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "timeout": "10s"
//	}
package config
