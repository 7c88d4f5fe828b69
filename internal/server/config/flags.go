package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-D string     database driver, "pgx" or "sqlite"
//	-d string     database DSN
//	-s string     token HMAC secret key
//	-t duration   token validity (e.g., "24h")
//	-w duration   token leeway (e.g., "5s")
//	-b int        bcrypt cost
//	-l string     log level
//	-f string     log format: json, text or console
//	-o string     comma-separated CORS origins
func parseFlags(config *Config, args []string) error {
	// Filter args to include only the flags handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-D", "-d", "-s", "-t", "-w", "-b", "-l", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidity, "t", config.TokenValidity, "token validity")
	fs.DurationVar(&config.TokenLeeway, "w", config.TokenLeeway, "token leeway")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text|console)")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *origins != "" {
		config.CORSOrigins = splitList(*origins)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
