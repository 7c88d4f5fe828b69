package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates Config fields from -a (server URL) and -t (timeout).
func parseFlags(cfg *Config, args []string) error {
	// Filter args to include only those handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "request timeout")

	return fs.Parse(args)
}
