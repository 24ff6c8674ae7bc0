package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

var knownFlags = []string{"-a", "-u", "-p", "-k", "-j", "-d", "-t", "-l"}

// parseFlags overlays cfg with the flags it knows about and ignores the rest,
// so subcommand arguments of equipctl do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address of the web shell")
	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "base URL of the EquipChain API")
	fs.StringVar(&cfg.AuthProvider, "p", cfg.AuthProvider, "authentication provider (equipchain|kratos)")
	fs.StringVar(&cfg.KratosURL, "k", cfg.KratosURL, "Ory Kratos public API URL")
	fs.StringVar(&cfg.JWKSURL, "j", cfg.JWKSURL, "JWKS URL for token verification")
	fs.StringVar(&cfg.TokenDBPath, "d", cfg.TokenDBPath, "path of the token database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
