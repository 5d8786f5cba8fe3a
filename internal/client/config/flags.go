package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taxdesk/internal/flagx"
)

var knownFlags = withDoubleDash("a", "d", "p", "t", "i", "l", "log-level", "open")

// withDoubleDash lists every name in both the -name and --name spellings,
// which flag.FlagSet treats the same.
func withDoubleDash(names ...string) []string {
	out := make([]string, 0, 2*len(names))
	for _, n := range names {
		out = append(out, "-"+n, "--"+n)
	}
	return out
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string          API base URL
//	-d string          local database file
//	-p duration        payment signal poll interval
//	-t duration        per-request timeout
//	-i duration        API reachability check interval
//	-l string          log file ("" discards logs)
//	-log-level string  debug, info, warn or error
//	-open string       page to open first, e.g. /payment
//
// Each flag may also be spelled with two dashes (--log-level debug). Only the
// flags above are read from os.Args; others are left for the config file
// loader.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("taxdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.DurationVar(&cfg.PollInterval, "p", cfg.PollInterval, "payment signal poll interval")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.StatusInterval, "i", cfg.StatusInterval, "API reachability check interval")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.StartPath, "open", cfg.StartPath, "page to open first")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if cfg.PollInterval <= 0 || cfg.RequestTimeout <= 0 || cfg.StatusInterval <= 0 {
		return fmt.Errorf("intervals and timeouts must be positive")
	}
	return nil
}
