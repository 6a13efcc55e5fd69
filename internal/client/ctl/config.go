package ctl

import (
	"flag"
	"os"
)

// Config holds runtime settings for the pressctl CLI.
//
// Fields:
//   - ServerURL: base URL of the GophPress server.
//   - Token: session token for admin calls. Obtained from `pressctl login`.
type Config struct {
	ServerURL string
	Token     string
}

// LoadConfig parses the global flags that come before the subcommand and
// returns the remaining arguments (subcommand plus its flags).
//
// Supported flags:
//
//	-s string   server base URL (or PRESSCTL_SERVER)
//	-t string   session token (or PRESSCTL_TOKEN)
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}

	server := os.Getenv("PRESSCTL_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}

	fs := flag.NewFlagSet("pressctl", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "s", server, "server base URL")
	fs.StringVar(&cfg.Token, "t", os.Getenv("PRESSCTL_TOKEN"), "session token")

	// flag parsing stops at the first non-flag argument, which is the
	// subcommand
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}
