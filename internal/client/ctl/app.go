// Package ctl implements the pressctl operator CLI: single-shot subcommands
// against a running server. Content management happens over the admin API;
// image bytes go straight to the object store via presigned URLs.
package ctl

import (
	"context"
	"fmt"
	"io"
)

type App struct {
	config *Config
	api    *Client
	out    io.Writer
}

func NewApp(cfg *Config, out io.Writer) *App {
	return &App{
		config: cfg,
		api:    NewClient(cfg.ServerURL, cfg.Token),
		out:    out,
	}
}

// Run dispatches a subcommand. args is everything after the global flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return a.runLogin(ctx, rest)
	case "add-site":
		return a.runAddSite(ctx, rest)
	case "add-post":
		return a.runAddPost(ctx, rest)
	case "list":
		return a.runList(ctx, rest)
	default:
		a.printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.out, `Usage: pressctl [-s server] [-t token] <command> [flags]

Commands:
  login     -e email                                  obtain a session token
  add-site  -host h -title t [-description d]         register a site
  add-post  -host h -title t [-content c] [-image f]  publish a post
  list      -host h                                   list posts, newest first
`)
}

// requireToken guards commands that talk to the admin API.
func (a *App) requireToken() error {
	if a.config.Token == "" {
		return fmt.Errorf("%w: no token, run 'pressctl login' and pass -t or PRESSCTL_TOKEN", ErrUnauthorized)
	}
	return nil
}
