package ctl

import (
	"context"
	"flag"
	"fmt"
)

func (a *App) runAddSite(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-site", flag.ContinueOnError)
	host := fs.String("host", "", "site hostname")
	title := fs.String("title", "", "site title")
	description := fs.String("description", "", "site description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *host == "" || *title == "" {
		return fmt.Errorf("add-site: -host and -title are required")
	}
	if err := a.requireToken(); err != nil {
		return err
	}

	site, err := a.api.CreateSite(ctx, *host, *title, *description)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created site %s (%s)\n", site.Host, site.Title)
	return nil
}
