package ctl

import (
	"context"
	"flag"
	"fmt"
)

func (a *App) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	host := fs.String("host", "", "site hostname")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *host == "" {
		return fmt.Errorf("list: -host is required")
	}
	if err := a.requireToken(); err != nil {
		return err
	}

	posts, err := a.api.ListPosts(ctx, *host)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(a.out, "no posts")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.Slug, p.Title)
	}
	return nil
}
