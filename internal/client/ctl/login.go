package ctl

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophpress/internal/common"
)

// runLogin exchanges admin credentials for a session token and prints it.
// The password is read from the terminal so it never lands in shell history.
func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("e", "", "admin email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("login: -e email is required")
	}

	password, err := GetPassword(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, *email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}
