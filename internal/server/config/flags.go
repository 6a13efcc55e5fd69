package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty runs the in-process store)
//	-m bool     run schema migrations on startup (use -m=false to skip)
//	-o string   store owner label
//	-l string   admin login (email)
//	-w string   admin password
//	-t int      session token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-f string   formatter endpoint (chat-completions URL)
//	-n string   formatter model name
//	-k string   formatter API key
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values. FormatterTimeout has no flag; set it via the
//     JSON file or FORMATTER_TIMEOUT.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-o", "-l", "-w", "-t", "-u", "-p", "-b", "-g", "-e", "-f", "-n", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations on startup")
	fs.StringVar(&config.StoreOwner, "o", config.StoreOwner, "store owner label")
	fs.StringVar(&config.AdminEmail, "l", config.AdminEmail, "admin login")
	fs.StringVar(&config.AdminPassword, "w", config.AdminPassword, "admin password")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token_ttl (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.FormatterEndpoint, "f", config.FormatterEndpoint, "formatter endpoint")
	fs.StringVar(&config.FormatterModel, "n", config.FormatterModel, "formatter model")
	fs.StringVar(&config.FormatterAPIKey, "k", config.FormatterAPIKey, "formatter API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
