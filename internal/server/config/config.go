// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags. Later layers win.
package config

import "time"

// Config holds runtime settings for the GophPress server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty runs the in-process store,
//     which loses all data on shutdown.
//   - RunMigrations: apply embedded schema migrations on startup.
//   - StoreOwner: tenant label all records of this instance are scoped to.
//   - AdminEmail / AdminPassword: the single administrative principal.
//     Do not use test defaults in prod.
//   - TokenTTL: session token lifetime.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - FormatterEndpoint / FormatterModel / FormatterAPIKey / FormatterTimeout:
//     chat-completions service used to render post HTML. Empty endpoint
//     switches to plain local rendering.
type Config struct {
	EndpointAddrHTTP  string        `env:"ADDRESS"`
	DatabaseDSN       string        `env:"DATABASE_DSN"`
	RunMigrations     bool          `env:"RUN_MIGRATIONS"`
	StoreOwner        string        `env:"STORE_OWNER"`
	AdminEmail        string        `env:"ADMIN_EMAIL"`
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	TokenTTL          time.Duration `env:"TOKEN_TTL"`
	S3RootUser        string        `env:"S3_ROOT_USER"`
	S3RootPassword    string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket          string        `env:"S3_BUCKET"`
	S3Region          string        `env:"S3_REGION"`
	S3BaseEndpoint    string        `env:"S3_BASE_ENDPOINT"`
	FormatterEndpoint string        `env:"FORMATTER_ENDPOINT"`
	FormatterModel    string        `env:"FORMATTER_MODEL"`
	FormatterAPIKey   string        `env:"FORMATTER_API_KEY"`
	FormatterTimeout  time.Duration `env:"FORMATTER_TIMEOUT"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.RunMigrations = true
	c.StoreOwner = "default"
	c.AdminEmail = "admin@localhost"
	c.AdminPassword = "adminadmin"
	c.TokenTTL = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "gophpress"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.FormatterEndpoint = ""
	c.FormatterModel = "gpt-4o-mini"
	c.FormatterAPIKey = ""
	c.FormatterTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
