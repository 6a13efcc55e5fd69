package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/flagx"
	"github.com/dmitrijs2005/gophpress/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	DatabaseDSN       string         `json:"database_dsn"`
	RunMigrations     bool           `json:"run_migrations"`
	StoreOwner        string         `json:"store_owner"`
	AdminEmail        string         `json:"admin_email"`
	AdminPassword     string         `json:"admin_password"`
	TokenTTL          timex.Duration `json:"token_ttl"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	FormatterEndpoint string         `json:"formatter_endpoint"`
	FormatterModel    string         `json:"formatter_model"`
	FormatterAPIKey   string         `json:"formatter_api_key"`
	FormatterTimeout  timex.Duration `json:"formatter_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config,
// so the file is expected to carry the complete configuration. If the file
// cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RunMigrations = c.RunMigrations
	config.StoreOwner = c.StoreOwner
	config.AdminEmail = c.AdminEmail
	config.AdminPassword = c.AdminPassword
	config.TokenTTL = time.Duration(c.TokenTTL.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.FormatterEndpoint = c.FormatterEndpoint
	config.FormatterModel = c.FormatterModel
	config.FormatterAPIKey = c.FormatterAPIKey
	config.FormatterTimeout = time.Duration(c.FormatterTimeout.Duration)
}
