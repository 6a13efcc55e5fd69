package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_OverlaysOnlySetVariables(t *testing.T) {
	t.Setenv("ADDRESS", ":9999")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ADMIN_PASSWORD", "from-env")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, false, cfg.RunMigrations)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "from-env", cfg.AdminPassword)

	// untouched fields keep their defaults
	assert.Equal(t, "default", cfg.StoreOwner)
	assert.Equal(t, "admin@localhost", cfg.AdminEmail)
	assert.Equal(t, "gophpress", cfg.S3Bucket)
}

func Test_parseEnv_MalformedDurationPanics(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseEnv(cfg) })
}
