package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner    = "0x00000000000000000000000000000000000000f1"
	testTreasury = "0x00000000000000000000000000000000000000f3"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, models.DefaultParams(), c.Params)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_grpc": "json:1",
		"endpoint_addr_http": "json:2",
		"owner_address":      testOwner,
	})

	vars := env(map[string]string{
		"HYPESALE_HTTP_ADDR":        "env:2",
		"HYPESALE_TREASURY_ADDRESS": testTreasury,
		"HYPESALE_LOG_LEVEL":        "debug",
	})

	cfg, err := load([]string{"-c", path, "-l", "warn"}, vars)
	require.NoError(t, err)

	assert.Equal(t, "json:1", cfg.EndpointAddrGRPC)
	assert.Equal(t, "env:2", cfg.EndpointAddrHTTP)
	assert.Equal(t, testOwner, cfg.OwnerAddress)
	assert.Equal(t, testTreasury, cfg.TreasuryAddress)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		vars map[string]string
		want string
	}{
		{name: "no owner", args: []string{"-r", testTreasury}, want: "owner address is required"},
		{name: "no treasury", args: []string{"-o", testOwner}, want: "treasury address is required"},
		{name: "zero ttl", args: []string{"-o", testOwner, "-r", testTreasury, "-t", "0s"}, want: "access token validity"},
		{name: "bad env ttl", vars: map[string]string{"HYPESALE_TOKEN_TTL": "soon"}, want: "HYPESALE_TOKEN_TTL"},
		{name: "bad flag value", args: []string{"-t", "forever"}, want: "invalid value"},
		{name: "missing json file", args: []string{"-c", "/nonexistent/hypesale.json"}, want: "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args, env(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Params(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.OwnerAddress, c.TreasuryAddress = testOwner, testTreasury
	require.NoError(t, c.Validate())

	c.Params.DirectBps = 20_000
	assert.ErrorContains(t, c.Validate(), "direct_bps")
}
