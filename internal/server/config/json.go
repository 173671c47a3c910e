package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hypesale/internal/flagx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/timex"
)

// JsonConfig mirrors Config for decoding the JSON file. Durations use
// timex.Duration so "15m" and integer nanoseconds both work. Params, when
// present, replaces the default parameter set as a whole.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	OwnerAddress                string         `json:"owner_address"`
	TreasuryAddress             string         `json:"treasury_address"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Prefix                    string         `json:"s3_prefix"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	DevTreasuryHype             int64          `json:"dev_treasury_hype"`
	DevTreasuryStable           int64          `json:"dev_treasury_stable"`
	Params                      *models.Params `json:"params"`
}

// parseJson overlays the file named by -c/-config onto config. Fields
// missing from the file keep their current value.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	overlay(&config.OwnerAddress, c.OwnerAddress)
	overlay(&config.TreasuryAddress, c.TreasuryAddress)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Prefix, c.S3Prefix)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.S3AccessKey, c.S3AccessKey)
	overlay(&config.S3SecretKey, c.S3SecretKey)
	overlay(&config.DevTreasuryHype, c.DevTreasuryHype)
	overlay(&config.DevTreasuryStable, c.DevTreasuryStable)
	if c.Params != nil {
		config.Params = *c.Params
	}

	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
