package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "HYPESALE_"

// parseEnv applies HYPESALE_* variables. Unset variables leave the field
// untouched; a set but empty variable clears string fields, which is how
// HYPESALE_DATABASE_DSN= selects the in-memory store.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"HTTP_ADDR":        &config.EndpointAddrHTTP,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"OWNER_ADDRESS":    &config.OwnerAddress,
		"TREASURY_ADDRESS": &config.TreasuryAddress,
		"LOG_LEVEL":        &config.LogLevel,
		"LOG_FORMAT":       &config.LogFormat,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_PREFIX":        &config.S3Prefix,
		"S3_REGION":        &config.S3Region,
		"S3_ENDPOINT":      &config.S3BaseEndpoint,
		"S3_ACCESS_KEY":    &config.S3AccessKey,
		"S3_SECRET_KEY":    &config.S3SecretKey,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTOKEN_TTL: %w", envPrefix, err)
		}
		config.AccessTokenValidityDuration = d
	}

	ints := map[string]*int64{
		"DEV_TREASURY_HYPE":   &config.DevTreasuryHype,
		"DEV_TREASURY_STABLE": &config.DevTreasuryStable,
	}
	for name, dst := range ints {
		v, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	return nil
}
