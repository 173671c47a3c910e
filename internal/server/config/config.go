// Package config assembles the server configuration from, in increasing
// precedence: built-in defaults, an optional JSON file (-c/-config),
// HYPESALE_* environment variables (a .env file is honoured) and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the sale server.
//
// An empty DatabaseDSN selects the in-memory store and ledger; the
// DevTreasury* amounts are then credited to the treasury at start-up.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	OwnerAddress                string
	TreasuryAddress             string
	LogLevel                    string
	LogFormat                   string
	S3Bucket                    string
	S3Prefix                    string
	S3Region                    string
	S3BaseEndpoint              string
	S3AccessKey                 string
	S3SecretKey                 string
	DevTreasuryHype             int64
	DevTreasuryStable           int64
	Params                      models.Params
}

// LoadDefaults populates development defaults. The secret key must be
// overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Prefix = "hypesale"
	c.S3Region = "us-east-1"
	c.DevTreasuryHype = 1_000_000_000_000
	c.DevTreasuryStable = 10_000_000
	c.Params = models.DefaultParams()
}

// LoadConfig reads a .env file if one exists and builds the configuration
// from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.OwnerAddress == "" {
		errs = append(errs, errors.New("owner address is required"))
	}
	if c.TreasuryAddress == "" {
		errs = append(errs, errors.New("treasury address is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.DevTreasuryHype < 0 || c.DevTreasuryStable < 0 {
		errs = append(errs, errors.New("dev treasury amounts must not be negative"))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
