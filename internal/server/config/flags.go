package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/hypesale/internal/flagx"
)

var flagNames = []string{"a", "w", "d", "s", "t", "o", "r", "l", "f", "b", "k", "g", "e", "u", "p"}

// parseFlags applies command-line flags. Only the flags below are picked
// out of args, so -c/-config and foreign flags pass through unharmed.
//
//	-a  gRPC bind address        -w  HTTP bind address
//	-d  PostgreSQL DSN           -s  JWT HMAC secret
//	-t  access token validity    -o  owner address
//	-r  treasury address         -l  log level
//	-f  log format (text|json)   -b  S3 bucket
//	-k  S3 key prefix            -g  S3 region
//	-e  S3 endpoint              -u  S3 access key
//	-p  S3 secret key
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("hypesale", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC bind address")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP bind address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN, empty for in-memory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.OwnerAddress, "o", config.OwnerAddress, "owner address")
	fs.StringVar(&config.TreasuryAddress, "r", config.TreasuryAddress, "treasury address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for audit export")
	fs.StringVar(&config.S3Prefix, "k", config.S3Prefix, "S3 key prefix")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	return fs.Parse(flagx.FilterArgs(args, flagNames))
}
