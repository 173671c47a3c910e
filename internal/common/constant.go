package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// BpsBase is the basis-point denominator: 10000 bps == 100%.
const BpsBase = 10_000

// SaleServiceName is the fully qualified gRPC service name.
const SaleServiceName = "hypesale.v1.SaleService"
