// Package client is a thin gRPC client for hypesale.v1.SaleService.
//
// Requests and responses are google.protobuf.Struct values; Call takes
// and returns plain maps. An access token, when set, is attached to
// every outgoing call by a unary interceptor under the access_token
// metadata key.
//
// Transport failures map to sentinel errors that callers can match with
// errors.Is: ErrUnavailable and ErrUnauthorized. Other failures keep
// their gRPC status and can be inspected with status.FromError.
package client
