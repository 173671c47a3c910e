// Package common defines shared constants and sentinel errors used across
// the sale engine, its repositories and transports. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error kinds. Every engine failure unwraps to exactly one of these.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrLiquidity     = errors.New("liquidity error")
	ErrNoOp          = errors.New("nothing to do")
)

// codedError is a named failure that belongs to one kind.
type codedError struct {
	kind error
	code string
}

func (e *codedError) Error() string { return e.code }

func (e *codedError) Unwrap() error { return e.kind }

func coded(kind error, code string) error {
	return &codedError{kind: kind, code: code}
}

// Validation failures.
var (
	ErrInvalidAddress         = coded(ErrValidation, "invalid address")
	ErrInvalidAmount          = coded(ErrValidation, "invalid amount")
	ErrSelfReferral           = coded(ErrValidation, "self referral")
	ErrOwnerCannotBeReferred  = coded(ErrValidation, "owner cannot be referred")
	ErrAlreadyHasReferrer     = coded(ErrValidation, "already has referrer")
	ErrCircularReferral       = coded(ErrValidation, "circular referral")
	ErrAlreadyPurchased       = coded(ErrValidation, "already purchased")
	ErrPurchaseOutOfRange     = coded(ErrValidation, "purchase out of range")
	ErrPurchaseTooSmall       = coded(ErrValidation, "purchase too small")
	ErrInvalidParams          = coded(ErrValidation, "invalid sale params")
	ErrParamsMismatch         = coded(ErrValidation, "sale params differ from persisted params")
	ErrSaleContractNotDefined = coded(ErrValidation, "sale contract not set")
)

// Authorization failures.
var (
	ErrUnauthorized = coded(ErrAuthorization, "unauthorized")
)

// State failures.
var (
	ErrPaused          = coded(ErrState, "paused")
	ErrNotPaused       = coded(ErrState, "not paused")
	ErrBlacklisted     = coded(ErrState, "blacklisted")
	ErrAccountInactive = coded(ErrState, "account not active")
	ErrReentrantCall   = coded(ErrState, "reentrant call")
)

// Liquidity failures.
var (
	ErrInsufficientLiquidity = coded(ErrLiquidity, "insufficient liquidity")
)

// No-op failures.
var (
	ErrNothingToClaim   = coded(ErrNoOp, "nothing to claim")
	ErrNoPendingRewards = coded(ErrNoOp, "no pending rewards")
)

// ErrTransferFailed is returned when the external asset ledger rejects a
// transfer. It carries no kind: the cause is outside the engine.
var ErrTransferFailed = errors.New("asset transfer failed")

// Kind returns the kind sentinel err belongs to, or nil if it has none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrAuthorization, ErrState, ErrLiquidity, ErrNoOp} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindName is a short label for the kind of err, used for logs and metrics.
func KindName(err error) string {
	switch Kind(err) {
	case ErrValidation:
		return "validation"
	case ErrAuthorization:
		return "authorization"
	case ErrState:
		return "state"
	case ErrLiquidity:
		return "liquidity"
	case ErrNoOp:
		return "noop"
	default:
		return "internal"
	}
}
