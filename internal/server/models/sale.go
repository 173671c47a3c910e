// Package models defines the sale engine data model: purchases, vesting
// schedules, referral edges and stats, engine settings and events.
package models

import (
	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/google/uuid"
)

// Asset identifies a fungible asset held on the external ledger.
type Asset string

const (
	AssetHype   Asset = "HYPE"
	AssetStable Asset = "USDC"
)

// Purchase is the immutable record of one buyer's purchase.
type Purchase struct {
	ID          uuid.UUID     `json:"id"`
	Buyer       addrx.Address `json:"buyer"`
	USDAmount   int64         `json:"usd_amount"`
	TokenAmount int64         `json:"token_amount"`
	Bonus       bool          `json:"bonus"`
	PurchasedAt int64         `json:"purchased_at"`
}

// VestingSchedule tracks one buyer's unlock curve. Timestamps are unix seconds.
//
// ImmediateTokens + VestedTokens == TotalTokens and
// 0 <= ClaimedTokens <= TotalTokens always hold.
type VestingSchedule struct {
	Buyer           addrx.Address `json:"buyer"`
	TotalTokens     int64         `json:"total_tokens"`
	ImmediateTokens int64         `json:"immediate_tokens"`
	VestedTokens    int64         `json:"vested_tokens"`
	ClaimedTokens   int64         `json:"claimed_tokens"`
	PurchasedAt     int64         `json:"purchased_at"`
	CliffEnd        int64         `json:"cliff_end"`
	VestingEnd      int64         `json:"vesting_end"`
}

// VestingPhase is derived from wall-clock time, never stored.
type VestingPhase string

const (
	PhaseUnpurchased   VestingPhase = "unpurchased"
	PhaseCliff         VestingPhase = "cliff"
	PhaseVesting       VestingPhase = "vesting"
	PhaseFullyUnlocked VestingPhase = "fully_unlocked"
)
