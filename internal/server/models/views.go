package models

import "github.com/dmitrijs2005/hypesale/internal/addrx"

// PurchaseRecorded is the outcome of reward accrual for one purchase.
// Rewards are the deltas actually credited after the cap.
type PurchaseRecorded struct {
	Buyer              addrx.Address `json:"buyer"`
	USDAmount          int64         `json:"usd_amount"`
	TokenAmount        int64         `json:"token_amount"`
	DirectReferrer     addrx.Address `json:"direct_referrer,omitempty"`
	DirectReward       int64         `json:"direct_reward"`
	SecondTierReferrer addrx.Address `json:"second_tier_referrer,omitempty"`
	SecondTierReward   int64         `json:"second_tier_reward"`

	// DirectCapped and SecondTierCapped report that the cap cut the reward.
	DirectCapped     bool `json:"direct_capped,omitempty"`
	SecondTierCapped bool `json:"second_tier_capped,omitempty"`
}

// PurchaseReceipt is returned by the sale entrypoint.
type PurchaseReceipt struct {
	Purchase Purchase         `json:"purchase"`
	Schedule VestingSchedule  `json:"schedule"`
	Rewards  PurchaseRecorded `json:"rewards"`
}

type VestingInfo struct {
	Buyer           addrx.Address `json:"buyer"`
	TotalTokens     int64         `json:"total_tokens"`
	ImmediateTokens int64         `json:"immediate_tokens"`
	VestedTokens    int64         `json:"vested_tokens"`
	ClaimedTokens   int64         `json:"claimed_tokens"`
	UnlockedTokens  int64         `json:"unlocked_tokens"`
	ClaimableTokens int64         `json:"claimable_tokens"`
	CliffEnd        int64         `json:"cliff_end"`
	VestingEnd      int64         `json:"vesting_end"`
	ProgressBps     int64         `json:"progress_bps"`
	Phase           VestingPhase  `json:"phase"`
}

type ReferralStatsView struct {
	ReferralStats
	Blacklisted        bool          `json:"blacklisted"`
	DirectReferrer     addrx.Address `json:"direct_referrer"`
	SecondTierReferrer addrx.Address `json:"second_tier_referrer"`
}

// PendingRewards prices an account's pending rewards in both payout assets.
type PendingRewards struct {
	Account      addrx.Address `json:"account"`
	USDValue     int64         `json:"usd_value"`
	HypeTokens   int64         `json:"hype_tokens"`
	StableTokens int64         `json:"stable_tokens"`
}

type RewardClaim struct {
	Account  addrx.Address `json:"account"`
	USDValue int64         `json:"usd_value"`
	Asset    Asset         `json:"asset"`
	Payout   int64         `json:"payout"`
}

type TokenClaim struct {
	Buyer  addrx.Address `json:"buyer"`
	Amount int64         `json:"amount"`
}

type Status struct {
	Owner        addrx.Address `json:"owner"`
	SaleContract addrx.Address `json:"sale_contract"`
	Paused       bool          `json:"paused"`
	Params       Params        `json:"params"`
}
