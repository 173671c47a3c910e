package models

import "github.com/dmitrijs2005/hypesale/internal/addrx"

// Referral links a referee to its direct referrer. SecondTier is the
// direct referrer's own referrer as it was at registration time; it is
// empty when the direct referrer had none. Purchased is set by the
// referee's first recorded purchase.
type Referral struct {
	Referee    addrx.Address `json:"referee"`
	Referrer   addrx.Address `json:"referrer"`
	SecondTier addrx.Address `json:"second_tier"`
	CreatedAt  int64         `json:"created_at"`
	Purchased  bool          `json:"purchased"`
}

// ReferralStats are kept per participant acting as a referrer.
// TotalReferred counts distinct direct referees with at least one recorded
// purchase. TotalEarnedUSD never exceeds the reward cap.
type ReferralStats struct {
	Account           addrx.Address `json:"account"`
	TotalReferred     int64         `json:"total_referred"`
	TotalVolumeUSD    int64         `json:"total_volume_usd"`
	TotalEarnedUSD    int64         `json:"total_earned_usd"`
	PendingRewardsUSD int64         `json:"pending_rewards_usd"`
	TotalClaimedUSD   int64         `json:"total_claimed_usd"`
	IsActive          bool          `json:"is_active"`
}

// NewReferralStats returns empty, active stats for account.
func NewReferralStats(account addrx.Address) *ReferralStats {
	return &ReferralStats{Account: account, IsActive: true}
}
