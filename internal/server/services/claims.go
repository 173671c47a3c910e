package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/mathx"
	"github.com/dmitrijs2005/hypesale/internal/server/ledger"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
)

// ClaimSettlement pays accrued referral rewards out of the treasury.
type ClaimSettlement struct {
	params models.Params
}

func NewClaimSettlement(p models.Params) *ClaimSettlement {
	return &ClaimSettlement{params: p}
}

// Quote prices usd of rewards in both payout assets.
func (c *ClaimSettlement) Quote(account addrx.Address, usd int64) (*models.PendingRewards, error) {
	hype, err := mathx.Mul(usd, c.params.RewardTokenMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: usd=%d: %w", common.ErrInvalidAmount, usd, err)
	}
	return &models.PendingRewards{
		Account:      account,
		USDValue:     usd,
		HypeTokens:   hype,
		StableTokens: usd,
	}, nil
}

// ClaimRewards zeroes account's pending rewards and then transfers them in
// HYPE (preferHype) or in the stable asset.
func (c *ClaimSettlement) ClaimRewards(ctx context.Context, r repomanager.Repositories, l ledger.Ledger, treasury, account addrx.Address, preferHype bool) (*models.RewardClaim, error) {
	st, err := LoadStats(ctx, r, account)
	if err != nil {
		return nil, err
	}
	eligible, err := Eligible(ctx, r, st)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, fmt.Errorf("%w: %s", common.ErrAccountInactive, account)
	}
	if st.PendingRewardsUSD == 0 {
		return nil, common.ErrNoPendingRewards
	}

	quote, err := c.Quote(account, st.PendingRewardsUSD)
	if err != nil {
		return nil, err
	}
	claim := &models.RewardClaim{Account: account, USDValue: st.PendingRewardsUSD, Asset: models.AssetStable, Payout: quote.StableTokens}
	if preferHype {
		claim.Asset, claim.Payout = models.AssetHype, quote.HypeTokens
	}

	balance, err := l.BalanceOf(ctx, claim.Asset, treasury)
	if err != nil {
		return nil, err
	}
	if balance < claim.Payout {
		return nil, fmt.Errorf("%w: %s balance %d < %d", common.ErrInsufficientLiquidity, claim.Asset, balance, claim.Payout)
	}

	st.PendingRewardsUSD = 0
	st.TotalClaimedUSD += claim.USDValue
	if err := r.Stats().Save(ctx, st); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, claim.Asset, treasury, account, claim.Payout); err != nil {
		return nil, err
	}

	return claim, nil
}
