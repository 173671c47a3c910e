package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain sets up alice <- bob <- carol, so purchases by carol reward bob
// directly and alice at the second tier.
func chain(t *testing.T) *fixture {
	f := newFixture(t)
	f.refer(t, bob, alice)
	f.refer(t, carol, bob)
	return f
}

func TestRewards_TierMath(t *testing.T) {
	f := chain(t)

	r := f.buy(t, carol, 1_000, false)
	assert.Equal(t, int64(50), r.Rewards.DirectReward)
	assert.Equal(t, int64(20), r.Rewards.SecondTierReward)
	assert.Equal(t, bob, r.Rewards.DirectReferrer)
	assert.Equal(t, alice, r.Rewards.SecondTierReferrer)

	b := f.stats(t, bob)
	assert.Equal(t, int64(1), b.TotalReferred)
	assert.Equal(t, int64(1_000), b.TotalVolumeUSD)
	assert.Equal(t, int64(50), b.PendingRewardsUSD)
	assert.Equal(t, int64(50), b.TotalEarnedUSD)

	a := f.stats(t, alice)
	assert.Zero(t, a.TotalReferred, "second tier does not count as a referral")
	assert.Zero(t, a.TotalVolumeUSD)
	assert.Equal(t, int64(20), a.PendingRewardsUSD)
}

func TestRewards_Truncation(t *testing.T) {
	f := chain(t)
	f.refer(t, dave, bob)

	r := f.buy(t, dave, 12_345, false)
	assert.Equal(t, int64(617), r.Rewards.DirectReward)
	assert.Equal(t, int64(246), r.Rewards.SecondTierReward)
}

func TestRewards_NoReferrer(t *testing.T) {
	f := newFixture(t)
	r := f.buy(t, alice, 5_000, false)
	assert.Zero(t, r.Rewards.DirectReward)
	assert.True(t, r.Rewards.DirectReferrer.IsZero())
}

func TestRewards_CapSaturation(t *testing.T) {
	ctx := context.Background()
	f := chain(t)

	r := f.buy(t, carol, 200_000, false)
	assert.Equal(t, int64(10_000), r.Rewards.DirectReward)
	assert.False(t, r.Rewards.DirectCapped)

	rec, err := f.engine.RecordPurchase(ctx, sale, carol, 1_000, 12_500_000)
	require.NoError(t, err)
	assert.Zero(t, rec.DirectReward)
	assert.True(t, rec.DirectCapped)
	assert.Equal(t, int64(20), rec.SecondTierReward)

	b := f.stats(t, bob)
	assert.Equal(t, int64(10_000), b.TotalEarnedUSD)
	assert.Equal(t, int64(10_000), b.PendingRewardsUSD)
	assert.Equal(t, int64(201_000), b.TotalVolumeUSD, "volume keeps growing after the cap")
	assert.Equal(t, int64(1), b.TotalReferred, "carol is counted once")
	assert.Equal(t, 1, f.metrics.capped[TierDirect])
}

func TestRewards_CapPartialDelta(t *testing.T) {
	f := chain(t)
	f.refer(t, dave, bob)

	f.buy(t, carol, 199_000, false)
	r := f.buy(t, dave, 2_000, false)

	assert.Equal(t, int64(50), r.Rewards.DirectReward)
	assert.True(t, r.Rewards.DirectCapped)
	assert.Equal(t, int64(10_000), f.stats(t, bob).TotalEarnedUSD)
}

func TestRewards_CapHoldsAcrossClaims(t *testing.T) {
	ctx := context.Background()
	f := chain(t)

	amounts := []int64{150_000, 100, 40_000, 9_999, 100_000}
	for i, usd := range amounts {
		_, err := f.engine.RecordPurchase(ctx, sale, carol, usd, 0)
		require.NoError(t, err)

		require.LessOrEqual(t, f.stats(t, bob).TotalEarnedUSD, int64(10_000), "step %d", i)
		require.LessOrEqual(t, f.stats(t, alice).TotalEarnedUSD, int64(10_000), "step %d", i)

		if i == 1 {
			_, err := f.engine.ClaimRewards(ctx, bob, false)
			require.NoError(t, err)
		}
	}

	b := f.stats(t, bob)
	assert.Equal(t, int64(10_000), b.TotalEarnedUSD)
	assert.Equal(t, b.TotalEarnedUSD, b.PendingRewardsUSD+b.TotalClaimedUSD)
}

func TestRecordPurchase_Rejections(t *testing.T) {
	ctx := context.Background()
	f := chain(t)

	_, err := f.engine.RecordPurchase(ctx, sale, carol, 99, 0)
	assert.ErrorIs(t, err, common.ErrPurchaseTooSmall)

	_, err = f.engine.RecordPurchase(ctx, sale, carol, 1_000, -1)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	assert.Zero(t, f.stats(t, bob).TotalReferred)
}

func TestRewards_BlacklistedReferrerSkipped(t *testing.T) {
	ctx := context.Background()
	f := chain(t)
	f.refer(t, dave, bob)

	f.buy(t, carol, 1_000, false)
	require.NoError(t, f.engine.SetBlacklisted(ctx, owner, bob, true))

	r := f.buy(t, dave, 1_000, false)
	assert.Zero(t, r.Rewards.DirectReward)
	assert.Equal(t, int64(20), r.Rewards.SecondTierReward, "second tier still earns")

	b := f.stats(t, bob)
	assert.Equal(t, int64(50), b.PendingRewardsUSD, "historical stats are kept")
	assert.Equal(t, int64(2), b.TotalReferred)
	assert.False(t, b.IsActive)
	assert.True(t, b.Blacklisted)

	_, err := f.engine.ClaimRewards(ctx, bob, false)
	assert.ErrorIs(t, err, common.ErrAccountInactive)
	assert.ErrorIs(t, err, common.ErrState)

	require.NoError(t, f.engine.SetBlacklisted(ctx, owner, bob, false))
	assert.True(t, f.stats(t, bob).IsActive)
	claim, err := f.engine.ClaimRewards(ctx, bob, false)
	require.NoError(t, err)
	assert.Equal(t, int64(50), claim.USDValue)
}

func TestRewards_DeactivatedSecondTierSkipped(t *testing.T) {
	ctx := context.Background()
	f := chain(t)
	require.NoError(t, f.engine.DeactivateAccount(ctx, owner, alice))

	r := f.buy(t, carol, 1_000, false)
	assert.Equal(t, int64(50), r.Rewards.DirectReward)
	assert.Zero(t, r.Rewards.SecondTierReward)
	assert.False(t, f.stats(t, alice).IsActive)
}

func TestRewards_TotalReferredCountsDistinctReferees(t *testing.T) {
	ctx := context.Background()
	f := chain(t)
	f.refer(t, dave, bob)
	assert.Zero(t, f.stats(t, bob).TotalReferred, "registration alone does not count")

	f.buy(t, carol, 1_000, false)
	for range 3 {
		_, err := f.engine.RecordPurchase(ctx, sale, carol, 500, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), f.stats(t, bob).TotalReferred)

	f.buy(t, dave, 1_000, false)
	b := f.stats(t, bob)
	assert.Equal(t, int64(2), b.TotalReferred)
	assert.Equal(t, int64(3_500), b.TotalVolumeUSD)

	refs, err := f.engine.Referees(ctx, bob)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	for _, ref := range refs {
		assert.True(t, ref.Purchased, ref.Referee)
	}
}
