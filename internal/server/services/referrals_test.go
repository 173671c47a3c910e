package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReferral_SnapshotsSecondTier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ref, err := f.engine.RegisterReferral(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, ref.SecondTier.IsZero())

	ref, err = f.engine.RegisterReferral(ctx, carol, bob)
	require.NoError(t, err)
	assert.Equal(t, bob, ref.Referrer)
	assert.Equal(t, alice, ref.SecondTier)

	// alice gaining a referrer later does not change carol's snapshot.
	f.refer(t, alice, dave)
	st := f.stats(t, carol)
	assert.Equal(t, bob, st.DirectReferrer)
	assert.Equal(t, alice, st.SecondTierReferrer)

	refs, err := f.engine.Referees(ctx, bob)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, carol, refs[0].Referee)
}

func TestRegisterReferral_Rejections(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture)
		referee  addrx.Address
		referrer addrx.Address
		wantErr  error
	}{
		{name: "zero referee", referee: addrx.Zero, referrer: alice, wantErr: common.ErrInvalidAddress},
		{name: "empty referrer", referee: bob, referrer: "", wantErr: common.ErrInvalidAddress},
		{name: "self", referee: alice, referrer: alice, wantErr: common.ErrSelfReferral},
		{name: "owner", referee: owner, referrer: alice, wantErr: common.ErrOwnerCannotBeReferred},
		{
			name:     "already has referrer",
			setup:    func(t *testing.T, f *fixture) { f.refer(t, bob, alice) },
			referee:  bob,
			referrer: carol,
			wantErr:  common.ErrAlreadyHasReferrer,
		},
		{
			name:     "circular",
			setup:    func(t *testing.T, f *fixture) { f.refer(t, bob, alice) },
			referee:  alice,
			referrer: bob,
			wantErr:  common.ErrCircularReferral,
		},
		{
			name: "blacklisted referrer",
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, f.engine.SetBlacklisted(ctx, owner, alice, true))
			},
			referee:  bob,
			referrer: alice,
			wantErr:  common.ErrBlacklisted,
		},
		{
			name: "blacklisted referee",
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, f.engine.SetBlacklisted(ctx, owner, bob, true))
			},
			referee:  bob,
			referrer: alice,
			wantErr:  common.ErrBlacklisted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			_, err := f.engine.RegisterReferral(ctx, tt.referee, tt.referrer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterReferral_ValidationKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.RegisterReferral(context.Background(), alice, alice)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "validation", common.KindName(err))
}
