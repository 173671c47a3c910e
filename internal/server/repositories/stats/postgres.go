package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/dbx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, account addrx.Address) (*models.ReferralStats, error) {
	query :=
		`SELECT total_referred, total_volume_usd, total_earned_usd, pending_rewards_usd,
			total_claimed_usd, is_active
		 FROM referral_stats
		 WHERE account = $1
		 `

	s := &models.ReferralStats{Account: account}
	err := r.db.QueryRowContext(ctx, query, account.String()).Scan(
		&s.TotalReferred, &s.TotalVolumeUSD, &s.TotalEarnedUSD, &s.PendingRewardsUSD,
		&s.TotalClaimedUSD, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s *models.ReferralStats) error {
	query :=
		`INSERT INTO referral_stats (account, total_referred, total_volume_usd, total_earned_usd,
			pending_rewards_usd, total_claimed_usd, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (account) DO UPDATE SET total_referred = EXCLUDED.total_referred,
			total_volume_usd = EXCLUDED.total_volume_usd,
			total_earned_usd = EXCLUDED.total_earned_usd,
			pending_rewards_usd = EXCLUDED.pending_rewards_usd,
			total_claimed_usd = EXCLUDED.total_claimed_usd,
			is_active = EXCLUDED.is_active
		 `

	_, err := r.db.ExecContext(ctx, query, s.Account.String(), s.TotalReferred, s.TotalVolumeUSD,
		s.TotalEarnedUSD, s.PendingRewardsUSD, s.TotalClaimedUSD, s.IsActive)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
