package schedules

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

func (r *PostgresRepository) Get(ctx context.Context, buyer addrx.Address) (*models.VestingSchedule, error) {
	query :=
		`SELECT total_tokens, immediate_tokens, vested_tokens, claimed_tokens,
			purchased_at, cliff_end, vesting_end
		 FROM vesting_schedules
		 WHERE buyer = $1
		 `

	s := &models.VestingSchedule{Buyer: buyer}
	err := r.db.QueryRowContext(ctx, query, buyer.String()).Scan(
		&s.TotalTokens, &s.ImmediateTokens, &s.VestedTokens, &s.ClaimedTokens,
		&s.PurchasedAt, &s.CliffEnd, &s.VestingEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.VestingSchedule) error {
	query :=
		`INSERT INTO vesting_schedules (buyer, total_tokens, immediate_tokens, vested_tokens,
			claimed_tokens, purchased_at, cliff_end, vesting_end)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query, s.Buyer.String(), s.TotalTokens, s.ImmediateTokens,
		s.VestedTokens, s.ClaimedTokens, s.PurchasedAt, s.CliffEnd, s.VestingEnd)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateClaimed(ctx context.Context, buyer addrx.Address, claimed int64) error {
	query := `UPDATE vesting_schedules SET claimed_tokens = $2 WHERE buyer = $1`

	res, err := r.db.ExecContext(ctx, query, buyer.String(), claimed)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
