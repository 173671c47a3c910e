package referrals

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

func (r *PostgresRepository) Get(ctx context.Context, referee addrx.Address) (*models.Referral, error) {
	query :=
		`SELECT referrer, second_tier, created_at, purchased FROM referrals
		 WHERE referee = $1
		 `

	var referrer string
	var secondTier sql.NullString
	ref := &models.Referral{Referee: referee}

	err := r.db.QueryRowContext(ctx, query, referee.String()).Scan(&referrer, &secondTier, &ref.CreatedAt, &ref.Purchased)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	ref.Referrer = addrx.Address(referrer)
	ref.SecondTier = addrx.Address(secondTier.String)

	return ref, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ref *models.Referral) error {
	query :=
		`INSERT INTO referrals (referee, referrer, second_tier, created_at)
		 VALUES ($1, $2, $3, $4)
		 `

	secondTier := sql.NullString{String: ref.SecondTier.String(), Valid: ref.SecondTier != ""}

	_, err := r.db.ExecContext(ctx, query, ref.Referee.String(), ref.Referrer.String(), secondTier, ref.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) MarkPurchased(ctx context.Context, referee addrx.Address) error {
	query := `UPDATE referrals SET purchased = TRUE WHERE referee = $1`

	res, err := r.db.ExecContext(ctx, query, referee.String())
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

func (r *PostgresRepository) ListByReferrer(ctx context.Context, referrer addrx.Address) ([]models.Referral, error) {
	query :=
		`SELECT referee, second_tier, created_at, purchased FROM referrals
		 WHERE referrer = $1
		 ORDER BY created_at, referee
		 `

	rows, err := r.db.QueryContext(ctx, query, referrer.String())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Referral
	for rows.Next() {
		var referee string
		var secondTier sql.NullString
		item := models.Referral{Referrer: referrer}
		if err := rows.Scan(&referee, &secondTier, &item.CreatedAt, &item.Purchased); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Referee = addrx.Address(referee)
		item.SecondTier = addrx.Address(secondTier.String)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
