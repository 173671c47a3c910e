package purchases

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/dbx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Purchase) error {
	query :=
		`INSERT INTO purchases (id, buyer, usd_amount, token_amount, bonus, purchased_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(), p.Buyer.String(), p.USDAmount, p.TokenAmount, p.Bonus, p.PurchasedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) TotalUSD(ctx context.Context, buyer addrx.Address) (int64, error) {
	query := `SELECT COALESCE(SUM(usd_amount), 0) FROM purchases WHERE buyer = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, buyer.String()).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}
