package ledger

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

// Postgres keeps custodial balances in the asset_balances table. Inside a
// repomanager unit of work it reads and writes through that transaction, so
// a payout commits or rolls back together with the claim that caused it.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) conn(ctx context.Context) dbx.DBTX {
	if tx, ok := dbx.TxFromContext(ctx); ok {
		return tx
	}
	return p.db
}

func (p *Postgres) BalanceOf(ctx context.Context, asset models.Asset, who addrx.Address) (int64, error) {
	query := `SELECT amount FROM asset_balances WHERE asset = $1 AND holder = $2`

	var amount int64
	err := p.conn(ctx).QueryRowContext(ctx, query, string(asset), who.String()).Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return amount, nil
}

// Credit mints amount of asset to who.
func (p *Postgres) Credit(ctx context.Context, asset models.Asset, who addrx.Address, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: credit %d", common.ErrInvalidAmount, amount)
	}
	return credit(ctx, p.conn(ctx), asset, who, amount)
}

func (p *Postgres) Transfer(ctx context.Context, asset models.Asset, from, to addrx.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", common.ErrTransferFailed, amount)
	}

	if tx, ok := dbx.TxFromContext(ctx); ok {
		return transfer(ctx, tx, asset, from, to, amount)
	}
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return transfer(ctx, tx, asset, from, to, amount)
	})
}

func transfer(ctx context.Context, tx dbx.DBTX, asset models.Asset, from, to addrx.Address, amount int64) error {
	query :=
		`UPDATE asset_balances SET amount = amount - $3
		 WHERE asset = $1 AND holder = $2 AND amount >= $3
		 `
	res, err := tx.ExecContext(ctx, query, string(asset), from.String(), amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%w: %s balance of %s below %d", common.ErrTransferFailed, asset, from, amount)
	}

	return credit(ctx, tx, asset, to, amount)
}

func credit(ctx context.Context, db dbx.DBTX, asset models.Asset, who addrx.Address, amount int64) error {
	query :=
		`INSERT INTO asset_balances (asset, holder, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (asset, holder) DO UPDATE SET amount = asset_balances.amount + EXCLUDED.amount
		 `
	if _, err := db.ExecContext(ctx, query, string(asset), who.String(), amount); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
