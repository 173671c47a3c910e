package access

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *PostgresRepository) GetSettings(ctx context.Context) (*models.Settings, error) {
	query :=
		`SELECT owner, sale_contract, paused, params FROM sale_settings
		 WHERE id = 1
		 `

	var owner, sale string
	var params []byte
	s := &models.Settings{}

	err := r.db.QueryRowContext(ctx, query).Scan(&owner, &sale, &s.Paused, &params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(params, &s.Params); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	s.Owner = addrx.Address(owner)
	s.SaleContract = addrx.Address(sale)

	return s, nil
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, s *models.Settings) error {
	query :=
		`INSERT INTO sale_settings (id, owner, sale_contract, paused, params)
		 VALUES (1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner,
			sale_contract = EXCLUDED.sale_contract,
			paused = EXCLUDED.paused,
			params = EXCLUDED.params
		 `

	params, err := json.Marshal(s.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, s.Owner.String(), s.SaleContract.String(), s.Paused, params)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) IsBlacklisted(ctx context.Context, addr addrx.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklist WHERE address = $1)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, addr.String()).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return found, nil
}

func (r *PostgresRepository) SetBlacklisted(ctx context.Context, addr addrx.Address, blacklisted bool) error {
	query := `DELETE FROM blacklist WHERE address = $1`
	if blacklisted {
		query = `INSERT INTO blacklist (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`
	}

	if _, err := r.db.ExecContext(ctx, query, addr.String()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
