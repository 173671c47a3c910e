package events

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/dbx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.Event) error {
	query :=
		`INSERT INTO events (id, kind, account, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING seq
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.ID.String(), string(e.Kind), e.Account.String(), []byte(e.Payload), e.CreatedAt).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	query :=
		`SELECT id, seq, kind, account, payload, created_at FROM events
		 WHERE seq > $1
		 ORDER BY seq
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		var id, kind, account string
		var payload []byte
		var e models.Event
		if err := rows.Scan(&id, &e.Seq, &kind, &account, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad event id %q: %w", id, err)
		}
		e.Kind = models.EventKind(kind)
		e.Account = addrx.Address(account)
		e.Payload = payload
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
