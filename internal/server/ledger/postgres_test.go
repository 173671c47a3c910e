package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgres_BalanceOf(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)

	mock.ExpectQuery(`(?s)^SELECT amount FROM asset_balances WHERE asset = \$1 AND holder = \$2`).
		WithArgs("HYPE", treasury.String()).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(int64(500)))
	got, err := l.BalanceOf(context.Background(), models.AssetHype, treasury)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got)

	mock.ExpectQuery(`(?s)^SELECT amount FROM asset_balances`).
		WithArgs("USDC", holder.String()).
		WillReturnError(sql.ErrNoRows)
	got, err = l.BalanceOf(context.Background(), models.AssetStable, holder)
	require.NoError(t, err)
	assert.Zero(t, got)

	mock.ExpectQuery(`(?s)^SELECT amount FROM asset_balances`).
		WillReturnError(errors.New("conn reset"))
	_, err = l.BalanceOf(context.Background(), models.AssetStable, holder)
	assert.ErrorContains(t, err, "db error")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Transfer_OK(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE asset_balances SET amount = amount - \$3.*amount >= \$3`).
		WithArgs("HYPE", treasury.String(), int64(25)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT INTO asset_balances .*ON CONFLICT \(asset, holder\)`).
		WithArgs("HYPE", holder.String(), int64(25)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, l.Transfer(context.Background(), models.AssetHype, treasury, holder, 25))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Transfer_Insufficient(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE asset_balances`).
		WithArgs("USDC", treasury.String(), int64(25)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := l.Transfer(context.Background(), models.AssetStable, treasury, holder, 25)
	assert.ErrorIs(t, err, common.ErrTransferFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Credit(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)

	mock.ExpectExec(`(?s)^INSERT INTO asset_balances`).
		WithArgs("HYPE", treasury.String(), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, l.Credit(context.Background(), models.AssetHype, treasury, 1000))
	assert.ErrorIs(t, l.Credit(context.Background(), models.AssetHype, treasury, -5), common.ErrInvalidAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Transfer_JoinsUnitOfWork(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)
	m, err := repomanager.NewPostgresManager(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT amount FROM asset_balances`).
		WithArgs("USDC", treasury.String()).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(int64(100)))
	mock.ExpectExec(`(?s)^UPDATE asset_balances SET amount = amount - \$3`).
		WithArgs("USDC", treasury.String(), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^INSERT INTO asset_balances`).
		WithArgs("USDC", holder.String(), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access due to read/write dependencies"))

	err = m.Atomic(context.Background(), func(ctx context.Context, r repomanager.Repositories) error {
		bal, err := l.BalanceOf(ctx, models.AssetStable, treasury)
		if err != nil {
			return err
		}
		require.Equal(t, int64(100), bal)
		return l.Transfer(ctx, models.AssetStable, treasury, holder, 50)
	})
	assert.ErrorContains(t, err, "could not serialize access")

	// the payout ran on the unit-of-work transaction only, so the failed
	// commit discards it with everything else
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Transfer_InsufficientInsideUnitOfWork(t *testing.T) {
	db, mock := newMock(t)
	l := NewPostgres(db)
	m, err := repomanager.NewPostgresManager(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE asset_balances`).
		WithArgs("HYPE", treasury.String(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = m.Atomic(context.Background(), func(ctx context.Context, r repomanager.Repositories) error {
		return l.Transfer(ctx, models.AssetHype, treasury, holder, 7)
	})
	assert.ErrorIs(t, err, common.ErrTransferFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}
