package schedules

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buyer = addrx.Address("0x00000000000000000000000000000000000000b1")

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+total_tokens,\s*immediate_tokens,\s*vested_tokens,\s*claimed_tokens,\s*purchased_at,\s*cliff_end,\s*vesting_end\s+FROM\s+vesting_schedules\s+WHERE\s+buyer\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"total_tokens", "immediate_tokens", "vested_tokens", "claimed_tokens", "purchased_at", "cliff_end", "vesting_end"}).
		AddRow(int64(100), int64(20), int64(80), int64(5), int64(10), int64(20), int64(30))
	mock.ExpectQuery(q).WithArgs(buyer.String()).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), buyer)
	require.NoError(t, err)
	assert.Equal(t, &models.VestingSchedule{
		Buyer: buyer, TotalTokens: 100, ImmediateTokens: 20, VestedTokens: 80, ClaimedTokens: 5,
		PurchasedAt: 10, CliffEnd: 20, VestingEnd: 30,
	}, got)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+total_tokens`).WithArgs(buyer.String()).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), buyer)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+vesting_schedules\s*\(buyer,`
	mock.ExpectExec(q).
		WithArgs(buyer.String(), int64(100), int64(20), int64(80), int64(0), int64(10), int64(20), int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.VestingSchedule{
		Buyer: buyer, TotalTokens: 100, ImmediateTokens: 20, VestedTokens: 80,
		PurchasedAt: 10, CliffEnd: 20, VestingEnd: 30,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+vesting_schedules`).WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), &models.VestingSchedule{Buyer: buyer})
	if err == nil || !regexp.MustCompile(`db error: .*duplicate key`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdateClaimed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+vesting_schedules\s+SET\s+claimed_tokens\s*=\s*\$2\s+WHERE\s+buyer\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(buyer.String(), int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(buyer.String(), int64(43)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateClaimed(context.Background(), buyer, 42))
	assert.ErrorIs(t, repo.UpdateClaimed(context.Background(), buyer, 43), common.ErrorNotFound)
}
