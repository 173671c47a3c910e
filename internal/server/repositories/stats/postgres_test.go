package stats

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

const account = addrx.Address("0x00000000000000000000000000000000000000a1")

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

	q := `(?s)^SELECT\s+total_referred,.*FROM\s+referral_stats\s+WHERE\s+account\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"total_referred", "total_volume_usd", "total_earned_usd", "pending_rewards_usd", "total_claimed_usd", "is_active"}).
		AddRow(int64(2), int64(3000), int64(150), int64(100), int64(50), true)
	mock.ExpectQuery(q).WithArgs(account.String()).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, &models.ReferralStats{
		Account: account, TotalReferred: 2, TotalVolumeUSD: 3000, TotalEarnedUSD: 150,
		PendingRewardsUSD: 100, TotalClaimedUSD: 50, IsActive: true,
	}, got)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+total_referred`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), account)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+referral_stats\s*\(.*\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*ON\s+CONFLICT\s+\(account\)\s+DO\s+UPDATE`
	mock.ExpectExec(q).
		WithArgs(account.String(), int64(1), int64(1000), int64(50), int64(50), int64(0), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &models.ReferralStats{
		Account: account, TotalReferred: 1, TotalVolumeUSD: 1000, TotalEarnedUSD: 50, PendingRewardsUSD: 50, IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+referral_stats`).WillReturnError(errors.New("db down"))

	err := repo.Save(context.Background(), models.NewReferralStats(account))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
