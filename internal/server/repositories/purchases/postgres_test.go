package purchases

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/google/uuid"
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

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	p := &models.Purchase{
		ID:          uuid.New(),
		Buyer:       buyer,
		USDAmount:   1000,
		TokenAmount: 12_500_000,
		PurchasedAt: 1_700_000_000,
	}

	q := `(?s)^INSERT\s+INTO\s+purchases\s*\(id,\s*buyer,\s*usd_amount,\s*token_amount,\s*bonus,\s*purchased_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`
	mock.ExpectExec(q).
		WithArgs(p.ID.String(), buyer.String(), int64(1000), int64(12_500_000), false, int64(1_700_000_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+purchases`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Purchase{ID: uuid.New(), Buyer: buyer})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestTotalUSD(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COALESCE\(SUM\(usd_amount\),\s*0\)\s+FROM\s+purchases\s+WHERE\s+buyer\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs(buyer.String()).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(1500)))

	got, err := repo.TotalUSD(context.Background(), buyer)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got)
}
