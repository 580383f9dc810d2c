// AngelaMos | 2026
// repository_test.go

package claim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
)

func newRepoWithMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepository_InsertIfAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	c := &Claim{ID: "c-1", UserID: "u-1", DealID: "d-1", Status: StatusPending, ClaimedAt: now}

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+claims.*ON\s+CONFLICT\s+\(user_id,\s*deal_id\)\s+DO\s+NOTHING`).
		WithArgs("c-1", "u-1", "d-1", StatusPending, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+claims`).
		WithArgs("c-1", "u-1", "d-1", StatusPending, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.InsertIfAbsent(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertIfAbsent_Error(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+claims`).WillReturnError(errors.New("db down"))

	_, err := repo.InsertIfAbsent(context.Background(), &Claim{ID: "c-1"})
	assert.ErrorContains(t, err, "insert claim")
}

func TestRepository_InsertIfAbsent_MissingReferences(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+claims`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "claims_user_id_fkey"})
	mock.ExpectExec(`INSERT\s+INTO\s+claims`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "claims_deal_id_fkey"})

	_, err := repo.InsertIfAbsent(context.Background(), &Claim{ID: "c-1", DealID: "d-1"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.InsertIfAbsent(context.Background(), &Claim{ID: "c-2", DealID: "d-1"})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("u-1", "d-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.Exists(context.Background(), "u-1", "d-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListByUserWithDeal(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	later := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	cols := []string{
		"id", "user_id", "deal_id", "status", "claimed_at",
		"deal.id", "deal.title", "deal.description", "deal.partner", "deal.category",
		"deal.access_level", "deal.eligibility_criteria", "deal.discount", "deal.created_at",
	}
	mock.ExpectQuery(`(?s)FROM\s+claims\s+c\s+JOIN\s+deals\s+d.*ORDER\s+BY\s+c\.claimed_at\s+DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c-2", "u-1", "d-2", "approved", later,
				"d-2", "Premium Slack Plan", "desc", "Slack", "Productivity",
				"locked", "Verified startup founders only", "2 years free", earlier).
			AddRow("c-1", "u-1", "d-1", "pending", earlier,
				"d-1", "AWS Credits for Startups", "desc", "Amazon Web Services", "Cloud Services",
				"public", "", "$100,000 credits", earlier))

	claims, err := repo.ListByUserWithDeal(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, claims, 2)

	assert.Equal(t, "c-2", claims[0].ID)
	assert.Equal(t, StatusApproved, claims[0].Status)
	assert.Equal(t, "Premium Slack Plan", claims[0].Deal.Title)
	assert.Equal(t, deal.AccessLocked, claims[0].Deal.AccessLevel)
	assert.Equal(t, "d-1", claims[1].Deal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetStatus(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+claims\s+SET\s+status`).
		WithArgs("c-1", StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+claims\s+SET\s+status`).
		WithArgs("c-x", StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetStatus(context.Background(), "c-1", StatusApproved))
	assert.ErrorIs(t, repo.SetStatus(context.Background(), "c-x", StatusApproved), core.ErrNotFound)
}

func TestRepository_DeleteAllAndCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+claims`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+claims`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
