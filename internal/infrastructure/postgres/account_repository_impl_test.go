package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const janeID = "2f1e6c1a-7d0b-4b8e-9a43-2c1f9f0e7a10"

var columns = []string{"id", "full_name", "email", "password_hash", "mobile", "role", "token", "created_at", "updated_at"}

func strPtr(s string) *string { return &s }

func newMockRepo(t *testing.T) (*AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewAccountRepository(mock), mock
}

func janeRow(mobile string) *pgxmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return pgxmock.NewRows(columns).
		AddRow(janeID, strPtr("Jane Doe"), "jane@x.com", "hash", mobile, "user", (*string)(nil), now, now)
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mobile := "555-0199"
	mock.ExpectQuery(`UPDATE users\s+SET full_name = COALESCE\(\$2::text, full_name\)`).
		WithArgs(janeID, (*string)(nil), (*string)(nil), &mobile).
		WillReturnRows(janeRow(mobile))

	a, err := repo.Update(ctx, janeID, entity.AccountPatch{Mobile: &mobile})
	require.NoError(t, err)
	assert.Equal(t, janeID, a.ID)
	assert.Equal(t, "555-0199", a.Mobile)
	require.NotNil(t, a.FullName)
	assert.Equal(t, "Jane Doe", *a.FullName)
	assert.Nil(t, a.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)
	email := "john@x.com"

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(janeID, (*string)(nil), &email, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	_, err := repo.Update(ctx, janeID, entity.AccountPatch{Email: &email})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(janeID, (*string)(nil), &email, (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	_, err = repo.Update(ctx, janeID, entity.AccountPatch{Email: &email})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = repo.Update(ctx, "not-a-uuid", entity.AccountPatch{Email: &email})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateEmptyPatchReads(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT[\s\S]+FROM users\s+WHERE id = \$1`).
		WithArgs(janeID).
		WillReturnRows(janeRow("555-0100"))

	a, err := repo.Update(ctx, janeID, entity.AccountPatch{})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", a.Mobile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SetTokenAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET token = \$2 WHERE id = \$1`).
		WithArgs(janeID, "tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET token`).
		WithArgs(janeID, "tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(janeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(janeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.SetToken(ctx, janeID, "tok"))
	assert.ErrorIs(t, repo.SetToken(ctx, janeID, "tok"), repository.ErrNotFound)
	assert.NoError(t, repo.Delete(ctx, janeID))
	assert.ErrorIs(t, repo.Delete(ctx, janeID), repository.ErrNotFound)

	assert.ErrorIs(t, repo.SetToken(ctx, "x", "tok"), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "x"), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT[\s\S]+FROM users`).
		WillReturnRows(janeRow("555-0100"))
	all, err := repo.List(ctx, entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, janeID, all[0].ID)

	id := janeID
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(janeID).
		WillReturnRows(pgxmock.NewRows(columns))
	none, err := repo.List(ctx, entity.ListFilter{ID: &id})
	require.NoError(t, err)
	assert.Empty(t, none)

	bad := "missing"
	none, err = repo.List(ctx, entity.ListFilter{ID: &bad})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByIDMissing(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(janeID).
		WillReturnError(pgx.ErrNoRows)

	a, err := repo.FindByID(ctx, janeID)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}
