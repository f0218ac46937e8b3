package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const accountColumns = `id::text, full_name, email, password_hash, mobile, role, token, created_at, updated_at`

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.Mobile,
		&a.Role, &a.Token, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// validID reports whether id can exist in the uuid primary key; anything else is simply absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Role == "" {
		a.Role = entity.DefaultRole
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (full_name, email, password_hash, mobile, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, a.FullName, a.Email, a.PasswordHash, a.Mobile, a.Role)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return errors.Wrap(err, "insert account")
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if !validID(id) {
		return nil, nil
	}
	a, err := scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find account by id")
	}
	return a, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE lower(email) = lower($1)
	`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find account by email")
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	if patch.IsEmpty() {
		a, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, repository.ErrNotFound
		}
		return a, nil
	}

	a, err := scanAccount(r.db.QueryRow(ctx, `
		UPDATE users
		SET full_name = COALESCE($2::text, full_name),
		    email = COALESCE($3::text, email),
		    mobile = COALESCE($4::text, mobile),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id, patch.FullName, patch.Email, patch.Mobile))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "update account")
	}
	return a, nil
}

func (r *AccountRepository) SetToken(ctx context.Context, id, token string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `UPDATE users SET token = $2 WHERE id = $1`, id, token)
	if err != nil {
		return errors.Wrap(err, "set account token")
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete account")
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users`
	var args []any
	if filter.ID != nil {
		if !validID(*filter.ID) {
			return []entity.Account{}, nil
		}
		query += ` WHERE id = $1`
		args = append(args, *filter.ID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Account, error) {
		a, err := scanAccount(row)
		if err != nil {
			return entity.Account{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan accounts")
	}
	return out, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
