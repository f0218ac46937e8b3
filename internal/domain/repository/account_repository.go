package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("account email already exists")
)

// AccountRepository defines the persistence operations for accounts.
//
// Find* methods report absence with a nil account and a nil error.
// Create must rely on a storage-level uniqueness constraint on the normalized
// email and report a violation as ErrDuplicateEmail.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error)
	SetToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.ListFilter) ([]entity.Account, error)
}
