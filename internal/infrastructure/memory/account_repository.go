package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// AccountRepository is an in-process store used when no database is configured
// and as the repository in tests. The email index enforces the same uniqueness
// rule as the Postgres unique index.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.Account
	byEmail map[string]string // lower(email) -> id
	now     func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*entity.Account),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func emailKey(email string) string { return strings.ToLower(email) }

func clone(a *entity.Account) *entity.Account {
	c := *a
	if a.FullName != nil {
		v := *a.FullName
		c.FullName = &v
	}
	if a.Token != nil {
		v := *a.Token
		c.Token = &v
	}
	return &c
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(a.Email)
	if _, taken := r.byEmail[key]; taken {
		return repository.ErrDuplicateEmail
	}
	if a.Role == "" {
		a.Role = entity.DefaultRole
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt

	r.byID[a.ID] = clone(a)
	r.byEmail[key] = a.ID
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return clone(a), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, nil
	}
	return clone(r.byID[id]), nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.IsEmpty() {
		return clone(a), nil
	}

	oldKey := emailKey(a.Email)
	if patch.Email != nil {
		newKey := emailKey(*patch.Email)
		if owner, taken := r.byEmail[newKey]; taken && owner != id {
			return nil, repository.ErrDuplicateEmail
		}
	}

	patch.Apply(a)
	a.UpdatedAt = r.now()
	if newKey := emailKey(a.Email); newKey != oldKey {
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = id
	}
	return clone(a), nil
}

func (r *AccountRepository) SetToken(ctx context.Context, id, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Token = &token
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, emailKey(a.Email))
	delete(r.byID, id)
	return nil
}

// List returns accounts in map order; callers must not rely on ordering.
func (r *AccountRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.ID != nil {
		a, ok := r.byID[*filter.ID]
		if !ok {
			return []entity.Account{}, nil
		}
		return []entity.Account{*clone(a)}, nil
	}
	out := make([]entity.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, *clone(a))
	}
	return out, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
