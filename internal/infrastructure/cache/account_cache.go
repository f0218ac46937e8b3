package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func accountKey(id string) string {
	return "account:id:" + id
}

func versionKey(id string) string {
	return "account:ver:" + id
}

// AccountRepository caches FindByID lookups in Redis in front of another repository.
// Writes go to the inner repository first, then bump the account's version key and
// drop the cached entry. A miss only fills the cache if the version key did not move
// while the row was being read. Redis failures are logged and the inner repository
// answers instead.
type AccountRepository struct {
	inner  repository.AccountRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// Wrap returns inner unchanged when rdb is nil.
func Wrap(inner repository.AccountRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) repository.AccountRepository {
	if rdb == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AccountRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *AccountRepository) warn(err error, key, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}

func (r *AccountRepository) evict(ctx context.Context, id string) {
	key, ver := accountKey(id), versionKey(id)
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, ver)
		p.Expire(ctx, ver, r.ttl)
		return helpers.RedisDel(ctx, p, key)
	})
	if err != nil {
		r.warn(err, key, "account cache evict failed")
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	return r.inner.Create(ctx, a)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	key := accountKey(id)
	var cached entity.Account
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, key, &cached)
	if err != nil {
		r.warn(err, key, "account cache read failed")
	}
	if hit {
		return &cached, nil
	}

	var (
		a        *entity.Account
		innerErr error
		fetched  bool
	)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		a, innerErr = r.inner.FindByID(ctx, id)
		fetched = true
		if innerErr != nil || a == nil {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			return helpers.RedisSetJSON(ctx, p, key, a, r.ttl)
		})
		return err
	}, versionKey(id))
	switch {
	case errors.Is(err, redis.TxFailedErr):
		// a write landed during the read; the row may be stale so it is not cached
	case err != nil:
		r.warn(err, key, "account cache write failed")
	}
	if !fetched {
		return r.inner.FindByID(ctx, id)
	}
	return a, innerErr
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *AccountRepository) Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	a, err := r.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return a, nil
}

func (r *AccountRepository) SetToken(ctx context.Context, id, token string) error {
	if err := r.inner.SetToken(ctx, id, token); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *AccountRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.Account, error) {
	return r.inner.List(ctx, filter)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
