package cached

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"desktop-core-service/internal/adapter/cache"
	domain "desktop-core-service/internal/domain/user"
	"desktop-core-service/internal/usecase/user"
)

// UserRepository puts a read-through cache in front of a persistent
// user.Repository. Only lookups by ID are cached; writes go straight to the
// store and evict the affected entry afterwards.
type UserRepository struct {
	store user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

var _ user.Repository = (*UserRepository)(nil)

// NewUserRepository wraps store with c. A nil cache makes every call a
// pass-through.
func NewUserRepository(store user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{store: store, cache: c, log: log.Named("cached_repo")}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (uint32, error) {
	return r.store.Create(ctx, u)
}

// CreateMany only adds new IDs, so nothing cached can go stale.
func (r *UserRepository) CreateMany(ctx context.Context, users []domain.User) ([]uint32, error) {
	return r.store.CreateMany(ctx, users)
}

// lookup returns the cached user for id, treating cache failures as a miss.
func (r *UserRepository) lookup(ctx context.Context, id uint32) *domain.User {
	if r.cache == nil {
		return nil
	}
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache read failed, using store", zap.Uint32("id", id), zap.Error(err))
		return nil
	}
	return u
}

// GetByID serves from cache when possible. Concurrent misses for the same id
// share a single store read.
func (r *UserRepository) GetByID(ctx context.Context, id uint32) (*domain.User, error) {
	if u := r.lookup(ctx, id); u != nil {
		return u, nil
	}

	v, err, shared := r.group.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		if u := r.lookup(ctx, id); u != nil {
			return u, nil
		}

		u, err := r.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("cache fill failed", zap.Uint32("id", id), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.log.Debug("store read shared", zap.Uint32("id", id))
	}

	// Callers may mutate the result; hand each one its own copy.
	u := *v.(*domain.User)
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.store.GetByEmail(ctx, email)
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.store.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint32) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *UserRepository) evict(ctx context.Context, id uint32) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("cache eviction failed", zap.Uint32("id", id), zap.Error(err))
	}
}

func (r *UserRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error) {
	return r.store.List(ctx, query, page, limit)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.store.ListAll(ctx)
}
