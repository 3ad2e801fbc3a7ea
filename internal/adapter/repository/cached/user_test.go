package cached

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"desktop-core-service/internal/adapter/cache"
	domain "desktop-core-service/internal/domain/user"
	apperrors "desktop-core-service/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memCache is a cache.UserCache over a map. Setting down makes every call fail.
type memCache struct {
	mu    sync.Mutex
	users map[uint32]domain.User
	down  bool
}

var errCacheDown = errors.New("cache unavailable")

func newMemCache() *memCache {
	return &memCache{users: make(map[uint32]domain.User)}
}

func (c *memCache) Get(_ context.Context, id uint32) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, errCacheDown
	}
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *memCache) Set(_ context.Context, u *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return errCacheDown
	}
	c.users[u.ID] = *u
	return nil
}

func (c *memCache) Delete(_ context.Context, ids ...uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return errCacheDown
	}
	for _, id := range ids {
		delete(c.users, id)
	}
	return nil
}

func (c *memCache) has(id uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[id]
	return ok
}

var _ cache.UserCache = (*memCache)(nil)

// memStore is an in-memory repository that counts reads by ID.
type memStore struct {
	mu    sync.Mutex
	users map[uint32]domain.User
	reads atomic.Int32
	gate  chan struct{}
}

func newMemStore(users ...domain.User) *memStore {
	s := &memStore{users: make(map[uint32]domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) Create(_ context.Context, u *domain.User) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return u.ID, nil
}

func (s *memStore) CreateMany(_ context.Context, users []domain.User) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, 0, len(users))
	for _, u := range users {
		s.users[u.ID] = u
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *memStore) GetByID(_ context.Context, id uint32) (*domain.User, error) {
	s.reads.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "")
	}
	return &u, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memStore) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return apperrors.NewNotFoundError("user", "")
	}
	if u.Name != "" {
		cur.Name = u.Name
	}
	if u.Email != "" {
		cur.Email = u.Email
	}
	s.users[u.ID] = cur
	return nil
}

func (s *memStore) Delete(_ context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperrors.NewNotFoundError("user", "")
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) List(context.Context, string, int64, int64) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (s *memStore) ListAll(context.Context) ([]domain.User, error) {
	return nil, nil
}

func setup(t *testing.T, store *memStore) (*UserRepository, *memCache) {
	c := newMemCache()
	return NewUserRepository(store, c, zaptest.NewLogger(t)), c
}

func TestGetByID_FillsCache(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	repo, mc := setup(t, store)
	ctx := context.Background()

	for range 3 {
		u, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "John", u.Name)
	}

	assert.Equal(t, int32(1), store.reads.Load())
	assert.True(t, mc.has(1))
}

func TestGetByID_NotFoundIsNotCached(t *testing.T) {
	store := newMemStore()
	repo, mc := setup(t, store)

	_, err := repo.GetByID(context.Background(), 7)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, mc.has(7))
}

func TestGetByID_ConcurrentMissesShareRead(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	store.gate = make(chan struct{})
	repo, _ := setup(t, store)

	const callers = 8
	var wg sync.WaitGroup
	wg.Add(callers)
	for range callers {
		go func() {
			defer wg.Done()
			u, err := repo.GetByID(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, uint32(1), u.ID)
		}()
	}

	// Let the callers pile up behind the first store read.
	require.Eventually(t, func() bool { return store.reads.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	assert.LessOrEqual(t, store.reads.Load(), int32(callers))
	assert.GreaterOrEqual(t, store.reads.Load(), int32(1))
}

func TestUpdate_Evicts(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	repo, mc := setup(t, store)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, mc.has(1))

	require.NoError(t, repo.Update(ctx, &domain.User{ID: 1, Name: "Jane"}))
	assert.False(t, mc.has(1))

	u, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
}

func TestDelete_Evicts(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	repo, mc := setup(t, store)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, 1))
	assert.False(t, mc.has(1))

	_, err = repo.GetByID(ctx, 1)
	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCacheDown_FallsBackToStore(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	repo, mc := setup(t, store)
	mc.down = true

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "John", u.Name)
	require.NoError(t, repo.Delete(context.Background(), 1))
}

func TestCreateMany_DelegatesToStore(t *testing.T) {
	store := newMemStore()
	repo, mc := setup(t, store)
	ctx := context.Background()

	ids, err := repo.CreateMany(ctx, []domain.User{
		domain.New(1, "A", "a@example.com"),
		domain.New(2, "B", "b@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, ids)
	assert.False(t, mc.has(1))

	u, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", u.Name)
}

func TestNilCache_PassThrough(t *testing.T) {
	store := newMemStore(domain.New(1, "John", "john@example.com"))
	repo := NewUserRepository(store, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	for range 2 {
		_, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), store.reads.Load())
}
