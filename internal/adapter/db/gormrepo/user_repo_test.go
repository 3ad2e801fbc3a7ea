package gormrepo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"desktop-core-service/internal/domain/user"
	apperrors "desktop-core-service/pkg/errors"
)

func setupTestRepo(t *testing.T) *UserRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Every pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewUserRepo(db, zaptest.NewLogger(t))
}

func seed(t *testing.T, repo *UserRepo, users ...user.User) {
	for _, u := range users {
		_, err := repo.Create(context.Background(), &u)
		require.NoError(t, err)
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &user.User{Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.New(id, "John Doe", "john@example.com"), *got)

	byEmail, err := repo.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
}

func TestUserRepo_CreateWithExplicitID(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.Create(context.Background(), &user.User{ID: 42, Name: "", Email: "x@y.z"})
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	got, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, got.Name)
}

func TestUserRepo_CreateNil(t *testing.T) {
	repo := setupTestRepo(t)
	_, err := repo.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetByID(context.Background(), 999)
	assert.Nil(t, got)
	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserRepo_GetByEmail_Missing(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	seed(t, repo, user.New(1, "John Doe", "john@example.com"))

	require.NoError(t, repo.Update(ctx, &user.User{ID: 1, Name: "Johnny"}))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.Name)
	assert.Equal(t, "john@example.com", got.Email)

	err = repo.Update(ctx, &user.User{ID: 2, Name: "Ghost"})
	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)

	err = repo.Update(ctx, &user.User{ID: 1})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUserRepo_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	seed(t, repo, user.New(1, "John Doe", "john@example.com"))

	require.NoError(t, repo.Delete(ctx, 1))

	err := repo.Delete(ctx, 1)
	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserRepo_List_Search(t *testing.T) {
	repo := setupTestRepo(t)
	seed(t, repo,
		user.New(1, "John Doe", "JOHN@EXAMPLE.COM"),
		user.New(2, "jane smith", "jane@example.com"),
		user.New(3, "ADMIN User", "admin@example.com"),
		user.New(4, "John%Test", "john%test@example.org"),
		user.New(5, "Jane_Test", "jane_test@example.org"),
	)

	tests := []struct {
		name        string
		query       string
		expectCount int
	}{
		{"empty query returns all", "", 5},
		{"lowercase", "john", 2},
		{"uppercase", "JOHN", 2},
		{"mixed case", "Admin", 1},
		{"domain", "example.com", 3},
		{"percent is literal", "john%", 1},
		{"underscore is literal", "jane_", 1},
		{"no match", "zed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(context.Background(), tt.query, 1, 10)
			require.NoError(t, err)
			assert.Len(t, users, tt.expectCount)
			assert.Equal(t, int64(tt.expectCount), total)
		})
	}
}

func TestUserRepo_List_Pagination(t *testing.T) {
	repo := setupTestRepo(t)
	for i := 1; i <= 5; i++ {
		seed(t, repo, user.New(uint32(i), "User", "user"+string(rune('0'+i))+"@example.com"))
	}

	page2, total, err := repo.List(context.Background(), "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page2, 2)
	assert.Equal(t, uint32(3), page2[0].ID)
	assert.Equal(t, uint32(4), page2[1].ID)

	page3, _, err := repo.List(context.Background(), "", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, uint32(5), page3[0].ID)
}

func TestUserRepo_ListAll(t *testing.T) {
	repo := setupTestRepo(t)
	seed(t, repo,
		user.New(3, "Charlie", "charlie@example.com"),
		user.New(1, "Alice", "alice@example.com"),
		user.New(2, "Bob", "bob@example.com"),
	)

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, uint32(i+1), u.ID)
	}
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	seed(t, repo, user.New(1, "A", "a@example.com"))

	_, err := repo.Create(ctx, &user.User{ID: 1, Name: "B", Email: "b@example.com"})
	var ae *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &ae)

	_, err = repo.Create(ctx, &user.User{Name: "C", Email: "a@example.com"})
	assert.ErrorAs(t, err, &ae)
}

func TestUserRepo_CreateMany(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	ids, err := repo.CreateMany(ctx, []user.User{
		user.New(5, "A", "a@example.com"),
		user.New(0, "B", "b@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, uint32(5), ids[0])
	assert.NotZero(t, ids[1])

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserRepo_CreateMany_RollsBack(t *testing.T) {
	tests := []struct {
		name  string
		batch []user.User
	}{
		{"duplicate id in batch", []user.User{
			user.New(5, "a", "a@x.io"),
			user.New(5, "b", "b@x.io"),
		}},
		{"duplicate email in batch", []user.User{
			user.New(0, "a", "a@x.io"),
			user.New(0, "b", "a@x.io"),
		}},
		{"clashes with stored user", []user.User{
			user.New(7, "c", "c@x.io"),
			user.New(1, "d", "d@x.io"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupTestRepo(t)
			ctx := context.Background()
			seed(t, repo, user.New(1, "Existing", "existing@example.com"))

			ids, err := repo.CreateMany(ctx, tt.batch)
			assert.Nil(t, ids)
			var ae *apperrors.AlreadyExistsError
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, err.Error(), "user 1")

			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []user.User{user.New(1, "Existing", "existing@example.com")}, all)
		})
	}
}
