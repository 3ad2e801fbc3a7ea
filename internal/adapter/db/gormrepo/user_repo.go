// Package gormrepo stores users through GORM. The same code serves the
// embedded SQLite database and an external PostgreSQL server.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"desktop-core-service/internal/domain/user"
	apperrors "desktop-core-service/pkg/errors"
	"desktop-core-service/pkg/security"
)

// UserRepo implements the user repository on top of GORM.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    uint32 `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func toDomain(m UserSchema) user.User {
	return user.New(m.ID, m.Name, m.Email)
}

// Create inserts a new user. A zero ID lets the database assign one.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (uint32, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.NewAlreadyExistsError("user", "user already exists")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Uint32("id", model.ID))
	return model.ID, nil
}

// CreateMany inserts users in order inside a single transaction. Any failure
// rolls the whole batch back and names the index of the offending user.
func (r *UserRepo) CreateMany(ctx context.Context, users []user.User) ([]uint32, error) {
	var ids []uint32
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids = make([]uint32, 0, len(users))
		for i, u := range users {
			model := UserSchema{ID: u.ID, Name: u.Name, Email: u.Email}
			if err := tx.Create(&model).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("user %d: %w", i, apperrors.NewAlreadyExistsError("user", "user already exists"))
				}
				return fmt.Errorf("user %d: failed to create user: %w", i, err)
			}
			ids = append(ids, model.ID)
		}
		return nil
	})
	if err != nil {
		r.log.Error("batch create rolled back", zap.Error(err), zap.Int("count", len(users)))
		return nil, err
	}

	r.log.Info("users created in db", zap.Int("count", len(ids)))
	return ids, nil
}

// Update changes the non-empty fields of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	changes := map[string]any{}
	if u.Name != "" {
		changes["name"] = u.Name
	}
	if u.Email != "" {
		changes["email"] = u.Email
	}
	if len(changes) == 0 {
		return apperrors.NewValidationError("", "nothing to update")
	}

	result := r.db.WithContext(ctx).Model(&UserSchema{ID: u.ID}).Updates(changes)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewAlreadyExistsError("user", "email already exists")
		}
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.Uint32("id", u.ID))
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", u.ID))
	}

	r.log.Info("user updated in db", zap.Uint32("id", u.ID))
	return nil
}

// Delete removes a user by ID.
func (r *UserRepo) Delete(ctx context.Context, id uint32) error {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.Uint32("id", id))
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	r.log.Info("user deleted in db", zap.Uint32("id", id))
	return nil
}

// GetByID retrieves a user by ID. A missing user is a *errors.NotFoundError.
func (r *UserRepo) GetByID(ctx context.Context, id uint32) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Uint32("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

// GetByEmail retrieves a user by email. It returns nil, nil when no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

// List returns one page of users whose name or email contains query, case-insensitively,
// together with the total number of matches. query must already be validated.
func (r *UserRepo) List(ctx context.Context, query string, page, limit int64) ([]user.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Scopes(matching(query)).Count(&total).Error; err != nil {
		r.log.Error("failed to count users in db", zap.Error(err), zap.String("query", query))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	err := r.db.WithContext(ctx).
		Scopes(matching(query)).
		Order("id").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("query", query), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users, total, nil
}

// matching filters on name or email containing query, ignoring case.
func matching(query string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query == "" {
			return db
		}
		pattern := "%" + security.SanitizeSearchString(query) + "%"
		return db.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(email) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern)
	}
}

// ListAll returns every user ordered by ID.
func (r *UserRepo) ListAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list all users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list all users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users, nil
}
