package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "desktop-core-service/internal/domain/user"
	apperrors "desktop-core-service/pkg/errors"
	"desktop-core-service/pkg/logger"
	"desktop-core-service/pkg/security"
)

// Listing bounds
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., SQLite, PostgreSQL, a cache in front of either) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (uint32, error)                              // Create a new user
	GetByID(ctx context.Context, id uint32) (*domain.User, error)                            // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error)                      // Retrieve user by email
	Update(ctx context.Context, u *domain.User) error                                        // Update existing user
	Delete(ctx context.Context, id uint32) error                                             // Delete user by ID
	List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error) // One page of matching users and the match count
	ListAll(ctx context.Context) ([]domain.User, error)                                      // Every user ordered by ID
	CreateMany(ctx context.Context, users []domain.User) ([]uint32, error)                   // All users or none, in order
}

// Usecase implements the business logic for user management operations.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a *errors.ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var fields, messages []string
	for _, e := range validationErrors {
		fields = append(fields, strings.ToLower(e.Field()))
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(strings.Join(fields, ","), strings.Join(messages, ", "))
}

func checkEmailShape(email string) error {
	if !domain.New(0, "", email).IsValidEmail() {
		return apperrors.NewValidationError("email", "email must contain '@' and '.'")
	}
	return nil
}

func toDTO(u domain.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CreateUser creates a new user after validating the request and checking email uniqueness.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.Uint32("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if err := checkEmailShape(in.Email); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		ID:    in.ID,
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &CreateUserResponse{ID: id}, nil
}

// ensureEmailFree fails with AlreadyExistsError when another user owns email.
func (uc *Usecase) ensureEmailFree(ctx context.Context, email string, ownerID uint32) error {
	log := logger.WithContext(ctx, uc.log)

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil && existing.ID != ownerID {
		log.Warn("email already exists", zap.String("email", email), zap.Uint32("existing_id", existing.ID))
		return apperrors.NewAlreadyExistsError("user", "email already exists")
	}
	return nil
}

// UpdateUser updates an existing user after validating the request and checking email uniqueness.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Uint32("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if in.Email != "" {
		if err := checkEmailShape(in.Email); err != nil {
			log.Warn("validate failed", zap.Error(err))
			return nil, err
		}
		if err := uc.ensureEmailFree(ctx, in.Email, in.ID); err != nil {
			return nil, err
		}
	}

	err := uc.repo.Update(ctx, &domain.User{
		ID:    in.ID,
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		log.Error("failed to update user", zap.Uint32("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateUserResponse{ID: in.ID}, nil
}

// DeleteUser deletes a user after validating the user ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Uint32("id", in.ID))

	if in.ID == 0 {
		log.Warn("delete user validation failed", zap.String("reason", "invalid id"))
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		log.Error("failed to delete user", zap.Uint32("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{ID: in.ID}, nil
}

// GetUser retrieves a user by ID after validating the request.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if in.ID == 0 {
		log.Warn("get user validation failed", zap.String("reason", "invalid id"))
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Warn("failed to get user", zap.Uint32("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &GetUserResponse{User: toDTO(*u)}, nil
}

// ListUsers retrieves a paginated list of users with optional search functionality.
func (uc *Usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}

	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		return nil, err
	}

	log.Info("listing users", zap.String("query", query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	domainUsers, total, err := uc.repo.List(ctx, query, in.Page, in.Limit)
	if err != nil {
		log.Error("failed to list users", zap.String("query", query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit), zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}

	p := domain.NewPagination(total, in.Page, in.Limit)
	return &ListUsersResponse{
		Users: users,
		Pagination: &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}, nil
}

// ImportUsers decodes a JSON array of users and creates them in order.
// The whole batch is checked before anything is written, and the writes
// happen in one transaction: either every user is created or none is.
func (uc *Usecase) ImportUsers(ctx context.Context, data []byte) (*ImportUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	users, err := domain.UnmarshalList(data)
	if err != nil {
		log.Warn("failed to decode import payload", zap.Error(err))
		return nil, err
	}

	log.Info("importing users", zap.Int("count", len(users)))

	emails := make(map[string]int, len(users))
	ids := make(map[uint32]int, len(users))
	for i, u := range users {
		if err := uc.validate.Struct(CreateUserRequest{ID: u.ID, Name: u.Name, Email: u.Email}); err != nil {
			return nil, fmt.Errorf("user %d: %w", i, formatValidationError(err))
		}
		if err := checkEmailShape(u.Email); err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}

		// Zero IDs are assigned by the store.
		if u.ID != 0 {
			if j, dup := ids[u.ID]; dup {
				return nil, apperrors.NewValidationError("id", fmt.Sprintf("users %d and %d share id %d", j, i, u.ID))
			}
			ids[u.ID] = i
			if err := uc.ensureIDFree(ctx, u.ID); err != nil {
				return nil, fmt.Errorf("user %d: %w", i, err)
			}
		}

		if j, dup := emails[u.Email]; dup {
			return nil, apperrors.NewValidationError("email", fmt.Sprintf("users %d and %d share email %s", j, i, u.Email))
		}
		emails[u.Email] = i
		if err := uc.ensureEmailFree(ctx, u.Email, 0); err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
	}

	created, err := uc.repo.CreateMany(ctx, users)
	if err != nil {
		log.Error("import rolled back", zap.Int("count", len(users)), zap.Error(err))
		return nil, err
	}

	return &ImportUsersResponse{IDs: created}, nil
}

// ensureIDFree fails with AlreadyExistsError when a user with id is stored.
func (uc *Usecase) ensureIDFree(ctx context.Context, id uint32) error {
	_, err := uc.repo.GetByID(ctx, id)

	var notFound *apperrors.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return nil
	case err != nil:
		logger.WithContext(ctx, uc.log).Error("failed to check existing id", zap.Uint32("id", id), zap.Error(err))
		return apperrors.NewInternalError("failed to validate id uniqueness", err)
	default:
		return apperrors.NewAlreadyExistsError("user", fmt.Sprintf("user with id %d already exists", id))
	}
}

// ExportUsers returns every user as a JSON array ordered by ID.
func (uc *Usecase) ExportUsers(ctx context.Context) ([]byte, error) {
	log := logger.WithContext(ctx, uc.log)

	users, err := uc.repo.ListAll(ctx)
	if err != nil {
		log.Error("failed to export users", zap.Error(err))
		return nil, err
	}

	log.Info("exporting users", zap.Int("count", len(users)))
	return domain.MarshalList(users)
}

// CheckEmail applies the email shape heuristic without touching the store.
func (uc *Usecase) CheckEmail(ctx context.Context, email string) *CheckEmailResponse {
	valid := domain.New(0, "", email).IsValidEmail()
	logger.WithContext(ctx, uc.log).Debug("checked email", zap.String("email", email), zap.Bool("valid", valid))
	return &CheckEmailResponse{Email: email, Valid: valid}
}
