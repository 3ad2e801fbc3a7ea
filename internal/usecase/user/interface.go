package user

import "context"

// Service defines the user business logic operations used by the transports.
type Service interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	ImportUsers(ctx context.Context, data []byte) (*ImportUsersResponse, error)
	ExportUsers(ctx context.Context) ([]byte, error)
	CheckEmail(ctx context.Context, email string) *CheckEmailResponse
}
