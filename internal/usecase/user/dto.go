package user

// CreateUserRequest represents the request payload for creating a new user.
// A zero ID lets the store assign one.
type CreateUserRequest struct {
	ID    uint32
	Name  string `validate:"max=100"`
	Email string `validate:"required,max=254"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID uint32
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Empty fields are left unchanged.
type UpdateUserRequest struct {
	ID    uint32 `validate:"required"`
	Name  string `validate:"omitempty,max=100"`
	Email string `validate:"omitempty,max=254"`
}

// UpdateUserResponse represents the response payload after updating a user.
type UpdateUserResponse struct {
	ID uint32
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID uint32
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID uint32
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID uint32
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User User
}

// ListUsersRequest represents the request payload for listing users.
// It supports pagination and search functionality.
type ListUsersRequest struct {
	Query string
	Page  int64
	Limit int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []User
	Pagination *Pagination
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// ImportUsersResponse lists the IDs created by an import, in input order.
type ImportUsersResponse struct {
	IDs []uint32
}

// CheckEmailResponse reports the result of the email shape heuristic.
type CheckEmailResponse struct {
	Email string
	Valid bool
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    uint32
	Name  string
	Email string
}
