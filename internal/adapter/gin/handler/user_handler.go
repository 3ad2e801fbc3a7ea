package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"desktop-core-service/internal/usecase/user"
	"desktop-core-service/pkg/logger"
)

// MaxImportBytes bounds the body of POST /v1/users/import.
const MaxImportBytes = 8 << 20

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	svc            user.Service
	log            *zap.Logger
	maxImportBytes int
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log, maxImportBytes: MaxImportBytes}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Field rules are enforced by the usecase.
type CreateUserRequest struct {
	ID    uint32 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest represents the HTTP request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckEmailRequest is the body of POST /v1/users/validate-email
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    uint32 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

func toResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}

	resp, err := h.svc.CreateUser(c.Request.Context(), user.CreateUserRequest(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": resp.ID})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(resp.User))
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}

	resp, err := h.svc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	resp, err := h.svc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": resp.ID})
}

// ListUsers handles GET /v1/users. Bad paging values fall back to defaults.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	resp, err := h.svc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Query: c.Query("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	out := ListUsersResponse{Users: users}
	if p := resp.Pagination; p != nil {
		out.Pagination = &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		}
	}
	c.JSON(http.StatusOK, out)
}

// ImportUsers handles POST /v1/users/import with a JSON array body
func (h *UserHandler) ImportUsers(c *gin.Context) {
	body, ok := readBody(c, h.log, h.maxImportBytes)
	if !ok {
		return
	}

	resp, err := h.svc.ImportUsers(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("users imported", zap.Int("count", len(resp.IDs)))
	c.JSON(http.StatusCreated, gin.H{"ids": resp.IDs})
}

// ExportUsers handles GET /v1/users/export
func (h *UserHandler) ExportUsers(c *gin.Context) {
	data, err := h.svc.ExportUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="users.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// CheckEmail handles POST /v1/users/validate-email
func (h *UserHandler) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}

	resp := h.svc.CheckEmail(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"email": resp.Email, "valid": resp.Valid})
}
