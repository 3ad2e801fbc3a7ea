package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "desktop-core-service/pkg/errors"
	"desktop-core-service/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// respondError maps application errors to HTTP statuses. Anything unrecognised
// is logged and reported as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		validation *apperrors.ValidationError
		parse      *apperrors.ParseError
		notFound   *apperrors.NotFoundError
		exists     *apperrors.AlreadyExistsError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error(), Field: validation.Field})
	case errors.As(err, &parse):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "parse_error", Message: err.Error(), Field: parse.Field})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.As(err, &exists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already_exists", Message: err.Error()})
	default:
		logger.WithContext(c.Request.Context(), log).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"})
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: message})
}

// userID parses the :id path parameter.
func userID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid_id", "User ID must be a valid number")
		return 0, false
	}
	return uint32(id), true
}

// readBody reads the request body, rejecting it with a validation error once
// it grows past limit bytes. The remainder is never buffered.
func readBody(c *gin.Context, log *zap.Logger, limit int) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(limit))
	body, err := io.ReadAll(c.Request.Body)

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(c, log, apperrors.NewValidationError("body", fmt.Sprintf("input exceeds %d bytes", limit)))
		return nil, false
	case err != nil:
		badRequest(c, "invalid_body", err.Error())
		return nil, false
	}
	return body, true
}
