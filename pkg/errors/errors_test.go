package errors

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")

	t.Run("syntax error", func(t *testing.T) {
		err := NewParseError(`{"name": "test"`, "", cause)
		assert.Equal(t, "parse failed: unexpected EOF", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("field error", func(t *testing.T) {
		err := NewParseError(`{"id": "x"}`, "id", cause)
		assert.Equal(t, "parse failed: field id: unexpected EOF", err.Error())
	})

	t.Run("long input is truncated", func(t *testing.T) {
		err := NewParseError(strings.Repeat("a", 200), "", cause)
		assert.Len(t, err.Input, 64+len("..."))
		assert.True(t, strings.HasSuffix(err.Input, "..."))
	})

	t.Run("truncation keeps whole runes", func(t *testing.T) {
		// 63 ASCII bytes put the 64-byte cut inside the two-byte "é".
		input := strings.Repeat("a", 63) + strings.Repeat("é", 10)
		err := NewParseError(input, "", cause)
		assert.True(t, utf8.ValidString(err.Input))
		assert.Equal(t, strings.Repeat("a", 63)+"...", err.Input)
	})

	t.Run("matches with errors.As through wrapping", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), NewParseError("x", "", cause))
		var pe *ParseError
		require.ErrorAs(t, wrapped, &pe)
		assert.Equal(t, "x", pe.Input)
	})
}

func TestGRPCStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"parse", NewParseError("", "", errors.New("bad")), codes.InvalidArgument},
		{"validation", NewValidationError("n", "too large"), codes.InvalidArgument},
		{"not found", NewNotFoundError("user", ""), codes.NotFound},
		{"already exists", NewAlreadyExistsError("user", ""), codes.AlreadyExists},
		{"internal", NewInternalError("boom", errors.New("db down")), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed: n - too large", NewValidationError("n", "too large").Error())
	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())
	assert.Equal(t, "user already exists", NewAlreadyExistsError("user", "").Error())
	assert.Equal(t, "boom: db down", NewInternalError("boom", errors.New("db down")).Error())
	assert.Equal(t, "boom", NewInternalError("boom", nil).Error())
}
