package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "desktop-core-service/pkg/errors"
)

// wireUser mirrors User with pointer fields so that absent keys can be told
// apart from zero values.
type wireUser struct {
	ID    *uint32 `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Marshal serializes u to JSON text.
func Marshal(u User) ([]byte, error) {
	return json.Marshal(u)
}

// Unmarshal decodes a single user from JSON text. Every field must be present
// and of the right type; unknown fields are ignored. Failures are returned as
// *errors.ParseError.
func Unmarshal(data []byte) (User, error) {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return User{}, toParseError(data, err)
	}
	return w.toUser(data)
}

// MarshalList serializes users to a JSON array, preserving order.
func MarshalList(users []User) ([]byte, error) {
	if users == nil {
		users = []User{}
	}
	return json.Marshal(users)
}

// UnmarshalList decodes a JSON array of users. The first malformed element
// fails the whole list.
func UnmarshalList(data []byte) ([]User, error) {
	var ws []wireUser
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, toParseError(data, err)
	}

	users := make([]User, 0, len(ws))
	for i, w := range ws {
		u, err := w.toUser(data)
		if err != nil {
			var pe *apperrors.ParseError
			if errors.As(err, &pe) {
				pe.Field = fmt.Sprintf("[%d].%s", i, pe.Field)
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (w wireUser) toUser(data []byte) (User, error) {
	switch {
	case w.ID == nil:
		return User{}, apperrors.NewParseError(string(data), "id", errors.New("missing field"))
	case w.Name == nil:
		return User{}, apperrors.NewParseError(string(data), "name", errors.New("missing field"))
	case w.Email == nil:
		return User{}, apperrors.NewParseError(string(data), "email", errors.New("missing field"))
	}
	return New(*w.ID, *w.Name, *w.Email), nil
}

// toParseError keeps the offending field name when the decoder reports a type mismatch.
func toParseError(data []byte, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewParseError(string(bytes.TrimSpace(data)), typeErr.Field, err)
	}
	return apperrors.NewParseError(string(bytes.TrimSpace(data)), "", err)
}
