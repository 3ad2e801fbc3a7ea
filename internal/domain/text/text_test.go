package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUppercase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lower", "hello", "HELLO"},
		{"already upper", "WORLD", "WORLD"},
		{"empty", "", ""},
		{"mixed with space", "Hello World", "HELLO WORLD"},
		{"non ascii", "ünïcode", "ÜNÏCODE"},
		{"sharp s expands", "straße", "STRASSE"},
		{"ligature expands", "ﬁle", "FILE"},
		{"digits and symbols", "abc-123_x@y.z", "ABC-123_X@Y.Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Uppercase(tt.input))
		})
	}
}

func TestUppercase_Idempotent(t *testing.T) {
	inputs := []string{"", "a", "Hello World", "ǆ ǅ Ǆ", "ﬁ", "ß", "σς", "日本語"}
	for _, s := range inputs {
		once := Uppercase(s)
		assert.Equal(t, once, Uppercase(once), "input %q", s)
	}
}

func TestGreet(t *testing.T) {
	assert.Equal(t, "Hello, World!", Greet("World"))
	assert.Equal(t, "Hello, Gopher!", Greet("Gopher"))
	assert.Equal(t, "Hello, !", Greet(""))
}
