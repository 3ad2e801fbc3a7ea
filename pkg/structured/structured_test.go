package structured

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "desktop-core-service/pkg/errors"
)

func TestParse_Valid(t *testing.T) {
	v, err := Parse(`{"name": "test", "value": 42}`)
	require.NoError(t, err)

	name, ok := Field(v, "name")
	require.True(t, ok)
	s, ok := name.Text()
	require.True(t, ok)
	assert.Equal(t, "test", s)

	value, ok := Field(v, "value")
	require.True(t, ok)
	n, ok := value.Number()
	require.True(t, ok)
	assert.Equal(t, json.Number("42"), n)
}

func TestParse_Truncated(t *testing.T) {
	v, err := Parse(`{"name": "test", "value": 42`)
	assert.Nil(t, v)

	var pe *apperrors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, pe.Field)
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		"[1, 2",
		`{"a": }`,
		"not json",
		`{'single': 'quotes'}`,
		`{"a": 1} {"b": 2}`,
		`1 2`,
		`{"a": 1}x`,
	}

	for _, in := range inputs {
		_, err := Parse(in)
		var pe *apperrors.ParseError
		assert.ErrorAs(t, err, &pe, "input %q", in)
	}
}

func TestParse_AllKinds(t *testing.T) {
	v, err := Parse(`{
		"string": "hello",
		"number": 42,
		"boolean": true,
		"nothing": null,
		"array": [1, 2, 3],
		"object": {"nested": "value"}
	}`)
	require.NoError(t, err)

	want := map[string]any{
		"string":  "hello",
		"number":  json.Number("42"),
		"boolean": true,
		"nothing": nil,
		"array":   []any{json.Number("1"), json.Number("2"), json.Number("3")},
		"object":  map[string]any{"nested": "value"},
	}
	if diff := cmp.Diff(want, v.raw); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TopLevelScalars(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"null", "null"},
		{"true", "boolean"},
		{"3.5", "number"},
		{`"text"`, "string"},
		{"[]", "array"},
		{"{}", "object"},
		{" 7 \n", "number"},
	}

	for _, tt := range tests {
		v, err := Parse(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.kind, Kind(v))
	}
	assert.Equal(t, "unknown", Kind(nil))
}

func TestParse_LargeIntegersExact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"above 2^53", `{"value": 9007199254740993}`, `{"value":9007199254740993}`},
		{"max uint64", `{"id": 18446744073709551615}`, `{"id":18446744073709551615}`},
		{"min int64", `[-9223372036854775808]`, `[-9223372036854775808]`},
		{"fraction", `{"x": 1.50}`, `{"x":1.50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)

			out, err := Encode(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParse_MaxUint64Field(t *testing.T) {
	v, err := Parse(`{"id": 18446744073709551615}`)
	require.NoError(t, err)

	id, ok := Field(v, "id")
	require.True(t, ok)
	n, ok := id.Number()
	require.True(t, ok)

	got, err := strconv.ParseUint(n.String(), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	v, err := Parse(`{"a": 1, "a": 2}`)
	require.NoError(t, err)

	a, ok := Field(v, "a")
	require.True(t, ok)
	n, _ := a.Number()
	assert.Equal(t, json.Number("2"), n)

	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, out)
}

func TestField_NotObject(t *testing.T) {
	v, err := Parse("[1]")
	require.NoError(t, err)

	_, ok := Field(v, "value")
	assert.False(t, ok)

	_, ok = Field(nil, "value")
	assert.False(t, ok)
}

func TestIndex(t *testing.T) {
	v, err := Parse(`[true, "x"]`)
	require.NoError(t, err)

	first, ok := Index(v, 0)
	require.True(t, ok)
	b, ok := first.Bool()
	require.True(t, ok)
	assert.True(t, b)

	_, ok = Index(v, 2)
	assert.False(t, ok)
	_, ok = Index(v, -1)
	assert.False(t, ok)
}

func TestEncode_RoundTrip(t *testing.T) {
	v, err := Parse(`{"users": [{"id": 1, "name": "Alice"}], "metadata": {"total_count": 2, "version": "1.0"}}`)
	require.NoError(t, err)

	text, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `{"metadata":{"total_count":2,"version":"1.0"},"users":[{"id":1,"name":"Alice"}]}`, text)

	back, err := Parse(text)
	require.NoError(t, err)

	if diff := cmp.Diff(v.raw, back.raw); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	v, err := Parse(`"<a & b>"`)
	require.NoError(t, err)

	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, out)
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}
