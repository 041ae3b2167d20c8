package stockcode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"233", false},
		{"2330", true},
		{"00878", true},
		{"006208", true},
		{"1234567", false},
		{"", false},
		{"abc", false},
		{"23a0", false},
		{"2330 ", false},
		{" 2330", false},
		{"-2330", false},
		{"23.30", false},
		{"２３３０", false},
		{"2330\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValid(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "2330", Normalize(" 2330 "))
	assert.Equal(t, "2330", Normalize("\t2330\n"))
	assert.Equal(t, "２３３０", Normalize("　２３３０　"))
	assert.Equal(t, "", Normalize("   "))
}

func TestParseRejectsFullWidthDigits(t *testing.T) {
	_, err := Parse("２３３０")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		input string
		code  Code
		ok    bool
	}{
		{"２３３０", "2330", true},
		{" ６４８８ ", "6488", true},
		{"23３0", "2330", true},
		{"2330", "", false},
		{"abc", "", false},
		{"２３", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, ok := Suggest(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestParseTrimsBeforeValidating(t *testing.T) {
	code, err := Parse(" 2330 ")
	require.NoError(t, err)
	assert.Equal(t, Code("2330"), code)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	var fe *InvalidFormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "abc", fe.Input)
	assert.Equal(t, InvalidCodeMessage, fe.Reason())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("12") })
	assert.Equal(t, Code("6488"), MustParse("6488"))
}
