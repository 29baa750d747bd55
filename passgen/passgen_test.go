package passgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstation/toolerr"
)

func TestGenerateDefault(t *testing.T) {
	o := DefaultOptions()
	pw, err := Generate(o)
	require.NoError(t, err)
	assert.Len(t, pw, DefaultLength)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(o.Charset(), r), "unexpected %q", r)
	}
}

func TestGenerateLengthBounds(t *testing.T) {
	o := DefaultOptions()
	for _, n := range []int{MinLength, MaxLength} {
		o.Length = n
		pw, err := Generate(o)
		require.NoError(t, err)
		assert.Len(t, pw, n)
	}
	for _, n := range []int{0, MinLength - 1, MaxLength + 1} {
		o.Length = n
		_, err := Generate(o)
		assert.ErrorIs(t, err, ErrInvalidLength)
		assert.True(t, toolerr.IsUserError(err))
	}
}

func TestCharset(t *testing.T) {
	tests := map[string]struct {
		opts Options
		want string
	}{
		"digits only":            {Options{Numbers: true}, "0123456789"},
		"digits without similar": {Options{Numbers: true, ExcludeSimilar: true}, "23456789"},
		"order": {
			Options{Lowercase: true, Uppercase: true, Numbers: true, Symbols: true},
			lowercase + uppercase + digits + symbols,
		},
		"none": {Options{}, ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Charset())
		})
	}
}

func TestExcludeSimilar(t *testing.T) {
	o := DefaultOptions()
	o.ExcludeSimilar = true
	o.Length = MaxLength
	assert.NotContainsf(t, o.Charset(), "l", "charset")
	for i := 0; i < 20; i++ {
		pw, err := Generate(o)
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(pw, similar), pw)
	}
}

func TestEmptyCharset(t *testing.T) {
	pw, err := Generate(Options{Length: 12})
	require.NoError(t, err)
	assert.Empty(t, pw)
}
