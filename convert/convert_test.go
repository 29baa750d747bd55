package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstation/convert"
	"toolstation/toolerr"
)

func mustConvert(t *testing.T, s string, k convert.Kind) string {
	t.Helper()
	out, err := convert.Convert(s, k)
	require.NoError(t, err)
	return out
}

func TestConvertEmptyInput(t *testing.T) {
	for _, k := range convert.Kinds() {
		for _, in := range []string{"", "   ", "\n\t\u3000"} {
			_, err := convert.Convert(in, k)
			assert.ErrorIs(t, err, toolerr.ErrEmptyInput, "kind %v input %q", k, in)
		}
	}
}

func TestUpperLower(t *testing.T) {
	assert.Equal(t, "MIXEDCASE", mustConvert(t, mustConvert(t, "MixedCase", convert.Lower), convert.Upper))
	assert.Equal(t, "mixedcase", mustConvert(t, "MixedCase", convert.Lower))

	once := mustConvert(t, "Hello, World", convert.Upper)
	assert.Equal(t, once, mustConvert(t, once, convert.Upper))
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"hello world":         "Hello World",
		"hELLO wORLD":         "Hello World",
		"two  spaces":         "Two  Spaces",
		"don't-stop me":       "Don't-stop Me",
		"already Capitalized": "Already Capitalized",
	}
	for in, want := range cases {
		assert.Equal(t, want, mustConvert(t, in, convert.Capitalize), "input %q", in)
	}
}

func TestCamel(t *testing.T) {
	cases := map[string]string{
		"hello_world example": "helloWorldExample",
		"Hello-World":         "helloWorld",
		"foo   bar--baz":      "fooBarBaz",
		"version 2 release":   "version2Release",
		"__leading":           "leading",
		"trailing_":           "trailing_",
	}
	for in, want := range cases {
		assert.Equal(t, want, mustConvert(t, in, convert.Camel), "input %q", in)
	}
}

func TestSnake(t *testing.T) {
	cases := map[string]string{
		"helloWorld123":  "hello_world123",
		"HelloWorld":     "hello_world",
		"XMLHttpRequest": "xml_http_request",
		"getHTTP":        "get_http",
		"hello world":    "hello_world",
		"a1b2":           "a1_b2",
	}
	for in, want := range cases {
		assert.Equal(t, want, mustConvert(t, in, convert.Snake), "input %q", in)
	}
}

func TestSnakeNoTokens(t *testing.T) {
	assert.Equal(t, "", mustConvert(t, "!!! ???", convert.Snake))
}

func TestParseKind(t *testing.T) {
	for _, k := range convert.Kinds() {
		got, err := convert.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := convert.ParseKind("kebab")
	assert.ErrorIs(t, err, toolerr.ErrInvalidOption)
}

func TestConvertUnknownKind(t *testing.T) {
	_, err := convert.Convert("text", convert.Kind(42))
	assert.ErrorIs(t, err, toolerr.ErrInvalidOption)
}
