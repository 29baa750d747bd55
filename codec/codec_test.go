package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstation/codec"
	"toolstation/toolerr"
)

func TestEncode(t *testing.T) {
	got, err := codec.Encode("Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8sIFdvcmxkIQ==", got)
}

func TestEncodeLatin1(t *testing.T) {
	got, err := codec.Encode("café")
	require.NoError(t, err)
	assert.Equal(t, "Y2Fm6Q==", got)
}

func TestEncodeOutOfRange(t *testing.T) {
	_, err := codec.Encode("안녕")
	assert.ErrorIs(t, err, toolerr.ErrOutOfRange)
}

func TestEmptyIsSilent(t *testing.T) {
	enc, err := codec.Encode("")
	require.NoError(t, err)
	assert.Empty(t, enc)
	dec, err := codec.Decode("")
	require.NoError(t, err)
	assert.Empty(t, dec)
}

func TestDecodeLenient(t *testing.T) {
	cases := map[string]string{
		"SGk=":       "Hi",
		"SGk":        "Hi",
		" S G k = ":  "Hi",
		"SGVsbG8=\n": "Hello",
		"Y2Fm6Q==":   "café",
	}
	for in, want := range cases {
		got, err := codec.Decode(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{"not-valid-base64!!", "abcde", "SG=k", "SGk==="} {
		_, err := codec.Decode(in)
		assert.ErrorIs(t, err, toolerr.ErrInvalidEncoding, "input %q", in)
	}
}

func TestRoundTrip(t *testing.T) {
	var all []rune
	for r := rune(0); r <= 0xff; r++ {
		all = append(all, r)
	}
	inputs := []string{"a", "ab", "abc", "line\nbreak", "ÿþý", string(all)}
	for _, s := range inputs {
		enc, err := codec.Encode(s)
		require.NoError(t, err)
		dec, err := codec.Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	}
}

func TestBufferSwap(t *testing.T) {
	var b codec.Buffer
	b.Set("toolstation")
	require.NoError(t, b.Err)
	assert.Equal(t, "dG9vbHN0YXRpb24=", b.Output)

	b.Swap()
	assert.Equal(t, codec.ModeDecode, b.Mode)
	assert.Equal(t, "dG9vbHN0YXRpb24=", b.Input)
	assert.Equal(t, "toolstation", b.Output)
}

func TestBufferErrorPlaceholder(t *testing.T) {
	b := codec.Buffer{Mode: codec.ModeDecode}
	b.Set("not-valid-base64!!")
	assert.ErrorIs(t, b.Err, toolerr.ErrInvalidEncoding)
	assert.Equal(t, codec.InvalidInputText, b.Output)

	b = codec.Buffer{}
	b.Set("😀")
	assert.ErrorIs(t, b.Err, toolerr.ErrOutOfRange)
	assert.Equal(t, codec.OutOfRangeText, b.Output)
}

func TestParseMode(t *testing.T) {
	m, err := codec.ParseMode("decode")
	require.NoError(t, err)
	assert.Equal(t, codec.ModeDecode, m)
	_, err = codec.ParseMode("rot13")
	assert.ErrorIs(t, err, toolerr.ErrInvalidOption)
}
