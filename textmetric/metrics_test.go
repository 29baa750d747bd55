package textmetric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toolstation/textmetric"
)

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, textmetric.Metrics{}, textmetric.Compute(""))
}

func TestComputeASCII(t *testing.T) {
	got := textmetric.Compute("Hi there")
	want := textmetric.Metrics{CharsWithSpace: 8, CharsNoSpace: 7, Words: 2, Bytes2: 8, Bytes3: 8}
	assert.Equal(t, want, got)
}

func TestComputeHangul(t *testing.T) {
	got := textmetric.Compute("안녕")
	assert.Equal(t, 2, got.CharsWithSpace)
	assert.Equal(t, 2, got.CharsNoSpace)
	assert.Equal(t, 1, got.Words)
	assert.Equal(t, 4, got.Bytes2)
	assert.Equal(t, 6, got.Bytes3)
}

func TestComputeTwoByteRange(t *testing.T) {
	// é is U+00E9, inside the 2-byte band under both policies.
	got := textmetric.Compute("é")
	assert.Equal(t, 2, got.Bytes2)
	assert.Equal(t, 2, got.Bytes3)
}

func TestComputeSupplementaryPlane(t *testing.T) {
	got := textmetric.Compute("😀")
	assert.Equal(t, 2, got.CharsWithSpace)
	assert.Equal(t, 4, got.Bytes2)
	assert.Equal(t, 6, got.Bytes3)
}

func TestComputeWhitespaceOnly(t *testing.T) {
	got := textmetric.Compute(" \t\n\u3000 ")
	assert.Equal(t, 5, got.CharsWithSpace)
	assert.Equal(t, 0, got.CharsNoSpace)
	assert.Equal(t, 0, got.Words)
}

func TestComputeWords(t *testing.T) {
	cases := map[string]int{
		"one":                      1,
		"  leading and trailing  ": 3,
		"tab\tseparated\nlines":    3,
		"no\u00a0break":            2,
		"punctuation, counts!":     2,
	}
	for in, want := range cases {
		assert.Equal(t, want, textmetric.Compute(in).Words, "input %q", in)
	}
}

func TestByteLength(t *testing.T) {
	s := "a안"
	assert.Equal(t, 3, textmetric.ByteLength(s, textmetric.TwoByte))
	assert.Equal(t, 4, textmetric.ByteLength(s, textmetric.ThreeByte))
}
