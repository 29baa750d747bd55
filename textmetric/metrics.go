// Package textmetric computes the character, word and byte counts shown by
// the character counter.
package textmetric

import "toolstation/jstext"

// Policy selects how characters above U+07FF are charged when estimating
// byte length.
type Policy int

const (
	// TwoByte caps every character at 2 bytes.
	TwoByte Policy = iota
	// ThreeByte charges 3 bytes above U+07FF, close to UTF-8 for the BMP.
	ThreeByte
)

// Metrics is the result of Compute. All fields are >= 0.
type Metrics struct {
	CharsWithSpace int `json:"charsWithSpace"`
	CharsNoSpace   int `json:"charsNoSpace"`
	Words          int `json:"words"`
	Bytes2         int `json:"bytes2"`
	Bytes3         int `json:"bytes3"`
}

// Compute measures s. Lengths are in UTF-16 code units, so a character
// outside the BMP counts twice and each of its surrogate halves is charged
// as a character above U+07FF.
func Compute(s string) Metrics {
	var m Metrics
	for _, r := range s {
		units := jstext.UnitLen(r)
		m.CharsWithSpace += units
		if !jstext.IsSpace(r) {
			m.CharsNoSpace += units
		}
		m.Bytes2 += units * unitBytes(r, TwoByte)
		m.Bytes3 += units * unitBytes(r, ThreeByte)
	}
	m.Words = jstext.Fields(s)
	return m
}

// ByteLength estimates the encoded size of s under p.
func ByteLength(s string, p Policy) int {
	n := 0
	for _, r := range s {
		n += jstext.UnitLen(r) * unitBytes(r, p)
	}
	return n
}

// unitBytes is the charge for one code unit of r. Surrogate halves are
// always above 0x7FF, so a supplementary character is charged per half.
func unitBytes(r rune, p Policy) int {
	if r > 0xffff {
		r = 0xd800
	}
	switch {
	case r <= 0x7f:
		return 1
	case r <= 0x7ff:
		return 2
	case p == ThreeByte:
		return 3
	default:
		return 2
	}
}
