// Package codec converts text to and from Base64 with the semantics of the
// browser's btoa/atob pair: strings are treated as Latin-1, one byte per
// character.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	"toolstation/toolerr"
)

// Encode returns the Base64 form of s. Every character must be in
// U+0000..U+00FF; anything else fails with toolerr.ErrOutOfRange.
func Encode(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	raw := make([]byte, 0, len(s))
	for i, r := range s {
		if r > 0xff {
			return "", fmt.Errorf("%w: %q at offset %d", toolerr.ErrOutOfRange, r, i)
		}
		raw = append(raw, byte(r))
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. It is as lenient as atob: ASCII whitespace is
// ignored, padding may be omitted and unused trailing bits may be set.
// Malformed input fails with toolerr.ErrInvalidEncoding.
func Decode(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	if len(clean)%4 == 0 {
		clean = strings.TrimSuffix(clean, "=")
		clean = strings.TrimSuffix(clean, "=")
	}
	if len(clean)%4 == 1 || strings.ContainsRune(clean, '=') {
		return "", toolerr.ErrInvalidEncoding
	}
	raw, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil {
		return "", fmt.Errorf("%w: %v", toolerr.ErrInvalidEncoding, err)
	}
	return latin1(raw), nil
}

func latin1(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}
