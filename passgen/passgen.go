// Package passgen generates random passwords from a configurable charset.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"toolstation/toolerr"
)

const (
	MinLength     = 4
	MaxLength     = 64
	DefaultLength = 16
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+~`|}{[]:;?><,./-="
	similar   = "il1Lo0O"
)

// ErrInvalidLength is returned for a Length outside [MinLength, MaxLength].
var ErrInvalidLength = fmt.Errorf("%w: password length must be %d-%d", toolerr.ErrInvalidOption, MinLength, MaxLength)

type Options struct {
	Length         int  `json:"length"`
	Uppercase      bool `json:"uppercase"`
	Lowercase      bool `json:"lowercase"`
	Numbers        bool `json:"numbers"`
	Symbols        bool `json:"symbols"`
	ExcludeSimilar bool `json:"excludeSimilar"`
}

// DefaultOptions enables every character class at DefaultLength.
func DefaultOptions() Options {
	return Options{
		Length:    DefaultLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Charset returns the characters a password may be drawn from.
func (o Options) Charset() string {
	var b strings.Builder
	if o.Lowercase {
		b.WriteString(lowercase)
	}
	if o.Uppercase {
		b.WriteString(uppercase)
	}
	if o.Numbers {
		b.WriteString(digits)
	}
	if o.Symbols {
		b.WriteString(symbols)
	}
	cs := b.String()
	if o.ExcludeSimilar {
		cs = strings.Map(func(r rune) rune {
			if strings.ContainsRune(similar, r) {
				return -1
			}
			return r
		}, cs)
	}
	return cs
}

// Generate draws Length characters uniformly from the charset. An empty
// charset yields an empty password.
func Generate(o Options) (string, error) {
	if o.Length < MinLength || o.Length > MaxLength {
		return "", ErrInvalidLength
	}
	cs := o.Charset()
	if cs == "" {
		return "", nil
	}

	n := big.NewInt(int64(len(cs)))
	out := make([]byte, o.Length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = cs[idx.Int64()]
	}
	return string(out), nil
}
