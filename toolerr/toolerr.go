// Package toolerr holds the conditions the text tools report to callers.
// None of them are fatal: every one is meant to be shown to the user.
package toolerr

import "errors"

var (
	ErrEmptyInput      = errors.New("no input text")
	ErrInvalidEncoding = errors.New("invalid Base64 input")
	ErrOutOfRange      = errors.New("character out of encodable range")
	ErrInvalidOption   = errors.New("invalid option")
)

// ParseError carries a parser message through unchanged.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// IsUserError reports whether err is one of the conditions above, as opposed
// to an internal failure.
func IsUserError(err error) bool {
	var pe *ParseError
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.As(err, &pe)
}
