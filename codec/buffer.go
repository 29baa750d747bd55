package codec

import (
	"errors"
	"fmt"

	"toolstation/toolerr"
)

// Mode is the direction a Buffer converts in.
type Mode int

const (
	ModeEncode Mode = iota
	ModeDecode
)

func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "encode" or "decode" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "encode", "":
		return ModeEncode, nil
	case "decode":
		return ModeDecode, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", toolerr.ErrInvalidOption, s)
}

// Placeholders shown in Output when conversion fails.
const (
	InvalidInputText = "Error: Invalid Base64"
	OutOfRangeText   = "Error: Character out of range"
)

// Buffer is the two-pane state of the Base64 tool. Output is always derived
// from Input under Mode.
type Buffer struct {
	Mode   Mode
	Input  string
	Output string
	Err    error
}

// Set replaces the input and recomputes the output. On failure Output holds
// a placeholder and Err the condition.
func (b *Buffer) Set(input string) {
	b.Input = input
	var out string
	var err error
	if b.Mode == ModeDecode {
		out, err = Decode(input)
	} else {
		out, err = Encode(input)
	}
	b.Err = err
	switch {
	case err == nil:
		b.Output = out
	case errors.Is(err, toolerr.ErrOutOfRange):
		b.Output = OutOfRangeText
	default:
		b.Output = InvalidInputText
	}
}

// Swap flips the mode and feeds the current output back in as input.
func (b *Buffer) Swap() {
	if b.Mode == ModeEncode {
		b.Mode = ModeDecode
	} else {
		b.Mode = ModeEncode
	}
	b.Set(b.Output)
}

// Convert runs a single conversion in mode m.
func Convert(s string, m Mode) (string, error) {
	switch m {
	case ModeEncode:
		return Encode(s)
	case ModeDecode:
		return Decode(s)
	}
	return "", fmt.Errorf("%w: unknown mode %v", toolerr.ErrInvalidOption, m)
}
