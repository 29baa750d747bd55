// Package format re-lays out structured text: JSON through a real parser,
// SQL through a fixed series of keyword substitutions.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"toolstation/jstext"
	"toolstation/toolerr"
)

// Indent widths offered by the JSON formatter.
const (
	Indent2 = 2
	Indent4 = 4
)

type object = orderedmap.OrderedMap[string, any]

// JSON parses s and prints it back with indent spaces per level. Output
// follows JSON.stringify: keys keep their first-seen position (a repeated
// key keeps the last value), numbers print in their shortest form and only
// quotes, backslashes and control characters are escaped.
func JSON(s string, indent int) (string, error) {
	if indent != Indent2 && indent != Indent4 {
		return "", fmt.Errorf("%w: indent must be 2 or 4, got %d", toolerr.ErrInvalidOption, indent)
	}
	if jstext.IsBlank(s) {
		return "", toolerr.ErrEmptyInput
	}
	// Unmarshal gives the parser's own message for malformed input; the
	// token walk below assumes the document is valid.
	var probe any
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return "", &toolerr.ParseError{Msg: err.Error()}
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return "", &toolerr.ParseError{Msg: err.Error()}
	}

	var b strings.Builder
	writeValue(&b, v, strings.Repeat(" ", indent), 0)
	return b.String(), nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := orderedmap.New[string, any]()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			val, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func writeValue(b *strings.Builder, v any, indent string, depth int) {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case json.Number:
		b.WriteString(formatNumber(v.String()))
	case string:
		writeString(b, v)
	case []any:
		if len(v) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			writeValue(b, item, indent, depth+1)
		}
		newline(b, indent, depth)
		b.WriteByte(']')
	case *object:
		if v.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		first := v.Oldest()
		for pair := first; pair != nil; pair = pair.Next() {
			if pair != first {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			writeString(b, pair.Key)
			b.WriteString(": ")
			writeValue(b, pair.Value, indent, depth+1)
		}
		newline(b, indent, depth)
		b.WriteByte('}')
	}
}

func newline(b *strings.Builder, indent string, depth int) {
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
}

const hexDigits = "0123456789abcdef"

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// formatNumber renders a JSON number literal the way Number.prototype.toString
// does after a round trip through float64. Values beyond float64 become null.
func formatNumber(lit string) string {
	// Underflow reports ErrRange with a zero value, which JS also yields.
	f, _ := strconv.ParseFloat(lit, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
