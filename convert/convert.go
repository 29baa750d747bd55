// Package convert rewrites text into one of the case styles offered by the
// case converter.
package convert

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"toolstation/jstext"
	"toolstation/toolerr"
)

// Kind names a conversion.
type Kind int

const (
	Upper Kind = iota
	Lower
	Capitalize
	Camel
	Snake
)

var kindNames = [...]string{
	Upper:      "upper",
	Lower:      "lower",
	Capitalize: "capitalize",
	Camel:      "camel",
	Snake:      "snake",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a wire name such as "camel" to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown conversion %q", toolerr.ErrInvalidOption, name)
}

// Kinds lists every conversion in display order.
func Kinds() []Kind {
	return []Kind{Upper, Lower, Capitalize, Camel, Snake}
}

// camelSep matches a run of ASCII non-alphanumerics and the character after
// it. The trailing group excludes line terminators, like "." in a JS regexp.
var camelSep = regexp.MustCompile(`[^a-zA-Z0-9]+([^\n\r\x{2028}\x{2029}])`)

// snakeWords splits identifier-style text into words. It relies on a
// lookahead, so it runs on regexp2 in ECMAScript mode.
var snakeWords = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`[A-Z]{2,}(?=[A-Z][a-z]+[0-9]*|\b)|[A-Z]?[a-z]+[0-9]*|[A-Z]|[0-9]+`, regexp2.ECMAScript)
	re.MatchTimeout = 5 * time.Second
	return re
}()

// Convert applies k to s. Blank input is rejected for every kind.
func Convert(s string, k Kind) (string, error) {
	if jstext.IsBlank(s) {
		return "", toolerr.ErrEmptyInput
	}
	switch k {
	case Upper:
		return upper(s), nil
	case Lower:
		return lower(s), nil
	case Capitalize:
		return capitalize(s), nil
	case Camel:
		return camel(s), nil
	case Snake:
		return snake(s)
	default:
		return "", fmt.Errorf("%w: unknown conversion %v", toolerr.ErrInvalidOption, k)
	}
}

// Casers carry state, so each call gets its own.
func upper(s string) string { return cases.Upper(language.Und).String(s) }
func lower(s string) string { return cases.Lower(language.Und).String(s) }

func capitalize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(w)
		head := w[:size]
		// A supplementary character is two code units in the browser and
		// its lone high surrogate has no case mapping.
		if first <= 0xffff {
			head = upper(head)
		}
		words[i] = head + lower(w[size:])
	}
	return strings.Join(words, " ")
}

func camel(s string) string {
	s = lower(s)
	var b strings.Builder
	last := 0
	for _, m := range camelSep.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		next := s[m[2]:m[3]]
		r, _ := utf8.DecodeRuneInString(next)
		if m[0] == 0 || r > 0xffff {
			b.WriteString(next)
		} else {
			b.WriteString(upper(next))
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func snake(s string) (string, error) {
	var words []string
	m, err := snakeWords.FindStringMatch(s)
	for ; m != nil && err == nil; m, err = snakeWords.FindNextMatch(m) {
		words = append(words, lower(m.String()))
	}
	if err != nil {
		return "", fmt.Errorf("snake_case tokenizer: %w", err)
	}
	return strings.Join(words, "_"), nil
}
