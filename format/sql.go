package format

import (
	"regexp"
	"strings"
	"unicode"

	"toolstation/jstext"
	"toolstation/toolerr"
)

type sqlPass struct {
	re   *regexp.Regexp
	repl string
}

// sqlPasses run in order; each one sees the output of the previous. The
// first two normalize whitespace and commas, the rest break lines around
// keywords. Keyword matching is ASCII-only case-insensitive.
var sqlPasses = []sqlPass{
	{regexp.MustCompile(jstext.SpaceClass + `+`), " "},
	{regexp.MustCompile(jstext.SpaceClass + `*,` + jstext.SpaceClass + `*`), ",\n  "},
	keywordPass("SELECT", "SELECT\n  "),
	keywordPass("FROM", "\nFROM\n  "),
	keywordPass("WHERE", "\nWHERE\n  "),
	keywordPass("AND", "\n  AND "),
	keywordPass("OR", "\n  OR "),
	keywordPass("GROUP BY", "\nGROUP BY\n  "),
	keywordPass("ORDER BY", "\nORDER BY\n  "),
	keywordPass("LEFT JOIN", "\nLEFT JOIN\n  "),
	keywordPass("INNER JOIN", "\nINNER JOIN\n  "),
	keywordPass("INSERT INTO", "INSERT INTO\n  "),
	keywordPass("VALUES", "\nVALUES\n  "),
	keywordPass("UPDATE", "UPDATE\n  "),
	keywordPass("SET", "\nSET\n  "),
}

// keywordPass matches kw with at least one whitespace character on both sides.
func keywordPass(kw, repl string) sqlPass {
	var pat strings.Builder
	pat.WriteString(jstext.SpaceClass + `+`)
	for _, r := range kw {
		if unicode.IsLetter(r) {
			pat.WriteString("[" + string(unicode.ToUpper(r)) + string(unicode.ToLower(r)) + "]")
			continue
		}
		pat.WriteString(regexp.QuoteMeta(string(r)))
	}
	pat.WriteString(jstext.SpaceClass + `+`)
	return sqlPass{re: regexp.MustCompile(pat.String()), repl: repl}
}

// SQL lays out a statement one clause per line. It does not tokenize:
// keywords inside string literals or comments are split like any other.
func SQL(s string) (string, error) {
	if jstext.IsBlank(s) {
		return "", toolerr.ErrEmptyInput
	}
	for _, p := range sqlPasses {
		s = p.re.ReplaceAllLiteralString(s, p.repl)
	}
	return jstext.Trim(s), nil
}
