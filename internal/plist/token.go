package plist

import (
	"strings"

	"github.com/deadlytoah/heartbeat2/internal/faults"
)

type tokenKind int

const (
	tokenOpen tokenKind = iota
	tokenClose
	tokenAtom
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
}

// tokenize splits a property-list document into parentheses and
// atoms. Atoms are either double-quoted strings (supporting \" and
// \\ escapes) or bare runs of non-whitespace, non-paren characters
// (covering integers, floats, bare symbols and colon-prefixed
// keywords alike).
func tokenize(data []byte) ([]token, error) {
	var toks []token
	s := string(data)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokenOpen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokenClose})
			i++
		case c == '"':
			text, n, err := scanQuoted(s[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokenAtom, text: text, quoted: true})
			i += n
		default:
			j := i
			for j < len(s) && !isDelimiter(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokenAtom, text: s[i:j]})
			i = j
		}
	}
	return toks, nil
}

func isDelimiter(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == '"'
}

// scanQuoted scans a double-quoted string starting at s[0] == '"'
// and returns its decoded contents and the number of bytes consumed
// from s, including both quotes.
func scanQuoted(s string) (string, int, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '"':
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(s):
			switch s[i+1] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i+1])
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, faults.New(faults.ConfigFormat, "unterminated string literal")
}
