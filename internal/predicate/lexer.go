package predicate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokInt
	tokCompare
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokIdent:
		return "keyword"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	case tokCompare:
		return "comparison"
	case tokAnd, tokOr, tokNot:
		return "operator"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	// text is the lower-cased keyword, the unescaped string, the digits of an
	// integer or the comparison operator.
	text string
	pos  int
}

// lex splits src into tokens. Keywords are lower-cased; "and", "or" and
// "not" become the same tokens as their symbolic forms.
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == '"' || r == '\'':
			text, n, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: text, pos: i})
			i += n
		case r == '&' || r == '|':
			if i+1 >= len(src) || rune(src[i+1]) != r {
				return nil, syntaxError(i, "expected %q", string([]rune{r, r}))
			}
			kind := tokAnd
			if r == '|' {
				kind = tokOr
			}
			tokens = append(tokens, token{kind: kind, text: src[i : i+2], pos: i})
			i += 2
		case r == '=' || r == '!' || r == '<' || r == '>':
			op := string(r)
			if i+1 < len(src) && src[i+1] == '=' {
				op += "="
			}
			switch op {
			case "=":
				return nil, syntaxError(i, "expected \"==\"")
			case "!":
				tokens = append(tokens, token{kind: tokNot, text: op, pos: i})
			default:
				tokens = append(tokens, token{kind: tokCompare, text: op, pos: i})
			}
			i += len(op)
		case r >= '0' && r <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			tokens = append(tokens, token{kind: tokInt, text: src[start:i], pos: start})
		case unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += size
			}
			word := strings.ToLower(src[start:i])
			switch word {
			case "and":
				tokens = append(tokens, token{kind: tokAnd, text: word, pos: start})
			case "or":
				tokens = append(tokens, token{kind: tokOr, text: word, pos: start})
			case "not":
				tokens = append(tokens, token{kind: tokNot, text: word, pos: start})
			default:
				tokens = append(tokens, token{kind: tokIdent, text: word, pos: start})
			}
		default:
			return nil, syntaxError(i, "unexpected character %q", r)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

// lexString reads a quoted string starting at src[start] and returns its
// unescaped value and the number of bytes consumed, quotes included.
func lexString(src string, start int) (string, int, error) {
	quote := src[start]
	var b strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == quote:
			return b.String(), i + 1 - start, nil
		case c == '\\':
			if i+1 >= len(src) {
				return "", 0, syntaxError(i, "unterminated escape")
			}
			switch esc := src[i+1]; esc {
			case '"', '\'', '\\':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", 0, syntaxError(i, "unknown escape \\%c", esc)
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, syntaxError(start, "unterminated string")
}

func syntaxError(pos int, format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrInvalidArgument, "predicate syntax error at offset %d: "+format, append([]any{pos}, args...)...)
}
