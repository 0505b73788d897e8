package predicate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, syntaxError(tok.pos, "expected %s, found %s", kind, describe(tok))
	}
	return tok, nil
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return tok.kind.String()
	}
	return strconv.Quote(tok.text)
}

func (p *parser) parseOr() (Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(line string) bool { return l(line) || right(line) }
	}
	return left, nil
}

func (p *parser) parseAnd() (Predicate, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(line string) bool { return l(line) && right(line) }
	}
	return left, nil
}

func (p *parser) parseUnary() (Predicate, error) {
	if p.peek().kind == tokNot {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(line string) bool { return !inner(line) }, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Predicate, error) {
	tok := p.next()
	switch tok.kind {
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		return p.parseTest(tok)
	}
	return nil, syntaxError(tok.pos, "expected test or '(', found %s", describe(tok))
}

func (p *parser) parseTest(kw token) (Predicate, error) {
	switch kw.text {
	case "true":
		return func(string) bool { return true }, nil
	case "false":
		return func(string) bool { return false }, nil
	case "empty":
		return func(line string) bool { return strings.TrimSpace(line) == "" }, nil
	case "len":
		return p.parseLen()
	case "contains", "icontains", "startswith", "endswith", "matches", "imatches":
		arg, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return stringTest(kw, arg)
	}
	return nil, syntaxError(kw.pos, "unknown test %q", kw.text)
}

func stringTest(kw, arg token) (Predicate, error) {
	s := arg.text
	switch kw.text {
	case "contains":
		return func(line string) bool { return strings.Contains(line, s) }, nil
	case "icontains":
		lower := strings.ToLower(s)
		return func(line string) bool { return strings.Contains(strings.ToLower(line), lower) }, nil
	case "startswith":
		return func(line string) bool { return strings.HasPrefix(line, s) }, nil
	case "endswith":
		return func(line string) bool { return strings.HasSuffix(line, s) }, nil
	}
	expr := s
	if kw.text == "imatches" {
		expr = "(?i)" + s
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, syntaxError(arg.pos, "invalid pattern %q: %v", s, err)
	}
	return re.MatchString, nil
}

// parseLen compiles "len CMP INT". Length is measured in characters.
func (p *parser) parseLen() (Predicate, error) {
	op, err := p.expect(tokCompare)
	if err != nil {
		return nil, err
	}
	num, err := p.expect(tokInt)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(num.text)
	if err != nil {
		return nil, syntaxError(num.pos, "integer %s out of range", num.text)
	}
	var cmp func(int) bool
	switch op.text {
	case "==":
		cmp = func(l int) bool { return l == n }
	case "!=":
		cmp = func(l int) bool { return l != n }
	case "<":
		cmp = func(l int) bool { return l < n }
	case "<=":
		cmp = func(l int) bool { return l <= n }
	case ">":
		cmp = func(l int) bool { return l > n }
	case ">=":
		cmp = func(l int) bool { return l >= n }
	default:
		return nil, syntaxError(op.pos, "unknown comparison %q", op.text)
	}
	return func(line string) bool { return cmp(utf8.RuneCountInString(line)) }, nil
}
