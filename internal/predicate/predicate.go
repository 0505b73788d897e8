// Package predicate compiles a small boolean expression language into line
// predicates for Analyzer.FilterLines.
//
// An expression combines tests with and/or/not (or &&, ||, !) and
// parentheses:
//
//	icontains "test" and len > 10
//	(startswith "#" || empty) && not matches 'TODO\s'
//
// Tests are contains, icontains, startswith, endswith, matches and imatches
// (each taking a quoted string), "len" followed by a comparison and an
// integer, and the constants empty, true and false. Keywords are
// case-insensitive. Nothing is evaluated beyond these tests.
package predicate

import (
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

// Predicate reports whether a line should be kept.
type Predicate func(line string) bool

// Compile parses src into a Predicate. Syntax errors wrap
// errors.ErrInvalidArgument and name the byte offset of the problem.
func Compile(src string) (Predicate, error) {
	if strings.TrimSpace(src) == "" {
		return nil, apperrors.New(apperrors.ErrInvalidArgument, "empty predicate expression")
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	pred, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxError(tok.pos, "unexpected %s", describe(tok))
	}
	return pred, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(src string) Predicate {
	pred, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return pred
}
