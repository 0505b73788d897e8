// Package tokenizer splits text into whitespace-delimited words. Unlike a
// search tokenizer it keeps punctuation attached and only normalises case
// when asked to.
package tokenizer

import (
	"strings"
	"unicode"
)

// Token is a single word and its ordinal position in the text.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text on Unicode whitespace. When foldCase is true every
// term is lower-cased.
func Tokenize(text string, foldCase bool) []Token {
	words := strings.FieldsFunc(text, unicode.IsSpace)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		if foldCase {
			word = strings.ToLower(word)
		}
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
	}
	return tokens
}

// Count returns the number of non-empty whitespace-delimited words without
// allocating the token slice.
func Count(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// Frequencies counts occurrences of each term.
func Frequencies(text string, foldCase bool) map[string]int {
	freq := make(map[string]int)
	for _, tok := range Tokenize(text, foldCase) {
		freq[tok.Term]++
	}
	return freq
}
