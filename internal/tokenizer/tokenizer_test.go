package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		foldCase bool
		want     []string
	}{
		{"basic", "Hello World", false, []string{"Hello", "World"}},
		{"empty", "", false, nil},
		{"only whitespace", " \t\n ", false, nil},
		{"fold case", "Hello WORLD", true, []string{"hello", "world"}},
		{"keeps punctuation", "Testing, testing, 1-2-3.", false, []string{"Testing,", "testing,", "1-2-3."}},
		{"mixed whitespace", "  a\tb\r\nc  ", false, []string{"a", "b", "c"}},
		{"accented","café résumé", false, []string{"café", "résumé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input, tt.foldCase)
			var got []string
			for i, tok := range tokens {
				assert.Equal(t, i, tok.Position)
				got = append(got, tok.Term)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount(t *testing.T) {
	sample := "Hello World\nThis is a test file\nWith multiple lines\nHello again\nTesting Testing 123"
	assert.Equal(t, 15, Count(sample))
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 0, Count("   \n\t"))
	assert.Equal(t, 2, Count("  one\n\ntwo  "))
	assert.Equal(t, len(Tokenize(sample, false)), Count(sample))
}

func TestFrequencies(t *testing.T) {
	assert.Equal(t, map[string]int{"hello": 2, "world": 1}, Frequencies("Hello World Hello", true))
	assert.Equal(t, map[string]int{"Hello": 2, "World": 1}, Frequencies("Hello World Hello", false))
	assert.Empty(t, Frequencies("", true))
}
