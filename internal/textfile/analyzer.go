package textfile

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/display"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

// Frequencies maps a word to the number of times it occurs.
type Frequencies map[string]int

// WordCount is one entry of an ordered frequency listing.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Analyzer is a Reader with text-analysis operations. Case sensitivity
// governs both word frequencies and regex matching.
type Analyzer struct {
	*Reader
	caseSensitive bool
	freq          *frequencyMemo
}

// frequencyMemo remembers which content version and case mode produced counts.
type frequencyMemo struct {
	version       uint64
	caseSensitive bool
	counts        Frequencies
}

// NewAnalyzer returns an Analyzer for the file at path.
func NewAnalyzer(path string, caseSensitive bool, opts ...Option) *Analyzer {
	return AnalyzerFor(NewReader(path, analyzerOptions(opts)...), caseSensitive)
}

// NewAnalyzerFromText returns an Analyzer over literal text.
func NewAnalyzerFromText(text, virtualPath string, caseSensitive bool, opts ...Option) *Analyzer {
	return AnalyzerFor(NewReaderFromText(text, virtualPath, analyzerOptions(opts)...), caseSensitive)
}

// AnalyzerFor wraps an existing Reader; the two share the content cache.
func AnalyzerFor(r *Reader, caseSensitive bool) *Analyzer {
	return &Analyzer{Reader: r, caseSensitive: caseSensitive}
}

func analyzerOptions(opts []Option) []Option {
	return append([]Option{WithColor(display.Green)}, opts...)
}

func (a *Analyzer) CaseSensitive() bool {
	return a.caseSensitive
}

func (a *Analyzer) SetCaseSensitive(caseSensitive bool) {
	a.caseSensitive = caseSensitive
}

// WordFrequencies counts whitespace-delimited words, lower-casing them first
// in case-insensitive mode. The result is memoized until the content or the
// case mode changes; callers receive their own copy.
func (a *Analyzer) WordFrequencies() (Frequencies, error) {
	text, err := a.Content()
	if err != nil {
		return nil, err
	}
	if m := a.freq; m != nil && m.version == a.version && m.caseSensitive == a.caseSensitive {
		return maps.Clone(m.counts), nil
	}
	counts := Frequencies(tokenizer.Frequencies(text, !a.caseSensitive))
	a.freq = &frequencyMemo{
		version:       a.version,
		caseSensitive: a.caseSensitive,
		counts:        counts,
	}
	a.logger.Debug("word frequencies computed",
		"path", a.path,
		"distinct", len(counts),
		"case_sensitive", a.caseSensitive,
	)
	return maps.Clone(counts), nil
}

// TopWords returns the analyzer's frequencies ranked by Rank.
func (a *Analyzer) TopWords(n int) ([]WordCount, error) {
	freq, err := a.WordFrequencies()
	if err != nil {
		return nil, err
	}
	return Rank(freq, n), nil
}

// Rank orders freq by count (descending) then word. A non-positive n returns
// every word.
func Rank(freq Frequencies, n int) []WordCount {
	ranked := make([]WordCount, 0, len(freq))
	for word, count := range freq {
		ranked = append(ranked, WordCount{Word: word, Count: count})
	}
	slices.SortFunc(ranked, func(x, y WordCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Word, y.Word)
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FindMatches returns every non-overlapping match of pattern in order of
// appearance.
func (a *Analyzer) FindMatches(pattern string) ([]string, error) {
	text, err := a.Content()
	if err != nil {
		return nil, err
	}
	expr := pattern
	if !a.caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "invalid pattern %q: %v", pattern, err)
	}
	matches := re.FindAllString(text, -1)
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}

// FilterLines returns the lines for which keep reports true.
func (a *Analyzer) FilterLines(keep func(line string) bool) ([]string, error) {
	if keep == nil {
		return nil, apperrors.New(apperrors.ErrInvalidArgument, "filter predicate is nil")
	}
	seq, err := a.Lines()
	if err != nil {
		return nil, err
	}
	kept := []string{}
	for line, err := range seq {
		if err != nil {
			return nil, err
		}
		if keep(line) {
			kept = append(kept, line)
		}
	}
	return kept, nil
}

// Concatenate is Reader.Concatenate returning an Analyzer with the same case
// mode.
func (a *Analyzer) Concatenate(other Source) (*Analyzer, error) {
	r, err := a.Reader.Concatenate(other)
	if err != nil {
		return nil, err
	}
	return AnalyzerFor(r, a.caseSensitive), nil
}

func (a *Analyzer) String() string {
	var words string
	if n, err := a.WordCount(); err != nil {
		words = fmt.Sprintf("<%v>", err)
	} else {
		words = fmt.Sprint(n)
	}
	text := fmt.Sprintf("Analyzer('%s')\nWords: %s\nCase-sensitive: %t", a.path, words, a.caseSensitive)
	return display.Colorize(text, a.color)
}
