package textfile

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

// MergedFilename is the base name of the virtual path given to merge results.
const MergedFilename = "merged.txt"

// MergeFiles joins the whitespace-trimmed content of each source with a
// single newline and returns a case-sensitive Analyzer over the result,
// labelled merged.txt in the first source's directory.
func MergeFiles(sources []Source, opts ...Option) (*Analyzer, error) {
	if len(sources) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidArgument, "no files to merge")
	}
	parts := make([]string, 0, len(sources))
	for i, src := range sources {
		if isNilSource(src) {
			return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "merge source %d is nil", i)
		}
		text, err := src.Content()
		if err != nil {
			return nil, fmt.Errorf("merging %s: %w", src.Path(), err)
		}
		parts = append(parts, strings.TrimSpace(text))
	}
	path := filepath.Join(filepath.Dir(sources[0].Path()), MergedFilename)
	return NewAnalyzerFromText(strings.Join(parts, "\n"), path, true, opts...), nil
}
