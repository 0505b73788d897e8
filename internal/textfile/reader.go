// Package textfile wraps plain-text files, or literal text labelled with a
// virtual path, behind a Reader with lazy line and chunk iteration and a
// memoized full-content accessor. Analyzer extends a Reader with word
// frequencies, regex search, line filtering and merging.
//
// Instances are not safe for concurrent use; give each goroutine its own.
package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/display"
	"github.com/Adithya-Monish-Kumar-K/textkit/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

const (
	DefaultChunkSize     = 1024
	DefaultPreviewLength = 200
)

// Source is anything that can label itself with a path and produce its full
// text. Both *Reader and *Analyzer implement it.
type Source interface {
	Path() string
	Content() (string, error)
}

// Option customises a Reader.
type Option func(*Reader)

// WithPreviewLength sets how many characters String shows before eliding.
func WithPreviewLength(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.previewLength = n
		}
	}
}

// WithColor sets the color used by String.
func WithColor(c display.Color) Option {
	return func(r *Reader) { r.color = c }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// Reader is a text source backed by a file path or by literal text.
type Reader struct {
	path    string
	content *string
	// version changes whenever content is loaded or invalidated, so derived
	// memos can tell whether they are stale.
	version uint64

	previewLength int
	color         display.Color
	logger        *slog.Logger
	opts          []Option
}

// NewReader returns a Reader for path. The file is not touched until content
// is first requested.
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{
		path:          path,
		previewLength: DefaultPreviewLength,
		color:         display.Blue,
		logger:        slog.Default().With("component", "textfile"),
		opts:          opts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewReaderFromText returns a Reader whose content is text. virtualPath only
// labels the instance and need not exist.
func NewReaderFromText(text, virtualPath string, opts ...Option) *Reader {
	r := NewReader(virtualPath, opts...)
	r.setContent(text)
	return r
}

func (r *Reader) Path() string {
	return r.path
}

// SetPath points the reader at a new path and drops any cached content,
// including text supplied at construction.
func (r *Reader) SetPath(path string) {
	r.path = path
	r.content = nil
	r.version++
	r.logger.Debug("content cache cleared", "path", path)
}

// Filename returns the final element of the path.
func (r *Reader) Filename() string {
	if r.path == "" {
		return ""
	}
	return filepath.Base(r.path)
}

// Content returns the full text, reading the file on first use. Later calls
// return the cached text even if the file has since changed or vanished.
func (r *Reader) Content() (string, error) {
	if r.content != nil {
		return *r.content, nil
	}
	if err := r.validate(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return "", openError(r.path, err)
	}
	if !utf8.Valid(data) {
		return "", decodeError(r.path)
	}
	r.setContent(string(data))
	r.logger.Debug("content loaded", "path", r.path, "bytes", len(data))
	return *r.content, nil
}

// AllLines materialises Lines.
func (r *Reader) AllLines() ([]string, error) {
	seq, err := r.Lines()
	if err != nil {
		return nil, err
	}
	var lines []string
	for line, err := range seq {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WordCount counts non-empty whitespace-delimited words.
func (r *Reader) WordCount() (int, error) {
	text, err := r.Content()
	if err != nil {
		return 0, err
	}
	return tokenizer.Count(text), nil
}

// Concatenate returns a text-backed Reader holding this content with
// trailing whitespace removed, a newline, then other's content with leading
// whitespace removed. Its virtual path is "<stem>_concat<ext>" next to this
// reader's path.
func (r *Reader) Concatenate(other Source) (*Reader, error) {
	if isNilSource(other) {
		return nil, apperrors.New(apperrors.ErrInvalidArgument, "can only concatenate a non-nil text source")
	}
	left, err := r.Content()
	if err != nil {
		return nil, err
	}
	right, err := other.Content()
	if err != nil {
		return nil, err
	}
	text := strings.TrimRightFunc(left, unicode.IsSpace) + "\n" + strings.TrimLeftFunc(right, unicode.IsSpace)
	return NewReaderFromText(text, concatPath(r.path), r.opts...), nil
}

func (r *Reader) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reader('%s')\nContent:\n", r.path)
	if text, err := r.Content(); err != nil {
		fmt.Fprintf(&b, "<%v>", err)
	} else {
		b.WriteString(preview(text, r.previewLength))
	}
	return display.Colorize(b.String(), r.color)
}

func (r *Reader) setContent(text string) {
	r.content = &text
	r.version++
}

// validate checks that an uncached reader's path exists right now.
func (r *Reader) validate() error {
	if r.content != nil {
		return nil
	}
	if _, err := os.Stat(r.path); err != nil {
		return openError(r.path, err)
	}
	return nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.Newf(apperrors.ErrNotFound, "file not found: %s", path)
	}
	return fmt.Errorf("opening %s: %w", path, err)
}

func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	end := 0
	for i := 0; i < limit; i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[:end] + "..."
}

func concatPath(path string) string {
	if path == "" {
		return "_concat"
	}
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+"_concat"+ext)
}

func isNilSource(s Source) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
