package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
)

// Lines returns a sequence of lines with their terminators ("\n" or "\r\n")
// removed. A trailing newline does not yield an extra empty line.
//
// Cached content is split in memory; otherwise each range over the sequence
// opens the file, streams it from the start and closes it when iteration
// ends, including on early break. The path is checked before returning, and
// failures during streaming are yielded as the error value.
func (r *Reader) Lines() (iter.Seq2[string, error], error) {
	if r.content != nil {
		text := *r.content
		return func(yield func(string, error) bool) {
			scanLines(strings.NewReader(text), r.path, yield)
		}, nil
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	path := r.path
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield("", openError(path, err))
			return
		}
		defer f.Close()
		scanLines(f, path, yield)
	}, nil
}

// Chunks returns a sequence of size-character pieces of the content; the
// last piece may be shorter. Like Lines it prefers cached content and
// otherwise streams the file without loading it whole.
func (r *Reader) Chunks(size int) (iter.Seq2[string, error], error) {
	if size <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "chunk size must be positive, got %d", size)
	}
	if r.content != nil {
		text := *r.content
		return func(yield func(string, error) bool) {
			chunkString(text, size, yield)
		}, nil
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	path := r.path
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield("", openError(path, err))
			return
		}
		defer f.Close()
		chunkReader(f, path, size, yield)
	}, nil
}

func scanLines(src io.Reader, name string, yield func(string, error) bool) {
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !utf8.ValidString(line) {
				yield("", decodeError(name))
				return
			}
			if !yield(line, nil) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield("", fmt.Errorf("reading %s: %w", name, err))
			return
		}
	}
}

func chunkString(text string, size int, yield func(string, error) bool) {
	for len(text) > 0 {
		end := 0
		for i := 0; i < size && end < len(text); i++ {
			_, n := utf8.DecodeRuneInString(text[end:])
			end += n
		}
		if !yield(text[:end], nil) {
			return
		}
		text = text[end:]
	}
}

func chunkReader(src io.Reader, name string, size int, yield func(string, error) bool) {
	br := bufio.NewReader(src)
	var chunk strings.Builder
	runes := 0
	for {
		r, n, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			yield("", fmt.Errorf("reading %s: %w", name, err))
			return
		}
		if r == utf8.RuneError && n == 1 {
			yield("", decodeError(name))
			return
		}
		chunk.WriteRune(r)
		runes++
		if runes == size {
			if !yield(chunk.String(), nil) {
				return
			}
			chunk.Reset()
			runes = 0
		}
	}
	if runes > 0 {
		yield(chunk.String(), nil)
	}
}

func decodeError(name string) error {
	return apperrors.Newf(apperrors.ErrDecode, "%s is not valid UTF-8", name)
}
