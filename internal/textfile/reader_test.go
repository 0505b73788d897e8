package textfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleText  = "Hello World\nThis is a test file\nWith multiple lines\nHello again\nTesting Testing 123"
	anotherText = "Another file\nFor testing concatenation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sampleFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "test.txt", sampleText)
}

func collect(t *testing.T, seq func(func(string, error) bool)) []string {
	t.Helper()
	var out []string
	for s, err := range seq {
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	path := sampleFile(t)
	r := NewReader(path)

	assert.Equal(t, path, r.Path())
	assert.Equal(t, "test.txt", r.Filename())
	assert.Nil(t, r.content, "content must not be read at construction")
}

func TestContentIsCached(t *testing.T) {
	t.Parallel()

	path := sampleFile(t)
	r := NewReader(path)

	first, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, sampleText, first)

	require.NoError(t, os.WriteFile(path, []byte("changed on disk"), 0o600))
	second, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, sampleText, second, "cached content must not be re-read")

	require.NoError(t, os.Remove(path))
	third, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, sampleText, third)
}

func TestSetPathClearsCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "test.txt", sampleText)
	second := writeFile(t, dir, "another.txt", anotherText)

	r := NewReader(first)
	_, err := r.Content()
	require.NoError(t, err)

	r.SetPath(second)
	assert.Nil(t, r.content)
	text, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, anotherText, text)

	r.SetPath(filepath.Join(dir, "missing.txt"))
	_, err = r.Content()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetPathDropsLiteralText(t *testing.T) {
	t.Parallel()

	r := NewReaderFromText("literal", filepath.Join(t.TempDir(), "virtual.txt"))
	r.SetPath(r.Path())

	_, err := r.Content()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	r := NewReader(filepath.Join(t.TempDir(), "nonexistent.txt"))

	_, err := r.Content()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = r.Lines()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = r.Chunks(10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = r.WordCount()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTextReaderIgnoresFilesystem(t *testing.T) {
	t.Parallel()

	r := NewReaderFromText("Test content", "/definitely/not/here/test.txt")

	text, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, "Test content", text)
	assert.Equal(t, "test.txt", r.Filename())

	lines, err := r.AllLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Test content"}, lines)

	seq, err := r.Chunks(4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Test", " con", "tent"}, collect(t, seq))
}

func TestLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"sample", sampleText, strings.Split(sampleText, "\n")},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no newline", "single", []string{"single"}},
		{"empty", "", nil},
		{"blank lines", "\n\n", []string{"", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"inner blank", "a\n\nb", []string{"a", "", "b"}},
		{"unicode", "héllo\nwörld", []string{"héllo", "wörld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "lines.txt", tt.content)
			fromFile := NewReader(path)
			fromText := NewReaderFromText(tt.content, path)

			for _, r := range []*Reader{fromFile, fromText} {
				seq, err := r.Lines()
				require.NoError(t, err)
				streamed := collect(t, seq)
				all, err := r.AllLines()
				require.NoError(t, err)

				assert.Equal(t, tt.want, streamed)
				assert.Equal(t, len(streamed), len(all))
			}
			assert.Nil(t, fromFile.content, "streaming lines must not populate the cache")
		})
	}
}

func TestLinesRestartsEachRange(t *testing.T) {
	t.Parallel()

	r := NewReader(sampleFile(t))
	seq, err := r.Lines()
	require.NoError(t, err)

	for line, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "Hello World", line)
		break
	}
	assert.Len(t, collect(t, seq), 5)
	assert.Len(t, collect(t, seq), 5)
}

func TestLinesUsesCacheOverDisk(t *testing.T) {
	t.Parallel()

	path := sampleFile(t)
	r := NewReader(path)
	_, err := r.Content()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("replaced"), 0o600))

	lines, err := r.AllLines()
	require.NoError(t, err)
	assert.Len(t, lines, 5)
}

func TestChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		size    int
		want    []string
	}{
		{"even", "abcdef", 3, []string{"abc", "def"}},
		{"short tail", "abcdefghij", 3, []string{"abc", "def", "ghi", "j"}},
		{"larger than content", "abc", 10, []string{"abc"}},
		{"empty", "", 4, nil},
		{"multibyte", "héllo wörld", 4, []string{"héll", "o wö", "rld"}},
		{"newlines kept", "a\nb\n", 2, []string{"a\n", "b\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "chunks.txt", tt.content)
			for _, r := range []*Reader{NewReader(path), NewReaderFromText(tt.content, path)} {
				seq, err := r.Chunks(tt.size)
				require.NoError(t, err)
				assert.Equal(t, tt.want, collect(t, seq))
			}
		})
	}
}

func TestChunksRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()

	r := NewReaderFromText("abc", "x.txt")
	for _, size := range []int{0, -1} {
		_, err := r.Chunks(size)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	}
}

func TestInvalidUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "binary.dat")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', '\n', 0xff, 0xfe, 'a'}, 0o600))

	_, err := NewReader(path).Content()
	assert.ErrorIs(t, err, apperrors.ErrDecode)

	seq, err := NewReader(path).Lines()
	require.NoError(t, err)
	var lines []string
	var lineErr error
	for line, err := range seq {
		if err != nil {
			lineErr = err
			break
		}
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"ok"}, lines)
	assert.ErrorIs(t, lineErr, apperrors.ErrDecode)

	chunks, err := NewReader(path).Chunks(2)
	require.NoError(t, err)
	var chunkErr error
	for _, err := range chunks {
		if err != nil {
			chunkErr = err
		}
	}
	assert.ErrorIs(t, chunkErr, apperrors.ErrDecode)
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	n, err := NewReader(sampleFile(t)).WordCount()
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestConcatenate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := NewReader(writeFile(t, dir, "test.txt", sampleText+"\n\n"))
	second := NewReader(writeFile(t, dir, "another.txt", "  \n"+anotherText))

	combined, err := first.Concatenate(second)
	require.NoError(t, err)

	n, err := combined.WordCount()
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	assert.Equal(t, filepath.Join(dir, "test_concat.txt"), combined.Path())

	text, err := combined.Content()
	require.NoError(t, err)
	assert.Equal(t, sampleText+"\n"+anotherText, text)
}

func TestConcatenateRejectsNil(t *testing.T) {
	t.Parallel()

	r := NewReaderFromText("a", "a.txt")

	_, err := r.Concatenate(nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	var typedNil *Reader
	_, err = r.Concatenate(typedNil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestConcatenatePropagatesNotFound(t *testing.T) {
	t.Parallel()

	r := NewReaderFromText("a", "a.txt")
	_, err := r.Concatenate(NewReader(filepath.Join(t.TempDir(), "gone.txt")))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"test.txt", "test_concat.txt"},
		{filepath.Join("dir", "notes.md"), filepath.Join("dir", "notes_concat.md")},
		{"archive.tar.gz", "archive.tar_concat.gz"},
		{"README", "README_concat"},
		{".bashrc", ".bashrc_concat"},
		{"", "_concat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, concatPath(tt.in), tt.in)
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "c.txt", NewReader(filepath.Join("a", "b", "c.txt")).Filename())
	assert.Equal(t, "", NewReader("").Filename())
}

func TestReaderString(t *testing.T) {
	t.Parallel()

	r := NewReader(sampleFile(t))
	out := r.String()
	assert.Contains(t, out, "Reader('")
	assert.Contains(t, out, "Content:")
	assert.Contains(t, out, "Hello World")
	assert.NotContains(t, out, "...")

	long := NewReaderFromText(strings.Repeat("x", 250), "long.txt")
	out = long.String()
	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))

	short := NewReaderFromText(strings.Repeat("y", 20), "short.txt", WithPreviewLength(5))
	assert.Contains(t, short.String(), "yyyyy...")

	missing := NewReader(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Contains(t, missing.String(), "file not found")
}

func TestPreviewCountsRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héé...", preview("hééllo", 3))
	assert.Equal(t, "abc", preview("abc", 3))
}
