package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ProbeSize is how many leading bytes ProbeText inspects.
const ProbeSize = 1024

// ProbeText reads at most ProbeSize bytes of path and reports whether they
// look like UTF-8 text. It returns an ErrNotFound error for a missing file
// and an ErrDecode error for invalid UTF-8 or a NUL byte.
func ProbeText(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return openError(path, err)
	}
	defer f.Close()

	buf := make([]byte, ProbeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !looksLikeText(buf[:n], n == ProbeSize) {
		return decodeError(path)
	}
	return nil
}

// IsTextFile is ProbeText reduced to a boolean; every failure reads as false.
func IsTextFile(path string) bool {
	return ProbeText(path) == nil
}

// looksLikeText reports whether data is NUL-free UTF-8. When the sample was
// cut off at the probe limit, an incomplete rune at the very end is allowed.
func looksLikeText(data []byte, truncated bool) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return truncated && !utf8.FullRune(data)
		}
		data = data[size:]
	}
	return true
}
