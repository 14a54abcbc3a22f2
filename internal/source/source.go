// Package source opens documents for the swiftdsv command and converts
// them from their declared character set to UTF-8.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Open returns a reader for path, or for stdin when path is Stdin or empty.
// Closing the returned reader never closes stdin.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == Stdin {
		if stdin == nil {
			return nil, fmt.Errorf("no standard input available")
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return f, nil
}

// Lookup resolves a character set name such as "shift_jis", "windows-1252"
// or "utf-16le" using the WHATWG encoding names.
func Lookup(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode wraps r so that it yields UTF-8 text. UTF-8 input passes through
// unchanged apart from a leading byte order mark being dropped.
func Decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		return r, nil
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
