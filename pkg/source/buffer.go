// Package source holds the normalized input text handed to the lexer.
package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Buffer is UTF-8 source text with CRLF/CR line endings normalized to LF so
// that byte offsets recorded by the lexer stay stable and line numbers
// computed from those offsets agree regardless of the input's original line
// endings.
type Buffer struct {
	Name string
	Text string
}

// New validates src as UTF-8, normalizes its line endings, and returns a
// Buffer ready for lexing.
func New(name, src string) (*Buffer, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%s: source is not valid UTF-8", name)
	}
	return &Buffer{Name: name, Text: normalizeLineEndings(src)}, nil
}

// normalizeLineEndings rewrites "\r\n" and lone "\r" to "\n" in a single
// pass so the result has the same semantic line breaks regardless of which
// convention the input used.
func normalizeLineEndings(src string) string {
	if !strings.ContainsRune(src, '\r') {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\r' {
			b.WriteByte('\n')
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// LineCol converts a byte offset into the buffer to a 1-based line and
// column, for diagnostics.
func (b *Buffer) LineCol(offset int) (line, col int) {
	line = 1
	col = 1
	if offset > len(b.Text) {
		offset = len(b.Text)
	}
	for i := 0; i < offset; i++ {
		if b.Text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Snippet returns the source text covered by a byte range, clamped to the
// buffer bounds.
func (b *Buffer) Snippet(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.Text) {
		end = len(b.Text)
	}
	if start > end {
		return ""
	}
	return b.Text[start:end]
}
