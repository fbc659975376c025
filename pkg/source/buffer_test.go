package source

import "testing"

func TestNormalizesCRLF(t *testing.T) {
	buf, err := New("t.ruchy", "a\r\nb\rc\nd")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if buf.Text != "a\nb\nc\nd" {
		t.Fatalf("want normalized text, got %q", buf.Text)
	}
}

func TestRejectsInvalidUTF8(t *testing.T) {
	if _, err := New("t.ruchy", string([]byte{0xff, 0xfe})); err == nil {
		t.Fatal("want error for invalid UTF-8")
	}
}

func TestLineCol(t *testing.T) {
	buf, err := New("t.ruchy", "ab\ncd\nef")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1}, {1, 1, 2}, {3, 2, 1}, {4, 2, 2}, {6, 3, 1},
	}
	for _, c := range cases {
		line, col := buf.LineCol(c.offset)
		if line != c.line || col != c.col {
			t.Errorf("LineCol(%d): want %d:%d, got %d:%d", c.offset, c.line, c.col, line, col)
		}
	}
}

func TestSnippetClamped(t *testing.T) {
	buf, _ := New("t.ruchy", "hello")
	if got := buf.Snippet(-3, 99); got != "hello" {
		t.Fatalf("want clamped snippet, got %q", got)
	}
	if got := buf.Snippet(4, 2); got != "" {
		t.Fatalf("want empty for inverted range, got %q", got)
	}
}
