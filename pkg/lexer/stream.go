package lexer

import "github.com/ruchy-lang/ruchy/pkg/token"

// Stream buffers tokens from a Lexer so the parser can look ahead by a
// small, fixed number of tokens (needed for turbofish/object-literal/
// pub(crate) disambiguation) without re-lexing.
type Stream struct {
	lex *Lexer
	buf []token.Token
	err error
}

// NewStream wraps l for lookahead token access.
func NewStream(l *Lexer) *Stream {
	return &Stream{lex: l}
}

func (s *Stream) fill(n int) {
	for len(s.buf) <= n && s.err == nil {
		tok, err := s.lex.Next()
		if err != nil {
			s.err = err
			return
		}
		s.buf = append(s.buf, tok)
		if tok.Kind == token.EOF {
			return
		}
	}
}

// Peek returns the token n positions ahead (0 = next token to be consumed)
// without consuming it.
func (s *Stream) Peek(n int) token.Token {
	s.fill(n)
	if n < len(s.buf) {
		return s.buf[n]
	}
	if len(s.buf) > 0 {
		return s.buf[len(s.buf)-1]
	}
	return token.Token{Kind: token.EOF}
}

// Err returns any lex error encountered while filling the lookahead buffer.
func (s *Stream) Err() error { return s.err }

// Next consumes and returns the next token.
func (s *Stream) Next() token.Token {
	s.fill(0)
	if len(s.buf) == 0 {
		return token.Token{Kind: token.EOF}
	}
	t := s.buf[0]
	s.buf = s.buf[1:]
	return t
}
