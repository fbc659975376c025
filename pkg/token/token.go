// Package token defines the lexical tokens and source spans shared by the
// lexer, parser, and transpiler.
package token

import "fmt"

// Span is a half-open byte range [Start, End) into the normalized source.
type Span struct {
	Start int
	End   int
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	s := Span{Start: a.Start, End: a.End}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	Char
	String
	FStringStart // opening quote of an f-string, followed by FStringText/FStringExprStart parts
	FStringText
	FStringExprStart // '{' introducing an embedded expression
	FStringExprEnd   // '}' closing an embedded expression
	FStringEnd       // closing quote of an f-string

	// Keywords
	Fun
	Let
	Mut
	If
	Else
	Match
	While
	For
	Loop
	Break
	Continue
	Return
	In
	Struct
	Enum
	Class
	Trait
	Impl
	Pub
	Crate
	Super
	SelfLower
	SelfUpper
	Use
	Import
	As
	Async
	Await
	True
	False
	Nil
	Override
	Static

	// Punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon
	ColonColon
	Dot
	DotDot
	DotDotEq
	DotDotDot
	Arrow    // ->
	FatArrow // =>
	Question
	Bang
	At
	Amp
	AmpMut // &mut; never produced: the lexer emits Amp followed by the mut keyword
	Pipe
	PipePipe
	AmpAmp
	Assign
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	Shl
	Shr
	Plus
	Minus
	Star
	Slash
	Percent
	Caret

	CommentKind
	LineCommentKind
)

var names = map[Kind]string{
	EOF: "eof", Ident: "identifier", Int: "integer", Float: "float",
	Char: "char", String: "string",
	FStringStart: "f-string-start", FStringText: "f-string-text",
	FStringExprStart: "{", FStringExprEnd: "}", FStringEnd: "f-string-end",
	Fun: "fun", Let: "let", Mut: "mut", If: "if", Else: "else", Match: "match",
	While: "while", For: "for", Loop: "loop", Break: "break", Continue: "continue",
	Return: "return", In: "in", Struct: "struct", Enum: "enum", Class: "class",
	Trait: "trait", Impl: "impl", Pub: "pub", Crate: "crate", Super: "super",
	SelfLower: "self", SelfUpper: "Self", Use: "use", Import: "import", As: "as",
	Async: "async", Await: "await", True: "true", False: "false", Nil: "nil",
	Override: "override", Static: "static",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semi: ";", Colon: ":", ColonColon: "::", Dot: ".", DotDot: "..",
	DotDotEq: "..=", DotDotDot: "...", Arrow: "->", FatArrow: "=>", Question: "?",
	Bang: "!", At: "@", Amp: "&", Pipe: "|", PipePipe: "||", AmpAmp: "&&",
	Assign: "=", PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=",
	PercentEq: "%=", AmpEq: "&=", PipeEq: "|=", CaretEq: "^=", ShlEq: "<<=", ShrEq: ">>=",
	EqEq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	Shl: "<<", Shr: ">>", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Percent: "%", Caret: "^",
	CommentKind: "comment", LineCommentKind: "line-comment",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps the reserved-word spelling to its Kind.
var Keywords = map[string]Kind{
	"fun": Fun, "fn": Fun, "let": Let, "mut": Mut, "if": If, "else": Else,
	"match": Match, "while": While, "for": For, "loop": Loop, "break": Break,
	"continue": Continue, "return": Return, "in": In, "struct": Struct,
	"enum": Enum, "class": Class, "trait": Trait, "impl": Impl, "pub": Pub,
	"crate": Crate, "super": Super, "self": SelfLower, "Self": SelfUpper,
	"use": Use, "import": Import, "as": As, "async": Async, "await": Await,
	"true": True, "false": False, "nil": Nil, "override": Override,
	"static": Static,
}

// Token is a single lexical token with its source span.
type Token struct {
	Kind    Kind
	Text    string // literal spelling, or decoded value for strings/chars
	Suffix  string // numeric literal suffix, e.g. "u64", "" if none
	Span    Span
	Leading []Comment // comments attached ahead of this token
}

// Comment is a lexed comment with its own span, attached to the nearest
// expression by the parser.
type Comment struct {
	Text     string
	Span     Span
	Block    bool
	SameLine bool // appears after code on the same line (candidate trailing comment)
}

