package ast

import "github.com/ruchy-lang/ruchy/pkg/token"

// PatternKind is implemented by every concrete pattern payload.
type PatternKind interface{ patternKind() }

// Pattern is a single match-arm or let/for binding pattern.
type Pattern struct {
	Kind PatternKind
	Span token.Span
}

type WildcardPat struct{}

type LiteralPat struct{ Literal *Expr }

type IdentifierPat struct {
	Name string
	// Ref marks `ref name` bindings (bind by reference rather than by move).
	Ref bool
}

type TuplePat struct{ Elements []*Pattern }

// ListPat is `[a, b, ...rest]`; Rest is nil when there is no rest binding.
type ListPat struct {
	Elements []*Pattern
	Rest     *string
}

type FieldPat struct {
	Name    string
	Pattern *Pattern
}

// StructPat matches `Path { field: pat, .. }`.
type StructPat struct {
	Path   string
	Fields []FieldPat
	Rest   bool
}

// EnumPat matches `Path(inner...)` or the Ok/Some/Err/None shorthands.
type EnumPat struct {
	Path  string
	Inner []*Pattern
}

type OrPat struct{ Alternatives []*Pattern }

type RangePat struct {
	Start     *Expr
	End       *Expr
	Inclusive bool
}

type RefPat struct{ Inner *Pattern }

// ConstPat matches a named constant rather than binding a new identifier.
type ConstPat struct{ Path string }

func (WildcardPat) patternKind()   {}
func (LiteralPat) patternKind()    {}
func (IdentifierPat) patternKind() {}
func (TuplePat) patternKind()      {}
func (ListPat) patternKind()       {}
func (StructPat) patternKind()     {}
func (EnumPat) patternKind()       {}
func (OrPat) patternKind()         {}
func (RangePat) patternKind()      {}
func (RefPat) patternKind()        {}
func (ConstPat) patternKind()      {}
