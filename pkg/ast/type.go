package ast

import "github.com/ruchy-lang/ruchy/pkg/token"

// TypeKind is implemented by every concrete type payload.
type TypeKind interface{ typeKind() }

// Type is a single type annotation, keeping the literal source spelling of
// its name (including any `::` segments) alongside the structured form so
// the transpiler can pass qualified paths through verbatim.
type Type struct {
	Kind TypeKind
	Span token.Span
}

type NamedType struct {
	Path     string // literal spelling, e.g. "std::collections::HashMap"
	Generics []*Type
}

type TupleType struct{ Elements []*Type }

// ArrayType is `[T; N]`; Size is nil for a plain slice written `[T]`.
type ArrayType struct {
	Elem *Type
	Size *Expr
}

type RefType struct {
	Elem    *Type
	Mutable bool
}

type SliceType struct{ Elem *Type }

type FuncType struct {
	Params []*Type
	Return *Type
}

type GenericType struct {
	Param  string
	Bounds []string
}

type PlaceholderType struct{}

type SelfTypeNode struct{}

func (NamedType) typeKind()       {}
func (TupleType) typeKind()       {}
func (ArrayType) typeKind()       {}
func (RefType) typeKind()         {}
func (SliceType) typeKind()       {}
func (FuncType) typeKind()        {}
func (GenericType) typeKind()     {}
func (PlaceholderType) typeKind() {}
func (SelfTypeNode) typeKind()    {}
