// Package ast defines the Ruchy abstract syntax tree: a tagged-variant
// expression tree with spans, attributes, and comment attachment. AST
// nodes are built once by the parser and never mutated by the
// transpiler.
//
// Each node is a wrapper struct carrying Span/Attributes/comments plus a
// Kind field holding one of many concrete payload structs; a hand-rolled
// Pratt parser builds these imperatively. Traversal is a single-method
// go/ast-style Visitor (see Walk in walk.go) rather than one interface
// method per node kind.
package ast

import "github.com/ruchy-lang/ruchy/pkg/token"

// Attribute is a `#[name(args...)]` annotation such as `#[test]`.
type Attribute struct {
	Name string
	Args []string
	Span token.Span
}

// Visibility is the pub/pub(crate)/pub(super) modifier.
type Visibility int

const (
	VisNone Visibility = iota
	VisPub
	VisPubCrate
	VisPubSuper
)

// SelfMode describes how a method receives `self`.
type SelfMode int

const (
	SelfNone SelfMode = iota
	SelfValue
	SelfRef
	SelfRefMut
)

// Kind is implemented by every concrete expression-node payload.
type Kind interface{ exprKind() }

// Expr is a single AST node: a Kind payload plus span, attributes, and
// attached comments.
type Expr struct {
	Kind            Kind
	Span            token.Span
	Attributes      []Attribute
	LeadingComments []token.Comment
	TrailingComment *token.Comment
}

// ---- literals ----

type IntegerLit struct {
	Value  string // verbatim digits as written, base prefix included
	Suffix string
}

type FloatLit struct {
	Value  string
	Suffix string
}

type StringLit struct{ Value string }
type CharLit struct{ Value rune }
type BoolLit struct{ Value bool }
type UnitLit struct{}
type NilLit struct{}

// StringInterpolation is an f-string: a sequence of literal text and
// embedded expression parts.
type StringInterpolation struct {
	Parts []InterpPart
}

// InterpPart is either a literal Text run or an embedded Expr; exactly one
// of the two is non-zero.
type InterpPart struct {
	Text string
	Expr *Expr
}

// Identifier is a name, possibly qualified with `::` segments and turbofish
// generic segments (spelled literally, e.g. "Vec::<i32>::new").
type Identifier struct{ Name string }

// QualifiedName is `module::name`.
type QualifiedName struct {
	Module string
	Name   string
}

// ---- operators ----

type Binary struct {
	Op    string
	Left  *Expr
	Right *Expr
}

type Unary struct {
	Op      string
	Operand *Expr
}

type Assign struct {
	Op     string // "=", "+=", "-=", ...
	Target *Expr
	Value  *Expr
}

// ---- bindings & control flow ----

type Let struct {
	Name           string
	IsMutable      bool
	TypeAnnotation *Type
	Value          *Expr
	Body           *Expr // nil when Let is a statement, not an expression-with-body
}

type Block struct{ Exprs []*Expr }

type If struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type Ternary struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type MatchArm struct {
	Pattern *Pattern
	Guard   *Expr
	Body    *Expr
	Span    token.Span
}

type Match struct {
	Scrutinee *Expr
	Arms      []*MatchArm
}

type While struct {
	Label *string
	Cond  *Expr
	Body  *Expr
}

type For struct {
	Label   *string
	Pattern *Pattern
	Iter    *Expr
	Body    *Expr
}

type Loop struct {
	Label *string
	Body  *Expr
}

type Break struct {
	Label *string
	Value *Expr
}

type Continue struct{ Label *string }

type Return struct{ Value *Expr }

// ---- functions ----

type Param struct {
	Name           string
	TypeAnnotation *Type
	Span           token.Span
}

type Lambda struct {
	Params []*Param
	Body   *Expr
}

type Function struct {
	Name       string
	IsPub      bool
	Visibility Visibility
	IsAsync    bool
	Generics   []string
	Params     []*Param
	ReturnType *Type
	Body       *Expr
	Attributes []Attribute
}

type Call struct {
	Callee *Expr
	Args   []*Expr
}

type MethodCall struct {
	Receiver *Expr
	Method   string
	Args     []*Expr
}

type FieldAccess struct {
	Object *Expr
	Field  string
}

type IndexAccess struct {
	Object *Expr
	Index  *Expr
}

type SliceExpr struct {
	Object *Expr
	Start  *Expr
	End    *Expr
}

type RangeExpr struct {
	Start     *Expr
	End       *Expr
	Inclusive bool
}

// ---- types, classes, traits ----

type Field struct {
	Visibility Visibility
	Name       string
	Type       *Type
	Span       token.Span
}

type StructDecl struct {
	Name       string
	Visibility Visibility
	Generics   []string
	Fields     []*Field
}

type Method struct {
	Name       string
	Visibility Visibility
	IsStatic   bool
	IsOverride bool
	SelfMode   SelfMode
	Generics   []string
	Params     []*Param
	ReturnType *Type
	Body       *Expr
}

type ClassDecl struct {
	Name         string
	Visibility   Visibility
	Superclass   string
	Generics     []string
	Fields       []*Field
	Methods      []*Method
	Constructors []*Method
}

type VariantKind int

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

type Variant struct {
	Name       string
	Kind       VariantKind
	TupleTypes []*Type
	Fields     []*Field
}

type EnumDecl struct {
	Name       string
	Visibility Visibility
	Generics   []string
	Variants   []*Variant
}

type AssociatedType struct{ Name string }

type TraitDecl struct {
	Name            string
	Generics        []string
	Supertraits     []string
	AssociatedTypes []AssociatedType
	Methods         []*Method
}

type ImplDecl struct {
	Trait    string // empty for an inherent impl
	Type     string
	Generics []string
	Methods  []*Method
}

// ---- collections ----

type ObjectField struct {
	Key   string
	Value *Expr
}

// ObjectLiteral is either an anonymous `{ key: value, ... }` literal
// (TypeName empty, lowered to a HashMap) or a named struct/enum-variant
// literal `Point { x: 1, y: 2 }` (TypeName set, lowered to a Rust struct
// literal).
type ObjectLiteral struct {
	TypeName string
	Fields   []ObjectField
}
type ListLiteral struct{ Elements []*Expr }
type TupleLiteral struct{ Elements []*Expr }
type SetLiteral struct{ Elements []*Expr }

type DictEntry struct {
	Key   *Expr
	Value *Expr
}
type DictLiteral struct{ Entries []DictEntry }

type ComprehensionKind int

const (
	ComprehensionList ComprehensionKind = iota
	ComprehensionDict
	ComprehensionSet
)

// ClauseKind distinguishes a `for pat in expr` clause from an `if expr`
// filter clause within a comprehension.
type ClauseKind int

const (
	ClauseFor ClauseKind = iota
	ClauseIf
)

type ComprehensionClause struct {
	Kind    ClauseKind
	Pattern *Pattern // set when Kind == ClauseFor
	Source  *Expr    // iterable when Kind == ClauseFor, condition when Kind == ClauseIf
}

type Comprehension struct {
	Kind    ComprehensionKind
	Element *Expr
	Key     *Expr // set only for ComprehensionDict
	Clauses []ComprehensionClause
}

// ---- macros, try, await, imports ----

type MacroDelimiter int

const (
	DelimParen MacroDelimiter = iota
	DelimBracket
	DelimBrace
)

type MacroInvocation struct {
	Name      string
	Delimiter MacroDelimiter
	Args      []*Expr
}

type Try struct{ Expr *Expr }
type Await struct{ Expr *Expr }

type ImportItem struct {
	Name  string
	Alias string
}

type Import struct {
	Path     string
	Items    []ImportItem
	Wildcard bool
	Alias    string
}

type UseStatement struct {
	Path     string
	Items    []ImportItem
	Wildcard bool
	Alias    string
}

func (IntegerLit) exprKind()          {}
func (FloatLit) exprKind()            {}
func (StringLit) exprKind()           {}
func (CharLit) exprKind()             {}
func (BoolLit) exprKind()             {}
func (UnitLit) exprKind()             {}
func (NilLit) exprKind()              {}
func (StringInterpolation) exprKind() {}
func (Identifier) exprKind()          {}
func (QualifiedName) exprKind()       {}
func (Binary) exprKind()              {}
func (Unary) exprKind()               {}
func (Assign) exprKind()              {}
func (Let) exprKind()                 {}
func (Block) exprKind()               {}
func (If) exprKind()                  {}
func (Ternary) exprKind()             {}
func (Match) exprKind()               {}
func (While) exprKind()               {}
func (For) exprKind()                 {}
func (Loop) exprKind()                {}
func (Break) exprKind()               {}
func (Continue) exprKind()            {}
func (Return) exprKind()              {}
func (Lambda) exprKind()              {}
func (Function) exprKind()            {}
func (Call) exprKind()                {}
func (MethodCall) exprKind()          {}
func (FieldAccess) exprKind()         {}
func (IndexAccess) exprKind()         {}
func (SliceExpr) exprKind()           {}
func (RangeExpr) exprKind()           {}
func (StructDecl) exprKind()          {}
func (ClassDecl) exprKind()           {}
func (EnumDecl) exprKind()            {}
func (TraitDecl) exprKind()           {}
func (ImplDecl) exprKind()            {}
func (ObjectLiteral) exprKind()       {}
func (ListLiteral) exprKind()         {}
func (TupleLiteral) exprKind()        {}
func (SetLiteral) exprKind()          {}
func (DictLiteral) exprKind()         {}
func (Comprehension) exprKind()       {}
func (MacroInvocation) exprKind()     {}
func (Try) exprKind()                 {}
func (Await) exprKind()               {}
func (Import) exprKind()              {}
func (UseStatement) exprKind()        {}

// File is the root of a parsed source file: a sequence of top-level
// expressions in source order (see assembler.Assemble for how these are
// partitioned into Rust items vs. a synthesized main body).
type File struct {
	Name  string
	Exprs []*Expr
}
