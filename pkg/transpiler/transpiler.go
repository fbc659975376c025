// Package transpiler lowers a Ruchy AST (pkg/ast) to Rust source text.
// Emission is a pure function over the tree: nothing here mutates the AST
// except pkg/typeinfer's fill-in of missing type annotations, which callers
// run once before transpiling.
package transpiler

import (
	"github.com/ruchy-lang/ruchy/internal/ruchyerr"
	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
	"github.com/ruchy-lang/ruchy/pkg/transpiler/rustgen"
	"github.com/ruchy-lang/ruchy/pkg/typeinfer"
)

// Transpiler carries the per-run emission context: the class registry used
// for superclass field flattening and the set of top-level mutable bindings
// lowered to lock-guarded statics. Both are filled once before emission
// starts and treated as read-only afterwards.
type Transpiler struct {
	classes map[string]*ast.ClassDecl
	globals map[string]bool
}

// New returns a ready-to-use Transpiler.
func New() *Transpiler {
	return &Transpiler{
		classes: map[string]*ast.ClassDecl{},
		globals: map[string]bool{},
	}
}

// RegisterClasses records every class declaration in file so that emission
// of a subclass can flatten its superclass fields.
func (t *Transpiler) RegisterClasses(file *ast.File) {
	for _, e := range file.Exprs {
		if c, ok := e.Kind.(*ast.ClassDecl); ok {
			t.classes[c.Name] = c
		}
	}
}

// MarkGlobal records name as a top-level mutable binding. Reads of it emit
// a lock-and-deref, writes a lock-and-assign.
func (t *Transpiler) MarkGlobal(name string) { t.globals[name] = true }

func (t *Transpiler) isGlobal(name string) bool { return t.globals[name] }

// EmitItem lowers a single top-level declaration (function, struct, class,
// enum, trait, impl, use, import) to a standalone block of Rust source.
// Callers needing a full program assemble items plus a synthesized main
// body; see pkg/assembler.
func (t *Transpiler) EmitItem(e *ast.Expr) (string, error) {
	switch k := e.Kind.(type) {
	case *ast.Function:
		return t.emitFunctionItem(k)
	case *ast.StructDecl:
		return t.emitStructItem(k)
	case *ast.ClassDecl:
		return t.emitClassItem(k)
	case *ast.EnumDecl:
		return t.emitEnumItem(k)
	case *ast.TraitDecl:
		return t.emitTraitItem(k)
	case *ast.ImplDecl:
		return t.emitImplItem(k)
	case *ast.UseStatement:
		return t.emitUseItem(k), nil
	case *ast.Import:
		return t.emitImportItem(k), nil
	default:
		// Anything else (a bare expression at the top level) is not an
		// item; the assembler routes it into the synthesized main body
		// instead of calling EmitItem on it.
		s, err := t.exprString(e)
		if err != nil {
			return "", err
		}
		return s + ";", nil
	}
}

// EmitStatement lowers e as one statement inside a block (main's body or
// any other block), appending a trailing ';' unless e is block-like,
// mirroring the parser's no-semicolon-after-block-expression rule.
func (t *Transpiler) EmitStatement(e *ast.Expr) (string, error) {
	s, err := t.exprString(e)
	if err != nil {
		return "", err
	}
	if isBlockLike(e) {
		return s, nil
	}
	return s + ";", nil
}

func isBlockLike(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.If, *ast.Match, *ast.While, *ast.For, *ast.Loop, *ast.Block, *ast.Function:
		return true
	}
	return false
}

// PrepareFunction fills in any type annotation the parser left nil via
// pkg/typeinfer, mutating fn in place. The assembler calls this once per
// function before EmitItem so emission never has to infer anything itself.
func PrepareFunction(fn *ast.Function) {
	typeinfer.InferFunction(fn)
}

// errf raises a LoweringError: a construct the emitter has no planned
// emission for. An explicit error here, never a debug dump of the node —
// leaked AST debug text in emitted programs is how formatters corrupt
// output.
func (t *Transpiler) errf(format string, args ...any) error {
	return ruchyerr.New(ruchyerr.Lowering, token.Span{}, format, args...)
}

func visibilityKeyword(v ast.Visibility) string {
	switch v {
	case ast.VisPub:
		return "pub "
	case ast.VisPubCrate:
		return "pub(crate) "
	case ast.VisPubSuper:
		return "pub(super) "
	default:
		return ""
	}
}

func ident(name string) string { return rustgen.SanitizeIdent(name) }
