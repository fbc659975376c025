// Package visitors provides AST passes layered over pkg/ast: a printer
// for the `ruchy ast` command and a lint pass for `ruchy lint`.
package visitors

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
)

// DebugPrinter renders a formatted, indented representation of the AST.
type DebugPrinter struct {
	output strings.Builder
	indent int
}

// NewDebugPrinter creates a new printer.
func NewDebugPrinter() *DebugPrinter {
	return &DebugPrinter{}
}

// String returns the formatted output.
func (d *DebugPrinter) String() string {
	return d.output.String()
}

// PrintFile renders every top-level expression of file.
func (d *DebugPrinter) PrintFile(f *ast.File) {
	d.line("File %s", f.Name)
	d.indent++
	for _, e := range f.Exprs {
		d.printExpr(e)
	}
	d.indent--
}

func (d *DebugPrinter) line(format string, args ...any) {
	d.output.WriteString(strings.Repeat("  ", d.indent))
	fmt.Fprintf(&d.output, format, args...)
	d.output.WriteString("\n")
}

func (d *DebugPrinter) printExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch k := e.Kind.(type) {
	case *ast.IntegerLit:
		d.line("Integer %s%s", k.Value, k.Suffix)
	case *ast.FloatLit:
		d.line("Float %s%s", k.Value, k.Suffix)
	case *ast.StringLit:
		d.line("String %q", k.Value)
	case *ast.CharLit:
		d.line("Char %q", string(k.Value))
	case *ast.BoolLit:
		d.line("Bool %v", k.Value)
	case *ast.UnitLit:
		d.line("Unit")
	case *ast.NilLit:
		d.line("Nil")
	case *ast.StringInterpolation:
		d.line("FString")
		d.indent++
		for _, p := range k.Parts {
			if p.Expr != nil {
				d.printExpr(p.Expr)
			} else {
				d.line("Text %q", p.Text)
			}
		}
		d.indent--
	case *ast.Identifier:
		d.line("Identifier %s", k.Name)
	case *ast.QualifiedName:
		d.line("QualifiedName %s::%s", k.Module, k.Name)
	case *ast.Binary:
		d.line("Binary %s", k.Op)
		d.children(k.Left, k.Right)
	case *ast.Unary:
		d.line("Unary %s", k.Op)
		d.children(k.Operand)
	case *ast.Assign:
		d.line("Assign %s", k.Op)
		d.children(k.Target, k.Value)
	case *ast.Let:
		mut := ""
		if k.IsMutable {
			mut = " mut"
		}
		d.line("Let%s %s", mut, k.Name)
		d.children(k.Value)
	case *ast.Block:
		d.line("Block")
		d.indent++
		for _, c := range k.Exprs {
			d.printExpr(c)
		}
		d.indent--
	case *ast.If:
		d.line("If")
		d.children(k.Cond, k.Then, k.Else)
	case *ast.Ternary:
		d.line("Ternary")
		d.children(k.Cond, k.Then, k.Else)
	case *ast.Match:
		d.line("Match")
		d.indent++
		d.printExpr(k.Scrutinee)
		for _, arm := range k.Arms {
			d.line("Arm %s", patternSummary(arm.Pattern))
			d.indent++
			if arm.Guard != nil {
				d.line("Guard")
				d.children(arm.Guard)
			}
			d.printExpr(arm.Body)
			d.indent--
		}
		d.indent--
	case *ast.While:
		d.line("While")
		d.children(k.Cond, k.Body)
	case *ast.For:
		d.line("For %s", patternSummary(k.Pattern))
		d.children(k.Iter, k.Body)
	case *ast.Loop:
		d.line("Loop")
		d.children(k.Body)
	case *ast.Break:
		d.line("Break")
		d.children(k.Value)
	case *ast.Continue:
		d.line("Continue")
	case *ast.Return:
		d.line("Return")
		d.children(k.Value)
	case *ast.Lambda:
		d.line("Lambda |%s|", paramNames(k.Params))
		d.children(k.Body)
	case *ast.Function:
		d.line("Function %s(%s)", k.Name, paramNames(k.Params))
		d.children(k.Body)
	case *ast.Call:
		d.line("Call")
		d.indent++
		d.printExpr(k.Callee)
		for _, a := range k.Args {
			d.printExpr(a)
		}
		d.indent--
	case *ast.MethodCall:
		d.line("MethodCall .%s", k.Method)
		d.indent++
		d.printExpr(k.Receiver)
		for _, a := range k.Args {
			d.printExpr(a)
		}
		d.indent--
	case *ast.FieldAccess:
		d.line("FieldAccess .%s", k.Field)
		d.children(k.Object)
	case *ast.IndexAccess:
		d.line("Index")
		d.children(k.Object, k.Index)
	case *ast.SliceExpr:
		d.line("Slice")
		d.children(k.Object, k.Start, k.End)
	case *ast.RangeExpr:
		op := ".."
		if k.Inclusive {
			op = "..="
		}
		d.line("Range %s", op)
		d.children(k.Start, k.End)
	case *ast.StructDecl:
		d.line("Struct %s (%d fields)", k.Name, len(k.Fields))
	case *ast.ClassDecl:
		super := ""
		if k.Superclass != "" {
			super = " : " + k.Superclass
		}
		d.line("Class %s%s (%d fields, %d methods)", k.Name, super, len(k.Fields), len(k.Methods))
		d.indent++
		for _, m := range append(append([]*ast.Method{}, k.Constructors...), k.Methods...) {
			d.line("Method %s(%s)", m.Name, paramNames(m.Params))
			d.children(m.Body)
		}
		d.indent--
	case *ast.EnumDecl:
		d.line("Enum %s (%d variants)", k.Name, len(k.Variants))
	case *ast.TraitDecl:
		d.line("Trait %s (%d methods)", k.Name, len(k.Methods))
	case *ast.ImplDecl:
		if k.Trait != "" {
			d.line("Impl %s for %s", k.Trait, k.Type)
		} else {
			d.line("Impl %s", k.Type)
		}
	case *ast.ObjectLiteral:
		d.line("Object %s (%d fields)", k.TypeName, len(k.Fields))
		d.indent++
		for _, f := range k.Fields {
			d.line("Field %s", f.Key)
			d.children(f.Value)
		}
		d.indent--
	case *ast.ListLiteral:
		d.line("List (%d elements)", len(k.Elements))
		d.indent++
		for _, c := range k.Elements {
			d.printExpr(c)
		}
		d.indent--
	case *ast.TupleLiteral:
		d.line("Tuple (%d elements)", len(k.Elements))
		d.indent++
		for _, c := range k.Elements {
			d.printExpr(c)
		}
		d.indent--
	case *ast.SetLiteral:
		d.line("Set (%d elements)", len(k.Elements))
	case *ast.DictLiteral:
		d.line("Dict (%d entries)", len(k.Entries))
	case *ast.Comprehension:
		d.line("Comprehension")
		d.children(k.Key, k.Element)
	case *ast.MacroInvocation:
		d.line("Macro %s! (%d args)", k.Name, len(k.Args))
		d.indent++
		for _, a := range k.Args {
			d.printExpr(a)
		}
		d.indent--
	case *ast.Try:
		d.line("Try")
		d.children(k.Expr)
	case *ast.Await:
		d.line("Await")
		d.children(k.Expr)
	case *ast.Import:
		d.line("Import %q", k.Path)
	case *ast.UseStatement:
		d.line("Use %s", k.Path)
	default:
		d.line("Expr")
	}
}

func (d *DebugPrinter) children(exprs ...*ast.Expr) {
	d.indent++
	for _, e := range exprs {
		d.printExpr(e)
	}
	d.indent--
}

func paramNames(params []*ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func patternSummary(p *ast.Pattern) string {
	if p == nil {
		return "_"
	}
	switch k := p.Kind.(type) {
	case *ast.WildcardPat:
		return "_"
	case *ast.IdentifierPat:
		return k.Name
	case *ast.EnumPat:
		return k.Path
	case *ast.StructPat:
		return k.Path
	case *ast.LiteralPat:
		return "literal"
	case *ast.TuplePat:
		return "tuple"
	case *ast.ListPat:
		return "list"
	case *ast.OrPat:
		return "or"
	case *ast.RangePat:
		return "range"
	default:
		return "pattern"
	}
}
