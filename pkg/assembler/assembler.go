// Package assembler turns a parsed file into a complete Rust program: it
// partitions top-level expressions into item declarations vs. a `main`
// body, synthesizes `fn main()` when the user did not write one, lowers
// top-level mutable lets to lock-guarded statics, and (in script mode)
// plants the single result-printing site.
package assembler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/transpiler"
)

// Options controls assembly. Script selects run-mode output, which prints
// the value of the last non-unit expression; transpile mode leaves it
// unprinted.
type Options struct {
	Script bool
}

// Assemble transpiles file into one Rust source string.
func Assemble(file *ast.File, opts Options) (string, error) {
	t := transpiler.New()
	t.RegisterClasses(file)

	var items []*ast.Expr
	var globals []*ast.Let
	var mainStmts []*ast.Expr
	var userMain *ast.Function

	for _, e := range file.Exprs {
		switch k := e.Kind.(type) {
		case *ast.Function:
			transpiler.PrepareFunction(k)
			if k.Name == "main" {
				userMain = k
				continue
			}
			items = append(items, e)
		case *ast.StructDecl, *ast.ClassDecl, *ast.EnumDecl, *ast.TraitDecl,
			*ast.ImplDecl, *ast.UseStatement, *ast.Import:
			items = append(items, e)
		case *ast.Let:
			if k.IsMutable {
				if _, ok := transpiler.GlobalType(k); ok {
					globals = append(globals, k)
					t.MarkGlobal(k.Name)
					continue
				}
			}
			mainStmts = append(mainStmts, e)
		default:
			mainStmts = append(mainStmts, e)
		}
	}

	prepareNestedFunctions(mainStmts)
	if userMain != nil {
		prepareNested(userMain.Body)
	}
	for _, e := range items {
		prepareNestedItem(e)
	}

	var sections []string

	for _, e := range items {
		s, err := t.EmitItem(e)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}

	for _, g := range globals {
		s, err := t.EmitGlobal(g)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}

	body, err := emitMainBody(t, mainStmts, opts.Script && userMain == nil)
	if err != nil {
		return "", err
	}

	if userMain == nil {
		sections = append(sections, "fn main() {\n"+indent(body)+"\n}")
	} else {
		// The user's main wins; stray top-level statements move into a
		// helper that main calls first.
		if len(mainStmts) > 0 {
			sections = append(sections, "fn __ruchy_main() {\n"+indent(body)+"\n}")
		}
		mainSrc, err := emitUserMain(t, userMain, len(mainStmts) > 0)
		if err != nil {
			return "", err
		}
		sections = append(sections, mainSrc)
	}

	return strings.Join(sections, "\n\n") + "\n", nil
}

// emitMainBody renders the main statements; in script mode the last
// value-producing statement is routed through the result printer.
func emitMainBody(t *transpiler.Transpiler, stmts []*ast.Expr, script bool) (string, error) {
	last := -1
	if script {
		for i := len(stmts) - 1; i >= 0; i-- {
			if producesValue(stmts[i]) {
				last = i
				break
			}
		}
	}

	var lines []string
	for i, e := range stmts {
		if i == last {
			s, err := t.EmitStatement(e)
			if err != nil {
				return "", err
			}
			lines = append(lines, resultPrinter(strings.TrimSuffix(s, ";")))
			continue
		}
		s, err := t.EmitStatement(e)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n"), nil
}

// resultPrinter is the one place a script's final value is printed: a
// centralized match on the runtime type name that suppresses the unit
// type, so unit values are never formatted with {}.
func resultPrinter(expr string) string {
	return "let __ruchy_result = " + expr + ";\n" +
		"match std::any::type_name_of_val(&__ruchy_result) {\n" +
		"    \"()\" => {}\n" +
		"    _ => println!(\"{}\", __ruchy_result),\n" +
		"}"
}

// producesValue reports whether a statement plausibly leaves a printable
// value: bindings, assignments, loops, and print calls are side-effect
// statements and never qualify.
func producesValue(e *ast.Expr) bool {
	switch k := e.Kind.(type) {
	case *ast.Let, *ast.Assign, *ast.While, *ast.For, *ast.Loop,
		*ast.Return, *ast.Break, *ast.Continue, *ast.UnitLit,
		*ast.UseStatement, *ast.Import, *ast.Function, *ast.StructDecl,
		*ast.ClassDecl, *ast.EnumDecl, *ast.TraitDecl, *ast.ImplDecl:
		return false
	case *ast.MacroInvocation:
		return k.Name != "println" && k.Name != "print"
	case *ast.Call:
		if name, ok := calleeIdent(k.Callee); ok {
			return name != "println" && name != "print"
		}
	}
	return true
}

func calleeIdent(e *ast.Expr) (string, bool) {
	id, ok := e.Kind.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func emitUserMain(t *transpiler.Transpiler, fn *ast.Function, callHelper bool) (string, error) {
	if callHelper {
		// Splice the helper call ahead of the user's own statements.
		call := &ast.Expr{Kind: &ast.Call{
			Callee: &ast.Expr{Kind: &ast.Identifier{Name: "__ruchy_main"}},
		}}
		if blk, ok := fn.Body.Kind.(*ast.Block); ok {
			patched := &ast.Block{Exprs: append([]*ast.Expr{call}, blk.Exprs...)}
			fn = cloneFunctionWithBody(fn, &ast.Expr{Kind: patched, Span: fn.Body.Span})
		}
	}
	return t.EmitItem(&ast.Expr{Kind: fn, Span: fn.Body.Span})
}

func cloneFunctionWithBody(fn *ast.Function, body *ast.Expr) *ast.Function {
	c := *fn
	c.Body = body
	return &c
}

// prepareNestedFunctions runs parameter/return inference over function
// declarations nested inside executable statements, so a `fun` defined in
// main's body is typed the same way a top-level one is.
func prepareNestedFunctions(stmts []*ast.Expr) {
	for _, e := range stmts {
		prepareNested(e)
	}
}

func prepareNested(e *ast.Expr) {
	ast.Walk(fnPreparer{}, e)
}

func prepareNestedItem(e *ast.Expr) {
	ast.Walk(fnPreparer{}, e)
}

type fnPreparer struct{}

func (fnPreparer) Visit(e *ast.Expr) ast.Visitor {
	if e == nil {
		return fnPreparer{}
	}
	if fn, ok := e.Kind.(*ast.Function); ok {
		transpiler.PrepareFunction(fn)
	}
	return fnPreparer{}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}
