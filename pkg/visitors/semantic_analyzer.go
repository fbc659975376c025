package visitors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/token"
)

// LintWarning is a single finding of the lint pass.
type LintWarning struct {
	Span    token.Span
	Message string
}

func (w *LintWarning) Error() string {
	return fmt.Sprintf("[%d:%d) %s", w.Span.Start, w.Span.End, w.Message)
}

// Linter walks a file collecting style and correctness warnings:
// duplicate top-level declarations, unused let bindings, unreachable
// statements after a diverging expression, and float literals whose
// written digits do not survive a round trip through f64.
type Linter struct {
	Warnings []*LintWarning

	scopes []map[string]*binding
}

type binding struct {
	span token.Span
	used bool
}

// NewLinter creates a new lint pass.
func NewLinter() *Linter {
	return &Linter{}
}

// LintFile runs every check over file and returns the collected warnings.
func (l *Linter) LintFile(f *ast.File) []*LintWarning {
	l.checkDuplicateDecls(f)
	l.pushScope()
	for i, e := range f.Exprs {
		l.checkExpr(e)
		if i < len(f.Exprs)-1 && diverges(e) {
			l.warnf(f.Exprs[i+1].Span, "unreachable statement")
		}
	}
	l.popScope()
	return l.Warnings
}

func (l *Linter) warnf(span token.Span, format string, args ...any) {
	l.Warnings = append(l.Warnings, &LintWarning{Span: span, Message: fmt.Sprintf(format, args...)})
}

func (l *Linter) checkDuplicateDecls(f *ast.File) {
	seen := map[string]bool{}
	for _, e := range f.Exprs {
		var name string
		switch k := e.Kind.(type) {
		case *ast.Function:
			name = "fun " + k.Name
		case *ast.StructDecl:
			name = "struct " + k.Name
		case *ast.ClassDecl:
			name = "class " + k.Name
		case *ast.EnumDecl:
			name = "enum " + k.Name
		case *ast.TraitDecl:
			name = "trait " + k.Name
		default:
			continue
		}
		if seen[name] {
			l.warnf(e.Span, "duplicate declaration of %s", name)
		}
		seen[name] = true
	}
}

func (l *Linter) pushScope() {
	l.scopes = append(l.scopes, map[string]*binding{})
}

func (l *Linter) popScope() {
	top := l.scopes[len(l.scopes)-1]
	l.scopes = l.scopes[:len(l.scopes)-1]
	for name, b := range top {
		if !b.used && !strings.HasPrefix(name, "_") {
			l.warnf(b.span, "unused binding %q", name)
		}
	}
}

func (l *Linter) declare(name string, span token.Span) {
	if len(l.scopes) == 0 {
		return
	}
	l.scopes[len(l.scopes)-1][name] = &binding{span: span}
}

func (l *Linter) markUsed(name string) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if b, ok := l.scopes[i][name]; ok {
			b.used = true
			return
		}
	}
}

// diverges reports whether e unconditionally leaves the enclosing block.
func diverges(e *ast.Expr) bool {
	switch k := e.Kind.(type) {
	case *ast.Return, *ast.Break, *ast.Continue:
		return true
	case *ast.Block:
		for _, c := range k.Exprs {
			if diverges(c) {
				return true
			}
		}
	}
	return false
}

func (l *Linter) checkExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch k := e.Kind.(type) {
	case *ast.Identifier:
		l.markUsed(k.Name)
	case *ast.Let:
		l.checkExpr(k.Value)
		l.declare(k.Name, e.Span)
	case *ast.Assign:
		// The target of a plain assignment is a write, not a use; a
		// compound assignment reads it too.
		if k.Op != "=" {
			l.checkExpr(k.Target)
		} else if _, isIdent := k.Target.Kind.(*ast.Identifier); !isIdent {
			l.checkExpr(k.Target)
		}
		l.checkExpr(k.Value)
	case *ast.Block:
		l.pushScope()
		for i, c := range k.Exprs {
			l.checkExpr(c)
			if i < len(k.Exprs)-1 && diverges(c) {
				l.warnf(k.Exprs[i+1].Span, "unreachable statement")
			}
		}
		l.popScope()
	case *ast.Function:
		l.pushScope()
		for _, p := range k.Params {
			l.declare(p.Name, p.Span)
			l.markUsed(p.Name) // parameters are part of the signature, not lint fodder
		}
		l.checkExpr(k.Body)
		l.popScope()
	case *ast.Lambda:
		l.pushScope()
		for _, p := range k.Params {
			l.declare(p.Name, p.Span)
			l.markUsed(p.Name)
		}
		l.checkExpr(k.Body)
		l.popScope()
	case *ast.For:
		l.pushScope()
		declarePattern(l, k.Pattern)
		l.checkExpr(k.Iter)
		l.checkExpr(k.Body)
		l.popScope()
	case *ast.Match:
		l.checkExpr(k.Scrutinee)
		for _, arm := range k.Arms {
			l.pushScope()
			declarePattern(l, arm.Pattern)
			l.checkExpr(arm.Guard)
			l.checkExpr(arm.Body)
			l.popScope()
		}
	case *ast.ClassDecl:
		for _, m := range append(append([]*ast.Method{}, k.Constructors...), k.Methods...) {
			l.pushScope()
			for _, p := range m.Params {
				l.declare(p.Name, p.Span)
				l.markUsed(p.Name)
			}
			l.checkExpr(m.Body)
			l.popScope()
		}
	case *ast.ImplDecl:
		for _, m := range k.Methods {
			l.pushScope()
			for _, p := range m.Params {
				l.declare(p.Name, p.Span)
				l.markUsed(p.Name)
			}
			l.checkExpr(m.Body)
			l.popScope()
		}
	case *ast.TraitDecl:
		for _, m := range k.Methods {
			if m.Body != nil {
				l.pushScope()
				for _, p := range m.Params {
					l.declare(p.Name, p.Span)
					l.markUsed(p.Name)
				}
				l.checkExpr(m.Body)
				l.popScope()
			}
		}
	default:
		// Everything else just recurses through its children.
		ast.Walk(usageWalker{l}, e)
	}
}

// checkFloat warns when a float literal's written digits do not survive a
// round trip through f64: the shortest decimal form of the parsed value
// differs from what was written, so the extra digits are silently lost. A
// literal such as 99.99, whose f64 prints back as 99.99, passes. The
// written digits are read through decimal so they are taken at face value
// rather than through a float64 round-trip.
func (l *Linter) checkFloat(lit *ast.FloatLit, span token.Span) {
	digits := strings.ReplaceAll(lit.Value, "_", "")
	written, err := decimal.NewFromString(digits)
	if err != nil {
		return
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return
	}
	if !decimal.NewFromFloat(f).Equal(written) {
		l.warnf(span, "float literal %s is not exactly representable as f64", lit.Value)
	}
}

// declarePattern introduces every identifier bound by a pattern, marking
// them used: a deliberately-unmatched binding in a pattern is a stylistic
// choice the wildcard form already covers.
func declarePattern(l *Linter, p *ast.Pattern) {
	if p == nil {
		return
	}
	switch k := p.Kind.(type) {
	case *ast.IdentifierPat:
		l.declare(k.Name, p.Span)
		l.markUsed(k.Name)
	case *ast.TuplePat:
		for _, sub := range k.Elements {
			declarePattern(l, sub)
		}
	case *ast.ListPat:
		for _, sub := range k.Elements {
			declarePattern(l, sub)
		}
		if k.Rest != nil && *k.Rest != "" {
			l.declare(*k.Rest, p.Span)
			l.markUsed(*k.Rest)
		}
	case *ast.StructPat:
		for _, f := range k.Fields {
			declarePattern(l, f.Pattern)
		}
	case *ast.EnumPat:
		for _, sub := range k.Inner {
			declarePattern(l, sub)
		}
	case *ast.OrPat:
		for _, sub := range k.Alternatives {
			declarePattern(l, sub)
		}
	case *ast.RefPat:
		declarePattern(l, k.Inner)
	}
}

// usageWalker marks identifier uses while recursing through expression
// forms the lint pass has no special handling for.
type usageWalker struct{ l *Linter }

func (u usageWalker) Visit(e *ast.Expr) ast.Visitor {
	if e == nil {
		return u
	}
	switch k := e.Kind.(type) {
	case *ast.Identifier:
		u.l.markUsed(k.Name)
	case *ast.FloatLit:
		u.l.checkFloat(k, e.Span)
	case *ast.Let, *ast.Block, *ast.Function, *ast.Lambda, *ast.For,
		*ast.Match, *ast.Assign:
		// Scope-introducing and write-target forms route back through
		// checkExpr so their bindings land in the right scope.
		u.l.checkExpr(e)
		return nil
	}
	return u
}
