package visitors

import (
	"encoding/json"

	"github.com/ruchy-lang/ruchy/pkg/ast"
)

// FileJSON renders file as a machine-readable JSON tree for tooling
// (`ruchy ast --json`).
func FileJSON(f *ast.File) ([]byte, error) {
	exprs := make([]map[string]any, 0, len(f.Exprs))
	for _, e := range f.Exprs {
		exprs = append(exprs, exprJSON(e))
	}
	return json.MarshalIndent(map[string]any{
		"file":  f.Name,
		"exprs": exprs,
	}, "", "  ")
}

func exprJSON(e *ast.Expr) map[string]any {
	if e == nil {
		return nil
	}
	m := map[string]any{
		"span": []int{e.Span.Start, e.Span.End},
	}
	switch k := e.Kind.(type) {
	case *ast.IntegerLit:
		m["node"] = "integer"
		m["value"] = k.Value
		if k.Suffix != "" {
			m["suffix"] = k.Suffix
		}
	case *ast.FloatLit:
		m["node"] = "float"
		m["value"] = k.Value
		if k.Suffix != "" {
			m["suffix"] = k.Suffix
		}
	case *ast.StringLit:
		m["node"] = "string"
		m["value"] = k.Value
	case *ast.CharLit:
		m["node"] = "char"
		m["value"] = string(k.Value)
	case *ast.BoolLit:
		m["node"] = "bool"
		m["value"] = k.Value
	case *ast.UnitLit:
		m["node"] = "unit"
	case *ast.NilLit:
		m["node"] = "nil"
	case *ast.StringInterpolation:
		m["node"] = "fstring"
		var parts []any
		for _, p := range k.Parts {
			if p.Expr != nil {
				parts = append(parts, exprJSON(p.Expr))
			} else {
				parts = append(parts, p.Text)
			}
		}
		m["parts"] = parts
	case *ast.Identifier:
		m["node"] = "identifier"
		m["name"] = k.Name
	case *ast.QualifiedName:
		m["node"] = "qualified"
		m["module"] = k.Module
		m["name"] = k.Name
	case *ast.Binary:
		m["node"] = "binary"
		m["op"] = k.Op
		m["left"] = exprJSON(k.Left)
		m["right"] = exprJSON(k.Right)
	case *ast.Unary:
		m["node"] = "unary"
		m["op"] = k.Op
		m["operand"] = exprJSON(k.Operand)
	case *ast.Assign:
		m["node"] = "assign"
		m["op"] = k.Op
		m["target"] = exprJSON(k.Target)
		m["value"] = exprJSON(k.Value)
	case *ast.Let:
		m["node"] = "let"
		m["name"] = k.Name
		m["mutable"] = k.IsMutable
		m["value"] = exprJSON(k.Value)
	case *ast.Block:
		m["node"] = "block"
		m["exprs"] = exprListJSON(k.Exprs)
	case *ast.If:
		m["node"] = "if"
		m["cond"] = exprJSON(k.Cond)
		m["then"] = exprJSON(k.Then)
		if k.Else != nil {
			m["else"] = exprJSON(k.Else)
		}
	case *ast.Match:
		m["node"] = "match"
		m["scrutinee"] = exprJSON(k.Scrutinee)
		var arms []any
		for _, arm := range k.Arms {
			a := map[string]any{
				"pattern": patternSummary(arm.Pattern),
				"body":    exprJSON(arm.Body),
			}
			if arm.Guard != nil {
				a["guard"] = exprJSON(arm.Guard)
			}
			arms = append(arms, a)
		}
		m["arms"] = arms
	case *ast.While:
		m["node"] = "while"
		m["cond"] = exprJSON(k.Cond)
		m["body"] = exprJSON(k.Body)
	case *ast.For:
		m["node"] = "for"
		m["pattern"] = patternSummary(k.Pattern)
		m["iter"] = exprJSON(k.Iter)
		m["body"] = exprJSON(k.Body)
	case *ast.Loop:
		m["node"] = "loop"
		m["body"] = exprJSON(k.Body)
	case *ast.Return:
		m["node"] = "return"
		if k.Value != nil {
			m["value"] = exprJSON(k.Value)
		}
	case *ast.Function:
		m["node"] = "function"
		m["name"] = k.Name
		m["async"] = k.IsAsync
		var params []string
		for _, p := range k.Params {
			params = append(params, p.Name)
		}
		m["params"] = params
		m["body"] = exprJSON(k.Body)
	case *ast.Lambda:
		m["node"] = "lambda"
		m["body"] = exprJSON(k.Body)
	case *ast.Call:
		m["node"] = "call"
		m["callee"] = exprJSON(k.Callee)
		m["args"] = exprListJSON(k.Args)
	case *ast.MethodCall:
		m["node"] = "method_call"
		m["method"] = k.Method
		m["receiver"] = exprJSON(k.Receiver)
		m["args"] = exprListJSON(k.Args)
	case *ast.FieldAccess:
		m["node"] = "field"
		m["field"] = k.Field
		m["object"] = exprJSON(k.Object)
	case *ast.IndexAccess:
		m["node"] = "index"
		m["object"] = exprJSON(k.Object)
		m["index"] = exprJSON(k.Index)
	case *ast.MacroInvocation:
		m["node"] = "macro"
		m["name"] = k.Name
		m["args"] = exprListJSON(k.Args)
	case *ast.StructDecl:
		m["node"] = "struct"
		m["name"] = k.Name
	case *ast.ClassDecl:
		m["node"] = "class"
		m["name"] = k.Name
		if k.Superclass != "" {
			m["superclass"] = k.Superclass
		}
	case *ast.EnumDecl:
		m["node"] = "enum"
		m["name"] = k.Name
	case *ast.TraitDecl:
		m["node"] = "trait"
		m["name"] = k.Name
	case *ast.ImplDecl:
		m["node"] = "impl"
		m["type"] = k.Type
		if k.Trait != "" {
			m["trait"] = k.Trait
		}
	case *ast.Import:
		m["node"] = "import"
		m["path"] = k.Path
	case *ast.UseStatement:
		m["node"] = "use"
		m["path"] = k.Path
	case *ast.ListLiteral:
		m["node"] = "list"
		m["elements"] = exprListJSON(k.Elements)
	case *ast.TupleLiteral:
		m["node"] = "tuple"
		m["elements"] = exprListJSON(k.Elements)
	case *ast.Try:
		m["node"] = "try"
		m["expr"] = exprJSON(k.Expr)
	case *ast.Await:
		m["node"] = "await"
		m["expr"] = exprJSON(k.Expr)
	default:
		m["node"] = "expr"
	}
	return m
}

func exprListJSON(exprs []*ast.Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, exprJSON(e))
	}
	return out
}
