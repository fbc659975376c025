package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/transpiler/rustgen"
)

// emitType renders a type annotation as Rust source. lifetime, when
// non-empty, is spliced into any &str occurrence found directly (not
// through a generic) so struct fields can pick up a synthesized lifetime
// parameter.
func emitType(t *ast.Type, lifetime string) string {
	if t == nil {
		return "()"
	}
	switch k := t.Kind.(type) {
	case *ast.NamedType:
		path := rustgen.SanitizePath(k.Path)
		if len(k.Generics) == 0 {
			return path
		}
		parts := make([]string, len(k.Generics))
		for i, g := range k.Generics {
			parts[i] = emitType(g, lifetime)
		}
		return path + "<" + strings.Join(parts, ", ") + ">"
	case *ast.TupleType:
		if len(k.Elements) == 0 {
			return "()"
		}
		parts := make([]string, len(k.Elements))
		for i, e := range k.Elements {
			parts[i] = emitType(e, lifetime)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ArrayType:
		elem := emitType(k.Elem, lifetime)
		if k.Size == nil {
			return "[" + elem + "]"
		}
		return "[" + elem + "; " + constExprString(k.Size) + "]"
	case *ast.SliceType:
		return "&[" + emitType(k.Elem, lifetime) + "]"
	case *ast.RefType:
		elem := emitType(k.Elem, lifetime)
		if isBareStr(k.Elem) && lifetime != "" {
			elem = "str"
			if k.Mutable {
				return "&'" + lifetime + " mut " + elem
			}
			return "&'" + lifetime + " " + elem
		}
		if k.Mutable {
			return "&mut " + elem
		}
		return "&" + elem
	case *ast.FuncType:
		parts := make([]string, len(k.Params))
		for i, p := range k.Params {
			parts[i] = emitType(p, lifetime)
		}
		ret := "()"
		if k.Return != nil {
			ret = emitType(k.Return, lifetime)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + ret
	case *ast.SelfTypeNode:
		return "Self"
	case *ast.PlaceholderType:
		return "_"
	default:
		return "_"
	}
}

// constExprString renders the size expression of an array type, which the
// grammar only ever admits as an integer literal or a named constant.
func constExprString(e *ast.Expr) string {
	switch k := e.Kind.(type) {
	case *ast.IntegerLit:
		return k.Value
	case *ast.Identifier:
		return rustgen.SanitizeIdent(k.Name)
	default:
		return "_"
	}
}

func isBareStr(t *ast.Type) bool {
	nt, ok := t.Kind.(*ast.NamedType)
	return ok && nt.Path == "str" && len(nt.Generics) == 0
}

// needsLifetime reports whether a struct needs a synthesized 'a lifetime:
// any field types through &str.
func needsLifetime(fields []*ast.Field) bool {
	for _, f := range fields {
		if ref, ok := f.Type.Kind.(*ast.RefType); ok && isBareStr(ref.Elem) {
			return true
		}
	}
	return false
}
