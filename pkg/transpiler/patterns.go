package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/transpiler/rustgen"
)

// patternString lowers a match/let/for pattern to Rust. The Ok/Err/Some/
// None shorthands already carry their Rust spelling; everything else maps
// one-to-one.
func (t *Transpiler) patternString(p *ast.Pattern) (string, error) {
	if p == nil {
		return "_", nil
	}
	switch k := p.Kind.(type) {
	case *ast.WildcardPat:
		return "_", nil
	case *ast.LiteralPat:
		return t.exprString(k.Literal)
	case *ast.IdentifierPat:
		if k.Ref {
			return "ref " + ident(k.Name), nil
		}
		return ident(k.Name), nil
	case *ast.TuplePat:
		parts, err := t.patternStrings(k.Elements)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case *ast.ListPat:
		parts, err := t.patternStrings(k.Elements)
		if err != nil {
			return "", err
		}
		if k.Rest != nil {
			if *k.Rest == "" {
				parts = append(parts, "..")
			} else {
				parts = append(parts, ident(*k.Rest)+" @ ..")
			}
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.StructPat:
		var fields []string
		for _, f := range k.Fields {
			sub, err := t.patternString(f.Pattern)
			if err != nil {
				return "", err
			}
			if idp, ok := f.Pattern.Kind.(*ast.IdentifierPat); ok && idp.Name == f.Name && !idp.Ref {
				fields = append(fields, ident(f.Name))
			} else {
				fields = append(fields, ident(f.Name)+": "+sub)
			}
		}
		if k.Rest {
			fields = append(fields, "..")
		}
		return rustgen.SanitizePath(k.Path) + " { " + strings.Join(fields, ", ") + " }", nil
	case *ast.EnumPat:
		inner, err := t.patternStrings(k.Inner)
		if err != nil {
			return "", err
		}
		if len(inner) == 0 {
			return rustgen.SanitizePath(k.Path), nil
		}
		return rustgen.SanitizePath(k.Path) + "(" + strings.Join(inner, ", ") + ")", nil
	case *ast.OrPat:
		parts, err := t.patternStrings(k.Alternatives)
		if err != nil {
			return "", err
		}
		return strings.Join(parts, " | "), nil
	case *ast.RangePat:
		lo, hi := "", ""
		var err error
		if k.Start != nil {
			lo, err = t.exprString(k.Start)
			if err != nil {
				return "", err
			}
		}
		if k.End != nil {
			hi, err = t.exprString(k.End)
			if err != nil {
				return "", err
			}
		}
		if k.Inclusive {
			return lo + "..=" + hi, nil
		}
		return lo + ".." + hi, nil
	case *ast.RefPat:
		inner, err := t.patternString(k.Inner)
		if err != nil {
			return "", err
		}
		return "&" + inner, nil
	case *ast.ConstPat:
		return rustgen.SanitizePath(k.Path), nil
	default:
		return "", t.errf("no Rust lowering for pattern %T", p.Kind)
	}
}

func (t *Transpiler) patternStrings(ps []*ast.Pattern) ([]string, error) {
	out := make([]string, len(ps))
	for i, p := range ps {
		s, err := t.patternString(p)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
