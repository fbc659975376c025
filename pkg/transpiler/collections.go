package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
)

func isStringKey(e *ast.Expr) bool {
	_, ok := e.Kind.(*ast.StringLit)
	return ok
}

// emitIndex lowers m[k]: a string key goes through the map
// API with a panic on absence, a numeric key indexes with `as usize`.
func (t *Transpiler) emitIndex(i *ast.IndexAccess) (string, error) {
	obj, err := t.operandString(i.Object)
	if err != nil {
		return "", err
	}
	idx, err := t.exprString(i.Index)
	if err != nil {
		return "", err
	}
	if isStringKey(i.Index) {
		return obj + ".get(" + idx + ").cloned().unwrap_or_else(|| panic!(\"key not found: {}\", " + idx + "))", nil
	}
	return obj + "[" + idx + " as usize]", nil
}

func (t *Transpiler) emitSlice(s *ast.SliceExpr) (string, error) {
	obj, err := t.operandString(s.Object)
	if err != nil {
		return "", err
	}
	lo, hi := "", ""
	if s.Start != nil {
		v, err := t.exprString(s.Start)
		if err != nil {
			return "", err
		}
		lo = v + " as usize"
	}
	if s.End != nil {
		v, err := t.exprString(s.End)
		if err != nil {
			return "", err
		}
		hi = v + " as usize"
	}
	return "&" + obj + "[" + lo + ".." + hi + "]", nil
}

// emitObjectLiteral lowers `Name { f: v }` to a Rust struct literal and an
// anonymous `{k: v}` to a HashMap insertion sequence preserving insertion
// order.
func (t *Transpiler) emitObjectLiteral(o *ast.ObjectLiteral) (string, error) {
	if o.TypeName != "" {
		var fields []string
		for _, f := range o.Fields {
			v, err := t.exprString(f.Value)
			if err != nil {
				return "", err
			}
			fields = append(fields, ident(f.Key)+": "+v)
		}
		return ident(o.TypeName) + " { " + strings.Join(fields, ", ") + " }", nil
	}

	var lines []string
	lines = append(lines, "let mut map = std::collections::HashMap::new();")
	for _, f := range o.Fields {
		v, err := t.exprString(f.Value)
		if err != nil {
			return "", err
		}
		lines = append(lines, "map.insert("+rustStringLiteral(f.Key)+".to_string(), "+v+");")
	}
	lines = append(lines, "map")
	return "{\n" + indent(strings.Join(lines, "\n")) + "\n}", nil
}

// emitListLiteral renders [a, b, c] as vec![…] by default, or as a Rust
// array when the binding's annotation demands fixed size.
func (t *Transpiler) emitListLiteral(l *ast.ListLiteral, fixedSize bool) (string, error) {
	var elems []string
	for _, e := range l.Elements {
		s, err := t.exprString(e)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
	}
	if fixedSize {
		return "[" + strings.Join(elems, ", ") + "]", nil
	}
	return "vec![" + strings.Join(elems, ", ") + "]", nil
}

func (t *Transpiler) emitTupleLiteral(tp *ast.TupleLiteral) (string, error) {
	var elems []string
	for _, e := range tp.Elements {
		s, err := t.exprString(e)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
	}
	if len(elems) == 1 {
		return "(" + elems[0] + ",)", nil
	}
	return "(" + strings.Join(elems, ", ") + ")", nil
}

func (t *Transpiler) emitSetLiteral(s *ast.SetLiteral) (string, error) {
	var elems []string
	for _, e := range s.Elements {
		v, err := t.exprString(e)
		if err != nil {
			return "", err
		}
		elems = append(elems, v)
	}
	return "std::collections::HashSet::from([" + strings.Join(elems, ", ") + "])", nil
}

func (t *Transpiler) emitDictLiteral(d *ast.DictLiteral) (string, error) {
	var lines []string
	lines = append(lines, "let mut map = std::collections::HashMap::new();")
	for _, entry := range d.Entries {
		k, err := t.exprString(entry.Key)
		if err != nil {
			return "", err
		}
		v, err := t.exprString(entry.Value)
		if err != nil {
			return "", err
		}
		lines = append(lines, "map.insert("+k+", "+v+");")
	}
	lines = append(lines, "map")
	return "{\n" + indent(strings.Join(lines, "\n")) + "\n}", nil
}

// emitComprehension lowers list/set/dict comprehensions to iterator chains:
// each `for` clause is an into_iter (nested ones via flat_map), each `if`
// clause a filter, the element a final map, then a collect into the target
// container.
func (t *Transpiler) emitComprehension(c *ast.Comprehension) (string, error) {
	if len(c.Clauses) == 0 || c.Clauses[0].Kind != ast.ClauseFor {
		return "", t.errf("comprehension must start with a for clause")
	}

	element, err := t.exprString(c.Element)
	if err != nil {
		return "", err
	}
	if c.Kind == ast.ComprehensionDict {
		key, err := t.exprString(c.Key)
		if err != nil {
			return "", err
		}
		element = "(" + key + ", " + element + ")"
	}

	chain, err := t.comprehensionChain(c.Clauses, element)
	if err != nil {
		return "", err
	}

	switch c.Kind {
	case ast.ComprehensionList:
		return chain + ".collect::<Vec<_>>()", nil
	case ast.ComprehensionSet:
		return chain + ".collect::<std::collections::HashSet<_>>()", nil
	default:
		return chain + ".collect::<std::collections::HashMap<_, _>>()", nil
	}
}

// comprehensionChain builds the iterator pipeline for one `for` clause and
// everything after it; a later `for` clause nests via flat_map so each
// outer element fans out into the inner iteration.
func (t *Transpiler) comprehensionChain(clauses []ast.ComprehensionClause, element string) (string, error) {
	head := clauses[0]
	pat, err := t.patternString(head.Pattern)
	if err != nil {
		return "", err
	}
	src, err := t.operandString(head.Source)
	if err != nil {
		return "", err
	}
	chain := src + ".into_iter()"

	for i := 1; i < len(clauses); i++ {
		cl := clauses[i]
		if cl.Kind == ast.ClauseIf {
			cond, err := t.exprString(cl.Source)
			if err != nil {
				return "", err
			}
			chain += ".filter(|" + pat + "| " + cond + ")"
			continue
		}
		inner, err := t.comprehensionChain(clauses[i:], element)
		if err != nil {
			return "", err
		}
		return chain + ".flat_map(move |" + pat + "| " + inner + ")", nil
	}
	return chain + ".map(|" + pat + "| " + element + ")", nil
}
