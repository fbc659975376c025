package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ast"
	"github.com/ruchy-lang/ruchy/pkg/transpiler/rustgen"
)

func attrString(a ast.Attribute) string {
	if len(a.Args) == 0 {
		return "#[" + a.Name + "]"
	}
	return "#[" + a.Name + "(" + strings.Join(a.Args, ", ") + ")]"
}

func genericsString(generics []string) string {
	if len(generics) == 0 {
		return ""
	}
	return "<" + strings.Join(generics, ", ") + ">"
}

func (t *Transpiler) emitFunctionItem(fn *ast.Function) (string, error) {
	var b strings.Builder
	for _, a := range fn.Attributes {
		b.WriteString(attrString(a) + "\n")
	}
	b.WriteString(visibilityKeyword(fn.Visibility))
	if fn.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("fn " + ident(fn.Name) + genericsString(fn.Generics))

	params, err := t.paramStrings(fn.Params)
	if err != nil {
		return "", err
	}
	b.WriteString("(" + strings.Join(params, ", ") + ")")

	// main never receives an explicit return type.
	if fn.ReturnType != nil && fn.Name != "main" {
		b.WriteString(" -> " + emitType(fn.ReturnType, ""))
	}

	body, err := t.blockString(fn.Body)
	if err != nil {
		return "", err
	}
	b.WriteString(" " + body)
	return b.String(), nil
}

func (t *Transpiler) paramStrings(params []*ast.Param) ([]string, error) {
	var out []string
	for _, p := range params {
		if p.Name == "self" {
			out = append(out, "&self")
			continue
		}
		typ := "impl std::fmt::Display"
		if p.TypeAnnotation != nil {
			typ = emitType(p.TypeAnnotation, "")
		}
		out = append(out, ident(p.Name)+": "+typ)
	}
	return out, nil
}

// structHeader emits the struct declaration shared by struct and class
// lowering, synthesizing an 'a lifetime when any field goes through &str.
func (t *Transpiler) structHeader(name string, vis ast.Visibility, generics []string, fields []*ast.Field) string {
	lifetime := ""
	if needsLifetime(fields) {
		lifetime = "a"
	}

	var typeParams []string
	if lifetime != "" {
		typeParams = append(typeParams, "'"+lifetime)
	}
	typeParams = append(typeParams, generics...)

	var b strings.Builder
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(visibilityKeyword(vis))
	b.WriteString("struct " + ident(name))
	if len(typeParams) > 0 {
		b.WriteString("<" + strings.Join(typeParams, ", ") + ">")
	}
	b.WriteString(" {\n")
	var lines []string
	for _, f := range fields {
		lines = append(lines, visibilityKeyword(f.Visibility)+ident(f.Name)+": "+emitType(f.Type, lifetime)+",")
	}
	b.WriteString(indent(strings.Join(lines, "\n")))
	b.WriteString("\n}")
	return b.String()
}

func (t *Transpiler) emitStructItem(s *ast.StructDecl) (string, error) {
	return t.structHeader(s.Name, s.Visibility, s.Generics, s.Fields), nil
}

// flattenFields returns the union of superclass and own fields, parents
// first in source order: inheritance is collapsed to field flattening,
// with no embedded parent value and no dynamic dispatch.
func (t *Transpiler) flattenFields(c *ast.ClassDecl) []*ast.Field {
	if c.Superclass == "" {
		return c.Fields
	}
	parent, ok := t.classes[c.Superclass]
	if !ok {
		return c.Fields
	}
	inherited := t.flattenFields(parent)
	out := make([]*ast.Field, 0, len(inherited)+len(c.Fields))
	out = append(out, inherited...)
	out = append(out, c.Fields...)
	return out
}

// emitClassItem lowers a class to a struct plus one impl block. Inherited
// fields are flattened in, constructors become associated functions
// returning Self, static methods drop the receiver, and override is a
// documentation marker with no emission weight.
func (t *Transpiler) emitClassItem(c *ast.ClassDecl) (string, error) {
	fields := t.flattenFields(c)
	out := t.structHeader(c.Name, c.Visibility, c.Generics, fields)

	if len(c.Constructors) == 0 && len(c.Methods) == 0 {
		return out, nil
	}

	var members []string
	for _, ctor := range c.Constructors {
		s, err := t.emitConstructor(c, fields, ctor)
		if err != nil {
			return "", err
		}
		members = append(members, s)
	}
	for _, m := range c.Methods {
		s, err := t.emitMethod(m, true)
		if err != nil {
			return "", err
		}
		members = append(members, s)
	}

	generics := genericsString(c.Generics)
	out += "\n\nimpl" + generics + " " + ident(c.Name) + generics + " {\n"
	out += indent(strings.Join(members, "\n\n"))
	out += "\n}"
	return out, nil
}

// emitConstructor rewrites a constructor body's `self.field = value`
// assignments into a `Self { field: value, … }` literal; any other
// statements run before it in source order.
func (t *Transpiler) emitConstructor(c *ast.ClassDecl, fields []*ast.Field, ctor *ast.Method) (string, error) {
	var inits []string
	var stmts []string

	bodyExprs := []*ast.Expr{ctor.Body}
	if blk, ok := ctor.Body.Kind.(*ast.Block); ok {
		bodyExprs = blk.Exprs
	}
	for _, e := range bodyExprs {
		if assign, ok := e.Kind.(*ast.Assign); ok && assign.Op == "=" {
			if fa, ok := assign.Target.Kind.(*ast.FieldAccess); ok {
				if _, isSelf := fa.Object.Kind.(*ast.Identifier); isSelf && isSelfIdent(fa.Object) {
					v, err := t.exprString(assign.Value)
					if err != nil {
						return "", err
					}
					inits = append(inits, ident(fa.Field)+": "+v+",")
					continue
				}
			}
		}
		s, err := t.EmitStatement(e)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, s)
	}

	params, err := t.paramStrings(ctor.Params)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(visibilityKeyword(ctor.Visibility))
	if ctor.Visibility == ast.VisNone {
		b.WriteString("pub ")
	}
	b.WriteString("fn " + ident(ctor.Name) + "(" + strings.Join(params, ", ") + ") -> Self {\n")
	var lines []string
	lines = append(lines, stmts...)
	lines = append(lines, "Self {")
	lines = append(lines, indent(strings.Join(inits, "\n")))
	lines = append(lines, "}")
	b.WriteString(indent(strings.Join(lines, "\n")))
	b.WriteString("\n}")
	return b.String(), nil
}

func isSelfIdent(e *ast.Expr) bool {
	id, ok := e.Kind.(*ast.Identifier)
	return ok && id.Name == "self"
}

func selfParam(mode ast.SelfMode) string {
	switch mode {
	case ast.SelfValue:
		return "self"
	case ast.SelfRef:
		return "&self"
	case ast.SelfRefMut:
		return "&mut self"
	default:
		return ""
	}
}

// emitMethod lowers one method of a class or impl block. classMember
// methods without an explicit visibility default to pub, matching how a
// class surface is consumed from outside its module.
func (t *Transpiler) emitMethod(m *ast.Method, classMember bool) (string, error) {
	var b strings.Builder
	b.WriteString(visibilityKeyword(m.Visibility))
	if classMember && m.Visibility == ast.VisNone {
		b.WriteString("pub ")
	}
	b.WriteString("fn " + ident(m.Name) + genericsString(m.Generics) + "(")

	var params []string
	if !m.IsStatic {
		if sp := selfParam(m.SelfMode); sp != "" {
			params = append(params, sp)
		}
	}
	rest, err := t.paramStrings(m.Params)
	if err != nil {
		return "", err
	}
	params = append(params, rest...)
	b.WriteString(strings.Join(params, ", ") + ")")

	if m.ReturnType != nil {
		b.WriteString(" -> " + emitType(m.ReturnType, ""))
	}

	if m.Body == nil {
		b.WriteString(";")
		return b.String(), nil
	}
	body, err := t.blockString(m.Body)
	if err != nil {
		return "", err
	}
	b.WriteString(" " + body)
	return b.String(), nil
}

func (t *Transpiler) emitEnumItem(e *ast.EnumDecl) (string, error) {
	var b strings.Builder
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(visibilityKeyword(e.Visibility))
	b.WriteString("enum " + ident(e.Name) + genericsString(e.Generics) + " {\n")
	var lines []string
	for _, v := range e.Variants {
		switch v.Kind {
		case ast.VariantTuple:
			var types []string
			for _, tt := range v.TupleTypes {
				types = append(types, emitType(tt, ""))
			}
			lines = append(lines, ident(v.Name)+"("+strings.Join(types, ", ")+"),")
		case ast.VariantStruct:
			var fields []string
			for _, f := range v.Fields {
				fields = append(fields, ident(f.Name)+": "+emitType(f.Type, ""))
			}
			lines = append(lines, ident(v.Name)+" { "+strings.Join(fields, ", ")+" },")
		default:
			lines = append(lines, ident(v.Name)+",")
		}
	}
	b.WriteString(indent(strings.Join(lines, "\n")))
	b.WriteString("\n}")
	return b.String(), nil
}

func (t *Transpiler) emitTraitItem(tr *ast.TraitDecl) (string, error) {
	var b strings.Builder
	b.WriteString("trait " + ident(tr.Name) + genericsString(tr.Generics))
	if len(tr.Supertraits) > 0 {
		b.WriteString(": " + strings.Join(tr.Supertraits, " + "))
	}
	b.WriteString(" {\n")
	var lines []string
	for _, at := range tr.AssociatedTypes {
		lines = append(lines, "type "+ident(at.Name)+";")
	}
	for _, m := range tr.Methods {
		s, err := t.emitMethod(m, false)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	b.WriteString(indent(strings.Join(lines, "\n")))
	b.WriteString("\n}")
	return b.String(), nil
}

func (t *Transpiler) emitImplItem(im *ast.ImplDecl) (string, error) {
	var b strings.Builder
	b.WriteString("impl" + genericsString(im.Generics) + " ")
	if im.Trait != "" {
		b.WriteString(ident(im.Trait) + " for ")
	}
	b.WriteString(ident(im.Type) + " {\n")
	var members []string
	for _, m := range im.Methods {
		// Trait-impl methods never carry visibility; inherent ones
		// default to pub like class members.
		s, err := t.emitMethod(m, im.Trait == "")
		if err != nil {
			return "", err
		}
		members = append(members, s)
	}
	b.WriteString(indent(strings.Join(members, "\n\n")))
	b.WriteString("\n}")
	return b.String(), nil
}

func (t *Transpiler) emitUseItem(u *ast.UseStatement) string {
	path := rustgen.SanitizePath(u.Path)
	switch {
	case u.Wildcard:
		return "use " + path + "::*;"
	case len(u.Items) > 0:
		var items []string
		for _, it := range u.Items {
			s := ident(it.Name)
			if it.Alias != "" {
				s += " as " + ident(it.Alias)
			}
			items = append(items, s)
		}
		return "use " + path + "::{" + strings.Join(items, ", ") + "};"
	case u.Alias != "":
		return "use " + path + " as " + ident(u.Alias) + ";"
	default:
		return "use " + path + ";"
	}
}

// emitImportItem lowers a URL import. Module fetching is the resolver's
// concern, not the transpiler's, so the emitted program records the
// dependency as a comment rather than inventing a Rust use path for it.
func (t *Transpiler) emitImportItem(im *ast.Import) string {
	return "// import " + rustStringLiteral(im.Path)
}

// GlobalType resolves the Rust type for a top-level mutable let that is
// being lowered to a lock-guarded static. Only initializers whose type is
// decidable locally qualify; anything else stays a main-local binding.
func GlobalType(l *ast.Let) (string, bool) {
	if l.TypeAnnotation != nil {
		return emitType(l.TypeAnnotation, ""), true
	}
	switch k := l.Value.Kind.(type) {
	case *ast.IntegerLit:
		if k.Suffix != "" {
			return k.Suffix, true
		}
		return "i32", true
	case *ast.FloatLit:
		if k.Suffix != "" {
			return k.Suffix, true
		}
		return "f64", true
	case *ast.StringLit:
		return "String", true
	case *ast.BoolLit:
		return "bool", true
	}
	return "", false
}

// EmitGlobal lowers a top-level `let mut` into a process-wide static with
// init-on-first-use semantics and per-access locking.
func (t *Transpiler) EmitGlobal(l *ast.Let) (string, error) {
	typ, ok := GlobalType(l)
	if !ok {
		return "", t.errf("cannot determine a global type for %q", l.Name)
	}
	value, err := t.exprString(l.Value)
	if err != nil {
		return "", err
	}
	if typ == "String" {
		if _, isLit := l.Value.Kind.(*ast.StringLit); isLit {
			value += ".to_string()"
		}
	}
	name := ident(l.Name)
	return "#[allow(non_upper_case_globals)]\n" +
		"static " + name + ": std::sync::LazyLock<std::sync::Mutex<" + typ + ">> = " +
		"std::sync::LazyLock::new(|| std::sync::Mutex::new(" + value + "));", nil
}
