package ast

// Visitor is implemented by AST passes. Visit is invoked for every Expr
// node in depth-first order; if it returns a non-nil Visitor, Walk
// continues into that node's children with the returned visitor, then
// calls Visit(nil) to signal the node is finished — the same contract as
// go/ast.Visitor. The type switch in walkChildren is the one place that
// must be kept in sync with new Kind variants.
type Visitor interface {
	Visit(e *Expr) Visitor
}

// Walk traverses e and its children in depth-first order, calling
// v.Visit for each node.
func Walk(v Visitor, e *Expr) {
	if e == nil || v == nil {
		return
	}
	v2 := v.Visit(e)
	if v2 == nil {
		return
	}
	walkChildren(v2, e)
	v2.Visit(nil)
}

func walkChildren(v Visitor, e *Expr) {
	switch k := e.Kind.(type) {
	case *StringInterpolation:
		for _, p := range k.Parts {
			Walk(v, p.Expr)
		}
	case *Binary:
		Walk(v, k.Left)
		Walk(v, k.Right)
	case *Unary:
		Walk(v, k.Operand)
	case *Assign:
		Walk(v, k.Target)
		Walk(v, k.Value)
	case *Let:
		Walk(v, k.Value)
		Walk(v, k.Body)
	case *Block:
		for _, c := range k.Exprs {
			Walk(v, c)
		}
	case *If:
		Walk(v, k.Cond)
		Walk(v, k.Then)
		Walk(v, k.Else)
	case *Ternary:
		Walk(v, k.Cond)
		Walk(v, k.Then)
		Walk(v, k.Else)
	case *Match:
		Walk(v, k.Scrutinee)
		for _, arm := range k.Arms {
			Walk(v, arm.Guard)
			Walk(v, arm.Body)
		}
	case *While:
		Walk(v, k.Cond)
		Walk(v, k.Body)
	case *For:
		Walk(v, k.Iter)
		Walk(v, k.Body)
	case *Loop:
		Walk(v, k.Body)
	case *Break:
		Walk(v, k.Value)
	case *Return:
		Walk(v, k.Value)
	case *Lambda:
		Walk(v, k.Body)
	case *Function:
		Walk(v, k.Body)
	case *Call:
		Walk(v, k.Callee)
		for _, a := range k.Args {
			Walk(v, a)
		}
	case *MethodCall:
		Walk(v, k.Receiver)
		for _, a := range k.Args {
			Walk(v, a)
		}
	case *FieldAccess:
		Walk(v, k.Object)
	case *IndexAccess:
		Walk(v, k.Object)
		Walk(v, k.Index)
	case *SliceExpr:
		Walk(v, k.Object)
		Walk(v, k.Start)
		Walk(v, k.End)
	case *RangeExpr:
		Walk(v, k.Start)
		Walk(v, k.End)
	case *ClassDecl:
		for _, m := range k.Methods {
			Walk(v, m.Body)
		}
		for _, m := range k.Constructors {
			Walk(v, m.Body)
		}
	case *TraitDecl:
		for _, m := range k.Methods {
			Walk(v, m.Body)
		}
	case *ImplDecl:
		for _, m := range k.Methods {
			Walk(v, m.Body)
		}
	case *ObjectLiteral:
		for _, f := range k.Fields {
			Walk(v, f.Value)
		}
	case *ListLiteral:
		for _, e := range k.Elements {
			Walk(v, e)
		}
	case *TupleLiteral:
		for _, e := range k.Elements {
			Walk(v, e)
		}
	case *SetLiteral:
		for _, e := range k.Elements {
			Walk(v, e)
		}
	case *DictLiteral:
		for _, e := range k.Entries {
			Walk(v, e.Key)
			Walk(v, e.Value)
		}
	case *Comprehension:
		Walk(v, k.Element)
		Walk(v, k.Key)
		for _, c := range k.Clauses {
			Walk(v, c.Source)
		}
	case *MacroInvocation:
		for _, a := range k.Args {
			Walk(v, a)
		}
	case *Try:
		Walk(v, k.Expr)
	case *Await:
		Walk(v, k.Expr)
	}
}
