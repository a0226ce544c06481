package eqn

import "fmt"

// SyntaxError reports a malformed equation, naming the offending token and
// its position in the source string.
type SyntaxError struct {
	Equation string
	Pos      int
	Token    string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at offset %d near %q: %s", e.Equation, e.Pos, e.Token, e.Msg)
}

// UnresolvedError reports an identifier that does not resolve against the
// provided symbol table.
type UnresolvedError struct {
	Equation string
	Name     string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved reference %q in %q", e.Name, e.Equation)
}

// node is a compiled expression tree element. Evaluation reads from a flat
// value vector indexed by slot, so the hot path never touches a map.
type node interface {
	eval(vals []float64) float64
}

type numberNode struct {
	value float64
}

func (n *numberNode) eval([]float64) float64 { return n.value }

type varNode struct {
	name string
	slot int // index into the value vector, assigned by Bind
}

func (n *varNode) eval(vals []float64) float64 { return vals[n.slot] }

type negNode struct {
	operand node
}

func (n *negNode) eval(vals []float64) float64 { return -n.operand.eval(vals) }

type binaryNode struct {
	op          byte // one of + - * /
	left, right node
}

func (n *binaryNode) eval(vals []float64) float64 {
	l := n.left.eval(vals)
	r := n.right.eval(vals)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	default:
		// Division by zero yields ±Inf or NaN, which the engine detects as
		// numerical divergence; the evaluator itself never faults.
		return l / r
	}
}

type callNode struct {
	fn   *Function
	args []node
}

func (n *callNode) eval(vals []float64) float64 {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		args[i] = a.eval(vals)
	}
	return n.fn.apply(args)
}

// Expr is a parsed equation. Before evaluation it must be bound to a symbol
// table with Bind; Eval is then a pure function of the value vector.
type Expr struct {
	Source string
	root   node
	vars   []*varNode
	names  []string // unique referenced identifiers, in order of first use
}

// Vars returns the identifiers the expression references, in order of first
// appearance. Function names and literals are not included.
func (e *Expr) Vars() []string {
	return e.names
}

// Bind resolves every identifier reference to its slot in the value vector.
// It fails with *UnresolvedError on the first name missing from symbols.
func (e *Expr) Bind(symbols map[string]int) error {
	for _, v := range e.vars {
		slot, ok := symbols[v.name]
		if !ok {
			return &UnresolvedError{Equation: e.Source, Name: v.name}
		}
		v.slot = slot
	}
	return nil
}

// Eval computes the expression value against the given value vector. The
// expression must have been bound first. Non-finite results are returned
// as-is; detecting them is the caller's responsibility.
func (e *Expr) Eval(vals []float64) float64 {
	return e.root.eval(vals)
}
