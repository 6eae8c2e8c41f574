// Package solver provides the search collaborator behind the scheduling
// core: boolean and bounded-integer variables, linear constraints, and an
// optional linear objective to minimize. Callers configure only a random
// seed and a wall-clock budget; everything else is opaque.
package solver

import "math"

// Var identifies a variable within one Model.
type Var int

// Bound sentinels for one-sided linear constraints.
const (
	NoLower int64 = math.MinInt64 / 4
	NoUpper int64 = math.MaxInt64 / 4
)

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef int64
}

// LinearExpr is a sum of terms.
type LinearExpr struct {
	Terms []Term
}

// Sum builds a unit-coefficient expression over vars.
func Sum(vars ...Var) LinearExpr {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return LinearExpr{Terms: terms}
}

// Plus returns the expression extended by coef*v.
func (e LinearExpr) Plus(v Var, coef int64) LinearExpr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+1)
	copy(terms, e.Terms)
	return LinearExpr{Terms: append(terms, Term{Var: v, Coef: coef})}
}

type varDef struct {
	name   string
	lo, hi int64
	isBool bool
}

type linCon struct {
	terms  []Term
	lo, hi int64
}

// Model is a boolean-variable constraint system under construction.
// Not safe for concurrent use; discard after solving.
type Model struct {
	vars    []varDef
	cons    []linCon
	obj     []Term
	hasObj  bool
	invalid string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBool creates a boolean decision variable.
func (m *Model) NewBool(name string) Var {
	m.vars = append(m.vars, varDef{name: name, lo: 0, hi: 1, isBool: true})
	return Var(len(m.vars) - 1)
}

// NewInt creates a bounded integer variable. Integer variables are never
// branched on; their values follow from the boolean assignment.
func (m *Model) NewInt(name string, lo, hi int64) Var {
	if lo > hi {
		m.markInvalid("variable " + name + ": lower bound above upper")
	}
	m.vars = append(m.vars, varDef{name: name, lo: lo, hi: hi})
	return Var(len(m.vars) - 1)
}

// AddLinear constrains lo <= expr <= hi. Use NoLower/NoUpper for one-sided
// constraints.
func (m *Model) AddLinear(e LinearExpr, lo, hi int64) {
	if lo > hi {
		m.markInvalid("constraint with inverted bounds")
	}
	for _, t := range e.Terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			m.markInvalid("constraint references unknown variable")
		}
	}
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	m.cons = append(m.cons, linCon{terms: terms, lo: lo, hi: hi})
}

// FixZero pins a variable to zero.
func (m *Model) FixZero(v Var) {
	m.AddLinear(Sum(v), 0, 0)
}

// Minimize appends terms to the objective. Multiple calls accumulate, so
// independently-authored builders can each contribute penalty terms.
func (m *Model) Minimize(e LinearExpr) {
	if len(e.Terms) == 0 {
		return
	}
	m.hasObj = true
	m.obj = append(m.obj, e.Terms...)
}

// HasObjective reports whether any penalty terms were registered.
func (m *Model) HasObjective() bool { return m.hasObj }

// NumVars returns the variable count, for diagnostics.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the constraint count, for diagnostics.
func (m *Model) NumConstraints() int { return len(m.cons) }

func (m *Model) markInvalid(msg string) {
	if m.invalid == "" {
		m.invalid = msg
	}
}
