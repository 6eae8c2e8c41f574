package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_SimpleSatisfiable(t *testing.T) {
	m := NewModel()
	a := m.NewBool("a")
	b := m.NewBool("b")
	m.AddLinear(Sum(a, b), 1, 1)

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	require.Equal(t, Optimal, res.Status)
	assert.Equal(t, int64(1), res.Value(a)+res.Value(b))
}

func TestSolve_Infeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBool("a")
	m.AddLinear(Sum(a), 1, 1)
	m.FixZero(a)

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	assert.Equal(t, Infeasible, res.Status)
	assert.Nil(t, res.Values)
}

func TestSolve_ModelInvalid(t *testing.T) {
	m := NewModel()
	a := m.NewBool("a")
	m.AddLinear(Sum(a), 2, 1)

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	assert.Equal(t, ModelInvalid, res.Status)
}

func TestSolve_MinimizesPenalty(t *testing.T) {
	// Three booleans, at least two set, each set one costs 1.
	m := NewModel()
	a := m.NewBool("a")
	b := m.NewBool("b")
	c := m.NewBool("c")
	m.AddLinear(Sum(a, b, c), 2, NoUpper)
	m.Minimize(Sum(a, b, c))

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	require.Equal(t, Optimal, res.Status)
	require.True(t, res.HasObjective)
	assert.Equal(t, float64(2), res.Objective)
}

func TestSolve_IntSlackCompletion(t *testing.T) {
	// Under-target slack: sum + u >= 3 with both bools forced off, so the
	// solver must set u = 3 and pay for it.
	m := NewModel()
	a := m.NewBool("a")
	b := m.NewBool("b")
	u := m.NewInt("u", 0, 10)
	m.FixZero(a)
	m.FixZero(b)
	m.AddLinear(Sum(a, b).Plus(u, 1), 3, NoUpper)
	m.Minimize(LinearExpr{}.Plus(u, 100))

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	require.Equal(t, Optimal, res.Status)
	assert.Equal(t, int64(3), res.Value(u))
	assert.Equal(t, float64(300), res.Objective)
}

func TestSolve_ReifiedPairEncoding(t *testing.T) {
	// r == 1 iff none of the k sessions are worked, via the linear pair
	// s + k*r <= k and s + r >= 1. Force both sessions off and check the
	// indicator comes out set.
	m := NewModel()
	s1 := m.NewBool("s1")
	s2 := m.NewBool("s2")
	r := m.NewBool("r")
	sessions := Sum(s1, s2)
	m.AddLinear(sessions.Plus(r, 2), NoLower, 2)
	m.AddLinear(sessions.Plus(r, 1), 1, NoUpper)
	m.FixZero(s1)
	m.FixZero(s2)
	m.Minimize(Sum(r)) // pressure against r, constraints must win

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	require.Equal(t, Optimal, res.Status)
	assert.True(t, res.BoolValue(r))
}

func TestSolve_DeterministicForSeed(t *testing.T) {
	build := func() (*Model, []Var) {
		m := NewModel()
		var vars []Var
		for i := 0; i < 8; i++ {
			vars = append(vars, m.NewBool("v"))
		}
		m.AddLinear(Sum(vars...), 3, 3)
		return m, vars
	}

	m1, v1 := build()
	m2, v2 := build()
	r1 := Solver{Seed: 7}.Solve(context.Background(), m1)
	r2 := Solver{Seed: 7}.Solve(context.Background(), m2)
	require.Equal(t, Optimal, r1.Status)
	require.Equal(t, Optimal, r2.Status)
	for i := range v1 {
		assert.Equal(t, r1.Value(v1[i]), r2.Value(v2[i]))
	}
}

func TestSolve_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewModel()
	var vars []Var
	for i := 0; i < 30; i++ {
		vars = append(vars, m.NewBool("v"))
	}
	m.AddLinear(Sum(vars...), 15, 15)
	m.Minimize(Sum(vars[0], vars[1]))

	res := Solver{Seed: 42, TimeLimit: time.Minute}.Solve(ctx, m)
	assert.Contains(t, []Status{Feasible, Unknown, Optimal}, res.Status)
}

func TestSolve_CountsBranches(t *testing.T) {
	m := NewModel()
	a := m.NewBool("a")
	b := m.NewBool("b")
	m.AddLinear(Sum(a, b), 1, 1)
	m.Minimize(Sum(a))

	res := Solver{Seed: 42}.Solve(context.Background(), m)
	require.Equal(t, Optimal, res.Status)
	assert.Greater(t, res.Branches, int64(0))
}
