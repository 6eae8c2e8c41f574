package solver

import (
	"context"
	"math/rand"
	"time"
)

// Status is the solve outcome.
type Status string

const (
	Optimal      Status = "OPTIMAL"
	Feasible     Status = "FEASIBLE"
	Infeasible   Status = "INFEASIBLE"
	ModelInvalid Status = "MODEL_INVALID"
	Unknown      Status = "UNKNOWN"
)

// Result is the outcome of one solve.
type Result struct {
	Status       Status
	Values       []int64 // indexed by Var; nil unless Status is OPTIMAL or FEASIBLE
	Objective    float64
	HasObjective bool
	WallTime     time.Duration
	Branches     int64
	Conflicts    int64
}

// Value returns the solved value of v.
func (r Result) Value(v Var) int64 { return r.Values[v] }

// BoolValue returns the solved value of a boolean variable.
func (r Result) BoolValue(v Var) bool { return r.Values[v] == 1 }

// Solver solves models deterministically for a fixed seed, within a
// wall-clock budget.
type Solver struct {
	Seed      int64
	TimeLimit time.Duration
}

type search struct {
	m        *Model
	lo, hi   []int64
	trail    []trailEntry
	order    []int // boolean vars in branch order
	prefOne  []bool
	objCoef  []int64
	deadline time.Time
	ctx      context.Context

	best      []int64
	bestObj   int64
	hasBest   bool
	branches  int64
	conflicts int64
	timedOut  bool
	nodes     int64
}

type trailEntry struct {
	v            int
	oldLo, oldHi int64
}

// Solve runs the search. The zero TimeLimit means no limit.
func (s Solver) Solve(ctx context.Context, m *Model) Result {
	start := time.Now()
	if m.invalid != "" {
		return Result{Status: ModelInvalid, WallTime: time.Since(start)}
	}

	sr := &search{
		m:       m,
		lo:      make([]int64, len(m.vars)),
		hi:      make([]int64, len(m.vars)),
		objCoef: make([]int64, len(m.vars)),
		ctx:     ctx,
	}
	for i, v := range m.vars {
		sr.lo[i], sr.hi[i] = v.lo, v.hi
	}
	for _, t := range m.obj {
		sr.objCoef[t.Var] += t.Coef
	}
	if s.TimeLimit > 0 {
		sr.deadline = start.Add(s.TimeLimit)
	}

	// Deterministic branch order and value preference from the seed.
	rng := rand.New(rand.NewSource(s.Seed))
	for i, v := range m.vars {
		if v.isBool {
			sr.order = append(sr.order, i)
		}
	}
	rng.Shuffle(len(sr.order), func(i, j int) {
		sr.order[i], sr.order[j] = sr.order[j], sr.order[i]
	})
	sr.prefOne = make([]bool, len(m.vars))
	for _, i := range sr.order {
		sr.prefOne[i] = rng.Intn(2) == 1
	}

	rootOK := sr.propagate()
	if rootOK {
		sr.dfs()
	}

	res := Result{
		WallTime:     time.Since(start),
		Branches:     sr.branches,
		Conflicts:    sr.conflicts,
		HasObjective: m.hasObj,
	}
	switch {
	case sr.hasBest && !sr.timedOut:
		res.Status = Optimal
	case sr.hasBest:
		res.Status = Feasible
	case sr.timedOut:
		res.Status = Unknown
	default:
		res.Status = Infeasible
	}
	if sr.hasBest {
		res.Values = sr.best
		if m.hasObj {
			res.Objective = float64(sr.bestObj)
		}
	}
	return res
}

func (s *search) expired() bool {
	if s.timedOut {
		return true
	}
	s.nodes++
	if s.nodes%256 == 0 {
		if s.ctx.Err() != nil {
			s.timedOut = true
			return true
		}
	}
	if !s.deadline.IsZero() && s.nodes%64 == 0 && time.Now().After(s.deadline) {
		s.timedOut = true
		return true
	}
	return false
}

func (s *search) mark() int { return len(s.trail) }

func (s *search) undo(mark int) {
	for len(s.trail) > mark {
		e := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.lo[e.v], s.hi[e.v] = e.oldLo, e.oldHi
	}
}

func (s *search) setLo(v int, val int64) bool {
	if val <= s.lo[v] {
		return true
	}
	s.trail = append(s.trail, trailEntry{v, s.lo[v], s.hi[v]})
	s.lo[v] = val
	return s.lo[v] <= s.hi[v]
}

func (s *search) setHi(v int, val int64) bool {
	if val >= s.hi[v] {
		return true
	}
	s.trail = append(s.trail, trailEntry{v, s.lo[v], s.hi[v]})
	s.hi[v] = val
	return s.lo[v] <= s.hi[v]
}

// propagate runs bounds consistency over all constraints to a fixpoint.
// Returns false on conflict.
func (s *search) propagate() bool {
	for changed := true; changed; {
		changed = false
		for ci := range s.m.cons {
			c := &s.m.cons[ci]

			var sumLo, sumHi int64
			for _, t := range c.terms {
				if t.Coef >= 0 {
					sumLo += t.Coef * s.lo[t.Var]
					sumHi += t.Coef * s.hi[t.Var]
				} else {
					sumLo += t.Coef * s.hi[t.Var]
					sumHi += t.Coef * s.lo[t.Var]
				}
			}
			if sumLo > c.hi || sumHi < c.lo {
				s.conflicts++
				return false
			}

			for _, t := range c.terms {
				v := int(t.Var)
				var minC, maxC int64
				if t.Coef >= 0 {
					minC = t.Coef * s.lo[v]
					maxC = t.Coef * s.hi[v]
				} else {
					minC = t.Coef * s.hi[v]
					maxC = t.Coef * s.lo[v]
				}
				restLo := sumLo - minC
				restHi := sumHi - maxC

				// c.lo - restHi <= coef*v <= c.hi - restLo
				if c.hi != NoUpper {
					before := s.lo[v] + s.hi[v]
					if !s.tightenUpper(v, t.Coef, c.hi-restLo) {
						s.conflicts++
						return false
					}
					if s.lo[v]+s.hi[v] != before {
						changed = true
					}
				}
				if c.lo != NoLower {
					before := s.lo[v] + s.hi[v]
					if !s.tightenLower(v, t.Coef, c.lo-restHi) {
						s.conflicts++
						return false
					}
					if s.lo[v]+s.hi[v] != before {
						changed = true
					}
				}
			}
		}
	}
	return true
}

// tightenUpper enforces coef*v <= bound.
func (s *search) tightenUpper(v int, coef, bound int64) bool {
	switch {
	case coef > 0:
		return s.setHi(v, floorDiv(bound, coef))
	case coef < 0:
		return s.setLo(v, ceilDiv(bound, coef))
	default:
		return bound >= 0
	}
}

// tightenLower enforces coef*v >= bound.
func (s *search) tightenLower(v int, coef, bound int64) bool {
	switch {
	case coef > 0:
		return s.setLo(v, ceilDiv(bound, coef))
	case coef < 0:
		return s.setHi(v, floorDiv(bound, coef))
	default:
		return bound <= 0
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// objLower is the objective lower bound under current domains.
func (s *search) objLower() int64 {
	var sum int64
	for v, c := range s.objCoef {
		if c == 0 {
			continue
		}
		if c > 0 {
			sum += c * s.lo[v]
		} else {
			sum += c * s.hi[v]
		}
	}
	return sum
}

func (s *search) dfs() {
	if s.expired() {
		return
	}
	if s.hasBest && s.m.hasObj && s.objLower() >= s.bestObj {
		return
	}

	// Next unassigned boolean in branch order.
	branch := -1
	for _, v := range s.order {
		if s.lo[v] < s.hi[v] {
			branch = v
			break
		}
	}
	if branch < 0 {
		s.atLeaf()
		return
	}

	first := int64(0)
	if s.prefOne[branch] {
		first = 1
	}
	for _, val := range [2]int64{first, 1 - first} {
		s.branches++
		m := s.mark()
		ok := s.setLo(branch, val) && s.setHi(branch, val)
		if ok && s.propagate() {
			s.dfs()
		} else if !ok {
			s.conflicts++
		}
		s.undo(m)
		if s.timedOut {
			return
		}
		if s.hasBest && !s.m.hasObj {
			return // satisfiability only: first solution is enough
		}
	}
}

// atLeaf completes integer variables and records the solution. Integer
// variables take the bound favored by their objective coefficient; the
// opposite bound is tried once if propagation rejects the first choice.
func (s *search) atLeaf() {
	m := s.mark()
	defer s.undo(m)

	for v := range s.m.vars {
		if s.lo[v] == s.hi[v] {
			continue
		}
		pref, alt := s.lo[v], s.hi[v]
		if s.objCoef[v] < 0 {
			pref, alt = alt, pref
		}
		if !s.fixAndPropagate(v, pref) {
			if !s.fixAndPropagate(v, alt) {
				return
			}
		}
	}

	obj := int64(0)
	for v, c := range s.objCoef {
		obj += c * s.lo[v]
	}
	if !s.hasBest || (s.m.hasObj && obj < s.bestObj) {
		vals := make([]int64, len(s.lo))
		copy(vals, s.lo)
		s.best = vals
		s.bestObj = obj
		s.hasBest = true
	}
}

func (s *search) fixAndPropagate(v int, val int64) bool {
	m := s.mark()
	if s.setLo(v, val) && s.setHi(v, val) && s.propagate() {
		return true
	}
	s.conflicts++
	s.undo(m)
	return false
}
