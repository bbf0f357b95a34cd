// Package refsolver is the reference solver.Solver implementation: a dense
// single-pass Big-M simplex built on the standard library, with no external
// linear-programming dependency. Every other package in this module reaches
// for a library the example corpus already uses for its concern, but no
// example repo (and no file under other_examples/) imports or wraps an LP
// or simplex library of any kind — this is the one component with no
// ecosystem grounding to follow, documented here rather than silently
// defaulting to the standard library (see DESIGN.md). Solver itself stays a
// pure interface so a production deployment can swap in a binding to a real
// LP backend (the original implementation this module's spec was distilled
// from used the COIN-OR Clp library via FFI) without touching callers.
package refsolver

import "fmt"

// relation is the comparison a constraint row enforces against its
// right-hand side.
type relation int

const (
	le relation = iota
	ge
	eq
)

// row is one constraint: coeffs·x {<=,>=,=} rhs.
type row struct {
	coeffs []float64
	rel    relation
	rhs    float64
}

// lp is a bounded-variable linear program in the shape network flow
// problems reduce to: minimize cost·x subject to a list of rows, x >= 0.
// Variables carry no explicit upper bound — every upper bound in this
// module's LPs is expressed as a constraint row instead (spec.md §4.5).
type lp struct {
	numVars int
	cost    []float64
	rows    []row
}

func newLP(numVars int) *lp {
	return &lp{numVars: numVars, cost: make([]float64, numVars)}
}

func (p *lp) addRow(coeffs []float64, rel relation, rhs float64) {
	p.rows = append(p.rows, row{coeffs: coeffs, rel: rel, rhs: rhs})
}

// errInfeasible and errUnbounded are returned by solve (wrapped by the
// caller into modelerr.KindSolverInfeasible / KindSolverUnbounded).
var (
	errInfeasible = fmt.Errorf("refsolver: no feasible solution")
	errUnbounded  = fmt.Errorf("refsolver: objective is unbounded below")
)

const (
	bigM    = 1e7
	epsilon = 1e-9
)

// solve runs a single-pass Big-M simplex and returns the optimal x (length
// p.numVars) and objective value cost·x.
func (p *lp) solve() ([]float64, float64, error) {
	m := len(p.rows)
	n := p.numVars

	// Normalize every row to a non-negative RHS so the artificial variable
	// seeded for it starts at a feasible (non-negative) value.
	norm := make([]row, m)
	for i, r := range p.rows {
		if r.rhs < 0 {
			flipped := make([]float64, n)
			for j, c := range r.coeffs {
				flipped[j] = -c
			}
			rel := r.rel
			switch rel {
			case le:
				rel = ge
			case ge:
				rel = le
			}
			norm[i] = row{coeffs: flipped, rel: rel, rhs: -r.rhs}
		} else {
			norm[i] = r
		}
	}

	numSlack, numArtificial := 0, 0
	for _, r := range norm {
		switch r.rel {
		case le:
			numSlack++
		case ge:
			numSlack++
			numArtificial++
		case eq:
			numArtificial++
		}
	}
	total := n + numSlack + numArtificial

	tableau := make([][]float64, m)
	basis := make([]int, m)
	slackCol, artCol := n, n+numSlack
	for i, r := range norm {
		tr := make([]float64, total+1)
		copy(tr, r.coeffs)
		switch r.rel {
		case le:
			tr[slackCol] = 1
			basis[i] = slackCol
			slackCol++
		case ge:
			tr[slackCol] = -1
			slackCol++
			tr[artCol] = 1
			basis[i] = artCol
			artCol++
		case eq:
			tr[artCol] = 1
			basis[i] = artCol
			artCol++
		}
		tr[total] = r.rhs
		tableau[i] = tr
	}

	objRow := make([]float64, total+1)
	copy(objRow, p.cost)
	for j := n + numSlack; j < total; j++ {
		objRow[j] = bigM
	}
	// Price out the artificial basis so objRow holds reduced costs relative
	// to the current (all-artificial/slack) basic feasible solution.
	for i := 0; i < m; i++ {
		b := basis[i]
		factor := objRow[b]
		if factor == 0 {
			continue
		}
		for j := 0; j <= total; j++ {
			objRow[j] -= factor * tableau[i][j]
		}
	}

	maxIter := 200 + 20*(m+total)
	for iter := 0; iter < maxIter; iter++ {
		enter := -1
		best := -epsilon
		for j := 0; j < total; j++ {
			if objRow[j] < best {
				best = objRow[j]
				enter = j
			}
		}
		if enter == -1 {
			break // optimal: no negative reduced cost remains
		}

		leave := -1
		bestRatio := 0.0
		for i := 0; i < m; i++ {
			c := tableau[i][enter]
			if c <= epsilon {
				continue
			}
			ratio := tableau[i][total] / c
			if leave == -1 || ratio < bestRatio-epsilon ||
				(ratio < bestRatio+epsilon && basis[i] < basis[leave]) {
				leave = i
				bestRatio = ratio
			}
		}
		if leave == -1 {
			return nil, 0, errUnbounded
		}

		pivot := tableau[leave][enter]
		for j := 0; j <= total; j++ {
			tableau[leave][j] /= pivot
		}
		for i := 0; i < m; i++ {
			if i == leave {
				continue
			}
			factor := tableau[i][enter]
			if factor == 0 {
				continue
			}
			for j := 0; j <= total; j++ {
				tableau[i][j] -= factor * tableau[leave][j]
			}
		}
		factor := objRow[enter]
		if factor != 0 {
			for j := 0; j <= total; j++ {
				objRow[j] -= factor * tableau[leave][j]
			}
		}
		basis[leave] = enter
	}

	for i := 0; i < m; i++ {
		if basis[i] >= n+numSlack && tableau[i][total] > epsilon {
			return nil, 0, errInfeasible
		}
	}

	x := make([]float64, n)
	for i := 0; i < m; i++ {
		if basis[i] < n {
			x[basis[i]] = tableau[i][total]
		}
	}
	obj := 0.0
	for j := 0; j < n; j++ {
		obj += p.cost[j] * x[j]
	}
	return x, obj, nil
}
