// Package sigma implements the generalized linear-relation Sigma protocol
// (component C3) and its Fiat-Shamir AND/OR composition (component C4).
//
// A Statement is a system of k equations sharing one witness vector x of
// length n: for each row i, Pi = sum_j x_j * G_ij, where some G_ij may be
// the group's infinity element to exclude x_j from equation i. The same
// witness vector (and therefore the same nonce and response vectors) is
// shared by every row of a single Statement, matching the verifier
// equation in §4.3 (which indexes responses only by j, not by i).
package sigma

import (
	"errors"
	"fmt"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
	"github.com/wabisabi-go/core/wabierr"
)

// Equation is one row Pi = sum_j x_j * G_ij of a Statement.
type Equation struct {
	Public     group.Element
	Generators []group.Element // length n; infinity entries exclude that witness slot
}

// Statement is a leaf relation: k equations over a shared n-scalar witness.
type Statement struct {
	TypeID    string
	Equations []Equation
}

// Width returns n, the shared witness length, taken from the first
// equation (all equations in a well-formed Statement share it).
func (s Statement) Width() int {
	if len(s.Equations) == 0 {
		return 0
	}
	return len(s.Equations[0].Generators)
}

// ErrAllInfinityRow is returned when an equation's entire generator row is
// the infinity element: such a row excludes every witness component and
// can never constrain anything, so §4.3 calls it invalid.
var ErrAllInfinityRow = errors.New("sigma: all-infinity equation row")

// ErrZeroResponse is returned internally when a response scalar comes out
// zero, which would (with negligible probability) leak that the
// corresponding witness component is zero. Callers retry proof generation
// with fresh nonces; see Prove.
var ErrZeroResponse = fmt.Errorf("%w: sigma: zero response sampled, retry", wabierr.ErrScalarZeroWhereDisallowed)

func (s Statement) validate() error {
	for _, eq := range s.Equations {
		allInf := true
		for _, g := range eq.Generators {
			if !g.IsInfinity() {
				allInf = false
				break
			}
		}
		if allInf {
			return ErrAllInfinityRow
		}
	}
	return nil
}

func (s Statement) views() []transcript.EquationView {
	views := make([]transcript.EquationView, len(s.Equations))
	for i, eq := range s.Equations {
		views[i] = transcript.EquationView{Public: eq.Public, Generators: eq.Generators}
	}
	return views
}

func computeR(eqs []Equation, nonces group.ScalarVector) []group.Element {
	r := make([]group.Element, len(eqs))
	for i, eq := range eqs {
		r[i] = nonces.InnerProduct(group.ElementVector(eq.Generators))
	}
	return r
}

// verifyEquations checks, for every row, sum_j s_j*G_ij == R_i + e*P_i.
func verifyEquations(eqs []Equation, r []group.Element, e group.Scalar, s group.ScalarVector) bool {
	if len(r) != len(eqs) {
		return false
	}
	for i, eq := range eqs {
		lhs := s.InnerProduct(group.ElementVector(eq.Generators))
		rhs := r[i].Add(eq.Public.ScalarMul(e))
		if !lhs.Equal(rhs) {
			return false
		}
	}
	return true
}

// simulateR recovers R_i = sum_j s_j*G_ij - e*P_i for every row, used by
// the OR composition's simulator for non-real alternatives.
func simulateR(eqs []Equation, e group.Scalar, s group.ScalarVector) []group.Element {
	r := make([]group.Element, len(eqs))
	for i, eq := range eqs {
		lhs := s.InnerProduct(group.ElementVector(eq.Generators))
		r[i] = lhs.Sub(eq.Public.ScalarMul(e))
	}
	return r
}

func anyZero(s group.ScalarVector) bool {
	for _, v := range s {
		if v.IsZero() {
			return true
		}
	}
	return false
}
