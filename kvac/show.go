package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
)

// Presentation is the rerandomized, single-use reveal of a credential's MAC
// under a fresh blinding scalar z. The coordinator never sees the same
// (Ma, Mv, t) twice: every field here is shifted by z relative to the
// values fixed at issuance.
type Presentation struct {
	Z, Ca, Cv, Cx0, Cx1 group.Element
}

// NewPresentation rerandomizes a held credential's attribute commitments and
// MAC serial t by z.
func NewPresentation(gens *group.Generators, issuerI, ma, mv group.Element, t, z group.Scalar) Presentation {
	return Presentation{
		Z:   issuerI.ScalarMul(z),
		Ca:  ma.Add(gens.Ga.ScalarMul(z)),
		Cv:  mv.Add(gens.Gv.ScalarMul(z)),
		Cx0: gens.U.Add(gens.Gx0.ScalarMul(z)),
		Cx1: gens.U.ScalarMul(t).Add(gens.Gx1.ScalarMul(z)),
	}
}

// ShowStatement builds the 2-equation relation the client proves in zero
// knowledge: knowledge of (z, z0, t) such that Z = z*I and
// Cx1 = t*Cx0 + z*Gx1 + z0*Gx0, matching ShowWitness's order.
func ShowStatement(gens *group.Generators, issuerI group.Element, pres Presentation) sigma.Statement {
	inf := group.Infinity()
	return sigma.Statement{
		TypeID: "Show",
		Equations: []sigma.Equation{
			{Public: pres.Z, Generators: []group.Element{issuerI, inf, inf}},
			{Public: pres.Cx1, Generators: []group.Element{gens.Gx1, gens.Gx0, pres.Cx0}},
		},
	}
}

// ShowWitness returns (z, z0, t) for ShowStatement. z0 = -z*t is the unique
// value that makes the second row an identity given how Cx0 and Cx1 are
// built in NewPresentation, so it never requires knowledge of the
// coordinator's secret key to compute.
func ShowWitness(z, t group.Scalar) group.ScalarVector {
	z0 := group.Zero().Sub(z.Mul(t))
	return group.ScalarVector{z, z0, t}
}
