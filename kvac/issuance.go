package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
)

// IssuanceStatement builds the 3-equation relation the coordinator proves
// in zero knowledge: that (Cw, I, v) are jointly consistent with the
// client's committed ma, mv and the revealed serial scalar t, under the
// coordinator's (unrevealed) secret key. The three rows fix Cw, Gv-I and v
// respectively; every row shares the single 7-scalar witness
// (w, w', x0, x1, ya, ys, yv), matching IssuanceWitness's order.
func IssuanceStatement(gens *group.Generators, params Params, v, ma, mv group.Element, t group.Scalar) sigma.Statement {
	inf := group.Infinity()
	tu := gens.U.ScalarMul(t)
	return sigma.Statement{
		TypeID: "Issuance",
		Equations: []sigma.Equation{
			{
				Public:     params.Cw,
				Generators: []group.Element{gens.Gw, gens.Gwp, inf, inf, inf, inf, inf},
			},
			{
				Public:     gens.Gv.Sub(params.I),
				Generators: []group.Element{inf, inf, gens.Gx0, gens.Gx1, gens.Ga, gens.Gs, gens.Gv},
			},
			{
				Public:     v,
				Generators: []group.Element{gens.Gw, inf, gens.U, tu, ma, msUnused, mv},
			},
		},
	}
}
