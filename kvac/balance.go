package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
)

// BalanceStatementPublic computes B, the publicly computable difference of
// commitments a balance proof is built over: the sum of presented
// credentials' blinded amount commitments, minus the sum of newly
// requested credentials' amount commitments, minus delta*Ga, where delta is
// the publicly declared A_in - A_out. If every presented Ca_i and requested
// Ma_k were honestly built, B reduces to (sum z_i)*Ga + deltaR*Gh.
func BalanceStatementPublic(gens *group.Generators, presentedCa, requestedMa []group.Element, delta int64) group.Element {
	sum := group.Infinity()
	for _, ca := range presentedCa {
		sum = sum.Add(ca)
	}
	for _, ma := range requestedMa {
		sum = sum.Sub(ma)
	}
	return sum.Sub(gens.Ga.ScalarMul(deltaScalar(delta)))
}

func deltaScalar(delta int64) group.Scalar {
	if delta >= 0 {
		return group.ScalarFromUint64(uint64(delta))
	}
	return group.Zero().Sub(group.ScalarFromUint64(uint64(-delta)))
}

// BalanceStatement builds the 1-equation relation B = (sum z_i)*Ga + deltaR*Gh.
func BalanceStatement(gens *group.Generators, b group.Element) sigma.Statement {
	return sigma.Statement{
		TypeID:    "Balance",
		Equations: []sigma.Equation{{Public: b, Generators: []group.Element{gens.Ga, gens.Gh}}},
	}
}

// BalanceWitness orders (sum z_i, deltaR) to match BalanceStatement.
func BalanceWitness(sumZ, deltaR group.Scalar) group.ScalarVector {
	return group.ScalarVector{sumZ, deltaR}
}
