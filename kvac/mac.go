package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

// MAC is the algebraic tag (t, V) the coordinator computes over a pair of
// attribute commitments. t is revealed to the client but never to anyone
// else, since two presentations sharing a t would link back to the same
// issuance.
type MAC struct {
	T group.Scalar
	V group.Element
}

// ComputeMAC issues a fresh MAC_GGM tag over attribute commitments ma
// (amount) and mv (vsize): V = w*Gw + x0*U + x1*t*U + ya*Ma + yv*Mv, with a
// freshly sampled nonzero t.
func ComputeMAC(sk SecretKey, gens *group.Generators, ma, mv group.Element, rng transcript.RandomSource) (MAC, error) {
	t, err := group.RandomScalar(rng)
	if err != nil {
		return MAC{}, err
	}
	v := gens.Gw.ScalarMul(sk.W).
		Add(gens.U.ScalarMul(sk.X0)).
		Add(gens.U.ScalarMul(sk.X1.Mul(t))).
		Add(ma.ScalarMul(sk.Ya)).
		Add(msUnused.ScalarMul(sk.Ys)).
		Add(mv.ScalarMul(sk.Yv))
	return MAC{T: t, V: v}, nil
}
