// Package kvac implements the MAC_GGM keyed-verification anonymous
// credential scheme (component C5): issuer key material, the algebraic MAC,
// and the issuance, show, range and balance statements built on top of the
// sigma package's Sigma-protocol composition.
package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

// SecretKey is the coordinator's long-lived MAC_GGM secret key
// (w, w', x0, x1, ya, ys, yv). ys corresponds to the scheme's third
// attribute slot, which this credential type never instantiates (every
// credential's Ms commitment is the infinity element); it is still part of
// the key and still proven in zero knowledge during issuance, since Cw and I
// are fixed per coordinator regardless of which attribute slots a given
// credential type uses.
type SecretKey struct {
	W, Wp, X0, X1, Ya, Ys, Yv group.Scalar
}

// NewSecretKey draws a fresh random secret key.
func NewSecretKey(rng transcript.RandomSource) (SecretKey, error) {
	scalars := make([]group.Scalar, 7)
	for i := range scalars {
		s, err := group.RandomScalar(rng)
		if err != nil {
			return SecretKey{}, err
		}
		scalars[i] = s
	}
	return SecretKey{
		W: scalars[0], Wp: scalars[1],
		X0: scalars[2], X1: scalars[3],
		Ya: scalars[4], Ys: scalars[5], Yv: scalars[6],
	}, nil
}

// Params is the coordinator's public commitment to its SecretKey:
// Cw = w*Gw + w'*Gwp, I = Gv - (x0*Gx0 + x1*Gx1 + ya*Ga + ys*Gs + yv*Gv).
type Params struct {
	Cw group.Element
	I  group.Element
}

// Params derives the public parameters for sk under the given generator
// family.
func (sk SecretKey) Params(gens *group.Generators) Params {
	cw := gens.Gw.ScalarMul(sk.W).Add(gens.Gwp.ScalarMul(sk.Wp))
	inner := gens.Gx0.ScalarMul(sk.X0).
		Add(gens.Gx1.ScalarMul(sk.X1)).
		Add(gens.Ga.ScalarMul(sk.Ya)).
		Add(gens.Gs.ScalarMul(sk.Ys)).
		Add(gens.Gv.ScalarMul(sk.Yv))
	return Params{Cw: cw, I: gens.Gv.Sub(inner)}
}

// IssuanceWitness orders sk's scalars to match IssuanceStatement's rows:
// (w, w', x0, x1, ya, ys, yv).
func IssuanceWitness(sk SecretKey) group.ScalarVector {
	return group.ScalarVector{sk.W, sk.Wp, sk.X0, sk.X1, sk.Ya, sk.Ys, sk.Yv}
}

// msUnused is the fixed commitment for the scheme's unused third attribute
// slot. Because ScalarMul and Add of the infinity element are no-ops, every
// ys*Ms term built from it simply drops out of V without any special-casing
// at the call sites below.
var msUnused = group.Infinity()

// CommitAttribute computes the Pedersen commitment value*attrGen + randomness*Gh.
func CommitAttribute(attrGen, gh group.Element, value, randomness group.Scalar) group.Element {
	return attrGen.ScalarMul(value).Add(gh.ScalarMul(randomness))
}
