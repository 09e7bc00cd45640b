package kvac

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
	"github.com/wabisabi-go/core/transcript"
)

// MaxRangeWidth bounds a range proof's bit width: amounts and vsizes are
// both well within 2^48, and a shift of width-1 must stay clear of uint64
// overflow.
const MaxRangeWidth = 48

// bitDecomposition holds a value's per-bit Pedersen commitments and the
// randomness used to build them, retained as the range proof's witness
// material.
type bitDecomposition struct {
	bits   []uint64
	rs     []group.Scalar
	points []group.Element
}

func decomposeAttribute(gens *group.Generators, value uint64, width int, rng transcript.RandomSource) (bitDecomposition, error) {
	d := bitDecomposition{
		bits:   make([]uint64, width),
		rs:     make([]group.Scalar, width),
		points: make([]group.Element, width),
	}
	for j := 0; j < width; j++ {
		b := (value >> uint(j)) & 1
		r, err := group.RandomScalar(rng)
		if err != nil {
			return bitDecomposition{}, err
		}
		d.bits[j] = b
		d.rs[j] = r
		d.points[j] = gens.Gg.ScalarMul(group.ScalarFromUint64(b)).Add(gens.Gh.ScalarMul(r))
	}
	return d, nil
}

func weightedSum(bitPoints []group.Element) group.Element {
	sum := group.Infinity()
	for j, p := range bitPoints {
		weight := group.ScalarFromUint64(uint64(1) << uint(j))
		sum = sum.Add(p.ScalarMul(weight))
	}
	return sum
}

// rangeLinearStatement ties the attribute commitment ma back to the bit
// commitments: Ma - sum_j(2^j * Aj) = a*(Ga-Gg) + (r - sum_j(2^j*rj))*Gh.
func rangeLinearStatement(gens *group.Generators, ma group.Element, bitPoints []group.Element) sigma.Statement {
	public := ma.Sub(weightedSum(bitPoints))
	return sigma.Statement{
		TypeID: "RangeLinear",
		Equations: []sigma.Equation{
			{Public: public, Generators: []group.Element{gens.Ga.Sub(gens.Gg), gens.Gh}},
		},
	}
}

func rangeLinearWitness(value uint64, r group.Scalar, decomp bitDecomposition) group.ScalarVector {
	weightedR := group.Zero()
	for j, rj := range decomp.rs {
		weight := group.ScalarFromUint64(uint64(1) << uint(j))
		weightedR = weightedR.Add(weight.Mul(rj))
	}
	return group.ScalarVector{group.ScalarFromUint64(value), r.Sub(weightedR)}
}

// bitOrAlternatives returns the two-leg disjunction {Aj = rj*Gh} (bit 0) or
// {Aj - Gg = rj*Gh} (bit 1) for one bit commitment point.
func bitOrAlternatives(gens *group.Generators, point group.Element) []sigma.Statement {
	return []sigma.Statement{
		{TypeID: "BitIsZero", Equations: []sigma.Equation{{Public: point, Generators: []group.Element{gens.Gh}}}},
		{TypeID: "BitIsOne", Equations: []sigma.Equation{{Public: point.Sub(gens.Gg), Generators: []group.Element{gens.Gh}}}},
	}
}

// NewRangeProver returns an AND-composed prover for a width-bit range proof
// over (value, r) against attribute commitment ma, plus the bit
// commitments the verifier needs (these are public and travel alongside
// the statement as a credential request's RequestedCredential.BitCommitments).
func NewRangeProver(
	gens *group.Generators,
	ma group.Element,
	value uint64,
	r group.Scalar,
	width int,
	rng transcript.RandomSource,
) (sigma.Prover, []group.Element, error) {
	decomp, err := decomposeAttribute(gens, value, width, rng)
	if err != nil {
		return nil, nil, err
	}

	provers := []sigma.Prover{
		sigma.NewLeafProver(rangeLinearStatement(gens, ma, decomp.points), rangeLinearWitness(value, r, decomp)),
	}
	for j := 0; j < width; j++ {
		alts := bitOrAlternatives(gens, decomp.points[j])
		provers = append(provers, sigma.NewOrProver(alts, int(decomp.bits[j]), group.ScalarVector{decomp.rs[j]}))
	}
	return sigma.NewAndProver(provers...), decomp.points, nil
}

// NewRangeVerifier returns the matching AND-composed verifier given the
// attribute commitment and the bit commitments published alongside the
// proof.
func NewRangeVerifier(gens *group.Generators, ma group.Element, bitPoints []group.Element) sigma.Verifier {
	verifiers := []sigma.Verifier{sigma.NewLeafVerifier(rangeLinearStatement(gens, ma, bitPoints))}
	for _, p := range bitPoints {
		verifiers = append(verifiers, sigma.NewOrVerifier(bitOrAlternatives(gens, p)))
	}
	return sigma.NewAndVerifier(verifiers...)
}
