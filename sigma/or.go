package sigma

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

// OrProver implements the Abe-Ohkubo-Suzuki witness-indistinguishable OR
// composition (§4.4) over a fixed, ordered list of alternative Statements,
// only one of which (at realIndex) the prover actually has a witness for.
//
// The ring of per-alternative challenges is fully closed during
// CommitNonces: Respond only packages the already-computed rings and
// ignores the shared challenge a containing AND composition draws, since
// that challenge plays no role in an OR proof's own verification equation.
type OrProver struct {
	alts        []Statement
	realIndex   int
	realWitness group.ScalarVector

	rings []LeafProof
}

// NewOrProver returns a prover for the disjunction of alts, knowing a
// witness only for alts[realIndex].
func NewOrProver(alts []Statement, realIndex int, realWitness group.ScalarVector) *OrProver {
	return &OrProver{alts: alts, realIndex: realIndex, realWitness: realWitness}
}

func (p *OrProver) CommitStatement(tr *transcript.Transcript) error {
	for _, alt := range p.alts {
		if err := alt.validate(); err != nil {
			return err
		}
		if err := tr.CommitStatement(alt.TypeID, alt.views()); err != nil {
			return err
		}
	}
	return nil
}

func (p *OrProver) CommitNonces(tr *transcript.Transcript, rng transcript.RandomSource) error {
	n := len(p.alts)
	j := p.realIndex

	nonces, err := tr.GenerateSecretNonces(p.realWitness, rng)
	if err != nil {
		return err
	}

	rs := make([][]group.Element, n)
	ss := make([]group.ScalarVector, n)
	rs[j] = computeR(p.alts[j].Equations, nonces)

	prev := j
	for step := 1; step < n; step++ {
		i := (j + step) % n

		fork := tr.Clone()
		if err := fork.CommitPublicNonces(rs[prev]); err != nil {
			return err
		}
		e := fork.GenerateChallenge()

		s, err := randomScalarVector(p.alts[i].Width(), rng)
		if err != nil {
			return err
		}
		rs[i] = simulateR(p.alts[i].Equations, e, s)
		ss[i] = s
		prev = i
	}

	// Close the cycle: derive e_j from the ring position immediately
	// before j, then respond for real using the known witness.
	fork := tr.Clone()
	if err := fork.CommitPublicNonces(rs[prev]); err != nil {
		return err
	}
	eReal := fork.GenerateChallenge()

	sReal := make(group.ScalarVector, len(p.realWitness))
	for l := range p.realWitness {
		sReal[l] = nonces[l].Add(eReal.Mul(p.realWitness[l]))
	}
	if anyZero(sReal) {
		return ErrZeroResponse
	}
	ss[j] = sReal

	p.rings = make([]LeafProof, n)
	var allNonces []group.Element
	for i := 0; i < n; i++ {
		p.rings[i] = LeafProof{PublicNonces: rs[i], Responses: ss[i]}
		allNonces = append(allNonces, rs[i]...)
	}
	// After the ring is closed, absorb every alternative's public nonces,
	// in canonical order, into the main transcript (§4.4 step 5) so a
	// containing AND composition's shared challenge depends on the whole
	// ring.
	return tr.CommitPublicNonces(allNonces)
}

func (p *OrProver) Respond(_ *transcript.Transcript, _ group.Scalar) (Proof, error) {
	return Proof{Or: &OrProof{Rings: p.rings}}, nil
}

func randomScalarVector(n int, rng transcript.RandomSource) (group.ScalarVector, error) {
	out := make(group.ScalarVector, n)
	for i := range out {
		s, err := group.RandomScalar(func(k int) ([]byte, error) { return rng(k) })
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// OrVerifier verifies an OrProof against a fixed, ordered list of
// alternative Statements. It never learns which alternative was real: the
// ring of challenges is recomputed purely from the proof's own public
// nonces.
type OrVerifier struct {
	alts       []Statement
	challenges []group.Scalar
}

// NewOrVerifier returns a Verifier for the disjunction of alts, in the same
// order used to build the matching OrProver.
func NewOrVerifier(alts []Statement) *OrVerifier {
	return &OrVerifier{alts: alts}
}

func (v *OrVerifier) CommitStatement(tr *transcript.Transcript) error {
	for _, alt := range v.alts {
		if err := alt.validate(); err != nil {
			return err
		}
		if err := tr.CommitStatement(alt.TypeID, alt.views()); err != nil {
			return err
		}
	}
	return nil
}

func (v *OrVerifier) CommitProofNonces(tr *transcript.Transcript, proof Proof) error {
	if proof.Or == nil || len(proof.Or.Rings) != len(v.alts) {
		return ErrProofShapeMismatch
	}
	n := len(v.alts)
	v.challenges = make([]group.Scalar, n)

	for i := 0; i < n; i++ {
		prev := (i - 1 + n) % n
		fork := tr.Clone()
		if err := fork.CommitPublicNonces(proof.Or.Rings[prev].PublicNonces); err != nil {
			return err
		}
		v.challenges[i] = fork.GenerateChallenge()
	}

	var allNonces []group.Element
	for i := 0; i < n; i++ {
		allNonces = append(allNonces, proof.Or.Rings[i].PublicNonces...)
	}
	return tr.CommitPublicNonces(allNonces)
}

func (v *OrVerifier) Verify(_ *transcript.Transcript, _ group.Scalar, proof Proof) bool {
	if proof.Or == nil || len(proof.Or.Rings) != len(v.alts) {
		return false
	}
	for i, alt := range v.alts {
		ring := proof.Or.Rings[i]
		if len(ring.Responses) != alt.Width() {
			return false
		}
		if anyZero(ring.Responses) {
			return false
		}
		if !verifyEquations(alt.Equations, ring.PublicNonces, v.challenges[i], ring.Responses) {
			return false
		}
	}
	return true
}
