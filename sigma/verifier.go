package sigma

import (
	"errors"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

// ErrProofShapeMismatch is returned when a supplied Proof's tree shape
// (Leaf/And/Or) does not match the Verifier being used to check it — e.g.
// an AndVerifier handed a Proof with a nil And field.
var ErrProofShapeMismatch = errors.New("sigma: proof shape does not match statement")

// Verifier mirrors Prover's three phases, but reconstructs public nonces
// from a supplied Proof instead of generating fresh ones.
type Verifier interface {
	CommitStatement(tr *transcript.Transcript) error
	CommitProofNonces(tr *transcript.Transcript, proof Proof) error
	Verify(tr *transcript.Transcript, challenge group.Scalar, proof Proof) bool
}

// LeafVerifier verifies a single Statement.
type LeafVerifier struct {
	stmt Statement
}

// NewLeafVerifier returns a Verifier for stmt.
func NewLeafVerifier(stmt Statement) *LeafVerifier {
	return &LeafVerifier{stmt: stmt}
}

func (v *LeafVerifier) CommitStatement(tr *transcript.Transcript) error {
	if err := v.stmt.validate(); err != nil {
		return err
	}
	return tr.CommitStatement(v.stmt.TypeID, v.stmt.views())
}

func (v *LeafVerifier) CommitProofNonces(tr *transcript.Transcript, proof Proof) error {
	if proof.Leaf == nil {
		return ErrProofShapeMismatch
	}
	return tr.CommitPublicNonces(proof.Leaf.PublicNonces)
}

func (v *LeafVerifier) Verify(_ *transcript.Transcript, challenge group.Scalar, proof Proof) bool {
	if proof.Leaf == nil {
		return false
	}
	if len(proof.Leaf.Responses) != v.stmt.Width() {
		return false
	}
	if anyZero(proof.Leaf.Responses) {
		return false
	}
	return verifyEquations(v.stmt.Equations, proof.Leaf.PublicNonces, challenge, proof.Leaf.Responses)
}

// AndVerifier composes a fixed, ordered list of sub-verifiers.
type AndVerifier struct {
	subs []Verifier
}

// NewAndVerifier returns a Verifier for the conjunction of subs, in the
// same order used to build the matching AndProver.
func NewAndVerifier(subs ...Verifier) *AndVerifier {
	return &AndVerifier{subs: subs}
}

func (v *AndVerifier) CommitStatement(tr *transcript.Transcript) error {
	for _, sub := range v.subs {
		if err := sub.CommitStatement(tr); err != nil {
			return err
		}
	}
	return nil
}

func (v *AndVerifier) CommitProofNonces(tr *transcript.Transcript, proof Proof) error {
	if proof.And == nil || len(proof.And) != len(v.subs) {
		return ErrProofShapeMismatch
	}
	for i, sub := range v.subs {
		if err := sub.CommitProofNonces(tr, proof.And[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *AndVerifier) Verify(tr *transcript.Transcript, challenge group.Scalar, proof Proof) bool {
	if proof.And == nil || len(proof.And) != len(v.subs) {
		return false
	}
	for i, sub := range v.subs {
		if !sub.Verify(tr, challenge, proof.And[i]) {
			return false
		}
	}
	return true
}

// Verify runs the full three-phase verification and reports whether proof
// is valid for v.
func Verify(
	newTranscript func() *transcript.Transcript,
	v Verifier,
	proof Proof,
) (bool, error) {
	tr := newTranscript()
	if err := v.CommitStatement(tr); err != nil {
		return false, err
	}
	if err := v.CommitProofNonces(tr, proof); err != nil {
		return false, err
	}
	challenge := tr.GenerateChallenge()
	return v.Verify(tr, challenge, proof), nil
}
