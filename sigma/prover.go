package sigma

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
)

// Prover is implemented by every node of a statement tree (leaf, AND, OR).
// The three methods are deliberately separate — rather than one method
// that closes over a transcript and a continuation, the way the source
// protocol expresses Fiat-Shamir as nested delegates — so that AndProver
// can call CommitStatement across every conjunct, then CommitNonces across
// every conjunct, then draw one shared challenge and call Respond across
// every conjunct, without any conjunct's closure silently reordering that
// sequence. This mirrors the phase split already visible in the teacher
// repo's frost.Signer.Round1 (commit) / frost.Signer.Round2 (respond).
type Prover interface {
	CommitStatement(tr *transcript.Transcript) error
	CommitNonces(tr *transcript.Transcript, rng transcript.RandomSource) error
	// Respond computes the final proof. For a leaf or AND node, challenge
	// is used directly. An OR node ignores challenge: its ring of
	// per-alternative challenges was already closed during CommitNonces,
	// exactly as §4.4 describes.
	Respond(tr *transcript.Transcript, challenge group.Scalar) (Proof, error)
}

// LeafProver proves a single Statement given its witness.
type LeafProver struct {
	stmt    Statement
	witness group.ScalarVector

	nonces group.ScalarVector
	r      []group.Element
}

// NewLeafProver constructs a prover for stmt with the given witness, whose
// length must equal stmt.Width().
func NewLeafProver(stmt Statement, witness group.ScalarVector) *LeafProver {
	return &LeafProver{stmt: stmt, witness: witness}
}

func (p *LeafProver) CommitStatement(tr *transcript.Transcript) error {
	if err := p.stmt.validate(); err != nil {
		return err
	}
	return tr.CommitStatement(p.stmt.TypeID, p.stmt.views())
}

func (p *LeafProver) CommitNonces(tr *transcript.Transcript, rng transcript.RandomSource) error {
	nonces, err := tr.GenerateSecretNonces(p.witness, rng)
	if err != nil {
		return err
	}
	p.nonces = nonces
	p.r = computeR(p.stmt.Equations, nonces)
	return tr.CommitPublicNonces(p.r)
}

func (p *LeafProver) Respond(tr *transcript.Transcript, challenge group.Scalar) (Proof, error) {
	responses := make(group.ScalarVector, len(p.witness))
	for j := range p.witness {
		responses[j] = p.nonces[j].Add(challenge.Mul(p.witness[j]))
	}
	if anyZero(responses) {
		return Proof{}, ErrZeroResponse
	}
	return Proof{Leaf: &LeafProof{PublicNonces: p.r, Responses: responses}}, nil
}

// AndProver composes a fixed, ordered list of sub-provers under one shared
// challenge.
type AndProver struct {
	subs []Prover
}

// NewAndProver returns a Prover for the conjunction of subs, in the given
// order. The order is part of the statement: it determines transcript
// absorption order and therefore the derived challenge.
func NewAndProver(subs ...Prover) *AndProver {
	return &AndProver{subs: subs}
}

func (p *AndProver) CommitStatement(tr *transcript.Transcript) error {
	for _, sub := range p.subs {
		if err := sub.CommitStatement(tr); err != nil {
			return err
		}
	}
	return nil
}

func (p *AndProver) CommitNonces(tr *transcript.Transcript, rng transcript.RandomSource) error {
	for _, sub := range p.subs {
		if err := sub.CommitNonces(tr, rng); err != nil {
			return err
		}
	}
	return nil
}

func (p *AndProver) Respond(tr *transcript.Transcript, challenge group.Scalar) (Proof, error) {
	parts := make([]Proof, len(p.subs))
	for i, sub := range p.subs {
		proof, err := sub.Respond(tr, challenge)
		if err != nil {
			return Proof{}, err
		}
		parts[i] = proof
	}
	return Proof{And: parts}, nil
}

// Prove runs the full three-phase protocol: commit statements, commit
// nonces, draw the shared challenge, respond. On ErrZeroResponse (the
// negligible-probability case §4.3 calls out) it retries with a freshly
// built transcript and prover, up to maxAttempts times.
func Prove(
	newTranscript func() *transcript.Transcript,
	newProver func() Prover,
	rng transcript.RandomSource,
) (*transcript.Transcript, Proof, error) {
	const maxAttempts = 8
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tr := newTranscript()
		p := newProver()

		if err := p.CommitStatement(tr); err != nil {
			return nil, Proof{}, err
		}
		if err := p.CommitNonces(tr, rng); err != nil {
			if err != ErrZeroResponse {
				return nil, Proof{}, err
			}
			lastErr = err
			continue
		}
		challenge := tr.GenerateChallenge()
		proof, err := p.Respond(tr, challenge)
		if err == nil {
			return tr, proof, nil
		}
		if err != ErrZeroResponse {
			return nil, Proof{}, err
		}
		lastErr = err
	}
	return nil, Proof{}, lastErr
}
