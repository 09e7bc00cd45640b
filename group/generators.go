package group

import (
	"crypto/sha256"
	"encoding/binary"
)

// Generators holds the fixed, public family of independent generators the
// KVAC scheme hashes everything into: {G, Gw, Gwp, Gx0, Gx1, Ga, Gs, Gg,
// Gh, Gv, U}. G is the curve's standard base point; every other member is
// derived by hashing a domain-separated label with deriveGenerator, so
// that no two labels can ever collide and no prover can know a discrete
// log relation between any pair of them.
type Generators struct {
	G, Gw, Gwp, Gx0, Gx1, Ga, Gs, Gg, Gh, Gv, U Element
}

// labels must be pairwise distinct; a duplicate here would break the
// independence the scheme relies on.
var generatorLabels = []string{"Gw", "Gwp", "Gx0", "Gx1", "Ga", "Gs", "Gg", "Gh", "Gv", "U"}

// NewGenerators derives and returns the standard generator family. It is
// pure and deterministic: calling it twice (e.g. independently in a client
// and in a coordinator process) yields byte-identical generators, which is
// what lets both sides hash the same public parameters into a transcript
// without ever exchanging the generators themselves.
func NewGenerators() *Generators {
	derived := make(map[string]Element, len(generatorLabels))
	for _, label := range generatorLabels {
		derived[label] = deriveGenerator(label)
	}
	return &Generators{
		G:   G(),
		Gw:  derived["Gw"],
		Gwp: derived["Gwp"],
		Gx0: derived["Gx0"],
		Gx1: derived["Gx1"],
		Ga:  derived["Ga"],
		Gs:  derived["Gs"],
		Gg:  derived["Gg"],
		Gh:  derived["Gh"],
		Gv:  derived["Gv"],
		U:   derived["U"],
	}
}

// deriveGenerator hashes label to a curve point by try-and-increment: hash
// a tagged counter value until the result happens to be the x-coordinate
// of a valid point. The tagged-hash construction below is adapted from the
// teacher's frost.Bip340Hash tagged hash (its double-SHA256-of-tag
// construction), generalized here to retry over an explicit counter
// instead of reducing into a scalar, since a generator must be a curve
// point, not a scalar.
func deriveGenerator(label string) Element {
	tag := taggedHash([]byte("WabiSabi_v1.0/generator"), []byte(label))
	for ctr := uint32(0); ; ctr++ {
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], ctr)
		h := sha256.Sum256(append(append([]byte{}, tag[:]...), ctrBytes[:]...))

		candidate := make([]byte, 33)
		candidate[0] = 0x02 // even-Y compressed prefix; odd-Y candidates are
		// simply never produced by this construction, which is fine: we
		// only need *some* independent point per label, not every point.
		copy(candidate[1:], h[:])

		if e, ok := ElementFromBytes(candidate); ok {
			return e
		}
	}
}

// taggedHash implements the BIP-340-style tagged hash: SHA256(SHA256(tag)
// || SHA256(tag) || msg). Ported verbatim from frost.Bip340Hash.hash.
func taggedHash(tag, msg []byte) [32]byte {
	hashedTag := sha256.Sum256(tag)
	var buf []byte
	buf = append(buf, hashedTag[:]...)
	buf = append(buf, hashedTag[:]...)
	buf = append(buf, msg...)
	return sha256.Sum256(buf)
}
