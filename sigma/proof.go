package sigma

import "github.com/wabisabi-go/core/group"

// LeafProof is the (public_nonces, responses) pair produced by a single
// Statement, or by one ring position of an OR composition.
type LeafProof struct {
	PublicNonces []group.Element
	Responses    group.ScalarVector
}

// OrProof packs one LeafProof-shaped (R_i, s_i) ring position per
// alternative, in the alternatives' canonical (declared) order.
type OrProof struct {
	Rings []LeafProof
}

// Proof is a tagged union matching the statement tree shape: exactly one
// of Leaf, And or Or is set.
type Proof struct {
	Leaf *LeafProof
	And  []Proof
	Or   *OrProof
}
