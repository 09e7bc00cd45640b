// Package group implements the prime-order group abstraction (component C1):
// scalar and group-element arithmetic over secp256k1, plus the fixed
// generator family every other package hashes into its transcripts.
//
// The curve arithmetic itself is delegated to
// github.com/decred/dcrd/dcrec/secp256k1/v4, which already implements
// constant-time scalar and field operations; this package only adds the
// vector types, canonical encodings and infinity handling the KVAC scheme
// needs on top.
package group

import (
	"crypto/subtle"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of Z/qZ, where q is the secp256k1 group order.
type Scalar struct {
	v secp256k1.ModNScalar
}

// ScalarFromUint64 builds a Scalar from a small non-negative integer, used
// to encode the bit-weights (2^j) of a range proof and small attribute
// values. q is far larger than 2^64 so overflow never occurs here.
func ScalarFromUint64(x uint64) Scalar {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[31-i] = byte(x >> (8 * i))
	}
	s, _ := ScalarFromBytes(b[:])
	return s
}

// ScalarFromBytes decodes 32 big-endian bytes into a Scalar, rejecting any
// value greater than or equal to the group order q ("from-bytes rejecting
// overflow", per the data model).
func ScalarFromBytes(b []byte) (Scalar, bool) {
	var s Scalar
	overflow := s.v.SetByteSlice(b)
	if overflow {
		return Scalar{}, false
	}
	return s, true
}

// ScalarFromBytesReduced decodes 32 (or fewer) big-endian bytes into a
// Scalar, reducing modulo q instead of rejecting overflow. Used only for
// deriving challenges and synthetic nonces from hash output, where a
// uniform reduction is exactly what Fiat-Shamir requires; any wire-level
// scalar (an actual protocol response or witness) must go through
// ScalarFromBytes instead, which rejects overflow.
func ScalarFromBytesReduced(b []byte) Scalar {
	var s Scalar
	s.v.SetByteSlice(b)
	return s
}

// Bytes encodes the scalar as 32 big-endian bytes.
func (s Scalar) Bytes() [32]byte {
	return s.v.Bytes()
}

// Zero is the additive identity.
func Zero() Scalar { return Scalar{} }

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool { return s.v.IsZero() }

// Add returns s + other mod q.
func (s Scalar) Add(other Scalar) Scalar {
	var r Scalar
	r.v.Add2(&s.v, &other.v)
	return r
}

// Sub returns s - other mod q.
func (s Scalar) Sub(other Scalar) Scalar {
	neg := other.Negate()
	return s.Add(neg)
}

// Mul returns s * other mod q.
func (s Scalar) Mul(other Scalar) Scalar {
	var r Scalar
	r.v.Mul2(&s.v, &other.v)
	return r
}

// Negate returns -s mod q.
func (s Scalar) Negate() Scalar {
	r := s
	r.v.Negate()
	return r
}

// Invert returns s^-1 mod q. Panics if s is zero; callers must check
// IsZero first, since an inverse of zero is not defined and KVAC never
// legitimately needs one (it would indicate a broken witness).
func (s Scalar) Invert() Scalar {
	if s.IsZero() {
		panic("group: invert of zero scalar")
	}
	r := s
	r.v.InverseNonConst()
	return r
}

// Equal performs a constant-time comparison, required whenever a scalar
// comparison result could leak into a side channel (e.g. comparing two
// blinding factors derived from secret witnesses).
func (s Scalar) Equal(other Scalar) bool {
	a := s.v.Bytes()
	b := other.v.Bytes()
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// RandomScalar draws a uniformly random non-zero scalar using the supplied
// randomness source, retrying on the (negligible-probability) zero outcome
// and on decode overflow.
func RandomScalar(getBytes func(int) ([]byte, error)) (Scalar, error) {
	for {
		b, err := getBytes(32)
		if err != nil {
			return Scalar{}, err
		}
		s, ok := ScalarFromBytes(b)
		if !ok {
			continue
		}
		if s.IsZero() {
			continue
		}
		return s, nil
	}
}

// inner is exposed to the group-element inner product implementation.
func (s Scalar) inner() *secp256k1.ModNScalar { return &s.v }
