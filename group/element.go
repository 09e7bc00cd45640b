package group

import (
	"crypto/subtle"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Element is a point on the secp256k1 curve, including the distinguished
// infinity element. Arithmetic is exposed on affine coordinates; Jacobian
// coordinates are only ever used transiently inside a single operation, so
// an Element is otherwise an immutable value type, the same way the
// teacher repo's Point{X, Y *big.Int} is treated as a value everywhere it
// is passed around.
type Element struct {
	infinity bool
	x, y     secp256k1.FieldVal
}

// Infinity returns the group identity element.
func Infinity() Element {
	return Element{infinity: true}
}

// IsInfinity reports whether e is the identity element.
func (e Element) IsInfinity() bool { return e.infinity }

func (e Element) toJacobian() secp256k1.JacobianPoint {
	var j secp256k1.JacobianPoint
	if e.infinity {
		j.Z.SetInt(0)
		return j
	}
	j.X.Set(&e.x)
	j.Y.Set(&e.y)
	j.Z.SetInt(1)
	return j
}

func fromJacobian(j secp256k1.JacobianPoint) Element {
	if j.Z.IsZero() {
		return Infinity()
	}
	j.ToAffine()
	return Element{x: j.X, y: j.Y}
}

// Add returns e + other.
func (e Element) Add(other Element) Element {
	if e.infinity {
		return other
	}
	if other.infinity {
		return e
	}
	a := e.toJacobian()
	b := other.toJacobian()
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a, &b, &r)
	return fromJacobian(r)
}

// Negate returns -e.
func (e Element) Negate() Element {
	if e.infinity {
		return e
	}
	r := e
	r.y.Negate(1)
	r.y.Normalize()
	return r
}

// Sub returns e - other.
func (e Element) Sub(other Element) Element {
	return e.Add(other.Negate())
}

// ScalarMul returns k*e.
func (e Element) ScalarMul(k Scalar) Element {
	if e.infinity || k.IsZero() {
		return Infinity()
	}
	j := e.toJacobian()
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(k.inner(), &j, &r)
	return fromJacobian(r)
}

// BaseMul returns k*G, where G is the curve's standard base point.
func BaseMul(k Scalar) Element {
	if k.IsZero() {
		return Infinity()
	}
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k.inner(), &r)
	return fromJacobian(r)
}

// G is the standard secp256k1 base point.
func G() Element {
	return BaseMul(ScalarFromUint64(1))
}

// infinitySentinel is the fixed-length encoding used for the infinity
// element: 33 zero bytes. No valid compressed point begins with a zero
// prefix byte (compressed points are prefixed 0x02/0x03), so this is an
// unambiguous, fixed-length sentinel.
var infinitySentinel [33]byte

// Bytes returns the 33-byte SEC1 compressed encoding of e, or the fixed
// infinity sentinel if e is the identity element.
func (e Element) Bytes() [33]byte {
	if e.infinity {
		return infinitySentinel
	}
	pub := secp256k1.NewPublicKey(&e.x, &e.y)
	var out [33]byte
	copy(out[:], pub.SerializeCompressed())
	return out
}

// ElementFromBytes decodes a 33-byte SEC1 compressed point, or the
// infinity sentinel. It rejects any encoding that does not correspond to
// a valid curve point.
func ElementFromBytes(b []byte) (Element, bool) {
	if len(b) != 33 {
		return Element{}, false
	}
	if subtle.ConstantTimeCompare(b, infinitySentinel[:]) == 1 {
		return Infinity(), true
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return Element{}, false
	}
	var j secp256k1.JacobianPoint
	pub.AsJacobian(&j)
	return fromJacobian(j), true
}

// Equal compares two elements by canonical encoding, as required by the
// data model ("Equality is by canonical encoding").
func (e Element) Equal(other Element) bool {
	a := e.Bytes()
	b := other.Bytes()
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
