package group

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

func TestScalarRoundTrip(t *testing.T) {
	s, err := RandomScalar(randomBytes)
	require.NoError(t, err)

	b := s.Bytes()
	decoded, ok := ScalarFromBytes(b[:])
	require.True(t, ok)
	require.True(t, s.Equal(decoded))
}

func TestScalarOverflowRejected(t *testing.T) {
	var maxBytes [32]byte
	for i := range maxBytes {
		maxBytes[i] = 0xff
	}
	_, ok := ScalarFromBytes(maxBytes[:])
	require.False(t, ok, "value above group order q must be rejected, not reduced")
}

func TestScalarArithmetic(t *testing.T) {
	a, err := RandomScalar(randomBytes)
	require.NoError(t, err)
	b, err := RandomScalar(randomBytes)
	require.NoError(t, err)

	sum := a.Add(b)
	back := sum.Sub(b)
	require.True(t, back.Equal(a))

	prod := a.Mul(b)
	inv := b.Invert()
	back2 := prod.Mul(inv)
	require.True(t, back2.Equal(a))
}

func TestElementRoundTrip(t *testing.T) {
	s, err := RandomScalar(randomBytes)
	require.NoError(t, err)

	p := BaseMul(s)
	b := p.Bytes()
	decoded, ok := ElementFromBytes(b[:])
	require.True(t, ok)
	require.True(t, p.Equal(decoded))
}

func TestInfinityEncodingIsFixed(t *testing.T) {
	inf := Infinity()
	require.True(t, inf.IsInfinity())

	b := inf.Bytes()
	decoded, ok := ElementFromBytes(b[:])
	require.True(t, ok)
	require.True(t, decoded.IsInfinity())
}

func TestElementAddSubIdentity(t *testing.T) {
	a, _ := RandomScalar(randomBytes)
	b, _ := RandomScalar(randomBytes)

	pa := BaseMul(a)
	pb := BaseMul(b)

	sum := pa.Add(pb)
	back := sum.Sub(pb)
	require.True(t, back.Equal(pa))
}

func TestGeneratorsAreIndependent(t *testing.T) {
	gens := NewGenerators()
	all := []Element{
		gens.G, gens.Gw, gens.Gwp, gens.Gx0, gens.Gx1,
		gens.Ga, gens.Gs, gens.Gg, gens.Gh, gens.Gv, gens.U,
	}
	for i := range all {
		require.False(t, all[i].IsInfinity())
		for j := i + 1; j < len(all); j++ {
			require.False(t, all[i].Equal(all[j]), "generators %d and %d collided", i, j)
		}
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	a := NewGenerators()
	b := NewGenerators()
	require.True(t, a.Gh.Equal(b.Gh))
	require.True(t, a.U.Equal(b.U))
}

func TestInnerProductLengthMismatchPanics(t *testing.T) {
	defer func() {
		require.NotNil(t, recover())
	}()
	s := ScalarVector{ScalarFromUint64(1)}
	g := ElementVector{G(), G()}
	_ = s.InnerProduct(g)
}
