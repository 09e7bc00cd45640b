package transcript

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/internal/testutils"
)

var getBytes = testutils.RandomBytes

func samplePoints(n int) []group.Element {
	pts := make([]group.Element, n)
	for i := range pts {
		s, _ := group.RandomScalar(getBytes)
		pts[i] = group.BaseMul(s)
	}
	return pts
}

func TestChallengeDeterminism(t *testing.T) {
	points := samplePoints(2)

	t1 := New("UnifiedRegistration/2/false")
	require.NoError(t, t1.CommitPublicNonces(points))
	c1 := t1.GenerateChallenge()

	t2 := New("UnifiedRegistration/2/false")
	require.NoError(t, t2.CommitPublicNonces(points))
	c2 := t2.GenerateChallenge()

	require.True(t, c1.Equal(c2))
}

func TestCloneDoesNotDisturbOriginal(t *testing.T) {
	points := samplePoints(2)

	base := New("clone-test")
	require.NoError(t, base.CommitPublicNonces(points))

	clone := base.Clone()
	_ = clone.GenerateChallenge() // squeeze the clone into oblivion

	// base must still be able to produce the same challenge an unforked
	// transcript would have produced.
	reference := New("clone-test")
	require.NoError(t, reference.CommitPublicNonces(points))

	c1 := base.GenerateChallenge()
	c2 := reference.GenerateChallenge()
	require.True(t, c1.Equal(c2))
}

func TestDifferentLabelsDiverge(t *testing.T) {
	points := samplePoints(1)

	a := New("label-a")
	require.NoError(t, a.CommitPublicNonces(points))

	b := New("label-b")
	require.NoError(t, b.CommitPublicNonces(points))

	require.False(t, a.GenerateChallenge().Equal(b.GenerateChallenge()))
}

func TestCommitRejectsInfinity(t *testing.T) {
	tr := New("infinity-test")
	err := tr.CommitPublicNonces([]group.Element{group.Infinity()})
	require.ErrorIs(t, err, ErrInfinityInStatement)
}

func TestSyntheticNonceDependsOnSecretPointGeneratorsAndTag(t *testing.T) {
	witness := group.ScalarVector{group.ScalarFromUint64(7), group.ScalarFromUint64(9)}

	base := New("nonce-test")
	nonces, err := base.GenerateSecretNonces(witness, getBytes)
	require.NoError(t, err)
	require.Len(t, nonces, 2)
	require.False(t, nonces[0].Equal(nonces[1]))

	// (a) changing the secret changes the nonces.
	otherWitness := group.ScalarVector{group.ScalarFromUint64(8), group.ScalarFromUint64(9)}
	base2 := New("nonce-test")
	nonces2, err := base2.GenerateSecretNonces(otherWitness, getBytes)
	require.NoError(t, err)
	require.False(t, nonces[0].Equal(nonces2[0]))

	// (d) changing the statement tag changes the nonces.
	base3 := New("nonce-test-different-tag")
	nonces3, err := base3.GenerateSecretNonces(witness, getBytes)
	require.NoError(t, err)
	require.False(t, nonces[0].Equal(nonces3[0]))

	// (b) changing a committed public point, and (c) changing a committed
	// generator, changes the nonces. A fixed rng keeps these comparisons
	// from passing on fresh randomness alone.
	fixedRng := func(n int) ([]byte, error) { return make([]byte, n), nil }
	g, pts := group.G(), samplePoints(2)
	noncesAfter := func(public, gen group.Element) group.ScalarVector {
		tr := New("nonce-test")
		require.NoError(t, tr.CommitStatement("DiscreteLog", []EquationView{{Public: public, Generators: []group.Element{gen}}}))
		n, err := tr.GenerateSecretNonces(witness, fixedRng)
		require.NoError(t, err)
		return n
	}
	ref := noncesAfter(pts[0], g)
	require.False(t, ref[0].Equal(noncesAfter(pts[1], g)[0]))
	require.False(t, ref[0].Equal(noncesAfter(pts[0], pts[1])[0]))
}

func TestSecretNonceRngFailureStillDiffersAcrossSecrets(t *testing.T) {
	failingRng := func(int) ([]byte, error) { return nil, errRng }

	witness := group.ScalarVector{group.ScalarFromUint64(1)}
	otherWitness := group.ScalarVector{group.ScalarFromUint64(2)}

	a := New("degraded")
	na, err := a.GenerateSecretNonces(witness, failingRng)
	require.NoError(t, err)

	b := New("degraded")
	nb, err := b.GenerateSecretNonces(otherWitness, failingRng)
	require.NoError(t, err)

	require.False(t, na[0].Equal(nb[0]))
}

var errRng = errors.New("rng unavailable")
