package sigma

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/transcript"
	"github.com/wabisabi-go/core/internal/testutils"
)

var getBytes = testutils.RandomBytes

func newTestTranscript() *transcript.Transcript {
	return transcript.New("sigma-test")
}

// discreteLogStatement builds the single-equation Statement P = x*G.
func discreteLogStatement(typeID string, g group.Element, x group.Scalar) (Statement, group.ScalarVector) {
	pub := g.ScalarMul(x)
	stmt := Statement{
		TypeID: typeID,
		Equations: []Equation{
			{Public: pub, Generators: []group.Element{g}},
		},
	}
	return stmt, group.ScalarVector{x}
}

func randomScalarForTest(t *testing.T) group.Scalar {
	t.Helper()
	s, err := group.RandomScalar(getBytes)
	require.NoError(t, err)
	return s
}

func TestLeafProveVerifyRoundTrip(t *testing.T) {
	g := group.G()
	x := randomScalarForTest(t)
	stmt, witness := discreteLogStatement("DiscreteLog", g, x)

	tr, proof, err := Prove(newTestTranscript, func() Prover { return NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)
	require.NotNil(t, tr)

	ok, err := Verify(newTestTranscript, NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLeafVerifyRejectsWrongWitness(t *testing.T) {
	g := group.G()
	x := randomScalarForTest(t)
	stmt, _ := discreteLogStatement("DiscreteLog", g, x)

	wrongWitness := group.ScalarVector{randomScalarForTest(t)}
	_, proof, err := Prove(newTestTranscript, func() Prover { return NewLeafProver(stmt, wrongWitness) }, getBytes)
	require.NoError(t, err)

	ok, err := Verify(newTestTranscript, NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAndComposition(t *testing.T) {
	g := group.G()
	x1, x2 := randomScalarForTest(t), randomScalarForTest(t)
	stmt1, w1 := discreteLogStatement("Leg1", g, x1)
	stmt2, w2 := discreteLogStatement("Leg2", g, x2)

	newProver := func() Prover {
		return NewAndProver(NewLeafProver(stmt1, w1), NewLeafProver(stmt2, w2))
	}
	_, proof, err := Prove(newTestTranscript, newProver, getBytes)
	require.NoError(t, err)
	require.Len(t, proof.And, 2)

	verifier := NewAndVerifier(NewLeafVerifier(stmt1), NewLeafVerifier(stmt2))
	ok, err := Verify(newTestTranscript, verifier, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAndCompositionRejectsTamperedLeg(t *testing.T) {
	g := group.G()
	x1, x2 := randomScalarForTest(t), randomScalarForTest(t)
	stmt1, w1 := discreteLogStatement("Leg1", g, x1)
	stmt2, w2 := discreteLogStatement("Leg2", g, x2)

	newProver := func() Prover {
		return NewAndProver(NewLeafProver(stmt1, w1), NewLeafProver(stmt2, w2))
	}
	_, proof, err := Prove(newTestTranscript, newProver, getBytes)
	require.NoError(t, err)

	proof.And[0].Leaf.Responses[0] = proof.And[0].Leaf.Responses[0].Add(group.ScalarFromUint64(1))

	verifier := NewAndVerifier(NewLeafVerifier(stmt1), NewLeafVerifier(stmt2))
	ok, err := Verify(newTestTranscript, verifier, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

// buildOrAlternatives returns n discrete-log alternatives, only one of
// which (realIndex) has a known witness; the rest get unrelated public
// points that no one has the discrete log of.
func buildOrAlternatives(t *testing.T, n, realIndex int) ([]Statement, group.ScalarVector) {
	t.Helper()
	g := group.G()
	alts := make([]Statement, n)
	var realWitness group.ScalarVector
	for i := 0; i < n; i++ {
		if i == realIndex {
			x := randomScalarForTest(t)
			stmt, w := discreteLogStatement("BitLeg", g, x)
			alts[i] = stmt
			realWitness = w
			continue
		}
		decoyPoint := g.ScalarMul(randomScalarForTest(t))
		alts[i] = Statement{
			TypeID:    "BitLeg",
			Equations: []Equation{{Public: decoyPoint, Generators: []group.Element{g}}},
		}
	}
	return alts, realWitness
}

func TestOrCompositionRoundTrip(t *testing.T) {
	for _, real := range []int{0, 1, 2} {
		alts, witness := buildOrAlternatives(t, 3, real)

		newProver := func() Prover { return NewOrProver(alts, real, witness) }
		_, proof, err := Prove(newTestTranscript, newProver, getBytes)
		require.NoError(t, err)
		require.NotNil(t, proof.Or)
		require.Len(t, proof.Or.Rings, 3)

		ok, err := Verify(newTestTranscript, NewOrVerifier(alts), proof)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

// TestOrCompositionRejectsTamperedRing exercises scenario S5: construct a
// valid bit-OR proof, perturb one ring position's response, and confirm
// verification fails.
func TestOrCompositionRejectsTamperedRing(t *testing.T) {
	alts, witness := buildOrAlternatives(t, 2, 0)

	newProver := func() Prover { return NewOrProver(alts, 0, witness) }
	_, proof, err := Prove(newTestTranscript, newProver, getBytes)
	require.NoError(t, err)

	proof.Or.Rings[1].Responses[0] = proof.Or.Rings[1].Responses[0].Add(group.ScalarFromUint64(1))

	ok, err := Verify(newTestTranscript, NewOrVerifier(alts), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrCompositionRejectsWrongAlternativeSet(t *testing.T) {
	alts, witness := buildOrAlternatives(t, 2, 0)
	_, proof, err := Prove(newTestTranscript, func() Prover { return NewOrProver(alts, 0, witness) }, getBytes)
	require.NoError(t, err)

	otherAlts, _ := buildOrAlternatives(t, 2, 0)
	ok, err := Verify(newTestTranscript, NewOrVerifier(otherAlts), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAndOfOrComposition(t *testing.T) {
	altsA, wA := buildOrAlternatives(t, 2, 1)
	altsB, wB := buildOrAlternatives(t, 3, 0)

	newProver := func() Prover {
		return NewAndProver(NewOrProver(altsA, 1, wA), NewOrProver(altsB, 0, wB))
	}
	_, proof, err := Prove(newTestTranscript, newProver, getBytes)
	require.NoError(t, err)
	require.Len(t, proof.And, 2)

	verifier := NewAndVerifier(NewOrVerifier(altsA), NewOrVerifier(altsB))
	ok, err := Verify(newTestTranscript, verifier, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStatementRejectsAllInfinityRow(t *testing.T) {
	stmt := Statement{
		TypeID: "Degenerate",
		Equations: []Equation{
			{Public: group.G(), Generators: []group.Element{group.Infinity(), group.Infinity()}},
		},
	}
	require.ErrorIs(t, stmt.validate(), ErrAllInfinityRow)
}

func TestLeafVerifierRejectsShapeMismatch(t *testing.T) {
	g := group.G()
	x := randomScalarForTest(t)
	stmt, _ := discreteLogStatement("DiscreteLog", g, x)

	tr := newTestTranscript()
	v := NewLeafVerifier(stmt)
	require.NoError(t, v.CommitStatement(tr))
	err := v.CommitProofNonces(tr, Proof{})
	require.ErrorIs(t, err, ErrProofShapeMismatch)
}
