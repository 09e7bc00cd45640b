package kvac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
	"github.com/wabisabi-go/core/transcript"
	"github.com/wabisabi-go/core/internal/testutils"
)

var getBytes = testutils.RandomBytes

func newTestTranscript(label string) func() *transcript.Transcript {
	return func() *transcript.Transcript { return transcript.New(label) }
}

func randomScalar(t *testing.T) group.Scalar {
	t.Helper()
	s, err := group.RandomScalar(getBytes)
	require.NoError(t, err)
	return s
}

func TestIssuanceProofRoundTrip(t *testing.T) {
	gens := group.NewGenerators()
	sk, err := NewSecretKey(getBytes)
	require.NoError(t, err)
	params := sk.Params(gens)

	ra, rv := randomScalar(t), randomScalar(t)
	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(50000), ra)
	mv := CommitAttribute(gens.Gv, gens.Gh, group.ScalarFromUint64(250), rv)

	mac, err := ComputeMAC(sk, gens, ma, mv, getBytes)
	require.NoError(t, err)

	stmt := IssuanceStatement(gens, params, mac.V, ma, mv, mac.T)
	witness := IssuanceWitness(sk)

	newTr := newTestTranscript("Issuance/2/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIssuanceProofRejectsWrongKey(t *testing.T) {
	gens := group.NewGenerators()
	sk, err := NewSecretKey(getBytes)
	require.NoError(t, err)
	otherSK, err := NewSecretKey(getBytes)
	require.NoError(t, err)
	params := sk.Params(gens)

	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(1), randomScalar(t))
	mv := CommitAttribute(gens.Gv, gens.Gh, group.ScalarFromUint64(1), randomScalar(t))
	mac, err := ComputeMAC(sk, gens, ma, mv, getBytes)
	require.NoError(t, err)

	stmt := IssuanceStatement(gens, params, mac.V, ma, mv, mac.T)
	witness := IssuanceWitness(otherSK)

	newTr := newTestTranscript("Issuance/2/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestShowProofRoundTrip(t *testing.T) {
	gens := group.NewGenerators()
	sk, err := NewSecretKey(getBytes)
	require.NoError(t, err)
	params := sk.Params(gens)

	ra, rv := randomScalar(t), randomScalar(t)
	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(1000), ra)
	mv := CommitAttribute(gens.Gv, gens.Gh, group.ScalarFromUint64(140), rv)
	mac, err := ComputeMAC(sk, gens, ma, mv, getBytes)
	require.NoError(t, err)

	z := randomScalar(t)
	pres := NewPresentation(gens, params.I, ma, mv, mac.T, z)

	stmt := ShowStatement(gens, params.I, pres)
	witness := ShowWitness(z, mac.T)

	newTr := newTestTranscript("Show/2/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestShowProofRejectsTamperedResponse(t *testing.T) {
	gens := group.NewGenerators()
	sk, err := NewSecretKey(getBytes)
	require.NoError(t, err)
	params := sk.Params(gens)

	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(500), randomScalar(t))
	mv := CommitAttribute(gens.Gv, gens.Gh, group.ScalarFromUint64(10), randomScalar(t))
	mac, err := ComputeMAC(sk, gens, ma, mv, getBytes)
	require.NoError(t, err)

	z := randomScalar(t)
	pres := NewPresentation(gens, params.I, ma, mv, mac.T, z)
	stmt := ShowStatement(gens, params.I, pres)
	witness := ShowWitness(z, mac.T)

	newTr := newTestTranscript("Show/2/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	proof.Leaf.Responses[0] = proof.Leaf.Responses[0].Add(group.ScalarFromUint64(1))

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRangeProofValidValue(t *testing.T) {
	gens := group.NewGenerators()
	const width = 16
	value := uint64(4242)
	r := randomScalar(t)
	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(value), r)

	prover, bitPoints, err := NewRangeProver(gens, ma, value, r, width, getBytes)
	require.NoError(t, err)
	require.Len(t, bitPoints, width)

	newTr := newTestTranscript("Range/1/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return prover }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, NewRangeVerifier(gens, ma, bitPoints), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRangeProofRejectsTamperedBit(t *testing.T) {
	gens := group.NewGenerators()
	const width = 8
	value := uint64(200)
	r := randomScalar(t)
	ma := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(value), r)

	prover, bitPoints, err := NewRangeProver(gens, ma, value, r, width, getBytes)
	require.NoError(t, err)

	newTr := newTestTranscript("Range/1/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return prover }, getBytes)
	require.NoError(t, err)

	// Flip one bit commitment's "real leg" by tampering with its ring.
	require.NotNil(t, proof.And[1].Or)
	proof.And[1].Or.Rings[0].Responses[0] = proof.And[1].Or.Rings[0].Responses[0].Add(group.ScalarFromUint64(1))

	ok, err := sigma.Verify(newTr, NewRangeVerifier(gens, ma, bitPoints), proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBalanceProofRoundTrip(t *testing.T) {
	gens := group.NewGenerators()

	z1, z2 := randomScalar(t), randomScalar(t)
	r1, r2 := randomScalar(t), randomScalar(t)
	rOut := randomScalar(t)

	ma1 := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(30000), r1)
	ma2 := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(20000), r2)
	ca1 := ma1.Add(gens.Ga.ScalarMul(z1))
	ca2 := ma2.Add(gens.Ga.ScalarMul(z2))

	maOut := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(49000), rOut)

	delta := int64(1000) // declared fee: 50000 in - 49000 out
	b := BalanceStatementPublic(gens, []group.Element{ca1, ca2}, []group.Element{maOut}, delta)

	sumZ := z1.Add(z2)
	deltaR := r1.Add(r2).Sub(rOut)
	stmt := BalanceStatement(gens, b)
	witness := BalanceWitness(sumZ, deltaR)

	newTr := newTestTranscript("Balance/1/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBalanceProofRejectsWrongDelta(t *testing.T) {
	gens := group.NewGenerators()
	z1 := randomScalar(t)
	r1 := randomScalar(t)
	rOut := randomScalar(t)

	ma1 := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(10000), r1)
	ca1 := ma1.Add(gens.Ga.ScalarMul(z1))
	maOut := CommitAttribute(gens.Ga, gens.Gh, group.ScalarFromUint64(9000), rOut)

	// Declare a fee of 500 when the true difference is 1000: B no longer
	// decomposes as (sum z)*Ga + deltaR*Gh for any deltaR, so the witness
	// below must fail to satisfy the statement.
	b := BalanceStatementPublic(gens, []group.Element{ca1}, []group.Element{maOut}, 500)

	stmt := BalanceStatement(gens, b)
	witness := BalanceWitness(z1, r1.Sub(rOut))

	newTr := newTestTranscript("Balance/1/false")
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewLeafProver(stmt, witness) }, getBytes)
	require.NoError(t, err)

	ok, err := sigma.Verify(newTr, sigma.NewLeafVerifier(stmt), proof)
	require.NoError(t, err)
	require.False(t, ok)
}
