package main

import (
	"fmt"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
	"github.com/wabisabi-go/core/sigma"
	"github.com/wabisabi-go/core/transcript"
	"github.com/wabisabi-go/core/wabierr"
)

// inProcessCoordinator plays the server side of the credential protocol for
// the simulator: it verifies a submitted request's proof and, if valid,
// issues MACs plus its own issuance proof. A real coordinator speaks this
// same protocol over the network; this one just calls straight into the
// same functions a wire-connected one would run after decoding a request.
type inProcessCoordinator struct {
	sk     kvac.SecretKey
	gens   *group.Generators
	params kvac.Params
	rng    transcript.RandomSource
}

func newInProcessCoordinator(gens *group.Generators, rng transcript.RandomSource) (*inProcessCoordinator, error) {
	sk, err := kvac.NewSecretKey(rng)
	if err != nil {
		return nil, fmt.Errorf("coordinator: generate issuer key: %w", err)
	}
	return &inProcessCoordinator{sk: sk, gens: gens, params: sk.Params(gens), rng: rng}, nil
}

func (co *inProcessCoordinator) issueZero(req credential.ZeroCredentialsRequest) (credential.CredentialsResponse, error) {
	verifiers := make([]sigma.Verifier, len(req.Requested))
	for i, pair := range req.Requested {
		verifiers[i] = sigma.NewLeafVerifier(zeroKnowledgeStatement(co.gens, pair.Ma, pair.Mv))
	}
	label := fmt.Sprintf("UnifiedRegistration/%d/true", len(req.Requested))
	newTr := func() *transcript.Transcript { return transcript.New(label) }
	ok, err := sigma.Verify(newTr, sigma.NewAndVerifier(verifiers...), req.Proof)
	if err != nil {
		return credential.CredentialsResponse{}, err
	}
	if !ok {
		return credential.CredentialsResponse{}, wabierr.ErrInvalidIssuanceProof
	}

	pairs := make([]credential.AttributePair, len(req.Requested))
	copy(pairs, req.Requested)
	return co.issue(label, pairs)
}

func (co *inProcessCoordinator) issueReal(req credential.RealCredentialsRequest) (credential.CredentialsResponse, error) {
	label := fmt.Sprintf("UnifiedRegistration/%d/false", len(req.Requested))

	var verifiers []sigma.Verifier
	for i := range req.Presentations {
		verifiers = append(verifiers, sigma.NewLeafVerifier(kvac.ShowStatement(co.gens, co.params.I, req.Presentations[i])))
	}
	presentedCa := make([]group.Element, len(req.Presentations))
	for i, p := range req.Presentations {
		presentedCa[i] = p.Ca
	}
	requestedMa := make([]group.Element, len(req.Requested))
	pairs := make([]credential.AttributePair, len(req.Requested))
	for i, slot := range req.Requested {
		verifiers = append(verifiers, kvac.NewRangeVerifier(co.gens, slot.Ma, slot.BitCommitments))
		requestedMa[i] = slot.Ma
		pairs[i] = credential.AttributePair{Ma: slot.Ma, Mv: slot.Mv}
	}
	b := kvac.BalanceStatementPublic(co.gens, presentedCa, requestedMa, req.DeltaAmount)
	verifiers = append(verifiers, sigma.NewLeafVerifier(kvac.BalanceStatement(co.gens, b)))

	newTr := func() *transcript.Transcript { return transcript.New(label) }
	ok, err := sigma.Verify(newTr, sigma.NewAndVerifier(verifiers...), req.Proof)
	if err != nil {
		return credential.CredentialsResponse{}, err
	}
	if !ok {
		// The AND-composed proof does not say which sub-proof failed (show,
		// range or balance); every failure is reported as ErrInvalidShowProof.
		return credential.CredentialsResponse{}, wabierr.ErrInvalidShowProof
	}

	return co.issue(label, pairs)
}

func (co *inProcessCoordinator) issue(baseLabel string, slots []credential.AttributePair) (credential.CredentialsResponse, error) {
	issued := make([]kvac.MAC, len(slots))
	for i, pair := range slots {
		mac, err := kvac.ComputeMAC(co.sk, co.gens, pair.Ma, pair.Mv, co.rng)
		if err != nil {
			return credential.CredentialsResponse{}, fmt.Errorf("coordinator: compute MAC: %w", err)
		}
		issued[i] = mac
	}

	provers := make([]sigma.Prover, len(slots))
	for i, pair := range slots {
		stmt := kvac.IssuanceStatement(co.gens, co.params, issued[i].V, pair.Ma, pair.Mv, issued[i].T)
		provers[i] = sigma.NewLeafProver(stmt, kvac.IssuanceWitness(co.sk))
	}
	newTr := func() *transcript.Transcript { return transcript.New(baseLabel + "/Issuance") }
	_, proof, err := sigma.Prove(newTr, func() sigma.Prover { return sigma.NewAndProver(provers...) }, co.rng)
	if err != nil {
		return credential.CredentialsResponse{}, fmt.Errorf("coordinator: prove issuance: %w", err)
	}

	return credential.CredentialsResponse{Issued: issued, Proof: proof}, nil
}

// zeroKnowledgeStatement mirrors credential's unexported statement of the
// same name: it isn't part of that package's public surface, so the
// coordinator, sitting outside it, restates it here against the same
// generators.
func zeroKnowledgeStatement(gens *group.Generators, ma, mv group.Element) sigma.Statement {
	inf := group.Infinity()
	return sigma.Statement{
		TypeID: "ZeroKnowledge",
		Equations: []sigma.Equation{
			{Public: ma, Generators: []group.Element{gens.Gh, inf}},
			{Public: mv, Generators: []group.Element{inf, gens.Gh}},
		},
	}
}
