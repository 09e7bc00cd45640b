package credential

import (
	"fmt"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
	"github.com/wabisabi-go/core/sigma"
	"github.com/wabisabi-go/core/transcript"
	"github.com/wabisabi-go/core/wabierr"
)

// Client drives the credential protocol's client side: building requests
// and validating their responses against a coordinator's public parameters.
type Client struct {
	gens       *group.Generators
	params     kvac.Params
	k          int
	rangeWidth int
	rng        transcript.RandomSource
}

// NewClient returns a Client for a coordinator with the given public
// parameters, requesting k credentials per call (the scheme's per-type
// multiplicity) and proving amounts fit in rangeWidth bits.
func NewClient(gens *group.Generators, params kvac.Params, k, rangeWidth int, rng transcript.RandomSource) *Client {
	return &Client{gens: gens, params: params, k: k, rangeWidth: rangeWidth, rng: rng}
}

// zeroKnowledgeStatement proves knowledge of (ra, rv) underlying a
// zero-valued pair of attribute commitments.
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

// CreateRequestForZeroAmount builds a request for k zero-valued credentials,
// used to seed a client's pool before it has presentable credentials.
func (c *Client) CreateRequestForZeroAmount() (ZeroCredentialsRequest, *ValidationState, error) {
	label := fmt.Sprintf("UnifiedRegistration/%d/true", c.k)

	requested := make([]AttributePair, c.k)
	stmts := make([]sigma.Statement, c.k)
	witnesses := make([]group.ScalarVector, c.k)
	pending := make([]pendingCredential, c.k)

	for i := 0; i < c.k; i++ {
		ra, err := group.RandomScalar(c.rng)
		if err != nil {
			return ZeroCredentialsRequest{}, nil, err
		}
		rv, err := group.RandomScalar(c.rng)
		if err != nil {
			return ZeroCredentialsRequest{}, nil, err
		}
		ma := kvac.CommitAttribute(c.gens.Ga, c.gens.Gh, group.Zero(), ra)
		mv := kvac.CommitAttribute(c.gens.Gv, c.gens.Gh, group.Zero(), rv)

		requested[i] = AttributePair{Ma: ma, Mv: mv}
		stmts[i] = zeroKnowledgeStatement(c.gens, ma, mv)
		witnesses[i] = group.ScalarVector{ra, rv}
		pending[i] = pendingCredential{ra: ra, rv: rv, ma: ma, mv: mv}
	}

	newTranscript := func() *transcript.Transcript { return transcript.New(label) }
	newProver := func() sigma.Prover {
		provers := make([]sigma.Prover, c.k)
		for i := range stmts {
			provers[i] = sigma.NewLeafProver(stmts[i], witnesses[i])
		}
		return sigma.NewAndProver(provers...)
	}
	_, proof, err := sigma.Prove(newTranscript, newProver, c.rng)
	if err != nil {
		return ZeroCredentialsRequest{}, nil, err
	}

	return ZeroCredentialsRequest{Requested: requested, Proof: proof},
		&ValidationState{label: label, k: c.k, pending: pending},
		nil
}

// CreateRequest builds a request for k real-valued credentials (padded with
// zero-valued attributes up to k), presenting the given already-held
// credentials to fund them. The presented credentials' amounts and vsizes
// must cover the requested ones; any difference is declared publicly as
// DeltaAmount.
func (c *Client) CreateRequest(requested []RequestedAttributes, present []Credential) (RealCredentialsRequest, *ValidationState, error) {
	if err := checkDistinctMACs(present); err != nil {
		return RealCredentialsRequest{}, nil, err
	}

	padded := padRequested(requested, c.k)
	label := fmt.Sprintf("UnifiedRegistration/%d/false", c.k)

	var (
		provers        []sigma.Prover
		presentations  = make([]kvac.Presentation, len(present))
		presentedCa    = make([]group.Element, len(present))
		sumZ           = group.Zero()
		sumPresentedRa = group.Zero()
	)
	for i, cred := range present {
		z, err := group.RandomScalar(c.rng)
		if err != nil {
			return RealCredentialsRequest{}, nil, err
		}
		pres := kvac.NewPresentation(c.gens, c.params.I, cred.Ma, cred.Mv, cred.MAC.T, z)
		presentations[i] = pres
		presentedCa[i] = pres.Ca
		sumZ = sumZ.Add(z)
		sumPresentedRa = sumPresentedRa.Add(cred.Ra)

		stmt := kvac.ShowStatement(c.gens, c.params.I, pres)
		witness := kvac.ShowWitness(z, cred.MAC.T)
		provers = append(provers, sigma.NewLeafProver(stmt, witness))
	}

	requestedSlots := make([]RequestedCredential, len(padded))
	pending := make([]pendingCredential, len(padded))
	requestedMa := make([]group.Element, len(padded))
	sumRequestedRa := group.Zero()

	var presentedTotal, requestedTotal int64
	for _, cred := range present {
		presentedTotal += int64(cred.Amount)
	}

	for i, attrs := range padded {
		ra, err := group.RandomScalar(c.rng)
		if err != nil {
			return RealCredentialsRequest{}, nil, err
		}
		rv, err := group.RandomScalar(c.rng)
		if err != nil {
			return RealCredentialsRequest{}, nil, err
		}
		ma := kvac.CommitAttribute(c.gens.Ga, c.gens.Gh, group.ScalarFromUint64(attrs.Amount), ra)
		mv := kvac.CommitAttribute(c.gens.Gv, c.gens.Gh, group.ScalarFromUint64(attrs.Vsize), rv)

		rangeProver, bitPoints, err := kvac.NewRangeProver(c.gens, ma, attrs.Amount, ra, c.rangeWidth, c.rng)
		if err != nil {
			return RealCredentialsRequest{}, nil, err
		}
		provers = append(provers, rangeProver)

		requestedSlots[i] = RequestedCredential{Ma: ma, Mv: mv, BitCommitments: bitPoints}
		requestedMa[i] = ma
		pending[i] = pendingCredential{amount: attrs.Amount, vsize: attrs.Vsize, ra: ra, rv: rv, ma: ma, mv: mv}
		sumRequestedRa = sumRequestedRa.Add(ra)
		requestedTotal += int64(attrs.Amount)
	}

	delta := presentedTotal - requestedTotal
	b := kvac.BalanceStatementPublic(c.gens, presentedCa, requestedMa, delta)
	balanceStmt := kvac.BalanceStatement(c.gens, b)
	balanceWitness := kvac.BalanceWitness(sumZ, sumPresentedRa.Sub(sumRequestedRa))
	provers = append(provers, sigma.NewLeafProver(balanceStmt, balanceWitness))

	newTranscript := func() *transcript.Transcript { return transcript.New(label) }
	subProvers := provers
	newProver := func() sigma.Prover { return sigma.NewAndProver(subProvers...) }
	_, proof, err := sigma.Prove(newTranscript, newProver, c.rng)
	if err != nil {
		return RealCredentialsRequest{}, nil, err
	}

	req := RealCredentialsRequest{
		DeltaAmount:   delta,
		Presentations: presentations,
		Requested:     requestedSlots,
		Proof:         proof,
	}
	return req, &ValidationState{label: label, k: c.k, pending: pending}, nil
}

// HandleResponse verifies a coordinator's issuance response against the
// request that produced vs, and on success materializes the newly issued
// credentials.
func (c *Client) HandleResponse(resp CredentialsResponse, vs *ValidationState) ([]Credential, error) {
	if len(resp.Issued) != vs.k || len(vs.pending) != vs.k {
		return nil, wabierr.ErrIssuedCredentialNumberMismatch
	}

	verifiers := make([]sigma.Verifier, vs.k)
	for i, pend := range vs.pending {
		stmt := kvac.IssuanceStatement(c.gens, c.params, resp.Issued[i].V, pend.ma, pend.mv, resp.Issued[i].T)
		verifiers[i] = sigma.NewLeafVerifier(stmt)
	}

	issuanceLabel := vs.label + "/Issuance"
	newTranscript := func() *transcript.Transcript { return transcript.New(issuanceLabel) }
	ok, err := sigma.Verify(newTranscript, sigma.NewAndVerifier(verifiers...), resp.Proof)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, wabierr.ErrInvalidIssuanceProof
	}

	creds := make([]Credential, vs.k)
	for i, pend := range vs.pending {
		creds[i] = Credential{
			Amount: pend.amount,
			Vsize:  pend.vsize,
			Ra:     pend.ra,
			Rv:     pend.rv,
			Ma:     pend.ma,
			Mv:     pend.mv,
			MAC:    resp.Issued[i],
		}
	}
	return creds, nil
}

func padRequested(requested []RequestedAttributes, k int) []RequestedAttributes {
	padded := make([]RequestedAttributes, k)
	copy(padded, requested)
	return padded
}

func checkDistinctMACs(present []Credential) error {
	seen := make(map[[33]byte]struct{}, len(present))
	for _, cred := range present {
		key := cred.macKey()
		if _, ok := seen[key]; ok {
			return wabierr.ErrCredentialToPresentDuplicated
		}
		seen[key] = struct{}{}
	}
	return nil
}
