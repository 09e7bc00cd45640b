package credential

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
	"github.com/wabisabi-go/core/sigma"
)

// AttributePair is a credential's two attribute commitments, named
// generically because a single credential always carries both jointly (see
// Credential).
type AttributePair struct {
	Ma, Mv group.Element
}

// ZeroCredentialsRequest asks the coordinator to issue k zero-valued
// credentials, proving knowledge of each commitment's randomness.
type ZeroCredentialsRequest struct {
	Requested []AttributePair
	Proof     sigma.Proof
}

// RequestedCredential is one real-valued credential slot within a
// RealCredentialsRequest: its attribute commitments plus the amount
// attribute's range-proof bit commitments.
type RequestedCredential struct {
	Ma, Mv         group.Element
	BitCommitments []group.Element
}

// RealCredentialsRequest asks the coordinator to issue k real-valued
// credentials in exchange for presenting some already-held credentials,
// declaring the public amount delta between what is presented and what is
// requested.
type RealCredentialsRequest struct {
	DeltaAmount   int64
	Presentations []kvac.Presentation
	Requested     []RequestedCredential
	Proof         sigma.Proof
}

// CredentialsResponse carries the coordinator's freshly issued MACs plus its
// proof that each was computed correctly under its issuer parameters.
type CredentialsResponse struct {
	Issued []kvac.MAC
	Proof  sigma.Proof
}

// RequestedAttributes is the (amount, vsize) pair a caller wants a new
// credential to carry.
type RequestedAttributes struct {
	Amount uint64
	Vsize  uint64
}

// pendingCredential is everything the client must remember between sending
// a request and receiving its response, in order to materialize the
// resulting Credential values.
type pendingCredential struct {
	amount uint64
	vsize  uint64
	ra, rv group.Scalar
	ma, mv group.Element
}

// ValidationState is the client's memory of an in-flight request: enough to
// verify the response and materialize credentials from it.
type ValidationState struct {
	label   string
	k       int
	pending []pendingCredential
}
