// Package wabierr defines the core's error kinds (§7): sentinel errors
// callers can match with errors.Is, wrapping additional context with
// fmt.Errorf's %w where needed.
package wabierr

import "errors"

var (
	// ErrInfinityInStatement is surfaced when a public point would be
	// absorbed into a transcript before being rejected as infinity.
	ErrInfinityInStatement = errors.New("infinity_in_statement")

	// ErrScalarOverflow is surfaced when a wire scalar decodes to a value
	// at or above the group order.
	ErrScalarOverflow = errors.New("scalar_overflow")

	// ErrScalarZeroWhereDisallowed is surfaced where a zero scalar would
	// leak that a secret component is zero (e.g. a Sigma-protocol
	// response, or a nonzero-required MAC serial).
	ErrScalarZeroWhereDisallowed = errors.New("scalar_zero_where_disallowed")

	// ErrCredentialToPresentDuplicated is returned when CreateRequest is
	// given two credentials to present that share a MAC.
	ErrCredentialToPresentDuplicated = errors.New("credential_to_present_duplicated")

	// ErrIssuedCredentialNumberMismatch is returned when a response's
	// issued count does not equal the number requested.
	ErrIssuedCredentialNumberMismatch = errors.New("issued_credential_number_mismatch")

	// ErrInvalidIssuanceProof is returned when the issuer-parameters
	// verifier rejects a CredentialsResponse.
	ErrInvalidIssuanceProof = errors.New("invalid_issuance_proof")

	// ErrInvalidShowProof is returned when a presentation's show-knowledge
	// sub-proof fails to verify.
	ErrInvalidShowProof = errors.New("invalid_show_proof")

	// ErrInvalidRangeProof is returned when a requested credential's range
	// proof fails to verify.
	ErrInvalidRangeProof = errors.New("invalid_range_proof")

	// ErrInvalidBalanceProof is returned when a request's balance-proof
	// sub-proof fails to verify.
	ErrInvalidBalanceProof = errors.New("invalid_balance_proof")

	// ErrDegreeExceeded is returned when the graph builder would add an
	// edge violating a fan-in/fan-out bound.
	ErrDegreeExceeded = errors.New("degree_exceeded")

	// ErrBalanceNotDischarged is returned when the final resolve pass
	// leaves a vertex with nonzero balance for some attribute type.
	ErrBalanceNotDischarged = errors.New("balance_not_discharged")

	// ErrEdgeNotFulfilled is returned when the runtime observes a vertex
	// whose in-edges never became ready.
	ErrEdgeNotFulfilled = errors.New("edge_not_fulfilled")
)
