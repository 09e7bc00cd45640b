package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/graph"
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
	"github.com/wabisabi-go/core/transcript"
)

// simHandler is the in-process stand-in for a coordinator/wallet pair: it
// satisfies runtime.RequestHandler by driving a credential.Client against
// an inProcessCoordinator for every vertex the executor fires. A real
// deployment splits this across a network boundary (§1 Non-goals); here
// both sides just call each other directly.
type simHandler struct {
	client *credential.Client
	coord  *inProcessCoordinator
	k      int
	logger zerolog.Logger
}

func newSimHandler(gens *group.Generators, coord *inProcessCoordinator, k int, rng transcript.RandomSource, logger zerolog.Logger) *simHandler {
	client := credential.NewClient(gens, coord.params, k, kvac.MaxRangeWidth, rng)
	return &simHandler{client: client, coord: coord, k: k, logger: logger}
}

// HandleInput fulfills an input vertex's out-edges. A real input is funded
// by its UTXO out-of-band (wallet signature, checked by the coordinator,
// out of scope here), so every request presents no existing credentials.
// Requests are chunked to the protocol's batch size k: a single input may
// need more than k out-edges (e.g. funding several outputs directly plus
// zero-filling their remaining in-slots), so it submits one
// RealCredentialsRequest per chunk.
func (h *simHandler) HandleInput(ctx context.Context, vertex graph.VertexID, outAmounts []int64) ([]credential.Credential, error) {
	h.logger.Debug().Int("vertex", int(vertex)).Int("outEdges", len(outAmounts)).Msg("registering input")
	return h.requestInChunks(outAmounts, nil)
}

// HandleReissuance awaits a reissuance vertex's in-edges and reissues them
// as its out-edges' amounts. The vertex's presented credentials are spent
// in the first chunk; any further chunks (when out-degree exceeds k)
// request additional value with nothing presented, a simplification noted
// in DESIGN.md since this binary only demonstrates the runtime, not a
// conformance-grade coordinator.
func (h *simHandler) HandleReissuance(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential, outAmounts []int64) ([]credential.Credential, error) {
	h.logger.Debug().Int("vertex", int(vertex)).Int("inEdges", len(inCreds)).Int("outEdges", len(outAmounts)).Msg("reissuing credentials")
	return h.requestInChunks(outAmounts, inCreds)
}

// HandleOutput awaits an output vertex's in-edges and registers a terminal
// output request with no credentials requested back.
func (h *simHandler) HandleOutput(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential) error {
	h.logger.Debug().Int("vertex", int(vertex)).Int("inEdges", len(inCreds)).Msg("registering output")
	_, err := h.requestInChunks(nil, inCreds)
	return err
}

func (h *simHandler) requestInChunks(outAmounts []int64, present []credential.Credential) ([]credential.Credential, error) {
	if len(outAmounts) == 0 {
		_, err := h.request(nil, present)
		return nil, err
	}

	var out []credential.Credential
	for len(outAmounts) > 0 {
		n := h.k
		if n > len(outAmounts) {
			n = len(outAmounts)
		}
		chunk := outAmounts[:n]
		outAmounts = outAmounts[n:]

		var presentHere []credential.Credential
		if present != nil {
			presentHere = present
			present = nil
		}

		creds, err := h.request(chunk, presentHere)
		if err != nil {
			return nil, err
		}
		out = append(out, creds[:len(chunk)]...)
	}
	return out, nil
}

func (h *simHandler) request(amounts []int64, present []credential.Credential) ([]credential.Credential, error) {
	requested := make([]credential.RequestedAttributes, len(amounts))
	for i, a := range amounts {
		requested[i] = credential.RequestedAttributes{Amount: uint64(a)}
	}

	req, vs, err := h.client.CreateRequest(requested, present)
	if err != nil {
		return nil, fmt.Errorf("handler: create request: %w", err)
	}
	resp, err := h.coord.issueReal(req)
	if err != nil {
		return nil, fmt.Errorf("handler: coordinator issue: %w", err)
	}
	creds, err := h.client.HandleResponse(resp, vs)
	if err != nil {
		return nil, fmt.Errorf("handler: handle response: %w", err)
	}
	return creds, nil
}
