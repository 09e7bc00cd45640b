package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/graph"
)

// fakeHandler issues a deterministic credential per amount so tests can
// assert on which amounts flowed through which edges without any real
// cryptography.
type fakeHandler struct {
	mu    sync.Mutex
	seen  map[int64]int
	delay time.Duration
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{seen: map[int64]int{}}
}

func (h *fakeHandler) credFor(amount int64) credential.Credential {
	h.mu.Lock()
	h.seen[amount]++
	h.mu.Unlock()
	return credential.Credential{Amount: uint64(amount)}
}

func (h *fakeHandler) HandleInput(ctx context.Context, vertex graph.VertexID, outAmounts []int64) ([]credential.Credential, error) {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	creds := make([]credential.Credential, len(outAmounts))
	for i, a := range outAmounts {
		creds[i] = h.credFor(a)
	}
	return creds, nil
}

func (h *fakeHandler) HandleReissuance(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential, outAmounts []int64) ([]credential.Credential, error) {
	creds := make([]credential.Credential, len(outAmounts))
	for i, a := range outAmounts {
		creds[i] = h.credFor(a)
	}
	return creds, nil
}

func (h *fakeHandler) HandleOutput(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential) error {
	return nil
}

func buildS2Plan(t *testing.T) graph.Plan {
	t.Helper()
	g := graph.New(2, []string{"amount"})
	g.AddInput(map[string]int64{"amount": 1_000_000})
	g.AddOutput(map[string]int64{"amount": 1_000_000})
	require.NoError(t, g.ResolveNegativeBalanceNodes("amount"))
	require.NoError(t, g.ResolveZeroCredentials("amount"))
	plan, err := g.Snapshot()
	require.NoError(t, err)
	return plan
}

func TestExecutorRunsS2ToCompletion(t *testing.T) {
	plan := buildS2Plan(t)
	handler := newFakeHandler()
	ex := NewExecutor(time.Second, zerolog.Nop())

	err := ex.Run(context.Background(), plan, handler)
	require.NoError(t, err)
	require.Equal(t, 1, handler.seen[1_000_000])
	require.Equal(t, 1, handler.seen[0])
}

func TestExecutorPropagatesHandlerError(t *testing.T) {
	plan := buildS2Plan(t)
	handler := newFakeHandler()
	ex := NewExecutor(time.Second, zerolog.Nop())

	failing := &erroringHandler{fakeHandler: handler}
	err := ex.Run(context.Background(), plan, failing)
	require.Error(t, err)
}

type erroringHandler struct {
	*fakeHandler
}

func (h *erroringHandler) HandleOutput(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential) error {
	return context.DeadlineExceeded
}

func TestExecutorTimesOutOnStalledHandler(t *testing.T) {
	plan := buildS2Plan(t)
	handler := newFakeHandler()
	handler.delay = 200 * time.Millisecond
	ex := NewExecutor(10*time.Millisecond, zerolog.Nop())

	err := ex.Run(context.Background(), plan, handler)
	require.Error(t, err)
}
