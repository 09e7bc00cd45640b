package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/graph"
	"github.com/wabisabi-go/core/wabierr"
)

// RequestHandler is the collaborator a network/coordinator layer implements
// to actually move credentials between vertices (§6 "request handler").
// This package never dials a socket itself; it only schedules these calls
// in dependency order.
type RequestHandler interface {
	// HandleInput fulfills an input vertex's out-edges (RegisterInput +
	// ConfirmConnection), returning one credential per entry in outAmounts.
	HandleInput(ctx context.Context, vertex graph.VertexID, outAmounts []int64) ([]credential.Credential, error)

	// HandleReissuance awaits a reissuance vertex's in-edges (already
	// fulfilled by the time this is called), issues a reissuance request,
	// and returns one credential per entry in outAmounts.
	HandleReissuance(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential, outAmounts []int64) ([]credential.Credential, error)

	// HandleOutput awaits an output vertex's in-edges and issues a
	// terminal output-registration request with no outputs of its own.
	HandleOutput(ctx context.Context, vertex graph.VertexID, inCreds []credential.Credential) error
}

// Executor walks a resolved Plan, firing each vertex's request once its
// in-edges are ready and fulfilling its out-edges from the response.
type Executor struct {
	// VertexTimeout bounds how long a vertex may wait for its in-edges
	// before the round aborts (§5 "per-vertex request has an upper-bound
	// deadline"). Zero means no per-vertex timeout beyond ctx itself.
	VertexTimeout time.Duration
	Logger        zerolog.Logger
}

// NewExecutor returns an Executor with the given per-vertex timeout,
// logging vertex lifecycle events to logger.
func NewExecutor(vertexTimeout time.Duration, logger zerolog.Logger) *Executor {
	return &Executor{VertexTimeout: vertexTimeout, Logger: logger}
}

// Run executes plan to completion or until ctx is cancelled or a vertex
// fails. Cancelling ctx cancels every outstanding vertex task; any cells
// still unset are dropped without panicking their would-be consumers,
// since those consumers observe ctx.Err() instead.
func (ex *Executor) Run(ctx context.Context, plan graph.Plan, handler RequestHandler) error {
	cells := make([]*Cell, len(plan.Edges))
	for i := range cells {
		cells[i] = NewCell()
	}

	inEdgeIndices := make(map[graph.VertexID][]int)
	outEdgeIndices := make(map[graph.VertexID][]int)
	for i, e := range plan.Edges {
		inEdgeIndices[e.To] = append(inEdgeIndices[e.To], i)
		outEdgeIndices[e.From] = append(outEdgeIndices[e.From], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, pv := range plan.Vertices {
		v := pv
		g.Go(func() error {
			return ex.runVertex(gctx, v, plan, cells, inEdgeIndices[v.ID], outEdgeIndices[v.ID], handler)
		})
	}
	return g.Wait()
}

func (ex *Executor) runVertex(
	ctx context.Context,
	v graph.PlanVertex,
	plan graph.Plan,
	cells []*Cell,
	inIdx, outIdx []int,
	handler RequestHandler,
) error {
	waitCtx := ctx
	if ex.VertexTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, ex.VertexTimeout)
		defer cancel()
	}

	ex.Logger.Debug().Int("vertex", int(v.ID)).Str("kind", v.Kind.String()).Msg("awaiting in-edges")
	inCreds := make([]credential.Credential, len(inIdx))
	for i, idx := range inIdx {
		cred, err := cells[idx].Wait(waitCtx)
		if err != nil {
			ex.Logger.Warn().Int("vertex", int(v.ID)).Err(err).Msg("in-edge not fulfilled")
			return fmt.Errorf("%w: vertex %d: %v", wabierr.ErrEdgeNotFulfilled, v.ID, err)
		}
		inCreds[i] = cred
	}

	outAmounts := make([]int64, len(outIdx))
	for i, idx := range outIdx {
		outAmounts[i] = plan.Edges[idx].Amount
	}

	ex.Logger.Debug().Int("vertex", int(v.ID)).Str("kind", v.Kind.String()).Msg("firing request")
	var outCreds []credential.Credential
	var err error
	switch v.Kind {
	case graph.Input:
		outCreds, err = handler.HandleInput(ctx, v.ID, outAmounts)
	case graph.Reissuance:
		outCreds, err = handler.HandleReissuance(ctx, v.ID, inCreds, outAmounts)
	case graph.Output:
		err = handler.HandleOutput(ctx, v.ID, inCreds)
	}
	if err != nil {
		ex.Logger.Warn().Int("vertex", int(v.ID)).Err(err).Msg("request failed")
		return fmt.Errorf("runtime: vertex %d (%s): %w", v.ID, v.Kind, err)
	}
	if len(outCreds) != len(outIdx) {
		return fmt.Errorf("runtime: vertex %d (%s): handler returned %d credentials, wanted %d", v.ID, v.Kind, len(outCreds), len(outIdx))
	}

	for i, idx := range outIdx {
		cells[idx].Set(outCreds[i])
	}
	ex.Logger.Debug().Int("vertex", int(v.ID)).Str("kind", v.Kind.String()).Msg("fulfilled out-edges")
	return nil
}
