// Package runtime implements the graph execution runtime (component C8):
// a single-shot synchronization cell per edge, and an Executor that walks a
// resolved graph.Plan, firing one network request per vertex once all of
// its in-edges are ready.
package runtime

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/wabisabi-go/core/credential"
)

// Cell is a single-producer/single-consumer one-shot value: the credential
// produced by an edge's source vertex and awaited by its sink vertex.
// Adapted from the teacher's per-member MemberCh channel bundle, collapsed
// from one channel per message type to one cell per edge.
type Cell struct {
	ch  chan credential.Credential
	set atomic.Bool
}

// NewCell returns an unset Cell.
func NewCell() *Cell {
	return &Cell{ch: make(chan credential.Credential, 1)}
}

// Set fulfills the cell exactly once. A second call panics, since it
// indicates a bug in the executor's edge bookkeeping, not a runtime
// condition a caller can hit.
func (c *Cell) Set(cred credential.Credential) {
	if !c.set.CompareAndSwap(false, true) {
		panic("runtime: cell set more than once")
	}
	c.ch <- cred
}

// Wait blocks until the cell is set or ctx is done, whichever comes first.
func (c *Cell) Wait(ctx context.Context) (credential.Credential, error) {
	select {
	case cred := <-c.ch:
		return cred, nil
	case <-ctx.Done():
		return credential.Credential{}, fmt.Errorf("runtime: cell wait: %w", ctx.Err())
	}
}
