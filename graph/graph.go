// Package graph implements the dependency graph resolver (component C7):
// given a set of input and output vertices carrying per-credential-type
// balances, it produces a DAG of reissuance vertices and credential-carrying
// edges satisfying the fan-in/fan-out and balance invariants of §4.7.
package graph

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/wabisabi-go/core/wabierr"
)

// VertexKind distinguishes the three roles a vertex can play.
type VertexKind int

const (
	Input VertexKind = iota
	Output
	Reissuance
)

func (k VertexKind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Reissuance:
		return "reissuance"
	default:
		return "unknown"
	}
}

// VertexID addresses a vertex in a Graph's arena. IDs are stable for the
// lifetime of the Graph.
type VertexID int

// typeBalance tracks one credential type's resolution state at a vertex.
type typeBalance struct {
	balance    int64
	inCount    int
	outNonZero int
	outZero    int
}

// Vertex is one node of the resolver's arena-allocated graph.
type Vertex struct {
	ID    VertexID
	Kind  VertexKind
	types map[string]*typeBalance
}

func newVertex(id VertexID, kind VertexKind, initial map[string]int64) *Vertex {
	v := &Vertex{ID: id, Kind: kind, types: make(map[string]*typeBalance, len(initial))}
	for typ, bal := range initial {
		v.types[typ] = &typeBalance{balance: bal}
	}
	return v
}

func (v *Vertex) state(typ string) *typeBalance {
	tb, ok := v.types[typ]
	if !ok {
		tb = &typeBalance{}
		v.types[typ] = tb
	}
	return tb
}

// maxInDegree, maxNonZeroOutDegree and maxZeroOutDegree are the §4.7 fan
// bounds for a vertex's kind, parameterized by the protocol's credential
// multiplicity k.
func (v *Vertex) maxInDegree(k int) int {
	switch v.Kind {
	case Input:
		return 0
	default:
		return k
	}
}

func (v *Vertex) maxNonZeroOutDegree(k int) int {
	switch v.Kind {
	case Output:
		return 0
	default:
		return k
	}
}

func (v *Vertex) maxZeroOutDegree(k int) int {
	switch v.Kind {
	case Output:
		return 0
	case Reissuance:
		return k * (k - 1)
	default:
		return k
	}
}

func (v *Vertex) remainingNonZeroOut(typ string, k int) int {
	return v.maxNonZeroOutDegree(k) - v.state(typ).outNonZero
}

func (v *Vertex) remainingZeroOut(typ string, k int) int {
	return v.maxZeroOutDegree(k) - v.state(typ).outZero
}

func (v *Vertex) remainingIn(typ string, k int) int {
	return v.maxInDegree(k) - v.state(typ).inCount
}

// Edge carries one credential's worth of value, for one credential type,
// from one vertex to another.
type Edge struct {
	Type   string
	From   VertexID
	To     VertexID
	Amount int64 // non-negative; zero marks a zero-credential filler edge
}

// InvariantError reports a graph-construction invariant violated by a bug
// in the resolver itself, rather than by caller input. Per §7, these abort
// the round naming the violated invariant rather than being treated as a
// retryable error.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("graph: invariant violated: %s", e.Invariant)
	}
	return fmt.Sprintf("graph: invariant violated: %s: %s", e.Invariant, e.Detail)
}

// Graph is the mutable, arena-allocated resolver state: every resolve pass
// mutates vertices and appends edges in place. Call Snapshot to export an
// immutable Plan once resolution is complete.
type Graph struct {
	k        int
	vertices []*Vertex
	edges    []Edge
	types    []string
}

// New returns an empty Graph for the given credential multiplicity k and
// the fixed, ordered set of credential types it will resolve.
func New(k int, types []string) *Graph {
	return &Graph{k: k, types: append([]string(nil), types...)}
}

// K returns the credential multiplicity this graph was built for.
func (g *Graph) K() int { return g.k }

// Types returns the credential types this graph resolves, in fixed order.
func (g *Graph) Types() []string { return append([]string(nil), g.types...) }

// AddInput creates an input vertex with the given positive per-type values.
func (g *Graph) AddInput(balances map[string]int64) VertexID {
	return g.addVertex(Input, balances)
}

// AddOutput creates an output vertex with the given per-type values,
// expressed as non-negative sink magnitudes (internally stored negated,
// per §4.7's "outputs[] with per-type values ≤ 0").
func (g *Graph) AddOutput(balances map[string]int64) VertexID {
	negated := make(map[string]int64, len(balances))
	for typ, v := range balances {
		negated[typ] = -v
	}
	return g.addVertex(Output, negated)
}

func (g *Graph) addReissuanceVertex() *Vertex {
	id := g.addVertex(Reissuance, nil)
	return g.vertex(id)
}

func (g *Graph) addVertex(kind VertexKind, balances map[string]int64) VertexID {
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, newVertex(id, kind, balances))
	return id
}

func (g *Graph) vertex(id VertexID) *Vertex {
	return g.vertices[id]
}

func (g *Graph) allVertices() []*Vertex {
	return g.vertices
}

// addEdge records an edge and updates both endpoints' degree counters and
// balances, rejecting edges that would violate a fan-in/fan-out bound.
func (g *Graph) addEdge(typ string, from, to VertexID, amount int64) error {
	if amount < 0 {
		return &InvariantError{Invariant: "non_negative_edge", Detail: "negative edge amount"}
	}
	fv, tv := g.vertex(from), g.vertex(to)
	zero := amount == 0

	if zero {
		if fv.remainingZeroOut(typ, g.k) <= 0 {
			return fmt.Errorf("%w: vertex %d zero-out degree on %q", wabierr.ErrDegreeExceeded, from, typ)
		}
	} else {
		if fv.remainingNonZeroOut(typ, g.k) <= 0 {
			return fmt.Errorf("%w: vertex %d out degree on %q", wabierr.ErrDegreeExceeded, from, typ)
		}
	}
	if tv.remainingIn(typ, g.k) <= 0 {
		return fmt.Errorf("%w: vertex %d in degree on %q", wabierr.ErrDegreeExceeded, to, typ)
	}

	fs, ts := fv.state(typ), tv.state(typ)
	if zero {
		fs.outZero++
	} else {
		fs.outNonZero++
	}
	ts.inCount++
	fs.balance -= amount
	ts.balance += amount

	g.edges = append(g.edges, Edge{Type: typ, From: from, To: to, Amount: amount})
	return nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// sortDescByMagnitude orders vertices by |balance| descending for the given
// type, breaking ties by remaining non-zero out-degree descending, then
// remaining zero-out capacity descending, then vertex ID ascending — the
// deterministic ordering §4.7 requires to avoid crossing edges.
func sortDescByMagnitude(typ string, k int, vs []*Vertex) {
	slices.SortFunc(vs, func(a, b *Vertex) int {
		return compareVertices(typ, k, a, b, true)
	})
}

// sortAscByMagnitude orders vertices by |balance| ascending, same tie-break.
func sortAscByMagnitude(typ string, k int, vs []*Vertex) {
	slices.SortFunc(vs, func(a, b *Vertex) int {
		return compareVertices(typ, k, a, b, false)
	})
}

func compareVertices(typ string, k int, a, b *Vertex, descending bool) int {
	ma, mb := abs64(a.state(typ).balance), abs64(b.state(typ).balance)
	if ma != mb {
		if descending {
			if ma > mb {
				return -1
			}
			return 1
		}
		if ma < mb {
			return -1
		}
		return 1
	}
	ra, rb := a.remainingNonZeroOut(typ, k), b.remainingNonZeroOut(typ, k)
	if ra != rb {
		if ra > rb {
			return -1
		}
		return 1
	}
	za, zb := a.remainingZeroOut(typ, k), b.remainingZeroOut(typ, k)
	if za != zb {
		if za > zb {
			return -1
		}
		return 1
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	return 0
}
