package graph

import "github.com/wabisabi-go/core/wabierr"

// PlanVertex is an immutable description of one resolved vertex.
type PlanVertex struct {
	ID   VertexID
	Kind VertexKind
}

// PlanEdge is an immutable description of one resolved edge.
type PlanEdge struct {
	Type   string
	From   VertexID
	To     VertexID
	Amount int64
}

// Plan is the immutable snapshot a Graph exports once every credential
// type has been resolved, consumed by the runtime executor.
type Plan struct {
	K        int
	Vertices []PlanVertex
	Edges    []PlanEdge
}

// InEdges returns the edges whose To is v, in the order they appear in the
// plan (which is insertion order, not necessarily topological).
func (p Plan) InEdges(v VertexID) []PlanEdge {
	var out []PlanEdge
	for _, e := range p.Edges {
		if e.To == v {
			out = append(out, e)
		}
	}
	return out
}

// OutEdges returns the edges whose From is v.
func (p Plan) OutEdges(v VertexID) []PlanEdge {
	var out []PlanEdge
	for _, e := range p.Edges {
		if e.From == v {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot validates every resolved balance is zero and the graph is
// acyclic, then exports an immutable Plan.
func (g *Graph) Snapshot() (Plan, error) {
	for _, v := range g.allVertices() {
		for _, typ := range g.types {
			if v.state(typ).balance != 0 {
				return Plan{}, wabierr.ErrBalanceNotDischarged
			}
		}
	}
	if _, err := g.topologicalOrder(); err != nil {
		return Plan{}, err
	}

	vertices := make([]PlanVertex, len(g.vertices))
	for i, v := range g.vertices {
		vertices[i] = PlanVertex{ID: v.ID, Kind: v.Kind}
	}
	edges := make([]PlanEdge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = PlanEdge{Type: e.Type, From: e.From, To: e.To, Amount: e.Amount}
	}
	return Plan{K: g.k, Vertices: vertices, Edges: edges}, nil
}

// topologicalOrder returns the graph's vertices in a deterministic
// topological order (Kahn's algorithm, breaking ties by VertexID) over the
// edges added so far across all types. An error indicates the resolver
// produced a cycle, which is a bug rather than caller-correctable input.
func (g *Graph) topologicalOrder() ([]*Vertex, error) {
	indegree := make(map[VertexID]int, len(g.vertices))
	adj := make(map[VertexID][]VertexID, len(g.vertices))
	for _, v := range g.vertices {
		indegree[v.ID] = 0
	}
	for _, e := range g.edges {
		indegree[e.To]++
		adj[e.From] = append(adj[e.From], e.To)
	}

	var ready []VertexID
	for _, v := range g.vertices {
		if indegree[v.ID] == 0 {
			ready = append(ready, v.ID)
		}
	}

	var order []*Vertex
	for len(ready) > 0 {
		var next VertexID
		next, ready = popSmallest(ready)
		order = append(order, g.vertex(next))
		for _, to := range adj[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) != len(g.vertices) {
		return nil, &InvariantError{Invariant: "acyclicity", Detail: "resolved graph contains a cycle"}
	}
	return order, nil
}

func popSmallest(ids []VertexID) (VertexID, []VertexID) {
	smallestIdx := 0
	for i, id := range ids {
		if id < ids[smallestIdx] {
			smallestIdx = i
		}
	}
	smallest := ids[smallestIdx]
	ids = append(ids[:smallestIdx], ids[smallestIdx+1:]...)
	return smallest, ids
}
