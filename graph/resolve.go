package graph

// ResolveNegativeBalanceNodes implements §4.7 step 2 for one credential
// type: repeatedly pick the largest-magnitude unsatisfied vertex L, drain
// it against opposite-sign vertices taken in ascending magnitude order,
// folding excess small-side vertices into fresh reissuance vertices when
// L's degree budget can't reach them all directly, until no vertex carries
// a nonzero balance for typ.
//
// The uniform-input fast path described in §4.7 2a is a pure optimization
// of the general pass below for the equal-magnitude case (see DESIGN.md);
// this implementation always takes the general pass, which produces the
// same drains for uniform inputs without a separate code path.
func (g *Graph) ResolveNegativeBalanceNodes(typ string) error {
	for {
		unsatisfied := g.unsatisfied(typ)
		if len(unsatisfied) == 0 {
			return nil
		}
		sortDescByMagnitude(typ, g.k, unsatisfied)
		l := unsatisfied[0]
		lBalance := l.state(typ).balance
		if lBalance == 0 {
			return nil
		}
		positive := lBalance > 0

		candidates := g.oppositeSign(typ, l, positive)
		sortAscByMagnitude(typ, g.k, candidates)

		selection := make([]*Vertex, 0, len(candidates))
		sum := int64(0)
		target := abs64(lBalance)
		for _, c := range candidates {
			if sum >= target {
				break
			}
			selection = append(selection, c)
			sum += abs64(c.state(typ).balance)
		}
		if len(selection) == 0 {
			return &InvariantError{
				Invariant: "balance_not_discharged",
				Detail:    "no opposite-sign vertex available to discharge a remaining balance",
			}
		}

		reserveChange := sum < target
		available := l.remainingNonZeroOut(typ, g.k)
		if !positive {
			available = l.remainingIn(typ, g.k)
		}

		for needed(selection, reserveChange) > available {
			groupSize := g.k
			if groupSize > len(selection) {
				groupSize = len(selection)
			}
			group := selection[:groupSize]
			selection = selection[groupSize:]

			r := g.addReissuanceVertex()
			for _, n := range group {
				amt := abs64(n.state(typ).balance)
				var err error
				if positive {
					err = g.addEdge(typ, r.ID, n.ID, amt)
				} else {
					err = g.addEdge(typ, n.ID, r.ID, amt)
				}
				if err != nil {
					return err
				}
			}
			selection = append([]*Vertex{r}, selection...)
		}

		for _, n := range selection {
			remaining := abs64(l.state(typ).balance)
			if remaining == 0 {
				break
			}
			amt := abs64(n.state(typ).balance)
			if amt > remaining {
				amt = remaining
			}
			if amt == 0 {
				continue
			}
			var err error
			if positive {
				err = g.addEdge(typ, l.ID, n.ID, amt)
			} else {
				err = g.addEdge(typ, n.ID, l.ID, amt)
			}
			if err != nil {
				return err
			}
		}
	}
}

func needed(selection []*Vertex, reserveChange bool) int {
	n := len(selection)
	if reserveChange {
		n++
	}
	return n
}

func (g *Graph) unsatisfied(typ string) []*Vertex {
	var out []*Vertex
	for _, v := range g.allVertices() {
		if v.state(typ).balance != 0 {
			out = append(out, v)
		}
	}
	return out
}

func (g *Graph) oppositeSign(typ string, l *Vertex, lPositive bool) []*Vertex {
	var out []*Vertex
	for _, v := range g.allVertices() {
		if v == l {
			continue
		}
		bal := v.state(typ).balance
		if lPositive && bal < 0 {
			out = append(out, v)
		} else if !lPositive && bal > 0 {
			out = append(out, v)
		}
	}
	return out
}

// ResolveZeroCredentials implements §4.7 step 3 for one credential type:
// every vertex with a remaining in-slot but no remaining balance gets it
// filled with a zero-valued edge from a vertex whose in-degree is already
// saturated but whose zero-out capacity remains, visited in topological
// order so that a freshly created reissuance vertex's own in-slots are
// filled before it is asked to supply others.
func (g *Graph) ResolveZeroCredentials(typ string) error {
	order, err := g.topologicalOrder()
	if err != nil {
		return err
	}

	for _, v := range order {
		for v.state(typ).balance == 0 && v.remainingIn(typ, g.k) > 0 {
			source := g.zeroSource(typ, v)
			if source == nil {
				return &InvariantError{
					Invariant: "zero_credential_fill",
					Detail:    "no saturated vertex with zero-out capacity remains",
				}
			}
			if err := g.addEdge(typ, source.ID, v.ID, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) zeroSource(typ string, sink *Vertex) *Vertex {
	var candidates []*Vertex
	for _, v := range g.allVertices() {
		if v == sink {
			continue
		}
		if v.remainingIn(typ, g.k) == 0 && v.remainingZeroOut(typ, g.k) > 0 {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sortDescByMagnitude(typ, g.k, candidates)
	return candidates[0]
}
