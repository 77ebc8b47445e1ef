// Package depgraph builds the rule-dependency graph, decomposes it into
// strongly connected components via Tarjan's algorithm, and orders those
// components for evaluation.
package depgraph

import (
	"sort"

	"github.com/conduit-lang/datalog/internal/datalog/ast"
)

// Graph is the rule-dependency graph: an edge r -> s means rule r's body
// contains a predicate whose name matches rule s's head name, i.e. r
// depends on s's output.
type Graph struct {
	edges [][]int // edges[r] = sorted, deduplicated list of rules r depends on
}

// Build constructs the dependency graph over rules, assigning each rule its
// index in the slice as its stable node id.
func Build(rules []*ast.Rule) *Graph {
	headIndex := make(map[string][]int, len(rules))
	for i, r := range rules {
		headIndex[r.Head.Name] = append(headIndex[r.Head.Name], i)
	}

	g := &Graph{edges: make([][]int, len(rules))}
	for i, r := range rules {
		seen := make(map[int]bool)
		for _, pred := range r.Body {
			for _, j := range headIndex[pred.Name] {
				if !seen[j] {
					seen[j] = true
					g.edges[i] = append(g.edges[i], j)
				}
			}
		}
		sort.Ints(g.edges[i])
	}
	return g
}

// Dependencies returns the sorted list of rule indices that rule i depends
// on directly (an edge i -> j for each).
func (g *Graph) Dependencies(i int) []int {
	return g.edges[i]
}

// HasSelfLoop reports whether rule i has an edge to itself.
func (g *Graph) HasSelfLoop(i int) bool {
	for _, j := range g.edges[i] {
		if j == i {
			return true
		}
	}
	return false
}

// SCC is one strongly connected component of the dependency graph: the set
// of rule indices it contains, in ascending order.
type SCC struct {
	Rules []int
}

// tarjan holds the working state of Tarjan's algorithm across its
// recursive visits.
type tarjan struct {
	g        *Graph
	index    int
	indices  []int
	lowlink  []int
	onStack  []bool
	stack    []int
	sccs     []SCC
}

// SCCs computes the graph's strongly connected components using Tarjan's
// algorithm and returns them in the order Tarjan naturally emits them: a
// component is completed (popped off the stack) only once every component
// it can reach has already been completed, which is exactly reverse
// topological order of the condensation - components with no outgoing
// edges to other components come first, matching the evaluation order the
// fixed-point evaluator needs.
func (g *Graph) SCCs() []SCC {
	n := len(g.edges)
	t := &tarjan{
		g:       g,
		indices: make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
	}
	for i := range t.indices {
		t.indices[i] = -1
	}
	for v := 0; v < n; v++ {
		if t.indices[v] == -1 {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(v int) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.edges[v] {
		switch {
		case t.indices[w] == -1:
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		case t.onStack[w]:
			if t.indices[w] < t.lowlink[v] {
				t.lowlink[v] = t.indices[w]
			}
		}
	}

	if t.lowlink[v] != t.indices[v] {
		return
	}

	var members []int
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		members = append(members, w)
		if w == v {
			break
		}
	}
	sort.Ints(members)
	t.sccs = append(t.sccs, SCC{Rules: members})
}
