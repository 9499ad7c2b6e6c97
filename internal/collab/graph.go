// Package collab derives the investigator collaboration network from a
// filtered record set and computes a deterministic 2-D layout for it. Graph
// construction and layout are independent stages so each can be exercised
// without the other.
package collab

import (
	"strings"

	"grantlens/internal/dataset"
)

// Edge is one directed collaboration: primary investigator to named
// co-investigator.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a simple directed graph over investigator display names. Nodes
// and edges keep first-seen insertion order, so two builds from the same
// record set are identical element for element.
type Graph struct {
	nodes   []string
	nodeIdx map[string]int
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIdx: make(map[string]int),
		edgeSet: make(map[Edge]struct{}),
	}
}

// Build constructs the collaboration graph for records. Every record
// contributes one edge per co-investigator name that is non-empty after
// trimming; repeats collapse to a single edge. Node identity is exact-string
// equality and self-loops survive, so name errors in the raw data stay
// visible instead of being cleaned away.
func Build(records []dataset.Record) *Graph {
	g := NewGraph()
	for _, r := range records {
		for _, name := range r.CoInvestigators {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			g.AddEdge(r.PIName, name)
		}
	}
	return g
}

// AddNode inserts name if absent and returns its index.
func (g *Graph) AddNode(name string) int {
	if i, ok := g.nodeIdx[name]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodeIdx[name] = i
	g.nodes = append(g.nodes, name)
	return i
}

// AddEdge inserts the directed edge from→to, adding either endpoint as
// needed. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	e := Edge{From: from, To: to}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

// Nodes returns the node names in insertion order. The slice is shared;
// callers must not modify it.
func (g *Graph) Nodes() []string { return g.nodes }

// Edges returns the edges in insertion order. The slice is shared; callers
// must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// HasEdge reports whether the directed edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: from, To: to}]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// index returns the node's position in insertion order, -1 when absent.
func (g *Graph) index(name string) int {
	if i, ok := g.nodeIdx[name]; ok {
		return i
	}
	return -1
}
