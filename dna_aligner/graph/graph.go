package graph

import (
	"bytes"
	"iter"
	"slices"

	"DNA-Graph-Alignments/dna_aligner/common"
)

// NodeAlleleMap maps a node id to the alleles that node represents.
// Pure backbone nodes outside every variant are absent.
type NodeAlleleMap map[int][]common.AlleleTag

// Edge is a directed adjacency: To may be entered once From is fully consumed.
type Edge struct {
	From int
	To   int
}

type node struct {
	seq   []byte
	tags  []common.AlleleTag
	succ  []int
	pred  []int
	start int // backbone offset of the first byte, -1 for ALT nodes
}

// Graph is a directed acyclic sequence graph with one source and one sink.
// Node ids are a topological order: every edge goes from a lower id to a higher one.
// A Graph is never modified after Build returns and can be shared between goroutines.
type Graph struct {
	nodes  []node
	edges  int
	source int
	sink   int
	region common.Region
}

// NumNodes returns the number of nodes; ids run from 0 to NumNodes()-1.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return g.edges }

// Source returns the id of the only node without predecessors.
func (g *Graph) Source() int { return g.source }

// Sink returns the id of the only node without successors.
func (g *Graph) Sink() int { return g.sink }

// Region returns the backbone window the graph was built over.
func (g *Graph) Region() common.Region { return g.region }

// Len returns the number of bytes in node id.
func (g *Graph) Len(id int) int { return len(g.nodes[id].seq) }

// Base returns byte off of node id.
func (g *Graph) Base(id, off int) byte { return g.nodes[id].seq[off] }

// Sequence returns a copy of the bytes of node id.
func (g *Graph) Sequence(id int) []byte { return bytes.Clone(g.nodes[id].seq) }

// Tags returns a copy of the allele tags of node id.
func (g *Graph) Tags(id int) []common.AlleleTag { return slices.Clone(g.nodes[id].tags) }

// BackboneStart returns the backbone offset node id starts at, or -1 for an alternate allele node.
func (g *Graph) BackboneStart(id int) int { return g.nodes[id].start }

// Successors yields the ids reachable over one outgoing edge, in ascending order.
func (g *Graph) Successors(id int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, s := range g.nodes[id].succ {
			if !yield(s) {
				return
			}
		}
	}
}

// Predecessors yields the ids with an edge into id, in ascending order.
func (g *Graph) Predecessors(id int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, p := range g.nodes[id].pred {
			if !yield(p) {
				return
			}
		}
	}
}

// Edges returns every edge ordered by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from := range g.nodes {
		for _, to := range g.nodes[from].succ {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// AlleleMap rebuilds the node to allele lookup for the graph.
func (g *Graph) AlleleMap() NodeAlleleMap {
	m := make(NodeAlleleMap)
	for id := range g.nodes {
		if len(g.nodes[id].tags) > 0 {
			m[id] = slices.Clone(g.nodes[id].tags)
		}
	}
	return m
}
