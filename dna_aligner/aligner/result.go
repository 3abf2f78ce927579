package aligner

import "slices"

// Result is the outcome of aligning one query to a graph.
type Result struct {
	score     int
	traversed []int
}

// Score is the minimum edit distance between the query and any source-to-sink path.
func (r *Result) Score() int { return r.score }

// TraversedNodes returns, in ascending order, every node used by at least one optimal path.
func (r *Result) TraversedNodes() []int { return slices.Clone(r.traversed) }

// Traversed reports whether node id is on an optimal path.
func (r *Result) Traversed(id int) bool {
	_, found := slices.BinarySearch(r.traversed, id)
	return found
}
