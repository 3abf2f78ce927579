package graph

import "math"

// ShortestPathLength returns the number of bytes on the shortest source-to-sink path.
// This is the edit distance of an empty query against the graph.
func ShortestPathLength(g *Graph) int {
	return pathLength(g, func(a, b int) bool { return a < b }, math.MaxInt)
}

// LongestPathLength returns the number of bytes on the longest source-to-sink path.
func LongestPathLength(g *Graph) int {
	return pathLength(g, func(a, b int) bool { return a > b }, math.MinInt)
}

// pathLength relaxes edges in node id order, which is a topological order of the graph.
// better reports whether a candidate distance should replace the current one.
func pathLength(g *Graph, better func(a, b int) bool, unset int) int {
	if g == nil || g.NumNodes() == 0 {
		return 0
	}

	dist := make([]int, g.NumNodes())
	for i := range dist {
		dist[i] = unset
	}
	dist[g.source] = g.Len(g.source)

	for u := g.source; u < g.NumNodes(); u++ {
		if dist[u] == unset {
			continue
		}
		for v := range g.Successors(u) {
			if d := dist[u] + g.Len(v); better(d, dist[v]) {
				dist[v] = d
			}
		}
	}
	return dist[g.sink]
}
