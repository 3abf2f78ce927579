package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"DNA-Graph-Alignments/dna_aligner/common"
	"DNA-Graph-Alignments/dna_aligner/graph"
)

// BuildFunc builds the graph for one region.
type BuildFunc func(region common.Region) (*graph.Graph, graph.NodeAlleleMap, error)

// Graphs keeps recently built graphs by region. Graphs are immutable, so one cached
// value is handed to every caller; failed builds are not cached.
type Graphs struct {
	mu    sync.Mutex
	cache *lru.Cache[common.Region, *graph.Graph]
	build BuildFunc

	hits   int
	misses int
}

// NewGraphs returns a cache holding up to size graphs.
func NewGraphs(size int, build BuildFunc) (*Graphs, error) {
	if build == nil {
		return nil, errors.New("graph cache needs a build function")
	}
	c, err := lru.New[common.Region, *graph.Graph](size)
	if err != nil {
		return nil, errors.Wrap(err, "new graph cache")
	}
	return &Graphs{cache: c, build: build}, nil
}

// Get returns the graph for region, building it on a miss.
// The returned allele map is a copy the caller may modify.
func (c *Graphs) Get(region common.Region) (*graph.Graph, graph.NodeAlleleMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.cache.Get(region); ok {
		c.hits++
		return g, g.AlleleMap(), nil
	}
	c.misses++

	g, _, err := c.build(region)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "build graph for %s", region)
	}
	c.cache.Add(region, g)
	return g, g.AlleleMap(), nil
}

// Stats returns the hit and miss counts.
func (c *Graphs) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached graphs.
func (c *Graphs) Len() int {
	return c.cache.Len()
}
