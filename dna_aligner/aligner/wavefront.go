package aligner

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"DNA-Graph-Alignments/dna_aligner/config"
	"DNA-Graph-Alignments/dna_aligner/graph"
)

var (
	// ErrQueryExceedsBound is returned when no alignment is found within the score ceiling.
	ErrQueryExceedsBound = errors.New("query exceeds edit distance bound")
	// ErrNilGraph is returned when EditDistance is called without a graph.
	ErrNilGraph = errors.New("nil graph")
)

// Engine computes unit-cost edit distance between a query and a graph.
// An Engine holds only configuration; all per-alignment state lives inside EditDistance,
// so one Engine and one Graph can serve any number of concurrent calls.
type Engine struct {
	wildcard    byte
	useWildcard bool
	maxScore    int // negative: derived from the query and graph per call
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWildcard sets the byte that matches any byte during extension.
func WithWildcard(b byte) Option {
	return func(e *Engine) {
		e.wildcard = b
		e.useWildcard = true
	}
}

// WithoutWildcard makes every byte match only itself.
func WithoutWildcard() Option {
	return func(e *Engine) {
		e.useWildcard = false
	}
}

// WithMaxEditDistance caps the score searched before giving up with ErrQueryExceedsBound.
// The default is the query length plus the longest source-to-sink path.
func WithMaxEditDistance(n int) Option {
	return func(e *Engine) {
		e.maxScore = n
	}
}

// WithLogger sets the logger used for alignment diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an Engine using the default wildcard and score ceiling unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		wildcard:    config.DefaultWildcard,
		useWildcard: true,
		maxScore:    -1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// EditDistance aligns query to g with the default Engine.
func EditDistance(g *graph.Graph, query []byte) (*Result, error) {
	return defaultEngine.EditDistance(g, query)
}

// state is a position in the alignment: q query bytes consumed, next graph byte at
// (node, off). Offsets always point inside a node except the final sink position
// (sink, Len(sink)), so a position has exactly one representation.
type state struct {
	node int
	off  int
	q    int
}

// EditDistance returns the minimum edit distance between query and any source-to-sink path
// of g, along with every node that lies on at least one path achieving it.
//
// Without WithMaxEditDistance the ceiling is len(query) plus the longest path, which no
// alignment can exceed, so the search always runs to completion. Callers aligning
// untrusted queries should set a ceiling to bound the work per call.
func (e *Engine) EditDistance(g *graph.Graph, query []byte) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	maxScore := e.maxScore
	if maxScore < 0 {
		maxScore = len(query) + graph.LongestPathLength(g)
	}

	w := &wavefront{
		e:       e,
		g:       g,
		query:   query,
		reached: make(map[state]int),
	}

	seeds := make(map[state]nodeSet)
	w.enter(g.Source(), newNodeSet(g.NumNodes()), func(node, off int, set nodeSet) {
		st := state{node: node, off: off}
		seeds[st] = seeds[st].union(set)
	})

	final := state{node: g.Sink(), off: g.Len(g.Sink()), q: len(query)}
	for score := 0; score <= maxScore && len(seeds) > 0; score++ {
		front := w.extend(seeds, score)
		if set, ok := front[final]; ok {
			e.logger.Debug(
				"aligned query",
				zap.Int("query_len", len(query)),
				zap.Int("score", score),
				zap.Int("states", len(w.reached)),
			)
			return &Result{score: score, traversed: set.ids()}, nil
		}
		seeds = w.expand(front)
	}

	return nil, errors.Wrapf(ErrQueryExceedsBound, "no alignment of %d bytes within edit distance %d", len(query), maxScore)
}

// wavefront is the scratch state of one EditDistance call.
type wavefront struct {
	e     *Engine
	g     *graph.Graph
	query []byte

	// reached records the score each state was first reached at.
	reached map[state]int
}

func (w *wavefront) matches(a, b byte) bool {
	return a == b || (w.e.useWildcard && (a == w.e.wildcard || b == w.e.wildcard))
}

// extend follows zero-cost matches from the seeds and returns every state first reached
// at score, each with the union of the node sets of all paths reaching it at that score.
// States are processed by query offset; a match always consumes one query byte, so every
// same-score contributor to a state is merged before the state itself is extended.
func (w *wavefront) extend(seeds map[state]nodeSet, score int) map[state]nodeSet {
	front := make(map[state]nodeSet, len(seeds))
	buckets := make([][]state, len(w.query)+1)
	for st, set := range seeds {
		w.reached[st] = score
		front[st] = set
		buckets[st.q] = append(buckets[st.q], st)
	}

	for q := 0; q < len(w.query); q++ {
		for _, st := range buckets[q] {
			if st.off >= w.g.Len(st.node) || !w.matches(w.g.Base(st.node, st.off), w.query[q]) {
				continue
			}
			w.advance(st.node, st.off, front[st], func(node, off int, set nodeSet) {
				next := state{node: node, off: off, q: q + 1}
				if prev, seen := w.reached[next]; seen {
					if prev == score {
						front[next] = front[next].union(set)
					}
					return
				}
				w.reached[next] = score
				front[next] = set
				buckets[q+1] = append(buckets[q+1], next)
			})
		}
	}
	return front
}

// expand applies the three unit-cost moves to every state of front and returns the
// states not reached before, which seed the next score.
func (w *wavefront) expand(front map[state]nodeSet) map[state]nodeSet {
	seeds := make(map[state]nodeSet)
	add := func(st state, set nodeSet) {
		if _, seen := w.reached[st]; seen {
			return
		}
		seeds[st] = seeds[st].union(set)
	}

	for st, set := range front {
		inNode := st.off < w.g.Len(st.node)
		if st.q < len(w.query) {
			// query byte absent from the graph
			add(state{node: st.node, off: st.off, q: st.q + 1}, set)
			if inNode {
				// substitution
				w.advance(st.node, st.off, set, func(node, off int, s nodeSet) {
					add(state{node: node, off: off, q: st.q + 1}, s)
				})
			}
		}
		if inNode {
			// graph byte absent from the query
			w.advance(st.node, st.off, set, func(node, off int, s nodeSet) {
				add(state{node: node, off: off, q: st.q}, s)
			})
		}
	}
	return seeds
}

// advance steps one byte past (node, off), crossing into successors when node is used up.
func (w *wavefront) advance(node, off int, set nodeSet, emit func(node, off int, set nodeSet)) {
	if off+1 < w.g.Len(node) || node == w.g.Sink() {
		emit(node, off+1, set)
		return
	}
	for succ := range w.g.Successors(node) {
		w.enter(succ, set, emit)
	}
}

// enter emits the first position of node, passing straight through empty nodes.
func (w *wavefront) enter(node int, set nodeSet, emit func(node, off int, set nodeSet)) {
	set = set.with(node)
	if w.g.Len(node) > 0 || node == w.g.Sink() {
		emit(node, 0, set)
		return
	}
	for succ := range w.g.Successors(node) {
		w.enter(succ, set, emit)
	}
}
