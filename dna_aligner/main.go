package main

import (
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"DNA-Graph-Alignments/dna_aligner/aligner"
	"DNA-Graph-Alignments/dna_aligner/cache"
	"DNA-Graph-Alignments/dna_aligner/common"
	"DNA-Graph-Alignments/dna_aligner/config"
	"DNA-Graph-Alignments/dna_aligner/graph"
	"DNA-Graph-Alignments/dna_aligner/io"
	"DNA-Graph-Alignments/dna_aligner/sequence"
	"DNA-Graph-Alignments/dna_aligner/variants"
)

var CLI struct {
	Debug bool `help:"Enable debug logging."`

	Align AlignCmd `cmd:"" help:"Align query sequences to the variant graph of every region of a run file."`
	Graph GraphCmd `cmd:"" help:"Print the nodes and edges of the variant graph of every region of a run file."`
}

// AlignCmd aligns each query file against the graph of each region.
type AlignCmd struct {
	Config      string   `name:"config" short:"c" required:"" type:"existingfile" help:"YAML run file."`
	BothStrands bool     `name:"both-strands" help:"Also align the reverse complement and keep the better score."`
	Workers     int      `name:"workers" default:"1" help:"Queries aligned concurrently."`
	Queries     []string `arg:"" type:"existingfile" help:"Query sequence files."`
}

// GraphCmd prints the graphs built from a run file.
type GraphCmd struct {
	Config string `name:"config" short:"c" required:"" type:"existingfile" help:"YAML run file."`
}

// session holds everything loaded from one run file.
type session struct {
	vars    []*variants.Variant
	regions []common.Region
	graphs  *cache.Graphs
	engine  *aligner.Engine
}

func openSession(path string, logger *zap.Logger) (*session, error) {
	run, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	backbone, err := run.BackboneSequence()
	if err != nil {
		return nil, err
	}
	vars, err := run.VariantList()
	if err != nil {
		return nil, err
	}
	wildcard, useWildcard, err := run.WildcardByte()
	if err != nil {
		return nil, err
	}

	s := &session{vars: vars, regions: run.GraphRegions(len(backbone))}
	s.graphs, err = cache.NewGraphs(run.CacheSize, func(region common.Region) (*graph.Graph, graph.NodeAlleleMap, error) {
		inside, _ := s.regionVariants(region)
		logger.Debug("building graph", zap.Stringer("region", region), zap.Int("variants", len(inside)))
		return graph.Build(backbone, inside, region.Start, region.End, run.MaxGraphWidth, graph.WithLogger(logger))
	})
	if err != nil {
		return nil, err
	}

	opts := []aligner.Option{
		aligner.WithMaxEditDistance(run.EditDistanceCeiling()),
		aligner.WithLogger(logger),
	}
	if useWildcard {
		opts = append(opts, aligner.WithWildcard(wildcard))
	} else {
		opts = append(opts, aligner.WithoutWildcard())
	}
	s.engine = aligner.NewEngine(opts...)

	logger.Info(
		"loaded run file",
		zap.String("path", path),
		zap.Int("backbone_len", len(backbone)),
		zap.Int("regions", len(s.regions)),
		zap.Int("variants", len(vars)),
	)
	return s, nil
}

// regionVariants returns the variants lying wholly inside region, in run file order,
// along with the run file index of each.
func (s *session) regionVariants(region common.Region) ([]*variants.Variant, []int) {
	var inside []*variants.Variant
	var index []int
	for i, v := range s.vars {
		if region.Contains(v.Position()) && v.End() <= region.End {
			inside = append(inside, v)
			index = append(index, i)
		}
	}
	return inside, index
}

type queryResult struct {
	name    string
	region  common.Region
	strand  byte
	result  *aligner.Result
	alleles graph.NodeAlleleMap
	index   []int // run file index of each graph variant index
	elapsed time.Duration
	err     error
}

func (a *AlignCmd) Run(logger *zap.Logger) error {
	s, err := openSession(a.Config, logger)
	if err != nil {
		return err
	}
	return a.alignAll(s, logger, os.Stdout)
}

// alignAll aligns every query against every region of s and writes one line per pair.
func (a *AlignCmd) alignAll(s *session, logger *zap.Logger, w stdio.Writer) error {
	results := make([][]queryResult, len(a.Queries))
	var eg errgroup.Group
	eg.SetLimit(max(a.Workers, 1))
	for i, path := range a.Queries {
		eg.Go(func() error {
			results[i] = a.alignQuery(s, path)
			return nil
		})
	}
	_ = eg.Wait()

	failed, total := 0, 0
	for _, query := range results {
		for _, r := range query {
			total++
			if r.err != nil {
				failed++
				logger.Error("alignment failed", zap.String("query", r.name), zap.Stringer("region", r.region), zap.Error(r.err))
				continue
			}
			logger.Debug("aligned", zap.String("query", r.name), zap.Stringer("region", r.region), zap.Duration("elapsed", r.elapsed))
			if _, err := fmt.Fprintln(w, formatResult(r)); err != nil {
				return errors.Wrap(err, "write result")
			}
		}
	}

	hits, misses := s.graphs.Stats()
	logger.Debug("graph cache", zap.Int("hits", hits), zap.Int("misses", misses))
	if failed > 0 {
		return errors.Errorf("%d of %d alignments failed", failed, total)
	}
	return nil
}

// alignQuery reads one query and aligns it against each region's graph.
func (a *AlignCmd) alignQuery(s *session, path string) []queryResult {
	name := filepath.Base(path)
	query, err := io.ReadSequence(path)
	if err != nil {
		return []queryResult{{name: name, err: errors.Wrap(err, "read query")}}
	}

	out := make([]queryResult, 0, len(s.regions))
	for _, region := range s.regions {
		r := queryResult{name: name, region: region, strand: '+'}
		g, alleles, err := s.graphs.Get(region)
		if err != nil {
			r.err = err
			out = append(out, r)
			continue
		}
		_, r.index = s.regionVariants(region)
		r.alleles = alleles

		start := time.Now()
		r.result, r.strand, r.err = alignStrands(s.engine, g, query, a.BothStrands)
		r.elapsed = time.Since(start)
		out = append(out, r)
	}
	return out
}

// alignStrands aligns query and, with bothStrands, its reverse complement.
// The reverse strand is kept only when it scores strictly better or the forward strand fails.
func alignStrands(engine *aligner.Engine, g *graph.Graph, query []byte, bothStrands bool) (*aligner.Result, byte, error) {
	fwd, err := engine.EditDistance(g, query)
	if !bothStrands {
		return fwd, '+', err
	}
	rev, revErr := engine.EditDistance(g, sequence.ReverseComplement(query))
	if revErr == nil && (err != nil || rev.Score() < fwd.Score()) {
		return rev, '-', nil
	}
	return fwd, '+', err
}

func formatResult(r queryResult) string {
	var tags []string
	for _, id := range r.result.TraversedNodes() {
		for _, t := range r.alleles[id] {
			t.VariantIndex = r.index[t.VariantIndex]
			tags = append(tags, t.String())
		}
	}
	return fmt.Sprintf("%s\tregion=%s\tstrand=%c\tscore=%d\tnodes=%v\talleles=[%s]",
		r.name, r.region, r.strand, r.result.Score(), r.result.TraversedNodes(), strings.Join(tags, ", "))
}

func (c *GraphCmd) Run(logger *zap.Logger) error {
	s, err := openSession(c.Config, logger)
	if err != nil {
		return err
	}
	return c.printGraphs(s, os.Stdout)
}

// printGraphs writes a summary line per region followed by one line per node.
func (c *GraphCmd) printGraphs(s *session, w stdio.Writer) error {
	for _, region := range s.regions {
		g, alleles, err := s.graphs.Get(region)
		if err != nil {
			return err
		}
		_, index := s.regionVariants(region)
		for _, tags := range alleles {
			for i := range tags {
				tags[i].VariantIndex = index[tags[i].VariantIndex]
			}
		}

		fmt.Fprintf(w, "region=%s\tnodes=%d\tedges=%d\tsource=%d\tsink=%d\tshortest=%d\tlongest=%d\n",
			region, g.NumNodes(), g.NumEdges(), g.Source(), g.Sink(),
			graph.ShortestPathLength(g), graph.LongestPathLength(g))
		for id := 0; id < g.NumNodes(); id++ {
			var succ []int
			for next := range g.Successors(id) {
				succ = append(succ, next)
			}
			seq := g.Sequence(id)
			fmt.Fprintf(w, "%d\tstart=%d\tseq=%q\tgc=%.2f\ttags=%v\tnext=%v\n",
				id, g.BackboneStart(id), seq, sequence.CalculateGCContent(seq), alleles[id], succ)
		}
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("graph-align"),
		kong.Description("Align sequences to a backbone with variant paths using graph wavefront alignment"),
		kong.UsageOnError(),
	)

	logger, err := newLogger(CLI.Debug)
	ctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	err = ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
