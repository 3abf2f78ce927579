package graph

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"DNA-Graph-Alignments/dna_aligner/common"
	"DNA-Graph-Alignments/dna_aligner/variants"
)

var (
	// ErrInvalidRegion is returned when the region is inverted, empty or outside the backbone.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrGraphTooComplex is returned when overlapping variants need more parallel paths than allowed.
	ErrGraphTooComplex = errors.New("graph too complex")
)

type buildOptions struct {
	logger *zap.Logger
}

// Option configures Build.
type Option func(*buildOptions)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Build splices the variants into backbone[regionStart:regionEnd] and returns the graph
// together with the node to allele lookup.
//
// The region is cut at every variant start and end. Each cut-to-cut backbone span becomes
// one node tagged with the REF allele of every variant covering it, so variants with
// identical reference spans share their REF node. Every ALT allele gets its own node,
// entered from all nodes ending at the variant start and leaving to all nodes starting
// at the variant end. At most maxGraphWidth paths may run in parallel over any span.
func Build(backbone []byte, vars []*variants.Variant, regionStart, regionEnd, maxGraphWidth int, opts ...Option) (*Graph, NodeAlleleMap, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	region := common.Region{Start: regionStart, End: regionEnd}
	if !region.Valid(len(backbone)) {
		return nil, nil, errors.Wrapf(ErrInvalidRegion, "region %s on backbone of length %d", region, len(backbone))
	}
	if maxGraphWidth < 1 {
		return nil, nil, errors.Wrapf(ErrGraphTooComplex, "max graph width %d leaves no room for the backbone", maxGraphWidth)
	}
	for i, v := range vars {
		if v == nil {
			return nil, nil, errors.Wrapf(variants.ErrValidation, "variant %d is nil", i)
		}
		if !region.Contains(v.Position()) || v.End() > region.End {
			return nil, nil, errors.Wrapf(variants.ErrValidation, "variant %d %s outside region %s", i, v, region)
		}
		if err := v.MatchesBackbone(backbone); err != nil {
			return nil, nil, errors.Wrapf(err, "variant %d", i)
		}
	}

	plan := planSites(vars, region)
	if err := plan.checkWidth(vars, maxGraphWidth); err != nil {
		return nil, nil, err
	}

	b := &builder{g: &Graph{region: region, source: -1, sink: -1}}
	endsAt := make(map[int][]int)
	var in []int

	for k, p := range plan.cuts {
		if k > 0 {
			in = endsAt[p]
		}

		if zs := plan.zeroSpan[p]; len(zs) > 0 {
			if len(in) == 0 {
				in = []int{b.emptySource(p)}
			}
			out := make([]int, 0, len(zs)+1)
			refTags := make([]common.AlleleTag, 0, len(zs))
			for _, vi := range zs {
				v := vars[vi]
				out = append(out, b.add(v.AltAllele(), []common.AlleleTag{{VariantIndex: vi, AlleleIndex: v.AltIndex()}}, -1))
				refTags = append(refTags, common.AlleleTag{VariantIndex: vi, AlleleIndex: v.RefIndex()})
			}
			out = append(out, b.add(nil, refTags, p))
			b.connect(in, out)
			in = out
		}

		if p == region.End {
			break
		}
		next := plan.cuts[k+1]

		starting := plan.starts[p]
		if len(in) == 0 && len(starting) > 0 {
			in = []int{b.emptySource(p)}
		}
		for _, vi := range starting {
			v := vars[vi]
			alt := b.add(v.AltAllele(), []common.AlleleTag{{VariantIndex: vi, AlleleIndex: v.AltIndex()}}, -1)
			b.connect(in, []int{alt})
			endsAt[v.End()] = append(endsAt[v.End()], alt)
		}

		span := b.add(backbone[p:next], plan.refTags(vars, p, next), p)
		b.connect(in, []int{span})
		endsAt[next] = append(endsAt[next], span)
		if b.g.source < 0 {
			b.g.source = span
		}
	}

	if len(in) == 1 {
		b.g.sink = in[0]
	} else {
		b.g.sink = b.add(nil, nil, region.End)
		b.connect(in, []int{b.g.sink})
	}

	o.logger.Debug(
		"built variant graph",
		zap.Stringer("region", region),
		zap.Int("variants", len(vars)),
		zap.Int("nodes", b.g.NumNodes()),
		zap.Int("edges", b.g.NumEdges()),
		zap.Int("source", b.g.source),
		zap.Int("sink", b.g.sink),
	)

	return b.g, b.g.AlleleMap(), nil
}

type builder struct {
	g *Graph
}

func (b *builder) add(seq []byte, tags []common.AlleleTag, start int) int {
	b.g.nodes = append(b.g.nodes, node{seq: slices.Clone(seq), tags: tags, start: start})
	return len(b.g.nodes) - 1
}

func (b *builder) emptySource(pos int) int {
	id := b.add(nil, nil, pos)
	b.g.source = id
	return id
}

// connect adds every edge from the nodes in from to the nodes in to.
func (b *builder) connect(from, to []int) {
	for _, f := range from {
		for _, t := range to {
			b.g.nodes[f].succ = append(b.g.nodes[f].succ, t)
			b.g.nodes[t].pred = append(b.g.nodes[t].pred, f)
			b.g.edges++
		}
	}
}

// sitePlan holds the cut positions of a region and the variants starting at each cut.
type sitePlan struct {
	cuts     []int
	starts   map[int][]int // variants with a non-empty reference span, by start
	zeroSpan map[int][]int // variants with an empty reference allele, by position
}

func planSites(vars []*variants.Variant, region common.Region) sitePlan {
	plan := sitePlan{
		cuts:     []int{region.Start, region.End},
		starts:   make(map[int][]int),
		zeroSpan: make(map[int][]int),
	}
	for i, v := range vars {
		plan.cuts = append(plan.cuts, v.Position(), v.End())
		if v.RefLen() == 0 {
			plan.zeroSpan[v.Position()] = append(plan.zeroSpan[v.Position()], i)
		} else {
			plan.starts[v.Position()] = append(plan.starts[v.Position()], i)
		}
	}
	slices.Sort(plan.cuts)
	plan.cuts = slices.Compact(plan.cuts)
	return plan
}

// refTags returns the REF tags of every variant whose reference span covers [from, to).
func (p sitePlan) refTags(vars []*variants.Variant, from, to int) []common.AlleleTag {
	var tags []common.AlleleTag
	for i, v := range vars {
		if v.RefLen() > 0 && v.Position() <= from && v.End() >= to {
			tags = append(tags, common.AlleleTag{VariantIndex: i, AlleleIndex: v.RefIndex()})
		}
	}
	return tags
}

// checkWidth counts the parallel paths over every backbone span and every zero-span site.
func (p sitePlan) checkWidth(vars []*variants.Variant, maxWidth int) error {
	for k := 0; k+1 < len(p.cuts); k++ {
		from, to := p.cuts[k], p.cuts[k+1]
		width := 1
		for _, v := range vars {
			if v.RefLen() > 0 && v.Position() <= from && v.End() >= to {
				width++
			}
		}
		if width > maxWidth {
			return errors.Wrapf(ErrGraphTooComplex, "%d parallel paths over [%d, %d), max graph width is %d", width, from, to, maxWidth)
		}
	}
	for _, pos := range p.cuts {
		zs := p.zeroSpan[pos]
		if len(zs) == 0 {
			continue
		}
		width := 1 + len(zs)
		for _, v := range vars {
			if v.Position() < pos && v.End() > pos {
				width++
			}
		}
		if width > maxWidth {
			return errors.Wrapf(ErrGraphTooComplex, "%d parallel paths at insertion site %d, max graph width is %d", width, pos, maxWidth)
		}
	}
	return nil
}
