package graph

import (
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"DNA-Graph-Alignments/dna_aligner/common"
	"DNA-Graph-Alignments/dna_aligner/variants"
)

func mustVariant(t *testing.T, kind variants.Kind, pos int, ref, alt string) *variants.Variant {
	t.Helper()
	v, err := variants.NewOfKind(kind, 0, pos, []byte(ref), []byte(alt), 0, 1)
	require.NoError(t, err)
	return v
}

func successors(g *Graph, id int) []int {
	return slices.Collect(g.Successors(id))
}

func sequences(g *Graph) []string {
	out := make([]string, g.NumNodes())
	for id := range out {
		out[id] = string(g.Sequence(id))
	}
	return out
}

// requireWellFormed checks the structural invariants every built graph must hold.
func requireWellFormed(t *testing.T, g *Graph) {
	t.Helper()
	for _, e := range g.Edges() {
		require.Less(t, e.From, e.To, "edges must follow id order")
	}

	reach := make([]bool, g.NumNodes())
	reach[g.Source()] = true
	for id := 0; id < g.NumNodes(); id++ {
		if !reach[id] {
			continue
		}
		for s := range g.Successors(id) {
			reach[s] = true
		}
	}
	for id, ok := range reach {
		require.True(t, ok, "node %d unreachable from source", id)
	}

	toSink := make([]bool, g.NumNodes())
	toSink[g.Sink()] = true
	for id := g.NumNodes() - 1; id >= 0; id-- {
		for s := range g.Successors(id) {
			if toSink[s] {
				toSink[id] = true
			}
		}
	}
	for id, ok := range toSink {
		require.True(t, ok, "node %d cannot reach sink", id)
	}
	require.Empty(t, successors(g, g.Sink()))
	require.Empty(t, slices.Collect(g.Predecessors(g.Source())))
}

func TestBuildSingleSNV(t *testing.T) {
	backbone := []byte("ACGTACGT")
	snv := mustVariant(t, variants.SNV, 3, "T", "A")

	g, alleles, err := Build(backbone, []*variants.Variant{snv}, 0, len(backbone), 100, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Equal(t, []string{"ACG", "A", "T", "ACGT"}, sequences(g))
	assert.Equal(t, 0, g.Source())
	assert.Equal(t, 3, g.Sink())
	assert.Equal(t, []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, g.Edges())
	assert.Equal(t, NodeAlleleMap{
		1: {{VariantIndex: 0, AlleleIndex: 1}},
		2: {{VariantIndex: 0, AlleleIndex: 0}},
	}, alleles)
	assert.Equal(t, []int{0, -1, 3, 4}, []int{g.BackboneStart(0), g.BackboneStart(1), g.BackboneStart(2), g.BackboneStart(3)})
}

func TestBuildWithoutVariants(t *testing.T) {
	backbone := []byte("ACGTACGT")
	g, alleles, err := Build(backbone, nil, 2, 6, 1)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Equal(t, []string{"GTAC"}, sequences(g))
	assert.Equal(t, g.Source(), g.Sink())
	assert.Empty(t, alleles)
	assert.Equal(t, common.Region{Start: 2, End: 6}, g.Region())
}

func TestBuildInvalidRegion(t *testing.T) {
	backbone := []byte("ACGTACGT")
	for _, r := range []common.Region{{Start: 4, End: 4}, {Start: 5, End: 2}, {Start: -1, End: 3}, {Start: 0, End: 9}} {
		_, _, err := Build(backbone, nil, r.Start, r.End, 10)
		assert.True(t, errors.Is(err, ErrInvalidRegion), "region %s", r)
	}
}

func TestBuildRejectsBadVariants(t *testing.T) {
	backbone := []byte("ACGTACGT")

	mismatch := mustVariant(t, variants.SNV, 3, "G", "A")
	_, _, err := Build(backbone, []*variants.Variant{mismatch}, 0, 8, 10)
	assert.True(t, errors.Is(err, variants.ErrValidation))

	outside := mustVariant(t, variants.SNV, 1, "C", "A")
	_, _, err = Build(backbone, []*variants.Variant{outside}, 2, 8, 10)
	assert.True(t, errors.Is(err, variants.ErrValidation))

	pastEnd := mustVariant(t, variants.Deletion, 4, "ACG", "A")
	_, _, err = Build(backbone, []*variants.Variant{pastEnd}, 0, 6, 10)
	assert.True(t, errors.Is(err, variants.ErrValidation))

	_, _, err = Build(backbone, []*variants.Variant{nil}, 0, 8, 10)
	assert.True(t, errors.Is(err, variants.ErrValidation))
}

func TestBuildSharedReferenceSpan(t *testing.T) {
	backbone := []byte("ACGTACGT")
	a := mustVariant(t, variants.SNV, 3, "T", "A")
	c := mustVariant(t, variants.SNV, 3, "T", "C")

	g, alleles, err := Build(backbone, []*variants.Variant{a, c}, 0, 8, 10)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Equal(t, []string{"ACG", "A", "C", "T", "ACGT"}, sequences(g))
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 0, AlleleIndex: 0}, {VariantIndex: 1, AlleleIndex: 0}}, alleles[3])
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 0, AlleleIndex: 1}}, alleles[1])
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 1, AlleleIndex: 1}}, alleles[2])
}

func TestBuildAltNodesNeverMerged(t *testing.T) {
	backbone := []byte("ACGTACGT")
	first := mustVariant(t, variants.SNV, 3, "T", "A")
	second := mustVariant(t, variants.SNV, 3, "T", "A")

	g, alleles, err := Build(backbone, []*variants.Variant{first, second}, 0, 8, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACG", "A", "A", "T", "ACGT"}, sequences(g))
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 0, AlleleIndex: 1}}, alleles[1])
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 1, AlleleIndex: 1}}, alleles[2])
}

func TestBuildOverlappingVariants(t *testing.T) {
	backbone := []byte("ACGTACGT")
	del := mustVariant(t, variants.Deletion, 1, "CGTA", "C") // [1, 5)
	snv := mustVariant(t, variants.SNV, 3, "T", "G")         // [3, 4)

	g, alleles, err := Build(backbone, []*variants.Variant{del, snv}, 0, 8, 10)
	require.NoError(t, err)
	requireWellFormed(t, g)

	// 0:A  1:del alt  2:CG  3:snv alt  4:T  5:A  6:CGT
	assert.Equal(t, []string{"A", "C", "CG", "G", "T", "A", "CGT"}, sequences(g))
	assert.Equal(t, []int{1, 2}, successors(g, 0))
	assert.Equal(t, []int{6}, successors(g, 1))
	assert.Equal(t, []int{3, 4}, successors(g, 2))
	assert.Equal(t, []int{5}, successors(g, 3))
	assert.Equal(t, []int{5}, successors(g, 4))
	assert.Equal(t, []int{6}, successors(g, 5))

	delRef := common.AlleleTag{VariantIndex: 0, AlleleIndex: 0}
	snvRef := common.AlleleTag{VariantIndex: 1, AlleleIndex: 0}
	assert.Equal(t, []common.AlleleTag{delRef}, alleles[2])
	assert.Equal(t, []common.AlleleTag{delRef, snvRef}, alleles[4])
	assert.Equal(t, []common.AlleleTag{delRef}, alleles[5])
	assert.NotContains(t, alleles, 0)
	assert.NotContains(t, alleles, 6)
}

func TestBuildEmptySourceAndSink(t *testing.T) {
	backbone := []byte("ACGTACGT")
	head := mustVariant(t, variants.SNV, 2, "G", "T")
	tail := mustVariant(t, variants.SNV, 5, "C", "A")

	g, _, err := Build(backbone, []*variants.Variant{head, tail}, 2, 6, 10)
	require.NoError(t, err)
	requireWellFormed(t, g)

	// 0:source  1:T  2:G  3:TA  4:A  5:C  6:sink
	assert.Equal(t, []string{"", "T", "G", "TA", "A", "C", ""}, sequences(g))
	assert.Equal(t, 0, g.Source())
	assert.Equal(t, 6, g.Sink())
}

func TestBuildZeroSpanInsertion(t *testing.T) {
	backbone := []byte("ACGTACGT")
	ins := mustVariant(t, variants.Unknown, 4, "", "TT")

	g, alleles, err := Build(backbone, []*variants.Variant{ins}, 0, 8, 10)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Equal(t, []string{"ACGT", "TT", "", "ACGT"}, sequences(g))
	assert.Equal(t, []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, g.Edges())
	assert.Equal(t, []common.AlleleTag{{VariantIndex: 0, AlleleIndex: 0}}, alleles[2])
}

func TestBuildZeroSpanInsertionsShareReference(t *testing.T) {
	backbone := []byte("ACGTACGT")
	first := mustVariant(t, variants.Unknown, 0, "", "TT")
	second := mustVariant(t, variants.Unknown, 0, "", "G")

	g, alleles, err := Build(backbone, []*variants.Variant{first, second}, 0, 8, 10)
	require.NoError(t, err)
	requireWellFormed(t, g)

	// 0:source  1:TT  2:G  3:shared empty REF  4:backbone
	assert.Equal(t, []string{"", "TT", "G", "", "ACGTACGT"}, sequences(g))
	assert.Len(t, alleles[3], 2)
	assert.Equal(t, []int{4}, successors(g, 1))
	assert.Equal(t, []int{4}, successors(g, 2))
}

func TestBuildGraphTooComplex(t *testing.T) {
	backbone := []byte("ACGTACGT")
	vars := []*variants.Variant{
		mustVariant(t, variants.Deletion, 1, "CGTA", "C"),
		mustVariant(t, variants.Indel, 2, "GT", "A"),
		mustVariant(t, variants.SNV, 3, "T", "A"),
	}

	_, _, err := Build(backbone, vars, 0, 8, 3)
	assert.True(t, errors.Is(err, ErrGraphTooComplex))

	g, _, err := Build(backbone, vars, 0, 8, 4)
	require.NoError(t, err)
	requireWellFormed(t, g)

	_, _, err = Build(backbone, nil, 0, 8, 0)
	assert.True(t, errors.Is(err, ErrGraphTooComplex))
}

func TestBuildGraphTooComplexAtInsertionSite(t *testing.T) {
	backbone := []byte("ACGTACGT")
	vars := []*variants.Variant{
		mustVariant(t, variants.Unknown, 4, "", "A"),
		mustVariant(t, variants.Unknown, 4, "", "C"),
		mustVariant(t, variants.Deletion, 2, "GTAC", "G"),
	}
	_, _, err := Build(backbone, vars, 0, 8, 3)
	assert.True(t, errors.Is(err, ErrGraphTooComplex))

	_, _, err = Build(backbone, vars, 0, 8, 4)
	assert.NoError(t, err)
}

func TestGraphAccessorsReturnCopies(t *testing.T) {
	backbone := []byte("ACGTACGT")
	snv := mustVariant(t, variants.SNV, 3, "T", "A")
	g, alleles, err := Build(backbone, []*variants.Variant{snv}, 0, 8, 10)
	require.NoError(t, err)

	seq := g.Sequence(0)
	seq[0] = 'T'
	assert.Equal(t, "ACG", string(g.Sequence(0)))

	alleles[1][0].AlleleIndex = 9
	assert.Equal(t, 1, g.Tags(1)[0].AlleleIndex)

	backbone[0] = 'T'
	assert.Equal(t, byte('A'), g.Base(0, 0))
}
