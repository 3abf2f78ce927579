package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ACGT", "", 4},
		{"", "AC", 2},
		{"ACGT", "ACGT", 0},
		{"ACGT", "AGGT", 1},
		{"ACGT", "ACT", 1},
		{"kitten", "sitting", 3},
		{"ACGTACGT", "TTTTTTTT", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EditDistanceNoWildcard([]byte(tt.a), []byte(tt.b)), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, EditDistanceNoWildcard([]byte(tt.b), []byte(tt.a)), "%q vs %q", tt.b, tt.a)
	}
}

func TestEditDistanceWildcard(t *testing.T) {
	assert.Equal(t, 0, EditDistance([]byte("ACGNACGT"), []byte("ACGTACGT"), 'N', true))
	assert.Equal(t, 1, EditDistance([]byte("ACGNACGT"), []byte("ACGTACGT"), 'N', false))
	assert.Equal(t, 1, EditDistance([]byte("ACG*ACGT"), []byte("ACGACGT"), '*', true))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", string(ReverseComplement([]byte("ACGT"))))
	assert.Equal(t, "NCAAT", string(ReverseComplement([]byte("ATTGX"))))
	assert.Equal(t, "acgN", string(ReverseComplement([]byte("Ncgt"))))
	assert.Empty(t, ReverseComplement(nil))
}

func TestCalculateGCContent(t *testing.T) {
	assert.Equal(t, 0.0, CalculateGCContent(nil))
	assert.Equal(t, 0.5, CalculateGCContent([]byte("ACGT")))
	assert.Equal(t, 1.0, CalculateGCContent([]byte("gGcC")))
}
