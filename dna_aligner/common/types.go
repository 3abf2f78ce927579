package common

import "fmt"

// AlleleTag identifies one allele of one variant.
// VariantIndex is the variant's position in the slice handed to the graph builder,
// AlleleIndex is the allele index carried by that variant (0 = REF, 1 = ALT by default).
type AlleleTag struct {
	VariantIndex int
	AlleleIndex  int
}

func (t AlleleTag) String() string {
	return fmt.Sprintf("(%d, %d)", t.VariantIndex, t.AlleleIndex)
}

// Region is a half-open window [Start, End) on the backbone.
type Region struct {
	Start int
	End   int
}

// Len returns the number of backbone bytes in the region.
func (r Region) Len() int {
	return r.End - r.Start
}

// Contains reports whether pos falls inside [Start, End).
func (r Region) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Valid reports whether the region is non-empty and fits inside a backbone of the given length.
func (r Region) Valid(backboneLen int) bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= backboneLen
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
