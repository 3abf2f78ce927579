package aligner

import "math/bits"

// nodeSet is a copy-on-write bitset of node ids. Values are never modified once shared,
// so many wavefront states can point at the same set.
type nodeSet []uint64

func newNodeSet(numNodes int) nodeSet {
	return make(nodeSet, (numNodes+63)/64)
}

func (s nodeSet) has(id int) bool {
	return s[id/64]&(1<<(uint(id)%64)) != 0
}

// with returns s if id is already present, otherwise a copy of s with id added.
func (s nodeSet) with(id int) nodeSet {
	if s.has(id) {
		return s
	}
	out := make(nodeSet, len(s))
	copy(out, s)
	out[id/64] |= 1 << (uint(id) % 64)
	return out
}

// union returns a set holding the ids of both s and o, reusing either side when possible.
func (s nodeSet) union(o nodeSet) nodeSet {
	if s == nil {
		return o
	}
	subset, superset := true, true
	for i := range s {
		if s[i]&^o[i] != 0 {
			subset = false
		}
		if o[i]&^s[i] != 0 {
			superset = false
		}
	}
	switch {
	case superset:
		return s
	case subset:
		return o
	}
	out := make(nodeSet, len(s))
	for i := range s {
		out[i] = s[i] | o[i]
	}
	return out
}

// ids lists the members in ascending order.
func (s nodeSet) ids() []int {
	var out []int
	for w, word := range s {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			out = append(out, w*64+b)
			word &= word - 1
		}
	}
	return out
}
