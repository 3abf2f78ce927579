package sequence

// EditDistance is the unit-cost Levenshtein distance between a and b.
// When useWildcard is set, wildcard matches any byte on either side.
func EditDistance(a, b []byte, wildcard byte, useWildcard bool) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] || (useWildcard && (a[i-1] == wildcard || b[j-1] == wildcard)) {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, prev[j]+1, curr[j-1]+1)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// EditDistanceNoWildcard is EditDistance where every byte matches only itself.
func EditDistanceNoWildcard(a, b []byte) int {
	return EditDistance(a, b, 0, false)
}
