package sequence

var complement = [256]byte{
	'A': 'T', 'T': 'A',
	'C': 'G', 'G': 'C',
	'a': 't', 't': 'a',
	'c': 'g', 'g': 'c',
	'N': 'N', 'n': 'n',
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Bytes that are not a base map to N.
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, base := range seq {
		c := complement[base]
		if c == 0 {
			c = 'N'
		}
		out[len(seq)-1-i] = c
	}
	return out
}

// CalculateGCContent calculates the GC content of a DNA sequence.
func CalculateGCContent(seq []byte) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	gcCount := 0
	for _, base := range seq {
		if base == 'G' || base == 'C' || base == 'g' || base == 'c' { // Case-insensitive
			gcCount++
		}
	}
	return float64(gcCount) / float64(len(seq))
}
