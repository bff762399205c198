package internal

import "sort"

// Symbology constants.
const (
	// NumCodewords is the number of codeword values, which is also the
	// modulus of the error correction field.
	NumCodewords = 929

	// MaxCodewordsInSymbol is the largest usable codeword count.
	MaxCodewordsInSymbol = 928

	// MinRows and MaxRows bound the row count of a symbol.
	MinRows = 3
	MaxRows = 90

	// ModulesInCodeword is the number of modules spanned by one codeword.
	ModulesInCodeword = 17

	// BarsInCodeword is the number of alternating bar/space runs in one
	// codeword (4 bars and 4 spaces).
	BarsInCodeword = 8
)

// SymbolPatterns holds the 17-bit module pattern of every codeword value,
// indexed by cluster index (clusters 0, 3 and 6) and codeword value. Bit 16
// is the leftmost module; bars are set bits.
//
// Patterns are generated deterministically at init: for each cluster, all
// run-length sequences of 4 bars and 4 spaces with widths 1..6 summing to 17
// modules and matching the cluster equation are enumerated, sorted by bit
// pattern, and the lowest NumCodewords patterns are assigned values in
// ascending order.
var SymbolPatterns [3][NumCodewords]int

// patternValue maps a 17-bit module pattern to its codeword value. Patterns
// are unique across clusters because the cluster is a function of the runs.
var patternValue map[int]int

func init() {
	patternValue = make(map[int]int, 3*NumCodewords)
	for cluster := 0; cluster < 3; cluster++ {
		candidates := enumeratePatterns(cluster * 3)
		sort.Ints(candidates)
		for value := 0; value < NumCodewords; value++ {
			p := candidates[value]
			SymbolPatterns[cluster][value] = p
			patternValue[p] = value
		}
	}
}

// enumeratePatterns returns the module bit patterns of every run-length
// sequence b1,s1,..,b4,s4 with widths 1..6, total width 17 and
// (b1-b2+b3-b4) mod 9 equal to the given cluster.
func enumeratePatterns(cluster int) []int {
	var result []int
	runs := make([]int, BarsInCodeword)
	var walk func(index, remaining int)
	walk = func(index, remaining int) {
		if index == BarsInCodeword-1 {
			if remaining < 1 || remaining > 6 {
				return
			}
			runs[index] = remaining
			if (runs[0]-runs[2]+runs[4]-runs[6]+9)%9 == cluster {
				result = append(result, patternBits(runs))
			}
			return
		}
		// Leave at least one module for each remaining run.
		rest := BarsInCodeword - 1 - index
		for width := 1; width <= 6 && remaining-width >= rest; width++ {
			runs[index] = width
			walk(index+1, remaining-width)
		}
	}
	walk(0, ModulesInCodeword)
	return result
}

// patternBits packs alternating bar/space runs into a bit pattern, leftmost
// module first. Even-indexed runs are bars (set bits).
func patternBits(runs []int) int {
	bits := 0
	for i, width := range runs {
		for j := 0; j < width; j++ {
			bits <<= 1
			if i%2 == 0 {
				bits |= 1
			}
		}
	}
	return bits
}

// CodewordValue returns the codeword value of a module bit pattern, or -1 if
// the pattern is not a valid symbol in any cluster.
func CodewordValue(pattern int) int {
	value, ok := patternValue[pattern]
	if !ok {
		return -1
	}
	return value
}
