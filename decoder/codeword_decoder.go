package decoder

import "github.com/scanline/pdf417/internal"

// maxRatioMatchError is the acceptance bound for the nearest-match search:
// the summed squared difference between the sampled run ratios and the
// best table entry must stay below it, or the sample is not trusted.
const maxRatioMatchError = 0.1

// ratioEntry is one row of the precomputed ratio table: the widths of the
// 8 runs of a symbol pattern as fractions of the 17 modules.
type ratioEntry struct {
	pattern int
	ratios  [internal.BarsInCodeword]float32
}

// ratiosTable holds one entry per symbol pattern, ordered by cluster then
// value. The nearest-match scan walks it in order and requires strict
// improvement, so the lowest (cluster, value) entry wins ties.
var ratiosTable [3 * internal.NumCodewords]ratioEntry

func init() {
	i := 0
	for cluster := 0; cluster < 3; cluster++ {
		for value := 0; value < internal.NumCodewords; value++ {
			pattern := internal.SymbolPatterns[cluster][value]
			ratiosTable[i].pattern = pattern
			currentBit := pattern & 0x1
			for j := 0; j < internal.BarsInCodeword; j++ {
				var size float32
				for (pattern & 0x1) == currentBit {
					size += 1.0
					pattern >>= 1
				}
				currentBit = pattern & 0x1
				ratiosTable[i].ratios[internal.BarsInCodeword-j-1] =
					size / float32(internal.ModulesInCodeword)
			}
			i++
		}
	}
}

// decodedValue converts a raw module run-length sequence into the module
// bit pattern of the matching symbol, preferring an exact match after
// resampling to 17 modules and falling back to the nearest ratio-table
// entry. Returns -1 when no entry is close enough.
func decodedValue(moduleBitCount []int) int {
	if pattern := exactValue(sampleBitCounts(moduleBitCount)); pattern != -1 {
		return pattern
	}
	return closestValue(moduleBitCount)
}

// sampleBitCounts redistributes the raw run lengths proportionally across
// the 17 module positions, yielding run lengths in whole modules.
func sampleBitCounts(moduleBitCount []int) []int {
	bitCountSum := sum(moduleBitCount)
	result := make([]int, internal.BarsInCodeword)
	bitCountIndex := 0
	sumPreviousBits := 0
	for i := 0; i < internal.ModulesInCodeword; i++ {
		sampleIndex := float64(bitCountSum)/(2.0*float64(internal.ModulesInCodeword)) +
			float64(i)*float64(bitCountSum)/float64(internal.ModulesInCodeword)
		if float64(sumPreviousBits+moduleBitCount[bitCountIndex]) <= sampleIndex {
			sumPreviousBits += moduleBitCount[bitCountIndex]
			bitCountIndex++
		}
		result[bitCountIndex]++
	}
	return result
}

func exactValue(moduleBitCount []int) int {
	pattern := patternOf(moduleBitCount)
	if internal.CodewordValue(pattern) == -1 {
		return -1
	}
	return pattern
}

// patternOf packs module run lengths into a bit pattern, even-indexed runs
// as bars.
func patternOf(moduleBitCount []int) int {
	result := 0
	for i, count := range moduleBitCount {
		for bit := 0; bit < count; bit++ {
			result <<= 1
			if i%2 == 0 {
				result |= 1
			}
		}
	}
	return result
}

func closestValue(moduleBitCount []int) int {
	bitCountSum := sum(moduleBitCount)
	var bitCountRatios [internal.BarsInCodeword]float32
	if bitCountSum > 1 {
		for i, count := range moduleBitCount {
			bitCountRatios[i] = float32(count) / float32(bitCountSum)
		}
	}
	bestMatchError := float32(maxRatioMatchError)
	bestMatch := -1
	for i := range ratiosTable {
		var matchError float32
		for k := 0; k < internal.BarsInCodeword; k++ {
			diff := ratiosTable[i].ratios[k] - bitCountRatios[k]
			matchError += diff * diff
			if matchError >= bestMatchError {
				break
			}
		}
		if matchError < bestMatchError {
			bestMatchError = matchError
			bestMatch = ratiosTable[i].pattern
		}
	}
	return bestMatch
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
