package decoder

import (
	"testing"

	"github.com/scanline/pdf417/internal"
)

func TestDecodedValueExact(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		for value := 0; value < internal.NumCodewords; value += 31 {
			pattern := internal.SymbolPatterns[cluster][value]
			if got := decodedValue(bitCountForPattern(pattern)); got != pattern {
				t.Fatalf("cluster %d value %d: decodedValue = %017b, want %017b",
					cluster, value, got, pattern)
			}
		}
	}
}

func TestDecodedValueScaled(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		for value := 0; value < internal.NumCodewords; value += 97 {
			pattern := internal.SymbolPatterns[cluster][value]
			counts := bitCountForPattern(pattern)
			for i := range counts {
				counts[i] *= 3
			}
			if got := decodedValue(counts); got != pattern {
				t.Fatalf("cluster %d value %d: decodedValue of scaled counts = %017b, want %017b",
					cluster, value, got, pattern)
			}
		}
	}
}

func TestDecodedValueRejectsGarbage(t *testing.T) {
	// A dominant first run matches no symbol's ratios.
	if got := decodedValue([]int{60, 1, 1, 1, 1, 1, 1, 2}); got != -1 {
		t.Errorf("decodedValue = %017b, want -1", got)
	}
}

func TestBitCountForPattern(t *testing.T) {
	pattern := internal.SymbolPatterns[0][0]
	counts := bitCountForPattern(pattern)
	if len(counts) != internal.BarsInCodeword {
		t.Fatalf("len = %d, want %d", len(counts), internal.BarsInCodeword)
	}
	if patternOf(counts) != pattern {
		t.Errorf("patternOf(bitCountForPattern(p)) != p")
	}
}

func TestBucketOfPattern(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		pattern := internal.SymbolPatterns[cluster][500]
		if got := bucketOfPattern(pattern); got != cluster*3 {
			t.Errorf("cluster %d: bucket = %d, want %d", cluster, got, cluster*3)
		}
	}
}

func TestSampleBitCounts(t *testing.T) {
	pattern := internal.SymbolPatterns[1][42]
	counts := bitCountForPattern(pattern)
	scaled := make([]int, len(counts))
	for i := range counts {
		scaled[i] = counts[i] * 4
	}
	got := sampleBitCounts(scaled)
	for i := range counts {
		if got[i] != counts[i] {
			t.Fatalf("sampleBitCounts = %v, want %v", got, counts)
		}
	}
}
