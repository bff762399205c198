package detector

import (
	"math"
	"testing"

	"github.com/scanline/pdf417/bitutil"
)

func TestPatternMatchVarianceExact(t *testing.T) {
	pattern := []int{8, 1, 1, 1, 1, 1, 1, 3}
	counters := make([]int, len(pattern))
	for i, p := range pattern {
		counters[i] = p * 3
	}
	if v := patternMatchVariance(counters, pattern); v != 0 {
		t.Errorf("variance of exact scaled match = %v, want 0", v)
	}
}

func TestPatternMatchVarianceRejectsLargeDeviation(t *testing.T) {
	pattern := []int{8, 1, 1, 1, 1, 1, 1, 3}
	counters := []int{24, 3, 3, 3, 3, 3, 3, 9}
	// One element deviating by more than 0.8 module widths fails outright.
	counters[1] = 7
	if v := patternMatchVariance(counters, pattern); !math.IsInf(v, 1) {
		t.Errorf("variance = %v, want +Inf", v)
	}
}

func TestPatternMatchVarianceTooFewPixels(t *testing.T) {
	pattern := []int{8, 1, 1, 1, 1, 1, 1, 3}
	counters := []int{4, 1, 1, 1, 1, 1, 1, 2}
	if v := patternMatchVariance(counters, pattern); !math.IsInf(v, 1) {
		t.Errorf("variance = %v, want +Inf for fewer pixels than modules", v)
	}
}

// paintRuns paints alternating bar/space runs into one matrix row,
// starting with a bar at the given column.
func paintRuns(bm *bitutil.BitMatrix, row, column int, runs []int) {
	x := column
	for i, width := range runs {
		if i%2 == 0 {
			for j := 0; j < width; j++ {
				bm.Set(x+j, row)
			}
		}
		x += width
	}
}

func TestFindGuardPatternStart(t *testing.T) {
	bm := bitutil.NewBitMatrix(40, 1)
	paintRuns(bm, 0, 5, startPattern[:])
	// First bar of the codeword following the guard.
	bm.Set(22, 0)

	counters := make([]int, len(startPattern))
	loc := findGuardPattern(bm, 0, 0, 40, startPattern[:], counters)
	if loc == nil {
		t.Fatal("start pattern not found")
	}
	if loc[0] != 5 {
		t.Errorf("pattern start = %d, want 5", loc[0])
	}
	if loc[1] != 22 {
		t.Errorf("pattern end = %d, want 22", loc[1])
	}
}

func TestFindGuardPatternAbsorbsLeadingDrift(t *testing.T) {
	bm := bitutil.NewBitMatrix(40, 1)
	paintRuns(bm, 0, 5, startPattern[:])
	bm.Set(22, 0)

	// Start the search two pixels into the leading bar.
	counters := make([]int, len(startPattern))
	loc := findGuardPattern(bm, 7, 0, 40, startPattern[:], counters)
	if loc == nil {
		t.Fatal("start pattern not found")
	}
	if loc[0] != 5 {
		t.Errorf("pattern start = %d, want 5", loc[0])
	}
}

func TestFindGuardPatternBlankRow(t *testing.T) {
	bm := bitutil.NewBitMatrix(40, 1)
	counters := make([]int, len(startPattern))
	if loc := findGuardPattern(bm, 0, 0, 40, startPattern[:], counters); loc != nil {
		t.Errorf("found pattern in blank row: %v", loc)
	}
}
