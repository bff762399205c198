// Package detector locates the guard patterns of a PDF417 symbol in a
// binary pixel matrix and reports the vertices of the codeword area.
package detector

import (
	"sync"

	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/internal"
)

// Options control the geometry search.
type Options struct {
	// PureBarcode assumes the matrix contains little besides the symbol
	// and scans every row instead of sampling every fifth.
	PureBarcode bool

	// Parallel runs the four orientation searches on separate goroutines.
	// The returned candidate order is unaffected.
	Parallel bool
}

// Result is one candidate detection: the matrix in the detected
// orientation, the vertices of the symbol in that matrix's coordinates,
// and the rotation that was applied to the input.
//
// Points 0-3 are the outer corners (start top, start bottom, stop top,
// stop bottom); points 4-7 are the corresponding inner corners bounding
// the codeword area. Entries on one side are nil when only the other
// guard pattern was found.
type Result struct {
	Bits     *bitutil.BitMatrix
	Points   [8]*internal.Point
	Rotation int
}

// rotations is the fixed priority order of orientation attempts.
var rotations = [...]int{0, 90, 180, 270}

var (
	startIndexes = [4]int{0, 4, 1, 5}
	stopIndexes  = [4]int{6, 2, 7, 3}
)

// Detect searches the matrix for a symbol in all four orientations and
// returns the candidate detections in orientation priority order
// (0°, 90°, 180°, 270°). It returns ErrNotFound when no orientation
// contains a guard pattern.
func Detect(matrix *bitutil.BitMatrix, opts Options) ([]*Result, error) {
	step := rowStep
	if opts.PureBarcode {
		step = 1
	}

	candidates := make([]*Result, len(rotations))
	if opts.Parallel {
		var wg sync.WaitGroup
		for i, rotation := range rotations {
			wg.Add(1)
			go func(i, rotation int) {
				defer wg.Done()
				candidates[i] = detectRotation(matrix, rotation, step)
			}(i, rotation)
		}
		wg.Wait()
	} else {
		for i, rotation := range rotations {
			candidates[i] = detectRotation(matrix, rotation, step)
		}
	}

	var results []*Result
	for _, candidate := range candidates {
		if candidate != nil {
			results = append(results, candidate)
		}
	}
	if len(results) == 0 {
		return nil, internal.ErrNotFound
	}
	return results, nil
}

func detectRotation(matrix *bitutil.BitMatrix, rotation, step int) *Result {
	bits := matrix
	if rotation != 0 {
		bits = matrix.Rotated(rotation)
	}
	vertices := findVertices(bits, step)
	if vertices[0] == nil && vertices[3] == nil {
		return nil
	}
	return &Result{Bits: bits, Points: vertices, Rotation: rotation}
}

// findVertices locates the start and stop guard patterns. The stop search
// begins at the inner edge of the start pattern when one was found, so a
// stop pattern left of the start pattern is never paired with it.
func findVertices(matrix *bitutil.BitMatrix, step int) [8]*internal.Point {
	height := matrix.Height()
	width := matrix.Width()

	var result [8]*internal.Point
	startRow := 0
	startColumn := 0

	counters := make([]int, len(startPattern))
	found := findRowsWithPattern(matrix, height, width, startRow, startColumn,
		startPattern[:], counters, step)
	copyToResult(&result, found, startIndexes)

	if result[4] != nil {
		startColumn = int(result[4].X)
		startRow = int(result[4].Y)
	}
	counters = make([]int, len(stopPattern))
	found = findRowsWithPattern(matrix, height, width, startRow, startColumn,
		stopPattern[:], counters, step)
	copyToResult(&result, found, stopIndexes)

	return result
}

func copyToResult(result *[8]*internal.Point, tmp [4]*internal.Point, indexes [4]int) {
	for i, index := range indexes {
		result[index] = tmp[i]
	}
}

// findRowsWithPattern finds the vertical extent over which a guard pattern
// is present. Scanning proceeds downward in steps of the given size; once
// the pattern is found the first and last rows containing it are refined
// one row at a time. Horizontal drift between rows is bounded by
// maxPatternDrift, and up to skippedRowCountMax consecutive rows without
// the pattern are tolerated before the extent is closed.
func findRowsWithPattern(matrix *bitutil.BitMatrix,
	height, width, startRow, startColumn int,
	pattern, counters []int, step int) [4]*internal.Point {

	var result [4]*internal.Point
	found := false

	for ; startRow < height; startRow += step {
		loc := findGuardPattern(matrix, startColumn, startRow, width, pattern, counters)
		if loc != nil {
			for startRow > 0 {
				startRow--
				previousRowLoc := findGuardPattern(matrix, startColumn, startRow, width, pattern, counters)
				if previousRowLoc != nil {
					loc = previousRowLoc
				} else {
					startRow++
					break
				}
			}
			result[0] = &internal.Point{X: float64(loc[0]), Y: float64(startRow)}
			result[1] = &internal.Point{X: float64(loc[1]), Y: float64(startRow)}
			found = true
			break
		}
	}

	stopRow := startRow + 1
	if found {
		skippedRowCount := 0
		previousRowLoc := []int{int(result[0].X), int(result[1].X)}
		for ; stopRow < height; stopRow++ {
			loc := findGuardPattern(matrix, previousRowLoc[0], stopRow, width, pattern, counters)
			if loc != nil &&
				abs(previousRowLoc[0]-loc[0]) < maxPatternDrift &&
				abs(previousRowLoc[1]-loc[1]) < maxPatternDrift {
				previousRowLoc = loc
				skippedRowCount = 0
			} else {
				if skippedRowCount > skippedRowCountMax {
					break
				}
				skippedRowCount++
			}
		}
		stopRow -= skippedRowCount + 1
		result[2] = &internal.Point{X: float64(previousRowLoc[0]), Y: float64(stopRow)}
		result[3] = &internal.Point{X: float64(previousRowLoc[1]), Y: float64(stopRow)}
	}

	if stopRow-startRow < barcodeMinHeight {
		result = [4]*internal.Point{}
	}
	return result
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
