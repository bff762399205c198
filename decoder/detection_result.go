package decoder

import (
	"fmt"
	"strings"

	"github.com/scanline/pdf417/internal"
)

// adjustRowNumberSkip bounds how many bucket-incompatible codewords a row
// number may propagate past when spreading from an indicator column.
const adjustRowNumberSkip = 2

// detectionResult holds the sampled codeword columns of one symbol:
// columns[0] and columns[columnCount+1] are the row indicator columns,
// the columns in between are data columns. Indicator columns are also
// kept under their concrete type for metadata access.
type detectionResult struct {
	meta        *barcodeMetadata
	box         *boundingBox
	columnCount int
	columns     []*detectionColumn
	indicators  [2]*rowIndicatorColumn
}

func newDetectionResult(meta *barcodeMetadata, box *boundingBox) *detectionResult {
	return &detectionResult{
		meta:        meta,
		box:         box,
		columnCount: meta.columnCount,
		columns:     make([]*detectionColumn, meta.columnCount+2),
	}
}

func (dr *detectionResult) setColumn(barcodeColumn int, col *detectionColumn) {
	dr.columns[barcodeColumn] = col
}

func (dr *detectionResult) setIndicatorColumn(barcodeColumn int, col *rowIndicatorColumn) {
	if col == nil {
		dr.columns[barcodeColumn] = nil
		return
	}
	dr.columns[barcodeColumn] = col.detectionColumn
	if col.isLeft {
		dr.indicators[0] = col
	} else {
		dr.indicators[1] = col
	}
}

// reconciledColumns reconciles every codeword's row number from the
// indicator columns and bucket-compatible neighbors, iterating until no
// further progress is made, and returns the columns.
func (dr *detectionResult) reconciledColumns() []*detectionColumn {
	if dr.indicators[0] != nil {
		dr.indicators[0].adjustCompleteRowNumbers(dr.meta)
	}
	if dr.indicators[1] != nil {
		dr.indicators[1].adjustCompleteRowNumbers(dr.meta)
	}
	unadjustedCount := internal.MaxCodewordsInSymbol
	for {
		previousUnadjustedCount := unadjustedCount
		unadjustedCount = dr.adjustRowNumbers()
		if unadjustedCount <= 0 || unadjustedCount >= previousUnadjustedCount {
			break
		}
	}
	return dr.columns
}

func (dr *detectionResult) adjustRowNumbers() int {
	unadjustedCount := dr.adjustRowNumbersByRow()
	if unadjustedCount == 0 {
		return 0
	}
	for barcodeColumn := 1; barcodeColumn < dr.columnCount+1; barcodeColumn++ {
		codewords := dr.columns[barcodeColumn].codewords
		for row := range codewords {
			if codewords[row] == nil {
				continue
			}
			if !codewords[row].hasValidRowNumber() {
				dr.adjustRowNumbersFromNeighbors(barcodeColumn, row, codewords)
			}
		}
	}
	return unadjustedCount
}

func (dr *detectionResult) adjustRowNumbersByRow() int {
	dr.adjustRowNumbersFromBothIndicators()
	unadjustedCount := dr.adjustRowNumbersFromIndicator(true)
	return unadjustedCount + dr.adjustRowNumbersFromIndicator(false)
}

// adjustRowNumbersFromBothIndicators stamps the row number onto every data
// codeword in image rows where the two indicator columns agree.
func (dr *detectionResult) adjustRowNumbersFromBothIndicators() {
	left := dr.columns[0]
	right := dr.columns[dr.columnCount+1]
	if left == nil || right == nil {
		return
	}
	for row := range left.codewords {
		if left.codewords[row] == nil || right.codewords[row] == nil ||
			left.codewords[row].rowNumber != right.codewords[row].rowNumber {
			continue
		}
		for barcodeColumn := 1; barcodeColumn <= dr.columnCount; barcodeColumn++ {
			cw := dr.columns[barcodeColumn].codewords[row]
			if cw == nil {
				continue
			}
			cw.rowNumber = left.codewords[row].rowNumber
			if !cw.hasValidRowNumber() {
				dr.columns[barcodeColumn].codewords[row] = nil
			}
		}
	}
}

// adjustRowNumbersFromIndicator spreads one indicator column's row numbers
// inward across each image row, giving up after adjustRowNumberSkip
// consecutive bucket-incompatible codewords. It returns the number of
// codewords still lacking a valid row number.
func (dr *detectionResult) adjustRowNumbersFromIndicator(fromLeft bool) int {
	var indicator *detectionColumn
	if fromLeft {
		indicator = dr.columns[0]
	} else {
		indicator = dr.columns[dr.columnCount+1]
	}
	if indicator == nil {
		return 0
	}
	unadjustedCount := 0
	for row := range indicator.codewords {
		if indicator.codewords[row] == nil {
			continue
		}
		indicatorRowNumber := indicator.codewords[row].rowNumber
		invalidRowCounts := 0
		if fromLeft {
			for barcodeColumn := 1; barcodeColumn < dr.columnCount+1 && invalidRowCounts < adjustRowNumberSkip; barcodeColumn++ {
				cw := dr.columns[barcodeColumn].codewords[row]
				if cw != nil {
					invalidRowCounts = adjustRowNumberIfValid(indicatorRowNumber, invalidRowCounts, cw)
					if !cw.hasValidRowNumber() {
						unadjustedCount++
					}
				}
			}
		} else {
			for barcodeColumn := dr.columnCount + 1; barcodeColumn > 0 && invalidRowCounts < adjustRowNumberSkip; barcodeColumn-- {
				cw := dr.columns[barcodeColumn].codewords[row]
				if cw != nil {
					invalidRowCounts = adjustRowNumberIfValid(indicatorRowNumber, invalidRowCounts, cw)
					if !cw.hasValidRowNumber() {
						unadjustedCount++
					}
				}
			}
		}
	}
	return unadjustedCount
}

func adjustRowNumberIfValid(indicatorRowNumber, invalidRowCounts int, cw *codeword) int {
	if cw.hasValidRowNumber() {
		return invalidRowCounts
	}
	if cw.isValidRowNumber(indicatorRowNumber) {
		cw.rowNumber = indicatorRowNumber
		return 0
	}
	return invalidRowCounts + 1
}

// adjustRowNumbersFromNeighbors assigns a row number from the nearest
// bucket-compatible neighbor within two rows in this and the adjacent
// columns, nearest first.
func (dr *detectionResult) adjustRowNumbersFromNeighbors(barcodeColumn, row int, codewords []*codeword) {
	cw := codewords[row]
	previousColumn := dr.columns[barcodeColumn-1].codewords
	nextColumn := previousColumn
	if dr.columns[barcodeColumn+1] != nil {
		nextColumn = dr.columns[barcodeColumn+1].codewords
	}

	others := make([]*codeword, 14)
	others[2] = previousColumn[row]
	others[3] = nextColumn[row]
	if row > 0 {
		others[0] = codewords[row-1]
		others[4] = previousColumn[row-1]
		others[5] = nextColumn[row-1]
	}
	if row > 1 {
		others[8] = codewords[row-2]
		others[10] = previousColumn[row-2]
		others[11] = nextColumn[row-2]
	}
	if row < len(codewords)-1 {
		others[1] = codewords[row+1]
		others[6] = previousColumn[row+1]
		others[7] = nextColumn[row+1]
	}
	if row < len(codewords)-2 {
		others[9] = codewords[row+2]
		others[12] = previousColumn[row+2]
		others[13] = nextColumn[row+2]
	}
	for _, other := range others {
		if adoptRowNumber(cw, other) {
			return
		}
	}
}

func adoptRowNumber(cw, other *codeword) bool {
	if other == nil {
		return false
	}
	if other.hasValidRowNumber() && other.bucket == cw.bucket {
		cw.rowNumber = other.rowNumber
		return true
	}
	return false
}

func (dr *detectionResult) rowCount() int {
	return dr.meta.rowCount()
}

func (dr *detectionResult) ecLevel() int {
	return dr.meta.errorCorrectionLevel
}

func (dr *detectionResult) String() string {
	indicator := dr.columns[0]
	if indicator == nil {
		indicator = dr.columns[dr.columnCount+1]
	}
	var sb strings.Builder
	for row := range indicator.codewords {
		fmt.Fprintf(&sb, "CW %3d:", row)
		for barcodeColumn := 0; barcodeColumn < dr.columnCount+2; barcodeColumn++ {
			if dr.columns[barcodeColumn] == nil {
				sb.WriteString("    |   ")
				continue
			}
			cw := dr.columns[barcodeColumn].codewords[row]
			if cw == nil {
				sb.WriteString("    |   ")
				continue
			}
			fmt.Fprintf(&sb, " %3d|%3d", cw.rowNumber, cw.value)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
