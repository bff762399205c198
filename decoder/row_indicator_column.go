package decoder

import "github.com/scanline/pdf417/internal"

// rowIndicatorColumn is a detection column holding a left or right row
// indicator. Indicator codewords carry the symbol geometry: consecutive
// rows encode, in turn, the row count upper part, the EC level with the
// row count lower part, and the column count. The right indicator carries
// the same sequence shifted by two rows.
type rowIndicatorColumn struct {
	*detectionColumn
	isLeft bool
}

func newRowIndicatorColumn(box *boundingBox, isLeft bool) *rowIndicatorColumn {
	return &rowIndicatorColumn{
		detectionColumn: newDetectionColumn(box),
		isLeft:          isLeft,
	}
}

func (col *rowIndicatorColumn) setRowNumbers() {
	for _, cw := range col.codewords {
		if cw != nil {
			cw.setRowNumberAsRowIndicatorColumn()
		}
	}
}

// metadata extracts the symbol geometry by majority vote over the
// indicator codewords. It returns nil when any component is missing or
// the voted geometry is out of range. Codewords contradicting the voted
// geometry are removed from the column.
func (col *rowIndicatorColumn) metadata() *barcodeMetadata {
	columnCount := newBarcodeValue()
	rowCountUpperPart := newBarcodeValue()
	rowCountLowerPart := newBarcodeValue()
	ecLevel := newBarcodeValue()

	for _, cw := range col.codewords {
		if cw == nil {
			continue
		}
		cw.setRowNumberAsRowIndicatorColumn()
		indicatorValue := cw.value % 30
		rowNumber := cw.rowNumber
		if !col.isLeft {
			rowNumber += 2
		}
		switch rowNumber % 3 {
		case 0:
			rowCountUpperPart.setValue(indicatorValue*3 + 1)
		case 1:
			ecLevel.setValue(indicatorValue / 3)
			rowCountLowerPart.setValue(indicatorValue % 3)
		case 2:
			columnCount.setValue(indicatorValue + 1)
		}
	}

	columnCounts := columnCount.value()
	upperParts := rowCountUpperPart.value()
	lowerParts := rowCountLowerPart.value()
	ecLevels := ecLevel.value()
	if len(columnCounts) == 0 || len(upperParts) == 0 ||
		len(lowerParts) == 0 || len(ecLevels) == 0 ||
		columnCounts[0] < 1 ||
		upperParts[0]+lowerParts[0] < internal.MinRows ||
		upperParts[0]+lowerParts[0] > internal.MaxRows {
		return nil
	}
	meta := &barcodeMetadata{
		columnCount:          columnCounts[0],
		rowCountUpperPart:    upperParts[0],
		rowCountLowerPart:    lowerParts[0],
		errorCorrectionLevel: ecLevels[0],
	}
	col.removeIncorrectCodewords(meta)
	return meta
}

// removeIncorrectCodewords drops indicator codewords whose encoded
// geometry component disagrees with the voted metadata.
func (col *rowIndicatorColumn) removeIncorrectCodewords(meta *barcodeMetadata) {
	for i, cw := range col.codewords {
		if cw == nil {
			continue
		}
		indicatorValue := cw.value % 30
		rowNumber := cw.rowNumber
		if rowNumber > meta.rowCount() {
			col.codewords[i] = nil
			continue
		}
		if !col.isLeft {
			rowNumber += 2
		}
		switch rowNumber % 3 {
		case 0:
			if indicatorValue*3+1 != meta.rowCountUpperPart {
				col.codewords[i] = nil
			}
		case 1:
			if indicatorValue/3 != meta.errorCorrectionLevel ||
				indicatorValue%3 != meta.rowCountLowerPart {
				col.codewords[i] = nil
			}
		case 2:
			if indicatorValue+1 != meta.columnCount {
				col.codewords[i] = nil
			}
		}
	}
}

// adjustCompleteRowNumbers rewrites row numbers of a column covering the
// full symbol height, dropping codewords whose row numbers run backwards
// or jump further than the observed row height allows.
func (col *rowIndicatorColumn) adjustCompleteRowNumbers(meta *barcodeMetadata) {
	col.setRowNumbers()
	col.removeIncorrectCodewords(meta)

	top, bottom := col.edgePoints()
	firstRow := col.indexForRow(int(top.Y))
	lastRow := col.indexForRow(int(bottom.Y))
	codewords := col.codewords

	barcodeRow := -1
	maxRowHeight := 1
	currentRowHeight := 0
	for row := firstRow; row < lastRow; row++ {
		cw := codewords[row]
		if cw == nil {
			continue
		}
		rowDifference := cw.rowNumber - barcodeRow
		switch {
		case rowDifference == 0:
			currentRowHeight++
		case rowDifference == 1:
			if currentRowHeight > maxRowHeight {
				maxRowHeight = currentRowHeight
			}
			currentRowHeight = 1
			barcodeRow = cw.rowNumber
		case rowDifference < 0 || cw.rowNumber >= meta.rowCount() || rowDifference > row:
			codewords[row] = nil
		default:
			checkedRows := rowDifference
			if maxRowHeight > 2 {
				checkedRows = (maxRowHeight - 2) * rowDifference
			}
			closePreviousCodewordFound := checkedRows >= row
			for i := 1; i <= checkedRows && !closePreviousCodewordFound; i++ {
				closePreviousCodewordFound = codewords[row-i] != nil
			}
			if closePreviousCodewordFound {
				codewords[row] = nil
			} else {
				barcodeRow = cw.rowNumber
				currentRowHeight = 1
			}
		}
	}
}

// adjustIncompleteRowNumbers rewrites row numbers of a column that does
// not span the full symbol height, keeping only forward progress.
func (col *rowIndicatorColumn) adjustIncompleteRowNumbers(meta *barcodeMetadata) {
	top, bottom := col.edgePoints()
	firstRow := col.indexForRow(int(top.Y))
	lastRow := col.indexForRow(int(bottom.Y))
	codewords := col.codewords

	barcodeRow := -1
	maxRowHeight := 1
	currentRowHeight := 0
	for row := firstRow; row < lastRow; row++ {
		cw := codewords[row]
		if cw == nil {
			continue
		}
		cw.setRowNumberAsRowIndicatorColumn()
		rowDifference := cw.rowNumber - barcodeRow
		switch {
		case rowDifference == 0:
			currentRowHeight++
		case rowDifference == 1:
			if currentRowHeight > maxRowHeight {
				maxRowHeight = currentRowHeight
			}
			currentRowHeight = 1
			barcodeRow = cw.rowNumber
		case cw.rowNumber >= meta.rowCount():
			codewords[row] = nil
		default:
			barcodeRow = cw.rowNumber
			currentRowHeight = 1
		}
	}
}

// rowHeights returns the number of image rows occupied by each symbol
// row, or nil when the column's metadata cannot be determined.
func (col *rowIndicatorColumn) rowHeights() []int {
	meta := col.metadata()
	if meta == nil {
		return nil
	}
	col.adjustIncompleteRowNumbers(meta)
	heights := make([]int, meta.rowCount())
	for _, cw := range col.codewords {
		if cw == nil {
			continue
		}
		if cw.rowNumber >= len(heights) {
			continue
		}
		heights[cw.rowNumber]++
	}
	return heights
}

func (col *rowIndicatorColumn) edgePoints() (top, bottom internal.Point) {
	if col.isLeft {
		return col.box.topLeft, col.box.bottomLeft
	}
	return col.box.topRight, col.box.bottomRight
}
