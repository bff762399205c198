package decoder

import (
	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/charset"
	"github.com/scanline/pdf417/internal"
)

const (
	// codewordSkew is the tolerance, in modules, between a sampled
	// codeword width and the expected column width.
	codewordSkew = 2

	// erasureSlack is how many errors beyond half the EC capacity the
	// erasure count may claim before correction is refused outright.
	erasureSlack = 3

	maxECCodewords = 512

	// maxAmbiguousTries bounds the combination search over ambiguous
	// cell candidates.
	maxAmbiguousTries = 100
)

// Decode samples the codeword area bounded by the given corner points,
// corrects the assembled codeword array and parses it. The corner points
// follow the detector's convention: a nil pair on one side means that
// guard pattern was not found. minCodewordWidth and maxCodewordWidth seed
// the width bounds; observed codewords tighten them as columns are
// scanned. characterSet, when non-nil, overrides the initial ECI charset.
func Decode(bits *bitutil.BitMatrix,
	topLeft, bottomLeft, topRight, bottomRight *internal.Point,
	minCodewordWidth, maxCodewordWidth int,
	characterSet *charset.ECI) (*internal.DecoderResult, error) {

	box, err := newBoundingBox(bits, topLeft, bottomLeft, topRight, bottomRight)
	if err != nil {
		return nil, err
	}

	var leftIndicator, rightIndicator *rowIndicatorColumn
	var result *detectionResult

	for firstPass := true; ; firstPass = false {
		if topLeft != nil {
			leftIndicator = sampleIndicatorColumn(bits, box, *topLeft, true, minCodewordWidth, maxCodewordWidth)
		}
		if topRight != nil {
			rightIndicator = sampleIndicatorColumn(bits, box, *topRight, false, minCodewordWidth, maxCodewordWidth)
		}
		result = mergeIndicators(leftIndicator, rightIndicator)
		if result == nil {
			return nil, internal.ErrNotFound
		}
		if firstPass && result.box != nil &&
			(result.box.minY < box.minY || result.box.maxY > box.maxY) {
			box = result.box
		} else {
			break
		}
	}

	result.box = box
	maxBarcodeColumn := result.columnCount + 1
	if leftIndicator != nil {
		result.setIndicatorColumn(0, leftIndicator)
	}
	if rightIndicator != nil {
		result.setIndicatorColumn(maxBarcodeColumn, rightIndicator)
	}

	leftToRight := leftIndicator != nil
	for i := 1; i <= maxBarcodeColumn; i++ {
		barcodeColumn := i
		if !leftToRight {
			barcodeColumn = maxBarcodeColumn - i
		}
		if result.columns[barcodeColumn] != nil {
			continue
		}
		if barcodeColumn == 0 || barcodeColumn == maxBarcodeColumn {
			result.setIndicatorColumn(barcodeColumn, newRowIndicatorColumn(box, barcodeColumn == 0))
		} else {
			result.setColumn(barcodeColumn, newDetectionColumn(box))
		}
		column := result.columns[barcodeColumn]

		startColumn := -1
		previousStartColumn := -1
		for imageRow := box.minY; imageRow <= box.maxY; imageRow++ {
			startColumn = startColumnFor(result, barcodeColumn, imageRow, leftToRight)
			if startColumn < 0 || startColumn > box.maxX {
				if previousStartColumn == -1 {
					continue
				}
				startColumn = previousStartColumn
			}
			cw := detectCodeword(bits, box.minX, box.maxX, leftToRight,
				startColumn, imageRow, minCodewordWidth, maxCodewordWidth)
			if cw != nil {
				column.setCodeword(imageRow, cw)
				previousStartColumn = startColumn
				if cw.width() < minCodewordWidth {
					minCodewordWidth = cw.width()
				}
				if cw.width() > maxCodewordWidth {
					maxCodewordWidth = cw.width()
				}
			}
		}
	}
	return createDecoderResult(result, characterSet)
}

// sampleIndicatorColumn walks an indicator column down then up from the
// detected corner, re-anchoring the start column on each decoded
// codeword.
func sampleIndicatorColumn(bits *bitutil.BitMatrix,
	box *boundingBox,
	startPoint internal.Point,
	isLeft bool,
	minCodewordWidth, maxCodewordWidth int) *rowIndicatorColumn {

	column := newRowIndicatorColumn(box, isLeft)
	for i := 0; i < 2; i++ {
		increment := 1
		if i != 0 {
			increment = -1
		}
		startColumn := int(startPoint.X)
		for imageRow := int(startPoint.Y); imageRow <= box.maxY && imageRow >= box.minY; imageRow += increment {
			cw := detectCodeword(bits, 0, bits.Width(), isLeft, startColumn, imageRow,
				minCodewordWidth, maxCodewordWidth)
			if cw != nil {
				column.setCodeword(imageRow, cw)
				if isLeft {
					startColumn = cw.startX
				} else {
					startColumn = cw.endX
				}
			}
		}
	}
	return column
}

// mergeIndicators combines the two indicator columns into a detection
// result, extending each side's bounding box across rows whose guards
// were missed. Returns nil when no usable metadata could be read.
func mergeIndicators(left, right *rowIndicatorColumn) *detectionResult {
	if left == nil && right == nil {
		return nil
	}
	meta := mergeMetadata(left, right)
	if meta == nil {
		return nil
	}
	box, err := mergeBoundingBoxes(compensateMissingRows(left), compensateMissingRows(right))
	if err != nil || box == nil {
		return nil
	}
	return newDetectionResult(meta, box)
}

// compensateMissingRows widens an indicator column's bounding box by the
// rows its height statistics say were skipped at the top and bottom.
func compensateMissingRows(column *rowIndicatorColumn) *boundingBox {
	if column == nil {
		return nil
	}
	rowHeights := column.rowHeights()
	if rowHeights == nil {
		return nil
	}
	maxRowHeight := maxInt(rowHeights)

	missingStartRows := 0
	for _, rowHeight := range rowHeights {
		missingStartRows += maxRowHeight - rowHeight
		if rowHeight > 0 {
			break
		}
	}
	codewords := column.codewords
	for row := 0; missingStartRows > 0 && codewords[row] == nil; row++ {
		missingStartRows--
	}

	missingEndRows := 0
	for row := len(rowHeights) - 1; row >= 0; row-- {
		missingEndRows += maxRowHeight - rowHeights[row]
		if rowHeights[row] > 0 {
			break
		}
	}
	for row := len(codewords) - 1; missingEndRows > 0 && codewords[row] == nil; row-- {
		missingEndRows--
	}

	box, err := column.box.addMissingRows(missingStartRows, missingEndRows, column.isLeft)
	if err != nil {
		return nil
	}
	return box
}

// mergeMetadata reads the geometry from whichever indicator columns are
// available. When both sides are readable they must agree on at least one
// of column count, row count or EC level.
func mergeMetadata(left, right *rowIndicatorColumn) *barcodeMetadata {
	var leftMeta *barcodeMetadata
	if left != nil {
		leftMeta = left.metadata()
	}
	if leftMeta == nil {
		if right == nil {
			return nil
		}
		return right.metadata()
	}
	if right == nil {
		return leftMeta
	}
	rightMeta := right.metadata()
	if rightMeta == nil {
		return leftMeta
	}
	if leftMeta.columnCount != rightMeta.columnCount &&
		leftMeta.errorCorrectionLevel != rightMeta.errorCorrectionLevel &&
		leftMeta.rowCount() != rightMeta.rowCount() {
		return nil
	}
	return leftMeta
}

func maxInt(values []int) int {
	result := -1
	for _, v := range values {
		if v > result {
			result = v
		}
	}
	return result
}

// createDecoderResult flattens the reconciled columns into the codeword
// array, collecting erasures and ambiguous cells, and hands off to error
// correction and parsing.
func createDecoderResult(result *detectionResult, characterSet *charset.ECI) (*internal.DecoderResult, error) {
	matrix := buildBarcodeValueMatrix(result)
	if err := adjustCodewordCount(result, matrix); err != nil {
		return nil, err
	}

	var erasures []int
	codewords := make([]int, result.rowCount()*result.columnCount)
	var ambiguousIndexes []int
	var ambiguousValues [][]int
	for row := 0; row < result.rowCount(); row++ {
		for column := 0; column < result.columnCount; column++ {
			values := matrix[row][column+1].value()
			codewordIndex := row*result.columnCount + column
			switch len(values) {
			case 0:
				erasures = append(erasures, codewordIndex)
			case 1:
				codewords[codewordIndex] = values[0]
			default:
				ambiguousIndexes = append(ambiguousIndexes, codewordIndex)
				ambiguousValues = append(ambiguousValues, values)
			}
		}
	}
	return resolveAmbiguousValues(result.ecLevel(), codewords, erasures,
		ambiguousIndexes, ambiguousValues, characterSet)
}

// resolveAmbiguousValues tries candidate combinations for the ambiguous
// cells in a fixed odometer order until one passes error correction,
// bounded by maxAmbiguousTries. Candidates per cell are sorted, so
// repeated runs enumerate identically.
func resolveAmbiguousValues(ecLevel int,
	codewords, erasures, ambiguousIndexes []int,
	ambiguousValues [][]int,
	characterSet *charset.ECI) (*internal.DecoderResult, error) {

	selection := make([]int, len(ambiguousIndexes))
	for tries := maxAmbiguousTries; tries > 0; tries-- {
		for i := range selection {
			codewords[ambiguousIndexes[i]] = ambiguousValues[i][selection[i]]
		}
		result, err := decodeCodewords(codewords, ecLevel, erasures, characterSet)
		if err == nil {
			return result, nil
		}
		if err != internal.ErrChecksum {
			return nil, err
		}
		if len(selection) == 0 {
			return nil, internal.ErrChecksum
		}
		for i := range selection {
			if selection[i] < len(ambiguousValues[i])-1 {
				selection[i]++
				break
			}
			selection[i] = 0
			if i == len(selection)-1 {
				return nil, internal.ErrChecksum
			}
		}
	}
	return nil, internal.ErrChecksum
}

func buildBarcodeValueMatrix(result *detectionResult) [][]*barcodeValue {
	matrix := make([][]*barcodeValue, result.rowCount())
	for row := range matrix {
		matrix[row] = make([]*barcodeValue, result.columnCount+2)
		for column := range matrix[row] {
			matrix[row][column] = newBarcodeValue()
		}
	}
	for column, detectionColumn := range result.reconciledColumns() {
		if detectionColumn == nil {
			continue
		}
		for _, cw := range detectionColumn.codewords {
			if cw == nil || cw.rowNumber < 0 || cw.rowNumber >= len(matrix) {
				continue
			}
			matrix[cw.rowNumber][column].setValue(cw.value)
		}
	}
	return matrix
}

// adjustCodewordCount repairs the declared codeword count cell from the
// geometry when it is missing or contradicts the symbol dimensions.
func adjustCodewordCount(result *detectionResult, matrix [][]*barcodeValue) error {
	countCell := matrix[0][1]
	declaredCounts := countCell.value()
	calculatedCount := result.columnCount*result.rowCount() -
		numECCodewords(result.ecLevel())
	if len(declaredCounts) == 0 {
		if calculatedCount < 1 || calculatedCount > internal.MaxCodewordsInSymbol {
			return internal.ErrNotFound
		}
		countCell.setValue(calculatedCount)
	} else if declaredCounts[0] != calculatedCount &&
		calculatedCount >= 1 &&
		calculatedCount <= internal.MaxCodewordsInSymbol {
		countCell.setValue(calculatedCount)
	}
	return nil
}

func isValidBarcodeColumn(result *detectionResult, barcodeColumn int) bool {
	return barcodeColumn >= 0 && barcodeColumn <= result.columnCount+1
}

// startColumnFor infers the expected start pixel of a cell from, in
// order: the adjacent column's codeword in the same row, a nearby
// codeword in the same column, a nearby codeword in the adjacent column,
// and finally extrapolation from whatever previous column has any
// codeword at all.
func startColumnFor(result *detectionResult, barcodeColumn, imageRow int, leftToRight bool) int {
	offset := 1
	if !leftToRight {
		offset = -1
	}
	var cw *codeword
	if isValidBarcodeColumn(result, barcodeColumn-offset) {
		cw = result.columns[barcodeColumn-offset].codewordAt(imageRow)
	}
	if cw != nil {
		if leftToRight {
			return cw.endX
		}
		return cw.startX
	}
	cw = result.columns[barcodeColumn].codewordNearby(imageRow)
	if cw != nil {
		if leftToRight {
			return cw.startX
		}
		return cw.endX
	}
	if isValidBarcodeColumn(result, barcodeColumn-offset) {
		cw = result.columns[barcodeColumn-offset].codewordNearby(imageRow)
	}
	if cw != nil {
		if leftToRight {
			return cw.endX
		}
		return cw.startX
	}
	skippedColumns := 0
	for isValidBarcodeColumn(result, barcodeColumn-offset) {
		barcodeColumn -= offset
		for _, previous := range result.columns[barcodeColumn].codewords {
			if previous != nil {
				if leftToRight {
					return previous.endX + offset*skippedColumns*previous.width()
				}
				return previous.startX + offset*skippedColumns*previous.width()
			}
		}
		skippedColumns++
	}
	if leftToRight {
		return result.box.minX
	}
	return result.box.maxX
}

// detectCodeword samples one codeword cell starting at the given column
// and returns nil when the cell cannot be read confidently (width out of
// tolerance or no symbol pattern close enough).
func detectCodeword(bits *bitutil.BitMatrix,
	minColumn, maxColumn int,
	leftToRight bool,
	startColumn, imageRow int,
	minCodewordWidth, maxCodewordWidth int) *codeword {

	startColumn = adjustCodewordStartColumn(bits, minColumn, maxColumn, leftToRight, startColumn, imageRow)
	moduleBitCount := moduleBitCountAt(bits, minColumn, maxColumn, leftToRight, startColumn, imageRow)
	if moduleBitCount == nil {
		return nil
	}
	codewordBitCount := sum(moduleBitCount)
	var endColumn int
	if leftToRight {
		endColumn = startColumn + codewordBitCount
	} else {
		for i, j := 0, len(moduleBitCount)-1; i < j; i, j = i+1, j-1 {
			moduleBitCount[i], moduleBitCount[j] = moduleBitCount[j], moduleBitCount[i]
		}
		endColumn = startColumn
		startColumn = endColumn - codewordBitCount
	}

	if !checkCodewordSkew(codewordBitCount, minCodewordWidth, maxCodewordWidth) {
		return nil
	}

	pattern := decodedValue(moduleBitCount)
	if pattern == -1 {
		return nil
	}
	value := internal.CodewordValue(pattern)
	if value == -1 {
		return nil
	}
	return newCodeword(startColumn, endColumn, bucketOfPattern(pattern), value)
}

// moduleBitCountAt counts the pixel runs of the 8 bars and spaces of one
// codeword, or returns nil when the row ends before the codeword does.
func moduleBitCountAt(bits *bitutil.BitMatrix,
	minColumn, maxColumn int,
	leftToRight bool,
	startColumn, imageRow int) []int {

	imageColumn := startColumn
	moduleBitCount := make([]int, internal.BarsInCodeword)
	moduleNumber := 0
	increment := 1
	if !leftToRight {
		increment = -1
	}
	previousPixelValue := leftToRight
	for ((leftToRight && imageColumn < maxColumn) ||
		(!leftToRight && imageColumn >= minColumn)) &&
		moduleNumber < len(moduleBitCount) {
		if bits.Get(imageColumn, imageRow) == previousPixelValue {
			moduleBitCount[moduleNumber]++
			imageColumn += increment
		} else {
			moduleNumber++
			previousPixelValue = !previousPixelValue
		}
	}
	if moduleNumber == len(moduleBitCount) ||
		((imageColumn == maxColumn && leftToRight || imageColumn == minColumn && !leftToRight) &&
			moduleNumber == len(moduleBitCount)-1) {
		return moduleBitCount
	}
	return nil
}

// adjustCodewordStartColumn nudges the start column onto the leading edge
// of the first bar, moving at most codewordSkew pixels.
func adjustCodewordStartColumn(bits *bitutil.BitMatrix,
	minColumn, maxColumn int,
	leftToRight bool,
	codewordStartColumn, imageRow int) int {

	correctedStartColumn := codewordStartColumn
	increment := -1
	if !leftToRight {
		increment = 1
	}
	for i := 0; i < 2; i++ {
		for (leftToRight && correctedStartColumn >= minColumn ||
			!leftToRight && correctedStartColumn < maxColumn) &&
			leftToRight == bits.Get(correctedStartColumn, imageRow) {
			if abs(codewordStartColumn-correctedStartColumn) > codewordSkew {
				return codewordStartColumn
			}
			correctedStartColumn += increment
		}
		increment = -increment
		leftToRight = !leftToRight
	}
	return correctedStartColumn
}

func checkCodewordSkew(codewordSize, minCodewordWidth, maxCodewordWidth int) bool {
	return minCodewordWidth-codewordSkew <= codewordSize &&
		codewordSize <= maxCodewordWidth+codewordSkew
}

func numECCodewords(ecLevel int) int {
	n := 2 << uint(ecLevel)
	if n > maxECCodewords {
		return maxECCodewords
	}
	return n
}

// decodeCodewords corrects the codeword array, verifies it against its
// declared count and parses the bitstream. The length check runs before
// correction so that a too-short array is a format error rather than a
// checksum one.
func decodeCodewords(codewords []int, ecLevel int, erasures []int, characterSet *charset.ECI) (*internal.DecoderResult, error) {
	if len(codewords) < 4 {
		return nil, internal.ErrFormat
	}
	numEC := numECCodewords(ecLevel)
	correctedErrorsCount, err := correctErrors(codewords, erasures, numEC)
	if err != nil {
		return nil, err
	}
	if err := verifyCodewordCount(codewords, numEC); err != nil {
		return nil, err
	}

	result, err := decodeBitStream(codewords, characterSet)
	if err != nil {
		return nil, err
	}
	result.ECLevel = ecLevel
	result.ErrorsCorrected = correctedErrorsCount
	result.Erasures = len(erasures)
	return result, nil
}

func correctErrors(codewords, erasures []int, numEC int) (int, error) {
	if len(erasures) > numEC/2+erasureSlack ||
		numEC < 0 || numEC > maxECCodewords {
		return 0, internal.ErrChecksum
	}
	return correctCodewords(codewords, numEC, erasures)
}

// verifyCodewordCount checks the array against its declared length and
// repairs a zero declared count from the actual length.
func verifyCodewordCount(codewords []int, numEC int) error {
	declaredCount := codewords[0]
	if declaredCount > len(codewords) {
		return internal.ErrFormat
	}
	if declaredCount == 0 {
		if numEC >= len(codewords) {
			return internal.ErrFormat
		}
		codewords[0] = len(codewords) - numEC
	}
	return nil
}

// bitCountForPattern unpacks a module bit pattern back into its 8 run
// lengths.
func bitCountForPattern(pattern int) []int {
	result := make([]int, internal.BarsInCodeword)
	previousValue := 0
	i := len(result) - 1
	for {
		if (pattern & 0x1) != previousValue {
			previousValue = pattern & 0x1
			i--
			if i < 0 {
				break
			}
		}
		result[i]++
		pattern >>= 1
	}
	return result
}

// bucketOfPattern derives the cluster bucket (0, 3 or 6) of a symbol
// pattern from its bar widths.
func bucketOfPattern(pattern int) int {
	moduleBitCount := bitCountForPattern(pattern)
	return (moduleBitCount[0] - moduleBitCount[2] + moduleBitCount[4] - moduleBitCount[6] + 9) % 9
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
