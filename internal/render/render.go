package render

import (
	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/internal"
)

// Guard patterns as module strings, leftmost module first.
const (
	startGuard = "11111111010101000"
	stopGuard  = "111111101000101001"
)

// ecCount returns the number of check codewords at the given level.
func ecCount(ecLevel int) int {
	return 2 << uint(ecLevel)
}

// Barcode lays out the full codeword array of a symbol: the length
// descriptor, the data, pad codewords to fill the grid, and the check
// codewords. It returns the array and the row count.
func Barcode(data []int, columns, ecLevel int) ([]int, int) {
	numEC := ecCount(ecLevel)
	payload := 1 + len(data) // length descriptor plus data
	rows := (payload + numEC + columns - 1) / columns
	if rows < internal.MinRows {
		rows = internal.MinRows
	}
	if rows > internal.MaxRows {
		panic("render: message does not fit the symbol")
	}

	codewords := make([]int, 0, rows*columns)
	codewords = append(codewords, rows*columns-numEC) // length descriptor
	codewords = append(codewords, data...)
	for len(codewords) < rows*columns-numEC {
		codewords = append(codewords, 900) // pad
	}
	codewords = append(codewords, checkCodewords(codewords, numEC)...)
	return codewords, rows
}

// checkCodewords computes the Reed-Solomon check codewords over GF(929):
// the negated remainder of data(x)*x^numEC divided by the generator
// polynomial with roots 3^1..3^numEC.
func checkCodewords(data []int, numEC int) []int {
	gen := generator(numEC)
	msg := make([]int, len(data)+numEC)
	copy(msg, data)
	for i := 0; i < len(data); i++ {
		factor := msg[i]
		if factor == 0 {
			continue
		}
		// gen is monic, so the leading term cancels exactly.
		for j := 1; j < len(gen); j++ {
			msg[i+j] = (msg[i+j] + internal.NumCodewords - gen[j]*factor%internal.NumCodewords) % internal.NumCodewords
		}
	}
	ec := make([]int, numEC)
	for i, r := range msg[len(data):] {
		ec[i] = (internal.NumCodewords - r) % internal.NumCodewords
	}
	return ec
}

// generator returns the coefficients of prod(x - 3^i) for i=1..numEC,
// highest degree first.
func generator(numEC int) []int {
	gen := []int{1}
	root := 1
	for i := 0; i < numEC; i++ {
		root = root * 3 % internal.NumCodewords
		next := make([]int, len(gen)+1)
		for j, c := range gen {
			next[j] = (next[j] + c) % internal.NumCodewords
			next[j+1] = (next[j+1] + c*(internal.NumCodewords-root)) % internal.NumCodewords
		}
		gen = next
	}
	return gen
}

// leftIndicatorValue encodes the left row indicator for the given row:
// the rows triplet, the EC level or the column count, cycling by row.
func leftIndicatorValue(row, rows, columns, ecLevel int) int {
	base := 30 * (row / 3)
	switch row % 3 {
	case 0:
		return base + (rows-1)/3
	case 1:
		return base + 3*ecLevel + (rows-1)%3
	default:
		return base + columns - 1
	}
}

// rightIndicatorValue mirrors the left indicator with the metadata
// fields rotated by one row.
func rightIndicatorValue(row, rows, columns, ecLevel int) int {
	base := 30 * (row / 3)
	switch row % 3 {
	case 0:
		return base + columns - 1
	case 1:
		return base + (rows-1)/3
	default:
		return base + 3*ecLevel + (rows-1)%3
	}
}

// Bitmap renders a codeword array into a pixel matrix. Each row carries
// the start guard, the left indicator, columns data codewords, the right
// indicator and the stop guard; margin is the quiet zone in modules.
func Bitmap(codewords []int, columns, rows, ecLevel, moduleWidth, rowHeight, margin int) *bitutil.BitMatrix {
	widthModules := 2*margin + len(startGuard) + len(stopGuard) +
		internal.ModulesInCodeword*(columns+2)
	marginPx := margin * moduleWidth
	bm := bitutil.NewBitMatrix(widthModules*moduleWidth, 2*marginPx+rows*rowHeight)

	for row := 0; row < rows; row++ {
		cluster := row % 3
		y := marginPx + row*rowHeight
		x := marginPx
		x = paintModules(bm, x, y, moduleWidth, rowHeight, startGuard)
		x = paintCodeword(bm, x, y, moduleWidth, rowHeight, cluster,
			leftIndicatorValue(row, rows, columns, ecLevel))
		for c := 0; c < columns; c++ {
			x = paintCodeword(bm, x, y, moduleWidth, rowHeight, cluster,
				codewords[row*columns+c])
		}
		x = paintCodeword(bm, x, y, moduleWidth, rowHeight, cluster,
			rightIndicatorValue(row, rows, columns, ecLevel))
		paintModules(bm, x, y, moduleWidth, rowHeight, stopGuard)
	}
	return bm
}

func paintCodeword(bm *bitutil.BitMatrix, x, y, moduleWidth, rowHeight, cluster, value int) int {
	pattern := internal.SymbolPatterns[cluster][value]
	for i := internal.ModulesInCodeword - 1; i >= 0; i-- {
		if pattern>>uint(i)&1 != 0 {
			bm.SetRegion(x, y, moduleWidth, rowHeight)
		}
		x += moduleWidth
	}
	return x
}

func paintModules(bm *bitutil.BitMatrix, x, y, moduleWidth, rowHeight int, modules string) int {
	for i := 0; i < len(modules); i++ {
		if modules[i] == '1' {
			bm.SetRegion(x, y, moduleWidth, rowHeight)
		}
		x += moduleWidth
	}
	return x
}

// CellBounds returns the pixel rectangle of data cell (row, column) in a
// bitmap produced with the same layout parameters.
func CellBounds(row, column, moduleWidth, rowHeight, margin int) (x, y, w, h int) {
	x = (margin + len(startGuard) + internal.ModulesInCodeword*(1+column)) * moduleWidth
	y = margin*moduleWidth + row*rowHeight
	return x, y, internal.ModulesInCodeword * moduleWidth, rowHeight
}

// Symbol is the convenience path used by most tests: assemble and render
// with a 2-pixel module, 4-pixel rows and a 6-module quiet zone.
func Symbol(data []int, columns, ecLevel int) *bitutil.BitMatrix {
	codewords, rows := Barcode(data, columns, ecLevel)
	return Bitmap(codewords, columns, rows, ecLevel, 2, 4, 6)
}
