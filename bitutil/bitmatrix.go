// Package bitutil provides the packed binary pixel matrix consumed by the
// decode pipeline.
package bitutil

import "strings"

// BitMatrix represents a 2D matrix of bits. x is the column position, y is
// the row position. The origin is at the top-left. A set bit is a black
// pixel.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// NewBitMatrix creates a new BitMatrix with the given width and height.
func NewBitMatrix(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] &^= 1 << uint(x&0x1f)
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] ^= 1 << uint(x&0x1f)
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitutil: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitutil: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitutil: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// Width returns the width.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint32, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// Rotated returns a copy of the matrix rotated counterclockwise by the given
// degrees (0, 90, 180 or 270). The receiver is not modified.
func (bm *BitMatrix) Rotated(degrees int) *BitMatrix {
	switch degrees % 360 {
	case 0:
		return bm.Clone()
	case 90:
		return bm.rotated90()
	case 180:
		return bm.rotated180()
	case 270:
		return bm.rotated90().rotated180()
	default:
		panic("bitutil: degrees must be a multiple of 90")
	}
}

// rotated90 returns the matrix rotated 90 degrees counterclockwise.
func (bm *BitMatrix) rotated90() *BitMatrix {
	out := NewBitMatrix(bm.height, bm.width)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				out.Set(y, bm.width-1-x)
			}
		}
	}
	return out
}

// rotated180 returns the matrix rotated 180 degrees.
func (bm *BitMatrix) rotated180() *BitMatrix {
	out := NewBitMatrix(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				out.Set(bm.width-1-x, bm.height-1-y)
			}
		}
	}
	return out
}

// ParseStringMatrix creates a BitMatrix from a string representation, using
// setStr for set bits and unsetStr for unset bits. Rows are separated by
// newlines and must have equal length.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	bts := make([]bool, len(repr))
	bitsPos := 0
	rowStartPos := 0
	rowLength := -1
	nRows := 0
	pos := 0
	for pos < len(repr) {
		ch := repr[pos]
		if ch == '\n' || ch == '\r' {
			if bitsPos > rowStartPos {
				if rowLength == -1 {
					rowLength = bitsPos - rowStartPos
				} else if bitsPos-rowStartPos != rowLength {
					panic("bitutil: row lengths do not match")
				}
				rowStartPos = bitsPos
				nRows++
			}
			pos++
		} else if strings.HasPrefix(repr[pos:], setStr) {
			pos += len(setStr)
			bts[bitsPos] = true
			bitsPos++
		} else if strings.HasPrefix(repr[pos:], unsetStr) {
			pos += len(unsetStr)
			bts[bitsPos] = false
			bitsPos++
		} else {
			panic("bitutil: illegal character encountered")
		}
	}
	if bitsPos > rowStartPos {
		if rowLength == -1 {
			rowLength = bitsPos - rowStartPos
		} else if bitsPos-rowStartPos != rowLength {
			panic("bitutil: row lengths do not match")
		}
		nRows++
	}
	matrix := NewBitMatrix(rowLength, nRows)
	for i := 0; i < bitsPos; i++ {
		if bts[i] {
			matrix.Set(i%rowLength, i/rowLength)
		}
	}
	return matrix
}

// String returns a string representation using "X " for set and "  " for
// unset bits.
func (bm *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(bm.height * (2*bm.width + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString("X ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals returns true if two BitMatrices have identical dimensions and bits.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
