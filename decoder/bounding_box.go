package decoder

import (
	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/internal"
)

// boundingBox is the quadrilateral around the codeword area of a symbol.
// When only one vertical edge was detected, the other is assumed at the
// matrix border.
type boundingBox struct {
	bits        *bitutil.BitMatrix
	topLeft     internal.Point
	bottomLeft  internal.Point
	topRight    internal.Point
	bottomRight internal.Point
	minX, maxX  int
	minY, maxY  int
}

// newBoundingBox builds a bounding box from detected edge points. At least
// one complete vertical edge (top and bottom point) is required; a missing
// edge is extended to the matrix border at the same rows as the known edge.
func newBoundingBox(bits *bitutil.BitMatrix,
	topLeft, bottomLeft, topRight, bottomRight *internal.Point) (*boundingBox, error) {

	leftMissing := topLeft == nil || bottomLeft == nil
	rightMissing := topRight == nil || bottomRight == nil
	if leftMissing && rightMissing {
		return nil, internal.ErrNotFound
	}

	var tl, bl, tr, br internal.Point
	switch {
	case leftMissing:
		tr, br = *topRight, *bottomRight
		tl = internal.Point{X: 0, Y: tr.Y}
		bl = internal.Point{X: 0, Y: br.Y}
	case rightMissing:
		tl, bl = *topLeft, *bottomLeft
		tr = internal.Point{X: float64(bits.Width() - 1), Y: tl.Y}
		br = internal.Point{X: float64(bits.Width() - 1), Y: bl.Y}
	default:
		tl, bl, tr, br = *topLeft, *bottomLeft, *topRight, *bottomRight
	}

	b := &boundingBox{
		bits:        bits,
		topLeft:     tl,
		bottomLeft:  bl,
		topRight:    tr,
		bottomRight: br,
	}
	b.recalculate()
	return b, nil
}

func (b *boundingBox) recalculate() {
	b.minX = int(min(b.topLeft.X, b.bottomLeft.X))
	b.maxX = int(max(b.topRight.X, b.bottomRight.X))
	b.minY = int(min(b.topLeft.Y, b.topRight.Y))
	b.maxY = int(max(b.bottomLeft.Y, b.bottomRight.Y))
}

func (b *boundingBox) clone() *boundingBox {
	c := *b
	return &c
}

// mergeBoundingBoxes joins the left edge of one box with the right edge of
// another. A nil box yields the other unchanged.
func mergeBoundingBoxes(left, right *boundingBox) (*boundingBox, error) {
	if left == nil {
		return right, nil
	}
	if right == nil {
		return left, nil
	}
	return newBoundingBox(left.bits,
		&left.topLeft, &left.bottomLeft, &right.topRight, &right.bottomRight)
}

// addMissingRows extends one vertical edge of the box by rows whose guard
// patterns were missed, clamped to the matrix.
func (b *boundingBox) addMissingRows(missingStartRows, missingEndRows int, isLeft bool) (*boundingBox, error) {
	tl, bl, tr, br := b.topLeft, b.bottomLeft, b.topRight, b.bottomRight

	if missingStartRows > 0 {
		top := tl
		if !isLeft {
			top = tr
		}
		newMinY := int(top.Y) - missingStartRows
		if newMinY < 0 {
			newMinY = 0
		}
		top.Y = float64(newMinY)
		if isLeft {
			tl = top
		} else {
			tr = top
		}
	}

	if missingEndRows > 0 {
		bottom := bl
		if !isLeft {
			bottom = br
		}
		newMaxY := int(bottom.Y) + missingEndRows
		if newMaxY >= b.bits.Height() {
			newMaxY = b.bits.Height() - 1
		}
		bottom.Y = float64(newMaxY)
		if isLeft {
			bl = bottom
		} else {
			br = bottom
		}
	}

	return newBoundingBox(b.bits, &tl, &bl, &tr, &br)
}
