package decoder

import (
	"fmt"
	"strings"
)

// maxNearbyDistance bounds how far (in image rows) a neighboring codeword
// may be when used as a reference for an empty cell.
const maxNearbyDistance = 5

// detectionColumn holds the codewords sampled from one barcode column,
// indexed by image row relative to the column's bounding box.
type detectionColumn struct {
	box       *boundingBox
	codewords []*codeword
}

func newDetectionColumn(box *boundingBox) *detectionColumn {
	return &detectionColumn{
		box:       box.clone(),
		codewords: make([]*codeword, box.maxY-box.minY+1),
	}
}

func (col *detectionColumn) indexForRow(imageRow int) int {
	return imageRow - col.box.minY
}

func (col *detectionColumn) setCodeword(imageRow int, cw *codeword) {
	col.codewords[col.indexForRow(imageRow)] = cw
}

func (col *detectionColumn) codewordAt(imageRow int) *codeword {
	return col.codewords[col.indexForRow(imageRow)]
}

// codewordNearby returns the codeword at the given image row, or the
// closest one within maxNearbyDistance rows above or below.
func (col *detectionColumn) codewordNearby(imageRow int) *codeword {
	if cw := col.codewordAt(imageRow); cw != nil {
		return cw
	}
	index := col.indexForRow(imageRow)
	for i := 1; i < maxNearbyDistance; i++ {
		if near := index - i; near >= 0 && col.codewords[near] != nil {
			return col.codewords[near]
		}
		if near := index + i; near < len(col.codewords) && col.codewords[near] != nil {
			return col.codewords[near]
		}
	}
	return nil
}

func (col *detectionColumn) String() string {
	var sb strings.Builder
	for row, cw := range col.codewords {
		if cw == nil {
			fmt.Fprintf(&sb, "%3d:    |   \n", row)
		} else {
			fmt.Fprintf(&sb, "%3d: %3d|%3d\n", row, cw.rowNumber, cw.value)
		}
	}
	return sb.String()
}
