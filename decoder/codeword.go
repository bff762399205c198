package decoder

import "fmt"

// rowUnknown marks a codeword whose symbol row has not been established.
const rowUnknown = -1

// codeword is one successfully sampled codeword: its horizontal pixel
// extent, cluster bucket (0, 3 or 6), decoded value and, once known, the
// symbol row it belongs to.
type codeword struct {
	startX    int
	endX      int
	bucket    int
	value     int
	rowNumber int
}

func newCodeword(startX, endX, bucket, value int) *codeword {
	return &codeword{
		startX:    startX,
		endX:      endX,
		bucket:    bucket,
		value:     value,
		rowNumber: rowUnknown,
	}
}

func (c *codeword) width() int {
	return c.endX - c.startX
}

// hasValidRowNumber reports whether the assigned row number is consistent
// with the cluster bucket. Row r uses cluster (r mod 3) * 3.
func (c *codeword) hasValidRowNumber() bool {
	return c.isValidRowNumber(c.rowNumber)
}

func (c *codeword) isValidRowNumber(rowNumber int) bool {
	return rowNumber != rowUnknown && c.bucket == (rowNumber%3)*3
}

// setRowNumberAsRowIndicatorColumn derives the row number from an
// indicator codeword: the value's high part counts row triples, the bucket
// selects the row within the triple.
func (c *codeword) setRowNumberAsRowIndicatorColumn() {
	c.rowNumber = (c.value/30)*3 + c.bucket/3
}

func (c *codeword) String() string {
	return fmt.Sprintf("%d|%d", c.rowNumber, c.value)
}
