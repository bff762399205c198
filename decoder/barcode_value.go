package decoder

import "sort"

// barcodeValue accumulates votes for the value of one barcode cell.
type barcodeValue struct {
	votes map[int]int
}

func newBarcodeValue() *barcodeValue {
	return &barcodeValue{votes: make(map[int]int)}
}

func (bv *barcodeValue) setValue(value int) {
	bv.votes[value]++
}

// value returns the values with the highest vote count, sorted ascending
// so that downstream candidate enumeration is deterministic. The slice is
// empty when no votes were cast.
func (bv *barcodeValue) value() []int {
	maxVotes := -1
	var result []int
	for v, n := range bv.votes {
		if n > maxVotes {
			maxVotes = n
			result = result[:0]
			result = append(result, v)
		} else if n == maxVotes {
			result = append(result, v)
		}
	}
	sort.Ints(result)
	return result
}

func (bv *barcodeValue) confidence(value int) int {
	return bv.votes[value]
}
