package decoder

import (
	"errors"
	"testing"

	"github.com/scanline/pdf417/internal"
	"github.com/scanline/pdf417/internal/render"
)

// testCodewords returns a valid codeword array (length descriptor, data,
// pads, check codewords) for EC level 2, i.e. 8 check codewords.
func testCodewords(t *testing.T) []int {
	t.Helper()
	data := []int{5, 453, 178, 121, 239, 452, 327, 657, 576, 3, 899, 11}
	codewords, rows := render.Barcode(data, 4, 2)
	if len(codewords) != rows*4 {
		t.Fatalf("barcode layout: %d codewords for %d rows", len(codewords), rows)
	}
	return codewords
}

func TestCorrectNoErrors(t *testing.T) {
	codewords := testCodewords(t)
	corrected, err := correctCodewords(codewords, 8, nil)
	if err != nil {
		t.Fatalf("correctCodewords: %v", err)
	}
	if corrected != 0 {
		t.Errorf("corrected = %d, want 0", corrected)
	}
}

func TestCorrectErrors(t *testing.T) {
	codewords := testCodewords(t)
	original := make([]int, len(codewords))
	copy(original, codewords)

	// 8 check codewords repair up to 4 errors.
	codewords[1] = 0
	codewords[4] = 888
	codewords[7] += 13
	codewords[10] = 1
	corrected, err := correctCodewords(codewords, 8, nil)
	if err != nil {
		t.Fatalf("correctCodewords: %v", err)
	}
	if corrected != 4 {
		t.Errorf("corrected = %d, want 4", corrected)
	}
	for i := range codewords {
		if codewords[i] != original[i] {
			t.Errorf("codewords[%d] = %d, want %d", i, codewords[i], original[i])
		}
	}
}

func TestCorrectTooManyErrors(t *testing.T) {
	codewords := testCodewords(t)
	for _, i := range []int{1, 3, 5, 7, 9} {
		codewords[i] = (codewords[i] + 400) % internal.NumCodewords
	}
	if _, err := correctCodewords(codewords, 8, nil); !errors.Is(err, internal.ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestCorrectErasures(t *testing.T) {
	codewords := testCodewords(t)
	original := make([]int, len(codewords))
	copy(original, codewords)

	// Erasures are recovered as ordinary errors, so half the check
	// codeword count is the limit.
	erasures := []int{2, 5, 8, 11}
	for _, e := range erasures {
		codewords[e] = 0
	}
	corrected, err := correctCodewords(codewords, 8, erasures)
	if err != nil {
		t.Fatalf("correctCodewords: %v", err)
	}
	if corrected > 4 {
		t.Errorf("corrected = %d, want at most 4", corrected)
	}
	for i := range codewords {
		if codewords[i] != original[i] {
			t.Errorf("codewords[%d] = %d, want %d", i, codewords[i], original[i])
		}
	}
}

func TestCorrectTooManyErasures(t *testing.T) {
	codewords := testCodewords(t)
	erasures := []int{1, 3, 5, 7, 9}
	for _, e := range erasures {
		codewords[e] = 0
	}
	if _, err := correctCodewords(codewords, 8, erasures); !errors.Is(err, internal.ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestCorrectErrorsErasureBound(t *testing.T) {
	codewords := testCodewords(t)
	// More claimed erasures than correction could ever repair.
	erasures := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if _, err := correctErrors(codewords, erasures, 8); !errors.Is(err, internal.ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}
