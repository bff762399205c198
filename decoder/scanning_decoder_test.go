package decoder

import (
	"errors"
	"testing"

	"github.com/scanline/pdf417/internal"
	"github.com/scanline/pdf417/internal/render"
)

func TestNumECCodewords(t *testing.T) {
	want := []int{2, 4, 8, 16, 32, 64, 128, 256, 512}
	for level, n := range want {
		if got := numECCodewords(level); got != n {
			t.Errorf("level %d: numECCodewords = %d, want %d", level, got, n)
		}
	}
	// The cap keeps an out-of-range level from overrunning the array.
	if got := numECCodewords(10); got != maxECCodewords {
		t.Errorf("level 10: numECCodewords = %d, want %d", got, maxECCodewords)
	}
}

func TestVerifyCodewordCount(t *testing.T) {
	codewords := []int{4, 1, 2, 3}
	if err := verifyCodewordCount(codewords, 2); err != nil {
		t.Errorf("valid count rejected: %v", err)
	}

	if err := verifyCodewordCount([]int{9, 1, 2, 3}, 2); !errors.Is(err, internal.ErrFormat) {
		t.Errorf("declared count beyond length: err = %v, want ErrFormat", err)
	}

	// A zero declared count is repaired from the actual length.
	repaired := []int{0, 1, 2, 3, 4, 5}
	if err := verifyCodewordCount(repaired, 2); err != nil {
		t.Fatalf("verifyCodewordCount: %v", err)
	}
	if repaired[0] != 4 {
		t.Errorf("repaired count = %d, want 4", repaired[0])
	}

	if err := verifyCodewordCount([]int{0, 1, 2, 3}, 4); !errors.Is(err, internal.ErrFormat) {
		t.Errorf("unrepairable zero count: err = %v, want ErrFormat", err)
	}
}

func TestDecodeCodewordsTooShort(t *testing.T) {
	_, err := decodeCodewords([]int{2, 1, 0}, 0, nil, nil)
	if !errors.Is(err, internal.ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestDecodeCodewordsRoundTrip(t *testing.T) {
	codewords, _ := render.Barcode(render.Text("SCAN TEST"), 3, 1)
	dr, err := decodeCodewords(codewords, 1, nil, nil)
	if err != nil {
		t.Fatalf("decodeCodewords: %v", err)
	}
	if dr.Text != "SCAN TEST" {
		t.Errorf("Text = %q, want %q", dr.Text, "SCAN TEST")
	}
	if dr.ErrorsCorrected != 0 || dr.Erasures != 0 {
		t.Errorf("clean array reported %d errors, %d erasures",
			dr.ErrorsCorrected, dr.Erasures)
	}
	if dr.ECLevel != 1 {
		t.Errorf("ECLevel = %d, want 1", dr.ECLevel)
	}
}

func TestDecodeCodewordsCorrupted(t *testing.T) {
	codewords, _ := render.Barcode(render.Text("SCAN TEST"), 3, 2)
	codewords[2] = (codewords[2] + 17) % internal.NumCodewords
	codewords[5] = (codewords[5] + 400) % internal.NumCodewords
	dr, err := decodeCodewords(codewords, 2, nil, nil)
	if err != nil {
		t.Fatalf("decodeCodewords: %v", err)
	}
	if dr.Text != "SCAN TEST" {
		t.Errorf("Text = %q, want %q", dr.Text, "SCAN TEST")
	}
	if dr.ErrorsCorrected != 2 {
		t.Errorf("ErrorsCorrected = %d, want 2", dr.ErrorsCorrected)
	}
}

func TestResolveAmbiguousValues(t *testing.T) {
	codewords, _ := render.Barcode(render.Text("AMBIGUOUS"), 3, 1)
	index := 4
	correct := codewords[index]
	wrong := (correct + 1) % internal.NumCodewords

	// Two erased cells saturate the correction capacity of the 4 check
	// codewords: only the combination picking the correct candidate can
	// pass the checksum.
	erasures := []int{6, 7}
	for _, e := range erasures {
		codewords[e] = 0
	}

	dr, err := resolveAmbiguousValues(1, codewords, erasures,
		[]int{index}, [][]int{{wrong, correct}}, nil)
	if err != nil {
		t.Fatalf("resolveAmbiguousValues: %v", err)
	}
	if dr.Text != "AMBIGUOUS" {
		t.Errorf("Text = %q, want %q", dr.Text, "AMBIGUOUS")
	}
	if codewords[index] != correct {
		t.Errorf("ambiguous cell resolved to %d, want %d", codewords[index], correct)
	}
}

func TestCheckCodewordSkew(t *testing.T) {
	if !checkCodewordSkew(34, 34, 34) {
		t.Error("exact width should pass")
	}
	if !checkCodewordSkew(32, 34, 34) || !checkCodewordSkew(36, 34, 34) {
		t.Error("widths within the skew tolerance should pass")
	}
	if checkCodewordSkew(31, 34, 34) || checkCodewordSkew(37, 34, 34) {
		t.Error("widths beyond the skew tolerance should fail")
	}
}
