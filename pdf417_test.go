package pdf417

import (
	"errors"
	"testing"

	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/charset"
	"github.com/scanline/pdf417/internal/render"
)

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		msg     string
		columns int
		ecLevel int
	}{
		{"HELLO WORLD", 2, 2},
		{"Hello, World!", 3, 1},
		{"PDF417 Symbol With a Somewhat Longer Payload 0123456789", 5, 3},
		{"x", 1, 0},
	}
	for _, tt := range tests {
		bm := render.Symbol(render.Text(tt.msg), tt.columns, tt.ecLevel)
		result, err := Decode(bm, nil)
		if err != nil {
			t.Errorf("%q: %v", tt.msg, err)
			continue
		}
		if result.Text != tt.msg {
			t.Errorf("decoded %q, want %q", result.Text, tt.msg)
		}
		if result.ECLevel != tt.ecLevel {
			t.Errorf("%q: ECLevel = %d, want %d", tt.msg, result.ECLevel, tt.ecLevel)
		}
		if result.ErrorsCorrected != 0 || result.ErasuresCorrected != 0 {
			t.Errorf("%q: clean symbol reported %d errors, %d erasures",
				tt.msg, result.ErrorsCorrected, result.ErasuresCorrected)
		}
		if result.Orientation != 0 {
			t.Errorf("%q: Orientation = %d, want 0", tt.msg, result.Orientation)
		}
		if result.SymbologyIdentifier != "]L0" {
			t.Errorf("%q: SymbologyIdentifier = %q, want %q",
				tt.msg, result.SymbologyIdentifier, "]L0")
		}
	}
}

func TestDecodeNumericSymbol(t *testing.T) {
	digits := "9780201733860042"
	bm := render.Symbol(render.Numeric(digits), 3, 2)
	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != digits {
		t.Errorf("decoded %q, want %q", result.Text, digits)
	}
}

func TestDecodePoints(t *testing.T) {
	bm := render.Symbol(render.Text("CORNERS"), 2, 1)
	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, p := range result.Points {
		if p == nil {
			t.Fatalf("point %d is nil", i)
		}
		if p.X < 0 || p.X >= float64(bm.Width()) || p.Y < 0 || p.Y >= float64(bm.Height()) {
			t.Errorf("point %d = %v outside the matrix", i, *p)
		}
	}
	// The symbol is rendered with a 6-module quiet zone at 2 pixels per
	// module, so the start guard begins at (12, 12).
	if result.Points[0].X != 12 || result.Points[0].Y != 12 {
		t.Errorf("outer start corner = %v, want (12, 12)", *result.Points[0])
	}
	if result.Points[4].X <= result.Points[0].X {
		t.Error("inner start corner should be right of the outer one")
	}
}

func TestDecodeRotations(t *testing.T) {
	msg := "ROTATION INVARIANT"
	original := render.Symbol(render.Text(msg), 3, 2)
	for _, rotation := range []int{0, 90, 180, 270} {
		input := original.Rotated(rotation)
		result, err := Decode(input, nil)
		if err != nil {
			t.Errorf("rotation %d: %v", rotation, err)
			continue
		}
		if result.Text != msg {
			t.Errorf("rotation %d: decoded %q, want %q", rotation, result.Text, msg)
		}
		want := (360 - rotation) % 360
		if result.Orientation != want {
			t.Errorf("rotation %d: Orientation = %d, want %d", rotation, result.Orientation, want)
		}
		// Points are reported in the input matrix's coordinates.
		for i, p := range result.Points {
			if p == nil {
				t.Fatalf("rotation %d: point %d is nil", rotation, i)
			}
			if p.X < 0 || p.X >= float64(input.Width()) || p.Y < 0 || p.Y >= float64(input.Height()) {
				t.Errorf("rotation %d: point %d = %v outside the matrix", rotation, i, *p)
			}
		}
	}
}

func TestDecodeParallelMatchesSequential(t *testing.T) {
	msg := "PARALLEL DETERMINISM"
	bm := render.Symbol(render.Text(msg), 3, 2)
	sequential, err := Decode(bm, &DecodeOptions{TryHarder: true})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	for i := 0; i < 10; i++ {
		parallel, err := Decode(bm, &DecodeOptions{Parallel: true})
		if err != nil {
			t.Fatalf("parallel: %v", err)
		}
		if parallel.Text != sequential.Text ||
			parallel.Orientation != sequential.Orientation {
			t.Fatalf("parallel result diverged: %q/%d vs %q/%d",
				parallel.Text, parallel.Orientation,
				sequential.Text, sequential.Orientation)
		}
	}
}

func TestDecodePureBarcode(t *testing.T) {
	bm := render.Symbol(render.Text("PURE"), 2, 1)
	result, err := Decode(bm, &DecodeOptions{PureBarcode: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != "PURE" {
		t.Errorf("decoded %q, want %q", result.Text, "PURE")
	}
}

func TestDecodeErasedCells(t *testing.T) {
	msg := "ERASURE TEST DATA"
	codewords, rows := render.Barcode(render.Text(msg), 3, 2)
	bm := render.Bitmap(codewords, 3, rows, 2, 2, 4, 6)

	// Whiting out a cell leaves no decodable codeword there; the cell
	// comes back as an erasure and error correction fills it in.
	for _, cell := range [][2]int{{1, 0}, {2, 1}} {
		x, y, w, h := render.CellBounds(cell[0], cell[1], 2, 4, 6)
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				bm.Unset(x+dx, y+dy)
			}
		}
	}

	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != msg {
		t.Errorf("decoded %q, want %q", result.Text, msg)
	}
	if result.ErasuresCorrected == 0 {
		t.Error("expected erased cells to be reported")
	}
}

func TestDecodeMacroSymbol(t *testing.T) {
	data := render.Text("DATA")
	data = append(data, 928, 0, 13, 5, 922)
	bm := render.Symbol(data, 3, 1)

	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != "DATA" {
		t.Errorf("Text = %q, want %q", result.Text, "DATA")
	}
	if result.Macro == nil {
		t.Fatal("Macro is nil")
	}
	if result.Macro.SegmentIndex != 3 {
		t.Errorf("SegmentIndex = %d, want 3", result.Macro.SegmentIndex)
	}
	if result.Macro.FileID != "005" {
		t.Errorf("FileID = %q, want %q", result.Macro.FileID, "005")
	}
	if !result.Macro.LastSegment {
		t.Error("LastSegment should be true")
	}
	if result.SymbologyIdentifier != "]L5" {
		t.Errorf("SymbologyIdentifier = %q, want %q", result.SymbologyIdentifier, "]L5")
	}
}

func TestDecodeECISymbol(t *testing.T) {
	msg := "héllo"
	data := append([]int{927, charset.UTF8.Value}, render.Bytes([]byte(msg))...)
	bm := render.Symbol(data, 3, 1)

	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != msg {
		t.Errorf("Text = %q, want %q", result.Text, msg)
	}
	if result.SymbologyIdentifier != "]L1" {
		t.Errorf("SymbologyIdentifier = %q, want %q", result.SymbologyIdentifier, "]L1")
	}
}

func TestDecodeCharacterSetOption(t *testing.T) {
	// 0xf9 is ù in the default ISO-8859-1 but ω in ISO-8859-7.
	bm := render.Symbol(render.Bytes([]byte{0xf9}), 2, 1)
	result, err := Decode(bm, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != "ù" {
		t.Errorf("default charset decoded %q, want %q", result.Text, "ù")
	}
	result, err = Decode(bm, &DecodeOptions{CharacterSet: "ISO-8859-7"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Text != "ω" {
		t.Errorf("ISO-8859-7 decoded %q, want %q", result.Text, "ω")
	}
}

func TestDecodeUnknownCharacterSet(t *testing.T) {
	bm := render.Symbol(render.Text("A"), 2, 0)
	_, err := Decode(bm, &DecodeOptions{CharacterSet: "KOI8-R"})
	if !errors.Is(err, charset.ErrUnsupportedECI) {
		t.Errorf("err = %v, want ErrUnsupportedECI", err)
	}
}

func TestDecodeNotFound(t *testing.T) {
	blank := bitutil.NewBitMatrix(200, 200)
	if _, err := Decode(blank, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := Decode(blank, &DecodeOptions{TryHarder: true, Parallel: true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func BenchmarkDecode(b *testing.B) {
	bm := render.Symbol(render.Text("BENCHMARK PAYLOAD 0123456789"), 4, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(bm, nil); err != nil {
			b.Fatal(err)
		}
	}
}
