package detector

import (
	"errors"
	"testing"

	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/internal"
	"github.com/scanline/pdf417/internal/render"
)

func testSymbol() *bitutil.BitMatrix {
	return render.Symbol(render.Text("DETECT ME"), 2, 2)
}

func TestDetectFindsSymbol(t *testing.T) {
	results, err := Detect(testSymbol(), Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one candidate")
	}
	r := results[0]
	if r.Rotation != 0 {
		t.Errorf("first candidate rotation = %d, want 0", r.Rotation)
	}
	for i, p := range r.Points {
		if p == nil {
			t.Fatalf("point %d is nil", i)
		}
	}
	if r.Points[4].X >= r.Points[6].X {
		t.Errorf("start inner edge %v should be left of stop inner edge %v",
			r.Points[4].X, r.Points[6].X)
	}
	if r.Points[0].Y >= r.Points[1].Y {
		t.Errorf("top %v should be above bottom %v", r.Points[0].Y, r.Points[1].Y)
	}
}

func TestDetectRotatedInput(t *testing.T) {
	for _, input := range []int{90, 180, 270} {
		rotated := testSymbol().Rotated(input)
		results, err := Detect(rotated, Options{})
		if err != nil {
			t.Fatalf("Detect(rotated %d): %v", input, err)
		}
		// The detection rotation must undo the input rotation.
		want := (360 - input) % 360
		found := false
		for _, r := range results {
			if r.Rotation == want {
				found = true
			}
		}
		if !found {
			t.Errorf("input rotated %d: no candidate at rotation %d", input, want)
		}
	}
}

func TestDetectCandidateOrder(t *testing.T) {
	results, err := Detect(testSymbol(), Options{Parallel: true})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Rotation <= results[i-1].Rotation {
			t.Fatalf("candidates out of priority order: %d after %d",
				results[i].Rotation, results[i-1].Rotation)
		}
	}
	if results[0].Rotation != 0 {
		t.Errorf("first candidate rotation = %d, want 0", results[0].Rotation)
	}
}

func TestDetectPureBarcode(t *testing.T) {
	results, err := Detect(testSymbol(), Options{PureBarcode: true})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if results[0].Rotation != 0 {
		t.Errorf("first candidate rotation = %d, want 0", results[0].Rotation)
	}
}

func TestDetectNothing(t *testing.T) {
	blank := bitutil.NewBitMatrix(100, 100)
	if _, err := Detect(blank, Options{}); !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
