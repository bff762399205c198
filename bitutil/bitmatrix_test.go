package bitutil

import "testing"

func TestBitMatrixGetSet(t *testing.T) {
	bm := NewBitMatrix(10, 10)
	bm.Set(3, 5)
	if !bm.Get(3, 5) {
		t.Error("bit (3,5) should be set")
	}
	if bm.Get(5, 3) {
		t.Error("bit (5,3) should not be set")
	}
}

func TestBitMatrixFlip(t *testing.T) {
	bm := NewBitMatrix(4, 4)
	bm.Flip(1, 2)
	if !bm.Get(1, 2) {
		t.Error("bit should be set after flip")
	}
	bm.Flip(1, 2)
	if bm.Get(1, 2) {
		t.Error("bit should be unset after double flip")
	}
}

func TestBitMatrixUnset(t *testing.T) {
	bm := NewBitMatrix(4, 4)
	bm.Set(2, 3)
	bm.Unset(2, 3)
	if bm.Get(2, 3) {
		t.Error("bit should be unset")
	}
}

func TestBitMatrixSetRegion(t *testing.T) {
	bm := NewBitMatrix(8, 8)
	bm.SetRegion(2, 2, 4, 4)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			expected := x >= 2 && x < 6 && y >= 2 && y < 6
			if bm.Get(x, y) != expected {
				t.Errorf("(%d,%d) = %v, want %v", x, y, bm.Get(x, y), expected)
			}
		}
	}
}

func TestBitMatrixRotated90(t *testing.T) {
	bm := NewBitMatrix(4, 3)
	bm.Set(3, 0) // top-right
	out := bm.Rotated(90)
	// After 90 CCW: (3,0) -> (0,0) for a 3x4 matrix
	if out.Width() != 3 || out.Height() != 4 {
		t.Errorf("dimensions after 90 rotation: %dx%d, want 3x4", out.Width(), out.Height())
	}
	if !out.Get(0, 0) {
		t.Error("(0,0) should be set after 90 rotation")
	}
	if !bm.Get(3, 0) {
		t.Error("rotation should not modify the receiver")
	}
}

func TestBitMatrixRotated180(t *testing.T) {
	bm := NewBitMatrix(4, 4)
	bm.Set(0, 0)
	out := bm.Rotated(180)
	if !out.Get(3, 3) {
		t.Error("(3,3) should be set after 180 rotation")
	}
	if out.Get(0, 0) {
		t.Error("(0,0) should be unset after 180 rotation")
	}
}

func TestBitMatrixRotatedFullCircle(t *testing.T) {
	bm := NewBitMatrix(5, 3)
	bm.Set(1, 0)
	bm.Set(4, 2)
	out := bm.Rotated(90).Rotated(270)
	if !out.Equals(bm) {
		t.Error("90 then 270 should reproduce the original")
	}
	out = bm.Rotated(180).Rotated(180)
	if !out.Equals(bm) {
		t.Error("180 twice should reproduce the original")
	}
}

func TestBitMatrixClone(t *testing.T) {
	bm := NewBitMatrix(8, 8)
	bm.Set(1, 1)
	clone := bm.Clone()
	clone.Set(2, 2)
	if bm.Get(2, 2) {
		t.Error("modifying clone should not affect original")
	}
}

func TestBitMatrixEquals(t *testing.T) {
	a := NewBitMatrix(4, 4)
	b := NewBitMatrix(4, 4)
	a.Set(1, 2)
	b.Set(1, 2)
	if !a.Equals(b) {
		t.Error("equal matrices should be equal")
	}
	b.Set(3, 3)
	if a.Equals(b) {
		t.Error("different matrices should not be equal")
	}
}

func TestParseStringMatrix(t *testing.T) {
	bm := ParseStringMatrix("X.X\n.X.\nX.X\n", "X", ".")
	if bm.Width() != 3 || bm.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", bm.Width(), bm.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			expected := (x+y)%2 == 0
			if bm.Get(x, y) != expected {
				t.Errorf("(%d,%d) = %v, want %v", x, y, bm.Get(x, y), expected)
			}
		}
	}
}
