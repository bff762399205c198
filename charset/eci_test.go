package charset

import "testing"

func TestByValue(t *testing.T) {
	eci, err := ByValue(26)
	if err != nil {
		t.Fatalf("ByValue(26): %v", err)
	}
	if eci != UTF8 {
		t.Errorf("ByValue(26) = %v, want UTF-8", eci.Name)
	}

	// Historic alternate assignment.
	eci, err = ByValue(3)
	if err != nil {
		t.Fatalf("ByValue(3): %v", err)
	}
	if eci != ISO8859_1 {
		t.Errorf("ByValue(3) = %v, want ISO-8859-1", eci.Name)
	}
}

func TestByValueUnsupported(t *testing.T) {
	for _, value := range []int{-1, 900, 901, 899, 100} {
		if _, err := ByValue(value); err != ErrUnsupportedECI {
			t.Errorf("ByValue(%d) err = %v, want ErrUnsupportedECI", value, err)
		}
	}
}

func TestByName(t *testing.T) {
	if ByName("UTF-8") != UTF8 {
		t.Error("ByName(UTF-8) should return the UTF-8 ECI")
	}
	if ByName("Shift_JIS") != ShiftJIS {
		t.Error("ByName(Shift_JIS) should return the Shift_JIS ECI")
	}
	if ByName("no-such-charset") != nil {
		t.Error("unknown name should return nil")
	}
}

func TestDecodeLatin1(t *testing.T) {
	got, err := ISO8859_1.Decode([]byte{0x63, 0x61, 0x66, 0xe9})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "café" {
		t.Errorf("Decode = %q, want %q", got, "café")
	}
}

func TestDecodeUTF16BE(t *testing.T) {
	got, err := UTF16BE.Decode([]byte{0x00, 0x41, 0x30, 0x42})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "Aあ" {
		t.Errorf("Decode = %q, want %q", got, "Aあ")
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := ShiftJIS.Decode(nil)
	if err != nil || got != "" {
		t.Errorf("Decode(nil) = %q, %v, want empty", got, err)
	}
}
