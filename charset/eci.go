// Package charset maps Extended Channel Interpretation values to character
// encodings and decodes byte segments into UTF-8 text.
package charset

import (
	"errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupportedECI indicates an ECI value outside the supported range.
var ErrUnsupportedECI = errors.New("charset: unsupported ECI value")

// ECI represents a character set Extended Channel Interpretation. A nil
// encoding means the bytes are already valid UTF-8 (or plain ASCII).
type ECI struct {
	Value int
	Name  string
	enc   encoding.Encoding
}

// Pre-defined character set ECIs.
var (
	Cp437      = &ECI{0, "Cp437", charmap.CodePage437}
	ISO8859_1  = &ECI{1, "ISO-8859-1", charmap.ISO8859_1}
	ISO8859_2  = &ECI{4, "ISO-8859-2", charmap.ISO8859_2}
	ISO8859_3  = &ECI{5, "ISO-8859-3", charmap.ISO8859_3}
	ISO8859_4  = &ECI{6, "ISO-8859-4", charmap.ISO8859_4}
	ISO8859_5  = &ECI{7, "ISO-8859-5", charmap.ISO8859_5}
	ISO8859_6  = &ECI{8, "ISO-8859-6", charmap.ISO8859_6}
	ISO8859_7  = &ECI{9, "ISO-8859-7", charmap.ISO8859_7}
	ISO8859_8  = &ECI{10, "ISO-8859-8", charmap.ISO8859_8}
	ISO8859_9  = &ECI{11, "ISO-8859-9", charmap.ISO8859_9}
	ISO8859_10 = &ECI{12, "ISO-8859-10", charmap.ISO8859_10}
	// ISO-8859-11 is decoded as its windows-874 superset.
	ISO8859_11 = &ECI{13, "ISO-8859-11", charmap.Windows874}
	ISO8859_13 = &ECI{15, "ISO-8859-13", charmap.ISO8859_13}
	ISO8859_14 = &ECI{16, "ISO-8859-14", charmap.ISO8859_14}
	ISO8859_15 = &ECI{17, "ISO-8859-15", charmap.ISO8859_15}
	ISO8859_16 = &ECI{18, "ISO-8859-16", charmap.ISO8859_16}
	ShiftJIS   = &ECI{20, "Shift_JIS", japanese.ShiftJIS}
	Cp1250     = &ECI{21, "windows-1250", charmap.Windows1250}
	Cp1251     = &ECI{22, "windows-1251", charmap.Windows1251}
	Cp1252     = &ECI{23, "windows-1252", charmap.Windows1252}
	Cp1256     = &ECI{24, "windows-1256", charmap.Windows1256}
	UTF16BE    = &ECI{25, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF8       = &ECI{26, "UTF-8", nil}
	ASCII      = &ECI{27, "US-ASCII", nil}
	Big5       = &ECI{28, "Big5", traditionalchinese.Big5}
	GB18030    = &ECI{29, "GB18030", simplifiedchinese.GB18030}
	EUCKR      = &ECI{30, "EUC-KR", korean.EUCKR}
)

// Default is the character set assumed until an ECI switches it.
var Default = ISO8859_1

var (
	valueToECI map[int]*ECI
	nameToECI  map[string]*ECI
)

func init() {
	all := []*ECI{
		Cp437, ISO8859_1, ISO8859_2, ISO8859_3, ISO8859_4, ISO8859_5,
		ISO8859_6, ISO8859_7, ISO8859_8, ISO8859_9, ISO8859_10, ISO8859_11,
		ISO8859_13, ISO8859_14, ISO8859_15, ISO8859_16, ShiftJIS, Cp1250,
		Cp1251, Cp1252, Cp1256, UTF16BE, UTF8, ASCII, Big5, GB18030, EUCKR,
	}
	valueToECI = make(map[int]*ECI, len(all)+4)
	nameToECI = make(map[string]*ECI, len(all))
	for _, eci := range all {
		valueToECI[eci.Value] = eci
		nameToECI[eci.Name] = eci
	}
	// Historic alternate assignments.
	valueToECI[2] = Cp437
	valueToECI[3] = ISO8859_1
	valueToECI[170] = ASCII
}

// ByValue returns the ECI for the given character set ECI value. Values
// outside [0, 900) or without a known assignment yield ErrUnsupportedECI.
func ByValue(value int) (*ECI, error) {
	if value < 0 || value >= 900 {
		return nil, ErrUnsupportedECI
	}
	eci, ok := valueToECI[value]
	if !ok {
		return nil, ErrUnsupportedECI
	}
	return eci, nil
}

// ByName returns the ECI registered under the given charset name, or nil.
func ByName(name string) *ECI {
	return nameToECI[name]
}

// Decode converts a byte segment in this character set to a UTF-8 string.
func (e *ECI) Decode(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if e.enc == nil {
		return string(data), nil
	}
	decoded, err := e.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
