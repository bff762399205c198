// Package render builds synthetic PDF417 symbols: high-level encoding of
// message content, check codeword generation and bar rendering onto a
// BitMatrix. It exists to exercise the decode pipeline end to end and is
// only imported from tests.
package render

import "math/big"

const (
	latchToText       = 900
	latchToBytePadded = 901
	latchToNumeric    = 902
	shiftToByte       = 913
	latchToByte       = 924
)

const (
	submodeAlpha = iota
	submodeLower
	submodeMixed
	submodePunctuation
)

// textMixedRaw and textPunctuationRaw are the sub-mode code tables,
// indexed by sub-value; zero marks unassigned entries.
var textMixedRaw = []byte{
	48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 38, 13, 9, 44, 58,
	35, 45, 46, 36, 47, 43, 37, 42, 61, 94, 0, 32, 0, 0, 0,
}

var textPunctuationRaw = []byte{
	59, 60, 62, 64, 91, 92, 93, 95, 96, 126, 33, 13, 9, 44, 58,
	10, 45, 46, 36, 47, 34, 124, 42, 40, 41, 63, 123, 125, 39, 0,
}

var (
	mixed       [128]int
	punctuation [128]int
)

func init() {
	for i := range mixed {
		mixed[i] = -1
	}
	for i, b := range textMixedRaw {
		if b > 0 {
			mixed[b] = i
		}
	}
	for i := range punctuation {
		punctuation[i] = -1
	}
	for i, b := range textPunctuationRaw {
		if b > 0 {
			punctuation[b] = i
		}
	}
}

func isAlphaUpper(ch byte) bool {
	return ch == ' ' || (ch >= 'A' && ch <= 'Z')
}

func isAlphaLower(ch byte) bool {
	return ch == ' ' || (ch >= 'a' && ch <= 'z')
}

func isMixed(ch byte) bool {
	return mixed[ch] != -1
}

func isPunctuation(ch byte) bool {
	return punctuation[ch] != -1
}

// Text encodes an ASCII message in text compaction, assuming the decoder
// starts in the Alpha sub-mode. Sub-values are paired into codewords
// base-30; an odd trailing sub-value is padded with a punct shift.
func Text(msg string) []int {
	var subValues []int
	submode := submodeAlpha
	for i := 0; i < len(msg); {
		ch := msg[i]
		switch submode {
		case submodeAlpha:
			switch {
			case isAlphaUpper(ch):
				if ch == ' ' {
					subValues = append(subValues, 26)
				} else {
					subValues = append(subValues, int(ch-'A'))
				}
			case isAlphaLower(ch):
				submode = submodeLower
				subValues = append(subValues, 27)
				continue
			case isMixed(ch):
				submode = submodeMixed
				subValues = append(subValues, 28)
				continue
			default:
				subValues = append(subValues, 29, punctuation[ch])
			}
		case submodeLower:
			switch {
			case isAlphaLower(ch):
				if ch == ' ' {
					subValues = append(subValues, 26)
				} else {
					subValues = append(subValues, int(ch-'a'))
				}
			case isAlphaUpper(ch):
				// Alpha shift for a single uppercase character.
				subValues = append(subValues, 27, int(ch-'A'))
			case isMixed(ch):
				submode = submodeMixed
				subValues = append(subValues, 28)
				continue
			default:
				subValues = append(subValues, 29, punctuation[ch])
			}
		case submodeMixed:
			switch {
			case isMixed(ch):
				subValues = append(subValues, mixed[ch])
			case isAlphaUpper(ch):
				submode = submodeAlpha
				subValues = append(subValues, 28)
				continue
			case isAlphaLower(ch):
				submode = submodeLower
				subValues = append(subValues, 27)
				continue
			default:
				if i+1 < len(msg) && isPunctuation(msg[i+1]) {
					submode = submodePunctuation
					subValues = append(subValues, 25)
					continue
				}
				subValues = append(subValues, 29, punctuation[ch])
			}
		default:
			if isPunctuation(ch) {
				subValues = append(subValues, punctuation[ch])
			} else {
				submode = submodeAlpha
				subValues = append(subValues, 29)
				continue
			}
		}
		i++
	}

	var codewords []int
	for i := 0; i+1 < len(subValues); i += 2 {
		codewords = append(codewords, subValues[i]*30+subValues[i+1])
	}
	if len(subValues)%2 != 0 {
		codewords = append(codewords, subValues[len(subValues)-1]*30+29)
	}
	return codewords
}

// Numeric encodes a digit string: the numeric latch followed by runs of
// up to 44 digits, each prefixed with a synthetic 1 and converted to
// base 900.
func Numeric(digits string) []int {
	codewords := []int{latchToNumeric}
	num900 := big.NewInt(900)
	zero := big.NewInt(0)
	for idx := 0; idx < len(digits); {
		length := 44
		if len(digits)-idx < length {
			length = len(digits) - idx
		}
		value := new(big.Int)
		value.SetString("1"+digits[idx:idx+length], 10)

		var chunk []int
		mod := new(big.Int)
		for {
			value.DivMod(value, num900, mod)
			chunk = append(chunk, int(mod.Int64()))
			if value.Cmp(zero) == 0 {
				break
			}
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			codewords = append(codewords, chunk[i])
		}
		idx += length
	}
	return codewords
}

// Bytes encodes arbitrary bytes: groups of 6 become 5 base-900
// codewords; a trailing partial group is emitted as raw byte values. A
// single byte uses the byte shift instead of a latch.
func Bytes(data []byte) []int {
	if len(data) == 1 {
		return []int{shiftToByte, int(data[0])}
	}
	var codewords []int
	if len(data)%6 == 0 {
		codewords = append(codewords, latchToByte)
	} else {
		codewords = append(codewords, latchToBytePadded)
	}
	idx := 0
	for len(data)-idx >= 6 {
		var t int64
		for i := 0; i < 6; i++ {
			t = t<<8 + int64(data[idx+i])
		}
		var chunk [5]int
		for i := 0; i < 5; i++ {
			chunk[i] = int(t % 900)
			t /= 900
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			codewords = append(codewords, chunk[i])
		}
		idx += 6
	}
	for ; idx < len(data); idx++ {
		codewords = append(codewords, int(data[idx]))
	}
	return codewords
}
