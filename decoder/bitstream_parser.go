package decoder

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/scanline/pdf417/charset"
	"github.com/scanline/pdf417/internal"
)

// Mode latch and shift codewords.
const (
	textCompactionModeLatch    = 900
	byteCompactionModeLatch    = 901
	numericCompactionModeLatch = 902
	modeShiftToByteCompaction  = 913
	macroTerminator            = 922
	macroOptionalField         = 923
	byteCompactionModeLatch6   = 924
	eciUserDefined             = 925
	eciGeneralPurpose          = 926
	eciCharset                 = 927
	beginMacroControlBlock     = 928

	maxNumericCodewords    = 15
	macroSequenceCodewords = 2

	macroFieldFileName     = 0
	macroFieldSegmentCount = 1
	macroFieldTimestamp    = 2
	macroFieldSender       = 3
	macroFieldAddressee    = 4
	macroFieldFileSize     = 5
	macroFieldChecksum     = 6
)

// Sub-value codes that switch text sub-modes.
const (
	latchPunct = 25 // from Mixed
	latchLower = 27 // from Alpha
	shiftAlpha = 27 // from Lower
	latchMixed = 28 // from Alpha and Lower
	latchAlpha = 28 // from Mixed
	shiftPunct = 29 // from Alpha, Lower and Mixed
	punctAlpha = 29 // from Punct
)

var (
	punctChars = []byte(";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'")
	mixedChars = []byte("0123456789&\r\t,:#-.$/+%*=^")
)

// exp900 holds the powers of 900 used by numeric compaction.
var exp900 [16]*big.Int

func init() {
	exp900[0] = big.NewInt(1)
	exp900[1] = big.NewInt(900)
	for i := 2; i < len(exp900); i++ {
		exp900[i] = new(big.Int).Mul(exp900[i-1], exp900[1])
	}
}

// Text compaction sub-modes. The first four are persistent; the shift
// modes apply to exactly one sub-value and then revert.
type textSubMode int

const (
	subModeAlpha textSubMode = iota
	subModeLower
	subModeMixed
	subModePunct
	subModeAlphaShift
	subModePunctShift
)

// textOp is a sub-mode transition triggered by a sub-value.
type textOp int8

const (
	opNone textOp = iota
	opLatchAlpha
	opLatchLower
	opLatchMixed
	opLatchPunct
	opShiftAlpha
	opShiftPunct
)

// textCell is one entry of the transition table: either a character to
// emit or a sub-mode transition.
type textCell struct {
	ch byte
	op textOp
}

// textTransitions maps (sub-mode, sub-value 0..29) to the action taken.
var textTransitions [6][30]textCell

func init() {
	for i := 0; i < 26; i++ {
		textTransitions[subModeAlpha][i] = textCell{ch: byte('A' + i)}
		textTransitions[subModeLower][i] = textCell{ch: byte('a' + i)}
		textTransitions[subModeAlphaShift][i] = textCell{ch: byte('A' + i)}
	}
	textTransitions[subModeAlpha][26] = textCell{ch: ' '}
	textTransitions[subModeAlpha][latchLower] = textCell{op: opLatchLower}
	textTransitions[subModeAlpha][latchMixed] = textCell{op: opLatchMixed}
	textTransitions[subModeAlpha][shiftPunct] = textCell{op: opShiftPunct}

	textTransitions[subModeLower][26] = textCell{ch: ' '}
	textTransitions[subModeLower][shiftAlpha] = textCell{op: opShiftAlpha}
	textTransitions[subModeLower][latchMixed] = textCell{op: opLatchMixed}
	textTransitions[subModeLower][shiftPunct] = textCell{op: opShiftPunct}

	for i, ch := range mixedChars {
		textTransitions[subModeMixed][i] = textCell{ch: ch}
	}
	textTransitions[subModeMixed][latchPunct] = textCell{op: opLatchPunct}
	textTransitions[subModeMixed][26] = textCell{ch: ' '}
	textTransitions[subModeMixed][latchLower] = textCell{op: opLatchLower}
	textTransitions[subModeMixed][latchAlpha] = textCell{op: opLatchAlpha}
	textTransitions[subModeMixed][shiftPunct] = textCell{op: opShiftPunct}

	for i, ch := range punctChars {
		textTransitions[subModePunct][i] = textCell{ch: ch}
		textTransitions[subModePunctShift][i] = textCell{ch: ch}
	}
	textTransitions[subModePunct][punctAlpha] = textCell{op: opLatchAlpha}
	textTransitions[subModePunctShift][punctAlpha] = textCell{op: opLatchAlpha}

	textTransitions[subModeAlphaShift][26] = textCell{ch: ' '}
}

// eciSegment is a run of output bytes decoded under one character set.
type eciSegment struct {
	eci  *charset.ECI
	data []byte
}

// segmentWriter accumulates output bytes tagged with the character set
// active when they were produced; conversion to UTF-8 happens once at the
// end of parsing.
type segmentWriter struct {
	segments []eciSegment
	eciUsed  bool
}

func newSegmentWriter(initial *charset.ECI) *segmentWriter {
	return &segmentWriter{segments: []eciSegment{{eci: initial}}}
}

func (w *segmentWriter) writeByte(b byte) {
	last := &w.segments[len(w.segments)-1]
	last.data = append(last.data, b)
}

func (w *segmentWriter) writeString(s string) {
	last := &w.segments[len(w.segments)-1]
	last.data = append(last.data, s...)
}

func (w *segmentWriter) switchCharset(eci *charset.ECI) {
	w.eciUsed = true
	w.segments = append(w.segments, eciSegment{eci: eci})
}

func (w *segmentWriter) markECI() {
	w.eciUsed = true
}

func (w *segmentWriter) size() int {
	n := 0
	for _, s := range w.segments {
		n += len(s.data)
	}
	return n
}

func (w *segmentWriter) bytes() []byte {
	out := make([]byte, 0, w.size())
	for _, s := range w.segments {
		out = append(out, s.data...)
	}
	return out
}

func (w *segmentWriter) text() (string, error) {
	var sb strings.Builder
	for _, s := range w.segments {
		decoded, err := s.eci.Decode(s.data)
		if err != nil {
			return "", internal.ErrParse
		}
		sb.WriteString(decoded)
	}
	return sb.String(), nil
}

// decodeBitStream interprets the corrected codeword array. codewords[0]
// is the declared count; parsing starts at codewords[1] in text
// compaction. characterSet, when non-nil, replaces the default initial
// charset.
func decodeBitStream(codewords []int, characterSet *charset.ECI) (*internal.DecoderResult, error) {
	if characterSet == nil {
		characterSet = charset.Default
	}
	w := newSegmentWriter(characterSet)

	codeIndex, err := textCompaction(codewords, 1, w)
	if err != nil {
		return nil, err
	}
	var macro *internal.MacroMetadata
	for codeIndex < codewords[0] {
		code := codewords[codeIndex]
		codeIndex++
		switch code {
		case textCompactionModeLatch:
			codeIndex, err = textCompaction(codewords, codeIndex, w)
		case byteCompactionModeLatch, byteCompactionModeLatch6:
			codeIndex, err = byteCompaction(code, codewords, codeIndex, w)
		case modeShiftToByteCompaction:
			if codeIndex >= codewords[0] {
				return nil, internal.ErrFormat
			}
			w.writeByte(byte(codewords[codeIndex]))
			codeIndex++
		case numericCompactionModeLatch:
			codeIndex, err = numericCompaction(codewords, codeIndex, w)
		case eciCharset:
			if codeIndex >= codewords[0] {
				return nil, internal.ErrFormat
			}
			eci, eciErr := charset.ByValue(codewords[codeIndex])
			if eciErr != nil {
				return nil, internal.ErrParse
			}
			w.switchCharset(eci)
			codeIndex++
		case eciGeneralPurpose:
			w.markECI()
			codeIndex += 2
		case eciUserDefined:
			w.markECI()
			codeIndex++
		case beginMacroControlBlock:
			macro = &internal.MacroMetadata{}
			codeIndex, err = decodeMacroBlock(codewords, codeIndex, macro)
		case macroOptionalField, macroTerminator:
			// Macro control codewords outside a macro block.
			return nil, internal.ErrFormat
		default:
			if code > textCompactionModeLatch {
				// Reserved mode value.
				return nil, internal.ErrParse
			}
			// Some symbols omit the initial text latch; re-enter text
			// compaction at this codeword.
			codeIndex--
			codeIndex, err = textCompaction(codewords, codeIndex, w)
		}
		if err != nil {
			return nil, err
		}
	}
	if w.size() == 0 && macro == nil {
		return nil, internal.ErrFormat
	}
	text, err := w.text()
	if err != nil {
		return nil, err
	}
	return &internal.DecoderResult{
		Text:     text,
		RawBytes: w.bytes(),
		ECIUsed:  w.eciUsed,
		Macro:    macro,
	}, nil
}

// textCompaction consumes text-compaction codewords, splitting each into
// its two base-30 sub-values, until a non-text mode latch is reached. An
// embedded charset ECI flushes the collected sub-values and switches the
// writer's charset.
func textCompaction(codewords []int, codeIndex int, w *segmentWriter) (int, error) {
	size := (codewords[0] - codeIndex) * 2
	if size < 0 {
		size = 0
	}
	textData := make([]int, size)
	byteData := make([]int, size)

	index := 0
	end := false
	subMode := subModeAlpha
	for codeIndex < codewords[0] && !end {
		code := codewords[codeIndex]
		codeIndex++
		if code < textCompactionModeLatch {
			textData[index] = code / 30
			textData[index+1] = code % 30
			index += 2
			continue
		}
		switch code {
		case textCompactionModeLatch:
			textData[index] = textCompactionModeLatch
			index++
		case byteCompactionModeLatch, byteCompactionModeLatch6,
			numericCompactionModeLatch, beginMacroControlBlock,
			macroOptionalField, macroTerminator,
			eciUserDefined, eciGeneralPurpose:
			codeIndex--
			end = true
		case modeShiftToByteCompaction:
			if codeIndex >= len(codewords) {
				return 0, internal.ErrFormat
			}
			textData[index] = modeShiftToByteCompaction
			byteData[index] = codewords[codeIndex]
			codeIndex++
			index++
		case eciCharset:
			subMode = decodeTextData(textData, byteData, index, w, subMode)
			if codeIndex >= codewords[0] {
				return 0, internal.ErrFormat
			}
			eci, err := charset.ByValue(codewords[codeIndex])
			if err != nil {
				return 0, internal.ErrParse
			}
			w.switchCharset(eci)
			codeIndex++
			size = (codewords[0] - codeIndex) * 2
			if size < 0 {
				size = 0
			}
			textData = make([]int, size)
			byteData = make([]int, size)
			index = 0
		default:
			// Reserved mode value.
			return 0, internal.ErrParse
		}
	}
	decodeTextData(textData, byteData, index, w, subMode)
	return codeIndex, nil
}

// decodeTextData runs the sub-mode machine over collected sub-values and
// returns the persistent sub-mode left latched at the end. Values 900 and
// 913 are markers spliced in at the codeword level: an inline Alpha
// re-latch and a shifted raw byte (in byteData) respectively.
func decodeTextData(textData, byteData []int, length int, w *segmentWriter, startMode textSubMode) textSubMode {
	subMode := startMode
	priorToShift := startMode
	latched := startMode
	for i := 0; i < length; i++ {
		v := textData[i]
		wasShift := subMode == subModeAlphaShift || subMode == subModePunctShift

		if v >= 30 {
			inAlphaShift := subMode == subModeAlphaShift
			if wasShift {
				subMode = priorToShift
			}
			switch v {
			case textCompactionModeLatch:
				subMode = subModeAlpha
				if !wasShift {
					latched = subModeAlpha
				}
			case modeShiftToByteCompaction:
				// An Alpha shift swallows the shifted byte.
				if !inAlphaShift {
					w.writeByte(byte(byteData[i]))
				}
			}
			continue
		}

		cell := textTransitions[subMode][v]
		if wasShift {
			subMode = priorToShift
		}
		switch {
		case cell.ch != 0:
			w.writeByte(cell.ch)
		case cell.op == opLatchAlpha:
			subMode = subModeAlpha
			if !wasShift {
				latched = subModeAlpha
			}
		case cell.op == opLatchLower:
			subMode = subModeLower
			latched = subModeLower
		case cell.op == opLatchMixed:
			subMode = subModeMixed
			latched = subModeMixed
		case cell.op == opLatchPunct:
			subMode = subModePunct
			latched = subModePunct
		case cell.op == opShiftAlpha:
			priorToShift = subMode
			subMode = subModeAlphaShift
		case cell.op == opShiftPunct:
			priorToShift = subMode
			subMode = subModePunctShift
		}
	}
	return latched
}

// byteCompaction handles modes 901 (5 codewords to 6 bytes) and 924
// (direct). A trailing group of fewer than 5 codewords under 901 is
// emitted as raw byte values.
func byteCompaction(mode int, codewords []int, codeIndex int, w *segmentWriter) (int, error) {
	end := false
	for codeIndex < codewords[0] && !end {
		// Charset switches may appear between groups.
		for codeIndex < codewords[0] && codewords[codeIndex] == eciCharset {
			codeIndex++
			if codeIndex >= codewords[0] {
				return 0, internal.ErrFormat
			}
			eci, err := charset.ByValue(codewords[codeIndex])
			if err != nil {
				return 0, internal.ErrParse
			}
			w.switchCharset(eci)
			codeIndex++
		}

		if codeIndex >= codewords[0] || codewords[codeIndex] >= textCompactionModeLatch {
			end = true
			continue
		}
		var value int64
		count := 0
		for {
			value = 900*value + int64(codewords[codeIndex])
			codeIndex++
			count++
			if count >= 5 || codeIndex >= codewords[0] || codewords[codeIndex] >= textCompactionModeLatch {
				break
			}
		}
		if count == 5 && (mode == byteCompactionModeLatch6 ||
			(codeIndex < codewords[0] && codewords[codeIndex] < textCompactionModeLatch)) {
			for i := 0; i < 6; i++ {
				w.writeByte(byte(value >> uint(8*(5-i))))
			}
		} else {
			// Trailing partial group: raw byte values.
			codeIndex -= count
			for codeIndex < codewords[0] && !end {
				code := codewords[codeIndex]
				codeIndex++
				if code < textCompactionModeLatch {
					w.writeByte(byte(code))
				} else if code == eciCharset {
					if codeIndex >= codewords[0] {
						return 0, internal.ErrFormat
					}
					eci, err := charset.ByValue(codewords[codeIndex])
					if err != nil {
						return 0, internal.ErrParse
					}
					w.switchCharset(eci)
					codeIndex++
				} else {
					codeIndex--
					end = true
				}
			}
		}
	}
	return codeIndex, nil
}

// numericCompaction consumes runs of up to 15 codewords, each run a
// base-900 integer with a synthetic leading digit.
func numericCompaction(codewords []int, codeIndex int, w *segmentWriter) (int, error) {
	count := 0
	end := false
	numericCodewords := make([]int, maxNumericCodewords)

	for codeIndex < codewords[0] && !end {
		code := codewords[codeIndex]
		codeIndex++
		if codeIndex == codewords[0] {
			end = true
		}
		if code < textCompactionModeLatch {
			numericCodewords[count] = code
			count++
		} else {
			switch code {
			case textCompactionModeLatch, byteCompactionModeLatch,
				byteCompactionModeLatch6, beginMacroControlBlock,
				macroOptionalField, macroTerminator, eciCharset:
				codeIndex--
				end = true
			}
		}
		if (count%maxNumericCodewords == 0 || code == numericCompactionModeLatch || end) && count > 0 {
			s, err := decodeBase900toBase10(numericCodewords, count)
			if err != nil {
				return 0, err
			}
			w.writeString(s)
			count = 0
		}
	}
	return codeIndex, nil
}

// decodeBase900toBase10 converts a numeric compaction run to its decimal
// digits, stripping the synthetic leading 1.
func decodeBase900toBase10(codewords []int, count int) (string, error) {
	result := new(big.Int)
	for i := 0; i < count; i++ {
		term := new(big.Int).Mul(exp900[count-i-1], big.NewInt(int64(codewords[i])))
		result.Add(result, term)
	}
	resultString := result.String()
	if len(resultString) == 0 || resultString[0] != '1' {
		return "", internal.ErrFormat
	}
	return resultString[1:], nil
}

// decodeMacroBlock reads a Macro PDF417 control block: the two-codeword
// segment index, the file ID, then optional fields introduced by 923
// until the 922 terminator or the end of the data.
func decodeMacroBlock(codewords []int, codeIndex int, macro *internal.MacroMetadata) (int, error) {
	if codeIndex+macroSequenceCodewords > codewords[0] {
		return 0, internal.ErrFormat
	}
	segmentIndexCodewords := make([]int, macroSequenceCodewords)
	for i := 0; i < macroSequenceCodewords; i++ {
		segmentIndexCodewords[i] = codewords[codeIndex]
		codeIndex++
	}
	segmentIndexString, err := decodeBase900toBase10(segmentIndexCodewords, macroSequenceCodewords)
	if err != nil {
		return 0, err
	}
	if segmentIndexString == "" {
		macro.SegmentIndex = 0
	} else {
		segmentIndex, err := strconv.Atoi(segmentIndexString)
		if err != nil {
			return 0, internal.ErrFormat
		}
		macro.SegmentIndex = segmentIndex
	}

	// The file ID is a run of codewords, each rendered as a zero-padded
	// three digit number.
	var fileID strings.Builder
	for codeIndex < codewords[0] &&
		codeIndex < len(codewords) &&
		codewords[codeIndex] != macroTerminator &&
		codewords[codeIndex] != macroOptionalField {
		fmt.Fprintf(&fileID, "%03d", codewords[codeIndex])
		codeIndex++
	}
	if fileID.Len() == 0 {
		return 0, internal.ErrFormat
	}
	macro.FileID = fileID.String()

	optionalFieldsStart := -1
	if codeIndex < codewords[0] && codewords[codeIndex] == macroOptionalField {
		optionalFieldsStart = codeIndex + 1
	}

	for codeIndex < codewords[0] {
		switch codewords[codeIndex] {
		case macroOptionalField:
			codeIndex++
			if codeIndex >= codewords[0] {
				return 0, internal.ErrFormat
			}
			switch codewords[codeIndex] {
			case macroFieldFileName:
				fileName := newSegmentWriter(charset.Default)
				codeIndex, err = textCompaction(codewords, codeIndex+1, fileName)
				if err != nil {
					return 0, err
				}
				macro.FileName, err = fileName.text()
				if err != nil {
					return 0, err
				}
			case macroFieldSender:
				sender := newSegmentWriter(charset.Default)
				codeIndex, err = textCompaction(codewords, codeIndex+1, sender)
				if err != nil {
					return 0, err
				}
				macro.Sender, err = sender.text()
				if err != nil {
					return 0, err
				}
			case macroFieldAddressee:
				addressee := newSegmentWriter(charset.Default)
				codeIndex, err = textCompaction(codewords, codeIndex+1, addressee)
				if err != nil {
					return 0, err
				}
				macro.Addressee, err = addressee.text()
				if err != nil {
					return 0, err
				}
			case macroFieldSegmentCount:
				var value int
				codeIndex, value, err = numericMacroField(codewords, codeIndex+1)
				if err != nil {
					return 0, err
				}
				macro.SegmentCount = value
			case macroFieldTimestamp:
				var value int64
				codeIndex, value, err = numericMacroField64(codewords, codeIndex+1)
				if err != nil {
					return 0, err
				}
				macro.Timestamp = value
			case macroFieldChecksum:
				var value int
				codeIndex, value, err = numericMacroField(codewords, codeIndex+1)
				if err != nil {
					return 0, err
				}
				macro.Checksum = value
			case macroFieldFileSize:
				var value int64
				codeIndex, value, err = numericMacroField64(codewords, codeIndex+1)
				if err != nil {
					return 0, err
				}
				macro.FileSize = value
			default:
				return 0, internal.ErrFormat
			}
		case macroTerminator:
			codeIndex++
			macro.LastSegment = true
		default:
			return 0, internal.ErrFormat
		}
	}

	if optionalFieldsStart != -1 {
		optionalFieldsLength := codeIndex - optionalFieldsStart
		if macro.LastSegment {
			optionalFieldsLength--
		}
		if optionalFieldsLength > 0 {
			macro.OptionalData = make([]int, optionalFieldsLength)
			copy(macro.OptionalData, codewords[optionalFieldsStart:optionalFieldsStart+optionalFieldsLength])
		}
	}

	return codeIndex, nil
}

func numericMacroField(codewords []int, codeIndex int) (int, int, error) {
	w := newSegmentWriter(charset.Default)
	codeIndex, err := numericCompaction(codewords, codeIndex, w)
	if err != nil {
		return 0, 0, err
	}
	text, err := w.text()
	if err != nil {
		return 0, 0, err
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, 0, internal.ErrFormat
	}
	return codeIndex, value, nil
}

func numericMacroField64(codewords []int, codeIndex int) (int, int64, error) {
	w := newSegmentWriter(charset.Default)
	codeIndex, err := numericCompaction(codewords, codeIndex, w)
	if err != nil {
		return 0, 0, err
	}
	text, err := w.text()
	if err != nil {
		return 0, 0, err
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, 0, internal.ErrFormat
	}
	return codeIndex, value, nil
}
