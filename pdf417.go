// Package pdf417 decodes a PDF417 symbol from a binarized pixel matrix:
// geometry detection across four orientations, codeword sampling,
// Reed-Solomon correction over GF(929) and bitstream parsing into text,
// bytes and macro metadata.
package pdf417

import (
	"fmt"
	"sync"

	"github.com/scanline/pdf417/bitutil"
	"github.com/scanline/pdf417/charset"
	"github.com/scanline/pdf417/decoder"
	"github.com/scanline/pdf417/detector"
	"github.com/scanline/pdf417/internal"
)

// Point is a pixel position in the original, unrotated matrix.
type Point = internal.Point

// MacroMetadata is the structured content of a Macro PDF417 control
// block.
type MacroMetadata = internal.MacroMetadata

// modulesInStopPattern is the width of the stop guard in modules; the
// start guard and every codeword span 17.
const modulesInStopPattern = 18

// DecodeOptions are optional decoding hints. The zero value (or a nil
// pointer) selects the defaults.
type DecodeOptions struct {
	// TryHarder keeps trying lower-priority orientations after a
	// detected symbol fails to decode, instead of reporting that
	// failure.
	TryHarder bool

	// PureBarcode assumes the matrix contains little besides the symbol
	// and scans every row during detection.
	PureBarcode bool

	// CharacterSet names the charset assumed before any ECI switch,
	// e.g. "UTF-8". Empty means ISO-8859-1.
	CharacterSet string

	// Parallel evaluates the four orientations concurrently. The result
	// is identical to the sequential one with TryHarder set: the winner
	// is picked by orientation priority, never by completion order.
	Parallel bool
}

// Result is a successfully decoded symbol.
type Result struct {
	// Text is the decoded content converted to UTF-8.
	Text string

	// RawBytes is the decoded content before charset conversion.
	RawBytes []byte

	// Points are the detected vertices mapped back to the original
	// matrix: 0-3 the outer corners, 4-7 the inner codeword-area
	// corners. Entries on an undetected side are nil.
	Points [8]*Point

	// Orientation is the rotation, in degrees counterclockwise, that
	// was applied to the input before the symbol was found: 0, 90, 180
	// or 270.
	Orientation int

	// ECLevel is the declared error correction level (0-8).
	ECLevel int

	// ErrorsCorrected and ErasuresCorrected report how much repair the
	// codeword array needed.
	ErrorsCorrected   int
	ErasuresCorrected int

	// SymbologyIdentifier is the ISO/IEC 15424 identifier, "]L" plus a
	// modifier reflecting ECI use and macro segmentation.
	SymbologyIdentifier string

	// Macro is non-nil when the symbol carries a Macro PDF417 control
	// block.
	Macro *MacroMetadata
}

// Decode finds and decodes one PDF417 symbol in the matrix. It returns
// ErrNotFound when no guard patterns are detected in any orientation;
// other sentinel errors describe how far the best candidate got.
func Decode(bits *bitutil.BitMatrix, opts *DecodeOptions) (*Result, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	var characterSet *charset.ECI
	if opts.CharacterSet != "" {
		characterSet = charset.ByName(opts.CharacterSet)
		if characterSet == nil {
			return nil, charset.ErrUnsupportedECI
		}
	}

	candidates, err := detector.Detect(bits, detector.Options{
		PureBarcode: opts.PureBarcode,
		Parallel:    opts.Parallel,
	})
	if err != nil {
		return nil, err
	}

	if opts.Parallel {
		return decodeCandidatesParallel(bits, candidates, characterSet)
	}

	var firstErr error
	for _, candidate := range candidates {
		result, err := decodeCandidate(bits, candidate, characterSet)
		if err == nil {
			return result, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if !opts.TryHarder {
			break
		}
	}
	return nil, firstErr
}

// decodeCandidatesParallel decodes every candidate concurrently and
// reduces deterministically: the first candidate (in orientation
// priority order) that decoded wins; otherwise the first candidate's
// error is reported.
func decodeCandidatesParallel(bits *bitutil.BitMatrix, candidates []*detector.Result, characterSet *charset.ECI) (*Result, error) {
	results := make([]*Result, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate *detector.Result) {
			defer wg.Done()
			results[i], errs[i] = decodeCandidate(bits, candidate, characterSet)
		}(i, candidate)
	}
	wg.Wait()
	for _, result := range results {
		if result != nil {
			return result, nil
		}
	}
	return nil, errs[0]
}

// decodeCandidate runs the sampling decoder on one detection. Invariant
// violations inside the pipeline surface as panics; they abandon only
// this attempt.
func decodeCandidate(bits *bitutil.BitMatrix, candidate *detector.Result, characterSet *charset.ECI) (result *Result, err error) {
	defer func() {
		if recover() != nil {
			result, err = nil, internal.ErrIllegalState
		}
	}()

	points := candidate.Points
	dr, err := decoder.Decode(candidate.Bits,
		points[4], points[5], points[6], points[7],
		minCodewordWidth(points), maxCodewordWidth(points),
		characterSet)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Text:                dr.Text,
		RawBytes:            dr.RawBytes,
		Orientation:         candidate.Rotation,
		ECLevel:             dr.ECLevel,
		ErrorsCorrected:     dr.ErrorsCorrected,
		ErasuresCorrected:   dr.Erasures,
		SymbologyIdentifier: fmt.Sprintf("]L%d", symbologyModifier(dr)),
		Macro:               dr.Macro,
	}
	for i, p := range points {
		r.Points[i] = toOriginal(p, candidate.Rotation, bits.Width(), bits.Height())
	}
	return r, nil
}

// symbologyModifier encodes ECI use and macro segmentation: 0/1 plain,
// 3/4 within a macro sequence, 5/6 for the last macro segment.
func symbologyModifier(dr *internal.DecoderResult) int {
	modifier := 0
	if dr.ECIUsed {
		modifier = 1
	}
	if dr.Macro != nil {
		if dr.Macro.LastSegment {
			modifier += 5
		} else {
			modifier += 3
		}
	}
	return modifier
}

// toOriginal maps a point from the rotated matrix's coordinates back to
// the original matrix. width and height are the original dimensions;
// rotation is counterclockwise.
func toOriginal(p *internal.Point, rotation, width, height int) *Point {
	if p == nil {
		return nil
	}
	switch rotation {
	case 90:
		return &Point{X: float64(width-1) - p.Y, Y: p.X}
	case 180:
		return &Point{X: float64(width-1) - p.X, Y: float64(height-1) - p.Y}
	case 270:
		return &Point{X: p.Y, Y: float64(height-1) - p.X}
	default:
		q := *p
		return &q
	}
}

func edgeWidth(p1, p2 *internal.Point) int {
	if p1 == nil || p2 == nil {
		return 0
	}
	d := p1.X - p2.X
	if d < 0 {
		d = -d
	}
	return int(d)
}

// minCodewordWidth estimates the narrowest plausible codeword from the
// guard widths; the stop guard spans 18 modules and is scaled down to a
// 17-module codeword.
func minCodewordWidth(points [8]*internal.Point) int {
	return min(
		edgeWidth(points[0], points[4]),
		edgeWidth(points[6], points[2])*internal.ModulesInCodeword/modulesInStopPattern,
		edgeWidth(points[1], points[5]),
		edgeWidth(points[7], points[3])*internal.ModulesInCodeword/modulesInStopPattern,
	)
}

func maxCodewordWidth(points [8]*internal.Point) int {
	return max(
		edgeWidth(points[0], points[4]),
		edgeWidth(points[6], points[2])*internal.ModulesInCodeword/modulesInStopPattern,
		edgeWidth(points[1], points[5]),
		edgeWidth(points[7], points[3])*internal.ModulesInCodeword/modulesInStopPattern,
	)
}
