package pdf417

import "github.com/scanline/pdf417/internal"

// Decode failures are reported through these sentinel values, compared
// with errors.Is.
var (
	// ErrNotFound means no symbol geometry was detected in any
	// orientation.
	ErrNotFound = internal.ErrNotFound

	// ErrFormat means a symbol was detected but its structure is
	// inconsistent (bad dimensions, declared count, or compaction
	// layout).
	ErrFormat = internal.ErrFormat

	// ErrChecksum means error correction could not repair the codeword
	// array.
	ErrChecksum = internal.ErrChecksum

	// ErrParse means the corrected bitstream contains a reserved mode or
	// an unsupported ECI.
	ErrParse = internal.ErrParse

	// ErrIllegalState means a decode attempt hit an internal invariant
	// violation and was abandoned.
	ErrIllegalState = internal.ErrIllegalState
)
