package internal

import "errors"

var (
	// ErrNotFound is returned when no PDF417 symbol is located in the image.
	ErrNotFound = errors.New("pdf417: symbol not found")

	// ErrFormat is returned when the symbol's structure is internally
	// inconsistent and cannot be reconciled.
	ErrFormat = errors.New("pdf417: format error")

	// ErrChecksum is returned when error correction cannot repair the
	// codeword sequence.
	ErrChecksum = errors.New("pdf417: checksum error")

	// ErrParse is returned when a corrected codeword stream contains a
	// character or ECI value outside the supported ranges.
	ErrParse = errors.New("pdf417: parse error")

	// ErrIllegalState signals a defensive invariant violation. It aborts the
	// current decode attempt only.
	ErrIllegalState = errors.New("pdf417: illegal state")
)
