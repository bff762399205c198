package decoder

// barcodeMetadata is the symbol geometry declared by a row indicator
// column: data column count, row count (split into the two parts the
// indicator encodes it in) and error correction level.
type barcodeMetadata struct {
	columnCount          int
	rowCountUpperPart    int
	rowCountLowerPart    int
	errorCorrectionLevel int
}

func (bm *barcodeMetadata) rowCount() int {
	return bm.rowCountUpperPart + bm.rowCountLowerPart
}
