package internal

// DecoderResult encapsulates the output of decoding a codeword matrix,
// before it is combined with the detection geometry.
type DecoderResult struct {
	Text            string
	RawBytes        []byte
	ECLevel         int
	ErrorsCorrected int
	Erasures        int
	ECIUsed         bool
	Macro           *MacroMetadata
}

// MacroMetadata holds the structured metadata of a Macro PDF417 control
// block. SegmentIndex and FileID are always present when a macro block was
// decoded; the remaining fields are optional and keep their zero value when
// the corresponding field was absent.
type MacroMetadata struct {
	SegmentIndex int
	FileID       string
	SegmentCount int
	FileName     string
	Sender       string
	Addressee    string
	Timestamp    int64
	FileSize     int64
	Checksum     int
	LastSegment  bool
	OptionalData []int
}
