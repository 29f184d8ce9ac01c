package encode

// Encoder is the sending side of a rateless erasure code over a single block. Symbols may be
// added one at a time while packets are already being produced.
type Encoder interface {
	// SetSymbol copies data into the symbol slot at index
	SetSymbol(index int, data []byte) error
	// SetSymbolByReference stores a borrowed view of data at index without copying it
	SetSymbolByReference(index int, data []byte) error
	// WritePayload produces one serialized coded packet from the symbols available so far
	WritePayload() ([]byte, error)

	// Rank returns the number of symbols available for encoding
	Rank() int
	// BlockSize returns the size of the whole block in bytes
	BlockSize() int
	// MaxSymbols returns the number of symbols in the block
	MaxSymbols() int
	// SymbolSize returns the size of each symbol in bytes
	SymbolSize() int
	// PayloadSize returns the size of every serialized packet in bytes
	PayloadSize() int
}

// Decoder is the receiving side of a rateless erasure code over a single block.
type Decoder interface {
	// ReadPayload absorbs one serialized coded packet
	ReadPayload(payload []byte) error

	// Rank returns the number of linearly independent packets absorbed
	Rank() int
	// IsComplete returns true once the whole block can be copied out
	IsComplete() bool
	// UncodedCount returns the number of symbols already fully decoded
	UncodedCount() int
	// PartiallyDecodedCount returns the number of pivot rows still mixed with other symbols
	PartiallyDecodedCount() int
	// CopyDecodedBlock returns the original block once decoding is complete
	CopyDecodedBlock() ([]byte, error)

	// MaxSymbols returns the number of symbols in the block
	MaxSymbols() int
	// SymbolSize returns the size of each symbol in bytes
	SymbolSize() int
	// PayloadSize returns the size of every serialized packet in bytes
	PayloadSize() int
}
