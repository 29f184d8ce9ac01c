package rlnc

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppopth/onthefly-rlnc/ec/encode"
	"github.com/ppopth/onthefly-rlnc/ec/field"
)

var _ encode.Decoder = (*Decoder)(nil)

// RowKind describes how far decoding has progressed for one symbol position
type RowKind int

const (
	// Undetermined means no pivot row exists for the position yet
	Undetermined RowKind = iota
	// PartiallyDecoded means the position has a pivot row that still mixes in other symbols
	PartiallyDecoded
	// Uncoded means the pivot row is the original symbol
	Uncoded
)

func (k RowKind) String() string {
	switch k {
	case Undetermined:
		return "undetermined"
	case PartiallyDecoded:
		return "partially decoded"
	case Uncoded:
		return "uncoded"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// tag is the one-letter marker of the kind used in state dumps
func (k RowKind) tag() byte {
	switch k {
	case Uncoded:
		return 'U'
	case PartiallyDecoded:
		return 'P'
	default:
		return '?'
	}
}

type DecoderConfig struct {
	// The number of symbols in a block (the generation size).
	MaxSymbols int
	// The size of every symbol in bytes.
	SymbolSize int
}

func DefaultDecoderConfig() *DecoderConfig {
	encoderConfig := DefaultEncoderConfig()
	return &DecoderConfig{
		MaxSymbols: encoderConfig.MaxSymbols,
		SymbolSize: encoderConfig.SymbolSize,
	}
}

// pivotRow is one row of the generator matrix. Its coefficient at the pivot position is one and
// every other pivot column of the matrix is zero in this row.
type pivotRow struct {
	coefficients []byte
	data         []byte
}

// Decoder absorbs coded packets with incremental Gauss-Jordan elimination. The generator matrix
// is kept in reduced row-echelon form after every packet, so a pivot row whose coding vector is a
// unit vector is an original symbol, and the block can be read out directly at full rank.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	maxSymbols int
	symbolSize int

	rows []*pivotRow // Pivot rows indexed by pivot position, nil when there is no pivot
	rank int         // Number of non-nil rows
}

// NewDecoder creates a decoder with an empty generator matrix
func NewDecoder(config *DecoderConfig) (*Decoder, error) {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	if config.MaxSymbols <= 0 || config.SymbolSize <= 0 {
		return nil, fmt.Errorf("%w: max symbols (%d) and symbol size (%d) must be positive",
			ErrInvalidConfig, config.MaxSymbols, config.SymbolSize)
	}
	return &Decoder{
		maxSymbols: config.MaxSymbols,
		symbolSize: config.SymbolSize,
		rows:       make([]*pivotRow, config.MaxSymbols),
	}, nil
}

// ReadPayload parses and absorbs one serialized packet
func (d *Decoder) ReadPayload(payload []byte) error {
	packet, err := ParsePacket(payload, d.maxSymbols, d.symbolSize)
	if err != nil {
		return err
	}
	return d.ReadPacket(packet)
}

// ReadPacket absorbs one coded packet. The rank grows by one if the packet is linearly
// independent of everything absorbed so far; otherwise the packet is dropped and the decoder is
// left untouched. The packet itself is never modified.
func (d *Decoder) ReadPacket(packet *Packet) error {
	if len(packet.Coefficients) != d.maxSymbols {
		return fmt.Errorf("%w: got %d coefficients, expected %d", ErrMalformedPacket, len(packet.Coefficients), d.maxSymbols)
	}
	if len(packet.Payload) != d.symbolSize {
		return fmt.Errorf("%w: got %d payload bytes, expected %d", ErrMalformedPacket, len(packet.Payload), d.symbolSize)
	}

	// Work on copies so that a redundant packet leaves no trace
	coefficients := append([]byte(nil), packet.Coefficients...)
	data := append([]byte(nil), packet.Payload...)

	// Forward elimination against every existing pivot, in increasing pivot order
	for pivot, row := range d.rows {
		if row == nil || coefficients[pivot] == 0 {
			continue
		}
		factor, err := field.Div(coefficients[pivot], row.coefficients[pivot])
		if err != nil {
			return err
		}
		field.MulAddSlice(factor, row.coefficients, coefficients)
		field.MulAddSlice(factor, row.data, data)
	}

	pivot := field.FirstNonZero(coefficients)
	if pivot == -1 {
		log.Debugf("redundant packet dropped, rank %d", d.rank)
		return nil
	}

	// Normalize so the pivot coefficient becomes one
	if err := field.DivSlice(coefficients[pivot], data); err != nil {
		return err
	}
	if err := field.DivSlice(coefficients[pivot], coefficients); err != nil {
		return err
	}

	// Back-substitute into the existing rows to keep the matrix fully reduced
	for _, row := range d.rows {
		if row == nil || row.coefficients[pivot] == 0 {
			continue
		}
		factor := row.coefficients[pivot]
		field.MulAddSlice(factor, coefficients, row.coefficients)
		field.MulAddSlice(factor, data, row.data)
	}

	d.rows[pivot] = &pivotRow{
		coefficients: coefficients,
		data:         data,
	}
	d.rank++
	log.Debugf("innovative packet absorbed at pivot %d, rank %d", pivot, d.rank)
	return nil
}

// ReadSymbol absorbs an original symbol whose index is known, as if it had arrived uncoded
func (d *Decoder) ReadSymbol(index int, data []byte) error {
	if index < 0 || index >= d.maxSymbols {
		return fmt.Errorf("%w: index %d, max symbols %d", ErrIndexOutOfRange, index, d.maxSymbols)
	}
	if len(data) != d.symbolSize {
		return fmt.Errorf("%w: got %d bytes, symbol size is %d", ErrSizeMismatch, len(data), d.symbolSize)
	}
	packet := &Packet{
		Coefficients: make([]byte, d.maxSymbols),
		Payload:      data,
	}
	packet.Coefficients[index] = 1
	return d.ReadPacket(packet)
}

// Rank returns the number of pivot rows
func (d *Decoder) Rank() int {
	return d.rank
}

// IsComplete returns true when every symbol position has a pivot row
func (d *Decoder) IsComplete() bool {
	return d.rank == d.maxSymbols
}

// RowKind classifies the symbol position index
func (d *Decoder) RowKind(index int) RowKind {
	if index < 0 || index >= d.maxSymbols {
		return Undetermined
	}
	row := d.rows[index]
	if row == nil {
		return Undetermined
	}
	// The pivot is always one, so any other nonzero coefficient means the row is still mixed
	if field.CountNonZero(row.coefficients) == 1 {
		return Uncoded
	}
	return PartiallyDecoded
}

// IsSymbolPivot returns true if the symbol position index has a pivot row
func (d *Decoder) IsSymbolPivot(index int) bool {
	return d.RowKind(index) != Undetermined
}

// IsSymbolUncoded returns true if the symbol at index is fully decoded
func (d *Decoder) IsSymbolUncoded(index int) bool {
	return d.RowKind(index) == Uncoded
}

// IsSymbolPartiallyDecoded returns true if the symbol at index has a pivot row that is still
// mixed with other symbols
func (d *Decoder) IsSymbolPartiallyDecoded(index int) bool {
	return d.RowKind(index) == PartiallyDecoded
}

// UncodedCount returns the number of fully decoded symbols
func (d *Decoder) UncodedCount() int {
	return len(d.UncodedIndices())
}

// PartiallyDecodedCount returns the number of pivot rows that are not yet uncoded
func (d *Decoder) PartiallyDecodedCount() int {
	return d.rank - d.UncodedCount()
}

// UncodedIndices returns the positions of the fully decoded symbols in increasing order
func (d *Decoder) UncodedIndices() []int {
	var indices []int
	for i := range d.rows {
		if d.RowKind(i) == Uncoded {
			indices = append(indices, i)
		}
	}
	return indices
}

// DecodedSymbol returns a copy of the symbol at index if it is fully decoded
func (d *Decoder) DecodedSymbol(index int) ([]byte, bool) {
	if d.RowKind(index) != Uncoded {
		return nil, false
	}
	return append([]byte(nil), d.rows[index].data...), true
}

// CopyDecodedBlock returns the original block. Because the matrix is fully reduced, at full rank
// every row's data is the original symbol at its pivot position.
func (d *Decoder) CopyDecodedBlock() ([]byte, error) {
	if !d.IsComplete() {
		return nil, fmt.Errorf("%w: rank %d of %d", ErrIncompleteDecoding, d.rank, d.maxSymbols)
	}
	block := make([]byte, 0, d.BlockSize())
	for _, row := range d.rows {
		block = append(block, row.data...)
	}
	return block, nil
}

// WriteState dumps the generator matrix to w: a header with the rank, then one line per symbol
// position holding its row kind (U, P or ?) and the coding vector of its pivot row in hex.
// Positions without a pivot row print dashes.
func (d *Decoder) WriteState(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rank %d of %d\n", d.rank, d.maxSymbols)
	for i, row := range d.rows {
		fmt.Fprintf(&sb, "%3d %c:", i, d.RowKind(i).tag())
		for j := 0; j < d.maxSymbols; j++ {
			if row == nil {
				sb.WriteString(" --")
			} else {
				fmt.Fprintf(&sb, " %02x", row.coefficients[j])
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (d *Decoder) String() string {
	var sb strings.Builder
	d.WriteState(&sb)
	return sb.String()
}

// MaxSymbols returns the number of symbols in the block
func (d *Decoder) MaxSymbols() int {
	return d.maxSymbols
}

// SymbolSize returns the size of every symbol in bytes
func (d *Decoder) SymbolSize() int {
	return d.symbolSize
}

// BlockSize returns MaxSymbols * SymbolSize
func (d *Decoder) BlockSize() int {
	return d.maxSymbols * d.symbolSize
}

// PayloadSize returns the size of every serialized packet
func (d *Decoder) PayloadSize() int {
	return d.maxSymbols + d.symbolSize
}

// coefficientMatrix returns the coding vectors of the pivot rows in pivot order
func (d *Decoder) coefficientMatrix() [][]byte {
	var matrix [][]byte
	for _, row := range d.rows {
		if row != nil {
			matrix = append(matrix, row.coefficients)
		}
	}
	return matrix
}
