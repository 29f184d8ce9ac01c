package rlnc

import (
	"fmt"
	mrand "math/rand"

	"github.com/ppopth/onthefly-rlnc/ec/encode"
	"github.com/ppopth/onthefly-rlnc/ec/field"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("rlnc")

var _ encode.Encoder = (*Encoder)(nil)

type EncoderConfig struct {
	// The number of symbols in a block (the generation size).
	MaxSymbols int
	// The size of every symbol in bytes.
	SymbolSize int
	// Source of randomness for coding coefficients. Nil means a source seeded from crypto/rand.
	// Set it to a seeded source to make the produced packets reproducible.
	Source mrand.Source
}

func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		MaxSymbols: 32,   // 32 symbols per block
		SymbolSize: 1024, // 1KB symbols fit a packet into a single QUIC datagram
	}
}

// Encoder produces random linear combinations of the symbols of one block. Symbols can be added
// at any time, so packets may be produced before the whole block is known (on-the-fly encoding).
// Every packet only mixes the symbols present when it was produced.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	storage   *SymbolStorage
	generator *CoefficientGenerator
}

// NewEncoder creates an encoder with an empty symbol storage
func NewEncoder(config *EncoderConfig) (*Encoder, error) {
	if config == nil {
		config = DefaultEncoderConfig()
	}
	storage, err := NewSymbolStorage(config.MaxSymbols, config.SymbolSize)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		storage:   storage,
		generator: NewCoefficientGenerator(config.Source),
	}, nil
}

// SetSymbol copies data into the symbol slot at index
func (e *Encoder) SetSymbol(index int, data []byte) error {
	if err := e.storage.SetOwned(index, data); err != nil {
		return err
	}
	log.Debugf("symbol %d copied into the encoder, rank %d", index, e.Rank())
	return nil
}

// SetSymbolByReference stores data at index without copying it. The caller keeps ownership of
// the buffer and must not modify it for the lifetime of the encoder.
func (e *Encoder) SetSymbolByReference(index int, data []byte) error {
	if err := e.storage.SetView(index, ViewOf(data)); err != nil {
		return err
	}
	log.Debugf("symbol %d referenced by the encoder, rank %d", index, e.Rank())
	return nil
}

// splitBlock checks that block covers the whole block and returns its symbols
func (e *Encoder) splitBlock(block []byte) ([][]byte, error) {
	if len(block) != e.BlockSize() {
		return nil, fmt.Errorf("%w: got a block of %d bytes, block size is %d", ErrSizeMismatch, len(block), e.BlockSize())
	}
	symbolSize := e.SymbolSize()
	symbols := make([][]byte, e.MaxSymbols())
	for i := range symbols {
		symbols[i] = block[i*symbolSize : (i+1)*symbolSize : (i+1)*symbolSize]
	}
	return symbols, nil
}

// SetSymbols copies every symbol of block into the slots that are still empty
func (e *Encoder) SetSymbols(block []byte) error {
	symbols, err := e.splitBlock(block)
	if err != nil {
		return err
	}
	for i, symbol := range symbols {
		if e.storage.Has(i) {
			continue
		}
		if err := e.storage.SetOwned(i, symbol); err != nil {
			return err
		}
	}
	return nil
}

// SetSymbolsByReference stores views of every symbol of block into the slots that are still
// empty. The same ownership rules as SetSymbolByReference apply to the whole block.
func (e *Encoder) SetSymbolsByReference(block []byte) error {
	symbols, err := e.splitBlock(block)
	if err != nil {
		return err
	}
	for i, symbol := range symbols {
		if e.storage.Has(i) {
			continue
		}
		if err := e.storage.SetView(i, ViewOf(symbol)); err != nil {
			return err
		}
	}
	return nil
}

// EncodePacket creates a random linear combination of the symbols available so far
func (e *Encoder) EncodePacket() (*Packet, error) {
	if e.Rank() == 0 {
		return nil, ErrNoSymbolsAvailable
	}

	coefficients := e.generator.Generate(e.storage)

	// payload = sum(coefficients[i] * symbols[i]) over the present symbols
	payload := make([]byte, e.SymbolSize())
	for i, coefficient := range coefficients {
		if coefficient == 0 {
			continue
		}
		symbol, _ := e.storage.Symbol(i)
		field.MulAddSlice(coefficient, symbol, payload)
	}

	return &Packet{
		Coefficients: coefficients,
		Payload:      payload,
	}, nil
}

// WritePayload creates a coded packet and returns its wire representation
func (e *Encoder) WritePayload() ([]byte, error) {
	packet, err := e.EncodePacket()
	if err != nil {
		return nil, err
	}
	return packet.MarshalBinary()
}

// WriteSystematicPayload returns the wire representation of symbol index sent uncoded, that is
// with a unit coding vector.
func (e *Encoder) WriteSystematicPayload(index int) ([]byte, error) {
	if index < 0 || index >= e.MaxSymbols() {
		return nil, fmt.Errorf("%w: index %d, max symbols %d", ErrIndexOutOfRange, index, e.MaxSymbols())
	}
	symbol, ok := e.storage.Symbol(index)
	if !ok {
		return nil, fmt.Errorf("%w: symbol %d has not been set", ErrNoSymbolsAvailable, index)
	}
	packet := &Packet{
		Coefficients: make([]byte, e.MaxSymbols()),
		Payload:      symbol,
	}
	packet.Coefficients[index] = 1
	return packet.MarshalBinary()
}

// HasSymbol returns true if the symbol at index has been set
func (e *Encoder) HasSymbol(index int) bool {
	return e.storage.Has(index)
}

// IsFull returns true once every symbol of the block has been set
func (e *Encoder) IsFull() bool {
	return e.storage.IsFull()
}

// Rank returns the number of symbols available for encoding
func (e *Encoder) Rank() int {
	return e.storage.Count()
}

// MaxSymbols returns the number of symbols in the block
func (e *Encoder) MaxSymbols() int {
	return e.storage.MaxSymbols()
}

// SymbolSize returns the size of every symbol in bytes
func (e *Encoder) SymbolSize() int {
	return e.storage.SymbolSize()
}

// BlockSize returns MaxSymbols * SymbolSize
func (e *Encoder) BlockSize() int {
	return e.MaxSymbols() * e.SymbolSize()
}

// PayloadSize returns the size of every serialized packet
func (e *Encoder) PayloadSize() int {
	return e.MaxSymbols() + e.SymbolSize()
}
