package rlnc

import (
	"errors"

	"github.com/ppopth/onthefly-rlnc/ec/field"
)

var (
	// ErrInvalidConfig is returned when an encoder or decoder is built with a non-positive size
	ErrInvalidConfig = errors.New("invalid config")
	// ErrIndexOutOfRange is returned when a symbol index is outside the block
	ErrIndexOutOfRange = errors.New("symbol index out of range")
	// ErrSizeMismatch is returned when a symbol does not have exactly SymbolSize bytes
	ErrSizeMismatch = errors.New("symbol size mismatch")
	// ErrSlotAlreadySet is returned when a symbol slot is set twice
	ErrSlotAlreadySet = errors.New("symbol slot already set")
	// ErrNoSymbolsAvailable is returned when encoding with an empty symbol storage
	ErrNoSymbolsAvailable = errors.New("no symbols available")
	// ErrMalformedPacket is returned when a packet does not match the decoder's dimensions
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrIncompleteDecoding is returned when the block is requested before full rank
	ErrIncompleteDecoding = errors.New("incomplete decoding")
	// ErrDivisionByZero surfaces a zero pivot during elimination. It indicates a logic defect.
	ErrDivisionByZero = field.ErrDivisionByZero
)
