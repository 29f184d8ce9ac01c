package rlnc

import (
	"fmt"
	"math/bits"
)

// SymbolView is a borrowed, read-only view of a symbol buffer owned by the caller.
//
// Storing a view does not transfer ownership: the caller must keep the buffer alive and
// unmodified for as long as the storage holding the view may read it, and the storage never
// writes through it.
type SymbolView struct {
	data []byte
}

// ViewOf wraps data in a SymbolView without copying it
func ViewOf(data []byte) SymbolView {
	return SymbolView{data: data}
}

// Len returns the length of the viewed buffer
func (v SymbolView) Len() int {
	return len(v.data)
}

type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotOwned
	slotBorrowed
)

// SymbolStorage is a fixed-capacity array of symbol slots with a validity bitmap. Every slot is
// either empty, holds an owned copy, or holds a borrowed view. Slots are set at most once.
type SymbolStorage struct {
	maxSymbols int
	symbolSize int

	symbols  [][]byte   // symbol buffers by index, nil when empty
	kinds    []slotKind // how each slot holds its buffer
	validity []uint64   // bit i is set when slot i is present
	count    int        // number of present slots
}

// NewSymbolStorage creates an empty storage for maxSymbols symbols of symbolSize bytes
func NewSymbolStorage(maxSymbols, symbolSize int) (*SymbolStorage, error) {
	if maxSymbols <= 0 || symbolSize <= 0 {
		return nil, fmt.Errorf("%w: max symbols (%d) and symbol size (%d) must be positive",
			ErrInvalidConfig, maxSymbols, symbolSize)
	}
	return &SymbolStorage{
		maxSymbols: maxSymbols,
		symbolSize: symbolSize,
		symbols:    make([][]byte, maxSymbols),
		kinds:      make([]slotKind, maxSymbols),
		validity:   make([]uint64, (maxSymbols+63)/64),
	}, nil
}

// checkSlot validates that a symbol of the given length can be stored at index
func (s *SymbolStorage) checkSlot(index, length int) error {
	if index < 0 || index >= s.maxSymbols {
		return fmt.Errorf("%w: index %d, max symbols %d", ErrIndexOutOfRange, index, s.maxSymbols)
	}
	if length != s.symbolSize {
		return fmt.Errorf("%w: got %d bytes, symbol size is %d", ErrSizeMismatch, length, s.symbolSize)
	}
	if s.Has(index) {
		return fmt.Errorf("%w: index %d", ErrSlotAlreadySet, index)
	}
	return nil
}

func (s *SymbolStorage) set(index int, data []byte, kind slotKind) {
	s.symbols[index] = data
	s.kinds[index] = kind
	s.validity[index/64] |= 1 << (index % 64)
	s.count++
}

// SetOwned copies data into the slot at index
func (s *SymbolStorage) SetOwned(index int, data []byte) error {
	if err := s.checkSlot(index, len(data)); err != nil {
		return err
	}
	s.set(index, append([]byte(nil), data...), slotOwned)
	return nil
}

// SetView stores a borrowed view in the slot at index
func (s *SymbolStorage) SetView(index int, view SymbolView) error {
	if err := s.checkSlot(index, view.Len()); err != nil {
		return err
	}
	s.set(index, view.data, slotBorrowed)
	return nil
}

// Has returns true if the slot at index holds a symbol
func (s *SymbolStorage) Has(index int) bool {
	if index < 0 || index >= s.maxSymbols {
		return false
	}
	return s.validity[index/64]&(1<<(index%64)) != 0
}

// IsBorrowed returns true if the slot at index holds a borrowed view
func (s *SymbolStorage) IsBorrowed(index int) bool {
	return s.Has(index) && s.kinds[index] == slotBorrowed
}

// Symbol returns the buffer stored at index. The returned slice must be treated as read-only.
func (s *SymbolStorage) Symbol(index int) ([]byte, bool) {
	if !s.Has(index) {
		return nil, false
	}
	return s.symbols[index], true
}

// Count returns the number of present slots
func (s *SymbolStorage) Count() int {
	return s.count
}

// countValid recounts the validity bitmap
func (s *SymbolStorage) countValid() int {
	n := 0
	for _, word := range s.validity {
		n += bits.OnesCount64(word)
	}
	return n
}

// IsFull returns true if every slot holds a symbol
func (s *SymbolStorage) IsFull() bool {
	return s.count == s.maxSymbols
}

// MaxSymbols returns the number of slots
func (s *SymbolStorage) MaxSymbols() int {
	return s.maxSymbols
}

// SymbolSize returns the size of every symbol in bytes
func (s *SymbolStorage) SymbolSize() int {
	return s.symbolSize
}
