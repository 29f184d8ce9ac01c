package rlnc

import (
	"fmt"
)

// Packet is one coded packet: a coding vector with one coefficient per symbol of the block, and
// the payload obtained by combining the symbols with those coefficients.
//
// On the wire a packet is the coefficients (one byte per symbol) immediately followed by the
// payload, so a serialized packet is always MaxSymbols + SymbolSize bytes long.
type Packet struct {
	Coefficients []byte // One field element per symbol position
	Payload      []byte // The linear combination of the symbols
}

// Size returns the serialized size of the packet
func (p *Packet) Size() int {
	return len(p.Coefficients) + len(p.Payload)
}

// AppendBinary appends the wire representation of the packet to dst
func (p *Packet) AppendBinary(dst []byte) []byte {
	dst = append(dst, p.Coefficients...)
	return append(dst, p.Payload...)
}

// MarshalBinary returns the wire representation of the packet
func (p *Packet) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, p.Size())), nil
}

// Clone returns a deep copy of the packet
func (p *Packet) Clone() *Packet {
	return &Packet{
		Coefficients: append([]byte(nil), p.Coefficients...),
		Payload:      append([]byte(nil), p.Payload...),
	}
}

// ParsePacket splits a serialized packet for a block of maxSymbols symbols of symbolSize bytes.
// The returned packet aliases buf.
func ParsePacket(buf []byte, maxSymbols, symbolSize int) (*Packet, error) {
	if maxSymbols <= 0 || symbolSize <= 0 {
		return nil, fmt.Errorf("%w: max symbols (%d) and symbol size (%d) must be positive",
			ErrInvalidConfig, maxSymbols, symbolSize)
	}
	if len(buf) != maxSymbols+symbolSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d coefficients and %d payload bytes",
			ErrMalformedPacket, len(buf), maxSymbols, symbolSize)
	}
	return &Packet{
		Coefficients: buf[:maxSymbols:maxSymbols],
		Payload:      buf[maxSymbols:],
	}, nil
}
