package rlnc

import (
	"fmt"

	"github.com/ppopth/onthefly-rlnc/ec/field"
)

// RecoverBlock recovers a block from a set of coded packets in one shot, without keeping a
// decoder. Redundant packets are skipped, and the block is obtained by solving V = A⁻¹ R, where A
// holds the coding vectors of the first maxSymbols independent packets and R their payloads.
func RecoverBlock(packets []*Packet, maxSymbols, symbolSize int) ([]byte, error) {
	if maxSymbols <= 0 || symbolSize <= 0 {
		return nil, fmt.Errorf("%w: max symbols (%d) and symbol size (%d) must be positive",
			ErrInvalidConfig, maxSymbols, symbolSize)
	}

	var (
		echelon [][]byte // Reduced copies of the selected coding vectors, only for the independence test
		A       [][]byte
		R       [][]byte
	)
	for _, packet := range packets {
		if len(A) == maxSymbols {
			break
		}
		if len(packet.Coefficients) != maxSymbols || len(packet.Payload) != symbolSize {
			return nil, fmt.Errorf("%w: got %d coefficients and %d payload bytes, expected %d and %d",
				ErrMalformedPacket, len(packet.Coefficients), len(packet.Payload), maxSymbols, symbolSize)
		}
		next, ok := field.IsLinearlyIndependentIncremental(echelon, packet.Coefficients)
		if !ok {
			continue
		}
		echelon = next
		A = append(A, packet.Coefficients)
		R = append(R, packet.Payload)
	}
	if len(A) < maxSymbols {
		return nil, fmt.Errorf("%w: %d independent packets of %d", ErrIncompleteDecoding, len(A), maxSymbols)
	}

	V, err := field.RecoverVectors(A, R)
	if err != nil {
		return nil, err
	}

	block := make([]byte, 0, maxSymbols*symbolSize)
	for _, v := range V {
		block = append(block, v...)
	}
	return block, nil
}
