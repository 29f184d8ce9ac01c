package rlnc

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/ppopth/onthefly-rlnc/ec/field"
)

func newTestDecoder(t testing.TB, maxSymbols, symbolSize int) *Decoder {
	decoder, err := NewDecoder(&DecoderConfig{
		MaxSymbols: maxSymbols,
		SymbolSize: symbolSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	return decoder
}

// snapshot returns a deep copy of the decoder rows for equality checks
func snapshot(d *Decoder) [][]byte {
	var rows [][]byte
	for _, row := range d.rows {
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, append(append([]byte(nil), row.coefficients...), row.data...))
	}
	return rows
}

func rowsEqual(a, b [][]byte) bool {
	return slices.EqualFunc(a, b, func(x, y []byte) bool { return bytes.Equal(x, y) })
}

func TestDecoderInvalidConfig(t *testing.T) {
	if _, err := NewDecoder(&DecoderConfig{MaxSymbols: 0, SymbolSize: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewDecoder(&DecoderConfig{MaxSymbols: 1, SymbolSize: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	decoder, err := NewDecoder(nil)
	if err != nil {
		t.Fatal(err)
	}
	if decoder.MaxSymbols() != DefaultDecoderConfig().MaxSymbols {
		t.Fatalf("unexpected max symbols %d", decoder.MaxSymbols())
	}
}

func TestDecoderConcreteScenario(t *testing.T) {
	encoder := newTestEncoder(t, 3, 1, 5)
	decoder := newTestDecoder(t, 3, 1)

	if err := encoder.SetSymbol(0, []byte{0x41}); err != nil {
		t.Fatal(err)
	}
	p1, err := encoder.EncodePacket()
	if err != nil {
		t.Fatal(err)
	}
	if p1.Coefficients[0] == 0 || p1.Coefficients[1] != 0 || p1.Coefficients[2] != 0 {
		t.Fatalf("unexpected coefficients for the first packet %v", p1.Coefficients)
	}
	if err := decoder.ReadPacket(p1); err != nil {
		t.Fatal(err)
	}
	if decoder.Rank() != 1 {
		t.Fatalf("expected rank 1, got %d", decoder.Rank())
	}
	if decoder.RowKind(0) != Uncoded {
		t.Fatalf("expected row 0 to be uncoded, got %v", decoder.RowKind(0))
	}
	symbol, ok := decoder.DecodedSymbol(0)
	if !ok || !bytes.Equal(symbol, []byte{0x41}) {
		t.Fatalf("expected decoded symbol 0x41, got %v (%v)", symbol, ok)
	}

	if err := encoder.SetSymbol(1, []byte{0x42}); err != nil {
		t.Fatal(err)
	}
	if err := encoder.SetSymbol(2, []byte{0x43}); err != nil {
		t.Fatal(err)
	}
	for sent := 0; !decoder.IsComplete(); sent++ {
		if sent == 10 {
			t.Fatalf("still at rank %d after %d packets", decoder.Rank(), sent)
		}
		payload, err := encoder.WritePayload()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPayload(payload); err != nil {
			t.Fatal(err)
		}
	}

	if decoder.Rank() != 3 {
		t.Fatalf("expected rank 3, got %d", decoder.Rank())
	}
	block, err := decoder.CopyDecodedBlock()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(block, []byte{0x41, 0x42, 0x43}) {
		t.Fatalf("unexpected block %x", block)
	}
	if decoder.UncodedCount() != 3 || decoder.PartiallyDecodedCount() != 0 {
		t.Fatalf("unexpected counts %d uncoded, %d partially decoded", decoder.UncodedCount(), decoder.PartiallyDecodedCount())
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, dims := range [][2]int{{1, 1}, {4, 3}, {16, 64}, {32, 1024}} {
		maxSymbols, symbolSize := dims[0], dims[1]
		block := randomBlock(rng, maxSymbols*symbolSize)

		encoder := newTestEncoder(t, maxSymbols, symbolSize, rng.Int63())
		if err := encoder.SetSymbols(block); err != nil {
			t.Fatal(err)
		}
		decoder := newTestDecoder(t, maxSymbols, symbolSize)

		sent := 0
		for !decoder.IsComplete() {
			if sent > 2*maxSymbols+10 {
				t.Fatalf("%dx%d: still at rank %d after %d packets", maxSymbols, symbolSize, decoder.Rank(), sent)
			}
			payload, err := encoder.WritePayload()
			if err != nil {
				t.Fatal(err)
			}
			before := decoder.Rank()
			if err := decoder.ReadPayload(payload); err != nil {
				t.Fatal(err)
			}
			if decoder.Rank() < before || decoder.Rank() > before+1 {
				t.Fatalf("rank moved from %d to %d", before, decoder.Rank())
			}
			sent++
		}

		decoded, err := decoder.CopyDecodedBlock()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decoded, block) {
			t.Fatalf("%dx%d: decoded block does not match the original", maxSymbols, symbolSize)
		}
	}
}

// Independent encoder/decoder pairs share only the field tables, so they run in parallel
func TestDecoderParallelRoundTrips(t *testing.T) {
	for i, dims := range [][2]int{{4, 3}, {8, 16}, {16, 64}, {32, 256}, {64, 32}} {
		maxSymbols, symbolSize := dims[0], dims[1]
		t.Run(fmt.Sprintf("%dx%d", maxSymbols, symbolSize), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(int64(100 + i)))
			for round := 0; round < 5; round++ {
				block := randomBlock(rng, maxSymbols*symbolSize)
				encoder := newTestEncoder(t, maxSymbols, symbolSize, rng.Int63())
				decoder := newTestDecoder(t, maxSymbols, symbolSize)

				// Symbols arrive one by one while packets flow
				for sent := 0; !decoder.IsComplete(); sent++ {
					if sent > 4*maxSymbols+10 {
						t.Fatalf("still at rank %d after %d packets", decoder.Rank(), sent)
					}
					if index := encoder.Rank(); index < maxSymbols && rng.Intn(2) == 0 {
						if err := encoder.SetSymbolByReference(index, block[index*symbolSize:(index+1)*symbolSize]); err != nil {
							t.Fatal(err)
						}
					}
					if encoder.Rank() == 0 {
						continue
					}
					payload, err := encoder.WritePayload()
					if err != nil {
						t.Fatal(err)
					}
					if err := decoder.ReadPayload(payload); err != nil {
						t.Fatal(err)
					}
				}

				decoded, err := decoder.CopyDecodedBlock()
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(decoded, block) {
					t.Fatalf("round %d: decoded block does not match the original", round)
				}
			}
		})
	}
}

func TestDecoderKeepsReducedRowEchelonForm(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	encoder := newTestEncoder(t, 12, 8, 21)
	decoder := newTestDecoder(t, 12, 8)
	block := randomBlock(rng, encoder.BlockSize())

	// Add symbols on the fly in a random order
	order := rng.Perm(12)
	for len(order) > 0 || !decoder.IsComplete() {
		if len(order) > 0 && rng.Intn(2) == 0 {
			i := order[0]
			order = order[1:]
			if err := encoder.SetSymbol(i, block[i*8:(i+1)*8]); err != nil {
				t.Fatal(err)
			}
		}
		if encoder.Rank() == 0 {
			continue
		}
		packet, err := encoder.EncodePacket()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}

		matrix := decoder.coefficientMatrix()
		if len(matrix) != decoder.Rank() {
			t.Fatalf("%d pivot rows at rank %d", len(matrix), decoder.Rank())
		}
		if !field.IsReducedRowEchelonForm(matrix) {
			t.Fatalf("generator matrix left reduced row-echelon form at rank %d", decoder.Rank())
		}
		if decoder.Rank() > encoder.Rank() {
			t.Fatalf("decoder rank %d exceeds encoder rank %d", decoder.Rank(), encoder.Rank())
		}
		// Every uncoded row already carries the original symbol
		for _, i := range decoder.UncodedIndices() {
			symbol, _ := decoder.DecodedSymbol(i)
			if !bytes.Equal(symbol, block[i*8:(i+1)*8]) {
				t.Fatalf("uncoded symbol %d is wrong", i)
			}
		}
		if decoder.UncodedCount()+decoder.PartiallyDecodedCount() != decoder.Rank() {
			t.Fatal("uncoded and partially decoded rows do not add up to the rank")
		}
	}

	decoded, err := decoder.CopyDecodedBlock()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatal("decoded block does not match the original")
	}
}

func TestDecoderRedundantPacket(t *testing.T) {
	encoder := newTestEncoder(t, 4, 4, 3)
	decoder := newTestDecoder(t, 4, 4)
	if err := encoder.SetSymbols(randomBlock(rand.New(rand.NewSource(3)), 16)); err != nil {
		t.Fatal(err)
	}

	var absorbed []*Packet
	for len(absorbed) < 2 {
		packet, err := encoder.EncodePacket()
		if err != nil {
			t.Fatal(err)
		}
		before := decoder.Rank()
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}
		if decoder.Rank() > before {
			absorbed = append(absorbed, packet)
		}
	}

	// Any combination of absorbed packets is redundant
	combined := &Packet{
		Coefficients: make([]byte, 4),
		Payload:      make([]byte, 4),
	}
	for i, packet := range absorbed {
		c := byte(3 + i*5)
		field.MulAddSlice(c, packet.Coefficients, combined.Coefficients)
		field.MulAddSlice(c, packet.Payload, combined.Payload)
	}

	before := snapshot(decoder)
	for _, packet := range append(absorbed, combined) {
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}
		if decoder.Rank() != 2 {
			t.Fatalf("redundant packet changed the rank to %d", decoder.Rank())
		}
		if !rowsEqual(before, snapshot(decoder)) {
			t.Fatal("redundant packet changed the decoder rows")
		}
	}

	// A zero coding vector carries nothing
	if err := decoder.ReadPacket(&Packet{Coefficients: make([]byte, 4), Payload: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatal(err)
	}
	if !rowsEqual(before, snapshot(decoder)) {
		t.Fatal("zero packet changed the decoder rows")
	}
}

func TestDecoderMalformedPacket(t *testing.T) {
	decoder := newTestDecoder(t, 3, 2)
	if err := decoder.ReadSymbol(1, []byte{5, 6}); err != nil {
		t.Fatal(err)
	}
	before := snapshot(decoder)

	malformed := []*Packet{
		{Coefficients: []byte{1, 2}, Payload: []byte{1, 2}},
		{Coefficients: []byte{1, 2, 3, 4}, Payload: []byte{1, 2}},
		{Coefficients: []byte{1, 2, 3}, Payload: []byte{1}},
	}
	for _, packet := range malformed {
		if err := decoder.ReadPacket(packet); !errors.Is(err, ErrMalformedPacket) {
			t.Fatalf("expected ErrMalformedPacket, got %v", err)
		}
	}
	for _, payload := range [][]byte{nil, {1, 2, 3, 4}, {1, 2, 3, 4, 5, 6}} {
		if err := decoder.ReadPayload(payload); !errors.Is(err, ErrMalformedPacket) {
			t.Fatalf("expected ErrMalformedPacket, got %v", err)
		}
	}

	if decoder.Rank() != 1 {
		t.Fatalf("malformed packets changed the rank to %d", decoder.Rank())
	}
	if !rowsEqual(before, snapshot(decoder)) {
		t.Fatal("malformed packets changed the decoder rows")
	}
}

func TestDecoderDoesNotModifyPacket(t *testing.T) {
	decoder := newTestDecoder(t, 2, 2)
	if err := decoder.ReadPacket(&Packet{Coefficients: []byte{3, 0}, Payload: []byte{1, 1}}); err != nil {
		t.Fatal(err)
	}
	packet := &Packet{Coefficients: []byte{5, 7}, Payload: []byte{2, 9}}
	clone := packet.Clone()
	if err := decoder.ReadPacket(packet); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(packet.Coefficients, clone.Coefficients) || !bytes.Equal(packet.Payload, clone.Payload) {
		t.Fatal("the decoder modified the packet")
	}
}

func TestDecoderRowKinds(t *testing.T) {
	decoder := newTestDecoder(t, 3, 1)

	// x0 + x1 = 3
	if err := decoder.ReadPacket(&Packet{Coefficients: []byte{1, 1, 0}, Payload: []byte{3}}); err != nil {
		t.Fatal(err)
	}
	if decoder.RowKind(0) != PartiallyDecoded {
		t.Fatalf("expected row 0 to be partially decoded, got %v", decoder.RowKind(0))
	}
	if decoder.RowKind(1) != Undetermined || decoder.RowKind(2) != Undetermined {
		t.Fatal("expected rows 1 and 2 to be undetermined")
	}
	if !decoder.IsSymbolPivot(0) || decoder.IsSymbolPivot(1) {
		t.Fatal("unexpected pivot positions")
	}
	if _, ok := decoder.DecodedSymbol(0); ok {
		t.Fatal("a partially decoded symbol must not be readable")
	}
	if decoder.PartiallyDecodedCount() != 1 || decoder.UncodedCount() != 0 {
		t.Fatal("unexpected counts")
	}

	// x2 = 7 arrives uncoded and stays independent of row 0
	if err := decoder.ReadSymbol(2, []byte{7}); err != nil {
		t.Fatal(err)
	}
	if !decoder.IsSymbolUncoded(2) || !decoder.IsSymbolPartiallyDecoded(0) {
		t.Fatal("unexpected row kinds after reading symbol 2")
	}
	if !slices.Equal(decoder.UncodedIndices(), []int{2}) {
		t.Fatalf("unexpected uncoded indices %v", decoder.UncodedIndices())
	}

	// x1 = 2 resolves row 0 by back-substitution
	if err := decoder.ReadSymbol(1, []byte{2}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(decoder.UncodedIndices(), []int{0, 1, 2}) {
		t.Fatalf("unexpected uncoded indices %v", decoder.UncodedIndices())
	}
	block, err := decoder.CopyDecodedBlock()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(block, []byte{1, 2, 7}) {
		t.Fatalf("unexpected block %v", block)
	}

	if decoder.RowKind(-1) != Undetermined || decoder.RowKind(3) != Undetermined {
		t.Fatal("out of range rows must be undetermined")
	}
	if Uncoded.String() != "uncoded" || RowKind(9).String() != "RowKind(9)" {
		t.Fatal("unexpected RowKind strings")
	}
}

func TestDecoderWriteState(t *testing.T) {
	decoder := newTestDecoder(t, 3, 1)
	if got, want := decoder.String(), "rank 0 of 3\n  0 ?: -- -- --\n  1 ?: -- -- --\n  2 ?: -- -- --\n"; got != want {
		t.Fatalf("unexpected empty state:\n%s", got)
	}

	if err := decoder.ReadPacket(&Packet{Coefficients: []byte{1, 1, 0}, Payload: []byte{3}}); err != nil {
		t.Fatal(err)
	}
	if err := decoder.ReadSymbol(2, []byte{7}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := decoder.WriteState(&buf); err != nil {
		t.Fatal(err)
	}
	want := "rank 2 of 3\n" +
		"  0 P: 01 01 00\n" +
		"  1 ?: -- -- --\n" +
		"  2 U: 00 00 01\n"
	if buf.String() != want {
		t.Fatalf("unexpected state:\n%s", buf.String())
	}
	if decoder.String() != want {
		t.Fatal("String and WriteState disagree")
	}
}

func TestDecoderReadSymbolErrors(t *testing.T) {
	decoder := newTestDecoder(t, 2, 2)
	if err := decoder.ReadSymbol(2, []byte{1, 2}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := decoder.ReadSymbol(0, []byte{1}); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestDecoderCompletenessIffFullRank(t *testing.T) {
	encoder := newTestEncoder(t, 5, 3, 8)
	decoder := newTestDecoder(t, 5, 3)
	if err := encoder.SetSymbols(randomBlock(rand.New(rand.NewSource(8)), 15)); err != nil {
		t.Fatal(err)
	}

	for !decoder.IsComplete() {
		if decoder.Rank() == decoder.MaxSymbols() {
			t.Fatal("full rank but not complete")
		}
		if _, err := decoder.CopyDecodedBlock(); !errors.Is(err, ErrIncompleteDecoding) {
			t.Fatalf("expected ErrIncompleteDecoding at rank %d, got %v", decoder.Rank(), err)
		}
		packet, err := encoder.EncodePacket()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}
	}
	if decoder.Rank() != decoder.MaxSymbols() {
		t.Fatalf("complete at rank %d", decoder.Rank())
	}
	if _, err := decoder.CopyDecodedBlock(); err != nil {
		t.Fatal(err)
	}
}

func TestDecoderPartialEncoder(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	encoder := newTestEncoder(t, 8, 16, 31)
	decoder := newTestDecoder(t, 8, 16)
	block := randomBlock(rng, encoder.BlockSize())

	present := []int{0, 2, 5}
	for _, i := range present {
		if err := encoder.SetSymbol(i, block[i*16:(i+1)*16]); err != nil {
			t.Fatal(err)
		}
	}

	// A partial encoder can never push the decoder past its own rank
	for n := 0; n < 20; n++ {
		packet, err := encoder.EncodePacket()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}
	}
	if decoder.Rank() != len(present) {
		t.Fatalf("expected rank %d, got %d", len(present), decoder.Rank())
	}
	for _, i := range present {
		symbol, ok := decoder.DecodedSymbol(i)
		if !ok {
			t.Fatalf("symbol %d should be decoded", i)
		}
		if !bytes.Equal(symbol, block[i*16:(i+1)*16]) {
			t.Fatalf("symbol %d decoded incorrectly", i)
		}
	}

	// The rest of the block arrives later
	if err := encoder.SetSymbols(block); err != nil {
		t.Fatal(err)
	}
	for sent := 0; !decoder.IsComplete(); sent++ {
		if sent == 30 {
			t.Fatalf("still at rank %d after %d packets", decoder.Rank(), sent)
		}
		packet, err := encoder.EncodePacket()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPacket(packet); err != nil {
			t.Fatal(err)
		}
	}
	decoded, err := decoder.CopyDecodedBlock()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatal("decoded block does not match the original")
	}
}

func TestDecoderSystematicThenCoded(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	encoder := newTestEncoder(t, 6, 5, 41)
	decoder := newTestDecoder(t, 6, 5)
	block := randomBlock(rng, encoder.BlockSize())
	if err := encoder.SetSymbolsByReference(block); err != nil {
		t.Fatal(err)
	}

	// Half of the symbols arrive uncoded, the rest as coded packets
	for _, i := range []int{1, 3, 4} {
		payload, err := encoder.WriteSystematicPayload(i)
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPayload(payload); err != nil {
			t.Fatal(err)
		}
	}
	if decoder.UncodedCount() != 3 {
		t.Fatalf("expected 3 uncoded symbols, got %d", decoder.UncodedCount())
	}
	for sent := 0; !decoder.IsComplete(); sent++ {
		if sent == 20 {
			t.Fatalf("still at rank %d after %d packets", decoder.Rank(), sent)
		}
		payload, err := encoder.WritePayload()
		if err != nil {
			t.Fatal(err)
		}
		if err := decoder.ReadPayload(payload); err != nil {
			t.Fatal(err)
		}
	}
	decoded, err := decoder.CopyDecodedBlock()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatal("decoded block does not match the original")
	}
}

func BenchmarkDecodeBlock(b *testing.B) {
	encoder := newTestEncoder(b, 32, 1024, 1)
	if err := encoder.SetSymbols(randomBlock(rand.New(rand.NewSource(1)), encoder.BlockSize())); err != nil {
		b.Fatal(err)
	}
	var payloads [][]byte
	for i := 0; i < 40; i++ {
		payload, err := encoder.WritePayload()
		if err != nil {
			b.Fatal(err)
		}
		payloads = append(payloads, payload)
	}

	b.SetBytes(int64(encoder.BlockSize()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		decoder := newTestDecoder(b, 32, 1024)
		for _, payload := range payloads {
			if decoder.IsComplete() {
				break
			}
			if err := decoder.ReadPayload(payload); err != nil {
				b.Fatal(err)
			}
		}
		if !decoder.IsComplete() {
			b.Fatal("not enough packets to decode")
		}
	}
}
