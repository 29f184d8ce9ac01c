package field

import (
	"github.com/klauspost/reedsolomon"
)

// Symbol and coefficient vector kernels over GF(2^8)
//
// A symbol is processed byte for byte: every byte is an independent field element, so scaling a
// symbol by c multiplies each byte by c and adding two symbols xors them.

// lowLevel exposes the SIMD galois routines of reedsolomon. The zero value uses the library
// defaults (CPU feature detection happens inside the library).
var lowLevel reedsolomon.LowLevel

// MulAddSlice computes out[i] ^= c * in[i] for every i < len(in). out must be at least as long
// as in.
func MulAddSlice(c byte, in, out []byte) {
	switch c {
	case 0:
		return
	case 1:
		AddSlice(in, out)
		return
	}
	lowLevel.GalMulSliceXor(c, in, out)
}

// MulSlice computes out[i] = c * in[i] for every i < len(in). out must be at least as long as
// in and must not partially overlap in.
func MulSlice(c byte, in, out []byte) {
	switch c {
	case 0:
		clear(out[:len(in)])
		return
	case 1:
		copy(out, in)
		return
	}
	lowLevel.GalMulSlice(c, in, out)
}

// ScaleSlice multiplies every element of buf by c in place
func ScaleSlice(c byte, buf []byte) {
	if c == 1 {
		return
	}
	row := &mulTable[c]
	for i, v := range buf {
		buf[i] = row[v]
	}
}

// DivSlice divides every element of buf by c in place
func DivSlice(c byte, buf []byte) error {
	inv, err := Inv(c)
	if err != nil {
		return err
	}
	ScaleSlice(inv, buf)
	return nil
}

// AddSlice computes out[i] ^= in[i] for every i < len(in)
func AddSlice(in, out []byte) {
	out = out[:len(in)]
	for i, v := range in {
		out[i] ^= v
	}
}

// IsZero returns true if every element of v is the additive identity
func IsZero(v []byte) bool {
	for _, b := range v {
		if b != 0 {
			return false
		}
	}
	return true
}

// FirstNonZero returns the index of the first nonzero element of v, or -1 if v is all zeros
func FirstNonZero(v []byte) int {
	for i, b := range v {
		if b != 0 {
			return i
		}
	}
	return -1
}

// CountNonZero returns the number of nonzero elements of v
func CountNonZero(v []byte) int {
	n := 0
	for _, b := range v {
		if b != 0 {
			n++
		}
	}
	return n
}
