package field

import (
	"errors"
	"fmt"
)

// Arithmetic over the binary finite field GF(2^8)
//
// Elements are plain bytes. Addition and subtraction are xor, multiplication and division go
// through exponent/logarithm tables generated from the primitive polynomial
// x^8 + x^4 + x^3 + x^2 + 1 with generator 2. This is the same field klauspost/reedsolomon
// works in, so the slice kernels in vector.go can hand off to its SIMD routines.
//
// The tables below are process-wide shared state. They are filled exactly once during package
// initialisation, before any encoder or decoder can be constructed, and are never written
// afterwards, so concurrent readers need no synchronisation.

const (
	// Order is the number of elements in the field
	Order = 256
	// Polynomial is the primitive polynomial used for reduction
	Polynomial = 0x11d
	// Generator is the primitive element the exponent table is built from
	Generator = 2
)

// ErrDivisionByZero is returned when dividing by, or inverting, the additive identity
var ErrDivisionByZero = errors.New("division by zero")

var (
	expTable [2 * (Order - 1)]byte // exp[i] = g^i, doubled so exp[log a + log b] needs no modulo
	logTable [Order]int            // log[a] for a != 0; log[0] is unused
	invTable [Order]byte           // inv[a] for a != 0; inv[0] is 0
	mulTable [Order][Order]byte    // full product table, one row per scalar
)

func init() {
	x := 1
	for i := 0; i < Order-1; i++ {
		expTable[i] = byte(x)
		expTable[i+Order-1] = byte(x)
		logTable[x] = i
		x <<= 1
		if x&Order != 0 {
			x ^= Polynomial
		}
	}

	for a := 1; a < Order; a++ {
		invTable[a] = expTable[Order-1-logTable[a]]
	}

	for a := 1; a < Order; a++ {
		for b := 1; b < Order; b++ {
			mulTable[a][b] = expTable[logTable[a]+logTable[b]]
		}
	}
}

// Add returns a + b in the field (xor)
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b in the field, which is the same as Add in characteristic 2
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in the field
func Mul(a, b byte) byte {
	return mulTable[a][b]
}

// Div returns a / b in the field
func Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %#02x / 0", ErrDivisionByZero, a)
	}
	if a == 0 {
		return 0, nil
	}
	return expTable[logTable[a]+Order-1-logTable[b]], nil
}

// Inv returns the multiplicative inverse of a
func Inv(a byte) (byte, error) {
	if a == 0 {
		return 0, fmt.Errorf("%w: zero element is not invertible", ErrDivisionByZero)
	}
	return invTable[a], nil
}

// Exp returns the generator raised to the power i. Negative powers are allowed.
func Exp(i int) byte {
	i %= Order - 1
	if i < 0 {
		i += Order - 1
	}
	return expTable[i]
}

// Log returns the discrete logarithm of a with respect to the generator
func Log(a byte) (int, error) {
	if a == 0 {
		return 0, fmt.Errorf("%w: logarithm of zero", ErrDivisionByZero)
	}
	return logTable[a], nil
}
