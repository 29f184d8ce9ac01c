package field

import (
	"bytes"
	"math/rand"
	"testing"
)

func randomBytes(rng *rand.Rand, n int) []byte {
	buf := make([]byte, n)
	rng.Read(buf)
	return buf
}

func TestMulSliceMatchesMul(t *testing.T) {
	in := make([]byte, Order)
	for i := range in {
		in[i] = byte(i)
	}
	out := make([]byte, Order)
	for c := 0; c < Order; c++ {
		MulSlice(byte(c), in, out)
		for i := range in {
			if out[i] != Mul(byte(c), in[i]) {
				t.Fatalf("MulSlice(%d): element %d expected %d, got %d", c, i, Mul(byte(c), in[i]), out[i])
			}
		}
	}
}

func TestMulAddSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Odd lengths exercise the non-SIMD tail of the kernel
	for _, size := range []int{1, 7, 16, 33, 64, 100, 1024, 1500} {
		in := randomBytes(rng, size)
		out := randomBytes(rng, size)
		for _, c := range []byte{0, 1, 2, 0x53, 0xff} {
			expected := append([]byte(nil), out...)
			for i := range expected {
				expected[i] ^= Mul(c, in[i])
			}
			got := append([]byte(nil), out...)
			MulAddSlice(c, in, got)
			if !bytes.Equal(got, expected) {
				t.Fatalf("MulAddSlice(%d) on %d bytes: mismatch", c, size)
			}
		}
	}
}

func TestScaleAndDivSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	buf := randomBytes(rng, 257)
	original := append([]byte(nil), buf...)

	for c := 1; c < Order; c++ {
		ScaleSlice(byte(c), buf)
		if err := DivSlice(byte(c), buf); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf, original) {
			t.Fatalf("scaling then dividing by %d did not round trip", c)
		}
	}

	if err := DivSlice(0, buf); err == nil {
		t.Fatal("expected an error dividing a slice by zero")
	}
	if !bytes.Equal(buf, original) {
		t.Fatal("failed division modified the slice")
	}
}

func TestAddSliceSelfInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomBytes(rng, 64)
	b := randomBytes(rng, 64)
	sum := append([]byte(nil), b...)
	AddSlice(a, sum)
	AddSlice(a, sum)
	if !bytes.Equal(sum, b) {
		t.Fatal("adding a slice twice should be the identity")
	}
}

func TestVectorQueries(t *testing.T) {
	if !IsZero(nil) || !IsZero([]byte{0, 0, 0}) {
		t.Error("zero vectors should be zero")
	}
	if IsZero([]byte{0, 0, 1}) {
		t.Error("vector with a nonzero element reported as zero")
	}
	if FirstNonZero([]byte{0, 0, 0}) != -1 {
		t.Error("FirstNonZero of a zero vector should be -1")
	}
	if got := FirstNonZero([]byte{0, 0, 9, 4}); got != 2 {
		t.Errorf("FirstNonZero: expected 2, got %d", got)
	}
	if got := CountNonZero([]byte{0, 3, 0, 4, 5}); got != 3 {
		t.Errorf("CountNonZero: expected 3, got %d", got)
	}
}
