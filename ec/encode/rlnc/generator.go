package rlnc

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/ppopth/onthefly-rlnc/ec/field"
)

// CoefficientGenerator draws coding coefficients uniformly from the nonzero field elements.
// Zero is excluded so that every present symbol contributes to every packet. Two generators built
// from sources with the same seed produce the same coefficients.
type CoefficientGenerator struct {
	rng *mrand.Rand
}

// NewCoefficientGenerator creates a generator reading from the given source. A nil source is
// replaced by one seeded from crypto/rand.
func NewCoefficientGenerator(source mrand.Source) *CoefficientGenerator {
	if source == nil {
		source = mrand.NewSource(randomSeed())
	}
	return &CoefficientGenerator{rng: mrand.New(source)}
}

// NewSeededCoefficientGenerator creates a reproducible generator
func NewSeededCoefficientGenerator(seed int64) *CoefficientGenerator {
	return NewCoefficientGenerator(mrand.NewSource(seed))
}

// Coefficient returns one uniformly random nonzero field element
func (g *CoefficientGenerator) Coefficient() byte {
	return byte(1 + g.rng.Intn(field.Order-1))
}

// Generate returns a coding vector with one entry per slot of the storage. Present slots get a
// random nonzero coefficient, empty slots get zero, so the vector has exactly storage.Count()
// nonzero entries.
func (g *CoefficientGenerator) Generate(storage *SymbolStorage) []byte {
	coefficients := make([]byte, storage.MaxSymbols())
	for i := range coefficients {
		if storage.Has(i) {
			coefficients[i] = g.Coefficient()
		}
	}
	return coefficients
}

// randomSeed reads a seed from the operating system's entropy source
func randomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		log.Warnf("falling back to a fixed seed; crypto/rand failed: %v", err)
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
