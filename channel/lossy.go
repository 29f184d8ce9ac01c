package channel

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"sync"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("channel")

type LossyConfig struct {
	// Probability that a packet is dropped, in [0, 1].
	DropRate float64
	// Source of randomness for drop decisions. Nil means a source seeded from crypto/rand.
	Source mrand.Source
}

func DefaultLossyConfig() *LossyConfig {
	return &LossyConfig{
		DropRate: 0.5,
	}
}

// Stats counts what happened to the packets offered to a lossy channel
type Stats struct {
	Sent      uint64 // Packets offered to the channel
	Dropped   uint64 // Packets the channel dropped
	Delivered uint64 // Packets the channel let through
}

// Lossy drops packets independently with a fixed probability. It is safe for concurrent use.
type Lossy struct {
	mutex sync.Mutex // Protects rng and stats

	rng      *mrand.Rand
	dropRate float64
	stats    Stats
}

// NewLossy creates a lossy channel
func NewLossy(config *LossyConfig) (*Lossy, error) {
	if config == nil {
		config = DefaultLossyConfig()
	}
	if config.DropRate < 0 || config.DropRate > 1 {
		return nil, fmt.Errorf("the drop rate (%v) must be within [0, 1]", config.DropRate)
	}
	source := config.Source
	if source == nil {
		source = mrand.NewSource(randomSeed())
	}
	return &Lossy{
		rng:      mrand.New(source),
		dropRate: config.DropRate,
	}, nil
}

// Deliver decides the fate of one packet. It returns false if the packet is dropped.
func (l *Lossy) Deliver() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.stats.Sent++
	if l.rng.Float64() < l.dropRate {
		l.stats.Dropped++
		log.Debugf("packet %d dropped", l.stats.Sent)
		return false
	}
	l.stats.Delivered++
	return true
}

// Transmit passes packet through the channel. It returns the packet and true if it is
// delivered, or nil and false if it is dropped.
func (l *Lossy) Transmit(packet []byte) ([]byte, bool) {
	if !l.Deliver() {
		return nil, false
	}
	return packet, true
}

// Stats returns a snapshot of the counters
func (l *Lossy) Stats() Stats {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.stats
}

// DropRate returns the configured drop probability
func (l *Lossy) DropRate() float64 {
	return l.dropRate
}

func randomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		log.Warnf("falling back to a fixed seed; crypto/rand failed: %v", err)
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
