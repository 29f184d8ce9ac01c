// Command onthefly encodes a block while its symbols are still arriving, sends the packets over a
// simulated lossy channel and decodes them, reporting the decoder state after every packet.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"flag"
	mrand "math/rand"
	"os"
	"time"

	"github.com/ppopth/onthefly-rlnc/channel"
	"github.com/ppopth/onthefly-rlnc/ec/encode/rlnc"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("onthefly")

var (
	maxSymbolsFlag  = flag.Int("max-symbols", 10, "the number of symbols in the block")
	symbolSizeFlag  = flag.Int("symbol-size", 1, "the size of every symbol in bytes")
	dropRateFlag    = flag.Float64("drop-rate", 0.5, "the probability that the channel drops a packet")
	arrivalRateFlag = flag.Float64("arrival-rate", 0.5, "the probability that a new symbol arrives before each packet")
	seedFlag        = flag.Int64("seed", 0, "seed for all randomness, 0 picks one from the clock")
	logLevelFlag    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := logging.LevelFromString(*logLevelFlag)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevelFlag, err)
	}
	logging.SetAllLoggers(level)

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Infof("Using seed %d", seed)
	rng := mrand.New(mrand.NewSource(seed))

	encoder, err := rlnc.NewEncoder(&rlnc.EncoderConfig{
		MaxSymbols: *maxSymbolsFlag,
		SymbolSize: *symbolSizeFlag,
		Source:     mrand.NewSource(rng.Int63()),
	})
	if err != nil {
		log.Fatalf("Failed to create encoder: %v", err)
	}
	decoder, err := rlnc.NewDecoder(&rlnc.DecoderConfig{
		MaxSymbols: *maxSymbolsFlag,
		SymbolSize: *symbolSizeFlag,
	})
	if err != nil {
		log.Fatalf("Failed to create decoder: %v", err)
	}
	lossy, err := channel.NewLossy(&channel.LossyConfig{
		DropRate: *dropRateFlag,
		Source:   mrand.NewSource(rng.Int63()),
	})
	if err != nil {
		log.Fatalf("Failed to create channel: %v", err)
	}
	if *arrivalRateFlag <= 0 || *arrivalRateFlag > 1 {
		log.Fatalf("The arrival rate %v must be within (0, 1]", *arrivalRateFlag)
	}

	block := make([]byte, encoder.BlockSize())
	if _, err := rand.Read(block); err != nil {
		log.Fatalf("Failed to generate data: %v", err)
	}
	log.Infof("Data: %s", hex.EncodeToString(block))

	symbolSize := encoder.SymbolSize()
	lost, received := 0, 0
	for !decoder.IsComplete() {
		// Randomly let the next symbol arrive
		if rank := encoder.Rank(); rank < encoder.MaxSymbols() && rng.Float64() < *arrivalRateFlag {
			if err := encoder.SetSymbolByReference(rank, block[rank*symbolSize:(rank+1)*symbolSize]); err != nil {
				log.Fatalf("Failed to add symbol %d: %v", rank, err)
			}
			log.Infof("Symbol %d added to the encoder", rank)
		}
		if encoder.Rank() == 0 {
			continue
		}

		payload, err := encoder.WritePayload()
		if err != nil {
			log.Fatalf("Failed to encode: %v", err)
		}
		log.Debugf("Packet encoded: %s", hex.EncodeToString(payload))

		payload, ok := lossy.Transmit(payload)
		if !ok {
			lost++
			log.Infof("Packet dropped on channel")
			continue
		}

		received++
		if err := decoder.ReadPayload(payload); err != nil {
			log.Fatalf("Failed to decode: %v", err)
		}
		log.Debugf("Decoder state:\n%s", decoder)
		log.Infof("Encoder rank = %d, decoder rank = %d", encoder.Rank(), decoder.Rank())
		log.Infof("Decoder uncoded = %d %v, partially decoded = %d",
			decoder.UncodedCount(), decoder.UncodedIndices(), decoder.PartiallyDecodedCount())
	}

	log.Infof("Processing finished, %d payloads lost, %d payloads received", lost, received)

	decoded, err := decoder.CopyDecodedBlock()
	if err != nil {
		log.Fatalf("Failed to copy the decoded block: %v", err)
	}
	if !bytes.Equal(decoded, block) {
		log.Errorf("Decoded data does not match")
		os.Exit(1)
	}
	log.Infof("Data decoded correctly")
}
