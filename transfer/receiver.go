package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppopth/onthefly-rlnc/ec/encode"
	"github.com/ppopth/onthefly-rlnc/host"
	"github.com/ppopth/onthefly-rlnc/pb"

	"github.com/gogo/protobuf/proto"
)

const (
	// DefaultMaxSymbols bounds the number of symbols of an incoming block
	DefaultMaxSymbols = 1024
	// DefaultMaxDecoderSize bounds the memory the decoder of a single incoming block may claim
	DefaultMaxDecoderSize = 16 << 20
	// DefaultAckInterval is the number of packets between two progress acknowledgements
	DefaultAckInterval = 8
	// DefaultFinishedTTL is how long a decoded block is remembered to answer late packets
	DefaultFinishedTTL = 2 * time.Minute
	// DefaultStalledTTL is how long an unfinished block is kept without receiving a packet
	DefaultStalledTTL = time.Minute
)

var sweepInterval = 10 * time.Second

// ReceiverOption configures a Receiver during construction
type ReceiverOption func(*Receiver) error

// WithMaxSymbols rejects blocks of more than n symbols
func WithMaxSymbols(n int) ReceiverOption {
	return func(r *Receiver) error {
		if n <= 0 {
			return fmt.Errorf("the max symbols (%d) must be positive", n)
		}
		r.maxSymbols = n
		return nil
	}
}

// WithMaxDecoderSize rejects blocks whose full decoder would hold more than size bytes of
// coefficients and data
func WithMaxDecoderSize(size int) ReceiverOption {
	return func(r *Receiver) error {
		if size <= 0 {
			return fmt.Errorf("the max decoder size (%d) must be positive", size)
		}
		r.maxDecoderSize = size
		return nil
	}
}

// WithAckInterval acknowledges progress every interval packets
func WithAckInterval(interval int) ReceiverOption {
	return func(r *Receiver) error {
		if interval <= 0 {
			return fmt.Errorf("the ack interval (%d) must be positive", interval)
		}
		r.ackInterval = interval
		return nil
	}
}

// WithDecoderFactory plugs in a custom decoder, the default is the RLNC decoder
func WithDecoderFactory(factory DecoderFactory) ReceiverOption {
	return func(r *Receiver) error {
		r.newDecoder = factory
		return nil
	}
}

// WithFinishedTTL sets how long decoded blocks are remembered
func WithFinishedTTL(ttl time.Duration) ReceiverOption {
	return func(r *Receiver) error {
		if ttl <= 0 {
			return fmt.Errorf("the ttl (%v) must be positive", ttl)
		}
		r.finishedTTL = ttl
		return nil
	}
}

// WithStalledTTL sets how long an unfinished block survives without new packets
func WithStalledTTL(ttl time.Duration) ReceiverOption {
	return func(r *Receiver) error {
		if ttl <= 0 {
			return fmt.Errorf("the ttl (%v) must be positive", ttl)
		}
		r.stalledTTL = ttl
		return nil
	}
}

// Block is a decoded block
type Block struct {
	ID              uint64
	Data            []byte
	PacketsReceived int // Packets fed to the decoder, including redundant ones
}

// incomingBlock is a block still being decoded
type incomingBlock struct {
	decoder    encode.Decoder
	maxSymbols int
	symbolSize int
	packets    int
	lastActive time.Time // When the last valid packet arrived
}

// Receiver decodes the blocks a Sender streams over one connection and acknowledges them
type Receiver struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	conn           host.Connection
	maxSymbols     int
	maxDecoderSize int
	ackInterval    int
	finishedTTL    time.Duration
	stalledTTL     time.Duration
	newDecoder     DecoderFactory

	mutex    sync.Mutex
	cond     *sync.Cond
	blocks   map[uint64]*incomingBlock
	finished *timeCache[uint64] // Blocks already decoded
	received []*Block           // Decoded blocks not yet taken by Next
}

// NewReceiver creates a receiver on conn and starts decoding incoming packets
func NewReceiver(conn host.Connection, opts ...ReceiverOption) (*Receiver, error) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Receiver{
		ctx:    ctx,
		cancel: cancel,

		conn:           conn,
		maxSymbols:     DefaultMaxSymbols,
		maxDecoderSize: DefaultMaxDecoderSize,
		ackInterval:    DefaultAckInterval,
		finishedTTL:    DefaultFinishedTTL,
		stalledTTL:     DefaultStalledTTL,
		newDecoder:     newRlncDecoder,

		blocks: make(map[uint64]*incomingBlock),
	}
	r.cond = sync.NewCond(&r.mutex)
	for _, opt := range opts {
		if err := opt(r); err != nil {
			cancel()
			return nil, err
		}
	}
	r.finished = newTimeCache[uint64](r.finishedTTL)

	r.wg.Add(2)
	go r.receiveLoop()
	go r.sweepLoop()

	return r, nil
}

// Next blocks until a block has been decoded and returns it. Blocks are returned in the order
// they complete.
func (r *Receiver) Next(ctx context.Context) (*Block, error) {
	// Wake the waiters when either context is done
	stop := context.AfterFunc(ctx, func() {
		r.mutex.Lock()
		defer r.mutex.Unlock()
		r.cond.Broadcast()
	})
	defer stop()

	r.mutex.Lock()
	defer r.mutex.Unlock()
	for len(r.received) == 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("the call has been cancelled")
		case <-r.ctx.Done():
			return nil, fmt.Errorf("the receiver has been closed")
		default:
		}
		r.cond.Wait()
	}
	block := r.received[0]
	r.received = r.received[1:]
	return block, nil
}

// InProgress returns the number of blocks being decoded
func (r *Receiver) InProgress() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.blocks)
}

func (r *Receiver) receiveLoop() {
	defer r.wg.Done()
	for {
		buf, err := r.conn.Receive(r.ctx)
		if err != nil {
			log.Debugf("receiver stopped receiving: %v", err)
			return
		}
		rpc := &pb.TransferRpc{}
		if err := rpc.Unmarshal(buf); err != nil {
			log.Warnf("invalid packet received: %v", err)
			continue
		}
		if packet := rpc.GetPacket(); packet != nil {
			ack := r.handlePacket(packet)
			if ack == nil {
				continue
			}
			if err := sendRPC(&pb.TransferRpc{Ack: ack}, r.conn); err != nil {
				log.Warnf("failed to acknowledge block %d: %v", ack.GetBlockID(), err)
			}
		}
	}
}

// sweepLoop periodically forgets expired finished blocks and drops stalled ones
func (r *Receiver) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.sweep(now)
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Receiver) sweep(now time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.finished.Sweep(now)
	for blockID, state := range r.blocks {
		if now.Sub(state.lastActive) >= r.stalledTTL {
			delete(r.blocks, blockID)
			log.Infof("dropped stalled block %d at rank %d after %d packets",
				blockID, state.decoder.Rank(), state.packets)
		}
	}
}

// checkDimensions validates the dimensions a peer declares for a new block against the packet
// that carries them and against the receiver's limits
func (r *Receiver) checkDimensions(maxSymbols, symbolSize, packetSize int) error {
	if maxSymbols <= 0 || symbolSize <= 0 {
		return fmt.Errorf("max symbols (%d) and symbol size (%d) must be positive", maxSymbols, symbolSize)
	}
	if maxSymbols > r.maxSymbols {
		return fmt.Errorf("%d symbols exceed the limit of %d", maxSymbols, r.maxSymbols)
	}
	if packetSize != maxSymbols+symbolSize {
		return fmt.Errorf("a packet of %d bytes cannot carry %d coefficients and %d bytes of payload",
			packetSize, maxSymbols, symbolSize)
	}
	// A full decoder holds one row of coefficients and data per symbol
	if size := int64(maxSymbols) * int64(maxSymbols+symbolSize); size > int64(r.maxDecoderSize) {
		return fmt.Errorf("a decoder of %d bytes exceeds the limit of %d", size, r.maxDecoderSize)
	}
	return nil
}

// handlePacket feeds a packet to the decoder of its block and returns the acknowledgement to
// send, if any
func (r *Receiver) handlePacket(packet *pb.BlockPacket) *pb.BlockAck {
	blockID := packet.GetBlockID()
	maxSymbols := int(packet.GetMaxSymbols())
	symbolSize := int(packet.GetSymbolSize())

	now := time.Now()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// The sender hasn't seen the completion yet
	if r.finished.Has(blockID, now) {
		return &pb.BlockAck{
			BlockID:  proto.Uint64(blockID),
			Rank:     proto.Uint32(uint32(maxSymbols)),
			Complete: proto.Bool(true),
		}
	}

	state, ok := r.blocks[blockID]
	if !ok {
		if err := r.checkDimensions(maxSymbols, symbolSize, len(packet.GetPacket())); err != nil {
			log.Warnf("rejected block %d: %v", blockID, err)
			return nil
		}
		decoder, err := r.newDecoder(maxSymbols, symbolSize)
		if err != nil {
			log.Warnf("failed to create a decoder for block %d: %v", blockID, err)
			return nil
		}
		state = &incomingBlock{
			decoder:    decoder,
			maxSymbols: maxSymbols,
			symbolSize: symbolSize,
		}
	}
	if state.maxSymbols != maxSymbols || state.symbolSize != symbolSize {
		log.Warnf("packet of block %d has mismatched dimensions %dx%d", blockID, maxSymbols, symbolSize)
		return nil
	}

	if err := state.decoder.ReadPayload(packet.GetPacket()); err != nil {
		log.Warnf("invalid packet of block %d: %v", blockID, err)
		return nil
	}
	// Only a block whose first packet was accepted is tracked
	if !ok {
		r.blocks[blockID] = state
		log.Debugf("started decoding block %d", blockID)
	}
	state.packets++
	state.lastActive = now

	if state.decoder.IsComplete() {
		data, err := state.decoder.CopyDecodedBlock()
		if err != nil {
			log.Errorf("failed to copy decoded block %d: %v", blockID, err)
			return nil
		}
		delete(r.blocks, blockID)
		r.finished.Add(blockID, now)
		r.received = append(r.received, &Block{
			ID:              blockID,
			Data:            data,
			PacketsReceived: state.packets,
		})
		r.cond.Broadcast()
		log.Infof("decoded block %d from %d packets", blockID, state.packets)
		return &pb.BlockAck{
			BlockID:  proto.Uint64(blockID),
			Rank:     proto.Uint32(uint32(maxSymbols)),
			Complete: proto.Bool(true),
		}
	}

	if state.packets%r.ackInterval == 0 {
		return &pb.BlockAck{
			BlockID:  proto.Uint64(blockID),
			Rank:     proto.Uint32(uint32(state.decoder.Rank())),
			Complete: proto.Bool(false),
		}
	}
	return nil
}

// Close stops the receiver and wakes up pending Next calls. It does not close the connection.
func (r *Receiver) Close() error {
	r.cancel()
	r.wg.Wait()

	r.mutex.Lock()
	r.cond.Broadcast()
	r.mutex.Unlock()

	return nil
}
