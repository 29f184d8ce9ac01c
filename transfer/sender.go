package transfer

import (
	"context"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/ppopth/onthefly-rlnc/ec/encode"
	"github.com/ppopth/onthefly-rlnc/host"
	"github.com/ppopth/onthefly-rlnc/pb"

	"github.com/gogo/protobuf/proto"
)

type SenderParams struct {
	// The number of symbols in a block.
	MaxSymbols int
	// The size of every symbol in bytes.
	SymbolSize int
	// Pause between two packets. Zero sends as fast as the connection accepts.
	PacketInterval time.Duration
	// Probability that the next symbol of the block becomes available before each packet. With 1
	// the whole block is available up front; below 1 the block is encoded on the fly while its
	// symbols trickle in.
	SymbolArrivalRate float64
	// Send every symbol once uncoded as soon as it becomes available.
	Systematic bool
	// Give up on a block after this many packets. Zero means no limit.
	MaxPackets int
}

func DefaultSenderParams() SenderParams {
	return SenderParams{
		MaxSymbols:        32,   // 32 symbols per block
		SymbolSize:        1024, // A packet with its envelope still fits in one QUIC datagram
		PacketInterval:    time.Millisecond,
		SymbolArrivalRate: 1,
		MaxPackets:        0,
	}
}

// SenderOption configures a Sender during construction
type SenderOption func(*Sender) error

// WithSenderParams sets custom sender parameters
func WithSenderParams(params SenderParams) SenderOption {
	return func(s *Sender) error {
		if params.MaxSymbols <= 0 || params.SymbolSize <= 0 {
			return fmt.Errorf("max symbols (%d) and symbol size (%d) must be positive",
				params.MaxSymbols, params.SymbolSize)
		}
		if params.SymbolArrivalRate <= 0 || params.SymbolArrivalRate > 1 {
			return fmt.Errorf("the symbol arrival rate (%v) must be within (0, 1]", params.SymbolArrivalRate)
		}
		if params.PacketInterval < 0 || params.MaxPackets < 0 {
			return fmt.Errorf("the packet interval (%v) and max packets (%d) must not be negative",
				params.PacketInterval, params.MaxPackets)
		}
		s.params = params
		return nil
	}
}

// WithEncoderFactory plugs in a custom encoder, the default is the RLNC encoder
func WithEncoderFactory(factory EncoderFactory) SenderOption {
	return func(s *Sender) error {
		s.newEncoder = factory
		return nil
	}
}

// WithArrivalSource sets the source of randomness deciding when symbols arrive
func WithArrivalSource(source mrand.Source) SenderOption {
	return func(s *Sender) error {
		s.rng = mrand.New(source)
		return nil
	}
}

// SendResult summarizes one block transfer
type SendResult struct {
	BlockID      uint64
	PacketsSent  int
	ReceiverRank int // Last rank the receiver acknowledged
}

// outgoingBlock tracks the receiver's progress on one block
type outgoingBlock struct {
	rank     int
	complete bool
	done     chan struct{} // Closed once the receiver reports completion
}

// Sender streams coded packets of blocks over one connection until the receiver acknowledges
// each block as complete
type Sender struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	conn       host.Connection
	params     SenderParams
	newEncoder EncoderFactory

	mutex       sync.Mutex                // Protects the fields below
	rng         *mrand.Rand               // Decides when symbols arrive
	nextBlockID uint64                    // ID of the next block to send
	blocks      map[uint64]*outgoingBlock // Blocks in flight
}

// NewSender creates a sender on conn and starts listening for acknowledgements
func NewSender(conn host.Connection, opts ...SenderOption) (*Sender, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Sender{
		ctx:    ctx,
		cancel: cancel,

		conn:       conn,
		params:     DefaultSenderParams(),
		newEncoder: newRlncEncoder,
		rng:        mrand.New(mrand.NewSource(time.Now().UnixNano())),
		blocks:     make(map[uint64]*outgoingBlock),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}

	s.wg.Add(1)
	go s.receiveLoop()

	return s, nil
}

// BlockSize returns the size of the blocks this sender accepts
func (s *Sender) BlockSize() int {
	return s.params.MaxSymbols * s.params.SymbolSize
}

// Send transfers one block and returns once the receiver has decoded it. The encoder reads the
// block in place, so it must not be modified until Send returns.
func (s *Sender) Send(ctx context.Context, block []byte) (*SendResult, error) {
	if len(block) != s.BlockSize() {
		return nil, fmt.Errorf("the size of the block (%d) must be %d symbols of %d bytes",
			len(block), s.params.MaxSymbols, s.params.SymbolSize)
	}
	encoder, err := s.newEncoder(s.params.MaxSymbols, s.params.SymbolSize)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	blockID := s.nextBlockID
	s.nextBlockID++
	state := &outgoingBlock{done: make(chan struct{})}
	s.blocks[blockID] = state
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		delete(s.blocks, blockID)
		s.mutex.Unlock()
	}()

	result := &SendResult{BlockID: blockID}
	systematicSent := 0 // Symbols already sent uncoded
	if s.params.SymbolArrivalRate >= 1 {
		if err := s.addAllSymbols(encoder, block); err != nil {
			return nil, err
		}
	}

	var ticker *time.Ticker
	if s.params.PacketInterval > 0 {
		ticker = time.NewTicker(s.params.PacketInterval)
		defer ticker.Stop()
	}

	for {
		select {
		case <-state.done:
			result.ReceiverRank = s.receiverRank(state)
			log.Infof("block %d delivered after %d packets", blockID, result.PacketsSent)
			return result, nil
		case <-ctx.Done():
			return result, fmt.Errorf("the call has been cancelled")
		case <-s.ctx.Done():
			return result, fmt.Errorf("the sender has been closed")
		default:
		}

		if s.params.MaxPackets > 0 && result.PacketsSent >= s.params.MaxPackets {
			result.ReceiverRank = s.receiverRank(state)
			return result, fmt.Errorf("gave up on block %d after %d packets at receiver rank %d",
				blockID, result.PacketsSent, result.ReceiverRank)
		}

		payload, err := s.nextPayload(encoder, block, &systematicSent)
		if err != nil {
			return result, err
		}
		if payload != nil {
			rpc := &pb.TransferRpc{
				Packet: &pb.BlockPacket{
					BlockID:    proto.Uint64(blockID),
					MaxSymbols: proto.Uint32(uint32(s.params.MaxSymbols)),
					SymbolSize: proto.Uint32(uint32(s.params.SymbolSize)),
					Packet:     payload,
				},
			}
			if err := sendRPC(rpc, s.conn); err != nil {
				return result, fmt.Errorf("failed to send a packet of block %d: %w", blockID, err)
			}
			result.PacketsSent++
		}

		if ticker != nil {
			select {
			case <-ticker.C:
			case <-state.done:
			case <-ctx.Done():
			case <-s.ctx.Done():
			}
		}
	}
}

func (s *Sender) addAllSymbols(encoder encode.Encoder, block []byte) error {
	symbolSize := s.params.SymbolSize
	for i := 0; i < s.params.MaxSymbols; i++ {
		if err := encoder.SetSymbolByReference(i, block[i*symbolSize:(i+1)*symbolSize]); err != nil {
			return err
		}
	}
	return nil
}

// nextPayload lets the next symbol arrive if the dice say so and returns the next packet to
// send. In systematic mode every symbol is sent uncoded once before coded packets follow. It
// returns nil when there is nothing to send yet.
func (s *Sender) nextPayload(encoder encode.Encoder, block []byte, systematicSent *int) ([]byte, error) {
	index := encoder.Rank()
	if index < s.params.MaxSymbols && s.arrives() {
		symbolSize := s.params.SymbolSize
		if err := encoder.SetSymbolByReference(index, block[index*symbolSize:(index+1)*symbolSize]); err != nil {
			return nil, err
		}
		log.Debugf("symbol %d arrived, encoder rank %d", index, encoder.Rank())
	}
	if encoder.Rank() == 0 {
		return nil, nil
	}
	if systematic, ok := encoder.(systematicEncoder); ok && s.params.Systematic && *systematicSent < encoder.Rank() {
		payload, err := systematic.WriteSystematicPayload(*systematicSent)
		if err != nil {
			return nil, err
		}
		*systematicSent++
		return payload, nil
	}
	return encoder.WritePayload()
}

func (s *Sender) arrives() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rng.Float64() < s.params.SymbolArrivalRate
}

func (s *Sender) receiverRank(state *outgoingBlock) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return state.rank
}

// receiveLoop processes acknowledgements from the receiver
func (s *Sender) receiveLoop() {
	defer s.wg.Done()
	for {
		buf, err := s.conn.Receive(s.ctx)
		if err != nil {
			log.Debugf("sender stopped receiving: %v", err)
			return
		}
		rpc := &pb.TransferRpc{}
		if err := rpc.Unmarshal(buf); err != nil {
			log.Warnf("invalid packet received: %v", err)
			continue
		}
		if ack := rpc.GetAck(); ack != nil {
			s.handleAck(ack)
		}
	}
}

func (s *Sender) handleAck(ack *pb.BlockAck) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.blocks[ack.GetBlockID()]
	if !ok {
		return
	}
	if rank := int(ack.GetRank()); rank > state.rank {
		state.rank = rank
	}
	log.Debugf("block %d acknowledged at rank %d", ack.GetBlockID(), ack.GetRank())
	if ack.GetComplete() && !state.complete {
		state.complete = true
		close(state.done)
	}
}

// Close stops the sender. It does not close the connection.
func (s *Sender) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}
