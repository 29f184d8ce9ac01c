// Command rlnc-transfer sends random blocks to a peer over QUIC using on-the-fly random linear
// network coding, or receives them.
//
//	rlnc-transfer -mode receive -l 7101
//	rlnc-transfer -mode send -c 127.0.0.1:7101 -blocks 10
//	rlnc-transfer -mode loopback -drop-rate 0.3
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"flag"
	"fmt"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"time"

	"github.com/ppopth/onthefly-rlnc/channel"
	"github.com/ppopth/onthefly-rlnc/host"
	"github.com/ppopth/onthefly-rlnc/transfer"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("rlnc-transfer")

var (
	modeFlag        = flag.String("mode", "loopback", "send, receive or loopback")
	listenFlag      = flag.Uint("l", host.DefaultPort, "the listening port")
	connectFlag     = flag.String("c", "", "the address of the receiver (e.g., 127.0.0.1:7101)")
	transportFlag   = flag.String("transport", "datagram", "how packets are carried (datagram or stream)")
	dropRateFlag    = flag.Float64("drop-rate", 0, "the probability that an outgoing packet is dropped")
	blocksFlag      = flag.Int("blocks", 5, "the number of blocks to send")
	maxSymbolsFlag  = flag.Int("max-symbols", 32, "the number of symbols in a block")
	symbolSizeFlag  = flag.Int("symbol-size", 1024, "the size of every symbol in bytes")
	arrivalRateFlag = flag.Float64("arrival-rate", 1, "the probability that a new symbol arrives before each packet")
	systematicFlag  = flag.Bool("systematic", false, "send every symbol once uncoded")
	intervalFlag    = flag.Duration("interval", time.Millisecond, "the pause between two packets")
	logLevelFlag    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	level, err := logging.LevelFromString(*logLevelFlag)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevelFlag, err)
	}
	logging.SetAllLoggers(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *modeFlag {
	case "send":
		err = runSend(ctx)
	case "receive":
		err = runReceive(ctx)
	case "loopback":
		err = runLoopback(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", *modeFlag)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func hostOptions(addrPort netip.AddrPort) ([]host.HostOption, error) {
	mode, err := host.ParseTransportMode(*transportFlag)
	if err != nil {
		return nil, err
	}
	opts := []host.HostOption{
		host.WithAddrPort(addrPort),
		host.WithTransportMode(mode),
	}
	if *dropRateFlag > 0 {
		lossy, err := channel.NewLossy(&channel.LossyConfig{DropRate: *dropRateFlag})
		if err != nil {
			return nil, err
		}
		opts = append(opts, host.WithLossyChannel(lossy))
	}
	return opts, nil
}

func senderParams() transfer.SenderParams {
	params := transfer.DefaultSenderParams()
	params.MaxSymbols = *maxSymbolsFlag
	params.SymbolSize = *symbolSizeFlag
	params.SymbolArrivalRate = *arrivalRateFlag
	params.Systematic = *systematicFlag
	params.PacketInterval = *intervalFlag
	return params
}

// sendBlocks sends random blocks and logs a digest of each so the receiver's log can be compared
func sendBlocks(ctx context.Context, conn host.Connection) error {
	s, err := transfer.NewSender(conn, transfer.WithSenderParams(senderParams()))
	if err != nil {
		return err
	}
	defer s.Close()

	for i := 0; i < *blocksFlag; i++ {
		block := make([]byte, s.BlockSize())
		if _, err := rand.Read(block); err != nil {
			return err
		}
		start := time.Now()
		result, err := s.Send(ctx, block)
		if err != nil {
			return err
		}
		log.Infof("Sent block %d (%x) with %d packets in %v",
			result.BlockID, sha256.Sum256(block), result.PacketsSent, time.Since(start))
	}
	return nil
}

// receiveBlocks waits for count blocks, or forever if count is negative
func receiveBlocks(ctx context.Context, conn host.Connection, count int) error {
	r, err := transfer.NewReceiver(conn)
	if err != nil {
		return err
	}
	defer r.Close()

	for i := 0; count < 0 || i < count; i++ {
		block, err := r.Next(ctx)
		if err != nil {
			return err
		}
		log.Infof("Received block %d (%x) from %d packets",
			block.ID, sha256.Sum256(block.Data), block.PacketsReceived)
	}
	return nil
}

func runSend(ctx context.Context) error {
	if *connectFlag == "" {
		return fmt.Errorf("the receiver address is required in send mode")
	}
	addr, err := net.ResolveUDPAddr("udp", *connectFlag)
	if err != nil {
		return err
	}
	opts, err := hostOptions(netip.AddrPortFrom(netip.IPv4Unspecified(), 0))
	if err != nil {
		return err
	}
	h, err := host.NewHost(opts...)
	if err != nil {
		return err
	}
	defer h.Close()

	peerID, err := h.Connect(ctx, addr)
	if err != nil {
		return err
	}
	log.Infof("Connected to %s at %s", peerID, addr)
	conn, ok := h.Connection(peerID)
	if !ok {
		return fmt.Errorf("the connection to %s was lost", peerID)
	}
	return sendBlocks(ctx, conn)
}

func runReceive(ctx context.Context) error {
	opts, err := hostOptions(netip.AddrPortFrom(netip.IPv4Unspecified(), uint16(*listenFlag)))
	if err != nil {
		return err
	}
	h, err := host.NewHost(opts...)
	if err != nil {
		return err
	}
	defer h.Close()
	log.Infof("Host %s listening on %s", h.ID(), h.LocalAddr())

	peerID, conn, err := h.WaitForPeer(ctx)
	if err != nil {
		return err
	}
	log.Infof("Peer %s connected from %s", peerID, conn.RemoteAddr())
	return receiveBlocks(ctx, conn, -1)
}

// runLoopback runs a receiving and a sending host in one process
func runLoopback(ctx context.Context) error {
	loopback := netip.MustParseAddrPort("127.0.0.1:0")
	receiverOpts, err := hostOptions(loopback)
	if err != nil {
		return err
	}
	receiverHost, err := host.NewHost(receiverOpts...)
	if err != nil {
		return err
	}
	defer receiverHost.Close()

	senderOpts, err := hostOptions(loopback)
	if err != nil {
		return err
	}
	senderHost, err := host.NewHost(senderOpts...)
	if err != nil {
		return err
	}
	defer senderHost.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, conn, err := receiverHost.WaitForPeer(ctx)
		if err != nil {
			return err
		}
		return receiveBlocks(ctx, conn, *blocksFlag)
	})
	g.Go(func() error {
		peerID, err := senderHost.Connect(ctx, receiverHost.LocalAddr())
		if err != nil {
			return err
		}
		conn, ok := senderHost.Connection(peerID)
		if !ok {
			return fmt.Errorf("the connection to %s was lost", peerID)
		}
		return sendBlocks(ctx, conn)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sent, received := senderHost.GetBytesSent(), receiverHost.GetBytesReceived()
	log.Infof("Loopback finished, %d bytes sent, %d bytes received", sent, received)
	return nil
}
