package host

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ppopth/onthefly-rlnc/channel"

	quic "github.com/quic-go/quic-go"
)

// MaxFrameSize bounds a single packet carried over a stream connection
const MaxFrameSize = 1 << 20

type Sender interface {
	Send([]byte) error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

type Receiver interface {
	Receive(context.Context) ([]byte, error)

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// Connection is a packet-oriented link to one peer
type Connection interface {
	Sender
	Receiver

	Close() error
}

// ByteCounter tracks sent and received bytes
type ByteCounter interface {
	AddBytesSent(n uint64)
	AddBytesReceived(n uint64)
}

// quicDatagramConnection sends every packet as one QUIC datagram
type quicDatagramConnection struct {
	conn    quic.Connection
	counter ByteCounter
}

func (qc *quicDatagramConnection) Send(buf []byte) error {
	if err := qc.conn.SendDatagram(buf); err != nil {
		return err
	}
	if qc.counter != nil {
		qc.counter.AddBytesSent(uint64(len(buf)))
	}
	return nil
}

func (qc *quicDatagramConnection) Receive(ctx context.Context) ([]byte, error) {
	buf, err := qc.conn.ReceiveDatagram(ctx)
	if err != nil {
		return nil, err
	}
	if qc.counter != nil {
		qc.counter.AddBytesReceived(uint64(len(buf)))
	}
	return buf, nil
}

func (qc *quicDatagramConnection) LocalAddr() net.Addr {
	return qc.conn.LocalAddr()
}

func (qc *quicDatagramConnection) RemoteAddr() net.Addr {
	return qc.conn.RemoteAddr()
}

func (qc *quicDatagramConnection) Close() error {
	return qc.conn.CloseWithError(0, "")
}

// quicStreamConnection carries packets as 4-byte big-endian length-prefixed frames. Each side
// sends on the stream it opens and receives on the stream the other side opens.
type quicStreamConnection struct {
	conn    quic.Connection
	counter ByteCounter

	sendMutex  sync.Mutex // Serializes frames on sendStream
	sendStream quic.Stream

	recvMutex  sync.Mutex    // Serializes frame reads on recvStream
	recvStream quic.Stream   // Valid once recvReady is closed
	recvReady  chan struct{} // Closed when recvStream is available
}

func newQuicStreamConnection(ctx context.Context, conn quic.Connection, counter ByteCounter) *quicStreamConnection {
	sc := &quicStreamConnection{
		conn:      conn,
		counter:   counter,
		recvReady: make(chan struct{}),
	}
	go sc.acceptStream(ctx)
	return sc
}

func (qc *quicStreamConnection) acceptStream(ctx context.Context) {
	stream, err := qc.conn.AcceptStream(ctx)
	if err != nil {
		log.Debugf("no incoming stream from %s: %v", qc.conn.RemoteAddr(), err)
		return
	}
	qc.recvStream = stream
	close(qc.recvReady)
}

func (qc *quicStreamConnection) Send(buf []byte) error {
	if len(buf) > MaxFrameSize {
		return fmt.Errorf("the packet (%d bytes) exceeds the maximum frame size (%d bytes)", len(buf), MaxFrameSize)
	}

	qc.sendMutex.Lock()
	defer qc.sendMutex.Unlock()

	// The stream is opened lazily so that the peer accepts it on the first frame
	if qc.sendStream == nil {
		stream, err := qc.conn.OpenStreamSync(qc.conn.Context())
		if err != nil {
			return err
		}
		qc.sendStream = stream
	}

	frame := make([]byte, 4, 4+len(buf))
	binary.BigEndian.PutUint32(frame, uint32(len(buf)))
	frame = append(frame, buf...)
	if _, err := qc.sendStream.Write(frame); err != nil {
		return err
	}
	if qc.counter != nil {
		qc.counter.AddBytesSent(uint64(len(frame)))
	}
	return nil
}

func (qc *quicStreamConnection) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-qc.recvReady:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-qc.conn.Context().Done():
		return nil, fmt.Errorf("the connection has been closed")
	}

	qc.recvMutex.Lock()
	defer qc.recvMutex.Unlock()

	// Unblock the read when the context is done
	stop := context.AfterFunc(ctx, func() {
		qc.recvStream.SetReadDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			qc.recvStream.SetReadDeadline(time.Time{})
		}
	}()

	var header [4]byte
	if _, err := io.ReadFull(qc.recvStream, header[:]); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("the frame (%d bytes) exceeds the maximum frame size (%d bytes)", length, MaxFrameSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(qc.recvStream, buf); err != nil {
		// The frame boundary is lost, so the stream cannot be used anymore
		qc.conn.CloseWithError(0, "truncated frame")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if qc.counter != nil {
		qc.counter.AddBytesReceived(uint64(len(header) + len(buf)))
	}
	return buf, nil
}

func (qc *quicStreamConnection) LocalAddr() net.Addr {
	return qc.conn.LocalAddr()
}

func (qc *quicStreamConnection) RemoteAddr() net.Addr {
	return qc.conn.RemoteAddr()
}

func (qc *quicStreamConnection) Close() error {
	return qc.conn.CloseWithError(0, "")
}

// lossyConnection silently drops outgoing packets the lossy channel rejects
type lossyConnection struct {
	Connection
	lossy *channel.Lossy
}

func (lc *lossyConnection) Send(buf []byte) error {
	if !lc.lossy.Deliver() {
		return nil
	}
	return lc.Connection.Send(buf)
}
