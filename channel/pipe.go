package channel

import (
	"context"
	"errors"
	"net"
	"sync"
)

// DefaultPipeCapacity is the number of packets an endpoint buffers before it starts dropping
const DefaultPipeCapacity = 1024

var ErrClosed = errors.New("the connection has been closed")

type pipeAddr string

func (a pipeAddr) Network() string { return "pipe" }
func (a pipeAddr) String() string  { return string(a) }

// Endpoint is one end of an in-memory packet pipe. Like a datagram socket it preserves packet
// boundaries, does not retransmit and drops packets when the receiver's buffer is full.
type Endpoint struct {
	local  net.Addr
	remote net.Addr

	incoming chan []byte
	peer     *Endpoint
	loss     *Lossy // Applied to outgoing packets, nil for a perfect link

	closed    chan struct{}
	closeOnce sync.Once
}

// Pipe returns two connected endpoints. Packets sent on either end go through loss, which may
// be nil, and are buffered up to capacity packets at the other end.
func Pipe(loss *Lossy, capacity int) (*Endpoint, *Endpoint) {
	if capacity <= 0 {
		capacity = DefaultPipeCapacity
	}
	a := &Endpoint{
		local:    pipeAddr("pipe-a"),
		remote:   pipeAddr("pipe-b"),
		incoming: make(chan []byte, capacity),
		loss:     loss,
		closed:   make(chan struct{}),
	}
	b := &Endpoint{
		local:    pipeAddr("pipe-b"),
		remote:   pipeAddr("pipe-a"),
		incoming: make(chan []byte, capacity),
		loss:     loss,
		closed:   make(chan struct{}),
	}
	a.peer = b
	b.peer = a
	return a, b
}

// Send copies buf to the other end
func (e *Endpoint) Send(buf []byte) error {
	select {
	case <-e.closed:
		return ErrClosed
	case <-e.peer.closed:
		return ErrClosed
	default:
	}
	if e.loss != nil && !e.loss.Deliver() {
		return nil
	}

	packet := append([]byte(nil), buf...)
	select {
	case e.peer.incoming <- packet:
	default:
		log.Debugf("%s: receive buffer full, packet dropped", e.remote)
	}
	return nil
}

// Receive blocks until a packet arrives, the context is done or either end is closed
func (e *Endpoint) Receive(ctx context.Context) ([]byte, error) {
	select {
	case packet := <-e.incoming:
		return packet, nil
	default:
	}
	select {
	case packet := <-e.incoming:
		return packet, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.closed:
		return nil, ErrClosed
	case <-e.peer.closed:
		return nil, ErrClosed
	}
}

func (e *Endpoint) LocalAddr() net.Addr {
	return e.local
}

func (e *Endpoint) RemoteAddr() net.Addr {
	return e.remote
}

// Close closes this end. Pending and future calls on both ends fail with ErrClosed.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		close(e.closed)
	})
	return nil
}
