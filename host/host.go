package host

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/ppopth/onthefly-rlnc/channel"

	quic "github.com/quic-go/quic-go"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
)

var log = logging.Logger("host")

const (
	DefaultPort        = 7101
	DefaultIdleTimeout = 30 * time.Second
)

// TransportMode defines how coded packets are carried over QUIC connections
type TransportMode int

const (
	// TransportDatagram sends every packet as an unreliable QUIC datagram
	TransportDatagram TransportMode = iota
	// TransportStream sends length-prefixed packets over one reliable QUIC stream per direction
	TransportStream
)

func (m TransportMode) String() string {
	switch m {
	case TransportDatagram:
		return "datagram"
	case TransportStream:
		return "stream"
	default:
		return fmt.Sprintf("TransportMode(%d)", int(m))
	}
}

// ParseTransportMode maps "datagram" or "stream" to a TransportMode
func ParseTransportMode(s string) (TransportMode, error) {
	switch s {
	case "datagram":
		return TransportDatagram, nil
	case "stream":
		return TransportStream, nil
	default:
		return 0, fmt.Errorf("unsupported transport mode: %q", s)
	}
}

// HostOption configures a Host during construction
type HostOption func(*Host) error

// NewHost creates a host listening for QUIC connections from peers
func NewHost(opts ...HostOption) (*Host, error) {
	ctx, cancel := context.WithCancel(context.Background())

	host := &Host{
		ctx:    ctx,
		cancel: cancel,

		endpoint:      net.UDPAddrFromAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), DefaultPort)),
		connections:   make(map[peer.ID]Connection),
		transportMode: TransportDatagram,
		idleTimeout:   DefaultIdleTimeout,
	}
	host.cond = sync.NewCond(&host.mutex)

	for _, opt := range opts {
		if err := opt(host); err != nil {
			cancel()
			return nil, err
		}
	}

	if host.privateKey == nil {
		_, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			cancel()
			return nil, err
		}
		if err := WithIdentity(privateKey)(host); err != nil {
			cancel()
			return nil, err
		}
	}

	var err error
	if host.certificate, err = createTLSCertFromKey(host.privateKey); err != nil {
		cancel()
		return nil, err
	}

	udpConn, err := net.ListenUDP("udp", host.endpoint)
	if err != nil {
		cancel()
		return nil, err
	}
	host.transport = &quic.Transport{
		Conn: udpConn,
	}

	// Peers authenticate each other with the identity carried in their certificates
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{*host.certificate},
		ClientAuth:   tls.RequireAnyClientCert,
	}
	host.listener, err = host.transport.Listen(tlsConfig, host.quicConfig())
	if err != nil {
		host.transport.Close()
		cancel()
		return nil, err
	}

	host.waitGroup.Add(1)
	go host.acceptLoop()

	return host, nil
}

func (h *Host) quicConfig() *quic.Config {
	return &quic.Config{
		EnableDatagrams: true,
		MaxIdleTimeout:  h.idleTimeout,
	}
}

// Connect dials a peer and returns its ID once the connection is registered
func (h *Host) Connect(ctx context.Context, addr net.Addr) (peer.ID, error) {
	// Dialing stops when either the host or the caller gives up
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	tlsConfig := &tls.Config{
		Certificates:       []tls.Certificate{*h.certificate},
		InsecureSkipVerify: true, // The peer ID is taken from the certificate instead of a CA chain
	}
	conn, err := h.transport.Dial(dialCtx, addr, tlsConfig, h.quicConfig())
	if err != nil {
		return "", err
	}

	peerID, err := h.handleConnection(conn)
	if err != nil {
		conn.CloseWithError(0, err.Error())
		return "", err
	}
	log.Infof("connected to %s at %s", peerID, addr)
	return peerID, nil
}

// WaitForPeer blocks until at least one peer is connected and returns one of them
func (h *Host) WaitForPeer(ctx context.Context) (peer.ID, Connection, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	unregisterAfterFunc := context.AfterFunc(ctx, func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		h.cond.Broadcast()
	})
	defer unregisterAfterFunc()

	for {
		for peerID, conn := range h.connections {
			return peerID, conn, nil
		}
		select {
		case <-ctx.Done():
			return "", nil, fmt.Errorf("the call has been cancelled")
		case <-h.ctx.Done():
			return "", nil, fmt.Errorf("the host has been closed")
		default:
		}
		h.cond.Wait()
	}
}

// Connection returns the connection to peerID, if any
func (h *Host) Connection(peerID peer.ID) (Connection, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conn, ok := h.connections[peerID]
	return conn, ok
}

// Peers returns the IDs of the connected peers
func (h *Host) Peers() []peer.ID {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	peers := make([]peer.ID, 0, len(h.connections))
	for peerID := range h.connections {
		peers = append(peers, peerID)
	}
	return peers
}

func (h *Host) LocalAddr() net.Addr {
	return h.transport.Conn.LocalAddr()
}

func (h *Host) ID() peer.ID {
	return h.peerID
}

func (h *Host) TransportMode() TransportMode {
	return h.transportMode
}

func (h *Host) Close() error {
	if err := h.transport.Close(); err != nil {
		return err
	}
	// The transport does not own the socket it was given
	if err := h.transport.Conn.Close(); err != nil {
		log.Debugf("closing the UDP socket: %v", err)
	}
	h.cancel()
	h.mutex.Lock()
	h.cond.Broadcast()
	h.mutex.Unlock()
	h.waitGroup.Wait()
	return nil
}

// AddPeerHandler is called when a new peer connects
type AddPeerHandler func(peer.ID, Connection)

// RemovePeerHandler is called when a peer disconnects
type RemovePeerHandler func(peer.ID)

// SetPeerHandlers registers callbacks for peer connection events. The add handler is called
// right away for every peer that is already connected.
func (h *Host) SetPeerHandlers(addHandler AddPeerHandler, removeHandler RemovePeerHandler) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.addHandler = addHandler
	h.removeHandler = removeHandler

	if h.addHandler == nil {
		return
	}
	for peerID, conn := range h.connections {
		h.addHandler(peerID, conn)
	}
}

// newConnection wraps a QUIC connection according to the transport mode and the loss settings
func (h *Host) newConnection(conn quic.Connection) Connection {
	var wrapped Connection
	switch h.transportMode {
	case TransportDatagram:
		wrapped = &quicDatagramConnection{conn: conn, counter: h}
	case TransportStream:
		wrapped = newQuicStreamConnection(h.ctx, conn, h)
	default:
		// WithTransportMode rejects anything else
		panic(fmt.Sprintf("unsupported transport mode: %d", h.transportMode))
	}
	if h.lossy != nil {
		wrapped = &lossyConnection{Connection: wrapped, lossy: h.lossy}
	}
	return wrapped
}

// handleConnection registers a new connection, incoming or outgoing
func (h *Host) handleConnection(conn quic.Connection) (peer.ID, error) {
	peerCerts := conn.ConnectionState().TLS.PeerCertificates
	if len(peerCerts) == 0 {
		return "", fmt.Errorf("the peer presented no certificate")
	}
	peerID, err := parsePeerIDFromCertificate(peerCerts[0])
	if err != nil {
		return "", fmt.Errorf("failed parsing for a peer ID from the TLS certificate: %v", err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.connections[peerID]; exists {
		return "", fmt.Errorf("already connected to peer %s", peerID)
	}

	wrappedConn := h.newConnection(conn)
	h.connections[peerID] = wrappedConn
	if h.addHandler != nil {
		h.addHandler(peerID, wrappedConn)
	}
	h.cond.Broadcast()

	h.waitGroup.Add(1)
	go func() {
		defer h.waitGroup.Done()
		<-conn.Context().Done()

		h.mutex.Lock()
		defer h.mutex.Unlock()
		delete(h.connections, peerID)
		if h.removeHandler != nil {
			h.removeHandler(peerID)
		}
		log.Debugf("connection to %s closed", peerID)
	}()
	return peerID, nil
}

func (h *Host) acceptLoop() {
	defer h.waitGroup.Done()

	log.Infof("listening on %s (%s mode)", h.LocalAddr(), h.transportMode)
	log.Infof("peer ID: %s", h.peerID)

	for {
		conn, err := h.listener.Accept(h.ctx)
		if err != nil {
			log.Debugf("listener stopped: %v", err)
			return
		}

		peerID, err := h.handleConnection(conn)
		if err != nil {
			log.Warnf("failed to handle connection: %v", err)
			conn.CloseWithError(0, err.Error())
			continue
		}
		log.Infof("accepted connection from %s at %s", peerID, conn.RemoteAddr())
	}
}

func WithAddrPort(ep netip.AddrPort) HostOption {
	return func(h *Host) error {
		h.endpoint = net.UDPAddrFromAddrPort(ep)
		return nil
	}
}

// WithTransportMode sets the QUIC transport mode (datagram or stream)
func WithTransportMode(mode TransportMode) HostOption {
	return func(h *Host) error {
		if mode != TransportDatagram && mode != TransportStream {
			return fmt.Errorf("unsupported transport mode: %d", mode)
		}
		h.transportMode = mode
		return nil
	}
}

// WithIdleTimeout sets how long a silent connection is kept open
func WithIdleTimeout(timeout time.Duration) HostOption {
	return func(h *Host) error {
		if timeout <= 0 {
			return fmt.Errorf("the idle timeout (%v) must be positive", timeout)
		}
		h.idleTimeout = timeout
		return nil
	}
}

// WithLossyChannel makes every connection drop outgoing packets as decided by lossy. It emulates
// a lossy link on top of a real one.
func WithLossyChannel(lossy *channel.Lossy) HostOption {
	return func(h *Host) error {
		h.lossy = lossy
		return nil
	}
}

// WithIdentity sets the host's identity from a private key
func WithIdentity(privateKey crypto.PrivateKey) HostOption {
	return func(h *Host) error {
		peerID, err := peerIDFromPrivateKey(privateKey)
		if err != nil {
			return err
		}
		h.privateKey = privateKey
		h.peerID = peerID
		return nil
	}
}

// Host manages QUIC connections to peers
type Host struct {
	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup

	mutex sync.Mutex // Protects connections and the handlers
	cond  *sync.Cond // Signals new connections

	connections map[peer.ID]Connection // Active wrapped connections

	transportMode TransportMode  // How packets are carried
	idleTimeout   time.Duration  // QUIC idle timeout
	lossy         *channel.Lossy // Optional loss injection on outgoing packets

	certificate *tls.Certificate  // Self-signed TLS certificate
	endpoint    *net.UDPAddr      // Local UDP endpoint
	peerID      peer.ID           // This host's peer ID
	privateKey  crypto.PrivateKey // Identity private key

	transport *quic.Transport
	listener  *quic.Listener

	statsMutex    sync.Mutex // Protects the byte counters
	bytesSent     uint64
	bytesReceived uint64

	addHandler    AddPeerHandler
	removeHandler RemovePeerHandler
}

// AddBytesSent increments the sent byte counter
func (h *Host) AddBytesSent(n uint64) {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	h.bytesSent += n
}

// AddBytesReceived increments the received byte counter
func (h *Host) AddBytesReceived(n uint64) {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	h.bytesReceived += n
}

// GetBytesSent returns the total bytes sent
func (h *Host) GetBytesSent() uint64 {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	return h.bytesSent
}

// GetBytesReceived returns the total bytes received
func (h *Host) GetBytesReceived() uint64 {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	return h.bytesReceived
}
