package zoneclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/zonecore/zoneclient/internal/cipher"
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/dispatch"
	"github.com/zonecore/zoneclient/net/reliable"
	"github.com/zonecore/zoneclient/net/security"
	"github.com/zonecore/zoneclient/net/wire"
)

// ErrSocket wraps any error from the underlying UDP socket, per spec §7.
var ErrSocket = errors.New("zoneclient: socket error")

// readDeadline bounds how long a single ReadPacket call blocks, so the
// composition root's fixed-rate Tick loop can still run its simulation step
// and retransmit housekeeping when no datagram arrives in time.
const readDeadline = 10 * time.Millisecond

// sessionCipher unifies the classic and Continuum ciphers behind one
// interface so Connection does not need a type switch on every packet.
type sessionCipher interface {
	Encrypt(data []byte) []byte
	Decrypt(data []byte) ([]byte, error)
}

// vieAdapter adapts cipher.VieCipher's in-place transform to sessionCipher.
type vieAdapter struct{ c *cipher.VieCipher }

func (a vieAdapter) Encrypt(data []byte) []byte {
	out := append([]byte(nil), data...)
	a.c.Encrypt(out)
	return out
}

func (a vieAdapter) Decrypt(data []byte) ([]byte, error) {
	out := append([]byte(nil), data...)
	a.c.Decrypt(out)
	return out, nil
}

// contAdapter adapts cipher.ContCipher to sessionCipher.
type contAdapter struct{ c *cipher.ContCipher }

func (a contAdapter) Encrypt(data []byte) []byte         { return a.c.Encrypt(data) }
func (a contAdapter) Decrypt(data []byte) ([]byte, error) { return a.c.Decrypt(data) }

// noopCipher passes data through unchanged, used before the handshake
// negotiates a real cipher.
type noopCipher struct{}

func (noopCipher) Encrypt(data []byte) []byte          { return data }
func (noopCipher) Decrypt(data []byte) ([]byte, error) { return data, nil }

// ConnectionStats exposes send/receive counters and round-trip timing for
// the net/security response payload and the interactive console's /stats
// command, per SPEC_FULL.md §4.9.
type ConnectionStats struct {
	BytesSent, BytesReceived     uint64
	PacketsSent, PacketsReceived uint64
	Ping                         uint16
	TimeDiff                     int32
}

// Connection owns the UDP socket, the negotiated cipher, the reliable
// sequencer and the packet dispatcher for one zone session, per spec §4.2
// and §4.9.
type Connection struct {
	log  *slog.Logger
	conn *net.UDPConn
	addr *net.UDPAddr

	cipher sessionCipher
	seq    *reliable.Sequencer
	disp   *dispatch.Dispatcher
	clock  *clock.Source
	sess   *Session
	oracle *security.Solver

	stats ConnectionStats

	clientKey uint32

	hugeChunkStarted bool
	onHugeChunkDone  func([]byte)
}

// Dial opens a UDP socket to conf.Address and constructs a Connection in
// SessionEncryptionRequested, with a no-op cipher until the handshake
// completes.
func Dial(conf Config) (*Connection, error) {
	addr, err := net.ResolveUDPAddr("udp", conf.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %q: %v", ErrSocket, conf.Address, err)
	}
	raw, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %q: %v", ErrSocket, conf.Address, err)
	}

	clk := clock.NewSource()
	c := &Connection{
		log:    conf.Log,
		conn:   raw,
		addr:   addr,
		cipher: noopCipher{},
		clock:  clk,
		sess:   NewSession(clk.Now(), clock.Tick(clock.DurationToTicks(conf.ConnectTimeout)), clock.Tick(clock.DurationToTicks(conf.GameTimeout))),
	}
	c.disp = dispatch.New()
	c.seq = reliable.New(c, c.disp, clk)
	if conf.OracleAddress != "" {
		c.oracle = security.New(oracleSolverConfig(conf))
	}
	return c, nil
}

// SendRaw encrypts and transmits a core-framed packet, satisfying
// reliable.Sender and dispatch's raw-send needs.
func (c *Connection) SendRaw(b []byte) error {
	out := c.cipher.Encrypt(b)
	n, err := c.conn.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSocket, err)
	}
	c.stats.BytesSent += uint64(n)
	c.stats.PacketsSent++
	return nil
}

// SetCipher installs the negotiated session cipher, called once the
// EncryptionRequested/Authentication handshake completes.
func (c *Connection) SetCipher(ci sessionCipher) { c.cipher = ci }

// Dispatcher exposes the packet dispatcher for handler registration by the
// composition root.
func (c *Connection) Dispatcher() *dispatch.Dispatcher { return c.disp }

// Sequencer exposes the reliable sequencer for reliable sends.
func (c *Connection) Sequencer() *reliable.Sequencer { return c.seq }

// Session exposes the session state machine.
func (c *Connection) Session() *Session { return c.sess }

// Clock exposes the shared time source.
func (c *Connection) Clock() *clock.Source { return c.clock }

// Stats returns a snapshot of connection counters, per SPEC_FULL.md §4.9.
func (c *Connection) Stats() ConnectionStats { return c.stats }

// ReadPacket blocks for the next datagram, decrypts it, and routes it
// through the core marker: reliable/ack/cluster/chunk frames are handled by
// the sequencer, everything else is handed to Dispatch directly.
func (c *Connection) ReadPacket() error {
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	buf := make([]byte, wire.MaxPacketSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return ne
		}
		return fmt.Errorf("%w: %v", ErrSocket, err)
	}
	c.stats.BytesReceived += uint64(n)
	c.stats.PacketsReceived++
	c.sess.Touch(c.clock.Now())

	plain, err := c.cipher.Decrypt(buf[:n])
	if err != nil {
		c.log.Debug("zoneclient: dropping packet with bad cipher state", "err", err)
		return nil
	}
	c.routeCore(plain)
	return nil
}

// routeCore interprets the core (0x00-prefixed) envelope, forwarding
// reliable/ack/chunk/cluster frames to the sequencer and everything else
// straight to Dispatch, per spec §4.2.
func (c *Connection) routeCore(body []byte) {
	if len(body) == 0 {
		return
	}
	if body[0] != wire.CoreMarker {
		c.disp.Dispatch(body)
		return
	}
	if len(body) < 2 {
		return
	}
	switch wire.CoreType(body[1]) {
	case wire.CoreReliable:
		p, err := wire.DecodeReliable(body[2:])
		if err != nil {
			return
		}
		c.seq.HandleReliable(p.ID, p.Body)
	case wire.CoreAck:
		p, err := wire.DecodeAck(body[2:])
		if err != nil {
			return
		}
		c.seq.HandleAck(p.ID)
	case wire.CoreCluster:
		c.seq.HandleCluster(body[2:], c.routeCore)
	case wire.CoreSmallChunkBody:
		c.seq.HandleSmallChunkBody(body[2:])
	case wire.CoreSmallChunkTail:
		c.seq.HandleSmallChunkTail(body[2:])
	case wire.CoreHugeChunk:
		c.handleHugeChunk(body[2:])
	case wire.CoreHugeChunkCancel:
		c.seq.HandleHugeChunkCancel()
		c.hugeChunkStarted = false
	default:
		c.disp.Dispatch(body)
	}
}

// handleHugeChunk splits the first frame of a huge-chunk download (which
// carries a total_size header) from every subsequent frame (plain streamed
// data), per spec §4.2 "0x00,0x0A header-with-total-size, then streamed
// data".
func (c *Connection) handleHugeChunk(body []byte) {
	if !c.hugeChunkStarted {
		if len(body) < 4 {
			return
		}
		total := uint32(body[0]) | uint32(body[1])<<8 | uint32(body[2])<<16 | uint32(body[3])<<24
		c.seq.HandleHugeChunkHeader(total)
		c.hugeChunkStarted = true
		body = body[4:]
	}
	if whole, done := c.seq.HandleHugeChunkData(body); done {
		c.hugeChunkStarted = false
		if c.onHugeChunkDone != nil {
			c.onHugeChunkDone(whole)
		}
	}
}

// OnHugeChunkComplete registers the callback invoked with the fully
// reassembled payload once a huge-chunk download finishes.
func (c *Connection) OnHugeChunkComplete(fn func([]byte)) { c.onHugeChunkDone = fn }

// SendFileRequest satisfies filestore.Sender by issuing a reliable file
// request for index.
func (c *Connection) SendFileRequest(index uint16) error {
	return c.seq.SendReliable(wire.FileRequest{Index: index}.Encode())
}

// PollSecurity drains any completed oracle responses, invoking onResult for
// each. A no-op if no oracle was configured.
func (c *Connection) PollSecurity(onResult func(security.Response)) {
	if c.oracle == nil {
		return
	}
	c.oracle.Poll(onResult)
}

// Close releases the socket and stops the security worker pool.
func (c *Connection) Close() error {
	if c.oracle != nil {
		_ = c.oracle.Close()
	}
	return c.conn.Close()
}
