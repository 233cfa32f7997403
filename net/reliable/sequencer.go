// Package reliable implements the PacketSequencer: reliable ordered
// delivery over lossy UDP, ack bookkeeping, small/huge chunk reassembly,
// and packet clustering.
package reliable

import (
	"container/heap"
	"time"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
)

// ResendInterval is how long an unacked outbound reliable waits before being
// resent.
const ResendInterval = 300 * time.Millisecond

// Sender abstracts the raw outbound path (the Connection's socket send),
// letting the Sequencer be tested without a real UDP socket.
type Sender interface {
	SendRaw(b []byte) error
}

// Dispatcher receives fully reassembled, in-order packets ready for
// top-level routing.
type Dispatcher interface {
	Dispatch(body []byte)
}

type outboundEntry struct {
	id        uint32
	body      []byte
	timestamp time.Time
}

type inboundEntry struct {
	id   uint32
	body []byte
}

// inboundHeap is a min-heap of inboundEntry ordered by id, used to hold
// reliables that arrived out of order until their predecessors arrive.
type inboundHeap []inboundEntry

func (h inboundHeap) Len() int            { return len(h) }
func (h inboundHeap) Less(i, j int) bool  { return h[i].id < h[j].id }
func (h inboundHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *inboundHeap) Push(x any)         { *h = append(*h, x.(inboundEntry)) }
func (h *inboundHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Sequencer implements reliable/ordered delivery, small- and huge-chunk
// reassembly, and clustering, per spec §4.2.
type Sequencer struct {
	sender     Sender
	dispatcher Dispatcher
	clock      *clock.Source

	nextOutID uint32
	outbound  []outboundEntry

	nextInID uint32
	pending  inboundHeap
	seenIDs  map[uint32]struct{}

	pendingAcks []uint32

	smallChunk []byte
	hasSmall   bool

	hugeChunk     []byte
	hugeTotal     uint32
	hugeReceiving bool
}

// New constructs a Sequencer that sends through sender and delivers
// reassembled packets to dispatcher.
func New(sender Sender, dispatcher Dispatcher, clk *clock.Source) *Sequencer {
	return &Sequencer{
		sender:     sender,
		dispatcher: dispatcher,
		clock:      clk,
		seenIDs:    make(map[uint32]struct{}),
	}
}

// SendReliable stamps body with the next outbound id, tracks it for resend,
// and sends it immediately.
func (s *Sequencer) SendReliable(body []byte) error {
	id := s.nextOutID
	s.nextOutID++
	entry := outboundEntry{id: id, body: append([]byte(nil), body...), timestamp: time.Now()}
	s.outbound = append(s.outbound, entry)
	return s.sender.SendRaw(wire.Reliable{ID: id, Body: entry.body}.Encode())
}

// HandleAck removes the matching outbound entry via swap-with-last, per
// spec. A stale or unknown ack id is a no-op.
func (s *Sequencer) HandleAck(id uint32) {
	for i, e := range s.outbound {
		if e.id == id {
			last := len(s.outbound) - 1
			s.outbound[i] = s.outbound[last]
			s.outbound = s.outbound[:last]
			return
		}
	}
}

// HandleReliable processes an inbound reliable: it always queues an ack for
// the id (even a duplicate), then — if the id has not already been
// processed — either dispatches it immediately (if it is the expected next
// id) or buffers it until its predecessors arrive.
func (s *Sequencer) HandleReliable(id uint32, body []byte) {
	s.pendingAcks = append(s.pendingAcks, id)

	if id < s.nextInID {
		return // already delivered; ack only.
	}
	if _, dup := s.seenIDs[id]; dup {
		return
	}
	s.seenIDs[id] = struct{}{}
	heap.Push(&s.pending, inboundEntry{id: id, body: append([]byte(nil), body...)})

	for len(s.pending) > 0 && s.pending[0].id == s.nextInID {
		e := heap.Pop(&s.pending).(inboundEntry)
		delete(s.seenIDs, e.id)
		s.nextInID++
		s.dispatcher.Dispatch(e.body)
	}
}

// HandleCluster recursively dispatches each {length:u8}{payload} entry of a
// cluster packet as though it had arrived on its own.
func (s *Sequencer) HandleCluster(body []byte, onPacket func([]byte)) {
	for len(body) > 0 {
		n := int(body[0])
		body = body[1:]
		if n > len(body) {
			return
		}
		onPacket(body[:n])
		body = body[n:]
	}
}

// HandleSmallChunkBody appends a small-chunk fragment to the in-progress
// reassembly buffer.
func (s *Sequencer) HandleSmallChunkBody(body []byte) {
	s.smallChunk = append(s.smallChunk, body...)
	s.hasSmall = true
}

// HandleSmallChunkTail appends the final fragment, then dispatches the
// concatenated whole as a single reassembled packet.
func (s *Sequencer) HandleSmallChunkTail(body []byte) {
	s.smallChunk = append(s.smallChunk, body...)
	whole := s.smallChunk
	s.smallChunk = nil
	s.hasSmall = false
	if len(whole) > 0 {
		s.dispatcher.Dispatch(whole)
	}
}

// HandleHugeChunkHeader begins a huge-chunk reassembly of totalSize bytes.
func (s *Sequencer) HandleHugeChunkHeader(totalSize uint32) {
	s.hugeChunk = make([]byte, 0, totalSize)
	s.hugeTotal = totalSize
	s.hugeReceiving = true
}

// HugeChunkReceiving reports whether a huge-chunk download is in progress.
func (s *Sequencer) HugeChunkReceiving() bool { return s.hugeReceiving }

// HandleHugeChunkData appends streamed huge-chunk data. When the
// accumulated length reaches the declared total, it returns the complete
// buffer and true; otherwise it returns nil, false.
func (s *Sequencer) HandleHugeChunkData(data []byte) ([]byte, bool) {
	if !s.hugeReceiving {
		return nil, false
	}
	s.hugeChunk = append(s.hugeChunk, data...)
	if s.hugeTotal > 0 && uint32(len(s.hugeChunk)) >= s.hugeTotal {
		whole := s.hugeChunk
		s.hugeChunk = nil
		s.hugeReceiving = false
		return whole, true
	}
	return nil, false
}

// HandleHugeChunkCancel clears any in-progress huge-chunk reassembly.
func (s *Sequencer) HandleHugeChunkCancel() {
	s.hugeChunk = nil
	s.hugeTotal = 0
	s.hugeReceiving = false
}

// Tick resends any unacked outbound reliable older than ResendInterval and
// flushes pending acks, each sent as its own datagram; outbound acks are not
// clustered.
func (s *Sequencer) Tick(now time.Time) error {
	for i := range s.outbound {
		e := &s.outbound[i]
		if now.Sub(e.timestamp) >= ResendInterval {
			e.timestamp = now
			if err := s.sender.SendRaw(wire.Reliable{ID: e.id, Body: e.body}.Encode()); err != nil {
				return err
			}
		}
	}
	for _, id := range s.pendingAcks {
		if err := s.sender.SendRaw(wire.Ack{ID: id}.Encode()); err != nil {
			return err
		}
	}
	s.pendingAcks = s.pendingAcks[:0]
	return nil
}

// PendingAckCount reports the number of acks awaiting flush.
func (s *Sequencer) PendingAckCount() int { return len(s.pendingAcks) }

// OutboundCount reports the number of outbound reliables still awaiting an
// ack, exercised by tests asserting resend/ack bookkeeping.
func (s *Sequencer) OutboundCount() int { return len(s.outbound) }

// NextInboundID reports the next reliable id expected from the peer.
func (s *Sequencer) NextInboundID() uint32 { return s.nextInID }
