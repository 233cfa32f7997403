package reliable

import (
	"testing"
	"time"

	"github.com/zonecore/zoneclient/internal/clock"
)

type fakeSender struct{ sent [][]byte }

func (f *fakeSender) SendRaw(b []byte) error {
	f.sent = append(f.sent, append([]byte(nil), b...))
	return nil
}

type recordingDispatcher struct{ order []uint32 }

func (d *recordingDispatcher) Dispatch(body []byte) {
	// body here is the raw reliable payload; tests pass a 1-byte marker.
	if len(body) > 0 {
		d.order = append(d.order, uint32(body[0]))
	}
}

func TestSequencerOutOfOrderDelivery(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	// Inbound ids start at 0: id=0 arrives first and is delivered at once.
	// Then wire order: id=3, id=1, id=2, id=1 (duplicate).
	seq.HandleReliable(0, []byte{0})
	seq.HandleReliable(3, []byte{3})
	seq.HandleReliable(1, []byte{1})
	seq.HandleReliable(2, []byte{2})
	seq.HandleReliable(1, []byte{1})

	want := []uint32{0, 1, 2, 3}
	if len(disp.order) != len(want) {
		t.Fatalf("dispatch order = %v, want %v", disp.order, want)
	}
	for i, v := range want {
		if disp.order[i] != v {
			t.Fatalf("dispatch order = %v, want %v", disp.order, want)
		}
	}

	// An ack must have been queued for every observed id, including the duplicate.
	if got := len(seq.pendingAcks); got != 5 {
		t.Fatalf("pending acks = %d, want 5", got)
	}
}

func TestSequencerResendsAfterInterval(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	if err := seq.SendReliable([]byte{0xAA}); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}

	// Not yet due for resend.
	if err := seq.Tick(time.Now()); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected no resend yet, got %d sends", len(sender.sent))
	}

	// Due for resend.
	if err := seq.Tick(time.Now().Add(ResendInterval + time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected resend, got %d sends", len(sender.sent))
	}
}

func TestSequencerAckRemovesOutbound(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	_ = seq.SendReliable([]byte{1})
	_ = seq.SendReliable([]byte{2})
	if seq.OutboundCount() != 2 {
		t.Fatalf("outbound count = %d, want 2", seq.OutboundCount())
	}
	seq.HandleAck(0)
	if seq.OutboundCount() != 1 {
		t.Fatalf("outbound count after ack = %d, want 1", seq.OutboundCount())
	}
}

func TestSmallChunkReassembly(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	seq.HandleSmallChunkBody([]byte{1, 2, 3})
	seq.HandleSmallChunkTail([]byte{4, 5})

	// recordingDispatcher only records the first byte; assert reassembly fired once.
	if len(disp.order) != 1 || disp.order[0] != 1 {
		t.Fatalf("expected single dispatch starting with byte 1, got %v", disp.order)
	}
}

func TestHugeChunkReassembly(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	seq.HandleHugeChunkHeader(5)
	if _, done := seq.HandleHugeChunkData([]byte{1, 2}); done {
		t.Fatal("should not be complete yet")
	}
	whole, done := seq.HandleHugeChunkData([]byte{3, 4, 5})
	if !done {
		t.Fatal("expected completion")
	}
	if len(whole) != 5 {
		t.Fatalf("whole = %v", whole)
	}
}

func TestHugeChunkCancel(t *testing.T) {
	sender := &fakeSender{}
	disp := &recordingDispatcher{}
	seq := New(sender, disp, clock.NewSource())

	seq.HandleHugeChunkHeader(5)
	seq.HandleHugeChunkCancel()
	if seq.HugeChunkReceiving() {
		t.Fatal("expected cancel to clear in-progress state")
	}
}
