package notify

import (
	"testing"
	"time"
)

func TestPushFormatsMessage(t *testing.T) {
	b := NewBus(time.Second)
	now := time.Unix(1000, 0)
	b.Push(now, KindPrizeCap, "gun capped at level %d", 6)

	active := b.Active(now)
	if len(active) != 1 {
		t.Fatalf("expected 1 active notification, got %d", len(active))
	}
	if active[0].Text != "gun capped at level 6" {
		t.Fatalf("unexpected text %q", active[0].Text)
	}
	if active[0].Kind != KindPrizeCap {
		t.Fatalf("expected KindPrizeCap, got %v", active[0].Kind)
	}
}

func TestActiveExcludesExpired(t *testing.T) {
	b := NewBus(time.Second)
	now := time.Unix(1000, 0)
	b.Push(now, KindInfo, "hello")

	later := now.Add(2 * time.Second)
	if active := b.Active(later); len(active) != 0 {
		t.Fatalf("expected expired notification excluded, got %d", len(active))
	}
}

func TestPushRefreshesOldestSlotWhenFull(t *testing.T) {
	b := NewBus(time.Minute)
	now := time.Unix(1000, 0)
	for i := 0; i < capacity+2; i++ {
		b.Push(now, KindInfo, "msg %d", i)
	}

	active := b.Active(now)
	if len(active) != capacity {
		t.Fatalf("expected ring capped at %d, got %d", capacity, len(active))
	}
	if active[0].Text != "msg 2" {
		t.Fatalf("expected oldest surviving message to be msg 2, got %q", active[0].Text)
	}
}

func TestMultipleKindsTracked(t *testing.T) {
	b := NewBus(time.Minute)
	now := time.Unix(1000, 0)
	b.Push(now, KindMineRefusal, "cannot place mine here")
	b.Push(now, KindAntiwarp, "antiwarp active")
	b.Push(now, KindPortal, "portal placed")

	active := b.Active(now)
	if len(active) != 3 {
		t.Fatalf("expected 3 active notifications, got %d", len(active))
	}
	kinds := map[Kind]bool{}
	for _, n := range active {
		kinds[n.Kind] = true
	}
	if !kinds[KindMineRefusal] || !kinds[KindAntiwarp] || !kinds[KindPortal] {
		t.Fatal("expected all three distinct kinds represented")
	}
}
