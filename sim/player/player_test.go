package player

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/world"
)

func TestEnterLeaveSwapRemove(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)

	mgr.Enter(1, "alice", "", 0, 0, 0, 0, noParent, false, 0)
	mgr.Enter(2, "bob", "", 0, 0, 0, 0, noParent, false, 0)
	mgr.Enter(3, "carol", "", 0, 0, 0, 0, noParent, false, 0)

	mgr.Leave(2)
	if _, ok := mgr.Get(2); ok {
		t.Fatal("expected player 2 removed")
	}
	if p, ok := mgr.Get(1); !ok || p.Name != "alice" {
		t.Fatal("expected player 1 intact")
	}
	if p, ok := mgr.Get(3); !ok || p.Name != "carol" {
		t.Fatal("expected player 3 intact after swap-remove")
	}
	if len(mgr.All()) != 2 {
		t.Fatalf("expected 2 players remaining, got %d", len(mgr.All()))
	}
}

func TestSimulateBouncesOffWall(t *testing.T) {
	m := world.New()
	for x := 18; x <= 22; x++ {
		m.SetTile(x, 15, 1)
	}
	mgr := New(m, nil)
	p := mgr.Enter(1, "alice", "", 0, 1, 0, 0, noParent, false, 0)
	p.Position = mgl32.Vec2{20, 14}
	p.Velocity = mgl32.Vec2{0, 10}

	settings := Settings{BounceFactor: 16, ShipRadius: 0.4}
	mgr.Simulate(p, 0.1, 100, settings)

	if p.Velocity[1] >= 0 {
		t.Fatalf("expected vertical velocity reflected after wall hit, got %v", p.Velocity[1])
	}
}

func TestIngestLargeSnapsOnLargeDelta(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	p := mgr.Enter(1, "alice", "", 0, 1, 0, 0, noParent, false, 0)
	p.Position = mgl32.Vec2{0, 0}

	mgr.ingestCommon(p, 50, 50, 0, 0, 0, 0, Settings{BounceFactor: 16, ShipRadius: 0.4})
	if p.Position[0] != 50 || p.LerpTime != 0 {
		t.Fatalf("expected snap to projected position with zero lerp, got pos=%v lerp=%v", p.Position, p.LerpTime)
	}
}

func TestIngestLargeLerpsOnSmallDelta(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	p := mgr.Enter(1, "alice", "", 0, 1, 0, 0, noParent, false, 0)
	p.Position = mgl32.Vec2{10, 10}

	mgr.ingestCommon(p, 11, 10, 1, 0, 0, 0, Settings{BounceFactor: 16, ShipRadius: 0.4})
	if p.LerpTime != lerpWindowSeconds {
		t.Fatalf("expected lerp window armed for small delta, got %v", p.LerpTime)
	}
	if p.Position[0] != 10 {
		t.Fatalf("expected position unchanged until lerp is consumed by Simulate, got %v", p.Position)
	}
}
