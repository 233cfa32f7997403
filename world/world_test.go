package world

import (
	"testing"

	"github.com/zonecore/zoneclient/internal/clock"
)

func TestChecksumIgnoresBrickTiles(t *testing.T) {
	m := New()
	m.setTile(0, 0, 5)
	base := m.Checksum(12345)

	m.setTile(10, 10, TileBrick)
	withBrick := m.Checksum(12345)
	if base != withBrick {
		t.Fatalf("expected brick tile to be ignored by checksum, got %d vs %d", base, withBrick)
	}
}

func TestDoorsStaticModeAppliesSeedBits(t *testing.T) {
	m := New()
	m.setTile(5, 5, 162)
	d := NewDoors(m, 1)

	settings := DoorSettings{DoorMode: 5, DoorDelay: 10}
	m.UpdateDoors(d, 10, settings)

	if d.Seed() != 5 {
		t.Fatalf("expected static seed byte 5, got %d", d.Seed())
	}
}

func TestDoorsClosingWarpsOverlappingPlayer(t *testing.T) {
	m := New()
	m.setTile(5, 5, 162)
	d := NewDoors(m, 1)

	settings := DoorSettings{DoorMode: 1, DoorDelay: 1}
	closed := m.UpdateDoors(d, 1, settings)
	found := false
	for _, p := range closed {
		if p == (Pos{5, 5}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected door at (5,5) to be reported closed when seed bit 0 is set, tile=%d closed=%v", m.Tile(5, 5), closed)
	}
}

func TestCanFitRejectsWallOverlap(t *testing.T) {
	m := New()
	for x := 8; x <= 12; x++ {
		m.setTile(x, 10, 1)
	}
	if m.CanFit(10, 10, 0.6, 0, nil) {
		t.Fatal("expected ship centred on a wall tile to not fit")
	}
	if !m.CanFit(10, 20, 0.6, 0, nil) {
		t.Fatal("expected open space to fit")
	}
}

func TestCastStopsAtWall(t *testing.T) {
	m := New()
	m.setTile(15, 10, 1)
	hit, ok := Cast(m, 10, 10.5, 1, 0, 20, 0, nil)
	if !ok {
		t.Fatal("expected ray to hit the wall")
	}
	if hit.Tile.X != 15 || hit.Tile.Y != 10 {
		t.Fatalf("expected hit at (15,10), got %+v", hit.Tile)
	}
}

func TestCastMissesWhenClear(t *testing.T) {
	m := New()
	_, ok := Cast(m, 10, 10, 1, 0, 5, 0, nil)
	if ok {
		t.Fatal("expected no hit in an empty map within range")
	}
}

func TestTickDiffUsedByDoorSchedule(t *testing.T) {
	a := clock.Tick(5)
	b := clock.Tick(0x7FFFFFFE)
	if clock.TickDiff(a, b) <= 0 {
		t.Fatal("expected wraparound-safe positive diff")
	}
}
