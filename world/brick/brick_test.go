package brick

import (
	"testing"

	"github.com/zonecore/zoneclient/world"
)

func TestPlaceMarksTilesAndRestoresOnExpiry(t *testing.T) {
	m := world.New()
	mgr := New(m, 10)

	mgr.Place(1, 5, 5, 8, 5, 100)
	for x := 5; x <= 8; x++ {
		if m.Tile(x, 5) != world.TileBrick {
			t.Fatalf("expected tile (%d,5) to be brick, got %d", x, m.Tile(x, 5))
		}
		team, ok := mgr.BrickAt(x, 5)
		if !ok || team != 1 {
			t.Fatalf("expected BrickAt(%d,5) to report team 1, got team=%d ok=%v", x, team, ok)
		}
	}

	mgr.Tick(50)
	if m.Tile(5, 5) != world.TileBrick {
		t.Fatal("brick should still be live before expiry")
	}

	mgr.Tick(101)
	for x := 5; x <= 8; x++ {
		if m.Tile(x, 5) == world.TileBrick {
			t.Fatalf("expected tile (%d,5) restored after expiry", x)
		}
		if _, ok := mgr.BrickAt(x, 5); ok {
			t.Fatalf("expected no brick at (%d,5) after expiry", x)
		}
	}
}

func TestPlaceRestoresUnderlyingTile(t *testing.T) {
	m := world.New()
	m.SetTile(3, 3, 5)
	mgr := New(m, 10)

	mgr.Place(0, 3, 3, 3, 3, 10)
	mgr.Tick(11)
	if got := m.Tile(3, 3); got != 5 {
		t.Fatalf("expected underlying tile 5 restored, got %d", got)
	}
}

func TestPlaceRetiresOldestWhenAtCapacity(t *testing.T) {
	m := world.New()
	mgr := New(m, 1)

	mgr.Place(0, 1, 1, 1, 1, 1000)
	mgr.Place(0, 2, 2, 2, 2, 1000)

	if len(mgr.Live()) != 1 {
		t.Fatalf("expected exactly one live brick, got %d", len(mgr.Live()))
	}
	if m.Tile(1, 1) == world.TileBrick {
		t.Fatal("expected first brick retired to make room")
	}
	if m.Tile(2, 2) != world.TileBrick {
		t.Fatal("expected second brick still placed")
	}
}

func TestBrickBlocksOpposingTeamOnly(t *testing.T) {
	m := world.New()
	mgr := New(m, 10)
	mgr.Place(7, 20, 20, 20, 20, 1000)

	if m.IsSolid(20, 20, 7, mgr) {
		t.Fatal("expected brick to be passable for the owning team")
	}
	if !m.IsSolid(20, 20, 9, mgr) {
		t.Fatal("expected brick to be solid for an opposing team")
	}
}
