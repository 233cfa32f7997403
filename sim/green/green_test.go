package green

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/rng"
)

func TestCapClampsToMax(t *testing.T) {
	if got := Cap(1000, 1000); got != maxGreens {
		t.Fatalf("expected cap clamped to %d, got %d", maxGreens, got)
	}
}

func TestCapScalesWithPlayerCount(t *testing.T) {
	if got := Cap(100, 10); got != 1 {
		t.Fatalf("expected cap 1, got %d", got)
	}
	if got := Cap(100, 0); got != 0 {
		t.Fatalf("expected cap 0 with no players, got %d", got)
	}
}

func TestSpawnEvictsOldestWhenAtCap(t *testing.T) {
	mgr := New()
	mgr.Spawn(mgl32.Vec2{1, 1}, 0, 100, 1, 2)
	mgr.Spawn(mgl32.Vec2{2, 2}, 0, 100, 2, 2)
	mgr.Spawn(mgl32.Vec2{3, 3}, 0, 100, 3, 2)

	all := mgr.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 greens after eviction, got %d", len(all))
	}
	if _, ok := mgr.Collect(0); ok {
		t.Fatal("expected oldest green (id 0) to have been evicted")
	}
}

func TestTickExpiresStaleGreens(t *testing.T) {
	mgr := New()
	g := mgr.Spawn(mgl32.Vec2{}, 0, 50, 1, 10)
	mgr.Tick(49)
	if _, ok := mgr.Collect(g.ID); !ok {
		t.Fatal("expected green to still be alive before end_tick")
	}

	mgr.Spawn(mgl32.Vec2{}, 0, 50, 1, 10)
	mgr.Tick(50)
	if len(mgr.All()) != 0 {
		t.Fatal("expected green expired once now reaches end_tick")
	}
}

func TestCollectRemovesGreen(t *testing.T) {
	mgr := New()
	g := mgr.Spawn(mgl32.Vec2{7, 7}, 0, 100, 5, 10)

	got, ok := mgr.Collect(g.ID)
	if !ok || got.PrizeID != 5 {
		t.Fatalf("expected to collect prize 5, got %+v ok=%v", got, ok)
	}
	if _, ok := mgr.Collect(g.ID); ok {
		t.Fatal("expected double-collect to report not-found")
	}
}

func TestRandomPrizeIDDistributesByWeight(t *testing.T) {
	seed := rng.NewLCG(12345)
	weights := []uint32{0, 0, 100}

	for i := 0; i < 20; i++ {
		if id := RandomPrizeID(seed, weights); id != 3 {
			t.Fatalf("expected only prize id 3 drawable, got %d", id)
		}
	}
}

func TestRandomPrizeIDZeroWeightsReturnsZero(t *testing.T) {
	seed := rng.NewLCG(1)
	if id := RandomPrizeID(seed, []uint32{0, 0, 0}); id != 0 {
		t.Fatalf("expected 0 for all-zero weights, got %d", id)
	}
}
