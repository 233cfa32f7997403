package flag

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDropMarksFlagDropped(t *testing.T) {
	mgr := New()
	mgr.Set(&Flag{ID: 1, OwnerFreq: 0})
	mgr.Drop(1, mgl32.Vec2{5, 5}, 10)

	f, ok := mgr.Get(1)
	if !ok || !f.Dropped {
		t.Fatal("expected flag 1 marked dropped")
	}
	if f.Position != (mgl32.Vec2{5, 5}) {
		t.Fatalf("expected dropped position (5,5), got %v", f.Position)
	}
}

func TestClaimTransfersOwnership(t *testing.T) {
	mgr := New()
	mgr.Set(&Flag{ID: 1, Dropped: true})
	mgr.Claim(1, 2)

	f, _ := mgr.Get(1)
	if f.OwnerFreq != 2 || f.Dropped {
		t.Fatalf("expected flag claimed by freq 2 and no longer dropped, got %+v", f)
	}
}

func TestCanPickupRespectsDelay(t *testing.T) {
	mgr := New()
	mgr.Set(&Flag{ID: 1})
	mgr.Drop(1, mgl32.Vec2{}, 100)

	if mgr.CanPickup(1, 105, 10) {
		t.Fatal("expected pickup refused before delay elapses")
	}
	if !mgr.CanPickup(1, 115, 10) {
		t.Fatal("expected pickup allowed once delay elapses")
	}
}

func TestGetMissingFlagIsTolerated(t *testing.T) {
	mgr := New()
	if _, ok := mgr.Get(99); ok {
		t.Fatal("expected missing flag id to report not-found, not panic")
	}
}
