package soccer

import (
	"testing"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/world"
)

func newTestMap(t *testing.T) *world.Map {
	t.Helper()
	return world.New()
}

func TestTickBouncesOffEastWall(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	maxCoord := uint32(world.Size) * subTilesPerTile
	b.X = maxCoord - 10
	b.Y = 1000
	b.VelX = 50
	b.VelY = 0
	b.Friction = 1_000_000
	b.FrictionDelta = 0

	mgr.Tick()

	if b.VelX >= 0 {
		t.Fatalf("expected velocity reflected negative after east wall bounce, got %d", b.VelX)
	}
}

func TestTickAppliesFrictionDecay(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	b.X, b.Y = 10000, 10000
	b.VelX, b.VelY = 100, 0
	b.Friction = 900_000
	b.FrictionDelta = 100_000

	mgr.Tick()

	if b.Friction != 800_000 {
		t.Fatalf("expected friction decremented to 800000, got %d", b.Friction)
	}
	if b.VelX >= 100 {
		t.Fatalf("expected velocity scaled down by friction, got %d", b.VelX)
	}
}

func TestTickSkipsCarriedBall(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	b.HasCarrier = true
	b.X, b.Y = 10000, 10000
	b.VelX, b.VelY = 500, 500
	b.Friction = 1_000_000

	mgr.Tick()

	if b.X != 10000 || b.Y != 10000 {
		t.Fatal("expected carried ball position unchanged")
	}
}

func TestTryPickupRespectsOverlapAndCooldown(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	b.X, b.Y = 16000, 16000 // tile (1, 1)
	b.LastPickupTick = 0

	if !mgr.TryPickup(b, 1, 1, 20) {
		t.Fatal("expected pickup to succeed when overlapping and cooldown elapsed")
	}
	if mgr.TryPickup(b, 1, 1, 21) {
		t.Fatal("expected pickup to be refused immediately after a successful pickup")
	}
}

func TestTryPickupRefusesWhenCarried(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	b.HasCarrier = true
	b.X, b.Y = 16000, 16000

	if mgr.TryPickup(b, 1, 1, 100) {
		t.Fatal("expected pickup refused while already carried")
	}
}

func TestPickupThenFireReleasesBall(t *testing.T) {
	mgr := New(newTestMap(t), 1)
	b := mgr.balls[0]
	mgr.Pickup(b, 7, clock.Tick(5))
	if !b.HasCarrier || b.CarrierID != 7 {
		t.Fatal("expected ball carried by player 7")
	}

	mgr.Fire(b, 5000, 6000, 200, -200, 950_000, 1000, clock.Tick(10))
	if b.HasCarrier {
		t.Fatal("expected ball released on fire")
	}
	if b.X != 5000 || b.Y != 6000 || b.VelX != 200 || b.VelY != -200 {
		t.Fatal("expected fire to set position and velocity")
	}
}

func TestIsTeamGoalLeftRightHalves(t *testing.T) {
	if !IsTeamGoal(ModeLeftRightHalves, 1024, 100, 500, 0) {
		t.Fatal("expected left half to score for team 0")
	}
	if !IsTeamGoal(ModeLeftRightHalves, 1024, 900, 500, 1) {
		t.Fatal("expected right half to score for team 1")
	}
	if IsTeamGoal(ModeLeftRightHalves, 1024, 100, 500, 1) {
		t.Fatal("expected left half not to score for team 1")
	}
}

func TestIsTeamGoalQuadrantsDiv1(t *testing.T) {
	if !IsTeamGoal(ModeQuadrantsDiv1, 1024, 100, 100, 0) {
		t.Fatal("expected top-left quadrant to score for team 0")
	}
	if !IsTeamGoal(ModeQuadrantsDiv1, 1024, 900, 900, 3) {
		t.Fatal("expected bottom-right quadrant to score for team 3")
	}
}

func TestIsTeamGoalAllInOne(t *testing.T) {
	if !IsTeamGoal(ModeAllInOne, 1024, 0, 0, 5) {
		t.Fatal("expected single-goal mode to always score")
	}
}
