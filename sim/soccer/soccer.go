// Package soccer implements the powerball: ball carry/fire/goal detection
// and per-tick friction/bounce physics, per spec §3 "Ball" and §4.8.
package soccer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/world"
)

// State is a ball's coarse lifecycle phase.
type State int

const (
	StateWorld State = iota
	StateCarried
	StateGoal
)

// InvalidBallID marks an unused ball slot.
const InvalidBallID = 0xFF

const subTilesPerTile = 16000

// Ball mirrors one powerball's position, velocity and carry state.
type Ball struct {
	ID        uint8
	CarrierID uint16
	HasCarrier bool

	X, Y             uint32 // sub-tile units, 16000 per tile
	VelX, VelY       int32
	NextX, NextY     uint32
	Friction         uint32
	FrictionDelta    int16

	Timestamp        uint32
	LastMicrotick    uint64
	LastPickupTick   clock.Tick

	State State
}

// Mode selects one of seven goal-detection geometries, per spec §4.8
// "IsTeamGoal(position) evaluates one of seven SoccerMode geometries".
type Mode int

const (
	ModeAllInOne Mode = iota
	ModeLeftRightHalves
	ModeTopBottomHalves
	ModeQuadrantsDiv1
	ModeQuadrantsDiv2
	ModeSideWallsInverse
	ModeQuadrantsInverse
)

// Manager owns every live ball.
type Manager struct {
	balls []*Ball
	m     *world.Map
}

// New returns a Manager with count balls, all initially invalid.
func New(m *world.Map, count int) *Manager {
	mgr := &Manager{m: m}
	for i := 0; i < count; i++ {
		mgr.balls = append(mgr.balls, &Ball{ID: uint8(i)})
	}
	return mgr
}

// Balls returns every ball slot.
func (mgr *Manager) Balls() []*Ball { return mgr.balls }

// Get returns the ball with the given id.
func (mgr *Manager) Get(id uint8) (*Ball, bool) {
	for _, b := range mgr.balls {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Tick advances every ball one tick, per spec §4.8.
func (mgr *Manager) Tick() {
	for _, b := range mgr.balls {
		if b.HasCarrier || b.Friction == 0 {
			continue
		}
		mgr.stepBall(b)
	}
}

func (mgr *Manager) stepBall(b *Ball) {
	newX := int64(b.X) + int64(b.VelX)
	newY := int64(b.Y) + int64(b.VelY)

	mgr.wallBounce(&newX, &b.VelX)
	mgr.wallBounce(&newY, &b.VelY)

	b.X = uint32(newX)
	b.Y = uint32(newY)

	frictionScale := float64(b.Friction) / 1000 / 1000
	b.VelX = int32(float64(b.VelX) * frictionScale)
	b.VelY = int32(float64(b.VelY) * frictionScale)
	if int32(b.Friction)-int32(b.FrictionDelta) > 0 {
		b.Friction = uint32(int32(b.Friction) - int32(b.FrictionDelta))
	} else {
		b.Friction = 0
	}

	b.NextX = uint32(int64(b.X) + int64(b.VelX))
	b.NextY = uint32(int64(b.Y) + int64(b.VelY))
}

// wallBounce clamps a coordinate to the map bounds, reflecting velocity on
// contact, per spec §4.8 "wall-bounce per axis (reflect the velocity)".
func (mgr *Manager) wallBounce(coord *int64, vel *int32) bool {
	maxCoord := int64(world.Size) * subTilesPerTile
	if *coord < 0 {
		*coord = -*coord
		*vel = -*vel
		return true
	}
	if *coord >= maxCoord {
		*coord = 2*maxCoord - *coord
		*vel = -*vel
		return true
	}
	return false
}

// Position returns the ball's current tile-unit position.
func (b *Ball) Position() mgl32.Vec2 {
	return mgl32.Vec2{float32(b.X) / subTilesPerTile, float32(b.Y) / subTilesPerTile}
}
