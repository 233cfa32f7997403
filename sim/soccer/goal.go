package soccer

import (
	"github.com/zonecore/zoneclient/internal/clock"
)

// pickupCooldown is the minimum spacing between pickup attempts, per spec
// §4.8 "last_pickup_request is old enough".
const pickupCooldown clock.Tick = 10

// overlapRadius is the pickup/overlap test radius in tile units.
const overlapRadius = 0.6

// TryPickup reports whether playerID may pick up ball b at playerPos this
// tick, per spec §4.8 "Pickup".
func (mgr *Manager) TryPickup(b *Ball, playerX, playerY float32, now clock.Tick) bool {
	if b.HasCarrier {
		return false
	}
	if clock.TickDiff(now, b.LastPickupTick) < int32(pickupCooldown) {
		return false
	}
	pos := b.Position()
	dx, dy := pos[0]-playerX, pos[1]-playerY
	if dx*dx+dy*dy > overlapRadius*overlapRadius {
		return false
	}
	b.LastPickupTick = now
	return true
}

// Pickup assigns carrierID as b's carrier, per spec §4.8 "BallPickup sent
// reliably when the player overlaps the ball's current interpolated
// position".
func (mgr *Manager) Pickup(b *Ball, carrierID uint16, now clock.Tick) {
	b.HasCarrier = true
	b.CarrierID = carrierID
	b.Friction = 0
	b.Timestamp = uint32(now)
}

// Fire releases the carried ball with the given velocity, per spec §4.8
// "Fire: BallFire sent when firing bullet/bomb or pressing warp while
// carrying".
func (mgr *Manager) Fire(b *Ball, x, y uint32, velX, velY int32, friction uint32, frictionDelta int16, now clock.Tick) {
	b.HasCarrier = false
	b.X, b.Y = x, y
	b.VelX, b.VelY = velX, velY
	b.Friction = friction
	b.FrictionDelta = frictionDelta
	b.Timestamp = uint32(now)
}

// IsTeamGoal evaluates one of seven SoccerMode geometries against a tile
// position, per spec §4.8 "IsTeamGoal".
func IsTeamGoal(mode Mode, mapSize int, x, y int, team int16) bool {
	half := mapSize / 2
	switch mode {
	case ModeAllInOne:
		return true
	case ModeLeftRightHalves:
		if x < half {
			return team == 0
		}
		return team == 1
	case ModeTopBottomHalves:
		if y < half {
			return team == 0
		}
		return team == 1
	case ModeQuadrantsDiv1:
		return quadrant(x, y, half) == int(team)%4
	case ModeQuadrantsDiv2:
		return quadrant(x, y, half) == (int(team)/2)%4
	case ModeSideWallsInverse:
		if x < half {
			return team == 1
		}
		return team == 0
	case ModeQuadrantsInverse:
		return quadrant(x, y, half) == 3-int(team)%4
	default:
		return false
	}
}

func quadrant(x, y, half int) int {
	switch {
	case x < half && y < half:
		return 0
	case x >= half && y < half:
		return 1
	case x < half && y >= half:
		return 2
	default:
		return 3
	}
}
