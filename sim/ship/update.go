package ship

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/sim/player"
	"github.com/zonecore/zoneclient/world"
)

// Input is the polled control state for one tick, mapped from keybinds.
type Input struct {
	RotateLeft, RotateRight bool
	Thrust, Reverse         bool
	Afterburner             bool
	FireBullet, FireBomb, FireMine bool
	FireRepel, FireBurst, FireThor, FireDecoy bool
	FireRocket                                bool
	PlacePortal, Warp                         bool
	DropBrick                                 bool
}

const tickSeconds = 0.01

// Update advances the ship one tick, per spec §4.7.
func (s *Ship) Update(p *player.Player, now clock.Tick, settings Settings, m *world.Map, in Input, portalWasActive bool) {
	thrustMul := float32(1)
	if in.Afterburner {
		thrustMul = settings.RocketThrustMultiplier
	}

	for _, anchor := range m.WormholeAnchors() {
		ap := world.Vec2FromPos(anchor)
		dx, dy := ap[0]-p.Position[0], ap[1]-p.Position[1]
		d2 := dx*dx + dy*dy + 1
		pull := settings.GravityPull * 1000 / d2
		n := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if n == 0 {
			continue
		}
		p.Velocity = mgl32.Vec2{p.Velocity[0] + dx/n*pull, p.Velocity[1] + dy/n*pull}
	}

	if p.HasAttachParent() {
		return
	}

	shuttingDown := clock.TickDiff(s.ShutdownEndTick, now) > 0
	effectiveThrust := float32(s.Thrust) * thrustMul
	if shuttingDown {
		effectiveThrust = 0
	}

	rotSpeed := s.Rotation / 400
	if shuttingDown {
		rotSpeed = 1
	}
	if in.RotateLeft {
		p.Orientation = wrapOrientation(p.Orientation, -rotSpeed*tickSeconds*40)
	}
	if in.RotateRight {
		p.Orientation = wrapOrientation(p.Orientation, rotSpeed*tickSeconds*40)
	}

	if in.Thrust {
		heading := float64(p.Orientation) / 40 * 2 * math.Pi
		p.Velocity[0] += effectiveThrust * float32(math.Cos(heading)) * tickSeconds
		p.Velocity[1] += effectiveThrust * float32(math.Sin(heading)) * tickSeconds
	}
	if in.Reverse {
		heading := float64(p.Orientation) / 40 * 2 * math.Pi
		p.Velocity[0] -= effectiveThrust * float32(math.Cos(heading)) * tickSeconds
		p.Velocity[1] -= effectiveThrust * float32(math.Sin(heading)) * tickSeconds
	}

	maxSpeed := settings.MaximumSpeed
	if in.Afterburner {
		maxSpeed = settings.MaximumSpeed * thrustMul
	}
	if p.TurretCount > 0 {
		maxSpeed -= settings.TurretSpeedPenalty
	}
	if clock.TickDiff(s.NextRepelTick+settings.RepelSpeedBoostTicks, now) > 0 {
		maxSpeed += 1
	}
	speed := p.Velocity.Len()
	if speed > maxSpeed && maxSpeed > 0 {
		scale := maxSpeed / speed
		p.Velocity[0] *= scale
		p.Velocity[1] *= scale
	}

	s.payEnergy(in, now, settings)

	p.Status &^= player.StatusSafety
	if m.IsSafe(int(p.Position[0]), int(p.Position[1])) {
		p.Status |= player.StatusSafety
	}
}

func wrapOrientation(o uint8, delta float32) uint8 {
	v := int32(o) + int32(delta)
	for v < 0 {
		v += 40
	}
	return uint8(v % 40)
}

// payEnergy pays afterburner cost, then recharges, then pays per-tick
// status costs, in that order, per spec §4.7 step 7.
func (s *Ship) payEnergy(in Input, now clock.Tick, settings Settings) {
	if in.Afterburner {
		s.Energy -= settings.AfterburnerCost * tickSeconds
	}
	s.Energy += s.Recharge * tickSeconds
	if s.Energy > settings.MaximumEnergy {
		s.Energy = settings.MaximumEnergy
	}
	if s.Capability&CapStealth != 0 {
		s.Energy -= settings.StealthCost * tickSeconds
	}
	if s.Capability&CapCloak != 0 {
		s.Energy -= settings.CloakCost * tickSeconds
	}
	if s.Capability&CapXRadar != 0 {
		s.Energy -= settings.XRadarCost * tickSeconds
	}
	if s.Capability&CapAntiwarp != 0 {
		s.Energy -= settings.AntiwarpCost * tickSeconds
	}
	if s.Energy < 0 {
		s.Energy = 0
	}
}
