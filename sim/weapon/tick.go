package weapon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/world"
)

// Target is an opposing, in-arena player (or the self player) the weapon
// simulation can push, repel or damage. Implemented by sim/player.Player
// through a small adapter in the composition root.
type Target interface {
	ID() uint16
	Frequency() uint16
	Position() mgl32.Vec2
	Radius() float32
	InSafe() bool
	IsSelf() bool
	Push(vx, vy float32)
	OnWeaponHit(w *Weapon, dmg uint16)
}

const tickSeconds = 0.01

// Tick advances every live weapon from its own last_tick up to now, one
// game tick at a time, per spec §4.6.2 and §5 "Weapon simulation advances
// weapons one tick at a time between last_tick and now".
func (mgr *Manager) Tick(now clock.Tick, settings Settings, targets []Target) {
	for _, w := range mgr.weapons {
		for clock.TickDiff(now, w.LastTick) > 0 && !w.dead {
			mgr.stepOnce(w, w.LastTick+1, settings, targets)
			w.LastTick++
		}
	}
	mgr.removeDead()
}

func (mgr *Manager) stepOnce(w *Weapon, tick clock.Tick, settings Settings, targets []Target) {
	if owner := findTarget(targets, w.PlayerID); owner != nil {
		w.OwnerTeamSafe = owner.InSafe()
	}
	if w.OwnerTeamSafe {
		w.dead = true
		return
	}

	mgr.applyRepel(w, settings, targets)
	mgr.applyGravity(w, settings)
	mgr.applyMotion(w, tick, settings, targets)
	if w.dead {
		return
	}
	mgr.applyProximity(w, tick, settings, targets)
	if w.dead {
		return
	}
	mgr.applyDirectHit(w, targets, settings)
	if w.dead {
		return
	}
	if clock.TickDiff(tick, w.EndTick) >= 0 {
		w.dead = true
	}
}

// applyRepel reverses opposing projectile velocities away from a repel
// weapon's radius, converts opposing mines to bombs, and pushes opposing
// players, per spec §4.6.2 step 2.
func (mgr *Manager) applyRepel(w *Weapon, settings Settings, targets []Target) {
	if w.Data.Type != wire.WeaponRepel {
		return
	}
	for _, other := range mgr.weapons {
		if other == w || other.Frequency == w.Frequency {
			continue
		}
		if dist(w.Position, other.Position) > settings.RepelRadius {
			continue
		}
		if isMineInput(other.Data) {
			other.Data.Alternate = false
			other.EndTick = w.LastTick + AliveTimeTicks(settings, other.Data)
			continue
		}
		dx, dy := other.Position[0]-w.Position[0], other.Position[1]-w.Position[1]
		speed := float32(math.Hypot(float64(other.Velocity[0]), float64(other.Velocity[1])))
		n := float32(math.Hypot(float64(dx), float64(dy)))
		if n == 0 {
			continue
		}
		other.Velocity = mgl32.Vec2{dx / n * speed, dy / n * speed}
	}
	for _, t := range targets {
		if !t.IsSelf() || t.Frequency() == w.Frequency {
			continue
		}
		if dist(w.Position, t.Position()) > settings.RepelRadius {
			continue
		}
		dx, dy := t.Position()[0]-w.Position[0], t.Position()[1]-w.Position[1]
		n := float32(math.Hypot(float64(dx), float64(dy)))
		if n == 0 {
			continue
		}
		t.Push(dx/n*settings.RepelSpeed, dy/n*settings.RepelSpeed)
	}
	w.dead = true
}

func dist(a, b mgl32.Vec2) float32 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return float32(math.Hypot(float64(dx), float64(dy)))
}

// applyGravity pulls bombs toward every wormhole anchor, per spec §4.6.2
// step 3.
func (mgr *Manager) applyGravity(w *Weapon, settings Settings) {
	if !settings.GravityBombs || !isBombLike(w.Data) {
		return
	}
	for _, anchor := range mgr.m.WormholeAnchors() {
		ap := world.Vec2FromPos(anchor)
		dx, dy := ap[0]-w.Position[0], ap[1]-w.Position[1]
		d2 := dx*dx + dy*dy + 1
		pull := settings.GravityPull * 1000 / d2
		n := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if n == 0 {
			continue
		}
		w.Velocity = mgl32.Vec2{w.Velocity[0] + dx/n*pull, w.Velocity[1] + dy/n*pull}
	}
}

func isBombLike(data wire.WeaponData) bool {
	return IsBombLike(data)
}

// IsBombLike reports whether data describes a bomb-class weapon (bomb,
// proximity bomb or thor), used by sim/ship to decide whether a fatal hit
// was a self-bomb (per spec §4.7 "Damage": "not a self-bomb").
func IsBombLike(data wire.WeaponData) bool {
	return data.Type == wire.WeaponBomb || data.Type == wire.WeaponProxBomb || data.Type == wire.WeaponThor
}

// applyMotion integrates one tick of motion and resolves wall collision per
// axis, per spec §4.6.2 step 4.
func (mgr *Manager) applyMotion(w *Weapon, tick clock.Tick, settings Settings, targets []Target) {
	ignoreWalls := w.Data.Type == wire.WeaponThor

	newX := w.Position[0] + w.Velocity[0]*tickSeconds
	if !ignoreWalls && mgr.m.IsSolid(int(newX), int(w.Position[1]), int16(w.Frequency), mgr.bricks) {
		mgr.resolveBounce(w, 0, settings, targets)
	} else {
		w.Position[0] = newX
	}
	if w.dead {
		return
	}

	newY := w.Position[1] + w.Velocity[1]*tickSeconds
	if !ignoreWalls && mgr.m.IsSolid(int(w.Position[0]), int(newY), int16(w.Frequency), mgr.bricks) {
		mgr.resolveBounce(w, 1, settings, targets)
	} else {
		w.Position[1] = newY
	}
}

// resolveBounce handles a wall hit on one axis: explosion if out of
// bounces, else reflect and decrement, per spec §4.6.2 step 4.
func (mgr *Manager) resolveBounce(w *Weapon, axis int, settings Settings, targets []Target) {
	if w.BouncesRemaining == 0 {
		if isBombLike(w.Data) {
			mgr.detonateBomb(w, targets, settings)
		}
		w.dead = true
		return
	}
	w.BouncesRemaining--
	w.Velocity[axis] = -w.Velocity[axis] * (16 / settings.BounceFactorOrDefault())
	if w.Data.Type == wire.WeaponBurst {
		w.Flags |= FlagBurstActive
	}
}

// BounceFactorOrDefault guards against a zero BounceFactor producing
// infinite velocity.
func (s Settings) BounceFactorOrDefault() float32 {
	if s.BounceFactor == 0 {
		return 1
	}
	return s.BounceFactor
}

// applyProximity arms and resolves proximity/thor detonation, per spec
// §4.6.2 step 5.
func (mgr *Manager) applyProximity(w *Weapon, tick clock.Tick, settings Settings, targets []Target) {
	if w.Data.Type != wire.WeaponProxBomb && w.Data.Type != wire.WeaponThor {
		return
	}
	triggerRadius := (settings.ProximityDistance + float32(w.Data.Level)) / 16

	if w.HasProxHit {
		t := findTarget(targets, w.ProxHitPlayer)
		if t == nil {
			w.HasProxHit = false
			return
		}
		offset := dist(w.Position, t.Position())
		if offset > w.ProxHighestOff || clock.TickDiff(tick, w.SensorEndTick) >= 0 {
			mgr.detonateBomb(w, targets, settings)
			return
		}
		w.ProxHighestOff = offset
		return
	}

	for _, t := range targets {
		if t.Frequency() == w.Frequency {
			continue
		}
		if dist(w.Position, t.Position()) <= triggerRadius {
			w.HasProxHit = true
			w.ProxHitPlayer = t.ID()
			w.ProxHighestOff = dist(w.Position, t.Position())
			w.SensorEndTick = tick + settings.BombExplodeDelay
			return
		}
	}
}

func findTarget(targets []Target, id uint16) Target {
	for _, t := range targets {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// applyDirectHit resolves overlap between a weapon and every opposing
// target, per spec §4.6.2 step 6.
func (mgr *Manager) applyDirectHit(w *Weapon, targets []Target, settings Settings) {
	for _, t := range targets {
		if t.Frequency() == w.Frequency {
			continue
		}
		radius := settings.ShipRadius
		if isBombLike(w.Data) {
			radius *= 2
		}
		if dist(w.Position, t.Position()) > radius+t.Radius() {
			continue
		}
		if isBombLike(w.Data) {
			mgr.detonateBomb(w, targets, settings)
			return
		}
		if t.IsSelf() {
			dmg := Damage(w, settings)
			t.OnWeaponHit(w, dmg)
			if w.HasLink {
				mgr.DetonateLinked(w.LinkID)
			}
			w.dead = true
		}
		return
	}
}

// detonateBomb applies damage to everyone within blast radius and, if the
// bomb has shrapnel, spawns it, per spec §4.6.2 step 6 and §4.6.3.
func (mgr *Manager) detonateBomb(w *Weapon, targets []Target, settings Settings) {
	for _, t := range targets {
		if !t.IsSelf() {
			continue
		}
		dmg := Damage(w, settings)
		t.OnWeaponHit(w, dmg)
	}
	if w.HasLink {
		mgr.DetonateLinked(w.LinkID)
	}
	mgr.spawnShrapnel(w, settings)
	w.dead = true
}

// spawnShrapnel spawns w.Data.Shrap bullets at detonation, per spec §4.6.3.
func (mgr *Manager) spawnShrapnel(w *Weapon, settings Settings) {
	count := w.Data.Shrap
	if count == 0 {
		return
	}
	seed := rng.NewLCG(w.RNGSeed)
	shrapData := wire.WeaponData{
		Type:          wire.WeaponBullet,
		Level:         w.Data.ShrapLevel,
		ShrapBouncing: w.Data.ShrapBouncing,
	}
	if w.Data.ShrapBouncing {
		shrapData.Type = wire.WeaponBouncingBullet
	}
	speed := float32(math.Hypot(float64(w.Velocity[0]), float64(w.Velocity[1])))
	if speed == 0 {
		speed = 1
	}

	lifeTotal := AliveTimeTicks(settings, w.Data)
	inactive := false
	if lifeTotal > 0 {
		consumed := float32(clock.TickDiff(w.LastTick, w.SpawnTick)) / float32(lifeTotal)
		inactive = consumed < inactiveShrapLifeFraction
	}

	for i := uint8(0); i < count; i++ {
		var angle float64
		if count > 1 {
			angle = 2 * math.Pi * float64(i) / float64(count)
		} else {
			angle = float64(seed.Next()%360) * math.Pi / 180
		}
		vx := speed * float32(math.Cos(angle))
		vy := speed * float32(math.Sin(angle))
		shrap := mgr.newWeapon(w.PlayerID, w.Frequency, shrapData, w.Position[0], w.Position[1], vx, vy, w.LastTick, settings)
		shrap.InactiveShrap = inactive
		mgr.spawn(shrap)
	}
	w.RNGSeed = seed.State()
}

// Damage computes a weapon's base damage, per spec §4.7 "OnWeaponHit".
func Damage(w *Weapon, settings Settings) uint16 {
	switch w.Data.Type {
	case wire.WeaponBullet, wire.WeaponBouncingBullet:
		if w.InactiveShrap {
			return settings.InactiveShrapDamage
		}
		if w.HasLink || w.Data.ShrapBouncing {
			return uint16(float32(1000) * settings.ShrapnelDamagePercent)
		}
		return uint16(w.Data.Level+1) * 100
	case wire.WeaponBomb, wire.WeaponProxBomb, wire.WeaponThor:
		return uint16(w.Data.Level+1) * 500
	case wire.WeaponBurst:
		return 500
	default:
		return 0
	}
}
