package weapon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
	"github.com/zonecore/zoneclient/net/wire"
)

// FireResult reports the outcome of a FireWeapons call so the caller (self
// ShipController or remote position ingest) can drive notifications/sound.
type FireResult struct {
	Fired   bool
	Refused bool
	Reason  string
}

// FireWeapons authors zero or more Weapon records for one firing event, per
// spec §4.6.1.
func (mgr *Manager) FireWeapons(isSelf bool, playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings Settings) FireResult {
	if data.Alternate && isMineInput(data) {
		if isSelf && mgr.mineLimitReached(playerID, freq, x, y, settings) {
			return FireResult{Refused: true, Reason: "mine limit reached"}
		}
	}

	switch {
	case data.Type == wire.WeaponBurst:
		mgr.fireBurst(playerID, freq, data, x, y, now, settings)
	case (data.Type == wire.WeaponBullet || data.Type == wire.WeaponBouncingBullet) && data.Alternate:
		mgr.fireMultiFire(playerID, freq, data, x, y, vx, vy, now, settings)
	case data.Type == wire.WeaponBullet || data.Type == wire.WeaponBouncingBullet:
		mgr.fireBarrels(playerID, freq, data, x, y, vx, vy, now, settings)
	default:
		mgr.fireSingle(playerID, freq, data, x, y, vx, vy, now, settings)
	}
	return FireResult{Fired: true}
}

func isMineInput(data wire.WeaponData) bool {
	return data.Type == wire.WeaponBomb || data.Type == wire.WeaponProxBomb
}

// mineLimitReached enforces per-ship MaxMines, per-team TeamMaxMines, and
// refuses a second mine on the exact tile, per spec §4.6.1.
func (mgr *Manager) mineLimitReached(playerID uint16, freq uint16, x, y float32, settings Settings) bool {
	var own, team int
	tileX, tileY := int(x), int(y)
	for _, w := range mgr.weapons {
		if !isMineInput(w.Data) {
			continue
		}
		if w.Frequency == freq {
			team++
		}
		if w.PlayerID == playerID {
			own++
		}
		if int(w.Position[0]) == tileX && int(w.Position[1]) == tileY {
			return true
		}
	}
	if settings.MaxMines > 0 && own >= settings.MaxMines {
		return true
	}
	if settings.TeamMaxMines > 0 && team >= settings.TeamMaxMines {
		return true
	}
	return false
}

func (mgr *Manager) newWeapon(playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings Settings) *Weapon {
	w := &Weapon{
		PlayerID:  playerID,
		Frequency: freq,
		Data:      data,
		Position:  mgl32.Vec2{x, y},
		Velocity:  mgl32.Vec2{vx, vy},
		SpawnTick: now,
		LastTick:  now,
		EndTick:   now + AliveTimeTicks(settings, data),
		LastEventPosition: mgl32.Vec2{x, y},
	}
	if data.Type == wire.WeaponBomb || data.Type == wire.WeaponProxBomb {
		w.RNGSeed = rng.SeedFromWeapon(int32(x*1000), int32(y*1000), int16(vx), int16(vy), data.Shrap, data.Level, freq)
	}
	if data.Alternate && isMineInput(data) {
		w.Velocity = mgl32.Vec2{}
		w.BouncesRemaining = 0
	}
	return w
}

// fireBarrels fires 1 or 2 barrels offset by the ship's right vector when
// DoubleBarrel is set, per spec §4.6.1.
func (mgr *Manager) fireBarrels(playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings Settings) {
	if !settings.DoubleBarrel {
		w := mgr.newWeapon(playerID, freq, data, x, y, vx, vy, now, settings)
		mgr.spawn(w)
		return
	}
	speed := float32(math.Hypot(float64(vx), float64(vy)))
	var rightX, rightY float32
	if speed > 0 {
		rightX, rightY = -vy/speed, vx/speed
	}
	offset := settings.ShipRadius * 0.75
	a := mgr.newWeapon(playerID, freq, data, x+rightX*offset, y+rightY*offset, vx, vy, now, settings)
	b := mgr.newWeapon(playerID, freq, data, x-rightX*offset, y-rightY*offset, vx, vy, now, settings)
	mgr.spawn(a)
	mgr.spawn(b)
}

// fireMultiFire fires the double barrel plus two more shots rotated by
// ±MultiFireAngle/111°, all four sharing a fresh link id, per spec §4.6.1.
func (mgr *Manager) fireMultiFire(playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings Settings) {
	mgr.nextLink++
	linkID := mgr.nextLink

	speed := float32(math.Hypot(float64(vx), float64(vy)))
	angleRad := float64(settings.MultiFireAngle) * math.Pi / 180.0
	baseAngle := math.Atan2(float64(vy), float64(vx))

	spawnAt := func(heading float64, px, py float32) {
		w := mgr.newWeapon(playerID, freq, data, px, py, speed*float32(math.Cos(heading)), speed*float32(math.Sin(heading)), now, settings)
		w.HasLink = true
		w.LinkID = linkID
		mgr.spawn(w)
	}

	var rightX, rightY float32
	if speed > 0 {
		rightX, rightY = -vy/speed, vx/speed
	}
	offset := settings.ShipRadius * 0.75

	spawnAt(baseAngle, x+rightX*offset, y+rightY*offset)
	spawnAt(baseAngle, x-rightX*offset, y-rightY*offset)
	spawnAt(baseAngle+angleRad, x, y)
	spawnAt(baseAngle-angleRad, x, y)
}

// fireBurst spawns BurstShrapnel bullets evenly around 360°, per spec
// §4.6.1.
func (mgr *Manager) fireBurst(playerID uint16, freq uint16, data wire.WeaponData, x, y float32, now clock.Tick, settings Settings) {
	count := settings.BurstShrapnel
	if count == 0 {
		count = 1
	}
	for i := uint8(0); i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		vx := settings.BurstSpeed * float32(math.Cos(angle))
		vy := settings.BurstSpeed * float32(math.Sin(angle))
		w := mgr.newWeapon(playerID, freq, data, x, y, vx, vy, now, settings)
		mgr.spawn(w)
	}
}

func (mgr *Manager) fireSingle(playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings Settings) {
	mgr.spawn(mgr.newWeapon(playerID, freq, data, x, y, vx, vy, now, settings))
}
