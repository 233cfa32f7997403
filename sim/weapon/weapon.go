// Package weapon implements WeaponManager: projectile authoring, per-tick
// simulation, link/shrap/bomb explosions and proximity/EMP logic, per spec
// §3 "Weapon" and §4.6.
package weapon

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/world"
)

// Flags is a bitset of per-weapon transient state.
type Flags uint8

const (
	FlagEMP Flags = 1 << iota
	FlagBurstActive
)

// Weapon is one live projectile: a bullet, bomb, mine, burst shard or
// decoy.
type Weapon struct {
	PlayerID  uint16
	Frequency uint16
	Data      wire.WeaponData

	Position mgl32.Vec2
	Velocity mgl32.Vec2

	BouncesRemaining uint8
	LinkID           uint32
	HasLink          bool
	Flags            Flags

	SpawnTick      clock.Tick
	LastTick       clock.Tick
	EndTick        clock.Tick
	SensorEndTick  clock.Tick
	ProxHitPlayer  uint16
	HasProxHit     bool
	ProxHighestOff float32

	RNGSeed uint32

	LastEventPosition mgl32.Vec2
	LastEventTime     uint64 // microseconds

	OwnerTeamSafe bool

	// InactiveShrap marks a shrapnel bullet spawned from a bomb that
	// detonated before consuming enough of its own life, per spec §4.6.3:
	// such shrapnel falls back to Settings.InactiveShrapDamage instead of
	// the usual ShrapnelDamagePercent scaling.
	InactiveShrap bool

	dead bool
}

// inactiveShrapLifeFraction is the minimum fraction of a bomb's own life it
// must have consumed before detonating for its shrapnel to deal full
// ShrapnelDamagePercent damage; below it, shrapnel falls back to
// Settings.InactiveShrapDamage.
const inactiveShrapLifeFraction = 0.05

// AliveTimeTicks returns how long (in ticks) a weapon of this type/alternate
// combination lives, per spec §3 "Weapon": "end_tick = spawn_tick +
// AliveTime(type, alternate)".
func AliveTimeTicks(settings Settings, data wire.WeaponData) clock.Tick {
	switch data.Type {
	case wire.WeaponBullet, wire.WeaponBouncingBullet:
		return settings.BulletAliveTime
	case wire.WeaponBomb, wire.WeaponProxBomb:
		if data.Alternate {
			return settings.MineAliveTime
		}
		return settings.BombAliveTime
	case wire.WeaponThor:
		return settings.BombAliveTime
	case wire.WeaponBurst:
		return settings.BulletAliveTime
	case wire.WeaponDecoy:
		return settings.DecoyAliveTime
	default:
		return settings.BulletAliveTime
	}
}

// Settings carries the subset of ArenaSettings WeaponManager needs.
type Settings struct {
	BulletAliveTime clock.Tick
	BombAliveTime   clock.Tick
	MineAliveTime   clock.Tick
	DecoyAliveTime  clock.Tick

	BounceFactor float32

	DoubleBarrel      bool
	ShipRadius        float32
	MultiFireAngle    float32 // degrees/111, per spec
	BurstShrapnel     uint8
	BurstSpeed        float32

	RepelRadius float32
	RepelSpeed  float32

	GravityBombs  bool
	GravityPull   float32

	ProximityDistance float32
	BombExplodeDelay  clock.Tick

	ShrapnelDamagePercent float32
	InactiveShrapDamage   uint16

	MaxMines     int
	TeamMaxMines int
}

// Manager owns every live weapon.
type Manager struct {
	m         *world.Map
	bricks    world.BrickLookup
	weapons   []*Weapon
	linkIndex map[uint32][]*Weapon
	nextLink  uint32
}

// New returns an empty Manager bound to m for collision queries, consulting
// bricks to resolve team-passability of brick tiles.
func New(m *world.Map, bricks world.BrickLookup) *Manager {
	return &Manager{m: m, bricks: bricks, linkIndex: make(map[uint32][]*Weapon)}
}

// Live returns every currently live weapon.
func (mgr *Manager) Live() []*Weapon { return mgr.weapons }

func (mgr *Manager) spawn(w *Weapon) {
	mgr.weapons = append(mgr.weapons, w)
	if w.HasLink {
		mgr.linkIndex[w.LinkID] = append(mgr.linkIndex[w.LinkID], w)
	}
}

// removeDead compacts the weapon slice, dropping entries marked dead.
func (mgr *Manager) removeDead() {
	out := mgr.weapons[:0]
	for _, w := range mgr.weapons {
		if !w.dead {
			out = append(out, w)
		}
	}
	mgr.weapons = out
}

// DetonateLinked marks every weapon sharing id's link group as dead, per
// spec §4.6.1: "when one detonates on a player, all siblings with the same
// link_id detonate too (but only once)".
func (mgr *Manager) DetonateLinked(linkID uint32) {
	for _, w := range mgr.linkIndex[linkID] {
		w.dead = true
	}
}
