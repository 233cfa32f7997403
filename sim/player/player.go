// Package player implements PlayerManager: the player table, position
// ingest/egress, local physics and the damage queue, per spec §3 "Player"
// and §4.5.
package player

import (
	"github.com/brentp/intintmap"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/world"
)

// Status is a bitset of toggled player statuses.
type Status uint16

const (
	StatusStealth Status = 1 << iota
	StatusCloak
	StatusXRadar
	StatusAntiwarp
	StatusSafety
	StatusFlash
)

const (
	// SpectatorShip is the ship value meaning "not piloting a ship".
	SpectatorShip uint8 = 8
	noParent             = 0xFFFF
)

// Player mirrors one remote or local player's identity, kinematics and
// lifecycle timers.
type Player struct {
	ID        uint16
	Name      string
	Squad     string
	Frequency uint16
	Ship      uint8

	Position    mgl32.Vec2 // tile units
	Velocity    mgl32.Vec2 // tiles/s
	Orientation uint8      // 0..39, one of 40 discrete headings

	Status Status

	Kills, Deaths   uint32
	Wins, Losses    uint16
	Bounty          uint16
	Koth            bool
	AttachParent    uint16 // noParent when unattached
	Children        []uint16
	TurretCount     int
	EnterDelay      float32

	LerpVelocity mgl32.Vec2
	LerpTime     float32

	LastBounceTick clock.Tick
	Timestamp      uint16 // low 15 bits of the server tick last received for this player

	DamageQueue []DamageEvent
}

// HasAttachParent reports whether the player is attached to a carrier.
func (p *Player) HasAttachParent() bool { return p.AttachParent != noParent }

// DamageEvent records one hit taken by self, queued for the periodic
// damage-report packet, per spec §4.5 "Damage queue".
type DamageEvent struct {
	ShooterID  uint16
	WeaponType uint8
	WeaponData uint16
	Energy     uint16
	Damage     uint16
}

// Settings carries the subset of ArenaSettings PlayerManager needs.
type Settings struct {
	BounceFactor   float32 // velocity *= 16/BounceFactor on wall bounce
	ShipRadius     float32
	SendIntervalShip  clock.Tick
	SendIntervalSpec  clock.Tick
}

// Manager owns every connected player, keyed by both table index and id.
type Manager struct {
	players  []*Player
	byID     *intintmap.Map
	selfID   uint16
	m        *world.Map
	bricks   world.BrickLookup
}

// New returns an empty Manager bound to m for collision queries.
func New(m *world.Map, bricks world.BrickLookup) *Manager {
	return &Manager{byID: intintmap.New(64, 0.65), m: m, bricks: bricks}
}

// SetSelf records which player id is the local player.
func (mgr *Manager) SetSelf(id uint16) { mgr.selfID = id }

// Self returns the local player, if present.
func (mgr *Manager) Self() (*Player, bool) { return mgr.Get(mgr.selfID) }

// Reset clears the entire table, used when a fresh PlayerId packet arrives
// (spec §4.10 step 6: "Any PlayerId packet resets the player table").
func (mgr *Manager) Reset() {
	mgr.players = nil
	mgr.byID = intintmap.New(64, 0.65)
}

// Enter pushes a new Player record for PlayerEntering (0x03), per spec
// §4.5: "copy name/squad/scores/freq/flags/koth, zero animations, set
// timestamp = (now+time_diff)&0x7FFF".
func (mgr *Manager) Enter(id uint16, name, squad string, freq uint16, ship uint8, wins, losses uint16, attachParent uint16, koth bool, serverTick clock.Tick) *Player {
	if existing, ok := mgr.Get(id); ok {
		mgr.Leave(id)
		_ = existing
	}
	p := &Player{
		ID:           id,
		Name:         name,
		Squad:        squad,
		Frequency:    freq,
		Ship:         ship,
		Wins:         wins,
		Losses:       losses,
		AttachParent: attachParent,
		Koth:         koth,
		Timestamp:    uint16(serverTick) & 0x7FFF,
	}
	mgr.players = append(mgr.players, p)
	mgr.byID.Put(int64(id), int64(len(mgr.players)-1))
	return p
}

// Leave removes a player by swap-with-last, per spec §3 "Player": "destroyed
// on PlayerLeaving (0x04) by swap-with-last removal". intintmap has no
// delete primitive, so the index is rebuilt from the shortened slice.
func (mgr *Manager) Leave(id uint16) {
	idx64, ok := mgr.byID.Get(int64(id))
	if !ok {
		return
	}
	idx := int(idx64)
	last := len(mgr.players) - 1
	if idx != last {
		mgr.players[idx] = mgr.players[last]
	}
	mgr.players = mgr.players[:last]

	mgr.byID = intintmap.New(64, 0.65)
	for i, p := range mgr.players {
		mgr.byID.Put(int64(p.ID), int64(i))
	}
}

// Get looks up a player by id in O(1) via the secondary index.
func (mgr *Manager) Get(id uint16) (*Player, bool) {
	idx, ok := mgr.byID.Get(int64(id))
	if !ok {
		return nil, false
	}
	return mgr.players[idx], true
}

// All returns every currently-connected player.
func (mgr *Manager) All() []*Player { return mgr.players }

// bounceSuppressionWindow is how recently a prior bounce must have happened
// for this tick's bounce factor to be suppressed to 1 (spec §4.5: "prevents
// velocity collapse on corners").
const bounceSuppressionWindow clock.Tick = 1

// Simulate integrates one step of local physics for p, per spec §4.5
// "Simulate(player, dt, extrapolating)".
func (mgr *Manager) Simulate(p *Player, dt float32, now clock.Tick, settings Settings) {
	if p.HasAttachParent() {
		return
	}

	dx := p.Velocity[0] * dt
	dy := p.Velocity[1] * dt
	if p.LerpTime > 0 {
		step := dt
		if p.LerpTime < step {
			step = p.LerpTime
		}
		dx += p.LerpVelocity[0] * step
		dy += p.LerpVelocity[1] * step
		p.LerpTime -= step
		if p.LerpTime < 0 {
			p.LerpTime = 0
		}
	}

	bounce := float32(16)
	if settings.BounceFactor != 0 {
		bounce = 16 / settings.BounceFactor
	}
	if clock.TickDiff(now, p.LastBounceTick) <= int32(bounceSuppressionWindow) && p.LastBounceTick != 0 {
		bounce = 1
	}

	newX := p.Position[0] + dx
	if mgr.m.IsColliding(float64(newX), float64(p.Position[1]), float64(settings.ShipRadius), int16(p.Frequency), mgr.bricks) {
		p.Velocity[0] = -p.Velocity[0] * bounce
		p.Velocity[1] *= bounce
		p.LerpVelocity[0] = -p.LerpVelocity[0] * bounce
		p.LerpVelocity[1] *= bounce
		p.LastBounceTick = now
	} else {
		p.Position[0] = newX
	}

	newY := p.Position[1] + dy
	if mgr.m.IsColliding(float64(p.Position[0]), float64(newY), float64(settings.ShipRadius), int16(p.Frequency), mgr.bricks) {
		p.Velocity[1] = -p.Velocity[1] * bounce
		p.Velocity[0] *= bounce
		p.LerpVelocity[1] = -p.LerpVelocity[1] * bounce
		p.LerpVelocity[0] *= bounce
		p.LastBounceTick = now
	} else {
		p.Position[1] = newY
	}
}

// QueueDamage appends a hit taken by self to the damage queue, per spec
// §4.5 "Damage queue".
func (p *Player) QueueDamage(ev DamageEvent) {
	p.DamageQueue = append(p.DamageQueue, ev)
}

// DrainDamage returns and clears the queued damage events, for the periodic
// damage-report packet.
func (p *Player) DrainDamage() []DamageEvent {
	out := p.DamageQueue
	p.DamageQueue = nil
	return out
}
