package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
)

const (
	subTilesPerTile  = 16  // position packets encode (x,y) in 1/16-tile units.
	velUnitsPerTile  = 160 // position packets encode (vx,vy) in 1/160-tile units.
	orientationSteps = 40

	lerpWindowSeconds = 0.2
	snapThresholdTiles = 4
)

// IngestLarge applies a decoded LargePosition packet to a remote player,
// per spec §4.5 "Position ingest".
func (mgr *Manager) IngestLarge(p *Player, pkt wire.LargePosition, timeDiff int32, now clock.Tick, settings Settings) {
	x := float32(pkt.X) / subTilesPerTile
	y := float32(pkt.Y) / subTilesPerTile
	vx := float32(pkt.VelX) / velUnitsPerTile
	vy := float32(pkt.VelY) / velUnitsPerTile

	p.Orientation = pkt.Dir % orientationSteps
	p.Bounty = pkt.Bounty
	p.Timestamp = uint16(int32(pkt.Timestamp)-timeDiff) & 0x7FFF

	ping := int32(pkt.Ping)
	tickDiff := clock.TickDiff(now, clock.Tick(pkt.Timestamp))
	if tickDiff < 0 {
		tickDiff = 0
	}
	if tickDiff < ping {
		ping = tickDiff
	}

	mgr.ingestCommon(p, x, y, vx, vy, ping, now, settings)
}

// ingestCommon implements the shared projection/lerp math for both large
// and small position packets.
func (mgr *Manager) ingestCommon(p *Player, x, y, vx, vy float32, pingTicks int32, now clock.Tick, settings Settings) {
	old := p.Position
	p.Position = mgl32.Vec2{x, y}
	p.Velocity = mgl32.Vec2{vx, vy}

	for i := int32(0); i < pingTicks; i++ {
		mgr.Simulate(p, 0.01, now, settings)
	}
	projected := p.Position
	p.Position = old

	dx := projected[0] - old[0]
	dy := projected[1] - old[1]
	if abs32(dx) >= snapThresholdTiles || abs32(dy) >= snapThresholdTiles {
		p.Position = projected
		p.LerpTime = 0
		p.LerpVelocity = mgl32.Vec2{}
		return
	}

	p.LerpVelocity = mgl32.Vec2{dx / lerpWindowSeconds, dy / lerpWindowSeconds}
	p.LerpTime = lerpWindowSeconds
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// ItemInfo packs ship/item counts into the word the egress packet appends
// when extra_position_info is set, per spec §4.5 "Position egress".
type ItemInfo struct {
	Shields, Super                                 bool
	Bursts, Repels, Thors, Bricks, Decoys, Rockets, Portals uint8
}

func (it ItemInfo) pack() uint32 {
	var v uint32
	if it.Shields {
		v |= 1 << 0
	}
	if it.Super {
		v |= 1 << 1
	}
	v |= uint32(it.Bursts&0xF) << 4
	v |= uint32(it.Repels&0xF) << 8
	v |= uint32(it.Thors&0xF) << 12
	v |= uint32(it.Bricks&0xF) << 16
	v |= uint32(it.Decoys&0xF) << 20
	v |= uint32(it.Rockets&0xF) << 24
	v |= uint32(it.Portals&0xF) << 28
	return v
}

// EgressLarge builds an outbound LargePosition packet for the local player,
// per spec §4.5 "Position egress".
func EgressLarge(p *Player, now clock.Tick, timeDiff int32, energy uint16, ping uint8, weapon uint16, extra bool, items ItemInfo) wire.LargePosition {
	pkt := wire.LargePosition{
		Dir:       p.Orientation,
		Timestamp: uint16(int32(now)+timeDiff) & 0xFFFF,
		X:         uint16(p.Position[0] * subTilesPerTile),
		VelY:      int16(p.Velocity[1] * velUnitsPerTile),
		PlayerID:  p.ID,
		Togglables: togglables(p),
		Ping:      ping,
		Y:         uint16(p.Position[1] * subTilesPerTile),
		Bounty:    p.Bounty,
		Weapon:    weapon,
		VelX:      int16(p.Velocity[0] * velUnitsPerTile),
	}
	if extra {
		pkt.HasExtra = true
		pkt.Energy = energy
		pkt.Items = items.pack()
	}
	return pkt
}

func togglables(p *Player) uint8 {
	var v uint8
	if p.Status&StatusStealth != 0 {
		v |= 1
	}
	if p.Status&StatusCloak != 0 {
		v |= 2
	}
	if p.Status&StatusXRadar != 0 {
		v |= 4
	}
	if p.Status&StatusAntiwarp != 0 {
		v |= 8
	}
	return v
}

// SendIntervalTicks returns how often (in ticks) the local player must
// emit a position packet: every 10 ticks in-ship, every 100 spectating.
func SendIntervalTicks(p *Player) clock.Tick {
	if p.Ship == SpectatorShip {
		return 100
	}
	return 10
}
