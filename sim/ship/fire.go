package ship

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/sim/player"
	"github.com/zonecore/zoneclient/sim/weapon"
)

// FireFunc matches weapon.Manager.FireWeapons, so ShipController can remain
// unaware of the weapon package's full API surface.
type FireFunc func(isSelf bool, playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings weapon.Settings) weapon.FireResult

// FireWeapons maps ship input to firing actions, per spec §4.6.1 "FireWeapons
// (ship)". opposing is every opposing, in-arena player, used by the
// BombSafety convenience guard.
func (s *Ship) FireWeapons(p *player.Player, in Input, now clock.Tick, settings Settings, wsettings weapon.Settings, fire FireFunc, prevPortalHeld bool, opposing []weapon.Target) {
	inSafe := p.Status&player.StatusSafety != 0

	if in.FireRepel || in.FireBurst || in.FireThor || in.FireDecoy {
		switch {
		case in.FireRepel && s.Repels > 0:
			if !inSafe {
				s.Repels--
			}
		case in.FireBurst && s.Bursts > 0:
			if !inSafe {
				s.Bursts--
			}
		case in.FireThor && s.Thors > 0:
			if !inSafe {
				s.Thors--
			}
		case in.FireDecoy && s.Decoys > 0:
			if !inSafe {
				s.Decoys--
			}
		}
		s.NextBulletTick = now + settings.BombFireDelay
		s.NextBombTick = now + settings.BombFireDelay
		s.NextRepelTick = now + settings.BombFireDelay
	}

	if in.DropBrick && s.Bricks > 0 {
		if !inSafe {
			s.Bricks--
		}
		s.NextBulletTick = now + settings.BombFireDelay
		s.NextBombTick = now + settings.BombFireDelay
	}

	if in.FireRocket {
		s.RocketEndTick = now + settings.RocketTime
		s.NextBulletTick = now + settings.BombFireDelay
		s.NextBombTick = now + settings.BombFireDelay
	}

	if in.PlacePortal && !prevPortalHeld && s.Portals > 0 {
		s.Portals--
		s.PortalLocation = [2]float32{p.Position[0], p.Position[1]}
		s.PortalTime = now
	}
	if in.Warp && !prevPortalHeld {
		if s.PortalTime > 0 {
			p.Position = [2]float32{s.PortalLocation[0], s.PortalLocation[1]}
			p.Status |= player.StatusFlash
			s.FakeAntiwarpEndTick = now + settings.FakeAntiwarpTicks
		} else if s.Energy >= settings.MaximumEnergy {
			p.Status |= player.StatusFlash
		}
	}

	var fired bool

	if in.FireBullet && clock.TickDiff(now, s.NextBulletTick) >= 0 {
		cost := settings.BulletFireEnergy
		delay := settings.BulletFireDelay
		if s.Multifire {
			cost = settings.MultiFireEnergy
			delay = settings.MultiFireDelay
		}
		if s.Energy >= float32(cost) {
			s.Energy -= float32(cost)
			s.NextBulletTick = now + delay
			fired = true
			data := wire.WeaponData{Type: wire.WeaponBullet, Alternate: s.Multifire}
			fire(true, p.ID, p.Frequency, data, p.Position[0], p.Position[1], p.Velocity[0], p.Velocity[1], now, wsettings)
		}
	}

	if in.FireMine && clock.TickDiff(now, s.NextBombTick) >= 0 && s.Bombs > 0 {
		data := wire.WeaponData{Type: wire.WeaponBomb, Alternate: true}
		fire(true, p.ID, p.Frequency, data, p.Position[0], p.Position[1], 0, 0, now, wsettings)
		s.NextBombTick = now + settings.BombFireDelay
		fired = true
	} else if in.FireBomb && clock.TickDiff(now, s.NextBombTick) >= 0 && s.Bombs > 0 {
		if !settings.BombSafety || !anyOpposingWithinProxRadius(p, settings, opposing) {
			data := wire.WeaponData{Type: wire.WeaponBomb}
			fire(true, p.ID, p.Frequency, data, p.Position[0], p.Position[1], p.Velocity[0], p.Velocity[1], now, wsettings)
			s.NextBombTick = now + settings.BombFireDelay
			fired = true
		}
	}

	if fired && inSafe {
		p.Velocity = [2]float32{}
	}
}

// anyOpposingWithinProxRadius implements the BombSafety convenience guard:
// refuse to fire a bomb if any opposing player is within the prox trigger
// radius, per spec §4.6.1 "this is a convenience anti-team-kill guard".
func anyOpposingWithinProxRadius(p *player.Player, settings Settings, opposing []weapon.Target) bool {
	radius := settings.ProximityDistance / 16
	for _, t := range opposing {
		if t.Frequency() == p.Frequency {
			continue
		}
		dx := t.Position()[0] - p.Position[0]
		dy := t.Position()[1] - p.Position[1]
		if dx*dx+dy*dy <= radius*radius {
			return true
		}
	}
	return false
}
