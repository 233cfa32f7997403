package zoneclient

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/sim/radar"
	"github.com/zonecore/zoneclient/sim/ship"
	"github.com/zonecore/zoneclient/sim/weapon"
	"github.com/zonecore/zoneclient/world"
)

// onArenaSettings applies a fresh ArenaSettings (0x0F) to the running
// configuration: it replaces the derived settings (including the prize
// weight table) and triggers a door reseed. No separate prize weight total
// is kept or recomputed.
func (g *Game) onArenaSettings(body []byte) {
	p, err := wire.DecodeArenaSettings(body)
	if err != nil {
		return
	}
	g.arena = &p
	g.applyArenaSettings()

	// Force an immediate reseed on the next simulate() rather than waiting
	// out whatever DoorDelay was in effect under the old settings.
	g.lastDoorTick = 0
}

// applyArenaSettings rebuilds every settings struct Game hands to the sim
// packages from the latest ArenaSettings, selecting the ship-type block for
// whichever ship the local player currently flies (ship 0/Warbird until the
// local player's own PlayerEntering has been seen).
func (g *Game) applyArenaSettings() {
	a := g.arena
	if a == nil {
		return
	}

	shipType := uint8(0)
	if self, ok := g.Players.Self(); ok {
		shipType = self.Ship
	}
	if int(shipType) >= len(a.Ships) {
		shipType = 0
	}
	sw := a.Ships[shipType]

	g.conf.ShipSettings = ship.Settings{
		InitialEnergy:    float32(sw.InitialEnergy),
		MaximumEnergy:    float32(sw.MaximumEnergy),
		InitialRecharge:  float32(sw.InitialRecharge),
		MaximumRecharge:  float32(sw.MaximumRecharge),
		InitialRotation:  float32(sw.InitialRotation),
		MaximumRotation:  float32(sw.MaximumRotation),
		InitialThrust:    float32(sw.InitialThrust),
		MaximumThrust:    float32(sw.MaximumThrust),
		InitialSpeed:     float32(sw.InitialSpeed),
		MaximumSpeed:     float32(sw.MaximumSpeed),
		MaxGuns:          int(sw.MaxGuns),
		MaxBombs:         int(sw.MaxBombs),
		BulletFireEnergy: sw.BulletFireEnergy,
		MultiFireEnergy:  sw.MultiFireEnergy,
		BulletFireDelay:  clock.Tick(sw.BulletFireDelay),
		MultiFireDelay:   clock.Tick(sw.MultiFireDelay),
		BombFireDelay:    clock.Tick(sw.BombFireDelay),
		AfterburnerCost:  float32(sw.AfterburnerCost),
		StealthCost:      float32(sw.StealthCost),
		CloakCost:        float32(sw.CloakCost),
		XRadarCost:       float32(sw.XRadarCost),
		AntiwarpCost:     float32(sw.AntiwarpCost),
	}

	g.conf.WeaponSettings = weapon.Settings{
		BulletAliveTime:       clock.Tick(a.BulletAliveTime),
		BombAliveTime:         clock.Tick(a.BombAliveTime),
		MineAliveTime:         clock.Tick(a.MineAliveTime),
		DecoyAliveTime:        clock.Tick(a.DecoyAliveTime),
		BounceFactor:          float32(a.BounceFactor) / 1000,
		DoubleBarrel:          a.DoubleBarrel != 0,
		ShipRadius:            g.conf.PlayerSettings.ShipRadius,
		MultiFireAngle:        float32(a.MultiFireAngle) / 111,
		BurstShrapnel:         a.BurstShrapnel,
		BurstSpeed:            float32(a.BurstSpeed),
		RepelRadius:           float32(a.RepelRadius),
		RepelSpeed:            float32(a.RepelSpeed),
		GravityBombs:          a.GravityBombs != 0,
		GravityPull:           float32(a.GravityPull),
		ProximityDistance:     float32(a.ProximityDistance),
		BombExplodeDelay:      clock.Tick(a.BombExplodeDelay),
		ShrapnelDamagePercent: float32(a.ShrapnelDamagePercent) / 1000,
		InactiveShrapDamage:   a.InactiveShrapDamage,
		MaxMines:              int(a.MaxMines),
		TeamMaxMines:          int(a.TeamMaxMines),
	}

	g.conf.DamageSettings = ship.DamageSettings{
		MaxShieldTime: clock.Tick(a.ShieldTimeTicks),
	}

	g.doorSettings = world.DoorSettings{
		DoorMode:  world.DoorMode(a.DoorMode),
		DoorDelay: clock.Tick(a.DoorDelay),
	}

	g.radarSettings = radar.Settings{
		SeeMinesEvenWhenNotOwner: a.SeeMinesEvenWhenNotOwner != 0,
		SeeBombLevel:             a.SeeBombLevel,
		MinXRadarEnergy:          float32(a.MinXRadarEnergy),
	}

	g.prizeSettings = ship.PrizeSettings{
		MaxGuns:         int(sw.MaxGuns),
		MaxBombs:        int(sw.MaxBombs),
		MaxRotation:     float32(sw.MaximumRotation),
		MaxThrust:       float32(sw.MaximumThrust),
		MaxSpeed:        float32(sw.MaximumSpeed),
		MaxRecharge:     float32(sw.MaximumRecharge),
		MaxEnergy:       float32(sw.MaximumEnergy),
		SuperTimeTicks:  int(a.SuperTimeTicks),
		ShieldTimeTicks: int(a.ShieldTimeTicks),
		PrizeWeights:    a.PrizeWeights,
	}

	g.prizeFactor = int(a.PrizeFactor)
}
