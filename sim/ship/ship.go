// Package ship implements ShipController: the self-player's ship inventory,
// energy model, input handling, prize application and damage resolution,
// per spec §4.7.
package ship

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
)

// Capability is a bitset of ship upgrades/unlocks.
type Capability uint32

const (
	CapMultiFire Capability = 1 << iota
	CapProximity
	CapBouncingBullets
	CapCloak
	CapStealth
	CapXRadar
	CapAntiwarp
)

// Ship is the self-player's full inventory and energy state.
type Ship struct {
	Energy   float32
	Recharge float32
	Rotation float32

	Guns, Bombs, Thrust, Speed int
	Repels, Bursts, Decoys, Thors, Bricks, Rockets, Portals int
	Shrapnel                                                int

	Capability Capability
	Multifire  bool

	SuperTime, ShieldTime, EmpedTime, PortalTime clock.Tick
	PortalLocation                                [2]float32
	RocketEndTick, ShutdownEndTick                 clock.Tick

	NextBulletTick, NextBombTick, NextRepelTick clock.Tick

	FakeAntiwarpEndTick clock.Tick

	rngSavedState uint32
	rngHasSave    bool
}

// Settings carries the subset of ArenaSettings ShipController needs.
type Settings struct {
	InitialEnergy, MaximumEnergy           float32
	InitialRecharge, MaximumRecharge       float32
	InitialRotation, MaximumRotation       float32
	InitialThrust, MaximumThrust           float32
	InitialSpeed, MaximumSpeed             float32
	MaxGuns, MaxBombs                      int

	BulletFireEnergy, MultiFireEnergy uint16
	BulletFireDelay, MultiFireDelay   clock.Tick
	BombFireDelay                    clock.Tick

	RocketTime clock.Tick

	AfterburnerCost    float32
	StealthCost        float32
	CloakCost          float32
	XRadarCost         float32
	AntiwarpCost       float32

	RocketThrustMultiplier float32
	TurretSpeedPenalty     float32
	RepelSpeedBoostTicks   clock.Tick

	GravityPull float32

	BombSafety bool
	ProximityDistance float32

	FakeAntiwarpTicks clock.Tick
}

// New returns a ship initialized to the arena's starting values.
func New(settings Settings) *Ship {
	return &Ship{
		Energy:   settings.InitialEnergy,
		Recharge: settings.InitialRecharge,
		Rotation: settings.InitialRotation,
		Thrust:   int(settings.InitialThrust),
		Speed:    int(settings.InitialSpeed),
	}
}

// SaveRNGSeed stashes the security prize_seed so ApplyPrize's one random
// draw can be made and then the external seed restored unaffected, per spec
// §4.7 "Prize application": "Continuum uses the seed only when the server
// reports a random green; the other paths must not mutate it".
func (s *Ship) SaveRNGSeed(seed *rng.LCG) {
	s.rngSavedState = seed.State()
	s.rngHasSave = true
}

// RestoreRNGSeed restores the previously saved state, if any.
func (s *Ship) RestoreRNGSeed(seed *rng.LCG) {
	if s.rngHasSave {
		seed.SetState(s.rngSavedState)
		s.rngHasSave = false
	}
}
