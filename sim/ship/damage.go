package ship

import (
	"math"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/sim/weapon"
)

// EmpTimeScale converts a fractional damage ratio into an emped-time tick
// count, grounded on the same proportional scheme as shield attenuation.
const EmpTimeScale = 100

// DamageSettings carries the self-damage constants OnWeaponHit needs.
type DamageSettings struct {
	MaxShieldTime clock.Tick
	InexactDamage bool
}

// OnWeaponHit applies a hit's base damage (already computed by
// weapon.Damage, per spec §4.6.3) to self, attenuating it by shield time and
// optionally randomizing it in inexact-damage mode. It returns the damage
// actually applied and whether the hit was lethal.
func (s *Ship) OnWeaponHit(base uint16, flags weapon.Flags, settings DamageSettings, rnd func() uint32) (dmg uint16, lethal bool) {
	shieldFactor := float32(1)
	if settings.MaxShieldTime > 0 {
		shieldFactor = 1 - float32(s.ShieldTime)/float32(settings.MaxShieldTime)
		if shieldFactor < 0 {
			shieldFactor = 0
		}
	}
	dmg = uint16(float32(base) * shieldFactor)

	if settings.InexactDamage && rnd != nil {
		sq := (rnd() % (uint32(dmg)*uint32(dmg) + 1))
		dmg = uint16(math.Sqrt(float64(sq) * 1000))
	}

	if flags&weapon.FlagEMP != 0 {
		ratio := float32(0)
		if base > 0 {
			ratio = float32(dmg) / float32(base)
		}
		s.EmpedTime += clock.Tick(ratio * EmpTimeScale)
	}

	s.Energy -= float32(dmg)
	if s.Energy < 0 {
		lethal = true
		s.Energy = 0
	}
	return dmg, lethal
}
