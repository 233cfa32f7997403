package ship

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
)

func clockTicks(n int) clock.Tick { return clock.Tick(n) }

// PrizeID enumerates the 28 distinct prize effects, per spec §4.6.2 "Prize
// application".
type PrizeID int16

const (
	PrizeRecharge PrizeID = iota + 1
	PrizeEnergy
	PrizeRotation
	PrizeStealth
	PrizeCloak
	PrizeXRadar
	PrizeWarp
	PrizeGun
	PrizeBomb
	PrizeBouncingBullets
	PrizeThruster
	PrizeTopSpeed
	PrizeFullCharge
	PrizeEngineShutdown
	PrizeMultifire
	PrizeProximity
	PrizeSuper
	PrizeShield
	PrizeShrapnel
	PrizeAntiwarp
	PrizeRepel
	PrizeBurst
	PrizeDecoy
	PrizeThor
	PrizeMultiprize
	PrizeBrick
	PrizeRocket
	PrizePortal
)

// PrizeSettings carries the Initial/Max clamps and weight table ApplyPrize
// needs.
type PrizeSettings struct {
	MaxGuns, MaxBombs         int
	MaxRotation               float32
	MaxThrust                 float32
	MaxSpeed                  float32
	MaxRecharge               float32
	MaxEnergy                 float32
	SuperTimeTicks            int
	ShieldTimeTicks           int
	PrizeWeights              [28]uint32 // weight for PrizeID i (1-based) at [i-1]
}

// ApplyPrize applies count copies of id (negative ids signal a negative
// prize — spec treats the magnitude as the effect and semantics as a
// downgrade), per spec §4.6.2.
func (s *Ship) ApplyPrize(id PrizeID, count int, seed *rng.LCG, settings PrizeSettings) {
	negative := id < 0
	if negative {
		id = -id
	}
	for i := 0; i < count; i++ {
		s.applyOne(id, negative, seed, settings)
	}
}

func (s *Ship) applyOne(id PrizeID, negative bool, seed *rng.LCG, settings PrizeSettings) {
	switch id {
	case PrizeRecharge:
		s.adjust(&s.Recharge, 1, negative, settings.MaxRecharge)
	case PrizeEnergy:
		s.Energy = clampf(s.Energy+100, 0, settings.MaxEnergy)
	case PrizeRotation:
		s.adjust(&s.Rotation, 1, negative, settings.MaxRotation)
	case PrizeStealth:
		s.toggle(CapStealth, negative)
	case PrizeCloak:
		s.toggle(CapCloak, negative)
	case PrizeXRadar:
		s.toggle(CapXRadar, negative)
	case PrizeGun:
		s.adjustInt(&s.Guns, negative, settings.MaxGuns)
	case PrizeBomb:
		s.adjustInt(&s.Bombs, negative, settings.MaxBombs)
	case PrizeBouncingBullets:
		s.toggle(CapBouncingBullets, negative)
	case PrizeThruster:
		s.adjustIntF(&s.Thrust, negative, settings.MaxThrust)
	case PrizeTopSpeed:
		s.adjustIntF(&s.Speed, negative, settings.MaxSpeed)
	case PrizeFullCharge:
		if !negative {
			s.Energy = settings.MaxEnergy
		}
	case PrizeMultifire:
		s.toggle(CapMultiFire, negative)
		s.Multifire = s.Capability&CapMultiFire != 0
	case PrizeProximity:
		s.toggle(CapProximity, negative)
	case PrizeSuper:
		if !negative {
			s.SuperTime += clockTicks(settings.SuperTimeTicks)
		}
	case PrizeShield:
		if !negative {
			s.ShieldTime += clockTicks(settings.ShieldTimeTicks)
		}
	case PrizeShrapnel:
		s.adjustInt(&s.Shrapnel, negative, 18)
	case PrizeAntiwarp:
		s.toggle(CapAntiwarp, negative)
	case PrizeRepel:
		if !negative {
			s.Repels++
		}
	case PrizeBurst:
		if !negative {
			s.Bursts++
		}
	case PrizeDecoy:
		if !negative {
			s.Decoys++
		}
	case PrizeThor:
		if !negative {
			s.Thors++
		}
	case PrizeBrick:
		if !negative {
			s.Bricks++
		}
	case PrizeRocket:
		if !negative {
			s.Rockets++
		}
	case PrizePortal:
		if !negative {
			s.Portals++
		}
	case PrizeMultiprize:
		s.applyMultiprize(seed, settings)
	case PrizeWarp, PrizeEngineShutdown:
		// Handled by the composition root (teleport / forced shutdown timer)
		// since they mutate Player position rather than Ship inventory.
	}
}

func (s *Ship) adjust(field *float32, delta float32, negative bool, max float32) {
	if negative {
		delta = -delta
	}
	*field = clampf(*field+delta, 0, max)
}

func (s *Ship) adjustInt(field *int, negative bool, max int) {
	delta := 1
	if negative {
		delta = -1
	}
	*field = clampi(*field+delta, 0, max)
}

func (s *Ship) adjustIntF(field *int, negative bool, max float32) {
	delta := 1
	if negative {
		delta = -1
	}
	*field = clampi(*field+delta, 0, int(max))
}

func (s *Ship) toggle(cap Capability, negative bool) {
	if negative {
		s.Capability &^= cap
	} else {
		s.Capability |= cap
	}
}

// applyMultiprize applies 3 prizes drawn from the full arena weight table.
// Any prize id with a non-zero weight can be drawn, Multiprize itself
// included; negative and special prizes are not filtered out.
func (s *Ship) applyMultiprize(seed *rng.LCG, settings PrizeSettings) {
	const multiprizeCount = 3
	var totalWeight uint32
	for _, w := range settings.PrizeWeights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return
	}
	for i := 0; i < multiprizeCount; i++ {
		pick := seed.Next() % totalWeight
		var acc uint32
		for idx, w := range settings.PrizeWeights {
			acc += w
			if pick < acc {
				s.applyOne(PrizeID(idx+1), false, seed, settings)
				break
			}
		}
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
