package ship

import (
	"testing"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/sim/player"
	"github.com/zonecore/zoneclient/sim/weapon"
)

func TestApplyPrizeEnergyUpgrade(t *testing.T) {
	s := New(Settings{InitialEnergy: 100})
	seed := rng.NewLCG(1)
	s.ApplyPrize(PrizeEnergy, 1, seed, PrizeSettings{MaxEnergy: 300})
	if s.Energy != 200 {
		t.Fatalf("expected energy 200 after +100 prize, got %v", s.Energy)
	}
}

func TestApplyPrizeNegativeDowngradesGuns(t *testing.T) {
	s := New(Settings{})
	s.Guns = 2
	seed := rng.NewLCG(1)
	s.ApplyPrize(-PrizeGun, 1, seed, PrizeSettings{MaxGuns: 6})
	if s.Guns != 1 {
		t.Fatalf("expected guns downgraded to 1, got %d", s.Guns)
	}
}

func TestApplyPrizeClampsAtMax(t *testing.T) {
	s := New(Settings{})
	s.Guns = 6
	seed := rng.NewLCG(1)
	s.ApplyPrize(PrizeGun, 1, seed, PrizeSettings{MaxGuns: 6})
	if s.Guns != 6 {
		t.Fatalf("expected guns clamped at max 6, got %d", s.Guns)
	}
}

func TestRNGSeedSaveRestore(t *testing.T) {
	seed := rng.NewLCG(42)
	s := New(Settings{})
	before := seed.State()
	s.SaveRNGSeed(seed)
	seed.Next()
	seed.Next()
	s.RestoreRNGSeed(seed)
	if seed.State() != before {
		t.Fatalf("expected rng state restored to %d, got %d", before, seed.State())
	}
}

func TestOnWeaponHitAppliesShieldAttenuation(t *testing.T) {
	s := New(Settings{InitialEnergy: 100})
	s.Energy = 100
	s.ShieldTime = 50
	base := weapon.Damage(&weapon.Weapon{Data: wire.WeaponData{Type: wire.WeaponBullet, Level: 0}}, weapon.Settings{})
	dmg, lethal := s.OnWeaponHit(base, 0, DamageSettings{MaxShieldTime: 100}, nil)
	if lethal {
		t.Fatal("expected survivable hit")
	}
	if dmg != 50 {
		t.Fatalf("expected 50%% shield attenuation of 100 damage to yield 50, got %d", dmg)
	}
}

func TestFireBulletConsumesEnergyAndSetsCooldown(t *testing.T) {
	s := New(Settings{InitialEnergy: 100})
	s.Energy = 100
	p := &player.Player{ID: 1, Frequency: 0}
	var fired bool
	fire := func(isSelf bool, playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, now clock.Tick, settings weapon.Settings) weapon.FireResult {
		fired = true
		return weapon.FireResult{Fired: true}
	}
	settings := Settings{BulletFireEnergy: 10, BulletFireDelay: 5}
	s.FireWeapons(p, Input{FireBullet: true}, 0, settings, weapon.Settings{}, fire, false, nil)

	if !fired {
		t.Fatal("expected bullet fired")
	}
	if s.Energy != 90 {
		t.Fatalf("expected energy reduced by 10, got %v", s.Energy)
	}
	if s.NextBulletTick != 5 {
		t.Fatalf("expected cooldown set to 5, got %v", s.NextBulletTick)
	}
}
