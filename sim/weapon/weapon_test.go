package weapon

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/world"
)

type fakeTarget struct {
	id     uint16
	freq   uint16
	pos    mgl32.Vec2
	radius float32
	self   bool
	inSafe bool
	hits   []uint16
	pushes int
}

func (t *fakeTarget) ID() uint16            { return t.id }
func (t *fakeTarget) Frequency() uint16     { return t.freq }
func (t *fakeTarget) Position() mgl32.Vec2  { return t.pos }
func (t *fakeTarget) Radius() float32       { return t.radius }
func (t *fakeTarget) InSafe() bool          { return t.inSafe }
func (t *fakeTarget) IsSelf() bool          { return t.self }
func (t *fakeTarget) Push(vx, vy float32)   { t.pushes++ }
func (t *fakeTarget) OnWeaponHit(w *Weapon, dmg uint16) {
	t.hits = append(t.hits, dmg)
}

func baseSettings() Settings {
	return Settings{
		BulletAliveTime: 100,
		BombAliveTime:   100,
		MineAliveTime:   1000,
		BounceFactor:    16,
		ShipRadius:      0.4,
		ProximityDistance: 16,
		BombExplodeDelay:  25,
		RepelRadius:       4,
		RepelSpeed:        3,
	}
}

func TestFireBulletSpawnsOneWeapon(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	mgr.FireWeapons(true, 1, 0, wire.WeaponData{Type: wire.WeaponBullet}, 10, 10, 5, 0, 0, baseSettings())
	if len(mgr.Live()) != 1 {
		t.Fatalf("expected 1 weapon, got %d", len(mgr.Live()))
	}
}

func TestFireDoubleBarrelSpawnsTwo(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	s := baseSettings()
	s.DoubleBarrel = true
	mgr.FireWeapons(true, 1, 0, wire.WeaponData{Type: wire.WeaponBullet}, 10, 10, 5, 0, 0, s)
	if len(mgr.Live()) != 2 {
		t.Fatalf("expected 2 weapons, got %d", len(mgr.Live()))
	}
}

func TestFireMultiFireSharesLinkID(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	s := baseSettings()
	s.MultiFireAngle = 15
	mgr.FireWeapons(true, 1, 0, wire.WeaponData{Type: wire.WeaponBullet, Alternate: true}, 10, 10, 5, 0, 0, s)
	live := mgr.Live()
	if len(live) != 4 {
		t.Fatalf("expected 4 multifire shots, got %d", len(live))
	}
	link := live[0].LinkID
	for _, w := range live {
		if !w.HasLink || w.LinkID != link {
			t.Fatal("expected all multifire shots to share one link id")
		}
	}
}

func TestDirectHitDamagesSelfAndConsumesBullet(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	mgr.FireWeapons(true, 1, 0, wire.WeaponData{Type: wire.WeaponBullet, Level: 2}, 10, 10, 0, 0, 0, baseSettings())

	self := &fakeTarget{id: 2, freq: 1, pos: mgl32.Vec2{10, 10}, radius: 0.4, self: true}
	mgr.Tick(clock.Tick(1), baseSettings(), []Target{self})

	if len(self.hits) != 1 {
		t.Fatalf("expected exactly one hit recorded, got %d", len(self.hits))
	}
	if len(mgr.Live()) != 0 {
		t.Fatalf("expected bullet consumed after hit, got %d live", len(mgr.Live()))
	}
}

func TestBombDetonatesOnWallWithShrapnel(t *testing.T) {
	m := world.New()
	for x := 18; x <= 22; x++ {
		m.SetTile(x, 10, 1)
	}
	mgr := New(m, nil)
	mgr.FireWeapons(true, 1, 0, wire.WeaponData{Type: wire.WeaponBomb, Shrap: 4}, 15, 10, 100, 0, 0, baseSettings())

	for i := 0; i < 10; i++ {
		mgr.Tick(clock.Tick(i+1), baseSettings(), nil)
	}
	foundShrap := false
	for _, w := range mgr.Live() {
		if w.Data.Type == wire.WeaponBullet {
			foundShrap = true
		}
	}
	if !foundShrap {
		t.Fatal("expected shrapnel bullets spawned on bomb wall detonation")
	}
}

func TestShrapnelFallsBackToInactiveShrapDamageOnEarlyDetonation(t *testing.T) {
	m := world.New()
	mgr := New(m, nil)
	s := baseSettings()
	s.ShrapnelDamagePercent = 0.5
	s.InactiveShrapDamage = 50

	bomb := mgr.newWeapon(1, 0, wire.WeaponData{Type: wire.WeaponBomb, Shrap: 1, ShrapBouncing: true}, 10, 10, 0, 0, 0, s)
	mgr.spawn(bomb)
	self := &fakeTarget{id: 2, freq: 1, pos: mgl32.Vec2{10, 10}, radius: 0.4, self: true}
	mgr.Tick(clock.Tick(1), s, []Target{self})

	var shrap *Weapon
	for _, w := range mgr.Live() {
		if w.Data.Type == wire.WeaponBouncingBullet {
			shrap = w
		}
	}
	if shrap == nil {
		t.Fatal("expected shrapnel bullet spawned on direct-hit detonation")
	}
	if !shrap.InactiveShrap {
		t.Fatal("expected shrapnel from a bomb detonated at tick 1 to be marked inactive")
	}
	if dmg := Damage(shrap, s); dmg != s.InactiveShrapDamage {
		t.Fatalf("expected inactive shrapnel damage %d, got %d", s.InactiveShrapDamage, dmg)
	}
}

func TestWeaponRemovedWhenOwnerInSafeTile(t *testing.T) {
	m := world.New()
	m.SetTile(10, 10, world.TileSafe)
	mgr := New(m, nil)
	w := mgr.newWeapon(1, 0, wire.WeaponData{Type: wire.WeaponBullet}, 10, 10, 0, 0, 0, baseSettings())
	mgr.spawn(w)

	owner := &fakeTarget{id: 1, freq: 0, pos: mgl32.Vec2{10, 10}, radius: 0.4, inSafe: true}
	mgr.Tick(clock.Tick(1), baseSettings(), []Target{owner})
	if len(mgr.Live()) != 0 {
		t.Fatal("expected weapon removed while owner overlaps a safe tile")
	}
}
