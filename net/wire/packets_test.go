package wire

import (
	"testing"

	"github.com/zonecore/zoneclient/internal/buffer"
)

func TestDecodeSecurity(t *testing.T) {
	w := buffer.NewWriter(16)
	w.Uint32(111)
	w.Uint32(222)
	w.Uint32(333)
	w.Uint32(444)

	p, err := DecodeSecurity(w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PrizeSeed != 111 || p.DoorSeed != 222 || p.Timestamp != 333 || p.ChecksumKey != 444 {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func TestDecodeSecurityShortBuffer(t *testing.T) {
	_, err := DecodeSecurity([]byte{1, 2, 3})
	if err != buffer.ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestDecodeBallGoal(t *testing.T) {
	w := buffer.NewWriter(8)
	w.Uint8(3)
	w.Uint16(5)
	w.Uint16(100)
	w.Uint16(200)

	p, err := DecodeBallGoal(w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BallID != 3 || p.Freq != 5 || p.X != 100 || p.Y != 200 {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func writeShipSettingsWire(w *buffer.Writer, sw ShipSettingsWire) {
	w.Uint16(sw.InitialEnergy)
	w.Uint16(sw.MaximumEnergy)
	w.Uint16(sw.InitialRecharge)
	w.Uint16(sw.MaximumRecharge)
	w.Uint16(sw.InitialRotation)
	w.Uint16(sw.MaximumRotation)
	w.Uint16(sw.InitialThrust)
	w.Uint16(sw.MaximumThrust)
	w.Uint16(sw.InitialSpeed)
	w.Uint16(sw.MaximumSpeed)
	w.Uint8(sw.MaxGuns)
	w.Uint8(sw.MaxBombs)
	w.Uint16(sw.BulletFireEnergy)
	w.Uint16(sw.MultiFireEnergy)
	w.Uint16(sw.BulletFireDelay)
	w.Uint16(sw.MultiFireDelay)
	w.Uint16(sw.BombFireDelay)
	w.Uint16(sw.AfterburnerCost)
	w.Uint16(sw.StealthCost)
	w.Uint16(sw.CloakCost)
	w.Uint16(sw.XRadarCost)
	w.Uint16(sw.AntiwarpCost)
}

func TestDecodeArenaSettings(t *testing.T) {
	w := buffer.NewWriter(1500)
	warbird := ShipSettingsWire{InitialEnergy: 1000, MaximumEnergy: 1000, MaxGuns: 3, MaxBombs: 2}
	for i := 0; i < 8; i++ {
		sw := warbird
		if i == 1 {
			sw.MaximumEnergy = 1500
		}
		writeShipSettingsWire(w, sw)
	}
	w.Uint16(400) // BulletAliveTime
	w.Uint16(300) // BombAliveTime
	w.Uint16(3000) // MineAliveTime
	w.Uint16(3000) // DecoyAliveTime
	w.Uint16(16)  // BounceFactor
	w.Uint8(0)    // DoubleBarrel
	w.Uint16(0)   // MultiFireAngle
	w.Uint8(0)    // BurstShrapnel
	w.Uint16(0)   // BurstSpeed
	w.Uint16(0)   // RepelRadius
	w.Uint16(0)   // RepelSpeed
	w.Uint8(0)    // GravityBombs
	w.Uint16(0)   // GravityPull
	w.Uint16(0)   // ProximityDistance
	w.Uint16(0)   // BombExplodeDelay
	w.Uint16(0)   // ShrapnelDamagePercent
	w.Uint16(0)   // InactiveShrapDamage
	w.Uint16(10)  // MaxMines
	w.Uint16(5)   // TeamMaxMines
	w.Int32(-1)   // DoorMode
	w.Uint16(200) // DoorDelay
	w.Uint8(1)    // SeeMinesEvenWhenNotOwner
	w.Uint8(0)    // SeeBombLevel
	w.Uint16(800) // MinXRadarEnergy
	w.Int32(5000) // PrizeFactor
	for i := 0; i < 28; i++ {
		w.Uint32(uint32(i + 1))
	}
	w.Uint16(3000) // SuperTimeTicks
	w.Uint16(3000) // ShieldTimeTicks
	w.Uint16(1000) // BrickTime

	p, err := DecodeArenaSettings(w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Ships[0].MaximumEnergy != 1000 || p.Ships[1].MaximumEnergy != 1500 {
		t.Fatalf("ship settings decoded wrong: %+v", p.Ships[:2])
	}
	if p.DoorMode != -1 || p.DoorDelay != 200 {
		t.Fatalf("door settings decoded wrong: mode=%d delay=%d", p.DoorMode, p.DoorDelay)
	}
	if p.PrizeFactor != 5000 || p.PrizeWeights[0] != 1 || p.PrizeWeights[27] != 28 {
		t.Fatalf("prize settings decoded wrong: factor=%d weights=%v", p.PrizeFactor, p.PrizeWeights)
	}
	if p.MaxMines != 10 || p.TeamMaxMines != 5 {
		t.Fatalf("mine limits decoded wrong: %+v", p)
	}
}

func TestDecodeArenaSettingsShortBuffer(t *testing.T) {
	_, err := DecodeArenaSettings(make([]byte, 10))
	if err != buffer.ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
