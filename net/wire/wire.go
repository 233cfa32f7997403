// Package wire defines the core and game packet-kind constants and the
// little-endian envelope rules shared by every wire message the client
// sends or receives. All payloads are at most 520 bytes, length-prefixed by
// nothing (UDP datagram boundaries are the framing), little-endian
// throughout.
package wire

// MaxPacketSize is the largest payload a single UDP datagram may carry.
const MaxPacketSize = 520

// CoreMarker is the first byte of any "core" (transport-layer) packet; the
// second byte then selects the CoreType.
const CoreMarker = 0x00

// CoreType enumerates subtypes of a core (0x00-prefixed) packet.
type CoreType byte

const (
	CoreEncryptionRequest          CoreType = 0x01
	CoreEncryptionResponse         CoreType = 0x02
	CoreReliable                   CoreType = 0x03
	CoreAck                        CoreType = 0x04
	CoreSyncRequest                CoreType = 0x05
	CoreSyncResponse               CoreType = 0x06
	CoreDisconnect                 CoreType = 0x07
	CoreSmallChunkBody             CoreType = 0x08
	CoreSmallChunkTail             CoreType = 0x09
	CoreHugeChunk                  CoreType = 0x0A
	CoreHugeChunkCancel            CoreType = 0x0B
	CoreFileRequest                CoreType = 0x0C
	CoreCluster                    CoreType = 0x0E
	CoreContinuumEncResponse       CoreType = 0x10
	CoreContinuumEncAck            CoreType = 0x11
	CoreContinuumKeyExpandRequest  CoreType = 0x12
	CoreContinuumKeyExpandResponse CoreType = 0x13
)

// GameType enumerates top-level (non-core) game packet kinds.
type GameType byte

const (
	GamePlayerEntering    GameType = 0x03
	GamePlayerLeaving     GameType = 0x04
	GameLargePosition     GameType = 0x05
	GameSmallPosition     GameType = 0x06
	GameChat              GameType = 0x07
	GamePasswordResponse  GameType = 0x0A
	GameFreqChange        GameType = 0x18
	GameSecurity          GameType = 0x1A
	GameMapInformation    GameType = 0x29
	GameCompressedMap     GameType = 0x2A
	GameCollectedPrize    GameType = 0x22
	GameBallPickup        GameType = 0x2B
	GameBallFire          GameType = 0x2C
	GameBallGoal          GameType = 0x2D
	GameArenaSettings     GameType = 0x0F
	GameArenaLogin        GameType = 0x01
	GamePassword          GameType = 0x09
	GamePasswordCont      GameType = 0x24
	GameFlagDrop          GameType = 0x13
	GameFlagClaim         GameType = 0x12
	GameFlagPosition      GameType = 0x14
	GameFlagReward        GameType = 0x15
	GameBrick             GameType = 0x21
	GameKeepAlive         GameType = 0x16
	GameDeath             GameType = 0x0D
	GameTurretLink        GameType = 0x1D
)

// EncryptionScheme selects which cipher/handshake the session negotiates.
type EncryptionScheme byte

const (
	SchemeClassic EncryptionScheme = iota
	SchemeContinuum
)

// PositionChecksum computes the one-byte XOR checksum used by position
// packets: the XOR of every byte of the position packet with byte
// offset 10 (the checksum field itself) treated as zero.
func PositionChecksum(pkt []byte) byte {
	var sum byte
	for i, b := range pkt {
		if i == 10 {
			continue
		}
		sum ^= b
	}
	return sum
}

// WeaponData packs/unpacks the bit-level weapon field shared by position
// packets and FireWeapons: {type:4, level:2, shrap_bouncing:1,
// shrap_level:2, shrap:5, alternate:1, unused:1}.
type WeaponData struct {
	Type          uint8
	Level         uint8
	ShrapBouncing bool
	ShrapLevel    uint8
	Shrap         uint8
	Alternate     bool
}

// Pack encodes WeaponData into its 16-bit wire representation.
func (w WeaponData) Pack() uint16 {
	var v uint16
	v |= uint16(w.Type & 0xF)
	v |= uint16(w.Level&0x3) << 4
	if w.ShrapBouncing {
		v |= 1 << 6
	}
	v |= uint16(w.ShrapLevel&0x3) << 7
	v |= uint16(w.Shrap&0x1F) << 9
	if w.Alternate {
		v |= 1 << 14
	}
	return v
}

// UnpackWeaponData decodes the wire representation into a WeaponData.
func UnpackWeaponData(v uint16) WeaponData {
	return WeaponData{
		Type:          uint8(v & 0xF),
		Level:         uint8((v >> 4) & 0x3),
		ShrapBouncing: v&(1<<6) != 0,
		ShrapLevel:    uint8((v >> 7) & 0x3),
		Shrap:         uint8((v >> 9) & 0x1F),
		Alternate:     v&(1<<14) != 0,
	}
}

// Weapon type ids, per the common SubSpace wire convention.
const (
	WeaponNone = iota
	WeaponBullet
	WeaponBouncingBullet
	WeaponBomb
	WeaponProxBomb
	WeaponRepel
	WeaponDecoy
	WeaponBurst
	WeaponThor
)
