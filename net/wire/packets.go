package wire

import "github.com/zonecore/zoneclient/internal/buffer"

// EncryptionRequest is core type 0x01.
type EncryptionRequest struct {
	Key     uint32
	Version uint16
}

func (p EncryptionRequest) Encode() []byte {
	w := buffer.NewWriter(8)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreEncryptionRequest))
	w.Uint32(p.Key)
	w.Uint16(p.Version)
	return w.Bytes()
}

// EncryptionResponse is core type 0x02.
type EncryptionResponse struct {
	Key uint32
}

func DecodeEncryptionResponse(body []byte) (EncryptionResponse, error) {
	r := buffer.NewReader(body)
	p := EncryptionResponse{Key: r.Uint32()}
	return p, r.Err()
}

// ContinuumEncResponse is core type 0x10.
type ContinuumEncResponse struct {
	Key1, Key2 uint32
}

func DecodeContinuumEncResponse(body []byte) (ContinuumEncResponse, error) {
	r := buffer.NewReader(body)
	p := ContinuumEncResponse{Key1: r.Uint32(), Key2: r.Uint32()}
	return p, r.Err()
}

// ContinuumEncAck is core type 0x11.
type ContinuumEncAck struct {
	Key1 uint32
	Flag uint16
}

func (p ContinuumEncAck) Encode() []byte {
	w := buffer.NewWriter(8)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreContinuumEncAck))
	w.Uint32(p.Key1)
	w.Uint16(p.Flag)
	return w.Bytes()
}

// ContinuumKeyExpansionRequest is core type 0x12.
type ContinuumKeyExpansionRequest struct {
	Seed uint32
}

func DecodeContinuumKeyExpansionRequest(body []byte) (ContinuumKeyExpansionRequest, error) {
	r := buffer.NewReader(body)
	return ContinuumKeyExpansionRequest{Seed: r.Uint32()}, r.Err()
}

// ContinuumKeyExpansionResponse is core type 0x13.
type ContinuumKeyExpansionResponse struct {
	Seed  uint32
	Table [20]uint32
}

func (p ContinuumKeyExpansionResponse) Encode() []byte {
	w := buffer.NewWriter(4 + 20*4)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreContinuumKeyExpandResponse))
	w.Uint32(p.Seed)
	for _, v := range p.Table {
		w.Uint32(v)
	}
	return w.Bytes()
}

// SyncRequest is core type 0x05.
type SyncRequest struct {
	Timestamp, Sent, Received uint32
}

func (p SyncRequest) Encode() []byte {
	w := buffer.NewWriter(14)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreSyncRequest))
	w.Uint32(p.Timestamp)
	w.Uint32(p.Sent)
	w.Uint32(p.Received)
	return w.Bytes()
}

// SyncResponse is core type 0x06.
type SyncResponse struct {
	ReceivedTimestamp, LocalTimestamp uint32
}

func DecodeSyncResponse(body []byte) (SyncResponse, error) {
	r := buffer.NewReader(body)
	p := SyncResponse{ReceivedTimestamp: r.Uint32(), LocalTimestamp: r.Uint32()}
	return p, r.Err()
}

// FileRequest is core type 0x0C: ask the zone to stream file index as a
// sequence of huge-chunk frames, per spec §4.3.
type FileRequest struct {
	Index uint16
}

func (p FileRequest) Encode() []byte {
	w := buffer.NewWriter(4)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreFileRequest))
	w.Uint16(p.Index)
	return w.Bytes()
}

// HugeChunkCancel is core type 0x0B.
type HugeChunkCancel struct{}

func (p HugeChunkCancel) Encode() []byte {
	w := buffer.NewWriter(2)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreHugeChunkCancel))
	return w.Bytes()
}

// Reliable is core type 0x03: a reliable envelope around an inner packet.
type Reliable struct {
	ID   uint32
	Body []byte
}

func (p Reliable) Encode() []byte {
	w := buffer.NewWriter(6 + len(p.Body))
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreReliable))
	w.Uint32(p.ID)
	w.WriteBytes(p.Body)
	return w.Bytes()
}

func DecodeReliable(body []byte) (Reliable, error) {
	r := buffer.NewReader(body)
	id := r.Uint32()
	inner := r.Rest()
	if err := r.Err(); err != nil {
		return Reliable{}, err
	}
	return Reliable{ID: id, Body: append([]byte(nil), inner...)}, nil
}

// Ack is core type 0x04.
type Ack struct {
	ID uint32
}

func (p Ack) Encode() []byte {
	w := buffer.NewWriter(6)
	w.Uint8(CoreMarker)
	w.Uint8(byte(CoreAck))
	w.Uint32(p.ID)
	return w.Bytes()
}

func DecodeAck(body []byte) (Ack, error) {
	r := buffer.NewReader(body)
	p := Ack{ID: r.Uint32()}
	return p, r.Err()
}

// PlayerEntering is game type 0x03.
type PlayerEntering struct {
	Ship, Audio                 uint8
	Name, Squad                 string
	Kill, Flag                  uint32
	ID, Freq                    uint16
	Wins, Losses                uint16
	AttachParent                uint16
	Flags                       uint16
	Koth                        uint8
}

func DecodePlayerEntering(body []byte) (PlayerEntering, error) {
	r := buffer.NewReader(body)
	p := PlayerEntering{
		Ship:  r.Uint8(),
		Audio: r.Uint8(),
		Name:  r.FixedString(20),
		Squad: r.FixedString(20),
		Kill:  r.Uint32(),
		Flag:  r.Uint32(),
		ID:    r.Uint16(),
		Freq:  r.Uint16(),
		Wins:  r.Uint16(),
		Losses: r.Uint16(),
		AttachParent: r.Uint16(),
		Flags: r.Uint16(),
		Koth:  r.Uint8(),
	}
	return p, r.Err()
}

// PlayerLeaving is game type 0x04.
type PlayerLeaving struct {
	ID uint16
}

func DecodePlayerLeaving(body []byte) (PlayerLeaving, error) {
	r := buffer.NewReader(body)
	return PlayerLeaving{ID: r.Uint16()}, r.Err()
}

// LargePosition is game type 0x05, the 0x05-prefixed full position packet.
type LargePosition struct {
	Dir       uint8
	Timestamp uint16
	X         uint16
	VelY      int16
	PlayerID  uint16
	Checksum  uint8
	Togglables uint8
	Ping      uint8
	Y         uint16
	Bounty    uint16
	Weapon    uint16
	VelX      int16
	// Present only if ExtraInfo is set.
	HasExtra bool
	Energy   uint16
	S2CLatency uint16
	Timers   uint16
	Items    uint32
}

// Encode serialises a LargePosition, computing and filling in the checksum
// byte at offset 10 as the final step.
func (p LargePosition) Encode() []byte {
	w := buffer.NewWriter(32)
	w.Uint8(byte(GameLargePosition))
	w.Uint8(p.Dir)
	w.Uint16(p.Timestamp)
	w.Uint16(p.X)
	w.Int16(p.VelY)
	w.Uint16(p.PlayerID)
	w.Uint8(0) // checksum placeholder at offset 10
	w.Uint8(p.Togglables)
	w.Uint8(p.Ping)
	w.Uint16(p.Y)
	w.Uint16(p.Bounty)
	w.Uint16(p.Weapon)
	w.Int16(p.VelX)
	if p.HasExtra {
		w.Uint16(p.Energy)
		w.Uint16(p.S2CLatency)
		w.Uint16(p.Timers)
		w.Uint32(p.Items)
	}
	buf := w.Bytes()
	w.SetUint8(10, PositionChecksum(buf))
	return w.Bytes()
}

func DecodeLargePosition(body []byte) (LargePosition, error) {
	r := buffer.NewReader(body)
	p := LargePosition{
		Dir:       r.Uint8(),
		Timestamp: r.Uint16(),
		X:         r.Uint16(),
		VelY:      r.Int16(),
		PlayerID:  r.Uint16(),
		Checksum:  r.Uint8(),
		Togglables: r.Uint8(),
		Ping:      r.Uint8(),
		Y:         r.Uint16(),
		Bounty:    r.Uint16(),
		Weapon:    r.Uint16(),
		VelX:      r.Int16(),
	}
	if r.Len() >= 8 {
		p.HasExtra = true
		p.Energy = r.Uint16()
		p.S2CLatency = r.Uint16()
		p.Timers = r.Uint16()
		p.Items = r.Uint32()
	}
	return p, r.Err()
}

// Chat is game type 0x07.
type Chat struct {
	Type, Sound uint8
	Sender      uint16
	Text        string
}

func DecodeChat(body []byte) (Chat, error) {
	r := buffer.NewReader(body)
	p := Chat{Type: r.Uint8(), Sound: r.Uint8(), Sender: r.Uint16()}
	p.Text = string(r.Rest())
	return p, r.Err()
}

func (p Chat) Encode() []byte {
	w := buffer.NewWriter(8 + len(p.Text))
	w.Uint8(byte(GameChat))
	w.Uint8(p.Type)
	w.Uint8(p.Sound)
	w.Uint16(p.Sender)
	w.WriteBytes([]byte(p.Text))
	return w.Bytes()
}

// PasswordResponse is game type 0x0A.
type PasswordResponse struct {
	Code            uint8
	RegisterRequest uint8
}

func DecodePasswordResponse(body []byte) (PasswordResponse, error) {
	r := buffer.NewReader(body)
	p := PasswordResponse{Code: r.Uint8()}
	if len(body) > 19 {
		r2 := buffer.NewReader(body[19:])
		p.RegisterRequest = r2.Uint8()
	}
	return p, r.Err()
}

// LoginRequest is game type 0x09 (VIE) or 0x24 (Continuum). It carries the
// new-user flag, name, password, machine id, time-zone bias, connect type
// and version; no drivers table is encoded.
type LoginRequest struct {
	NewUser      bool
	Name         string
	Password     string
	MachineID    uint32
	TimeZoneBias int16
	ConnectType  uint8
	Version      uint16
}

// Encode serialises the request using kind as the leading game-type byte
// (GamePassword for classic, GamePasswordCont for Continuum).
func (p LoginRequest) Encode(kind GameType) []byte {
	w := buffer.NewWriter(64)
	w.Uint8(byte(kind))
	if p.NewUser {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
	w.FixedString(p.Name, 32)
	w.FixedString(p.Password, 32)
	w.Uint32(p.MachineID)
	w.Int16(p.TimeZoneBias)
	w.Uint8(p.ConnectType)
	w.Uint16(p.Version)
	return w.Bytes()
}

// FreqChange is game type 0x18.
type FreqChange struct {
	PlayerID, Freq uint16
}

func DecodeFreqChange(body []byte) (FreqChange, error) {
	r := buffer.NewReader(body)
	p := FreqChange{PlayerID: r.Uint16(), Freq: r.Uint16()}
	return p, r.Err()
}

// Death is game type 0x0D, sent by the client when its own ship's energy
// drops below an incoming hit's damage, per spec §4.7.3 "Damage".
type Death struct {
	Green    uint8
	KillerID uint16
	Bounty   uint16
}

func (p Death) Encode() []byte {
	w := buffer.NewWriter(6)
	w.Uint8(byte(GameDeath))
	w.Uint8(p.Green)
	w.Uint16(p.KillerID)
	w.Uint16(p.Bounty)
	return w.Bytes()
}

// Security is game type 0x1A.
type Security struct {
	PrizeSeed, DoorSeed, Timestamp, ChecksumKey uint32
}

func DecodeSecurity(body []byte) (Security, error) {
	r := buffer.NewReader(body)
	p := Security{
		PrizeSeed:   r.Uint32(),
		DoorSeed:    r.Uint32(),
		Timestamp:   r.Uint32(),
		ChecksumKey: r.Uint32(),
	}
	return p, r.Err()
}

func (p Security) EncodeResponse(weaponsReceived uint32, settingsChecksum, mapChecksum, exeChecksum uint32, s2cLost, s2cSent uint16, pingCur, pingAvg, pingLow, pingHigh uint16) []byte {
	w := buffer.NewWriter(40)
	w.Uint8(byte(GameSecurity))
	w.Uint32(weaponsReceived)
	w.Uint32(settingsChecksum)
	w.Uint32(mapChecksum)
	w.Uint32(exeChecksum)
	w.Uint16(s2cLost)
	w.Uint16(s2cSent)
	w.Uint16(pingCur)
	w.Uint16(pingAvg)
	w.Uint16(pingLow)
	w.Uint16(pingHigh)
	return w.Bytes()
}

// MapInformation is game type 0x29.
type MapInformationLVZ struct {
	Filename string
	Checksum uint32
	Size     uint32
}

type MapInformation struct {
	Filename       string
	Checksum       uint32
	CompressedSize uint32 // 0 under classic encryption: size unknown until huge-chunk tail.
	LVZ            []MapInformationLVZ
}

func DecodeMapInformation(body []byte) (MapInformation, error) {
	r := buffer.NewReader(body)
	p := MapInformation{
		Filename:       r.FixedString(16),
		Checksum:       r.Uint32(),
		CompressedSize: r.Uint32(),
	}
	for r.Len() >= 24 {
		p.LVZ = append(p.LVZ, MapInformationLVZ{
			Filename: r.FixedString(16),
			Checksum: r.Uint32(),
			Size:     r.Uint32(),
		})
	}
	return p, r.Err()
}

// ArenaLogin is game type 0x01.
type ArenaLogin struct {
	Ship       uint8
	Audio      uint8
	XRes, YRes uint16
	Arena      uint16
	ArenaName  string
	WantLVZ    bool
}

func (p ArenaLogin) Encode() []byte {
	w := buffer.NewWriter(32)
	w.Uint8(byte(GameArenaLogin))
	w.Uint8(p.Ship)
	w.Uint8(p.Audio)
	w.Uint16(p.XRes)
	w.Uint16(p.YRes)
	w.Uint16(p.Arena)
	w.FixedString(p.ArenaName, 16)
	if p.WantLVZ {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
	return w.Bytes()
}

// CollectedPrize is game type 0x22.
type CollectedPrize struct {
	Count    uint16
	PrizeID  int16
}

func DecodeCollectedPrize(body []byte) (CollectedPrize, error) {
	r := buffer.NewReader(body)
	p := CollectedPrize{Count: r.Uint16(), PrizeID: r.Int16()}
	return p, r.Err()
}

// SmallPosition is game type 0x06, the compact position packet used for
// ships without extra weapon state.
type SmallPosition struct {
	Dir       uint8
	Timestamp uint16
	X         uint16
	Ping      uint8
	Bounty    uint8
	PlayerID  uint8
	Status    uint8
	Y         uint16
}

func DecodeSmallPosition(body []byte) (SmallPosition, error) {
	r := buffer.NewReader(body)
	p := SmallPosition{
		Dir:       r.Uint8(),
		Timestamp: r.Uint16(),
		X:         r.Uint16(),
		Ping:      r.Uint8(),
		Bounty:    r.Uint8(),
		PlayerID:  r.Uint8(),
		Status:    r.Uint8(),
		Y:         r.Uint16(),
	}
	return p, r.Err()
}

// Brick is game type 0x21.
type Brick struct {
	X1, Y1, X2, Y2 uint16
	Freq           int16
	BrickID        uint16
	StartTime      uint32
}

func DecodeBrick(body []byte) (Brick, error) {
	r := buffer.NewReader(body)
	p := Brick{
		X1:        r.Uint16(),
		Y1:        r.Uint16(),
		X2:        r.Uint16(),
		Y2:        r.Uint16(),
		Freq:      r.Int16(),
		BrickID:   r.Uint16(),
		StartTime: r.Uint32(),
	}
	return p, r.Err()
}

// FlagReward is game type 0x15, sent when turf flags pay out points.
type FlagReward struct {
	Freq   uint16
	Points int16
}

func DecodeFlagReward(body []byte) (FlagReward, error) {
	r := buffer.NewReader(body)
	p := FlagReward{Freq: r.Uint16(), Points: r.Int16()}
	return p, r.Err()
}

// FlagDropPacket is game type 0x13, identifying the player who dropped the
// carried flags.
type FlagDropPacket struct {
	PlayerID uint16
}

func DecodeFlagDrop(body []byte) (FlagDropPacket, error) {
	r := buffer.NewReader(body)
	return FlagDropPacket{PlayerID: r.Uint16()}, r.Err()
}

// FlagClaimPacket is game type 0x12.
type FlagClaimPacket struct {
	FlagID uint16
}

func DecodeFlagClaim(body []byte) (FlagClaimPacket, error) {
	r := buffer.NewReader(body)
	return FlagClaimPacket{FlagID: r.Uint16()}, r.Err()
}

// FlagPositionPacket is game type 0x14.
type FlagPositionPacket struct {
	FlagID    uint16
	X, Y      uint16
	OwnerFreq uint16
}

func DecodeFlagPosition(body []byte) (FlagPositionPacket, error) {
	r := buffer.NewReader(body)
	p := FlagPositionPacket{FlagID: r.Uint16(), X: r.Uint16(), Y: r.Uint16(), OwnerFreq: r.Uint16()}
	return p, r.Err()
}

// BallPickup is game type 0x2B.
type BallPickup struct {
	BallID   uint8
	PlayerID uint16
	Time     uint32
}

func DecodeBallPickup(body []byte) (BallPickup, error) {
	r := buffer.NewReader(body)
	p := BallPickup{BallID: r.Uint8(), PlayerID: r.Uint16(), Time: r.Uint32()}
	return p, r.Err()
}

// BallFire is game type 0x2C.
type BallFire struct {
	BallID    uint8
	X, Y      uint16
	VelX, VelY int16
	PlayerID  uint16
	Time      uint32
}

func DecodeBallFire(body []byte) (BallFire, error) {
	r := buffer.NewReader(body)
	p := BallFire{
		BallID:   r.Uint8(),
		X:        r.Uint16(),
		Y:        r.Uint16(),
		VelX:     r.Int16(),
		VelY:     r.Int16(),
		PlayerID: r.Uint16(),
		Time:     r.Uint32(),
	}
	return p, r.Err()
}

// BallGoal is game type 0x2D.
type BallGoal struct {
	BallID uint8
	Freq   uint16
	X, Y   uint16
}

func DecodeBallGoal(body []byte) (BallGoal, error) {
	r := buffer.NewReader(body)
	p := BallGoal{BallID: r.Uint8(), Freq: r.Uint16(), X: r.Uint16(), Y: r.Uint16()}
	return p, r.Err()
}

// ShipSettingsWire is the per-ship-type block inside ArenaSettings, units
// matching the fields of sim/ship.Settings directly (no fixed-point scaling).
type ShipSettingsWire struct {
	InitialEnergy, MaximumEnergy     uint16
	InitialRecharge, MaximumRecharge uint16
	InitialRotation, MaximumRotation uint16
	InitialThrust, MaximumThrust     uint16
	InitialSpeed, MaximumSpeed       uint16
	MaxGuns, MaxBombs                uint8

	BulletFireEnergy, MultiFireEnergy uint16
	BulletFireDelay, MultiFireDelay   uint16
	BombFireDelay                     uint16

	AfterburnerCost, StealthCost, CloakCost uint16
	XRadarCost, AntiwarpCost                 uint16
}

func decodeShipSettingsWire(r *buffer.Reader) ShipSettingsWire {
	return ShipSettingsWire{
		InitialEnergy:      r.Uint16(),
		MaximumEnergy:      r.Uint16(),
		InitialRecharge:    r.Uint16(),
		MaximumRecharge:    r.Uint16(),
		InitialRotation:    r.Uint16(),
		MaximumRotation:    r.Uint16(),
		InitialThrust:      r.Uint16(),
		MaximumThrust:      r.Uint16(),
		InitialSpeed:       r.Uint16(),
		MaximumSpeed:       r.Uint16(),
		MaxGuns:            r.Uint8(),
		MaxBombs:           r.Uint8(),
		BulletFireEnergy:   r.Uint16(),
		MultiFireEnergy:    r.Uint16(),
		BulletFireDelay:    r.Uint16(),
		MultiFireDelay:     r.Uint16(),
		BombFireDelay:      r.Uint16(),
		AfterburnerCost:    r.Uint16(),
		StealthCost:        r.Uint16(),
		CloakCost:          r.Uint16(),
		XRadarCost:         r.Uint16(),
		AntiwarpCost:       r.Uint16(),
	}
}

// ArenaSettings is game type 0x0F: the zone's static sim tuning, sent once
// after login and again whenever an admin pushes a live settings change. It
// carries one ShipSettingsWire block per ship type (0=Warbird..7=Shark) plus
// the arena-wide weapon, door, radar and prize tuning.
type ArenaSettings struct {
	Ships [8]ShipSettingsWire

	BulletAliveTime, BombAliveTime, MineAliveTime, DecoyAliveTime uint16
	BounceFactor                                                  uint16
	DoubleBarrel                                                  uint8
	MultiFireAngle                                                uint16
	BurstShrapnel                                                 uint8
	BurstSpeed                                                    uint16
	RepelRadius, RepelSpeed                                       uint16
	GravityBombs                                                  uint8
	GravityPull                                                   uint16
	ProximityDistance                                             uint16
	BombExplodeDelay                                              uint16
	ShrapnelDamagePercent                                         uint16
	InactiveShrapDamage                                           uint16
	MaxMines, TeamMaxMines                                        uint16

	DoorMode  int32
	DoorDelay uint16

	SeeMinesEvenWhenNotOwner uint8
	SeeBombLevel             uint8
	MinXRadarEnergy          uint16

	PrizeFactor    int32
	PrizeWeights   [28]uint32
	SuperTimeTicks uint16
	ShieldTimeTicks uint16

	BrickTime uint16
}

func DecodeArenaSettings(body []byte) (ArenaSettings, error) {
	r := buffer.NewReader(body)
	var p ArenaSettings
	for i := range p.Ships {
		p.Ships[i] = decodeShipSettingsWire(r)
	}
	p.BulletAliveTime = r.Uint16()
	p.BombAliveTime = r.Uint16()
	p.MineAliveTime = r.Uint16()
	p.DecoyAliveTime = r.Uint16()
	p.BounceFactor = r.Uint16()
	p.DoubleBarrel = r.Uint8()
	p.MultiFireAngle = r.Uint16()
	p.BurstShrapnel = r.Uint8()
	p.BurstSpeed = r.Uint16()
	p.RepelRadius = r.Uint16()
	p.RepelSpeed = r.Uint16()
	p.GravityBombs = r.Uint8()
	p.GravityPull = r.Uint16()
	p.ProximityDistance = r.Uint16()
	p.BombExplodeDelay = r.Uint16()
	p.ShrapnelDamagePercent = r.Uint16()
	p.InactiveShrapDamage = r.Uint16()
	p.MaxMines = r.Uint16()
	p.TeamMaxMines = r.Uint16()
	p.DoorMode = r.Int32()
	p.DoorDelay = r.Uint16()
	p.SeeMinesEvenWhenNotOwner = r.Uint8()
	p.SeeBombLevel = r.Uint8()
	p.MinXRadarEnergy = r.Uint16()
	p.PrizeFactor = r.Int32()
	for i := range p.PrizeWeights {
		p.PrizeWeights[i] = r.Uint32()
	}
	p.SuperTimeTicks = r.Uint16()
	p.ShieldTimeTicks = r.Uint16()
	p.BrickTime = r.Uint16()
	return p, r.Err()
}
