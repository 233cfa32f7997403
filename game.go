package zoneclient

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/notify"
	"github.com/zonecore/zoneclient/sim/flag"
	"github.com/zonecore/zoneclient/sim/green"
	"github.com/zonecore/zoneclient/sim/player"
	"github.com/zonecore/zoneclient/sim/radar"
	"github.com/zonecore/zoneclient/sim/ship"
	"github.com/zonecore/zoneclient/sim/soccer"
	"github.com/zonecore/zoneclient/sim/weapon"
	"github.com/zonecore/zoneclient/world"
	"github.com/zonecore/zoneclient/world/brick"
)

// ballCount is the number of powerball slots a soccer.Manager tracks; the
// arena's actual ball count (0 if soccer is off) arrives with ArenaSettings,
// but a small fixed pool covers every zone this client has been run
// against.
const ballCount = 8

// Game ties one Connection's transport to the simulation packages, driving
// the per-tick data flow: transport drains
// into the sequencer and dispatcher, the dispatcher mutates simulation
// state, ShipController reads input and fires weapons, PlayerManager and
// WeaponManager step the simulation, and expired bricks/doors/self-position
// sends flush back out.
type Game struct {
	conn *Connection
	conf Config

	Map     *world.Map
	Doors   *world.Doors
	Bricks  *brick.Manager
	Players *player.Manager
	Weapons *weapon.Manager
	Soccer  *soccer.Manager
	Flags   *flag.Manager
	Greens  *green.Manager
	Notify  *notify.Bus

	Self *ship.Ship

	prizeSeed  *rng.LCG
	damageSeed *rng.LCG
	doorSeed   uint32

	inputMu    sync.Mutex
	input      ship.Input
	portalHeld bool

	login   *loginFlow
	mapFlow *mapDownloadFlow

	onChatFn func(wire.Chat)

	lastSelfSend clock.Tick
	lastDoorTick clock.Tick

	arena *wire.ArenaSettings

	radarSettings radar.Settings
	doorSettings  world.DoorSettings
	prizeSettings ship.PrizeSettings
	prizeFactor   int

	ready bool
}

// NewGame dials conf.Address and begins the login handshake. The simulation
// managers are constructed once the arena's map finishes downloading; until
// then Game only drains the transport and advances the session.
func NewGame(conf Config) (*Game, error) {
	conn, err := Dial(conf)
	if err != nil {
		return nil, err
	}
	g := &Game{
		conn:       conn,
		conf:       conf,
		Notify:     notify.NewBus(8 * time.Second),
		prizeSeed:  rng.NewLCG(0),
		damageSeed: rng.NewLCG(1),
	}
	g.login = newLoginFlow(conn, conf)
	g.mapFlow = newMapDownloadFlow(conn, conf, g.onMapReady)
	g.registerHandlers()
	if err := g.login.Begin(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return g, nil
}

// onMapReady builds every map-dependent simulation package once the arena's
// map has been downloaded and parsed, per spec §4.10's MapDownload ->
// Complete transition.
func (g *Game) onMapReady(m *world.Map, err error) {
	if err != nil {
		g.conn.log.Error("zoneclient: map download failed", "err", err)
		return
	}
	g.Map = m
	g.Doors = world.NewDoors(m, g.doorSeed)
	g.Bricks = brick.New(m, 64)
	g.Players = player.New(m, g.Bricks)
	g.Weapons = weapon.New(m, g.Bricks)
	g.Soccer = soccer.New(m, ballCount)
	g.Flags = flag.New()
	g.Greens = green.New()
	g.Self = ship.New(g.conf.ShipSettings)
	g.ready = true
}

// registerHandlers wires every in-game packet this client consumes into the
// Connection's dispatcher, per spec §4.10's Complete-state packet list.
func (g *Game) registerHandlers() {
	d := g.conn.Dispatcher()
	d.OnGame(wire.GamePlayerEntering, g.onPlayerEntering)
	d.OnGame(wire.GamePlayerLeaving, g.onPlayerLeaving)
	d.OnGame(wire.GameLargePosition, g.onLargePosition)
	d.OnGame(wire.GameSmallPosition, g.onSmallPosition)
	d.OnGame(wire.GameFreqChange, g.onFreqChange)
	d.OnGame(wire.GameSecurity, g.onSecurity)
	d.OnGame(wire.GameArenaSettings, g.onArenaSettings)
	d.OnGame(wire.GameCollectedPrize, g.onCollectedPrize)
	d.OnGame(wire.GameFlagDrop, g.onFlagDrop)
	d.OnGame(wire.GameFlagClaim, g.onFlagClaim)
	d.OnGame(wire.GameFlagPosition, g.onFlagPosition)
	d.OnGame(wire.GameFlagReward, g.onFlagReward)
	d.OnGame(wire.GameBrick, g.onBrick)
	d.OnGame(wire.GameBallPickup, g.onBallPickup)
	d.OnGame(wire.GameBallFire, g.onBallFire)
	d.OnGame(wire.GameBallGoal, g.onBallGoal)
	d.OnGame(wire.GameChat, g.onChat)
}

// OnChat registers a callback invoked with every incoming chat message, for
// the console's display loop.
func (g *Game) OnChat(fn func(wire.Chat)) { g.onChatFn = fn }

func (g *Game) onChat(body []byte) {
	c, err := wire.DecodeChat(body)
	if err != nil {
		return
	}
	if g.onChatFn != nil {
		g.onChatFn(c)
	}
}

// SendChat sends a public arena chat message, per spec's Chat (0x07)
// packet.
func (g *Game) SendChat(text string) error {
	return g.conn.SendRaw(wire.Chat{Type: 0, Text: text}.Encode())
}

func (g *Game) onPlayerEntering(body []byte) {
	if g.Players == nil {
		return
	}
	p, err := wire.DecodePlayerEntering(body)
	if err != nil {
		return
	}
	g.Players.Enter(p.ID, p.Name, p.Squad, p.Freq, p.Ship, p.Wins, p.Losses, p.AttachParent, p.Koth != 0, g.conn.Clock().Now())

	// The server identifies the local player only by echoing the name this
	// client logged in with; there is no dedicated "this is you" packet.
	if p.Name == g.conf.PlayerName {
		g.Players.SetSelf(p.ID)
		g.applyArenaSettings()
	}
}

func (g *Game) onPlayerLeaving(body []byte) {
	if g.Players == nil {
		return
	}
	p, err := wire.DecodePlayerLeaving(body)
	if err != nil {
		return
	}
	g.Players.Leave(p.ID)
}

func (g *Game) onLargePosition(body []byte) {
	if g.Players == nil {
		return
	}
	p, err := wire.DecodeLargePosition(body)
	if err != nil {
		return
	}
	pl, ok := g.Players.Get(p.PlayerID)
	if !ok {
		return
	}
	g.Players.IngestLarge(pl, p, g.conn.Stats().TimeDiff, g.conn.Clock().Now(), g.conf.PlayerSettings)
	if p.Weapon != 0 {
		data := wire.UnpackWeaponData(p.Weapon)
		g.Weapons.FireWeapons(false, p.PlayerID, pl.Frequency, data, pl.Position[0], pl.Position[1], pl.Velocity[0], pl.Velocity[1], g.conn.Clock().Now(), g.conf.WeaponSettings)
	}
}

func (g *Game) onSmallPosition(body []byte) {
	if g.Players == nil {
		return
	}
	p, err := wire.DecodeSmallPosition(body)
	if err != nil {
		return
	}
	pl, ok := g.Players.Get(uint16(p.PlayerID))
	if !ok {
		return
	}
	pl.Position = mgl32.Vec2{float32(p.X) / 16, float32(p.Y) / 16}
	pl.Orientation = p.Dir
	pl.Timestamp = p.Timestamp & 0x7FFF
	pl.Bounty = uint16(p.Bounty)
}

func (g *Game) onFreqChange(body []byte) {
	if g.Players == nil {
		return
	}
	p, err := wire.DecodeFreqChange(body)
	if err != nil {
		return
	}
	if pl, ok := g.Players.Get(p.PlayerID); ok {
		pl.Frequency = p.Freq
	}
}

// onSecurity seeds the client's copy of the server's prize/door RNG streams,
// per spec §4.9 "Security (0x1A) carries the prize_seed and door_seed the
// client must mirror to agree with the server on random outcomes".
func (g *Game) onSecurity(body []byte) {
	p, err := wire.DecodeSecurity(body)
	if err != nil {
		return
	}
	g.prizeSeed.Seed(p.PrizeSeed)
	g.doorSeed = p.DoorSeed
	if g.Doors != nil {
		g.Doors = world.NewDoors(g.Map, g.doorSeed)
	}
}

// onCollectedPrize applies a server-confirmed prize pickup, per spec §4.7
// "On CollectedPrize (count, prize_id), save the security prize_seed, apply
// count copies, then restore the seed; a negative id signals a negative
// prize".
func (g *Game) onCollectedPrize(body []byte) {
	if g.Self == nil {
		return
	}
	p, err := wire.DecodeCollectedPrize(body)
	if err != nil {
		return
	}
	g.Self.SaveRNGSeed(g.prizeSeed)
	g.Self.ApplyPrize(ship.PrizeID(p.PrizeID), int(p.Count), g.prizeSeed, g.prizeSettings)
	g.Self.RestoreRNGSeed(g.prizeSeed)
}

func (g *Game) onFlagDrop(body []byte) {
	if g.Flags == nil || g.Players == nil {
		return
	}
	p, err := wire.DecodeFlagDrop(body)
	if err != nil {
		return
	}
	pl, ok := g.Players.Get(p.PlayerID)
	if !ok {
		return
	}
	for _, f := range g.Flags.All() {
		if f.OwnerFreq == pl.Frequency && !f.Dropped {
			g.Flags.Drop(f.ID, pl.Position, g.conn.Clock().Now())
		}
	}
}

func (g *Game) onFlagClaim(body []byte) {
	if g.Flags == nil {
		return
	}
	p, err := wire.DecodeFlagClaim(body)
	if err != nil {
		return
	}
	if f, ok := g.Flags.Get(p.FlagID); ok {
		g.Flags.Claim(p.FlagID, f.OwnerFreq)
	}
}

func (g *Game) onFlagPosition(body []byte) {
	if g.Flags == nil {
		return
	}
	p, err := wire.DecodeFlagPosition(body)
	if err != nil {
		return
	}
	g.Flags.UpdatePosition(p.FlagID, mgl32.Vec2{float32(p.X) / 16, float32(p.Y) / 16}, p.OwnerFreq)
}

func (g *Game) onFlagReward(body []byte) {
	p, err := wire.DecodeFlagReward(body)
	if err != nil {
		return
	}
	g.Notify.Push(time.Now(), notify.KindInfo, "freq %d scored %d turf points", p.Freq, p.Points)
}

func (g *Game) onBrick(body []byte) {
	if g.Bricks == nil {
		return
	}
	p, err := wire.DecodeBrick(body)
	if err != nil {
		return
	}
	expires := g.conn.Clock().Now() + clock.Tick(p.StartTime)
	g.Bricks.Place(p.Freq, int(p.X1), int(p.Y1), int(p.X2), int(p.Y2), expires)
}

func (g *Game) onBallPickup(body []byte) {
	if g.Soccer == nil {
		return
	}
	p, err := wire.DecodeBallPickup(body)
	if err != nil {
		return
	}
	b, ok := g.Soccer.Get(p.BallID)
	if !ok {
		return
	}
	g.Soccer.Pickup(b, p.PlayerID, g.conn.Clock().Now())
}

func (g *Game) onBallFire(body []byte) {
	if g.Soccer == nil {
		return
	}
	p, err := wire.DecodeBallFire(body)
	if err != nil {
		return
	}
	b, ok := g.Soccer.Get(p.BallID)
	if !ok {
		return
	}
	g.Soccer.Fire(b, uint32(p.X)*16000/16, uint32(p.Y)*16000/16, int32(p.VelX), int32(p.VelY), b.Friction, b.FrictionDelta, g.conn.Clock().Now())
}

func (g *Game) onBallGoal(body []byte) {
	p, err := wire.DecodeBallGoal(body)
	if err != nil {
		return
	}
	g.Notify.Push(time.Now(), notify.KindInfo, "freq %d scored a goal", p.Freq)
}

// Tick reads one pending datagram and advances the simulation by one game
// step, per spec §6.2's tick order: read packets, simulate, expire
// bricks/doors, flush outbound reliables. The caller's run loop is expected
// to invoke Tick in a fixed-rate loop from its own goroutine; the read
// deadline ReadPacket sets on each call bounds how long a single Tick can block
// waiting on the socket.
func (g *Game) Tick() error {
	if err := g.conn.sess.CheckTimeout(g.conn.Clock().Now()); err != nil {
		return err
	}
	g.login.PollOracle()
	if err := g.conn.ReadPacket(); err != nil {
		var ne net.Error
		if !errors.As(err, &ne) || !ne.Timeout() {
			return err
		}
	}

	if g.ready {
		g.simulate()
	}

	if err := g.conn.seq.Tick(time.Now()); err != nil {
		return err
	}
	return nil
}

func (g *Game) simulate() {
	now := g.conn.Clock().Now()

	g.Soccer.Tick()
	g.Bricks.Tick(now)
	g.Greens.Tick(now)

	if clock.TickDiff(now, g.lastDoorTick) > 0 {
		g.Map.UpdateDoors(g.Doors, now, g.doorSettings)
		g.lastDoorTick = now
	}

	targets := g.weaponTargets()
	g.Weapons.Tick(now, g.conf.WeaponSettings, targets)

	if self, ok := g.Players.Self(); ok {
		g.Players.Simulate(self, 0.01, now, g.conf.PlayerSettings)
		g.simulateSelf(self, now, targets)
	}
}

// simulateSelf steps the local ship controller from pending input, applies
// any hits queued against self since the last tick, and emits an outbound
// position packet, per spec §4.7 "ShipController" and §4.5 "Position
// egress".
func (g *Game) simulateSelf(self *player.Player, now clock.Tick, targets []weapon.Target) {
	in := g.consumeInput()

	g.Self.Update(self, now, g.conf.ShipSettings, g.Map, in, g.portalHeld)

	var fired bool
	var firedData wire.WeaponData
	fire := func(isSelf bool, playerID uint16, freq uint16, data wire.WeaponData, x, y, vx, vy float32, tick clock.Tick, settings weapon.Settings) weapon.FireResult {
		res := g.Weapons.FireWeapons(isSelf, playerID, freq, data, x, y, vx, vy, tick, settings)
		if res.Fired {
			fired = true
			firedData = data
		}
		return res
	}
	g.Self.FireWeapons(self, in, now, g.conf.ShipSettings, g.conf.WeaponSettings, fire, g.portalHeld, targets)
	g.portalHeld = in.PlacePortal || in.Warp

	for _, ev := range self.DrainDamage() {
		_, lethal := g.Self.OnWeaponHit(ev.Damage, 0, g.conf.DamageSettings, g.rollDamage)
		if lethal {
			g.handleDeath(self, ev)
		}
	}

	due := clock.TickDiff(now, g.lastSelfSend) >= int32(player.SendIntervalTicks(self))
	if fired || due {
		weaponWord := uint16(0)
		if fired {
			weaponWord = firedData.Pack()
		}
		g.sendSelfPosition(self, now, weaponWord)
		g.lastSelfSend = now
	}
}

// sendSelfPosition builds and sends the local player's LargePosition packet,
// per spec §4.5 "Position egress".
func (g *Game) sendSelfPosition(self *player.Player, now clock.Tick, weaponWord uint16) {
	stats := g.conn.Stats()
	ping := stats.Ping
	if ping > 255 {
		ping = 255
	}
	items := player.ItemInfo{
		Shields: g.Self.ShieldTime > 0,
		Super:   g.Self.SuperTime > 0,
		Bursts:  uint8(g.Self.Bursts),
		Repels:  uint8(g.Self.Repels),
		Thors:   uint8(g.Self.Thors),
		Bricks:  uint8(g.Self.Bricks),
		Decoys:  uint8(g.Self.Decoys),
		Rockets: uint8(g.Self.Rockets),
		Portals: uint8(g.Self.Portals),
	}
	pkt := player.EgressLarge(self, now, stats.TimeDiff, uint16(g.Self.Energy), uint8(ping), weaponWord, true, items)
	_ = g.conn.SendRaw(pkt.Encode())
}

// enterDelaySeconds is the respawn delay after a lethal hit. The arena
// settings this client decodes carry no EnterDelay field, so this mirrors
// the classic zone default rather than a wire value.
const enterDelaySeconds = 5

// handleDeath sends a Death packet and starts self's enter-delay, per spec
// §4.7.3 "Damage": "If energy < damage and not a self-bomb, send a Death
// packet and start the enter-delay."
func (g *Game) handleDeath(self *player.Player, ev player.DamageEvent) {
	if ev.ShooterID == self.ID && isBombType(ev.WeaponType) {
		return
	}
	self.EnterDelay = enterDelaySeconds
	_ = g.conn.SendRaw(wire.Death{KillerID: ev.ShooterID, Bounty: self.Bounty}.Encode())
}

func isBombType(t uint8) bool {
	switch t {
	case wire.WeaponBomb, wire.WeaponProxBomb, wire.WeaponThor:
		return true
	}
	return false
}

// rollDamage supplies inexact-damage randomization with a stream
// independent of the prize/door RNG, since it has no server-mirrored seed
// to agree with.
func (g *Game) rollDamage() uint32 { return g.damageSeed.Next() }

// SetInput mutates the ship's held input state under lock via fn, for
// console commands to drive. Continuous controls (rotation, thrust,
// afterburner, bullet/bomb/mine fire, portal/warp) should be assigned
// directly; one-shot controls (repel/burst/thor/decoy, brick, rocket) only
// need to be set true, since consumeInput clears them after each tick.
func (g *Game) SetInput(fn func(*ship.Input)) {
	g.inputMu.Lock()
	defer g.inputMu.Unlock()
	fn(&g.input)
}

// consumeInput returns the current input state and clears its one-shot
// fields, so a single console command triggers exactly one action.
func (g *Game) consumeInput() ship.Input {
	g.inputMu.Lock()
	defer g.inputMu.Unlock()
	in := g.input
	g.input.FireRepel = false
	g.input.FireBurst = false
	g.input.FireThor = false
	g.input.FireDecoy = false
	g.input.FireRocket = false
	g.input.DropBrick = false
	return in
}

// weaponTargets adapts every tracked player into a weapon.Target so
// WeaponManager.Tick can push, repel and damage them without importing
// sim/player.
func (g *Game) weaponTargets() []weapon.Target {
	players := g.Players.All()
	out := make([]weapon.Target, 0, len(players))
	selfID, _ := g.Players.Self()
	var selfIDVal uint16
	if selfID != nil {
		selfIDVal = selfID.ID
	}
	for _, p := range players {
		out = append(out, playerTarget{p: p, m: g.Map, isSelf: p.ID == selfIDVal, radius: g.conf.PlayerSettings.ShipRadius})
	}
	return out
}

// playerTarget adapts a *player.Player to weapon.Target.
type playerTarget struct {
	p      *player.Player
	m      *world.Map
	isSelf bool
	radius float32
}

func (t playerTarget) ID() uint16            { return t.p.ID }
func (t playerTarget) Frequency() uint16     { return t.p.Frequency }
func (t playerTarget) Position() mgl32.Vec2  { return t.p.Position }
func (t playerTarget) Radius() float32       { return t.radius }
func (t playerTarget) InSafe() bool {
	return t.m.IsSafe(int(t.p.Position[0]), int(t.p.Position[1]))
}
func (t playerTarget) IsSelf() bool { return t.isSelf }
func (t playerTarget) Push(vx, vy float32) {
	t.p.Velocity[0] += vx
	t.p.Velocity[1] += vy
}
func (t playerTarget) OnWeaponHit(w *weapon.Weapon, dmg uint16) {
	t.p.QueueDamage(player.DamageEvent{
		ShooterID:  w.PlayerID,
		WeaponType: uint8(w.Data.Type),
		WeaponData: w.Data.Pack(),
		Damage:     dmg,
	})
}

// Visibility reports what radar/proximity information self may see about
// other, per radar.Visibility.
func (g *Game) Visibility(other *player.Player) radar.Flags {
	self, ok := g.Players.Self()
	if !ok {
		return 0
	}
	bombLevel := uint8(0)
	if g.Self != nil {
		bombLevel = uint8(g.Self.Bombs)
	}
	energy := float32(0)
	if g.Self != nil {
		energy = g.Self.Energy
	}
	return radar.Visibility(self, other, energy, bombLevel, g.radarSettings)
}

// GreenCap returns how many live PrizeGreens the arena currently tolerates,
// per spec §3's min((PrizeFactor*playerCount)/1000, 256) formula.
func (g *Game) GreenCap() int {
	if g.Players == nil {
		return 0
	}
	return green.Cap(g.prizeFactor, len(g.Players.All()))
}

// Stats returns a snapshot of the underlying connection's counters.
func (g *Game) Stats() ConnectionStats { return g.conn.Stats() }

// Close releases the underlying connection.
func (g *Game) Close() error { return g.conn.Close() }
