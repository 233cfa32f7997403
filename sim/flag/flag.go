// Package flag implements the turf/dropped flag table, per spec §3 "Flag /
// Brick / Green" and the FlagDrop/FlagClaim/FlagPosition/FlagReward wire
// packets.
package flag

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/internal/clock"
)

// Kind distinguishes the two flag modes, per spec "Turf flag / Dropped
// flag: two flag modes; turf flags are stationary and owned by a
// frequency; dropped flags have an owner freq and a pickup delay."
type Kind int

const (
	KindTurf Kind = iota
	KindDropped
)

// Flag mirrors one arena flag's ownership and position.
type Flag struct {
	ID       uint16
	OwnerFreq uint16
	Position mgl32.Vec2
	Kind     Kind

	Dropped bool

	HiddenEndTick         clock.Tick
	LastPickupRequestTick clock.Tick
}

// Manager owns every flag in the arena.
type Manager struct {
	flags map[uint16]*Flag
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{flags: make(map[uint16]*Flag)}
}

// Set inserts or replaces the flag with the given id, tolerating the
// "duplicate flag id" inconsistency spec §7 says to log and proceed past
// rather than treat as fatal.
func (mgr *Manager) Set(f *Flag) {
	mgr.flags[f.ID] = f
}

// Get returns the flag with the given id, or false if unknown (the "missing
// flag id" inconsistency spec §7 tolerates).
func (mgr *Manager) Get(id uint16) (*Flag, bool) {
	f, ok := mgr.flags[id]
	return f, ok
}

// All returns every tracked flag.
func (mgr *Manager) All() []*Flag {
	out := make([]*Flag, 0, len(mgr.flags))
	for _, f := range mgr.flags {
		out = append(out, f)
	}
	return out
}

// Drop marks a flag dropped at its carrier's last known position, per
// FlagDrop (0x13).
func (mgr *Manager) Drop(id uint16, pos mgl32.Vec2, now clock.Tick) {
	f, ok := mgr.flags[id]
	if !ok {
		return
	}
	f.Dropped = true
	f.Kind = KindDropped
	f.Position = pos
	f.LastPickupRequestTick = now
}

// Claim transfers ownership of a flag to freq, per FlagClaim (0x12).
func (mgr *Manager) Claim(id uint16, freq uint16) {
	f, ok := mgr.flags[id]
	if !ok {
		return
	}
	f.OwnerFreq = freq
	f.Dropped = false
}

// UpdatePosition applies a server-pushed FlagPosition (0x14) update.
func (mgr *Manager) UpdatePosition(id uint16, pos mgl32.Vec2, ownerFreq uint16) {
	f, ok := mgr.flags[id]
	if !ok {
		f = &Flag{ID: id}
		mgr.flags[id] = f
	}
	f.Position = pos
	f.OwnerFreq = ownerFreq
}

// CanPickup reports whether id may be picked up now: it must be dropped and
// its pickup delay must have elapsed, per spec's "dropped flags have an
// owner freq and a pickup delay".
func (mgr *Manager) CanPickup(id uint16, now clock.Tick, pickupDelay clock.Tick) bool {
	f, ok := mgr.flags[id]
	if !ok || !f.Dropped {
		return false
	}
	return clock.TickDiff(now, f.LastPickupRequestTick) >= int32(pickupDelay)
}
