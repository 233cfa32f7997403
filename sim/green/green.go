// Package green implements PrizeGreen: the map's prize-pickup table, capped
// per spec §3 "PrizeGreen: capped by min((PrizeFactor*playerCount)/1000,
// 256)", and CollectedPrize (0x22) handling.
package green

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
)

// maxGreens is the hard upper bound on live greens regardless of
// PrizeFactor/playerCount, per spec's cap formula.
const maxGreens = 256

// Green is one pending prize pickup on the map.
type Green struct {
	ID       uint32
	Position mgl32.Vec2
	EndTick  clock.Tick
	PrizeID  int32
}

// Manager owns the live green table.
type Manager struct {
	greens  map[uint32]*Green
	nextID  uint32
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{greens: make(map[uint32]*Green)}
}

// Cap computes the live-green cap for the given PrizeFactor and player
// count, per spec's formula.
func Cap(prizeFactor, playerCount int) int {
	cap := prizeFactor * playerCount / 1000
	if cap > maxGreens {
		cap = maxGreens
	}
	if cap < 0 {
		cap = 0
	}
	return cap
}

// Spawn adds a green at pos, evicting the oldest (lowest id) green first if
// the arena is already at cap.
func (mgr *Manager) Spawn(pos mgl32.Vec2, now clock.Tick, lifetime clock.Tick, prizeID int32, cap int) *Green {
	for len(mgr.greens) >= cap && cap > 0 {
		mgr.evictOldest()
	}
	g := &Green{ID: mgr.nextID, Position: pos, EndTick: now + lifetime, PrizeID: prizeID}
	mgr.greens[g.ID] = g
	mgr.nextID++
	return g
}

func (mgr *Manager) evictOldest() {
	ids := maps.Keys(mgr.greens)
	if len(ids) == 0 {
		return
	}
	oldest := slices.Min(ids)
	delete(mgr.greens, oldest)
}

// Tick expires every green whose EndTick has passed.
func (mgr *Manager) Tick(now clock.Tick) {
	for id, g := range mgr.greens {
		if clock.TickDiff(now, g.EndTick) >= 0 {
			delete(mgr.greens, id)
		}
	}
}

// Collect removes and returns the green at id, for CollectedPrize (0x22)
// handling — a missing id (already collected by a peer, or a
// server/client race) is tolerated per spec §7 and simply reports false.
func (mgr *Manager) Collect(id uint32) (*Green, bool) {
	g, ok := mgr.greens[id]
	if ok {
		delete(mgr.greens, id)
	}
	return g, ok
}

// All returns every live green.
func (mgr *Manager) All() []*Green {
	out := make([]*Green, 0, len(mgr.greens))
	for _, g := range mgr.greens {
		out = append(out, g)
	}
	return out
}

// RandomPrizeID draws a weighted random prize id from weights (index i
// holds the weight for prize id i+1), mirroring ship.applyMultiprize's
// weighted draw so CollectedPrize's server-assigned id and a client-side
// speculative green draw use the same distribution.
func RandomPrizeID(seed *rng.LCG, weights []uint32) int32 {
	var total uint64
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		return 0
	}
	roll := uint64(seed.Next()) % total
	var acc uint64
	for i, w := range weights {
		acc += uint64(w)
		if roll < acc {
			return int32(i + 1)
		}
	}
	return int32(len(weights))
}
