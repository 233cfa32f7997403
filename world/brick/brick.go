// Package brick implements BrickManager: the set of timed, team-owned
// brick tiles a BrickManager places on a world.Map, per spec §3 "Brick" and
// §4.6.
package brick

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/world"
)

// Brick is one placed wall segment: a run of tiles along a single axis,
// owned by a team, with a tick after which it expires.
type Brick struct {
	ID        uint16
	Team      int16
	StartX    int
	StartY    int
	EndX      int
	EndY      int
	ExpiresAt clock.Tick

	underlying []world.TileID // tile ids covered tiles held before placement, in tiles() order.
}

// tiles returns every grid cell this brick covers.
func (b *Brick) tiles() []world.Pos {
	var out []world.Pos
	if b.StartY == b.EndY {
		lo, hi := b.StartX, b.EndX
		if lo > hi {
			lo, hi = hi, lo
		}
		for x := lo; x <= hi; x++ {
			out = append(out, world.Pos{X: x, Y: b.StartY})
		}
		return out
	}
	lo, hi := b.StartY, b.EndY
	if lo > hi {
		lo, hi = hi, lo
	}
	for y := lo; y <= hi; y++ {
		out = append(out, world.Pos{X: b.StartX, Y: y})
	}
	return out
}

// Manager owns every live brick and keeps the backing world.Map's tiles in
// sync with brick placement/expiry. It satisfies world.BrickLookup so
// collision and ray-cast queries can resolve brick team-passability.
type Manager struct {
	m       *world.Map
	bricks  []*Brick
	byTile  map[world.Pos]*Brick
	nextID  uint16
	maxLive int
}

// New returns a Manager bound to m, keeping at most maxLive concurrently
// placed bricks (the oldest is torn down to make room for a new one, per
// spec §4.6 "Settings.BrickCount bounds live bricks; placing beyond the
// limit retires the oldest").
func New(m *world.Map, maxLive int) *Manager {
	if maxLive <= 0 {
		maxLive = 1
	}
	return &Manager{m: m, byTile: make(map[world.Pos]*Brick), maxLive: maxLive}
}

// BrickAt implements world.BrickLookup.
func (mgr *Manager) BrickAt(x, y int) (team int16, ok bool) {
	b, ok := mgr.byTile[world.Pos{X: x, Y: y}]
	if !ok {
		return 0, false
	}
	return b.Team, true
}

// Place drops a new brick owned by team spanning (x1,y1)-(x2,y2), expiring
// at expiresAt, retiring the oldest live brick first if at capacity.
func (mgr *Manager) Place(team int16, x1, y1, x2, y2 int, expiresAt clock.Tick) *Brick {
	if len(mgr.bricks) >= mgr.maxLive {
		mgr.retire(0)
	}
	mgr.nextID++
	b := &Brick{ID: mgr.nextID, Team: team, StartX: x1, StartY: y1, EndX: x2, EndY: y2, ExpiresAt: expiresAt}
	mgr.link(b)
	mgr.bricks = append(mgr.bricks, b)
	return b
}

// link writes a brick's tiles into the backing map and the tile index,
// recording each tile's prior id so unlink can restore it.
func (mgr *Manager) link(b *Brick) {
	tiles := b.tiles()
	b.underlying = make([]world.TileID, len(tiles))
	for i, p := range tiles {
		b.underlying[i] = mgr.m.SetTile(p.X, p.Y, world.TileBrick)
		mgr.byTile[p] = b
	}
}

// unlink restores a brick's tiles to their pre-placement id and clears the
// tile index.
func (mgr *Manager) unlink(b *Brick) {
	for i, p := range b.tiles() {
		mgr.m.SetTile(p.X, p.Y, b.underlying[i])
		delete(mgr.byTile, p)
	}
}

// retire removes the brick at slot i (default 0, the oldest) from both the
// live list and the backing map.
func (mgr *Manager) retire(i int) {
	mgr.unlink(mgr.bricks[i])
	mgr.bricks = append(mgr.bricks[:i], mgr.bricks[i+1:]...)
}

// Tick expires every brick whose ExpiresAt has passed, per-tile clearing
// them from the backing map.
func (mgr *Manager) Tick(now clock.Tick) {
	i := 0
	for i < len(mgr.bricks) {
		if clock.TickDiff(now, mgr.bricks[i].ExpiresAt) >= 0 {
			mgr.retire(i)
			continue
		}
		i++
	}
}

// Live returns a snapshot of every currently placed brick.
func (mgr *Manager) Live() []*Brick {
	out := make([]*Brick, len(mgr.bricks))
	copy(out, mgr.bricks)
	return out
}
