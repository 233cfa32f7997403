package world

import (
	"github.com/zonecore/zoneclient/internal/clock"
	"github.com/zonecore/zoneclient/internal/rng"
)

// DoorMode selects how the per-tick door seed byte is produced, mirroring
// the zone's ArenaSettings.DoorMode.
type DoorMode int32

const (
	DoorModeStatic0  DoorMode = -2
	DoorModeStatic1  DoorMode = -1
	// DoorMode >= 0 is used verbatim as the static seed byte.
)

// doorTemplates are the eight template bytes the seed bits are applied to,
// to derive each door's replacement id. Two banks (open/closed) per door,
// selected by the corresponding seed bit.
var doorTemplates = [8][2]TileID{
	{162, 166}, {163, 167}, {164, 168}, {165, 169},
	{162, 166}, {163, 167}, {164, 168}, {165, 169},
}

// doorOpenID is the tile id a door occupies while open/passable.
const doorOpenID = TileID(162)

// DoorSettings carries the subset of ArenaSettings door state needs.
type DoorSettings struct {
	DoorMode  DoorMode
	DoorDelay clock.Tick // ticks between reseeds
}

// doorState tracks one door cell's current replacement id.
type doorState struct {
	pos      Pos
	templateIdx int
}

// Doors owns every door cell's current phase and the reseed timer. It is
// driven by Map.UpdateDoors once per tick.
type Doors struct {
	cells        []doorState
	lastSeedTick clock.Tick
	seed         byte
	rng          *rng.LCG
}

// NewDoors scans the map for every door cell (an id in the 162..169 range)
// at load time and returns a Doors tracker seeded from doorSeed.
func NewDoors(m *Map, doorSeed uint32) *Doors {
	d := &Doors{rng: rng.NewLCG(doorSeed)}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			id := m.tiles[y*Size+x]
			if IsDoor(id) {
				d.cells = append(d.cells, doorState{pos: Pos{x, y}, templateIdx: int(id-doorIDLow) % 8})
			}
		}
	}
	return d
}

// nextSeedByte produces one 8-bit door seed according to settings.DoorMode,
// per spec §4.4.
func (d *Doors) nextSeedByte(mode DoorMode) byte {
	switch {
	case mode == DoorModeStatic0:
		return byte(d.rng.Next())
	case mode == DoorModeStatic1:
		var seed byte
		bitOrder := [7]int{7, 6, 5, 3, 2, 1, 0}
		for _, bit := range bitOrder {
			if d.rng.Next()%5 != 0 {
				seed |= 1 << uint(bit)
			}
		}
		if d.rng.Next()%5 != 0 {
			seed |= 1 << 4
		}
		return seed
	default:
		return byte(mode)
	}
}

// UpdateDoors advances door state by ceil((now-lastSeedTick)/DoorDelay)
// reseed steps, applying the resulting seed bits to the door template to
// produce each door's replacement id. It returns the set of door positions
// that transitioned from open to a closed id this call, so the caller
// (PlayerManager) can warp any overlapping player home.
func (m *Map) UpdateDoors(d *Doors, now clock.Tick, settings DoorSettings) []Pos {
	if settings.DoorDelay <= 0 {
		settings.DoorDelay = 1
	}
	elapsed := clock.TickDiff(now, d.lastSeedTick)
	if elapsed <= 0 {
		return nil
	}
	steps := (elapsed + int32(settings.DoorDelay) - 1) / int32(settings.DoorDelay)
	if steps <= 0 {
		return nil
	}

	var newSeed byte
	for i := int32(0); i < steps; i++ {
		newSeed = d.nextSeedByte(settings.DoorMode)
	}
	d.seed = newSeed
	d.lastSeedTick = now

	var closedTransitions []Pos
	for i := range d.cells {
		cell := &d.cells[i]
		wasOpen := m.Tile(cell.pos.X, cell.pos.Y) == doorOpenID
		bit := (d.seed >> uint(cell.templateIdx%8)) & 1
		newID := doorTemplates[cell.templateIdx][bit]
		m.setTile(cell.pos.X, cell.pos.Y, newID)
		if wasOpen && newID != doorOpenID {
			closedTransitions = append(closedTransitions, cell.pos)
		}
	}
	return closedTransitions
}

// Seed returns the most recently applied door seed byte.
func (d *Doors) Seed() byte { return d.seed }
