// Package world implements the Map: a 1024x1024 tile grid with door state,
// animated tile sets, ray casting and the settings-walk checksum, per spec
// §3 "Map" and §4.4.
package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Size is the map's fixed width and height in tiles.
const Size = 1024

// TileID identifies a single tile's appearance/behaviour.
type TileID uint8

// Sentinel and well-known tile ids.
const (
	TileEmpty     TileID = 0
	TileSafe      TileID = 171
	TileBrick     TileID = 250
	OutOfBoundsID TileID = 20 // impassable sentinel returned for out-of-range reads.
)

// doorIDLow/doorIDHigh bound the door tile id range, inclusive.
const (
	doorIDLow  = 162
	doorIDHigh = 169
)

// IsDoor reports whether id falls in the door tile range.
func IsDoor(id TileID) bool { return id >= doorIDLow && id <= doorIDHigh }

// IsWall reports whether id is in the solid-wall range used by the
// checksum walk (1..=160).
func IsWall(id TileID) bool { return id >= 1 && id <= 160 }

// IsSafe reports whether (x, y) holds a safe-zone tile.
func (m *Map) IsSafe(x, y int) bool { return m.Tile(x, y) == TileSafe }

// AnimatedKind enumerates the seven animated tile sets the map derives from
// its raw tile ids.
type AnimatedKind int

const (
	AnimGoal AnimatedKind = iota
	AnimAsteroidSmallA
	AnimAsteroidSmallB
	AnimAsteroidLarge
	AnimSpaceStation
	AnimWormhole
	AnimFlag
)

// animatedFeature describes one large multi-cell animated tile anchor: the
// anchor tile id and the (width, height) of the block it fills.
type animatedFeature struct {
	kind          AnimatedKind
	anchorID      TileID
	width, height int
}

// animatedFeatures lists the large features whose anchor tile, when placed
// on load, must have its footprint filled with the anchor id across every
// covered cell (spec §4.4 "Large animated features ... populate every
// covered cell with the anchor id").
var animatedFeatures = []animatedFeature{
	{AnimSpaceStation, 216, 6, 6},
	{AnimWormhole, 219, 5, 5},
	{AnimAsteroidLarge, 213, 2, 2},
}

// Map holds the 1024x1024 tile grid and derived door/animated-tile state.
type Map struct {
	tiles [Size * Size]TileID

	doorSeed byte

	wormholeAnchors []Pos
	goalTiles       []Pos
}

// Pos is a tile-grid coordinate.
type Pos struct {
	X, Y int
}

// New returns an empty (all-zero) Map.
func New() *Map {
	return &Map{}
}

// Tile returns the tile id at (x, y). Out-of-bounds reads return the
// impassable sentinel rather than erroring, per spec §4 ("out_of_bounds_tile:
// return impassable sentinel").
func (m *Map) Tile(x, y int) TileID {
	if x < 0 || y < 0 || x >= Size || y >= Size {
		return OutOfBoundsID
	}
	return m.tiles[y*Size+x]
}

func (m *Map) setTile(x, y int, id TileID) {
	if x < 0 || y < 0 || x >= Size || y >= Size {
		return
	}
	m.tiles[y*Size+x] = id
}

// SetTile overwrites the tile at (x, y), returning the id it held before.
// Exported for world/brick, which needs to restore the underlying tile once
// a brick expires.
func (m *Map) SetTile(x, y int, id TileID) TileID {
	prev := m.Tile(x, y)
	m.setTile(x, y, id)
	return prev
}

// setRecord places a single BMP-record tile and, if it is the anchor of a
// large animated feature, fills the feature's whole footprint with the
// anchor id.
func (m *Map) setRecord(x, y int, id TileID) {
	m.setTile(x, y, id)
	for _, f := range animatedFeatures {
		if id == f.anchorID {
			for dy := 0; dy < f.height; dy++ {
				for dx := 0; dx < f.width; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					m.setTile(x+dx, y+dy, id)
				}
			}
			if f.kind == AnimWormhole {
				m.wormholeAnchors = append(m.wormholeAnchors, Pos{x, y})
			}
		}
	}
	if id == 252 { // goal tile id, single-cell animated feature.
		m.goalTiles = append(m.goalTiles, Pos{x, y})
	}
}

// WormholeAnchors returns every wormhole anchor position cached at load
// time, so gravity-bomb simulation does not need to re-walk the grid every
// tick (SPEC_FULL.md §4.4 supplement).
func (m *Map) WormholeAnchors() []Pos { return m.wormholeAnchors }

// IsAnimatedAnchor reports whether (x, y) is the anchor cell of a large
// animated feature, and which kind.
func (m *Map) IsAnimatedAnchor(x, y int) (AnimatedKind, bool) {
	id := m.Tile(x, y)
	for _, f := range animatedFeatures {
		if id == f.anchorID {
			return f.kind, true
		}
	}
	return 0, false
}

// Vec2FromPos converts a tile position to a mgl32.Vec2 in tile units.
func Vec2FromPos(p Pos) mgl32.Vec2 {
	return mgl32.Vec2{float32(p.X), float32(p.Y)}
}
