package world

// BrickLookup reports whether a brick tile exists at (x, y) and which team
// owns it, so collision checks can treat a brick as passable for its own
// team and solid for everyone else. Implemented by world/brick.Manager.
type BrickLookup interface {
	BrickAt(x, y int) (team int16, ok bool)
}

// IsSolid reports whether (x, y) blocks movement for a ship belonging to
// freq, accounting for brick team-passability (spec §4.4/§4.6: "Brick tiles
// are walkable for the owning team, solid for all others").
func (m *Map) IsSolid(x, y int, freq int16, bricks BrickLookup) bool {
	id := m.Tile(x, y)
	if id == OutOfBoundsID {
		return true
	}
	if id == TileBrick && bricks != nil {
		if team, ok := bricks.BrickAt(x, y); ok {
			return team != freq
		}
		return true
	}
	return IsWall(id)
}

// CanFit reports whether a ship of the given radius (in tile units) centred
// at (cx, cy) overlaps no solid tile, using Minkowski inflation: a solid
// tile blocks when the centre lies strictly inside the tile's AABB grown by
// radius on every side.
func (m *Map) CanFit(cx, cy float64, radius float64, freq int16, bricks BrickLookup) bool {
	minX := int(cx - radius)
	maxX := int(cx + radius)
	minY := int(cy - radius)
	maxY := int(cy + radius)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if cx <= float64(x)-radius || cx >= float64(x+1)+radius ||
				cy <= float64(y)-radius || cy >= float64(y+1)+radius {
				continue
			}
			if m.IsSolid(x, y, freq, bricks) {
				return false
			}
		}
	}
	return true
}

// IsColliding reports whether a ship of the given radius centred at (cx, cy)
// is currently overlapping a solid tile. It is the negation of CanFit used
// at the ship's current position, kept distinct for call-site clarity
// (CanFit tests a candidate destination, IsColliding tests the present
// position).
func (m *Map) IsColliding(cx, cy float64, radius float64, freq int16, bricks BrickLookup) bool {
	return !m.CanFit(cx, cy, radius, freq, bricks)
}
