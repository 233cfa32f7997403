package world

// Checksum computes the deterministic settings-walk checksum used by the
// Security response: for y from key%32 stride 32, for x from key%31 stride
// 31, accumulate key^tile when the tile is a wall (1..=160) or the safe
// tile (171), treating brick id 250 as 0 (so that temporary team bricks
// never change the reported checksum), per spec §3 "Map".
func (m *Map) Checksum(key uint32) uint32 {
	var sum uint32
	startY := int(key % 32)
	startX := int(key % 31)
	for y := startY; y < Size; y += 32 {
		for x := startX; x < Size; x += 31 {
			id := m.Tile(x, y)
			if id == TileBrick {
				id = 0
			}
			if IsWall(id) || id == TileSafe {
				sum += key ^ uint32(id)
			}
		}
	}
	return sum
}
