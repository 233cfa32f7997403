package world

import (
	"encoding/binary"
	"fmt"
)

// Load parses a map file body into a Map. If the first two bytes are "BM",
// the body is treated as a BMP-optional container: the real tile data
// starts at the offset stored at bytes 2..6, and the remainder is a packed
// array of {x:12, y:12, id:8} tile records (32 bits each), per spec §4.4.
func Load(data []byte) (*Map, error) {
	m := New()

	offset := 0
	if len(data) >= 6 && data[0] == 'B' && data[1] == 'M' {
		offset = int(binary.LittleEndian.Uint32(data[2:6]))
	}
	if offset > len(data) {
		return nil, fmt.Errorf("world: BMP offset %d exceeds body length %d", offset, len(data))
	}

	records := data[offset:]
	for i := 0; i+4 <= len(records); i += 4 {
		v := binary.LittleEndian.Uint32(records[i:])
		x := int(v & 0xFFF)
		y := int((v >> 12) & 0xFFF)
		id := TileID(v >> 24)
		m.setRecord(x, y, id)
	}
	return m, nil
}
