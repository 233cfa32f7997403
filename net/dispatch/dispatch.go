// Package dispatch implements the PacketDispatcher: a registry of
// (packet-kind -> handler list) invoked, in insertion order, after core
// decoding and sequencer reassembly.
package dispatch

import "github.com/zonecore/zoneclient/net/wire"

// Handler processes one decoded packet body for a registered kind.
type Handler func(body []byte)

// Dispatcher routes decoded packets to every handler registered for their
// kind, preserving insertion order so multiple collaborators (core
// simulation, UI) can both observe the same packet.
type Dispatcher struct {
	game map[wire.GameType][]Handler
	core map[wire.CoreType][]Handler
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		game: make(map[wire.GameType][]Handler),
		core: make(map[wire.CoreType][]Handler),
	}
}

// OnGame registers h to run whenever a top-level game packet of kind t is
// dispatched.
func (d *Dispatcher) OnGame(t wire.GameType, h Handler) {
	d.game[t] = append(d.game[t], h)
}

// OnCore registers h to run whenever a core (0x00-prefixed) packet of
// subtype t is dispatched.
func (d *Dispatcher) OnCore(t wire.CoreType, h Handler) {
	d.core[t] = append(d.core[t], h)
}

// Dispatch routes a decoded packet body (the full payload, including its
// kind byte(s)) to every registered handler for its kind. Unknown kinds are
// silently ignored, per spec §7 ("packet parsing errors do not crash; the
// offending packet is dropped").
func (d *Dispatcher) Dispatch(body []byte) {
	if len(body) == 0 {
		return
	}
	if body[0] == wire.CoreMarker {
		if len(body) < 2 {
			return
		}
		for _, h := range d.core[wire.CoreType(body[1])] {
			h(body[2:])
		}
		return
	}
	for _, h := range d.game[wire.GameType(body[0])] {
		h(body[1:])
	}
}
