// Package clock provides the two time sources the core is allowed to read:
// a 100 Hz, 31-bit wrap-safe game tick counter, and a monotonic microsecond
// wall clock used for sub-tick render interpolation. Determinism requires
// every consumer to read from one of these, never from time.Now directly.
package clock

import "time"

// TickRate is the simulation rate: one tick every 10 ms.
const TickRate = 100

const tickMask = 0x7FFFFFFF // 31 bits

// Tick is a monotonic, wrapping counter measured in 10 ms steps from process
// start. Arithmetic on Tick values must use TickDiff, not plain subtraction,
// because the counter wraps at 31 bits.
type Tick uint32

// TickDiff returns a-b as a signed difference, correctly handling the 31-bit
// wraparound (e.g. TickDiff(Tick(5), Tick(tickMask)) == 6).
func TickDiff(a, b Tick) int32 {
	d := int32(uint32(a)-uint32(b)) << 1
	return d >> 1
}

// Source is a monotonic clock producing both the 100 Hz game tick and a
// microsecond wall-clock reading, both derived from the same start instant
// so they never drift relative to each other.
type Source struct {
	start time.Time
}

// NewSource returns a Source anchored to the current instant.
func NewSource() *Source {
	return &Source{start: time.Now()}
}

// Now returns the current game tick.
func (s *Source) Now() Tick {
	elapsed := time.Since(s.start)
	return Tick(uint32(elapsed/ (time.Second / TickRate)) & tickMask)
}

// Micros returns the current microsecond wall-clock reading, used to drive
// sub-tick interpolation (ball and weapon render extrapolation).
func (s *Source) Micros() uint64 {
	return uint64(time.Since(s.start) / time.Microsecond)
}

// DurationToTicks converts a duration to a whole number of ticks, rounding
// down, for cooldowns and timers expressed in spec-given millisecond values.
func DurationToTicks(d time.Duration) int32 {
	return int32(d / (time.Second / TickRate))
}

// TicksToDuration is the inverse of DurationToTicks.
func TicksToDuration(ticks int32) time.Duration {
	return time.Duration(ticks) * (time.Second / TickRate)
}
