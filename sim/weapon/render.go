package weapon

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/world"
)

// renderResyncTicks is the deviation threshold, expressed in ticks of
// motion at the weapon's own speed, beyond which GetExtrapolatedPos resyncs
// its anchor to the authoritative position, per spec §4.6.4.
const renderResyncTicks = 4

// GetExtrapolatedPos computes a smooth render position for w by ray-casting
// from its last recorded event anchor along its velocity, stopping at the
// first wall (thor ignores walls), per spec §4.6.4.
func (mgr *Manager) GetExtrapolatedPos(w *Weapon, nowMicros uint64) mgl32.Vec2 {
	elapsedSeconds := float32(nowMicros-w.LastEventTime) / 1e6
	dx := w.Velocity[0] * elapsedSeconds
	dy := w.Velocity[1] * elapsedSeconds

	pos := w.LastEventPosition
	candidate := mgl32.Vec2{pos[0] + dx, pos[1] + dy}

	if w.Data.Type != wire.WeaponThor {
		hit, ok := mgr.castStop(pos, candidate)
		if ok {
			candidate = hit
		}
	}

	speed := mgl32.Vec2{w.Velocity[0], w.Velocity[1]}.Len()
	maxDeviation := speed * 0.04
	if maxDeviation > 0 {
		authoritative := w.Position
		if dist(candidate, authoritative) > maxDeviation {
			w.LastEventPosition = authoritative
			w.LastEventTime = nowMicros
			return authoritative
		}
	}
	return candidate
}

// castStop walks from `from` toward `to`, stopping at the first solid
// tile, returning the entry point if one was hit.
func (mgr *Manager) castStop(from, to mgl32.Vec2) (mgl32.Vec2, bool) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	maxDist := dist(from, to)
	if maxDist == 0 {
		return to, false
	}
	hit, ok := world.Cast(mgr.m, float64(from[0]), float64(from[1]), float64(dx), float64(dy), float64(maxDist), 0, mgr.bricks)
	if !ok {
		return to, false
	}
	length := math.Hypot(float64(dx), float64(dy))
	ux, uy := dx/float32(length), dy/float32(length)
	return mgl32.Vec2{from[0] + ux*float32(hit.Distance), from[1] + uy*float32(hit.Distance)}, true
}
