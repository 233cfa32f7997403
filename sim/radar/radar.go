// Package radar computes per-opponent radar visibility: whether another
// player's mines, bomb-level threat marker and stealthed/cloaked position
// should be drawn for self, per spec's RadarVisibility table row and
// SPEC_FULL.md §4.12.
package radar

import (
	"github.com/zonecore/zoneclient/sim/player"
)

// Flags is the set of radar-relevant facts computed for one (self, other)
// pair this tick.
type Flags uint8

const (
	// FlagShowMines marks other's mines as visible to self.
	FlagShowMines Flags = 1 << iota
	// FlagShowBombLevel marks other's bomb-level threat marker as visible.
	FlagShowBombLevel
	// FlagShowPosition marks other's dot/position as visible despite
	// stealth or cloak.
	FlagShowPosition
)

// Settings carries the zone settings RadarVisibility needs.
type Settings struct {
	SeeMinesEvenWhenNotOwner bool
	SeeBombLevel             uint8

	// MinXRadarEnergy is the minimum energy self must hold for its XRadar
	// status to defeat an opponent's stealth/cloak.
	MinXRadarEnergy float32
}

// sameTeam reports whether two players share a frequency, the spec's
// "team-freq" visibility carve-out.
func sameTeam(self, other *player.Player) bool {
	return self.Frequency == other.Frequency
}

// Visibility computes self's view of other for this tick, per spec's
// RadarVisibility table row: "computed visibility (see-mines, see-bomb-level,
// team-freq)". selfEnergy is self's current ship energy, consulted only when
// other is stealthed or cloaked and self carries StatusXRadar.
func Visibility(self, other *player.Player, selfEnergy float32, bombLevel uint8, settings Settings) Flags {
	var f Flags

	if sameTeam(self, other) || settings.SeeMinesEvenWhenNotOwner {
		f |= FlagShowMines
	}

	if sameTeam(self, other) || bombLevel >= settings.SeeBombLevel {
		f |= FlagShowBombLevel
	}

	hidden := other.Status&(player.StatusStealth|player.StatusCloak) != 0
	if !hidden {
		f |= FlagShowPosition
	} else if sameTeam(self, other) {
		f |= FlagShowPosition
	} else if self.Status&player.StatusXRadar != 0 && selfEnergy >= settings.MinXRadarEnergy {
		f |= FlagShowPosition
	}

	return f
}
