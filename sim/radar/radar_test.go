package radar

import (
	"testing"

	"github.com/zonecore/zoneclient/sim/player"
)

func TestVisibilityTeammateSeesEverything(t *testing.T) {
	self := &player.Player{ID: 1, Frequency: 0}
	other := &player.Player{ID: 2, Frequency: 0, Status: player.StatusStealth}

	f := Visibility(self, other, 0, 0, Settings{})
	if f&FlagShowMines == 0 || f&FlagShowBombLevel == 0 || f&FlagShowPosition == 0 {
		t.Fatalf("expected teammate to see mines, bomb level and position, got %v", f)
	}
}

func TestVisibilityHidesStealthFromOpponentWithoutXRadar(t *testing.T) {
	self := &player.Player{ID: 1, Frequency: 0}
	other := &player.Player{ID: 2, Frequency: 1, Status: player.StatusStealth}

	f := Visibility(self, other, 100, 0, Settings{})
	if f&FlagShowPosition != 0 {
		t.Fatal("expected stealthed opponent position to be hidden without XRadar")
	}
}

func TestVisibilityXRadarRevealsStealthWithEnoughEnergy(t *testing.T) {
	self := &player.Player{ID: 1, Frequency: 0, Status: player.StatusXRadar}
	other := &player.Player{ID: 2, Frequency: 1, Status: player.StatusCloak}

	settings := Settings{MinXRadarEnergy: 50}
	if f := Visibility(self, other, 40, 0, settings); f&FlagShowPosition != 0 {
		t.Fatal("expected cloak to remain hidden when self energy is below the XRadar threshold")
	}
	if f := Visibility(self, other, 60, 0, settings); f&FlagShowPosition == 0 {
		t.Fatal("expected XRadar with sufficient energy to reveal cloaked opponent")
	}
}

func TestVisibilitySeeMinesEvenWhenNotOwner(t *testing.T) {
	self := &player.Player{ID: 1, Frequency: 0}
	other := &player.Player{ID: 2, Frequency: 1}

	if f := Visibility(self, other, 0, 0, Settings{}); f&FlagShowMines != 0 {
		t.Fatal("expected opponent mines hidden by default")
	}
	if f := Visibility(self, other, 0, 0, Settings{SeeMinesEvenWhenNotOwner: true}); f&FlagShowMines == 0 {
		t.Fatal("expected SeeMinesEvenWhenNotOwner to reveal opponent mines")
	}
}

func TestVisibilityBombLevelThreshold(t *testing.T) {
	self := &player.Player{ID: 1, Frequency: 0}
	other := &player.Player{ID: 2, Frequency: 1}
	settings := Settings{SeeBombLevel: 3}

	if f := Visibility(self, other, 0, 2, settings); f&FlagShowBombLevel != 0 {
		t.Fatal("expected bomb level below threshold to be hidden")
	}
	if f := Visibility(self, other, 0, 3, settings); f&FlagShowBombLevel == 0 {
		t.Fatal("expected bomb level at threshold to be visible")
	}
}
