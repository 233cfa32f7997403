package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"golang.org/x/text/unicode/norm"

	"github.com/zonecore/zoneclient"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/sim/ship"
)

const (
	promptPrefix      = "zone> "
	maxHistoryEntries = 128
)

// console reads commands from an interactive prompt and drives the active
// Game's Tick loop, mirroring the teacher's command-source console but
// scoped to zoneclient's connect/chat/stats/quit vocabulary.
type console struct {
	log       *slog.Logger
	uc        zoneclient.UserConfig
	book      zoneBook
	zonesPath string
	history   []string

	game    *zoneclient.Game
	running bool
}

func newConsole(log *slog.Logger, uc zoneclient.UserConfig, book zoneBook, zonesPath string) *console {
	return &console{log: log, uc: uc, book: book, zonesPath: zonesPath}
}

func (c *console) run() {
	for {
		line := prompt.Input(promptPrefix, c.complete,
			prompt.OptionTitle("zoneclient"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(promptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.history = append(c.history, line)
		if len(c.history) > maxHistoryEntries {
			c.history = c.history[len(c.history)-maxHistoryEntries:]
		}
		if !c.execute(line) {
			return
		}
	}
}

// execute runs one command line, returning false when the console should
// exit.
func (c *console) execute(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "connect":
		if len(fields) < 2 {
			c.log.Error("usage: connect <zone-name>")
			return true
		}
		c.connect(fields[1])
	case "say":
		c.say(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
	case "addzone":
		if len(fields) < 3 {
			c.log.Error("usage: addzone <name> <address> [protocol-version]")
			return true
		}
		c.addZone(fields[1:])
	case "stats":
		c.stats()
	case "move":
		if len(fields) < 3 {
			c.log.Error("usage: move <thrust|reverse|left|right|afterburner|bullet|bomb|mine> <on|off>")
			return true
		}
		c.move(fields[1], fields[2])
	case "fire":
		if len(fields) < 2 {
			c.log.Error("usage: fire <repel|burst|thor|decoy|rocket|brick>")
			return true
		}
		c.fire(fields[1])
	case "portal":
		if len(fields) < 2 {
			c.log.Error("usage: portal <place|warp|off>")
			return true
		}
		c.portal(fields[1])
	case "quit", "exit":
		if c.game != nil {
			_ = c.game.Close()
		}
		return false
	default:
		c.log.Error("unknown command", "command", fields[0])
	}
	return true
}

func (c *console) addZone(args []string) {
	entry := zoneEntry{Name: args[0], Address: args[1]}
	if len(args) > 2 {
		entry.ProtocolVersion = args[2]
		if err := validateProtocolVersion(entry.ProtocolVersion); err != nil {
			c.log.Error("zoneclient: refusing to save zone", "err", err)
			return
		}
	}
	c.book.upsert(entry)
	if err := saveZoneBook(c.zonesPath, c.book); err != nil {
		c.log.Error("zoneclient: failed to save zone list", "err", err)
		return
	}
	c.log.Info("zoneclient: zone saved", "name", entry.Name)
}

func (c *console) connect(name string) {
	zone, ok := c.book.find(name)
	if !ok {
		c.log.Error("zoneclient: unknown zone", "name", name)
		return
	}
	if zone.ProtocolVersion != "" {
		if err := validateProtocolVersion(zone.ProtocolVersion); err != nil {
			c.log.Error("zoneclient: refusing to connect", "err", err)
			return
		}
	}

	uc := c.uc
	uc.Network.Address = zone.Address
	uc.Network.Name = zone.Name
	if zone.ProtocolVersion != "" {
		uc.Session.ProtocolVersion = zone.ProtocolVersion
	}
	if zone.EncryptionMethod != "" {
		uc.Session.EncryptionMethod = zone.EncryptionMethod
	}
	uc.Player.Name = norm.NFC.String(uc.Player.Name)

	conf, err := uc.Config(c.log)
	if err != nil {
		c.log.Error("zoneclient: invalid configuration", "err", err)
		return
	}

	if c.game != nil {
		_ = c.game.Close()
	}
	g, err := zoneclient.NewGame(conf)
	if err != nil {
		c.log.Error("zoneclient: connect failed", "err", err)
		return
	}
	g.OnChat(c.onChat)
	c.game = g

	go c.driveLoop(g)
}

// driveLoop runs Tick on a fixed 10ms cadence until the Game reports a
// fatal error (timeout, disconnect, or socket failure).
func (c *console) driveLoop(g *zoneclient.Game) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if err := g.Tick(); err != nil {
			c.log.Error("zoneclient: session ended", "err", err)
			return
		}
	}
}

func (c *console) say(text string) {
	if c.game == nil {
		c.log.Error("zoneclient: not connected")
		return
	}
	if err := c.game.SendChat(norm.NFC.String(text)); err != nil {
		c.log.Error("zoneclient: failed to send chat", "err", err)
	}
}

// move sets a held movement or fire control, mirroring the ship's analog
// keybinds (control held down until set off again).
func (c *console) move(control, state string) {
	if c.game == nil {
		c.log.Error("zoneclient: not connected")
		return
	}
	on, err := parseOnOff(state)
	if err != nil {
		c.log.Error("zoneclient: " + err.Error())
		return
	}
	var apply func(*ship.Input)
	switch strings.ToLower(control) {
	case "thrust":
		apply = func(in *ship.Input) { in.Thrust = on }
	case "reverse":
		apply = func(in *ship.Input) { in.Reverse = on }
	case "left":
		apply = func(in *ship.Input) { in.RotateLeft = on }
	case "right":
		apply = func(in *ship.Input) { in.RotateRight = on }
	case "afterburner":
		apply = func(in *ship.Input) { in.Afterburner = on }
	case "bullet":
		apply = func(in *ship.Input) { in.FireBullet = on }
	case "bomb":
		apply = func(in *ship.Input) { in.FireBomb = on }
	case "mine":
		apply = func(in *ship.Input) { in.FireMine = on }
	default:
		c.log.Error("zoneclient: unknown control", "control", control)
		return
	}
	c.game.SetInput(apply)
}

// fire latches a one-shot weapon or brick press, consumed by the next tick.
func (c *console) fire(kind string) {
	if c.game == nil {
		c.log.Error("zoneclient: not connected")
		return
	}
	var apply func(*ship.Input)
	switch strings.ToLower(kind) {
	case "repel":
		apply = func(in *ship.Input) { in.FireRepel = true }
	case "burst":
		apply = func(in *ship.Input) { in.FireBurst = true }
	case "thor":
		apply = func(in *ship.Input) { in.FireThor = true }
	case "decoy":
		apply = func(in *ship.Input) { in.FireDecoy = true }
	case "rocket":
		apply = func(in *ship.Input) { in.FireRocket = true }
	case "brick":
		apply = func(in *ship.Input) { in.DropBrick = true }
	default:
		c.log.Error("zoneclient: unknown weapon", "weapon", kind)
		return
	}
	c.game.SetInput(apply)
}

// portal sets the held portal-place/warp controls, or clears both.
func (c *console) portal(action string) {
	if c.game == nil {
		c.log.Error("zoneclient: not connected")
		return
	}
	switch strings.ToLower(action) {
	case "place":
		c.game.SetInput(func(in *ship.Input) { in.PlacePortal, in.Warp = true, false })
	case "warp":
		c.game.SetInput(func(in *ship.Input) { in.PlacePortal, in.Warp = false, true })
	case "off":
		c.game.SetInput(func(in *ship.Input) { in.PlacePortal, in.Warp = false, false })
	default:
		c.log.Error("zoneclient: unknown portal action", "action", action)
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func (c *console) stats() {
	if c.game == nil {
		c.log.Error("zoneclient: not connected")
		return
	}
	st := c.game.Stats()
	c.log.Info("connection stats",
		"packets_sent", st.PacketsSent,
		"packets_received", st.PacketsReceived,
		"bytes_sent", st.BytesSent,
		"bytes_received", st.BytesReceived,
		"ping", st.Ping,
	)
}

func (c *console) onChat(msg wire.Chat) {
	fmt.Printf("[chat %d] %s\n", msg.Sender, msg.Text)
}

func (c *console) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursor()
	suggestions := []prompt.Suggest{
		{Text: "connect", Description: "connect <zone-name>"},
		{Text: "addzone", Description: "addzone <name> <address> [protocol-version]"},
		{Text: "say", Description: "say <text>"},
		{Text: "stats", Description: "show connection stats"},
		{Text: "move", Description: "move <thrust|reverse|left|right|afterburner|bullet|bomb|mine> <on|off>"},
		{Text: "fire", Description: "fire <repel|burst|thor|decoy|rocket|brick>"},
		{Text: "portal", Description: "portal <place|warp|off>"},
		{Text: "quit", Description: "disconnect and exit"},
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return prompt.FilterHasPrefix(suggestions, word, true)
}
