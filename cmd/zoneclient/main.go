// Command zoneclient runs the interactive console client: it loads a saved
// zone list, connects to one, and drives the simulation loop while
// forwarding typed commands to the running Game.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/zonecore/zoneclient"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	configPath := flag.String("config", "zoneclient.toml", "path to the user configuration file")
	zonesPath := flag.String("zones", "zones.yaml", "path to the saved zone list")
	flag.Parse()

	book, err := loadZoneBook(*zonesPath)
	if err != nil {
		log.Error("zoneclient: failed to load zone list", "err", err)
		os.Exit(1)
	}

	uc, err := zoneclient.LoadUserConfig(*configPath)
	if err != nil {
		log.Error("zoneclient: failed to load configuration", "err", err)
		os.Exit(1)
	}

	c := newConsole(log, uc, book, *zonesPath)
	c.run()
}
