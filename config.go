// Package zoneclient implements the composition root: configuration,
// session state machine, connection lifecycle and the per-tick wiring of
// world, sim and net packages into a single running game client, per spec
// §4.9-§4.10 and SPEC_FULL.md §6.2.
package zoneclient

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/zonecore/zoneclient/net/security"
	"github.com/zonecore/zoneclient/sim/player"
	"github.com/zonecore/zoneclient/sim/ship"
	"github.com/zonecore/zoneclient/sim/weapon"
)

// Config holds everything a Connection needs to dial a zone and run the
// simulation, after a UserConfig has been resolved.
type Config struct {
	Log *slog.Logger

	Address string
	Name    string

	ProtocolVersion   string
	EncryptionMethod  wireScheme
	ConnectTimeout    time.Duration
	GameTimeout       time.Duration

	OracleAddress string
	WorkerCount   int

	PlayerName, PlayerSquad string
	Password                string

	ZonesRoot string

	PlayerSettings player.Settings
	ShipSettings   ship.Settings
	WeaponSettings weapon.Settings
	DamageSettings ship.DamageSettings
}

// wireScheme mirrors wire.EncryptionScheme without importing net/wire here,
// resolved in UserConfig.Config.
type wireScheme = byte

// UserConfig is the on-disk (TOML) configuration for zoneclient, following
// the same flat, grouped-struct shape the rest of the ecosystem uses for
// user-facing settings.
type UserConfig struct {
	Network struct {
		Address string
		Name    string
	}
	Session struct {
		ProtocolVersion  string
		EncryptionMethod string
		ConnectTimeoutMS int
		GameTimeoutMS    int
	}
	Security struct {
		OracleAddress string
		WorkerCount   int
	}
	Player struct {
		Name     string
		Squad    string
		Password string
	}
	Cache struct {
		ZonesFolder string
	}
}

// DefaultConfig returns a UserConfig with the default values filled out.
func DefaultConfig() UserConfig {
	var c UserConfig
	c.Network.Address = "127.0.0.1:5000"
	c.Network.Name = "zone"
	c.Session.ProtocolVersion = "1.0.0"
	c.Session.EncryptionMethod = "continuum"
	c.Session.ConnectTimeoutMS = 5000
	c.Session.GameTimeoutMS = 10000
	c.Security.WorkerCount = 4
	c.Cache.ZonesFolder = "zones"
	return c
}

// Config resolves a UserConfig into a Config ready for Dial. It sets no sim
// settings: PlayerSettings keeps its zero value, and the Game fills
// ShipSettings, WeaponSettings and DamageSettings from ArenaSettings once
// the zone sends them.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	if uc.Network.Address == "" {
		return Config{}, fmt.Errorf("zoneclient: network address is required")
	}

	scheme := byte(0)
	switch uc.Session.EncryptionMethod {
	case "", "continuum":
		scheme = 1
	case "classic":
		scheme = 0
	default:
		return Config{}, fmt.Errorf("zoneclient: unknown encryption method %q", uc.Session.EncryptionMethod)
	}

	conf := Config{
		Log:              log,
		Address:          uc.Network.Address,
		Name:             uc.Network.Name,
		ProtocolVersion:  uc.Session.ProtocolVersion,
		EncryptionMethod: scheme,
		ConnectTimeout:   time.Duration(uc.Session.ConnectTimeoutMS) * time.Millisecond,
		GameTimeout:      time.Duration(uc.Session.GameTimeoutMS) * time.Millisecond,
		OracleAddress:    uc.Security.OracleAddress,
		WorkerCount:      uc.Security.WorkerCount,
		PlayerName:       uc.Player.Name,
		PlayerSquad:      uc.Player.Squad,
		Password:         uc.Player.Password,
		ZonesRoot:        uc.Cache.ZonesFolder,
	}
	if conf.ConnectTimeout <= 0 {
		conf.ConnectTimeout = 5 * time.Second
	}
	if conf.GameTimeout <= 0 {
		conf.GameTimeout = 10 * time.Second
	}
	if conf.ZonesRoot == "" {
		conf.ZonesRoot = "zones"
	}
	return conf, nil
}

// LoadUserConfig reads a TOML user configuration from path, filling in
// DefaultConfig's values for anything the file omits, and writes the
// resolved result back to disk so new fields show up on next launch. This
// mirrors the teacher's "read-or-create, then re-persist" config pattern.
func LoadUserConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, WriteUserConfig(path, c)
	}
	if err != nil {
		return c, fmt.Errorf("zoneclient: read config: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("zoneclient: parse config: %w", err)
	}
	return c, WriteUserConfig(path, c)
}

// WriteUserConfig persists c to path as TOML.
func WriteUserConfig(path string, c UserConfig) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("zoneclient: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("zoneclient: write config: %w", err)
	}
	return nil
}

// oracleSolverConfig builds a security.Config from a resolved Config.
func oracleSolverConfig(conf Config) security.Config {
	return security.Config{
		Dialer:      security.TCPDialer{Addr: conf.OracleAddress},
		Log:         conf.Log,
		WorkerCount: conf.WorkerCount,
	}
}
