package main

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v2"
)

// zoneEntry is one saved zone in zones.yaml.
type zoneEntry struct {
	Name            string `yaml:"name"`
	Address         string `yaml:"address"`
	ProtocolVersion string `yaml:"protocol_version"`
	EncryptionMethod string `yaml:"encryption_method"`
}

type zoneBook struct {
	Zones []zoneEntry `yaml:"zones"`
}

// loadZoneBook reads the saved zone list from path, tolerating a missing
// file (a fresh install has none yet).
func loadZoneBook(path string) (zoneBook, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return zoneBook{}, nil
	}
	if err != nil {
		return zoneBook{}, fmt.Errorf("zoneclient: read zones file: %w", err)
	}
	var b zoneBook
	if err := yaml.Unmarshal(data, &b); err != nil {
		return zoneBook{}, fmt.Errorf("zoneclient: parse zones file: %w", err)
	}
	return b, nil
}

func saveZoneBook(path string, b zoneBook) error {
	sort.Slice(b.Zones, func(i, j int) bool { return b.Zones[i].Name < b.Zones[j].Name })
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("zoneclient: encode zones file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (b *zoneBook) upsert(e zoneEntry) {
	for i, existing := range b.Zones {
		if existing.Name == e.Name {
			b.Zones[i] = e
			return
		}
	}
	b.Zones = append(b.Zones, e)
}

func (b zoneBook) find(name string) (zoneEntry, bool) {
	for _, e := range b.Zones {
		if e.Name == name {
			return e, true
		}
	}
	return zoneEntry{}, false
}

// validateProtocolVersion requires a well-formed semantic version, since
// the handshake's version negotiation assumes comparable version strings.
func validateProtocolVersion(v string) error {
	if !semver.IsValid("v" + v) {
		return fmt.Errorf("zoneclient: invalid protocol version %q, expected semver (e.g. 1.0.0)", v)
	}
	return nil
}
