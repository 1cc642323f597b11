package config

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

// TuningItem is the gdata item key tuning overrides are stored under.
const TuningItem = "tuning"

// tuning is the on-disk shape of a tuning override. Absent sections and
// fields keep their current values.
type tuning struct {
	Health      *HealthConfig              `json:"health,omitempty"`
	Weapons     map[string]json.RawMessage `json:"weapons,omitempty"`
	Inventory   *InventoryConfig           `json:"inventory,omitempty"`
	Combatant   *CombatantConfig           `json:"combatant,omitempty"`
	Replication *ReplicationConfig         `json:"replication,omitempty"`
}

// ApplyOverrides merges a JSON tuning document into the global config.
// Weapon kinds are merged field by field; unknown kinds are added.
func ApplyOverrides(data []byte) error {
	t := tuning{
		Health:      &Health,
		Inventory:   &Inventory,
		Combatant:   &Combatant,
		Replication: &Replication,
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parse tuning: %w", err)
	}

	for name, raw := range t.Weapons {
		kind := Weapons[name]
		if err := json.Unmarshal(raw, &kind); err != nil {
			return fmt.Errorf("parse weapon %q: %w", name, err)
		}
		if kind.Name == "" {
			kind.Name = name
		}
		Weapons[name] = kind
	}
	return nil
}

// Snapshot encodes the current tuning config as JSON.
func Snapshot() ([]byte, error) {
	weapons := make(map[string]json.RawMessage, len(Weapons))
	for name, kind := range Weapons {
		raw, err := json.Marshal(kind)
		if err != nil {
			return nil, fmt.Errorf("encode weapon %q: %w", name, err)
		}
		weapons[name] = raw
	}
	return json.Marshal(tuning{
		Health:      &Health,
		Weapons:     weapons,
		Inventory:   &Inventory,
		Combatant:   &Combatant,
		Replication: &Replication,
	})
}

// Store persists tuning overrides through gdata.
type Store struct {
	manager *gdata.Manager
}

// OpenStore opens the gdata storage for appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &Store{manager: m}, nil
}

// Load applies stored overrides, if any. A missing item is not an error.
func (s *Store) Load() error {
	data, err := s.manager.LoadItem(TuningItem)
	if err != nil {
		return fmt.Errorf("load %s: %w", TuningItem, err)
	}
	if data == nil {
		return nil
	}
	if err := ApplyOverrides(data); err != nil {
		return err
	}
	log.Printf("[config] applied stored tuning overrides")
	return nil
}

// Save writes the current tuning config.
func (s *Store) Save() error {
	data, err := Snapshot()
	if err != nil {
		return err
	}
	if err := s.manager.SaveItem(TuningItem, data); err != nil {
		return fmt.Errorf("save %s: %w", TuningItem, err)
	}
	return nil
}
