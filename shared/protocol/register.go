package protocol

import (
	"github.com/automoto/cyberwarfare/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetCombatant  uint = 10
	SyncIDNetBody       uint = 11
	SyncIDNetWeapon     uint = 12
	SyncIDNetProjectile uint = 13
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetBody       uint8 = 11
	InterpIDNetProjectile uint8 = 13
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Combatant and weapon state are discrete; no interpolation
	if err := esync.RegisterComponent(
		SyncIDNetCombatant,
		netcomponents.NetCombatantData{},
		netcomponents.NetCombatant,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetBody,
		netcomponents.NetBodyData{},
		netcomponents.NetBody,
		esync.WithInterpFn(InterpIDNetBody, netcomponents.LerpNetBody),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetWeapon,
		netcomponents.NetWeaponData{},
		netcomponents.NetWeapon,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetProjectile,
		netcomponents.NetProjectileData{},
		netcomponents.NetProjectile,
		esync.WithInterpFn(InterpIDNetProjectile, netcomponents.LerpNetProjectile),
	); err != nil {
		return err
	}

	return nil
}
