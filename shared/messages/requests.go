package messages

import "github.com/automoto/cyberwarfare/shared/combat"

// Action requests sent from a participant to the authority. Combatant names
// the combatant the sender controls; the authority rejects requests for a
// combatant the sender does not own.

type StartFireRequest struct {
	Combatant combat.Handle
	Sequence  uint32
}

type StopFireRequest struct {
	Combatant combat.Handle
	Sequence  uint32
}

type ReloadRequest struct {
	Combatant combat.Handle
	Sequence  uint32
}

// SwitchWeaponRequest cycles the selection. Direction is -1 (previous) or 1 (next).
type SwitchWeaponRequest struct {
	Combatant combat.Handle
	Direction int
	Sequence  uint32
}

type SpawnInventoryRequest struct {
	Combatant combat.Handle
	Sequence  uint32
}

// AimRequest sets the look direction used for traces. It need not be normalized.
type AimRequest struct {
	Combatant  combat.Handle
	DirX, DirY float64
	Sequence   uint32
}

type ZoomRequest struct {
	Combatant combat.Handle
	Enabled   bool
	Sequence  uint32
}
