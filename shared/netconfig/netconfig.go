// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on donburi, resolv
// or any graphics library so both binaries can use it.
package netconfig

// Field identifies one replicated combatant field in a snapshot delta.
type Field uint8

const (
	FieldHealth Field = iota
	FieldShield
	FieldClipCurrent
	FieldIsFiring
	FieldIsReloading
	FieldIsDead
	FieldSelectedWeaponIndex
	FieldActiveWeaponHandle
	FieldWantsToZoom
	FieldCount // Must be last - used for array sizing
)

var fieldNames = [FieldCount]string{
	FieldHealth:              "health",
	FieldShield:              "shield",
	FieldClipCurrent:         "clipCurrent",
	FieldIsFiring:            "isFiring",
	FieldIsReloading:         "isReloading",
	FieldIsDead:              "isDead",
	FieldSelectedWeaponIndex: "selectedWeaponIndex",
	FieldActiveWeaponHandle:  "activeWeaponHandle",
	FieldWantsToZoom:         "wantsToZoom",
}

func (f Field) String() string {
	if f < FieldCount {
		return fieldNames[f]
	}
	return "unknown"
}

// RequestKind names an action a participant can ask the authority to perform.
type RequestKind uint8

const (
	RequestNone RequestKind = iota
	RequestStartFire
	RequestStopFire
	RequestReload
	RequestSwitchWeapon
	RequestSpawnInventory
	RequestAim
	RequestZoom
	RequestJoin
	RequestLeave
)

var requestNames = map[RequestKind]string{
	RequestNone:           "none",
	RequestStartFire:      "start_fire",
	RequestStopFire:       "stop_fire",
	RequestReload:         "reload",
	RequestSwitchWeapon:   "switch_weapon",
	RequestSpawnInventory: "spawn_inventory",
	RequestAim:            "aim",
	RequestZoom:           "zoom",
	RequestJoin:           "join",
	RequestLeave:          "leave",
}

func (k RequestKind) String() string {
	if name, ok := requestNames[k]; ok {
		return name
	}
	return "unknown"
}
