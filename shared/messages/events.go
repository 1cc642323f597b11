package messages

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

// HitTrace is a shot endpoint quantized to the replication grid.
type HitTrace struct {
	X, Y    int32
	Surface combat.SurfaceKind
}

// FieldUpdate carries one changed replicated field. Booleans are 0 or 1.
type FieldUpdate struct {
	Field netconfig.Field
	Value float64
}

// CombatantDelta lists the fields of one combatant that changed since the
// previous broadcast, plus the latest hit trace if it fired this tick.
type CombatantDelta struct {
	Handle   combat.Handle
	Updates  []FieldUpdate
	HitTrace *HitTrace
}

// SnapshotDelta is broadcast every tick in which anything changed.
type SnapshotDelta struct {
	Tick       uint64
	Keyframe   bool // Updates carry every field, not just changed ones
	Combatants []CombatantDelta
}

// FireEvent is broadcast for every shot so observers can replay muzzle flash,
// tracer and impact effects.
type FireEvent struct {
	Shooter    combat.Handle
	Weapon     combat.Handle
	OriginX    float64
	OriginY    float64
	Trace      HitTrace
	Projectile bool // Trace is a projectile impact, not a hitscan endpoint
}

// DamageEvent is broadcast when damage reaches a combatant's health.
type DamageEvent struct {
	Target     combat.Handle
	Instigator combat.Handle
	Causer     combat.Handle
	Amount     float64
	Surface    combat.SurfaceKind
}

// DeathEvent is broadcast when a combatant's health is depleted.
type DeathEvent struct {
	Victim combat.Handle
	Killer combat.Handle // NoHandle if environmental
}

// ReloadEvent is broadcast when a reload starts and when it completes.
type ReloadEvent struct {
	Combatant combat.Handle
	Weapon    combat.Handle
	Completed bool
	Granted   int
}

// DespawnEvent is broadcast when an entity is removed
type DespawnEvent struct {
	Handle combat.Handle
}

// RequestRejected is sent only to the participant whose request failed
// validation.
type RequestRejected struct {
	Kind     netconfig.RequestKind
	Sequence uint32
	Reason   string
}
