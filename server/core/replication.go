package core

import (
	"sort"

	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/gamemath"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

// Snapshot is the replicated view of one combatant. It is a value copy;
// observers never write back through it.
type Snapshot struct {
	Health              float64
	Shield              float64
	ClipCurrent         int
	IsFiring            bool
	IsReloading         bool
	IsDead              bool
	WantsToZoom         bool
	SelectedWeaponIndex int
	ActiveWeaponHandle  combat.Handle
}

func (s Snapshot) values() [netconfig.FieldCount]float64 {
	var v [netconfig.FieldCount]float64
	v[netconfig.FieldHealth] = s.Health
	v[netconfig.FieldShield] = s.Shield
	v[netconfig.FieldClipCurrent] = float64(s.ClipCurrent)
	v[netconfig.FieldIsFiring] = boolValue(s.IsFiring)
	v[netconfig.FieldIsReloading] = boolValue(s.IsReloading)
	v[netconfig.FieldIsDead] = boolValue(s.IsDead)
	v[netconfig.FieldSelectedWeaponIndex] = float64(s.SelectedWeaponIndex)
	v[netconfig.FieldActiveWeaponHandle] = float64(s.ActiveWeaponHandle)
	v[netconfig.FieldWantsToZoom] = boolValue(s.WantsToZoom)
	return v
}

// Diff returns the fields of s that differ from prev, in field order.
func (s Snapshot) Diff(prev Snapshot) []messages.FieldUpdate {
	cur, old := s.values(), prev.values()
	var out []messages.FieldUpdate
	for f := netconfig.Field(0); f < netconfig.FieldCount; f++ {
		if cur[f] != old[f] {
			out = append(out, messages.FieldUpdate{Field: f, Value: cur[f]})
		}
	}
	return out
}

// Full returns every field of s.
func (s Snapshot) Full() []messages.FieldUpdate {
	cur := s.values()
	out := make([]messages.FieldUpdate, 0, netconfig.FieldCount)
	for f := netconfig.Field(0); f < netconfig.FieldCount; f++ {
		out = append(out, messages.FieldUpdate{Field: f, Value: cur[f]})
	}
	return out
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// replicatedState is what the authority hands the replicator per combatant.
type replicatedState struct {
	Handle   combat.Handle
	Snapshot Snapshot
	Trace    *combat.HitTrace
}

// Replicator remembers the last broadcast snapshot per combatant and turns
// the current state into field-level deltas.
type Replicator struct {
	last    map[combat.Handle]Snapshot
	quantum float64
}

func NewReplicator(quantum float64) *Replicator {
	return &Replicator{
		last:    make(map[combat.Handle]Snapshot),
		quantum: quantum,
	}
}

// Collect builds the delta for this tick. With keyframe set every field is
// sent. It returns nil when nothing needs to go out.
func (r *Replicator) Collect(tick uint64, states []replicatedState, keyframe bool) *messages.SnapshotDelta {
	sort.Slice(states, func(i, j int) bool { return states[i].Handle < states[j].Handle })

	delta := &messages.SnapshotDelta{Tick: tick, Keyframe: keyframe}
	for _, st := range states {
		prev, seen := r.last[st.Handle]
		var updates []messages.FieldUpdate
		if keyframe || !seen {
			updates = st.Snapshot.Full()
		} else {
			updates = st.Snapshot.Diff(prev)
		}
		r.last[st.Handle] = st.Snapshot

		var trace *messages.HitTrace
		if st.Trace != nil {
			q := r.Quantize(*st.Trace)
			trace = &q
		}
		if len(updates) == 0 && trace == nil {
			continue
		}
		delta.Combatants = append(delta.Combatants, messages.CombatantDelta{
			Handle:   st.Handle,
			Updates:  updates,
			HitTrace: trace,
		})
	}

	if len(delta.Combatants) == 0 {
		return nil
	}
	return delta
}

// Quantize rounds a hit trace onto the replication grid.
func (r *Replicator) Quantize(t combat.HitTrace) messages.HitTrace {
	x, y := gamemath.QuantizeVector(t.X, t.Y, r.quantum)
	return messages.HitTrace{X: x, Y: y, Surface: t.Surface}
}

// Forget drops a removed combatant so a reused slot starts from a full send.
func (r *Replicator) Forget(h combat.Handle) {
	delete(r.last, h)
}
