package network

import (
	"sort"
	"sync"

	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/gamemath"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

// CombatantView is an observer's copy of one combatant's replicated state.
type CombatantView struct {
	Handle              combat.Handle
	Health              float64
	Shield              float64
	ClipCurrent         int
	IsFiring            bool
	IsReloading         bool
	IsDead              bool
	WantsToZoom         bool
	SelectedWeaponIndex int
	ActiveWeaponHandle  combat.Handle

	LastTrace *combat.HitTrace // dequantized, nil until the first shot
	Tick      uint64           // tick of the last delta that touched this view
}

// TraceHandler replays a hit trace cosmetic: tracer line, impact decal and
// sound for the given surface.
type TraceHandler func(shooter combat.Handle, trace combat.HitTrace)

// Mirror applies snapshot deltas from the authority. It never computes
// gameplay outcomes; it only stores what it was told.
type Mirror struct {
	mu       sync.RWMutex
	views    map[combat.Handle]*CombatantView
	quantum  float64
	lastTick uint64
	onTrace  TraceHandler
}

func NewMirror(quantum float64) *Mirror {
	return &Mirror{
		views:   make(map[combat.Handle]*CombatantView),
		quantum: quantum,
	}
}

// SetTraceHandler installs the cosmetic callback invoked for every hit trace
// carried by an applied delta.
func (m *Mirror) SetTraceHandler(fn TraceHandler) {
	m.mu.Lock()
	m.onTrace = fn
	m.mu.Unlock()
}

// Apply merges a delta. Deltas older than the last applied tick are ignored
// unless they are keyframes; it reports whether the delta was applied.
func (m *Mirror) Apply(delta messages.SnapshotDelta) bool {
	type replay struct {
		shooter combat.Handle
		trace   combat.HitTrace
	}
	var replays []replay

	m.mu.Lock()
	if delta.Tick <= m.lastTick && !delta.Keyframe {
		m.mu.Unlock()
		return false
	}
	if delta.Tick > m.lastTick {
		m.lastTick = delta.Tick
	}

	for _, cd := range delta.Combatants {
		v, ok := m.views[cd.Handle]
		if !ok {
			v = &CombatantView{Handle: cd.Handle}
			m.views[cd.Handle] = v
		}
		for _, u := range cd.Updates {
			v.set(u)
		}
		if cd.HitTrace != nil {
			x, y := gamemath.DequantizeVector(cd.HitTrace.X, cd.HitTrace.Y, m.quantum)
			trace := combat.HitTrace{X: x, Y: y, Surface: cd.HitTrace.Surface}
			v.LastTrace = &trace
			replays = append(replays, replay{shooter: cd.Handle, trace: trace})
		}
		v.Tick = delta.Tick
	}
	onTrace := m.onTrace
	m.mu.Unlock()

	if onTrace != nil {
		for _, r := range replays {
			onTrace(r.shooter, r.trace)
		}
	}
	return true
}

func (v *CombatantView) set(u messages.FieldUpdate) {
	switch u.Field {
	case netconfig.FieldHealth:
		v.Health = u.Value
	case netconfig.FieldShield:
		v.Shield = u.Value
	case netconfig.FieldClipCurrent:
		v.ClipCurrent = int(u.Value)
	case netconfig.FieldIsFiring:
		v.IsFiring = u.Value != 0
	case netconfig.FieldIsReloading:
		v.IsReloading = u.Value != 0
	case netconfig.FieldIsDead:
		v.IsDead = u.Value != 0
	case netconfig.FieldSelectedWeaponIndex:
		v.SelectedWeaponIndex = int(u.Value)
	case netconfig.FieldActiveWeaponHandle:
		v.ActiveWeaponHandle = combat.Handle(u.Value)
	case netconfig.FieldWantsToZoom:
		v.WantsToZoom = u.Value != 0
	}
}

// Remove forgets a despawned combatant.
func (m *Mirror) Remove(h combat.Handle) {
	m.mu.Lock()
	delete(m.views, h)
	m.mu.Unlock()
}

// Get returns a copy of a combatant's view.
func (m *Mirror) Get(h combat.Handle) (CombatantView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[h]
	if !ok {
		return CombatantView{}, false
	}
	out := *v
	if v.LastTrace != nil {
		t := *v.LastTrace
		out.LastTrace = &t
	}
	return out, true
}

// Handles lists the mirrored combatants in handle order.
func (m *Mirror) Handles() []combat.Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]combat.Handle, 0, len(m.views))
	for h := range m.views {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LastTick is the newest tick applied.
func (m *Mirror) LastTick() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastTick
}
