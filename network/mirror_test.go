package network

import (
	"testing"

	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

func fullDelta(tick uint64, h combat.Handle, health, shield float64) messages.SnapshotDelta {
	return messages.SnapshotDelta{
		Tick:     tick,
		Keyframe: true,
		Combatants: []messages.CombatantDelta{{
			Handle: h,
			Updates: []messages.FieldUpdate{
				{Field: netconfig.FieldHealth, Value: health},
				{Field: netconfig.FieldShield, Value: shield},
				{Field: netconfig.FieldClipCurrent, Value: 30},
				{Field: netconfig.FieldIsDead, Value: 0},
			},
		}},
	}
}

func TestMirrorAppliesFieldUpdates(t *testing.T) {
	m := NewMirror(1)
	m.Apply(fullDelta(1, 4, 100, 100))
	m.Apply(messages.SnapshotDelta{Tick: 2, Combatants: []messages.CombatantDelta{{
		Handle: 4,
		Updates: []messages.FieldUpdate{
			{Field: netconfig.FieldShield, Value: 80},
			{Field: netconfig.FieldIsFiring, Value: 1},
			{Field: netconfig.FieldActiveWeaponHandle, Value: 9},
		},
	}}})

	v, ok := m.Get(4)
	if !ok {
		t.Fatal("combatant not mirrored")
	}
	if v.Health != 100 || v.Shield != 80 || !v.IsFiring || v.ClipCurrent != 30 || v.ActiveWeaponHandle != 9 {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Tick != 2 {
		t.Fatalf("expected tick 2, got %d", v.Tick)
	}
}

func TestMirrorIgnoresStaleDeltas(t *testing.T) {
	m := NewMirror(1)
	m.Apply(fullDelta(5, 1, 100, 50))

	stale := messages.SnapshotDelta{Tick: 3, Combatants: []messages.CombatantDelta{{
		Handle:  1,
		Updates: []messages.FieldUpdate{{Field: netconfig.FieldShield, Value: 100}},
	}}}
	if m.Apply(stale) {
		t.Fatal("stale delta applied")
	}
	if v, _ := m.Get(1); v.Shield != 50 {
		t.Fatalf("stale delta changed shield to %v", v.Shield)
	}
	if m.LastTick() != 5 {
		t.Fatalf("expected last tick 5, got %d", m.LastTick())
	}
}

func TestMirrorReplaysTraces(t *testing.T) {
	m := NewMirror(2)
	var got []combat.HitTrace
	m.SetTraceHandler(func(shooter combat.Handle, trace combat.HitTrace) {
		if shooter != 3 {
			t.Errorf("unexpected shooter %d", shooter)
		}
		got = append(got, trace)
	})

	m.Apply(messages.SnapshotDelta{Tick: 1, Combatants: []messages.CombatantDelta{{
		Handle:   3,
		HitTrace: &messages.HitTrace{X: 50, Y: -4, Surface: combat.SurfaceFlesh},
	}}})

	if len(got) != 1 || got[0].X != 100 || got[0].Y != -8 || got[0].Surface != combat.SurfaceFlesh {
		t.Fatalf("unexpected replay %+v", got)
	}
	v, _ := m.Get(3)
	if v.LastTrace == nil || v.LastTrace.X != 100 {
		t.Fatalf("trace not stored: %+v", v)
	}
}

func TestMirrorGetReturnsCopy(t *testing.T) {
	m := NewMirror(1)
	m.Apply(messages.SnapshotDelta{Tick: 1, Combatants: []messages.CombatantDelta{{
		Handle:   1,
		HitTrace: &messages.HitTrace{X: 1, Y: 1},
	}}})

	v, _ := m.Get(1)
	v.Health = 999
	v.LastTrace.X = 999

	again, _ := m.Get(1)
	if again.Health == 999 || again.LastTrace.X == 999 {
		t.Fatal("mirror state mutated through a view")
	}
}

func TestMirrorRemove(t *testing.T) {
	m := NewMirror(1)
	m.Apply(fullDelta(1, 1, 100, 100))
	m.Apply(fullDelta(2, 2, 100, 100))
	m.Remove(1)

	hs := m.Handles()
	if len(hs) != 1 || hs[0] != 2 {
		t.Fatalf("unexpected handles %v", hs)
	}
}
