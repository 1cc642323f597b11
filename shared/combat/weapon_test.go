package combat

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestNewWeaponStateDefaults(t *testing.T) {
	w := NewWeaponState(30, 20, 600)
	if w.ClipCurrent != 30 || !w.ClipFull() {
		t.Fatalf("expected full clip, got %d", w.ClipCurrent)
	}
	if math.Abs(w.MinInterval()-0.1) > 1e-12 {
		t.Fatalf("expected 0.1s interval, got %v", w.MinInterval())
	}
}

func TestStartFireFirstShotImmediate(t *testing.T) {
	w := NewWeaponState(30, 20, 600)
	w.StartFire(0)

	at, ok := w.NextDue(0)
	if !ok || at != 0 {
		t.Fatalf("expected immediate first shot, got at=%v ok=%v", at, ok)
	}
	if !w.ConsumeRound(at) {
		t.Fatalf("expected round to be consumed")
	}
	if _, ok := w.NextDue(0.05); ok {
		t.Fatalf("second shot released before interval")
	}
}

func TestRestartCannotExceedRateOfFire(t *testing.T) {
	w := NewWeaponState(30, 20, 600)

	w.StartFire(1.0)
	at, ok := w.NextDue(1.0)
	if !ok {
		t.Fatalf("expected first shot")
	}
	w.ConsumeRound(at)
	w.StopFire()

	w.StartFire(1.05)
	if _, ok := w.NextDue(1.05); ok {
		t.Fatalf("restart fired before min interval")
	}
	if w.ClipCurrent != 29 {
		t.Fatalf("expected a single round spent, clip=%d", w.ClipCurrent)
	}
	at, ok = w.NextDue(1.1 + 1e-9)
	if !ok || math.Abs(at-1.1) > 1e-9 {
		t.Fatalf("expected deferred shot at 1.1, got at=%v ok=%v", at, ok)
	}
}

func TestStopFireCancelsSchedule(t *testing.T) {
	w := NewWeaponState(30, 20, 600)
	w.StartFire(0)
	if !w.StopFire() {
		t.Fatalf("expected active schedule to be cancelled")
	}
	if _, ok := w.NextDue(10); ok {
		t.Fatalf("cancelled schedule still released a shot")
	}
	if w.StopFire() {
		t.Fatalf("second stop should report no active schedule")
	}
}

func TestNextDueReleasesBacklogInOrder(t *testing.T) {
	w := NewWeaponState(30, 20, 600)
	w.StartFire(0)

	var shots []float64
	for at, ok := w.NextDue(0.35); ok; at, ok = w.NextDue(0.35) {
		shots = append(shots, at)
	}
	if len(shots) != 4 {
		t.Fatalf("expected 4 shots by 0.35s, got %v", shots)
	}
	for i := 1; i < len(shots); i++ {
		if shots[i] <= shots[i-1] {
			t.Fatalf("shots out of order: %v", shots)
		}
	}
}

func TestConsumeRoundOnEmptyClip(t *testing.T) {
	w := NewWeaponState(1, 20, 600)
	if !w.ConsumeRound(0) {
		t.Fatalf("expected first round")
	}
	if w.ConsumeRound(1) {
		t.Fatalf("empty clip consumed a round")
	}
	if w.LastFireTime != 0 {
		t.Fatalf("empty shot stamped the fire time")
	}
}

func TestAddRoundsClampsToClip(t *testing.T) {
	w := NewWeaponState(30, 20, 600)
	w.ClipCurrent = 25
	if added := w.AddRounds(10); added != 5 {
		t.Fatalf("expected 5 rounds loaded, got %d", added)
	}
	if added := w.AddRounds(-3); added != 0 || w.ClipCurrent != 30 {
		t.Fatalf("negative load mutated clip: added=%d clip=%d", added, w.ClipCurrent)
	}
}

func TestClipBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clipMax := rapid.IntRange(1, 100).Draw(t, "clipMax")
		w := NewWeaponState(clipMax, 10, rapid.Float64Range(60, 1200).Draw(t, "rof"))
		now := 0.0

		for i := rapid.IntRange(1, 200).Draw(t, "ops"); i > 0; i-- {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				w.StartFire(now)
			case 1:
				w.StopFire()
			case 2:
				w.AddRounds(rapid.IntRange(-10, 150).Draw(t, "rounds"))
			case 3:
				now += rapid.Float64Range(0, 0.5).Draw(t, "dt")
				for at, ok := w.NextDue(now); ok; at, ok = w.NextDue(now) {
					if !w.ConsumeRound(at) {
						w.StopFire()
					}
				}
			}
			if w.ClipCurrent < 0 || w.ClipCurrent > w.ClipMax {
				t.Fatalf("clip out of bounds: %d / %d", w.ClipCurrent, w.ClipMax)
			}
		}
	})
}
