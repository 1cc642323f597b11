package combat

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestApplyDamageShieldAbsorbsOverflow(t *testing.T) {
	h := NewHealthState(100, 100, 1, 5)
	h.Shield = 10

	res := h.ApplyDamage(100)
	if !res.Applied {
		t.Fatalf("expected damage to apply")
	}
	if h.Shield != 0 {
		t.Fatalf("expected shield 0, got %v", h.Shield)
	}
	if h.Health != 100 {
		t.Fatalf("expected health untouched, got %v", h.Health)
	}
	if res.HealthChanged() {
		t.Fatalf("shield hit must not report a health change")
	}
}

func TestApplyDamageSequence(t *testing.T) {
	h := NewHealthState(100, 100, 1, 5)

	steps := []struct {
		amount     float64
		wantShield float64
		wantHealth float64
	}{
		{30, 70, 100},
		{90, 0, 100},
		{20, 0, 80},
	}
	for i, step := range steps {
		h.ApplyDamage(step.amount)
		if h.Shield != step.wantShield || h.Health != step.wantHealth {
			t.Fatalf("step %d: got shield=%v health=%v, want shield=%v health=%v",
				i, h.Shield, h.Health, step.wantShield, step.wantHealth)
		}
	}
	if h.Depleted() {
		t.Fatalf("combatant should still be alive")
	}
}

func TestApplyDamageIgnoresNonPositive(t *testing.T) {
	h := NewHealthState(100, 100, 1, 5)
	h.TimeSinceDamage = 3

	for _, amount := range []float64{0, -5} {
		if res := h.ApplyDamage(amount); res.Applied {
			t.Fatalf("amount %v should be a no-op", amount)
		}
	}
	if h.TimeSinceDamage != 3 {
		t.Fatalf("no-op damage reset the regen timer")
	}
}

func TestApplyDamageDepletes(t *testing.T) {
	h := NewHealthState(50, 0, 0, 0)

	res := h.ApplyDamage(80)
	if !res.Depleted || h.Health != 0 {
		t.Fatalf("expected depletion, got %+v health=%v", res, h.Health)
	}
	if res := h.ApplyDamage(10); res.Applied {
		t.Fatalf("damage after depletion should be ignored")
	}
}

func TestTickRegenGating(t *testing.T) {
	h := NewHealthState(100, 100, 1, 5)
	h.Shield = 60
	h.ApplyDamage(10)
	if h.Shield != 50 {
		t.Fatalf("setup: expected shield 50, got %v", h.Shield)
	}

	if h.TickRegen(4.9) {
		t.Fatalf("regen before delay elapsed")
	}
	if h.Shield != 50 {
		t.Fatalf("shield changed before delay: %v", h.Shield)
	}

	if !h.TickRegen(0.1) {
		t.Fatalf("expected regen at 5.0s")
	}
	if h.Shield != 51 {
		t.Fatalf("expected shield 51, got %v", h.Shield)
	}
	if math.Abs(h.TimeSinceDamage-4.75) > 1e-9 {
		t.Fatalf("expected timer rewound to 4.75, got %v", h.TimeSinceDamage)
	}

	// Next step lands after one more cadence interval.
	if h.TickRegen(0.2) {
		t.Fatalf("regen before cadence elapsed")
	}
	if !h.TickRegen(0.05) {
		t.Fatalf("expected regen after cadence")
	}
}

func TestTickRegenShortDelayKeepsCadence(t *testing.T) {
	h := NewHealthState(100, 100, 1, 0.1)
	h.ApplyDamage(50)

	steps := 0
	for i := 0; i < 10; i++ {
		if h.TickRegen(0.1) {
			steps++
		}
		if h.TimeSinceDamage < 0 {
			t.Fatalf("timer went negative: %v", h.TimeSinceDamage)
		}
	}
	// Steps land at 0.1s, then every 0.25s: 0.35, 0.6, 0.85 fall in ticks 4, 7 and 10.
	if steps != 4 {
		t.Fatalf("expected 4 regen steps in 1s, got %d", steps)
	}
	if h.Shield != 54 {
		t.Fatalf("expected shield 54, got %v", h.Shield)
	}

	h.ApplyDamage(1)
	if !h.TickRegen(0.1) {
		t.Fatal("damage should clear the pending cadence wait")
	}
}

func TestTickRegenClampsAtMax(t *testing.T) {
	h := NewHealthState(100, 100, 5, 0)
	h.Shield = 98
	h.TickRegen(1)
	if h.Shield != 100 {
		t.Fatalf("expected clamp at 100, got %v", h.Shield)
	}
}

func TestHealthBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxHealth := rapid.Float64Range(1, 500).Draw(t, "maxHealth")
		maxShield := rapid.Float64Range(0, 500).Draw(t, "maxShield")
		h := NewHealthState(maxHealth, maxShield, rapid.Float64Range(0, 10).Draw(t, "rate"), rapid.Float64Range(0, 6).Draw(t, "delay"))

		dead := false
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "damage") {
				h.ApplyDamage(rapid.Float64Range(-50, 300).Draw(t, "amount"))
			} else {
				h.TickRegen(rapid.Float64Range(0, 2).Draw(t, "dt"))
			}
			if h.Health < 0 || h.Health > h.MaxHealth {
				t.Fatalf("health out of bounds: %v / %v", h.Health, h.MaxHealth)
			}
			if h.Shield < 0 || h.Shield > h.MaxShield {
				t.Fatalf("shield out of bounds: %v / %v", h.Shield, h.MaxShield)
			}
			if dead && !h.Depleted() {
				t.Fatalf("depleted health recovered")
			}
			dead = h.Depleted()
		}
	})
}
