// Package combat holds the pure combat rules shared by the authority and its
// tests: health and shield accounting, the weapon fire/reload state machine and
// inventory ammo bookkeeping. It has no dependencies on donburi, resolv or the
// network stack so every rule can be exercised in isolation.
package combat

// RegenCadence is how far the regen timer is wound back after each regen step,
// so shield regenerates in fixed steps once the delay has elapsed.
const RegenCadence = 0.25

// HealthState is the per-combatant health and shield pool.
type HealthState struct {
	Health    float64
	Shield    float64
	MaxHealth float64
	MaxShield float64

	RegenRate  float64 // shield units per regen step
	RegenDelay float64 // seconds without damage before regen starts

	TimeSinceDamage float64

	// Time still owed before TimeSinceDamage resumes counting when the
	// rewound timer would have gone below zero (RegenDelay < RegenCadence).
	regenDebt float64
}

// NewHealthState returns a full health state. Negative inputs are clamped to 0.
func NewHealthState(maxHealth, maxShield, regenRate, regenDelay float64) HealthState {
	maxHealth = nonNegative(maxHealth)
	maxShield = nonNegative(maxShield)
	return HealthState{
		Health:     maxHealth,
		Shield:     maxShield,
		MaxHealth:  maxHealth,
		MaxShield:  maxShield,
		RegenRate:  nonNegative(regenRate),
		RegenDelay: nonNegative(regenDelay),
	}
}

// DamageResult describes what a single ApplyDamage call did.
type DamageResult struct {
	Applied        bool    // false when the call was a no-op
	ShieldAbsorbed float64 // shield lost this call
	HealthLost     float64 // health lost this call
	Depleted       bool    // health reached 0 during this call
}

// HealthChanged reports whether the call reduced health, which is when the
// damage-changed event is emitted.
func (r DamageResult) HealthChanged() bool {
	return r.Applied && r.HealthLost > 0
}

// ApplyDamage applies amount to the shield first. While any shield remains the
// whole hit is absorbed by it, even when amount exceeds the remaining shield;
// overflow does not spill into health on the same call.
func (h *HealthState) ApplyDamage(amount float64) DamageResult {
	if amount <= 0 || h.Health <= 0 {
		return DamageResult{}
	}

	h.TimeSinceDamage = 0
	h.regenDebt = 0

	if h.Shield > 0 {
		before := h.Shield
		h.Shield = clamp(h.Shield-amount, 0, h.MaxShield)
		return DamageResult{Applied: true, ShieldAbsorbed: before - h.Shield}
	}

	before := h.Health
	h.Health = clamp(h.Health-amount, 0, h.MaxHealth)
	return DamageResult{
		Applied:    true,
		HealthLost: before - h.Health,
		Depleted:   h.Health == 0,
	}
}

// TickRegen advances the no-damage timer by dt and performs at most one regen
// step. It returns true when shield was regenerated.
func (h *HealthState) TickRegen(dt float64) bool {
	if h.RegenRate <= 0 || dt < 0 || h.Health <= 0 {
		return false
	}

	if h.regenDebt > 0 {
		paid := min(h.regenDebt, dt)
		h.regenDebt -= paid
		dt -= paid
	}
	h.TimeSinceDamage += dt
	if h.TimeSinceDamage < h.RegenDelay {
		return false
	}

	h.Shield = clamp(h.Shield+h.RegenRate, 0, h.MaxShield)
	rewound := h.RegenDelay - RegenCadence
	h.TimeSinceDamage = nonNegative(rewound)
	h.regenDebt = nonNegative(-rewound)
	return true
}

// Depleted reports whether health has reached zero.
func (h HealthState) Depleted() bool {
	return h.Health <= 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
