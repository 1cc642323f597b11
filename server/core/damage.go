package core

import (
	"log"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/components"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/yohamta/donburi"
)

// DamageRequest is a damage source resolving against a combatant.
// Instigator is the combatant responsible and Causer the weapon or projectile
// that dealt it; either may be NoHandle for environmental damage.
type DamageRequest struct {
	Target     combat.Handle
	Instigator combat.Handle
	Causer     combat.Handle
	Amount     float64
	HitX, HitY float64
	Surface    combat.SurfaceKind
}

// ApplyDamage routes damage into the target's shield and health. Damage to an
// unknown or dead combatant does nothing.
func (a *Authority) ApplyDamage(req DamageRequest) combat.DamageResult {
	entry, c, ok := a.combatant(req.Target)
	if !ok || c.IsDead {
		return combat.DamageResult{}
	}

	res := components.Health.Get(entry).ApplyDamage(req.Amount)
	if res.HealthChanged() {
		a.events.Broadcast(messages.DamageEvent{
			Target:     req.Target,
			Instigator: req.Instigator,
			Causer:     req.Causer,
			Amount:     req.Amount,
			Surface:    req.Surface,
		})
	}
	if res.Depleted {
		a.kill(entry, req.Instigator)
	}
	return res
}

// kill moves a combatant to the terminal dead state. Its replicated fields
// are frozen and it is removed once the death grace period runs out.
func (a *Authority) kill(entry *donburi.Entry, killer combat.Handle) {
	c := components.Combatant.Get(entry)
	if c.IsDead {
		return
	}
	c.IsDead = true
	c.InputDisabled = true
	c.Reload = nil
	victim := c.Handle

	for _, we := range components.Inventory.Get(entry).Weapons {
		if a.world.Valid(we) {
			components.Weapon.Get(a.world.Entry(we)).StopFire()
		}
	}
	if cp, ok := a.bodies[entry.Entity()]; ok {
		removeCombatantPhysics(a.level, cp)
	}

	donburi.Add(entry, components.Death, &components.DeathData{
		Remaining: cfg.Combatant.DeathLifespan,
		Killer:    killer,
	})
	a.events.Broadcast(messages.DeathEvent{Victim: victim, Killer: killer})
	log.Printf("[authority] combatant %d killed by %d", victim, killer)
}

func (a *Authority) updateHealth(dt float64) {
	for _, entry := range a.combatantEntries() {
		if components.Combatant.Get(entry).IsDead {
			continue
		}
		components.Health.Get(entry).TickRegen(dt)
	}
}

// updateLifetimes counts down dead and detached combatants and removes the
// ones whose time is up.
func (a *Authority) updateLifetimes(dt float64) {
	var expired []combat.Handle
	for _, entry := range a.combatantEntries() {
		c := components.Combatant.Get(entry)
		switch {
		case entry.HasComponent(components.Death):
			d := components.Death.Get(entry)
			d.Remaining -= dt
			if d.Remaining <= 0 {
				expired = append(expired, c.Handle)
			}
		case c.Detached:
			c.DetachedFor += dt
			if c.DetachedFor >= cfg.Combatant.DetachedGrace {
				expired = append(expired, c.Handle)
			}
		}
	}
	for _, h := range expired {
		a.RemoveCombatant(h)
	}
}
