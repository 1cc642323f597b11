package core

import (
	"fmt"
	"log"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/components"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netcomponents"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// activeWeapon returns the selected weapon of a combatant.
func (a *Authority) activeWeapon(entry *donburi.Entry) (*donburi.Entry, *components.WeaponData, bool) {
	inv := components.Inventory.Get(entry)
	we, ok := inv.Active()
	if !ok || !a.world.Valid(we) {
		return nil, nil, false
	}
	wEntry := a.world.Entry(we)
	return wEntry, components.Weapon.Get(wEntry), true
}

// spawnInventory creates the configured loadout for a combatant. The first
// weapon starts active.
func (a *Authority) spawnInventory(entry *donburi.Entry) error {
	if components.Inventory.Get(entry).Spawned() {
		return combat.ErrInventorySpawned
	}

	c := components.Combatant.Get(entry)
	owner := entry.Entity()
	handle := c.Handle

	var weapons []donburi.Entity
	var first combat.Handle
	for _, name := range cfg.Inventory.Loadout {
		kind, ok := cfg.WeaponKind(name)
		if !ok {
			log.Printf("[authority] unknown weapon kind %q in loadout", name)
			continue
		}

		we := a.world.Create(tags.Weapon, components.Weapon, netcomponents.NetWeapon)
		wEntry := a.world.Entry(we)
		h := a.issueHandle()
		components.Weapon.SetValue(wEntry, components.WeaponData{
			WeaponState: combat.NewWeaponState(kind.ClipMax, kind.BaseDamage, kind.RateOfFire),
			Handle:      h,
			Kind:        name,
			Owner:       owner,
			Active:      len(weapons) == 0,
		})
		a.handles[h] = we

		if a.networked {
			if err := srvsync.NetworkSync(a.world, &we, netcomponents.NetWeapon); err != nil {
				log.Printf("[authority] failed to setup network sync for weapon %d: %v", h, err)
			}
		}

		if len(weapons) == 0 {
			first = h
		}
		weapons = append(weapons, we)
	}

	if err := components.Inventory.Get(entry).Populate(weapons); err != nil {
		return fmt.Errorf("populate inventory of %d: %w", handle, err)
	}
	components.Combatant.Get(entry).ActiveWeaponHandle = first
	log.Printf("[authority] combatant %d received %d weapons", handle, len(weapons))
	return nil
}

func (a *Authority) startFire(entry *donburi.Entry) {
	c := components.Combatant.Get(entry)
	if c.IsDead || c.IsReloading {
		return
	}
	_, w, ok := a.activeWeapon(entry)
	if !ok || w.FiringActive {
		return
	}
	w.StartFire(a.now)
}

func (a *Authority) stopFire(entry *donburi.Entry) {
	if _, w, ok := a.activeWeapon(entry); ok {
		w.StopFire()
	}
}

// reload begins a reload of the active weapon. The tween runs for the weapon
// kind's reload duration and completes in updateReloads.
func (a *Authority) reload(entry *donburi.Entry) {
	c := components.Combatant.Get(entry)
	if c.IsDead || c.IsReloading {
		return
	}
	wEntry, w, ok := a.activeWeapon(entry)
	if !ok || w.ClipFull() {
		return
	}

	w.StopFire()
	kind, _ := cfg.WeaponKind(w.Kind)
	c.IsReloading = true
	c.Reload = &components.ReloadData{
		Weapon: wEntry.Entity(),
		Tween:  gween.New(0, 1, float32(kind.ReloadDuration), ease.Linear),
	}
	a.events.Broadcast(messages.ReloadEvent{Combatant: c.Handle, Weapon: w.Handle})
}

func (a *Authority) completeReload(entry *donburi.Entry) {
	c := components.Combatant.Get(entry)
	r := c.Reload
	c.Reload = nil
	c.IsReloading = false
	if r == nil || !a.world.Valid(r.Weapon) {
		return
	}

	w := components.Weapon.Get(a.world.Entry(r.Weapon))
	if !w.Active {
		// Weapon was switched away mid-reload
		return
	}

	inv := components.Inventory.Get(entry)
	granted := inv.RequestAmmo(w.Missing())
	w.AddRounds(granted)
	a.events.Broadcast(messages.ReloadEvent{
		Combatant: c.Handle,
		Weapon:    w.Handle,
		Completed: true,
		Granted:   granted,
	})
}

// switchWeapon cycles the selection. The previous weapon is holstered and its
// pending shots are cancelled; an in-flight reload keeps running.
func (a *Authority) switchWeapon(entry *donburi.Entry, dir combat.Direction) {
	c := components.Combatant.Get(entry)
	if c.IsDead {
		return
	}
	inv := components.Inventory.Get(entry)
	prev, next, ok := inv.Switch(dir)
	if !ok || prev == next {
		return
	}

	if a.world.Valid(prev) {
		pw := components.Weapon.Get(a.world.Entry(prev))
		pw.StopFire()
		pw.Active = false
	}
	if a.world.Valid(next) {
		nw := components.Weapon.Get(a.world.Entry(next))
		nw.Active = true
		c.ActiveWeaponHandle = nw.Handle
	}
}

func (a *Authority) updateReloads(dt float64) {
	for _, entry := range a.combatantEntries() {
		c := components.Combatant.Get(entry)
		if c.Reload == nil {
			continue
		}
		if _, done := c.Reload.Tween.Update(float32(dt)); done {
			a.completeReload(entry)
		}
	}
}

// updateWeapons releases every shot that fell due since the previous tick. A
// shot that finds the clip empty turns into a reload.
func (a *Authority) updateWeapons() {
	for _, entry := range a.combatantEntries() {
		h := components.Combatant.Get(entry).Handle
		wEntry, w, ok := a.activeWeapon(entry)
		if !ok {
			continue
		}

		for {
			at, due := w.NextDue(a.now)
			if !due {
				break
			}
			// Damage to others may have moved this combatant's storage.
			shooter, _, alive := a.combatant(h)
			if !alive {
				break
			}
			if w.ClipEmpty() {
				a.reload(shooter)
				break
			}
			w.ConsumeRound(at)
			a.fireShot(shooter, wEntry)
		}
	}
}

// fireShot resolves one shot from the shooter's muzzle along its aim.
func (a *Authority) fireShot(shooter, wEntry *donburi.Entry) {
	c := components.Combatant.Get(shooter)
	w := components.Weapon.Get(wEntry)
	cp, ok := a.bodies[shooter.Entity()]
	if !ok {
		return
	}
	kind, _ := cfg.WeaponKind(w.Kind)
	ox, oy := cp.Muzzle()

	if kind.IsProjectile {
		a.launchProjectile(c.Handle, w.Handle, kind, ox, oy, c.Aim.X, c.Aim.Y)
		return
	}

	res := a.tracer.Trace(ox, oy, c.Aim.X, c.Aim.Y, kind.TraceRange, c.Handle)
	trace := combat.HitTrace{X: res.X, Y: res.Y, Surface: res.Surface}
	c.LastHitTrace = &trace
	a.events.Broadcast(messages.FireEvent{
		Shooter: c.Handle,
		Weapon:  w.Handle,
		OriginX: ox,
		OriginY: oy,
		Trace:   a.replicator.Quantize(trace),
	})

	if res.Target == combat.NoHandle {
		return
	}
	a.ApplyDamage(DamageRequest{
		Target:     res.Target,
		Instigator: c.Handle,
		Causer:     w.Handle,
		Amount:     combat.ActualDamage(w.BaseDamage, res.Surface, kind.VulnerableMultiplier),
		HitX:       res.X,
		HitY:       res.Y,
		Surface:    res.Surface,
	})
}
