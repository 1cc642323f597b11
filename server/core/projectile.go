package core

import (
	"log"
	"math"
	"sort"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/gamemath"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netcomponents"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// launchProjectile spawns a projectile at the muzzle travelling along the aim.
func (a *Authority) launchProjectile(owner, weapon combat.Handle, kind cfg.WeaponKindConfig, ox, oy, aimX, aimY float64) {
	entity := a.world.Create(tags.Projectile, netcomponents.NetProjectile)
	h := a.issueHandle()

	pp := newProjectilePhysics(a.level, h, ox, oy, kind.ProjectileSize)
	pp.VelX, pp.VelY = gamemath.LaunchVelocity(aimX, aimY, kind.ProjectileSpeed)
	pp.Gravity = kind.ProjectileGravity
	pp.Remaining = kind.ProjectileLifetime
	pp.Kind = kind.Name
	pp.Damage = kind.BaseDamage
	pp.Multiplier = kind.VulnerableMultiplier
	pp.OwnerHandle = owner
	pp.Weapon = weapon

	a.projectiles[entity] = pp
	a.handles[h] = entity
	a.writeNetProjectile(a.world.Entry(entity), pp)

	if a.networked {
		if err := srvsync.NetworkSync(a.world, &entity,
			srvsync.WithInterp(netcomponents.NetProjectile),
		); err != nil {
			log.Printf("[authority] failed to setup network sync for projectile %d: %v", h, err)
		}
	}
}

// ProjectileCount is the number of projectiles in flight.
func (a *Authority) ProjectileCount() int {
	return len(a.projectiles)
}

func (a *Authority) updateProjectiles(dt float64) {
	if len(a.projectiles) == 0 || dt <= 0 {
		return
	}

	entities := make([]donburi.Entity, 0, len(a.projectiles))
	for e := range a.projectiles {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool {
		return a.projectiles[entities[i]].Handle < a.projectiles[entities[j]].Handle
	})

	for _, e := range entities {
		pp := a.projectiles[e]
		a.stepProjectile(pp, dt)
		if !pp.Destroy && a.world.Valid(e) {
			a.writeNetProjectile(a.world.Entry(e), pp)
		}
	}

	for _, e := range entities {
		pp := a.projectiles[e]
		if !pp.Destroy {
			continue
		}
		removeProjectilePhysics(a.level, pp)
		delete(a.projectiles, e)
		delete(a.handles, pp.Handle)
		if a.world.Valid(e) {
			a.world.Remove(e)
		}
		a.events.Broadcast(messages.DespawnEvent{Handle: pp.Handle})
	}
}

// stepProjectile sub-steps the flight so a fast projectile cannot skip over a
// thin wall or hitbox between two ticks.
func (a *Authority) stepProjectile(pp *ProjectilePhysics, dt float64) {
	pp.Remaining -= dt

	speed := math.Hypot(pp.VelX, pp.VelY+pp.Gravity*dt)
	size := math.Max(pp.Object.W, 1)
	steps := int(math.Ceil(speed * dt / size))
	if steps < 1 {
		steps = 1
	}
	h := dt / float64(steps)

	for i := 0; i < steps; i++ {
		x, y := pp.Object.X, pp.Object.Y
		x, y, pp.VelX, pp.VelY = gamemath.StepBallistic(x, y, pp.VelX, pp.VelY, pp.Gravity, h)
		pp.Object.X, pp.Object.Y = x, y
		pp.Object.Update()

		cx, cy := pp.Center()
		if !a.level.Contains(cx, cy) {
			pp.Destroy = true
			return
		}

		if col := pp.Object.Check(0, 0); col != nil {
			o := pp.Object
			if res, ok := pickContact(col.Objects, o.X, o.Y, o.X+o.W, o.Y+o.H, pp.OwnerHandle); ok {
				res.X, res.Y = cx, cy
				a.impact(pp, res)
				return
			}
		}
	}

	if pp.Remaining <= 0 {
		pp.Destroy = true
	}
}

// impact resolves a projectile hit: the cosmetic trace goes out at the impact
// point and any struck combatant takes damage.
func (a *Authority) impact(pp *ProjectilePhysics, res HitResult) {
	pp.Destroy = true

	trace := combat.HitTrace{X: res.X, Y: res.Y, Surface: res.Surface}
	if _, owner, ok := a.combatant(pp.OwnerHandle); ok {
		owner.LastHitTrace = &trace
	}
	a.events.Broadcast(messages.FireEvent{
		Shooter:    pp.OwnerHandle,
		Weapon:     pp.Weapon,
		OriginX:    res.X,
		OriginY:    res.Y,
		Trace:      a.replicator.Quantize(trace),
		Projectile: true,
	})

	if res.Target == combat.NoHandle {
		return
	}
	a.ApplyDamage(DamageRequest{
		Target:     res.Target,
		Instigator: pp.OwnerHandle,
		Causer:     pp.Handle,
		Amount:     combat.ActualDamage(pp.Damage, res.Surface, pp.Multiplier),
		HitX:       res.X,
		HitY:       res.Y,
		Surface:    res.Surface,
	})
}

func (a *Authority) writeNetProjectile(entry *donburi.Entry, pp *ProjectilePhysics) {
	x, y := pp.Center()
	netcomponents.NetProjectile.SetValue(entry, netcomponents.NetProjectileData{
		X:     x,
		Y:     y,
		VelX:  pp.VelX,
		VelY:  pp.VelY,
		Owner: pp.OwnerHandle,
		Kind:  pp.Kind,
	})
}

// projectileOwnerRemoved clears references to a removed combatant so its
// projectiles still land but credit nobody.
func (a *Authority) projectileOwnerRemoved(h combat.Handle) {
	for _, pp := range a.projectiles {
		if pp.OwnerHandle == h {
			pp.OwnerHandle = combat.NoHandle
		}
	}
}
