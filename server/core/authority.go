package core

import (
	"errors"
	"fmt"
	"log"
	"sort"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/components"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netcomponents"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
	dmath "github.com/yohamta/donburi/features/math"
)

// ErrArenaFull is returned when spawning beyond the configured combatant limit.
var ErrArenaFull = errors.New("arena full")

// Authority is the single place gameplay state is mutated. All of its methods
// except Enqueue must be called from the tick goroutine.
type Authority struct {
	world      donburi.World
	level      *ServerLevel
	tracer     HitResolver
	queue      *RequestQueue
	events     EventQueue
	replicator *Replicator

	// Entity table keyed by stable handles
	handles    map[combat.Handle]donburi.Entity
	nextHandle combat.Handle

	bodies      map[donburi.Entity]*CombatantPhysics
	projectiles map[donburi.Entity]*ProjectilePhysics
	tokens      map[string]combat.Handle
	rejections  map[string]int

	matchID    string
	serverName string
	tickRate   int
	networked  bool

	now  float64
	tick uint64
}

// NewAuthority creates an authority over world using level for hit traces.
func NewAuthority(world donburi.World, level *ServerLevel) *Authority {
	return &Authority{
		world:       world,
		level:       level,
		tracer:      NewSpaceTracer(level),
		queue:       NewRequestQueue(cfg.Combatant.RequestBacklog),
		replicator:  NewReplicator(cfg.Replication.TraceQuantum),
		handles:     make(map[combat.Handle]donburi.Entity),
		bodies:      make(map[donburi.Entity]*CombatantPhysics),
		projectiles: make(map[donburi.Entity]*ProjectilePhysics),
		tokens:      make(map[string]combat.Handle),
		rejections:  make(map[string]int),
		matchID:     uuid.NewString(),
	}
}

// SetHitResolver replaces the resolv tracer.
func (a *Authority) SetHitResolver(r HitResolver) {
	a.tracer = r
}

// SetServerInfo sets what JoinAccepted reports about the server.
func (a *Authority) SetServerInfo(name string, tickRate int) {
	a.serverName = name
	a.tickRate = tickRate
}

// EnableNetworkSync registers every entity spawned from now on with necs.
// The world must already be set up with srvsync.UseEsync.
func (a *Authority) EnableNetworkSync() {
	a.networked = true
}

func (a *Authority) World() donburi.World { return a.world }
func (a *Authority) Now() float64         { return a.now }
func (a *Authority) TickCount() uint64    { return a.tick }
func (a *Authority) MatchID() string      { return a.matchID }

// Enqueue stages a request for the next tick. Safe for concurrent use.
func (a *Authority) Enqueue(req Request) error {
	if !a.queue.Push(req) {
		return fmt.Errorf("enqueue %s from %q: %w", req.Kind, req.Sender, ErrQueueFull)
	}
	return nil
}

// DrainEvents returns the messages produced since the last drain.
func (a *Authority) DrainEvents() []Outbound {
	return a.events.Drain()
}

// Tick advances the authority clock by dt seconds: queued requests are
// applied in arrival order, then reloads, fire schedules, projectiles, regen
// and death timers advance, and finally the replicated state is diffed.
func (a *Authority) Tick(dt float64) *messages.SnapshotDelta {
	if dt < 0 {
		dt = 0
	}
	a.now += dt
	a.tick++

	for _, req := range a.queue.Drain() {
		a.Handle(req)
	}

	a.updateReloads(dt)
	a.updateWeapons()
	a.updateProjectiles(dt)
	a.updateHealth(dt)
	a.updateLifetimes(dt)

	delta := a.replicator.Collect(a.tick, a.replicatedStates(), a.KeyframeDue())
	if delta != nil {
		a.events.Broadcast(*delta)
	}
	return delta
}

// KeyframeDue reports whether the tick just run was a keyframe tick.
func (a *Authority) KeyframeDue() bool {
	n := cfg.Replication.KeyframeInterval
	return n > 0 && a.tick%uint64(n) == 0
}

func (a *Authority) issueHandle() combat.Handle {
	a.nextHandle++
	return a.nextHandle
}

// entry resolves a handle to a live entity.
func (a *Authority) entry(h combat.Handle) (*donburi.Entry, bool) {
	e, ok := a.handles[h]
	if !ok || !a.world.Valid(e) {
		return nil, false
	}
	return a.world.Entry(e), true
}

func (a *Authority) combatant(h combat.Handle) (*donburi.Entry, *components.CombatantData, bool) {
	entry, ok := a.entry(h)
	if !ok || !entry.HasComponent(components.Combatant) {
		return nil, nil, false
	}
	return entry, components.Combatant.Get(entry), true
}

// combatantEntries returns every combatant ordered by handle. Callers may
// remove entities while walking the slice.
func (a *Authority) combatantEntries() []*donburi.Entry {
	var out []*donburi.Entry
	components.Combatant.Each(a.world, func(e *donburi.Entry) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool {
		return components.Combatant.Get(out[i]).Handle < components.Combatant.Get(out[j]).Handle
	})
	return out
}

// CombatantCount is the number of combatants in the arena, dead or alive.
func (a *Authority) CombatantCount() int {
	n := 0
	components.Combatant.Each(a.world, func(*donburi.Entry) { n++ })
	return n
}

// SpawnCombatant creates a combatant with full health and an empty,
// unpopulated inventory at the next spawn point.
func (a *Authority) SpawnCombatant(name, clientID string) (combat.Handle, error) {
	if limit := cfg.Server.MaxCombatants; limit > 0 && a.CombatantCount() >= limit {
		return combat.NoHandle, fmt.Errorf("spawn %q: %w", name, ErrArenaFull)
	}

	h := a.issueHandle()
	entity := a.world.Create(
		tags.Combatant,
		components.Combatant,
		components.Health,
		components.Inventory,
		netcomponents.NetCombatant,
		netcomponents.NetBody,
	)
	entry := a.world.Entry(entity)

	components.Health.SetValue(entry, combat.NewHealthState(
		cfg.Health.MaxHealth, cfg.Health.MaxShield, cfg.Health.RegenRate, cfg.Health.RegenDelay))
	components.Inventory.SetValue(entry, combat.NewInventory[donburi.Entity](cfg.Inventory.StartingAmmo))
	components.Combatant.SetValue(entry, components.CombatantData{
		Handle:   h,
		Name:     name,
		ClientID: clientID,
		Aim:      dmath.Vec2{X: 1, Y: 0},
	})

	x, y := a.level.NextSpawn()
	a.bodies[entity] = newCombatantPhysics(a.level, h, x, y)
	a.handles[h] = entity

	if a.networked {
		if err := srvsync.NetworkSync(a.world, &entity,
			srvsync.WithInterp(netcomponents.NetBody),
			netcomponents.NetCombatant,
		); err != nil {
			log.Printf("[authority] failed to setup network sync for combatant %d: %v", h, err)
		}
	}

	a.writeNetComponents(entry)
	log.Printf("[authority] spawned combatant %d %q at %.0f,%.0f", h, name, x, y)
	return h, nil
}

// RemoveCombatant deletes a combatant, its weapons and hitboxes.
func (a *Authority) RemoveCombatant(h combat.Handle) {
	entry, c, ok := a.combatant(h)
	if !ok {
		return
	}

	inv := components.Inventory.Get(entry)
	for _, we := range inv.Weapons {
		if !a.world.Valid(we) {
			continue
		}
		w := components.Weapon.Get(a.world.Entry(we))
		delete(a.handles, w.Handle)
		a.world.Remove(we)
		a.events.Broadcast(messages.DespawnEvent{Handle: w.Handle})
	}

	entity := entry.Entity()
	if cp, ok := a.bodies[entity]; ok {
		removeCombatantPhysics(a.level, cp)
		delete(a.bodies, entity)
	}
	for token, th := range a.tokens {
		if th == h {
			delete(a.tokens, token)
		}
	}
	delete(a.handles, h)
	a.projectileOwnerRemoved(h)
	a.replicator.Forget(h)
	a.world.Remove(entity)

	a.events.Broadcast(messages.DespawnEvent{Handle: h})
	log.Printf("[authority] removed combatant %d %q", h, c.Name)
}

// Snapshot returns a read-only copy of a combatant's replicated fields.
func (a *Authority) Snapshot(h combat.Handle) (Snapshot, bool) {
	entry, _, ok := a.combatant(h)
	if !ok {
		return Snapshot{}, false
	}
	return a.snapshot(entry), true
}

func (a *Authority) snapshot(entry *donburi.Entry) Snapshot {
	c := components.Combatant.Get(entry)
	hs := components.Health.Get(entry)
	inv := components.Inventory.Get(entry)

	s := Snapshot{
		Health:              hs.Health,
		Shield:              hs.Shield,
		IsReloading:         c.IsReloading,
		IsDead:              c.IsDead,
		WantsToZoom:         c.WantsToZoom,
		SelectedWeaponIndex: inv.Selected,
		ActiveWeaponHandle:  c.ActiveWeaponHandle,
	}
	if _, w, ok := a.activeWeapon(entry); ok {
		s.ClipCurrent = w.ClipCurrent
		s.IsFiring = w.FiringActive
	}
	return s
}

// replicatedStates snapshots every combatant and consumes its pending hit
// trace. The net components used by necs keyframes are refreshed on the way.
func (a *Authority) replicatedStates() []replicatedState {
	entries := a.combatantEntries()
	states := make([]replicatedState, 0, len(entries))
	for _, entry := range entries {
		c := components.Combatant.Get(entry)
		states = append(states, replicatedState{
			Handle:   c.Handle,
			Snapshot: a.snapshot(entry),
			Trace:    c.LastHitTrace,
		})
		c.LastHitTrace = nil
		a.writeNetComponents(entry)
	}
	return states
}

func (a *Authority) writeNetComponents(entry *donburi.Entry) {
	c := components.Combatant.Get(entry)
	s := a.snapshot(entry)
	netcomponents.NetCombatant.SetValue(entry, netcomponents.NetCombatantData{
		Handle:              c.Handle,
		Name:                c.Name,
		Health:              s.Health,
		Shield:              s.Shield,
		ClipCurrent:         s.ClipCurrent,
		IsFiring:            s.IsFiring,
		IsReloading:         s.IsReloading,
		IsDead:              s.IsDead,
		WantsToZoom:         s.WantsToZoom,
		SelectedWeaponIndex: s.SelectedWeaponIndex,
		ActiveWeaponHandle:  s.ActiveWeaponHandle,
	})
	if cp, ok := a.bodies[entry.Entity()]; ok {
		x, y := cp.Position()
		netcomponents.NetBody.SetValue(entry, netcomponents.NetBodyData{
			X: x, Y: y, AimX: c.Aim.X, AimY: c.Aim.Y,
		})
	}

	inv := components.Inventory.Get(entry)
	for _, we := range inv.Weapons {
		if !a.world.Valid(we) {
			continue
		}
		wEntry := a.world.Entry(we)
		w := components.Weapon.Get(wEntry)
		netcomponents.NetWeapon.SetValue(wEntry, netcomponents.NetWeaponData{
			Handle:      w.Handle,
			Owner:       c.Handle,
			Kind:        w.Kind,
			ClipCurrent: w.ClipCurrent,
			Active:      w.Active,
		})
	}
}
