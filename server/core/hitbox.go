package core

import (
	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/solarlune/resolv"
)

// CombatantPhysics holds a combatant's hitboxes on the server. This is not a
// donburi component; it exists only on the server and is never synced. Both
// objects carry the combatant handle in Data.
type CombatantPhysics struct {
	Head *resolv.Object // vulnerable flesh
	Body *resolv.Object // flesh

	removed bool
}

// newCombatantPhysics places a combatant whose head top-left corner is (x, y).
func newCombatantPhysics(level *ServerLevel, handle combat.Handle, x, y float64) *CombatantPhysics {
	bodyW, bodyH, head := cfg.Combatant.BodyWidth, cfg.Combatant.BodyHeight, cfg.Combatant.HeadSize

	headObj := resolv.NewObject(x+(bodyW-head)/2, y, head, head, tags.ResolvHead)
	headObj.SetShape(resolv.NewRectangle(0, 0, head, head))
	headObj.Data = handle

	bodyObj := resolv.NewObject(x, y+head, bodyW, bodyH, tags.ResolvBody)
	bodyObj.SetShape(resolv.NewRectangle(0, 0, bodyW, bodyH))
	bodyObj.Data = handle

	level.Space.Add(headObj, bodyObj)

	return &CombatantPhysics{Head: headObj, Body: bodyObj}
}

// removeCombatantPhysics takes the hitboxes out of the space so traces pass
// through. Position stays readable.
func removeCombatantPhysics(level *ServerLevel, cp *CombatantPhysics) {
	if cp.removed {
		return
	}
	level.Space.Remove(cp.Head, cp.Body)
	cp.removed = true
}

// Muzzle is the trace origin: horizontally centred, MuzzleHeight below the top of the head.
func (cp *CombatantPhysics) Muzzle() (x, y float64) {
	return cp.Body.X + cp.Body.W/2, cp.Head.Y + cfg.Combatant.MuzzleHeight
}

// Position is the top-left corner of the combatant.
func (cp *CombatantPhysics) Position() (x, y float64) {
	return cp.Body.X, cp.Head.Y
}

// ProjectilePhysics holds server-side physics state for a projectile entity.
type ProjectilePhysics struct {
	Object     *resolv.Object
	VelX, VelY float64
	Gravity    float64
	Remaining  float64 // seconds until it expires without impact

	Handle      combat.Handle
	Kind        string
	Damage      float64
	Multiplier  float64 // vulnerable surface multiplier
	OwnerHandle combat.Handle
	Weapon      combat.Handle
	Destroy     bool // Flagged for deferred removal
}

func newProjectilePhysics(level *ServerLevel, handle combat.Handle, cx, cy, size float64) *ProjectilePhysics {
	obj := resolv.NewObject(cx-size/2, cy-size/2, size, size, tags.ResolvProjectile)
	obj.SetShape(resolv.NewRectangle(0, 0, size, size))
	obj.Data = handle
	level.Space.Add(obj)

	return &ProjectilePhysics{Object: obj, Handle: handle}
}

func removeProjectilePhysics(level *ServerLevel, pp *ProjectilePhysics) {
	level.Space.Remove(pp.Object)
}

// Center is the projectile's midpoint.
func (pp *ProjectilePhysics) Center() (x, y float64) {
	return pp.Object.X + pp.Object.W/2, pp.Object.Y + pp.Object.H/2
}
