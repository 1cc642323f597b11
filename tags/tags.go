package tags

import "github.com/yohamta/donburi"

var (
	Combatant  = donburi.NewTag().SetName("Combatant")
	Weapon     = donburi.NewTag().SetName("Weapon")
	Projectile = donburi.NewTag().SetName("Projectile")
)

// Resolv tags for hit traces and projectile collision
const (
	ResolvSolid      = "solid"
	ResolvBody       = "body" // flesh hitbox
	ResolvHead       = "head" // vulnerable flesh hitbox
	ResolvProjectile = "projectile"
	ResolvProbe      = "probe"
)
