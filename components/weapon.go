package components

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/yohamta/donburi"
)

// WeaponData is a weapon instance owned by exactly one combatant. Inactive
// weapons are holstered: hidden, no collision, no cosmetic tick.
type WeaponData struct {
	combat.WeaponState
	Handle combat.Handle
	Kind   string
	Owner  donburi.Entity
	Active bool
}

var Weapon = donburi.NewComponentType[WeaponData]()

// Inventory holds weapon entities in equip order plus the shared ammo pool.
var Inventory = donburi.NewComponentType[combat.Inventory[donburi.Entity]]()
