package combat

import "errors"

// ErrInventorySpawned is returned when a populated inventory is populated again.
var ErrInventorySpawned = errors.New("inventory already spawned")

// Direction selects which way SwitchWeapon cycles.
type Direction int

const (
	DirectionPrevious Direction = -1
	DirectionNext     Direction = 1
)

// Valid reports whether d is one of the two cycle directions.
func (d Direction) Valid() bool {
	return d == DirectionNext || d == DirectionPrevious
}

// Inventory is an ordered, fixed-size weapon set with a selection cursor and
// an ammo pool shared by all weapons. H is the weapon handle type.
type Inventory[H comparable] struct {
	Weapons  []H
	Selected int
	AmmoPool int
	spawned  bool
}

// NewInventory returns an empty inventory holding ammo rounds in its pool.
func NewInventory[H comparable](ammo int) Inventory[H] {
	if ammo < 0 {
		ammo = 0
	}
	return Inventory[H]{AmmoPool: ammo}
}

// Spawned reports whether Populate has run.
func (inv *Inventory[H]) Spawned() bool {
	return inv.spawned
}

// Populate installs the weapon set. It succeeds once per inventory.
func (inv *Inventory[H]) Populate(weapons []H) error {
	if inv.spawned {
		return ErrInventorySpawned
	}
	inv.Weapons = append([]H(nil), weapons...)
	inv.Selected = 0
	inv.spawned = true
	return nil
}

// Active returns the selected weapon.
func (inv *Inventory[H]) Active() (H, bool) {
	var zero H
	if len(inv.Weapons) == 0 {
		return zero, false
	}
	return inv.Weapons[inv.Selected], true
}

// IndexOf returns the slot holding weapon, or -1.
func (inv *Inventory[H]) IndexOf(weapon H) int {
	for i, w := range inv.Weapons {
		if w == weapon {
			return i
		}
	}
	return -1
}

// Switch moves the cursor one slot in dir, wrapping around, and returns the
// previously and newly selected weapons.
func (inv *Inventory[H]) Switch(dir Direction) (prev, next H, ok bool) {
	n := len(inv.Weapons)
	if n == 0 || !dir.Valid() {
		return prev, next, false
	}
	prev = inv.Weapons[inv.Selected]
	if dir == DirectionNext {
		inv.Selected = (inv.Selected + 1) % n
	} else {
		inv.Selected = (inv.Selected + n - 1) % n
	}
	return prev, inv.Weapons[inv.Selected], true
}

// RequestAmmo grants min(amount, AmmoPool) rounds and removes them from the
// pool. Non-positive requests grant nothing.
func (inv *Inventory[H]) RequestAmmo(amount int) int {
	if amount <= 0 {
		return 0
	}
	granted := amount
	if granted > inv.AmmoPool {
		granted = inv.AmmoPool
	}
	inv.AmmoPool -= granted
	return granted
}
