package netcomponents

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/yohamta/donburi"
)

// NetWeaponData lets observers attach the right model to the right owner.
// Active mirrors the owner's activeWeaponHandle.
type NetWeaponData struct {
	Handle      combat.Handle
	Owner       combat.Handle
	Kind        string
	ClipCurrent int
	Active      bool
}

var NetWeapon = donburi.NewComponentType[NetWeaponData]()
