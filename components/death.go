package components

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/yohamta/donburi"
)

// DeathData marks a combatant whose health was depleted. Remaining counts
// down in seconds; when it reaches 0 the combatant and its weapons are
// removed from the world.
type DeathData struct {
	Remaining float64
	Killer    combat.Handle
}

var Death = donburi.NewComponentType[DeathData]()
