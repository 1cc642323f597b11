package components

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/yohamta/donburi"
)

var Health = donburi.NewComponentType[combat.HealthState]()
