package netcomponents

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/yohamta/donburi"
)

// NetCombatantData is the keyframe copy of a combatant's replicated fields.
// Between keyframes observers patch it from SnapshotDelta field updates.
type NetCombatantData struct {
	Handle              combat.Handle
	Name                string
	Health              float64
	Shield              float64
	ClipCurrent         int
	IsFiring            bool
	IsReloading         bool
	IsDead              bool
	WantsToZoom         bool
	SelectedWeaponIndex int
	ActiveWeaponHandle  combat.Handle
}

var NetCombatant = donburi.NewComponentType[NetCombatantData]()

// NetBodyData is a combatant's position and look direction.
type NetBodyData struct {
	X, Y       float64
	AimX, AimY float64
}

var NetBody = donburi.NewComponentType[NetBodyData]()

// LerpNetBody interpolates position; aim snaps to the newer value.
func LerpNetBody(from, to NetBodyData, t float64) *NetBodyData {
	return &NetBodyData{
		X:    from.X + (to.X-from.X)*t,
		Y:    from.Y + (to.Y-from.Y)*t,
		AimX: to.AimX,
		AimY: to.AimY,
	}
}
