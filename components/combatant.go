package components

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	dmath "github.com/yohamta/donburi/features/math"
)

// ReloadData is an in-flight reload. Tween runs for the weapon's reload
// duration; its completion is the reload-completion signal.
type ReloadData struct {
	Weapon donburi.Entity
	Tween  *gween.Tween
}

// CombatantData is the authority-side state of a combatant that is not
// covered by Health or Inventory.
type CombatantData struct {
	Handle   combat.Handle
	Name     string
	ClientID string // owning network client, "" for authority-owned combatants

	IsDead        bool // monotonic
	IsReloading   bool
	InputDisabled bool
	WantsToZoom   bool

	Aim                dmath.Vec2 // unit look direction
	ActiveWeaponHandle combat.Handle
	Reload             *ReloadData

	// Latest shot endpoint this tick; consumed by replication
	LastHitTrace *combat.HitTrace

	Detached    bool // owning client disconnected
	DetachedFor float64
	Rejections  int // validation failures carried over from the detached client
}

var Combatant = donburi.NewComponentType[CombatantData]()
