package combat

// Handle is the stable identifier the authority hands out for combatants,
// weapons and projectiles. It survives entity storage moves and is what
// requests, events and damage sources refer to.
type Handle uint32

// NoHandle is never issued.
const NoHandle Handle = 0

// HitTrace is where a shot ended and what it struck. It drives cosmetic
// replay only.
type HitTrace struct {
	X, Y    float64
	Surface SurfaceKind
}
