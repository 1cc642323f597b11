package combat

// SurfaceKind classifies what a shot hit. It only selects the damage
// multiplier and the cosmetic impact effect.
type SurfaceKind uint8

const (
	SurfaceDefault SurfaceKind = iota
	SurfaceFlesh
	SurfaceFleshVulnerable
)

var surfaceNames = map[SurfaceKind]string{
	SurfaceDefault:         "default",
	SurfaceFlesh:           "flesh",
	SurfaceFleshVulnerable: "flesh_vulnerable",
}

func (s SurfaceKind) String() string {
	if name, ok := surfaceNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is a known surface kind.
func (s SurfaceKind) Valid() bool {
	_, ok := surfaceNames[s]
	return ok
}

// ActualDamage scales baseDamage by vulnerableMultiplier when the surface is
// vulnerable flesh.
func ActualDamage(baseDamage float64, surface SurfaceKind, vulnerableMultiplier float64) float64 {
	if surface == SurfaceFleshVulnerable {
		return baseDamage * vulnerableMultiplier
	}
	return baseDamage
}
