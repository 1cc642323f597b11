// Package leveldata provides TMX arena parsing shared between client and server.
// It has no dependencies on donburi or resolv, pure data only.
package leveldata

// Layer and object group names an arena TMX file must use.
const (
	SolidLayerName      = "solids"
	SpawnGroupName      = "CombatantSpawn"
	SpawnIndexProperty  = "spawnIndex"
	SurfaceTileProperty = "surface"
)

// ArenaData holds the geometry parsed from a TMX arena file.
type ArenaData struct {
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
}

// SolidRect represents one solid tile a trace or projectile can hit.
type SolidRect struct {
	X, Y, W, H float64
	Surface     string // tileset "surface" property, "" for default
}

// SpawnPoint represents a combatant spawn location.
type SpawnPoint struct {
	X, Y  float64
	Index int
}
