package core

import (
	"fmt"
	"io/fs"
	"log"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/leveldata"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/solarlune/resolv"
)

// ServerLevel holds the server's collision space and spawn data for an arena.
type ServerLevel struct {
	Space       *resolv.Space
	SpawnPoints []leveldata.SpawnPoint
	MapWidth    int
	MapHeight   int

	nextSpawn int
}

// NewServerLevel builds a resolv.Space from parsed arena data. Solid objects
// carry their surface kind in Data.
func NewServerLevel(data *leveldata.ArenaData) *ServerLevel {
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, 16, 16)

	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		obj.Data = parseSurface(r.Surface)
		space.Add(obj)
	}

	log.Printf("Loaded arena: %d solid tiles, %d spawn points, %dx%d map",
		len(data.SolidRects), len(data.SpawnPoints), data.MapWidth, data.MapHeight)

	return &ServerLevel{
		Space:       space,
		SpawnPoints: data.SpawnPoints,
		MapWidth:    data.MapWidth,
		MapHeight:   data.MapHeight,
	}
}

// NextSpawn hands out spawn points round-robin.
func (l *ServerLevel) NextSpawn() (x, y float64) {
	if len(l.SpawnPoints) == 0 {
		return cfg.Combatant.DefaultSpawnX, cfg.Combatant.DefaultSpawnY
	}
	sp := l.SpawnPoints[l.nextSpawn%len(l.SpawnPoints)]
	l.nextSpawn++
	return sp.X, sp.Y
}

// Contains reports whether the point lies inside the arena bounds.
func (l *ServerLevel) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= float64(l.MapWidth) && y <= float64(l.MapHeight)
}

func parseSurface(name string) combat.SurfaceKind {
	switch name {
	case combat.SurfaceFlesh.String():
		return combat.SurfaceFlesh
	case combat.SurfaceFleshVulnerable.String():
		return combat.SurfaceFleshVulnerable
	default:
		return combat.SurfaceDefault
	}
}

// LoadAllServerLevels loads all .tmx arenas from the arenas/ folder of fsys,
// returning a map of ServerLevel keyed by stem name plus a sorted name list.
func LoadAllServerLevels(fsys fs.FS) (map[string]*ServerLevel, []string, error) {
	arenas, names, err := leveldata.LoadAllArenas(fsys, "arenas")
	if err != nil {
		return nil, nil, fmt.Errorf("load all arenas: %w", err)
	}

	levels := make(map[string]*ServerLevel, len(names))
	for _, name := range names {
		levels[name] = NewServerLevel(arenas[name])
	}

	return levels, names, nil
}
