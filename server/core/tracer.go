package core

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/gamemath"
	"github.com/automoto/cyberwarfare/tags"
	"github.com/solarlune/resolv"
)

// HitResult is the outcome of a line trace. Target is NoHandle unless a
// combatant hitbox was struck.
type HitResult struct {
	Hit     bool
	X, Y    float64
	Surface combat.SurfaceKind
	Target  combat.Handle
}

// HitResolver resolves a shot against arena geometry. dir must be a unit
// vector. Hitboxes belonging to ignore are skipped.
type HitResolver interface {
	Trace(originX, originY, dirX, dirY, maxRange float64, ignore combat.Handle) HitResult
}

const (
	probeSize = 2.0
	probeStep = 2.0
)

// SpaceTracer walks a small probe object along the ray through the level's
// resolv space and reports the first hitbox or solid it overlaps.
type SpaceTracer struct {
	level *ServerLevel
	probe *resolv.Object
}

func NewSpaceTracer(level *ServerLevel) *SpaceTracer {
	probe := resolv.NewObject(0, 0, probeSize, probeSize, tags.ResolvProbe)
	probe.SetShape(resolv.NewRectangle(0, 0, probeSize, probeSize))
	return &SpaceTracer{level: level, probe: probe}
}

func (t *SpaceTracer) Trace(originX, originY, dirX, dirY, maxRange float64, ignore combat.Handle) HitResult {
	endX, endY := gamemath.TraceEnd(originX, originY, dirX, dirY, maxRange)
	miss := HitResult{X: endX, Y: endY, Surface: combat.SurfaceDefault}

	dist := gamemath.ClipRange(originX, originY, dirX, dirY, maxRange,
		float64(t.level.MapWidth), float64(t.level.MapHeight))
	if dist <= 0 {
		return miss
	}

	t.level.Space.Add(t.probe)
	defer t.level.Space.Remove(t.probe)

	for d := 0.0; d <= dist; d += probeStep {
		px, py := originX+dirX*d, originY+dirY*d
		t.probe.X = px - probeSize/2
		t.probe.Y = py - probeSize/2
		t.probe.Update()

		col := t.probe.Check(0, 0)
		if col == nil {
			continue
		}
		if res, ok := pickContact(col.Objects, px, py, px, py, ignore); ok {
			return res
		}
	}
	return miss
}

// pickContact chooses the struck object among broad-phase candidates whose
// rectangle overlaps [x0,x1]x[y0,y1]. Heads win over bodies, bodies over solids.
func pickContact(candidates []*resolv.Object, x0, y0, x1, y1 float64, ignore combat.Handle) (HitResult, bool) {
	var best HitResult
	bestRank := -1
	for _, o := range candidates {
		if !overlaps(o, x0, y0, x1, y1) {
			continue
		}
		surface, handle, rank, ok := classify(o)
		if !ok || (handle != combat.NoHandle && handle == ignore) {
			continue
		}
		if rank > bestRank {
			bestRank = rank
			best = HitResult{Hit: true, X: (x0 + x1) / 2, Y: (y0 + y1) / 2, Surface: surface, Target: handle}
		}
	}
	return best, bestRank >= 0
}

func classify(o *resolv.Object) (surface combat.SurfaceKind, handle combat.Handle, rank int, ok bool) {
	switch {
	case o.HasTags(tags.ResolvHead):
		h, _ := o.Data.(combat.Handle)
		return combat.SurfaceFleshVulnerable, h, 2, true
	case o.HasTags(tags.ResolvBody):
		h, _ := o.Data.(combat.Handle)
		return combat.SurfaceFlesh, h, 1, true
	case o.HasTags(tags.ResolvSolid):
		s, _ := o.Data.(combat.SurfaceKind)
		return s, combat.NoHandle, 0, true
	}
	return 0, combat.NoHandle, 0, false
}

func overlaps(o *resolv.Object, x0, y0, x1, y1 float64) bool {
	return x1 >= o.X && x0 <= o.X+o.W && y1 >= o.Y && y0 <= o.Y+o.H
}
