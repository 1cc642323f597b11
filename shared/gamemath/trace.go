package gamemath

import "math"

// Normalize returns the unit vector of (x, y). ok is false for zero-length or
// non-finite input.
func Normalize(x, y float64) (nx, ny float64, ok bool) {
	if !IsFinite(x) || !IsFinite(y) {
		return 0, 0, false
	}
	mag := math.Hypot(x, y)
	if mag == 0 {
		return 0, 0, false
	}
	return x / mag, y / mag, true
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TraceEnd returns the point maxRange along the unit direction from origin.
func TraceEnd(originX, originY, dirX, dirY, maxRange float64) (x, y float64) {
	return originX + dirX*maxRange, originY + dirY*maxRange
}

// ClipRange shortens maxRange so a ray from origin along the unit direction
// stays inside [0,width]x[0,height]. It returns 0 if origin is outside.
func ClipRange(originX, originY, dirX, dirY, maxRange, width, height float64) float64 {
	if originX < 0 || originY < 0 || originX > width || originY > height {
		return 0
	}
	limit := maxRange
	if dirX > 0 {
		limit = math.Min(limit, (width-originX)/dirX)
	} else if dirX < 0 {
		limit = math.Min(limit, -originX/dirX)
	}
	if dirY > 0 {
		limit = math.Min(limit, (height-originY)/dirY)
	} else if dirY < 0 {
		limit = math.Min(limit, -originY/dirY)
	}
	return math.Max(limit, 0)
}

// QuantizeVector rounds a point onto a grid of the given cell size. Hit
// traces are cosmetic, so the precision loss is acceptable.
func QuantizeVector(x, y, quantum float64) (qx, qy int32) {
	if quantum <= 0 {
		quantum = 1
	}
	return int32(math.Round(x / quantum)), int32(math.Round(y / quantum))
}

// DequantizeVector is the inverse of QuantizeVector.
func DequantizeVector(qx, qy int32, quantum float64) (x, y float64) {
	if quantum <= 0 {
		quantum = 1
	}
	return float64(qx) * quantum, float64(qy) * quantum
}
