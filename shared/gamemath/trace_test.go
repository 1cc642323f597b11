package gamemath

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestNormalizeRejectsDegenerate(t *testing.T) {
	cases := [][2]float64{{0, 0}, {math.NaN(), 1}, {math.Inf(1), 0}}
	for _, c := range cases {
		if _, _, ok := Normalize(c[0], c[1]); ok {
			t.Fatalf("Normalize(%v, %v) should fail", c[0], c[1])
		}
	}
	x, y, ok := Normalize(3, 4)
	if !ok || math.Abs(x-0.6) > 1e-12 || math.Abs(y-0.8) > 1e-12 {
		t.Fatalf("Normalize(3,4) = %v,%v,%v", x, y, ok)
	}
}

func TestClipRange(t *testing.T) {
	tests := []struct {
		name                   string
		ox, oy, dx, dy, maxRng float64
		want                   float64
	}{
		{"right wall", 10, 50, 1, 0, 10000, 310},
		{"left wall", 10, 50, -1, 0, 10000, 10},
		{"floor", 10, 50, 0, 1, 10000, 110},
		{"short range", 10, 50, 1, 0, 20, 20},
		{"outside", -5, 50, 1, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipRange(tt.ox, tt.oy, tt.dx, tt.dy, tt.maxRng, 320, 160)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuantizeErrorBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		quantum := rapid.Float64Range(0.5, 16).Draw(t, "quantum")
		x := rapid.Float64Range(-10000, 10000).Draw(t, "x")
		y := rapid.Float64Range(-10000, 10000).Draw(t, "y")

		qx, qy := QuantizeVector(x, y, quantum)
		rx, ry := DequantizeVector(qx, qy, quantum)
		if math.Abs(rx-x) > quantum/2+1e-9 || math.Abs(ry-y) > quantum/2+1e-9 {
			t.Fatalf("(%v,%v) -> (%v,%v) exceeds half a quantum of %v", x, y, rx, ry, quantum)
		}
	})
}

func TestStepBallistic(t *testing.T) {
	x, y, vx, vy := StepBallistic(0, 0, 100, 0, 900, 0.1)
	if vx != 100 || math.Abs(vy-90) > 1e-9 {
		t.Fatalf("velocity = %v,%v", vx, vy)
	}
	if math.Abs(x-10) > 1e-9 || math.Abs(y-9) > 1e-9 {
		t.Fatalf("position = %v,%v", x, y)
	}
}
