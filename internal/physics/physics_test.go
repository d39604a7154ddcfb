package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const eps = 1e-9

func TestPaddleReflectionFan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rel := rapid.Float64Range(-1, 1).Draw(t, "relative")
		speed := rapid.Float64Range(0.1, 50).Draw(t, "speed")

		dx, dy := PaddleReflection(rel, speed)

		if got := math.Hypot(dx, dy); math.Abs(got-speed) > eps*speed {
			t.Fatalf("magnitude %v, want %v", got, speed)
		}
		angle := math.Atan2(dx, -dy)
		if math.Abs(angle-rel*MaxPaddleAngle) > 1e-9 {
			t.Fatalf("angle %v, want %v", angle, rel*MaxPaddleAngle)
		}
		if dy > 0 {
			t.Fatalf("paddle bounce must go up, got dy=%v", dy)
		}
	})
}

func TestPaddleReflectionClampsOutsideSpan(t *testing.T) {
	dx, dy := PaddleReflection(3, 10)
	edgeX, edgeY := PaddleReflection(1, 10)
	assert.InDelta(t, edgeX, dx, eps)
	assert.InDelta(t, edgeY, dy, eps)

	dx, dy = PaddleReflection(0, 4)
	assert.InDelta(t, 0, dx, eps)
	assert.InDelta(t, -4, dy, eps)
}

func TestWallMirrorsConserveSpeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		angle := rapid.Float64Range(-math.Pi, math.Pi).Draw(t, "angle")
		speed := rapid.Float64Range(0.1, 50).Draw(t, "speed")
		dx, dy := VelocityFromAngle(angle, speed)

		sx, sy := MirrorSideWall(dx, dy, speed)
		if math.Abs(math.Hypot(sx, sy)-speed) > 1e-9*speed {
			t.Fatalf("side wall changed speed")
		}
		if math.Abs(sx+dx) > 1e-9*speed || math.Abs(sy-dy) > 1e-9*speed {
			t.Fatalf("side wall must flip dx only: (%v,%v) -> (%v,%v)", dx, dy, sx, sy)
		}

		cx, cy := MirrorCeiling(dx, dy, speed)
		if math.Abs(math.Hypot(cx, cy)-speed) > 1e-9*speed {
			t.Fatalf("ceiling changed speed")
		}
		if math.Abs(cx-dx) > 1e-9*speed || math.Abs(cy+dy) > 1e-9*speed {
			t.Fatalf("ceiling must flip dy only: (%v,%v) -> (%v,%v)", dx, dy, cx, cy)
		}
	})
}

func TestRescale(t *testing.T) {
	dx, dy := Rescale(3, 4, 10)
	assert.InDelta(t, 6, dx, eps)
	assert.InDelta(t, 8, dy, eps)

	dx, dy = Rescale(0, 0, 5)
	assert.Equal(t, 0.0, dx)
	assert.Equal(t, -5.0, dy)
}

func TestRectPredicates(t *testing.T) {
	assert.True(t, PointInRect(0, 0, 0, 0, 10, 10))
	assert.True(t, PointInRect(10, 10, 0, 0, 10, 10))
	assert.False(t, PointInRect(10.1, 5, 0, 0, 10, 10))

	assert.False(t, PointStrictlyInRect(0, 5, 0, 0, 10, 10))
	assert.True(t, PointStrictlyInRect(5, 5, 0, 0, 10, 10))
}

func TestSpatialGridQueryPoint(t *testing.T) {
	g := NewSpatialGrid(1280, 720, 100)
	g.InsertRect(0, 0, 213, 80, 0)
	g.InsertRect(213, 0, 426, 80, 1)
	g.InsertRect(600, 500, 700, 540, 2)

	collect := func(x, y float64) []int {
		var got []int
		g.QueryPoint(x, y, func(i int) bool {
			got = append(got, i)
			return false
		})
		return got
	}

	require.Contains(t, collect(50, 40), 0)
	require.NotContains(t, collect(50, 40), 2)
	require.Contains(t, collect(213, 40), 1)
	require.Contains(t, collect(650, 520), 2)
	require.Empty(t, collect(-5, 40))

	g.Clear()
	require.Empty(t, collect(50, 40))
}
