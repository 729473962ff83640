package obb

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/akmonengine/quickhull"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxPoints returns the corners of a box with the given half extents, rotated
// and translated, plus random interior points.
func boxPoints(half mgl64.Vec3, rotation mgl64.Quat, translation mgl64.Vec3, interior int) []mgl64.Vec3 {
	var points []mgl64.Vec3
	for k := 0; k < 8; k++ {
		local := mgl64.Vec3{-half[0], -half[1], -half[2]}
		for i := 0; i < 3; i++ {
			if k&(1<<i) != 0 {
				local[i] = half[i]
			}
		}
		points = append(points, rotation.Rotate(local).Add(translation))
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < interior; i++ {
		local := mgl64.Vec3{
			(rng.Float64()*2 - 1) * half[0] * 0.9,
			(rng.Float64()*2 - 1) * half[1] * 0.9,
			(rng.Float64()*2 - 1) * half[2] * 0.9,
		}
		points = append(points, rotation.Rotate(local).Add(translation))
	}
	return points
}

func TestFromPointsRecoversRotatedBox(t *testing.T) {
	half := mgl64.Vec3{2, 1, 0.5}
	rotation := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize())
	translation := mgl64.Vec3{10, -4, 3}
	points := boxPoints(half, rotation, translation, 50)

	box, err := FromPoints(points, quickhull.DefaultConfig())
	require.NoError(t, err)

	extents := []float64{box.HalfExtents[0], box.HalfExtents[1], box.HalfExtents[2]}
	slices.Sort(extents)
	assert.InDeltaSlice(t, []float64{0.5, 1, 2}, extents, 1e-6)
	assert.InDelta(t, 8.0, box.Volume(), 1e-5)
	assert.InDelta(t, 0, box.Center.Sub(translation).Len(), 1e-6)

	// Every box axis matches one of the rotated box axes up to sign.
	boxAxes := []mgl64.Vec3{
		rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		rotation.Rotate(mgl64.Vec3{0, 0, 1}),
	}
	for _, axis := range box.Axes {
		assert.InDelta(t, 1.0, axis.Len(), 1e-9)
		best := 0.0
		for _, want := range boxAxes {
			best = math.Max(best, math.Abs(axis.Dot(want)))
		}
		assert.InDelta(t, 1.0, best, 1e-6)
	}

	for _, p := range points {
		assert.True(t, box.Contains(p, 1e-6), "point %v outside box", p)
	}
}

func TestFromHullAxesAreRightHanded(t *testing.T) {
	points := boxPoints(mgl64.Vec3{3, 2, 1}, mgl64.QuatIdent(), mgl64.Vec3{}, 0)
	hull, err := quickhull.Build(points)
	require.NoError(t, err)

	box, err := FromHull(hull)
	require.NoError(t, err)

	assert.InDelta(t, 0, box.Axes[0].Dot(box.Axes[1]), 1e-9)
	assert.InDelta(t, 0, box.Axes[0].Dot(box.Axes[2]), 1e-9)
	assert.InDelta(t, 0, box.Axes[1].Dot(box.Axes[2]), 1e-9)
	assert.InDelta(t, 1, box.Axes[0].Cross(box.Axes[1]).Dot(box.Axes[2]), 1e-9)

	// Axes are sorted by increasing spread: the shortest side comes first.
	assert.InDelta(t, 1, box.HalfExtents[0], 1e-9)
	assert.InDelta(t, 3, box.HalfExtents[2], 1e-9)
}

func TestCorners(t *testing.T) {
	box := OBB{
		Center:      mgl64.Vec3{1, 1, 1},
		Axes:        [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		HalfExtents: mgl64.Vec3{1, 2, 3},
	}

	corners := box.Corners()
	assert.Equal(t, mgl64.Vec3{0, -1, -2}, corners[0])
	assert.Equal(t, mgl64.Vec3{2, 3, 4}, corners[7])
	assert.Equal(t, mgl64.Vec3{2, -1, -2}, corners[1])
	for _, c := range corners {
		assert.True(t, box.Contains(c, 1e-12))
	}
	assert.False(t, box.Contains(mgl64.Vec3{2.1, 1, 1}, 1e-12))
	assert.InDelta(t, 48.0, box.Volume(), 1e-12)
}

func TestFromPointsDegenerate(t *testing.T) {
	_, err := FromPoints([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, quickhull.DefaultConfig())
	assert.ErrorIs(t, err, quickhull.ErrAllPointsCoplanar)

	_, err = FromHull(&quickhull.Hull{})
	assert.ErrorIs(t, err, ErrEmptyHull)
}
