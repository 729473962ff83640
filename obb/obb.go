// Package obb fits an oriented bounding box to a convex hull.
//
// The box axes are the eigenvectors of the covariance matrix of the hull
// surface, with every triangle weighted by its area. The box is then sized by
// projecting every hull vertex on the axes.
//
// References:
//   - Gottschalk, Lin, Manocha: "OBBTree: A Hierarchical Structure for Rapid
//     Interference Detection" (1996)
package obb

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/quickhull"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyHull is returned when the hull has no surface to fit.
var ErrEmptyHull = errors.New("obb: hull has no surface area")

// OBB is an oriented box: Center plus or minus HalfExtents[i] along Axes[i].
// Axes are orthonormal and right handed, sorted by increasing spread.
type OBB struct {
	Center      mgl64.Vec3
	Axes        [3]mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// FromPoints builds the convex hull of points and fits a box to it.
func FromPoints(points []mgl64.Vec3, cfg quickhull.Config) (OBB, error) {
	hull, err := quickhull.BuildWithConfig(points, cfg)
	if err != nil {
		return OBB{}, fmt.Errorf("obb: %w", err)
	}
	return FromHull(hull)
}

// FromHull fits a box to an exported hull.
func FromHull(h *quickhull.Hull) (OBB, error) {
	cov, err := surfaceCovariance(h)
	if err != nil {
		return OBB{}, err
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return OBB{}, fmt.Errorf("obb: eigen decomposition did not converge")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	var box OBB
	for i := 0; i < 3; i++ {
		axis := mgl64.Vec3{vectors.At(0, i), vectors.At(1, i), vectors.At(2, i)}
		box.Axes[i] = axis.Normalize()
	}
	box.Axes[2] = box.Axes[0].Cross(box.Axes[1]).Normalize()

	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range h.Vertices {
		for i := 0; i < 3; i++ {
			d := v.Dot(box.Axes[i])
			lo[i] = math.Min(lo[i], d)
			hi[i] = math.Max(hi[i], d)
		}
	}

	for i := 0; i < 3; i++ {
		box.HalfExtents[i] = (hi[i] - lo[i]) / 2
		box.Center = box.Center.Add(box.Axes[i].Mul((hi[i] + lo[i]) / 2))
	}

	return box, nil
}

// surfaceCovariance returns the 3x3 covariance of the hull surface, each
// triangle contributing
//
//	A/12 * (9 m mᵀ + p pᵀ + q qᵀ + r rᵀ)
//
// with A its area and m its centroid, normalised by the total area and
// centered on the surface centroid.
func surfaceCovariance(h *quickhull.Hull) (*mat.SymDense, error) {
	var sum [3][3]float64
	var center mgl64.Vec3
	totalArea := 0.0

	for f := range h.Facets {
		tri := h.Triangle(f)
		area := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len() / 2
		m := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3)

		totalArea += area
		center = center.Add(m.Mul(area))
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				sum[i][j] += area / 12 * (9*m[i]*m[j] +
					tri[0][i]*tri[0][j] + tri[1][i]*tri[1][j] + tri[2][i]*tri[2][j])
			}
		}
	}
	if totalArea <= 0 {
		return nil, ErrEmptyHull
	}
	center = center.Mul(1.0 / totalArea)

	cov := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			cov.SetSym(i, j, sum[i][j]/totalArea-center[i]*center[j])
		}
	}
	return cov, nil
}

// Volume returns the box volume.
func (b OBB) Volume() float64 {
	return 8 * b.HalfExtents[0] * b.HalfExtents[1] * b.HalfExtents[2]
}

// Contains reports whether point is inside the box or within eps of it.
func (b OBB) Contains(point mgl64.Vec3, eps float64) bool {
	local := point.Sub(b.Center)
	for i := 0; i < 3; i++ {
		if math.Abs(local.Dot(b.Axes[i])) > b.HalfExtents[i]+eps {
			return false
		}
	}
	return true
}

// Corners returns the 8 box corners. Corner k takes the positive extent along
// axis i when bit i of k is set.
func (b OBB) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for k := 0; k < 8; k++ {
		c := b.Center
		for i := 0; i < 3; i++ {
			offset := b.Axes[i].Mul(b.HalfExtents[i])
			if k&(1<<i) != 0 {
				c = c.Add(offset)
			} else {
				c = c.Sub(offset)
			}
		}
		corners[k] = c
	}
	return corners
}
