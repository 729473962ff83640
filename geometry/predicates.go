package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ApproxEqual reports whether every coordinate of a and b differs by at most eps.
func ApproxEqual(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps &&
		math.Abs(a[1]-b[1]) <= eps &&
		math.Abs(a[2]-b[2]) <= eps
}

// CompareVec3 orders vectors lexicographically (x, then y, then z).
func CompareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// DistanceToLine returns the distance from p to the infinite line through a
// and b. When a and b coincide it degrades to the distance from p to a.
func DistanceToLine(p, a, b mgl64.Vec3) float64 {
	dir := b.Sub(a)
	length := dir.Len()
	if length < degenerateNormalLength {
		return p.Sub(a).Len()
	}

	return dir.Cross(p.Sub(a)).Len() / length
}

// Collinear reports whether p2 lies within eps of the line through p0 and p1.
// Two coincident points p0, p1 make any third point collinear.
func Collinear(p0, p1, p2 mgl64.Vec3, eps float64) bool {
	if ApproxEqual(p0, p1, eps) {
		return true
	}
	return DistanceToLine(p2, p0, p1) <= eps
}

// Coplanar reports whether p3 lies within eps of the plane through p0, p1, p2.
// A degenerate base triangle makes the four points coplanar.
func Coplanar(p0, p1, p2, p3 mgl64.Vec3, eps float64) bool {
	plane, ok := NewPlane(p0, p1, p2)
	if !ok {
		return true
	}
	return math.Abs(plane.Distance(p3)) <= eps
}

// IsFinite reports whether all coordinates are finite numbers.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// MaxAbsCoordinate returns the largest absolute coordinate found in points,
// or 0 for an empty slice.
func MaxAbsCoordinate(points []mgl64.Vec3) float64 {
	m := 0.0
	for _, p := range points {
		m = math.Max(m, math.Max(math.Abs(p[0]), math.Max(math.Abs(p[1]), math.Abs(p[2]))))
	}
	return m
}
