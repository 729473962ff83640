package quickhull

import (
	"fmt"
	"math"
	"slices"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Triangle returns the three corner positions of facet i.
func (h *Hull) Triangle(i int) [3]mgl64.Vec3 {
	f := h.Facets[i]
	return [3]mgl64.Vec3{h.Vertices[f.Vertices[0]], h.Vertices[f.Vertices[1]], h.Vertices[f.Vertices[2]]}
}

// Plane returns the outward oriented plane of facet i.
func (h *Hull) Plane(i int) geometry.Plane {
	t := h.Triangle(i)
	plane, _ := geometry.NewPlane(t[0], t[1], t[2])
	return plane
}

// Normal returns the outward unit normal of facet i.
func (h *Hull) Normal(i int) mgl64.Vec3 {
	return h.Plane(i).Normal
}

// Edges returns the number of hull edges. Every edge is shared by two facets.
func (h *Hull) Edges() int {
	return len(h.Facets) * 3 / 2
}

// SurfaceArea returns the total area of the facets.
func (h *Hull) SurfaceArea() float64 {
	area := 0.0
	for i := range h.Facets {
		t := h.Triangle(i)
		area += t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len() / 2
	}
	return area
}

// reference is an interior point used to split the hull into tetrahedra.
func (h *Hull) reference() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range h.Vertices {
		sum = sum.Add(v)
	}
	if len(h.Vertices) == 0 {
		return sum
	}
	return sum.Mul(1.0 / float64(len(h.Vertices)))
}

// Volume returns the enclosed volume.
func (h *Hull) Volume() float64 {
	r := h.reference()
	volume := 0.0
	for i := range h.Facets {
		t := h.Triangle(i)
		a, b, c := t[0].Sub(r), t[1].Sub(r), t[2].Sub(r)
		volume += a.Dot(b.Cross(c)) / 6
	}
	return volume
}

// Centroid returns the center of mass of the solid hull (uniform density).
func (h *Hull) Centroid() mgl64.Vec3 {
	r := h.reference()
	var weighted mgl64.Vec3
	volume := 0.0
	for i := range h.Facets {
		t := h.Triangle(i)
		a, b, c := t[0].Sub(r), t[1].Sub(r), t[2].Sub(r)
		v := a.Dot(b.Cross(c)) / 6
		volume += v
		weighted = weighted.Add(a.Add(b).Add(c).Mul(v / 4))
	}
	if volume == 0 {
		return r
	}
	return r.Add(weighted.Mul(1.0 / volume))
}

// Contains reports whether point is inside the hull or within eps of its boundary.
func (h *Hull) Contains(point mgl64.Vec3, eps float64) bool {
	for i := range h.Facets {
		if h.Plane(i).IsAbove(point, eps) {
			return false
		}
	}
	return true
}

// Support returns the hull vertex furthest along direction.
func (h *Hull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best, bestDot := mgl64.Vec3{}, math.Inf(-1)
	for _, v := range h.Vertices {
		if d := v.Dot(direction); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

// Face is a planar polygon of the hull made of one or more coplanar facets.
// Vertices are hull vertex indices sorted counter-clockwise around Normal.
type Face struct {
	Vertices []int
	Facets   []int
	Normal   mgl64.Vec3
}

// Faces merges adjacent facets lying within eps of a common plane into
// polygons. A unit cube gives 6 faces of 4 vertices.
func (h *Hull) Faces(eps float64) []Face {
	faceOf := make([]int, len(h.Facets))
	for i := range faceOf {
		faceOf[i] = -1
	}

	var faces []Face
	for seed := range h.Facets {
		if faceOf[seed] >= 0 {
			continue
		}
		plane := h.Plane(seed)
		face := Face{Normal: plane.Normal}
		faceOf[seed] = len(faces)
		queue := []int{seed}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			face.Facets = append(face.Facets, current)
			for _, n := range h.Facets[current].Neighbors {
				if faceOf[n] >= 0 || !h.coplanarWith(n, plane, eps) {
					continue
				}
				faceOf[n] = len(faces)
				queue = append(queue, n)
			}
		}
		face.Vertices = h.sortedFaceVertices(face.Facets, plane.Normal)
		faces = append(faces, face)
	}
	return faces
}

func (h *Hull) coplanarWith(facet int, plane geometry.Plane, eps float64) bool {
	if h.Normal(facet).Dot(plane.Normal) <= 0 {
		return false
	}
	for _, v := range h.Facets[facet].Vertices {
		if math.Abs(plane.Distance(h.Vertices[v])) > eps {
			return false
		}
	}
	return true
}

// sortedFaceVertices collects the distinct vertices of facets and orders them
// by angle around their centroid in the plane of normal.
func (h *Hull) sortedFaceVertices(facets []int, normal mgl64.Vec3) []int {
	var vertices []int
	for _, f := range facets {
		for _, v := range h.Facets[f].Vertices {
			if !slices.Contains(vertices, v) {
				vertices = append(vertices, v)
			}
		}
	}

	var pivot mgl64.Vec3
	for _, v := range vertices {
		pivot = pivot.Add(h.Vertices[v])
	}
	pivot = pivot.Mul(1.0 / float64(len(vertices)))

	u := h.Vertices[vertices[0]].Sub(pivot).Normalize()
	w := normal.Cross(u)
	angle := func(v int) float64 {
		d := h.Vertices[v].Sub(pivot)
		return math.Atan2(d.Dot(w), d.Dot(u))
	}
	slices.SortStableFunc(vertices, func(a, b int) int {
		return compareFloat(angle(a), angle(b))
	})
	return vertices
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Validate checks that the hull is a closed, consistently oriented convex
// triangulation: every index in range, neighbor links symmetric across
// reversed edges, V - E + F = 2, and every vertex within eps below every facet.
func (h *Hull) Validate(eps float64) error {
	if len(h.Vertices) < 4 || len(h.Facets) < 4 {
		return fmt.Errorf("%w: %d vertices, %d facets", ErrInvalidHull, len(h.Vertices), len(h.Facets))
	}
	if len(h.Facets)%2 != 0 {
		return fmt.Errorf("%w: odd facet count %d", ErrInvalidHull, len(h.Facets))
	}

	used := make([]bool, len(h.Vertices))
	for i, f := range h.Facets {
		for k := 0; k < 3; k++ {
			v, n := f.Vertices[k], f.Neighbors[k]
			if v < 0 || v >= len(h.Vertices) {
				return fmt.Errorf("%w: facet %d vertex %d out of range", ErrInvalidHull, i, v)
			}
			if n < 0 || n >= len(h.Facets) || n == i {
				return fmt.Errorf("%w: facet %d neighbor %d out of range", ErrInvalidHull, i, n)
			}
			used[v] = true
		}
		for k := 0; k < 3; k++ {
			a, b := f.Vertices[k], f.Vertices[(k+1)%3]
			other := h.Facets[f.Neighbors[k]]
			if !hasBackLink(other, b, a, i) {
				return fmt.Errorf("%w: facet %d edge %d->%d has no matching edge in facet %d",
					ErrInvalidHull, i, a, b, f.Neighbors[k])
			}
		}
	}
	for v, ok := range used {
		if !ok {
			return fmt.Errorf("%w: vertex %d is not referenced", ErrInvalidHull, v)
		}
	}

	if euler := len(h.Vertices) - h.Edges() + len(h.Facets); euler != 2 {
		return fmt.Errorf("%w: V - E + F = %d", ErrInvalidHull, euler)
	}

	for i := range h.Facets {
		plane := h.Plane(i)
		for v, p := range h.Vertices {
			if plane.IsAbove(p, eps) {
				return fmt.Errorf("%w: vertex %d is %g above facet %d",
					ErrInvalidHull, v, plane.Distance(p), i)
			}
		}
	}

	return nil
}

// hasBackLink reports whether f holds the edge a->b with neighbor want across it.
func hasBackLink(f Facet, a, b, want int) bool {
	for k := 0; k < 3; k++ {
		if f.Vertices[k] == a && f.Vertices[(k+1)%3] == b {
			return f.Neighbors[k] == want
		}
	}
	return false
}
