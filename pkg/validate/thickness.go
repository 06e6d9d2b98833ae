package validate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/hotelgen/pkg/kernel"
)

const rayEpsilon = 1e-6

// wallThickness probes up to samples triangles spread evenly over the
// mesh. From each centroid a ray is cast inward along the face normal and
// the distance to the nearest opposite surface is the local thickness.
func wallThickness(m *kernel.Mesh, samples int, minWall float64) (thin, probed int, thinnest float64) {
	n := m.TriangleCount()
	if n == 0 || samples <= 0 {
		return 0, 0, 0
	}
	thinnest = math.Inf(1)
	stride := max(1, n/samples)
	for t := stride / 2; t < n && probed < samples; t += stride {
		tri := m.Triangle(t)
		a, b, c := vec(tri[0]), vec(tri[1]), vec(tri[2])
		normal := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		l := r3.Norm(normal)
		if l < 1e-12 {
			continue
		}
		dir := r3.Scale(-1/l, normal)
		origin := r3.Scale(1.0/3, r3.Add(a, r3.Add(b, c)))

		d, ok := nearestHit(m, t, origin, dir)
		if !ok {
			continue
		}
		probed++
		thinnest = math.Min(thinnest, d)
		if d < minWall {
			thin++
		}
	}
	if probed == 0 {
		thinnest = 0
	}
	return thin, probed, thinnest
}

// nearestHit returns the distance along dir to the closest triangle other
// than skip.
func nearestHit(m *kernel.Mesh, skip int, origin, dir r3.Vec) (float64, bool) {
	best, found := math.Inf(1), false
	for t := 0; t < m.TriangleCount(); t++ {
		if t == skip {
			continue
		}
		tri := m.Triangle(t)
		if d, ok := intersect(origin, dir, vec(tri[0]), vec(tri[1]), vec(tri[2])); ok && d < best {
			best, found = d, true
		}
	}
	return best, found
}

// intersect is the Möller-Trumbore ray/triangle test.
func intersect(origin, dir, a, b, c r3.Vec) (float64, bool) {
	e1, e2 := r3.Sub(b, a), r3.Sub(c, a)
	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	inv := 1 / det
	s := r3.Sub(origin, a)
	u := r3.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	d := r3.Dot(e2, q) * inv
	if d <= rayEpsilon {
		return 0, false
	}
	return d, true
}
