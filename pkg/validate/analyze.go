package validate

import (
	"math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/hotelgen/pkg/kernel"
)

// Analysis is the topology and size summary of a welded mesh.
type Analysis struct {
	Triangles int `json:"triangles"`
	Vertices  int `json:"vertices"`

	// Edges used by one triangle only.
	BoundaryEdges int `json:"boundary_edges"`
	// Edges shared by more than two triangles.
	NonManifoldEdges int `json:"non_manifold_edges"`
	// Edges whose two triangles traverse them in the same direction, so
	// the neighbours disagree about which side is outside.
	MisorientedEdges int `json:"misoriented_edges"`

	Degenerate int `json:"degenerate"`
	NonFinite  int `json:"non_finite"`
	Components int `json:"components"`

	Volume float64    `json:"volume"`
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
}

// Watertight reports whether every edge is shared by exactly two triangles.
func (a Analysis) Watertight() bool {
	return a.Triangles > 0 && a.BoundaryEdges == 0 && a.NonManifoldEdges == 0
}

// Size returns the bounding box extents.
func (a Analysis) Size() [3]float64 {
	return [3]float64{a.Max[0] - a.Min[0], a.Max[1] - a.Min[1], a.Max[2] - a.Min[2]}
}

type edgeKey struct{ lo, hi uint32 }

type edgeUse struct {
	forward, backward int
}

// Analyze summarizes m. Triangles with an area below degenerateArea are
// counted as degenerate. The mesh must be welded for the edge counts to
// mean anything.
func Analyze(m *kernel.Mesh, degenerateArea float64) Analysis {
	var a Analysis
	if m.IsEmpty() {
		return a
	}
	a.Triangles = m.TriangleCount()
	a.Vertices = m.VertexCount()
	a.Min, a.Max = m.Bounds()
	a.Volume = m.SignedVolume()

	for _, f := range m.Vertices {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			a.NonFinite++
		}
	}

	edges := make(map[edgeKey]*edgeUse, a.Triangles*3/2)
	uf := newUnionFind(a.Vertices)
	for t := 0; t < a.Triangles; t++ {
		idx := m.Indices[3*t : 3*t+3]
		for j := 0; j < 3; j++ {
			from, to := idx[j], idx[(j+1)%3]
			key := edgeKey{from, to}
			if from > to {
				key = edgeKey{to, from}
			}
			e, ok := edges[key]
			if !ok {
				e = &edgeUse{}
				edges[key] = e
			}
			if from < to {
				e.forward++
			} else {
				e.backward++
			}
		}
		uf.union(idx[0], idx[1])
		uf.union(idx[1], idx[2])

		if triangleArea(m.Triangle(t)) < degenerateArea {
			a.Degenerate++
		}
	}

	for _, e := range edges {
		switch n := e.forward + e.backward; {
		case n == 1:
			a.BoundaryEdges++
		case n > 2:
			a.NonManifoldEdges++
		case e.forward != 1:
			a.MisorientedEdges++
		}
	}

	roots := make(map[uint32]struct{})
	for _, i := range m.Indices {
		roots[uf.find(i)] = struct{}{}
	}
	a.Components = len(roots)
	return a
}

func vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func triangleArea(tri [3][3]float64) float64 {
	a, b, c := vec(tri[0]), vec(tri[1]), vec(tri[2])
	area := r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
	if math.IsNaN(area) {
		return 0
	}
	return area
}

// unionFind groups vertex indices into connected sets.
type unionFind struct {
	parent []uint32
	rank   []uint8
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]uint32, n), rank: make([]uint8, n)}
	for i := range uf.parent {
		uf.parent[i] = uint32(i)
	}
	return uf
}

func (uf *unionFind) find(i uint32) uint32 {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b uint32) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
