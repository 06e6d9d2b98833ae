// Package simplify reduces a mesh to a triangle budget with quadric edge
// collapse.
package simplify

import (
	"fmt"

	fsimplify "github.com/fogleman/simplify"

	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/tessellate"
)

// headroom aims slightly under the budget; edge collapse overshoots the
// target by a few faces.
const headroom = 0.97

// ToBudget returns m reduced to at most maxTriangles, welded. A mesh
// already within budget is returned unchanged.
func ToBudget(m *kernel.Mesh, maxTriangles int) (*kernel.Mesh, error) {
	if maxTriangles <= 0 {
		return nil, fmt.Errorf("simplify: budget must be positive, got %d", maxTriangles)
	}
	if m.IsEmpty() || m.TriangleCount() <= maxTriangles {
		return m, nil
	}
	factor := float64(maxTriangles) / float64(m.TriangleCount()) * headroom
	out := fromSimplify(toSimplify(m).Simplify(factor), m.PartName)
	if out.IsEmpty() {
		return nil, fmt.Errorf("simplify: %d triangles collapsed to nothing", m.TriangleCount())
	}
	return out, nil
}

func toSimplify(m *kernel.Mesh) *fsimplify.Mesh {
	tris := make([]*fsimplify.Triangle, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		tris = append(tris, fsimplify.NewTriangle(vector(tri[0]), vector(tri[1]), vector(tri[2])))
	}
	return fsimplify.NewMesh(tris)
}

func vector(p [3]float64) fsimplify.Vector {
	return fsimplify.Vector{X: p[0], Y: p[1], Z: p[2]}
}

func fromSimplify(sm *fsimplify.Mesh, name string) *kernel.Mesh {
	soup := &kernel.Mesh{
		Vertices: make([]float32, 0, len(sm.Triangles)*9),
		Indices:  make([]uint32, 0, len(sm.Triangles)*3),
		PartName: name,
	}
	for _, t := range sm.Triangles {
		for _, v := range []fsimplify.Vector{t.V1, t.V2, t.V3} {
			soup.Indices = append(soup.Indices, uint32(len(soup.Vertices)/3))
			soup.Vertices = append(soup.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return tessellate.Weld(soup, tessellate.DefaultTolerance)
}
