// Package tessellate turns kernel solids into indexed triangle meshes.
// Kernels built on marching cubes emit one vertex per triangle corner;
// tessellation welds coincident corners so that shared edges exist in the
// index buffer, which the checker and the exporters rely on. One mesh is
// produced per part.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/hotelgen/pkg/kernel"
)

// DefaultTolerance is the weld distance in millimetres.
const DefaultTolerance = 1e-4

// Part is a named solid with an optional placement. Rotation is applied
// before Translation.
type Part struct {
	Name        string
	Solid       kernel.Solid
	Rotation    [3]float64 // Euler degrees
	Translation [3]float64
}

// Tessellate meshes every part with the given kernel and welds the result.
// It never mutates the solids or the kernel's cached meshes.
func Tessellate(k kernel.Kernel, parts []Part) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for i, p := range parts {
		m, err := tessellatePart(k, p)
		if err != nil {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("tessellate: part %s: %w", name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Solid meshes a single unplaced solid.
func Solid(k kernel.Kernel, s kernel.Solid, name string) (*kernel.Mesh, error) {
	meshes, err := Tessellate(k, []Part{{Name: name, Solid: s}})
	if err != nil {
		return nil, err
	}
	return meshes[0], nil
}

func tessellatePart(k kernel.Kernel, p Part) (*kernel.Mesh, error) {
	if p.Solid == nil {
		return nil, errors.New("no solid")
	}
	s := p.Solid
	if r := p.Rotation; r != ([3]float64{}) {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if t := p.Translation; t != ([3]float64{}) {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	raw, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	m := Weld(raw, DefaultTolerance)
	m.PartName = p.Name
	return m, nil
}

type weldKey [3]int64

// Weld merges vertices closer than tol (snapped to a tol grid) and drops
// triangles that collapse as a result. The input is left untouched. The
// returned mesh carries area-weighted vertex normals.
func Weld(m *kernel.Mesh, tol float64) *kernel.Mesh {
	out := &kernel.Mesh{}
	if m == nil {
		return out
	}
	out.PartName = m.PartName
	if m.IsEmpty() {
		return out
	}
	if !(tol > 0) {
		tol = DefaultTolerance
	}

	index := make(map[weldKey]uint32, m.VertexCount()/4+1)
	remap := make([]uint32, m.VertexCount())
	for i := range remap {
		v := m.Vertex(uint32(i))
		key := weldKey{
			int64(math.Round(v[0] / tol)),
			int64(math.Round(v[1] / tol)),
			int64(math.Round(v[2] / tol)),
		}
		id, ok := index[key]
		if !ok {
			id = uint32(len(out.Vertices) / 3)
			index[key] = id
			out.Vertices = append(out.Vertices, m.Vertices[3*i:3*i+3]...)
		}
		remap[i] = id
	}

	out.Indices = make([]uint32, 0, len(m.Indices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := remap[m.Indices[t]], remap[m.Indices[t+1]], remap[m.Indices[t+2]]
		if a == b || b == c || a == c {
			continue
		}
		out.Indices = append(out.Indices, a, b, c)
	}
	out.Normals = VertexNormals(out)
	return out
}

// VertexNormals returns unit normals per vertex, averaged over the adjacent
// triangles weighted by their area. Unreferenced vertices get zero normals.
func VertexNormals(m *kernel.Mesh) []float32 {
	acc := make([]r3.Vec, m.VertexCount())
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a, b, c := vec(tri[0]), vec(tri[1]), vec(tri[2])
		// The cross product's length is twice the area.
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		for j := 0; j < 3; j++ {
			i := m.Indices[3*t+j]
			acc[i] = r3.Add(acc[i], n)
		}
	}
	out := make([]float32, 0, 3*len(acc))
	for _, n := range acc {
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		out = append(out, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}

// Merge concatenates meshes into one, offsetting indices. Normals are kept
// only when every input has one normal per vertex.
func Merge(name string, meshes ...*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{PartName: name}
	keepNormals := true
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if len(m.Normals) != len(m.Vertices) {
			keepNormals = false
		}
		offset := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
	}
	if !keepNormals {
		out.Normals = nil
	}
	return out
}

func vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}
