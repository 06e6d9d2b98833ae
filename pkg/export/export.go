// Package export serializes meshes to printable interchange formats and
// writes build artifacts to disk.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/hpinc/go3mf"
	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/tessellate"
)

// checkFinite rejects meshes that would produce unreadable files.
func checkFinite(m *kernel.Mesh) error {
	if m.IsEmpty() {
		return fmt.Errorf("export: empty mesh")
	}
	for i, v := range m.Vertices {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("export: vertex %d is not finite", i/3)
		}
	}
	return nil
}

func toSTL(m *kernel.Mesh, name string) *stl.Solid {
	s := &stl.Solid{
		Name:      name,
		Triangles: make([]stl.Triangle, m.TriangleCount()),
	}
	for t := range s.Triangles {
		c := m.Triangle(t)
		a, b, d := r3.Vec{X: c[0][0], Y: c[0][1], Z: c[0][2]}, r3.Vec{X: c[1][0], Y: c[1][1], Z: c[1][2]}, r3.Vec{X: c[2][0], Y: c[2][1], Z: c[2][2]}
		n := r3.Cross(r3.Sub(b, a), r3.Sub(d, a))
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		tri := &s.Triangles[t]
		tri.Normal = stl.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}
		for k := 0; k < 3; k++ {
			tri.Vertices[k] = stl.Vec3{float32(c[k][0]), float32(c[k][1]), float32(c[k][2])}
		}
	}
	return s
}

// WriteSTL writes m as binary STL.
func WriteSTL(w io.Writer, m *kernel.Mesh) error {
	if err := checkFinite(m); err != nil {
		return err
	}
	if err := toSTL(m, m.PartName).WriteAll(w); err != nil {
		return fmt.Errorf("export: stl: %w", err)
	}
	return nil
}

// STL returns m as binary STL bytes.
func STL(m *kernel.Mesh) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadSTL parses ASCII or binary STL into a welded mesh. Readers that
// cannot seek are buffered first.
func ReadSTL(r io.Reader) (*kernel.Mesh, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("export: read stl: %w", err)
		}
		rs = bytes.NewReader(data)
	}
	s, err := stl.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("export: read stl: %w", err)
	}
	soup := &kernel.Mesh{
		Vertices: make([]float32, 0, len(s.Triangles)*9),
		Indices:  make([]uint32, 0, len(s.Triangles)*3),
		PartName: s.Name,
	}
	for _, t := range s.Triangles {
		for _, v := range t.Vertices {
			soup.Indices = append(soup.Indices, uint32(len(soup.Vertices)/3))
			soup.Vertices = append(soup.Vertices, v[0], v[1], v[2])
		}
	}
	return tessellate.Weld(soup, tessellate.DefaultTolerance), nil
}

// ThreeMF writes m as a single-object 3MF package in millimetres.
func ThreeMF(w io.Writer, m *kernel.Mesh) error {
	if err := checkFinite(m); err != nil {
		return err
	}
	mesh := new(go3mf.Mesh)
	mesh.Vertices.Vertex = make([]go3mf.Point3D, 0, m.VertexCount())
	for i := 0; i < len(m.Vertices); i += 3 {
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]})
	}
	mesh.Triangles.Triangle = make([]go3mf.Triangle, 0, m.TriangleCount())
	for i := 0; i < len(m.Indices); i += 3 {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: m.Indices[i], V2: m.Indices[i+1], V3: m.Indices[i+2],
		})
	}

	model := new(go3mf.Model)
	model.Units = go3mf.UnitMillimeter
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{ID: 1, Name: m.PartName, Mesh: mesh})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})
	if err := go3mf.NewEncoder(w).Encode(model); err != nil {
		return fmt.Errorf("export: 3mf: %w", err)
	}
	return nil
}
