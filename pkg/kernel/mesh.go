package kernel

import "math"

// Mesh is an indexed triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Normals may be empty for meshes that were welded or simplified.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // building or plate this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Vertex returns vertex i as float64 coordinates.
func (m *Mesh) Vertex(i uint32) [3]float64 {
	j := int(i) * 3
	return [3]float64{float64(m.Vertices[j]), float64(m.Vertices[j+1]), float64(m.Vertices[j+2])}
}

// Triangle returns the three corners of triangle t.
func (m *Mesh) Triangle(t int) [3][3]float64 {
	j := t * 3
	return [3][3]float64{
		m.Vertex(m.Indices[j]),
		m.Vertex(m.Indices[j+1]),
		m.Vertex(m.Indices[j+2]),
	}
}

// Bounds returns the axis-aligned bounds of the vertices referenced by the
// mesh. An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for a := 0; a < 3; a++ {
		min[a] = math.Inf(1)
		max[a] = math.Inf(-1)
	}
	for _, idx := range m.Indices {
		v := m.Vertex(idx)
		for a := 0; a < 3; a++ {
			min[a] = math.Min(min[a], v[a])
			max[a] = math.Max(max[a], v[a])
		}
	}
	return min, max
}

// Translate shifts every vertex in place.
func (m *Mesh) Translate(x, y, z float64) {
	d := [3]float32{float32(x), float32(y), float32(z)}
	for i := range m.Vertices {
		m.Vertices[i] += d[i%3]
	}
}

// SignedVolume returns the volume enclosed by the mesh using the divergence
// theorem. It is positive when triangles are wound counter-clockwise seen
// from outside.
func (m *Mesh) SignedVolume() float64 {
	var vol float64
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a, b, c := tri[0], tri[1], tri[2]
		// a . (b x c)
		vol += a[0]*(b[1]*c[2]-b[2]*c[1]) -
			a[1]*(b[0]*c[2]-b[2]*c[0]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return vol / 6
}

// FlipWinding reverses the orientation of every triangle and negates the
// normals.
func (m *Mesh) FlipWinding() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}
	for i := range m.Normals {
		m.Normals[i] = -m.Normals[i]
	}
}

// Clone returns a deep copy. Kernels may cache meshes, so callers that
// transform a mesh in place clone it first.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
	}
}
