package kernel

import "testing"

// unitTriangle is a single right triangle in the XY plane at z=1.
func unitTriangle() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 1, 2, 0, 1, 0, 3, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	var nilMesh *Mesh
	if !nilMesh.IsEmpty() {
		t.Error("nil mesh should be empty")
	}
	if !(&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("mesh without triangles should be empty")
	}
	if unitTriangle().IsEmpty() {
		t.Error("mesh with a triangle should not be empty")
	}
}

func TestMeshBounds(t *testing.T) {
	min, max := unitTriangle().Bounds()
	if min != [3]float64{0, 0, 1} {
		t.Errorf("min = %v, want [0 0 1]", min)
	}
	if max != [3]float64{2, 3, 1} {
		t.Errorf("max = %v, want [2 3 1]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float64{}) || max != ([3]float64{}) {
		t.Errorf("empty bounds = %v %v, want zero", min, max)
	}
}

func TestMeshTranslate(t *testing.T) {
	m := unitTriangle()
	m.Translate(1, -1, -1)
	tri := m.Triangle(0)
	want := [3][3]float64{{1, -1, 0}, {3, -1, 0}, {1, 2, 0}}
	if tri != want {
		t.Errorf("Triangle(0) = %v, want %v", tri, want)
	}
}

func TestAxisString(t *testing.T) {
	for axis, want := range map[Axis]string{AxisX: "x", AxisY: "y", AxisZ: "z", Axis(9): "?"} {
		if got := axis.String(); got != want {
			t.Errorf("Axis(%d).String() = %q, want %q", axis, got, want)
		}
	}
}

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, 0},
		maxBB: [3]float64{x / 2, y / 2, z},
	}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}
}

func (k *stubKernel) Cone(height, r0, _ float64, segments int) Solid {
	return k.Cylinder(height, r0, segments)
}
func (k *stubKernel) Extrude(_ Profile2D, height float64) Solid { return k.Box(1, 1, height) }
func (k *stubKernel) Revolve(_ Profile2D, _ int, _ float64) Solid {
	return k.Box(1, 1, 1)
}

func (k *stubKernel) Union(solids ...Solid) Solid                  { return solids[0] }
func (k *stubKernel) Difference(a, _ Solid) Solid                  { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid                { return a }
func (k *stubKernel) HalfSpace(s Solid, _, _ [3]float64) Solid     { return s }
func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid     { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid        { return s }
func (k *stubKernel) Scale(s Solid, _ [3]float64) Solid            { return s }
func (k *stubKernel) Mirror(s Solid, _ Axis) Solid                 { return s }
func (k *stubKernel) IsEmpty(_ Solid) bool                         { return false }
func (k *stubKernel) Volume(_ Solid) (float64, error)              { return 1, nil }
func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error)                { return &Mesh{}, nil }

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -10, 0} {
		t.Errorf("Box min = %v, want [-5 -10 0]", min)
	}
	if max != [3]float64{5, 10, 30} {
		t.Errorf("Box max = %v, want [5 10 30]", max)
	}
}

// tetra is a right tetrahedron with legs of length 1, wound outward.
func tetra() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		Indices:  []uint32{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3},
	}
}

func TestMeshSignedVolume(t *testing.T) {
	m := tetra()
	got := m.SignedVolume()
	if diff := got - 1.0/6.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("SignedVolume() = %f, want 1/6", got)
	}
	m.FlipWinding()
	if got := m.SignedVolume(); got >= 0 {
		t.Fatalf("SignedVolume() after flip = %f, want negative", got)
	}
}

func TestMeshClone(t *testing.T) {
	m := tetra()
	m.PartName = "tetra"
	c := m.Clone()
	c.Translate(5, 0, 0)
	if m.Vertex(1) != [3]float64{1, 0, 0} {
		t.Errorf("translating the clone moved the original: %v", m.Vertex(1))
	}
	if c.PartName != "tetra" || c.TriangleCount() != 4 {
		t.Errorf("clone = %q with %d triangles", c.PartName, c.TriangleCount())
	}
	var nilMesh *Mesh
	if nilMesh.Clone() != nil {
		t.Error("Clone of nil mesh should be nil")
	}
}
