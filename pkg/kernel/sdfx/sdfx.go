// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Signed distance fields have no facet count, so segment arguments are
// accepted for interface compatibility and ignored. Mesh resolution is
// controlled by the kernel's cell size instead, and every scalar query
// (emptiness, volume) is answered from the same marching-cubes mesh that
// ToMesh returns.
package sdfx

import (
	"fmt"
	"math"
	"sync"

	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*SdfxKernel)(nil)
var _ kernel.Solid = (*sdfxSolid)(nil)

const (
	// DefaultCellSize is the marching cubes cell edge in millimetres.
	DefaultCellSize = 0.25
	defaultMinCells = 24
	defaultMaxCells = 400
	// probeCells is the per-axis sample count of the cheap interior probe
	// run before falling back to a full mesh for emptiness.
	probeCells = 12
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. The mesh is
// computed at most once since solids are immutable.
type sdfxSolid struct {
	s sdf.SDF3

	once    sync.Once
	mesh    *kernel.Mesh
	meshErr error
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithCellSize sets the marching cubes cell edge length in millimetres.
func WithCellSize(mm float64) Option {
	return func(k *SdfxKernel) {
		if mm > 0 {
			k.cellSize = mm
		}
	}
}

// WithCellLimits bounds the number of cells along the longest axis.
func WithCellLimits(min, max int) Option {
	return func(k *SdfxKernel) {
		if min > 0 && max >= min {
			k.minCells, k.maxCells = min, max
		}
	}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cellSize           float64
	minCells, maxCells int
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{
		cellSize: DefaultCellSize,
		minCells: defaultMinCells,
		maxCells: defaultMaxCells,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// CellSize returns the configured marching cubes cell edge.
func (k *SdfxKernel) CellSize() float64 {
	return k.cellSize
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// lift moves a z-centered sdfx solid so its base sits on z=0.
func lift(s sdf.SDF3, height float64) kernel.Solid {
	return wrap(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2})))
}

// Box creates a box centered on X/Y with its base at z=0.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return lift(s, z)
}

// Cylinder creates a Z-axis cylinder with its base at z=0.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return lift(s, height)
}

// Cone creates a truncated cone from radius r0 at z=0 to r1 at z=height.
// r1 may be zero for a pointed cone.
func (k *SdfxKernel) Cone(height, r0, r1 float64, segments int) kernel.Solid {
	profile := kernel.Profile2D{{0, 0}, {r0, 0}, {r1, height}, {0, height}}
	if r1 == 0 {
		profile = kernel.Profile2D{{0, 0}, {r0, 0}, {0, height}}
	}
	return k.Revolve(profile, segments, 360)
}

func polygon(profile kernel.Profile2D) sdf.SDF2 {
	pts := make([]v2.Vec, len(profile))
	for i, p := range profile {
		pts[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Polygon2D: %v", err))
	}
	return s
}

// Extrude sweeps an XY polygon from z=0 to z=height.
func (k *SdfxKernel) Extrude(profile kernel.Profile2D, height float64) kernel.Solid {
	return lift(sdf.Extrude3D(polygon(profile), height), height)
}

// Revolve sweeps a (radius, z) polygon about the Z axis, starting at +X.
func (k *SdfxKernel) Revolve(profile kernel.Profile2D, segments int, degrees float64) kernel.Solid {
	var (
		s   sdf.SDF3
		err error
	)
	if degrees >= 360 {
		s, err = sdf.Revolve3D(polygon(profile))
	} else {
		s, err = sdf.RevolveTheta3D(polygon(profile), degrees*math.Pi/180.0)
	}
	if err != nil {
		panic(fmt.Sprintf("sdfx.Revolve3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of all solids.
func (k *SdfxKernel) Union(solids ...kernel.Solid) kernel.Solid {
	if len(solids) == 1 {
		return solids[0]
	}
	list := make([]sdf.SDF3, len(solids))
	for i, s := range solids {
		list[i] = unwrap(s)
	}
	return wrap(sdf.Union3D(list...))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// HalfSpace keeps the part of s on the side of the plane the normal points to.
func (k *SdfxKernel) HalfSpace(s kernel.Solid, point, normal [3]float64) kernel.Solid {
	a := v3.Vec{X: point[0], Y: point[1], Z: point[2]}
	n := v3.Vec{X: normal[0], Y: normal[1], Z: normal[2]}
	return wrap(sdf.Cut3D(unwrap(s), a, n))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid per axis about the origin.
func (k *SdfxKernel) Scale(s kernel.Solid, v [3]float64) kernel.Solid {
	m := sdf.Scale3d(v3.Vec{X: v[0], Y: v[1], Z: v[2]})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Mirror reflects a solid across the plane through the origin normal to axis.
func (k *SdfxKernel) Mirror(s kernel.Solid, axis kernel.Axis) kernel.Solid {
	v := [3]float64{1, 1, 1}
	v[axis] = -1
	return k.Scale(s, v)
}

// IsEmpty reports whether the solid encloses no meshable volume.
// A coarse interior probe answers the common non-empty case without
// meshing.
func (k *SdfxKernel) IsEmpty(s kernel.Solid) bool {
	if hasInterior(unwrap(s), probeCells) {
		return false
	}
	m, err := k.ToMesh(s)
	return err != nil || m.IsEmpty()
}

// Volume returns the enclosed volume of the meshed solid.
func (k *SdfxKernel) Volume(s kernel.Solid) (float64, error) {
	m, err := k.ToMesh(s)
	if err != nil {
		return 0, err
	}
	return math.Abs(m.SignedVolume()), nil
}

// hasInterior samples an n^3 grid over the bounding box and reports whether
// any sample lies strictly inside the solid.
func hasInterior(s sdf.SDF3, n int) bool {
	bb := s.BoundingBox()
	size := bb.Size()
	for i := 0; i < n; i++ {
		x := bb.Min.X + size.X*(float64(i)+0.5)/float64(n)
		for j := 0; j < n; j++ {
			y := bb.Min.Y + size.Y*(float64(j)+0.5)/float64(n)
			for l := 0; l < n; l++ {
				z := bb.Min.Z + size.Z*(float64(l)+0.5)/float64(n)
				if s.Evaluate(v3.Vec{X: x, Y: y, Z: z}) < 0 {
					return true
				}
			}
		}
	}
	return false
}

// meshCells picks the marching cubes resolution for a bounding box.
func (k *SdfxKernel) meshCells(s sdf.SDF3) int {
	size := s.BoundingBox().Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	cells := int(math.Ceil(longest / k.cellSize))
	if cells < k.minCells {
		cells = k.minCells
	}
	if cells > k.maxCells {
		cells = k.maxCells
	}
	return cells
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
// Triangles are wound so the enclosed signed volume is positive.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok || ss == nil {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}
	ss.once.Do(func() {
		ss.mesh, ss.meshErr = k.toMesh(ss.s)
	})
	if ss.meshErr != nil {
		return nil, ss.meshErr
	}
	return ss.mesh, nil
}

func (k *SdfxKernel) toMesh(sdf3 sdf.SDF3) (mesh *kernel.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sdfx: marching cubes: %v", r)
		}
	}()

	renderer := render.NewMarchingCubesUniform(k.meshCells(sdf3))
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	mesh = &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
	if mesh.SignedVolume() < 0 {
		mesh.FlipWinding()
	}
	return mesh, nil
}
