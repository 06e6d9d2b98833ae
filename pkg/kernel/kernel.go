// Package kernel defines the abstract geometry kernel interface.
// The hotel generator orchestrates a kernel; it never implements one.
// Implementations guarantee that boolean combinations of watertight
// inputs are watertight, and report emptiness, volume and meshes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation and never mutate it;
// every operation returns a new Solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Axis names a coordinate axis for mirroring.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Profile2D is a closed polygon in the plane, counter-clockwise.
// For Revolve the first coordinate is the radius and the second is z.
type Profile2D [][2]float64

// Kernel is the abstract geometry kernel interface.
//
// Placement conventions: Box, Cylinder and Cone are centered on X/Y with
// their base at z=0. Extrude sweeps an XY profile from z=0 to z=height.
// Revolve sweeps a (radius, z) profile about the Z axis.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Cone(height, r0, r1 float64, segments int) Solid
	Extrude(profile Profile2D, height float64) Solid
	Revolve(profile Profile2D, segments int, degrees float64) Solid

	// Boolean operations
	Union(solids ...Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	// HalfSpace keeps the part of s on the side the normal points to.
	HalfSpace(s Solid, point, normal [3]float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, v [3]float64) Solid
	Mirror(s Solid, axis Axis) Solid

	// Queries
	IsEmpty(s Solid) bool
	Volume(s Solid) (float64, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
