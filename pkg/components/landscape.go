package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Landscape parts stand on a plate top at z=0 and are centered on X/Y.

// TreeKind names a tree silhouette.
type TreeKind string

const (
	Deciduous TreeKind = "deciduous"
	Conifer   TreeKind = "conifer"
	Palm      TreeKind = "palm"
)

// TreeKinds lists the tree silhouettes.
var TreeKinds = []TreeKind{Deciduous, Conifer, Palm}

// PoolShape names a pool outline.
type PoolShape string

const (
	RectangularPool PoolShape = "rectangular"
	KidneyPool      PoolShape = "kidney"
	LShapedPool     PoolShape = "l_shaped"
)

// PoolShapes lists the pool outlines.
var PoolShapes = []PoolShape{RectangularPool, KidneyPool, LShapedPool}

// TrunkRadius is the trunk radius every tree gets on this profile.
func (k *Kit) TrunkRadius() float64 {
	return math.Max(k.P.MinWallThickness/2, 0.4)
}

// Tree returns a tree of the given total height whose canopy spreads to
// canopy. The trunk is thickened to the profile's aspect limit.
func (k *Kit) Tree(kind TreeKind, height, canopy float64) (kernel.Solid, error) {
	b := k.G.Begin(string(kind) + " tree")
	c := atLeast(canopy, k.P.MinFeatureSize)
	var trunkShare float64
	switch kind {
	case Deciduous:
		trunkShare = 0.45
	case Conifer:
		trunkShare = 0.3
	case Palm:
		trunkShare = 0.75
	default:
		return nil, errs.Invalid("tree", "unknown tree kind %q", kind)
	}
	th := height * trunkShare
	ch := height - th + geom.Embed
	r := k.ColumnDiameter(2*k.TrunkRadius(), th) / 2

	var trunk, crown kernel.Solid
	switch kind {
	case Deciduous:
		trunk = b.Cylinder(r, th, k.Segments(r))
		// A rounded crown: flared underside, straight flank, domed top.
		crown = b.Revolve(kernel.Profile2D{
			{0, 0}, {c * 0.6, 0}, {c, ch * 0.35}, {c, ch * 0.65}, {c * 0.55, ch}, {0, ch},
		}, k.Segments(c), 360)
	case Conifer:
		trunk = b.Cylinder(r, th, k.Segments(r))
		crown = b.Cone(c, 0, ch, k.Segments(c))
	case Palm:
		trunk = b.Cone(r, r*0.7, th, k.Segments(r))
		crown = b.Cone(c, r*0.5, ch, k.Segments(c))
	}
	return b.Done(b.Union(trunk, b.Translate(crown, 0, 0, th-geom.Embed)))
}

// Hedge returns a hedge row of the given length along X. Its width is at
// least one wall.
func (k *Kit) Hedge(length, height, width float64) (kernel.Solid, error) {
	b := k.G.Begin("hedge")
	w := atLeast(width, k.P.MinWallThickness)
	return b.Done(b.Box(length, w, atLeast(height, k.P.MinFeatureSize)))
}

// Terrace returns a flat raised platform such as an entrance plaza.
func (k *Kit) Terrace(width, depth, height float64) (kernel.Solid, error) {
	b := k.G.Begin("terrace")
	return b.Done(b.Box(width, depth, atLeast(height, k.P.MinEmbossHeight)))
}

// Path returns a raised strip through the given (x, y) waypoints, one box
// per leg. Legs shorter than 0.01 mm are skipped.
func (k *Kit) Path(points [][2]float64, width, height float64) (kernel.Solid, error) {
	if len(points) < 2 {
		return nil, errs.Geometry("", "path", "needs at least 2 points, got %d", len(points))
	}
	b := k.G.Begin("path")
	w := atLeast(width, k.P.MinFeatureSize)
	h := atLeast(height, k.P.MinEmbossHeight)
	var legs []kernel.Solid
	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		dx, dy := q[0]-p[0], q[1]-p[1]
		n := math.Hypot(dx, dy)
		if n < 0.01 {
			continue
		}
		leg := b.RotateZ(b.Box(n+w, w, h), math.Atan2(dy, dx)*180/math.Pi)
		legs = append(legs, b.Translate(leg, (p[0]+q[0])/2, (p[1]+q[1])/2, 0))
	}
	if len(legs) == 0 {
		return nil, errs.Geometry("", "path", "every leg is shorter than 0.01 mm")
	}
	return b.Done(b.Union(legs...))
}

// PoolRecessDepth is how far a pool is sunk below the plate top.
const PoolRecessDepth = 0.5

// Pool returns a pool's raised rim and the cutter that sinks its basin
// PoolRecessDepth into the plate. The rim is at least one wall wide.
func (k *Kit) Pool(shape PoolShape, width, depth, rimWidth, rimHeight float64) (rim, basin kernel.Solid, err error) {
	b := k.G.Begin(string(shape) + " pool")
	rw := atLeast(rimWidth, k.P.MinWallThickness)
	rh := atLeast(rimHeight, k.P.MinEmbossHeight)
	cut := PoolRecessDepth + geom.Overshoot

	// outline returns the water surface grown by grow, h tall.
	var outline func(grow, h float64) kernel.Solid
	switch shape {
	case RectangularPool:
		outline = func(grow, h float64) kernel.Solid {
			return b.Box(width+2*grow, depth+2*grow, h)
		}
	case KidneyPool:
		big := math.Min(width, depth) * 0.4
		small := big * 0.7
		off := big * 0.5
		outline = func(grow, h float64) kernel.Solid {
			c1 := b.Translate(b.Cylinder(big+grow, h, k.Segments(big+grow)), -off*0.3, 0, 0)
			c2 := b.Translate(b.Cylinder(small+grow, h, k.Segments(small+grow)), off*0.7, off*0.3, 0)
			return b.Union(c1, c2)
		}
	case LShapedPool:
		outline = func(grow, h float64) kernel.Solid {
			long := b.Translate(b.Box(width+2*grow, depth*0.5+2*grow, h), 0, -depth*0.25, 0)
			side := b.Translate(b.Box(width*0.5+2*grow, depth+2*grow, h), -width*0.25, 0, 0)
			return b.Union(long, side)
		}
	default:
		return nil, nil, errs.Invalid("pool_shape", "unknown pool shape %q", shape)
	}

	basin = b.Translate(outline(0, cut), 0, 0, -PoolRecessDepth)
	inner := b.Translate(outline(0, rh+2*geom.Overshoot), 0, 0, -geom.Overshoot)
	rim = b.Difference(outline(rw, rh), inner)
	if err := b.Err(); err != nil {
		return nil, nil, err
	}
	return rim, basin, nil
}
