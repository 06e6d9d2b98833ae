package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Wall returns a wall panel of the given width and height whose front face
// lies on y=0 and which extends thickness toward +Y.
func (k *Kit) Wall(width, height, thickness float64) (kernel.Solid, error) {
	b := k.G.Begin("wall")
	t := atLeast(thickness, k.P.MinWallThickness)
	s := b.Translate(b.Box(width, t, height), 0, t/2, 0)
	return b.Done(s)
}

// FloorSlab returns a horizontal slab that extends overhang past the
// footprint on every side.
func (k *Kit) FloorSlab(width, depth, thickness, overhang float64) (kernel.Solid, error) {
	b := k.G.Begin("floor slab")
	t := atLeast(thickness, k.P.MinFeatureSize)
	return b.Done(b.Box(width+2*overhang, depth+2*overhang, t))
}

// BaseMargin is how far a base plate reaches past the footprint.
const BaseMargin = 0.5

// BasePlateSize returns the plate footprint for a building of the given
// footprint and total height. The plate always extends BaseMargin past the
// footprint, and its smaller side is at least 40% of the total height.
func BasePlateSize(width, depth, totalHeight float64) (w, d float64) {
	w = width + 2*BaseMargin
	d = depth + 2*BaseMargin
	min := 0.4 * totalHeight
	if w < min {
		w = min
	}
	if d < min {
		d = min
	}
	return w, d
}

// BasePlate returns the print-bed pedestal: a slab with its top face at
// z=Embed and its bottom at z=-BaseThickness, with a 45 degree chamfer cut
// from each bottom edge.
func (k *Kit) BasePlate(width, depth float64) (kernel.Solid, error) {
	b := k.G.Begin("base plate")
	t := k.P.BaseThickness
	slab := b.Translate(b.Box(width, depth, t+geom.Embed), 0, 0, -t)

	c := math.Min(k.P.BaseChamfer, t/2)
	if c <= 0 {
		return b.Done(slab)
	}
	bottom := -t
	slab = b.Cut(slab, [3]float64{width / 2, 0, bottom + c}, [3]float64{-1, 0, 1})
	slab = b.Cut(slab, [3]float64{-width / 2, 0, bottom + c}, [3]float64{1, 0, 1})
	slab = b.Cut(slab, [3]float64{0, depth / 2, bottom + c}, [3]float64{0, -1, 1})
	slab = b.Cut(slab, [3]float64{0, -depth / 2, bottom + c}, [3]float64{0, 1, 1})
	return b.Done(slab)
}

// ColumnDiameter returns the printable diameter of a round column of the
// given free height: at least the profile minimum, and thick enough that
// height/diameter stays within the profile's aspect ratio.
func (k *Kit) ColumnDiameter(diameter, height float64) float64 {
	d := atLeast(diameter, k.P.MinColumnDiameter)
	if k.P.MaxAspectRatio > 0 {
		d = atLeast(d, height/k.P.MaxAspectRatio)
	}
	return d
}

// ColumnWidth is ColumnDiameter for square columns.
func (k *Kit) ColumnWidth(width, height float64) float64 {
	w := atLeast(width, k.P.MinColumnWidth)
	if k.P.MaxAspectRatio > 0 {
		w = atLeast(w, height/k.P.MaxAspectRatio)
	}
	return w
}

// RoundColumn returns a Z-axis column centered on the origin.
func (k *Kit) RoundColumn(diameter, height float64) (kernel.Solid, error) {
	b := k.G.Begin("round column")
	r := k.ColumnDiameter(diameter, height) / 2
	return b.Done(b.Cylinder(r, height, k.Segments(r)))
}

// SquareColumn returns a square column centered on the origin.
func (k *Kit) SquareColumn(width, height float64) (kernel.Solid, error) {
	b := k.G.Begin("square column")
	w := k.ColumnWidth(width, height)
	return b.Done(b.Box(w, w, height))
}

// Pilaster returns a flat column projecting depth from a wall face, with
// Embed of extra depth sunk into the wall.
func (k *Kit) Pilaster(width, depth, height float64) (kernel.Solid, error) {
	b := k.G.Begin("pilaster")
	w := atLeast(width, k.P.MinFeatureSize)
	d := atLeast(depth, k.P.MinEmbossHeight) + geom.Embed
	s := b.Translate(b.Box(w, d, height), 0, geom.Embed-d/2, 0)
	return b.Done(s)
}
