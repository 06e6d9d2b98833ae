package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// RoofKind names a roof construction.
type RoofKind string

const (
	RoofFlat    RoofKind = "flat"
	RoofGabled  RoofKind = "gabled"
	RoofHipped  RoofKind = "hipped"
	RoofMansard RoofKind = "mansard"
	RoofBarrel  RoofKind = "barrel"
)

// MinGablePitch is the shallowest slope, in degrees from horizontal, that
// still reads as a gable.
const MinGablePitch = 20.0

// Roofs sit on the wall top with their base at z=0. Callers place them at
// wall height minus Embed.

// Roof dispatches on kind. Height is the peak rise for pitched roofs, the
// rise of a barrel, and the parapet height of a flat roof.
func (k *Kit) Roof(kind RoofKind, width, depth, height float64, sc ScaleContext) (kernel.Solid, error) {
	switch kind {
	case RoofFlat:
		return k.FlatRoof(width, depth, sc.RoofSlabThickness(), height, sc.ParapetThickness())
	case RoofGabled:
		return k.GabledRoof(width, depth, height)
	case RoofHipped:
		return k.HippedRoof(width, depth, height)
	case RoofMansard:
		return k.MansardRoof(width, depth, height*0.7, height*0.3, sc.MansardInset())
	case RoofBarrel:
		return k.BarrelRoof(width, depth, height)
	}
	return nil, errs.Geometry("", "roof", "unknown roof kind %q", kind)
}

// FlatRoof returns a slab with an optional parapet: a hollow shell of the
// given wall thickness rising parapet above the slab. A non-positive
// parapet gives the bare slab.
func (k *Kit) FlatRoof(width, depth, slab, parapet, wall float64) (kernel.Solid, error) {
	b := k.G.Begin("flat roof")
	slab = atLeast(slab, k.P.MinFeatureSize)
	roof := b.Box(width, depth, slab)
	if parapet <= 0 {
		return b.Done(roof)
	}
	wall = atLeast(wall, k.P.MinWallThickness)
	if 2*wall >= math.Min(width, depth) {
		return b.Done(roof)
	}
	outer := b.Box(width, depth, slab+parapet)
	inner := b.Translate(b.Box(width-2*wall, depth-2*wall, parapet+geom.Overshoot), 0, 0, slab)
	return b.Done(b.Union(roof, b.Difference(outer, inner)))
}

// GablePeak raises a requested peak so the pitch is at least MinGablePitch.
func GablePeak(width, peak float64) float64 {
	min := math.Tan(MinGablePitch*math.Pi/180) * width / 2
	return math.Max(peak, min)
}

// GablePitch returns the slope of a gable in degrees from horizontal.
func GablePitch(width, peak float64) float64 {
	return math.Atan2(peak, width/2) * 180 / math.Pi
}

// GabledRoof returns a triangular prism with the ridge along Y, the
// slopes facing ±X and the gable ends facing ±Y.
//
// The prism is built by extruding the triangular section. Intersecting a
// box with two inclined half-spaces gives the same silhouette.
func (k *Kit) GabledRoof(width, depth, peak float64) (kernel.Solid, error) {
	b := k.G.Begin("gabled roof")
	peak = GablePeak(width, peak)
	section := kernel.Profile2D{{-width / 2, 0}, {width / 2, 0}, {0, peak}}
	return b.Done(prismY(b, section, depth))
}

// HippedRoof returns a box cut by four inward-leaning planes of equal
// pitch. The two across the short side meet at a ridge of height peak that
// runs along the long side.
func (k *Kit) HippedRoof(width, depth, peak float64) (kernel.Solid, error) {
	b := k.G.Begin("hipped roof")
	peak = GablePeak(math.Min(width, depth), peak)
	slope := peak / (math.Min(width, depth) / 2)
	s := taper(b, b.Box(width, depth, peak), width, depth, slope, slope)
	return b.Done(s)
}

// MansardRoof returns a steep lower frustum, the hull of the footprint
// rectangle and the same rectangle inset at height lower, capped with a
// shallow hipped upper roof.
func (k *Kit) MansardRoof(width, depth, lower, upper, inset float64) (kernel.Solid, error) {
	b := k.G.Begin("mansard roof")
	maxInset := math.Min(width, depth)/2 - k.P.MinFeatureSize
	if maxInset <= 0 {
		return nil, errs.Geometry("", "mansard roof", "footprint %gx%g too small", width, depth)
	}
	inset = Clamp(inset, k.P.MinFeatureSize, maxInset)
	slope := lower / inset
	frustum := taper(b, b.Box(width, depth, lower), width, depth, slope, slope)
	parts := []kernel.Solid{frustum}
	if upper > 0 {
		topW, topD := width-2*inset, depth-2*inset
		top := b.Box(topW, topD, upper)
		top = taper(b, top, topW, topD, upper/(math.Min(topW, topD)/2), upper/(math.Min(topW, topD)/2))
		parts = append(parts, b.Translate(top, 0, 0, lower-geom.Embed))
	}
	return b.Done(b.Union(parts...))
}

// BarrelRoof returns a vault running along Y over a span of width with the
// given rise. A rise below half the span is a circular segment of the
// radius implied by chord and rise; otherwise a half cylinder revolved
// through 180 degrees, stretched in z to the rise.
func (k *Kit) BarrelRoof(width, depth, rise float64) (kernel.Solid, error) {
	b := k.G.Begin("barrel roof")
	half := width / 2
	if rise < half {
		r := (half*half + rise*rise) / (2 * rise)
		drum := b.RotateX(b.Cylinder(r, depth, k.Segments(r)), 90)
		drum = b.Translate(drum, 0, depth/2, rise-r)
		return b.Done(b.Intersect(drum, b.Box(width, depth, rise)))
	}
	vault := b.Revolve(kernel.Profile2D{{0, 0}, {half, 0}, {half, depth}, {0, depth}}, k.Segments(half), 180)
	vault = b.Translate(b.RotateX(vault, 90), 0, depth/2, 0)
	if math.Abs(rise-half) > 1e-6 {
		vault = b.Scale(vault, [3]float64{1, 1, rise / half})
	}
	return b.Done(vault)
}

// PagodaRoof stacks tiers hipped roofs, each shrinking by shrink and
// reaching overhang past its footprint, finished with a finial. Every eave
// is carried by a 45 degree skirt so no tier overhangs the one below.
func (k *Kit) PagodaRoof(width, depth, tierHeight float64, tiers int, overhang, shrink float64) (kernel.Solid, error) {
	b := k.G.Begin("pagoda roof")
	if tiers < 1 {
		tiers = 1
	}
	var parts []kernel.Solid
	z, w, d, o := math.Max(overhang-geom.Embed, 0), width, depth, overhang
	for i := 0; i < tiers; i++ {
		ew, ed := w+2*o, d+2*o
		tier, err := k.HippedRoof(ew, ed, tierHeight)
		b.Fail(err)
		parts = append(parts, b.Translate(tier, 0, 0, z))
		if o > 0 {
			skirt := taper(b, b.Box(ew, ed, o), ew, ed, 1, 1)
			skirt = b.Mirror(skirt, kernel.AxisZ)
			parts = append(parts, b.Translate(skirt, 0, 0, z+geom.Embed))
		}
		if i < tiers-1 {
			core := b.Box(w*0.85, d*0.85, tierHeight*0.6)
			parts = append(parts, b.Translate(core, 0, 0, z+tierHeight*0.4))
		}
		z += tierHeight * 0.65
		w *= shrink
		d *= shrink
		o *= shrink
	}
	r := k.ColumnDiameter(math.Min(w, d)*0.3, tierHeight*0.8) / 2
	finial := b.Cylinder(r, tierHeight*0.8, k.Segments(r))
	parts = append(parts, b.Translate(finial, 0, 0, z-tierHeight*0.1))
	return b.Done(b.Union(parts...))
}

// OnionDome returns a bulbous dome of the given widest radius: a neck
// seated on its drum, a swell to full radius, then a taper to a point.
func (k *Kit) OnionDome(radius, height float64) (kernel.Solid, error) {
	b := k.G.Begin("onion dome")
	const steps = 20
	neck := math.Max(k.P.MinFeatureSize/2, 0.05)
	profile := kernel.Profile2D{{0, 0}}
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		var r float64
		switch {
		case t < 0.1:
			r = radius * (0.55 + t)
		case t < 0.45:
			r = radius * (0.65 + 0.35*math.Sin((t-0.1)/0.35*math.Pi/2))
		default:
			r = radius * math.Cos((t-0.45)/0.55*math.Pi/2)
		}
		profile = append(profile, [2]float64{math.Max(r, neck), t * height})
	}
	profile = append(profile, [2]float64{0, height})
	return b.Done(b.Revolve(profile, k.Segments(radius), 360))
}
