package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// corbel returns a 45 degree support under a part that projects depth
// toward -Y from a wall at y=0 with its underside at z=0. The corbel is
// embedded in both the wall and the part.
func corbel(b *geom.Builder, width, depth float64) kernel.Solid {
	e := geom.Embed
	section := kernel.Profile2D{{e, e}, {-depth, e}, {e, -depth}}
	return prismX(b, section, width)
}

// NeedsCorbel reports whether a horizontal projection of the given depth
// must be carried on a corbel. Cantilevers longer than a tenth of the
// profile's bridge span sag.
func (k *Kit) NeedsCorbel(depth float64) bool {
	return depth > k.P.MaxBridgeSpan/10
}

// EaveSkirt returns a 45 degree flare that widens a w x d footprint by
// overhang on every side, from z=0 up to z=overhang. Set under an
// overhanging roof it carries the eaves.
func (k *Kit) EaveSkirt(width, depth, overhang float64) (kernel.Solid, error) {
	b := k.G.Begin("eave skirt")
	if overhang <= 0 {
		return b.Done(nil)
	}
	ow, od := width+2*overhang, depth+2*overhang
	s := taper(b, b.Box(ow, od, overhang), ow, od, 1, 1)
	s = b.Mirror(s, kernel.AxisZ)
	return b.Done(b.Translate(s, 0, 0, overhang))
}

// Cornice returns a band of the given height that projects past a w x d
// footprint, set on an eave skirt. Its base is at z=0 and its top at
// projection + height - Embed.
func (k *Kit) Cornice(width, depth, height, projection float64) (kernel.Solid, error) {
	b := k.G.Begin("cornice")
	h := atLeast(height, k.P.MinFeatureSize)
	p := atLeast(projection, 0)
	band := b.Translate(b.Box(width+2*p, depth+2*p, h), 0, 0, math.Max(p-geom.Embed, 0))
	if p == 0 {
		return b.Done(band)
	}
	skirt, err := k.EaveSkirt(width, depth, p)
	b.Fail(err)
	return b.Done(b.Union(skirt, band))
}

// CorniceHeight returns the total height Cornice produces.
func CorniceHeight(height, projection float64) float64 {
	if projection <= 0 {
		return height
	}
	return projection - geom.Embed + height
}

// Bay returns a box projecting depth from a wall at y=0, with a corbel
// under it when the projection needs one. Its base is at z=0.
func (k *Kit) Bay(width, depth, height float64) (kernel.Solid, error) {
	b := k.G.Begin("bay")
	reach := depth + geom.Embed
	box := b.Translate(b.Box(width, reach, height), 0, geom.Embed-reach/2, 0)
	if !k.NeedsCorbel(depth) {
		return b.Done(box)
	}
	return b.Done(b.Union(box, corbel(b, width, depth)))
}

// Balustrade returns a railing along X of the given length: a top rail on
// round balusters when the profile prints them, a solid parapet otherwise.
// Its base is at z=0 and it is centered on y=0.
func (k *Kit) Balustrade(length, height, thickness float64) (kernel.Solid, error) {
	b := k.G.Begin("balustrade")
	t := atLeast(thickness, k.P.MinWallThickness)
	if !k.P.UseIndividualBalusters {
		return b.Done(b.Box(length, t, height))
	}
	rail := atLeast(k.P.MinFeatureSize, height*0.15)
	parts := []kernel.Solid{b.Translate(b.Box(length, t, rail), 0, 0, height-rail)}
	d := k.ColumnDiameter(k.P.MinColumnDiameter, height)
	n := int(length / (2 * d))
	if n < 2 {
		n = 2
	}
	pitch := (length - d) / float64(n-1)
	postH := height - rail + geom.Embed
	for i := 0; i < n; i++ {
		post := b.Cylinder(d/2, postH, k.Segments(d/2))
		parts = append(parts, b.Translate(post, -length/2+d/2+float64(i)*pitch, 0, 0))
	}
	return b.Done(b.Union(parts...))
}

// Balcony returns a slab projecting depth from a wall at y=0 with a
// railing on its three open sides and, when the projection needs it, a 45
// degree support wedge underneath. Its base is at z=0.
func (k *Kit) Balcony(width, depth, slab, railing float64) (kernel.Solid, error) {
	b := k.G.Begin("balcony")
	slab = atLeast(slab, k.P.MinFeatureSize)
	t := k.P.MinWallThickness
	reach := depth + geom.Embed
	parts := []kernel.Solid{b.Translate(b.Box(width, reach, slab), 0, geom.Embed-reach/2, 0)}

	rz := slab - geom.Embed
	front, err := k.Balustrade(width, railing, t)
	b.Fail(err)
	parts = append(parts, b.Translate(front, 0, -depth+t/2, rz))
	for _, side := range []float64{-1, 1} {
		rail, err := k.Balustrade(depth, railing, t)
		b.Fail(err)
		rail = b.RotateZ(rail, 90)
		parts = append(parts, b.Translate(rail, side*(width/2-t/2), -depth/2, rz))
	}
	if k.NeedsCorbel(depth) {
		parts = append(parts, corbel(b, width, depth))
	}
	return b.Done(b.Union(parts...))
}

// StoopSteps returns a flight of steps rising toward a wall at y=0. The
// step against the wall is the tallest; each step projects stepDepth.
func (k *Kit) StoopSteps(width, stepDepth, stepHeight float64, steps int) (kernel.Solid, error) {
	b := k.G.Begin("stoop")
	sd := atLeast(stepDepth, k.P.MinFeatureSize)
	sh := atLeast(stepHeight, k.P.MinFeatureSize)
	var parts []kernel.Solid
	for i := 0; i < steps; i++ {
		reach := sd*float64(i+1) + geom.Embed
		step := b.Box(width, reach, sh*float64(steps-i))
		parts = append(parts, b.Translate(step, 0, geom.Embed-reach/2, 0))
	}
	return b.Done(b.Union(parts...))
}

// StoopHeight is the rise of a StoopSteps flight.
func (k *Kit) StoopHeight(stepHeight float64, steps int) float64 {
	return atLeast(stepHeight, k.P.MinFeatureSize) * float64(steps)
}

// Pediment returns a triangular gable face of the given width and rise,
// depth deep along Y and centered on y=0. The pitch is raised to at least
// MinGablePitch.
func (k *Kit) Pediment(width, rise, depth float64) (kernel.Solid, error) {
	b := k.G.Begin("pediment")
	rise = GablePeak(width, rise)
	section := kernel.Profile2D{{-width / 2, 0}, {width / 2, 0}, {0, rise}}
	return b.Done(prismY(b, section, depth))
}

// Turret returns a round tower of the given radius and height under a
// conical cap of capHeight that flares overhang past the wall. The cap
// flare is limited so the cap underside stays printable.
func (k *Kit) Turret(radius, height, capHeight, overhang float64) (kernel.Solid, error) {
	b := k.G.Begin("turret")
	r := k.ColumnDiameter(2*radius, height) / 2
	o := math.Min(atLeast(overhang, 0), k.P.MinFeatureSize)
	tower := b.Cylinder(r, height, k.Segments(r))
	roof := b.Cone(r+o, 0, capHeight, k.Segments(r+o))
	return b.Done(b.Union(tower, b.Translate(roof, 0, 0, height-geom.Embed)))
}

// Spire returns a square needle tapering to a point, thickened to respect
// the profile's aspect limit.
func (k *Kit) Spire(width, height float64) (kernel.Solid, error) {
	b := k.G.Begin("spire")
	w := k.ColumnWidth(width, height)
	s := b.Box(w, w, height)
	slope := height / (w / 2)
	return b.Done(taper(b, s, w, w, slope, slope))
}

// DormerSize clamps a dormer request so its window is recessed into a
// solid body: jambs, sill and lintel are each a minimum wall, and a solid
// back at least two walls deep stays behind the window.
func (k *Kit) DormerSize(width, height, depth float64) (w, h, d float64) {
	t := k.P.MinWallThickness
	return atLeast(width, 2*t+k.P.MinHoleSize),
		atLeast(height, 2*t+k.P.MinHoleSize),
		atLeast(depth, 3*t+geom.Overshoot)
}

// Dormer returns a small gabled window house that sits on a roof slope,
// centered on X with its front face on y=0 and its body running back
// toward +Y into the roof. The window is a recess in the front wall, never
// a hole through the body. Profiles without dormers get a shed dormer, a
// flat-topped box of the same footprint.
func (k *Kit) Dormer(width, height, depth float64) (kernel.Solid, error) {
	b := k.G.Begin("dormer")
	w, h, d := k.DormerSize(width, height, depth)
	t := k.P.MinWallThickness
	body := b.Translate(b.Box(w, d, h), 0, d/2, 0)
	if k.P.UseDormers {
		roof, err := k.GabledRoof(w, d, w*0.4)
		b.Fail(err)
		body = b.Union(body, b.Translate(roof, 0, d/2, h-geom.Embed))
	}
	win, err := k.Window(w-2*t, h-2*t, t)
	b.Fail(err)
	win = b.Translate(win, 0, t/2, t)
	return b.Done(b.Difference(body, win))
}
