package components

import (
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Door openings are this much larger than the window they replace.
const (
	DoorWidthRatio  = 2.0
	DoorHeightRatio = 1.3
)

// OpeningSize clamps a window or door opening to the profile's minimum hole.
func (k *Kit) OpeningSize(width, height float64) (w, h float64) {
	return atLeast(width, k.P.MinHoleSize), atLeast(height, k.P.MinHoleSize)
}

// Window returns a through-wall cutout for a wall of the given thickness
// centered on y=0. It overshoots both faces.
func (k *Kit) Window(width, height, wallThickness float64) (kernel.Solid, error) {
	b := k.G.Begin("window")
	w, h := k.OpeningSize(width, height)
	return b.Done(b.Box(w, geom.Through(wallThickness), h))
}

// ArchedWindow returns a window cutout with a semicircular head. Profiles
// without arched windows get the rectangular cutout of the same size.
func (k *Kit) ArchedWindow(width, height, wallThickness float64) (kernel.Solid, error) {
	if !k.P.UseArchedWindows {
		return k.Window(width, height, wallThickness)
	}
	b := k.G.Begin("arched window")
	w, h := k.OpeningSize(width, height)
	depth := geom.Through(wallThickness)
	r := w / 2
	rect := h - r
	if rect <= 0 {
		rect = h / 2
		r = h - rect
	}
	body := b.Box(w, depth, rect)
	// A Z cylinder rotated onto the Y axis, centered through the wall.
	arch := b.RotateX(b.Cylinder(r, depth, k.Segments(r)), 90)
	arch = b.Translate(arch, 0, depth/2, rect)
	return b.Done(b.Union(body, arch))
}

// WindowFrame returns a raised border around a window opening. The frame's
// back face is sunk Embed into the wall at y=0 and it projects toward -Y.
// Its base is at z=-frame width so the opening itself starts at z=0.
func (k *Kit) WindowFrame(width, height float64) (kernel.Solid, error) {
	b := k.G.Begin("window frame")
	w, h := k.OpeningSize(width, height)
	fw := k.P.MinFeatureSize
	fd := atLeast(k.P.MinEmbossHeight, fw/2) + geom.Embed
	outer := b.Box(w+2*fw, fd, h+2*fw)
	inner := b.Translate(b.Box(w, fd+2*geom.Overshoot, h), 0, 0, fw)
	frame := b.Difference(outer, inner)
	return b.Done(b.Translate(frame, 0, geom.Embed-fd/2, -fw))
}

// Door returns a through-wall door cutout. Its base sits Overshoot below
// z=0 so the threshold is open to the ground.
func (k *Kit) Door(width, height, wallThickness float64) (kernel.Solid, error) {
	b := k.G.Begin("door")
	w, h := k.OpeningSize(width, height)
	s := b.Box(w, geom.Through(wallThickness), h+geom.Overshoot)
	return b.Done(b.Translate(s, 0, 0, -geom.Overshoot))
}

// DoorFor sizes a door from the window it replaces.
func DoorFor(windowWidth, windowHeight float64) (w, h float64) {
	return windowWidth * DoorWidthRatio, windowHeight * DoorHeightRatio
}

// DoorCanopy returns a slab projecting depth from the wall, carried by a
// 45 degree corbel so its underside never overhangs more than 45 degrees.
// Its top is at z=0.
func (k *Kit) DoorCanopy(width, depth, thickness float64) (kernel.Solid, error) {
	b := k.G.Begin("door canopy")
	t := atLeast(thickness, k.P.MinFeatureSize)
	reach := depth + geom.Embed
	slab := b.Translate(b.Box(width, reach, t), 0, geom.Embed-reach/2, -t)
	return b.Done(b.Union(slab, b.Translate(corbel(b, width, depth), 0, 0, -t)))
}
