package components

import (
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Road dimensions shared by property plates and board connectors, so
// pieces printed separately line up.
const (
	RoadRecess = 0.2
	CurbHeight = 0.3
	CurbWidth  = 0.8
	// curbInset keeps curbs off the chamfered plate ends.
	curbInset = 1.0
)

// Curbs returns the two curb lines of a road width wide running length
// along X, on either side of y=0.
func (k *Kit) Curbs(length, width float64) (kernel.Solid, error) {
	b := k.G.Begin("curbs")
	cw := atLeast(CurbWidth, k.P.MinFeatureSize)
	ch := atLeast(CurbHeight, k.P.MinEmbossHeight)
	l := length - curbInset
	near := b.Translate(b.Box(l, cw, ch), 0, -width/2+cw/2, 0)
	far := b.Translate(b.Box(l, cw, ch), 0, width/2-cw/2, 0)
	return b.Done(b.Union(near, far))
}

// RoadSection returns a loose road piece length long and width wide: a
// base-thick slab with its top at z=0, a recessed carriageway and a curb
// on each long edge.
func (k *Kit) RoadSection(length, width float64) (kernel.Solid, error) {
	b := k.G.Begin("road section")
	t := k.P.BaseThickness
	slab := b.Translate(b.Box(length, width, t), 0, 0, -t)
	cw := atLeast(CurbWidth, k.P.MinFeatureSize)
	lane := b.Translate(b.Box(length-curbInset, width-2*cw, RoadRecess+geom.Overshoot), 0, 0, -RoadRecess)
	slab = b.Difference(slab, lane)
	curbs, err := k.Curbs(length, width)
	b.Fail(err)
	return b.Done(b.Union(slab, curbs))
}

// RoadCorner returns a square junction piece of the given size with a
// curb along each edge.
func (k *Kit) RoadCorner(size float64) (kernel.Solid, error) {
	b := k.G.Begin("road corner")
	t := k.P.BaseThickness
	cw := atLeast(CurbWidth, k.P.MinFeatureSize)
	ch := atLeast(CurbHeight, k.P.MinEmbossHeight)
	slab := b.Translate(b.Box(size, size, t), 0, 0, -t)
	if inner := size - 2*cw; inner > 0 {
		lane := b.Translate(b.Box(inner, inner, RoadRecess+geom.Overshoot), 0, 0, -RoadRecess)
		slab = b.Difference(slab, lane)
	}
	parts := []kernel.Solid{slab}
	edge := size - 2*cw
	for _, side := range []float64{-1, 1} {
		off := side * (size/2 - cw/2)
		parts = append(parts,
			b.Translate(b.Box(edge, cw, ch), 0, off, 0),
			b.Translate(b.Box(cw, edge, ch), off, 0, 0))
	}
	return b.Done(b.Union(parts...))
}

// FrameRail returns a border rail length long along X: a base-thick bar
// width deep from y=-width/2 with a retaining lip on its +Y edge rising
// lipHeight above z=0.
func (k *Kit) FrameRail(length, width, lipHeight, lipThickness float64) (kernel.Solid, error) {
	b := k.G.Begin("frame rail")
	t := k.P.BaseThickness
	lt := atLeast(lipThickness, k.P.MinWallThickness)
	w := atLeast(width, lt)
	bar := b.Translate(b.Box(length, w, t+geom.Embed), 0, 0, -t)
	lip := b.Translate(b.Box(length, lt, atLeast(lipHeight, k.P.MinFeatureSize)), 0, w/2-lt/2, 0)
	return b.Done(b.Union(bar, lip))
}
