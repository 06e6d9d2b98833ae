// Package components holds the parametric building parts styles are made
// of: walls, openings, roofs, columns, balconies, slabs and the facade
// composer. Every generator is a method on Kit, takes plain dimensions,
// clamps them up to the printer profile's minimums and returns a solid
// already overshot (cutouts) or embedded (additions).
//
// Placement conventions, unless a method says otherwise: parts are centered
// on X, base at z=0. Wall-mounted parts have their back face on y=0 and
// project toward -Y, which is outward for a front facade at y=-depth/2.
package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/profile"
)

// Kit binds the geometry layer to one printer profile.
type Kit struct {
	G *geom.G
	P profile.Profile
}

// New returns a Kit.
func New(g *geom.G, p profile.Profile) *Kit {
	return &Kit{G: g, P: p}
}

// Segments returns the facet count for a circle of radius r.
func (k *Kit) Segments(r float64) int {
	return k.P.Segments(2 * r)
}

func atLeast(v, min float64) float64 {
	return math.Max(v, min)
}

// Clamp limits v to [low, high]. When low > high, low wins.
func Clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

// prismX extrudes a (y, z) profile along X, centered on x=0.
func prismX(b *geom.Builder, profile kernel.Profile2D, length float64) kernel.Solid {
	s := b.Extrude(profile, length)
	s = b.RotateZ(b.RotateX(s, 90), 90)
	return b.Translate(s, -length/2, 0, 0)
}

// prismY extrudes an (x, z) profile along Y, centered on y=0.
func prismY(b *geom.Builder, profile kernel.Profile2D, length float64) kernel.Solid {
	s := b.RotateX(b.Extrude(profile, length), 90)
	return b.Translate(s, 0, length/2, 0)
}

// taper cuts the four vertical sides of a w x d solid based at z=0 with
// planes that lean inward by run/rise: a side at x=w/2 keeps
// z <= rise/run * (w/2 - x).
func taper(b *geom.Builder, s kernel.Solid, w, d, slopeX, slopeY float64) kernel.Solid {
	s = b.Cut(s, [3]float64{w / 2, 0, 0}, [3]float64{-slopeX, 0, -1})
	s = b.Cut(s, [3]float64{-w / 2, 0, 0}, [3]float64{slopeX, 0, -1})
	s = b.Cut(s, [3]float64{0, d / 2, 0}, [3]float64{0, -slopeY, -1})
	return b.Cut(s, [3]float64{0, -d / 2, 0}, [3]float64{0, slopeY, -1})
}
