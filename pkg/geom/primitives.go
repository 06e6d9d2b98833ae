package geom

import (
	"math"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Box returns a w x d x h box centered on X/Y with its base at z=0.
func (g *G) Box(w, d, h float64) (kernel.Solid, error) {
	if err := positive("box", []string{"width", "depth", "height"}, w, d, h); err != nil {
		return nil, err
	}
	return guard("box", func() kernel.Solid { return g.k.Box(w, d, h) })
}

// Cylinder returns a Z-axis cylinder of radius r and height h, base at z=0.
func (g *G) Cylinder(r, h float64, segments int) (kernel.Solid, error) {
	if err := positive("cylinder", []string{"radius", "height"}, r, h); err != nil {
		return nil, err
	}
	if err := segmentsOK("cylinder", segments); err != nil {
		return nil, err
	}
	return guard("cylinder", func() kernel.Solid { return g.k.Cylinder(h, r, segments) })
}

// Cone returns a truncated cone from r0 at z=0 to r1 at z=h. r1 may be 0.
func (g *G) Cone(r0, r1, h float64, segments int) (kernel.Solid, error) {
	if err := positive("cone", []string{"bottom radius", "height"}, r0, h); err != nil {
		return nil, err
	}
	if r1 < 0 {
		return nil, errs.Geometry("", "cone", "top radius must be >= 0, got %g", r1)
	}
	if err := segmentsOK("cone", segments); err != nil {
		return nil, err
	}
	return guard("cone", func() kernel.Solid { return g.k.Cone(h, r0, r1, segments) })
}

// Extrude sweeps a closed XY polygon from z=0 to z=h.
func (g *G) Extrude(profile kernel.Profile2D, h float64) (kernel.Solid, error) {
	if err := positive("extrude", []string{"height"}, h); err != nil {
		return nil, err
	}
	if err := polygonOK("extrude", profile); err != nil {
		return nil, err
	}
	return guard("extrude", func() kernel.Solid { return g.k.Extrude(orient(profile), h) })
}

// Revolve sweeps a (radius, z) polygon about the Z axis by degrees in (0, 360].
func (g *G) Revolve(profile kernel.Profile2D, segments int, degrees float64) (kernel.Solid, error) {
	if !(degrees > 0) || degrees > 360 {
		return nil, errs.Geometry("", "revolve", "degrees must be in (0, 360], got %g", degrees)
	}
	if err := segmentsOK("revolve", segments); err != nil {
		return nil, err
	}
	if err := polygonOK("revolve", profile); err != nil {
		return nil, err
	}
	for _, p := range profile {
		if p[0] < 0 {
			return nil, errs.Geometry("", "revolve", "profile radius must be >= 0, got %g", p[0])
		}
	}
	return guard("revolve", func() kernel.Solid { return g.k.Revolve(orient(profile), segments, degrees) })
}

// SignedArea returns the shoelace area of a polygon; positive when
// counter-clockwise.
func SignedArea(profile kernel.Profile2D) float64 {
	var a float64
	for i := range profile {
		p, q := profile[i], profile[(i+1)%len(profile)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

func polygonOK(op string, profile kernel.Profile2D) error {
	if len(profile) < 3 {
		return errs.Geometry("", op, "profile needs at least 3 points, got %d", len(profile))
	}
	if math.Abs(SignedArea(profile)) < 1e-9 {
		return errs.Geometry("", op, "profile has zero area")
	}
	return nil
}

// orient returns the profile in counter-clockwise order.
func orient(profile kernel.Profile2D) kernel.Profile2D {
	if SignedArea(profile) > 0 {
		return profile
	}
	out := make(kernel.Profile2D, len(profile))
	for i, p := range profile {
		out[len(profile)-1-i] = p
	}
	return out
}
