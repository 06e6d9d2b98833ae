package geom

import (
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Builder chains geometry calls for one component and keeps the first
// error. After a failure every further call is a no-op returning nil, so a
// component body reads as straight-line construction and checks Err once.
type Builder struct {
	g         *G
	component string
	err       error
}

// Begin starts a Builder for the named component.
func (g *G) Begin(component string) *Builder {
	return &Builder{g: g, component: component}
}

// Err returns the first error recorded, tagged with the component name.
func (b *Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return errs.InPhase(b.err, "", b.component)
}

// Done returns s, or the first recorded error.
func (b *Builder) Done(s kernel.Solid) (kernel.Solid, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errs.Geometry("", b.component, "produced no solid")
	}
	return s, nil
}

// Fail records an error unless one is already held.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Failed reports whether an error has been recorded.
func (b *Builder) Failed() bool { return b.err != nil }

func (b *Builder) keep(s kernel.Solid, err error) kernel.Solid {
	if err != nil {
		b.Fail(err)
		return nil
	}
	return s
}

func (b *Builder) Box(w, d, h float64) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Box(w, d, h))
}

func (b *Builder) Cylinder(r, h float64, segments int) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Cylinder(r, h, segments))
}

func (b *Builder) Cone(r0, r1, h float64, segments int) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Cone(r0, r1, h, segments))
}

func (b *Builder) Extrude(profile kernel.Profile2D, h float64) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Extrude(profile, h))
}

func (b *Builder) Revolve(profile kernel.Profile2D, segments int, degrees float64) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Revolve(profile, segments, degrees))
}

// Union unions the given solids, skipping empty ones.
func (b *Builder) Union(solids ...kernel.Solid) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.UnionAll(solids))
}

// Difference subtracts cutouts from base.
func (b *Builder) Difference(base kernel.Solid, cutouts ...kernel.Solid) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Difference(base, cutouts))
}

func (b *Builder) Intersect(a, c kernel.Solid) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Intersect(a, c))
}

func (b *Builder) Cut(s kernel.Solid, point, normal [3]float64) kernel.Solid {
	if b.err != nil {
		return nil
	}
	return b.keep(b.g.Cut(s, point, normal))
}

func (b *Builder) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.g.Translate(s, x, y, z)
}

func (b *Builder) RotateX(s kernel.Solid, deg float64) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.g.RotateX(s, deg)
}

func (b *Builder) RotateY(s kernel.Solid, deg float64) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.g.RotateY(s, deg)
}

func (b *Builder) RotateZ(s kernel.Solid, deg float64) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.g.RotateZ(s, deg)
}

func (b *Builder) Mirror(s kernel.Solid, axis kernel.Axis) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.g.Mirror(s, axis)
}

func (b *Builder) Scale(s kernel.Solid, v [3]float64) kernel.Solid {
	if b.err != nil || s == nil {
		return nil
	}
	return b.keep(b.g.Scale(s, v))
}
