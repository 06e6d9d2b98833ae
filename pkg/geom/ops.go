package geom

import (
	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// NonEmpty drops nil and empty solids.
func (g *G) NonEmpty(solids []kernel.Solid) []kernel.Solid {
	return lo.Filter(solids, func(s kernel.Solid, _ int) bool {
		return s != nil && !g.k.IsEmpty(s)
	})
}

// UnionAll combines solids in one batch, skipping empty operands. It fails
// when nothing non-empty is left.
func (g *G) UnionAll(solids []kernel.Solid) (kernel.Solid, error) {
	kept := g.NonEmpty(solids)
	if len(kept) == 0 {
		return nil, errs.Geometry("", "union", "no non-empty operands among %d", len(solids))
	}
	if len(kept) == 1 {
		return kept[0], nil
	}
	return guard("union", func() kernel.Solid { return g.k.Union(kept...) })
}

// ComposeDisjoint unions solids that are known not to overlap, such as the
// parts of a complex standing on separate footprints. Nil entries are
// skipped; emptiness is not probed.
func (g *G) ComposeDisjoint(solids []kernel.Solid) (kernel.Solid, error) {
	kept := lo.Filter(solids, func(s kernel.Solid, _ int) bool { return s != nil })
	if len(kept) == 0 {
		return nil, errs.Geometry("", "compose", "nothing to compose")
	}
	if len(kept) == 1 {
		return kept[0], nil
	}
	return guard("compose", func() kernel.Solid { return g.k.Union(kept...) })
}

// Difference subtracts all cutouts from base in one batch. An empty base is
// an error; empty cutouts are skipped.
func (g *G) Difference(base kernel.Solid, cutouts []kernel.Solid) (kernel.Solid, error) {
	if base == nil || g.k.IsEmpty(base) {
		return nil, errs.Geometry("", "difference", "base solid is empty")
	}
	kept := g.NonEmpty(cutouts)
	if len(kept) == 0 {
		return base, nil
	}
	return guard("difference", func() kernel.Solid {
		cutter := kept[0]
		if len(kept) > 1 {
			cutter = g.k.Union(kept...)
		}
		return g.k.Difference(base, cutter)
	})
}

// Intersect returns a ∩ b.
func (g *G) Intersect(a, b kernel.Solid) (kernel.Solid, error) {
	if a == nil || b == nil {
		return nil, errs.Geometry("", "intersect", "missing operand")
	}
	return guard("intersect", func() kernel.Solid { return g.k.Intersection(a, b) })
}

// Cut keeps the part of s on the side of the plane the normal points to.
func (g *G) Cut(s kernel.Solid, point, normal [3]float64) (kernel.Solid, error) {
	if s == nil {
		return nil, errs.Geometry("", "cut", "missing operand")
	}
	if normal == [3]float64{} {
		return nil, errs.Geometry("", "cut", "zero plane normal")
	}
	return guard("cut", func() kernel.Solid { return g.k.HalfSpace(s, point, normal) })
}

// Translate moves s. Transforms never fail for a valid solid.
func (g *G) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if x == 0 && y == 0 && z == 0 {
		return s
	}
	return g.k.Translate(s, x, y, z)
}

// RotateX rotates s about the X axis through the origin.
func (g *G) RotateX(s kernel.Solid, deg float64) kernel.Solid { return g.k.Rotate(s, deg, 0, 0) }

// RotateY rotates s about the Y axis through the origin.
func (g *G) RotateY(s kernel.Solid, deg float64) kernel.Solid { return g.k.Rotate(s, 0, deg, 0) }

// RotateZ rotates s about the Z axis through the origin.
func (g *G) RotateZ(s kernel.Solid, deg float64) kernel.Solid {
	if deg == 0 {
		return s
	}
	return g.k.Rotate(s, 0, 0, deg)
}

// Mirror reflects s across the plane through the origin normal to axis.
func (g *G) Mirror(s kernel.Solid, axis kernel.Axis) kernel.Solid { return g.k.Mirror(s, axis) }

// Scale scales s per axis. A zero or negative factor is rejected; use
// Mirror for reflections.
func (g *G) Scale(s kernel.Solid, v [3]float64) (kernel.Solid, error) {
	if err := positive("scale", []string{"x factor", "y factor", "z factor"}, v[0], v[1], v[2]); err != nil {
		return nil, err
	}
	return guard("scale", func() kernel.Solid { return g.k.Scale(s, v) })
}

// IsEmpty reports whether s is nil or has no interior.
func (g *G) IsEmpty(s kernel.Solid) bool {
	return s == nil || g.k.IsEmpty(s)
}

// Volume returns the volume of s in cubic millimetres.
func (g *G) Volume(s kernel.Solid) (float64, error) {
	if s == nil {
		return 0, nil
	}
	return g.k.Volume(s)
}

// Size returns the bounding box extents of s.
func Size(s kernel.Solid) [3]float64 {
	mn, mx := s.BoundingBox()
	return [3]float64{mx[0] - mn[0], mx[1] - mn[1], mx[2] - mn[2]}
}
