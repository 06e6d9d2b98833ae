// Package massing builds the overall envelope of a building before any
// facade or roof detail: plain boxes and the few plan shapes styles choose
// between. Every generator returns a Mass whose lowest point is z=0 and
// whose blocks overlap by at least geom.Embed, so the envelope is always a
// single connected solid.
package massing

import (
	"math"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Block is one axis-aligned box of a mass: the center of its base and its
// extents.
type Block struct {
	X, Y, Z float64
	W, D, H float64
}

// Top returns the z of the block's top face.
func (b Block) Top() float64 { return b.Z + b.H }

// Overlap returns the extent of the intersection of two blocks along each
// axis. A negative component means the blocks are apart along that axis.
func (b Block) Overlap(o Block) [3]float64 {
	span := func(c0, s0, c1, s1 float64) float64 {
		lo := math.Max(c0-s0/2, c1-s1/2)
		hi := math.Min(c0+s0/2, c1+s1/2)
		return hi - lo
	}
	return [3]float64{
		span(b.X, b.W, o.X, o.W),
		span(b.Y, b.D, o.Y, o.D),
		math.Min(b.Top(), o.Top()) - math.Max(b.Z, o.Z),
	}
}

// Joined reports whether b and o share a volume at least min deep on every
// axis, to within float rounding.
func (b Block) Joined(o Block, min float64) bool {
	ov := b.Overlap(o)
	min -= 1e-9
	return ov[0] >= min && ov[1] >= min && ov[2] >= min
}

// Mass is a massing solid and the boxes it was built from. Voids lists
// volumes carved out of the blocks, such as a U-plan courtyard.
type Mass struct {
	Solid  kernel.Solid
	Blocks []Block
	Voids  []Block
}

// Height returns the top of the tallest block.
func (m Mass) Height() float64 {
	h := 0.0
	for _, b := range m.Blocks {
		h = math.Max(h, b.Top())
	}
	return h
}

// Footprint returns the width and depth of the blocks' plan bounding box.
func (m Mass) Footprint() (w, d float64) {
	if len(m.Blocks) == 0 {
		return 0, 0
	}
	x0, x1 := math.Inf(1), math.Inf(-1)
	y0, y1 := math.Inf(1), math.Inf(-1)
	for _, b := range m.Blocks {
		x0, x1 = math.Min(x0, b.X-b.W/2), math.Max(x1, b.X+b.W/2)
		y0, y1 = math.Min(y0, b.Y-b.D/2), math.Max(y1, b.Y+b.D/2)
	}
	return x1 - x0, y1 - y0
}

// Connected reports whether every block is reachable from the first
// through blocks joined by at least min.
func (m Mass) Connected(min float64) bool {
	if len(m.Blocks) == 0 {
		return false
	}
	seen := map[int]bool{0: true}
	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j := range m.Blocks {
			if !seen[j] && m.Blocks[i].Joined(m.Blocks[j], min) {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	return len(seen) == len(m.Blocks)
}

// assemble unions the blocks into one solid and subtracts the voids.
func assemble(g *geom.G, name string, blocks, voids []Block) (Mass, error) {
	b := g.Begin(name)
	parts := make([]kernel.Solid, 0, len(blocks))
	for _, bl := range blocks {
		parts = append(parts, b.Translate(b.Box(bl.W, bl.D, bl.H), bl.X, bl.Y, bl.Z))
	}
	s := b.Union(parts...)
	if len(voids) > 0 {
		cuts := make([]kernel.Solid, 0, len(voids))
		for _, v := range voids {
			cuts = append(cuts, b.Translate(b.Box(v.W, v.D, v.H), v.X, v.Y, v.Z))
		}
		s = b.Difference(s, cuts...)
	}
	s, err := b.Done(s)
	if err != nil {
		return Mass{}, err
	}
	return Mass{Solid: s, Blocks: blocks, Voids: voids}, nil
}

func positive(field string, v float64) error {
	if !(v > 0) {
		return errs.Invalid(field, "must be positive, got %g", v)
	}
	return nil
}

// Rect returns a plain box.
func Rect(g *geom.G, width, depth, height float64) (Mass, error) {
	return assemble(g, "rect massing", []Block{{W: width, D: depth, H: height}}, nil)
}

// LOptions sizes the wing of an L plan. Zero fields take defaults: a wing
// half the main width and 60% of its depth. Left puts the wing on the left
// rear corner.
type LOptions struct {
	WingWidth, WingDepth float64
	Left                 bool
}

// L returns a main block with a wing reaching back from its right rear
// corner, or its left one. The wing overlaps the main block by 30% of its
// own depth.
func L(g *geom.G, width, depth, height float64, o LOptions) (Mass, error) {
	ww := orDefault(o.WingWidth, width*0.5)
	wd := orDefault(o.WingDepth, depth*0.6)
	if ww > width {
		return Mass{}, errs.Invalid("wing_width", "wing %g wider than main block %g", ww, width)
	}
	x := (width - ww) / 2
	if o.Left {
		x = -x
	}
	blocks := []Block{
		{W: width, D: depth, H: height},
		{X: x, Y: (depth+wd)/2 - wd*0.3, W: ww, D: wd, H: height},
	}
	return assemble(g, "l-shape massing", blocks, nil)
}

// UOptions sizes the courtyard of a U plan. Zero fields take defaults of
// half the width and half the depth.
type UOptions struct {
	CourtyardWidth, CourtyardDepth float64
}

// U returns a box with a courtyard cut from the middle of its front face,
// leaving a back range and two arms. The courtyard void overshoots the
// front, top and bottom faces.
func U(g *geom.G, width, depth, height float64, o UOptions) (Mass, error) {
	cw := orDefault(o.CourtyardWidth, width*0.5)
	cd := orDefault(o.CourtyardDepth, depth*0.5)
	if cw >= width {
		return Mass{}, errs.Invalid("courtyard_width", "courtyard %g leaves no arms in width %g", cw, width)
	}
	if cd >= depth {
		return Mass{}, errs.Invalid("courtyard_depth", "courtyard %g leaves no back range in depth %g", cd, depth)
	}
	arm := (width - cw) / 2
	blocks := []Block{
		{Y: cd / 2, W: width, D: depth - cd, H: height},
		{X: -(width - arm) / 2, W: arm, D: depth, H: height},
		{X: (width - arm) / 2, W: arm, D: depth, H: height},
	}
	// The blocks above describe what remains; the solid itself is the
	// full box minus the courtyard.
	e := geom.Overshoot
	void := Block{Y: -depth/2 + cd/2 - e/2, Z: -e, W: cw, D: cd + e, H: height + 2*e}

	b := g.Begin("u-shape massing")
	s := b.Difference(b.Box(width, depth, height), b.Translate(b.Box(void.W, void.D, void.H), void.X, void.Y, void.Z))
	s, err := b.Done(s)
	if err != nil {
		return Mass{}, err
	}
	return Mass{Solid: s, Blocks: blocks, Voids: []Block{void}}, nil
}

// TOptions sizes the crossbar of a T plan. Zero fields take defaults of
// 130% of the width and 40% of the depth.
type TOptions struct {
	TopWidth, TopDepth float64
}

// T returns a main block with a wider crossbar across its back. The bar
// overlaps the main block by 20% of its own depth.
func T(g *geom.G, width, depth, height float64, o TOptions) (Mass, error) {
	tw := orDefault(o.TopWidth, width*1.3)
	td := orDefault(o.TopDepth, depth*0.4)
	blocks := []Block{
		{W: width, D: depth, H: height},
		{Y: (depth+td)/2 - td*0.2, W: tw, D: td, H: height},
	}
	return assemble(g, "t-shape massing", blocks, nil)
}

// PodiumTower returns a podium with a tower centered on its top. The tower
// base is sunk Embed into the podium.
func PodiumTower(g *geom.G, podiumW, podiumD, podiumH, towerW, towerD, towerH float64) (Mass, error) {
	blocks := []Block{
		{W: podiumW, D: podiumD, H: podiumH},
		{Z: podiumH - geom.Embed, W: towerW, D: towerD, H: towerH + geom.Embed},
	}
	return assemble(g, "podium-tower massing", blocks, nil)
}

// Stepped returns a ziggurat of tiers tiers, each tierHeight tall and
// ratio times the plan size of the one below, centered. Tiers that would
// fall under minSide on either axis are dropped.
func Stepped(g *geom.G, width, depth float64, tiers int, tierHeight, ratio, minSide float64) (Mass, error) {
	if err := positive("shrink_ratio", ratio); err != nil {
		return Mass{}, err
	}
	if ratio > 1 {
		return Mass{}, errs.Invalid("shrink_ratio", "must not exceed 1, got %g", ratio)
	}
	return stack(g, "stepped massing", tiers, tierHeight, minSide, func(i int) (float64, float64) {
		f := math.Pow(ratio, float64(i))
		return width * f, depth * f
	})
}

// Setback returns a ziggurat whose tiers step in by setback on every side.
func Setback(g *geom.G, width, depth float64, tiers int, tierHeight, setback, minSide float64) (Mass, error) {
	if setback < 0 {
		return Mass{}, errs.Invalid("setback", "must not be negative, got %g", setback)
	}
	return stack(g, "setback massing", tiers, tierHeight, minSide, func(i int) (float64, float64) {
		s := 2 * setback * float64(i)
		return width - s, depth - s
	})
}

func stack(g *geom.G, name string, tiers int, tierHeight, minSide float64, size func(int) (float64, float64)) (Mass, error) {
	if tiers < 1 {
		return Mass{}, errs.Invalid("tiers", "need at least one tier, got %d", tiers)
	}
	if err := positive("tier_height", tierHeight); err != nil {
		return Mass{}, err
	}
	var blocks []Block
	for i := 0; i < tiers; i++ {
		w, d := size(i)
		if w < minSide || d < minSide || w <= 0 || d <= 0 {
			break
		}
		bl := Block{Z: float64(i) * tierHeight, W: w, D: d, H: tierHeight}
		if i > 0 {
			bl.Z -= geom.Embed
			bl.H += geom.Embed
		}
		blocks = append(blocks, bl)
	}
	if len(blocks) == 0 {
		return Mass{}, errs.Invalid("tiers", "first tier is smaller than %g", minSide)
	}
	return assemble(g, name, blocks, nil)
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
