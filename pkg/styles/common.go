package styles

import (
	"math"
	"math/rand"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/massing"
)

// building collects a style's plan. It wraps a sticky-error builder, so a
// style body reads as straight-line placement and checks the error once in
// done.
type building struct {
	k   *components.Kit
	g   *geom.G
	b   *geom.Builder
	sc  components.ScaleContext
	rng *rand.Rand
	p   Values

	w, d, fh float64
	floors   int
	h        float64 // floors * fh
	wall     float64
	winW     float64
	winH     float64
	perFloor int // 0: derived from each wall's length

	plan assembly.Plan
}

func newBuilding(k *components.Kit, s Style, r Request) *building {
	floors := r.Floors
	if floors < s.MinFloors() {
		floors = s.MinFloors()
	}
	sc := components.NewScaleContext(r.Width, r.Depth, r.FloorHeight, floors, k.P)
	bl := &building{
		k:        k,
		g:        k.G,
		b:        k.G.Begin(s.Name()),
		sc:       sc,
		rng:      r.Rand,
		p:        r.Params,
		w:        r.Width,
		d:        r.Depth,
		fh:       r.FloorHeight,
		floors:   floors,
		h:        sc.TotalHeight(),
		wall:     r.WallThickness,
		winW:     r.WindowWidth,
		winH:     r.WindowHeight,
		perFloor: r.WindowsPerFloor,
	}
	if bl.rng == nil {
		bl.rng = rand.New(rand.NewSource(0))
	}
	if bl.p == nil {
		bl.p, _ = s.Schema().Validate(nil)
	}
	if bl.wall <= 0 {
		bl.wall = k.P.MinWallThickness
	}
	if bl.winW <= 0 {
		bl.winW = sc.WindowWidth()
	}
	if bl.winH <= 0 {
		bl.winH = sc.WindowHeight()
	}
	return bl
}

// use records err and passes s through.
func (bl *building) use(s kernel.Solid, err error) kernel.Solid {
	if err != nil {
		bl.b.Fail(err)
		return nil
	}
	return s
}

func (bl *building) useAll(s []kernel.Solid, err error) []kernel.Solid {
	if err != nil {
		bl.b.Fail(err)
		return nil
	}
	return s
}

func (bl *building) at(s kernel.Solid, x, y, z float64) kernel.Solid {
	return bl.b.Translate(s, x, y, z)
}

func (bl *building) shell(m massing.Mass, err error) massing.Mass {
	if err != nil {
		bl.b.Fail(err)
		return massing.Mass{}
	}
	bl.plan.Shell = m.Solid
	return m
}

func (bl *building) add(solids ...kernel.Solid) { bl.plan.Add(solids...) }

func (bl *building) done() (assembly.Plan, error) {
	if err := bl.b.Err(); err != nil {
		return assembly.Plan{}, err
	}
	return bl.plan, nil
}

// columns returns the window count for a wall of the given length.
func (bl *building) columns(span float64) int {
	if bl.perFloor > 0 {
		return bl.perFloor
	}
	return bl.sc.WindowsPerFloor(span)
}

// grid returns the standard window grid for a wall span.
func (bl *building) grid(span float64, floors int, baseZ float64, skipGround bool) components.Facade {
	return components.Facade{
		Width:        span,
		Thickness:    bl.wall,
		Floors:       floors,
		FloorHeight:  bl.fh,
		Columns:      bl.columns(span),
		WindowWidth:  bl.winW,
		WindowHeight: bl.winH,
		Margin:       bl.wall,
		BaseZ:        baseZ,
		SkipGround:   skipGround,
	}
}

// block is a placed footprint: a w x d rectangle centered on (x, y).
type block struct{ x, y, w, d float64 }

func (bl *building) main() block { return block{w: bl.w, d: bl.d} }

func fromMass(b massing.Block) block { return block{x: b.X, y: b.Y, w: b.W, d: b.D} }

// windows cuts the grid into face f of blk and frames it.
func (bl *building) windows(f components.Facade, blk block, face components.Face) {
	bl.plan.Cut(bl.place(bl.useAll(bl.k.FacadeCutouts(f)), blk, face)...)
	bl.add(bl.place(bl.useAll(bl.k.FacadeFrames(f)), blk, face)...)
}

// lateWindows is windows for walls that only exist after the add phase,
// such as the front of a bay. The cutouts run as cleanup.
func (bl *building) lateWindows(f components.Facade, blk block, face components.Face) {
	for _, s := range bl.place(bl.useAll(bl.k.FacadeCutouts(f)), blk, face) {
		if s != nil {
			bl.plan.Cleanup = append(bl.plan.Cleanup, s)
		}
	}
	bl.add(bl.place(bl.useAll(bl.k.FacadeFrames(f)), blk, face)...)
}

func (bl *building) place(parts []kernel.Solid, blk block, face components.Face) []kernel.Solid {
	if bl.b.Failed() {
		return nil
	}
	out := make([]kernel.Solid, 0, len(parts))
	for _, s := range bl.k.OnFaces(parts, face, blk.w, blk.d) {
		out = append(out, bl.at(s, blk.x, blk.y, 0))
	}
	return out
}

// onFace moves one wall-frame part onto face f of blk, at offset x along
// the wall and height z.
func (bl *building) onFace(s kernel.Solid, blk block, face components.Face, x, z float64) kernel.Solid {
	if s == nil || bl.b.Failed() {
		return nil
	}
	s = bl.k.OnFace(bl.at(s, x, 0, z), face, blk.w, blk.d)
	return bl.at(s, blk.x, blk.y, 0)
}

// dormers sets dormers into the front roof slope of the main block at the
// given offsets, with their bases at z. Dormers that would overhang the
// block, overlap each other or reach past the ridge are dropped as a set.
func (bl *building) dormers(xs []float64, width, height, depth, z float64) {
	w, h, d := bl.k.DormerSize(width, height, depth)
	if d > bl.d/2 {
		return
	}
	for i, x := range xs {
		if math.Abs(x)+w/2 > bl.w/2-bl.wall {
			return
		}
		if i > 0 && x-xs[i-1] < w+bl.k.P.MinFeatureSize {
			return
		}
	}
	for _, x := range xs {
		dm := bl.use(bl.k.Dormer(w, h, d))
		bl.add(bl.onFace(dm, bl.main(), components.Front, x, z))
	}
}

// door cuts a door into the front of blk at x along the wall, its sill at
// z, and returns its size. The door stays within the ground floor.
func (bl *building) door(blk block, x, z float64) (w, h float64) {
	w, h = components.DoorFor(bl.winW, bl.winH)
	h = math.Min(h, bl.fh-z-bl.k.P.MinFeatureSize)
	d := bl.use(bl.k.Door(w, h, bl.wall))
	bl.plan.Cut(bl.onFace(d, blk, components.Front, x, z))
	return w, h
}

// roof places a roof whose footprint reaches overhang past blk, with its
// base Embed below the wall top z, and carries the eaves on a skirt.
func (bl *building) roof(s kernel.Solid, blk block, z, overhang float64) {
	bl.add(bl.at(s, blk.x, blk.y, z-geom.Embed))
	bl.eaves(blk, z, overhang)
}

// eaves adds a skirt under an overhang of the given depth around blk,
// ending at the wall top z.
func (bl *building) eaves(blk block, z, overhang float64) {
	if overhang <= 0 {
		return
	}
	skirt := bl.use(bl.k.EaveSkirt(blk.w, blk.d, overhang))
	bl.add(bl.at(skirt, blk.x, blk.y, z-overhang))
}

// along returns where the world point (x, y) falls along face f of blk,
// in the wall frame OnFace uses.
func along(f components.Face, blk block, x, y float64) float64 {
	switch f {
	case components.Back:
		return blk.x - x
	case components.Right:
		return y - blk.y
	case components.Left:
		return blk.y - y
	}
	return x - blk.x
}

// overlapsX reports whether a window centered at x overlaps [x0, x1].
func (bl *building) overlapsX(x, x0, x1 float64) bool {
	half := bl.winW/2 + bl.k.P.MinWallThickness
	return x+half > x0 && x-half < x1
}

// pick returns one of the choices using the building's generator.
func pick[T any](bl *building, choices ...T) T {
	return choices[bl.rng.Intn(len(choices))]
}
