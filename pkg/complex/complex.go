// Package complex builds hotel complexes: up to six buildings of one style
// laid out by a strategy or preset and mounted on a shared base plate.
package complex

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/logger"
	"github.com/chazu/hotelgen/pkg/profile"
	"github.com/chazu/hotelgen/pkg/styles"
	"github.com/chazu/hotelgen/pkg/tessellate"
	"github.com/chazu/hotelgen/pkg/validate"
)

// Limits on complex requests.
const (
	MaxBuildings = 6
	MinSpacing   = 2.0
	// RecessDepth is how deep each building's alignment pocket is cut into
	// the shared plate.
	RecessDepth = 0.3
	// recessClearance is added to each pocket's width and depth.
	recessClearance = 0.2
)

// Params is one complex request. With a preset, zero fields take the
// preset's values.
type Params struct {
	Style        string         `json:"style" yaml:"style"`
	Buildings    int            `json:"num_buildings" yaml:"num_buildings"`
	Spacing      float64        `json:"building_spacing" yaml:"building_spacing"`
	Printer      string         `json:"printer_type" yaml:"printer_type"`
	Seed         int64          `json:"seed" yaml:"seed"`
	MaxTriangles int            `json:"max_triangles" yaml:"max_triangles"`
	StyleParams  map[string]any `json:"style_params,omitempty" yaml:"style_params,omitempty"`
	// LotWidth and LotDepth, when both set, bound the layout. The plate
	// is never smaller than the lot.
	LotWidth   float64     `json:"lot_width,omitempty" yaml:"lot_width,omitempty"`
	LotDepth   float64     `json:"lot_depth,omitempty" yaml:"lot_depth,omitempty"`
	Placements []Placement `json:"placements,omitempty" yaml:"placements,omitempty"`
	Roles      []Role      `json:"roles,omitempty" yaml:"roles,omitempty"`
	Preset     string      `json:"preset,omitempty" yaml:"preset,omitempty"`
	Strategy   string      `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	// Base is the building roles are sized from. Zero means DefaultBase.
	Base Base `json:"base" yaml:"base"`
}

// DefaultParams returns the default request for a style.
func DefaultParams(style string) Params {
	return Params{
		Style:        style,
		Buildings:    3,
		Spacing:      5,
		Printer:      "fdm",
		Seed:         42,
		MaxTriangles: 200000,
	}
}

// Layout is a resolved complex: what will be built where.
type Layout struct {
	Style      string      `json:"style"`
	Strategy   string      `json:"strategy"`
	Preset     string      `json:"preset,omitempty"`
	BendAngle  float64     `json:"bend_angle,omitempty"`
	Placements []Placement `json:"placements"`
	// Lot is the area the placements cover, without margin.
	Lot Rect `json:"lot"`
}

// Piece is one finished printable solid: meshed, grounded at z=0, fitted
// to its triangle budget and inspected.
type Piece struct {
	Solid      kernel.Solid     `json:"-"`
	Mesh       *kernel.Mesh     `json:"-"`
	Triangles  int              `json:"triangle_count"`
	Min        [3]float64       `json:"min"`
	Max        [3]float64       `json:"max"`
	Watertight bool             `json:"is_watertight"`
	Issues     []validate.Issue `json:"issues"`
	Warnings   []string         `json:"warnings"`
}

// Result is a finished complex.
type Result struct {
	Layout    Layout          `json:"layout"`
	Buildings []*build.Result `json:"buildings"`
	Plate     Rect            `json:"plate"`
	Base      kernel.Solid    `json:"-"`
	Piece
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how a complex was produced.
type Metadata struct {
	ID           string    `json:"id"`
	Style        string    `json:"style"`
	Strategy     string    `json:"strategy"`
	Preset       string    `json:"preset,omitempty"`
	Printer      string    `json:"printer_type"`
	Seed         int64     `json:"seed"`
	Buildings    int       `json:"num_buildings"`
	BendAngle    float64   `json:"bend_angle,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
	GenerationMS int64     `json:"generation_time_ms"`
}

// Builder builds complexes on top of a building Builder.
type Builder struct {
	builds *build.Builder
	log    *slog.Logger
}

// New returns a Builder that builds each building with b.
func New(b *build.Builder) *Builder {
	return &Builder{builds: b}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.log = l
	return b
}

func (b *Builder) logr() *slog.Logger {
	if b.log != nil {
		return b.log
	}
	return logger.With("component", "complex")
}

// Plan resolves p into a layout and validates every building request, all
// without geometry work.
func (b *Builder) Plan(p Params) (Layout, []build.Params, error) {
	var preset Preset
	if p.Preset != "" {
		var err error
		if preset, err = LookupPreset(p.Preset); err != nil {
			return Layout{}, nil, err
		}
		if p.Style == "" {
			p.Style = preset.Style
		}
		if p.Buildings == 0 {
			p.Buildings = preset.Buildings()
		}
		if p.Buildings != preset.Buildings() && len(p.Placements) == 0 {
			return Layout{}, nil, errs.Invalid("num_buildings", "preset %s has %d buildings, got %d",
				preset.Name, preset.Buildings(), p.Buildings)
		}
		if len(p.Roles) == 0 {
			p.Roles = preset.Roles
		}
	}

	if p.Buildings < 1 || p.Buildings > MaxBuildings {
		return Layout{}, nil, errs.Invalid("num_buildings", "%d outside [1, %d]", p.Buildings, MaxBuildings)
	}
	if math.IsNaN(p.Spacing) || p.Spacing < MinSpacing {
		return Layout{}, nil, errs.Invalid("building_spacing", "must be at least %g mm, got %g", MinSpacing, p.Spacing)
	}
	if p.Placements != nil && len(p.Placements) != p.Buildings {
		return Layout{}, nil, errs.Invalid("placements", "%d placements for %d buildings", len(p.Placements), p.Buildings)
	}
	if p.Roles != nil && len(p.Roles) != p.Buildings {
		return Layout{}, nil, errs.Invalid("roles", "%d roles for %d buildings", len(p.Roles), p.Buildings)
	}
	for i, r := range p.Roles {
		if !lo.Contains(Roles, r) {
			return Layout{}, nil, errs.Invalid("roles", "building %d: unknown role %q", i, r)
		}
	}

	style, err := styles.Lookup(p.Style)
	if err != nil {
		return Layout{}, nil, err
	}
	l := Layout{Style: p.Style, Preset: preset.Name, BendAngle: preset.BendAngle}
	l.Strategy = lo.CoalesceOrEmpty(p.Strategy, preset.Strategy, style.PreferredLayout(), "row")

	if p.Placements != nil {
		l.Strategy = "explicit"
		l.Placements = append([]Placement(nil), p.Placements...)
	} else {
		strategy, err := lookupStrategy(l.Strategy)
		if err != nil {
			return Layout{}, nil, err
		}
		base := p.Base
		if base == (Base{}) {
			base = DefaultBase
		}
		in := layoutInput{
			n:        p.Buildings,
			rng:      rand.New(rand.NewSource(p.Seed)),
			base:     base,
			spacing:  p.Spacing,
			roles:    p.Roles,
			hints:    preset.Hints,
			explicit: p.Roles != nil,
		}
		if in.roles == nil {
			in.roles = defaultRoles(p.Buildings)
		}
		l.Placements = strategy(in)
	}

	for i, pl := range l.Placements {
		if _, ok := pl.quarterTurns(); !ok {
			return Layout{}, nil, errs.Invalid("placements", "building %d: rotation %g is not a multiple of 90", i, pl.Rotation)
		}
		if pl.Role == "" {
			l.Placements[i].Role = Main
		} else if !lo.Contains(Roles, pl.Role) {
			return Layout{}, nil, errs.Invalid("placements", "building %d: unknown role %q", i, pl.Role)
		}
	}
	overlaps, err := Overlapping(l.Placements)
	if err != nil {
		return Layout{}, nil, err
	}
	if len(overlaps) > 0 {
		return Layout{}, nil, errs.Invalid("placements", "%s layout overlaps buildings %d and %d",
			l.Strategy, overlaps[0][0], overlaps[0][1])
	}
	w, d, lot := LotBounds(l.Placements, 0)
	l.Lot = lot
	if p.LotWidth > 0 && p.LotDepth > 0 && (w > p.LotWidth || d > p.LotDepth) {
		return Layout{}, nil, errs.Invalid("lot", "buildings need %.1f x %.1f mm, lot is %g x %g mm", w, d, p.LotWidth, p.LotDepth)
	}

	per := p.MaxTriangles / p.Buildings
	reqs := make([]build.Params, len(l.Placements))
	for i, pl := range l.Placements {
		reqs[i] = build.Params{
			Style:        p.Style,
			Width:        pl.Width,
			Depth:        pl.Depth,
			Floors:       pl.Floors,
			FloorHeight:  pl.FloorHeight,
			Printer:      p.Printer,
			Seed:         p.Seed + int64(i),
			MaxTriangles: per,
			StyleParams:  p.StyleParams,
		}
		if err := b.builds.Validate(reqs[i]); err != nil {
			return Layout{}, nil, fmt.Errorf("building %d (%s): %w", i, pl.Role, err)
		}
	}
	return l, reqs, nil
}

// Placed is a complex's buildings before any plate: built without bases,
// turned and moved onto their placements and sunk into their pockets.
type Placed struct {
	Layout    Layout
	Buildings []*build.Result
	Solids    []kernel.Solid
	Warnings  []string
	Profile   profile.Profile
	Kit       *components.Kit
}

// Place plans p and builds its buildings in order with seeds Seed,
// Seed+1, ... and no base of their own.
func (b *Builder) Place(ctx context.Context, p Params) (*Placed, error) {
	l, reqs, err := b.Plan(p)
	if err != nil {
		return nil, err
	}
	prof, err := b.builds.Profile(p.Printer)
	if err != nil {
		return nil, err
	}
	g := geom.New(b.builds.Kernel(prof.MeshCellSize))
	out := &Placed{Layout: l, Profile: prof, Kit: components.New(g, prof)}
	sink := -RecessDepth - geom.Embed
	for i, req := range reqs {
		br, err := b.builds.BuildWith(ctx, req, build.Options{SkipBase: true})
		if err != nil {
			return nil, fmt.Errorf("building %d (%s): %w", i, l.Placements[i].Role, err)
		}
		out.Buildings = append(out.Buildings, br)
		for _, w := range br.Warnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("building %d: %s", i, w))
		}
		pl := l.Placements[i]
		s := br.Solid
		if q, _ := pl.quarterTurns(); q != 0 {
			s = g.RotateZ(s, float64(q)*90)
		}
		out.Solids = append(out.Solids, g.Translate(s, pl.X, pl.Y, sink))
	}
	return out, nil
}

// Build lays out and builds a complex: the placed buildings are unioned
// with a shared plate that has a pocket under each of them.
func (b *Builder) Build(ctx context.Context, p Params) (*Result, error) {
	start := time.Now()
	placed, err := b.Place(ctx, p)
	if err != nil {
		return nil, err
	}
	l, kit := placed.Layout, placed.Kit
	log := b.logr().With("style", l.Style, "strategy", l.Strategy, "seed", p.Seed)

	res := &Result{Layout: l, Buildings: placed.Buildings}
	base, plate, err := b.plate(kit, p, l)
	if err != nil {
		return nil, err
	}
	res.Base, res.Plate = base, plate

	piece, err := b.Finish(ctx, kit, append(placed.Solids, base), p.MaxTriangles, "complex")
	if err != nil {
		return nil, err
	}
	res.Piece = *piece
	res.Warnings = append(placed.Warnings, res.Warnings...)

	elapsed := time.Since(start)
	res.Metadata = Metadata{
		ID:           uuid.NewString(),
		Style:        l.Style,
		Strategy:     l.Strategy,
		Preset:       l.Preset,
		Printer:      placed.Profile.Name,
		Seed:         p.Seed,
		Buildings:    len(res.Buildings),
		BendAngle:    l.BendAngle,
		GeneratedAt:  start.UTC(),
		GenerationMS: elapsed.Milliseconds(),
	}
	log.Info("built complex", "buildings", len(res.Buildings), "triangles", res.Triangles,
		"watertight", res.Watertight, "elapsed", elapsed.Round(time.Millisecond))
	return res, nil
}

// Finish unions parts into one piece named name, meshes it, lifts it so
// it rests on z=0, reduces it to budget triangles when budget is positive
// and inspects it against the kit's profile.
func (b *Builder) Finish(ctx context.Context, kit *components.Kit, parts []kernel.Solid, budget int, name string) (*Piece, error) {
	g := kit.G
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	combined, err := g.UnionAll(parts)
	if err != nil {
		return nil, errs.InPhase(err, "combine", name)
	}
	mesh, err := tessellate.Solid(g.Kernel(), combined, name)
	if err != nil {
		return nil, errs.InPhase(err, "mesh", name)
	}
	if mesh.IsEmpty() {
		return nil, errs.Geometry("mesh", name, "combined solid produced no triangles")
	}
	if mn, _ := mesh.Bounds(); mn[2] != 0 {
		mesh.Translate(0, 0, -mn[2])
		combined = g.Translate(combined, 0, 0, -mn[2])
	}
	piece := &Piece{}
	if budget > 0 && mesh.TriangleCount() > budget {
		var note string
		mesh, note, _ = b.builds.Reduce(mesh, budget)
		piece.Warnings = append(piece.Warnings, note)
	}
	piece.Solid, piece.Mesh = combined, mesh
	piece.Triangles = mesh.TriangleCount()
	piece.Min, piece.Max = mesh.Bounds()
	issues, a := validate.Inspect(mesh, validate.DefaultLimits(kit.P))
	piece.Issues, piece.Watertight = issues, a.Watertight()
	for _, is := range validate.Warnings(issues) {
		piece.Warnings = append(piece.Warnings, is.String())
	}
	return piece, nil
}

// plate builds the shared base: a chamfered slab covering the lot plus a
// base-thickness margin, centered on the layout, with an alignment pocket
// under every building.
func (b *Builder) plate(kit *components.Kit, p Params, l Layout) (kernel.Solid, Rect, error) {
	g := kit.G
	margin := kit.P.BaseThickness
	w, d, r := LotBounds(l.Placements, margin)
	w, d = math.Max(w, p.LotWidth), math.Max(d, p.LotDepth)
	cx, cy := (r.MinX+r.MaxX)/2, (r.MinY+r.MaxY)/2
	plate := Rect{MinX: cx - w/2, MinY: cy - d/2, MaxX: cx + w/2, MaxY: cy + d/2}

	slab, err := kit.BasePlate(w, d)
	if err != nil {
		return nil, plate, errs.InPhase(err, "plate", "base plate")
	}
	slab = g.Translate(slab, cx, cy, 0)

	pockets, err := Pockets(g, l.Placements, 0, 0)
	if err != nil {
		return nil, plate, err
	}
	slab, err = g.Difference(slab, pockets)
	if err != nil {
		return nil, plate, errs.InPhase(err, "plate", "alignment recesses")
	}
	return slab, plate, nil
}

// Pockets returns the alignment recess cutters for ps moved by (dx, dy):
// one box per footprint, RecessDepth deep below the plate top and
// recessClearance wider and deeper than the building.
func Pockets(g *geom.G, ps []Placement, dx, dy float64) ([]kernel.Solid, error) {
	bl := g.Begin("alignment recesses")
	pockets := make([]kernel.Solid, 0, len(ps))
	for _, pl := range ps {
		f := pl.Footprint()
		pocket := bl.Box(f.Width()+recessClearance, f.Depth()+recessClearance, RecessDepth+geom.Embed+geom.Overshoot)
		pockets = append(pockets, bl.Translate(pocket, pl.X+dx, pl.Y+dy, -RecessDepth))
	}
	if err := bl.Err(); err != nil {
		return nil, err
	}
	return pockets, nil
}
