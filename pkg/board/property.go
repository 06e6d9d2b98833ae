package board

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/logger"
	"github.com/chazu/hotelgen/pkg/styles"
)

const (
	// fitAttempts bounds how often the building base is shrunk to fit a lot.
	fitAttempts = 6
	// minFitWidth is the narrowest base worth shrinking to.
	minFitWidth = 6.0
)

// Pool rim size, in mm.
const (
	poolRimWidth  = 1.0
	poolRimHeight = 0.6
)

// Builder builds property plates and boards on top of a complex Builder.
type Builder struct {
	builds    *build.Builder
	complexes *complex.Builder
	log       *slog.Logger
}

// New returns a Builder that builds each building with b.
func New(b *build.Builder) *Builder {
	return &Builder{builds: b, complexes: complex.New(b)}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.log = l
	b.complexes.WithLogger(l)
	return b
}

func (b *Builder) logr() *slog.Logger {
	if b.log != nil {
		return b.log
	}
	return logger.With("component", "board")
}

// PropertyPlan is a resolved property: where the buildings and the
// landscaping go on the plate, in property coordinates.
type PropertyPlan struct {
	Lot       complex.Rect `json:"lot"`
	Zone      complex.Rect `json:"building_zone"`
	RoadWidth float64      `json:"road_width"`
	RoadEdge  string       `json:"road_edge"`
	Rotation  float64      `json:"rotation"`
	// Complex is the request the buildings are built from. Its layout is
	// in complex coordinates; Offset moves it onto the plate.
	Complex complex.Params      `json:"complex"`
	Layout  complex.Layout      `json:"layout"`
	Offset  [2]float64          `json:"offset"`
	Theme   *styles.GardenTheme `json:"garden_theme,omitempty"`
	Garden  []Feature           `json:"garden"`
}

// PlanProperty lays out a property without geometry work. The buildings'
// base size is shrunk until the complex fits the lot's building zone.
func (b *Builder) PlanProperty(p PropertyParams) (PropertyPlan, error) {
	if err := p.Validate(); err != nil {
		return PropertyPlan{}, err
	}
	zone := p.zone()
	cp, l, err := b.fit(p, zone)
	if err != nil {
		return PropertyPlan{}, err
	}
	dx := (zone.MinX+zone.MaxX)/2 - (l.Lot.MinX+l.Lot.MaxX)/2
	dy := (zone.MinY+zone.MaxY)/2 - (l.Lot.MinY+l.Lot.MaxY)/2
	shifted := l
	shifted.Placements = make([]complex.Placement, len(l.Placements))
	for i, pl := range l.Placements {
		pl.X += dx
		pl.Y += dy
		shifted.Placements[i] = pl
	}
	shifted.Lot = complex.Rect{MinX: l.Lot.MinX + dx, MinY: l.Lot.MinY + dy, MaxX: l.Lot.MaxX + dx, MaxY: l.Lot.MaxY + dy}

	plan := PropertyPlan{
		Lot:       p.Lot(),
		Zone:      zone,
		RoadWidth: p.RoadWidth,
		RoadEdge:  p.RoadEdge,
		Rotation:  edgeRotation[p.RoadEdge],
		Complex:   cp,
		Layout:    shifted,
		Offset:    [2]float64{dx, dy},
	}
	if p.Garden {
		style, err := styles.Lookup(l.Style)
		if err != nil {
			return PropertyPlan{}, err
		}
		theme := style.Garden()
		plan.Theme = &theme
		plan.Garden = LayoutGarden(GardenInput{
			LotWidth:  p.LotWidth,
			LotDepth:  p.LotDepth,
			RoadWidth: p.RoadWidth,
			Buildings: shifted.Placements,
			Theme:     theme,
			Rand:      rand.New(rand.NewSource(p.Seed)),
		})
	}
	return plan, nil
}

// fit plans the complex from the default base and shrinks the base until
// the layout fits zone. The returned params carry the zone as their lot.
func (b *Builder) fit(p PropertyParams, zone complex.Rect) (complex.Params, complex.Layout, error) {
	cp := complex.Params{
		Style:        p.Style,
		Buildings:    p.Buildings,
		Spacing:      p.Spacing,
		Printer:      p.Printer,
		Seed:         p.Seed,
		MaxTriangles: p.MaxTriangles,
		StyleParams:  p.StyleParams,
		Preset:       p.Preset,
		Base:         complex.DefaultBase,
	}
	if p.Preset != "" {
		cp.Style, cp.Buildings = "", 0
	}
	for range fitAttempts {
		l, _, err := b.complexes.Plan(cp)
		if err != nil {
			return cp, l, err
		}
		s := math.Min(zone.Width()/l.Lot.Width(), zone.Depth()/l.Lot.Depth())
		if s >= 1 {
			cp.LotWidth, cp.LotDepth = zone.Width(), zone.Depth()
			return cp, l, nil
		}
		cp.Base.Width *= s * 0.97
		cp.Base.Depth *= s * 0.97
		if cp.Base.Width < minFitWidth {
			break
		}
	}
	return cp, complex.Layout{}, errs.Invalid("lot", "a %gx%g mm lot with a %g mm road has no room for the buildings",
		p.LotWidth, p.LotDepth, p.RoadWidth)
}

// Property is a finished property plate.
type Property struct {
	Plan      PropertyPlan    `json:"plan"`
	Buildings []*build.Result `json:"buildings"`
	complex.Piece
	Metadata PropertyMetadata `json:"metadata"`
}

// PropertyMetadata describes how a property was produced.
type PropertyMetadata struct {
	ID             string    `json:"id"`
	Style          string    `json:"style"`
	Preset         string    `json:"preset,omitempty"`
	Printer        string    `json:"printer_type"`
	Seed           int64     `json:"seed"`
	Buildings      int       `json:"num_buildings"`
	GardenFeatures int       `json:"garden_features"`
	RoadEdge       string    `json:"road_edge"`
	Rotation       float64   `json:"rotation"`
	GeneratedAt    time.Time `json:"generated_at"`
	GenerationMS   int64     `json:"generation_time_ms"`
}

// Property builds a property plate: a chamfered lot with a curbed road
// strip along its south edge, the complex's buildings sunk into pockets,
// and the style's landscaping. The plate is always modelled road-south;
// RoadEdge only records how it is turned on a board.
func (b *Builder) Property(ctx context.Context, p PropertyParams) (*Property, error) {
	start := time.Now()
	plan, err := b.PlanProperty(p)
	if err != nil {
		return nil, err
	}
	placed, err := b.complexes.Place(ctx, plan.Complex)
	if err != nil {
		return nil, err
	}
	kit, g := placed.Kit, placed.Kit.G
	log := b.logr().With("style", plan.Layout.Style, "preset", plan.Layout.Preset, "seed", p.Seed)

	parts := make([]kernel.Solid, 0, len(placed.Solids)+len(plan.Garden)+2)
	for _, s := range placed.Solids {
		parts = append(parts, g.Translate(s, plan.Offset[0], plan.Offset[1], 0))
	}

	cutters, err := complex.Pockets(g, placed.Layout.Placements, plan.Offset[0], plan.Offset[1])
	if err != nil {
		return nil, err
	}
	garden, basins, err := b.landscape(kit, plan.Garden)
	if err != nil {
		return nil, err
	}
	cutters = append(cutters, basins...)
	parts = append(parts, garden...)

	plate, err := b.plate(kit, p, cutters)
	if err != nil {
		return nil, err
	}
	parts = append(parts, plate...)

	piece, err := b.complexes.Finish(ctx, kit, parts, p.MaxTriangles, "property")
	if err != nil {
		return nil, err
	}
	res := &Property{Plan: plan, Buildings: placed.Buildings, Piece: *piece}
	res.Warnings = append(placed.Warnings, res.Warnings...)

	elapsed := time.Since(start)
	res.Metadata = PropertyMetadata{
		ID:             uuid.NewString(),
		Style:          plan.Layout.Style,
		Preset:         plan.Layout.Preset,
		Printer:        placed.Profile.Name,
		Seed:           p.Seed,
		Buildings:      len(res.Buildings),
		GardenFeatures: len(plan.Garden),
		RoadEdge:       p.RoadEdge,
		Rotation:       plan.Rotation,
		GeneratedAt:    start.UTC(),
		GenerationMS:   elapsed.Milliseconds(),
	}
	log.Info("built property", "buildings", len(res.Buildings), "garden", len(plan.Garden),
		"triangles", res.Triangles, "watertight", res.Watertight, "elapsed", elapsed.Round(time.Millisecond))
	return res, nil
}

// plate returns the lot slab with cutters removed, its road lane recessed,
// and the curbs on top.
func (b *Builder) plate(kit *components.Kit, p PropertyParams, cutters []kernel.Solid) ([]kernel.Solid, error) {
	g := kit.G
	slab, err := kit.BasePlate(p.LotWidth, p.LotDepth)
	if err != nil {
		return nil, errs.InPhase(err, "plate", "property plate")
	}
	slab = g.Translate(slab, 0, p.LotDepth/2, 0)

	bl := g.Begin("road lane")
	lane := bl.Box(p.LotWidth-2, p.RoadWidth-2*components.CurbWidth, components.RoadRecess+geom.Embed+geom.Overshoot)
	lane = bl.Translate(lane, 0, p.RoadWidth/2, -components.RoadRecess)
	if err := bl.Err(); err != nil {
		return nil, err
	}
	slab, err = g.Difference(slab, append(cutters, lane))
	if err != nil {
		return nil, errs.InPhase(err, "plate", "property plate")
	}
	curbs, err := kit.Curbs(p.LotWidth, p.RoadWidth)
	if err != nil {
		return nil, err
	}
	return []kernel.Solid{slab, g.Translate(curbs, 0, p.RoadWidth/2, 0)}, nil
}

// landscape builds the garden features. Pool basins come back as cutters
// for the plate.
func (b *Builder) landscape(kit *components.Kit, features []Feature) (parts, cutters []kernel.Solid, err error) {
	g := kit.G
	for i, f := range features {
		var s kernel.Solid
		switch f.Kind {
		case TreeFeature:
			s, err = kit.Tree(f.Tree, f.Height, f.Canopy)
		case HedgeFeature:
			if s, err = kit.Hedge(f.Length, f.Height, f.Width); err == nil && f.Rotation != 0 {
				s = g.RotateZ(s, f.Rotation)
			}
		case TerraceFeature:
			s, err = kit.Terrace(f.Width, f.Depth, f.Height)
		case PathFeature:
			// Path points are already in lot coordinates.
			if s, err = kit.Path(f.Points, f.Width, f.Height); err == nil {
				parts = append(parts, s)
			}
			s = nil
		case PoolFeature:
			var basin kernel.Solid
			if s, basin, err = kit.Pool(f.Pool, f.Width, f.Depth, poolRimWidth, poolRimHeight); err == nil {
				// The plate top is at Embed.
				cutters = append(cutters, g.Translate(basin, f.X, f.Y, geom.Embed))
			}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("garden feature %d (%s): %w", i, f.Kind, err)
		}
		if s != nil {
			parts = append(parts, g.Translate(s, f.X, f.Y, 0))
		}
	}
	return parts, cutters, nil
}
