package board

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// seedStride separates the seeds of neighbouring properties on a board.
const seedStride = 100

// Layout is a resolved board: every property slot and loose piece, and
// the area they cover together.
type Layout struct {
	RoadShape string       `json:"road_shape"`
	Slots     []Slot       `json:"slots"`
	Pieces    []FramePiece `json:"pieces"`
	Bounds    complex.Rect `json:"bounds"`
}

// PlanBoard lays out a board without geometry work.
func (b *Builder) PlanBoard(p BoardParams) (Layout, error) {
	slots, err := Slots(p)
	if err != nil {
		return Layout{}, err
	}
	l := Layout{RoadShape: p.RoadShape, Slots: slots, Pieces: Frame(p, slots)}
	rects := make([]complex.Rect, 0, len(slots)+len(l.Pieces))
	for _, s := range slots {
		rects = append(rects, s.Footprint(p.PropertyWidth, p.PropertyDepth))
	}
	for _, f := range l.Pieces {
		rects = append(rects, f.Footprint())
	}
	l.Bounds = rects[0]
	for _, r := range rects[1:] {
		l.Bounds.MinX, l.Bounds.MinY = min(l.Bounds.MinX, r.MinX), min(l.Bounds.MinY, r.MinY)
		l.Bounds.MaxX, l.Bounds.MaxY = max(l.Bounds.MaxX, r.MaxX), max(l.Bounds.MaxY, r.MaxY)
	}
	return l, nil
}

// PropertyParams returns the request for the property in slot s.
func (p BoardParams) PropertyParams(s Slot) PropertyParams {
	pp := DefaultPropertyParams()
	pp.Preset = s.Preset
	pp.Style, pp.Buildings = "", 0
	pp.LotWidth, pp.LotDepth = p.PropertyWidth, p.PropertyDepth
	pp.RoadEdge = s.RoadEdge
	pp.RoadWidth = p.RoadWidth
	pp.Garden = p.Garden
	pp.Printer = p.Printer
	pp.Seed = p.Seed + int64(s.Index)*seedStride
	pp.MaxTriangles = p.MaxTriangles
	return pp
}

// BuiltPiece is a finished loose board piece, modelled at the origin.
type BuiltPiece struct {
	FramePiece
	complex.Piece
}

// Board is a finished game board: one plate per property plus the loose
// road and frame pieces, each printed on its own.
type Board struct {
	Layout     Layout        `json:"layout"`
	Properties []*Property   `json:"properties"`
	Pieces     []*BuiltPiece `json:"pieces"`
	Metadata   BoardMetadata `json:"metadata"`
}

// Triangles is the triangle count over every printed piece.
func (bd *Board) Triangles() int {
	n := 0
	for _, p := range bd.Properties {
		n += p.Triangles
	}
	for _, p := range bd.Pieces {
		n += p.Triangles
	}
	return n
}

// Watertight reports whether every printed piece is watertight.
func (bd *Board) Watertight() bool {
	for _, p := range bd.Properties {
		if !p.Watertight {
			return false
		}
	}
	for _, p := range bd.Pieces {
		if !p.Watertight {
			return false
		}
	}
	return true
}

// BoardMetadata describes how a board was produced.
type BoardMetadata struct {
	ID           string    `json:"id"`
	RoadShape    string    `json:"road_shape"`
	Properties   int       `json:"num_properties"`
	Pieces       int       `json:"num_pieces"`
	Printer      string    `json:"printer_type"`
	Seed         int64     `json:"seed"`
	Triangles    int       `json:"total_triangles"`
	GeneratedAt  time.Time `json:"generated_at"`
	GenerationMS int64     `json:"generation_time_ms"`
}

// Board builds every property of a board in slot order, then its loose
// pieces. Slot i is seeded Seed+100*i.
func (b *Builder) Board(ctx context.Context, p BoardParams) (*Board, error) {
	start := time.Now()
	l, err := b.PlanBoard(p)
	if err != nil {
		return nil, err
	}
	log := b.logr().With("road_shape", p.RoadShape, "seed", p.Seed)
	bd := &Board{Layout: l}
	for _, s := range l.Slots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prop, err := b.Property(ctx, p.PropertyParams(s))
		if err != nil {
			return nil, fmt.Errorf("property %d (%s): %w", s.Index, s.Preset, err)
		}
		bd.Properties = append(bd.Properties, prop)
	}

	prof, err := b.builds.Profile(p.Printer)
	if err != nil {
		return nil, err
	}
	kit := components.New(geom.New(b.builds.Kernel(prof.MeshCellSize)), prof)
	for _, f := range l.Pieces {
		s, err := framePiece(kit, p, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Label, err)
		}
		piece, err := b.complexes.Finish(ctx, kit, []kernel.Solid{s}, 0, f.Label)
		if err != nil {
			return nil, err
		}
		bd.Pieces = append(bd.Pieces, &BuiltPiece{FramePiece: f, Piece: *piece})
	}

	elapsed := time.Since(start)
	bd.Metadata = BoardMetadata{
		ID:           uuid.NewString(),
		RoadShape:    p.RoadShape,
		Properties:   len(bd.Properties),
		Pieces:       len(bd.Pieces),
		Printer:      prof.Name,
		Seed:         p.Seed,
		Triangles:    bd.Triangles(),
		GeneratedAt:  start.UTC(),
		GenerationMS: elapsed.Milliseconds(),
	}
	log.Info("built board", "properties", len(bd.Properties), "pieces", len(bd.Pieces),
		"triangles", bd.Metadata.Triangles, "elapsed", elapsed.Round(time.Millisecond))
	return bd, nil
}

func framePiece(kit *components.Kit, p BoardParams, f FramePiece) (kernel.Solid, error) {
	switch f.Kind {
	case RoadPiece:
		return kit.RoadSection(f.Length, f.Width)
	case CornerPiece:
		return kit.RoadCorner(f.Length)
	case RailPiece:
		return kit.FrameRail(f.Length, f.Width, p.Frame.LipHeight, p.Frame.LipThickness)
	}
	return nil, fmt.Errorf("unknown piece kind %q", f.Kind)
}
