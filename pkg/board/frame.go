package board

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/complex"
)

// Kinds of loose board pieces.
const (
	RoadPiece   = "road"
	CornerPiece = "road_corner"
	RailPiece   = "frame_rail"
)

// FramePiece is one loose piece that joins the property plates: a road
// section between facing rows, a corner of a loop, or a border rail. The
// piece is modelled along X and placed by turning it Rotation degrees and
// moving it to X, Y.
type FramePiece struct {
	Kind     string  `json:"piece_type"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
}

// Footprint returns the piece's extent on the board.
func (f FramePiece) Footprint() complex.Rect {
	s := Slot{X: f.X, Y: f.Y, Rotation: f.Rotation}
	return s.Footprint(f.Length, f.Width)
}

// Frame returns the road and rail pieces for a board laid out as slots.
func Frame(p BoardParams, slots []Slot) []FramePiece {
	if len(slots) == 0 {
		return nil
	}
	gap := roadGap(p.RoadWidth)
	var pieces []FramePiece
	if p.RoadShape == Loop && len(slots) > 2 {
		pieces = loopRoads(slots, p.PropertyWidth, gap)
	} else {
		pieces = straightRoads(slots, p.PropertyWidth, gap)
	}
	if p.Frame.Enabled {
		pieces = append(pieces, rails(p, slots, pieces)...)
	}
	return pieces
}

func label(kind string, i int) string {
	return fmt.Sprintf("%s_%02d", kind, i)
}

// straightRoads puts one road section in front of every column of a board
// whose rows face each other across y=0. Sections are a column pitch long
// so they meet end to end.
func straightRoads(slots []Slot, w, gap float64) []FramePiece {
	xs := lo.Uniq(lo.Map(slots, func(s Slot, _ int) float64 { return s.X }))
	pieces := make([]FramePiece, len(xs))
	for i, x := range xs {
		pieces[i] = FramePiece{Kind: RoadPiece, Label: label(RoadPiece, i+1), X: x, Length: w + plotGap, Width: gap}
	}
	return pieces
}

// loopRoads puts a corner piece where the road centerlines cross and tiles
// each side between the corners with one section per property on that
// side, at least one.
func loopRoads(slots []Slot, w, gap float64) []FramePiece {
	counts := loopSides(len(slots))
	rw, rh := ringSize(counts, w)
	var pieces []FramePiece
	add := func(kind string, x, y, rotation, length, width float64) {
		n := 1 + lo.CountBy(pieces, func(f FramePiece) bool { return f.Kind == kind })
		pieces = append(pieces, FramePiece{Kind: kind, Label: label(kind, n), X: x, Y: y,
			Rotation: rotation, Length: length, Width: width})
	}
	sides := []struct {
		count      int
		span       float64
		horizontal bool
		at         float64
	}{
		{counts[0], rw, true, -rh / 2},
		{counts[1], rh, false, -rw / 2},
		{counts[2], rw, true, rh / 2},
		{counts[3], rh, false, rw / 2},
	}
	for _, side := range sides {
		n := max(side.count, 1)
		run := side.span - gap
		length := run / float64(n)
		for j := range n {
			along := -run/2 + (float64(j)+0.5)*length
			if side.horizontal {
				add(RoadPiece, along, side.at, 0, length, gap)
			} else {
				add(RoadPiece, side.at, along, 90, length, gap)
			}
		}
	}
	for _, c := range [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		add(CornerPiece, c[0]*rw/2, c[1]*rh/2, 0, gap, gap)
	}
	return pieces
}

// rails frames everything placed so far. The bottom and top rails run the
// full width including the corners; the side rails fit between them. Each
// rail's lip is on its outer edge.
func rails(p BoardParams, slots []Slot, roads []FramePiece) []FramePiece {
	var all []complex.Rect
	for _, s := range slots {
		all = append(all, s.Footprint(p.PropertyWidth, p.PropertyDepth))
	}
	for _, r := range roads {
		all = append(all, r.Footprint())
	}
	b := all[0]
	for _, r := range all[1:] {
		b = complex.Rect{
			MinX: min(b.MinX, r.MinX), MinY: min(b.MinY, r.MinY),
			MaxX: max(b.MaxX, r.MaxX), MaxY: max(b.MaxY, r.MaxY),
		}
	}
	fw := p.Frame.Width
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	long, short := b.Width()+2*fw, b.Depth()
	return []FramePiece{
		{Kind: RailPiece, Label: "rail_bottom", X: cx, Y: b.MinY - fw/2, Rotation: 180, Length: long, Width: fw},
		{Kind: RailPiece, Label: "rail_top", X: cx, Y: b.MaxY + fw/2, Rotation: 0, Length: long, Width: fw},
		{Kind: RailPiece, Label: "rail_left", X: b.MinX - fw/2, Y: cy, Rotation: 90, Length: short, Width: fw},
		{Kind: RailPiece, Label: "rail_right", X: b.MaxX + fw/2, Y: cy, Rotation: -90, Length: short, Width: fw},
	}
}
