package board

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/hotelgen/pkg/complex"
)

// planScale is pixels per millimetre.
const planScale = 4

var featureFill = map[FeatureKind]string{
	TreeFeature:    "#4F7942",
	HedgeFeature:   "#6B8E23",
	PoolFeature:    "#6CB4D9",
	PathFeature:    "#CDB891",
	TerraceFeature: "#D8C7A8",
}

var pieceFill = map[string]string{
	RoadPiece:   "#8A8A8A",
	CornerPiece: "#6F6F6F",
	RailPiece:   "#5C4033",
}

// canvas maps plan coordinates onto an SVG canvas, north up.
type canvas struct {
	*svg.SVG
	area complex.Rect
}

func newCanvas(w io.Writer, area complex.Rect, title string) (*canvas, error) {
	if area.Width() <= 0 || area.Depth() <= 0 {
		return nil, fmt.Errorf("%s: empty area", title)
	}
	c := &canvas{SVG: svg.New(w), area: area}
	c.Start(c.px(area.Width()), c.px(area.Depth()))
	c.Title(title)
	return c, nil
}

func (c *canvas) px(v float64) int { return int(math.Round(v * planScale)) }
func (c *canvas) x(v float64) int  { return c.px(v - c.area.MinX) }
func (c *canvas) y(v float64) int  { return c.px(c.area.MaxY - v) }

func (c *canvas) box(r complex.Rect, style string) {
	c.Rect(c.x(r.MinX), c.y(r.MaxY), c.px(r.Width()), c.px(r.Depth()), style)
}

// DrawProperty draws a top view of a planned property as SVG: the plate,
// its road strip, the buildings and the landscaping.
func DrawProperty(w io.Writer, plan PropertyPlan) error {
	c, err := newCanvas(w, plan.Lot, "property plan")
	if err != nil {
		return err
	}
	c.box(plan.Lot, "fill:#E9F0D8;stroke:#5C4033;stroke-width:2")
	road := complex.Rect{MinX: plan.Lot.MinX, MinY: plan.Lot.MinY, MaxX: plan.Lot.MaxX, MaxY: plan.Lot.MinY + plan.RoadWidth}
	c.box(road, "fill:"+pieceFill[RoadPiece])
	for _, f := range plan.Garden {
		fill := "fill:" + featureFill[f.Kind]
		switch f.Kind {
		case TreeFeature:
			c.Circle(c.x(f.X), c.y(f.Y), c.px(f.Canopy), fill)
		case PathFeature:
			xs := make([]int, len(f.Points))
			ys := make([]int, len(f.Points))
			for i, p := range f.Points {
				xs[i], ys[i] = c.x(p[0]), c.y(p[1])
			}
			c.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", featureFill[f.Kind], c.px(f.Width)))
		default:
			c.box(f.Footprint(), fill)
		}
	}
	c.Gstyle("font-family:sans-serif;font-size:10px;text-anchor:middle")
	for i, p := range plan.Layout.Placements {
		c.box(p.Footprint(), "fill:#B86F52;stroke:#3B2A20;stroke-width:1")
		c.Text(c.x(p.X), c.y(p.Y), fmt.Sprintf("%d %s", i+1, p.Role))
	}
	c.Gend()
	c.End()
	return nil
}

// DrawBoard draws a top view of a planned board as SVG: each property
// slot labelled with its preset, and every loose piece.
func DrawBoard(w io.Writer, l Layout, propertyWidth, propertyDepth float64) error {
	c, err := newCanvas(w, l.Bounds, "board plan")
	if err != nil {
		return err
	}
	c.box(l.Bounds, "fill:#FFF8E3")
	for _, f := range l.Pieces {
		c.box(f.Footprint(), "fill:"+pieceFill[f.Kind])
	}
	c.Gstyle("font-family:sans-serif;font-size:14px;text-anchor:middle")
	for _, s := range l.Slots {
		c.box(s.Footprint(propertyWidth, propertyDepth), "fill:#E9F0D8;stroke:#3B2A20;stroke-width:1")
		c.Text(c.x(s.X), c.y(s.Y), fmt.Sprintf("%d %s", s.Index+1, s.Preset))
	}
	c.Gend()
	c.End()
	return nil
}
