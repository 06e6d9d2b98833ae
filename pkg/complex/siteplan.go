package complex

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// sitePlanScale is pixels per millimetre.
const sitePlanScale = 4

var roleFill = map[Role]string{
	Main:     "#B86F52",
	Wing:     "#D9A07B",
	Annex:    "#E8C39E",
	Tower:    "#7A4A3A",
	Pavilion: "#9DB17C",
}

// SitePlan draws a top view of the lot and each footprint as SVG, north up.
func SitePlan(w io.Writer, lot Rect, ps []Placement) error {
	if lot.Width() <= 0 || lot.Depth() <= 0 {
		return fmt.Errorf("site plan: empty lot")
	}
	px := func(v float64) int { return int(math.Round(v * sitePlanScale)) }
	// Lot coordinates to canvas coordinates, flipping Y.
	cx := func(x float64) int { return px(x - lot.MinX) }
	cy := func(y float64) int { return px(lot.MaxY - y) }

	canvas := svg.New(w)
	canvas.Start(px(lot.Width()), px(lot.Depth()))
	canvas.Title("site plan")
	canvas.Rect(0, 0, px(lot.Width()), px(lot.Depth()), "fill:#FFF8E3;stroke:#5C4033;stroke-width:2")
	canvas.Gstyle("font-family:sans-serif;font-size:10px;text-anchor:middle")
	for i, p := range ps {
		f := p.Footprint()
		fill, ok := roleFill[p.Role]
		if !ok {
			fill = roleFill[Main]
		}
		canvas.Rect(cx(f.MinX), cy(f.MaxY), px(f.Width()), px(f.Depth()),
			fmt.Sprintf("fill:%s;stroke:#3B2A20;stroke-width:1", fill))
		canvas.Text(cx(p.X), cy(p.Y), fmt.Sprintf("%d %s", i+1, p.Role))
	}
	canvas.Gend()
	canvas.End()
	return nil
}
