package styles

import (
	"math"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/massing"
)

type tropical struct{ meta }

// Tropical is a raised house on stilts under deep hipped eaves.
var Tropical Style = tropical{meta{
	name:        "tropical",
	display:     "Tropical",
	description: "Body raised on a grid of stilts under a deep hipped or pagoda roof with a second roof tier.",
	layout:      "cluster",
	minFloors:   3,
	schema: Schema{
		boolParam("stilts", true, "raise the body one floor on stilts"),
		boolParam("second_tier", true, "smaller hipped roof above the main one"),
		enumParam("roof", "hipped", []string{"hipped", "pagoda"}, "roof form"),
	},
}}

func (s tropical) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	main := bl.main()

	stilts := bl.p.Bool("stilts")
	lift, bodyFloors := 0.0, bl.floors
	if stilts {
		lift, bodyFloors = bl.fh, bl.floors-1
	}
	bl.shell(massing.Rect(bl.g, bl.w, bl.d, float64(bodyFloors)*bl.fh))
	bl.plan.Shell = bl.at(bl.plan.Shell, 0, 0, lift)

	for _, face := range components.AllFaces {
		bl.windows(bl.grid(face.Span(bl.w, bl.d), bodyFloors, lift, !stilts), main, face)
	}
	if stilts {
		h := lift + geom.Embed
		cw := k.ColumnWidth(sc.ColumnWidth(), h)
		col := bl.use(k.SquareColumn(cw, h))
		for _, x := range stiltLine(bl.w, cw, k.P.MaxBridgeSpan) {
			for _, y := range stiltLine(bl.d, cw, k.P.MaxBridgeSpan) {
				bl.add(bl.at(col, x, y, 0))
			}
		}
	} else {
		bl.door(main, 0, 0)
	}

	o := sc.EaveOverhang() * 1.5
	if bl.p.String("roof") == "pagoda" {
		pagoda := bl.use(k.PagodaRoof(bl.w, bl.d, bl.fh*0.8, 2, o, 0.7))
		bl.add(bl.at(pagoda, 0, 0, bl.h-geom.Embed))
		return bl.done()
	}

	W, D := bl.w+2*o, bl.d+2*o
	peak := components.GablePeak(math.Min(W, D), bl.fh)
	bl.roof(bl.use(k.HippedRoof(W, D, peak)), main, bl.h, o)

	if bl.p.Bool("second_tier") {
		sw, sd, so := bl.w*0.6, bl.d*0.6, o/2
		// The upper skirt's foot must stay inside the main roof.
		slope := peak / (math.Min(W, D) / 2)
		foot := bl.h - 2*geom.Embed + slope*(0.2*math.Min(bl.w, bl.d)+o)
		z := math.Min(bl.h+bl.fh*0.5, foot+so)
		upper := bl.use(k.HippedRoof(sw+2*so, sd+2*so, bl.fh*0.6))
		bl.roof(upper, block{w: sw, d: sd}, z, so)
	}
	return bl.done()
}

// stiltLine returns stilt centers across a span, spaced so the clear gap
// between neighbours never exceeds maxSpan. There is always a stilt at each
// end.
func stiltLine(span, cw, maxSpan float64) []float64 {
	run := span - cw
	n := 1
	if maxSpan > 0 {
		n = max(1, int(math.Ceil(run/(maxSpan+cw))))
	}
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, -run/2+float64(i)*run/float64(n))
	}
	return out
}
