package styles

import (
	"math"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/massing"
)

type modern struct{ meta }

// Modern is a flat-roofed box with a regular window grid on every side.
var Modern Style = modern{meta{
	name:        "modern",
	display:     "Modern",
	description: "Flat roof with parapet, window grid on all sides, optional penthouse and cantilevered upper floors.",
	layout:      "campus",
	minFloors:   3,
	schema: Schema{
		boolParam("has_penthouse", true, "set-back penthouse box on the roof"),
		boolParam("has_cantilever", false, "top two floors project over the front facade"),
		enumParam("window_style", "grid", []string{"grid", "band"}, "punched windows or one horizontal band per floor"),
	},
}}

func (s modern) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	main := bl.main()
	bl.shell(massing.Rect(bl.g, bl.w, bl.d, bl.h))

	cantilever := bl.p.Bool("has_cantilever") && bl.floors >= 3
	top := bl.floors - 2

	for _, face := range components.AllFaces {
		f := bl.grid(face.Span(bl.w, bl.d), bl.floors, 0, true)
		if bl.p.String("window_style") == "band" {
			f.Columns = 1
			f.WindowWidth = f.Width - 5*f.Margin
			f.WindowHeight = bl.winH * 0.7
		}
		if cantilever && face == components.Front {
			// The cantilever box closes these windows off.
			f.Skip = func(floor int, _ float64) bool { return floor >= top }
		}
		bl.windows(f, main, face)
	}
	bl.door(main, 0, 0)

	o := sc.RoofOverhang()
	slab := sc.RoofSlabThickness()
	parapet := sc.ParapetHeight()
	roof := bl.use(k.FlatRoof(bl.w+2*o, bl.d+2*o, slab, parapet, sc.ParapetThickness()))
	bl.roof(roof, main, bl.h, o)

	if bl.p.Bool("has_penthouse") {
		pw, pd, ph := bl.w*0.6, bl.d*0.6, bl.fh*0.8
		// The penthouse may slide off center but stays inside the parapet.
		x := float64(pick(bl, -1, 0, 1)) * bl.w * 0.1
		// Roof slab top, less Embed.
		z := bl.h + slab - 2*geom.Embed
		bl.add(bl.at(bl.use(bl.g.Box(pw, pd, ph+geom.Embed)), x, 0, z))
		po := o / 2
		pr := bl.use(k.FlatRoof(pw+2*po, pd+2*po, slab*0.75, parapet*0.5, sc.ParapetThickness()))
		bl.roof(pr, block{x: x, w: pw, d: pd}, z+ph+geom.Embed, po)
	}

	if cantilever {
		// Deeper than half a floor it would seal the windows below.
		cd := math.Min(bl.d*0.15, bl.fh*0.5)
		box := bl.use(k.Bay(bl.w, cd, 2*bl.fh))
		bl.add(bl.onFace(box, main, components.Front, 0, float64(top)*bl.fh))
	}
	return bl.done()
}
