package styles

import (
	"math"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/massing"
)

type skyscraper struct{ meta }

// Skyscraper is a slim tower on a wide podium.
var Skyscraper Style = skyscraper{meta{
	name:        "skyscraper",
	display:     "Skyscraper",
	description: "Tall tower on a podium with a dense narrow window grid, stepped crown and spire.",
	layout:      "hierarchical",
	minFloors:   8,
	schema: Schema{
		intParam("podium_floors", 2, 1, 4, "floors in the podium"),
		floatParam("tower_ratio", 0.45, 0.3, 0.7, "tower width as a fraction of the podium"),
		boolParam("has_spire", true, "spire on the crown"),
	},
}}

func (s skyscraper) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	pf := bl.p.Int("podium_floors")
	if pf > bl.floors-2 {
		pf = bl.floors - 2
	}
	ratio := bl.p.Float("tower_ratio")
	tw, td := bl.w*ratio, math.Min(bl.d, bl.d*(ratio+0.05))
	ph := float64(pf) * bl.fh
	bl.shell(massing.PodiumTower(bl.g, bl.w, bl.d, ph, tw, td, bl.h-ph))

	podium, tower := bl.main(), block{w: tw, d: td}
	for _, face := range components.AllFaces {
		bl.windows(bl.grid(face.Span(bl.w, bl.d), pf, 0, true), podium, face)

		f := bl.grid(face.Span(tw, td), bl.floors-pf, ph, false)
		f.WindowWidth = bl.winW * 0.6
		if bl.perFloor == 0 {
			f.Columns = f.Columns * 3 / 2
		}
		bl.windows(f, tower, face)
	}
	bl.door(podium, 0, 0)

	// Crown of one or two tiers.
	cw, cd, chh := tw*0.65, td*0.65, bl.fh*0.8
	z := bl.h - geom.Embed
	bl.add(bl.at(bl.use(bl.g.Box(cw, cd, chh+geom.Embed)), 0, 0, z))
	z += chh
	if pick(bl, 1, 2) == 2 {
		cw, cd, chh = cw*0.7, cd*0.7, bl.fh*0.4
		bl.add(bl.at(bl.use(bl.g.Box(cw, cd, chh+geom.Embed)), 0, 0, z))
		z += chh
	}

	if bl.p.Bool("has_spire") {
		spire := bl.use(k.Spire(math.Min(cw, cd)*0.15, 2*bl.fh))
		bl.add(bl.at(spire, 0, 0, z))
	}
	return bl.done()
}
