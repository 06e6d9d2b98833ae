package styles

import (
	"math"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/massing"
)

type artDeco struct{ meta }

// ArtDeco is a setback tower with vertical fins and a stepped crown.
var ArtDeco Style = artDeco{meta{
	name:        "art_deco",
	display:     "Art Deco",
	description: "Setback tiers with vertical fins between the windows, a stepped crown and a spire.",
	layout:      "hierarchical",
	minFloors:   3,
	schema: Schema{
		intParam("tiers", 3, 2, 5, "setback tiers"),
		intParam("fin_count", 4, 0, 8, "vertical fins on the front of the lowest tier"),
		boolParam("has_spire", true, "spire on the crown"),
	},
}}

func (s artDeco) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	minSide := math.Min(bl.winW+4*bl.wall, math.Min(bl.w, bl.d))
	tiers := fittingTiers(bl.p.Int("tiers"), bl.w, bl.d, sc.Setback(), minSide)
	tf := max(1, bl.floors/tiers)
	tierH := float64(tf) * bl.fh
	m := bl.shell(massing.Setback(bl.g, bl.w, bl.d, tiers, tierH, sc.Setback(), minSide))
	if len(m.Blocks) == 0 {
		return bl.done()
	}

	for i, b := range m.Blocks {
		blk := fromMass(b)
		z0 := float64(i) * tierH
		for _, face := range components.AllFaces {
			bl.windows(bl.grid(face.Span(blk.w, blk.d), tf, z0, i == 0), blk, face)
		}
	}
	base := fromMass(m.Blocks[0])
	bl.door(base, 0, 0)

	if n := bl.p.Int("fin_count"); n > 0 && tf > 1 {
		f := bl.grid(base.w, tf, 0, true)
		f.WindowWidth, f.WindowHeight = k.OpeningSize(f.WindowWidth, f.WindowHeight)
		f = f.Fit(k.P.MinWallThickness)
		fin := bl.use(k.Pilaster(sc.FinThickness(), sc.FinDepth(), tierH-bl.fh))
		for _, x := range finPositions(f, n) {
			bl.add(bl.onFace(fin, base, components.Front, x, bl.fh))
		}
	}

	top := m.Blocks[len(m.Blocks)-1]
	cw, cd, ch := top.W*0.5, top.D*0.5, bl.fh*0.5
	z := top.Top() - geom.Embed
	for i := pick(bl, 1, 2); i > 0; i-- {
		bl.add(bl.at(bl.use(bl.g.Box(cw, cd, ch+geom.Embed)), 0, 0, z))
		z += ch
		cw, cd = cw*0.7, cd*0.7
	}
	if bl.p.Bool("has_spire") {
		bl.add(bl.at(bl.use(k.Spire(math.Min(cw, cd)*0.4, bl.fh)), 0, 0, z))
	}
	return bl.done()
}

// fittingTiers caps tiers at the number whose setback footprints stay at
// least minSide on both axes. The base tier always fits.
func fittingTiers(tiers int, w, d, setback, minSide float64) int {
	n := 1
	for n < tiers && math.Min(w, d)-2*setback*float64(n) >= minSide {
		n++
	}
	return n
}

// finPositions spreads up to n fins over the piers between the windows of
// f, keeping them symmetric where the pier count allows.
func finPositions(f components.Facade, n int) []float64 {
	var piers []float64
	for c := 0; c+1 < f.Columns; c++ {
		piers = append(piers, (f.ColumnX(c)+f.ColumnX(c+1))/2)
	}
	if n >= len(piers) {
		return piers
	}
	if n == 1 {
		return []float64{piers[(len(piers)-1)/2]}
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, piers[int(math.Round(float64(i*(len(piers)-1))/float64(n-1)))])
	}
	return out
}
