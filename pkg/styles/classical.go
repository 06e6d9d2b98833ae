package styles

import (
	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/massing"
)

type classical struct{ meta }

// Classical is a symmetrical block behind a columned portico.
var Classical Style = classical{meta{
	name:        "classical",
	display:     "Classical",
	description: "Symmetrical facade with a columned portico, entablature, pediment and crowning cornice.",
	layout:      "row",
	minFloors:   1,
	schema: Schema{
		intParam("column_count", 4, 2, 8, "portico columns, adjusted to keep spans printable"),
		boolParam("has_pediment", true, "triangular pediment over the portico"),
	},
}}

func (s classical) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	main := bl.main()
	bl.shell(massing.Rect(bl.g, bl.w, bl.d, bl.h))

	porticoFloors := min(bl.floors, 2)
	ph := float64(porticoFloors) * bl.fh
	pw := bl.w * 0.7
	base := sc.StoopStepHeight()
	colH := ph - base + geom.Embed
	round := k.P.UseWindowFrames
	cw := k.ColumnWidth(sc.ColumnWidth(), colH)
	if round {
		cw = k.ColumnDiameter(sc.ColumnWidth(), colH)
	}
	n := portico(bl.p.Int("column_count"), pw, cw, k.P.MaxBridgeSpan)
	standoff := 0.8 * cw
	depth := standoff + cw + geom.Embed
	y := -bl.d/2 - depth/2 + geom.Embed
	span := pw + cw

	eh := sc.EntablatureHeight()
	pedRise := bl.fh * 0.8
	pedW := span
	hasPediment := bl.p.Bool("has_pediment")

	front := bl.grid(bl.w, bl.floors, 0, true)
	if hasPediment {
		// The pediment stands against these windows.
		front.Skip = func(floor int, x float64) bool {
			return floor == porticoFloors && bl.overlapsX(x, -pedW/2, pedW/2)
		}
	}
	bl.windows(front, main, components.Front)
	bl.windows(bl.grid(bl.w, bl.floors, 0, true), main, components.Back)
	bl.door(main, 0, base)

	bl.add(bl.at(bl.use(bl.g.Box(span, depth+geom.Embed, base)), 0, y, 0))
	pitch := (pw - cw) / float64(n-1)
	for i := 0; i < n; i++ {
		var col kernel.Solid
		if round {
			col = bl.use(k.RoundColumn(cw, colH))
		} else {
			col = bl.use(k.SquareColumn(cw, colH))
		}
		x := -pw/2 + cw/2 + float64(i)*pitch
		bl.add(bl.at(col, x, -bl.d/2-standoff-cw/2, base-geom.Embed))
	}
	zb := ph - geom.Embed
	bl.add(bl.at(bl.use(bl.g.Box(span, depth+geom.Embed, eh)), 0, y, zb))
	if hasPediment {
		ped := bl.use(k.Pediment(pedW, pedRise, depth+geom.Embed))
		bl.add(bl.at(ped, 0, y, zb+eh-geom.Embed))
	}

	o := sc.RoofOverhang()
	ch := sc.CorniceHeight()
	bl.add(bl.at(bl.use(k.Cornice(bl.w, bl.d, ch, o)), 0, 0, bl.h-geom.Embed))
	zr := bl.h - geom.Embed + components.CorniceHeight(ch, o) - geom.Embed
	rail := bl.use(k.Balustrade(bl.w, sc.ParapetHeight(), sc.ParapetThickness()))
	bl.add(bl.at(rail, 0, -bl.d/2+sc.ParapetThickness()/2, zr))
	return bl.done()
}

// portico settles the column count for a portico pw wide: enough columns
// that the entablature bridges at most maxSpan between them, and few
// enough that the gaps stay at least a column wide.
func portico(n int, pw, cw, maxSpan float64) int {
	gap := func(n int) float64 { return (pw-cw)/float64(n-1) - cw }
	for n < 16 && gap(n) > maxSpan {
		n++
	}
	for n > 2 && gap(n) < cw {
		n--
	}
	return n
}
