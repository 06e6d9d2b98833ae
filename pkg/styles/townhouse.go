package styles

import (
	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/massing"
)

type townhouse struct{ meta }

// Townhouse is a narrow row house with a stoop, a bay and a mansard.
var Townhouse Style = townhouse{meta{
	name:        "townhouse",
	display:     "Townhouse",
	description: "Row house with an off-center door up a stoop, a bay window, a cornice and a mansard roof with dormers.",
	layout:      "row",
	minFloors:   3,
	schema: Schema{
		enumParam("roof", "mansard", []string{"mansard", "gabled", "flat"}, "roof form"),
		intParam("stoop_steps", 3, 0, 5, "steps up to the front door"),
		boolParam("has_bay", true, "bay window on the upper floors"),
		boolParam("dormers", true, "dormers in a pitched roof"),
	},
}}

func (s townhouse) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	main := bl.main()
	bl.shell(massing.Rect(bl.g, bl.w, bl.d, bl.h))

	bayW, bayX := bl.w*0.35, bl.w/4
	hasBay := bl.p.Bool("has_bay") && bl.floors >= 2

	front := bl.grid(bl.w, bl.floors, 0, true)
	if hasBay {
		front.Skip = func(floor int, x float64) bool {
			return floor >= 1 && bl.overlapsX(x, bayX-bayW/2, bayX+bayW/2)
		}
	}
	bl.windows(front, main, components.Front)
	bl.windows(bl.grid(bl.w, bl.floors, 0, true), main, components.Back)

	steps := bl.p.Int("stoop_steps")
	stepH, stepD := sc.StoopStepHeight(), sc.StoopStepDepth()
	// Keep the stoop under a quarter of the floor so the door still fits.
	steps = min(steps, int(bl.fh*0.25/k.StoopHeight(stepH, 1)))
	stoop := 0.0
	if steps > 0 {
		stoop = k.StoopHeight(stepH, steps)
	}
	doorX := -bl.w / 4
	dw, _ := bl.door(main, doorX, stoop)
	if steps > 0 {
		st := bl.use(k.StoopSteps(dw+2*k.P.MinWallThickness, stepD, stepH, steps))
		bl.add(bl.onFace(st, main, components.Front, doorX, 0))
	}

	if hasBay {
		bd := sc.BayDepth()
		bay := bl.use(k.Bay(bayW, bd, bl.fh*float64(bl.floors-1)))
		bl.add(bl.onFace(bay, main, components.Front, bayX, bl.fh))
		// The bay front as a wall of its own.
		face := block{x: bayX, w: bayW, d: bl.d + 2*bd}
		bl.lateWindows(bl.grid(bayW, bl.floors-1, bl.fh, false), face, components.Front)
	}

	o := sc.RoofOverhang()
	cornice := bl.use(k.Cornice(bl.w, bl.d, sc.CorniceHeight(), o))
	bl.add(bl.at(cornice, 0, 0, bl.h-geom.Embed))
	zr := bl.h - geom.Embed + components.CorniceHeight(sc.CorniceHeight(), o) - geom.Embed

	rw, rd := bl.w+2*o, bl.d+2*o
	var roof kernel.Solid
	pitched := true
	switch bl.p.String("roof") {
	case "gabled":
		// Ridge along the street.
		roof = bl.b.RotateZ(bl.use(k.GabledRoof(rd, rw, bl.fh*0.8)), 90)
	case "flat":
		pitched = false
		roof = bl.use(k.FlatRoof(rw, rd, sc.RoofSlabThickness(), sc.ParapetHeight(), sc.ParapetThickness()))
	default:
		roof = bl.use(k.MansardRoof(rw, rd, bl.fh*0.6, bl.fh*0.4, sc.MansardInset()))
	}
	bl.add(bl.at(roof, 0, 0, zr))

	if pitched && bl.p.Bool("dormers") {
		bl.dormers([]float64{-bl.w / 4, bl.w / 4}, bl.winW*1.2, bl.fh*0.45, sc.MansardInset()+o+bl.fh*0.3, zr)
	}
	return bl.done()
}
