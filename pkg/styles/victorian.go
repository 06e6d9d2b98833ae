package styles

import (
	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/massing"
)

type victorian struct{ meta }

// Victorian is an asymmetric L plan with a corner turret, a bay and
// cross gables.
var Victorian Style = victorian{meta{
	name:        "victorian",
	display:     "Victorian",
	description: "Asymmetric L plan with a corner turret, a bay window, cross-gabled roofs and dormers.",
	layout:      "cluster",
	minFloors:   3,
	schema: Schema{
		boolParam("has_turret", true, "round corner turret with a conical cap"),
		boolParam("has_bay", true, "bay window on the upper floors"),
		boolParam("dormers", true, "dormers on the front roof slope"),
		enumParam("turret_side", "right", []string{"right", "left"}, "corner that carries the turret and the rear wing"),
	},
}}

func (s victorian) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	left := bl.p.String("turret_side") == "left"
	sx := 1.0
	if left {
		sx = -1
	}
	side := components.Right
	if left {
		side = components.Left
	}

	m := bl.shell(massing.L(bl.g, bl.w, bl.d, bl.h, massing.LOptions{
		WingWidth: bl.w * 0.45,
		WingDepth: bl.d * 0.55,
		Left:      left,
	}))
	if len(m.Blocks) != 2 {
		return bl.done()
	}
	main, wing := bl.main(), fromMass(m.Blocks[1])

	hasBay := bl.p.Bool("has_bay") && bl.floors >= 2
	bayW, bayX := bl.w*0.2, -sx*bl.w/4
	hasTurret := bl.p.Bool("has_turret")
	tr := sc.TurretRadius()
	tx, ty := sx*bl.w/2, -bl.d/2

	// Windows that would end up behind the bay, the turret or the wing.
	hidden := func(face components.Face) func(int, float64) bool {
		return func(floor int, x float64) bool {
			if hasTurret {
				c := along(face, main, tx, ty)
				if bl.overlapsX(x, c-tr, c+tr) {
					return true
				}
			}
			switch face {
			case components.Front:
				return hasBay && floor >= 1 && bl.overlapsX(x, bayX-bayW/2, bayX+bayW/2)
			case components.Back:
				c := along(face, main, wing.x, wing.y)
				return bl.overlapsX(x, c-wing.w/2, c+wing.w/2)
			}
			return false
		}
	}
	for _, face := range components.AllFaces {
		f := bl.grid(face.Span(bl.w, bl.d), bl.floors, 0, true)
		if face == components.Front || face == components.Back || face == side {
			f.Skip = hidden(face)
		}
		bl.windows(f, main, face)
	}
	bl.windows(bl.grid(wing.w, bl.floors, 0, true), wing, components.Back)
	bl.door(main, 0, 0)

	if hasBay {
		bd := sc.BayDepth()
		bay := bl.use(k.Bay(bayW, bd, bl.fh*float64(bl.floors-1)))
		bl.add(bl.onFace(bay, main, components.Front, bayX, bl.fh))
		bl.lateWindows(bl.grid(bayW, bl.floors-1, bl.fh, false), block{x: bayX, w: bayW, d: bl.d + 2*bd}, components.Front)
	}

	o := sc.RoofOverhang()
	mainRoof := bl.b.RotateZ(bl.use(k.GabledRoof(bl.d+2*o, bl.w+2*o, bl.fh*0.8)), 90)
	bl.roof(mainRoof, main, bl.h, o)
	bl.roof(bl.use(k.GabledRoof(wing.w+2*o, wing.d+2*o, bl.fh*0.7)), wing, bl.h, o)

	if hasTurret {
		turret := bl.use(k.Turret(tr, bl.h+bl.fh*0.8, bl.fh*1.2, o/2))
		bl.add(bl.at(turret, tx, ty, 0))
	}

	if bl.p.Bool("dormers") {
		xs := []float64{0}
		if pick(bl, 1, 2) == 2 {
			xs = []float64{-bl.w / 5, bl.w / 5}
		}
		bl.dormers(xs, bl.winW*1.2, bl.fh*0.45, bl.d/4, bl.h-geom.Embed)
	}
	return bl.done()
}
