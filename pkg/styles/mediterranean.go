package styles

import (
	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/massing"
)

type mediterranean struct{ meta }

// Mediterranean is a stuccoed block under barrel vaults with arched
// windows, optionally wrapped around a courtyard.
var Mediterranean Style = mediterranean{meta{
	name:        "mediterranean",
	display:     "Mediterranean",
	description: "Arched windows, barrel-vaulted tile roofs on broad eaves and a ground-floor loggia; optional U-plan courtyard.",
	layout:      "courtyard",
	minFloors:   4,
	schema: Schema{
		boolParam("arched_windows", true, "round-headed windows where the printer allows"),
		boolParam("has_loggia", true, "canopy over the entrance"),
		boolParam("courtyard", false, "U plan around an entrance courtyard"),
	},
}}

func (s mediterranean) Plan(k *components.Kit, r Request) (assembly.Plan, error) {
	bl := newBuilding(k, s, r)
	sc := bl.sc
	arched := bl.p.Bool("arched_windows")
	o := sc.EaveOverhang()
	rise := bl.fh * 0.8

	grid := func(span float64) components.Facade {
		f := bl.grid(span, bl.floors, 0, true)
		f.Arched = arched
		return f
	}

	main := bl.main()
	entrance := main
	var roofs []block
	if bl.p.Bool("courtyard") {
		m := bl.shell(massing.U(bl.g, bl.w, bl.d, bl.h, massing.UOptions{}))
		if len(m.Blocks) != 3 {
			return bl.done()
		}
		cw := m.Voids[0].W
		front := grid(bl.w)
		front.Skip = func(_ int, x float64) bool { return bl.overlapsX(x, -cw/2, cw/2) }
		bl.windows(front, main, components.Front)

		back := fromMass(m.Blocks[0])
		// The exposed middle of the back range faces the courtyard.
		entrance = block{y: back.y, w: cw, d: back.d}
		bl.windows(grid(cw), entrance, components.Front)
		roofs = []block{back, fromMass(m.Blocks[1]), fromMass(m.Blocks[2])}
	} else {
		bl.shell(massing.Rect(bl.g, bl.w, bl.d, bl.h))
		bl.windows(grid(bl.w), main, components.Front)
		roofs = []block{main}
	}
	bl.windows(grid(bl.w), main, components.Back)
	bl.door(entrance, 0, 0)

	if bl.p.Bool("has_loggia") {
		lw := entrance.w * 0.5
		canopy := bl.use(k.DoorCanopy(lw, sc.LoggiaDepth(), sc.CorniceHeight()))
		bl.add(bl.onFace(canopy, entrance, components.Front, 0, bl.fh*1.1))
	}

	for _, rb := range roofs {
		var vault kernel.Solid
		if rb.w > rb.d {
			// Vault along the long side.
			vault = bl.b.RotateZ(bl.use(k.BarrelRoof(rb.d+2*o, rb.w+2*o, rise)), 90)
		} else {
			vault = bl.use(k.BarrelRoof(rb.w+2*o, rb.d+2*o, rise))
		}
		bl.roof(vault, rb, bl.h, o)
	}
	return bl.done()
}
