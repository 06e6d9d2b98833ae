package board

import (
	"math"

	"github.com/chazu/hotelgen/pkg/complex"
)

// shoulder is the strip left on each side of a road between facing rows.
const shoulder = 1.0

// plotGap separates neighbouring properties in a row.
const plotGap = 2.0

// Slot is where one property sits on a board. X and Y are the center of
// the plate; Rotation turns the plate, modelled with its road to the
// south, so its road side faces RoadEdge.
type Slot struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	RoadEdge string  `json:"road_edge"`
	Rotation float64 `json:"rotation"`
	Preset   string  `json:"preset"`
}

// edgeRotation maps a road edge to the plate turn that faces it.
var edgeRotation = map[string]float64{South: 0, North: 180, East: 90, West: -90}

func newSlot(i int, x, y float64, edge string) Slot {
	return Slot{Index: i, X: x, Y: y, RoadEdge: edge, Rotation: edgeRotation[edge]}
}

// Footprint returns the plate's extent on the board.
func (s Slot) Footprint(w, d float64) complex.Rect {
	if math.Mod(math.Abs(s.Rotation), 180) == 90 {
		w, d = d, w
	}
	return around(s.X, s.Y, w/2, d/2)
}

// roadGap is the distance between two rows facing each other across a
// road.
func roadGap(road float64) float64 {
	return road + 2*shoulder
}

// Slots lays out the properties of p along its road and assigns each a
// preset, from p.Presets first and DefaultPresets otherwise.
func Slots(p BoardParams) ([]Slot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var slots []Slot
	switch p.RoadShape {
	case Loop:
		slots = loopSlots(p.Properties, p.PropertyWidth, p.PropertyDepth, roadGap(p.RoadWidth))
	case Serpentine:
		slots = serpentineSlots(p.Properties, p.PropertyWidth, p.PropertyDepth, roadGap(p.RoadWidth))
	case Linear:
		slots = linearSlots(p.Properties, p.PropertyWidth, p.PropertyDepth, roadGap(p.RoadWidth))
	}
	for i := range slots {
		if preset, ok := p.Presets[i]; ok {
			slots[i].Preset = preset
		} else {
			slots[i].Preset = DefaultPresets[i%len(DefaultPresets)]
		}
	}
	return slots, nil
}

// ringSize is the centerline rectangle of a loop road: wide enough for
// the longer of the bottom and top rows, tall enough for the longer side
// column.
func ringSize(counts [4]int, w float64) (rw, rh float64) {
	rw = float64(max(counts[0], counts[2], 1)) * (w + plotGap)
	rh = float64(max(counts[1], counts[3], 1)) * (w + plotGap)
	return rw, rh
}

// loopSlots rings the properties around a rectangular loop, all facing
// inward: bottom row, left column, top row, right column. One or two
// properties just face each other across a straight road.
func loopSlots(n int, w, d, gap float64) []Slot {
	if n <= 2 {
		return facingPair(n, d, gap)
	}
	counts := loopSides(n)
	rw, rh := ringSize(counts, w)
	var slots []Slot
	along := func(count int, span float64, j int) float64 {
		return -span/2 + (float64(j)+0.5)*span/float64(count)
	}
	for j := range counts[0] {
		slots = append(slots, newSlot(len(slots), along(counts[0], rw, j), -(rh/2 + gap/2 + d/2), North))
	}
	for j := range counts[1] {
		slots = append(slots, newSlot(len(slots), -(rw/2 + gap/2 + d/2), along(counts[1], rh, j), East))
	}
	for j := range counts[2] {
		slots = append(slots, newSlot(len(slots), along(counts[2], rw, j), rh/2+gap/2+d/2, South))
	}
	for j := range counts[3] {
		slots = append(slots, newSlot(len(slots), rw/2+gap/2+d/2, along(counts[3], rh, j), West))
	}
	return slots
}

// loopSides splits n properties over the bottom, left, top and right
// sides of a loop: one per side up to four, then two thirds on the long
// sides.
func loopSides(n int) [4]int {
	if n <= 4 {
		var c [4]int
		for i := range n {
			c[i] = 1
		}
		return c
	}
	long := n * 2 / 3
	short := n - long
	bottom := (long + 1) / 2
	left := (short + 1) / 2
	return [4]int{bottom, left, long - bottom, short - left}
}

func facingPair(n int, d, gap float64) []Slot {
	slots := []Slot{newSlot(0, 0, -(d/2 + gap/2), North)}
	if n == 2 {
		slots = append(slots, newSlot(1, 0, d/2+gap/2, South))
	}
	return slots
}

// serpentineSlots fills the top row left to right, then the bottom row
// right to left, so the road is met in play order.
func serpentineSlots(n int, w, d, gap float64) []Slot {
	half := (n + 1) / 2
	slots := make([]Slot, n)
	for i := range n {
		if i < half {
			slots[i] = newSlot(i, float64(i)*(w+plotGap), gap/2+d/2, South)
		} else {
			slots[i] = newSlot(i, float64(n-1-i)*(w+plotGap), -(gap/2 + d/2), North)
		}
	}
	return centerX(slots)
}

// linearSlots alternates properties across a straight road, column by
// column.
func linearSlots(n int, w, d, gap float64) []Slot {
	slots := make([]Slot, n)
	for i := range n {
		x := float64(i/2) * (w + plotGap)
		if i%2 == 0 {
			slots[i] = newSlot(i, x, gap/2+d/2, South)
		} else {
			slots[i] = newSlot(i, x, -(gap/2 + d/2), North)
		}
	}
	return centerX(slots)
}

func centerX(slots []Slot) []Slot {
	if len(slots) == 0 {
		return slots
	}
	var sum float64
	for _, s := range slots {
		sum += s.X
	}
	mean := sum / float64(len(slots))
	for i := range slots {
		slots[i].X -= mean
	}
	return slots
}
