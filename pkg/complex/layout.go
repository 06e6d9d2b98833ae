package complex

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/errs"
)

// Role is the part a building plays in a complex.
type Role string

const (
	Main     Role = "main"
	Wing     Role = "wing"
	Annex    Role = "annex"
	Tower    Role = "tower"
	Pavilion Role = "pavilion"
)

// Roles lists the valid roles.
var Roles = []Role{Main, Wing, Annex, Tower, Pavilion}

// Sizing scales the complex's base building for one role.
type Sizing struct {
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Floors float64 `json:"floors" yaml:"floors"`
}

// RoleSizing is the default sizing table. Width and depth factors differ
// so buildings read as rectangles rather than cubes.
var RoleSizing = map[Role]Sizing{
	Main:     {1.0, 0.85, 1.0},
	Wing:     {0.8, 0.55, 0.85},
	Annex:    {0.55, 0.45, 0.75},
	Tower:    {0.35, 0.35, 2.5},
	Pavilion: {0.45, 0.35, 0.5},
}

// Placement positions one building of a complex. X and Y are the center
// of its footprint; Rotation is in degrees about Z and must be a multiple
// of 90.
type Placement struct {
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Rotation    float64 `json:"rotation" yaml:"rotation"`
	Width       float64 `json:"width" yaml:"width"`
	Depth       float64 `json:"depth" yaml:"depth"`
	Floors      int     `json:"num_floors" yaml:"num_floors"`
	FloorHeight float64 `json:"floor_height" yaml:"floor_height"`
	Role        Role    `json:"role" yaml:"role"`
}

// quarterTurns returns the rotation in quarter turns, 0 to 3.
func (p Placement) quarterTurns() (int, bool) {
	q := p.Rotation / 90
	if q != math.Trunc(q) {
		return 0, false
	}
	return ((int(q) % 4) + 4) % 4, true
}

// Footprint returns the placed building's axis-aligned footprint.
func (p Placement) Footprint() Rect {
	hw, hd := p.Width/2, p.Depth/2
	if q, _ := p.quarterTurns(); q%2 == 1 {
		hw, hd = hd, hw
	}
	return Rect{MinX: p.X - hw, MinY: p.Y - hd, MaxX: p.X + hw, MaxY: p.Y + hd}
}

// Rect is an axis-aligned rectangle on the lot.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64 { return r.MaxX - r.MinX }
func (r Rect) Depth() float64 { return r.MaxY - r.MinY }

// Overlaps reports whether r and o share area. Touching edges do not
// overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// footprintItem indexes a placement in the R-tree.
type footprintItem struct {
	index int
	rect  Rect
	box   rtreego.Rect
}

func (f *footprintItem) Bounds() rtreego.Rect { return f.box }

// Overlapping returns the index pairs of placements whose footprints
// overlap, in order.
func Overlapping(ps []Placement) ([][2]int, error) {
	tree := rtreego.NewTree(2, 2, 8)
	var pairs [][2]int
	for i, p := range ps {
		r := p.Footprint()
		box, err := rtreego.NewRect(rtreego.Point{r.MinX, r.MinY}, []float64{r.Width(), r.Depth()})
		if err != nil {
			return nil, errs.Invalid("placements", "building %d has an empty footprint", i)
		}
		item := &footprintItem{index: i, rect: r, box: box}
		for _, hit := range tree.SearchIntersect(box) {
			other := hit.(*footprintItem)
			if other.rect.Overlaps(r) {
				pairs = append(pairs, [2]int{other.index, i})
			}
		}
		tree.Insert(item)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	return pairs, nil
}

// LotBounds returns the lot size that contains every footprint plus margin
// on each side, and the bounds it was measured from.
func LotBounds(ps []Placement, margin float64) (w, d float64, r Rect) {
	if len(ps) == 0 {
		return 0, 0, Rect{}
	}
	r = ps[0].Footprint()
	for _, p := range ps[1:] {
		f := p.Footprint()
		r.MinX, r.MinY = math.Min(r.MinX, f.MinX), math.Min(r.MinY, f.MinY)
		r.MaxX, r.MaxY = math.Max(r.MaxX, f.MaxX), math.Max(r.MaxY, f.MaxY)
	}
	r.MinX, r.MinY, r.MaxX, r.MaxY = r.MinX-margin, r.MinY-margin, r.MaxX+margin, r.MaxY+margin
	return r.Width(), r.Depth(), r
}

// Base is the unscaled building every role is sized from.
type Base struct {
	Width, Depth float64
	Floors       int
	FloorHeight  float64
}

// DefaultBase is a 30 x 25 mm, four storey building.
var DefaultBase = Base{Width: 30, Depth: 25, Floors: 4, FloorHeight: 5}

// layoutInput is what every strategy works from.
type layoutInput struct {
	n       int
	rng     *rand.Rand
	base    Base
	spacing float64
	roles   []Role
	hints   map[Role]Sizing
	// explicit is set when the caller or a preset chose the roles.
	explicit bool
}

// size returns the placement of role at the origin.
func (in layoutInput) size(role Role) Placement {
	s, ok := in.hints[role]
	if !ok {
		s, ok = RoleSizing[role]
	}
	if !ok {
		s = Sizing{1, 1, 1}
	}
	return Placement{
		Width:       in.base.Width * s.Width,
		Depth:       in.base.Depth * s.Depth,
		Floors:      max(2, int(float64(in.base.Floors)*s.Floors)),
		FloorHeight: in.base.FloorHeight,
		Role:        role,
	}
}

func (in layoutInput) sizes() []Placement {
	return lo.Map(in.roles, func(r Role, _ int) Placement { return in.size(r) })
}

// defaultRoles is a main building, up to two wings, then annexes.
func defaultRoles(n int) []Role {
	roles := make([]Role, n)
	for i := range roles {
		switch {
		case i == 0:
			roles[i] = Main
		case i <= 2:
			roles[i] = Wing
		default:
			roles[i] = Annex
		}
	}
	return roles
}

// Strategy places n buildings.
type Strategy func(in layoutInput) []Placement

// Strategies maps strategy names to layouts.
var Strategies = map[string]Strategy{
	"row":          rowLayout,
	"courtyard":    courtyardLayout,
	"hierarchical": hierarchicalLayout,
	"cluster":      clusterLayout,
	"campus":       campusLayout,
	"l_layout":     lLayout,
}

// StrategyNames returns the strategy names, sorted.
func StrategyNames() []string {
	names := lo.Keys(Strategies)
	sort.Strings(names)
	return names
}

func lookupStrategy(name string) (Strategy, error) {
	s, ok := Strategies[name]
	if !ok {
		return nil, errs.Invalid("strategy", "unknown layout strategy %q, available: %s",
			name, strings.Join(StrategyNames(), ", "))
	}
	return s, nil
}

// rowLayout lines buildings up along X, centered on the origin.
func rowLayout(in layoutInput) []Placement {
	ps := in.sizes()
	total := in.spacing * float64(len(ps)-1)
	for _, p := range ps {
		total += p.Width
	}
	x := -total / 2
	for i := range ps {
		ps[i].X = x + ps[i].Width/2
		x += ps[i].Width + in.spacing
	}
	return ps
}

// courtyardLayout puts the main building at the back, wings on either side
// turned a quarter, and closes the court with a fourth building in front.
// Further buildings queue up behind the main building.
func courtyardLayout(in layoutInput) []Placement {
	ps := in.sizes()
	s := in.spacing
	m := &ps[0]
	m.Y = m.Depth/2 + s/2
	if len(ps) > 1 {
		ps[1].X, ps[1].Rotation = -m.Width/2-s/2-ps[1].Depth/2, 90
	}
	if len(ps) > 2 {
		ps[2].X, ps[2].Rotation = m.Width/2+s/2+ps[2].Depth/2, 90
	}
	if len(ps) > 3 {
		ps[3].Y = -ps[3].Depth/2 - s/2
	}
	y := m.Y + m.Depth/2 + s
	for i := 4; i < len(ps); i++ {
		ps[i].Y = y + ps[i].Depth/2
		y += ps[i].Depth + s
	}
	return ps
}

// hierarchicalLayout flanks a dominant building symmetrically, each pair
// set back a little further.
func hierarchicalLayout(in layoutInput) []Placement {
	ps := in.sizes()
	if len(ps) == 0 {
		return ps
	}
	m := ps[0]
	left, right := -m.Width/2, m.Width/2
	for i := 1; i < len(ps); i++ {
		pair := float64((i + 1) / 2)
		p := &ps[i]
		if i%2 == 1 {
			p.X = left - in.spacing - p.Width/2
			left = p.X - p.Width/2
		} else {
			p.X = right + in.spacing + p.Width/2
			right = p.X + p.Width/2
		}
		p.Y = p.Depth * 0.2 * pair
	}
	return ps
}

// clusterLayout rings pavilions around the main building, starting at a
// seeded angle.
func clusterLayout(in layoutInput) []Placement {
	if !in.explicit {
		in.roles = append([]Role{Main}, lo.Times(in.n-1, func(int) Role { return Pavilion })...)
	}
	ps := in.sizes()
	if len(ps) < 2 {
		return ps
	}
	m := ps[0]
	ring := ps[1:]
	largest := lo.Max(lo.Map(ring, func(p Placement, _ int) float64 { return math.Hypot(p.Width, p.Depth) }))
	// Keep neighbours on the ring apart as well as clear of the main
	// building.
	radius := math.Hypot(m.Width, m.Depth)/2 + largest/2 + in.spacing
	step := 2 * math.Pi / float64(len(ring))
	if len(ring) > 1 {
		chord := (largest + in.spacing) / (2 * math.Sin(step/2))
		radius = math.Max(radius, chord)
	}
	start := in.rng.Float64() * math.Pi / 4
	for i := range ring {
		a := start + step*float64(i)
		ring[i].X = radius * math.Cos(a)
		ring[i].Y = radius * math.Sin(a)
	}
	return ps
}

// campusLayout fills an even grid, row by row.
func campusLayout(in layoutInput) []Placement {
	ps := in.sizes()
	cols := int(math.Ceil(math.Sqrt(float64(len(ps)))))
	rows := (len(ps) + cols - 1) / cols
	cellW := lo.Max(lo.Map(ps, func(p Placement, _ int) float64 { return p.Width })) + in.spacing
	cellD := lo.Max(lo.Map(ps, func(p Placement, _ int) float64 { return p.Depth })) + in.spacing
	totalW := float64(cols)*cellW - in.spacing
	totalD := float64(rows)*cellD - in.spacing
	for i := range ps {
		row, col := i/cols, i%cols
		ps[i].X = -totalW/2 + float64(col)*cellW + (cellW-in.spacing)/2
		ps[i].Y = -totalD/2 + float64(row)*cellD + (cellD-in.spacing)/2
	}
	return ps
}

// lLayout grows two arms from a corner building, alternating between +X
// and +Y.
func lLayout(in layoutInput) []Placement {
	ps := in.sizes()
	if len(ps) == 0 {
		return ps
	}
	x := ps[0].Width/2 + in.spacing
	y := ps[0].Depth/2 + in.spacing
	for i := 1; i < len(ps); i++ {
		p := &ps[i]
		if i%2 == 1 {
			p.X = x + p.Width/2
			x += p.Width + in.spacing
		} else {
			p.Y = y + p.Depth/2
			y += p.Depth + in.spacing
		}
	}
	return ps
}
