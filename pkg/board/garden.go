package board

import (
	"math"
	"math/rand"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/styles"
)

// FeatureKind names a piece of landscaping.
type FeatureKind string

const (
	TreeFeature    FeatureKind = "tree"
	HedgeFeature   FeatureKind = "hedge"
	PoolFeature    FeatureKind = "pool"
	PathFeature    FeatureKind = "path"
	TerraceFeature FeatureKind = "terrace"
)

// Feature is one piece of landscaping placed on a lot. X and Y are its
// center; a path is placed by its points instead.
type Feature struct {
	Kind     FeatureKind          `json:"kind"`
	X        float64              `json:"x"`
	Y        float64              `json:"y"`
	Rotation float64              `json:"rotation,omitempty"`
	Tree     components.TreeKind  `json:"tree,omitempty"`
	Pool     components.PoolShape `json:"pool,omitempty"`
	Width    float64              `json:"width,omitempty"`
	Depth    float64              `json:"depth,omitempty"`
	Height   float64              `json:"height,omitempty"`
	Length   float64              `json:"length,omitempty"`
	Canopy   float64              `json:"canopy_radius,omitempty"`
	Points   [][2]float64         `json:"points,omitempty"`
}

// Footprint returns the area the feature covers on the lot.
func (f Feature) Footprint() complex.Rect {
	switch f.Kind {
	case TreeFeature:
		return around(f.X, f.Y, f.Canopy, f.Canopy)
	case HedgeFeature:
		if math.Mod(math.Abs(f.Rotation), 180) == 90 {
			return around(f.X, f.Y, f.Width/2, f.Length/2)
		}
		return around(f.X, f.Y, f.Length/2, f.Width/2)
	case PathFeature:
		if len(f.Points) == 0 {
			return complex.Rect{}
		}
		r := around(f.Points[0][0], f.Points[0][1], f.Width/2, f.Width/2)
		for _, p := range f.Points[1:] {
			q := around(p[0], p[1], f.Width/2, f.Width/2)
			r.MinX, r.MinY = math.Min(r.MinX, q.MinX), math.Min(r.MinY, q.MinY)
			r.MaxX, r.MaxY = math.Max(r.MaxX, q.MaxX), math.Max(r.MaxY, q.MaxY)
		}
		return r
	}
	return around(f.X, f.Y, f.Width/2, f.Depth/2)
}

func around(x, y, hw, hd float64) complex.Rect {
	return complex.Rect{MinX: x - hw, MinY: y - hd, MaxX: x + hw, MaxY: y + hd}
}

func grow(r complex.Rect, by float64) complex.Rect {
	return complex.Rect{MinX: r.MinX - by, MinY: r.MinY - by, MaxX: r.MaxX + by, MaxY: r.MaxY + by}
}

func inside(r, bounds complex.Rect) bool {
	return r.MinX >= bounds.MinX && r.MaxX <= bounds.MaxX && r.MinY >= bounds.MinY && r.MaxY <= bounds.MaxY
}

// Garden layout constants, in mm.
const (
	buildingClearance = 3.0
	hedgeHeight       = 1.5
	hedgeWidth        = 1.0
	hedgeMargin       = 1.5
	pathWidth         = 2.0
	pathHeight        = 0.3
	terraceHeight     = 0.5
	treeAttempts      = 30
)

// canopies is the unvaried crown radius of each tree kind.
var canopies = map[components.TreeKind]float64{
	components.Deciduous: 1.5,
	components.Conifer:   1.2,
	components.Palm:      1.5,
}

// site indexes the occupied parts of a lot.
type site struct {
	tree *rtreego.Rtree
}

type taken struct {
	rect complex.Rect
	box  rtreego.Rect
}

func (t *taken) Bounds() rtreego.Rect { return t.box }

func newSite() *site {
	return &site{tree: rtreego.NewTree(2, 2, 8)}
}

func bbox(r complex.Rect) (rtreego.Rect, bool) {
	box, err := rtreego.NewRect(rtreego.Point{r.MinX, r.MinY}, []float64{r.Width(), r.Depth()})
	return box, err == nil
}

// free reports whether r overlaps nothing taken.
func (s *site) free(r complex.Rect) bool {
	box, ok := bbox(r)
	if !ok {
		return false
	}
	for _, hit := range s.tree.SearchIntersect(box) {
		if hit.(*taken).rect.Overlaps(r) {
			return false
		}
	}
	return true
}

func (s *site) take(r complex.Rect) {
	if box, ok := bbox(r); ok {
		s.tree.Insert(&taken{rect: r, box: box})
	}
}

// GardenInput is what a garden is laid out from. Buildings are in lot
// coordinates: X centered on the lot, the road along y=0.
type GardenInput struct {
	LotWidth  float64
	LotDepth  float64
	RoadWidth float64
	Buildings []complex.Placement
	Theme     styles.GardenTheme
	Rand      *rand.Rand
}

// LayoutGarden places the terrace, pool, entrance path, hedges and trees
// a theme asks for, in that order, each clear of the buildings and of
// everything placed before it. Trees are scattered by dart throwing with a
// minimum spacing that shrinks as the theme's density grows.
func LayoutGarden(in GardenInput) []Feature {
	var out []Feature
	s := newSite()
	for _, b := range in.Buildings {
		s.take(grow(b.Footprint(), buildingClearance))
	}
	bounds := complex.Rect{
		MinX: -in.LotWidth/2 + 1, MinY: in.RoadWidth + 1,
		MaxX: in.LotWidth/2 - 1, MaxY: in.LotDepth - 1,
	}

	main, hasMain := lo.Find(in.Buildings, func(p complex.Placement) bool { return p.Role == complex.Main })
	if !hasMain && len(in.Buildings) > 0 {
		main, hasMain = in.Buildings[0], true
	}
	var front complex.Rect
	if hasMain {
		front = main.Footprint()
	}

	if in.Theme.Terrace && hasMain {
		w := math.Min(front.Width()+4, in.LotWidth*0.3)
		d := math.Max(3, (front.MinY-bounds.MinY)*0.4)
		f := Feature{Kind: TerraceFeature, X: (front.MinX + front.MaxX) / 2, Y: front.MinY - d/2 - 0.5,
			Width: w, Depth: d, Height: terraceHeight}
		if r := f.Footprint(); inside(r, bounds) {
			out = append(out, f)
			s.take(grow(r, 1))
		}
	}

	if in.Theme.Pool != "" {
		size, ok := styles.PoolSizes[in.Theme.PoolSize]
		if !ok {
			size = styles.PoolSizes["medium"]
		}
		if f, ok := placePool(in.Theme.Pool, size[0], size[1], front, hasMain, bounds, s); ok {
			out = append(out, f)
			s.take(grow(f.Footprint(), 2))
		}
	}

	if hasMain {
		if f, ok := entrancePath(front, in.RoadWidth, in.Theme.CurvedPath, in.Rand); ok {
			out = append(out, f)
			s.take(grow(f.Footprint(), 1))
		}
	}

	for _, f := range hedges(in, front, hasMain, s) {
		out = append(out, f)
		s.take(grow(f.Footprint(), 0.5))
	}

	return append(out, trees(in, s)...)
}

// placePool tries behind the main building, then to its right, then to its
// left. Without a main building the pool goes in the middle of the garden.
func placePool(shape components.PoolShape, w, d float64, front complex.Rect, hasMain bool, bounds complex.Rect, s *site) (Feature, bool) {
	var spots [][2]float64
	if hasMain {
		cx, cy := (front.MinX+front.MaxX)/2, (front.MinY+front.MaxY)/2
		spots = [][2]float64{
			{cx, front.MaxY + buildingClearance + d/2},
			{front.MaxX + buildingClearance + w/2, cy},
			{front.MinX - buildingClearance - w/2, cy},
		}
	} else {
		spots = [][2]float64{{(bounds.MinX + bounds.MaxX) / 2, (bounds.MinY + bounds.MaxY) / 2}}
	}
	for _, at := range spots {
		f := Feature{Kind: PoolFeature, X: at[0], Y: at[1], Pool: shape, Width: w, Depth: d}
		r := f.Footprint()
		if inside(r, bounds) && s.free(r) {
			return f, true
		}
	}
	return Feature{}, false
}

// entrancePath runs from the middle of the road strip to the front of the
// main building, with one seeded bend when curved.
func entrancePath(front complex.Rect, road float64, curved bool, rng *rand.Rand) (Feature, bool) {
	x := (front.MinX + front.MaxX) / 2
	start, end := road/2, front.MinY-0.5
	if end <= start+1 {
		return Feature{}, false
	}
	points := [][2]float64{{x, start}, {x, end}}
	if curved {
		bend := rng.Float64()*6 - 3
		points = [][2]float64{{x, start}, {x + bend, (start + end) / 2}, {x, end}}
	}
	return Feature{Kind: PathFeature, X: x, Y: (start + end) / 2, Points: points, Width: pathWidth, Height: pathHeight}, true
}

// hedges lines the lot sides for border and formal themes, adds cross
// hedges behind the buildings for formal ones, and flanks the path
// entrance for sparse ones.
func hedges(in GardenInput, front complex.Rect, hasMain bool, s *site) []Feature {
	var out []Feature
	hedge := func(x, y, length, rotation float64) Feature {
		return Feature{Kind: HedgeFeature, X: x, Y: y, Rotation: rotation,
			Length: length, Width: hedgeWidth, Height: hedgeHeight}
	}
	switch in.Theme.Hedges {
	case styles.HedgesBorder, styles.HedgesFormal:
		length := in.LotDepth - in.RoadWidth - 2*hedgeMargin
		if length > 5 {
			y := in.RoadWidth + hedgeMargin + length/2
			out = append(out,
				hedge(-in.LotWidth/2+hedgeMargin, y, length, 90),
				hedge(in.LotWidth/2-hedgeMargin, y, length, 90))
		}
		if in.Theme.Hedges == styles.HedgesFormal {
			y, length := in.LotDepth*0.7, in.LotWidth*0.3
			for _, side := range []float64{-1, 1} {
				f := hedge(side*in.LotWidth*0.25, y, length, 0)
				if s.free(f.Footprint()) {
					out = append(out, f)
				}
			}
		}
	case styles.HedgesSparse:
		if !hasMain {
			break
		}
		x := (front.MinX + front.MaxX) / 2
		length := math.Min(8, in.LotWidth*0.1)
		for _, side := range []float64{-1, 1} {
			f := hedge(x+side*(pathWidth/2+1+length/2), in.RoadWidth+2.5, length, 0)
			if s.free(f.Footprint()) {
				out = append(out, f)
			}
		}
	}
	return out
}

// trees scatters up to 20 trees at full density.
func trees(in GardenInput, s *site) []Feature {
	density := in.Theme.TreeDensity
	if density <= 0.01 {
		return nil
	}
	spacing := math.Max(4, 12*(1-density))
	count := max(2, int(density*20))
	minX, maxX := -in.LotWidth/2+2, in.LotWidth/2-2
	minY, maxY := in.RoadWidth+2, in.LotDepth-2
	if maxX <= minX || maxY <= minY {
		return nil
	}
	canopy := canopies[in.Theme.Trees]
	var out []Feature
	for range count {
		for range treeAttempts {
			x := minX + in.Rand.Float64()*(maxX-minX)
			y := minY + in.Rand.Float64()*(maxY-minY)
			crowded := lo.SomeBy(out, func(t Feature) bool { return math.Hypot(t.X-x, t.Y-y) < spacing })
			if crowded || !s.free(around(x, y, canopy, canopy)) {
				continue
			}
			out = append(out, Feature{
				Kind:   TreeFeature,
				X:      x,
				Y:      y,
				Tree:   in.Theme.Trees,
				Height: 3.5 + in.Rand.Float64()*2,
				Canopy: canopy * (0.9 + in.Rand.Float64()*0.2),
			})
			break
		}
	}
	return out
}
