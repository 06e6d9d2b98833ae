package styles

import "github.com/chazu/hotelgen/pkg/components"

// Hedge arrangements.
const (
	HedgesNone   = ""
	HedgesBorder = "border"
	HedgesFormal = "formal"
	HedgesSparse = "sparse"
)

// GardenTheme is how a style's grounds are landscaped on a property plate.
type GardenTheme struct {
	Trees components.TreeKind `json:"tree_type" yaml:"tree_type"`
	// TreeDensity in [0, 1] sets both how many trees are tried and how
	// close they may stand.
	TreeDensity float64 `json:"tree_density" yaml:"tree_density"`
	// Pool is empty for no pool.
	Pool     components.PoolShape `json:"pool_shape,omitempty" yaml:"pool_shape,omitempty"`
	PoolSize string               `json:"pool_size" yaml:"pool_size"`
	Hedges   string               `json:"hedge_style,omitempty" yaml:"hedge_style,omitempty"`
	Terrace  bool                 `json:"has_terrace" yaml:"has_terrace"`
	// CurvedPath bends the entrance path once instead of running it
	// straight from the road.
	CurvedPath bool `json:"curved_path" yaml:"curved_path"`
}

// DefaultGarden is the theme of a style without one of its own.
var DefaultGarden = GardenTheme{
	Trees:       components.Deciduous,
	TreeDensity: 0.5,
	Pool:        components.RectangularPool,
	PoolSize:    "medium",
	Hedges:      HedgesBorder,
	Terrace:     true,
}

var gardens = map[string]GardenTheme{
	"modern": {
		Trees: components.Deciduous, TreeDensity: 0.3,
		Pool: components.RectangularPool, PoolSize: "medium",
		Hedges: HedgesSparse, Terrace: true,
	},
	"skyscraper": {
		Trees: components.Deciduous, TreeDensity: 0.2,
		PoolSize: "small", Hedges: HedgesSparse, Terrace: true,
	},
	"townhouse": {
		Trees: components.Deciduous, TreeDensity: 0.4,
		PoolSize: "small", Hedges: HedgesBorder,
	},
	"classical": {
		Trees: components.Conifer, TreeDensity: 0.4,
		Pool: components.RectangularPool, PoolSize: "large",
		Hedges: HedgesFormal, Terrace: true,
	},
	"art_deco": {
		Trees: components.Palm, TreeDensity: 0.3,
		Pool: components.LShapedPool, PoolSize: "medium",
		Hedges: HedgesBorder, Terrace: true,
	},
	"mediterranean": {
		Trees: components.Conifer, TreeDensity: 0.5,
		Pool: components.KidneyPool, PoolSize: "medium",
		Hedges: HedgesSparse, Terrace: true, CurvedPath: true,
	},
	"tropical": {
		Trees: components.Palm, TreeDensity: 0.8,
		Pool: components.KidneyPool, PoolSize: "large",
		Terrace: true, CurvedPath: true,
	},
	"victorian": {
		Trees: components.Deciduous, TreeDensity: 0.6,
		PoolSize: "small", Hedges: HedgesFormal, CurvedPath: true,
	},
}

// PoolSizes maps a pool size name to its width and depth in mm.
var PoolSizes = map[string][2]float64{
	"small":  {12, 8},
	"medium": {18, 11},
	"large":  {25, 15},
}
