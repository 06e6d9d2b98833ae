package build

import (
	"math"

	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/profile"
	"github.com/chazu/hotelgen/pkg/styles"
)

// Request bounds.
const (
	MaxFootprint   = 200.0
	MaxFloors      = 50
	MaxFloorHeight = 20.0
	MaxAspectRatio = 15.0
)

// Params is one building request. Zero window and wall fields are derived
// from the floor height and the printer profile.
type Params struct {
	Style           string         `json:"style" yaml:"style"`
	Width           float64        `json:"width" yaml:"width"`
	Depth           float64        `json:"depth" yaml:"depth"`
	Floors          int            `json:"num_floors" yaml:"num_floors"`
	FloorHeight     float64        `json:"floor_height" yaml:"floor_height"`
	WallThickness   float64        `json:"wall_thickness,omitempty" yaml:"wall_thickness,omitempty"`
	WindowWidth     float64        `json:"window_width,omitempty" yaml:"window_width,omitempty"`
	WindowHeight    float64        `json:"window_height,omitempty" yaml:"window_height,omitempty"`
	WindowsPerFloor int            `json:"windows_per_floor,omitempty" yaml:"windows_per_floor,omitempty"`
	Printer         string         `json:"printer_type" yaml:"printer_type"`
	Seed            int64          `json:"seed" yaml:"seed"`
	MaxTriangles    int            `json:"max_triangles" yaml:"max_triangles"`
	StyleParams     map[string]any `json:"style_params,omitempty" yaml:"style_params,omitempty"`
}

// DefaultParams returns the default request for a style.
func DefaultParams(style string) Params {
	return Params{
		Style:        style,
		Width:        30,
		Depth:        25,
		Floors:       7,
		FloorHeight:  5,
		Printer:      "fdm",
		Seed:         42,
		MaxTriangles: 100000,
	}
}

// Height is the floor stack height.
func (p Params) Height() float64 {
	return float64(p.Floors) * p.FloorHeight
}

// job is a request that passed validation.
type job struct {
	params  Params
	style   styles.Style
	profile profile.Profile
	values  styles.Values
	floors  int
	wall    float64
	winW    float64
	winH    float64
}

func (j *job) request() styles.Request {
	return styles.Request{
		Width:           j.params.Width,
		Depth:           j.params.Depth,
		Floors:          j.floors,
		FloorHeight:     j.params.FloorHeight,
		WallThickness:   j.wall,
		WindowWidth:     j.winW,
		WindowHeight:    j.winH,
		WindowsPerFloor: j.params.WindowsPerFloor,
		Params:          j.values,
	}
}

func inRange(field string, v, max float64) error {
	if math.IsNaN(v) || v <= 0 || v > max {
		return errs.Invalid(field, "%g outside (0, %g]", v, max)
	}
	return nil
}

// prepare validates p without touching the geometry kernel.
func prepare(p Params, resolve func(string) (profile.Profile, error)) (*job, error) {
	if err := inRange("width", p.Width, MaxFootprint); err != nil {
		return nil, err
	}
	if err := inRange("depth", p.Depth, MaxFootprint); err != nil {
		return nil, err
	}
	if p.Floors < 1 || p.Floors > MaxFloors {
		return nil, errs.Invalid("num_floors", "%d outside [1, %d]", p.Floors, MaxFloors)
	}
	if err := inRange("floor_height", p.FloorHeight, MaxFloorHeight); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"wall_thickness", p.WallThickness},
		{"window_width", p.WindowWidth},
		{"window_height", p.WindowHeight},
	} {
		if f.v < 0 || math.IsNaN(f.v) {
			return nil, errs.Invalid(f.name, "must not be negative, got %g", f.v)
		}
	}
	if p.WindowsPerFloor < 0 {
		return nil, errs.Invalid("windows_per_floor", "must not be negative, got %d", p.WindowsPerFloor)
	}
	if p.MaxTriangles < 0 {
		return nil, errs.Invalid("max_triangles", "must not be negative, got %d", p.MaxTriangles)
	}

	prof, err := resolve(p.Printer)
	if err != nil {
		return nil, err
	}
	style, err := styles.Lookup(p.Style)
	if err != nil {
		return nil, err
	}
	values, err := style.Schema().Validate(p.StyleParams)
	if err != nil {
		return nil, err
	}

	j := &job{params: p, style: style, profile: prof, values: values, floors: max(p.Floors, style.MinFloors())}

	minSide := math.Min(p.Width, p.Depth)
	if ratio := float64(j.floors) * p.FloorHeight / minSide; ratio > MaxAspectRatio {
		return nil, errs.Invalid("aspect_ratio", "%.2f:1 exceeds maximum %g:1", ratio, MaxAspectRatio)
	}

	sc := components.NewScaleContext(p.Width, p.Depth, p.FloorHeight, j.floors, prof)
	j.wall = math.Max(orDefault(p.WallThickness, prof.MinWallThickness), prof.MinWallThickness)
	j.winW = math.Max(orDefault(p.WindowWidth, sc.WindowWidth()), prof.MinHoleSize)
	j.winH = math.Max(orDefault(p.WindowHeight, sc.WindowHeight()), prof.MinHoleSize)
	if j.winW+2*j.wall > minSide {
		return nil, errs.Invalid("window_width", "%.2f mm window with %.2f mm walls does not fit a %.2f mm facade",
			j.winW, j.wall, minSide)
	}
	if j.winH > p.FloorHeight {
		return nil, errs.Invalid("window_height", "%.2f mm exceeds the %.2f mm floor height", j.winH, p.FloorHeight)
	}
	return j, nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
