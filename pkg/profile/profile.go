// Package profile holds the printer constraint profiles that parameterize
// every generation decision. Profiles are plain values: the canonical ones
// are built from fixed tables, and callers that need variations copy and
// override fields.
package profile

import (
	"math"
	"sort"
	"strings"

	"github.com/chazu/hotelgen/pkg/errs"
)

// Technology names a printing process.
type Technology string

const (
	FDM   Technology = "fdm"
	Resin Technology = "resin"
)

// Profile carries every minimum-feature, overhang and tolerance constant for
// one printer technology. All lengths are millimetres, angles degrees.
type Profile struct {
	Name       string     `yaml:"name" json:"name"`
	Technology Technology `yaml:"technology" json:"technology"`

	MinWallThickness       float64 `yaml:"min_wall_thickness" json:"min_wall_thickness"`
	MinFeatureSize         float64 `yaml:"min_feature_size" json:"min_feature_size"`
	MinHoleSize            float64 `yaml:"min_hole_size" json:"min_hole_size"`
	MinColumnDiameter      float64 `yaml:"min_column_diameter" json:"min_column_diameter"`
	MinColumnWidth         float64 `yaml:"min_column_width" json:"min_column_width"`
	MinEmbossWidth         float64 `yaml:"min_emboss_width" json:"min_emboss_width"`
	MinEmbossHeight        float64 `yaml:"min_emboss_height" json:"min_emboss_height"`
	MinEngraveWidth        float64 `yaml:"min_engrave_width" json:"min_engrave_width"`
	MinEngraveDepth        float64 `yaml:"min_engrave_depth" json:"min_engrave_depth"`
	MaxOverhangAngle       float64 `yaml:"max_overhang_angle" json:"max_overhang_angle"`
	MaxBridgeSpan          float64 `yaml:"max_bridge_span" json:"max_bridge_span"`
	MaxAspectRatio         float64 `yaml:"max_aspect_ratio" json:"max_aspect_ratio"`
	BaseThickness          float64 `yaml:"base_thickness" json:"base_thickness"`
	BaseChamfer            float64 `yaml:"base_chamfer" json:"base_chamfer"`
	SegmentsPerMM          float64 `yaml:"segments_per_mm" json:"segments_per_mm"`
	MinSegments            int     `yaml:"min_segments" json:"min_segments"`
	MaxSegments            int     `yaml:"max_segments" json:"max_segments"`
	MeshCellSize           float64 `yaml:"mesh_cell_size" json:"mesh_cell_size"`
	UseWindowFrames        bool    `yaml:"use_window_frames" json:"use_window_frames"`
	UseIndividualBalusters bool    `yaml:"use_individual_balusters" json:"use_individual_balusters"`
	UseArchedWindows       bool    `yaml:"use_arched_windows" json:"use_arched_windows"`
	UseDormers             bool    `yaml:"use_dormers" json:"use_dormers"`
}

// NewFDM returns the FDM profile (0.4 mm nozzle class printers).
func NewFDM() Profile {
	return Profile{
		Name:                   "fdm",
		Technology:             FDM,
		MinWallThickness:       0.8,
		MinFeatureSize:         0.6,
		MinHoleSize:            0.6,
		MinColumnDiameter:      0.8,
		MinColumnWidth:         0.6,
		MinEmbossWidth:         0.5,
		MinEmbossHeight:        0.2,
		MinEngraveWidth:        0.4,
		MinEngraveDepth:        0.2,
		MaxOverhangAngle:       45,
		MaxBridgeSpan:          6,
		MaxAspectRatio:         6,
		BaseThickness:          2.5,
		BaseChamfer:            0.5,
		SegmentsPerMM:          8,
		MinSegments:            8,
		MaxSegments:            48,
		MeshCellSize:           0.25,
		UseWindowFrames:        true,
		UseIndividualBalusters: false,
		UseArchedWindows:       false,
		UseDormers:             true,
	}
}

// NewMonopolyFDM returns the FDM profile tuned for Monopoly-scale pieces:
// thinner base, no frames or dormers.
func NewMonopolyFDM() Profile {
	p := NewFDM()
	p.Name = "monopoly_fdm"
	p.BaseThickness = 1.2
	p.BaseChamfer = 0.3
	p.UseWindowFrames = false
	p.UseDormers = false
	return p
}

// NewResin returns the resin (MSLA) profile.
func NewResin() Profile {
	return Profile{
		Name:                   "resin",
		Technology:             Resin,
		MinWallThickness:       0.5,
		MinFeatureSize:         0.2,
		MinHoleSize:            0.3,
		MinColumnDiameter:      0.4,
		MinColumnWidth:         0.4,
		MinEmbossWidth:         0.2,
		MinEmbossHeight:        0.1,
		MinEngraveWidth:        0.2,
		MinEngraveDepth:        0.1,
		MaxOverhangAngle:       55,
		MaxBridgeSpan:          999,
		MaxAspectRatio:         10,
		BaseThickness:          2.0,
		BaseChamfer:            0.3,
		SegmentsPerMM:          12,
		MinSegments:            12,
		MaxSegments:            64,
		MeshCellSize:           0.15,
		UseWindowFrames:        true,
		UseIndividualBalusters: true,
		UseArchedWindows:       true,
		UseDormers:             true,
	}
}

var constructors = map[string]func() Profile{
	"fdm":          NewFDM,
	"resin":        NewResin,
	"monopoly_fdm": NewMonopolyFDM,
}

// Names lists the registered profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName resolves a profile name. Unknown names are invalid parameters.
func ByName(name string) (Profile, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return Profile{}, errs.Invalid("printer_type", "unknown printer %q, available: %s",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Segments returns the facet count for a circle of the given diameter,
// clamped to the profile's limits and never below 3.
func (p Profile) Segments(diameter float64) int {
	n := int(math.Round(diameter * p.SegmentsPerMM))
	if n < p.MinSegments {
		n = p.MinSegments
	}
	if p.MaxSegments > 0 && n > p.MaxSegments {
		n = p.MaxSegments
	}
	if n < 3 {
		n = 3
	}
	return n
}

// Overrides lists optional field replacements, typically read from YAML.
// Nil fields keep the base profile's value.
type Overrides struct {
	MinWallThickness       *float64 `yaml:"min_wall_thickness"`
	MinFeatureSize         *float64 `yaml:"min_feature_size"`
	MinHoleSize            *float64 `yaml:"min_hole_size"`
	MinColumnDiameter      *float64 `yaml:"min_column_diameter"`
	MinColumnWidth         *float64 `yaml:"min_column_width"`
	MaxOverhangAngle       *float64 `yaml:"max_overhang_angle"`
	MaxBridgeSpan          *float64 `yaml:"max_bridge_span"`
	MaxAspectRatio         *float64 `yaml:"max_aspect_ratio"`
	BaseThickness          *float64 `yaml:"base_thickness"`
	BaseChamfer            *float64 `yaml:"base_chamfer"`
	MeshCellSize           *float64 `yaml:"mesh_cell_size"`
	UseWindowFrames        *bool    `yaml:"use_window_frames"`
	UseIndividualBalusters *bool    `yaml:"use_individual_balusters"`
	UseArchedWindows       *bool    `yaml:"use_arched_windows"`
	UseDormers             *bool    `yaml:"use_dormers"`
}

// Apply returns a copy of p with the non-nil overrides set.
func (p Profile) Apply(o Overrides) Profile {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&p.MinWallThickness, o.MinWallThickness)
	setF(&p.MinFeatureSize, o.MinFeatureSize)
	setF(&p.MinHoleSize, o.MinHoleSize)
	setF(&p.MinColumnDiameter, o.MinColumnDiameter)
	setF(&p.MinColumnWidth, o.MinColumnWidth)
	setF(&p.MaxOverhangAngle, o.MaxOverhangAngle)
	setF(&p.MaxBridgeSpan, o.MaxBridgeSpan)
	setF(&p.MaxAspectRatio, o.MaxAspectRatio)
	setF(&p.BaseThickness, o.BaseThickness)
	setF(&p.BaseChamfer, o.BaseChamfer)
	setF(&p.MeshCellSize, o.MeshCellSize)
	setB(&p.UseWindowFrames, o.UseWindowFrames)
	setB(&p.UseIndividualBalusters, o.UseIndividualBalusters)
	setB(&p.UseArchedWindows, o.UseArchedWindows)
	setB(&p.UseDormers, o.UseDormers)
	return p
}
