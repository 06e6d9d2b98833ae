// Package board builds game-board pieces: property plates that carry a
// hotel complex, its landscaped grounds and a road strip, and whole boards
// of properties laid out along a road with the connector and frame pieces
// that join them.
package board

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/errs"
)

// Road edges: the side of a property that faces the road.
const (
	South = "south"
	North = "north"
	East  = "east"
	West  = "west"
)

// RoadEdges lists the road edges.
var RoadEdges = []string{South, North, East, West}

// Road shapes.
const (
	Loop       = "loop"
	Serpentine = "serpentine"
	Linear     = "linear"
)

// RoadShapes lists the board road shapes.
var RoadShapes = []string{Loop, Serpentine, Linear}

// Limits on property and board requests.
const (
	MinLotWidth   = 40.0
	MinLotDepth   = 30.0
	MinRoadWidth  = 4.0
	MaxProperties = 12
	// lotMargin is kept clear between the buildings and the plate edges
	// and road.
	lotMargin = 2.0
	// minZoneDepth is the least depth left for buildings behind the road.
	minZoneDepth = 10.0
)

// DefaultPresets are assigned to board slots in order, wrapping around.
var DefaultPresets = []string{
	"royal", "fujiyama", "waikiki", "president",
	"safari", "taj_mahal", "letoile", "boomerang",
}

// PropertyParams is one property plate request. With a preset, the
// preset decides the style and the number of buildings.
type PropertyParams struct {
	Preset    string  `json:"preset,omitempty" yaml:"preset,omitempty"`
	Style     string  `json:"style" yaml:"style"`
	Buildings int     `json:"num_buildings" yaml:"num_buildings"`
	LotWidth  float64 `json:"lot_width" yaml:"lot_width"`
	LotDepth  float64 `json:"lot_depth" yaml:"lot_depth"`
	// RoadEdge is where the road side of the plate faces on a board. The
	// plate itself is always modelled with its road along the south edge.
	RoadEdge     string         `json:"road_edge" yaml:"road_edge"`
	RoadWidth    float64        `json:"road_width" yaml:"road_width"`
	Garden       bool           `json:"garden_enabled" yaml:"garden_enabled"`
	Printer      string         `json:"printer_type" yaml:"printer_type"`
	Seed         int64          `json:"seed" yaml:"seed"`
	StyleParams  map[string]any `json:"style_params,omitempty" yaml:"style_params,omitempty"`
	Spacing      float64        `json:"building_spacing" yaml:"building_spacing"`
	MaxTriangles int            `json:"max_triangles" yaml:"max_triangles"`
}

// DefaultPropertyParams returns the default property request.
func DefaultPropertyParams() PropertyParams {
	return PropertyParams{
		Style:        "modern",
		Buildings:    3,
		LotWidth:     100,
		LotDepth:     80,
		RoadEdge:     South,
		RoadWidth:    8,
		Garden:       true,
		Printer:      "fdm",
		Seed:         42,
		Spacing:      5,
		MaxTriangles: 300000,
	}
}

// Validate checks p without planning any buildings.
func (p PropertyParams) Validate() error {
	if !lo.Contains(RoadEdges, p.RoadEdge) {
		return errs.Invalid("road_edge", "must be one of %s, got %q", strings.Join(RoadEdges, ", "), p.RoadEdge)
	}
	if math.IsNaN(p.LotWidth) || math.IsNaN(p.LotDepth) || p.LotWidth < MinLotWidth || p.LotDepth < MinLotDepth {
		return errs.Invalid("lot", "must be at least %gx%g mm, got %gx%g", MinLotWidth, MinLotDepth, p.LotWidth, p.LotDepth)
	}
	if math.IsNaN(p.RoadWidth) || p.RoadWidth < MinRoadWidth {
		return errs.Invalid("road_width", "must be at least %g mm, got %g", MinRoadWidth, p.RoadWidth)
	}
	if d := p.zone().Depth(); d < minZoneDepth {
		return errs.Invalid("road_width", "a %g mm road leaves %.1f mm for buildings, need %g", p.RoadWidth, d, minZoneDepth)
	}
	return nil
}

// Lot is the plate in property coordinates: centered on X, running from
// the road edge at y=0 to y=LotDepth.
func (p PropertyParams) Lot() complex.Rect {
	return complex.Rect{MinX: -p.LotWidth / 2, MinY: 0, MaxX: p.LotWidth / 2, MaxY: p.LotDepth}
}

// zone is the part of the lot buildings may use.
func (p PropertyParams) zone() complex.Rect {
	return complex.Rect{
		MinX: -p.LotWidth/2 + lotMargin,
		MinY: p.RoadWidth + lotMargin,
		MaxX: p.LotWidth/2 - lotMargin,
		MaxY: p.LotDepth - lotMargin,
	}
}

// FrameParams shapes the border rails of a board.
type FrameParams struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	Width        float64 `json:"frame_width" yaml:"frame_width"`
	LipHeight    float64 `json:"lip_height" yaml:"lip_height"`
	LipThickness float64 `json:"lip_thickness" yaml:"lip_thickness"`
}

// BoardParams is one game board request.
type BoardParams struct {
	RoadShape     string  `json:"road_shape" yaml:"road_shape"`
	Properties    int     `json:"num_properties" yaml:"num_properties"`
	PropertyWidth float64 `json:"property_width" yaml:"property_width"`
	PropertyDepth float64 `json:"property_depth" yaml:"property_depth"`
	RoadWidth     float64 `json:"road_width" yaml:"road_width"`
	Printer       string  `json:"printer_type" yaml:"printer_type"`
	Seed          int64   `json:"seed" yaml:"seed"`
	Garden        bool    `json:"garden_enabled" yaml:"garden_enabled"`
	// MaxTriangles is the budget of each property plate.
	MaxTriangles int `json:"max_triangles_per_property" yaml:"max_triangles_per_property"`
	// Presets overrides DefaultPresets for the slots it names.
	Presets map[int]string `json:"style_assignments,omitempty" yaml:"style_assignments,omitempty"`
	Frame   FrameParams    `json:"frame" yaml:"frame"`
}

// DefaultBoardParams returns the default board request.
func DefaultBoardParams() BoardParams {
	return BoardParams{
		RoadShape:     Loop,
		Properties:    8,
		PropertyWidth: 100,
		PropertyDepth: 80,
		RoadWidth:     8,
		Printer:       "fdm",
		Seed:          42,
		Garden:        true,
		MaxTriangles:  300000,
		Frame:         FrameParams{Enabled: true, Width: 3, LipHeight: 1.5, LipThickness: 1},
	}
}

// Validate checks p, including every preset it assigns.
func (p BoardParams) Validate() error {
	if !lo.Contains(RoadShapes, p.RoadShape) {
		return errs.Invalid("road_shape", "must be one of %s, got %q", strings.Join(RoadShapes, ", "), p.RoadShape)
	}
	if p.Properties < 1 || p.Properties > MaxProperties {
		return errs.Invalid("num_properties", "%d outside [1, %d]", p.Properties, MaxProperties)
	}
	prop := PropertyParams{
		LotWidth: p.PropertyWidth, LotDepth: p.PropertyDepth,
		RoadEdge: South, RoadWidth: p.RoadWidth,
	}
	if err := prop.Validate(); err != nil {
		return err
	}
	slots := lo.Keys(p.Presets)
	sort.Ints(slots)
	for _, i := range slots {
		if i < 0 || i >= p.Properties {
			return errs.Invalid("style_assignments", "slot %d outside [0, %d)", i, p.Properties)
		}
		if _, err := complex.LookupPreset(p.Presets[i]); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	if p.Frame.Enabled && (p.Frame.Width <= 0 || p.Frame.LipHeight <= 0 || p.Frame.LipThickness <= 0) {
		return errs.Invalid("frame", "rail and lip sizes must be positive")
	}
	return nil
}
