package complex

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/errs"
)

// Preset is a curated complex: a style, a cast of roles and the
// proportions each role takes.
type Preset struct {
	Name        string          `json:"name" yaml:"name"`
	DisplayName string          `json:"display_name" yaml:"display_name"`
	Description string          `json:"description" yaml:"description"`
	Style       string          `json:"style" yaml:"style"`
	Roles       []Role          `json:"building_roles" yaml:"building_roles"`
	Hints       map[Role]Sizing `json:"size_hints,omitempty" yaml:"size_hints,omitempty"`
	// BendAngle is how far the complex is meant to curve about the
	// vertical axis. It is recorded in metadata only.
	BendAngle float64 `json:"bend_angle,omitempty" yaml:"bend_angle,omitempty"`
	// Strategy overrides the style's preferred layout.
	Strategy string `json:"layout_override,omitempty" yaml:"layout_override,omitempty"`
}

// Buildings is the number of buildings in the preset.
func (p Preset) Buildings() int { return len(p.Roles) }

var presets = []Preset{
	{
		Name:        "royal",
		DisplayName: "Royal",
		Description: "Grand classical hotel with courtyard, wide wings, and clock tower",
		Style:       "classical",
		Roles:       []Role{Main, Wing, Wing, Tower},
		Hints: map[Role]Sizing{
			Main:  {1.1, 0.8, 1.0},
			Wing:  {0.8, 0.55, 0.85},
			Tower: {0.3, 0.3, 1.5},
		},
	},
	{
		Name:        "fujiyama",
		DisplayName: "Fujiyama",
		Description: "Art Deco skyscraper complex with stepped towers",
		Style:       "art_deco",
		Roles:       []Role{Main, Annex, Annex},
		Hints: map[Role]Sizing{
			Main:  {0.9, 0.75, 1.25},
			Annex: {0.5, 0.4, 0.85},
		},
	},
	{
		Name:        "waikiki",
		DisplayName: "Waikiki",
		Description: "Tropical resort with main lodge and scattered pagoda pavilions",
		Style:       "tropical",
		Roles:       []Role{Main, Pavilion, Pavilion, Pavilion, Pavilion},
		Hints: map[Role]Sizing{
			Main:     {1.1, 0.8, 1.0},
			Pavilion: {0.45, 0.35, 0.35},
		},
	},
	{
		Name:        "president",
		DisplayName: "President",
		Description: "Imposing modern tower complex with cascading heights",
		Style:       "modern",
		Roles:       []Role{Main, Tower, Wing, Annex},
		Hints: map[Role]Sizing{
			Main:  {1.0, 0.7, 3.58},
			Tower: {0.75, 0.55, 2.86},
			Wing:  {0.65, 0.45, 2.15},
			Annex: {0.55, 0.4, 1.43},
		},
	},
	{
		Name:        "safari",
		DisplayName: "Safari",
		Description: "Mediterranean lodge with wide, low-slung wings",
		Style:       "mediterranean",
		Roles:       []Role{Main, Wing, Wing},
		Hints: map[Role]Sizing{
			Main: {1.15, 0.75, 0.75},
			Wing: {0.85, 0.5, 0.6},
		},
	},
	{
		Name:        "taj_mahal",
		DisplayName: "Taj Mahal",
		Description: "Victorian-Mughal palace with onion-domed turrets and flanking pavilions",
		Style:       "victorian",
		Roles:       []Role{Main, Pavilion, Pavilion},
		Hints: map[Role]Sizing{
			Main:     {1.0, 0.85, 1.0},
			Pavilion: {0.45, 0.35, 0.5},
		},
	},
	{
		Name:        "letoile",
		DisplayName: "L'Etoile",
		Description: "Curved crescent of elegant narrow townhouses",
		Style:       "townhouse",
		Roles:       []Role{Main, Main, Main, Main},
		Hints: map[Role]Sizing{
			Main: {0.7, 1.0, 1.15},
		},
		BendAngle: 60,
	},
	{
		Name:        "vacation",
		DisplayName: "Vacation",
		Description: "Sweeping curved modern high-rise resort tower",
		Style:       "modern",
		Roles:       []Role{Main},
		Hints: map[Role]Sizing{
			Main: {3.33, 0.8, 2.86},
		},
		BendAngle: 90,
	},
	{
		Name:        "boomerang",
		DisplayName: "Boomerang",
		Description: "Curved skyscraper complex swept into a boomerang arc",
		Style:       "skyscraper",
		Roles:       []Role{Tower, Wing, Wing},
		Hints: map[Role]Sizing{
			Tower: {0.35, 0.35, 2.5},
			Wing:  {0.8, 0.5, 0.85},
		},
		BendAngle: 120,
		Strategy:  "row",
	},
}

var presetIndex = lo.KeyBy(presets, func(p Preset) string { return p.Name })

// Presets returns every preset in registration order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetNames returns the preset names, sorted.
func PresetNames() []string {
	names := lo.Keys(presetIndex)
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset. Unknown names are invalid
// parameters.
func LookupPreset(name string) (Preset, error) {
	p, ok := presetIndex[name]
	if !ok {
		return Preset{}, errs.Invalid("preset", "unknown preset %q, available: %s", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}
