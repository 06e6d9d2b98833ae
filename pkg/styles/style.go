// Package styles holds the eight architectural style generators. A style
// turns building dimensions and its own parameters into an assembly plan:
// a massing shell plus batched cutouts and additions. Styles never run
// booleans against the shell themselves; the assembler does.
//
// The registry is a fixed list. There is no runtime registration.
package styles

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Request carries the building-level inputs of one generation.
type Request struct {
	Width       float64
	Depth       float64
	Floors      int
	FloorHeight float64

	// Zero values below are derived from the scale context.
	WallThickness   float64
	WindowWidth     float64
	WindowHeight    float64
	WindowsPerFloor int

	// Params must have come through the style's Schema.Validate.
	Params Values
	// Rand is the only source of randomness a style may use.
	Rand *rand.Rand
}

// Style is one architectural style.
type Style interface {
	Name() string
	DisplayName() string
	Description() string
	Schema() Schema
	// MinFloors is the floor count requests are raised to.
	MinFloors() int
	// PreferredLayout names the complex layout strategy that suits the
	// style.
	PreferredLayout() string
	// Garden is how the style's grounds are landscaped.
	Garden() GardenTheme
	Plan(k *components.Kit, r Request) (assembly.Plan, error)
}

// meta implements the descriptive half of Style.
type meta struct {
	name, display, description string
	layout                     string
	minFloors                  int
	schema                     Schema
}

func (m meta) Name() string            { return m.name }
func (m meta) DisplayName() string     { return m.display }
func (m meta) Description() string     { return m.description }
func (m meta) Schema() Schema          { return m.schema }
func (m meta) MinFloors() int          { return m.minFloors }
func (m meta) PreferredLayout() string { return m.layout }

func (m meta) Garden() GardenTheme {
	if g, ok := gardens[m.name]; ok {
		return g
	}
	return DefaultGarden
}

// all is the registry, in order of increasing complexity.
var all = []Style{
	Modern,
	Skyscraper,
	Townhouse,
	Classical,
	ArtDeco,
	Mediterranean,
	Tropical,
	Victorian,
}

var registry = lo.KeyBy(all, func(s Style) string { return s.Name() })

// Names returns the registered style names, sorted.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// Lookup returns the named style. Unknown names are invalid parameters.
func Lookup(name string) (Style, error) {
	s, ok := registry[name]
	if !ok {
		return nil, errs.Invalid("style", "unknown style %q, available: %s", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// All returns every registered style in complexity order.
func All() []Style {
	return append([]Style(nil), all...)
}

// Info is the machine-readable description of a style.
type Info struct {
	Name            string      `json:"name" yaml:"name"`
	DisplayName     string      `json:"display_name" yaml:"display_name"`
	Description     string      `json:"description" yaml:"description"`
	MinFloors       int         `json:"min_floors" yaml:"min_floors"`
	PreferredLayout string      `json:"preferred_layout" yaml:"preferred_layout"`
	Params          Schema      `json:"params" yaml:"params"`
	Garden          GardenTheme `json:"garden" yaml:"garden"`
}

// List describes every style, sorted by name.
func List() []Info {
	infos := lo.Map(all, func(s Style, _ int) Info {
		return Info{
			Name:            s.Name(),
			DisplayName:     s.DisplayName(),
			Description:     s.Description(),
			MinFloors:       s.MinFloors(),
			PreferredLayout: s.PreferredLayout(),
			Params:          s.Schema(),
			Garden:          s.Garden(),
		}
	})
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Generate plans and assembles one building without a base plate.
func Generate(ctx context.Context, a *assembly.Assembler, s Style, k *components.Kit, r Request) (kernel.Solid, error) {
	p, err := s.Plan(k, r)
	if err != nil {
		return nil, err
	}
	solid, _, err := a.Assemble(ctx, p, assembly.Options{})
	return solid, err
}
