package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/hotelgen/pkg/complex"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"keyword", `(hotel :style :modern)`, `(hotel "__kw_style" "__kw_modern")`},
		{"keyword in string", `"lobby :style"`, `"lobby :style"`},
		{"escaped quote", `"a \" :b" :c`, `"a \" :b" "__kw_c"`},
		{"assignment", `(def x := 10)`, `(def x := 10)`},
		{"kebab identifier", `(profile-value :fdm :min-wall-thickness)`, `(profile_value "__kw_fdm" "__kw_min-wall-thickness")`},
		{"minus", `(- 10 5)`, `(- 10 5)`},
		{"comment", `;; comment with :keyword`, `// comment with :keyword`},
		{"numeric keyword left alone", `:3mf`, `:3mf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func evaluate(t *testing.T, src string) *Script {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return s
}

func evalError(t *testing.T, src string) string {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil || len(evalErrs) == 0 {
		t.Fatalf("expected an eval error, got script %+v", s)
	}
	return evalErrs[0].Message
}

func TestHotel(t *testing.T) {
	s := evaluate(t, `
; lobby building
(hotel "lobby" :style :modern :width 24 :depth 20 :floors 4 :floor-height 4.5 :seed 9
       :printer :resin
       :params (params :window-style "band" :has-penthouse false))
`)
	if len(s.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(s.Jobs))
	}
	j := s.Jobs[0]
	if j.Name != "lobby" || j.Kind != JobHotel || j.Hotel == nil {
		t.Fatalf("job = %+v", j)
	}
	p := j.Hotel
	if p.Style != "modern" || p.Width != 24 || p.Depth != 20 || p.Floors != 4 || p.FloorHeight != 4.5 ||
		p.Seed != 9 || p.Printer != "resin" {
		t.Errorf("params = %+v", p)
	}
	want := map[string]any{"window_style": "band", "has_penthouse": false}
	if !reflect.DeepEqual(p.StyleParams, want) {
		t.Errorf("style params = %v, want %v", p.StyleParams, want)
	}
}

func TestHotelDefaults(t *testing.T) {
	s := evaluate(t, `(hotel :style :art-deco) (hotel :style :art_deco)`)
	if len(s.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(s.Jobs))
	}
	if s.Jobs[0].Name != "art_deco-42" || s.Jobs[1].Name != "art_deco-42-2" {
		t.Errorf("names = %s, %s", s.Jobs[0].Name, s.Jobs[1].Name)
	}
	if p := s.Jobs[0].Hotel; p.Width != 30 || p.Floors != 7 || p.Printer != "fdm" {
		t.Errorf("defaults = %+v", p)
	}
}

func TestVariablesAndArithmetic(t *testing.T) {
	s := evaluate(t, `
(def w 30)
(hotel :style :townhouse :width (* w 0.5) :depth w :seed 4)
`)
	if p := s.Jobs[0].Hotel; p.Width != 15 || p.Depth != 30 {
		t.Errorf("width %g depth %g", p.Width, p.Depth)
	}
}

func TestProfileValue(t *testing.T) {
	s := evaluate(t, `(hotel :style :modern :wall-thickness (profile-value :fdm :min-wall-thickness))`)
	if got := s.Jobs[0].Hotel.WallThickness; got != 0.8 {
		t.Errorf("wall thickness = %g, want the fdm minimum 0.8", got)
	}
	if msg := evalError(t, `(profile-value :fdm :colour)`); !strings.Contains(msg, "colour") {
		t.Errorf("message = %q", msg)
	}
}

func TestHotelErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"missing style", `(hotel :width 20)`, "style is required"},
		{"unknown style", `(hotel :style :gothic)`, "modern"},
		{"unknown option", `(hotel :style :modern :colour "red")`, ":colour"},
		{"wrong type", `(hotel :style :modern :floors "five")`, "floors"},
		{"duplicate name", `(hotel "a" :style :modern) (hotel "a" :style :modern)`, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := evalError(t, tt.src); !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want containing %q", msg, tt.want)
			}
		})
	}
}

func TestComplexPreset(t *testing.T) {
	s := evaluate(t, `(complex :preset :waikiki :seed 3)`)
	j := s.Jobs[0]
	if j.Kind != JobComplex || j.Name != "waikiki-complex-3" {
		t.Fatalf("job = %+v", j)
	}
	if p := j.Complex; p.Preset != "waikiki" || p.Buildings != 0 || p.Seed != 3 {
		t.Errorf("params = %+v", p)
	}
}

func TestComplexPlacements(t *testing.T) {
	s := evaluate(t, `
(complex "pair" :style :modern :spacing 4
  :placements (list
    (building :x -9 :width 12 :depth 10 :floors 3 :floor-height 3)
    (building :role :wing :x 9 :rotation 90 :width 12 :depth 10 :floors 3 :floor-height 3)))
`)
	p := s.Jobs[0].Complex
	if p.Buildings != 2 || len(p.Placements) != 2 || p.Spacing != 4 {
		t.Fatalf("params = %+v", p)
	}
	want := complex.Placement{X: 9, Rotation: 90, Width: 12, Depth: 10, Floors: 3, FloorHeight: 3, Role: complex.Wing}
	if p.Placements[1] != want {
		t.Errorf("placement = %+v, want %+v", p.Placements[1], want)
	}
	if p.Placements[0].Role != complex.Main {
		t.Errorf("default role = %s", p.Placements[0].Role)
	}
}

func TestComplexRoles(t *testing.T) {
	s := evaluate(t, `(complex :style :classical :roles (list :main :tower))`)
	p := s.Jobs[0].Complex
	if p.Buildings != 2 || !reflect.DeepEqual(p.Roles, []complex.Role{complex.Main, complex.Tower}) {
		t.Errorf("params = %+v", p)
	}
	if msg := evalError(t, `(complex :buildings 2)`); !strings.Contains(msg, "required") {
		t.Errorf("message = %q", msg)
	}
	if msg := evalError(t, `(complex :preset :ritz)`); !strings.Contains(msg, "royal") {
		t.Errorf("message = %q", msg)
	}
}

func TestOutput(t *testing.T) {
	s := evaluate(t, `(output :formats (list :stl "3mf" :png)) (styles) (presets) (strategies)`)
	if want := []string{"stl", "3mf", "png"}; !reflect.DeepEqual(s.Formats, want) {
		t.Errorf("formats = %v, want %v", s.Formats, want)
	}
	if msg := evalError(t, `(output :formats (list :obj))`); !strings.Contains(msg, "obj") {
		t.Errorf("message = %q", msg)
	}
}

func TestProperty(t *testing.T) {
	s := evaluate(t, `(property "corner" :preset :royal :road-edge :east :lot-width 90 :garden false :seed 5)`)
	j := s.Jobs[0]
	if j.Kind != JobProperty || j.Name != "corner" || j.Property == nil {
		t.Fatalf("job = %+v", j)
	}
	p := j.Property
	if p.Preset != "royal" || p.RoadEdge != "east" || p.LotWidth != 90 || p.Garden || p.Seed != 5 {
		t.Errorf("params = %+v", p)
	}
	if p.LotDepth != 80 || p.RoadWidth != 8 {
		t.Errorf("defaults lost: %+v", p)
	}

	s = evaluate(t, `(property :style :tropical :buildings 2)`)
	if j := s.Jobs[0]; j.Name != "tropical-property-42" || j.Property.Buildings != 2 {
		t.Errorf("job = %+v", j)
	}
}

func TestPropertyErrors(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{`(property :road-edge :up)`, "road_edge"},
		{`(property :lot-width 10)`, "lot"},
		{`(property :preset :ritz)`, "royal"},
		{`(property :style :gothic)`, "gothic"},
		{`(property :garden 1)`, "true or false"},
	}
	for _, tt := range tests {
		if msg := evalError(t, tt.src); !strings.Contains(msg, tt.want) {
			t.Errorf("%s: message = %q, want it to mention %q", tt.src, msg, tt.want)
		}
	}
}

func TestBoard(t *testing.T) {
	s := evaluate(t, `
(board :road-shape :serpentine :properties 6 :seed 9
  :presets (list :vacation :safari) :frame false)
(road-shapes)
`)
	j := s.Jobs[0]
	if j.Kind != JobBoard || j.Name != "serpentine-board-9" || j.Board == nil {
		t.Fatalf("job = %+v", j)
	}
	p := j.Board
	if p.RoadShape != "serpentine" || p.Properties != 6 || p.Frame.Enabled {
		t.Errorf("params = %+v", p)
	}
	if want := map[int]string{0: "vacation", 1: "safari"}; !reflect.DeepEqual(p.Presets, want) {
		t.Errorf("presets = %v, want %v", p.Presets, want)
	}
	if msg := evalError(t, `(board :properties 20)`); !strings.Contains(msg, "num_properties") {
		t.Errorf("message = %q", msg)
	}
	if msg := evalError(t, `(board :road-shape :spiral)`); !strings.Contains(msg, "loop") {
		t.Errorf("message = %q", msg)
	}
}
