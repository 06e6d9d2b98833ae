package styles

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
	"github.com/chazu/hotelgen/pkg/profile"
)

func newKit() *components.Kit {
	return components.New(geom.New(sdfx.New(sdfx.WithCellSize(0.4))), profile.NewFDM())
}

func request(t *testing.T, s Style, raw map[string]any) Request {
	t.Helper()
	v, err := s.Schema().Validate(raw)
	if err != nil {
		t.Fatalf("%s params: %v", s.Name(), err)
	}
	return Request{Width: 12, Depth: 10, Floors: 3, FloorHeight: 3, Params: v, Rand: rand.New(rand.NewSource(7))}
}

func TestRegistry(t *testing.T) {
	want := []string{"art_deco", "classical", "mediterranean", "modern", "skyscraper", "townhouse", "tropical", "victorian"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v", got)
	}
	for _, name := range want {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, s.Name())
		}
	}
	_, err := Lookup("brutalist")
	if !errors.Is(err, errs.ErrInvalidParameters) {
		t.Fatalf("unknown style: err = %v", err)
	}
	if !strings.Contains(err.Error(), "victorian") {
		t.Errorf("error does not list the available styles: %v", err)
	}
	if got := len(List()); got != len(want) {
		t.Errorf("List() has %d entries", got)
	}
}

func TestSchemaValidate(t *testing.T) {
	s := Schema{
		boolParam("flag", true, ""),
		intParam("count", 3, 1, 5, ""),
		floatParam("ratio", 0.5, 0.1, 0.9, ""),
		enumParam("kind", "a", []string{"a", "b"}, ""),
	}
	tests := []struct {
		name    string
		raw     map[string]any
		want    Values
		wantErr bool
	}{
		{"defaults", nil, Values{"flag": true, "count": 3, "ratio": 0.5, "kind": "a"}, false},
		{"overrides", map[string]any{"flag": false, "count": 5.0, "kind": "b"}, Values{"flag": false, "count": 5, "ratio": 0.5, "kind": "b"}, false},
		{"int as int64", map[string]any{"count": int64(2)}, Values{"flag": true, "count": 2, "ratio": 0.5, "kind": "a"}, false},
		{"unknown key", map[string]any{"colour": "red"}, nil, true},
		{"wrong type", map[string]any{"flag": "yes"}, nil, true},
		{"fractional int", map[string]any{"count": 2.5}, nil, true},
		{"below min", map[string]any{"count": 0}, nil, true},
		{"above max", map[string]any{"ratio": 1.5}, nil, true},
		{"bad choice", map[string]any{"kind": "c"}, nil, true},
		{"nan", map[string]any{"ratio": math.NaN()}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Validate(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrInvalidParameters) {
					t.Fatalf("err = %v, want invalid parameters", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEveryStyleAssembles(t *testing.T) {
	k := newKit()
	a := assembly.New(k.G)
	for _, s := range All() {
		t.Run(s.Name(), func(t *testing.T) {
			r := request(t, s, nil)
			solid, err := Generate(context.Background(), a, s, k, r)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			mesh, err := k.G.Kernel().ToMesh(solid)
			if err != nil {
				t.Fatal(err)
			}
			mn, mx := mesh.Bounds()
			if math.Abs(mn[2]) > 0.5 {
				t.Errorf("lowest point at z=%.2f, want ground level", mn[2])
			}
			floors := max(r.Floors, s.MinFloors())
			if top := float64(floors) * r.FloorHeight; mx[2] < top-0.5 {
				t.Errorf("top at z=%.2f, below the %d-floor stack (%.1f)", mx[2], floors, top)
			}
			if w := mx[0] - mn[0]; w < r.Width-0.5 {
				t.Errorf("width %.2f narrower than the footprint", w)
			}
		})
	}
}

func TestStylesRejectNothingAtMinimumProfile(t *testing.T) {
	k := components.New(geom.New(sdfx.New(sdfx.WithCellSize(0.4))), profile.NewMonopolyFDM())
	for _, s := range All() {
		r := request(t, s, nil)
		p, err := s.Plan(k, r)
		if err != nil {
			t.Errorf("%s: %v", s.Name(), err)
			continue
		}
		if p.Shell == nil {
			t.Errorf("%s: plan has no shell", s.Name())
		}
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	k := newKit()
	a := assembly.New(k.G)
	run := func(seed int64) float64 {
		r := request(t, Modern, nil)
		r.Rand = rand.New(rand.NewSource(seed))
		s, err := Generate(context.Background(), a, Modern, k, r)
		if err != nil {
			t.Fatal(err)
		}
		v, err := k.G.Volume(s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	if v1, v2 := run(42), run(42); v1 != v2 {
		t.Errorf("same seed gave volumes %.4f and %.4f", v1, v2)
	}
}

func TestBayHidesWindows(t *testing.T) {
	k := newKit()
	count := func(bay bool) int {
		p, err := Townhouse.Plan(k, request(t, Townhouse, map[string]any{"has_bay": bay}))
		if err != nil {
			t.Fatal(err)
		}
		return len(p.Cutouts)
	}
	with, without := count(true), count(false)
	if with >= without {
		t.Errorf("bay left %d cutouts, plain facade %d", with, without)
	}
}

func TestModernBandWindows(t *testing.T) {
	k := newKit()
	grid, err := Modern.Plan(k, request(t, Modern, nil))
	if err != nil {
		t.Fatal(err)
	}
	band, err := Modern.Plan(k, request(t, Modern, map[string]any{"window_style": "band"}))
	if err != nil {
		t.Fatal(err)
	}
	// One band per floor and face, floors 1 and 2, plus the door.
	if got := len(band.Cutouts); got != 4*2+1 {
		t.Errorf("band cutouts = %d, want 9", got)
	}
	if len(band.Cutouts) >= len(grid.Cutouts) {
		t.Errorf("band %d cutouts, grid %d", len(band.Cutouts), len(grid.Cutouts))
	}
}

func TestMinFloorsRaised(t *testing.T) {
	k := newKit()
	p, err := Skyscraper.Plan(k, request(t, Skyscraper, nil))
	if err != nil {
		t.Fatal(err)
	}
	_, mx := p.Shell.BoundingBox()
	if mx[2] < 8*3-1e-6 {
		t.Errorf("shell top %.2f, want at least 8 floors", mx[2])
	}
}

func TestFinPositions(t *testing.T) {
	f := components.Facade{Width: 20, Columns: 5, WindowWidth: 2}
	piers := finPositions(f, 8)
	if len(piers) != 4 {
		t.Fatalf("got %d piers, want 4", len(piers))
	}
	two := finPositions(f, 2)
	if len(two) != 2 || math.Abs(two[0]+two[1]) > 1e-9 {
		t.Errorf("two fins not symmetric: %v", two)
	}
}

func TestFittingTiers(t *testing.T) {
	tests := []struct {
		tiers            int
		w, d, setback, m float64
		want             int
	}{
		{3, 12, 10, 1, 4, 3},
		{5, 12, 10, 2, 4, 2},
		{3, 4, 4, 1, 4, 1},
		{4, 12, 10, 0, 4, 4},
	}
	for _, tt := range tests {
		if got := fittingTiers(tt.tiers, tt.w, tt.d, tt.setback, tt.m); got != tt.want {
			t.Errorf("fittingTiers(%d, %g, %g, %g, %g) = %d, want %d", tt.tiers, tt.w, tt.d, tt.setback, tt.m, got, tt.want)
		}
	}
}

func TestArtDecoSmallFootprint(t *testing.T) {
	k := newKit()
	r := request(t, ArtDeco, nil)
	r.Width, r.Depth = 4, 4
	p, err := ArtDeco.Plan(k, r)
	if err != nil {
		t.Fatalf("default tiers on a 4 x 4 footprint: %v", err)
	}
	_, mx := p.Shell.BoundingBox()
	if top := float64(r.Floors) * r.FloorHeight; mx[2] < top-1e-6 {
		t.Errorf("shell top %.2f, want the full %.1f", mx[2], top)
	}
}

func TestStiltLine(t *testing.T) {
	tests := []struct {
		span, cw, maxSpan float64
		want              int
	}{
		{12, 0.9, 6, 3},
		{12, 0.9, 999, 2},
		{30, 1, 6, 6},
	}
	for _, tt := range tests {
		xs := stiltLine(tt.span, tt.cw, tt.maxSpan)
		if len(xs) != tt.want {
			t.Errorf("stiltLine(%v, %v, %v) has %d stilts, want %d", tt.span, tt.cw, tt.maxSpan, len(xs), tt.want)
			continue
		}
		if math.Abs(xs[0]+(tt.span-tt.cw)/2) > 1e-9 {
			t.Errorf("first stilt at %v, want flush with the edge", xs[0])
		}
		for i := 1; i < len(xs); i++ {
			if gap := xs[i] - xs[i-1] - tt.cw; gap > tt.maxSpan+1e-9 {
				t.Errorf("gap %.2f exceeds %.2f", gap, tt.maxSpan)
			}
		}
	}
}

func TestPorticoColumns(t *testing.T) {
	tests := []struct {
		n             int
		pw, cw, limit float64
		want          int
	}{
		{4, 8.4, 0.92, 6, 4},
		{2, 30, 1, 6, 6},
		{8, 4, 1, 6, 2},
	}
	for _, tt := range tests {
		if got := portico(tt.n, tt.pw, tt.cw, tt.limit); got != tt.want {
			t.Errorf("portico(%d, %v, %v, %v) = %d, want %d", tt.n, tt.pw, tt.cw, tt.limit, got, tt.want)
		}
	}
}

func TestAlongMatchesOnFace(t *testing.T) {
	k := newKit()
	blk := block{x: 1, y: -2, w: 8, d: 6}
	bl := &building{k: k, g: k.G, b: k.G.Begin("test")}
	for _, face := range components.AllFaces {
		cube, err := k.G.Box(0.2, 0.2, 0.2)
		if err != nil {
			t.Fatal(err)
		}
		s := bl.onFace(cube, blk, face, 1.5, 0)
		mn, mx := s.BoundingBox()
		cx, cy := (mn[0]+mx[0])/2, (mn[1]+mx[1])/2
		if got := along(face, blk, cx, cy); math.Abs(got-1.5) > 1e-6 {
			t.Errorf("%s: along() = %.3f, want 1.5", face, got)
		}
	}
}
