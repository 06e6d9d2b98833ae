package geom

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
)

func newG() *G {
	return New(sdfx.New(sdfx.WithCellSize(0.25)))
}

func near(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Abs(want)
}

func TestPrimitiveValidation(t *testing.T) {
	g := newG()
	tests := []struct {
		name string
		call func() (kernel.Solid, error)
	}{
		{"zero height box", func() (kernel.Solid, error) { return g.Box(10, 10, 0) }},
		{"negative width box", func() (kernel.Solid, error) { return g.Box(-1, 10, 10) }},
		{"NaN box", func() (kernel.Solid, error) { return g.Box(math.NaN(), 1, 1) }},
		{"two segment cylinder", func() (kernel.Solid, error) { return g.Cylinder(1, 1, 2) }},
		{"zero radius cylinder", func() (kernel.Solid, error) { return g.Cylinder(0, 1, 8) }},
		{"negative cone top", func() (kernel.Solid, error) { return g.Cone(1, -1, 1, 8) }},
		{"degenerate extrude", func() (kernel.Solid, error) {
			return g.Extrude(kernel.Profile2D{{0, 0}, {1, 0}, {2, 0}}, 1)
		}},
		{"short extrude", func() (kernel.Solid, error) { return g.Extrude(kernel.Profile2D{{0, 0}, {1, 0}}, 1) }},
		{"revolve past 360", func() (kernel.Solid, error) {
			return g.Revolve(kernel.Profile2D{{0, 0}, {1, 0}, {1, 1}}, 16, 400)
		}},
		{"revolve negative radius", func() (kernel.Solid, error) {
			return g.Revolve(kernel.Profile2D{{-1, 0}, {1, 0}, {1, 1}}, 16, 180)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.call()
			if !errors.Is(err, errs.ErrGeometry) {
				t.Fatalf("err = %v, want geometry failure", err)
			}
			if s != nil {
				t.Error("failed primitive returned a solid")
			}
		})
	}
}

func TestThroughCutout(t *testing.T) {
	g := newG()
	body, err := g.Box(10, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	// 6x6 cutter passing through top and bottom with overshoot on both.
	cut, err := g.Box(6, 6, Through(10))
	if err != nil {
		t.Fatal(err)
	}
	cut = g.Translate(cut, 0, 0, -Overshoot)

	out, err := g.Difference(body, []kernel.Solid{cut})
	if err != nil {
		t.Fatalf("Difference: %v", err)
	}
	v, err := g.Volume(out)
	if err != nil {
		t.Fatal(err)
	}
	if !near(v, 640, 0.05) {
		t.Errorf("volume = %.1f, want ~640", v)
	}
}

func TestEnclosedCutout(t *testing.T) {
	g := newG()
	body, _ := g.Box(10, 10, 10)
	cube, _ := g.Box(6, 6, 6)
	cube = g.Translate(cube, 0, 0, 2)

	out, err := g.Difference(body, []kernel.Solid{cube})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := g.Volume(out)
	if !near(v, 784, 0.05) {
		t.Errorf("volume = %.1f, want ~784", v)
	}
}

func TestOvershootIdempotence(t *testing.T) {
	g := newG()
	body, _ := g.Box(10, 10, 10)
	cut, _ := g.Box(4, 4, Through(10))
	cut = g.Translate(cut, 0, 0, -Overshoot)

	once, err := g.Difference(body, []kernel.Solid{cut})
	if err != nil {
		t.Fatal(err)
	}
	again, _ := g.Box(4, 4, Through(10)+2*Overshoot)
	again = g.Translate(again, 0, 0, -2*Overshoot)
	twice, err := g.Difference(once, []kernel.Solid{cut, again})
	if err != nil {
		t.Fatal(err)
	}

	v1, _ := g.Volume(once)
	v2, _ := g.Volume(twice)
	if !near(v2, v1, 0.01) {
		t.Errorf("re-subtracting changed volume: %.2f -> %.2f", v1, v2)
	}
}

func TestDifferenceEmptyBase(t *testing.T) {
	g := newG()
	a, _ := g.Box(2, 2, 2)
	b, _ := g.Box(4, 4, 4)
	b = g.Translate(b, 0, 0, -1)

	gone, err := g.Difference(a, []kernel.Solid{b})
	if err != nil {
		t.Fatalf("Difference: %v", err)
	}
	if !g.IsEmpty(gone) {
		t.Fatal("expected the larger cutter to consume the body")
	}
	if _, err := g.Difference(gone, nil); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("empty base err = %v, want geometry failure", err)
	}
	if _, err := g.Difference(nil, nil); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("nil base err = %v, want geometry failure", err)
	}
}

func TestDifferenceNoCutouts(t *testing.T) {
	g := newG()
	a, _ := g.Box(3, 3, 3)
	out, err := g.Difference(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != a {
		t.Error("empty cutout list should return the base unchanged")
	}
}

func TestUnionAllFiltersEmpty(t *testing.T) {
	g := newG()
	a, _ := g.Box(2, 2, 2)
	b, _ := g.Box(4, 4, 4)
	b = g.Translate(b, 0, 0, -1)
	hole, _ := g.Difference(a, []kernel.Solid{b})

	c, _ := g.Box(2, 2, 2)
	c = g.Translate(c, 5, 0, 0)

	out, err := g.UnionAll([]kernel.Solid{nil, hole, a, c})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := g.Volume(out)
	if !near(v, 16, 0.08) {
		t.Errorf("union volume = %.2f, want ~16", v)
	}

	if _, err := g.UnionAll([]kernel.Solid{hole, nil}); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("all-empty union err = %v, want geometry failure", err)
	}
	if _, err := g.UnionAll(nil); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("nil union err = %v, want geometry failure", err)
	}
}

func TestComposeDisjoint(t *testing.T) {
	g := newG()
	a, _ := g.Box(2, 2, 2)
	b := g.Translate(a, 10, 0, 0)
	out, err := g.ComposeDisjoint([]kernel.Solid{a, nil, b})
	if err != nil {
		t.Fatal(err)
	}
	size := Size(out)
	if !near(size[0], 12, 0.02) {
		t.Errorf("composed width = %.2f, want 12", size[0])
	}
	if _, err := g.ComposeDisjoint(nil); err == nil {
		t.Error("expected error composing nothing")
	}
}

func TestScaleRejectsZero(t *testing.T) {
	g := newG()
	a, _ := g.Box(2, 2, 2)
	if _, err := g.Scale(a, [3]float64{1, 0, 1}); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("err = %v, want geometry failure", err)
	}
	s, err := g.Scale(a, [3]float64{2, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if size := Size(s); !near(size[2], 4, 0.02) {
		t.Errorf("scaled height = %.2f, want 4", size[2])
	}
}

func TestExtrudeOrientsClockwise(t *testing.T) {
	g := newG()
	cw := kernel.Profile2D{{0, 0}, {0, 4}, {4, 4}, {4, 0}}
	if SignedArea(cw) >= 0 {
		t.Fatal("fixture should be clockwise")
	}
	s, err := g.Extrude(cw, 2)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := g.Volume(s)
	if !near(v, 32, 0.05) {
		t.Errorf("volume = %.2f, want ~32", v)
	}
}

func TestCut(t *testing.T) {
	g := newG()
	a, _ := g.Box(4, 4, 4)
	top, err := g.Cut(a, [3]float64{0, 0, 2}, [3]float64{0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := g.Volume(top)
	if !near(v, 32, 0.05) {
		t.Errorf("cut volume = %.2f, want ~32", v)
	}
	if _, err := g.Cut(a, [3]float64{}, [3]float64{}); err == nil {
		t.Error("zero normal should be rejected")
	}
}

func TestBuilderStopsAtFirstError(t *testing.T) {
	g := newG()
	b := g.Begin("canopy")
	ok := b.Box(1, 1, 1)
	if ok == nil {
		t.Fatal("valid box returned nil")
	}
	bad := b.Box(1, 0, 1)
	if bad != nil || !b.Failed() {
		t.Fatal("expected builder failure")
	}
	if later := b.Translate(b.Cylinder(1, 1, 8), 1, 1, 1); later != nil {
		t.Error("calls after a failure must return nil")
	}

	_, err := b.Done(ok)
	var ge *errs.GeometryError
	if !errors.As(err, &ge) {
		t.Fatalf("Done err = %v, want GeometryError", err)
	}
	if ge.Component != "box" && ge.Component != "canopy" {
		t.Errorf("component = %q", ge.Component)
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("error should name the bad dimension: %v", err)
	}
}

func TestBuilderDone(t *testing.T) {
	g := newG()
	b := g.Begin("slab")
	s := b.Union(b.Box(2, 2, 1), b.Translate(b.Box(2, 2, 1), 0, 0, 1-Embed))
	out, err := b.Done(s)
	if err != nil {
		t.Fatal(err)
	}
	if size := Size(out); !near(size[2], 2-Embed, 0.03) {
		t.Errorf("height = %.2f", size[2])
	}
	if _, err := g.Begin("nothing").Done(nil); err == nil {
		t.Error("Done(nil) should fail")
	}
}

func TestThrough(t *testing.T) {
	if got := Through(2); math.Abs(got-2.2) > 1e-12 {
		t.Errorf("Through(2) = %v", got)
	}
}
