package components

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
	"github.com/chazu/hotelgen/pkg/profile"
)

func newKit(p profile.Profile) *Kit {
	return New(geom.New(sdfx.New(sdfx.WithCellSize(0.2))), p)
}

func near(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Abs(want)
}

func volume(t *testing.T, k *Kit, s kernel.Solid) float64 {
	t.Helper()
	v, err := k.G.Volume(s)
	if err != nil {
		t.Fatalf("volume: %v", err)
	}
	return v
}

func meshBounds(t *testing.T, k *Kit, s kernel.Solid) (min, max [3]float64) {
	t.Helper()
	m, err := k.G.Kernel().ToMesh(s)
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	return m.Bounds()
}

func TestColumnClampedToMinimum(t *testing.T) {
	k := newKit(profile.NewFDM())
	col, err := k.RoundColumn(0.2, 3)
	if err != nil {
		t.Fatalf("RoundColumn: %v", err)
	}
	size := geom.Size(col)
	if size[0] < k.P.MinColumnDiameter-1e-9 {
		t.Errorf("column diameter %.3f below minimum %.3f", size[0], k.P.MinColumnDiameter)
	}
	if k.G.IsEmpty(col) {
		t.Error("clamped column is empty")
	}

	sq, err := k.SquareColumn(0.1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if w := geom.Size(sq)[0]; w < k.P.MinColumnWidth-1e-9 {
		t.Errorf("square column width %.3f below minimum", w)
	}
}

func TestColumnAspectThickening(t *testing.T) {
	k := newKit(profile.NewFDM())
	tests := []struct {
		diameter, height, want float64
	}{
		{1, 3, 1},
		{1, 30, 5},
		{0.1, 1, 0.8},
	}
	for _, tt := range tests {
		if got := k.ColumnDiameter(tt.diameter, tt.height); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ColumnDiameter(%v, %v) = %v, want %v", tt.diameter, tt.height, got, tt.want)
		}
	}
}

func TestWindowClampedToMinHole(t *testing.T) {
	k := newKit(profile.NewFDM())
	w, err := k.Window(0.1, 0.2, 1)
	if err != nil {
		t.Fatal(err)
	}
	size := geom.Size(w)
	if size[0] < k.P.MinHoleSize-1e-9 || size[2] < k.P.MinHoleSize-1e-9 {
		t.Errorf("window %v below min hole %v", size, k.P.MinHoleSize)
	}
	if !near(size[1], 1+2*geom.Overshoot, 1e-9) {
		t.Errorf("window depth = %v, want wall plus overshoot", size[1])
	}
}

func TestArchedWindowGate(t *testing.T) {
	fdm := newKit(profile.NewFDM())
	resin := newKit(profile.NewResin())

	rect, err := fdm.ArchedWindow(2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	vr := volume(t, fdm, rect)
	if !near(vr, 2*4*1.2, 0.1) {
		t.Errorf("FDM fallback volume = %.2f, want rectangular %.2f", vr, 2*4*1.2)
	}

	arch, err := resin.ArchedWindow(2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 2 x 3 rectangle plus a half disc of radius 1.
	want := (2*3 + math.Pi/2) * 1.2
	va := volume(t, resin, arch)
	if !near(va, want, 0.1) {
		t.Errorf("arched volume = %.2f, want %.2f", va, want)
	}
	if va >= vr {
		t.Errorf("arched head (%.2f) should remove less than the full rectangle (%.2f)", va, vr)
	}
}

func TestGablePitch(t *testing.T) {
	peak := GablePeak(10, 0.5)
	if got := GablePitch(10, peak); got < MinGablePitch-1e-9 {
		t.Errorf("pitch %.2f below minimum", got)
	}
	if GablePeak(10, 4) != 4 {
		t.Error("steep peaks should be kept")
	}
}

func TestGabledRoofVolume(t *testing.T) {
	k := newKit(profile.NewFDM())
	roof, err := k.GabledRoof(10, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	if v := volume(t, k, roof); !near(v, 120, 0.05) {
		t.Errorf("gable volume = %.2f, want 120", v)
	}
	mn, mx := meshBounds(t, k, roof)
	if math.Abs(mn[2]) > 0.25 || math.Abs(mx[2]-3) > 0.25 {
		t.Errorf("gable spans z %.2f..%.2f, want 0..3", mn[2], mx[2])
	}
	if math.Abs(mx[1]-4) > 0.25 {
		t.Errorf("ridge should run along Y to 4, got %.2f", mx[1])
	}
}

// The inclined half-space construction of the same gable.
func gableByHalfSpaces(g *geom.G, w, d, peak float64) (kernel.Solid, error) {
	b := g.Begin("gable")
	s := b.Box(w, d, peak)
	slope := peak / (w / 2)
	s = b.Cut(s, [3]float64{w / 2, 0, 0}, [3]float64{-slope, 0, -1})
	s = b.Cut(s, [3]float64{-w / 2, 0, 0}, [3]float64{slope, 0, -1})
	return b.Done(s)
}

func TestGableConstructionsAgree(t *testing.T) {
	k := newKit(profile.NewFDM())
	a, err := k.GabledRoof(10, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := gableByHalfSpaces(k.G, 10, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	va, vb := volume(t, k, a), volume(t, k, b)
	if !near(va, vb, 0.03) {
		t.Errorf("extruded %.2f vs half-space %.2f", va, vb)
	}
}

func TestHippedRoofVolume(t *testing.T) {
	k := newKit(profile.NewFDM())
	roof, err := k.HippedRoof(10, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Prism along the 4mm ridge plus a square pyramid from the two hips.
	want := 6*3*4/2.0 + 6*6*3/3.0
	if v := volume(t, k, roof); !near(v, want, 0.06) {
		t.Errorf("hip volume = %.2f, want %.2f", v, want)
	}
}

func TestMansardRoof(t *testing.T) {
	k := newKit(profile.NewFDM())
	roof, err := k.MansardRoof(10, 8, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, mx := meshBounds(t, k, roof)
	if mx[2] < 2.5 || mx[2] > 3.3 {
		t.Errorf("mansard top = %.2f, want about 3", mx[2])
	}
	if _, err := k.MansardRoof(1, 1, 1, 1, 0.5); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("tiny mansard err = %v, want geometry failure", err)
	}
}

func TestBarrelRoof(t *testing.T) {
	k := newKit(profile.NewFDM())

	half, err := k.BarrelRoof(6, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pi * 9 / 2 * 10
	if v := volume(t, k, half); !near(v, want, 0.05) {
		t.Errorf("half cylinder volume = %.2f, want %.2f", v, want)
	}

	low, err := k.BarrelRoof(6, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	mn, mx := meshBounds(t, k, low)
	if mx[2]-mn[2] > 1.3 {
		t.Errorf("segment vault height %.2f, want about 1", mx[2]-mn[2])
	}
	if mx[0]-mn[0] > 6.3 {
		t.Errorf("segment vault span %.2f, want 6", mx[0]-mn[0])
	}
}

func TestRoofDispatch(t *testing.T) {
	k := newKit(profile.NewFDM())
	sc := NewScaleContext(10, 8, 3, 3, k.P)
	for _, kind := range []RoofKind{RoofFlat, RoofGabled, RoofHipped, RoofMansard, RoofBarrel} {
		s, err := k.Roof(kind, 10, 8, 2, sc)
		if err != nil {
			t.Errorf("%s: %v", kind, err)
			continue
		}
		if k.G.IsEmpty(s) {
			t.Errorf("%s roof is empty", kind)
		}
	}
	if _, err := k.Roof("onion", 10, 8, 2, sc); !errors.Is(err, errs.ErrGeometry) {
		t.Errorf("unknown roof err = %v", err)
	}
}

func TestFlatRoofParapetIsHollow(t *testing.T) {
	k := newKit(profile.NewFDM())
	bare, err := k.FlatRoof(10, 10, 0.6, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	walled, err := k.FlatRoof(10, 10, 0.6, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	vb, vw := volume(t, k, bare), volume(t, k, walled)
	// Parapet ring: 10x10 minus 8x8, one high.
	if !near(vw-vb, 36, 0.15) {
		t.Errorf("parapet adds %.2f, want ~36", vw-vb)
	}
}

func TestBasePlateSize(t *testing.T) {
	tests := []struct {
		w, d, h      float64
		wantW, wantD float64
	}{
		{30, 25, 40, 31, 26},
		{10, 8, 60, 24, 24},
		{10, 30, 40, 16, 31},
	}
	for _, tt := range tests {
		w, d := BasePlateSize(tt.w, tt.d, tt.h)
		if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(d-tt.wantD) > 1e-9 {
			t.Errorf("BasePlateSize(%v,%v,%v) = %v,%v want %v,%v", tt.w, tt.d, tt.h, w, d, tt.wantW, tt.wantD)
		}
		if w <= tt.w || d <= tt.d {
			t.Error("plate must extend past the footprint")
		}
	}
}

func TestBasePlateChamfer(t *testing.T) {
	k := newKit(profile.NewFDM())
	plate, err := k.BasePlate(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	th := k.P.BaseThickness + geom.Embed
	full := 20 * 20 * th
	v := volume(t, k, plate)
	if v >= full {
		t.Errorf("chamfer removed nothing: %.1f >= %.1f", v, full)
	}
	c := k.P.BaseChamfer
	if !near(v, full-4*20*c*c/2, 0.04) {
		t.Errorf("plate volume %.1f, want ~%.1f", v, full-4*20*c*c/2)
	}
	mn, mx := meshBounds(t, k, plate)
	if math.Abs(mn[2]+k.P.BaseThickness) > 0.2 || math.Abs(mx[2]-geom.Embed) > 0.2 {
		t.Errorf("plate z %.2f..%.2f", mn[2], mx[2])
	}
}

func TestFacadeSpacing(t *testing.T) {
	f := Facade{Width: 12, Floors: 3, FloorHeight: 3, Columns: 3, WindowWidth: 1, WindowHeight: 2, SkipGround: true}
	if s := f.Spacing(); math.Abs(s-2.25) > 1e-9 {
		t.Fatalf("Spacing = %v, want 2.25", s)
	}
	pos := f.Positions()
	if len(pos) != 6 {
		t.Fatalf("got %d windows, want 6", len(pos))
	}
	wantX := []float64{-3.25, 0, 3.25}
	for i, x := range wantX {
		if math.Abs(pos[i][0]-x) > 1e-9 {
			t.Errorf("window %d x = %v, want %v", i, pos[i][0], x)
		}
	}
	if math.Abs(pos[0][2]-3.5) > 1e-9 {
		t.Errorf("first sill z = %v, want 3.5", pos[0][2])
	}

	f.Skip = func(floor int, x float64) bool { return floor == 1 && math.Abs(x) < 0.5 }
	if got := len(f.Positions()); got != 5 {
		t.Errorf("with skip got %d windows, want 5", got)
	}
}

func TestFacadeFit(t *testing.T) {
	f := Facade{Width: 5, Floors: 1, FloorHeight: 3, Columns: 4, WindowWidth: 1, WindowHeight: 2}
	fit := f.Fit(0.8)
	if fit.Columns != 2 {
		t.Errorf("Fit kept %d columns, want 2", fit.Columns)
	}
	if fit.Spacing() < 0.8 {
		t.Errorf("pier %.2f below minimum", fit.Spacing())
	}
	if none := (Facade{Width: 1, Columns: 2, WindowWidth: 1}).Fit(0.8); none.Columns != 0 {
		t.Errorf("nothing fits, got %d columns", none.Columns)
	}
}

func TestFacadeFramesGate(t *testing.T) {
	f := Facade{Width: 12, Thickness: 1, Floors: 2, FloorHeight: 3, Columns: 2, WindowWidth: 1, WindowHeight: 2}

	mono := newKit(profile.NewMonopolyFDM())
	frames, err := mono.FacadeFrames(f)
	if err != nil || frames != nil {
		t.Errorf("monopoly frames = %v, %v; want none", frames, err)
	}

	fdm := newKit(profile.NewFDM())
	frames, err = fdm.FacadeFrames(f)
	if err != nil {
		t.Fatal(err)
	}
	cuts, err := fdm.FacadeCutouts(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 || len(cuts) != 4 {
		t.Errorf("frames %d, cutouts %d; want 4 each", len(frames), len(cuts))
	}
}

func TestOnFace(t *testing.T) {
	k := newKit(profile.NewFDM())
	part, err := k.G.Box(2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	part = k.G.Translate(part, 0, -0.5, 0)

	// A 12 x 10 footprint; the part projects 1 past each face.
	tests := []struct {
		face  Face
		axis  int
		outer bool // max bound instead of min
		want  float64
	}{
		{Front, 1, false, -6},
		{Back, 1, true, 6},
		{Left, 0, false, -7},
		{Right, 0, true, 7},
	}
	for _, tt := range tests {
		mn, mx := k.OnFace(part, tt.face, 12, 10).BoundingBox()
		got := mn[tt.axis]
		if tt.outer {
			got = mx[tt.axis]
		}
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s: outer bound %.3f, want %.3f", tt.face, got, tt.want)
		}
	}
}

func TestBalustradeGate(t *testing.T) {
	fdm := newKit(profile.NewFDM())
	resin := newKit(profile.NewResin())

	solid, err := fdm.Balustrade(6, 1.5, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	open, err := resin.Balustrade(6, 1.5, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if volume(t, resin, open) >= volume(t, fdm, solid) {
		t.Error("individual balusters should be lighter than a solid rail")
	}
}

func TestBalconyHasSupport(t *testing.T) {
	k := newKit(profile.NewFDM())
	if !k.NeedsCorbel(2) || k.NeedsCorbel(0.3) {
		t.Fatal("FDM corbel threshold should be 0.6mm")
	}
	b, err := k.Balcony(4, 2, 0.6, 1)
	if err != nil {
		t.Fatal(err)
	}
	mn, _ := meshBounds(t, k, b)
	if mn[2] > -1.5 {
		t.Errorf("support wedge should reach below the slab, min z %.2f", mn[2])
	}
}

func TestDoorCanopySupport(t *testing.T) {
	k := newKit(profile.NewFDM())
	c, err := k.DoorCanopy(3, 1.5, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	mn, mx := meshBounds(t, k, c)
	if mx[2] > 0.15 {
		t.Errorf("canopy top %.2f, want 0", mx[2])
	}
	if mn[2] > -1.5 {
		t.Errorf("canopy corbel min z %.2f, want about -2.1", mn[2])
	}
}

func TestDormerGate(t *testing.T) {
	with := newKit(profile.NewFDM())
	without := newKit(profile.NewMonopolyFDM())
	a, err := with.Dormer(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := without.Dormer(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, amx := meshBounds(t, with, a)
	_, bmx := meshBounds(t, without, b)
	if amx[2] <= bmx[2] {
		t.Errorf("gabled dormer (%.2f) should rise above shed dormer (%.2f)", amx[2], bmx[2])
	}
}

func TestDormerSizeKeepsSolidBack(t *testing.T) {
	k := newKit(profile.NewFDM())
	t0 := k.P.MinWallThickness
	w, h, d := k.DormerSize(1, 0.9, 1)
	if w < 2*t0+k.P.MinHoleSize || h < 2*t0+k.P.MinHoleSize {
		t.Errorf("dormer %.2f x %.2f leaves no room for a window with walls", w, h)
	}
	if d < 3*t0 {
		t.Errorf("dormer depth %.2f, want at least %.2f behind a %.2f wall", d, 3*t0, t0)
	}
	s, err := k.Dormer(1, 0.9, 1)
	if err != nil {
		t.Fatal(err)
	}
	mn, mx := meshBounds(t, k, s)
	if math.Abs(mn[1]) > 0.1 || mx[1] < d-0.3 {
		t.Errorf("dormer spans y %.2f..%.2f, want 0..%.2f", mn[1], mx[1], d)
	}
}

func TestEaveSkirt(t *testing.T) {
	k := newKit(profile.NewFDM())
	s, err := k.EaveSkirt(10, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Frustum from 10x10 to 12x12 over 1mm.
	want := (100 + 144 + 120) / 3.0
	if v := volume(t, k, s); !near(v, want, 0.06) {
		t.Errorf("skirt volume %.2f, want %.2f", v, want)
	}
	if _, err := k.EaveSkirt(10, 10, 0); err == nil {
		t.Error("zero overhang should fail")
	}
}

func TestStoopSteps(t *testing.T) {
	k := newKit(profile.NewFDM())
	s, err := k.StoopSteps(2, 1, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Steps of 3, 2 and 1mm rise, 1mm each.
	if v := volume(t, k, s); !near(v, 2*(3+2+1)+2*3*geom.Embed, 0.06) {
		t.Errorf("stoop volume %.2f", v)
	}
	if h := k.StoopHeight(1, 3); h != 3 {
		t.Errorf("StoopHeight = %v", h)
	}
}

func TestSpireAndTurret(t *testing.T) {
	k := newKit(profile.NewFDM())
	sp, err := k.Spire(0.2, 12)
	if err != nil {
		t.Fatal(err)
	}
	if w := geom.Size(sp)[0]; w < 2-1e-9 {
		t.Errorf("spire width %.2f, want thickened to 2", w)
	}
	tu, err := k.Turret(1.5, 6, 2, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	_, mx := meshBounds(t, k, tu)
	if mx[2] < 7.5 {
		t.Errorf("turret top %.2f, want ~7.9", mx[2])
	}
}

func TestOnionDomeAndPagoda(t *testing.T) {
	k := newKit(profile.NewResin())
	dome, err := k.OnionDome(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if k.G.IsEmpty(dome) {
		t.Error("onion dome empty")
	}
	pag, err := k.PagodaRoof(8, 8, 1.5, 3, 1, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	mn, mx := meshBounds(t, k, pag)
	if mn[2] < -0.2 || mx[2] < 3 {
		t.Errorf("pagoda spans z %.2f..%.2f", mn[2], mx[2])
	}
}

func TestScaleContext(t *testing.T) {
	fdm := profile.NewFDM()
	sc := NewScaleContext(30, 25, 5, 7, fdm)
	if got := sc.WindowWidth(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("WindowWidth = %v", got)
	}
	if got := sc.WindowsPerFloor(30); got != 4 {
		t.Errorf("WindowsPerFloor(30) = %d, want 4", got)
	}
	if got := sc.WindowsPerFloor(3); got != 2 {
		t.Errorf("WindowsPerFloor(3) = %d, want the floor of 2", got)
	}
	if sc.TotalHeight() != 35 {
		t.Errorf("TotalHeight = %v", sc.TotalHeight())
	}

	tiny := NewScaleContext(3, 3, 0.5, 2, fdm)
	if tiny.WindowWidth() < fdm.MinHoleSize {
		t.Error("window width must respect min hole size")
	}
	if tiny.ParapetHeight() < fdm.MinFeatureSize {
		t.Error("parapet must respect min feature size")
	}
	if tiny.WallThickness() < fdm.MinWallThickness {
		t.Error("wall thickness must respect profile minimum")
	}
}
