package sdfx

import (
	"math"
	"testing"
)

func within(got, want, relTol float64) bool {
	return math.Abs(got-want) <= math.Abs(want)*relTol
}

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(20, 10, 5)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	if v := mesh.SignedVolume(); v <= 0 {
		t.Fatalf("signed volume = %f, want positive", v)
	}
	t.Logf("box triangle count: %d", mesh.TriangleCount())
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, 0}
	expectMax := [3]float64{50, 25, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestCylinderBaseAtZero(t *testing.T) {
	k := New()
	cyl := k.Cylinder(8, 2, 32)
	min, max := cyl.BoundingBox()
	if math.Abs(min[2]) > 0.01 || math.Abs(max[2]-8) > 0.01 {
		t.Fatalf("cylinder z extent = [%f, %f], want [0, 8]", min[2], max[2])
	}
	vol, err := k.Volume(cyl)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	want := math.Pi * 2 * 2 * 8
	if !within(vol, want, 0.05) {
		t.Errorf("cylinder volume = %f, want ~%f", vol, want)
	}
}

func TestBoxVolume(t *testing.T) {
	k := New()
	vol, err := k.Volume(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 1000, 0.03) {
		t.Errorf("box volume = %f, want ~1000", vol)
	}
}

func TestDifferenceVolume(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	hole := k.Translate(k.Box(6, 6, 10.2), 0, 0, -0.1)
	diff := k.Difference(box, hole)

	vol, err := k.Volume(diff)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 1000-360, 0.04) {
		t.Errorf("difference volume = %f, want ~640", vol)
	}
	if k.IsEmpty(diff) {
		t.Error("difference reported empty")
	}
}

func TestIsEmptyAfterTotalSubtraction(t *testing.T) {
	k := New()
	box := k.Box(4, 4, 4)
	cutter := k.Translate(k.Box(6, 6, 6), 0, 0, -1)
	if !k.IsEmpty(k.Difference(box, cutter)) {
		t.Fatal("fully subtracted box should be empty")
	}
	if k.IsEmpty(box) {
		t.Fatal("plain box should not be empty")
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(10, 10, 10)
	box2 := k.Translate(k.Box(10, 10, 10), 5, 0, 0)
	u := k.Union(box1, box2)
	vol, err := k.Volume(u)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 1500, 0.04) {
		t.Errorf("union volume = %f, want ~1500", vol)
	}
	if k.Union(box1) != box1 {
		t.Error("single-element union should return its operand")
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(10, 10, 10)
	box2 := k.Translate(k.Box(10, 10, 10), 5, 0, 0)
	vol, err := k.Volume(k.Intersection(box1, box2))
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 500, 0.05) {
		t.Errorf("intersection volume = %f, want ~500", vol)
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{95, 195, 300}
	expectMax := [3]float64{105, 205, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestScaleAndMirror(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(2, 2, 2), 3, 0, 0)

	scaled := k.Scale(box, [3]float64{2, 1, 3})
	min, max := scaled.BoundingBox()
	if math.Abs(min[0]-4) > 0.01 || math.Abs(max[0]-8) > 0.01 || math.Abs(max[2]-6) > 0.01 {
		t.Errorf("scaled bounds = %v %v", min, max)
	}

	mirrored := k.Mirror(box, 0)
	min, max = mirrored.BoundingBox()
	if math.Abs(min[0]+4) > 0.01 || math.Abs(max[0]+2) > 0.01 {
		t.Errorf("mirrored x extent = [%f, %f], want [-4, -2]", min[0], max[0])
	}
}

func TestExtrudeTriangle(t *testing.T) {
	k := New()
	prism := k.Extrude([][2]float64{{0, 0}, {4, 0}, {0, 4}}, 5)
	min, max := prism.BoundingBox()
	if math.Abs(min[2]) > 0.01 || math.Abs(max[2]-5) > 0.01 {
		t.Errorf("extrude z extent = [%f, %f], want [0, 5]", min[2], max[2])
	}
	vol, err := k.Volume(prism)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 40, 0.06) {
		t.Errorf("prism volume = %f, want ~40", vol)
	}
}

func TestConePointed(t *testing.T) {
	k := New()
	cone := k.Cone(6, 3, 0, 32)
	vol, err := k.Volume(cone)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	want := math.Pi * 9 * 6 / 3
	if !within(vol, want, 0.08) {
		t.Errorf("cone volume = %f, want ~%f", vol, want)
	}
}

func TestHalfSpaceKeepsNormalSide(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	top := k.HalfSpace(box, [3]float64{0, 0, 5}, [3]float64{0, 0, 1})
	vol, err := k.Volume(top)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if !within(vol, 500, 0.05) {
		t.Errorf("half-space volume = %f, want ~500", vol)
	}
	mesh, _ := k.ToMesh(top)
	min, _ := mesh.Bounds()
	if min[2] < 4.5 {
		t.Errorf("kept part reaches z=%f, want >= 5", min[2])
	}
}

func TestMeshCellsClamped(t *testing.T) {
	k := New(WithCellSize(0.5), WithCellLimits(10, 20))
	if got := k.meshCells(unwrap(k.Box(1, 1, 1))); got != 10 {
		t.Errorf("small solid cells = %d, want 10", got)
	}
	if got := k.meshCells(unwrap(k.Box(100, 1, 1))); got != 20 {
		t.Errorf("large solid cells = %d, want 20", got)
	}
	if k.CellSize() != 0.5 {
		t.Errorf("CellSize() = %f, want 0.5", k.CellSize())
	}
}
