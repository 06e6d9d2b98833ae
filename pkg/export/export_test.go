package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
	"github.com/chazu/hotelgen/pkg/tessellate"
)

func boxMesh(t *testing.T) *kernel.Mesh {
	t.Helper()
	k := sdfx.New(sdfx.WithCellSize(0.5))
	m, err := tessellate.Solid(k, k.Box(6, 4, 5), "block")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSTLRoundTrip(t *testing.T) {
	m := boxMesh(t)
	data, err := STL(m)
	if err != nil {
		t.Fatal(err)
	}
	// 80 byte header, count, 50 bytes per triangle.
	if want := 84 + 50*m.TriangleCount(); len(data) != want {
		t.Fatalf("len = %d, want %d", len(data), want)
	}

	back, err := ReadSTL(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if back.TriangleCount() != m.TriangleCount() {
		t.Errorf("triangles %d, wrote %d", back.TriangleCount(), m.TriangleCount())
	}
	if back.VertexCount() != m.VertexCount() {
		t.Errorf("vertices %d after welding, wrote %d", back.VertexCount(), m.VertexCount())
	}
	if v, w := back.SignedVolume(), m.SignedVolume(); math.Abs(v-w) > 1e-3*w {
		t.Errorf("volume %.3f, wrote %.3f", v, w)
	}
}

func TestReadSTLFromStream(t *testing.T) {
	m := boxMesh(t)
	data, err := STL(m)
	if err != nil {
		t.Fatal(err)
	}
	// MultiReader hides Seek, like a pipe or a network body.
	back, err := ReadSTL(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	if back.TriangleCount() != m.TriangleCount() {
		t.Errorf("triangles %d, wrote %d", back.TriangleCount(), m.TriangleCount())
	}
}

func TestRejectsBadMeshes(t *testing.T) {
	if _, err := STL(&kernel.Mesh{}); err == nil {
		t.Error("empty mesh exported")
	}
	m := boxMesh(t)
	m.Vertices[4] = float32(math.NaN())
	if _, err := STL(m); err == nil {
		t.Error("mesh with NaN exported")
	}
	if err := ThreeMF(io.Discard, m); err == nil {
		t.Error("mesh with NaN exported as 3mf")
	}
}

func TestThreeMF(t *testing.T) {
	var buf bytes.Buffer
	if err := ThreeMF(&buf, boxMesh(t)); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("not a zip package: %v", err)
	}
	var model string
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".model") {
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			b, _ := io.ReadAll(rc)
			rc.Close()
			model = string(b)
		}
	}
	if !strings.Contains(model, "<vertex") || !strings.Contains(model, "<triangle") {
		t.Errorf("model part lacks geometry: %.200s", model)
	}
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	a := Artifact{Name: "modern-7", Mesh: boxMesh(t), Metadata: map[string]any{"style": "modern"}}
	man, err := WriteDir(dir, a, Options{Formats: []string{"STL", "3mf", "stl", "svg"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"modern-7.3mf", "modern-7.stl"}; !reflect.DeepEqual(man.Files, want) {
		t.Errorf("files = %v, want %v", man.Files, want)
	}
	for _, f := range man.Files {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "modern-7" || got.Triangles != a.Mesh.TriangleCount() {
		t.Errorf("manifest = %+v", got)
	}
}

func TestWriteDirUnknownFormat(t *testing.T) {
	_, err := WriteDir(t.TempDir(), Artifact{Name: "x", Mesh: boxMesh(t)}, Options{Formats: []string{"obj"}})
	if !errors.Is(err, errs.ErrInvalidParameters) {
		t.Fatalf("err = %v, want invalid parameters", err)
	}
}

func TestWriteSet(t *testing.T) {
	dir := t.TempDir()
	m := boxMesh(t)
	s := Set{
		Name: "loop-board",
		Pieces: []Artifact{
			{Name: "property_01", Mesh: m, SitePlan: []byte("<svg/>")},
			{Name: "road_01", Mesh: m},
		},
		Metadata: map[string]any{"road_shape": "loop"},
		Plan:     []byte("<svg/>"),
	}
	man, err := WriteSet(dir, s, Options{Formats: []string{"stl", "svg"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(man.Pieces) != 2 || man.Triangles != 2*m.TriangleCount() {
		t.Fatalf("manifest = %+v", man)
	}
	for _, f := range []string{
		"loop-board.svg",
		ManifestFile,
		filepath.Join("property_01", "property_01.stl"),
		filepath.Join("property_01", "property_01.svg"),
		filepath.Join("road_01", "road_01.stl"),
		filepath.Join("road_01", ManifestFile),
	} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "road_01", "road_01.svg")); err == nil {
		t.Error("svg written for a piece without a plan")
	}

	s.Pieces[1].Name = "property_01"
	if _, err := WriteSet(t.TempDir(), s, Options{}); !errors.Is(err, errs.ErrInvalidParameters) {
		t.Errorf("duplicate names: err = %v", err)
	}
	if _, err := WriteSet(t.TempDir(), Set{Name: "empty"}, Options{}); !errors.Is(err, errs.ErrInvalidParameters) {
		t.Errorf("no pieces: err = %v", err)
	}
}
