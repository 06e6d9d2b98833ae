package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
)

func TestPNG(t *testing.T) {
	k := sdfx.New(sdfx.WithCellSize(0.5))
	m, err := k.ToMesh(k.Box(10, 8, 12))
	if err != nil {
		t.Fatal(err)
	}
	data, err := PNG(m, 64, 48)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v", b)
	}

	r, g, bl, _ := img.At(32, 24).RGBA()
	br, bg, bb, _ := img.At(0, 0).RGBA()
	if r == br && g == bg && bl == bb {
		t.Error("image center shows the background; the mesh was not drawn")
	}
}

func TestRenderRejects(t *testing.T) {
	if _, err := PNG(&kernel.Mesh{}, 32, 32); err == nil {
		t.Error("expected an error for an empty mesh")
	}
	k := sdfx.New(sdfx.WithCellSize(1))
	m, err := k.ToMesh(k.Box(4, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PNG(m, 0, 32); err == nil {
		t.Error("expected an error for a zero width")
	}
}
