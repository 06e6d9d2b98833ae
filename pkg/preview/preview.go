// Package preview renders small shaded thumbnails of meshes.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"

	"github.com/chazu/hotelgen/pkg/kernel"
)

// Supersample is the oversampling factor used for antialiasing.
const Supersample = 2

// View places the camera relative to a mesh scaled into the bi-unit cube.
type View struct {
	Eye, Center, Up fauxgl.Vector
	Fovy            float64
	Near, Far       float64
}

// FrontLeft looks at the front facade (-Y) from above and to the left.
var FrontLeft = View{
	Eye:    fauxgl.V(-2.2, -3, 2),
	Center: fauxgl.V(0, 0, -0.1),
	Up:     fauxgl.V(0, 0, 1),
	Fovy:   40,
	Near:   1,
	Far:    10,
}

var (
	background = fauxgl.HexColor("#FFF8E3")
	objectTint = fauxgl.HexColor("#B86F52")
	light      = fauxgl.V(-0.75, -1, 1.25).Normalize()
)

// Render draws m into a width x height image.
func Render(m *kernel.Mesh, width, height int, v View) (image.Image, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("preview: empty mesh")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("preview: bad image size %dx%d", width, height)
	}

	mesh := toFauxgl(m)
	mesh.BiUnitCube()

	ctx := fauxgl.NewContext(width*Supersample, height*Supersample)
	ctx.ClearColorBufferWith(background)
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(v.Eye, v.Center, v.Up).Perspective(v.Fovy, aspect, v.Near, v.Far)
	shader := fauxgl.NewPhongShader(matrix, light, v.Eye)
	shader.ObjectColor = objectTint
	ctx.Shader = shader
	ctx.DrawMesh(mesh)

	return resize.Resize(uint(width), uint(height), ctx.Image(), resize.Bilinear), nil
}

// PNG renders m from the default view and encodes it.
func PNG(m *kernel.Mesh, width, height int) ([]byte, error) {
	img, err := Render(m, width, height, FrontLeft)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("preview: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func toFauxgl(m *kernel.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		c := m.Triangle(t)
		tris = append(tris, fauxgl.NewTriangleForPoints(
			fauxgl.V(c[0][0], c[0][1], c[0][2]),
			fauxgl.V(c[1][0], c[1][1], c[1][2]),
			fauxgl.V(c[2][0], c[2][1], c[2][2]),
		))
	}
	return fauxgl.NewTriangleMesh(tris)
}
