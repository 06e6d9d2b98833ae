package components

import (
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Face names a side of a rectangular footprint centered on the origin.
type Face int

const (
	Front Face = iota // y = -depth/2, outward -Y
	Back              // y = +depth/2
	Left              // x = -width/2
	Right             // x = +width/2
)

// AllFaces lists the four faces in a fixed order.
var AllFaces = []Face{Front, Back, Left, Right}

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "?"
}

// Span returns the wall length of face f on a w x d footprint.
func (f Face) Span(w, d float64) float64 {
	if f == Left || f == Right {
		return d
	}
	return w
}

// OnFace turns a part built against a wall on y=0 (projecting toward -Y,
// running along X) to face f, and moves it onto that face of a w x d
// footprint. Rotations are exact quarter turns.
func (k *Kit) OnFace(s kernel.Solid, f Face, w, d float64) kernel.Solid {
	g := k.G
	switch f {
	case Back:
		return g.Translate(g.RotateZ(s, 180), 0, d/2, 0)
	case Left:
		return g.Translate(g.RotateZ(s, -90), -w/2, 0, 0)
	case Right:
		return g.Translate(g.RotateZ(s, 90), w/2, 0, 0)
	}
	return g.Translate(s, 0, -d/2, 0)
}

// OnFaces applies OnFace to every part.
func (k *Kit) OnFaces(parts []kernel.Solid, f Face, w, d float64) []kernel.Solid {
	out := make([]kernel.Solid, len(parts))
	for i, s := range parts {
		out[i] = k.OnFace(s, f, w, d)
	}
	return out
}

// Facade is a rectangular grid of windows on one wall.
type Facade struct {
	Width        float64 // wall length along X
	Thickness    float64 // wall thickness the cutouts overshoot
	Floors       int
	FloorHeight  float64
	Columns      int // windows per floor
	WindowWidth  float64
	WindowHeight float64
	Margin       float64 // blank wall kept at each end
	BaseZ        float64 // z where the first floor starts
	SkipGround   bool    // leave floor 0 blank for doors
	Arched       bool

	// Skip, when set, leaves out individual windows by floor and column
	// center x, e.g. the bay above a door.
	Skip func(floor int, x float64) bool
}

// Spacing returns the pier width between windows and at both ends of the
// usable wall: (usable - cols*windowWidth) / (cols+1).
func (f Facade) Spacing() float64 {
	usable := f.Width - 2*f.Margin
	return (usable - float64(f.Columns)*f.WindowWidth) / float64(f.Columns+1)
}

// Fit reduces Columns until every pier is at least minPier wide. It may
// return zero columns when not even one window fits.
func (f Facade) Fit(minPier float64) Facade {
	for f.Columns > 0 && f.Spacing() < minPier {
		f.Columns--
	}
	return f
}

// ColumnX returns the x of the center of window column col.
func (f Facade) ColumnX(col int) float64 {
	return -f.Width/2 + f.Margin + f.Spacing()*float64(col+1) + f.WindowWidth*float64(col) + f.WindowWidth/2
}

// Positions returns the bottom-center point of every window, in the wall's
// own frame (wall plane y=0). Floors run bottom to top, columns left to
// right.
func (f Facade) Positions() [][3]float64 {
	if f.Columns <= 0 || f.Floors <= 0 {
		return nil
	}
	sill := (f.FloorHeight - f.WindowHeight) / 2
	start := 0
	if f.SkipGround {
		start = 1
	}
	var out [][3]float64
	for floor := start; floor < f.Floors; floor++ {
		z := f.BaseZ + float64(floor)*f.FloorHeight + sill
		for col := 0; col < f.Columns; col++ {
			x := f.ColumnX(col)
			if f.Skip != nil && f.Skip(floor, x) {
				continue
			}
			out = append(out, [3]float64{x, 0, z})
		}
	}
	return out
}

// FacadeCutouts returns one window cutout per grid position, in the wall's
// own frame. Piers are kept at least a wall thickness wide.
func (k *Kit) FacadeCutouts(f Facade) ([]kernel.Solid, error) {
	f.WindowWidth, f.WindowHeight = k.OpeningSize(f.WindowWidth, f.WindowHeight)
	f = f.Fit(k.P.MinWallThickness)
	var cut kernel.Solid
	var err error
	if f.Arched {
		cut, err = k.ArchedWindow(f.WindowWidth, f.WindowHeight, f.Thickness)
	} else {
		cut, err = k.Window(f.WindowWidth, f.WindowHeight, f.Thickness)
	}
	if err != nil {
		return nil, err
	}
	return k.stamp(cut, f.Positions()), nil
}

// FacadeFrames returns a frame for every window of the grid when the
// profile prints frames, and nothing otherwise.
func (k *Kit) FacadeFrames(f Facade) ([]kernel.Solid, error) {
	if !k.P.UseWindowFrames {
		return nil, nil
	}
	f.WindowWidth, f.WindowHeight = k.OpeningSize(f.WindowWidth, f.WindowHeight)
	f = f.Fit(k.P.MinWallThickness)
	frame, err := k.WindowFrame(f.WindowWidth, f.WindowHeight)
	if err != nil {
		return nil, err
	}
	return k.stamp(frame, f.Positions()), nil
}

func (k *Kit) stamp(s kernel.Solid, at [][3]float64) []kernel.Solid {
	out := make([]kernel.Solid, 0, len(at))
	for _, p := range at {
		out = append(out, k.G.Translate(s, p[0], p[1], p[2]))
	}
	return out
}
