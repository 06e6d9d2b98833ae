package components

import (
	"math"

	"github.com/chazu/hotelgen/pkg/profile"
)

// ScaleContext derives feature dimensions from a building's footprint and
// floor height, so the same style reads correctly from Monopoly pieces to
// display models. Floor height is the unit of measure; every value is
// clamped up to the profile minimum that governs it.
type ScaleContext struct {
	Width       float64
	Depth       float64
	FloorHeight float64
	Floors      int
	Profile     profile.Profile
}

// referenceFloorHeight is the floor height of a Monopoly-scale hotel.
const referenceFloorHeight = 0.8

// NewScaleContext returns a ScaleContext.
func NewScaleContext(width, depth, floorHeight float64, floors int, p profile.Profile) ScaleContext {
	return ScaleContext{Width: width, Depth: depth, FloorHeight: floorHeight, Floors: floors, Profile: p}
}

func (c ScaleContext) ScaleFactor() float64 { return c.FloorHeight / referenceFloorHeight }

// TotalHeight is the height of the floor stack without roof or base.
func (c ScaleContext) TotalHeight() float64 { return float64(c.Floors) * c.FloorHeight }

func (c ScaleContext) WindowWidth() float64 {
	return Clamp(c.FloorHeight*0.5, c.Profile.MinHoleSize, math.Max(c.FloorHeight*0.7, c.Profile.MinHoleSize))
}

func (c ScaleContext) WindowHeight() float64 {
	return Clamp(c.FloorHeight*0.65, c.Profile.MinHoleSize, math.Max(c.FloorHeight*0.85, c.Profile.MinHoleSize))
}

// WindowsPerFloor fits windows along a wall with about one and a half
// window widths of pier between them. Never fewer than 2.
func (c ScaleContext) WindowsPerFloor(wallWidth float64) int {
	n := int(wallWidth / (c.WindowWidth() * 2.5))
	if n < 2 {
		return 2
	}
	return n
}

func (c ScaleContext) RoofOverhang() float64 {
	return Clamp(c.Width*0.03, 0.1, c.Width*0.08)
}

func (c ScaleContext) ParapetHeight() float64 {
	return Clamp(c.FloorHeight*0.35, math.Max(0.15, c.Profile.MinFeatureSize), c.FloorHeight*0.6)
}

func (c ScaleContext) ParapetThickness() float64 {
	return math.Max(c.Profile.MinWallThickness, c.FloorHeight*0.15)
}

func (c ScaleContext) RoofSlabThickness() float64 {
	return Clamp(c.FloorHeight*0.2, math.Max(0.1, c.Profile.MinFeatureSize), c.FloorHeight*0.4)
}

func (c ScaleContext) ColumnWidth() float64 {
	return math.Max(c.Profile.MinColumnWidth, c.FloorHeight*0.3)
}

func (c ScaleContext) WallThickness() float64 {
	return math.Max(c.Profile.MinWallThickness, c.FloorHeight*0.15)
}

func (c ScaleContext) CorniceHeight() float64 {
	return Clamp(c.FloorHeight*0.15, math.Max(c.Profile.MinEmbossHeight, c.Profile.MinFeatureSize), c.FloorHeight*0.3)
}

func (c ScaleContext) EntablatureHeight() float64 {
	return math.Max(c.FloorHeight*0.3, c.Profile.MinFeatureSize)
}

func (c ScaleContext) FinThickness() float64 {
	return math.Max(c.Profile.MinFeatureSize, c.FloorHeight*0.15)
}

func (c ScaleContext) FinDepth() float64 {
	return Clamp(c.FloorHeight*0.1, math.Max(0.1, c.Profile.MinEmbossHeight), c.FloorHeight*0.2)
}

func (c ScaleContext) Setback() float64 {
	return Clamp(c.Width*0.08, 0.3, c.Width*0.12)
}

func (c ScaleContext) BayDepth() float64 {
	return Clamp(c.Depth*0.08, 0.3, c.Depth*0.15)
}

func (c ScaleContext) StoopStepHeight() float64 {
	return Clamp(c.FloorHeight*0.08, math.Max(0.2, c.Profile.MinFeatureSize), c.FloorHeight*0.15)
}

func (c ScaleContext) StoopStepDepth() float64 {
	return Clamp(c.FloorHeight*0.1, math.Max(0.2, c.Profile.MinFeatureSize), c.FloorHeight*0.2)
}

func (c ScaleContext) EaveOverhang() float64 {
	return Clamp(c.Width*0.06, 0.3, c.Width*0.12)
}

func (c ScaleContext) LoggiaDepth() float64 {
	return Clamp(c.Depth*0.06, 0.2, c.Depth*0.12)
}

func (c ScaleContext) MansardInset() float64 {
	return Clamp(c.Width*0.08, 0.3, c.Width*0.15)
}

func (c ScaleContext) TurretRadius() float64 {
	return math.Max(c.Profile.MinColumnDiameter, c.Width*0.12)
}
