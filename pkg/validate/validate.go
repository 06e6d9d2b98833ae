// Package validate runs the printability checklist on a finished model.
// The checker is read-only: it meshes and measures, and reports what it
// finds as severity-tagged issues. Whether warnings block an export is the
// caller's decision.
package validate

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/profile"
	"github.com/chazu/hotelgen/pkg/tessellate"
)

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Code identifies one checklist item.
type Code string

const (
	CodeWatertight    Code = "watertight"
	CodeVolume        Code = "positive_volume"
	CodeBase          Code = "base_at_z0"
	CodeMaxSize       Code = "max_size"
	CodeMinSize       Code = "min_size"
	CodeTriangles     Code = "triangle_count"
	CodeDegenerate    Code = "degenerate_triangles"
	CodeNormals       Code = "consistent_normals"
	CodeComponents    Code = "single_component"
	CodeWallThickness Code = "wall_thickness"
)

// Codes lists the checklist in order.
var Codes = []Code{
	CodeWatertight, CodeVolume, CodeBase, CodeMaxSize, CodeMinSize,
	CodeTriangles, CodeDegenerate, CodeNormals, CodeComponents, CodeWallThickness,
}

// Issue is one failed check.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Severity, i.Code, i.Message)
}

// Limits are the thresholds the checklist applies.
type Limits struct {
	MaxSize       [3]float64 `json:"max_size"`
	MinSize       float64    `json:"min_size"`
	BaseTolerance float64    `json:"base_tolerance"`
	MinTriangles  int        `json:"min_triangles"`
	MaxTriangles  int        `json:"max_triangles"`
	// DegenerateArea is the area in mm² below which a triangle counts as
	// degenerate.
	DegenerateArea float64 `json:"degenerate_area"`
	// WallSamples is the number of surface points probed for wall
	// thickness. Zero skips the check.
	WallSamples int     `json:"wall_samples"`
	MinWall     float64 `json:"min_wall"`
}

// DefaultLimits returns the fixed checklist thresholds with the profile's
// wall minimum. Wall sampling is off.
func DefaultLimits(p profile.Profile) Limits {
	return Limits{
		MaxSize:        [3]float64{120, 120, 120},
		MinSize:        5,
		BaseTolerance:  0.1,
		MinTriangles:   100,
		MaxTriangles:   200000,
		DegenerateArea: 1e-10,
		MinWall:        p.MinWallThickness,
	}
}

// Check runs the checklist on a welded mesh.
func Check(m *kernel.Mesh, l Limits) []Issue {
	issues, _ := check(m, l)
	return issues
}

// Inspect is Check that also returns the mesh analysis it ran.
func Inspect(m *kernel.Mesh, l Limits) ([]Issue, Analysis) {
	return check(m, l)
}

func check(m *kernel.Mesh, l Limits) ([]Issue, Analysis) {
	a := Analyze(m, l.DegenerateArea)
	issues := checkAnalysis(a, l)
	if l.WallSamples > 0 && a.Watertight() {
		if thin, probed, thinnest := wallThickness(m, l.WallSamples, l.MinWall); thin > 0 {
			issues = append(issues, Issue{Code: CodeWallThickness, Severity: SeverityWarning,
				Message: fmt.Sprintf("%d of %d probed points are thinner than %.2f mm (thinnest %.2f mm)", thin, probed, l.MinWall, thinnest)})
		}
	}
	return issues, a
}

// CheckSolid meshes s with the kernel and runs the checklist.
func CheckSolid(k kernel.Kernel, s kernel.Solid, l Limits) ([]Issue, Analysis, error) {
	m, err := tessellate.Solid(k, s, "")
	if err != nil {
		return nil, Analysis{}, fmt.Errorf("validate: %w", err)
	}
	issues, a := check(m, l)
	return issues, a, nil
}

func checkAnalysis(a Analysis, l Limits) []Issue {
	var issues []Issue
	add := func(c Code, s Severity, format string, args ...any) {
		issues = append(issues, Issue{Code: c, Severity: s, Message: fmt.Sprintf(format, args...)})
	}

	if a.Triangles == 0 {
		add(CodeWatertight, SeverityError, "mesh is empty")
		add(CodeVolume, SeverityError, "mesh is empty")
		return issues
	}

	switch {
	case a.NonFinite > 0:
		add(CodeWatertight, SeverityError, "%d non-finite vertex coordinates", a.NonFinite)
	case !a.Watertight():
		add(CodeWatertight, SeverityError, "%d open edges, %d non-manifold edges", a.BoundaryEdges, a.NonManifoldEdges)
	}
	if !(a.Volume > 0) {
		add(CodeVolume, SeverityError, "enclosed volume is %.3f mm³", a.Volume)
	}
	if dz := a.Min[2]; dz > l.BaseTolerance || dz < -l.BaseTolerance {
		add(CodeBase, SeverityError, "lowest point at z=%.3f, want 0", dz)
	}

	size := a.Size()
	axes := []string{"x", "y", "z"}
	for i, s := range size {
		if l.MaxSize[i] > 0 && s > l.MaxSize[i] {
			add(CodeMaxSize, SeverityWarning, "%s extent %.1f mm exceeds %.1f mm", axes[i], s, l.MaxSize[i])
		}
	}
	if small := lo.Filter(axes, func(_ string, i int) bool { return size[i] <= l.MinSize }); len(small) > 0 {
		add(CodeMinSize, SeverityWarning, "extent along %v does not exceed %.1f mm", small, l.MinSize)
	}

	if a.Triangles < l.MinTriangles || (l.MaxTriangles > 0 && a.Triangles > l.MaxTriangles) {
		add(CodeTriangles, SeverityWarning, "%d triangles, want %d..%d", a.Triangles, l.MinTriangles, l.MaxTriangles)
	}
	if a.Degenerate > 0 {
		add(CodeDegenerate, SeverityWarning, "%d triangles with near-zero area", a.Degenerate)
	}
	if a.MisorientedEdges > 0 {
		add(CodeNormals, SeverityError, "%d edges between triangles facing opposite ways", a.MisorientedEdges)
	}
	if a.Components != 1 {
		add(CodeComponents, SeverityWarning, "%d connected components", a.Components)
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	return lo.ContainsBy(issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// Errors returns the error-severity issues.
func Errors(issues []Issue) []Issue {
	return lo.Filter(issues, func(i Issue, _ int) bool { return i.Severity == SeverityError })
}

// Warnings returns the warning-severity issues.
func Warnings(issues []Issue) []Issue {
	return lo.Filter(issues, func(i Issue, _ int) bool { return i.Severity == SeverityWarning })
}

// Find returns the issue for code c, if any.
func Find(issues []Issue, c Code) (Issue, bool) {
	return lo.Find(issues, func(i Issue) bool { return i.Code == c })
}
