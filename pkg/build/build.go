// Package build is the single entry point of the generator: it turns a
// validated building request into a printable solid, its welded mesh and
// the printability report.
//
// A build is a pure computation. Every request gets its own kernel and
// random source, so independent builds may run concurrently.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/hotelgen/pkg/assembly"
	"github.com/chazu/hotelgen/pkg/components"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/kernel/sdfx"
	"github.com/chazu/hotelgen/pkg/logger"
	"github.com/chazu/hotelgen/pkg/profile"
	meshsimplify "github.com/chazu/hotelgen/pkg/simplify"
	"github.com/chazu/hotelgen/pkg/styles"
	"github.com/chazu/hotelgen/pkg/tessellate"
	"github.com/chazu/hotelgen/pkg/validate"
)

// DefaultMaxTriangles is the builder-wide triangle ceiling.
const DefaultMaxTriangles = 200000

// Result is a finished build.
type Result struct {
	Solid      kernel.Solid     `json:"-"`
	Mesh       *kernel.Mesh     `json:"-"`
	Triangles  int              `json:"triangle_count"`
	Min        [3]float64       `json:"min"`
	Max        [3]float64       `json:"max"`
	Watertight bool             `json:"is_watertight"`
	Issues     []validate.Issue `json:"issues"`
	Warnings   []string         `json:"warnings"`
	Metadata   Metadata         `json:"metadata"`
}

// Size returns the bounding box extents.
func (r *Result) Size() [3]float64 {
	return [3]float64{r.Max[0] - r.Min[0], r.Max[1] - r.Min[1], r.Max[2] - r.Min[2]}
}

// Metadata describes how a result was produced.
type Metadata struct {
	ID                string             `json:"id"`
	Style             string             `json:"style"`
	Printer           string             `json:"printer_type"`
	Seed              int64              `json:"seed"`
	Floors            int                `json:"num_floors"`
	GeneratedAt       time.Time          `json:"generated_at"`
	GenerationMS      int64              `json:"generation_time_ms"`
	PhaseVolumes      map[string]float64 `json:"phase_volumes,omitempty"`
	Simplified        bool               `json:"simplified"`
	OriginalTriangles int                `json:"original_triangles"`
	Params            Params             `json:"params"`
}

// Options tunes a single build.
type Options struct {
	// SkipBase leaves out the base plate; complexes mount buildings on a
	// shared one.
	SkipBase bool
	// MeasurePhases records the solid volume after each assembly phase.
	MeasurePhases bool
}

// Builder runs builds. The zero value is not usable; call New.
type Builder struct {
	maxTriangles int
	simplify     bool
	wallSamples  int
	resolve      func(string) (profile.Profile, error)
	newKernel    func(cellSize float64) kernel.Kernel
	log          *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxTriangles caps every build's triangle budget.
func WithMaxTriangles(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxTriangles = n
		}
	}
}

// WithSimplify turns reduction of over-budget meshes on or off. When off,
// an over-budget mesh only produces a warning.
func WithSimplify(on bool) Option {
	return func(b *Builder) { b.simplify = on }
}

// WithProfileResolver replaces profile.ByName, typically with a resolver
// that applies configured overrides.
func WithProfileResolver(fn func(string) (profile.Profile, error)) Option {
	return func(b *Builder) { b.resolve = fn }
}

// WithWallSamples enables the sampled wall thickness check.
func WithWallSamples(n int) Option {
	return func(b *Builder) { b.wallSamples = n }
}

// WithKernel replaces the sdfx kernel factory.
func WithKernel(fn func(cellSize float64) kernel.Kernel) Option {
	return func(b *Builder) { b.newKernel = fn }
}

// WithLogger sets the logger. By default builds log through the global
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// New returns a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		maxTriangles: DefaultMaxTriangles,
		simplify:     true,
		resolve:      resolveProfile,
		newKernel: func(cell float64) kernel.Kernel {
			return sdfx.New(sdfx.WithCellSize(cell))
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func resolveProfile(name string) (profile.Profile, error) {
	if name == "" {
		name = "fdm"
	}
	return profile.ByName(name)
}

func (b *Builder) logr() *slog.Logger {
	if b.log != nil {
		return b.log
	}
	return logger.With("component", "build")
}

// Profile resolves a printer name the way builds do.
func (b *Builder) Profile(name string) (profile.Profile, error) {
	return b.resolve(name)
}

// Kernel returns a fresh kernel meshing at the given cell size.
func (b *Builder) Kernel(cellSize float64) kernel.Kernel {
	return b.newKernel(cellSize)
}

// Reduce applies FitBudget with the builder's simplify setting.
func (b *Builder) Reduce(m *kernel.Mesh, budget int) (*kernel.Mesh, string, bool) {
	return FitBudget(m, budget, b.simplify)
}

// ListStyles describes every registered style and its parameters.
func ListStyles() []styles.Info {
	return styles.List()
}

// Validate checks p the way Build does, without any geometry work.
func (b *Builder) Validate(p Params) error {
	_, err := prepare(p, b.resolve)
	return err
}

// Build runs one build with a base plate.
func (b *Builder) Build(ctx context.Context, p Params) (*Result, error) {
	return b.BuildWith(ctx, p, Options{})
}

// BuildWith runs one build. Invalid requests fail before a kernel is
// created; geometry failures carry the phase they happened in. The context
// is checked between phases.
func (b *Builder) BuildWith(ctx context.Context, p Params, opts Options) (*Result, error) {
	start := time.Now()
	j, err := prepare(p, b.resolve)
	if err != nil {
		return nil, err
	}
	log := b.logr().With("style", p.Style, "printer", j.profile.Name, "seed", p.Seed)

	k := b.newKernel(j.profile.MeshCellSize)
	g := geom.New(k)
	kit := components.New(g, j.profile)

	req := j.request()
	req.Rand = rand.New(rand.NewSource(p.Seed))
	plan, err := j.style.Plan(kit, req)
	if err != nil {
		return nil, errs.InPhase(err, "plan", p.Style)
	}

	var base kernel.Solid
	if !opts.SkipBase {
		w, d, top := footprint(plan)
		bw, bd := components.BasePlateSize(w, d, top)
		if base, err = kit.BasePlate(bw, bd); err != nil {
			return nil, errs.InPhase(err, string(assembly.PhaseShell), "base plate")
		}
	}

	solid, rep, err := assembly.New(g).Assemble(ctx, plan, assembly.Options{Base: base, Measure: opts.MeasurePhases})
	if err != nil {
		return nil, err
	}
	for _, s := range rep.Steps {
		log.Debug("phase", "phase", s.Phase, "operands", s.Operands, "skipped", s.Skipped,
			"volume", s.Volume, "elapsed", s.Elapsed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mesh, err := tessellate.Solid(k, solid, p.Style)
	if err != nil {
		return nil, errs.InPhase(err, "mesh", p.Style)
	}
	if mesh.IsEmpty() {
		return nil, errs.Geometry("mesh", p.Style, "solid produced no triangles")
	}

	// Rest the piece on the bed.
	mn, _ := mesh.Bounds()
	if mn[2] != 0 {
		mesh.Translate(0, 0, -mn[2])
		solid = g.Translate(solid, 0, 0, -mn[2])
	}

	res := &Result{
		Solid: solid,
		Metadata: Metadata{
			ID:                uuid.NewString(),
			Style:             p.Style,
			Printer:           j.profile.Name,
			Seed:              p.Seed,
			Floors:            j.floors,
			GeneratedAt:       start.UTC(),
			OriginalTriangles: mesh.TriangleCount(),
			Params:            p,
		},
	}
	if opts.MeasurePhases {
		res.Metadata.PhaseVolumes = make(map[string]float64, len(rep.Steps))
		for _, s := range rep.Steps {
			res.Metadata.PhaseVolumes[string(s.Phase)] = s.Volume
		}
	}

	limits := validate.DefaultLimits(j.profile)
	limits.WallSamples = b.wallSamples
	if budget := b.budget(p); mesh.TriangleCount() > budget {
		log.Info("over budget", "triangles", mesh.TriangleCount(), "budget", budget, "simplify", b.simplify)
		var note string
		mesh, note, res.Metadata.Simplified = FitBudget(mesh, budget, b.simplify)
		res.Warnings = append(res.Warnings, note)
	}
	res.Mesh = mesh
	res.Triangles = mesh.TriangleCount()
	res.Min, res.Max = mesh.Bounds()

	issues, a := validate.Inspect(mesh, limits)
	res.Issues = issues
	res.Watertight = a.Watertight()
	for _, is := range validate.Warnings(issues) {
		res.Warnings = append(res.Warnings, is.String())
		log.Warn("printability", "code", is.Code, "message", is.Message)
	}
	for _, is := range validate.Errors(issues) {
		log.Error("printability", "code", is.Code, "message", is.Message)
	}

	elapsed := time.Since(start)
	res.Metadata.GenerationMS = elapsed.Milliseconds()
	log.Info("built", "triangles", res.Triangles, "floors", j.floors, "watertight", res.Watertight,
		"elapsed", elapsed.Round(time.Millisecond))
	return res, nil
}

func (b *Builder) budget(p Params) int {
	if p.MaxTriangles > 0 {
		return min(p.MaxTriangles, b.maxTriangles)
	}
	return b.maxTriangles
}

// FitBudget reduces m to budget triangles when simplify is on. A reduction
// that fails or breaks watertightness is discarded. The returned note is
// empty when m was within budget.
func FitBudget(m *kernel.Mesh, budget int, simplify bool) (out *kernel.Mesh, note string, simplified bool) {
	n := m.TriangleCount()
	if n <= budget {
		return m, "", false
	}
	if !simplify {
		return m, fmt.Sprintf("%d triangles exceed the budget of %d", n, budget), false
	}
	reduced, err := meshsimplify.ToBudget(m, budget)
	if err != nil {
		return m, fmt.Sprintf("simplification failed, keeping %d triangles: %v", n, err), false
	}
	if !validate.Analyze(reduced, 0).Watertight() {
		return m, fmt.Sprintf("simplification to %d triangles broke watertightness, keeping %d", budget, n), false
	}
	return reduced, fmt.Sprintf("simplified from %d to %d triangles", n, reduced.TriangleCount()), true
}

// footprint returns the plate-relevant extents of a plan: twice the
// furthest reach from the origin on X and Y, and the top of the shell and
// additions.
func footprint(p assembly.Plan) (w, d, top float64) {
	parts := append([]kernel.Solid{p.Shell}, p.Additions...)
	for _, s := range parts {
		if s == nil {
			continue
		}
		mn, mx := s.BoundingBox()
		w = math.Max(w, 2*math.Max(math.Abs(mn[0]), math.Abs(mx[0])))
		d = math.Max(d, 2*math.Max(math.Abs(mn[1]), math.Abs(mx[1])))
		top = math.Max(top, mx[2])
	}
	return w, d, top
}
