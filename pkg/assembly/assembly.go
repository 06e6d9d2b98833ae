// Package assembly runs the shared construction order every style uses:
// build the shell, subtract all cutouts in one batch, add all decorations
// in one batch, then apply any cleanup cuts. Each phase checks that a
// non-empty solid survives it.
package assembly

import (
	"context"
	"time"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/geom"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Phase names one step of the assembly.
type Phase string

const (
	PhaseShell    Phase = "shell"
	PhaseSubtract Phase = "subtract"
	PhaseAdd      Phase = "add"
	PhaseCleanup  Phase = "cleanup"
)

// Phases lists the phases in execution order.
var Phases = []Phase{PhaseShell, PhaseSubtract, PhaseAdd, PhaseCleanup}

// Plan is what a style hands to the assembler: the massing shell and the
// batched cutouts, additions and cleanup cuts.
type Plan struct {
	Shell     kernel.Solid
	Cutouts   []kernel.Solid
	Additions []kernel.Solid
	Cleanup   []kernel.Solid
}

// Add appends additions, skipping nils.
func (p *Plan) Add(solids ...kernel.Solid) {
	for _, s := range solids {
		if s != nil {
			p.Additions = append(p.Additions, s)
		}
	}
}

// Cut appends cutouts, skipping nils.
func (p *Plan) Cut(solids ...kernel.Solid) {
	for _, s := range solids {
		if s != nil {
			p.Cutouts = append(p.Cutouts, s)
		}
	}
}

// Step records one executed phase.
type Step struct {
	Phase    Phase
	Operands int
	Skipped  bool
	// Volume is the solid's volume after the phase, set only when the
	// assembler measures.
	Volume  float64
	Elapsed time.Duration
}

// Report lists the steps of one assembly in order.
type Report struct {
	Steps []Step
}

// Volume returns the measured volume after phase p.
func (r Report) Volume(p Phase) (float64, bool) {
	for _, s := range r.Steps {
		if s.Phase == p {
			return s.Volume, true
		}
	}
	return 0, false
}

// Options tunes one assembly.
type Options struct {
	// Base, when set, is unioned with the shell in the first phase.
	Base kernel.Solid
	// Measure records the volume after every phase. It meshes every
	// intermediate solid.
	Measure bool
}

// Assembler executes plans against one geometry layer.
type Assembler struct {
	g *geom.G
}

// New returns an Assembler.
func New(g *geom.G) *Assembler {
	return &Assembler{g: g}
}

// Assemble runs the four phases. Errors carry the failing phase. The
// context is checked between phases.
func (a *Assembler) Assemble(ctx context.Context, p Plan, opts Options) (kernel.Solid, Report, error) {
	var rep Report
	g := a.g

	run := func(phase Phase, operands []kernel.Solid, fn func(kernel.Solid, []kernel.Solid) (kernel.Solid, error), cur kernel.Solid) (kernel.Solid, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		kept := g.NonEmpty(operands)
		step := Step{Phase: phase, Operands: len(kept)}
		out := cur
		if len(kept) == 0 && phase != PhaseShell {
			step.Skipped = true
		} else {
			var err error
			out, err = fn(cur, kept)
			if err != nil {
				return nil, errs.InPhase(err, string(phase), "")
			}
			if g.IsEmpty(out) {
				return nil, errs.Geometry(string(phase), "", "result is empty after %d operands", len(kept))
			}
		}
		if opts.Measure {
			v, err := g.Volume(out)
			if err != nil {
				return nil, errs.InPhase(err, string(phase), "")
			}
			step.Volume = v
		}
		step.Elapsed = time.Since(start)
		rep.Steps = append(rep.Steps, step)
		return out, nil
	}

	if p.Shell == nil || g.IsEmpty(p.Shell) {
		return nil, rep, errs.Geometry(string(PhaseShell), "", "shell is empty")
	}

	s, err := run(PhaseShell, []kernel.Solid{p.Shell, opts.Base}, func(_ kernel.Solid, parts []kernel.Solid) (kernel.Solid, error) {
		return g.UnionAll(parts)
	}, nil)
	if err != nil {
		return nil, rep, err
	}
	s, err = run(PhaseSubtract, p.Cutouts, func(cur kernel.Solid, cuts []kernel.Solid) (kernel.Solid, error) {
		return g.Difference(cur, cuts)
	}, s)
	if err != nil {
		return nil, rep, err
	}
	s, err = run(PhaseAdd, p.Additions, func(cur kernel.Solid, adds []kernel.Solid) (kernel.Solid, error) {
		return g.UnionAll(append([]kernel.Solid{cur}, adds...))
	}, s)
	if err != nil {
		return nil, rep, err
	}
	s, err = run(PhaseCleanup, p.Cleanup, func(cur kernel.Solid, cuts []kernel.Solid) (kernel.Solid, error) {
		return g.Difference(cur, cuts)
	}, s)
	if err != nil {
		return nil, rep, err
	}
	return s, rep, nil
}
