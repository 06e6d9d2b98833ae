// Package geom sits between generators and the geometry kernel. Primitives
// validate their dimensions before the kernel sees them and batched booleans
// filter empty operands. Every failure comes back as an *errs.GeometryError
// naming the operation that caused it.
package geom

import (
	"fmt"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
)

// Global boolean tolerances in millimetres. Every subtractive operand is
// extended Overshoot past the surfaces it cuts; every additive operand is
// sunk Embed into the surface it attaches to.
const (
	Overshoot = 0.1
	Embed     = 0.1
)

// Through returns the length of a cutter that passes through a wall of the
// given thickness with Overshoot on both faces.
func Through(thickness float64) float64 {
	return thickness + 2*Overshoot
}

// G wraps a kernel with validation.
type G struct {
	k kernel.Kernel
}

// New returns a G over the given kernel.
func New(k kernel.Kernel) *G {
	return &G{k: k}
}

// Kernel returns the wrapped kernel.
func (g *G) Kernel() kernel.Kernel {
	return g.k
}

// guard runs a kernel call and converts a panic into a GeometryError.
func guard(op string, fn func() kernel.Solid) (s kernel.Solid, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = errs.Geometry("", op, "kernel panic: %v", r)
		}
	}()
	s = fn()
	if s == nil {
		return nil, errs.Geometry("", op, "kernel returned no solid")
	}
	return s, nil
}

func positive(op string, names []string, values ...float64) error {
	for i, v := range values {
		if !(v > 0) {
			return errs.Geometry("", op, "%s must be > 0, got %g", names[i], v)
		}
	}
	return nil
}

func segmentsOK(op string, segments int) error {
	if segments < 3 {
		return errs.Geometry("", op, "segments must be >= 3, got %d", segments)
	}
	return nil
}

func (g *G) String() string {
	return fmt.Sprintf("geom(%T)", g.k)
}
