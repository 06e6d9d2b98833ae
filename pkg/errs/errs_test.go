package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds(t *testing.T) {
	inv := Invalid("width", "must be positive, got %v", -1)
	geo := Geometry("subtract", "window", "result is empty")

	if !errors.Is(inv, ErrInvalidParameters) || errors.Is(inv, ErrGeometry) {
		t.Errorf("invalid error kind mismatch: %v", inv)
	}
	if !errors.Is(geo, ErrGeometry) || errors.Is(geo, ErrInvalidParameters) {
		t.Errorf("geometry error kind mismatch: %v", geo)
	}

	wrapped := fmt.Errorf("build modern: %w", geo)
	var ge *GeometryError
	if !errors.As(wrapped, &ge) {
		t.Fatal("errors.As failed through wrapping")
	}
	if ge.Phase != "subtract" || ge.Component != "window" {
		t.Errorf("phase/component = %q/%q", ge.Phase, ge.Component)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Invalid("", "bad"), "invalid parameters: bad"},
		{Invalid("seed", "bad"), "invalid parameters: seed: bad"},
		{Geometry("", "", "empty"), "geometry failure: empty"},
		{Geometry("add", "roof", "empty"), "geometry failure in add (roof): empty"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestInPhase(t *testing.T) {
	if InPhase(nil, "shell", "") != nil {
		t.Fatal("InPhase(nil) should be nil")
	}

	base := Geometry("", "box", "zero height")
	got := InPhase(base, "shell", "massing")
	var ge *GeometryError
	if !errors.As(got, &ge) {
		t.Fatal("expected GeometryError")
	}
	if ge.Phase != "shell" || ge.Component != "box" {
		t.Errorf("phase/component = %q/%q, want shell/box", ge.Phase, ge.Component)
	}

	plain := errors.New("marching cubes exploded")
	got = InPhase(plain, "add", "roof")
	if !errors.Is(got, ErrGeometry) || !errors.Is(got, plain) {
		t.Errorf("plain error not wrapped as geometry: %v", got)
	}

	inv := Invalid("style", "unknown")
	if InPhase(inv, "shell", "") != inv {
		t.Error("invalid parameter errors should pass through unchanged")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{Invalid("x", "bad"), ExitBadInput},
		{fmt.Errorf("ctx: %w", Geometry("p", "c", "m")), ExitInternal},
		{errors.New("io"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
