package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()
	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if s == nil || len(s.Jobs) != 0 {
			t.Fatalf("expected an empty script, got %+v", s)
		}
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	eng := NewEngine()
	source := `
(def x 10)
(def y 20)
(+ x y)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil || len(s.Jobs) != 0 {
		t.Errorf("arithmetic queued jobs: %+v", s)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()
	s, evalErrs, err := eng.Evaluate("(+ 1 2)\n(+ 3")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil script on syntax error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a populated eval error, got %v", evalErrs)
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()
	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil || len(evalErrs) == 0 {
		t.Fatalf("script %v, errors %v", s, evalErrs)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if s := e.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}
	if s := (EvalError{Message: "no location"}).Error(); strings.Contains(s, "line") {
		t.Errorf("Error() without a line = %q", s)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	const src = `(hotel :style :modern) (hotel :style :modern :seed 3)`
	var first []string
	for i := 0; i < 5; i++ {
		s, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		var names []string
		for _, j := range s.Jobs {
			names = append(names, j.Name)
		}
		if i == 0 {
			first = names
			continue
		}
		if strings.Join(names, ",") != strings.Join(first, ",") {
			t.Fatalf("iteration %d: jobs %v, first run %v", i, names, first)
		}
	}
}

func TestAwaitTimesOut(t *testing.T) {
	e := NewEngine(WithTimeout(50 * time.Millisecond))
	e.generation = 1
	ch := make(chan evalResult)

	start := time.Now()
	_, _, err := e.await(ch, 1)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took %s", time.Since(start))
	}
}

func TestAwaitDiscardsStale(t *testing.T) {
	e := NewEngine()
	e.generation = 2
	ch := make(chan evalResult, 1)
	ch <- evalResult{script: &Script{}}

	if _, _, err := e.await(ch, 1); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want superseded", err)
	}
}

func TestWithTimeout(t *testing.T) {
	if e := NewEngine(WithTimeout(0)); e.timeout != DefaultTimeout {
		t.Errorf("zero timeout replaced the default: %s", e.timeout)
	}
	if e := NewEngine(WithTimeout(time.Minute)); e.timeout != time.Minute {
		t.Errorf("timeout = %s", e.timeout)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: bad form", 3, "bad form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
