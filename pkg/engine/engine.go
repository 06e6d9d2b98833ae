// Package engine evaluates hotelgen batch scripts. A script is a zygomys
// Lisp program whose builtins queue hotel, complex, property and board
// jobs; evaluation only collects and checks requests, it never builds
// geometry.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hotelgen/pkg/board"
	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/profile"
)

// EvalError is a parse or runtime error in a script.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Job kinds.
const (
	JobHotel    = "hotel"
	JobComplex  = "complex"
	JobProperty = "property"
	JobBoard    = "board"
)

// Job is one queued piece. Exactly one of the request fields is set, the
// one named by Kind.
type Job struct {
	Name     string                `json:"name"`
	Kind     string                `json:"kind"`
	Hotel    *build.Params         `json:"hotel,omitempty"`
	Complex  *complex.Params       `json:"complex,omitempty"`
	Property *board.PropertyParams `json:"property,omitempty"`
	Board    *board.BoardParams    `json:"board,omitempty"`
}

// Script is what a program evaluated to.
type Script struct {
	Jobs []Job `json:"jobs"`
	// Formats is set by (output ...); empty means the configured default.
	Formats []string `json:"formats,omitempty"`
}

// DefaultTimeout bounds one evaluation.
const DefaultTimeout = 5 * time.Second

// Engine evaluates scripts. It is safe for concurrent use; every
// evaluation runs in a fresh sandbox.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	resolve    func(string) (profile.Profile, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithProfileResolver sets how profile-value finds printer profiles.
func WithProfileResolver(fn func(string) (profile.Profile, error)) Option {
	return func(e *Engine) { e.resolve = fn }
}

// NewEngine returns an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, resolve: profile.ByName}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns the queued jobs.
//
// On success the script and nil errors are returned. Parse and runtime
// errors in the script come back as EvalErrors with a nil script. Timeouts,
// panics and superseded evaluations are returned as the error.
func (e *Engine) Evaluate(source string) (*Script, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{script: s, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

func (e *Engine) evaluate(source string) (*Script, []EvalError, error) {
	s := &Script{}
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s, e.resolve)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return s, nil, nil
}

var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError extracts the line number zygomys puts in its messages
// when there is one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
