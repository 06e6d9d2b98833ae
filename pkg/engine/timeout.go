package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a later Evaluate started first.
	ErrSuperseded = errors.New("evaluation superseded")
)

type evalResult struct {
	script *Script
	errors []EvalError
	err    error
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// await takes the result of evaluation gen from ch. The sandbox goroutine
// of a timed out evaluation is abandoned, and its buffered send is never
// read.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*Script, []EvalError, error) {
	select {
	case res := <-ch:
		if e.current() != gen {
			return nil, nil, ErrSuperseded
		}
		return res.script, res.errors, res.err
	case <-time.After(e.timeout):
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
