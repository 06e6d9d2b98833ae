package main

import (
	"fmt"
	"os"

	"github.com/chazu/hotelgen/pkg/engine"
	"github.com/chazu/hotelgen/pkg/logger"
)

// script evaluates a batch script, then builds its jobs in order. A job
// that fails is reported and the rest still run; the first failure decides
// the exit code.
func (a *app) script(args []string) error {
	fs, configPath := a.flags("[options] script.lisp")
	var out outputFlags
	keepGoing := fs.Bool("keep-going", true, "continue with the next job after a failure")
	out.register(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	if err := a.setup(*configPath); err != nil {
		return err
	}

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	eng := engine.NewEngine(
		engine.WithTimeout(a.cfg.Script.Timeout()),
		engine.WithProfileResolver(a.cfg.Profile),
	)
	s, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(a.stderr, "%s: %s\n", path, e)
		}
		return errUsage
	}
	logger.Info("script evaluated", "path", path, "jobs", len(s.Jobs))

	if out.dryRun {
		return a.printJSON(s)
	}
	dir, opts, err := a.exportOptions(out, s.Formats)
	if err != nil {
		return err
	}

	var first error
	for i, job := range s.Jobs {
		var err error
		switch job.Kind {
		case engine.JobHotel:
			err = a.runHotel(job.Name, *job.Hotel, dir, opts, out)
		case engine.JobComplex:
			err = a.runComplex(job.Name, *job.Complex, dir, opts, out)
		case engine.JobProperty:
			err = a.runProperty(job.Name, *job.Property, dir, opts, out)
		case engine.JobBoard:
			err = a.runBoard(job.Name, *job.Board, dir, opts, out)
		}
		if err == nil {
			continue
		}
		fmt.Fprintf(a.stderr, "job %d (%s): %v\n", i+1, job.Name, err)
		if first == nil {
			first = fmt.Errorf("job %s: %w", job.Name, err)
		}
		if !*keepGoing || a.ctx.Err() != nil {
			break
		}
	}
	return first
}
