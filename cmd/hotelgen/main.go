// hotelgen generates 3D-printable hotel game pieces.
//
// Usage:
//
//	hotelgen <command> [options]
//
// Commands:
//
//	build     - Build one hotel
//	complex   - Build a complex of hotels on a shared base
//	property  - Build a landscaped property plate for a game board
//	board     - Build a whole board of properties and road pieces
//	script    - Run a Lisp batch script
//	styles    - List styles and their parameters
//	presets   - List complex presets
//	history   - Show recorded builds
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chazu/hotelgen/pkg/board"
	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/catalog"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/config"
	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/logger"
)

const defaultConfigPath = "hotelgen.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	logger.Close()
	os.Exit(code)
}

// errUsage marks a command line the flag package already reported.
var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return errs.ExitBadInput
	}
	commands := map[string]func(*app, []string) error{
		"build":    (*app).build,
		"complex":  (*app).complex,
		"property": (*app).property,
		"board":    (*app).board,
		"script":   (*app).script,
		"styles":   (*app).styles,
		"presets":  (*app).presets,
		"history":  (*app).history,
	}
	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return errs.ExitOK
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return errs.ExitBadInput
	}

	a := &app{ctx: ctx, stdout: stdout, stderr: stderr, name: name}
	err := cmd(a, args[1:])
	if a.catalog != nil {
		a.catalog.Close()
	}
	switch {
	case err == nil:
		return errs.ExitOK
	case errors.Is(err, flag.ErrHelp):
		return errs.ExitOK
	case errors.Is(err, errUsage):
		return errs.ExitBadInput
	}
	fmt.Fprintf(stderr, "hotelgen %s: %v\n", name, err)
	return errs.ExitCode(err)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `hotelgen - procedural hotel game pieces for 3D printing

Usage:
  hotelgen <command> [options]

Commands:
  build     Build one hotel
  complex   Build a complex of hotels on a shared base
  property  Build a landscaped property plate for a game board
  board     Build a whole board of properties and road pieces
  script    Run a Lisp batch script
  styles    List styles and their parameters
  presets   List complex presets
  history   Show recorded builds

Run 'hotelgen <command> -h' for the options of a command.
`)
}

// app carries what every command shares.
type app struct {
	ctx            context.Context
	stdout, stderr io.Writer
	name           string

	cfg       *config.Config
	builds    *build.Builder
	complexes *complex.Builder
	boards    *board.Builder
	catalog   *catalog.Catalog
}

// flags returns a flag set for the command with the shared -config flag.
func (a *app) flags(usage string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(a.name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: hotelgen %s %s\n\nOptions:\n", a.name, usage)
		fs.PrintDefaults()
	}
	path := fs.String("config", defaultConfigPath, "configuration file")
	return fs, path
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// setup loads the configuration, starts logging and creates the builders.
func (a *app) setup(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Logging.Console == nil {
		cfg.Logging.Console = a.stderr
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	a.cfg = cfg
	a.builds = build.New(
		build.WithMaxTriangles(cfg.Build.MaxTriangles),
		build.WithSimplify(cfg.Build.Simplify),
		build.WithProfileResolver(cfg.Profile),
		build.WithWallSamples(cfg.Build.WallSamples),
		build.WithLogger(logger.With("component", "build")),
	)
	a.complexes = complex.New(a.builds).WithLogger(logger.With("component", "complex"))
	a.boards = board.New(a.builds).WithLogger(logger.With("component", "board"))
	return nil
}

// openCatalog opens the history store when it is enabled, or when force is
// set.
func (a *app) openCatalog(force bool) (*catalog.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	if !a.cfg.Catalog.Enabled && !force {
		return nil, nil
	}
	c, err := catalog.Open(a.cfg.Catalog.Driver, a.cfg.Catalog.DSN)
	if err != nil {
		return nil, err
	}
	a.catalog = c
	return c, nil
}
