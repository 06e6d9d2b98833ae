package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/catalog"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/export"
	"github.com/chazu/hotelgen/pkg/logger"
	"github.com/chazu/hotelgen/pkg/validate"
)

// paramFlag collects repeated -param name=value flags. Values are read as
// YAML scalars, so true, 3 and 2.5 keep their types.
type paramFlag map[string]any

func (p paramFlag) String() string {
	keys := lo.Keys(p)
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(parts, ",")
}

func (p paramFlag) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		v = raw
	}
	p[strings.ReplaceAll(name, "-", "_")] = v
	return nil
}

// outputFlags are shared by commands that write pieces.
type outputFlags struct {
	dir     string
	formats string
	preview bool
	timeout time.Duration
	asJSON  bool
	dryRun  bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.dir, "out", "", "output directory (default from config)")
	fs.StringVar(&o.formats, "formats", "", "comma-separated export formats: stl, 3mf, png, svg (default from config)")
	fs.BoolVar(&o.preview, "preview", false, "also render a PNG thumbnail")
	fs.DurationVar(&o.timeout, "timeout", 2*time.Minute, "give up on a piece after this long")
	fs.BoolVar(&o.asJSON, "json", false, "print the result as JSON")
	fs.BoolVar(&o.dryRun, "dry-run", false, "validate and print the request without building")
}

// exportOptions merges the flags over the configured defaults. Script
// formats, when given, replace both.
func (a *app) exportOptions(o outputFlags, scriptFormats []string) (string, export.Options, error) {
	dir := o.dir
	if dir == "" {
		dir = a.cfg.Export.Directory
	}
	formats := a.cfg.Export.Formats
	if o.formats != "" {
		formats = strings.Split(o.formats, ",")
	}
	if len(scriptFormats) > 0 {
		formats = scriptFormats
	}
	formats = append([]string(nil), formats...)
	if o.preview || a.cfg.Export.Preview {
		formats = append(formats, export.FormatPNG)
	}
	for i := range formats {
		formats[i] = strings.TrimSpace(formats[i])
	}
	if err := export.CheckFormats(formats); err != nil {
		return "", export.Options{}, err
	}
	return dir, export.Options{Formats: formats, PreviewSize: a.cfg.Export.PreviewSize}, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) build(args []string) error {
	fs, configPath := a.flags("[options]")
	p := build.DefaultParams("modern")
	params := paramFlag{}
	var out outputFlags
	fs.StringVar(&p.Style, "style", p.Style, "architectural style (see 'hotelgen styles')")
	fs.Float64Var(&p.Width, "width", p.Width, "footprint width in mm")
	fs.Float64Var(&p.Depth, "depth", p.Depth, "footprint depth in mm")
	fs.IntVar(&p.Floors, "floors", p.Floors, "number of floors")
	fs.Float64Var(&p.FloorHeight, "floor-height", p.FloorHeight, "floor height in mm")
	fs.Float64Var(&p.WallThickness, "wall", 0, "wall thickness in mm (default: printer minimum)")
	fs.Float64Var(&p.WindowWidth, "window-width", 0, "window width in mm (default: scaled to the floor height)")
	fs.Float64Var(&p.WindowHeight, "window-height", 0, "window height in mm (default: scaled to the floor height)")
	fs.IntVar(&p.WindowsPerFloor, "windows", 0, "windows per floor on the front (default: fitted)")
	fs.StringVar(&p.Printer, "printer", "", "printer profile: fdm, resin, monopoly_fdm (default from config)")
	fs.Int64Var(&p.Seed, "seed", p.Seed, "random seed")
	fs.IntVar(&p.MaxTriangles, "max-triangles", p.MaxTriangles, "triangle budget")
	fs.Var(params, "param", "style parameter name=value (repeatable)")
	out.register(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.setup(*configPath); err != nil {
		return err
	}
	if len(params) > 0 {
		p.StyleParams = params
	}
	if p.Printer == "" {
		p.Printer = a.cfg.Build.Printer
	}

	if out.dryRun {
		if err := a.builds.Validate(p); err != nil {
			return err
		}
		return a.printJSON(p)
	}
	dir, opts, err := a.exportOptions(out, nil)
	if err != nil {
		return err
	}
	return a.runHotel(fmt.Sprintf("%s-%d", p.Style, p.Seed), p, dir, opts, out)
}

func (a *app) runHotel(name string, p build.Params, dir string, opts export.Options, out outputFlags) error {
	ctx, cancel := context.WithTimeout(a.ctx, out.timeout)
	defer cancel()
	res, err := a.builds.Build(ctx, p)
	if err != nil {
		return err
	}
	target := filepath.Join(dir, name)
	man, err := export.WriteDir(target, export.Artifact{Name: name, Mesh: res.Mesh, Metadata: res.Metadata}, opts)
	if err != nil {
		return err
	}
	a.record(catalog.Entry{
		ID:           res.Metadata.ID,
		Kind:         catalog.KindBuilding,
		Style:        p.Style,
		Printer:      res.Metadata.Printer,
		Seed:         p.Seed,
		Triangles:    res.Triangles,
		Watertight:   res.Watertight,
		Errors:       len(validate.Errors(res.Issues)),
		Warnings:     len(res.Warnings),
		GenerationMS: res.Metadata.GenerationMS,
		OutputDir:    target,
		CreatedAt:    res.Metadata.GeneratedAt,
	}, p)

	if out.asJSON {
		return a.printJSON(res)
	}
	size := res.Size()
	fmt.Fprintf(a.stdout, "%s: %d triangles, %.1f x %.1f x %.1f mm, watertight=%t\n",
		name, res.Triangles, size[0], size[1], size[2], res.Watertight)
	a.printIssues(res.Issues, res.Warnings)
	fmt.Fprintf(a.stdout, "  wrote %s\n", strings.Join(prefixed(target, man.Files), ", "))
	return nil
}

func (a *app) complex(args []string) error {
	fs, configPath := a.flags("[options]")
	p := complex.DefaultParams("")
	params := paramFlag{}
	var roles string
	var out outputFlags
	fs.StringVar(&p.Style, "style", "", "architectural style (default: the preset's)")
	fs.StringVar(&p.Preset, "preset", "", "complex preset (see 'hotelgen presets')")
	fs.StringVar(&p.Strategy, "strategy", "", "layout: "+strings.Join(complex.StrategyNames(), ", ")+" (default: the style's)")
	fs.IntVar(&p.Buildings, "buildings", 0, fmt.Sprintf("number of buildings, 1 to %d (default 3, or the preset's)", complex.MaxBuildings))
	fs.Float64Var(&p.Spacing, "spacing", p.Spacing, "gap between buildings in mm")
	fs.StringVar(&p.Printer, "printer", "", "printer profile (default from config)")
	fs.Int64Var(&p.Seed, "seed", p.Seed, "random seed; building i uses seed+i")
	fs.IntVar(&p.MaxTriangles, "max-triangles", p.MaxTriangles, "triangle budget for the whole complex")
	fs.Float64Var(&p.LotWidth, "lot-width", 0, "lot width in mm")
	fs.Float64Var(&p.LotDepth, "lot-depth", 0, "lot depth in mm")
	fs.StringVar(&roles, "roles", "", "comma-separated building roles: main, wing, annex, tower, pavilion")
	fs.Var(params, "param", "style parameter name=value (repeatable)")
	out.register(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.setup(*configPath); err != nil {
		return err
	}
	if len(params) > 0 {
		p.StyleParams = params
	}
	if p.Printer == "" {
		p.Printer = a.cfg.Build.Printer
	}
	if roles != "" {
		for _, r := range strings.Split(roles, ",") {
			p.Roles = append(p.Roles, complex.Role(strings.TrimSpace(r)))
		}
	}
	switch {
	case p.Buildings > 0:
	case p.Roles != nil:
		p.Buildings = len(p.Roles)
	case p.Preset == "":
		p.Buildings = 3
	}
	if p.Style == "" && p.Preset == "" {
		p.Style = "modern"
	}

	if out.dryRun {
		l, _, err := a.complexes.Plan(p)
		if err != nil {
			return err
		}
		return a.printJSON(l)
	}
	dir, opts, err := a.exportOptions(out, nil)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s-complex-%d", lo.CoalesceOrEmpty(p.Preset, p.Style), p.Seed)
	return a.runComplex(name, p, dir, opts, out)
}

func (a *app) runComplex(name string, p complex.Params, dir string, opts export.Options, out outputFlags) error {
	ctx, cancel := context.WithTimeout(a.ctx, out.timeout)
	defer cancel()
	res, err := a.complexes.Build(ctx, p)
	if err != nil {
		return err
	}
	var plan bytes.Buffer
	if err := complex.SitePlan(&plan, res.Plate, res.Layout.Placements); err != nil {
		return err
	}
	target := filepath.Join(dir, name)
	man, err := export.WriteDir(target, export.Artifact{
		Name:     name,
		Mesh:     res.Mesh,
		Metadata: res.Metadata,
		SitePlan: plan.Bytes(),
	}, opts)
	if err != nil {
		return err
	}
	errCount := len(validate.Errors(res.Issues))
	for _, b := range res.Buildings {
		errCount += len(validate.Errors(b.Issues))
	}
	a.record(catalog.Entry{
		ID:           res.Metadata.ID,
		Kind:         catalog.KindComplex,
		Style:        res.Metadata.Style,
		Printer:      res.Metadata.Printer,
		Seed:         p.Seed,
		Triangles:    res.Triangles,
		Watertight:   res.Watertight,
		Errors:       errCount,
		Warnings:     len(res.Warnings),
		GenerationMS: res.Metadata.GenerationMS,
		OutputDir:    target,
		CreatedAt:    res.Metadata.GeneratedAt,
	}, p)

	if out.asJSON {
		return a.printJSON(res)
	}
	fmt.Fprintf(a.stdout, "%s: %d buildings (%s), %d triangles, plate %.1f x %.1f mm, watertight=%t\n",
		name, len(res.Buildings), res.Layout.Strategy, res.Triangles, res.Plate.Width(), res.Plate.Depth(), res.Watertight)
	a.printIssues(res.Issues, res.Warnings)
	fmt.Fprintf(a.stdout, "  wrote %s\n", strings.Join(prefixed(target, man.Files), ", "))
	return nil
}

// record stores a finished piece in the catalog. Catalog failures are
// logged, never fatal.
func (a *app) record(e catalog.Entry, params any) {
	c, err := a.openCatalog(false)
	if err != nil {
		logger.Warning("catalog unavailable", "error", err)
		return
	}
	if c == nil {
		return
	}
	if e.Params, err = json.Marshal(params); err != nil {
		logger.Warning("catalog: encoding params", "error", err)
		return
	}
	if err := c.Record(a.ctx, e); err != nil {
		logger.Warning("catalog: recording build", "id", e.ID, "error", err)
	}
}

func (a *app) printIssues(issues []validate.Issue, warnings []string) {
	for _, is := range validate.Errors(issues) {
		fmt.Fprintf(a.stdout, "  error: %s\n", is)
	}
	for _, w := range warnings {
		fmt.Fprintf(a.stdout, "  warning: %s\n", w)
	}
}

func prefixed(dir string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(dir, f)
	}
	return out
}
