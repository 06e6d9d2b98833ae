package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/board"
	"github.com/chazu/hotelgen/pkg/catalog"
	"github.com/chazu/hotelgen/pkg/export"
	"github.com/chazu/hotelgen/pkg/validate"
)

func (a *app) property(args []string) error {
	fs, configPath := a.flags("[options]")
	p := board.DefaultPropertyParams()
	params := paramFlag{}
	var out outputFlags
	noGarden := fs.Bool("no-garden", false, "leave the grounds bare")
	fs.StringVar(&p.Style, "style", p.Style, "architectural style, ignored with -preset")
	fs.StringVar(&p.Preset, "preset", "", "complex preset (see 'hotelgen presets')")
	fs.IntVar(&p.Buildings, "buildings", p.Buildings, "number of buildings without a preset")
	fs.Float64Var(&p.Spacing, "spacing", p.Spacing, "gap between buildings in mm")
	fs.Float64Var(&p.LotWidth, "lot-width", p.LotWidth, "plate width in mm")
	fs.Float64Var(&p.LotDepth, "lot-depth", p.LotDepth, "plate depth in mm")
	fs.StringVar(&p.RoadEdge, "road-edge", p.RoadEdge, "side facing the road on a board: "+strings.Join(board.RoadEdges, ", "))
	fs.Float64Var(&p.RoadWidth, "road-width", p.RoadWidth, "road strip width in mm")
	fs.StringVar(&p.Printer, "printer", "", "printer profile (default from config)")
	fs.Int64Var(&p.Seed, "seed", p.Seed, "random seed for the buildings and the garden")
	fs.IntVar(&p.MaxTriangles, "max-triangles", p.MaxTriangles, "triangle budget for the plate")
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
	p.Garden = !*noGarden

	if out.dryRun {
		plan, err := a.boards.PlanProperty(p)
		if err != nil {
			return err
		}
		return a.printJSON(plan)
	}
	dir, opts, err := a.exportOptions(out, nil)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s-property-%d", lo.CoalesceOrEmpty(p.Preset, p.Style), p.Seed)
	return a.runProperty(name, p, dir, opts, out)
}

func (a *app) runProperty(name string, p board.PropertyParams, dir string, opts export.Options, out outputFlags) error {
	ctx, cancel := context.WithTimeout(a.ctx, out.timeout)
	defer cancel()
	res, err := a.boards.Property(ctx, p)
	if err != nil {
		return err
	}
	var plan bytes.Buffer
	if err := board.DrawProperty(&plan, res.Plan); err != nil {
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
	a.record(catalog.Entry{
		ID:           res.Metadata.ID,
		Kind:         catalog.KindProperty,
		Style:        res.Metadata.Style,
		Printer:      res.Metadata.Printer,
		Seed:         p.Seed,
		Triangles:    res.Triangles,
		Watertight:   res.Watertight,
		Errors:       propertyErrors(res),
		Warnings:     len(res.Warnings),
		GenerationMS: res.Metadata.GenerationMS,
		OutputDir:    target,
		CreatedAt:    res.Metadata.GeneratedAt,
	}, p)

	if out.asJSON {
		return a.printJSON(res)
	}
	fmt.Fprintf(a.stdout, "%s: %d buildings, %d garden features, %d triangles, plate %.1f x %.1f mm, watertight=%t\n",
		name, len(res.Buildings), len(res.Plan.Garden), res.Triangles, p.LotWidth, p.LotDepth, res.Watertight)
	a.printIssues(res.Issues, res.Warnings)
	fmt.Fprintf(a.stdout, "  wrote %s\n", strings.Join(prefixed(target, man.Files), ", "))
	return nil
}

func propertyErrors(p *board.Property) int {
	n := len(validate.Errors(p.Issues))
	for _, b := range p.Buildings {
		n += len(validate.Errors(b.Issues))
	}
	return n
}

func (a *app) board(args []string) error {
	fs, configPath := a.flags("[options]")
	p := board.DefaultBoardParams()
	var out outputFlags
	var presets string
	noGarden := fs.Bool("no-garden", false, "leave every property's grounds bare")
	noFrame := fs.Bool("no-frame", false, "skip the border rails")
	fs.StringVar(&p.RoadShape, "road-shape", p.RoadShape, "road layout: "+strings.Join(board.RoadShapes, ", "))
	fs.IntVar(&p.Properties, "properties", p.Properties, fmt.Sprintf("number of properties, 1 to %d", board.MaxProperties))
	fs.Float64Var(&p.PropertyWidth, "property-width", p.PropertyWidth, "plate width in mm")
	fs.Float64Var(&p.PropertyDepth, "property-depth", p.PropertyDepth, "plate depth in mm")
	fs.Float64Var(&p.RoadWidth, "road-width", p.RoadWidth, "road width in mm")
	fs.StringVar(&p.Printer, "printer", "", "printer profile (default from config)")
	fs.Int64Var(&p.Seed, "seed", p.Seed, "random seed; property i uses seed+100*i")
	fs.IntVar(&p.MaxTriangles, "max-triangles", p.MaxTriangles, "triangle budget per property")
	fs.StringVar(&presets, "presets", "", "comma-separated presets for slots 0, 1, ...; empty entries keep the default")
	fs.Float64Var(&p.Frame.Width, "frame-width", p.Frame.Width, "border rail width in mm")
	out.register(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.setup(*configPath); err != nil {
		return err
	}
	if p.Printer == "" {
		p.Printer = a.cfg.Build.Printer
	}
	p.Garden = !*noGarden
	p.Frame.Enabled = !*noFrame
	if presets != "" {
		p.Presets = map[int]string{}
		for i, name := range strings.Split(presets, ",") {
			if name = strings.TrimSpace(name); name != "" {
				p.Presets[i] = name
			}
		}
	}

	if out.dryRun {
		l, err := a.boards.PlanBoard(p)
		if err != nil {
			return err
		}
		return a.printJSON(l)
	}
	dir, opts, err := a.exportOptions(out, nil)
	if err != nil {
		return err
	}
	return a.runBoard(fmt.Sprintf("%s-board-%d", p.RoadShape, p.Seed), p, dir, opts, out)
}

func (a *app) runBoard(name string, p board.BoardParams, dir string, opts export.Options, out outputFlags) error {
	ctx, cancel := context.WithTimeout(a.ctx, out.timeout)
	defer cancel()
	res, err := a.boards.Board(ctx, p)
	if err != nil {
		return err
	}

	set := export.Set{Name: name, Metadata: res.Metadata}
	var errCount, warnCount int
	var warnings []string
	for i, prop := range res.Properties {
		var plan bytes.Buffer
		if err := board.DrawProperty(&plan, prop.Plan); err != nil {
			return err
		}
		set.Pieces = append(set.Pieces, export.Artifact{
			Name:     fmt.Sprintf("property_%02d", i+1),
			Mesh:     prop.Mesh,
			Metadata: prop.Metadata,
			SitePlan: plan.Bytes(),
		})
		errCount += propertyErrors(prop)
		warnCount += len(prop.Warnings)
		for _, w := range prop.Warnings {
			warnings = append(warnings, fmt.Sprintf("property %d: %s", i+1, w))
		}
	}
	for _, piece := range res.Pieces {
		set.Pieces = append(set.Pieces, export.Artifact{Name: piece.Label, Mesh: piece.Mesh, Metadata: piece.FramePiece})
		errCount += len(validate.Errors(piece.Issues))
		warnCount += len(piece.Warnings)
	}
	var plan bytes.Buffer
	if err := board.DrawBoard(&plan, res.Layout, p.PropertyWidth, p.PropertyDepth); err != nil {
		return err
	}
	set.Plan = plan.Bytes()

	target := filepath.Join(dir, name)
	man, err := export.WriteSet(target, set, opts)
	if err != nil {
		return err
	}
	a.record(catalog.Entry{
		ID:           res.Metadata.ID,
		Kind:         catalog.KindBoard,
		Style:        p.RoadShape,
		Printer:      res.Metadata.Printer,
		Seed:         p.Seed,
		Triangles:    res.Metadata.Triangles,
		Watertight:   res.Watertight(),
		Errors:       errCount,
		Warnings:     warnCount,
		GenerationMS: res.Metadata.GenerationMS,
		OutputDir:    target,
		CreatedAt:    res.Metadata.GeneratedAt,
	}, p)

	if out.asJSON {
		return a.printJSON(res)
	}
	b := res.Layout.Bounds
	fmt.Fprintf(a.stdout, "%s: %d properties, %d loose pieces, %d triangles, board %.1f x %.1f mm, watertight=%t\n",
		name, len(res.Properties), len(res.Pieces), res.Metadata.Triangles, b.Width(), b.Depth(), res.Watertight())
	a.printIssues(nil, warnings)
	fmt.Fprintf(a.stdout, "  wrote %d pieces under %s\n", len(man.Pieces), target)
	return nil
}
