package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/styles"
)

func (a *app) styles(args []string) error {
	fs, _ := a.flags("[options]")
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	infos := build.ListStyles()
	if *asJSON {
		return a.printJSON(infos)
	}
	for _, s := range infos {
		fmt.Fprintf(a.stdout, "%s (%s)\n  %s\n  min floors %d, complex layout %s\n",
			s.Name, s.DisplayName, s.Description, s.MinFloors, s.PreferredLayout)
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		for _, p := range s.Params {
			fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\n", p.Name, p.Type, describeDefault(p), p.Description)
		}
		tw.Flush()
	}
	return nil
}

func describeDefault(p styles.Param) string {
	d := fmt.Sprintf("default %v", p.Default)
	switch {
	case len(p.Choices) > 0:
		d += " of " + strings.Join(p.Choices, "|")
	case p.Min != nil && p.Max != nil:
		d += fmt.Sprintf(" in [%g, %g]", *p.Min, *p.Max)
	}
	return d
}

func (a *app) presets(args []string) error {
	fs, _ := a.flags("[options]")
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	presets := complex.Presets()
	if *asJSON {
		return a.printJSON(presets)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTYLE\tBUILDINGS\tROLES\tDESCRIPTION")
	for _, p := range presets {
		roles := lo.Map(p.Roles, func(r complex.Role, _ int) string { return string(r) })
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", p.Name, p.Style, p.Buildings(), strings.Join(roles, ","), p.Description)
	}
	return tw.Flush()
}
