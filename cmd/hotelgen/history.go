package main

import (
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *app) history(args []string) error {
	fs, configPath := a.flags("[options] [id]")
	limit := fs.Int("n", 20, "number of entries")
	style := fs.String("style", "", "only this style")
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.setup(*configPath); err != nil {
		return err
	}
	c, err := a.openCatalog(true)
	if err != nil {
		return err
	}

	if fs.NArg() > 0 {
		e, err := c.Get(a.ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return a.printJSON(e)
	}

	entries, err := c.Recent(a.ctx, *style, *limit)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(entries)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tKIND\tSTYLE\tSEED\tTRIANGLES\tWATERTIGHT\tTIME\tOUTPUT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%t\t%s\t%s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.Style, e.Seed,
			e.Triangles, e.Watertight, time.Duration(e.GenerationMS)*time.Millisecond, e.OutputDir)
	}
	return tw.Flush()
}
