package engine

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/chazu/hotelgen/pkg/board"
	"github.com/chazu/hotelgen/pkg/build"
	"github.com/chazu/hotelgen/pkg/complex"
	"github.com/chazu/hotelgen/pkg/export"
	"github.com/chazu/hotelgen/pkg/profile"
	"github.com/chazu/hotelgen/pkg/styles"
)

// kwPrefix marks keywords after preprocessing.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys reads:
// :keyword becomes the string "__kw_keyword", kebab-case identifiers become
// snake_case, and ; comments become // comments. String literals are left
// alone.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			out = append(out, '/', '/')
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// sexpJob is what hotel and complex return.
type sexpJob struct {
	kind, name string
}

func (j *sexpJob) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", j.kind, j.name)
}
func (j *sexpJob) Type() *zygo.RegisteredType { return nil }

// sexpPlacement is one building position inside a complex.
type sexpPlacement struct {
	p complex.Placement
}

func (p *sexpPlacement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(building :role :%s :x %g :y %g)", p.p.Role, p.p.X, p.p.Y)
}
func (p *sexpPlacement) Type() *zygo.RegisteredType { return nil }

// sexpParams is a style parameter map.
type sexpParams struct {
	values map[string]any
}

func (p *sexpParams) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(params %d)", len(p.values))
}
func (p *sexpParams) Type() *zygo.RegisteredType { return nil }

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	out := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			out.positional = append(out.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			out.kw[name] = args[i+1]
			i++
		} else {
			out.kw[name] = zygo.SexpNull
		}
	}
	return out
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toInt64(s zygo.Sexp) (int64, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected integer, got %s", s.SexpString(nil))
}

// toName accepts a keyword or a string and returns it in snake_case.
func toName(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", s.SexpString(nil))
	}
	return strings.ReplaceAll(strings.TrimPrefix(str.S, kwPrefix), "-", "_"), nil
}

// toValue converts a script value for a style parameter.
func toValue(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpStr:
		if kw, ok := isKW(v); ok {
			return strings.ReplaceAll(kw, "-", "_"), nil
		}
		return v.S, nil
	}
	return nil, fmt.Errorf("unsupported value %s", s.SexpString(nil))
}

func toList(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %s", s.SexpString(nil))
}

func stringList(names []string) zygo.Sexp {
	return zygo.MakeList(lo.Map(names, func(n string, _ int) zygo.Sexp { return &zygo.SexpStr{S: n} }))
}

// setter stores one keyword argument.
type setter func(zygo.Sexp) error

func floatTo(dst *float64) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = toFloat64(s)
		return err
	}
}

func intTo(dst *int) setter {
	return func(s zygo.Sexp) error {
		n, err := toInt64(s)
		*dst = int(n)
		return err
	}
}

func int64To(dst *int64) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = toInt64(s)
		return err
	}
}

func nameTo(dst *string) setter {
	return func(s zygo.Sexp) (err error) {
		*dst, err = toName(s)
		return err
	}
}

func boolTo(dst *bool) setter {
	return func(s zygo.Sexp) error {
		b, ok := s.(*zygo.SexpBool)
		if !ok {
			return fmt.Errorf("expected true or false, got %s", s.SexpString(nil))
		}
		*dst = b.Val
		return nil
	}
}

// presetsTo assigns a list of preset names to board slots 0, 1, ...
func presetsTo(dst *map[int]string) setter {
	return func(s zygo.Sexp) error {
		items, err := toList(s)
		if err != nil {
			return err
		}
		out := make(map[int]string, len(items))
		for i, it := range items {
			name, err := toName(it)
			if err != nil {
				return fmt.Errorf("slot %d: %w", i, err)
			}
			out[i] = name
		}
		*dst = out
		return nil
	}
}

func paramsTo(dst *map[string]any) setter {
	return func(s zygo.Sexp) error {
		p, ok := s.(*sexpParams)
		if !ok {
			return fmt.Errorf("expected (params ...), got %s", s.SexpString(nil))
		}
		*dst = p.values
		return nil
	}
}

func rolesTo(dst *[]complex.Role) setter {
	return func(s zygo.Sexp) error {
		items, err := toList(s)
		if err != nil {
			return err
		}
		roles := make([]complex.Role, len(items))
		for i, it := range items {
			name, err := toName(it)
			if err != nil {
				return fmt.Errorf("role %d: %w", i, err)
			}
			roles[i] = complex.Role(name)
		}
		*dst = roles
		return nil
	}
}

func placementsTo(dst *[]complex.Placement) setter {
	return func(s zygo.Sexp) error {
		items, err := toList(s)
		if err != nil {
			return err
		}
		ps := make([]complex.Placement, len(items))
		for i, it := range items {
			p, ok := it.(*sexpPlacement)
			if !ok {
				return fmt.Errorf("placement %d: expected (building ...), got %s", i, it.SexpString(nil))
			}
			ps[i] = p.p
		}
		*dst = ps
		return nil
	}
}

// apply runs the setter for every keyword, in name order. Unknown keywords
// are errors.
func apply(fn string, pa kwArgs, fields map[string]setter) error {
	keys := lo.Keys(pa.kw)
	sort.Strings(keys)
	for _, k := range keys {
		set, ok := fields[k]
		if !ok {
			accepted := lo.Keys(fields)
			sort.Strings(accepted)
			return fmt.Errorf("%s: unknown option :%s, accepted: %s", fn, k, strings.Join(accepted, ", "))
		}
		if err := set(pa.kw[k]); err != nil {
			return fmt.Errorf("%s: %s: %w", fn, k, err)
		}
	}
	return nil
}

// jobNames hands out unique job names within one script.
type jobNames struct {
	used map[string]int
}

func (n *jobNames) claim(explicit, fallback string) (string, error) {
	if explicit != "" {
		if n.used[explicit] > 0 {
			return "", fmt.Errorf("duplicate job name %q", explicit)
		}
		n.used[explicit]++
		return explicit, nil
	}
	name := fallback
	for k := 2; n.used[name] > 0; k++ {
		name = fmt.Sprintf("%s-%d", fallback, k)
	}
	n.used[name]++
	return name, nil
}

func jobName(fn string, pa kwArgs) (string, error) {
	if len(pa.positional) == 0 {
		return "", nil
	}
	if len(pa.positional) > 1 {
		return "", fmt.Errorf("%s: expected at most a name before the options", fn)
	}
	str, ok := pa.positional[0].(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("%s: name must be a string, got %s", fn, pa.positional[0].SexpString(nil))
	}
	return str.S, nil
}

// registerBuiltins installs the script builtins. Jobs are appended to s in
// call order.
func registerBuiltins(env *zygo.Zlisp, s *Script, resolve func(string) (profile.Profile, error)) {
	names := &jobNames{used: map[string]int{}}

	// (hotel "lobby" :style :modern :width 30 :depth 25 :floors 5 :seed 7
	//        :params (params :fin-count 4))
	env.AddFunction("hotel", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := build.DefaultParams("")
		err := apply("hotel", pa, map[string]setter{
			"style":             nameTo(&p.Style),
			"width":             floatTo(&p.Width),
			"depth":             floatTo(&p.Depth),
			"floors":            intTo(&p.Floors),
			"floor-height":      floatTo(&p.FloorHeight),
			"wall-thickness":    floatTo(&p.WallThickness),
			"window-width":      floatTo(&p.WindowWidth),
			"window-height":     floatTo(&p.WindowHeight),
			"windows-per-floor": intTo(&p.WindowsPerFloor),
			"printer":           nameTo(&p.Printer),
			"seed":              int64To(&p.Seed),
			"max-triangles":     intTo(&p.MaxTriangles),
			"params":            paramsTo(&p.StyleParams),
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		if p.Style == "" {
			return zygo.SexpNull, fmt.Errorf("hotel: :style is required")
		}
		if _, err := styles.Lookup(p.Style); err != nil {
			return zygo.SexpNull, fmt.Errorf("hotel: %w", err)
		}
		explicit, err := jobName("hotel", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		name, err := names.claim(explicit, fmt.Sprintf("%s-%d", p.Style, p.Seed))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hotel: %w", err)
		}
		s.Jobs = append(s.Jobs, Job{Name: name, Kind: JobHotel, Hotel: &p})
		return &sexpJob{kind: JobHotel, name: name}, nil
	})

	// (complex "resort" :preset :waikiki :seed 3)
	// (complex :style :modern :buildings 2
	//          :placements (list (building :x -9 :width 12 ...) ...))
	env.AddFunction("complex", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := complex.DefaultParams("")
		err := apply("complex", pa, map[string]setter{
			"style":         nameTo(&p.Style),
			"preset":        nameTo(&p.Preset),
			"strategy":      nameTo(&p.Strategy),
			"buildings":     intTo(&p.Buildings),
			"spacing":       floatTo(&p.Spacing),
			"printer":       nameTo(&p.Printer),
			"seed":          int64To(&p.Seed),
			"max-triangles": intTo(&p.MaxTriangles),
			"lot-width":     floatTo(&p.LotWidth),
			"lot-depth":     floatTo(&p.LotDepth),
			"roles":         rolesTo(&p.Roles),
			"placements":    placementsTo(&p.Placements),
			"params":        paramsTo(&p.StyleParams),
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, set := pa.kw["buildings"]; !set {
			switch {
			case p.Placements != nil:
				p.Buildings = len(p.Placements)
			case p.Roles != nil:
				p.Buildings = len(p.Roles)
			case p.Preset != "":
				p.Buildings = 0
			}
		}
		if p.Style == "" && p.Preset == "" {
			return zygo.SexpNull, fmt.Errorf("complex: :style or :preset is required")
		}
		if p.Preset != "" {
			if _, err := complex.LookupPreset(p.Preset); err != nil {
				return zygo.SexpNull, fmt.Errorf("complex: %w", err)
			}
		}
		if p.Style != "" {
			if _, err := styles.Lookup(p.Style); err != nil {
				return zygo.SexpNull, fmt.Errorf("complex: %w", err)
			}
		}
		explicit, err := jobName("complex", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		name, err := names.claim(explicit, fmt.Sprintf("%s-complex-%d", lo.CoalesceOrEmpty(p.Preset, p.Style), p.Seed))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("complex: %w", err)
		}
		s.Jobs = append(s.Jobs, Job{Name: name, Kind: JobComplex, Complex: &p})
		return &sexpJob{kind: JobComplex, name: name}, nil
	})

	// (property "corner-lot" :preset :royal :road-edge :east :garden false)
	env.AddFunction("property", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := board.DefaultPropertyParams()
		err := apply("property", pa, map[string]setter{
			"style":         nameTo(&p.Style),
			"preset":        nameTo(&p.Preset),
			"buildings":     intTo(&p.Buildings),
			"spacing":       floatTo(&p.Spacing),
			"lot-width":     floatTo(&p.LotWidth),
			"lot-depth":     floatTo(&p.LotDepth),
			"road-edge":     nameTo(&p.RoadEdge),
			"road-width":    floatTo(&p.RoadWidth),
			"garden":        boolTo(&p.Garden),
			"printer":       nameTo(&p.Printer),
			"seed":          int64To(&p.Seed),
			"max-triangles": intTo(&p.MaxTriangles),
			"params":        paramsTo(&p.StyleParams),
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		if p.Preset != "" {
			if _, err := complex.LookupPreset(p.Preset); err != nil {
				return zygo.SexpNull, fmt.Errorf("property: %w", err)
			}
		} else if _, err := styles.Lookup(p.Style); err != nil {
			return zygo.SexpNull, fmt.Errorf("property: %w", err)
		}
		if err := p.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("property: %w", err)
		}
		explicit, err := jobName("property", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		name, err := names.claim(explicit, fmt.Sprintf("%s-property-%d", lo.CoalesceOrEmpty(p.Preset, p.Style), p.Seed))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("property: %w", err)
		}
		s.Jobs = append(s.Jobs, Job{Name: name, Kind: JobProperty, Property: &p})
		return &sexpJob{kind: JobProperty, name: name}, nil
	})

	// (board "demo" :road-shape :serpentine :properties 6
	//        :presets (list :royal :vacation) :frame false)
	env.AddFunction("board", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := board.DefaultBoardParams()
		err := apply("board", pa, map[string]setter{
			"road-shape":     nameTo(&p.RoadShape),
			"properties":     intTo(&p.Properties),
			"property-width": floatTo(&p.PropertyWidth),
			"property-depth": floatTo(&p.PropertyDepth),
			"road-width":     floatTo(&p.RoadWidth),
			"garden":         boolTo(&p.Garden),
			"printer":        nameTo(&p.Printer),
			"seed":           int64To(&p.Seed),
			"max-triangles":  intTo(&p.MaxTriangles),
			"presets":        presetsTo(&p.Presets),
			"frame":          boolTo(&p.Frame.Enabled),
			"frame-width":    floatTo(&p.Frame.Width),
			"lip-height":     floatTo(&p.Frame.LipHeight),
			"lip-thickness":  floatTo(&p.Frame.LipThickness),
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := p.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}
		explicit, err := jobName("board", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		name, err := names.claim(explicit, fmt.Sprintf("%s-board-%d", p.RoadShape, p.Seed))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}
		s.Jobs = append(s.Jobs, Job{Name: name, Kind: JobBoard, Board: &p})
		return &sexpJob{kind: JobBoard, name: name}, nil
	})

	// (building :role :wing :x 20 :y 0 :rotation 90 :width 24 :depth 14
	//           :floors 3 :floor-height 5)
	env.AddFunction("building", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var p complex.Placement
		role := string(complex.Main)
		err := apply("building", pa, map[string]setter{
			"role":         nameTo(&role),
			"x":            floatTo(&p.X),
			"y":            floatTo(&p.Y),
			"rotation":     floatTo(&p.Rotation),
			"width":        floatTo(&p.Width),
			"depth":        floatTo(&p.Depth),
			"floors":       intTo(&p.Floors),
			"floor-height": floatTo(&p.FloorHeight),
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		p.Role = complex.Role(role)
		return &sexpPlacement{p: p}, nil
	})

	// (params :fin-count 4 :has-balconies true)
	env.AddFunction("params", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("params: expected :name value pairs")
		}
		values := make(map[string]any, len(pa.kw))
		for k, v := range pa.kw {
			val, err := toValue(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("params: %s: %w", k, err)
			}
			values[strings.ReplaceAll(k, "-", "_")] = val
		}
		return &sexpParams{values: values}, nil
	})

	// (output :formats (list :stl "3mf" :png))
	env.AddFunction("output", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var formats []string
		err := apply("output", pa, map[string]setter{
			"formats": func(v zygo.Sexp) error {
				items, err := toList(v)
				if err != nil {
					return err
				}
				for _, it := range items {
					f, err := toName(it)
					if err != nil {
						return err
					}
					formats = append(formats, f)
				}
				return export.CheckFormats(formats)
			},
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Formats = formats
		return zygo.SexpNull, nil
	})

	env.AddFunction("styles", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		return stringList(styles.Names()), nil
	})

	env.AddFunction("presets", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		return stringList(complex.PresetNames()), nil
	})

	env.AddFunction("road_shapes", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		return stringList(board.RoadShapes), nil
	})

	env.AddFunction("strategies", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		return stringList(complex.StrategyNames()), nil
	})

	// (profile-value :fdm :min-wall-thickness)
	env.AddFunction("profile_value", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("profile-value requires a printer and a field, got %d arguments", len(args))
		}
		printer, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile-value: printer: %w", err)
		}
		field, err := toName(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile-value: field: %w", err)
		}
		p, err := resolve(printer)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile-value: %w", err)
		}
		fields, err := profileFields(p)
		if err != nil {
			return zygo.SexpNull, err
		}
		switch v := fields[field].(type) {
		case float64:
			return &zygo.SexpFloat{Val: v}, nil
		case int:
			return &zygo.SexpInt{Val: int64(v)}, nil
		case bool:
			return &zygo.SexpBool{Val: v}, nil
		case string:
			return &zygo.SexpStr{S: v}, nil
		}
		return zygo.SexpNull, fmt.Errorf("profile-value: unknown field %q", field)
	})
}

// profileFields flattens a profile into its YAML field names.
func profileFields(p profile.Profile) (map[string]any, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
