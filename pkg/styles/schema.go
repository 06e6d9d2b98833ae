package styles

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/errs"
)

// ParamType is the value type of a style parameter.
type ParamType string

const (
	Bool   ParamType = "boolean"
	Int    ParamType = "integer"
	Float  ParamType = "number"
	String ParamType = "string"
)

// Param describes one style-specific parameter.
type Param struct {
	Name        string    `json:"name" yaml:"name"`
	Type        ParamType `json:"type" yaml:"type"`
	Default     any       `json:"default" yaml:"default"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Choices     []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string    `json:"description" yaml:"description"`
}

// Schema is the ordered parameter list of a style.
type Schema []Param

func boolParam(name string, def bool, desc string) Param {
	return Param{Name: name, Type: Bool, Default: def, Description: desc}
}

func intParam(name string, def, min, max int, desc string) Param {
	mn, mx := float64(min), float64(max)
	return Param{Name: name, Type: Int, Default: def, Min: &mn, Max: &mx, Description: desc}
}

func floatParam(name string, def, min, max float64, desc string) Param {
	return Param{Name: name, Type: Float, Default: def, Min: &min, Max: &max, Description: desc}
}

func enumParam(name, def string, choices []string, desc string) Param {
	return Param{Name: name, Type: String, Default: def, Choices: choices, Description: desc}
}

// Names returns the parameter names in schema order.
func (s Schema) Names() []string {
	return lo.Map(s, func(p Param, _ int) string { return p.Name })
}

// Validate checks raw values against the schema and fills in defaults.
// Unknown keys, wrong types, out-of-range numbers and unlisted choices are
// invalid parameters.
func (s Schema) Validate(raw map[string]any) (Values, error) {
	known := lo.SliceToMap(s, func(p Param) (string, Param) { return p.Name, p })
	var unknown []string
	for k := range raw {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errs.Invalid("style_params", "unknown parameter(s) %s, accepted: %s",
			strings.Join(unknown, ", "), strings.Join(s.Names(), ", "))
	}

	out := make(Values, len(s))
	for _, p := range s {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			out[p.Name] = p.Default
			continue
		}
		cv, err := p.coerce(v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = cv
	}
	return out, nil
}

func (p Param) coerce(v any) (any, error) {
	field := "style_params." + p.Name
	switch p.Type {
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, errs.Invalid(field, "want boolean, got %T", v)
		}
		return b, nil
	case String:
		str, ok := v.(string)
		if !ok {
			return nil, errs.Invalid(field, "want string, got %T", v)
		}
		if len(p.Choices) > 0 && !lo.Contains(p.Choices, str) {
			return nil, errs.Invalid(field, "%q is not one of %s", str, strings.Join(p.Choices, ", "))
		}
		return str, nil
	case Int, Float:
		f, ok := number(v)
		if !ok {
			return nil, errs.Invalid(field, "want %s, got %T", p.Type, v)
		}
		if p.Type == Int && f != math.Trunc(f) {
			return nil, errs.Invalid(field, "want integer, got %g", f)
		}
		if p.Min != nil && f < *p.Min {
			return nil, errs.Invalid(field, "%g below minimum %g", f, *p.Min)
		}
		if p.Max != nil && f > *p.Max {
			return nil, errs.Invalid(field, "%g above maximum %g", f, *p.Max)
		}
		if p.Type == Int {
			return int(f), nil
		}
		return f, nil
	}
	return nil, fmt.Errorf("param %s: unsupported type %q", p.Name, p.Type)
}

// number accepts the numeric types JSON, YAML and Lisp decoders produce.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	return 0, false
}

// Values holds validated style parameters. Accessors assume the value came
// through Schema.Validate and return zero values for missing keys.
type Values map[string]any

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Int(name string) int {
	switch n := v[name].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func (v Values) Float(name string) float64 {
	f, _ := number(v[name])
	return f
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}
