package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/chazu/hotelgen/pkg/errs"
	"github.com/chazu/hotelgen/pkg/kernel"
	"github.com/chazu/hotelgen/pkg/preview"
)

// Formats WriteDir understands.
const (
	FormatSTL = "stl"
	Format3MF = "3mf"
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ManifestFile is written next to every exported artifact.
const ManifestFile = "manifest.json"

// Artifact is one thing to export: a mesh plus the metadata describing it.
type Artifact struct {
	Name     string
	Mesh     *kernel.Mesh
	Metadata any
	// SitePlan is an optional SVG drawing written for the svg format.
	SitePlan []byte
}

// Options selects what WriteDir produces.
type Options struct {
	Formats     []string
	PreviewSize int
}

// Manifest lists what WriteDir wrote.
type Manifest struct {
	Name      string    `json:"name"`
	Files     []string  `json:"files"`
	Triangles int       `json:"triangle_count"`
	Written   time.Time `json:"written_at"`
	Metadata  any       `json:"metadata,omitempty"`
}

// CheckFormats rejects unknown format names.
func CheckFormats(formats []string) error {
	known := []string{FormatSTL, Format3MF, FormatPNG, FormatSVG}
	for _, f := range formats {
		if !lo.Contains(known, strings.ToLower(f)) {
			return errs.Invalid("format", "unknown export format %q, available: %s", f, strings.Join(known, ", "))
		}
	}
	return nil
}

// WriteDir writes a in every requested format under dir, then the
// manifest. Files are named after the artifact.
func WriteDir(dir string, a Artifact, opts Options) (Manifest, error) {
	formats := lo.Uniq(lo.Map(opts.Formats, func(f string, _ int) string { return strings.ToLower(f) }))
	if len(formats) == 0 {
		formats = []string{FormatSTL}
	}
	if err := CheckFormats(formats); err != nil {
		return Manifest{}, err
	}
	if a.Name == "" {
		return Manifest{}, errs.Invalid("name", "artifact needs a name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("export: %w", err)
	}

	man := Manifest{Name: a.Name, Triangles: a.Mesh.TriangleCount(), Written: time.Now().UTC(), Metadata: a.Metadata}
	for _, f := range formats {
		data, err := encode(a, f, opts)
		if err != nil {
			return man, err
		}
		if data == nil {
			continue
		}
		file := a.Name + "." + f
		if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
			return man, fmt.Errorf("export: %w", err)
		}
		man.Files = append(man.Files, file)
	}
	sort.Strings(man.Files)

	data, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return man, fmt.Errorf("export: manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return man, fmt.Errorf("export: %w", err)
	}
	return man, nil
}

func encode(a Artifact, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSTL:
		return STL(a.Mesh)
	case Format3MF:
		var buf bytes.Buffer
		if err := ThreeMF(&buf, a.Mesh); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatPNG:
		size := opts.PreviewSize
		if size <= 0 {
			size = 256
		}
		return preview.PNG(a.Mesh, size, size)
	case FormatSVG:
		// Only complexes carry a site plan.
		return a.SitePlan, nil
	}
	return nil, errs.Invalid("format", "unknown export format %q", format)
}

// Set is several artifacts printed as separate pieces of one thing, such
// as the plates and road pieces of a board.
type Set struct {
	Name     string
	Pieces   []Artifact
	Metadata any
	// Plan is an optional SVG drawing of the whole set, written for the
	// svg format.
	Plan []byte
}

// SetManifest lists what WriteSet wrote.
type SetManifest struct {
	Name      string     `json:"name"`
	Files     []string   `json:"files,omitempty"`
	Pieces    []Manifest `json:"pieces"`
	Triangles int        `json:"triangle_count"`
	Written   time.Time  `json:"written_at"`
	Metadata  any        `json:"metadata,omitempty"`
}

// WriteSet writes every piece of s with WriteDir into its own directory
// under dir, named after the piece, then the set's plan and a manifest
// listing the pieces.
func WriteSet(dir string, s Set, opts Options) (SetManifest, error) {
	if s.Name == "" {
		return SetManifest{}, errs.Invalid("name", "set needs a name")
	}
	if len(s.Pieces) == 0 {
		return SetManifest{}, errs.Invalid("pieces", "set %s has no pieces", s.Name)
	}
	names := lo.Map(s.Pieces, func(a Artifact, _ int) string { return a.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return SetManifest{}, errs.Invalid("pieces", "duplicate piece name %q", dup[0])
	}
	if err := CheckFormats(opts.Formats); err != nil {
		return SetManifest{}, err
	}

	man := SetManifest{Name: s.Name, Written: time.Now().UTC(), Metadata: s.Metadata}
	for _, a := range s.Pieces {
		pm, err := WriteDir(filepath.Join(dir, a.Name), a, opts)
		if err != nil {
			return man, fmt.Errorf("%s: %w", a.Name, err)
		}
		man.Pieces = append(man.Pieces, pm)
		man.Triangles += pm.Triangles
	}
	svgWanted := lo.ContainsBy(opts.Formats, func(f string) bool { return strings.EqualFold(f, FormatSVG) })
	if svgWanted && s.Plan != nil {
		file := s.Name + "." + FormatSVG
		if err := os.WriteFile(filepath.Join(dir, file), s.Plan, 0o644); err != nil {
			return man, fmt.Errorf("export: %w", err)
		}
		man.Files = append(man.Files, file)
	}

	data, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return man, fmt.Errorf("export: manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return man, fmt.Errorf("export: %w", err)
	}
	return man, nil
}
