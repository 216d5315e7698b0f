package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"tri-raster/internal/mathutil"
	"tri-raster/internal/raster"
)

// Scene is an ordered list of triangles painted over a background.
// Width, Height and Supersample override the render config when non-zero.
type Scene struct {
	Name        string
	Path        string // file the scene was loaded from, if any
	Width       int
	Height      int
	Supersample int
	Background  raster.Color
	Triangles   []raster.Triangle
}

// file mirrors the on-disk schema shared by the JSON and TOML forms.
type file struct {
	Name        string    `json:"name" toml:"name"`
	Width       int       `json:"width" toml:"width"`
	Height      int       `json:"height" toml:"height"`
	Supersample int       `json:"supersample" toml:"supersample"`
	Background  []float64 `json:"background" toml:"background"`
	Triangles   []fileTri `json:"triangles" toml:"triangles"`
}

type fileTri struct {
	A     []float64 `json:"a" toml:"a"`
	B     []float64 `json:"b" toml:"b"`
	C     []float64 `json:"c" toml:"c"`
	Color []float64 `json:"color" toml:"color"`
}

// Load reads a scene from a .json or .toml file. A missing name defaults
// to the file's base name without extension. Names are used as output
// file names, so path separators and ".." are rejected.
func Load(path string) (*Scene, error) {
	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scene: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("scene: parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("scene: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("scene: unknown extension %q: %s", ext, path)
	}

	s, err := f.toScene()
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := ValidName(s.Name); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// ValidName reports whether name can be used as a file name inside the
// output directory.
func ValidName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.ContainsAny(name, `/\`) || strings.Contains(name, ".."):
		return fmt.Errorf("name %q must not contain path separators or \"..\"", name)
	}
	return nil
}

// CheckUnique returns an error naming both sources when two scenes share
// a name, since they would be written to the same output file.
func CheckUnique(scenes []*Scene) error {
	seen := make(map[string]*Scene, len(scenes))
	for _, s := range scenes {
		if prev, ok := seen[s.Name]; ok {
			return fmt.Errorf("scene: duplicate name %q in %s and %s", s.Name, source(prev), source(s))
		}
		seen[s.Name] = s
	}
	return nil
}

func source(s *Scene) string {
	if s.Path == "" {
		return "built-in scene"
	}
	return s.Path
}

// LoadDir loads every .json and .toml scene in dir, sorted by file name.
func LoadDir(dir string) ([]*Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scene: read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".toml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenes := make([]*Scene, 0, len(names))
	for _, n := range names {
		s, err := Load(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	if err := CheckUnique(scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

func (f *file) toScene() (*Scene, error) {
	s := &Scene{
		Name:        f.Name,
		Width:       f.Width,
		Height:      f.Height,
		Supersample: f.Supersample,
	}
	if f.Width < 0 || f.Height < 0 || f.Supersample < 0 {
		return nil, errors.New("negative size or supersample")
	}
	if f.Background != nil {
		c, err := parseColor(f.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		s.Background = c
	}
	s.Triangles = make([]raster.Triangle, len(f.Triangles))
	for i, ft := range f.Triangles {
		c, err := parseColor(ft.Color)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		var verts [3]mathutil.Vec2
		for j, pt := range [3][]float64{ft.A, ft.B, ft.C} {
			if verts[j], err = parsePoint(pt); err != nil {
				return nil, fmt.Errorf("triangle %d vertex %c: %w", i, "abc"[j], err)
			}
		}
		s.Triangles[i] = raster.Triangle{A: verts[0], B: verts[1], C: verts[2], Color: c}
	}
	return s, nil
}

func parsePoint(xy []float64) (mathutil.Vec2, error) {
	if len(xy) != 2 {
		return mathutil.Vec2{}, fmt.Errorf("point needs 2 coordinates, got %d", len(xy))
	}
	return mathutil.Vec2{X: xy[0], Y: xy[1]}, nil
}

func parseColor(ch []float64) (raster.Color, error) {
	if len(ch) != 3 {
		return raster.Color{}, fmt.Errorf("color needs 3 channels, got %d", len(ch))
	}
	return raster.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Default returns the demo scene: a teal triangle followed by a red one
// along the top edge.
func Default() *Scene {
	return &Scene{
		Name: "default",
		Triangles: []raster.Triangle{
			{
				A:     mathutil.Vec2{X: 0.5, Y: 0.5},
				B:     mathutil.Vec2{X: 1.0, Y: 1.0},
				C:     mathutil.Vec2{X: 0.0, Y: 1.0},
				Color: raster.Color{R: 0, G: 0.5, B: 0.5},
			},
			{
				A:     mathutil.Vec2{X: 0.0, Y: 0.0},
				B:     mathutil.Vec2{X: 1.0, Y: 0.0},
				C:     mathutil.Vec2{X: 0.5, Y: 0.5},
				Color: raster.Red,
			},
		},
	}
}

// Check returns warnings for triangles the rasterizer will draw wrongly
// or not at all. Nothing here is fatal.
func (s *Scene) Check() []string {
	var warns []string
	for i, t := range s.Triangles {
		if t.A.X == t.B.X || t.B.X == t.C.X || t.C.X == t.A.X {
			warns = append(warns, fmt.Sprintf("triangle %d has a vertical edge and will not rasterize", i))
		}
		area := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
		switch {
		case area == 0:
			warns = append(warns, fmt.Sprintf("triangle %d has zero area", i))
		case area < 0:
			warns = append(warns, fmt.Sprintf("triangle %d is counter-clockwise", i))
		}
		if !inUnit(t.Color) {
			warns = append(warns, fmt.Sprintf("triangle %d color %v is outside [0,1]", i, t.Color))
		}
	}
	if !inUnit(s.Background) {
		warns = append(warns, fmt.Sprintf("background %v is outside [0,1]", s.Background))
	}
	return warns
}

func inUnit(c raster.Color) bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Render composites every triangle of s, in order, over its background.
// Scene overrides replace cfg's size and supersample.
func Render(s *Scene, cfg raster.Config) (*raster.FrameBuffer, error) {
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if s.Supersample > 0 {
		cfg.Supersample = s.Supersample
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("scene %s: invalid size %dx%d", s.Name, cfg.Width, cfg.Height)
	}

	r := raster.New(cfg)
	fb := r.NewFrameBuffer()
	fb.Fill(s.Background)
	for i, t := range s.Triangles {
		if err := r.Composite(t, fb); err != nil {
			return nil, fmt.Errorf("scene %s: triangle %d: %w", s.Name, i, err)
		}
	}
	return fb, nil
}
