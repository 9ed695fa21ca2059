package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/slicer"
)

const (
	DefaultScale     = 1.0
	DefaultFPS       = 10.0
	DefaultMarkSize  = 75.0
	DefaultMarkAlpha = 1.0
	DefaultTheme     = "cyberpunk"
)

var ErrUnknownKeys = errors.New("config: unknown keys")

type Config struct {
	Title         string       `yaml:"title,omitempty" toml:"title,omitempty"`
	Output        string       `yaml:"output,omitempty" toml:"output,omitempty"`
	Scale         float64      `yaml:"scale" toml:"scale"`
	Slices        SliceSpec    `yaml:"slices" toml:"slices"`
	FPS           float64      `yaml:"fps" toml:"fps"`
	Axis          int          `yaml:"axis" toml:"axis"`
	Marks         [][3]float64 `yaml:"marks,omitempty" toml:"marks,omitempty"`
	MarkSize      float64      `yaml:"marksize" toml:"marksize"`
	MarkAlpha     float64      `yaml:"markalpha" toml:"markalpha"`
	IMOD          bool         `yaml:"imod" toml:"imod"`
	ShowAxes      bool         `yaml:"showaxes" toml:"showaxes"`
	Min           *float64     `yaml:"min,omitempty" toml:"min,omitempty"`
	Max           *float64     `yaml:"max,omitempty" toml:"max,omitempty"`
	Loop          bool         `yaml:"loop" toml:"loop"`
	Interpolation string       `yaml:"interpolation" toml:"interpolation"`
	Theme         string       `yaml:"theme" toml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Scale:         DefaultScale,
		Slices:        SliceSpec{slicer.Count(slicer.DefaultCount)},
		FPS:           DefaultFPS,
		MarkSize:      DefaultMarkSize,
		MarkAlpha:     DefaultMarkAlpha,
		ShowAxes:      true,
		Loop:          true,
		Interpolation: string(render.Nearest),
		Theme:         DefaultTheme,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or, for .toml paths, TOML file over the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, err
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("%w in %s: %v", ErrUnknownKeys, path, keys)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var err error
		if data, err = encodeTOML(cfg); err != nil {
			return err
		}
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// encodeTOML writes cfg with slices as a bare integer or array. The encoder
// quotes anything produced by a marshaler, and a quoted "7" would read back
// as a count.
func encodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if _, err := toml.Decode(buf.String(), &m); err != nil {
		return nil, err
	}
	m["slices"] = cfg.Slices.tomlValue()

	buf.Reset()
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Slices = SliceSpec{c.Slices.Spec}
	if c.Slices.Indices != nil {
		cp.Slices.Indices = append([]int{}, c.Slices.Indices...)
	}
	cp.Marks = append([][3]float64(nil), c.Marks...)
	if c.Min != nil {
		v := *c.Min
		cp.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		cp.Max = &v
	}
	return &cp
}

// Options converts the file settings to animation options.
func (c *Config) Options() (animator.Options, error) {
	opts := animator.DefaultOptions()
	opts.Title = c.Title
	opts.Output = c.Output
	opts.Scale = c.Scale
	opts.Slices = c.Slices.Spec
	opts.FPS = c.FPS
	opts.Axis = c.Axis
	opts.MarkSize = c.MarkSize
	opts.MarkAlpha = c.MarkAlpha
	opts.ShowAxes = c.ShowAxes
	opts.Min, opts.Max = c.Min, c.Max
	opts.Loop = c.Loop
	opts.Interpolation = render.Interpolation(strings.ToLower(c.Interpolation))
	if _, err := opts.Interpolation.Interpolator(); err != nil {
		return opts, err
	}
	if c.IMOD {
		opts.Labels = render.LabelsIMOD
	}
	for _, m := range c.Marks {
		opts.Marks = append(opts.Marks, markers.Marker(m))
	}
	return opts, nil
}

// sortedKeys is used for stable listings of the presets map.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
