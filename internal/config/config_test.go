package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/slicer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigMatchesOptions(t *testing.T) {
	opts, err := DefaultConfig().Options()
	require.NoError(t, err)
	assert.Equal(t, animator.DefaultOptions(), opts)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
title: phantom
scale: 2
slices: [3, 3, 5.7]
axis: 1
marks:
  - [1, 2, 3]
imod: true
min: -1
interpolation: Bilinear
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "phantom", cfg.Title)
	assert.Equal(t, 2.0, cfg.Scale)
	assert.Equal(t, slicer.Explicit(3, 3, 5), cfg.Slices.Spec)
	assert.Equal(t, DefaultFPS, cfg.FPS)
	require.NotNil(t, cfg.Min)
	assert.Equal(t, -1.0, *cfg.Min)
	assert.Nil(t, cfg.Max)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, render.LabelsIMOD, opts.Labels)
	assert.Equal(t, render.Bilinear, opts.Interpolation)
	assert.Equal(t, []markers.Marker{{1, 2, 3}}, opts.Marks)
	assert.Equal(t, 1, opts.Axis)
}

func TestLoadYAMLSliceForms(t *testing.T) {
	tests := []struct {
		yaml     string
		expected slicer.Spec
	}{
		{"slices: 12", slicer.Count(12)},
		{"slices: []", slicer.Explicit()},
		{`slices: "2:8:3"`, slicer.Explicit(2, 5)},
	}
	for _, tt := range tests {
		cfg, err := Load(writeFile(t, "c.yaml", tt.yaml))
		require.NoError(t, err, tt.yaml)
		assert.Equal(t, tt.expected, cfg.Slices.Spec, tt.yaml)
	}

	_, err := Load(writeFile(t, "c.yaml", "slices: {a: 1}"))
	assert.ErrorIs(t, err, slicer.ErrSyntax)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "c.yaml", "fsp: 12\n"))
	assert.Error(t, err)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "c.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "run.toml", `
title = "phantom"
fps = 4.0
slices = [7, 1, 7]
marks = [[1.0, 0.0, 0.0], [8.0, 0.5, 0.5]]
showaxes = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.FPS)
	assert.Equal(t, slicer.Explicit(7, 1, 7), cfg.Slices.Spec)
	assert.Equal(t, [][3]float64{{1, 0, 0}, {8, 0.5, 0.5}}, cfg.Marks)
	assert.False(t, cfg.ShowAxes)

	cfg, err = Load(writeFile(t, "count.toml", "slices = 9\n"))
	require.NoError(t, err)
	assert.Equal(t, slicer.Count(9), cfg.Slices.Spec)

	_, err = Load(writeFile(t, "bad.toml", "colour = \"red\"\n"))
	assert.ErrorIs(t, err, ErrUnknownKeys)
}

func TestSaveLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slices = SliceSpec{slicer.Explicit(4, 2)}
	cfg.Marks = [][3]float64{{1, 2, 3}}
	hi := 0.8
	cfg.Max = &hi

	for _, name := range []string{"saved.yaml", "saved.toml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(path, cfg))
		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, got, name)
	}
}

func TestSaveLoadKeepsSliceSpecKind(t *testing.T) {
	specs := []slicer.Spec{
		slicer.Count(7),
		slicer.Explicit(7),
		slicer.Explicit(),
		slicer.Explicit(9, 0, 9),
	}
	for _, spec := range specs {
		for _, name := range []string{"one.yaml", "one.toml"} {
			cfg := DefaultConfig()
			cfg.Slices = SliceSpec{spec}
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cfg), name)

			got, err := Load(path)
			require.NoError(t, err, "%s %v", name, spec)
			assert.Equal(t, spec.IsExplicit(), got.Slices.IsExplicit(), "%s %v", name, spec)
			assert.Equal(t, spec.String(), got.Slices.String(), "%s %v", name, spec)
		}
	}
}

func TestSaveTOMLWritesSlicesAsArray(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slices = SliceSpec{slicer.Explicit(7)}
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slices = [7]")
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"full", "imod", "preview", "publication"}, ListPresets())

	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		opts, err := cfg.Options()
		require.NoError(t, err, name)
		opts.Output = "x.gif"
		assert.NoError(t, opts.Validate(), name)
	}

	imod := GetPreset("imod")
	assert.True(t, imod.IMOD)
	imod.Scale = 9
	assert.Equal(t, 1.0, Presets["imod"].Scale, "GetPreset must return a copy")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestOptionsRejectsInterpolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interpolation = "sinc"
	_, err := cfg.Options()
	assert.ErrorIs(t, err, render.ErrInterpolation)
}
