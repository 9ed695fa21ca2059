package config

import (
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/slicer"
)

var Presets = map[string]*Config{
	"preview": {
		Scale: 0.5, Slices: SliceSpec{slicer.Count(20)}, FPS: 10,
		MarkSize: DefaultMarkSize, MarkAlpha: DefaultMarkAlpha,
		ShowAxes: false, Loop: true, Interpolation: string(render.Nearest), Theme: DefaultTheme,
	},
	"full": {
		Scale: 1, Slices: SliceSpec{slicer.Count(1 << 16)}, FPS: 20,
		MarkSize: DefaultMarkSize, MarkAlpha: DefaultMarkAlpha,
		ShowAxes: true, Loop: true, Interpolation: string(render.Nearest), Theme: DefaultTheme,
	},
	"imod": {
		Scale: 1, Slices: SliceSpec{slicer.Count(slicer.DefaultCount)}, FPS: DefaultFPS,
		MarkSize: DefaultMarkSize, MarkAlpha: 0.7, IMOD: true,
		ShowAxes: true, Loop: true, Interpolation: string(render.Nearest), Theme: "minimal",
	},
	"publication": {
		Scale: 2, Slices: SliceSpec{slicer.Count(slicer.DefaultCount)}, FPS: 5,
		MarkSize: 120, MarkAlpha: DefaultMarkAlpha,
		ShowAxes: true, Loop: true, Interpolation: string(render.Bilinear), Theme: "minimal",
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	return sortedKeys(Presets)
}
