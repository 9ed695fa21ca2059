package render

import (
	"image/color"
	"math"
)

const (
	grayLevels = 192
	markLevels = 64
)

const (
	black = uint8(0)
	white = uint8(grayLevels - 1)
)

// newPalette builds the frame palette: a gray ramp followed by the same ramp
// blended with red at the given alpha. GIF frames index it directly.
func newPalette(alpha float64) color.Palette {
	p := make(color.Palette, 0, grayLevels+markLevels)
	for i := 0; i < grayLevels; i++ {
		g := uint8(math.Round(float64(i) * 255 / (grayLevels - 1)))
		p = append(p, color.RGBA{g, g, g, 0xff})
	}
	for j := 0; j < markLevels; j++ {
		g := float64(j) * 255 / (markLevels - 1)
		r := alpha*255 + (1-alpha)*g
		o := (1 - alpha) * g
		p = append(p, color.RGBA{uint8(math.Round(r)), uint8(math.Round(o)), uint8(math.Round(o)), 0xff})
	}
	return p
}

func grayIndex(level uint8) uint8 {
	return uint8((int(level)*(grayLevels-1) + 127) / 255)
}

func markIndex(level uint8) uint8 {
	return uint8(grayLevels + (int(level)*(markLevels-1)+127)/255)
}

// level maps v onto 0..255 over [lo, hi], clamping outside values.
// NaN maps to 0.
func level(v, lo, hi float64) uint8 {
	if math.IsNaN(v) || hi <= lo {
		return 0
	}
	t := (v - lo) / (hi - lo)
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 255
	}
	return uint8(math.Round(t * 255))
}
