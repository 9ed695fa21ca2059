package viz

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

// fit returns the largest size with the aspect ratio of src that fits in
// maxW x maxH.
func fit(src image.Point, maxW, maxH int) (w, h int) {
	if src.X <= 0 || src.Y <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	w = maxW
	h = int(math.Round(float64(maxW) * float64(src.Y) / float64(src.X)))
	if h > maxH {
		h = maxH
		w = int(math.Round(float64(maxH) * float64(src.X) / float64(src.Y)))
	}
	return max(1, w), max(1, h)
}

// HalfBlocks draws img into a cols x rows cell area, two pixels per cell
// using the upper half block with separate fore and background colours.
func HalfBlocks(img image.Image, cols, rows int, p termenv.Profile) string {
	w, h := fit(img.Bounds().Size(), cols, rows*2)
	if w == 0 {
		return ""
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := dst.RGBAAt(x, y)
			bottom := color.RGBA{A: 0xff}
			if y+1 < h {
				bottom = dst.RGBAAt(x, y+1)
			}
			cell := p.String("▀").
				Foreground(p.Color(hexColor(top))).
				Background(p.Color(hexColor(bottom)))
			b.WriteString(cell.String())
		}
	}
	return b.String()
}

// Braille draws img on a cols x rows braille canvas, one dot per pixel,
// lighting the bright half of the intensity range.
func Braille(img image.Image, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	dw, dh := c.Dots()
	w, h := fit(img.Bounds().Size(), dw, dh)
	if w == 0 {
		return c
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	c.Plot(dst, 128)
	return c
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
