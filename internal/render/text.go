package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/voxanim/internal/volume"
)

var face = basicfont.Face7x13

const (
	glyphWidth = 7
	lineHeight = 13
	pad        = 6
	minPlot    = 8
)

// Caption is the per-frame heading, e.g. "Axis 0: Slice 4".
func Caption(labels LabelMode, axis, slice int) string {
	return fmt.Sprintf("%s: Slice %d", labels.Label(axis), slice)
}

func (r *Renderer) titleLines(slice int) []string {
	caption := Caption(r.style.Labels, r.style.Axis, slice)
	if r.style.Title == "" {
		return []string{caption}
	}
	return []string{r.style.Title, caption}
}

func (r *Renderer) decorate(dst *image.Paletted, plot image.Rectangle, slice int) {
	frame := plot.Inset(-1).Intersect(dst.Bounds())
	for x := frame.Min.X; x < frame.Max.X; x++ {
		dst.SetColorIndex(x, frame.Min.Y, black)
		dst.SetColorIndex(x, frame.Max.Y-1, black)
	}
	for y := frame.Min.Y; y < frame.Max.Y; y++ {
		dst.SetColorIndex(frame.Min.X, y, black)
		dst.SetColorIndex(frame.Max.X-1, y, black)
	}

	centre := (plot.Min.X + plot.Max.X) / 2
	lines := r.titleLines(slice)
	for i, line := range lines {
		baseline := frame.Min.Y - pad - (len(lines)-1-i)*lineHeight - face.Descent
		drawText(dst, line, centre-textWidth(line)/2, baseline)
	}

	rowAxis, colAxis := volume.DisplayAxes(r.style.Axis)
	xlabel := r.style.Labels.Label(colAxis)
	drawText(dst, xlabel, centre-textWidth(xlabel)/2, frame.Max.Y+pad+face.Ascent)

	// basicfont has no rotation, so the y label is stacked one glyph per line.
	ylabel := []rune(r.style.Labels.Label(rowAxis))
	x := frame.Min.X - pad - glyphWidth
	y := (plot.Min.Y+plot.Max.Y)/2 - len(ylabel)*lineHeight/2 + face.Ascent
	for i, c := range ylabel {
		drawText(dst, string(c), x, y+i*lineHeight)
	}
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

func drawText(dst *image.Paletted, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}
