// Package render draws animation frames as paletted images.
//
// Geometry follows a 5 inch tall figure at 100 dpi scaled by Style.Scale,
// with the width set by the slice aspect ratio. With axes shown the plane is
// fitted into a framed plot area with a title and axis labels around it;
// without axes the plane fills the whole image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"

	"github.com/san-kum/voxanim/internal/frames"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/volume"
)

const (
	DPI          = 100
	FigureInches = 5
	pointsPerIn  = 72
)

var (
	ErrMalformedFrame = errors.New("render: malformed frame")
	ErrInterpolation  = errors.New("render: unknown interpolation")
	ErrLabelMode      = errors.New("render: unknown label mode")
	ErrStyle          = errors.New("render: invalid style")
)

type LabelMode int

const (
	LabelsDefault LabelMode = iota
	LabelsIMOD
)

var labelSets = map[LabelMode][volume.NDim]string{
	LabelsDefault: {"Axis 0", "Axis 1", "Axis 2"},
	LabelsIMOD:    {"Z axis", "Y axis", "X axis"},
}

func (m LabelMode) Label(axis int) string {
	set, ok := labelSets[m]
	if !ok {
		set = labelSets[LabelsDefault]
	}
	if axis < 0 || axis >= len(set) {
		return fmt.Sprintf("Axis %d", axis)
	}
	return set[axis]
}

func (m LabelMode) String() string {
	if m == LabelsIMOD {
		return "imod"
	}
	return "default"
}

func ParseLabelMode(s string) (LabelMode, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return LabelsDefault, nil
	case "imod":
		return LabelsIMOD, nil
	}
	return LabelsDefault, fmt.Errorf("%w: %q", ErrLabelMode, s)
}

type Interpolation string

const (
	Nearest    Interpolation = "nearest"
	Bilinear   Interpolation = "bilinear"
	CatmullRom Interpolation = "catmullrom"
)

func (i Interpolation) Interpolator() (draw.Interpolator, error) {
	switch i {
	case Nearest, "":
		return draw.NearestNeighbor, nil
	case Bilinear:
		return draw.BiLinear, nil
	case CatmullRom:
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInterpolation, string(i))
}

// Style holds everything that is constant across the frames of one
// animation.
type Style struct {
	Scale     float64
	Axis      int
	ShowAxes  bool
	Title     string
	Labels    LabelMode
	MarkSize  float64 // marker area in pt²
	MarkAlpha float64
	Min, Max  float64
	Interp    Interpolation
}

type Renderer struct {
	style   Style
	palette color.Palette
	scaler  draw.Interpolator
}

func New(style Style) (*Renderer, error) {
	if !(style.Scale > 0) || math.IsInf(style.Scale, 0) {
		return nil, fmt.Errorf("%w: scale %v", ErrStyle, style.Scale)
	}
	if !(style.MarkAlpha >= 0 && style.MarkAlpha <= 1) {
		return nil, fmt.Errorf("%w: mark alpha %v", ErrStyle, style.MarkAlpha)
	}
	if style.Axis < 0 || style.Axis >= volume.NDim {
		return nil, fmt.Errorf("%w: axis %d", ErrStyle, style.Axis)
	}
	scaler, err := style.Interp.Interpolator()
	if err != nil {
		return nil, err
	}
	return &Renderer{style: style, palette: newPalette(style.MarkAlpha), scaler: scaler}, nil
}

func (r *Renderer) Style() Style { return r.style }

// Bounds returns the image rectangle for a rows x cols plane and the plot
// area inside it that the plane is drawn into.
func (r *Renderer) Bounds(rows, cols int) (fig, plot image.Rectangle) {
	fh := max(1, int(math.Round(DPI*FigureInches*r.style.Scale)))
	fw := max(1, int(math.Round(float64(fh)*float64(cols)/float64(rows))))
	if !r.style.ShowAxes {
		fig = image.Rect(0, 0, fw, fh)
		return fig, fig
	}

	lines := len(r.titleLines(0))
	top := max(int(0.12*float64(fh)), lines*lineHeight+2*pad)
	bottom := max(int(0.11*float64(fh)), lineHeight+2*pad)
	left := max(int(0.125*float64(fw)), glyphWidth+3*pad)
	right := max(int(0.1*float64(fw)), pad)
	fw = max(fw, left+right+minPlot)
	fh = max(fh, top+bottom+minPlot)
	fig = image.Rect(0, 0, fw, fh)

	box := image.Rect(left, top, fw-right, fh-bottom)
	bw, bh := box.Dx(), box.Dy()
	iw, ih := bw, int(math.Round(float64(bw)*float64(rows)/float64(cols)))
	if ih > bh {
		ih = bh
		iw = int(math.Round(float64(bh) * float64(cols) / float64(rows)))
	}
	iw, ih = max(1, iw), max(1, ih)
	x0 := box.Min.X + (bw-iw)/2
	y0 := box.Min.Y + (bh-ih)/2
	return fig, image.Rect(x0, y0, x0+iw, y0+ih)
}

// MarkRadius is the on-image marker radius in pixels.
func (r *Renderer) MarkRadius() float64 {
	if r.style.MarkSize <= 0 {
		return 0
	}
	return math.Sqrt(r.style.MarkSize) / 2 * DPI / pointsPerIn
}

func (r *Renderer) Render(f frames.Frame) (*image.Paletted, error) {
	p := f.Image
	if p == nil {
		return nil, fmt.Errorf("%w: frame %d has no image", ErrMalformedFrame, f.Index)
	}
	if p.Rows <= 0 || p.Cols <= 0 || len(p.Data) != p.Rows*p.Cols {
		return nil, fmt.Errorf("%w: frame %d is %dx%d with %d values", ErrMalformedFrame, f.Index, p.Rows, p.Cols, len(p.Data))
	}

	fig, plot := r.Bounds(p.Rows, p.Cols)

	src := image.NewGray(image.Rect(0, 0, p.Cols, p.Rows))
	for i, v := range p.Data {
		src.Pix[i] = level(v, r.style.Min, r.style.Max)
	}
	scaled := image.NewGray(image.Rect(0, 0, plot.Dx(), plot.Dy()))
	r.scaler.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	dst := image.NewPaletted(fig, r.palette)
	for i := range dst.Pix {
		dst.Pix[i] = white
	}
	for y := 0; y < plot.Dy(); y++ {
		row := scaled.Pix[y*scaled.Stride : y*scaled.Stride+plot.Dx()]
		off := dst.PixOffset(plot.Min.X, plot.Min.Y+y)
		for x, g := range row {
			dst.Pix[off+x] = grayIndex(g)
		}
	}

	r.drawMarks(dst, scaled, plot, p.Rows, p.Cols, f.Marks)
	if r.style.ShowAxes {
		r.decorate(dst, plot, f.Slice)
	}
	return dst, nil
}

// drawMarks paints a filled disc centred on each marked voxel, clipped to
// the plot area.
func (r *Renderer) drawMarks(dst *image.Paletted, under *image.Gray, plot image.Rectangle, rows, cols int, marks []markers.Point) {
	rad := r.MarkRadius()
	if rad <= 0 || len(marks) == 0 {
		return
	}
	sx := float64(plot.Dx()) / float64(cols)
	sy := float64(plot.Dy()) / float64(rows)
	for _, m := range marks {
		if math.IsNaN(m.Row) || math.IsNaN(m.Col) {
			continue
		}
		cx := float64(plot.Min.X) + (m.Col+0.5)*sx
		cy := float64(plot.Min.Y) + (m.Row+0.5)*sy
		area := image.Rect(
			int(math.Floor(cx-rad)), int(math.Floor(cy-rad)),
			int(math.Ceil(cx+rad))+1, int(math.Ceil(cy+rad))+1,
		).Intersect(plot)
		for y := area.Min.Y; y < area.Max.Y; y++ {
			dy := float64(y) + 0.5 - cy
			for x := area.Min.X; x < area.Max.X; x++ {
				dx := float64(x) + 0.5 - cx
				if dx*dx+dy*dy > rad*rad {
					continue
				}
				g := under.Pix[(y-plot.Min.Y)*under.Stride+(x-plot.Min.X)]
				dst.Pix[dst.PixOffset(x, y)] = markIndex(g)
			}
		}
	}
}
