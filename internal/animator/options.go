package animator

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/slicer"
	"github.com/san-kum/voxanim/internal/volume"
)

// Options configures one animation. Min and Max default to the data range
// when nil.
type Options struct {
	Output        string
	Title         string
	Scale         float64
	Slices        slicer.Spec
	FPS           float64
	Axis          int
	Marks         []markers.Marker
	MarkSize      float64
	MarkAlpha     float64
	Labels        render.LabelMode
	ShowAxes      bool
	Min, Max      *float64
	Loop          bool
	Interpolation render.Interpolation
}

func DefaultOptions() Options {
	return Options{
		Scale:         1,
		Slices:        slicer.Count(slicer.DefaultCount),
		FPS:           10,
		Axis:          0,
		MarkSize:      75,
		MarkAlpha:     1,
		Labels:        render.LabelsDefault,
		ShowAxes:      true,
		Loop:          true,
		Interpolation: render.Nearest,
	}
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Validate checks option values that do not depend on the volume.
func (o Options) Validate() error {
	switch {
	case o.Axis < 0 || o.Axis >= volume.NDim:
		return fmt.Errorf("%w: %d (volume has %d axes)", ErrInvalidAxis, o.Axis, volume.NDim)
	case !finite(o.Scale) || o.Scale <= 0:
		return configErr("scale", fmt.Errorf("must be positive, got %v", o.Scale))
	case !finite(o.FPS) || o.FPS <= 0:
		return configErr("fps", fmt.Errorf("must be positive, got %v", o.FPS))
	case !o.Slices.IsExplicit() && o.Slices.Count < 0:
		return configErr("slices", slicer.ErrNegativeCount)
	case !finite(o.MarkSize) || o.MarkSize < 0:
		return configErr("marksize", fmt.Errorf("must not be negative, got %v", o.MarkSize))
	case !(o.MarkAlpha >= 0 && o.MarkAlpha <= 1):
		return configErr("markalpha", fmt.Errorf("must be in [0, 1], got %v", o.MarkAlpha))
	case o.Min != nil && !finite(*o.Min):
		return configErr("min", fmt.Errorf("must be finite, got %v", *o.Min))
	case o.Max != nil && !finite(*o.Max):
		return configErr("max", fmt.Errorf("must be finite, got %v", *o.Max))
	case o.Min != nil && o.Max != nil && *o.Min > *o.Max:
		return configErr("min", fmt.Errorf("%v is above max %v", *o.Min, *o.Max))
	}
	if _, err := o.Interpolation.Interpolator(); err != nil {
		return configErr("interpolation", err)
	}
	return nil
}

// intensityRange resolves Min and Max against the volume.
func (o Options) intensityRange(vol *volume.Volume) (lo, hi float64, err error) {
	lo, hi = vol.Range()
	if o.Min != nil {
		lo = *o.Min
	}
	if o.Max != nil {
		hi = *o.Max
	}
	if lo > hi {
		return 0, 0, configErr("min", fmt.Errorf("%v is above data maximum %v", lo, hi))
	}
	return lo, hi, nil
}

func (o Options) style(lo, hi float64) render.Style {
	return render.Style{
		Scale:     o.Scale,
		Axis:      o.Axis,
		ShowAxes:  o.ShowAxes,
		Title:     o.Title,
		Labels:    o.Labels,
		MarkSize:  o.MarkSize,
		MarkAlpha: o.MarkAlpha,
		Min:       lo,
		Max:       hi,
		Interp:    o.Interpolation,
	}
}

// selectSlices maps selection failures onto the animator's errors.
func (o Options) selectSlices(extent int) (slicer.Selection, error) {
	sel, err := slicer.Select(extent, o.Slices)
	switch {
	case errors.Is(err, slicer.ErrIndexOutOfRange):
		return nil, fmt.Errorf("%w: %w", ErrInvalidAxis, err)
	case err != nil:
		return nil, configErr("slices", err)
	}
	return sel, nil
}
