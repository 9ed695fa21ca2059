// Package animator turns a 3D volume into an animation of 2D slices.
//
// [Visualize] runs one invocation end to end:
//
//	validate -> select slices -> bind markers -> export pass -> display pass
//
// The export pass renders every frame and hands the result to the host's
// [Exporter]. The display pass gives the lazily rendered [Animation] to the
// host's [Display]. Both passes report progress through the host's
// [ProgressFunc], restarting the count for each pass.
//
// Whether a display exists is decided by the caller through
// [Host.CanDisplay]; nothing here inspects the environment.
package animator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/voxanim/internal/export"
	"github.com/san-kum/voxanim/internal/frames"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/volume"
)

// ProgressFunc receives the number of frames rendered so far in the current
// pass and the pass total.
type ProgressFunc func(rendered, total int)

// Display shows an animation and returns when the viewer is closed.
type Display interface {
	Show(ctx context.Context, anim *Animation) error
}

// Exporter writes a rendered clip to path and returns the files created.
type Exporter interface {
	Export(ctx context.Context, path string, clip export.Clip) ([]string, error)
}

// DestinationChecker is implemented by exporters that can reject a path
// before anything is rendered.
type DestinationChecker interface {
	CheckDestination(path string) error
}

// Host carries the capabilities of the environment the animation runs in.
type Host struct {
	CanDisplay bool
	Display    Display
	Exporter   Exporter
	Progress   ProgressFunc
	Logger     *slog.Logger
}

func (h Host) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Visualize animates vol according to opts. The returned handle is non-nil
// only when the host can display. An export failure does not stop the
// display pass; it is returned afterwards, joined with any display error.
func Visualize(ctx context.Context, vol *volume.Volume, opts Options, host Host) (*Animation, error) {
	log := host.logger()

	if vol == nil {
		return nil, configErr("volume", errors.New("no volume given"))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	extent, err := vol.Extent(opts.Axis)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAxis, err)
	}
	if opts.Output == "" && !host.CanDisplay {
		return nil, configErr("output", ErrNoDestination)
	}
	if opts.Output != "" {
		if host.Exporter == nil {
			return nil, configErr("output", errors.New("no exporter available"))
		}
		if c, ok := host.Exporter.(DestinationChecker); ok {
			if err := c.CheckDestination(opts.Output); err != nil {
				return nil, configErr("output", err)
			}
		}
	}

	sel, err := opts.selectSlices(extent)
	if err != nil {
		return nil, err
	}
	binding, err := markers.Bind(sel, opts.Marks, opts.Axis)
	if err != nil {
		return nil, configErr("marks", err)
	}
	lo, hi, err := opts.intensityRange(vol)
	if err != nil {
		return nil, err
	}
	r, err := render.New(opts.style(lo, hi))
	if err != nil {
		return nil, configErr("style", err)
	}
	log.Debug("slices selected",
		"axis", opts.Axis,
		"extent", extent,
		"spec", opts.Slices.String(),
		"frames", len(sel),
		"marks", binding.Count())

	anim := newAnimation(frames.NewSequence(vol, opts.Axis, sel, binding), r, opts, lo, hi, host.Progress)

	var exportErr error
	if opts.Output != "" {
		anim.resetProgress()
		clip, err := anim.Clip(ctx)
		if err != nil {
			return nil, err
		}
		files, err := host.Exporter.Export(ctx, opts.Output, clip)
		if err != nil {
			exportErr = &ExportError{Path: opts.Output, Wrapped: err}
			log.Warn("export failed", "path", opts.Output, "err", err)
		}
		anim.mu.Lock()
		anim.files = files
		anim.mu.Unlock()
	}

	if !host.CanDisplay {
		return nil, exportErr
	}

	anim.resetProgress()
	if host.Display != nil {
		if err := host.Display.Show(ctx, anim); err != nil {
			return anim, errors.Join(exportErr, err)
		}
	}
	return anim, exportErr
}
