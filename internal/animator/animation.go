package animator

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/san-kum/voxanim/internal/export"
	"github.com/san-kum/voxanim/internal/frames"
	"github.com/san-kum/voxanim/internal/render"
)

// Animation is the handle returned to interactive hosts. Frames are rendered
// on first use and cached.
type Animation struct {
	seq      *frames.Sequence
	renderer *render.Renderer
	fps      float64
	loop     bool
	lo, hi   float64
	progress ProgressFunc

	mu       sync.Mutex
	cache    []*image.Paletted
	seen     []bool
	rendered int
	files    []string
}

func newAnimation(seq *frames.Sequence, r *render.Renderer, opts Options, lo, hi float64, progress ProgressFunc) *Animation {
	return &Animation{
		seq:      seq,
		renderer: r,
		fps:      opts.FPS,
		loop:     opts.Loop,
		lo:       lo,
		hi:       hi,
		progress: progress,
		cache:    make([]*image.Paletted, seq.Len()),
		seen:     make([]bool, seq.Len()),
	}
}

func (a *Animation) Len() int { return a.seq.Len() }

func (a *Animation) FPS() float64 { return a.fps }

func (a *Animation) Loop() bool { return a.loop }

func (a *Animation) Axis() int { return a.seq.Axis() }

func (a *Animation) Slices() []int { return a.seq.Slices() }

// Range is the intensity window frames are normalized to.
func (a *Animation) Range() (lo, hi float64) { return a.lo, a.hi }

func (a *Animation) Style() render.Style { return a.renderer.Style() }

// Files lists what the export pass wrote, if anything.
func (a *Animation) Files() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.files...)
}

func (a *Animation) Caption(i int) string {
	slices := a.seq.Slices()
	if i < 0 || i >= len(slices) {
		return ""
	}
	s := a.renderer.Style()
	return render.Caption(s.Labels, s.Axis, slices[i])
}

func (a *Animation) Frame(i int) (frames.Frame, error) {
	return a.seq.At(i)
}

// Image returns the rendered frame i. The progress callback fires the first
// time a frame is produced after the last reset.
func (a *Animation) Image(i int) (*image.Paletted, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.image(i)
}

func (a *Animation) image(i int) (*image.Paletted, error) {
	f, err := a.seq.At(i)
	if err != nil {
		return nil, &RenderError{Frame: i, Slice: -1, Wrapped: err}
	}
	img := a.cache[i]
	if img == nil {
		img, err = a.renderer.Render(f)
		if err != nil {
			return nil, &RenderError{Frame: i, Slice: f.Slice, Wrapped: err}
		}
		a.cache[i] = img
	}
	if !a.seen[i] {
		a.seen[i] = true
		a.rendered++
		if a.progress != nil {
			a.progress(a.rendered, len(a.seen))
		}
	}
	return img, nil
}

// SetProgress replaces the progress callback for frames rendered from now
// on. A nil fn silences progress.
func (a *Animation) SetProgress(fn ProgressFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress = fn
}

// Rendered reports how many frames were produced since the last reset.
func (a *Animation) Rendered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rendered
}

func (a *Animation) resetProgress() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.seen {
		a.seen[i] = false
	}
	a.rendered = 0
}

// Images renders every frame in order.
func (a *Animation) Images(ctx context.Context) ([]*image.Paletted, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*image.Paletted, a.seq.Len())
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := a.image(i)
		if err != nil {
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}

// Clip bundles the rendered frames for an exporter.
func (a *Animation) Clip(ctx context.Context) (export.Clip, error) {
	imgs, err := a.Images(ctx)
	if err != nil {
		return export.Clip{}, err
	}
	captions := make([]string, a.Len())
	for i := range captions {
		captions[i] = a.Caption(i)
	}
	return export.Clip{
		Frames:   imgs,
		Slices:   a.Slices(),
		Captions: captions,
		FPS:      a.fps,
		Loop:     a.loop,
	}, nil
}

func (a *Animation) EncodeGIF(w io.Writer) error {
	imgs, err := a.Images(context.Background())
	if err != nil {
		return err
	}
	return export.EncodeGIF(w, imgs, a.fps, a.loop)
}
