package animator_test

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/export"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/render"
	"github.com/san-kum/voxanim/internal/slicer"
	"github.com/san-kum/voxanim/internal/volume"
)

type recordingExporter struct {
	calls int
	paths []string
	clips []export.Clip
	err   error
}

func (e *recordingExporter) Export(_ context.Context, path string, clip export.Clip) ([]string, error) {
	e.calls++
	e.paths = append(e.paths, path)
	e.clips = append(e.clips, clip)
	if e.err != nil {
		return nil, e.err
	}
	return []string{path}, nil
}

type recordingDisplay struct {
	shown int
	err   error
}

// Show renders every frame the way an interactive viewer would.
func (d *recordingDisplay) Show(_ context.Context, a *animator.Animation) error {
	d.shown++
	for i := 0; i < a.Len(); i++ {
		if _, err := a.Image(i); err != nil {
			return err
		}
	}
	return d.err
}

// quietDisplay turns progress off before rendering, like the terminal viewer.
type quietDisplay struct {
	recordingDisplay
}

func (d *quietDisplay) Show(ctx context.Context, a *animator.Animation) error {
	a.SetProgress(nil)
	return d.recordingDisplay.Show(ctx, a)
}

type progressLog [][2]int

func (p *progressLog) record(rendered, total int) {
	*p = append(*p, [2]int{rendered, total})
}

func ramp(d0, d1, d2 int) *volume.Volume {
	v := volume.Zeros(d0, d1, d2)
	for i := range v.Data {
		v.Data[i] = float64(i % 7)
	}
	return v
}

func small(opts animator.Options) animator.Options {
	opts.Scale = 0.1
	return opts
}

var _ = Describe("Visualize", func() {
	var (
		ctx      context.Context
		vol      *volume.Volume
		opts     animator.Options
		exporter *recordingExporter
		display  *recordingDisplay
		progress progressLog
	)

	BeforeEach(func() {
		ctx = context.Background()
		vol = ramp(10, 4, 4)
		opts = small(animator.DefaultOptions())
		exporter = &recordingExporter{}
		display = &recordingDisplay{}
		progress = nil
	})

	Context("with neither an output file nor a display", func() {
		It("fails with a configuration error before doing any work", func() {
			anim, err := animator.Visualize(ctx, vol, opts, animator.Host{
				Exporter: exporter,
				Progress: progress.record,
			})

			Expect(anim).To(BeNil())
			Expect(err).To(MatchError(animator.ErrConfiguration))
			Expect(err).To(MatchError(animator.ErrNoDestination))

			var cfg *animator.ConfigurationError
			Expect(errors.As(err, &cfg)).To(BeTrue())
			Expect(cfg.Option).To(Equal("output"))

			Expect(exporter.calls).To(BeZero())
			Expect(progress).To(BeEmpty())
		})
	})

	Context("exporting five evenly spaced slices with two marks", func() {
		BeforeEach(func() {
			opts.Output = "out.gif"
			opts.Slices = slicer.Count(5)
			opts.Marks = []markers.Marker{{1, 0, 0}, {8, 0, 0}}
		})

		It("renders frames for slices 0, 2, 4, 6 and 9", func() {
			anim, err := animator.Visualize(ctx, vol, opts, animator.Host{
				Exporter: exporter,
				Progress: progress.record,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(anim).To(BeNil())
			Expect(exporter.calls).To(Equal(1))
			Expect(exporter.paths).To(Equal([]string{"out.gif"}))

			clip := exporter.clips[0]
			Expect(clip.Slices).To(Equal([]int{0, 2, 4, 6, 9}))
			Expect(clip.Frames).To(HaveLen(5))
			Expect(clip.Captions[4]).To(Equal("Axis 0: Slice 9"))
			Expect(clip.FPS).To(Equal(10.0))
			Expect(clip.Loop).To(BeTrue())

			Expect(progress).To(Equal(progressLog{{1, 5}, {2, 5}, {3, 5}, {4, 5}, {5, 5}}))
		})

		It("puts the marks on the first and last frame only", func() {
			anim, err := animator.Visualize(ctx, vol, opts, animator.Host{
				CanDisplay: true,
				Exporter:   exporter,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(anim).NotTo(BeNil())

			for i := 0; i < anim.Len(); i++ {
				f, err := anim.Frame(i)
				Expect(err).NotTo(HaveOccurred())
				switch i {
				case 0, 4:
					Expect(f.Marks).To(Equal([]markers.Point{{Row: 0, Col: 0}}))
				default:
					Expect(f.Marks).To(BeEmpty())
				}
			}
		})

		It("restarts progress for the display pass", func() {
			_, err := animator.Visualize(ctx, vol, opts, animator.Host{
				CanDisplay: true,
				Display:    display,
				Exporter:   exporter,
				Progress:   progress.record,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(display.shown).To(Equal(1))
			Expect(progress).To(HaveLen(10))
			Expect(progress[4]).To(Equal([2]int{5, 5}))
			Expect(progress[5]).To(Equal([2]int{1, 5}))
			Expect(progress[9]).To(Equal([2]int{5, 5}))
		})

		It("keeps export progress when the display silences it", func() {
			quiet := &quietDisplay{}
			_, err := animator.Visualize(ctx, vol, opts, animator.Host{
				CanDisplay: true,
				Display:    quiet,
				Exporter:   exporter,
				Progress:   progress.record,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(quiet.shown).To(Equal(1))
			Expect(progress).To(Equal(progressLog{{1, 5}, {2, 5}, {3, 5}, {4, 5}, {5, 5}}))
		})
	})

	It("deduplicates explicit slices in order", func() {
		opts.Slices = slicer.Explicit(3, 3, 5)
		anim, err := animator.Visualize(ctx, vol, opts, animator.Host{CanDisplay: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Slices()).To(Equal([]int{3, 5}))
		Expect(anim.Len()).To(Equal(2))
	})

	It("returns a handle without rendering when no display is attached", func() {
		anim, err := animator.Visualize(ctx, vol, opts, animator.Host{
			CanDisplay: true,
			Progress:   progress.record,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Len()).To(Equal(10))
		Expect(progress).To(BeEmpty())

		_, err = anim.Image(3)
		Expect(err).NotTo(HaveOccurred())
		_, err = anim.Image(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(progress).To(Equal(progressLog{{1, 10}}))
		Expect(anim.Rendered()).To(Equal(1))
	})

	It("generates the same frames in any order", func() {
		opts.Marks = []markers.Marker{{2, 1, 1}, {7, 3, 2}}
		anim, err := animator.Visualize(ctx, vol, opts, animator.Host{CanDisplay: true})
		Expect(err).NotTo(HaveOccurred())

		forward := make([]interface{}, anim.Len())
		for i := range forward {
			f, err := anim.Frame(i)
			Expect(err).NotTo(HaveOccurred())
			forward[i] = f
		}
		for i := anim.Len() - 1; i >= 0; i-- {
			f, err := anim.Frame(i)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(forward[i]))
		}
	})

	It("encodes the handle as a GIF", func() {
		opts.Slices = slicer.Count(4)
		opts.FPS = 4
		anim, err := animator.Visualize(ctx, vol, opts, animator.Host{CanDisplay: true})
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(anim.EncodeGIF(&buf)).To(Succeed())
		g, err := gif.DecodeAll(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Image).To(HaveLen(4))
		Expect(g.Delay).To(HaveEach(25))
	})

	Describe("errors", func() {
		It("rejects an axis outside the volume", func() {
			opts.Axis = 3
			_, err := animator.Visualize(ctx, vol, opts, animator.Host{CanDisplay: true})
			Expect(err).To(MatchError(animator.ErrInvalidAxis))
		})

		It("rejects explicit slices outside the axis", func() {
			opts.Slices = slicer.Explicit(2, 10)
			_, err := animator.Visualize(ctx, vol, opts, animator.Host{CanDisplay: true})
			Expect(err).To(MatchError(animator.ErrInvalidAxis))
			Expect(err).To(MatchError(slicer.ErrIndexOutOfRange))
		})

		DescribeTable("rejects bad options",
			func(mutate func(*animator.Options), option string) {
				mutate(&opts)
				_, err := animator.Visualize(ctx, vol, opts, animator.Host{
					CanDisplay: true,
					Display:    display,
					Progress:   progress.record,
				})
				var cfg *animator.ConfigurationError
				Expect(errors.As(err, &cfg)).To(BeTrue())
				Expect(cfg.Option).To(Equal(option))
				Expect(display.shown).To(BeZero())
				Expect(progress).To(BeEmpty())
			},
			Entry("zero scale", func(o *animator.Options) { o.Scale = 0 }, "scale"),
			Entry("negative fps", func(o *animator.Options) { o.FPS = -1 }, "fps"),
			Entry("negative count", func(o *animator.Options) { o.Slices = slicer.Count(-2) }, "slices"),
			Entry("alpha above one", func(o *animator.Options) { o.MarkAlpha = 2 }, "markalpha"),
			Entry("min above max", func(o *animator.Options) {
				lo, hi := 5.0, 1.0
				o.Min, o.Max = &lo, &hi
			}, "min"),
			Entry("unknown interpolation", func(o *animator.Options) { o.Interpolation = "lanczos" }, "interpolation"),
		)

		It("rejects an unsupported output format before rendering", func() {
			dir, err := os.MkdirTemp("", "voxanim")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)

			opts.Output = filepath.Join(dir, "out.mp4")
			_, err = animator.Visualize(ctx, vol, opts, animator.Host{
				Exporter: export.Writer{},
				Progress: progress.record,
			})
			Expect(err).To(MatchError(animator.ErrConfiguration))
			Expect(err).To(MatchError(export.ErrUnsupportedFormat))
			Expect(progress).To(BeEmpty())
			Expect(filepath.Join(dir, "out.mp4")).NotTo(BeAnExistingFile())
		})

		It("still displays after an export failure", func() {
			exporter.err = errors.New("disk full")
			opts.Output = "out.gif"
			anim, err := animator.Visualize(ctx, vol, opts, animator.Host{
				CanDisplay: true,
				Display:    display,
				Exporter:   exporter,
			})
			Expect(anim).NotTo(BeNil())
			Expect(display.shown).To(Equal(1))
			Expect(err).To(MatchError(animator.ErrExport))

			var exp *animator.ExportError
			Expect(errors.As(err, &exp)).To(BeTrue())
			Expect(exp.Path).To(Equal("out.gif"))
		})

		It("joins display and export failures", func() {
			exporter.err = errors.New("disk full")
			display.err = errors.New("terminal gone")
			opts.Output = "out.gif"
			_, err := animator.Visualize(ctx, vol, opts, animator.Host{
				CanDisplay: true,
				Display:    display,
				Exporter:   exporter,
			})
			Expect(err).To(MatchError(animator.ErrExport))
			Expect(err).To(MatchError(display.err))
		})

		It("stops on a canceled context", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			opts.Output = "out.gif"
			_, err := animator.Visualize(canceled, vol, opts, animator.Host{Exporter: exporter})
			Expect(err).To(MatchError(context.Canceled))
			Expect(exporter.calls).To(BeZero())
		})

		It("reports a frame that cannot be rendered", func() {
			flat := volume.Zeros(10, 0, 4)
			opts.Output = "out.gif"
			anim, err := animator.Visualize(ctx, flat, opts, animator.Host{
				CanDisplay: true,
				Display:    display,
				Exporter:   exporter,
			})
			Expect(err).To(MatchError(animator.ErrRender))
			Expect(err).To(MatchError(render.ErrMalformedFrame))
			var re *animator.RenderError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Frame).To(Equal(0))
			Expect(re.Slice).To(Equal(0))
			Expect(anim).To(BeNil())
			Expect(exporter.calls).To(BeZero())
			Expect(display.shown).To(BeZero())
		})
	})
})

var _ = Describe("error types", func() {
	It("matches render errors by sentinel and cause", func() {
		cause := errors.New("boom")
		err := error(&animator.RenderError{Frame: 2, Slice: 7, Wrapped: cause})
		Expect(err).To(MatchError(animator.ErrRender))
		Expect(err).To(MatchError(cause))
		Expect(err.Error()).To(ContainSubstring("slice 7"))
	})
})
