package manifest

import (
	"context"
	"os"
	"time"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/export"
	"github.com/san-kum/voxanim/internal/markers"
)

// Recorder wraps an exporter and remembers the last clip it wrote, so a
// run can be recorded once Visualize returns.
type Recorder struct {
	Next animator.Exporter

	path  string
	clip  export.Clip
	files []string
}

func (r *Recorder) CheckDestination(path string) error {
	if c, ok := r.Next.(animator.DestinationChecker); ok {
		return c.CheckDestination(path)
	}
	return nil
}

func (r *Recorder) Export(ctx context.Context, path string, clip export.Clip) ([]string, error) {
	files, err := r.Next.Export(ctx, path, clip)
	if err != nil {
		return nil, err
	}
	r.path, r.clip, r.files = path, clip, files
	return files, nil
}

// Exported reports whether a clip was written.
func (r *Recorder) Exported() bool { return r.path != "" }

// Record describes the last export. Markers are rebound to the exported
// slices so marks.csv matches what the frames show.
func (r *Recorder) Record(source string, shape [3]int, opts animator.Options) (Record, markers.Binding, error) {
	rec := Record{
		Source:    source,
		Output:    r.path,
		Files:     append([]string(nil), r.files...),
		Timestamp: time.Now(),
		Shape:     shape,
		Axis:      opts.Axis,
		Slices:    append([]int(nil), r.clip.Slices...),
		FPS:       r.clip.FPS,
		Loop:      r.clip.Loop,
		Frames:    len(r.clip.Frames),
	}
	for _, f := range rec.Files {
		if fi, err := os.Stat(f); err == nil {
			rec.Bytes += uint64(fi.Size())
		}
	}
	binding, err := markers.Bind(rec.Slices, opts.Marks, opts.Axis)
	if err != nil {
		return rec, nil, err
	}
	rec.Marks = binding.Count()
	return rec, binding, nil
}
