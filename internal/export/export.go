// Package export writes rendered animations to disk. The format follows the
// destination's extension.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

type Format string

const (
	GIF Format = ".gif"
	PNG Format = ".png"
	SVG Format = ".svg"
)

var (
	ErrUnsupportedFormat = errors.New("export: unsupported output format")
	ErrEmptyClip         = errors.New("export: no frames to write")
)

// FormatOf picks the output format from the file extension.
func FormatOf(path string) (Format, error) {
	switch f := Format(strings.ToLower(filepath.Ext(path))); f {
	case GIF, PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Clip is a fully rendered animation ready to be written.
type Clip struct {
	Frames   []*image.Paletted
	Slices   []int
	Captions []string
	FPS      float64
	Loop     bool
}

// Writer exports clips to files. It is the default exporter of the CLI.
type Writer struct {
	Logger *slog.Logger
}

func (w Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// CheckDestination rejects paths whose format cannot be written.
func (w Writer) CheckDestination(path string) error {
	_, err := FormatOf(path)
	return err
}

// Export writes clip to path and returns the files it created.
func (w Writer) Export(ctx context.Context, path string, clip Clip) ([]string, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if len(clip.Frames) == 0 {
		return nil, ErrEmptyClip
	}

	var files []string
	switch format {
	case GIF:
		err = writeFile(path, func(f *os.File) error { return EncodeGIF(f, clip.Frames, clip.FPS, clip.Loop) })
		files = []string{path}
	case PNG:
		files, err = WritePNGSequence(ctx, path, clip.Frames)
	case SVG:
		err = writeFile(path, func(f *os.File) error { return ContactSheet(f, clip.Frames, clip.Captions, 0) })
		files = []string{path}
	}
	if err != nil {
		return files, err
	}

	var total uint64
	for _, name := range files {
		if fi, err := os.Stat(name); err == nil {
			total += uint64(fi.Size())
		}
	}
	w.logger().Info("animation written",
		"path", path,
		"frames", len(clip.Frames),
		"files", len(files),
		"size", humanize.Bytes(total))
	return files, nil
}

func writeFile(path string, fn func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
