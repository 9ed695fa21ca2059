package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testFrames(n int) []*image.Paletted {
	pal := color.Palette{color.Black, color.White}
	out := make([]*image.Paletted, n)
	for i := range out {
		img := image.NewPaletted(image.Rect(0, 0, 6, 4), pal)
		img.SetColorIndex(i%6, 0, 1)
		out[i] = img
	}
	return out
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"out.gif", GIF},
		{"dir/Out.GIF", GIF},
		{"frames.png", PNG},
		{"sheet.svg", SVG},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.expected {
			t.Errorf("%s: expected %s, got %s (%v)", tt.path, tt.expected, got, err)
		}
	}
	for _, bad := range []string{"out.mp4", "noext", "archive.gif.zip"} {
		if _, err := FormatOf(bad); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", bad, err)
		}
	}
}

func TestDelay(t *testing.T) {
	tests := []struct {
		fps      float64
		expected int
	}{
		{10, 10},
		{4, 25},
		{3, 33},
		{30, 3},
		{1000, 1},
	}
	for _, tt := range tests {
		if got := Delay(tt.fps); got != tt.expected {
			t.Errorf("fps %v: expected %d, got %d", tt.fps, tt.expected, got)
		}
	}
}

func TestEncodeGIF(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, testFrames(5), 10, true); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 5 {
		t.Errorf("expected 5 frames, got %d", len(g.Image))
	}
	for i, d := range g.Delay {
		if d != 10 {
			t.Errorf("frame %d: expected delay 10, got %d", i, d)
		}
	}
	if g.LoopCount != 0 {
		t.Errorf("expected infinite loop, got %d", g.LoopCount)
	}

	buf.Reset()
	if err := EncodeGIF(&buf, testFrames(2), 5, false); err != nil {
		t.Fatal(err)
	}
	g, _ = gif.DecodeAll(&buf)
	if g.LoopCount != -1 {
		t.Errorf("expected single play, got loop count %d", g.LoopCount)
	}

	if err := EncodeGIF(&buf, nil, 10, true); !errors.Is(err, ErrEmptyClip) {
		t.Errorf("expected ErrEmptyClip, got %v", err)
	}
}

func TestWriterFormats(t *testing.T) {
	dir := t.TempDir()
	clip := Clip{
		Frames:   testFrames(3),
		Slices:   []int{0, 4, 9},
		Captions: []string{"Axis 0: Slice 0", "Axis 0: Slice 4", "Axis 0: Slice 9"},
		FPS:      10,
		Loop:     true,
	}
	w := Writer{}

	files, err := w.Export(context.Background(), filepath.Join(dir, "a.gif"), clip)
	if err != nil || len(files) != 1 {
		t.Fatalf("gif: %v %v", files, err)
	}

	files, err = w.Export(context.Background(), filepath.Join(dir, "seq.png"), clip)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 || filepath.Base(files[2]) != "seq_002.png" {
		t.Errorf("unexpected png files %v", files)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Error(err)
		}
	}

	if _, err := w.Export(context.Background(), filepath.Join(dir, "sheet.svg"), clip); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "sheet.svg"))
	if n := strings.Count(string(data), "<image "); n != 3 {
		t.Errorf("expected 3 embedded frames, got %d", n)
	}
	if !strings.Contains(string(data), "Axis 0: Slice 9") {
		t.Error("expected captions in contact sheet")
	}

	if _, err := w.Export(context.Background(), filepath.Join(dir, "x.avi"), clip); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.avi")); !os.IsNotExist(err) {
		t.Error("unsupported export should not create a file")
	}
}

func TestPNGSequenceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files, err := WritePNGSequence(ctx, filepath.Join(t.TempDir(), "f.png"), testFrames(2))
	if !errors.Is(err, context.Canceled) || len(files) != 0 {
		t.Errorf("expected cancellation before any file, got %v %v", files, err)
	}
}

func TestSequenceName(t *testing.T) {
	if got := SequenceName("out/run.png", 12); got != filepath.Join("out", "run_012.png") {
		t.Errorf("unexpected name %q", got)
	}
}
