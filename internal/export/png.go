package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// SequenceName returns the file name of frame i for a sequence written to
// path: "out.png" becomes "out_000.png", "out_001.png" and so on.
func SequenceName(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

// WritePNGSequence writes one PNG per frame. Files written before a failure
// are left in place and returned.
func WritePNGSequence(ctx context.Context, path string, frames []*image.Paletted) ([]string, error) {
	files := make([]string, 0, len(frames))
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		name := SequenceName(path, i)
		if err := writeFile(name, func(f *os.File) error { return png.Encode(f, frame) }); err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}
