package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/png"
	"io"
	"math"
	"strings"
)

const captionHeight = 20

// ContactSheet writes an SVG grid with every frame embedded as a PNG and
// its caption underneath. columns <= 0 picks a near-square grid.
func ContactSheet(w io.Writer, frames []*image.Paletted, captions []string, columns int) error {
	if len(frames) == 0 {
		return ErrEmptyClip
	}
	if columns <= 0 {
		columns = int(math.Ceil(math.Sqrt(float64(len(frames)))))
	}
	rows := (len(frames) + columns - 1) / columns

	cell := frames[0].Bounds().Size()
	cellH := cell.Y + captionHeight
	width := columns * cell.X
	height := rows * cellH

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g font-family="monospace" font-size="12" text-anchor="middle">
`, width, height, width, height))

	var buf bytes.Buffer
	for i, frame := range frames {
		buf.Reset()
		if err := png.Encode(&buf, frame); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		x := (i % columns) * cell.X
		y := (i / columns) * cellH
		size := frame.Bounds().Size()

		sb.WriteString(fmt.Sprintf(`<image x="%d" y="%d" width="%d" height="%d" href="data:image/png;base64,%s"/>
`, x, y, size.X, size.Y, base64.StdEncoding.EncodeToString(buf.Bytes())))

		if i < len(captions) && captions[i] != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d">%s</text>
`, x+cell.X/2, y+cell.Y+captionHeight-6, html.EscapeString(captions[i])))
		}
	}

	sb.WriteString("</g>\n</svg>")
	_, err := io.WriteString(w, sb.String())
	return err
}
