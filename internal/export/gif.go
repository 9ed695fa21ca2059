package export

import (
	"image"
	"image/gif"
	"io"
	"math"
)

// Delay converts a frame rate to a GIF frame delay in hundredths of a second.
func Delay(fps float64) int {
	if fps <= 0 {
		return 0
	}
	return max(1, int(math.Round(100/fps)))
}

// EncodeGIF writes frames as an animated GIF. With loop set the animation
// repeats forever, otherwise it plays once.
func EncodeGIF(w io.Writer, frames []*image.Paletted, fps float64, loop bool) error {
	if len(frames) == 0 {
		return ErrEmptyClip
	}
	anim := gif.GIF{LoopCount: 0}
	if !loop {
		anim.LoopCount = -1
	}
	delay := Delay(fps)
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
