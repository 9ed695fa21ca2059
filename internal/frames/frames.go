// Package frames turns a slice selection into the ordered frames of an
// animation.
package frames

import (
	"errors"
	"fmt"

	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/volume"
)

var ErrFrameIndex = errors.New("frames: frame index out of range")

// Frame is one step of an animation: the plane at Slice along the sequence
// axis plus the markers bound to it.
type Frame struct {
	Index int
	Slice int
	Image *volume.Plane
	Marks []markers.Point
}

// Sequence produces frames on demand. Frames do not share state, so they can
// be generated in any order.
type Sequence struct {
	vol     *volume.Volume
	axis    int
	sel     []int
	binding markers.Binding
}

func NewSequence(vol *volume.Volume, axis int, sel []int, binding markers.Binding) *Sequence {
	return &Sequence{vol: vol, axis: axis, sel: sel, binding: binding}
}

func (s *Sequence) Len() int { return len(s.sel) }

func (s *Sequence) Axis() int { return s.axis }

// Slices returns the slice index of every frame, in frame order.
func (s *Sequence) Slices() []int {
	out := make([]int, len(s.sel))
	copy(out, s.sel)
	return out
}

// At builds frame i.
func (s *Sequence) At(i int) (Frame, error) {
	if i < 0 || i >= len(s.sel) {
		return Frame{}, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(s.sel))
	}
	slice := s.sel[i]
	plane, err := s.vol.Slice(s.axis, slice)
	if err != nil {
		return Frame{}, err
	}
	var marks []markers.Point
	if pts := s.binding.On(slice); len(pts) > 0 {
		marks = make([]markers.Point, len(pts))
		copy(marks, pts)
	}
	return Frame{Index: i, Slice: slice, Image: plane, Marks: marks}, nil
}

// Each calls fn for every frame in order and stops at the first error.
func (s *Sequence) Each(fn func(Frame) error) error {
	for i := range s.sel {
		f, err := s.At(i)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) Collect() ([]Frame, error) {
	out := make([]Frame, 0, len(s.sel))
	err := s.Each(func(f Frame) error {
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
