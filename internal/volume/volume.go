package volume

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const NDim = 3

var (
	ErrShape = errors.New("volume: data length does not match shape")
	ErrAxis  = errors.New("volume: axis out of range")
	ErrIndex = errors.New("volume: index out of range")
)

// Volume is a dense 3D array stored row-major (axis 0 varies slowest).
type Volume struct {
	Shape [NDim]int
	Data  []float64
}

// MaxVoxels bounds the element count of a volume.
const MaxVoxels = 1 << 30

// Voxels returns the element count of shape, rejecting negative extents and
// counts above MaxVoxels.
func Voxels(shape [NDim]int) (int, error) {
	n := 1
	for i, s := range shape {
		if s < 0 {
			return 0, fmt.Errorf("%w: negative extent %d on axis %d", ErrShape, s, i)
		}
		if s != 0 && n > MaxVoxels/s {
			return 0, fmt.Errorf("%w: shape %v exceeds %d voxels", ErrShape, shape, MaxVoxels)
		}
		n *= s
	}
	return n, nil
}

func New(shape [NDim]int, data []float64) (*Volume, error) {
	n, err := Voxels(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShape, shape, n, len(data))
	}
	return &Volume{Shape: shape, Data: data}, nil
}

func Zeros(d0, d1, d2 int) *Volume {
	return &Volume{Shape: [NDim]int{d0, d1, d2}, Data: make([]float64, d0*d1*d2)}
}

func (v *Volume) Len() int { return len(v.Data) }

func (v *Volume) offset(i, j, k int) int {
	return (i*v.Shape[1]+j)*v.Shape[2] + k
}

func (v *Volume) At(i, j, k int) float64 { return v.Data[v.offset(i, j, k)] }

func (v *Volume) Set(i, j, k int, val float64) { v.Data[v.offset(i, j, k)] = val }

// Extent returns the size of the volume along axis.
func (v *Volume) Extent(axis int) (int, error) {
	if axis < 0 || axis >= NDim {
		return 0, fmt.Errorf("%w: %d (volume has %d dimensions)", ErrAxis, axis, NDim)
	}
	return v.Shape[axis], nil
}

// DisplayAxes returns the two axes left after removing axis, lower one first.
// The lower axis maps to image rows.
func DisplayAxes(axis int) (rows, cols int) {
	rest := make([]int, 0, NDim-1)
	for d := 0; d < NDim; d++ {
		if d != axis {
			rest = append(rest, d)
		}
	}
	return rest[0], rest[1]
}

// Slice extracts the plane obtained by fixing axis at index.
func (v *Volume) Slice(axis, index int) (*Plane, error) {
	extent, err := v.Extent(axis)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= extent {
		return nil, fmt.Errorf("%w: %d not in [0, %d) on axis %d", ErrIndex, index, extent, axis)
	}
	ra, ca := DisplayAxes(axis)
	p := NewPlane(v.Shape[ra], v.Shape[ca])
	var idx [NDim]int
	idx[axis] = index
	for r := 0; r < p.Rows; r++ {
		idx[ra] = r
		for c := 0; c < p.Cols; c++ {
			idx[ca] = c
			p.Data[r*p.Cols+c] = v.At(idx[0], idx[1], idx[2])
		}
	}
	return p, nil
}

// Range returns the minimum and maximum, ignoring NaN. An empty or
// all-NaN volume reports (0, 0).
func (v *Volume) Range() (lo, hi float64) {
	vals := nonNaN(v.Data)
	if len(vals) == 0 {
		return 0, 0
	}
	return floats.Min(vals), floats.Max(vals)
}

// Plane is a 2D row-major cross-section of a Volume.
type Plane struct {
	Rows, Cols int
	Data       []float64
}

func NewPlane(rows, cols int) *Plane {
	return &Plane{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (p *Plane) At(r, c int) float64 { return p.Data[r*p.Cols+c] }

func (p *Plane) Clone() *Plane {
	c := &Plane{Rows: p.Rows, Cols: p.Cols, Data: make([]float64, len(p.Data))}
	copy(c.Data, p.Data)
	return c
}

func (p *Plane) Range() (lo, hi float64) {
	vals := nonNaN(p.Data)
	if len(vals) == 0 {
		return 0, 0
	}
	return floats.Min(vals), floats.Max(vals)
}

func nonNaN(data []float64) []float64 {
	if !floats.HasNaN(data) {
		return data
	}
	out := make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
