package markers

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptySelection = errors.New("markers: no slices to bind markers to")
	ErrAxis           = errors.New("markers: axis out of range")
)

// Marker is a point in volume coordinates, one value per array axis.
type Marker [3]float64

// Point is a marker projected onto a slice: Row follows the lower of the two
// remaining axes, Col the higher one.
type Point struct {
	Row, Col float64
}

// Binding maps a selected slice index to the markers shown on it.
type Binding map[int][]Point

// On returns the points bound to slice, or nil.
func (b Binding) On(slice int) []Point { return b[slice] }

// Count returns the total number of bound points.
func (b Binding) Count() int {
	n := 0
	for _, pts := range b {
		n += len(pts)
	}
	return n
}

// Nearest returns the element of sel closest to v. On a tie the candidate
// that comes first in sel wins.
func Nearest(v float64, sel []int) (int, error) {
	if len(sel) == 0 {
		return 0, ErrEmptySelection
	}
	best, bestDist := sel[0], math.Abs(float64(sel[0])-v)
	for _, s := range sel[1:] {
		if d := math.Abs(float64(s) - v); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, nil
}

// Project drops the axis coordinate of m.
func Project(m Marker, axis int) Point {
	rest := make([]float64, 0, 2)
	for d, v := range m {
		if d != axis {
			rest = append(rest, v)
		}
	}
	return Point{Row: rest[0], Col: rest[1]}
}

// Bind snaps every marker to its nearest selected slice along axis and
// groups the projected points by that slice, keeping input order.
func Bind(sel []int, marks []Marker, axis int) (Binding, error) {
	if axis < 0 || axis >= len(Marker{}) {
		return nil, fmt.Errorf("%w: %d", ErrAxis, axis)
	}
	b := make(Binding)
	for i, m := range marks {
		slice, err := Nearest(m[axis], sel)
		if err != nil {
			return nil, fmt.Errorf("marker %d %v: %w", i, m, err)
		}
		b[slice] = append(b[slice], Project(m, axis))
	}
	return b, nil
}
