// Package slicer picks which indices along the slice axis become animation
// frames.
//
// A [Spec] is either a frame count, spread evenly over the axis, or an
// explicit list of indices. [Select] turns a Spec into a [Selection]: an
// ordered list of distinct indices, duplicates removed with the first
// occurrence kept.
package slicer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const DefaultCount = 50

var (
	ErrNegativeCount   = errors.New("slicer: slice count must not be negative")
	ErrIndexOutOfRange = errors.New("slicer: slice index out of range")
	ErrSyntax          = errors.New("slicer: invalid slice spec")
)

// Spec describes the requested slices. When Indices is non-nil it wins over
// Count.
type Spec struct {
	Count   int
	Indices []int
}

func Count(k int) Spec { return Spec{Count: k} }

func Explicit(indices ...int) Spec {
	if indices == nil {
		indices = []int{}
	}
	return Spec{Indices: indices}
}

func (s Spec) IsExplicit() bool { return s.Indices != nil }

func (s Spec) String() string {
	if !s.IsExplicit() {
		return strconv.Itoa(s.Count)
	}
	parts := make([]string, len(s.Indices))
	for i, idx := range s.Indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

// Selection is an ordered list of distinct slice indices.
type Selection []int

func (s Selection) Contains(idx int) bool {
	for _, v := range s {
		if v == idx {
			return true
		}
	}
	return false
}

// Select resolves spec against an axis of the given extent.
func Select(extent int, spec Spec) (Selection, error) {
	if spec.IsExplicit() {
		for _, idx := range spec.Indices {
			if idx < 0 || idx >= extent {
				return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, extent)
			}
		}
		return Selection(Dedupe(spec.Indices)), nil
	}
	if spec.Count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, spec.Count)
	}
	return Selection(Dedupe(Linspace(extent, spec.Count))), nil
}

// Linspace returns k integer positions evenly spaced over [0, extent-1],
// truncated toward zero. The last position is always extent-1.
func Linspace(extent, k int) []int {
	switch {
	case k <= 0 || extent <= 0:
		return []int{}
	case k == 1:
		return []int{0}
	}
	pos := floats.Span(make([]float64, k), 0, float64(extent-1))
	pos[k-1] = float64(extent - 1)
	out := make([]int, k)
	for i, p := range pos {
		out[i] = int(math.Trunc(p))
	}
	return out
}

// Dedupe drops repeated values, keeping the first occurrence of each.
func Dedupe(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
