package slicer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSpec reads a command-line slice spec:
//
//	"50"       fifty evenly spaced slices
//	"3,3,5"    explicit indices (decimals are truncated)
//	"10:20"    indices 10..19
//	"10:20:2"  indices 10, 12, ..., 18
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, fmt.Errorf("%w: empty", ErrSyntax)
	}
	if strings.Contains(s, ":") {
		return parseRange(s)
	}
	if !strings.Contains(s, ",") {
		k, err := strconv.Atoi(s)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		return Count(k), nil
	}
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		idx, err := Coerce(p)
		if err != nil {
			return Spec{}, err
		}
		indices = append(indices, idx)
	}
	return Explicit(indices...), nil
}

// Coerce converts a numeric string to a slice index, truncating any
// fractional part.
func Coerce(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, s)
	}
	return int(math.Trunc(f)), nil
}

func parseRange(s string) (Spec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Spec{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		nums[i] = n
	}
	start, stop, step := nums[0], nums[1], 1
	if len(nums) == 3 {
		step = nums[2]
	}
	if step == 0 {
		return Spec{}, fmt.Errorf("%w: zero step in %q", ErrSyntax, s)
	}
	indices := []int{}
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		indices = append(indices, i)
	}
	return Explicit(indices...), nil
}
