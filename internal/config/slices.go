package config

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/voxanim/internal/slicer"
)

// SliceSpec lets the slices key hold a count (50), a list ([3, 3, 5]) or a
// string understood by slicer.ParseSpec ("10:20:2").
type SliceSpec struct {
	slicer.Spec
}

func (s *SliceSpec) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		spec, err := slicer.ParseSpec(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		s.Spec = spec
		return nil
	case yaml.SequenceNode:
		var vals []float64
		if err := n.Decode(&vals); err != nil {
			return err
		}
		return s.fromFloats(vals)
	}
	return fmt.Errorf("line %d: %w: expected a count or a list", n.Line, slicer.ErrSyntax)
}

func (s SliceSpec) MarshalYAML() (interface{}, error) {
	if s.IsExplicit() {
		return s.Indices, nil
	}
	return s.Count, nil
}

func (s *SliceSpec) UnmarshalTOML(v interface{}) error {
	switch v := v.(type) {
	case int64:
		s.Spec = slicer.Count(int(v))
		return nil
	case string:
		spec, err := slicer.ParseSpec(v)
		if err != nil {
			return err
		}
		s.Spec = spec
		return nil
	case []interface{}:
		vals := make([]float64, len(v))
		for i, x := range v {
			switch x := x.(type) {
			case int64:
				vals[i] = float64(x)
			case float64:
				vals[i] = x
			default:
				return fmt.Errorf("%w: slice %v is not a number", slicer.ErrSyntax, x)
			}
		}
		return s.fromFloats(vals)
	}
	return fmt.Errorf("%w: expected a count or a list, got %T", slicer.ErrSyntax, v)
}

func (s SliceSpec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s SliceSpec) tomlValue() interface{} {
	if s.IsExplicit() {
		return append([]int{}, s.Indices...)
	}
	return s.Count
}

func (s *SliceSpec) fromFloats(vals []float64) error {
	idx := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: slice %v", slicer.ErrSyntax, v)
		}
		idx[i] = int(math.Trunc(v))
	}
	s.Spec = slicer.Explicit(idx...)
	return nil
}
