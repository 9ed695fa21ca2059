package markers

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestNearestTieBreak(t *testing.T) {
	tests := []struct {
		v        float64
		sel      []int
		expected int
	}{
		{1, []int{0, 2, 4, 6, 9}, 0},
		{8, []int{0, 2, 4, 6, 9}, 9},
		{3, []int{0, 2, 4, 6, 9}, 2},
		{3, []int{4, 2}, 4},
		{5, []int{6, 4}, 6},
		{-10, []int{3, 1}, 1},
		{7.6, []int{7, 8}, 8},
	}

	for _, tt := range tests {
		got, err := Nearest(tt.v, tt.sel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.expected {
			t.Errorf("Nearest(%v, %v): expected %d, got %d", tt.v, tt.sel, tt.expected, got)
		}
	}

	if _, err := Nearest(1, nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

func TestNearestMinimizesDistance(t *testing.T) {
	sel := []int{12, 3, 7, 30, 18, 0}
	for v := -5.0; v <= 35; v += 0.25 {
		got, _ := Nearest(v, sel)
		gotDist := math.Abs(float64(got) - v)
		firstBest := -1
		for i, s := range sel {
			d := math.Abs(float64(s) - v)
			if d < gotDist {
				t.Fatalf("v=%v: %d is closer than %d", v, s, got)
			}
			if d == gotDist && firstBest < 0 {
				firstBest = i
			}
		}
		if sel[firstBest] != got {
			t.Errorf("v=%v: expected earliest minimizer %d, got %d", v, sel[firstBest], got)
		}
	}
}

func TestProject(t *testing.T) {
	m := Marker{1, 2, 3}
	tests := []struct {
		axis     int
		expected Point
	}{
		{0, Point{2, 3}},
		{1, Point{1, 3}},
		{2, Point{1, 2}},
	}
	for _, tt := range tests {
		if got := Project(m, tt.axis); got != tt.expected {
			t.Errorf("axis %d: expected %+v, got %+v", tt.axis, tt.expected, got)
		}
	}
}

func TestBind(t *testing.T) {
	sel := []int{0, 2, 4, 6, 9}
	marks := []Marker{{1, 0, 0}, {8, 0, 0}, {0.2, 1, 2}, {5, 3, 3}}

	b, err := Bind(sel, marks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := Binding{
		0: {{0, 0}, {1, 2}},
		9: {{0, 0}},
		4: {{3, 3}},
	}
	if !reflect.DeepEqual(b, expected) {
		t.Errorf("expected %v, got %v", expected, b)
	}
	if b.Count() != len(marks) {
		t.Errorf("expected %d bound points, got %d", len(marks), b.Count())
	}
	for slice := range b {
		found := false
		for _, s := range sel {
			if s == slice {
				found = true
			}
		}
		if !found {
			t.Errorf("slice %d is not part of the selection", slice)
		}
	}
}

func TestBindOtherAxis(t *testing.T) {
	b, err := Bind([]int{0, 5}, []Marker{{7, 4, 9}}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pts := b.On(5); len(pts) != 1 || pts[0] != (Point{7, 9}) {
		t.Errorf("expected [{7 9}] on slice 5, got %v", pts)
	}
	if pts := b.On(0); pts != nil {
		t.Errorf("expected nothing on slice 0, got %v", pts)
	}
}

func TestBindErrors(t *testing.T) {
	if _, err := Bind([]int{0}, nil, 3); !errors.Is(err, ErrAxis) {
		t.Errorf("expected ErrAxis, got %v", err)
	}
	if _, err := Bind(nil, []Marker{{1, 1, 1}}, 0); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
	b, err := Bind(nil, nil, 0)
	if err != nil || len(b) != 0 {
		t.Errorf("expected empty binding, got %v (%v)", b, err)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse(" 1, 2.5 ,-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (Marker{1, 2.5, -3}) {
		t.Errorf("expected {1 2.5 -3}, got %v", m)
	}
	for _, bad := range []string{"1,2", "1,2,3,4", "a,b,c"} {
		if _, err := Parse(bad); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected ErrSyntax, got %v", bad, err)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	in := "z,y,x\n# landmarks\n1,2,3\n4, 5, 6\n"
	marks, err := LoadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []Marker{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(marks, expected) {
		t.Errorf("expected %v, got %v", expected, marks)
	}

	if _, err := LoadCSV(strings.NewReader("1,2,3\nnope,1,1\n")); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}
