package tensor

import (
	"errors"
	"math"
	"testing"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{2, 3}, 6},
		{"3d", Shape{2, 3, 4}, 24},
		{"zero axis", Shape{2, 0, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 0, 3}).Validate(); err != nil {
		t.Errorf("Validate() with zero axis = %v, want nil", err)
	}
	err := (Shape{2, -1}).Validate()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Validate() with negative axis = %v, want ErrInvalidArgument", err)
	}
}

func TestShape_ValidateOverflow(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		ok    bool
	}{
		{"product wraps to zero", Shape{1 << 32, 1 << 32}, false},
		{"product wraps negative", Shape{1 << 62, 3}, false},
		{"max int", Shape{math.MaxInt}, true},
		{"zero axis before huge axes", Shape{0, 1 << 40, 1 << 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate(%v) = %v, want nil", tt.shape, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate(%v) = %v, want ErrInvalidArgument", tt.shape, err)
			}
		})
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  []int
	}{
		{"scalar", Shape{}, []int{}},
		{"vector", Shape{5}, []int{1}},
		{"matrix", Shape{2, 3}, []int{3, 1}},
		{"3d", Shape{2, 3, 4}, []int{12, 4, 1}},
		{"4d", Shape{2, 1, 3, 2}, []int{6, 6, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shape.ComputeStrides()
			if !stridesEqual(got, tt.want) {
				t.Errorf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
			}
		})
	}
}

// TestOffset_Bijection checks that row-major strides map the row-major
// iteration order onto 0..size-1, each exactly once.
func TestOffset_Bijection(t *testing.T) {
	shapes := []Shape{{1}, {7}, {2, 3}, {3, 1, 4}, {2, 3, 4, 5}}

	for _, shape := range shapes {
		strides := shape.ComputeStrides()
		seen := make([]bool, shape.NumElements())
		ForEachIndex(shape, func(pos int, index []int) {
			off := Offset(index, strides)
			if off != pos {
				t.Errorf("shape %v: offset of %v = %d, want %d", shape, index, off, pos)
			}
			if off < 0 || off >= len(seen) || seen[off] {
				t.Fatalf("shape %v: offset %d visited twice or out of range", shape, off)
			}
			seen[off] = true
		})
		for i, ok := range seen {
			if !ok {
				t.Errorf("shape %v: offset %d never visited", shape, i)
			}
		}
	}
}
