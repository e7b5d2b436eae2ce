package ops

import (
	"slices"
	"testing"

	"github.com/born-ml/photonic/internal/backend/cpu"
	"github.com/born-ml/photonic/internal/tensor"
)

// TestReduceBroadcast tests gradient reduction to broadcast input shapes.
func TestReduceBroadcast(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		grad   tensor.Shape
		target tensor.Shape
		want   []complex128
	}{
		{"same shape", tensor.Shape{2, 2}, tensor.Shape{2, 2}, []complex128{1, 1, 1, 1}},
		{"to scalar", tensor.Shape{2, 3}, tensor.Shape{}, []complex128{6}},
		{"leading axis", tensor.Shape{2, 3}, tensor.Shape{3}, []complex128{2, 2, 2}},
		{"unit axis", tensor.Shape{3, 4}, tensor.Shape{3, 1}, []complex128{4, 4, 4}},
		{"both", tensor.Shape{2, 3, 4}, tensor.Shape{1, 4}, []complex128{6, 6, 6, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grad := fill(tt.grad, 1, backend)
			got := reduceBroadcast(grad, tt.target, backend)
			if !got.Shape().Equal(tt.target) {
				t.Fatalf("Expected shape %v, got %v", tt.target, got.Shape())
			}
			if !slices.Equal(got.AsComplex128(), tt.want) {
				t.Errorf("got %v, want %v", got.AsComplex128(), tt.want)
			}
		})
	}
}

// TestLike tests that real inputs receive the real part of a complex gradient.
func TestLike(t *testing.T) {
	backend := cpu.New()
	input, _ := tensor.RawFromFloat([]float64{1, 2}, tensor.Shape{2})
	grad, _ := tensor.RawFromComplex([]complex128{3 + 1i, -2i}, tensor.Shape{2})

	got := like(grad, input, backend)
	if got.DType() != tensor.Float64 {
		t.Fatalf("Expected float64, got %v", got.DType())
	}
	if !slices.Equal(got.AsFloat64(), []float64{3, 0}) {
		t.Errorf("got %v, want [3 0]", got.AsFloat64())
	}

	complexInput, _ := tensor.RawFromComplex([]complex128{1, 2}, tensor.Shape{2})
	if like(grad, complexInput, backend) != grad {
		t.Error("complex gradient for complex input should be returned unchanged")
	}
}

func TestFreeAndPaired(t *testing.T) {
	if got := free(4, []int{2, 0}); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("free = %v, want [1 3]", got)
	}
	// from = [2, 0] sorted -> 0 (partner 5), 2 (partner 7)
	if got := paired([]int{2, 0}, []int{7, 5}); !slices.Equal(got, []int{5, 7}) {
		t.Errorf("paired = %v, want [5 7]", got)
	}
}
