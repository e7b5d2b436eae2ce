package ops

import (
	"github.com/born-ml/photonic/internal/tensor"
)

// reduceBroadcast sums a gradient back to the shape of a broadcast input.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	shape := grad.Shape()
	if shape.Equal(target) {
		return grad
	}

	// Shapes align from the right; leading axes were added by broadcasting.
	lead := len(shape) - len(target)
	axes := make([]int, 0, len(shape))
	for i := 0; i < lead; i++ {
		axes = append(axes, i)
	}
	for i, d := range target {
		if d == 1 && shape[lead+i] != 1 {
			axes = append(axes, lead+i)
		}
	}

	result := grad
	if len(axes) > 0 {
		result = backend.SumAxes(grad, axes)
	}
	return backend.Reshape(result, target)
}

// like converts a gradient to the dtype of the tensor it belongs to. A real
// input keeps the real part of a complex gradient.
func like(grad, input *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	if grad.DType() == input.DType() {
		return grad
	}
	return backend.Cast(grad, input.DType())
}

// adjoint returns the conjugate transpose of a matrix.
func adjoint(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.Conj(backend.Transpose(x, 1, 0))
}

// fill returns a complex tensor of the given shape holding v everywhere.
func fill(shape tensor.Shape, v complex128, backend tensor.Backend) *tensor.RawTensor {
	zeros := tensor.MustNewRaw(shape, tensor.Complex128, backend.Device())
	return backend.AddScalar(zeros, v)
}
