// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/photonic/internal/tensor"
)

// DType is a constraint for tensor data types: float64 or complex128.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float64    DataType = tensor.Float64
	Complex128 DataType = tensor.Complex128
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor. The empty shape is a scalar.
type Shape = tensor.Shape

// RawTensor is the untyped tensor storage.
type RawTensor = tensor.RawTensor

// Backend defines the operations a compute backend provides.
//
// Implementations:
//   - backend/cpu: Pure Go on gonum
//
// Decorator backends:
//   - autodiff: Records operations for reverse-mode gradients
type Backend = tensor.Backend

// Tensor is a typed tensor bound to a backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Errors returned by linear-algebra routines.
var (
	ErrSingular      = tensor.ErrSingular
	ErrNoConvergence = tensor.ErrNoConvergence
	ErrNotSquare     = tensor.ErrNotSquare
	ErrShapeOverflow = tensor.ErrShapeOverflow
)

// New wraps a RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T](raw, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// Eye creates an n×n identity matrix.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T](n, b)
}

// Scalar creates a scalar tensor.
func Scalar[T DType, B Backend](v T, b B) *Tensor[T, B] {
	return tensor.Scalar(v, b)
}

// FromSlice creates a tensor from data with the given shape.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// RawFromComplex creates a Complex128 RawTensor holding a copy of data.
func RawFromComplex(data []complex128, shape Shape) (*RawTensor, error) {
	return tensor.RawFromComplex(data, shape)
}

// RawFromFloat creates a Float64 RawTensor holding a copy of data.
func RawFromFloat(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.RawFromFloat(data, shape)
}

// RawScalar returns a rank-0 Complex128 RawTensor holding v.
func RawScalar(v complex128) *RawTensor {
	return tensor.RawScalar(v)
}
