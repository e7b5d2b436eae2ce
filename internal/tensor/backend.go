package tensor

import "errors"

// Errors returned by linear-algebra routines.
var (
	ErrSingular      = errors.New("tensor: matrix is singular")
	ErrNoConvergence = errors.New("tensor: factorization did not converge")
	ErrNotSquare     = errors.New("tensor: matrix is not square")
)

// ErrShapeOverflow reports a shape whose element or byte count overflows int.
var ErrShapeOverflow = errors.New("tensor: shape size overflows int")

// Backend defines the interface that all compute backends must implement.
// The amplitude engine, the Gaussian converter and the Fock algebra depend only
// on this contract.
//
// Shape misuse panics. Routines that can fail on well-shaped input
// (Inv, Det, EigH, Sqrtm) return an error instead.
type Backend interface {
	// Element-wise binary operations (NumPy broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations
	MulScalar(x *RawTensor, scalar complex128) *RawTensor
	AddScalar(x *RawTensor, scalar complex128) *RawTensor

	// Element-wise math
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor  // modulus, same dtype as x
	Conj(x *RawTensor) *RawTensor // identity for Float64

	// Matrix operations (2-D)
	MatMul(a, b *RawTensor) *RawTensor
	Inv(x *RawTensor) (*RawTensor, error)
	Det(x *RawTensor) (complex128, error)
	// EigH returns ascending real eigenvalues (Float64) and the matching
	// orthonormal eigenvectors as columns (Complex128) of a Hermitian matrix.
	EigH(x *RawTensor) (values, vectors *RawTensor, err error)
	// Sqrtm returns the principal square root of a Hermitian positive semidefinite matrix.
	Sqrtm(x *RawTensor) (*RawTensor, error)

	// Shape operations
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor
	Truncate(x *RawTensor, limits Shape) *RawTensor // keeps [0:limits[i]) on every axis

	// Contractions
	Outer(a, b *RawTensor) *RawTensor
	Tensordot(a, b *RawTensor, axesA, axesB []int) *RawTensor

	// Reductions
	Sum(x *RawTensor) *RawTensor // scalar result
	SumAxes(x *RawTensor, axes []int) *RawTensor
	Diagonal(x *RawTensor, axis1, axis2 int) *RawTensor // diagonal appended as last axis

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
