// Package tensor provides the core array types and the numeric backend contract
// used by the photonic packages.
package tensor

// DType is a constraint for supported tensor element types.
// Amplitudes are complex128; covariances, probabilities and quadrature axes are float64.
type DType interface {
	~float64 | ~complex128
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float64 DataType = iota
	Complex128
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// IsComplex reports whether the data type holds complex values.
func (dt DataType) IsComplex() bool {
	return dt == Complex128
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float64:
		return Float64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
