package bargmann

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/photonic/internal/gaussian"
	"github.com/born-ml/photonic/internal/tensor"
)

// TransformationToTriple returns the triple of the Gaussian transformation
// (X, Y, d) on N modes.
//
// The transformation acts on the first half of a 2N-mode TMSV(choiR) state
// whose second half is the reference. The resulting state triple is decoded
// into a unitary with axes (out..., in...) or, when returnChoi is set, a Choi
// tensor with axes (out_l, in_l, out_r, in_r). Y and d may be nil.
func TransformationToTriple(b tensor.Backend, X, Y, d *tensor.RawTensor, returnChoi bool, hbar, choiR float64) (Triple, error) {
	xs := X.Shape()
	if len(xs) != 2 || xs[0] != xs[1] || xs[0]%2 != 0 || xs[0] == 0 {
		return Triple{}, fmt.Errorf("%w: X shape %v is not 2N×2N", ErrShapeMismatch, xs)
	}
	if Y != nil && !Y.Shape().Equal(xs) {
		return Triple{}, fmt.Errorf("%w: Y shape %v for X %v", ErrShapeMismatch, Y.Shape(), xs)
	}
	if d != nil && !d.Shape().Equal(tensor.Shape{xs[0]}) {
		return Triple{}, fmt.Errorf("%w: d shape %v for X %v", ErrShapeMismatch, d.Shape(), xs)
	}

	mode := Unitary
	if returnChoi {
		mode = Choi
	}
	req := mode.Request(hbar, &choiR)
	if err := req.Validate(); err != nil {
		return Triple{}, err
	}

	n := xs[0] / 2
	r := make([]float64, n)
	for i := range r {
		r[i] = choiR
	}
	tmsv, err := gaussian.TwoModeSqueezedVacuum(r, hbar)
	if err != nil {
		return Triple{}, err
	}

	modes := make([]int, n)
	for i := range modes {
		modes[i] = i
	}
	var dv []float64
	if d != nil {
		dv = b.Cast(d, tensor.Float64).AsFloat64()
	}
	state, err := tmsv.Transform(dense(b, X), dense(b, Y), dv, modes)
	if err != nil {
		return Triple{}, err
	}

	cov, means, err := state.Tensors()
	if err != nil {
		return Triple{}, err
	}
	return GaussianToTriple(b, cov, means, req)
}

// dense copies a real matrix tensor into gonum. A nil tensor stays nil.
func dense(b tensor.Backend, x *tensor.RawTensor) *mat.Dense {
	if x == nil {
		return nil
	}
	s := x.Shape()
	data := append([]float64(nil), b.Cast(x, tensor.Float64).AsFloat64()...)
	return mat.NewDense(s[0], s[1], data)
}
