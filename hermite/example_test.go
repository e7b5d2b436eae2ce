package hermite_test

import (
	"errors"
	"fmt"

	"github.com/born-ml/photonic/hermite"
	"github.com/born-ml/photonic/tensor"
)

func ExampleVanilla() {
	a, _ := tensor.RawFromComplex([]complex128{0}, tensor.Shape{1, 1})
	b, _ := tensor.RawFromComplex([]complex128{1}, tensor.Shape{1})
	c := tensor.RawScalar(1)

	g, err := hermite.Vanilla(a, b, c, []int{2})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(g.Shape())
	for n, v := range g.AsComplex128() {
		fmt.Printf("G[%d] = %.4f\n", n, real(v))
	}
	// Output:
	// [3]
	// G[0] = 1.0000
	// G[1] = 1.0000
	// G[2] = 0.7071
}

func ExampleVanilla_invalidCutoff() {
	a, _ := tensor.RawFromComplex([]complex128{0}, tensor.Shape{1, 1})
	b, _ := tensor.RawFromComplex([]complex128{1}, tensor.Shape{1})

	_, err := hermite.Vanilla(a, b, tensor.RawScalar(1), []int{-1})
	fmt.Println(errors.Is(err, hermite.ErrInvalidCutoff))
	// Output:
	// true
}
