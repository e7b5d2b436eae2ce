// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Complex128 and Float64 support
//   - NumPy-compatible broadcasting
//   - Matrix products, inverses, determinants and Hermitian eigensolvers on gonum
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/photonic/backend/cpu"
//	    "github.com/born-ml/photonic/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Eye[complex128](4, backend)
//	    y := x.MatMul(x)
//	}
package cpu
