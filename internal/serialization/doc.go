// Package serialization stores Fock tensors in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor entries plus "__metadata__"]
//	  [Tensor data: raw bytes, tensors in name order]
//
// Float64 tensors are stored as F64. Complex128 tensors are stored as F64
// with a trailing dimension of 2 (real, imaginary) and the metadata entry
// "<name>.dtype" = "complex128". Every file carries a run_id, a created_at
// timestamp and the SHA-256 of the data section, which the reader verifies.
//
// Example usage:
//
//	err := serialization.Write("state.safetensors",
//	    map[string]*tensor.RawTensor{"ket": ket},
//	    map[string]string{"state": "coherent"})
//
//	file, err := serialization.Read("state.safetensors")
//	ket := file.Tensors["ket"]
package serialization
