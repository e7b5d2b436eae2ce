package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/born-ml/photonic/internal/tensor"
)

// Format constants.
const (
	HeaderSizeBytes = 8
	MetadataKey     = "__metadata__"
	DTypeF64        = "F64"
	DTypeSuffix     = ".dtype"
)

// Reserved metadata keys written on every file.
const (
	MetaRunID     = "run_id"
	MetaCreatedAt = "created_at"
	MetaSHA256    = "sha256"
)

// TensorHeader is one tensor entry of the JSON header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end) within the data section
}

// Header is the parsed JSON header.
type Header struct {
	Metadata map[string]string
	Tensors  map[string]TensorHeader
}

// MarshalJSON flattens the tensors and the metadata into one object.
func (h Header) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		flat[MetadataKey] = h.Metadata
	}
	for name, t := range h.Tensors {
		flat[name] = t
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat header object.
func (h *Header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if meta, ok := raw[MetadataKey]; ok {
		if err := json.Unmarshal(meta, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	h.Tensors = make(map[string]TensorHeader, len(raw))
	for key, value := range raw {
		if key == MetadataKey {
			continue
		}
		var t TensorHeader
		if err := json.Unmarshal(value, &t); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = t
	}
	return nil
}

// TensorMeta describes where a tensor lives in the data section.
type TensorMeta struct {
	Name   string
	Offset int64
	Size   int64
}

// storedShape returns the on-disk shape of a tensor: complex tensors gain a
// trailing dimension of 2.
func storedShape(raw *tensor.RawTensor) []int64 {
	shape := raw.Shape()
	out := make([]int64, 0, len(shape)+1)
	for _, d := range shape {
		out = append(out, int64(d))
	}
	if raw.DType() == tensor.Complex128 {
		out = append(out, 2)
	}
	return out
}

// logicalShape inverts storedShape.
func logicalShape(name string, stored []int64, complexValued bool) (tensor.Shape, error) {
	if complexValued {
		if len(stored) == 0 || stored[len(stored)-1] != 2 {
			return nil, &ValidationError{
				Type:    "invalid_shape",
				Tensor:  name,
				Details: fmt.Sprintf("complex tensor stored with shape %v, want trailing dimension 2", stored),
			}
		}
		stored = stored[:len(stored)-1]
	}
	shape := make(tensor.Shape, len(stored))
	for i, d := range stored {
		shape[i] = int(d)
	}
	if err := shape.Validate(); err != nil {
		return nil, &ValidationError{Type: "invalid_shape", Tensor: name, Details: err.Error(), Err: err}
	}
	return shape, nil
}
