package serialization

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/photonic/internal/tensor"
)

func sampleTensors(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()
	ket, err := tensor.RawFromComplex([]complex128{1, 2i, -3 + 0.5i, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	probs, err := tensor.RawFromFloat([]float64{0.25, 0.75}, tensor.Shape{2})
	require.NoError(t, err)
	return map[string]*tensor.RawTensor{"ket": ket, "probs": probs}
}

func encodeBytes(t *testing.T, tensors map[string]*tensor.RawTensor, meta map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, encode(&buf, tensors, meta, "run-1", now))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.safetensors")
	tensors := sampleTensors(t)

	runID, err := Write(path, tensors, map[string]string{"state": "coherent"})
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, runID, f.RunID)
	assert.Equal(t, map[string]string{"state": "coherent"}, f.Metadata)
	assert.Equal(t, []string{"ket", "probs"}, f.Names())
	assert.WithinDuration(t, time.Now(), f.CreatedAt, time.Minute)
	assert.Len(t, f.Checksum, 64)

	ket, err := f.Tensor("ket")
	require.NoError(t, err)
	assert.Equal(t, tensor.Complex128, ket.DType())
	assert.Equal(t, tensor.Shape{2, 2}, ket.Shape())
	assert.Equal(t, tensors["ket"].AsComplex128(), ket.AsComplex128())

	probs := f.Tensors["probs"]
	assert.Equal(t, tensor.Float64, probs.DType())
	assert.Equal(t, []float64{0.25, 0.75}, probs.AsFloat64())

	_, err = f.Tensor("dm")
	assert.ErrorIs(t, err, ErrTensorNotFound)
}

func TestHeaderLayout(t *testing.T) {
	content := encodeBytes(t, sampleTensors(t), nil)
	size := binary.LittleEndian.Uint64(content[:8])

	var h Header
	require.NoError(t, h.UnmarshalJSON(content[8:8+size]))
	assert.Equal(t, TensorHeader{DType: DTypeF64, Shape: []int64{2, 2, 2}, DataOffsets: [2]int64{0, 64}}, h.Tensors["ket"])
	assert.Equal(t, TensorHeader{DType: DTypeF64, Shape: []int64{2}, DataOffsets: [2]int64{64, 80}}, h.Tensors["probs"])
	assert.Equal(t, "complex128", h.Metadata["ket.dtype"])
	assert.NotContains(t, h.Metadata, "probs.dtype")
	assert.Equal(t, "run-1", h.Metadata[MetaRunID])
	assert.Equal(t, "2025-03-01T12:00:00Z", h.Metadata[MetaCreatedAt])
	assert.Equal(t, ComputeChecksum(content[8+size:]), h.Metadata[MetaSHA256])
}

func TestChecksumMismatch(t *testing.T) {
	content := encodeBytes(t, sampleTensors(t), nil)
	content[len(content)-1] ^= 0xff

	_, err := Decode(content, ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	f, err := Decode(content, ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.Len(t, f.Tensors, 2)
}

func TestWriteRejectsReservedMetadata(t *testing.T) {
	var buf bytes.Buffer
	for _, key := range []string{MetaRunID, MetaSHA256, "ket.dtype"} {
		err := encode(&buf, sampleTensors(t), map[string]string{key: "x"}, "run", time.Now())
		assert.ErrorIs(t, err, ErrReservedMetadata, key)
	}
	err := encode(&buf, map[string]*tensor.RawTensor{"../ket": sampleTensors(t)["ket"]}, nil, "run", time.Now())
	assert.True(t, IsValidationError(err))
}

func TestDecodeErrors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := Decode([]byte{1, 2}, ReaderOptions{})
		assert.True(t, IsValidationError(err))

		content := encodeBytes(t, sampleTensors(t), nil)
		_, err = Decode(content[:20], ReaderOptions{})
		assert.True(t, IsValidationError(err))
	})

	t.Run("header too large", func(t *testing.T) {
		content := make([]byte, 8)
		binary.LittleEndian.PutUint64(content, MaxHeaderSize+1)
		_, err := Decode(content, ReaderOptions{})
		assert.ErrorIs(t, err, ErrHeaderTooLarge)
	})

	rewrite := func(t *testing.T, mutate func(h *Header)) []byte {
		t.Helper()
		content := encodeBytes(t, sampleTensors(t), nil)
		size := binary.LittleEndian.Uint64(content[:8])
		var h Header
		require.NoError(t, h.UnmarshalJSON(content[8:8+size]))
		mutate(&h)
		headerJSON, err := h.MarshalJSON()
		require.NoError(t, err)
		out := binary.LittleEndian.AppendUint64(nil, uint64(len(headerJSON)))
		out = append(out, headerJSON...)
		return append(out, content[8+size:]...)
	}

	t.Run("out of bounds", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			p := h.Tensors["probs"]
			p.DataOffsets = [2]int64{64, 96}
			h.Tensors["probs"] = p
		})
		_, err := Decode(content, ReaderOptions{})
		var v *ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "out_of_bounds", v.Type)
	})

	t.Run("overlap", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			p := h.Tensors["probs"]
			p.DataOffsets = [2]int64{56, 72}
			h.Tensors["probs"] = p
		})
		_, err := Decode(content, ReaderOptions{})
		var v *ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "offset_overlap", v.Type)
	})

	t.Run("unsupported dtype", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			p := h.Tensors["probs"]
			p.DType = "F32"
			h.Tensors["probs"] = p
		})
		_, err := Decode(content, ReaderOptions{})
		assert.ErrorIs(t, err, ErrUnsupportedDType)
	})

	t.Run("complex without trailing pair", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			k := h.Tensors["ket"]
			k.Shape = []int64{4, 2, 1}
			h.Tensors["ket"] = k
		})
		_, err := Decode(content, ReaderOptions{})
		assert.True(t, IsValidationError(err))
	})

	t.Run("size mismatch", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			p := h.Tensors["probs"]
			p.Shape = []int64{3}
			h.Tensors["probs"] = p
		})
		_, err := Decode(content, ReaderOptions{})
		assert.ErrorIs(t, err, ErrDataSizeMismatch)
	})

	t.Run("shape overflow", func(t *testing.T) {
		for _, shape := range [][]int64{
			// Byte counts that wrap to 8 and to 0.
			{1<<61 + 1},
			{1 << 62},
			// Element count overflow.
			{1 << 31, 1 << 31, 1 << 31},
		} {
			content := rewrite(t, func(h *Header) {
				p := h.Tensors["probs"]
				p.Shape = shape
				h.Tensors["probs"] = p
			})
			_, err := Decode(content, ReaderOptions{})
			var v *ValidationError
			require.ErrorAs(t, err, &v, "shape %v", shape)
			assert.Equal(t, "invalid_shape", v.Type)
			assert.ErrorIs(t, err, tensor.ErrShapeOverflow)
		}
	})

	t.Run("missing checksum", func(t *testing.T) {
		content := rewrite(t, func(h *Header) {
			delete(h.Metadata, MetaSHA256)
		})
		_, err := Decode(content, ReaderOptions{})
		assert.ErrorIs(t, err, ErrMissingChecksum)
		_, err = Decode(content, ReaderOptions{ValidationLevel: ValidationNormal})
		assert.NoError(t, err)
	})
}

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string
	}{
		{"valid", []TensorMeta{{"a", 0, 100}, {"b", 100, 50}}, 150, ""},
		{"overlap", []TensorMeta{{"a", 0, 100}, {"b", 99, 10}}, 200, "offset_overlap"},
		{"out of bounds", []TensorMeta{{"a", 0, 100}}, 50, "out_of_bounds"},
		{"negative", []TensorMeta{{"a", -1, 10}}, 50, "negative_offset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			var v *ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.wantType, v.Type)
			assert.Contains(t, v.Error(), tt.wantType)
		})
	}
}

func TestValidateTensorName(t *testing.T) {
	for _, name := range []string{"", MetadataKey, "../x", "a/b", `a\b`, "a\x00b", string(make([]byte, MaxTensorNameLen+1))} {
		assert.Error(t, ValidateTensorName(name), "%q", name)
	}
	assert.NoError(t, ValidateTensorName("ket.mode_0"))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.safetensors"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriterClosed(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "x.safetensors"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.WriteTensors(sampleTensors(t), nil)
	assert.Error(t, err)
}
