package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/photonic/internal/tensor"
)

// Writer writes tensors in SafeTensors format.
type Writer struct {
	file   *os.File
	closed bool
	now    func() time.Time
}

// NewWriter creates a new SafeTensors file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving results
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file, now: time.Now}, nil
}

// Write writes tensors and metadata to path and returns the run ID stored
// in the file.
func Write(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) (string, error) {
	w, err := NewWriter(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = w.Close() // Best effort close
	}()
	return w.WriteTensors(tensors, metadata)
}

// WriteTensors writes one SafeTensors file. Tensors are laid out in name
// order. The reserved metadata keys and "<name>.dtype" entries are filled in
// by the writer and may not appear in metadata.
func (w *Writer) WriteTensors(tensors map[string]*tensor.RawTensor, metadata map[string]string) (string, error) {
	if w.closed {
		return "", fmt.Errorf("writer is closed")
	}
	runID := uuid.NewString()
	var buf bytes.Buffer
	if err := encode(&buf, tensors, metadata, runID, w.now()); err != nil {
		return "", err
	}
	if _, err := w.file.Write(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return runID, nil
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

func encode(out io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string, runID string, now time.Time) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	meta := make(map[string]string, len(metadata)+3)
	for k, v := range metadata {
		if reserved(k) {
			return fmt.Errorf("%w: %q", ErrReservedMetadata, k)
		}
		meta[k] = v
	}

	header := Header{Metadata: meta, Tensors: make(map[string]TensorHeader, len(names))}
	var data bytes.Buffer
	for _, name := range names {
		raw := tensors[name]
		if raw.DType() == tensor.Complex128 {
			meta[name+DTypeSuffix] = tensor.Complex128.String()
		}
		start := int64(data.Len())
		data.Write(raw.Data())
		header.Tensors[name] = TensorHeader{
			DType:       DTypeF64,
			Shape:       storedShape(raw),
			DataOffsets: [2]int64{start, int64(data.Len())},
		}
	}

	meta[MetaRunID] = runID
	meta[MetaCreatedAt] = now.UTC().Format(time.RFC3339Nano)
	meta[MetaSHA256] = ComputeChecksum(data.Bytes())

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(out, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := out.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := out.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

func reserved(key string) bool {
	switch key {
	case MetaRunID, MetaCreatedAt, MetaSHA256:
		return true
	}
	return strings.HasSuffix(key, DTypeSuffix)
}
