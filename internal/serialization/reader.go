package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/born-ml/photonic/internal/tensor"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// File is the decoded content of a SafeTensors file.
type File struct {
	Tensors   map[string]*tensor.RawTensor
	Metadata  map[string]string // user metadata, reserved keys removed
	RunID     string
	CreatedAt time.Time
	Checksum  string
}

// Names returns the tensor names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Tensors))
	for name := range f.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tensor returns the named tensor.
func (f *File) Tensor(name string) (*tensor.RawTensor, error) {
	t, ok := f.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return t, nil
}

// Read reads a file with strict validation.
func Read(path string) (*File, error) {
	return ReadWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions reads a file with custom options.
func ReadWithOptions(path string, opts ReaderOptions) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading results
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(content, opts)
}

// Decode parses the bytes of a SafeTensors file.
func Decode(content []byte, opts ReaderOptions) (*File, error) {
	if len(content) < HeaderSizeBytes {
		return nil, &ValidationError{Type: "truncated", Details: fmt.Sprintf("file of %d bytes", len(content))}
	}
	headerSize := binary.LittleEndian.Uint64(content[:HeaderSizeBytes])
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	end := uint64(HeaderSizeBytes) + headerSize
	if end > uint64(len(content)) {
		return nil, &ValidationError{
			Type:    "truncated",
			Details: fmt.Sprintf("header of %d bytes in a file of %d bytes", headerSize, len(content)),
		}
	}

	var header Header
	if err := json.Unmarshal(content[HeaderSizeBytes:end], &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	data := content[end:]

	if err := validate(&header, data, opts); err != nil {
		return nil, err
	}

	f := &File{
		Tensors:  make(map[string]*tensor.RawTensor, len(header.Tensors)),
		Metadata: make(map[string]string, len(header.Metadata)),
		RunID:    header.Metadata[MetaRunID],
		Checksum: header.Metadata[MetaSHA256],
	}
	if ts := header.Metadata[MetaCreatedAt]; ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", MetaCreatedAt, err)
		}
		f.CreatedAt = t
	}
	for k, v := range header.Metadata {
		if !reserved(k) {
			f.Metadata[k] = v
		}
	}

	for name, th := range header.Tensors {
		raw, err := decodeTensor(name, th, header.Metadata[name+DTypeSuffix], data)
		if err != nil {
			return nil, err
		}
		f.Tensors[name] = raw
	}
	return f, nil
}

func validate(h *Header, data []byte, opts ReaderOptions) error {
	if opts.ValidationLevel == ValidationNone {
		return nil
	}
	metas := make([]TensorMeta, 0, len(h.Tensors))
	for name, th := range h.Tensors {
		if err := ValidateTensorName(name); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: th.DataOffsets[0],
			Size:   th.DataOffsets[1] - th.DataOffsets[0],
		})
	}
	if opts.ValidationLevel != ValidationStrict {
		return nil
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if opts.SkipChecksumValidation {
		return nil
	}
	return ValidateChecksum(data, h.Metadata[MetaSHA256])
}

func decodeTensor(name string, th TensorHeader, dtype string, data []byte) (*tensor.RawTensor, error) {
	if th.DType != DTypeF64 {
		return nil, fmt.Errorf("%w: tensor %q has dtype %s", ErrUnsupportedDType, name, th.DType)
	}
	dt := tensor.Float64
	switch dtype {
	case "", tensor.Float64.String():
	case tensor.Complex128.String():
		dt = tensor.Complex128
	default:
		return nil, fmt.Errorf("%w: tensor %q declares %s", ErrUnsupportedDType, name, dtype)
	}

	shape, err := logicalShape(name, th.Shape, dt == tensor.Complex128)
	if err != nil {
		return nil, err
	}
	start, stop := th.DataOffsets[0], th.DataOffsets[1]
	if start < 0 || stop < start || stop > int64(len(data)) {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  name,
			Details: fmt.Sprintf("offsets [%d, %d) in a data section of %d bytes", start, stop, len(data)),
		}
	}
	size, err := shape.ByteSize(dt)
	if err != nil {
		return nil, &ValidationError{Type: "invalid_shape", Tensor: name, Details: err.Error(), Err: err}
	}
	if int64(size) != stop-start {
		return nil, fmt.Errorf("%w: tensor %q has %d bytes for shape %v", ErrDataSizeMismatch, name, stop-start, shape)
	}
	raw, err := tensor.NewRaw(shape, dt, tensor.CPU)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data[start:stop])
	return raw, nil
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
