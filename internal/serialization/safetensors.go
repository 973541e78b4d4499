package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	metadataKey = "__metadata__"

	// DTypeF32 is the SafeTensors name of float32, the only supported dtype.
	DTypeF32 = "F32"

	// GradSuffix is appended to a tensor's name for its gradient entry.
	GradSuffix = ".grad"
)

// TensorInfo describes a tensor in the SafeTensors header.
type TensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end) within the data section
}

// Header is the JSON header of a SafeTensors file.
type Header struct {
	Metadata map[string]string
	Tensors  map[string]TensorInfo
}

// MarshalJSON flattens the header into a single object, with metadata under
// "__metadata__".
func (h Header) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		flat[metadataKey] = h.Metadata
	}
	for name, info := range h.Tensors {
		flat[name] = info
	}
	return json.Marshal(flat)
}

// UnmarshalJSON implements custom JSON unmarshaling for Header.
func (h *Header) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap[metadataKey]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return errors.Wrap(err, "failed to unmarshal metadata")
		}
	}

	h.Tensors = make(map[string]TensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == metadataKey {
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return errors.Wrapf(err, "failed to unmarshal tensor %s", key)
		}
		h.Tensors[key] = info
	}
	return nil
}

// WriteOption configures Write.
type WriteOption func(*writeConfig)

type writeConfig struct {
	grads    bool
	metadata map[string]string
}

// WithGradients also writes each tensor's gradient as "<name>.grad".
func WithGradients() WriteOption {
	return func(c *writeConfig) {
		c.grads = true
	}
}

// WithMetadata stores free-form string metadata in the header.
func WithMetadata(metadata map[string]string) WriteOption {
	return func(c *writeConfig) {
		c.metadata = metadata
	}
}

// logical gathers buf, addressed like x's values, in row-major logical order.
func logical(x *tensor.Tensor, buf []float32) []float32 {
	out := make([]float32, 0, x.Size())
	base, strides := x.Offset(), x.Strides()
	tensor.ForEachIndex(x.Shape(), func(_ int, index []int) {
		out = append(out, buf[base+tensor.Offset(index, strides)])
	})
	return out
}

type record struct {
	shape  tensor.Shape
	values []float32
}

// Write encodes tensors to w.
//
// Tensors are written in alphabetical order by name. Names must pass
// ValidateTensorName.
func Write(w io.Writer, tensors map[string]*tensor.Tensor, opts ...WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	records := make(map[string]record, len(tensors))
	for name, t := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		records[name] = record{shape: t.Shape(), values: logical(t, t.Data())}
		if !cfg.grads {
			continue
		}
		gradName := name + GradSuffix
		if _, dup := tensors[gradName]; dup {
			return &ValidationError{Err: ErrDuplicateGradEntry, Tensor: name, Tensor2: gradName}
		}
		records[gradName] = record{shape: t.Shape(), values: logical(t, t.Grad())}
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{Metadata: cfg.metadata, Tensors: make(map[string]TensorInfo, len(records))}
	var currentOffset int64
	for _, name := range names {
		rec := records[name]
		size := int64(len(rec.values)) * 4
		header.Tensors[name] = TensorInfo{
			DType:       DTypeF32,
			Shape:       append([]int(nil), rec.shape...),
			DataOffsets: [2]int64{currentOffset, currentOffset + size},
		}
		currentOffset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	var word [4]byte
	for _, name := range names {
		for _, v := range records[name].values {
			binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
			if _, err := bw.Write(word[:]); err != nil {
				return errors.Wrapf(err, "failed to write tensor %s", name)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush")
	}

	klog.V(1).Infof("serialization: wrote %d tensors, %s of data", len(names),
		humanize.Bytes(uint64(currentOffset)))
	return nil
}

// Read decodes a SafeTensors stream written by Write (or any float32-only
// SafeTensors file). Every tensor is returned as an owning leaf labeled with
// its name.
func Read(r io.Reader) (map[string]*tensor.Tensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidHeader, "failed to read header size: %v", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, &ValidationError{
			Err:     ErrHeaderTooLarge,
			Details: humanize.Bytes(headerSize) + " > " + humanize.Bytes(MaxHeaderSize),
		}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidHeader, "failed to read header: %v", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidHeader, "failed to parse header JSON: %v", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}

	entries := make([]entry, 0, len(header.Tensors))
	for name, info := range header.Tensors {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		if info.DType != DTypeF32 {
			return nil, nil, errors.Wrapf(ErrUnsupportedDType, "tensor %s has dtype %s", name, info.DType)
		}
		shape := tensor.Shape(info.Shape)
		if err := shape.Validate(); err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidHeader, "tensor %s: %v", name, err)
		}
		if int64(shape.NumElements()) > math.MaxInt64/4 {
			return nil, nil, errors.Wrapf(ErrInvalidHeader, "tensor %s: shape %v is too large", name, shape)
		}
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if want := int64(shape.NumElements()) * 4; end >= start && end-start != want {
			return nil, nil, errors.Wrapf(ErrInvalidHeader, "tensor %s: shape %v needs %d bytes, offsets span %d",
				name, shape, want, end-start)
		}
		entries = append(entries, entry{name: name, offset: start, size: end - start})
	}
	if err := validateOffsets(entries, int64(len(data))); err != nil {
		return nil, nil, err
	}

	tensors := make(map[string]*tensor.Tensor, len(entries))
	for _, e := range entries {
		values := make([]float32, e.size/4)
		raw := data[e.offset : e.offset+e.size]
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		t, err := tensor.FromSlice(values, header.Tensors[e.name].Shape, tensor.WithLabel(e.name))
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "tensor %s", e.name)
		}
		tensors[e.name] = t
	}
	return tensors, header.Metadata, nil
}

// SaveFile writes tensors to the file at path, replacing it if it exists.
func SaveFile(path string, tensors map[string]*tensor.Tensor, opts ...WriteOption) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := Write(file, tensors, opts...); err != nil {
		_ = file.Close() // Best effort close on error
		return err
	}
	return file.Close()
}

// LoadFile reads every tensor stored in the file at path.
func LoadFile(path string) (map[string]*tensor.Tensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()
	return Read(file)
}
