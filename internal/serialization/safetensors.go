package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"sort"
)

// MaxHeaderSize bounds the JSON header accepted by Read.
const MaxHeaderSize = 16 << 20

const (
	dtypeF64    = "F64"
	metadataKey = "__metadata__"
	entrySize   = 8
)

// TensorHeader describes one entry in the SafeTensors header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Write encodes state and metadata to w. Metadata may be nil.
func Write(w io.Writer, state map[string]float64, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(state))

	data := make([]byte, entrySize*len(names))
	header := make(map[string]any, len(names)+1)
	for i, name := range names {
		if name == "" || name == metadataKey {
			return &ValidationError{Err: ErrInvalidHeader, Tensor: name, Details: "reserved tensor name"}
		}
		offset := int64(i * entrySize)
		binary.LittleEndian.PutUint64(data[offset:], math.Float64bits(state[name]))
		header[name] = TensorHeader{
			DType:       dtypeF64,
			Shape:       []int64{},
			DataOffsets: [2]int64{offset, offset + entrySize},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	meta[checksumKey] = ComputeChecksum(data)
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	// Keep the data section 8-byte aligned.
	if rem := len(headerJSON) % 8; rem != 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte{' '}, 8-rem)...)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

// Read decodes a file written by Write. Entries must be scalar F64 tensors.
// The returned metadata excludes the checksum.
func Read(r io.Reader) (map[string]float64, map[string]string, error) {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if size > MaxHeaderSize {
		return nil, nil, &ValidationError{Err: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes", size)}
	}

	headerJSON := make([]byte, size)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, nil, &ValidationError{Err: ErrInvalidHeader, Details: err.Error()}
	}

	metadata := make(map[string]string)
	if msg, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(msg, &metadata); err != nil {
			return nil, nil, &ValidationError{Err: ErrInvalidHeader, Details: "metadata: " + err.Error()}
		}
		delete(raw, metadataKey)
	}
	if sum, ok := metadata[checksumKey]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, nil, err
		}
		delete(metadata, checksumKey)
	}

	headers := make(map[string]TensorHeader, len(raw))
	for name, msg := range raw {
		var h TensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, &ValidationError{Err: ErrInvalidHeader, Tensor: name, Details: err.Error()}
		}
		headers[name] = h
	}
	if err := validate(headers, int64(len(data))); err != nil {
		return nil, nil, err
	}

	state := make(map[string]float64, len(headers))
	for name, h := range headers {
		state[name] = math.Float64frombits(binary.LittleEndian.Uint64(data[h.DataOffsets[0]:]))
	}
	return state, metadata, nil
}

// validate checks that every entry is a scalar F64 inside the data section
// and that no two entries share bytes.
func validate(headers map[string]TensorHeader, dataSize int64) error {
	names := make([]string, 0, len(headers))
	for name, h := range headers {
		if h.DType != dtypeF64 {
			return &ValidationError{Err: ErrUnsupported, Tensor: name, Details: "dtype " + h.DType}
		}
		for _, dim := range h.Shape {
			if dim != 1 {
				return &ValidationError{Err: ErrUnsupported, Tensor: name, Details: fmt.Sprintf("shape %v", h.Shape)}
			}
		}
		begin, end := h.DataOffsets[0], h.DataOffsets[1]
		if begin < 0 || end < begin || end-begin != entrySize {
			return &ValidationError{Err: ErrInvalidHeader, Tensor: name, Details: fmt.Sprintf("offsets [%d, %d]", begin, end)}
		}
		if end > dataSize {
			return &ValidationError{Err: ErrOutOfBounds, Tensor: name, Details: fmt.Sprintf("ends at %d of %d bytes", end, dataSize)}
		}
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return headers[names[i]].DataOffsets[0] < headers[names[j]].DataOffsets[0]
	})
	for i := 1; i < len(names); i++ {
		if headers[names[i]].DataOffsets[0] < headers[names[i-1]].DataOffsets[1] {
			return &ValidationError{Err: ErrOffsetOverlap, Tensor: names[i], Details: "overlaps " + names[i-1]}
		}
	}
	return nil
}

// WriteFile writes state and metadata to path.
func WriteFile(path string, state map[string]float64, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	w := bufio.NewWriter(file)
	if err := Write(w, state, metadata); err != nil {
		return err
	}
	return w.Flush()
}

// ReadFile reads a file written by WriteFile.
func ReadFile(path string) (map[string]float64, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()

	return Read(bufio.NewReader(file))
}
