package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// entry is a tensor's byte region inside the data section.
type entry struct {
	name   string
	offset int64
	size   int64
}

// ValidateTensorName rejects empty names, names that are too long and names
// that could be taken for paths.
func ValidateTensorName(name string) error {
	if name == "" || name == metadataKey {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "reserved or empty name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains '..'"}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains path separator (/ or \\)"}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// validateOffsets checks for negative, out-of-bounds and overlapping regions.
func validateOffsets(entries []entry, dataSize int64) error {
	if len(entries) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(entries), MaxTensorCount),
		}
	}

	sorted := append([]entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].offset < sorted[j].offset
	})

	for i, e := range sorted {
		if e.offset < 0 || e.size < 0 {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  e.name,
				Details: fmt.Sprintf("offset=%d, size=%d", e.offset, e.size),
			}
		}
		if e.offset+e.size > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  e.name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", e.offset, e.size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if e.offset+e.size > next.offset {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  e.name,
					Tensor2: next.name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						e.offset, e.offset+e.size, next.offset, next.offset+next.size),
				}
			}
		}
	}
	return nil
}
