package tensor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// PrintKind selects which buffer printing helpers read from.
type PrintKind int

// Buffers readable by printing helpers.
const (
	PrintData PrintKind = iota
	PrintGrad
)

// String returns a human-readable buffer name.
func (k PrintKind) String() string {
	if k == PrintGrad {
		return "grad"
	}
	return "data"
}

// Read returns the value at indices from the buffer selected by kind.
func (t *Tensor) Read(kind PrintKind, indices ...int) (float32, error) {
	if kind == PrintGrad {
		return t.GradAt(indices...)
	}
	return t.At(indices...)
}

// Format renders the selected buffer.
// Rank-1 tensors print as [a, b, c], rank-2 tensors print one row per line,
// and any other rank prints all elements flattened in row-major order.
func (t *Tensor) Format(kind PrintKind) string {
	buf := t.data
	if kind == PrintGrad {
		buf = t.grad
	}
	value := func(index []int) string {
		return strconv.FormatFloat(float64(buf[t.offset+Offset(index, t.strides)]), 'g', -1, 32)
	}

	var sb strings.Builder
	if len(t.shape) == 2 {
		row := make([]string, t.shape[1])
		for i := 0; i < t.shape[0]; i++ {
			for j := range row {
				row[j] = value([]int{i, j})
			}
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString("[" + strings.Join(row, ", ") + "]")
		}
		return sb.String()
	}

	items := make([]string, 0, t.Size())
	ForEachIndex(t.shape, func(_ int, index []int) {
		items = append(items, value(index))
	})
	return "[" + strings.Join(items, ", ") + "]"
}

// Fprint writes Format(kind) followed by a newline.
func (t *Tensor) Fprint(w io.Writer, kind PrintKind) error {
	_, err := fmt.Fprintln(w, t.Format(kind))
	return err
}

// MetadataOptions selects the fields rendered by Metadata.
// The zero value prints the shape only.
type MetadataOptions struct {
	HideShape bool
	Strides   bool
	NDim      bool
	Size      bool
	OwnsData  bool
	Storage   bool // Bytes held by the value buffer
	Graph     bool // Label, op tag and kind
}

// MetadataField is a single rendered metadata entry.
type MetadataField struct {
	Name  string
	Value string
}

// MetadataFields returns the fields selected by opts, in a fixed order.
func (t *Tensor) MetadataFields(opts MetadataOptions) []MetadataField {
	var fields []MetadataField
	add := func(name, value string) {
		fields = append(fields, MetadataField{Name: name, Value: value})
	}

	if !opts.HideShape {
		add("Shape", formatInts(t.shape))
	}
	if opts.Strides {
		add("Strides", formatInts(t.strides))
	}
	if opts.NDim {
		add("NDim", strconv.Itoa(t.NDim()))
	}
	if opts.Size {
		add("Size", humanize.Comma(int64(t.Size())))
	}
	if opts.OwnsData {
		add("Owns Data", strconv.FormatBool(t.owns))
	}
	if opts.Storage {
		add("Storage", humanize.Bytes(uint64(len(t.data))*4))
	}
	if opts.Graph {
		add("Label", t.label)
		add("Op", t.op)
		add("Kind", t.kind.String())
	}
	return fields
}

// Metadata renders the fields selected by opts, one "Name: value" per line.
func (t *Tensor) Metadata(opts MetadataOptions) string {
	fields := t.MetadataFields(opts)
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Name + ": " + f.Value
	}
	return strings.Join(lines, "\n")
}

// formatInts renders a shape or stride vector as (a, b, c).
func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
