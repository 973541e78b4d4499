package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a tensor's role in the autograd graph.
// It is fixed when the tensor is created.
type Kind int

// Graph roles.
const (
	// Leaf tensors are created by the user; they have no parents.
	Leaf Kind = iota
	// Derived tensors are produced by an operation and carry a Node.
	Derived
	// Detached tensors (views and clones) never propagate gradients to a source.
	Detached
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Derived:
		return "derived"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Tensor is a shaped, strided handle to float32 storage.
//
// A tensor either owns its storage (allocated at construction) or is a view
// borrowing a region of another tensor's storage, starting at offset. Views are
// produced only by Slice; the garbage collector keeps the shared storage alive
// for as long as any view references it.
//
// Every tensor carries a gradient buffer of the same length as its storage,
// addressed with the same offset and strides as the values. A view's gradient
// buffer is private to the view.
type Tensor struct {
	data    []float32 // Values (shared with views)
	grad    []float32 // Gradient accumulator, len(grad) == len(data)
	shape   Shape
	strides []int
	offset  int  // Start of this tensor's region inside data
	owns    bool // Whether data was allocated by this tensor
	kind    Kind
	label   string
	op      string
	node    Node // Non-nil only for Derived tensors
}

// Option configures a tensor at construction.
type Option func(*Tensor)

// WithLabel attaches a human-readable label, used by printing helpers.
func WithLabel(label string) Option {
	return func(t *Tensor) {
		t.label = label
	}
}

// New creates an owning, zero-initialized leaf tensor.
//
// Example:
//
//	a, err := tensor.New(tensor.Shape{2, 3}, tensor.WithLabel("a"))
func New(shape Shape, opts ...Option) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	t := newOwned(shape, Leaf)
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// FromSlice creates an owning leaf tensor holding a copy of data.
func FromSlice(data []float32, shape Shape, opts ...Option) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid shape")
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Wrapf(ErrInvalidArgument, "shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}
	t := newOwned(shape, Leaf)
	copy(t.data, data)
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// NewDerived allocates the owning result of an operation and attaches node,
// whose parents become the tensor's parents.
// The shape must come from already-validated operands.
func NewDerived(shape Shape, node Node) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("NewDerived: %v", err))
	}
	t := newOwned(shape, Derived)
	t.node = node
	t.op = node.Op()
	return t
}

// newOwned allocates storage and gradient buffers for shape.
func newOwned(shape Shape, kind Kind) *Tensor {
	n := shape.NumElements()
	return &Tensor{
		data:    make([]float32, n),
		grad:    make([]float32, n),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		owns:    true,
		kind:    kind,
	}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's memory strides.
func (t *Tensor) Strides() []int {
	return t.strides
}

// NDim returns the number of axes.
func (t *Tensor) NDim() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return t.shape.NumElements()
}

// Offset returns the position of element [0, 0, ...] inside Data().
func (t *Tensor) Offset() int {
	return t.offset
}

// OwnsData reports whether the tensor owns its storage (false for views).
func (t *Tensor) OwnsData() bool {
	return t.owns
}

// Data returns the full backing storage, shared with any views.
// Element [i, j, ...] lives at Offset() + Σ index·stride.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Grad returns the full gradient buffer, addressed like Data().
func (t *Tensor) Grad() []float32 {
	return t.grad
}

// Label returns the tensor's label.
func (t *Tensor) Label() string {
	return t.label
}

// SetLabel sets the tensor's label.
func (t *Tensor) SetLabel(label string) {
	t.label = label
}

// Op returns the tag of the operation that produced the tensor.
// Leaves have an empty tag.
func (t *Tensor) Op() string {
	return t.op
}

// Kind returns the tensor's role in the autograd graph.
func (t *Tensor) Kind() Kind {
	return t.kind
}

// IsContiguous reports whether the strides equal the canonical row-major
// strides of the current shape.
func (t *Tensor) IsContiguous() bool {
	return stridesEqual(t.strides, t.shape.ComputeStrides())
}

// isBase reports whether flat indexing and in-place layout changes are allowed.
func (t *Tensor) isBase() bool {
	return t.owns && t.IsContiguous()
}

// offsetOf converts a multi-index into a position inside data.
func (t *Tensor) offsetOf(indices []int) (int, error) {
	if len(indices) != len(t.shape) {
		return 0, errors.Wrapf(ErrInvalidArgument, "expected %d indices, got %d", len(t.shape), len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, errors.Wrapf(ErrOutOfRange, "index %d out of bounds for dimension %d (size %d)",
				idx, i, t.shape[i])
		}
	}
	return t.offset + Offset(indices, t.strides), nil
}

// flatOffset validates a flat index against an owning, contiguous tensor.
func (t *Tensor) flatOffset(index int) (int, error) {
	if index < 0 || index >= t.Size() {
		return 0, errors.Wrapf(ErrOutOfRange, "flat index %d out of bounds (size %d)", index, t.Size())
	}
	if !t.isBase() {
		return 0, errors.Wrap(ErrInvalidState, "flat indexing is only valid on owning, contiguous tensors")
	}
	return index, nil
}

// At returns the element at the given indices.
//
// Example:
//
//	v, err := t.At(1, 2) // Row 1, column 2
func (t *Tensor) At(indices ...int) (float32, error) {
	off, err := t.offsetOf(indices)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// Set sets the element at the given indices.
func (t *Tensor) Set(value float32, indices ...int) error {
	off, err := t.offsetOf(indices)
	if err != nil {
		return err
	}
	t.data[off] = value
	return nil
}

// GradAt returns the accumulated gradient at the given indices.
func (t *Tensor) GradAt(indices ...int) (float32, error) {
	off, err := t.offsetOf(indices)
	if err != nil {
		return 0, err
	}
	return t.grad[off], nil
}

// AtFlat returns the element at a flat row-major index.
// Only valid on owning, contiguous tensors.
func (t *Tensor) AtFlat(index int) (float32, error) {
	off, err := t.flatOffset(index)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// SetFlat sets the element at a flat row-major index.
// Only valid on owning, contiguous tensors.
func (t *Tensor) SetFlat(index int, value float32) error {
	off, err := t.flatOffset(index)
	if err != nil {
		return err
	}
	t.data[off] = value
	return nil
}

// String returns a short description of the tensor.
func (t *Tensor) String() string {
	name := t.label
	if name == "" {
		name = "Tensor"
	}
	if t.op != "" {
		return fmt.Sprintf("%s%v (op=%s)", name, []int(t.shape), t.op)
	}
	return fmt.Sprintf("%s%v", name, []int(t.shape))
}
