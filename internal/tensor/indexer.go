package tensor

// Indexer walks every multi-index of a shape in row-major order.
//
// The last axis is incremented first; on overflow it resets to 0 and carries
// into the preceding axis. Forward kernels and backward passes both rely on
// this exact order so that the i-th visited index lines up with flat position
// i of a freshly allocated result.
//
// Example:
//
//	it := tensor.NewIndexer(tensor.Shape{2, 3})
//	for it.Next() {
//	    fmt.Println(it.Pos(), it.Index())
//	}
type Indexer struct {
	shape Shape
	index []int
	size  int
	pos   int
}

// NewIndexer creates an Indexer positioned before the first element.
func NewIndexer(shape Shape) *Indexer {
	return &Indexer{
		shape: shape,
		index: make([]int, len(shape)),
		size:  shape.NumElements(),
		pos:   -1,
	}
}

// Next advances to the next multi-index and reports whether one exists.
func (it *Indexer) Next() bool {
	if it.pos+1 >= it.size {
		it.pos = it.size
		return false
	}
	it.pos++
	if it.pos == 0 {
		return true
	}
	for dim := len(it.shape) - 1; dim >= 0; dim-- {
		it.index[dim]++
		if it.index[dim] < it.shape[dim] {
			break
		}
		it.index[dim] = 0
	}
	return true
}

// Index returns the current multi-index.
// The slice is reused between calls and must not be retained.
func (it *Indexer) Index() []int {
	return it.index
}

// Pos returns the number of indices visited before the current one.
func (it *Indexer) Pos() int {
	return it.pos
}

// ForEachIndex calls fn for every multi-index of shape in row-major order.
func ForEachIndex(shape Shape, fn func(pos int, index []int)) {
	it := NewIndexer(shape)
	for it.Next() {
		fn(it.pos, it.index)
	}
}
