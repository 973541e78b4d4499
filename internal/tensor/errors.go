package tensor

import "github.com/pkg/errors"

// Error kinds returned by tensor operations. Use errors.Is to test for them.
var (
	// ErrInvalidArgument reports rank, shape or index-count mismatches,
	// incompatible reshape targets and out-of-range axes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports a flat or per-axis index outside the tensor.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidState reports an operation that needs an owning, contiguous
	// tensor being invoked on a view or a non-contiguous tensor.
	ErrInvalidState = errors.New("invalid state")

	// ErrShape reports shapes that cannot be broadcast together.
	// It wraps ErrInvalidArgument, so errors.Is matches both.
	ErrShape = errors.Wrap(ErrInvalidArgument, "incompatible shapes")
)
