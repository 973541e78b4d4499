package ops

import (
	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
)

// MatMulOp represents a matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
//
// Where @ denotes matrix multiplication and ^T denotes transpose. Both
// products are accumulated element by element, honoring operand strides.
type MatMulOp struct {
	a, b    *tensor.Tensor
	m, k, n int
	ma, mb  matrix // Operand layouts at forward time
}

// matrix addresses a rank-2 tensor through its offset and strides.
type matrix struct {
	base, rowStride, colStride int
}

func matrixOf(t *tensor.Tensor) matrix {
	s := t.Strides()
	return matrix{base: t.Offset(), rowStride: s[0], colStride: s[1]}
}

func (m matrix) at(i, j int) int {
	return m.base + i*m.rowStride + j*m.colStride
}

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N). Other ranks or mismatched inner
// dimensions fail with ErrInvalidArgument.
func MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument,
			"matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n)
	}

	ma, mb := matrixOf(a), matrixOf(b)
	op := &MatMulOp{a: a, b: b, m: m, k: k, n: n, ma: ma, mb: mb}
	out := tensor.NewDerived(tensor.Shape{m, n}, op)

	ad, bd, od := a.Data(), b.Data(), out.Data()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += ad[ma.at(i, kIdx)] * bd[mb.at(kIdx, j)]
			}
			od[i*n+j] = sum
		}
	}
	return out, nil
}

// Op returns the operation tag.
func (op *MatMulOp) Op() string {
	return "matmul"
}

// Parents returns the operands [a, b].
func (op *MatMulOp) Parents() []*tensor.Tensor {
	return []*tensor.Tensor{op.a, op.b}
}

// Backward accumulates outputGrad @ B^T into a and A^T @ outputGrad into b.
func (op *MatMulOp) Backward(out *tensor.Tensor) {
	m, k, n := op.m, op.k, op.n
	ma, mb := op.ma, op.mb
	ad, bd := op.a.Data(), op.b.Data()
	g, ga, gb := out.Grad(), op.a.Grad(), op.b.Grad()

	// grad_a[i,k] += Σ_j g[i,j] * b[k,j]
	for i := 0; i < m; i++ {
		for kIdx := 0; kIdx < k; kIdx++ {
			var sum float32
			for j := 0; j < n; j++ {
				sum += g[i*n+j] * bd[mb.at(kIdx, j)]
			}
			ga[ma.at(i, kIdx)] += sum
		}
	}

	// grad_b[k,j] += Σ_i a[i,k] * g[i,j]
	for kIdx := 0; kIdx < k; kIdx++ {
		for j := 0; j < n; j++ {
			var sum float32
			for i := 0; i < m; i++ {
				sum += ad[ma.at(i, kIdx)] * g[i*n+j]
			}
			gb[mb.at(kIdx, j)] += sum
		}
	}
}
