package autodiff

import (
	"math"

	"github.com/ndgrad/ndgrad/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrGradientMismatch is returned by CheckGradient when the graph's gradient
// differs from the numerical estimate.
var ErrGradientMismatch = errors.New("gradient mismatch")

// Func rebuilds a graph from its inputs. It is evaluated many times by the
// gradient check, so it must not keep state between calls.
type Func func() (*tensor.Tensor, error)

// sumOf returns the sum of every element of x, in float64.
func sumOf(x *tensor.Tensor) float64 {
	var total float64
	data, base, strides := x.Data(), x.Offset(), x.Strides()
	tensor.ForEachIndex(x.Shape(), func(_ int, index []int) {
		total += float64(data[base+tensor.Offset(index, strides)])
	})
	return total
}

// NumericalGradient estimates d(sum f)/dx by central differences:
//
//	(sum f(x + eps) - sum f(x - eps)) / 2eps
//
// evaluated one element of x at a time. The values of x are restored before
// returning. The result is in row-major logical order of x.
func NumericalGradient(f Func, x *tensor.Tensor, eps float64) ([]float64, error) {
	if eps <= 0 {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "epsilon must be positive, got %g", eps)
	}

	grad := make([]float64, 0, x.Size())
	var err error
	evaluate := func(index []int, value float32) float64 {
		if err != nil {
			return 0
		}
		if err = x.Set(value, index...); err != nil {
			return 0
		}
		var out *tensor.Tensor
		if out, err = f(); err != nil {
			return 0
		}
		return sumOf(out)
	}

	tensor.ForEachIndex(x.Shape(), func(_ int, index []int) {
		if err != nil {
			return
		}
		orig, atErr := x.At(index...)
		if atErr != nil {
			err = atErr
			return
		}
		plus := evaluate(index, float32(float64(orig)+eps))
		minus := evaluate(index, float32(float64(orig)-eps))
		if setErr := x.Set(orig, index...); setErr != nil && err == nil {
			err = errors.WithMessage(setErr, "restoring original value")
		}
		grad = append(grad, (plus-minus)/(2*eps))
	})
	if err != nil {
		return nil, errors.WithMessage(err, "numerical gradient")
	}
	return grad, nil
}

// AnalyticGradient runs f once, back-propagates from its result and returns
// x's gradient in row-major logical order. x's gradient buffer is cleared
// first.
func AnalyticGradient(f Func, x *tensor.Tensor) ([]float64, error) {
	x.ZeroGrad()
	out, err := f()
	if err != nil {
		return nil, errors.WithMessage(err, "analytic gradient")
	}
	out.Backward()

	g := logicalGrad(x)
	grad := make([]float64, len(g))
	for i, v := range g {
		grad[i] = float64(v)
	}
	return grad, nil
}

// CheckGradient compares AnalyticGradient with NumericalGradient.
// Each element must satisfy |analytic - numerical| <= tol * (1 + |numerical|).
// It returns the largest absolute difference, and an error wrapping
// ErrGradientMismatch when the tolerance is exceeded.
func CheckGradient(f Func, x *tensor.Tensor, eps, tol float64) (float64, error) {
	analytic, err := AnalyticGradient(f, x)
	if err != nil {
		return 0, err
	}
	numerical, err := NumericalGradient(f, x, eps)
	if err != nil {
		return 0, err
	}

	diff := make([]float64, len(analytic))
	floats.SubTo(diff, analytic, numerical)
	maxDiff := 0.0
	if len(diff) > 0 {
		maxDiff = floats.Norm(diff, math.Inf(1))
	}

	for i, d := range diff {
		if math.IsNaN(d) || math.Abs(d) > tol*(1+math.Abs(numerical[i])) {
			return maxDiff, errors.Wrapf(ErrGradientMismatch,
				"element %d: analytic %g, numerical %g", i, analytic[i], numerical[i])
		}
	}
	return maxDiff, nil
}
