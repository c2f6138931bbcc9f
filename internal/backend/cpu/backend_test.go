package cpu_test

import (
	"math"
	"testing"

	"github.com/orthonet-ml/orthonet/internal/backend/cpu"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *cpu.CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, cpu.New())
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return x
}

func assertClose(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Fatalf("element %d = %f, want %f (got %v)", i, got[i], want[i], got)
		}
	}
}

func TestElementwiseSameShape(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	assertClose(t, a.Add(b).Data(), []float32{11, 22, 33, 44}, 0)
	assertClose(t, b.Sub(a).Data(), []float32{9, 18, 27, 36}, 0)
	assertClose(t, a.Mul(b).Data(), []float32{10, 40, 90, 160}, 0)
	assertClose(t, b.Div(a).Data(), []float32{10, 10, 10, 10}, 1e-6)
}

func TestElementwiseBroadcast(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})
	col := fromSlice(t, []float32{100, 200}, tensor.Shape{2, 1})

	got := x.Add(row)
	if !got.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast shape = %v", got.Shape())
	}
	assertClose(t, got.Data(), []float32{11, 22, 33, 14, 25, 36}, 0)

	got = x.Add(col)
	assertClose(t, got.Data(), []float32{101, 102, 103, 204, 205, 206}, 0)

	// Lower-rank operand: [C] against [N, C].
	bias := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	got = x.Add(bias)
	assertClose(t, got.Data(), []float32{2, 4, 6, 5, 7, 9}, 0)
}

func TestScalarOps(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	assertClose(t, x.MulScalar(2).Data(), []float32{2, 4, 6, 8}, 0)
	assertClose(t, x.AddScalar(0.5).Data(), []float32{1.5, 2.5, 3.5, 4.5}, 0)
}

func TestSqrtAndRsqrt(t *testing.T) {
	x := fromSlice(t, []float32{1, 4, 9, 16}, tensor.Shape{4})

	assertClose(t, x.Sqrt().Data(), []float32{1, 2, 3, 4}, 1e-6)
	assertClose(t, x.Rsqrt().Data(), []float32{1, 0.5, 1.0 / 3.0, 0.25}, 1e-6)
}

func TestMatMul(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	got := a.MatMul(b)
	if !got.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MatMul shape = %v", got.Shape())
	}
	assertClose(t, got.Data(), []float32{58, 64, 139, 154}, 1e-5)
}

func TestSum(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	total := x.Sum()
	if len(total.Shape()) != 0 {
		t.Fatalf("Sum shape = %v, want scalar", total.Shape())
	}
	if total.Item() != 21 {
		t.Errorf("Sum = %f, want 21", total.Item())
	}
}

func TestSumDimAndMeanDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := x.SumDim(0, false)
	if !rows.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("SumDim(0) shape = %v", rows.Shape())
	}
	assertClose(t, rows.Data(), []float32{5, 7, 9}, 0)

	cols := x.SumDim(1, true)
	if !cols.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("SumDim(1, keep) shape = %v", cols.Shape())
	}
	assertClose(t, cols.Data(), []float32{6, 15}, 0)

	// Negative dim counts from the end.
	last := x.MeanDim(-1, false)
	assertClose(t, last.Data(), []float32{2, 5}, 1e-6)

	mean := x.MeanDim(0, true)
	if !mean.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("MeanDim(0, keep) shape = %v", mean.Shape())
	}
	assertClose(t, mean.Data(), []float32{2.5, 3.5, 4.5}, 1e-6)
}

func TestTransposeAxes(t *testing.T) {
	// NHWC → NCHW permutation round-trips values.
	x := fromSlice(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
	}, tensor.Shape{1, 2, 2, 2})

	p := x.Transpose(0, 3, 1, 2)
	if !p.Shape().Equal(tensor.Shape{1, 2, 2, 2}) {
		t.Fatalf("Transpose shape = %v", p.Shape())
	}
	if p.At(0, 1, 0, 1) != x.At(0, 0, 1, 1) {
		t.Errorf("permuted value mismatch: %f vs %f", p.At(0, 1, 0, 1), x.At(0, 0, 1, 1))
	}
}

func TestReLU(t *testing.T) {
	backend := cpu.New()
	x := fromSlice(t, []float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})

	got := backend.ReLU(x.Raw())
	out := tensor.New[float32](got, backend)
	assertClose(t, out.Data(), []float32{0, 0, 0, 0.5, 2}, 0)
}

func TestSigmoidAndTanh(t *testing.T) {
	backend := cpu.New()
	x := fromSlice(t, []float32{0}, tensor.Shape{1})

	sig := tensor.New[float32](backend.Sigmoid(x.Raw()), backend)
	assertClose(t, sig.Data(), []float32{0.5}, 1e-6)

	th := tensor.New[float32](backend.Tanh(x.Raw()), backend)
	assertClose(t, th.Data(), []float32{0}, 1e-6)
}
