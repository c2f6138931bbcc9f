package cpu_test

import (
	"testing"

	"github.com/orthonet-ml/orthonet/internal/backend/cpu"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

func TestConv2DKnownValues(t *testing.T) {
	backend := cpu.New()

	// 3×3 single-channel input, 2×2 all-ones kernel, stride 1, no padding.
	// Each output is the sum of a 2×2 window.
	input := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 3, 3, 1})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{2, 2, 1, 1})

	raw := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, 0, 0})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 2, 2, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{12, 16, 24, 28}, 1e-5)
}

func TestConv2DStride(t *testing.T) {
	backend := cpu.New()

	input := fromSlice(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 4, 4, 1})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{2, 2, 1, 1})

	raw := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{2, 2}, [4]int{0, 0, 0, 0})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 2, 2, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	// Non-overlapping 2×2 windows.
	assertClose(t, out.Data(), []float32{14, 22, 46, 54}, 1e-5)
}

func TestConv2DPadding(t *testing.T) {
	backend := cpu.New()

	// 1×1 input with a 3×3 kernel needs pad 1 on every side; the only
	// contribution is the kernel center.
	input := fromSlice(t, []float32{5}, tensor.Shape{1, 1, 1, 1})
	kernel := fromSlice(t, []float32{
		1, 2, 3,
		4, 10, 6,
		7, 8, 9,
	}, tensor.Shape{3, 3, 1, 1})

	raw := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{1, 1, 1, 1})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 1, 1, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{50}, 1e-5)
}

func TestConv2DMultiChannel(t *testing.T) {
	backend := cpu.New()

	// Two input channels, two filters, 1×1 kernel: a per-pixel matmul.
	input := fromSlice(t, []float32{
		1, 2, // pixel (0,0): c0=1, c1=2
		3, 4, // pixel (0,1)
	}, tensor.Shape{1, 1, 2, 2})
	// HWIO [1,1,2,2]: filter0 = [1, 10], filter1 = [100, 1000].
	kernel := fromSlice(t, []float32{1, 100, 10, 1000}, tensor.Shape{1, 1, 2, 2})

	raw := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, 0, 0})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{21, 2100, 43, 4300}, 1e-4)
}

func TestConv2DValidation(t *testing.T) {
	backend := cpu.New()
	input := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 3}, backend)
	kernel := tensor.Zeros[float32](tensor.Shape{3, 3, 5, 8}, backend)

	defer func() {
		if recover() == nil {
			t.Error("channel mismatch did not panic")
		}
	}()
	backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, 0, 0})
}

func TestConvTranspose2DUpsample(t *testing.T) {
	backend := cpu.New()

	// Stride-2 scatter of a 2×2 input with an all-ones 2×2 kernel tiles each
	// value into its own 2×2 block.
	input := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{2, 2, 1, 1})

	raw := backend.ConvTranspose2D(input.Raw(), kernel.Raw(), [2]int{2, 2}, [4]int{0, 0, 0, 0}, [2]int{4, 4})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 4, 4, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}, 1e-5)
}

func TestConvTranspose2DOverlap(t *testing.T) {
	backend := cpu.New()

	// Stride 1 with a 2×2 kernel overlaps neighboring scatters, so interior
	// outputs accumulate multiple contributions.
	input := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{2, 2, 1, 1})

	raw := backend.ConvTranspose2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, 0, 0}, [2]int{3, 3})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 3, 3, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{
		1, 3, 2,
		4, 10, 6,
		3, 7, 4,
	}, 1e-5)
}

func TestConvTranspose2DCrop(t *testing.T) {
	backend := cpu.New()

	// Same-padding crop: stride 2, 3×3 kernel, 2×2 input, out = in*stride.
	// Padding [0,1,0,1] trims the bottom and right rows of the full scatter.
	input := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	kernel := fromSlice(t, []float32{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	}, tensor.Shape{3, 3, 1, 1})

	raw := backend.ConvTranspose2D(input.Raw(), kernel.Raw(), [2]int{2, 2}, [4]int{0, 1, 0, 1}, [2]int{4, 4})
	out := tensor.New[float32](raw, backend)

	if !out.Shape().Equal(tensor.Shape{1, 4, 4, 1}) {
		t.Fatalf("output shape = %v", out.Shape())
	}
	assertClose(t, out.Data(), []float32{
		1, 1, 3, 2,
		1, 1, 3, 2,
		4, 4, 10, 6,
		3, 3, 7, 4,
	}, 1e-5)
}
