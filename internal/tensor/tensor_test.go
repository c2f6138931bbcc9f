package tensor_test

import (
	"testing"

	"github.com/orthonet-ml/orthonet/internal/backend/cpu"
	"github.com/orthonet-ml/orthonet/internal/tensor"
)

func TestZerosAndOnes(t *testing.T) {
	backend := cpu.New()

	z := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	for i, v := range z.Data() {
		if v != 0 {
			t.Fatalf("Zeros: element %d = %f", i, v)
		}
	}

	o := tensor.Ones[float64](tensor.Shape{4}, backend)
	for i, v := range o.Data() {
		if v != 1 {
			t.Fatalf("Ones: element %d = %f", i, v)
		}
	}
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	data := []float32{1, 2, 3, 4, 5, 6}
	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %f, want 6", x.At(1, 2))
	}

	if _, err := tensor.FromSlice(data, tensor.Shape{2, 2}, backend); err == nil {
		t.Error("mismatched shape accepted")
	}
}

func TestAtSet(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{3, 3}, backend)
	x.Set(7, 1, 2)
	if x.At(1, 2) != 7 {
		t.Errorf("At(1,2) = %f after Set", x.At(1, 2))
	}
	if x.Data()[5] != 7 {
		t.Errorf("flat element 5 = %f, want 7", x.Data()[5])
	}
}

func TestEye(t *testing.T) {
	backend := cpu.New()

	id := tensor.Eye[float32](3, backend)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if id.At(i, j) != want {
				t.Errorf("Eye(%d,%d) = %f, want %f", i, j, id.At(i, j), want)
			}
		}
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()

	x := tensor.Full(tensor.Shape{2, 2}, float32(2), backend)
	total := x.Sum()
	if got := total.Item(); got != 8 {
		t.Errorf("Sum().Item() = %f, want 8", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Item() on non-scalar did not panic")
		}
	}()
	x.Item()
}

func TestCloneSharesBuffer(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	if !x.Raw().IsUnique() {
		t.Error("fresh tensor should own its buffer")
	}

	y := x.Clone()
	if x.Raw().IsUnique() || y.Raw().IsUnique() {
		t.Error("clone should share the buffer via refcount")
	}

	// Direct writes go through the shared buffer; backends use IsUnique to
	// decide when in-place reuse is safe.
	y.Set(5, 0, 0)
	if x.At(0, 0) != 5 {
		t.Errorf("shared buffer write not visible: %f", x.At(0, 0))
	}

	y.Raw().Release()
	if !x.Raw().IsUnique() {
		t.Error("releasing the clone should restore unique ownership")
	}
}

func TestReshapeAndTranspose(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	r := x.Reshape(3, 2)
	if !r.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Reshape shape = %v", r.Shape())
	}
	if r.At(2, 1) != 6 {
		t.Errorf("Reshape At(2,1) = %f, want 6", r.At(2, 1))
	}

	tr := x.T()
	if !tr.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("T shape = %v", tr.Shape())
	}
	if tr.At(2, 0) != 3 || tr.At(0, 1) != 4 {
		t.Errorf("T values wrong: At(2,0)=%f At(0,1)=%f", tr.At(2, 0), tr.At(0, 1))
	}
}
