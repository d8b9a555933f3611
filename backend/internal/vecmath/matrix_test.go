package vecmath

import (
	"math"
	"testing"
)

func approxVec(a, b Vec, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps && math.Abs(a[2]-b[2]) <= eps
}

func TestVecEqual(t *testing.T) {
	if !VecEqual(NewVec(1, 2, 3), Vec{1, 2, 3}) {
		t.Error("одинаковые векторы должны быть равны")
	}
	if VecEqual(NewVec(1, 2, 3), NewVec(1, 2, 3.0000001)) {
		t.Error("сравнение должно быть точным")
	}
}

func TestBuilderSnapshotIsIndependent(t *testing.T) {
	b := NewBuilder()
	snap := b.Snapshot()
	if !snap.Equal(Identity) {
		t.Fatalf("expected identity snapshot, got %v", snap.Array())
	}

	b.RotateY(math.Pi / 2)
	if !snap.Equal(Identity) {
		t.Error("снимок не должен меняться вместе с аккумулятором")
	}
}

func TestBuilderRotationOrder(t *testing.T) {
	// Поворот на 90° вокруг Y переводит Z в X
	b := NewBuilder()
	b.RotateY(math.Pi / 2)
	got := b.MultVec(VecZ)
	if !approxVec(got, VecX, 1e-12) {
		t.Errorf("RotateY(pi/2)*Z: expected %v, got %v", VecX, got)
	}

	// Сначала X, затем Y: композиция должна совпасть с явным LeftMultiply
	b.Reset()
	b.RotateX(math.Pi / 2)
	b.RotateY(math.Pi / 2)
	composed := b.Mat4()

	manual := NewBuilder()
	manual.RotateX(math.Pi / 2)
	ry := NewBuilder()
	ry.RotateY(math.Pi / 2)
	manual.LeftMultiply(ry.Mat4())

	if !composed.ApproxEqual(manual.Mat4()) {
		t.Errorf("RotateY после RotateX должен совпадать с LeftMultiply(Ry)")
	}
}

func TestMultVecIgnoresTranslation(t *testing.T) {
	b := NewBuilder()
	b.LeftMultiply(MatrixFrom([16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		5, 6, 7, 1,
	}).Mat4())

	if got := b.MultVec(VecY); !VecEqual(got, VecY) {
		t.Errorf("expected direction unaffected by translation, got %v", got)
	}
}

func TestWithTranslationOnlyTouchesColumn(t *testing.T) {
	b := NewBuilder()
	b.RotateX(0.3)
	base := b.Snapshot()
	moved := base.WithTranslation(NewVec(1, 2, 3))

	before, after := base.Array(), moved.Array()
	for i := 0; i < 16; i++ {
		if i >= 12 && i <= 14 {
			continue
		}
		if before[i] != after[i] {
			t.Errorf("element %d changed: %v -> %v", i, before[i], after[i])
		}
	}
	if got := moved.Translation(); !VecEqual(got, NewVec(1, 2, 3)) {
		t.Errorf("expected translation (1,2,3), got %v", got)
	}
	if got := base.Translation(); !VecEqual(got, VecZero) {
		t.Errorf("исходный снимок изменился: %v", got)
	}
}

func TestXYZArray(t *testing.T) {
	arr := XYZArray(NewVec(1.5, -2, 0.25))
	if len(arr) != 3 || arr[0] != 1.5 || arr[1] != -2 || arr[2] != 0.25 {
		t.Errorf("unexpected array %v", arr)
	}
}
