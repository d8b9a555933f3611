package vecmath

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Matrix неизменяемый снимок матрицы 4x4 (column-major), готовый к загрузке в GPU.
// Индексы 12-14 содержат перенос.
type Matrix struct {
	m mgl32.Mat4
}

// Identity единичная матрица
var Identity = Matrix{m: mgl32.Ident4()}

// MatrixFrom создает снимок из плоского массива в column-major порядке
func MatrixFrom(values [16]float32) Matrix {
	return Matrix{m: mgl32.Mat4(values)}
}

// Array возвращает копию 16 значений
func (m Matrix) Array() [16]float32 {
	return [16]float32(m.m)
}

// Slice возвращает значения в виде среза для биндинга
func (m Matrix) Slice() []float32 {
	out := make([]float32, 16)
	copy(out, m.m[:])
	return out
}

// Translation возвращает столбец переноса
func (m Matrix) Translation() Vec {
	return Vec{float64(m.m[12]), float64(m.m[13]), float64(m.m[14])}
}

// WithTranslation возвращает копию, в которой перезаписан только столбец переноса
func (m Matrix) WithTranslation(v Vec) Matrix {
	out := m
	out.m[12] = float32(v[0])
	out.m[13] = float32(v[1])
	out.m[14] = float32(v[2])
	return out
}

// Mat4 возвращает матрицу в двойной точности
func (m Matrix) Mat4() mgl64.Mat4 {
	var out mgl64.Mat4
	for i, f := range m.m {
		out[i] = float64(f)
	}
	return out
}

// Equal точное сравнение всех 16 элементов
func (m Matrix) Equal(o Matrix) bool {
	return m.m == o.m
}

// Builder изменяемый аккумулятор преобразования.
// Каждый поворот применяется после уже накопленного преобразования.
type Builder struct {
	m mgl64.Mat4
}

// NewBuilder создает аккумулятор с единичной матрицей
func NewBuilder() *Builder {
	return &Builder{m: mgl64.Ident4()}
}

// Reset сбрасывает аккумулятор в единичную матрицу
func (b *Builder) Reset() {
	b.m = mgl64.Ident4()
}

// Set заменяет накопленное преобразование
func (b *Builder) Set(m mgl64.Mat4) {
	b.m = m
}

// RotateX поворот вокруг горизонтальной оси
func (b *Builder) RotateX(angle float64) {
	b.m = mgl64.HomogRotate3DX(angle).Mul4(b.m)
}

// RotateY поворот вокруг вертикальной оси
func (b *Builder) RotateY(angle float64) {
	b.m = mgl64.HomogRotate3DY(angle).Mul4(b.m)
}

// LeftMultiply умножает слева: M = m * M
func (b *Builder) LeftMultiply(m mgl64.Mat4) {
	b.m = m.Mul4(b.m)
}

// MultVec преобразует направление (w = 0), перенос не учитывается
func (b *Builder) MultVec(v Vec) Vec {
	return b.m.Mul4x1(v.Vec4(0)).Vec3()
}

// Mat4 текущее накопленное преобразование
func (b *Builder) Mat4() mgl64.Mat4 {
	return b.m
}

// Snapshot фиксирует текущее состояние в неизменяемую float32-матрицу.
// Последующие изменения аккумулятора на снимок не влияют.
func (b *Builder) Snapshot() Matrix {
	var out mgl32.Mat4
	for i, f := range b.m {
		out[i] = float32(f)
	}
	return Matrix{m: out}
}
