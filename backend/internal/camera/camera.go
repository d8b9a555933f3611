// Package camera строит матрицу камеры по позиции шарика и смещению взгляда.
package camera

import (
	"fractal-marble/backend/internal/vecmath"
)

// LiftFactor доля дистанции, на которую камера поднимается над линией взгляда
const LiftFactor = 0.1

// Offset смещение взгляда игрока: X - рыскание, Y - тангаж, Z - множитель дистанции
type Offset = vecmath.Vec

// NewOffset создает смещение взгляда
func NewOffset(yaw, pitch, distance float64) Offset {
	return vecmath.NewVec(yaw, pitch, distance)
}

// Build вычисляет матрицу камеры:
// identity -> RotateX(pitch) -> RotateY(yaw) -> LeftMultiply(world), снимок поворота,
// затем позиция = marble + R*Z*distance + R*Y*distance*0.1 в столбце переноса.
func Build(b *vecmath.Builder, world vecmath.Matrix, marble vecmath.Vec, radius float64, offset Offset) vecmath.Matrix {
	b.Reset()
	b.RotateX(offset[1])
	b.RotateY(offset[0])
	b.LeftMultiply(world.Mat4())

	mat := b.Snapshot()
	if radius == 0 {
		// Без радиуса камера стоит в точке шарика при любой дистанции
		return mat.WithTranslation(marble)
	}

	distance := radius * offset[2]

	pos := marble
	pos = pos.Add(b.MultVec(vecmath.VecZ).Mul(distance))
	pos = pos.Add(b.MultVec(vecmath.VecY).Mul(distance * LiftFactor))

	return mat.WithTranslation(pos)
}

// MarbleCamera камера, привязанная к шарику. Матрица пересчитывается
// только при изменении входов: позиции, смещения, мировой матрицы или радиуса.
type MarbleCamera struct {
	builder *vecmath.Builder

	valid  bool
	world  vecmath.Matrix
	marble vecmath.Vec
	radius float64
	offset Offset
	matrix vecmath.Matrix

	recomputes uint64
}

// NewMarbleCamera создает камеру шарика
func NewMarbleCamera() *MarbleCamera {
	return &MarbleCamera{builder: vecmath.NewBuilder()}
}

// Matrix возвращает матрицу камеры и признак пересчета
func (c *MarbleCamera) Matrix(world vecmath.Matrix, marble vecmath.Vec, radius float64, offset Offset) (vecmath.Matrix, bool) {
	if c.valid &&
		c.radius == radius &&
		vecmath.VecEqual(c.marble, marble) &&
		vecmath.VecEqual(c.offset, offset) &&
		c.world.Equal(world) {
		return c.matrix, false
	}

	c.matrix = Build(c.builder, world, marble, radius, offset)
	c.world, c.marble, c.radius, c.offset = world, marble, radius, offset
	c.valid = true
	c.recomputes++
	return c.matrix, true
}

// Recomputes сколько раз матрица была пересчитана
func (c *MarbleCamera) Recomputes() uint64 {
	return c.recomputes
}

// Invalidate сбрасывает кэш
func (c *MarbleCamera) Invalidate() {
	c.valid = false
}

// Orbit камера вокруг цели без дистанции: единичная мировая матрица и нулевой радиус,
// поэтому камера всегда стоит в точке цели и задает только поворот.
func Orbit(c *MarbleCamera, target vecmath.Vec, offset Offset) (vecmath.Matrix, bool) {
	return c.Matrix(vecmath.Identity, target, 0, offset)
}

// Free свободная камера: готовая матрица передается без изменений
func Free(matrix vecmath.Matrix) vecmath.Matrix {
	return matrix
}
