// Package vecmath содержит векторные и матричные примитивы ядра поверх go-gl/mathgl.
package vecmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vec трехкомпонентный вектор. Значимый тип: все операции возвращают новое значение.
type Vec = mgl64.Vec3

var (
	VecZero = Vec{0, 0, 0}
	VecX    = Vec{1, 0, 0}
	VecY    = Vec{0, 1, 0}
	VecZ    = Vec{0, 0, 1}
)

// NewVec создает вектор из компонент
func NewVec(x, y, z float64) Vec {
	return Vec{x, y, z}
}

// VecEqual покомпонентное точное сравнение.
// Используется для подавления повторных публикаций одного и того же значения.
func VecEqual(a, b Vec) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}

// XYZArray возвращает вектор в виде float32-массива для GPU-биндинга
func XYZArray(v Vec) []float32 {
	return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
