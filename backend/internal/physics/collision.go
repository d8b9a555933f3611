package physics

import (
	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

// Contact результат проверки столкновения шарика с поверхностью
type Contact struct {
	Position vecmath.Vec // скорректированная позиция
	Velocity vecmath.Vec // скорректированная скорость

	Collided   bool
	Degenerate bool        // центр шарика совпал с точкой поверхности
	Nearest    vecmath.Vec // ближайшая точка поверхности
	Direction  vecmath.Vec // единичный вектор от центра шарика к поверхности
	Depth      float64     // глубина проникновения (radius - distance)
}

// Resolver разрешает столкновения шарика с поверхностью через оракул ближайшей точки
type Resolver struct {
	Oracle  fractal.Oracle
	Bounce  float64
	Epsilon float64
}

// NewResolver создает резолвер с параметрами из текущей конфигурации физики
func NewResolver(oracle fractal.Oracle) *Resolver {
	cfg := GetPhysicsConfig()
	return &Resolver{
		Oracle:  oracle,
		Bounce:  cfg.Bounce,
		Epsilon: cfg.ContactEpsilon,
	}
}

// Resolve запрашивает у оракула ближайшую точку и корректирует позицию и скорость
func (r *Resolver) Resolve(shape fractal.ShapeParams, p, v vecmath.Vec, radius float64) Contact {
	nearest := r.Oracle.NearestPoint(shape, p)
	return ResolveAgainst(nearest, p, v, radius, r.Bounce, r.Epsilon)
}

// ResolveAgainst чистая часть резолвера для уже известной ближайшей точки.
//
// Если расстояние больше радиуса, позиция и скорость не меняются. Иначе шарик
// выталкивается так, чтобы до точки поверхности было ровно radius, а из скорости
// вычитается dot(v, direction)*bounce вдоль направления на поверхность.
//
// При distance <= epsilon направление не определено. Тогда за направление
// берется нормированная скорость (шарик движется в поверхность), а при нулевой
// скорости коррекция пропускается.
func ResolveAgainst(nearest, p, v vecmath.Vec, radius, bounce, epsilon float64) Contact {
	c := Contact{Position: p, Velocity: v, Nearest: nearest}

	delta := nearest.Sub(p)
	distance := delta.Len()
	// NaN от оракула тоже считается отсутствием столкновения
	if !(distance <= radius) {
		return c
	}

	var direction vecmath.Vec
	if distance <= epsilon {
		c.Degenerate = true
		speed := v.Len()
		if speed == 0 {
			return c
		}
		direction = v.Mul(1 / speed)
	} else {
		direction = delta.Mul(1 / distance)
	}

	dv := v.Dot(direction)

	c.Collided = true
	c.Direction = direction
	c.Depth = radius - distance
	c.Position = p.Sub(direction.Mul(radius).Sub(delta))
	c.Velocity = v.Sub(direction.Mul(dv * bounce))
	return c
}
