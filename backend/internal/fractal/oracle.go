package fractal

import (
	"math"

	"fractal-marble/backend/internal/vecmath"
)

// Oracle возвращает ближайшую к p точку поверхности для текущих параметров формы.
// Реализации должны быть чистыми функциями без побочных эффектов.
type Oracle interface {
	NearestPoint(shape ShapeParams, p vecmath.Vec) vecmath.Vec
}

// OracleFunc адаптер обычной функции к Oracle
type OracleFunc func(shape ShapeParams, p vecmath.Vec) vecmath.Vec

// NearestPoint вызывает обернутую функцию
func (f OracleFunc) NearestPoint(shape ShapeParams, p vecmath.Vec) vecmath.Vec {
	return f(shape, p)
}

// FarAway точка, расстояние до которой бесконечно: столкновения с ней не бывает
var FarAway = vecmath.NewVec(math.Inf(1), math.Inf(1), math.Inf(1))

// FixedPoint поверхность, сжатая в одну точку
type FixedPoint struct {
	Point vecmath.Vec
}

func (f FixedPoint) NearestPoint(_ ShapeParams, _ vecmath.Vec) vecmath.Vec {
	return f.Point
}

// Plane бесконечная плоскость через точку с нормалью.
// Параметры формы сдвигают плоскость на Offset и масштабируют расстояние до точки опоры.
type Plane struct {
	Point  vecmath.Vec
	Normal vecmath.Vec
}

func (pl Plane) NearestPoint(shape ShapeParams, p vecmath.Vec) vecmath.Vec {
	n := pl.Normal
	if n.Len() == 0 {
		n = vecmath.VecY
	}
	n = n.Normalize()

	origin := pl.Point.Add(shape.Offset)
	d := p.Sub(origin).Dot(n)
	return p.Sub(n.Mul(d))
}

// Sphere шар-планета. Радиус умножается на Scale формы, центр сдвигается на Offset.
type Sphere struct {
	Center vecmath.Vec
	Radius float64
}

func (s Sphere) NearestPoint(shape ShapeParams, p vecmath.Vec) vecmath.Vec {
	scale := shape.Scale
	if scale == 0 {
		scale = 1
	}
	center := s.Center.Add(shape.Offset)
	radius := s.Radius * scale

	dir := p.Sub(center)
	if dir.Len() == 0 {
		// Центр шара: любая точка поверхности одинаково близка
		return center.Add(vecmath.VecY.Mul(radius))
	}
	return center.Add(dir.Normalize().Mul(radius))
}
