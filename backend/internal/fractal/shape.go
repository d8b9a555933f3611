// Package fractal описывает параметры поверхности фрактала и порт запроса ближайшей точки.
package fractal

import (
	"math"

	"fractal-marble/backend/internal/vecmath"
)

// AnimationFrequency угловая частота анимации формы (рад/с)
const AnimationFrequency = 0.9

// ShapeConfig статическая конфигурация формы уровня
type ShapeConfig struct {
	Scale  float64     `json:"scale"`
	Angle1 float64     `json:"angle1"`
	Angle2 float64     `json:"angle2"`
	Offset vecmath.Vec `json:"offset"`

	// Animation коэффициенты анимации: X -> angle1, Y -> angle2, Z -> offset.y
	Animation vecmath.Vec `json:"animation"`
}

// ShapeParams текущие параметры поверхности. Пересчитываются каждый кадр, не изменяются.
type ShapeParams struct {
	Scale  float64     `json:"scale"`
	Angle1 float64     `json:"angle1"`
	Angle2 float64     `json:"angle2"`
	Offset vecmath.Vec `json:"offset"`
}

// Animate возвращает base + coef*sin(t*0.9).
// При нулевом коэффициенте возвращается ровно base, без NaN и -0 от умножения.
func Animate(base, coef, t float64) float64 {
	if coef == 0 {
		return base
	}
	return base + coef*math.Sin(t*AnimationFrequency)
}

// Parameterize вычисляет параметры формы для момента времени t (секунды)
func Parameterize(cfg ShapeConfig, t float64) ShapeParams {
	return ShapeParams{
		Scale:  cfg.Scale,
		Angle1: Animate(cfg.Angle1, cfg.Animation[0], t),
		Angle2: Animate(cfg.Angle2, cfg.Animation[1], t),
		Offset: vecmath.NewVec(cfg.Offset[0], Animate(cfg.Offset[1], cfg.Animation[2], t), cfg.Offset[2]),
	}
}

// IsAnimated сообщает, меняется ли форма во времени
func (c ShapeConfig) IsAnimated() bool {
	return c.Animation[0] != 0 || c.Animation[1] != 0 || c.Animation[2] != 0
}

// Equal точное сравнение параметров
func (p ShapeParams) Equal(o ShapeParams) bool {
	return p.Scale == o.Scale && p.Angle1 == o.Angle1 && p.Angle2 == o.Angle2 &&
		vecmath.VecEqual(p.Offset, o.Offset)
}

// Parameterizer кэширует параметры формы.
// Для неанимированной формы значение вычисляется один раз, для анимированной при смене t.
type Parameterizer struct {
	cfg   ShapeConfig
	last  ShapeParams
	lastT float64
	valid bool
}

// NewParameterizer создает кэширующий параметризатор для конфигурации уровня
func NewParameterizer(cfg ShapeConfig) *Parameterizer {
	return &Parameterizer{cfg: cfg}
}

// At возвращает параметры для момента t и признак того, что они изменились
func (p *Parameterizer) At(t float64) (ShapeParams, bool) {
	if p.valid && (!p.cfg.IsAnimated() || t == p.lastT) {
		return p.last, false
	}

	next := Parameterize(p.cfg, t)
	changed := !p.valid || !next.Equal(p.last)
	p.last, p.lastT, p.valid = next, t, true
	return next, changed
}

// Config исходная конфигурация
func (p *Parameterizer) Config() ShapeConfig {
	return p.cfg
}
