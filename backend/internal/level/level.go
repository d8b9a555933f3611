// Package level содержит статическую конфигурацию уровней.
package level

import (
	"errors"
	"fmt"
	"math"

	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/physics"
	"fractal-marble/backend/internal/vecmath"
)

// FlagReachFactor во сколько радиусов шарика от флага уровень считается пройденным
const FlagReachFactor = 2.0

// Data конфигурация уровня. Ядро ее только читает.
type Data struct {
	Name  string              `json:"name"`
	Shape fractal.ShapeConfig `json:"shape"`
	Color vecmath.Vec         `json:"color"`

	MarbleRadius       float64     `json:"marble_radius"`
	MarblePosition     vecmath.Vec `json:"marble_position"`
	StartLookDirection float64     `json:"start_look_direction"`

	FlagPosition vecmath.Vec `json:"flag_position"`
	IsPlanet     bool        `json:"is_planet"`
}

// Validate проверяет конфигурацию уровня
func (d Data) Validate() error {
	if d.Name == "" {
		return errors.New("level name is empty")
	}
	if !(d.MarbleRadius > 0) || math.IsInf(d.MarbleRadius, 0) {
		return fmt.Errorf("level %q: marble radius must be positive, got %v", d.Name, d.MarbleRadius)
	}
	for _, f := range d.MarblePosition {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("level %q: marble position is not finite: %v", d.Name, d.MarblePosition)
		}
	}
	if d.Shape.Scale == 0 {
		return fmt.Errorf("level %q: shape scale is zero", d.Name)
	}
	return nil
}

// MarbleParams параметры для шага симуляции шарика
func (d Data) MarbleParams() physics.MarbleParams {
	return physics.MarbleParams{
		Radius:             d.MarbleRadius,
		StartLookDirection: d.StartLookDirection,
		Shape:              d.Shape,
		IsPlanet:           d.IsPlanet,
	}
}

// FlagReached достиг ли шарик флага
func (d Data) FlagReached(p vecmath.Vec) bool {
	return p.Sub(d.FlagPosition).Len() <= d.MarbleRadius*FlagReachFactor
}

// StandInOracle аналитическая замена поверхности для локальной игры:
// для планеты - шар, иначе - горизонтальная плоскость под стартом шарика
func (d Data) StandInOracle() fractal.Oracle {
	if d.IsPlanet {
		return fractal.Sphere{Center: vecmath.VecZero, Radius: 1}
	}
	return fractal.Plane{Point: vecmath.VecZero, Normal: vecmath.VecY}
}
