package level

import (
	"math"

	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

// Catalog встроенные уровни. Возвращается копия, исходные данные не изменяются.
func Catalog() []Data {
	out := make([]Data, len(levels))
	copy(out, levels)
	return out
}

var levels = []Data{
	{
		Name: "Равнина",
		Shape: fractal.ShapeConfig{
			Scale: 1,
		},
		Color:              vecmath.NewVec(0.9, 0.4, 0.2),
		MarbleRadius:       0.5,
		MarblePosition:     vecmath.NewVec(0, 0.5, 0),
		StartLookDirection: 0,
		FlagPosition:       vecmath.NewVec(10, 0.5, -10),
	},
	{
		Name: "Волны",
		Shape: fractal.ShapeConfig{
			Scale:     1.2,
			Angle1:    0.3,
			Angle2:    -0.4,
			Offset:    vecmath.NewVec(0, -1, 0),
			Animation: vecmath.NewVec(0.1, 0.05, 0.2),
		},
		Color:              vecmath.NewVec(0.2, 0.5, 0.9),
		MarbleRadius:       0.4,
		MarblePosition:     vecmath.NewVec(0, -0.6, 0),
		StartLookDirection: math.Pi / 2,
		FlagPosition:       vecmath.NewVec(-12, -0.6, 4),
	},
	{
		Name: "Фрактал",
		Shape: fractal.ShapeConfig{
			Scale:  1.8,
			Angle1: -0.12,
			Angle2: 0.5,
			Offset: vecmath.NewVec(-2.12, -2.75, 0.49),
		},
		Color:              vecmath.NewVec(-0.42, -0.38, -0.19),
		MarbleRadius:       0.035,
		MarblePosition:     vecmath.NewVec(-2.95, -2.715, -2.2),
		StartLookDirection: 0,
		FlagPosition:       vecmath.NewVec(-2.95, -2.715, -3.2),
	},
	{
		Name: "Планета",
		Shape: fractal.ShapeConfig{
			Scale:     3,
			Animation: vecmath.NewVec(0.3, 0, 0),
		},
		Color:              vecmath.NewVec(0.3, 0.8, 0.3),
		MarbleRadius:       0.25,
		MarblePosition:     vecmath.NewVec(0, 3.25, 0),
		StartLookDirection: math.Pi / 4,
		FlagPosition:       vecmath.NewVec(0, -3.25, 0),
		IsPlanet:           true,
	},
}
