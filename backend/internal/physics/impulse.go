package physics

import "fractal-marble/backend/internal/vecmath"

// Клавиши движения (WASD)
const (
	KeyRight   = "d"
	KeyLeft    = "a"
	KeyBack    = "s"
	KeyForward = "w"
)

// KeyState набор удерживаемых клавиш
type KeyState interface {
	Has(key string) bool
}

// MovementImpulse единичный импульс от удерживаемых клавиш в пространстве камеры:
// X = d - a, Z = s - w. Камера смотрит вдоль -Z, поэтому "w" толкает вперед.
// Противоположные клавиши взаимно гасятся.
func MovementImpulse(keys KeyState) vecmath.Vec {
	if keys == nil {
		return vecmath.VecZero
	}
	return vecmath.NewVec(
		held(keys, KeyRight)-held(keys, KeyLeft),
		0,
		held(keys, KeyBack)-held(keys, KeyForward),
	)
}

func held(keys KeyState, key string) float64 {
	if keys.Has(key) {
		return 1
	}
	return 0
}
