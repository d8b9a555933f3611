package main

import (
	"sort"

	"fractal-marble/backend/internal/physics"
	"fractal-marble/backend/internal/vecmath"
)

// Steering подбирает клавиши WASD, чтобы докатить шарик до цели.
// Желаемая скорость пропорциональна расстоянию, клавиши гасят разницу с текущей.
type Steering struct {
	Gain     float64 // желаемая скорость на единицу расстояния
	MaxSpeed float64
	Deadband float64 // разница скоростей, на которую не реагируем
}

// DefaultSteering настройки по умолчанию
var DefaultSteering = Steering{Gain: 0.5, MaxSpeed: 2, Deadband: 0.02}

// Keys клавиши, которые должны быть зажаты. look - стартовый поворот взгляда уровня:
// сервер поворачивает импульс клавиш на него, здесь поворот обратный.
func (s Steering) Keys(pos, vel, target vecmath.Vec, look float64) []string {
	delta := target.Sub(pos)
	delta[1] = 0

	desired := delta.Mul(s.Gain)
	if l := desired.Len(); l > s.MaxSpeed {
		desired = desired.Mul(s.MaxSpeed / l)
	}

	diff := desired.Sub(vel)
	diff[1] = 0

	b := vecmath.NewBuilder()
	b.RotateY(-look)
	local := b.MultVec(diff)

	var keys []string
	switch {
	case local[0] > s.Deadband:
		keys = append(keys, physics.KeyRight)
	case local[0] < -s.Deadband:
		keys = append(keys, physics.KeyLeft)
	}
	switch {
	case local[2] > s.Deadband:
		keys = append(keys, physics.KeyBack)
	case local[2] < -s.Deadband:
		keys = append(keys, physics.KeyForward)
	}
	sort.Strings(keys)
	return keys
}

// diffKeys что нажать и что отпустить, чтобы из held получить want
func diffKeys(held map[string]bool, want []string) (press, release []string) {
	wanted := make(map[string]bool, len(want))
	for _, k := range want {
		wanted[k] = true
		if !held[k] {
			press = append(press, k)
		}
	}
	for k := range held {
		if !wanted[k] {
			release = append(release, k)
		}
	}
	sort.Strings(press)
	sort.Strings(release)
	return press, release
}
