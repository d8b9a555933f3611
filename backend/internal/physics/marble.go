package physics

import (
	"sync"

	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

// PositionState сохраняемая между кадрами позиция шарика.
// Один писатель (Marble) и много читателей (камера, биндинги, сеть).
type PositionState struct {
	mu      sync.RWMutex
	pos     vecmath.Vec
	version uint64
}

// NewPositionState создает состояние с начальной позицией
func NewPositionState(start vecmath.Vec) *PositionState {
	return &PositionState{pos: start, version: 1}
}

// Get текущая позиция
func (s *PositionState) Get() vecmath.Vec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// Load позиция вместе с номером версии
func (s *PositionState) Load() (vecmath.Vec, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos, s.version
}

// Set сохраняет позицию. Версия растет только если значение изменилось (VecEqual).
func (s *PositionState) Set(p vecmath.Vec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vecmath.VecEqual(s.pos, p) {
		return false
	}
	s.pos = p
	s.version++
	return true
}

// MarbleParams параметры уровня, нужные шагу симуляции
type MarbleParams struct {
	Radius             float64
	StartLookDirection float64
	Shape              fractal.ShapeConfig
	IsPlanet           bool
}

// StepResult итог одного шага симуляции
type StepResult struct {
	Position  vecmath.Vec
	Velocity  vecmath.Vec
	Impulse   vecmath.Vec // импульс клавиш до поворота
	Shape     fractal.ShapeParams
	Contact   Contact
	Published bool // позиция изменилась и была опубликована
}

// Marble шаг симуляции шарика.
// Скорость живет в течение одной сессии уровня и сбрасывается только через Reset.
type Marble struct {
	params   MarbleParams
	resolver *Resolver
	shape    *fractal.Parameterizer
	state    *PositionState

	impulseScale float64
	gravity      float64

	// Поворот импульса на стартовое направление взгляда уровня
	yaw *vecmath.Builder

	velocity vecmath.Vec
	steps    uint64
}

// NewMarble создает шарик уровня. Начальная скорость нулевая.
func NewMarble(params MarbleParams, oracle fractal.Oracle, state *PositionState) *Marble {
	cfg := GetPhysicsConfig()

	yaw := vecmath.NewBuilder()
	yaw.RotateY(params.StartLookDirection)

	return &Marble{
		params:       params,
		resolver:     NewResolver(oracle),
		shape:        fractal.NewParameterizer(params.Shape),
		state:        state,
		impulseScale: cfg.ImpulseScale,
		gravity:      cfg.Gravity,
		yaw:          yaw,
	}
}

// Step выполняет ровно одно разрешение столкновения и один шаг интегрирования:
// столкновение -> импульс клавиш -> интегрирование -> публикация.
// dt - секунды с прошлого тика, t - монотонное время симуляции для анимации формы.
func (m *Marble) Step(keys KeyState, dt, t float64) StepResult {
	p := m.state.Get()
	v := m.velocity

	shape, _ := m.shape.At(t)

	contact := m.resolver.Resolve(shape, p, v, m.params.Radius)
	p, v = contact.Position, contact.Velocity

	impulse := MovementImpulse(keys)
	v = v.Add(m.yaw.MultVec(impulse).Mul(m.impulseScale))

	if m.gravity != 0 {
		v = v.Add(m.gravityDirection(p, shape.Offset).Mul(m.gravity * dt))
	}

	p = p.Add(v.Mul(dt))

	m.velocity = v
	m.steps++

	return StepResult{
		Position:  p,
		Velocity:  v,
		Impulse:   impulse,
		Shape:     shape,
		Contact:   contact,
		Published: m.state.Set(p),
	}
}

// gravityDirection для планеты направлена к текущему центру формы, иначе вниз по Y
func (m *Marble) gravityDirection(p, center vecmath.Vec) vecmath.Vec {
	if !m.params.IsPlanet {
		return vecmath.NewVec(0, -1, 0)
	}
	toCenter := center.Sub(p)
	if toCenter.Len() == 0 {
		return vecmath.VecZero
	}
	return toCenter.Normalize()
}

// Reset возвращает шарик в позицию и обнуляет скорость (новая сессия уровня)
func (m *Marble) Reset(start vecmath.Vec) {
	m.velocity = vecmath.VecZero
	m.steps = 0
	m.state.Set(start)
}

// Velocity текущая скорость
func (m *Marble) Velocity() vecmath.Vec {
	return m.velocity
}

// Position текущая опубликованная позиция
func (m *Marble) Position() vecmath.Vec {
	return m.state.Get()
}

// Steps количество выполненных шагов в текущей сессии
func (m *Marble) Steps() uint64 {
	return m.steps
}

// Params параметры уровня шарика
func (m *Marble) Params() MarbleParams {
	return m.params
}
