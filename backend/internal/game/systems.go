package game

import (
	"time"

	"fractal-marble/backend/internal/telemetry"
)

// MarbleStepSystem шаг симуляции шарика. Пауза останавливает игровое время сессии.
type MarbleStepSystem struct {
	name     string
	priority int
	session  *Session

	// maxStep ограничивает dt после долгих задержек тикера
	maxStep time.Duration
}

// NewMarbleStepSystem создает систему шага шарика
func NewMarbleStepSystem(session *Session) *MarbleStepSystem {
	return &MarbleStepSystem{
		name:     "MarbleStepSystem",
		priority: 10, // Первым: камера и телеметрия читают новую позицию
		session:  session,
		maxStep:  100 * time.Millisecond,
	}
}

// Update выполняет один шаг симуляции
func (mss *MarbleStepSystem) Update(deltaTime time.Duration) error {
	if deltaTime > mss.maxStep {
		deltaTime = mss.maxStep
	}

	_, err := mss.session.StepMarble(deltaTime.Seconds())
	return err
}

// GetName возвращает имя системы
func (mss *MarbleStepSystem) GetName() string {
	return mss.name
}

// GetPriority возвращает приоритет системы
func (mss *MarbleStepSystem) GetPriority() int {
	return mss.priority
}

// CameraSystem пересчитывает матрицу камеры. Работает и на паузе, чтобы игрок мог осмотреться.
type CameraSystem struct {
	name     string
	priority int
	session  *Session
}

// NewCameraSystem создает систему камеры
func NewCameraSystem(session *Session) *CameraSystem {
	return &CameraSystem{
		name:     "CameraSystem",
		priority: 20,
		session:  session,
	}
}

// Update пересчитывает и публикует матрицу
func (cs *CameraSystem) Update(deltaTime time.Duration) error {
	cs.session.UpdateCamera()
	return nil
}

// GetName возвращает имя системы
func (cs *CameraSystem) GetName() string {
	return cs.name
}

// GetPriority возвращает приоритет системы
func (cs *CameraSystem) GetPriority() int {
	return cs.priority
}

// TelemetrySystem записывает состояние шарика после каждого нового шага
type TelemetrySystem struct {
	name      string
	priority  int
	session   *Session
	telemetry *telemetry.Manager

	lastStep uint64
}

// NewTelemetrySystem создает систему телеметрии
func NewTelemetrySystem(session *Session, tm *telemetry.Manager) *TelemetrySystem {
	return &TelemetrySystem{
		name:      "TelemetrySystem",
		priority:  90, // В конце тика
		session:   session,
		telemetry: tm,
	}
}

// Update записывает последний шаг, если он новый
func (ts *TelemetrySystem) Update(deltaTime time.Duration) error {
	steps := ts.session.Steps()
	if steps == 0 || steps == ts.lastStep {
		// Шагов не было: пауза или сброс уровня
		ts.lastStep = steps
		ts.telemetry.PrintSummary()
		return nil
	}
	ts.lastStep = steps

	res := ts.session.LastStep()
	data, _ := ts.session.Level()

	sample := telemetry.Sample{
		Level:    data.Name,
		Step:     steps,
		GameTime: ts.session.Time(),
		Position: res.Position,
		Velocity: res.Velocity,
		Contact:  res.Contact.Collided,
		Depth:    res.Contact.Depth,
	}
	if res.Impulse.Len() > 0 {
		impulse := res.Impulse
		sample.Impulse = &impulse
	}

	ts.telemetry.Record(sample)
	ts.telemetry.PrintSummary()
	return nil
}

// GetName возвращает имя системы
func (ts *TelemetrySystem) GetName() string {
	return ts.name
}

// GetPriority возвращает приоритет системы
func (ts *TelemetrySystem) GetPriority() int {
	return ts.priority
}
