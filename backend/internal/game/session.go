package game

import (
	"fmt"
	"log"
	"math"
	"sync"

	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/camera"
	"fractal-marble/backend/internal/clock"
	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/input"
	"fractal-marble/backend/internal/level"
	"fractal-marble/backend/internal/physics"
	"fractal-marble/backend/internal/vecmath"
)

// CameraMode режим камеры
type CameraMode string

const (
	CameraMarble CameraMode = "marble"
	CameraOrbit  CameraMode = "orbit"
	CameraFree   CameraMode = "free"
)

// DefaultCameraOffset начальное смещение взгляда: без поворота, дистанция 10 радиусов
var DefaultCameraOffset = camera.NewOffset(0, 0, 10)

// ContactEvent шарик коснулся поверхности
type ContactEvent struct {
	Level    string      `json:"level"`
	Position vecmath.Vec `json:"position"`
	Depth    float64     `json:"depth"`
	Speed    float64     `json:"speed"`
	Time     float64     `json:"time"`
}

// LevelCompleteEvent шарик добрался до флага
type LevelCompleteEvent struct {
	Level      string  `json:"level"`
	LevelIndex int     `json:"level_index"`
	Time       float64 `json:"time"`
	Steps      uint64  `json:"steps"`
}

// Listener получает игровые события сессии
type Listener interface {
	OnContact(ev ContactEvent)
	OnLevelComplete(ev LevelCompleteEvent)
}

// OracleSource выдает оракул ближайшей точки для уровня
type OracleSource func(data level.Data) fractal.Oracle

// StandInOracles аналитическая поверхность из конфигурации уровня
func StandInOracles(data level.Data) fractal.Oracle {
	return data.StandInOracle()
}

// SessionConfig зависимости сессии
type SessionConfig struct {
	Level      level.Data
	LevelIndex int
	Oracles    OracleSource
	Keys       *input.HeldKeys
	Bindings   *binding.Store
	Listener   Listener
	Logger     *log.Logger
}

// Session одна сессия уровня: шарик, камера, форма и игровое время
type Session struct {
	mu sync.Mutex

	level      level.Data
	levelIndex int

	oracles  OracleSource
	state    *physics.PositionState
	marble   *physics.Marble
	timer    *clock.FrameTimer
	keys     *input.HeldKeys
	bindings *binding.Store
	listener Listener
	logger   *log.Logger

	camera      *camera.MarbleCamera
	mode        CameraMode
	offset      camera.Offset
	world       vecmath.Matrix
	free        vecmath.Matrix
	orbitTarget vecmath.Vec
	matrix      vecmath.Matrix

	completed bool
	last      physics.StepResult
}

// NewSession создает сессию и публикует стартовые биндинги
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Oracles == nil {
		cfg.Oracles = StandInOracles
	}
	if cfg.Keys == nil {
		cfg.Keys = input.NewHeldKeys()
	}
	if cfg.Bindings == nil {
		cfg.Bindings = binding.NewStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Session{
		oracles:  cfg.Oracles,
		timer:    clock.NewFrameTimer(),
		keys:     cfg.Keys,
		bindings: cfg.Bindings,
		listener: cfg.Listener,
		logger:   cfg.Logger,
		camera:   camera.NewMarbleCamera(),
		mode:     CameraMarble,
		offset:   DefaultCameraOffset,
		world:    vecmath.Identity,
		free:     vecmath.Identity,
	}

	if err := s.LoadLevel(cfg.Level, cfg.LevelIndex); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadLevel начинает новую сессию уровня: скорость и игровое время обнуляются
func (s *Session) LoadLevel(data level.Data, index int) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("load level: %w", err)
	}

	s.mu.Lock()
	s.level = data
	s.levelIndex = index
	s.state = physics.NewPositionState(data.MarblePosition)
	s.marble = physics.NewMarble(data.MarbleParams(), s.oracles(data), s.state)
	s.timer.Reset()
	s.camera.Invalidate()
	s.completed = false
	s.last = physics.StepResult{Position: data.MarblePosition}
	s.bindings.Publish(binding.MarblePosition, vecmath.XYZArray(data.MarblePosition))
	s.mu.Unlock()

	s.UpdateCamera()

	s.logger.Printf("[Session] Загружен уровень %d %q: шарик (%.3f, %.3f, %.3f), радиус %.3f",
		index, data.Name, data.MarblePosition[0], data.MarblePosition[1], data.MarblePosition[2], data.MarbleRadius)
	return nil
}

// Reset возвращает шарик на старт текущего уровня
func (s *Session) Reset() {
	s.mu.Lock()
	start := s.level.MarblePosition
	s.marble.Reset(start)
	s.timer.Reset()
	s.completed = false
	s.last = physics.StepResult{Position: start}
	name := s.level.Name
	s.bindings.Publish(binding.MarblePosition, vecmath.XYZArray(start))
	s.mu.Unlock()

	s.UpdateCamera()

	s.logger.Printf("[Session] Уровень %q сброшен", name)
}

// StepMarble продвигает игровое время на dt секунд и выполняет один шаг симуляции.
// На паузе шаг не выполняется и возвращается последний результат.
func (s *Session) StepMarble(dt float64) (physics.StepResult, error) {
	s.mu.Lock()

	s.timer.Advance(dt)
	if s.timer.IsPaused() {
		res := s.last
		res.Published = false
		s.mu.Unlock()
		return res, nil
	}
	res := s.marble.Step(s.keys.Snapshot(), s.timer.DeltaTime(), s.timer.Time())

	if !finite(res.Position) || !finite(res.Velocity) {
		start := s.level.MarblePosition
		s.marble.Reset(start)
		s.timer.Reset()
		s.last = physics.StepResult{Position: start}
		s.bindings.Publish(binding.MarblePosition, vecmath.XYZArray(start))
		s.mu.Unlock()
		return res, fmt.Errorf("marble state is not finite: position %v velocity %v", res.Position, res.Velocity)
	}
	s.last = res

	var contact *ContactEvent
	if res.Contact.Collided {
		contact = &ContactEvent{
			Level:    s.level.Name,
			Position: res.Position,
			Depth:    res.Contact.Depth,
			Speed:    res.Velocity.Len(),
			Time:     s.timer.Time(),
		}
	}

	var complete *LevelCompleteEvent
	if !s.completed && s.level.FlagReached(res.Position) {
		s.completed = true
		complete = &LevelCompleteEvent{
			Level:      s.level.Name,
			LevelIndex: s.levelIndex,
			Time:       s.timer.Time(),
			Steps:      s.marble.Steps(),
		}
	}
	// Публикация под блокировкой: LoadLevel и Reset не перетираются старой позицией
	if res.Published {
		s.bindings.Publish(binding.MarblePosition, vecmath.XYZArray(res.Position))
	}
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if contact != nil {
			listener.OnContact(*contact)
		}
		if complete != nil {
			s.logger.Printf("[Session] Уровень %q пройден за %.2f c (%d шагов)", complete.Level, complete.Time, complete.Steps)
			listener.OnLevelComplete(*complete)
		}
	}

	return res, nil
}

// UpdateCamera пересчитывает матрицу камеры для текущего режима и публикует ее.
// Второе значение - изменилась ли опубликованная матрица.
func (s *Session) UpdateCamera() (vecmath.Matrix, bool) {
	s.mu.Lock()

	var m vecmath.Matrix
	switch s.mode {
	case CameraOrbit:
		m, _ = camera.Orbit(s.camera, s.orbitTarget, s.offset)
	case CameraFree:
		m = camera.Free(s.free)
	default:
		m, _ = s.camera.Matrix(s.world, s.state.Get(), s.level.MarbleRadius, s.offset)
	}
	s.matrix = m
	changed := s.bindings.Publish(binding.CameraMatrix, m.Slice())
	s.mu.Unlock()

	return m, changed
}

// Step шаг симуляции и пересчет камеры
func (s *Session) Step(dt float64) (physics.StepResult, error) {
	res, err := s.StepMarble(dt)
	s.UpdateCamera()
	return res, err
}

// SetCameraOffset задает смещение взгляда
func (s *Session) SetCameraOffset(offset camera.Offset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
}

// CameraOffset текущее смещение взгляда
func (s *Session) CameraOffset() camera.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// SetWorldMatrix задает мировую матрицу ориентации камеры шарика
func (s *Session) SetWorldMatrix(m vecmath.Matrix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = m
}

// WorldMatrix мировая матрица ориентации камеры шарика
func (s *Session) WorldMatrix() vecmath.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world
}

// SetCameraMode переключает режим камеры
func (s *Session) SetCameraMode(mode CameraMode) error {
	switch mode {
	case CameraMarble, CameraOrbit, CameraFree:
	default:
		return fmt.Errorf("unknown camera mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != mode {
		s.mode = mode
		s.camera.Invalidate()
	}
	return nil
}

// CameraMode текущий режим камеры
func (s *Session) CameraMode() CameraMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetOrbitTarget точка, вокруг которой вращается орбитальная камера
func (s *Session) SetOrbitTarget(target vecmath.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orbitTarget = target
}

// SetFreeMatrix матрица свободной камеры
func (s *Session) SetFreeMatrix(m vecmath.Matrix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.free = m
}

// SetListener подключает получателя событий
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Keys удерживаемые клавиши сессии
func (s *Session) Keys() *input.HeldKeys {
	return s.keys
}

// Bindings хранилище биндингов рендеринга
func (s *Session) Bindings() *binding.Store {
	return s.bindings
}

// Level текущий уровень и его индекс
func (s *Session) Level() (level.Data, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level, s.levelIndex
}

// Position опубликованная позиция шарика
func (s *Session) Position() vecmath.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Get()
}

// Velocity текущая скорость шарика
func (s *Session) Velocity() vecmath.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marble.Velocity()
}

// LastStep результат последнего шага
func (s *Session) LastStep() physics.StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Time игровое время сессии в секундах
func (s *Session) Time() float64 {
	return s.timer.Time()
}

// SetPaused останавливает или возобновляет игровое время сессии
func (s *Session) SetPaused(paused bool) {
	if paused {
		s.timer.Pause()
	} else {
		s.timer.Resume()
	}
}

// Paused остановлено ли игровое время
func (s *Session) Paused() bool {
	return s.timer.IsPaused()
}

// Steps количество шагов в текущей сессии
func (s *Session) Steps() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marble.Steps()
}

// Completed пройден ли уровень
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// CameraMatrix последняя вычисленная матрица камеры
func (s *Session) CameraMatrix() vecmath.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matrix
}

func finite(v vecmath.Vec) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
