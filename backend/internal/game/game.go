// Package game связывает уровень, сессию шарика и игровой цикл.
package game

import (
	"fmt"
	"log"
	"sync"

	"fractal-marble/backend/internal/binding"
	"fractal-marble/backend/internal/camera"
	"fractal-marble/backend/internal/input"
	"fractal-marble/backend/internal/level"
	"fractal-marble/backend/internal/telemetry"
	"fractal-marble/backend/internal/vecmath"
)

// Config параметры игры
type Config struct {
	TargetTPS int
	Levels    []level.Data // пусто - встроенный каталог
	Oracles   OracleSource // nil - аналитическая замена поверхности

	// PauseOnComplete ставить игру на паузу при достижении флага
	PauseOnComplete bool

	Logger *log.Logger
}

// Game игра целиком: стор, сессия уровня и игровой цикл с системами
type Game struct {
	Store     *Store
	Session   *Session
	Ticker    *GameTicker
	Telemetry *telemetry.Manager

	pauseOnComplete bool
	logger          *log.Logger

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New создает игру и регистрирует системы цикла. Цикл не запускается.
func New(cfg Config) (*Game, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = level.Catalog()
	}

	levels, err := level.NewManager(cfg.Levels)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}

	g := &Game{
		Store:           NewStore(levels),
		Telemetry:       telemetry.NewManager(cfg.Logger),
		pauseOnComplete: cfg.PauseOnComplete,
		logger:          cfg.Logger,
	}

	current, index := levels.Current()
	g.Session, err = NewSession(SessionConfig{
		Level:      current,
		LevelIndex: index,
		Oracles:    cfg.Oracles,
		Keys:       input.NewHeldKeys(),
		Bindings:   binding.NewStore(),
		Listener:   g,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	g.Session.SetPaused(g.Store.Paused())
	g.Store.Subscribe(g.onStoreChange)

	g.Ticker = NewGameTicker(cfg.TargetTPS, cfg.Logger)
	g.Ticker.RegisterSystem(NewMarbleStepSystem(g.Session))
	g.Ticker.RegisterSystem(NewCameraSystem(g.Session))
	g.Ticker.RegisterSystem(NewTelemetrySystem(g.Session, g.Telemetry))

	return g, nil
}

// Start запускает игровой цикл
func (g *Game) Start() error {
	return g.Ticker.Start()
}

// Stop останавливает игровой цикл
func (g *Game) Stop() {
	g.Ticker.Stop()
}

// AddListener подписывает получателя на события контакта и прохождения уровня
func (g *Game) AddListener(l Listener) {
	g.listenersMu.Lock()
	defer g.listenersMu.Unlock()
	g.listeners = append(g.listeners, l)
}

// ApplyInput применяет событие клавиатуры
func (g *Game) ApplyInput(ev input.Event) bool {
	return g.Session.Keys().Apply(ev)
}

// State состояние стора
func (g *Game) State() StoreState {
	return g.Store.State()
}

// Levels имена уровней
func (g *Game) Levels() []string {
	return g.Store.Levels()
}

// SelectLevel выбирает уровень
func (g *Game) SelectLevel(index int) (level.Data, error) {
	return g.Store.SelectLevel(index)
}

// SetPaused ставит или снимает паузу
func (g *Game) SetPaused(paused bool) bool {
	return g.Store.SetPaused(paused)
}

// TogglePaused переключает паузу
func (g *Game) TogglePaused() bool {
	return g.Store.TogglePaused()
}

// Reset перезапускает текущий уровень
func (g *Game) Reset() {
	g.Store.Reset()
}

// SetCameraOffset задает смещение взгляда
func (g *Game) SetCameraOffset(offset camera.Offset) {
	g.Session.SetCameraOffset(offset)
}

// SetWorldMatrix задает мировую ориентацию камеры шарика
func (g *Game) SetWorldMatrix(m vecmath.Matrix) {
	g.Session.SetWorldMatrix(m)
}

// SetCameraMode переключает режим камеры
func (g *Game) SetCameraMode(mode CameraMode) error {
	return g.Session.SetCameraMode(mode)
}

// Bindings хранилище биндингов рендеринга
func (g *Game) Bindings() *binding.Store {
	return g.Session.Bindings()
}

// OnContact рассылает событие контакта
func (g *Game) OnContact(ev ContactEvent) {
	for _, l := range g.snapshotListeners() {
		l.OnContact(ev)
	}
}

// OnLevelComplete рассылает событие прохождения уровня
func (g *Game) OnLevelComplete(ev LevelCompleteEvent) {
	if g.pauseOnComplete {
		g.Store.SetPaused(true)
	}
	for _, l := range g.snapshotListeners() {
		l.OnLevelComplete(ev)
	}
}

func (g *Game) snapshotListeners() []Listener {
	g.listenersMu.RLock()
	defer g.listenersMu.RUnlock()

	out := make([]Listener, len(g.listeners))
	copy(out, g.listeners)
	return out
}

func (g *Game) onStoreChange(prev, next StoreState) {
	switch {
	case prev.LevelIndex != next.LevelIndex || prev.Level.Name != next.Level.Name:
		if err := g.Session.LoadLevel(next.Level, next.LevelIndex); err != nil {
			g.logger.Printf("[Game] Ошибка загрузки уровня %d: %v", next.LevelIndex, err)
		}
	case prev.Resets != next.Resets:
		g.Session.Reset()
	}

	if prev.Paused != next.Paused {
		// Текущее значение стора: уведомления разных горутин могут прийти не по порядку
		g.Session.SetPaused(g.Store.Paused())
		g.logger.Printf("[Game] Пауза: %v", next.Paused)
	}
}
