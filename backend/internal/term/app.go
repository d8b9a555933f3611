// Package term терминальный клиент игры: вид сверху на шарик в tcell.
package term

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"fractal-marble/backend/internal/camera"
	"fractal-marble/backend/internal/game"
	"fractal-marble/backend/internal/physics"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	statusTTL     = 2 * time.Second

	lookStep     = 0.1
	distanceStep = 1.0
	minDistance  = 1.0
)

// App цикл терминала: события клавиатуры, отпускание клавиш, отрисовка
type App struct {
	screen tcell.Screen
	game   *game.Game
	keys   *AutoRelease
	view   View
	logger *log.Logger

	status      string
	statusUntil time.Time
}

// NewApp создает клиент поверх запущенной игры. screen может быть nil до Run.
func NewApp(screen tcell.Screen, g *game.Game, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		screen: screen,
		game:   g,
		keys:   NewAutoRelease(g.Session.Keys(), DefaultHoldWindow),
		view:   DefaultView,
		logger: logger,
	}
}

// Run крутит цикл до выхода игрока или отмены контекста
func (a *App) Run(ctx context.Context) error {
	if a.screen == nil {
		return fmt.Errorf("term: screen is nil")
	}

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// экран закрыт
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			a.keys.Expire()
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventFocus:
		if !ev.Focused {
			a.keys.ReleaseAll()
		}
	}
	return true
}

// HandleKey применяет клавишу. false - игрок выходит.
func (a *App) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.nudgeCamera(-lookStep, 0, 0)
	case tcell.KeyRight:
		a.nudgeCamera(lookStep, 0, 0)
	case tcell.KeyUp:
		a.nudgeCamera(0, lookStep, 0)
	case tcell.KeyDown:
		a.nudgeCamera(0, -lookStep, 0)
	case tcell.KeyRune:
		return a.handleRune(r)
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false

	case 'w', 'a', 's', 'd', 'W', 'A', 'S', 'D':
		a.keys.Press(strings.ToLower(string(r)))

	case '+', '=':
		a.nudgeCamera(0, 0, -distanceStep)
	case '-':
		a.nudgeCamera(0, 0, distanceStep)

	case 'c':
		a.cycleCameraMode()

	case 'p', ' ':
		if a.game.TogglePaused() {
			a.setStatus("пауза")
		} else {
			a.setStatus("поехали")
		}

	case 'r':
		a.keys.ReleaseAll()
		a.game.Reset()
		a.setStatus("сброс")

	case 'n':
		a.keys.ReleaseAll()
		data := a.game.Store.NextLevel()
		a.setStatus(data.Name)

	default:
		if r >= '1' && r <= '9' {
			a.keys.ReleaseAll()
			data, err := a.game.SelectLevel(int(r - '1'))
			if err != nil {
				a.setStatus(err.Error())
			} else {
				a.setStatus(data.Name)
			}
		}
	}
	return true
}

func (a *App) nudgeCamera(yaw, pitch, distance float64) {
	offset := a.game.Session.CameraOffset()
	offset = camera.NewOffset(offset[0]+yaw, offset[1]+pitch, offset[2]+distance)
	if offset[2] < minDistance {
		offset[2] = minDistance
	}
	a.game.SetCameraOffset(offset)
}

var cameraModes = []game.CameraMode{game.CameraMarble, game.CameraOrbit, game.CameraFree}

func (a *App) cycleCameraMode() {
	current := a.game.Session.CameraMode()
	next := cameraModes[0]
	for i, m := range cameraModes {
		if m == current {
			next = cameraModes[(i+1)%len(cameraModes)]
			break
		}
	}

	if next == game.CameraOrbit {
		a.game.Session.SetOrbitTarget(a.game.Session.Position())
	}
	if next == game.CameraFree {
		a.game.Session.SetFreeMatrix(a.game.Session.CameraMatrix())
	}
	if err := a.game.SetCameraMode(next); err != nil {
		a.setStatus(err.Error())
		return
	}
	a.setStatus("камера: " + string(next))
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusUntil = time.Now().Add(statusTTL)
}

// Frame собирает кадр из состояния игры
func (a *App) Frame() Frame {
	data, index := a.game.Session.Level()
	state := a.game.State()
	last := a.game.Session.LastStep()

	f := Frame{
		Level:      data.Name,
		LevelIndex: index,
		LevelCount: len(a.game.Levels()),
		Marble:     a.game.Session.Position(),
		Radius:     data.MarbleRadius,
		Flag:       data.FlagPosition,
		Velocity:   a.game.Session.Velocity(),
		Contact:    contacted(last),
		Paused:     state.Paused,
		Completed:  a.game.Session.Completed(),
		Steps:      a.game.Session.Steps(),
		Time:       a.game.Session.Time(),
	}
	if time.Now().Before(a.statusUntil) {
		f.Status = a.status
	}
	return f
}

func contacted(res physics.StepResult) bool {
	return res.Contact.Collided
}

func (a *App) draw() {
	a.view.Render(a.screen, a.Frame())
	a.screen.Show()
}
