// Package clock предоставляет таймер кадров с паузой.
package clock

import (
	"sync"
)

// FrameTimer игровое время сессии: шаг последнего кадра и монотонное время.
// Время на паузе не учитывается в игровом времени.
type FrameTimer struct {
	mu sync.RWMutex

	deltaTime float64 // секунды последнего шага
	gameTime  float64 // секунды игрового времени

	paused bool
}

// NewFrameTimer создает таймер
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{}
}

// Advance продвигает игровое время на шаг тикера. На паузе и для
// отрицательного шага deltaTime нулевой. NaN и +Inf проходят как есть.
func (ft *FrameTimer) Advance(dt float64) {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	if ft.paused || dt < 0 {
		ft.deltaTime = 0
		return
	}
	ft.deltaTime = dt
	ft.gameTime += dt
}

// DeltaTime секунды последнего шага
func (ft *FrameTimer) DeltaTime() float64 {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.deltaTime
}

// Time монотонное игровое время в секундах
func (ft *FrameTimer) Time() float64 {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.gameTime
}

// Pause останавливает игровое время
func (ft *FrameTimer) Pause() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.paused = true
	ft.deltaTime = 0
}

// Resume возобновляет игровое время
func (ft *FrameTimer) Resume() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.paused = false
}

// IsPaused на паузе ли таймер
func (ft *FrameTimer) IsPaused() bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.paused
}

// Reset обнуляет игровое время (новая сессия уровня). Пауза сохраняется.
func (ft *FrameTimer) Reset() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.deltaTime = 0
	ft.gameTime = 0
}
