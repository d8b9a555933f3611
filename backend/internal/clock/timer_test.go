package clock

import (
	"math"
	"testing"
)

func TestFrameTimerAdvance(t *testing.T) {
	ft := NewFrameTimer()
	ft.Advance(0.25)
	ft.Advance(0.25)

	if ft.DeltaTime() != 0.25 || ft.Time() != 0.5 {
		t.Errorf("unexpected state: dt=%v time=%v", ft.DeltaTime(), ft.Time())
	}

	ft.Advance(-1)
	if ft.DeltaTime() != 0 || ft.Time() != 0.5 {
		t.Errorf("отрицательный шаг не двигает время: dt=%v time=%v", ft.DeltaTime(), ft.Time())
	}
}

func TestFrameTimerPauseExcludesTime(t *testing.T) {
	ft := NewFrameTimer()
	ft.Advance(1)

	ft.Pause()
	if !ft.IsPaused() {
		t.Fatal("timer must be paused")
	}
	ft.Advance(5)
	if ft.DeltaTime() != 0 {
		t.Errorf("на паузе шаг должен быть нулевым, got %v", ft.DeltaTime())
	}

	ft.Resume()
	ft.Advance(0.5)

	if got := ft.Time(); got != 1.5 {
		t.Errorf("expected game time 1.5s, got %v", got)
	}
	if ft.DeltaTime() != 0.5 {
		t.Errorf("expected dt 0.5 after resume, got %v", ft.DeltaTime())
	}
}

func TestFrameTimerNonFiniteStepPassesThrough(t *testing.T) {
	ft := NewFrameTimer()
	ft.Advance(math.Inf(1))
	if !math.IsInf(ft.DeltaTime(), 1) {
		t.Errorf("expected +Inf delta, got %v", ft.DeltaTime())
	}
}

func TestFrameTimerResetKeepsPause(t *testing.T) {
	ft := NewFrameTimer()
	ft.Advance(0.3)
	ft.Pause()

	ft.Reset()
	if ft.Time() != 0 || ft.DeltaTime() != 0 {
		t.Error("reset должен обнулять таймер")
	}
	if !ft.IsPaused() {
		t.Error("reset не снимает паузу")
	}
}
