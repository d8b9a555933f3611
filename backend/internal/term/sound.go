package term

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"fractal-marble/backend/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)

	// Касания идут каждый шаг, пока шарик катится. Щелчок только на ударе.
	minClickSpeed = 0.02
	minClickGap   = 120 * time.Millisecond
)

// Sound щелчок при ударе о поверхность и сигнал на флаге.
// Без звуковой карты все методы ничего не делают.
type Sound struct {
	mu          sync.Mutex
	initialized bool
	lastClick   time.Time
	now         func() time.Time
	play        func(beep.Streamer)
}

// NewSound создает звук. До Init он молчит.
func NewSound() *Sound {
	return &Sound{now: time.Now, play: func(s beep.Streamer) { speaker.Play(s) }}
}

// Init открывает устройство вывода
func (s *Sound) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// Close закрывает устройство вывода
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		speaker.Close()
		s.initialized = false
	}
}

// OnContact щелкает, если удар достаточно сильный и прошлый щелчок был давно
func (s *Sound) OnContact(ev game.ContactEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || ev.Speed < minClickSpeed {
		return
	}
	now := s.now()
	if now.Sub(s.lastClick) < minClickGap {
		return
	}
	s.lastClick = now

	freq := 660 + 2000*ev.Speed
	if freq > 1760 {
		freq = 1760
	}
	s.playTone(freq, 30*time.Millisecond)
}

// OnLevelComplete два тона подряд
func (s *Sound) OnLevelComplete(game.LevelCompleteEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	low, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	high, err := generators.SineTone(sampleRate, 990)
	if err != nil {
		return
	}
	s.play(beep.Seq(
		beep.Take(sampleRate.N(120*time.Millisecond), low),
		beep.Take(sampleRate.N(200*time.Millisecond), high),
	))
}

func (s *Sound) playTone(freq float64, d time.Duration) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	s.play(beep.Take(sampleRate.N(d), sine))
}
