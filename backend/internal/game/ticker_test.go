package game

import (
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "[TEST] ", log.LstdFlags)
}

// recordingSystem записывает порядок вызова систем
type recordingSystem struct {
	name     string
	priority int
	calls    *[]string
	mu       *sync.Mutex
	err      error
	panicMsg string
}

func (rs *recordingSystem) Update(deltaTime time.Duration) error {
	rs.mu.Lock()
	*rs.calls = append(*rs.calls, rs.name)
	rs.mu.Unlock()

	if rs.panicMsg != "" {
		panic(rs.panicMsg)
	}
	return rs.err
}

func (rs *recordingSystem) GetName() string  { return rs.name }
func (rs *recordingSystem) GetPriority() int { return rs.priority }

func TestGameTicker_SystemsRunInPriorityOrder(t *testing.T) {
	gt := NewGameTicker(60, quietLogger())

	var (
		calls []string
		mu    sync.Mutex
	)
	gt.RegisterSystem(&recordingSystem{name: "telemetry", priority: 90, calls: &calls, mu: &mu})
	gt.RegisterSystem(&recordingSystem{name: "marble", priority: 10, calls: &calls, mu: &mu})
	gt.RegisterSystem(&recordingSystem{name: "camera", priority: 20, calls: &calls, mu: &mu})
	gt.RegisterSystem(&recordingSystem{name: "camera2", priority: 20, calls: &calls, mu: &mu})

	gt.Step(16 * time.Millisecond)

	want := []string{"marble", "camera", "camera2", "telemetry"}
	if len(calls) != len(want) {
		t.Fatalf("Ожидали %v, получили %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Позиция %d: ожидали %s, получили %s", i, want[i], calls[i])
		}
	}

	names := gt.Systems()
	if names[0] != "marble" || names[3] != "telemetry" {
		t.Errorf("Неверный порядок систем: %v", names)
	}
	if gt.GetTickCount() != 1 {
		t.Errorf("Ожидали 1 тик, получили %d", gt.GetTickCount())
	}
}

func TestGameTicker_PanicAndErrorAreRecorded(t *testing.T) {
	gt := NewGameTicker(60, quietLogger())

	var (
		calls []string
		mu    sync.Mutex
	)
	gt.RegisterSystem(&recordingSystem{name: "panics", priority: 1, calls: &calls, mu: &mu, panicMsg: "boom"})
	gt.RegisterSystem(&recordingSystem{name: "fails", priority: 2, calls: &calls, mu: &mu, err: errors.New("bad step")})
	gt.RegisterSystem(&recordingSystem{name: "ok", priority: 3, calls: &calls, mu: &mu})

	gt.Step(time.Millisecond)
	gt.Step(time.Millisecond)

	if len(calls) != 6 {
		t.Fatalf("Паника не должна останавливать тик, вызовов: %v", calls)
	}

	panics, _ := gt.Monitor().System("panics")
	if panics.Errors != 2 {
		t.Errorf("panics: ожидали 2 ошибки, получили %d", panics.Errors)
	}
	fails, _ := gt.Monitor().System("fails")
	if fails.Errors != 2 || fails.TotalExecutions != 2 {
		t.Errorf("fails: ошибок %d, выполнений %d", fails.Errors, fails.TotalExecutions)
	}
	ok, _ := gt.Monitor().System("ok")
	if ok.Errors != 0 || ok.TotalExecutions != 2 {
		t.Errorf("ok: ошибок %d, выполнений %d", ok.Errors, ok.TotalExecutions)
	}
	if _, found := gt.Monitor().System("missing"); found {
		t.Error("Неизвестная система не должна иметь метрик")
	}
}

func TestGameTicker_StartStop(t *testing.T) {
	gt := NewGameTicker(200, quietLogger())

	var (
		calls []string
		mu    sync.Mutex
	)
	gt.RegisterSystem(&recordingSystem{name: "tick", priority: 1, calls: &calls, mu: &mu})

	if err := gt.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := gt.Start(); err != nil {
		t.Fatalf("Повторный Start должен быть no-op: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for gt.GetTickCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	gt.Stop()

	if gt.GetTickCount() < 3 {
		t.Fatalf("Ожидали хотя бы 3 тика, получили %d", gt.GetTickCount())
	}

	stats := gt.GetStats()
	if stats.IsRunning || stats.Systems != 1 || stats.TargetTPS != 200 {
		t.Errorf("Неверная статистика: %+v", stats)
	}

	if err := gt.Start(); !errors.Is(err, ErrTickerStopped) {
		t.Errorf("Start после Stop: ожидали ErrTickerStopped, получили %v", err)
	}
}

func TestPerformanceMonitor_Average(t *testing.T) {
	pm := NewPerformanceMonitor(2, time.Millisecond)
	pm.initSystemMetrics("s")

	pm.recordExecution("s", 2*time.Millisecond)
	pm.recordExecution("s", 4*time.Millisecond)
	pm.recordExecution("s", 6*time.Millisecond)

	m, _ := pm.System("s")
	if m.AverageTime != 5*time.Millisecond {
		t.Errorf("Среднее по окну 2: ожидали 5ms, получили %v", m.AverageTime)
	}
	if m.MaxTime != 6*time.Millisecond {
		t.Errorf("Максимум: ожидали 6ms, получили %v", m.MaxTime)
	}
	if slow := pm.SlowSystems(); len(slow) != 1 || slow[0] != "s" {
		t.Errorf("Ожидали медленную систему s, получили %v", slow)
	}
}
