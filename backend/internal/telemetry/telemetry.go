// Package telemetry собирает последние состояния шарика для отладки.
package telemetry

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"fractal-marble/backend/internal/vecmath"
)

// Sample одно состояние шарика после шага симуляции
type Sample struct {
	Timestamp int64        `json:"timestamp"` // Время в миллисекундах
	Level     string       `json:"level"`
	Step      uint64       `json:"step"`
	GameTime  float64      `json:"game_time"`
	Position  vecmath.Vec  `json:"position"`
	Velocity  vecmath.Vec  `json:"velocity"`
	Speed     float64      `json:"speed"`
	Impulse   *vecmath.Vec `json:"impulse,omitempty"` // Импульс клавиш (если был)
	Contact   bool         `json:"contact"`
	Depth     float64      `json:"depth,omitempty"`
}

// Manager кольцевой буфер последних состояний и счетчики
type Manager struct {
	enabled    bool
	data       []Sample
	mutex      sync.RWMutex
	maxEntries int

	counters      map[string]int
	lastPrint     time.Time
	printInterval time.Duration

	logger *log.Logger
	now    func() time.Time
}

// NewManager создает менеджер телеметрии
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		enabled:       true,
		data:          make([]Sample, 0),
		maxEntries:    200,
		counters:      make(map[string]int),
		lastPrint:     time.Now(),
		printInterval: 2 * time.Second,
		logger:        logger,
		now:           time.Now,
	}
}

// SetPrintInterval как часто PrintSummary пишет сводку
func (tm *Manager) SetPrintInterval(d time.Duration) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.printInterval = d
}

// Record записывает состояние шарика
func (tm *Manager) Record(s Sample) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if !tm.enabled {
		return
	}

	if s.Timestamp == 0 {
		s.Timestamp = tm.now().UnixMilli()
	}
	s.Speed = s.Velocity.Len()

	tm.data = append(tm.data, s)
	if len(tm.data) > tm.maxEntries {
		tm.data = tm.data[1:]
	}

	tm.counters["steps"]++
	if s.Contact {
		tm.counters["contacts"]++
	}
	if s.Impulse != nil {
		tm.counters["impulses"]++
	}
}

// Latest последнее записанное состояние
func (tm *Manager) Latest() (Sample, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	if len(tm.data) == 0 {
		return Sample{}, false
	}
	return tm.data[len(tm.data)-1], true
}

// Len количество записей в буфере
func (tm *Manager) Len() int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return len(tm.data)
}

// Counters копия счетчиков с последней сводки
func (tm *Manager) Counters() map[string]int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	out := make(map[string]int, len(tm.counters))
	for k, v := range tm.counters {
		out[k] = v
	}
	return out
}

// PrintSummary выводит сводку не чаще printInterval. Возвращает true, если сводка выведена.
func (tm *Manager) PrintSummary() bool {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if !tm.enabled {
		return false
	}

	now := tm.now()
	if now.Sub(tm.lastPrint) < tm.printInterval {
		return false
	}

	tm.logger.Printf("[Telemetry] записей: %d", len(tm.data))

	keys := make([]string, 0, len(tm.counters))
	for k := range tm.counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tm.logger.Printf("[Telemetry] %s: %d", k, tm.counters[k])
	}

	if n := len(tm.data); n > 0 {
		s := tm.data[n-1]
		tm.logger.Printf("[Telemetry] %s шаг %d [%s]: позиция (%.3f, %.3f, %.3f), скорость |%.3f|, контакт %v",
			s.Level, s.Step, time.UnixMilli(s.Timestamp).Format("15:04:05.000"),
			s.Position[0], s.Position[1], s.Position[2], s.Speed, s.Contact)
	}

	tm.counters = make(map[string]int)
	tm.lastPrint = now
	return true
}

// JSON телеметрия в JSON формате
func (tm *Manager) JSON() (string, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	jsonData, err := json.MarshalIndent(tm.data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// SetEnabled включает/выключает телеметрию
func (tm *Manager) SetEnabled(enabled bool) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.enabled = enabled
	tm.logger.Printf("[Telemetry] Телеметрия %s", map[bool]string{true: "включена", false: "выключена"}[enabled])
}

// Clear очищает все данные телеметрии
func (tm *Manager) Clear() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.data = make([]Sample, 0)
	tm.counters = make(map[string]int)
}
