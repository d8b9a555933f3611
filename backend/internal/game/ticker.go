package game

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"
)

// TickSystem интерфейс для всех игровых систем
type TickSystem interface {
	Update(deltaTime time.Duration) error
	GetName() string
	GetPriority() int // Приоритет выполнения (меньше = раньше)
}

// GameTicker игровой цикл: по таймеру вызывает системы в порядке приоритета
type GameTicker struct {
	// Конфигурация
	targetTPS    int
	tickDuration time.Duration
	maxTickTime  time.Duration

	// Состояние
	mu           sync.RWMutex
	isRunning    bool
	tickCount    uint64
	startTime    time.Time
	lastTickTime time.Time

	// Системы
	systems      []TickSystem
	systemsMutex sync.RWMutex

	perfMonitor *PerformanceMonitor

	// Управление
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Метрики
	averageTickTime time.Duration
	maxObservedTick time.Duration
	skippedTicks    uint64

	logger           *log.Logger
	warningThreshold time.Duration
}

// PerformanceMonitor отслеживает производительность каждой системы
type PerformanceMonitor struct {
	systemMetrics map[string]*SystemMetrics
	mutex         sync.RWMutex

	metricsWindow     int
	warningThreshold  time.Duration
	criticalThreshold time.Duration
}

// SystemMetrics метрики производительности системы
type SystemMetrics struct {
	Name              string
	LastExecutionTime time.Duration
	AverageTime       time.Duration
	MaxTime           time.Duration
	TotalExecutions   uint64
	Errors            uint64

	// Скользящее окно для вычисления среднего
	recentTimes  []time.Duration
	recentIndex  int
	windowFilled bool
}

// TickerStats статистика игрового цикла
type TickerStats struct {
	TargetTPS       int           `json:"target_tps"`
	ActualTPS       float64       `json:"actual_tps"`
	TickCount       uint64        `json:"tick_count"`
	Uptime          time.Duration `json:"uptime"`
	AverageTickTime time.Duration `json:"average_tick_time"`
	MaxObservedTick time.Duration `json:"max_observed_tick"`
	SkippedTicks    uint64        `json:"skipped_ticks"`
	IsRunning       bool          `json:"is_running"`
	Systems         int           `json:"systems"`
}

// NewGameTicker создает игровой цикл. По умолчанию 60 тиков в секунду, как кадры рендерера.
func NewGameTicker(targetTPS int, logger *log.Logger) *GameTicker {
	if targetTPS <= 0 {
		targetTPS = 60
	}
	if logger == nil {
		logger = log.Default()
	}

	tickDuration := time.Second / time.Duration(targetTPS)

	ctx, cancel := context.WithCancel(context.Background())

	return &GameTicker{
		targetTPS:        targetTPS,
		tickDuration:     tickDuration,
		maxTickTime:      tickDuration * 2,
		systems:          make([]TickSystem, 0),
		perfMonitor:      NewPerformanceMonitor(50, tickDuration/4),
		ctx:              ctx,
		cancel:           cancel,
		done:             make(chan struct{}),
		logger:           logger,
		warningThreshold: tickDuration / 2,
	}
}

// NewPerformanceMonitor создает монитор производительности
func NewPerformanceMonitor(windowSize int, warningThreshold time.Duration) *PerformanceMonitor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &PerformanceMonitor{
		systemMetrics:     make(map[string]*SystemMetrics),
		metricsWindow:     windowSize,
		warningThreshold:  warningThreshold,
		criticalThreshold: warningThreshold * 2,
	}
}

// ErrTickerStopped цикл после Stop не перезапускается
var ErrTickerStopped = errors.New("game ticker already stopped")

// Start запускает игровой цикл в отдельной горутине
func (gt *GameTicker) Start() error {
	gt.mu.Lock()
	if gt.isRunning {
		gt.mu.Unlock()
		return nil
	}
	if gt.ctx.Err() != nil {
		gt.mu.Unlock()
		return ErrTickerStopped
	}
	gt.isRunning = true
	gt.startTime = time.Now()
	gt.lastTickTime = gt.startTime
	gt.mu.Unlock()

	gt.logger.Printf("[GameTicker] Запуск игрового цикла: %d TPS (тик каждые %v)",
		gt.targetTPS, gt.tickDuration)

	go gt.gameLoop()
	return nil
}

// Stop останавливает игровой цикл и дожидается его завершения
func (gt *GameTicker) Stop() {
	gt.mu.Lock()
	if !gt.isRunning {
		gt.mu.Unlock()
		return
	}
	gt.isRunning = false
	ticks := gt.tickCount
	gt.mu.Unlock()

	gt.logger.Printf("[GameTicker] Остановка игрового цикла (выполнено тиков: %d)", ticks)

	gt.cancel()
	<-gt.done
}

// RegisterSystem добавляет систему в игровой цикл
func (gt *GameTicker) RegisterSystem(system TickSystem) {
	gt.systemsMutex.Lock()
	defer gt.systemsMutex.Unlock()

	gt.systems = append(gt.systems, system)

	// Стабильная сортировка: при равном приоритете сохраняется порядок регистрации
	sort.SliceStable(gt.systems, func(i, j int) bool {
		return gt.systems[i].GetPriority() < gt.systems[j].GetPriority()
	})

	gt.perfMonitor.initSystemMetrics(system.GetName())

	gt.logger.Printf("[GameTicker] Зарегистрирована система: %s (приоритет: %d)",
		system.GetName(), system.GetPriority())
}

// Systems имена систем в порядке выполнения
func (gt *GameTicker) Systems() []string {
	gt.systemsMutex.RLock()
	defer gt.systemsMutex.RUnlock()

	names := make([]string, len(gt.systems))
	for i, s := range gt.systems {
		names[i] = s.GetName()
	}
	return names
}

func (gt *GameTicker) gameLoop() {
	defer close(gt.done)

	ticker := time.NewTicker(gt.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-gt.ctx.Done():
			return

		case tickTime := <-ticker.C:
			gt.executeTick(tickTime)
		}
	}
}

// Step выполняет один тик вручную с заданным шагом (без таймера)
func (gt *GameTicker) Step(deltaTime time.Duration) {
	gt.mu.Lock()
	gt.tickCount++
	gt.mu.Unlock()

	start := time.Now()
	gt.executeAllSystems(deltaTime)
	gt.updateTickMetrics(time.Since(start))
}

func (gt *GameTicker) executeTick(tickTime time.Time) {
	tickStart := time.Now()

	gt.mu.Lock()
	deltaTime := tickTime.Sub(gt.lastTickTime)
	if deltaTime > gt.tickDuration*2 {
		gt.logger.Printf("[GameTicker] ПРЕДУПРЕЖДЕНИЕ: Большая задержка между тиками: %v (ожидалось: %v)",
			deltaTime, gt.tickDuration)
		gt.skippedTicks++
	}
	gt.tickCount++
	gt.lastTickTime = tickTime
	gt.mu.Unlock()

	gt.executeAllSystems(deltaTime)

	totalTickTime := time.Since(tickStart)
	gt.updateTickMetrics(totalTickTime)
	gt.checkPerformance(totalTickTime)
}

func (gt *GameTicker) executeAllSystems(deltaTime time.Duration) {
	gt.systemsMutex.RLock()
	systems := make([]TickSystem, len(gt.systems))
	copy(systems, gt.systems)
	gt.systemsMutex.RUnlock()

	for _, system := range systems {
		gt.executeSystem(system, deltaTime)
	}
}

// executeSystem выполняет одну систему с замером времени. Паника системы не останавливает цикл.
func (gt *GameTicker) executeSystem(system TickSystem, deltaTime time.Duration) {
	systemStart := time.Now()
	systemName := system.GetName()

	defer func() {
		if r := recover(); r != nil {
			gt.logger.Printf("[GameTicker] КРИТИЧЕСКАЯ ОШИБКА в системе %s: %v", systemName, r)
			gt.perfMonitor.recordError(systemName)
		}
	}()

	err := system.Update(deltaTime)

	gt.perfMonitor.recordExecution(systemName, time.Since(systemStart))

	if err != nil {
		gt.logger.Printf("[GameTicker] Ошибка в системе %s: %v", systemName, err)
		gt.perfMonitor.recordError(systemName)
	}
}

// GetStats статистика игрового цикла
func (gt *GameTicker) GetStats() TickerStats {
	gt.mu.RLock()
	defer gt.mu.RUnlock()

	stats := TickerStats{
		TargetTPS:       gt.targetTPS,
		TickCount:       gt.tickCount,
		AverageTickTime: gt.averageTickTime,
		MaxObservedTick: gt.maxObservedTick,
		SkippedTicks:    gt.skippedTicks,
		IsRunning:       gt.isRunning,
	}
	if !gt.startTime.IsZero() {
		stats.Uptime = time.Since(gt.startTime)
		if secs := stats.Uptime.Seconds(); secs > 0 {
			stats.ActualTPS = float64(gt.tickCount) / secs
		}
	}

	gt.systemsMutex.RLock()
	stats.Systems = len(gt.systems)
	gt.systemsMutex.RUnlock()

	return stats
}

// GetTickCount количество выполненных тиков
func (gt *GameTicker) GetTickCount() uint64 {
	gt.mu.RLock()
	defer gt.mu.RUnlock()
	return gt.tickCount
}

// Monitor монитор производительности систем
func (gt *GameTicker) Monitor() *PerformanceMonitor {
	return gt.perfMonitor
}

func (pm *PerformanceMonitor) initSystemMetrics(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.systemMetrics[systemName] = &SystemMetrics{
		Name:        systemName,
		recentTimes: make([]time.Duration, pm.metricsWindow),
	}
}

func (pm *PerformanceMonitor) recordExecution(systemName string, executionTime time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	metrics, exists := pm.systemMetrics[systemName]
	if !exists {
		return
	}

	metrics.LastExecutionTime = executionTime
	metrics.TotalExecutions++

	if executionTime > metrics.MaxTime {
		metrics.MaxTime = executionTime
	}

	metrics.recentTimes[metrics.recentIndex] = executionTime
	metrics.recentIndex = (metrics.recentIndex + 1) % pm.metricsWindow

	if !metrics.windowFilled && metrics.recentIndex == 0 {
		metrics.windowFilled = true
	}

	pm.recalculateAverage(metrics)
}

func (pm *PerformanceMonitor) recordError(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if metrics, exists := pm.systemMetrics[systemName]; exists {
		metrics.Errors++
	}
}

func (pm *PerformanceMonitor) recalculateAverage(metrics *SystemMetrics) {
	limit := pm.metricsWindow
	if !metrics.windowFilled {
		limit = metrics.recentIndex
	}

	var total time.Duration
	for i := 0; i < limit; i++ {
		total += metrics.recentTimes[i]
	}
	if limit > 0 {
		metrics.AverageTime = total / time.Duration(limit)
	}
}

// System копия метрик системы
func (pm *PerformanceMonitor) System(name string) (SystemMetrics, bool) {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	m, ok := pm.systemMetrics[name]
	if !ok {
		return SystemMetrics{}, false
	}
	out := *m
	out.recentTimes = nil
	return out, true
}

// SlowSystems системы, среднее время которых выше порога предупреждения
func (pm *PerformanceMonitor) SlowSystems() []string {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var slow []string
	for name, m := range pm.systemMetrics {
		if m.AverageTime > pm.warningThreshold {
			slow = append(slow, name)
		}
	}
	sort.Strings(slow)
	return slow
}

func (gt *GameTicker) updateTickMetrics(tickTime time.Duration) {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	if tickTime > gt.maxObservedTick {
		gt.maxObservedTick = tickTime
	}

	// Простое скользящее среднее
	if gt.averageTickTime == 0 {
		gt.averageTickTime = tickTime
	} else {
		gt.averageTickTime = (gt.averageTickTime*9 + tickTime) / 10
	}
}

func (gt *GameTicker) checkPerformance(tickTime time.Duration) {
	if tickTime > gt.maxTickTime {
		gt.logger.Printf("[GameTicker] КРИТИЧЕСКОЕ ПРЕДУПРЕЖДЕНИЕ: Тик превысил максимальное время! %v > %v (цель: %v)",
			tickTime, gt.maxTickTime, gt.tickDuration)
	} else if tickTime > gt.warningThreshold {
		gt.logger.Printf("[GameTicker] ПРЕДУПРЕЖДЕНИЕ: Медленный тик: %v (цель: %v)",
			tickTime, gt.tickDuration)
	}
}
