package physics

import "sync"

// PhysicsConfig содержит настройки физики шарика
type PhysicsConfig struct {
	// Bounce - коэффициент отскока. 1.0 гасит входящую скорость, больше 1.0 добавляет отскок.
	// Рабочий диапазон 1.0 - 2.0
	Bounce float64

	// ImpulseScale - величина импульса от клавиш движения за один шаг
	ImpulseScale float64

	// ContactEpsilon - расстояние до поверхности, ниже которого направление контакта не определено
	ContactEpsilon float64

	// Gravity - ускорение к поверхности. 0 = гравитация внешняя (по умолчанию)
	Gravity float64
}

// GlobalPhysicsConfig - глобальная конфигурация физики
var GlobalPhysicsConfig *PhysicsConfig
var configMutex sync.RWMutex

// DefaultPhysicsConfig возвращает конфигурацию по умолчанию
func DefaultPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{
		Bounce:         1.2,
		ImpulseScale:   0.01,
		ContactEpsilon: 1e-9,
		Gravity:        0,
	}
}

// GetPhysicsConfig возвращает копию текущей конфигурации физики
func GetPhysicsConfig() *PhysicsConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if GlobalPhysicsConfig == nil {
		return DefaultPhysicsConfig()
	}

	// Создаем копию, чтобы избежать гонок данных
	config := *GlobalPhysicsConfig
	return &config
}

// SetPhysicsConfig устанавливает новую конфигурацию физики
func SetPhysicsConfig(config *PhysicsConfig) {
	configMutex.Lock()
	defer configMutex.Unlock()

	newConfig := *config
	GlobalPhysicsConfig = &newConfig
}

func init() {
	if GlobalPhysicsConfig == nil {
		SetPhysicsConfig(DefaultPhysicsConfig())
	}
}
