package physics

import "testing"

func TestPhysicsConfigIsCopied(t *testing.T) {
	orig := GetPhysicsConfig()
	defer SetPhysicsConfig(orig)

	cfg := GetPhysicsConfig()
	cfg.Bounce = 5
	if GetPhysicsConfig().Bounce == 5 {
		t.Error("Изменение копии не должно менять глобальную конфигурацию")
	}

	SetPhysicsConfig(cfg)
	cfg.Bounce = 7
	if got := GetPhysicsConfig().Bounce; got != 5 {
		t.Errorf("Ожидали Bounce 5, получили %v", got)
	}
}

func TestDefaultPhysicsConfig(t *testing.T) {
	cfg := DefaultPhysicsConfig()
	if cfg.Bounce != 1.2 || cfg.ImpulseScale != 0.01 || cfg.Gravity != 0 {
		t.Errorf("Неожиданные значения по умолчанию: %+v", cfg)
	}
}
