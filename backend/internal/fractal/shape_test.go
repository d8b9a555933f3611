package fractal

import (
	"math"
	"testing"

	"fractal-marble/backend/internal/vecmath"
)

func TestAnimateZeroCoefficientIsExactBase(t *testing.T) {
	bases := []float64{0, 1.25, -3, math.Copysign(0, -1)}
	times := []float64{0, 0.5, 1.745, 1e6, math.Inf(1)}

	for _, base := range bases {
		for _, tm := range times {
			got := Animate(base, 0, tm)
			if got != base || math.Signbit(got) != math.Signbit(base) {
				t.Errorf("Animate(%v, 0, %v) = %v, expected exactly base", base, tm, got)
			}
		}
	}
}

func TestAnimateStaysWithinAmplitude(t *testing.T) {
	tests := []struct {
		name string
		base float64
		coef float64
	}{
		{"positive", 2, 0.5},
		{"negative", -1, -0.75},
		{"large", 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amp := math.Abs(tt.coef)
			for i := 0; i < 500; i++ {
				tm := float64(i) * 0.037
				got := Animate(tt.base, tt.coef, tm)
				if got < tt.base-amp-1e-12 || got > tt.base+amp+1e-12 {
					t.Fatalf("t=%v: %v outside [%v, %v]", tm, got, tt.base-amp, tt.base+amp)
				}
			}
		})
	}
}

func TestParameterizeAnimatesOnlyDocumentedFields(t *testing.T) {
	cfg := ShapeConfig{
		Scale:     1.8,
		Angle1:    -0.12,
		Angle2:    0.5,
		Offset:    vecmath.NewVec(-2.12, -2.75, 0.49),
		Animation: vecmath.NewVec(0.1, 0.2, 0.3),
	}

	tm := 1.0
	got := Parameterize(cfg, tm)
	s := math.Sin(tm * AnimationFrequency)

	if got.Scale != cfg.Scale {
		t.Errorf("scale не анимируется: %v", got.Scale)
	}
	if got.Angle1 != cfg.Angle1+0.1*s {
		t.Errorf("angle1: expected %v, got %v", cfg.Angle1+0.1*s, got.Angle1)
	}
	if got.Angle2 != cfg.Angle2+0.2*s {
		t.Errorf("angle2: expected %v, got %v", cfg.Angle2+0.2*s, got.Angle2)
	}
	if got.Offset[0] != cfg.Offset[0] || got.Offset[2] != cfg.Offset[2] {
		t.Errorf("offset x/z must pass through, got %v", got.Offset)
	}
	if got.Offset[1] != cfg.Offset[1]+0.3*s {
		t.Errorf("offset.y: expected %v, got %v", cfg.Offset[1]+0.3*s, got.Offset[1])
	}
}

func TestParameterizerCachesStaticShape(t *testing.T) {
	p := NewParameterizer(ShapeConfig{Scale: 2, Angle1: 1})

	first, changed := p.At(0)
	if !changed {
		t.Error("первое вычисление должно сообщать об изменении")
	}
	second, changed := p.At(42)
	if changed {
		t.Error("статическая форма не должна меняться со временем")
	}
	if !first.Equal(second) {
		t.Errorf("expected %v, got %v", first, second)
	}
}

func TestParameterizerRecomputesAnimatedShape(t *testing.T) {
	p := NewParameterizer(ShapeConfig{Scale: 1, Animation: vecmath.NewVec(0, 0, 1)})

	a, _ := p.At(0)
	b, changed := p.At(1)
	if !changed {
		t.Error("анимированная форма должна измениться при новом t")
	}
	if a.Offset[1] == b.Offset[1] {
		t.Errorf("offset.y should differ between t=0 and t=1")
	}
	if _, changed := p.At(1); changed {
		t.Error("повторный запрос того же t не должен сообщать об изменении")
	}
}
