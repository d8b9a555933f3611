package main

import (
	"math"
	"reflect"
	"testing"
	"time"

	"fractal-marble/backend/internal/vecmath"
)

func TestSteeringKeys(t *testing.T) {
	s := DefaultSteering

	tests := []struct {
		name   string
		pos    vecmath.Vec
		vel    vecmath.Vec
		target vecmath.Vec
		look   float64
		want   []string
	}{
		{
			name:   "Вперед и вправо",
			target: vecmath.NewVec(5, 0, -5),
			want:   []string{"d", "w"},
		},
		{
			name:   "Высота не влияет",
			target: vecmath.NewVec(0, 10, 0),
			want:   nil,
		},
		{
			name:   "Торможение",
			target: vecmath.NewVec(0.1, 0, 0),
			vel:    vecmath.NewVec(2, 0, 0),
			want:   []string{"a"},
		},
		{
			name:   "Поворот взгляда",
			target: vecmath.NewVec(0, 0, -5),
			look:   math.Pi / 2,
			want:   []string{"d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Keys(tt.pos, tt.vel, tt.target, tt.look)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ожидали %v, получили %v", tt.want, got)
			}
		})
	}
}

func TestDiffKeys(t *testing.T) {
	held := map[string]bool{"w": true, "a": true}
	press, release := diffKeys(held, []string{"w", "d"})

	if !reflect.DeepEqual(press, []string{"d"}) {
		t.Errorf("press: %v", press)
	}
	if !reflect.DeepEqual(release, []string{"a"}) {
		t.Errorf("release: %v", release)
	}
}

func TestBotVelocityEstimate(t *testing.T) {
	b := NewBot("t", "ws://unused", time.Second, time.Second, false)
	start := time.Unix(100, 0)

	b.updatePosition(vecmath.NewVec(0, 0, 0), start)
	if b.vel != vecmath.VecZero {
		t.Errorf("Первое обновление без скорости, получили %v", b.vel)
	}

	b.updatePosition(vecmath.NewVec(1, 0, -2), start.Add(500*time.Millisecond))
	want := vecmath.NewVec(2, 0, -4)
	if b.vel.Sub(want).Len() > 1e-9 {
		t.Errorf("Скорость: ожидали %v, получили %v", want, b.vel)
	}
	if b.Stats.BindingUpdates != 2 {
		t.Errorf("Ожидали 2 обновления, получили %d", b.Stats.BindingUpdates)
	}
}
