package fractal

import (
	"math"
	"testing"

	"fractal-marble/backend/internal/vecmath"
)

func TestOracleFuncAdapter(t *testing.T) {
	called := false
	var o Oracle = OracleFunc(func(_ ShapeParams, p vecmath.Vec) vecmath.Vec {
		called = true
		return p.Mul(2)
	})

	got := o.NearestPoint(ShapeParams{}, vecmath.NewVec(1, 2, 3))
	if !called || !vecmath.VecEqual(got, vecmath.NewVec(2, 4, 6)) {
		t.Errorf("unexpected adapter result %v (called=%v)", got, called)
	}
}

func TestPlaneNearestPoint(t *testing.T) {
	pl := Plane{Point: vecmath.VecZero, Normal: vecmath.NewVec(0, 2, 0)}

	got := pl.NearestPoint(ShapeParams{}, vecmath.NewVec(3, 5, -1))
	if !vecmath.VecEqual(got, vecmath.NewVec(3, 0, -1)) {
		t.Errorf("expected projection (3,0,-1), got %v", got)
	}

	// Смещение формы поднимает плоскость
	got = pl.NearestPoint(ShapeParams{Offset: vecmath.NewVec(0, 1, 0)}, vecmath.NewVec(0, 5, 0))
	if !vecmath.VecEqual(got, vecmath.NewVec(0, 1, 0)) {
		t.Errorf("expected (0,1,0), got %v", got)
	}
}

func TestSphereNearestPoint(t *testing.T) {
	s := Sphere{Center: vecmath.VecZero, Radius: 2}

	got := s.NearestPoint(ShapeParams{Scale: 1}, vecmath.NewVec(0, 10, 0))
	if !vecmath.VecEqual(got, vecmath.NewVec(0, 2, 0)) {
		t.Errorf("expected (0,2,0), got %v", got)
	}

	got = s.NearestPoint(ShapeParams{Scale: 2}, vecmath.NewVec(10, 0, 0))
	if math.Abs(got[0]-4) > 1e-12 {
		t.Errorf("scale должен увеличивать радиус: %v", got)
	}

	got = s.NearestPoint(ShapeParams{Scale: 1}, vecmath.VecZero)
	if math.Abs(got.Len()-2) > 1e-12 {
		t.Errorf("точка из центра должна лежать на поверхности: %v", got)
	}
}

func TestFarAwayIsNeverWithinRadius(t *testing.T) {
	d := FarAway.Sub(vecmath.NewVec(1e9, -1e9, 0)).Len()
	if !(d > 1e300) {
		t.Errorf("expected infinite distance, got %v", d)
	}
}
