package lantern

import (
	"math"
	"testing"
)

func TestFallOn(t *testing.T) {
	l := Light{FalloffStart: 100}
	cases := []struct {
		dist, want float64
	}{
		{0, 0},
		{100, 0},
		{150, 0.5},
		{200, 1},
		{300, 1},
	}
	for _, tc := range cases {
		if got := l.FallOn(tc.dist); !approxEqual(got, tc.want, epsilon) {
			t.Errorf("FallOn(%f) = %f, want %f", tc.dist, got, tc.want)
		}
	}
}

func TestFallOnZeroStart(t *testing.T) {
	l := Light{}
	if got := l.FallOn(0); !approxEqual(got, 1, epsilon) {
		t.Errorf("FallOn(0) with zero start = %f, want 1", got)
	}
}

func TestFrontFalloff(t *testing.T) {
	l := Light{Radius: 300}
	if got := l.FrontFalloff(0); !approxEqual(got, 1, epsilon) {
		t.Errorf("FrontFalloff(0) = %f, want 1", got)
	}
	if got := l.FrontFalloff(100); !approxEqual(got, 4.0/9.0, epsilon) {
		t.Errorf("FrontFalloff(100) = %f, want %f", got, 4.0/9.0)
	}
	if got := l.FrontFalloff(300); !approxEqual(got, 0, epsilon) {
		t.Errorf("FrontFalloff(300) = %f, want 0", got)
	}
	if got := l.FrontFalloff(400); got != 0 {
		t.Errorf("FrontFalloff beyond radius = %f, want 0", got)
	}
}

func TestAngularFalloffOmni(t *testing.T) {
	l := Light{AngleSize: 2 * math.Pi}
	for _, a := range []float64{0, 1, -3, math.Pi} {
		if got := l.AngularFalloff(a, 0.2); got != 1 {
			t.Errorf("AngularFalloff(%f) = %f, want 1", a, got)
		}
	}
}

func TestAngularFalloffCone(t *testing.T) {
	l := Light{Angle: 0, AngleSize: math.Pi / 2}
	inside := l.AngularFalloff(0, 0.1)
	if inside != 1 {
		t.Errorf("falloff at cone center = %f, want 1", inside)
	}
	nearBorder := l.AngularFalloff(math.Pi/4, 0.1)
	outside := l.AngularFalloff(math.Pi/2, 0.1)
	if !(nearBorder > outside) {
		t.Errorf("falloff should decrease past the border: border %f, outside %f", nearBorder, outside)
	}
	if outside > 0.01 {
		t.Errorf("falloff well outside cone = %f, want near 0", outside)
	}
}

func TestAngularFalloffWrapsAngle(t *testing.T) {
	l := Light{Angle: math.Pi - 0.1, AngleSize: math.Pi / 2}
	// same direction expressed across the -π/π seam
	a := l.AngularFalloff(-math.Pi+0.1, 0.1)
	b := l.AngularFalloff(l.Angle+0.2, 0.1)
	if !approxEqual(a, b, epsilon) {
		t.Errorf("falloff across seam = %f, want %f", a, b)
	}

	// extra full turns must not change the result
	c := l.AngularFalloff(l.Angle+0.2+4*math.Pi, 0.1)
	if !approxEqual(c, b, epsilon) {
		t.Errorf("falloff with extra turns = %f, want %f", c, b)
	}
}

func TestIntensityAt(t *testing.T) {
	l := Light{Position: Vec2{100, 100}, Radius: 300, AngleSize: 2 * math.Pi}
	if got := l.IntensityAt(Vec2{500, 100}, 0.2); got != 0 {
		t.Errorf("intensity beyond radius = %f, want 0", got)
	}
	got := l.IntensityAt(Vec2{200, 100}, 0.2)
	if !approxEqual(got, 4.0/9.0, epsilon) {
		t.Errorf("intensity at a third of the radius = %f, want %f", got, 4.0/9.0)
	}
}

// TestShadowedPointScenario mirrors what the GPU passes compute for a
// single light and a single wall: the shadow distance from the ray-segment
// intersection decides whether a point receives the front falloff.
func TestShadowedPointScenario(t *testing.T) {
	light := Light{Position: Vec2{0, 0}, Radius: 300, AngleSize: 2 * math.Pi}
	wall := Line{Vec2{150, -50}, Vec2{150, 50}}

	shadowDistAt := func(p Vec2) float64 {
		angle := math.Atan2(p.Y-light.Position.Y, p.X-light.Position.X)
		dir := Vec2{math.Cos(angle), math.Sin(angle)}.Scaled(light.Radius)
		return RaySegmentIntersection(light.Position, dir, wall.A, wall.B)
	}

	// behind the wall: shadowed
	p := Vec2{200, 0}
	if d := 200.0 / light.Radius; d <= shadowDistAt(p) {
		t.Fatalf("point at 200 should be beyond the shadow distance %f", shadowDistAt(p))
	}

	// in front of the wall: lit with the plain front falloff
	p = Vec2{100, 0}
	if d := 100.0 / light.Radius; d > shadowDistAt(p) {
		t.Fatalf("point at 100 should be within the shadow distance %f", shadowDistAt(p))
	}
	if got := light.IntensityAt(p, 0.2); !approxEqual(got, 4.0/9.0, epsilon) {
		t.Errorf("lit intensity = %f, want %f", got, 4.0/9.0)
	}

	// off to the side: the ray misses the wall entirely
	p = Vec2{0, 200}
	if got := shadowDistAt(p); got != noIntersection {
		t.Errorf("side ray shadow distance = %f, want %f", got, noIntersection)
	}
}

func TestLightRegistryOrder(t *testing.T) {
	r := newLightRegistry(4)
	i0 := r.Push(Light{Radius: 1})
	i1 := r.Push(Light{Radius: 2})
	if i0 != 0 || i1 != 1 {
		t.Errorf("indices = %d,%d, want 0,1", i0, i1)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	if r.At(1).Radius != 2 {
		t.Errorf("At(1).Radius = %f, want 2", r.At(1).Radius)
	}
}

func TestLightRegistryCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when exceeding light capacity")
		}
	}()
	r := newLightRegistry(2)
	r.Push(Light{})
	r.Push(Light{})
	r.Push(Light{})
}
