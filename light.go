package lantern

import (
	"fmt"
	"math"
)

// Light is a point or cone light for one frame. Lights are rebuilt by the
// caller every frame; a light's index in the frame's registry identifies it
// for the duration of that frame and selects its shadow-map row.
type Light struct {
	// Position is the light's world position.
	Position Vec2
	// Height is the light's out-of-plane distance. Occluders whose height is
	// at or below a light's height do not shadow it.
	Height float64
	// Radius is the maximum reach of the light.
	Radius float64
	// Angle is the facing direction in radians.
	Angle float64
	// AngleSize is the full cone angle in radians. 2π is omnidirectional.
	AngleSize float64
	// FalloffStart is the distance at which the light begins to ramp on;
	// full intensity is reached at twice this distance. Zero disables the
	// ramp.
	FalloffStart float64
	// BackGlow controls how far light bleeds into an occluder past its
	// front edge.
	BackGlow float64
	// Color is the light's linear RGB color. Values above 1 are allowed and
	// act as intensity.
	Color Color
}

// GlobalLightParams are the per-frame global lighting inputs shared by the
// screen-light and compose passes.
type GlobalLightParams struct {
	// Ambient is the light applied everywhere, scaled per object by its
	// ambient scale.
	Ambient Color
	// Gamma is the display gamma used by the compose pass.
	Gamma float64
	// AngleFalloffSize is the soft-edge width of cone lights in radians.
	AngleFalloffSize float64

	// Indirect lighting knobs; see GlobalLightConfig.
	IndirectStart      float64
	IndirectStepFactor float64
	IndirectColorScale float64
	IndirectZ          float64
}

// ObjectLightParams are the per-draw material inputs of the geometry passes.
type ObjectLightParams struct {
	// AmbientScale scales the global ambient for this object. Stored in the
	// G-buffer's albedo alpha channel.
	AmbientScale float64
	// Occlusion marks the object as blocking cone-traced indirect light.
	Occlusion float64
}

// FallOn returns the raised-cosine ramp-up of the light around its start
// distance: 0 out to FalloffStart, reaching 1 at twice FalloffStart. A zero
// FalloffStart means the light is on everywhere. Lamps use this so the
// fixture itself is not blown out.
func (l Light) FallOn(dist float64) float64 {
	t := 1.0
	if l.FalloffStart > 0 {
		t = clamp01(dist/l.FalloffStart - 1)
	}
	return (1 + math.Sin(math.Pi*(1.5+t))) / 2
}

// FrontFalloff returns the radial intensity at the given distance, combining
// the fall-on ramp with a quadratic falloff toward the radius. Zero beyond
// the radius.
func (l Light) FrontFalloff(dist float64) float64 {
	if dist > l.Radius || l.Radius <= 0 {
		return 0
	}
	d := 1 - dist/l.Radius
	return l.FallOn(dist) * d * d
}

// AngularFalloff returns the soft-edged cone attenuation for a point at the
// given polar angle from the light. Omnidirectional lights (AngleSize within
// 0.001 of 2π) always return 1.
func (l Light) AngularFalloff(angle, falloffSize float64) float64 {
	if math.Abs(l.AngleSize-2*math.Pi) < 0.001 {
		return 1
	}
	diff := math.Abs(normalizeAngle(angle - l.Angle))
	toBorder := diff*2 - l.AngleSize + falloffSize
	if toBorder <= 0 {
		return 1
	}
	t := toBorder / falloffSize
	return 2 / (1 + math.Exp(10*t))
}

// IntensityAt returns the unshadowed intensity of the light at p, the
// product of the radial and angular falloffs. This is the CPU twin of the
// screen-light shader's falloff math, usable for gameplay queries such as
// "how lit is this point".
func (l Light) IntensityAt(p Vec2, falloffSize float64) float64 {
	delta := p.Sub(l.Position)
	dist := math.Hypot(delta.X, delta.Y)
	if dist > l.Radius {
		return 0
	}
	angle := math.Atan2(delta.Y, delta.X)
	return l.FrontFalloff(dist) * l.AngularFalloff(angle, falloffSize)
}

// LightRegistry is the bounded, ordered set of lights for the current frame.
// A light's index equals its push order and stays stable for the whole
// frame; the shadow map's row i belongs to light i.
type LightRegistry struct {
	lights []Light
	max    int
}

// newLightRegistry creates a registry with the given capacity.
func newLightRegistry(maxNumLights int) *LightRegistry {
	return &LightRegistry{
		lights: make([]Light, 0, maxNumLights),
		max:    maxNumLights,
	}
}

// Push appends a light and returns its index for this frame. Pushing more
// than the configured maximum corrupts the light-to-row mapping, so it is a
// programmer error and panics.
func (r *LightRegistry) Push(l Light) int {
	if len(r.lights) >= r.max {
		panic(fmt.Sprintf("lantern: light capacity exceeded (max_num_lights = %d)", r.max))
	}
	r.lights = append(r.lights, l)
	return len(r.lights) - 1
}

// Len returns the number of lights pushed this frame.
func (r *LightRegistry) Len() int {
	return len(r.lights)
}

// At returns the light at the given index.
func (r *LightRegistry) At(i int) Light {
	return r.lights[i]
}

// Max returns the registry's capacity.
func (r *LightRegistry) Max() int {
	return r.max
}

// reset clears the registry at the start of a frame's light collection.
func (r *LightRegistry) reset() {
	r.lights = r.lights[:0]
}

// setAll replaces the registry contents with the given lights, panicking on
// overflow like Push.
func (r *LightRegistry) setAll(lights []Light) {
	r.reset()
	for _, l := range lights {
		r.Push(l)
	}
}
