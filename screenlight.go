package lantern

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// screenLightPass accumulates every light's contribution into the screen
// light buffer. Each light is one fan draw with additive blending; the
// shader looks up the light's shadow-map row to decide visibility per
// pixel.
type screenLightPass struct {
	shader *ebiten.Shader
}

func newScreenLightPass() (*screenLightPass, error) {
	shader, err := compileShader("screen light", screenLightShaderSrc)
	if err != nil {
		return nil, err
	}
	return &screenLightPass{shader: shader}, nil
}

func (p *screenLightPass) draw(target, shadowMap, normals *ebiten.Image, lights *LightRegistry, global GlobalLightParams, camera Vec2) {
	for i := 0; i < lights.Len(); i++ {
		light := lights.At(i)
		if light.Radius <= 0 {
			continue
		}
		verts, inds := lightFanVertices(light, camera)

		screenPos := light.Position.Sub(camera)
		op := &ebiten.DrawTrianglesShaderOptions{}
		op.Images[0] = shadowMap
		op.Images[1] = normals
		op.Blend = BlendAdd.EbitenBlend()
		op.Uniforms = map[string]any{
			"LightPos":         []float32{float32(screenPos.X), float32(screenPos.Y)},
			"LightRadius":      float32(light.Radius),
			"LightHeight":      float32(light.Height),
			"LightColor":       []float32{float32(light.Color.R), float32(light.Color.G), float32(light.Color.B), 1},
			"LightAngle":       float32(light.Angle),
			"LightAngleSize":   float32(light.AngleSize),
			"FalloffStart":     float32(light.FalloffStart),
			"BackGlow":         float32(light.BackGlow),
			"LightRow":         float32(i),
			"AngleFalloffSize": float32(global.AngleFalloffSize),
		}
		target.DrawTrianglesShader32(verts, inds, p.shader, op)
	}
}
