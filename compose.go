package lantern

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// blurFilter is a Kawase iterative blur using downscale/upscale passes.
// No shader needed, bilinear filtering during DrawImage does the work. The
// indirect-lighting pass uses it to approximate the mip levels cone tracing
// would normally sample.
type blurFilter struct {
	radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

func newBlurFilter(radius int) *blurFilter {
	if radius < 0 {
		radius = 0
	}
	return &blurFilter{radius: radius}
}

func (f *blurFilter) apply(src, dst *ebiten.Image) {
	if f.radius <= 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.Filter = ebiten.FilterNearest
		dst.Clear()
		dst.DrawImage(src, &f.imgOp)
		return
	}

	passes := int(math.Ceil(math.Log2(float64(f.radius))))
	if passes < 1 {
		passes = 1
	}

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	// The downscale chain is reused on the way back up.
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	op := &f.imgOp

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		op.GeoM.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		op.GeoM.Scale(float64(w)/sw, float64(h)/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		op.GeoM.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		tw := float64(f.temps[i].Bounds().Dx())
		th := float64(f.temps[i].Bounds().Dy())
		op.GeoM.Scale(tw/sw, th/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}

	op.GeoM.Reset()
	sw := float64(current.Bounds().Dx())
	sh := float64(current.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.Clear()
	dst.DrawImage(current, op)
}

// indirectBlurRadius is the blur applied to the cone-tracing source
// buffers. Wider blurs stand in for coarser mip levels.
const indirectBlurRadius = 16

// composePass tone-maps the lit scene into the final image, optionally
// adding cone-traced indirect lighting first.
type composePass struct {
	compose         *ebiten.Shader
	composeIndirect *ebiten.Shader
	reflector       *ebiten.Shader
	indirect        *ebiten.Shader

	reflectorTex  *RenderTexture
	occlusionBlur *RenderTexture
	reflectorBlur *RenderTexture
	indirectTex   *RenderTexture
	blur          *blurFilter
}

func newComposePass(cfg Config) (*composePass, error) {
	p := &composePass{
		reflectorTex:  NewRenderTexture(1, 1),
		occlusionBlur: NewRenderTexture(1, 1),
		reflectorBlur: NewRenderTexture(1, 1),
		indirectTex:   NewRenderTexture(1, 1),
		blur:          newBlurFilter(indirectBlurRadius),
	}
	var err error
	if p.compose, err = compileShader("compose", composeShaderSrc); err != nil {
		return nil, err
	}
	if p.composeIndirect, err = compileShader("compose with indirect", composeWithIndirectShaderSrc); err != nil {
		return nil, err
	}
	if p.reflector, err = compileShader("reflector", reflectorShaderSrc); err != nil {
		return nil, err
	}
	if p.indirect, err = compileIndirectShader(cfg.Indirect.NumTracingCones, cfg.Indirect.NumTracingSteps); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *composePass) ensureSize(w, h int) {
	p.reflectorTex.ensureSize(w, h)
	p.occlusionBlur.ensureSize(w, h)
	p.reflectorBlur.ensureSize(w, h)
	p.indirectTex.ensureSize(w, h)
}

func composeUniforms(global GlobalLightParams) map[string]any {
	gamma := global.Gamma
	if gamma <= 0 {
		gamma = 1
	}
	return map[string]any{
		"Ambient": []float32{float32(global.Ambient.R), float32(global.Ambient.G), float32(global.Ambient.B)},
		"Gamma":   float32(gamma),
	}
}

// draw tone-maps albedo and screen light into target.
func (p *composePass) draw(target, albedo, screenLight *ebiten.Image, global GlobalLightParams) {
	w := target.Bounds().Dx()
	h := target.Bounds().Dy()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = albedo
	op.Images[1] = screenLight
	op.Blend = ebiten.BlendCopy
	op.Uniforms = composeUniforms(global)
	target.DrawRectShader(w, h, p.compose, op)
}

// drawWithIndirect cone-traces bounced light before tone mapping.
func (p *composePass) drawWithIndirect(target, albedo, screenLight, normals, occlusion *ebiten.Image, global GlobalLightParams) {
	w := target.Bounds().Dx()
	h := target.Bounds().Dy()
	p.ensureSize(w, h)

	// lit albedo masked to indirect-light emitters
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = albedo
	op.Images[1] = screenLight
	op.Images[2] = occlusion
	op.Blend = ebiten.BlendCopy
	p.reflectorTex.Image().DrawRectShader(w, h, p.reflector, op)

	p.blur.apply(occlusion, p.occlusionBlur.Image())
	p.blur.apply(p.reflectorTex.Image(), p.reflectorBlur.Image())

	op = &ebiten.DrawRectShaderOptions{}
	op.Images[0] = normals
	op.Images[1] = p.occlusionBlur.Image()
	op.Images[2] = p.reflectorBlur.Image()
	op.Blend = ebiten.BlendCopy
	op.Uniforms = map[string]any{
		"IndirectStart":      float32(global.IndirectStart),
		"IndirectStepFactor": float32(global.IndirectStepFactor),
		"IndirectColorScale": float32(global.IndirectColorScale),
		"IndirectZ":          float32(global.IndirectZ),
	}
	p.indirectTex.Image().DrawRectShader(w, h, p.indirect, op)

	op = &ebiten.DrawRectShaderOptions{}
	op.Images[0] = albedo
	op.Images[1] = screenLight
	op.Images[2] = p.indirectTex.Image()
	op.Blend = ebiten.BlendCopy
	op.Uniforms = composeUniforms(global)
	target.DrawRectShader(w, h, p.composeIndirect, op)
}

// Reinhard maps an unbounded linear intensity into [0, 1).
func Reinhard(v float64) float64 {
	return v / (v + 1)
}

// ToneMap applies the compose pass's tone curve on the CPU: Reinhard range
// compression followed by gamma correction.
func ToneMap(v, gamma float64) float64 {
	if gamma <= 0 {
		gamma = 1
	}
	return math.Pow(Reinhard(v), 1/gamma)
}
