package lantern

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pipelinePhase tracks where in the frame the pipeline is. The phases must
// run in order; calling an operation out of phase is a programmer error and
// panics.
type pipelinePhase int

const (
	phaseIdle pipelinePhase = iota
	phaseShadow
	phaseShadowDone
	phaseGeometry
	phaseLit
)

func (p pipelinePhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseShadow:
		return "shadow"
	case phaseShadowDone:
		return "shadow finished"
	case phaseGeometry:
		return "geometry"
	case phaseLit:
		return "lit"
	}
	return "unknown"
}

// LightPipeline renders a dynamically lit 2D scene. A frame runs through
// fixed phases:
//
//	BeginShadowPhase(lights)
//	  DrawOccluders(batch) ...
//	FinishShadowPhase()
//	BeginGeometryPhase(w, h, camera)
//	  DrawColors / DrawSprites / DrawSpritesWithNormals ...
//	BuildScreenLight(global)
//	Compose(target) or ComposeWithIndirect(target)
//
// The shadow phase rasterizes occluders into a per-light polar shadow map.
// The geometry phase records the scene into a G-buffer. BuildScreenLight
// accumulates every light's shadowed contribution, and the compose call
// tone-maps the result.
type LightPipeline struct {
	cfg    Config
	phase  pipelinePhase
	lights *LightRegistry

	shadowMap  *RenderTexture
	gbuffer    *gBuffer
	screenTex  *RenderTexture
	resultTex  *RenderTexture
	shadowPass *shadowMapPass
	lightPass  *screenLightPass
	compose    *composePass

	batch  geometryBatch
	camera Vec2
	global GlobalLightParams
	w, h   int
}

// NewLightPipeline creates a pipeline with the given configuration. Shaders
// are compiled up front; screen-sized buffers are allocated lazily on the
// first geometry phase.
func NewLightPipeline(cfg Config) (*LightPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shadowPass, err := newShadowMapPass(cfg)
	if err != nil {
		return nil, err
	}
	lightPass, err := newScreenLightPass()
	if err != nil {
		return nil, err
	}
	gbuffer, err := newGBuffer()
	if err != nil {
		return nil, err
	}
	compose, err := newComposePass(cfg)
	if err != nil {
		return nil, err
	}
	return &LightPipeline{
		cfg:        cfg,
		lights:     newLightRegistry(cfg.MaxNumLights),
		shadowMap:  NewRenderTexture(cfg.ShadowMapResolution, cfg.MaxNumLights),
		gbuffer:    gbuffer,
		screenTex:  NewRenderTexture(1, 1),
		resultTex:  NewRenderTexture(1, 1),
		shadowPass: shadowPass,
		lightPass:  lightPass,
		compose:    compose,
	}, nil
}

func (p *LightPipeline) requirePhase(want pipelinePhase, op string) {
	if p.phase != want {
		panic("lantern: " + op + " called in " + p.phase.String() + " phase, want " + want.String())
	}
}

// Lights returns the current frame's light registry.
func (p *LightPipeline) Lights() *LightRegistry {
	return p.lights
}

// BeginShadowPhase starts a frame with the given lights. The light slice's
// order fixes each light's index and shadow-map row for the frame; more
// lights than the configured maximum panics. The shadow map is cleared to
// the no-occluder sentinel.
func (p *LightPipeline) BeginShadowPhase(lights []Light) {
	p.requirePhase(phaseIdle, "BeginShadowPhase")
	p.lights.setAll(lights)
	p.shadowMap.Fill(ColorWhite)
	p.phase = phaseShadow
}

// DrawOccluders rasterizes the batch into every light's shadow-map row.
// May be called any number of times between BeginShadowPhase and
// FinishShadowPhase.
func (p *LightPipeline) DrawOccluders(batch *OccluderBatch) {
	p.requirePhase(phaseShadow, "DrawOccluders")
	for i := 0; i < p.lights.Len(); i++ {
		p.shadowPass.draw(p.shadowMap.Image(), p.lights.At(i), i, batch)
	}
}

// FinishShadowPhase ends occluder submission for the frame.
func (p *LightPipeline) FinishShadowPhase() {
	p.requirePhase(phaseShadow, "FinishShadowPhase")
	p.phase = phaseShadowDone
}

// BeginGeometryPhase starts scene submission for a frame of the given size.
// camera may be nil for a fixed view. Screen buffers are recreated when the
// size changes.
func (p *LightPipeline) BeginGeometryPhase(w, h int, camera *Camera) {
	p.requirePhase(phaseShadowDone, "BeginGeometryPhase")
	if w <= 0 || h <= 0 {
		panic("lantern: BeginGeometryPhase with non-positive size")
	}
	p.w, p.h = w, h
	p.camera = Vec2{}
	if camera != nil {
		camera.ViewW = float64(w)
		camera.ViewH = float64(h)
		camera.clampToBounds()
		p.camera = camera.Offset()
	}
	p.gbuffer.ensureSize(w, h)
	p.screenTex.ensureSize(w, h)
	p.resultTex.ensureSize(w, h)
	p.gbuffer.clear()
	p.batch.reset()
	p.phase = phaseGeometry
}

// DrawColors records flat-colored triangles. Positions are in world space;
// z orders draws back to front.
func (p *LightPipeline) DrawColors(verts []ColorVertex, inds []uint32, z float64, params ObjectLightParams) {
	p.requirePhase(phaseGeometry, "DrawColors")
	p.batch.pushColors(verts, inds, z, params)
}

// DrawSprites records textured triangles with a flat implied normal.
func (p *LightPipeline) DrawSprites(texture *ebiten.Image, verts []SpriteVertex, inds []uint32, z float64, params ObjectLightParams) {
	p.requirePhase(phaseGeometry, "DrawSprites")
	if texture == nil {
		panic("lantern: DrawSprites with nil texture")
	}
	p.batch.pushSprites(texture, nil, verts, inds, z, params)
}

// DrawSpritesWithNormals records textured triangles with a normal map. The
// normal map must be the same size as the texture.
func (p *LightPipeline) DrawSpritesWithNormals(texture, normalMap *ebiten.Image, verts []SpriteVertex, inds []uint32, z float64, params ObjectLightParams) {
	p.requirePhase(phaseGeometry, "DrawSpritesWithNormals")
	if texture == nil || normalMap == nil {
		panic("lantern: DrawSpritesWithNormals with nil texture")
	}
	p.batch.pushSprites(texture, normalMap, verts, inds, z, params)
}

// BuildScreenLight ends scene submission, replays the recorded geometry
// into the G-buffer, and accumulates every light's shadowed contribution
// into the screen light buffer.
func (p *LightPipeline) BuildScreenLight(global GlobalLightParams) {
	p.requirePhase(phaseGeometry, "BuildScreenLight")
	p.global = global
	p.gbuffer.replay(&p.batch, p.camera)
	p.screenTex.Clear()
	p.lightPass.draw(p.screenTex.Image(), p.shadowMap.Image(), p.gbuffer.normals.Image(), p.lights, global, p.camera)
	p.phase = phaseLit
}

// Compose tone-maps the lit scene into target and ends the frame. A nil
// target composes into the pipeline's Result buffer.
func (p *LightPipeline) Compose(target *ebiten.Image) {
	p.requirePhase(phaseLit, "Compose")
	if target == nil {
		target = p.resultTex.Image()
	}
	p.compose.draw(target, p.gbuffer.albedo.Image(), p.screenTex.Image(), p.global)
	p.phase = phaseIdle
}

// ComposeWithIndirect is Compose with cone-traced indirect lighting added
// before tone mapping.
func (p *LightPipeline) ComposeWithIndirect(target *ebiten.Image) {
	p.requirePhase(phaseLit, "ComposeWithIndirect")
	if target == nil {
		target = p.resultTex.Image()
	}
	p.compose.drawWithIndirect(
		target,
		p.gbuffer.albedo.Image(),
		p.screenTex.Image(),
		p.gbuffer.normals.Image(),
		p.gbuffer.occlusion.Image(),
		p.global,
	)
	p.phase = phaseIdle
}

// ShadowMap exposes the per-light polar shadow map, mainly for debugging.
// Row i is light i; red holds the nearest front-edge distance and green the
// nearest back-edge distance, both normalized by the light radius.
func (p *LightPipeline) ShadowMap() *ebiten.Image {
	return p.shadowMap.Image()
}

// ScreenAlbedo exposes the G-buffer's albedo target.
func (p *LightPipeline) ScreenAlbedo() *ebiten.Image {
	return p.gbuffer.albedo.Image()
}

// ScreenNormals exposes the G-buffer's normals target.
func (p *LightPipeline) ScreenNormals() *ebiten.Image {
	return p.gbuffer.normals.Image()
}

// ScreenOcclusion exposes the G-buffer's occlusion target.
func (p *LightPipeline) ScreenOcclusion() *ebiten.Image {
	return p.gbuffer.occlusion.Image()
}

// ScreenLight exposes the accumulated light buffer.
func (p *LightPipeline) ScreenLight() *ebiten.Image {
	return p.screenTex.Image()
}

// Result exposes the buffer written by Compose when called with a nil
// target.
func (p *LightPipeline) Result() *ebiten.Image {
	return p.resultTex.Image()
}
